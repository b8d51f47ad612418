package metrics

import (
	"context"
	"math/big"
	"testing"

	"github.com/defimetrics-io/defimetrics/pkg/event"
	"github.com/defimetrics-io/defimetrics/pkg/network"
	"github.com/defimetrics-io/defimetrics/pkg/pricer"
	"github.com/defimetrics-io/defimetrics/pkg/schema"
	"github.com/defimetrics-io/defimetrics/pkg/store/memstore"
	"github.com/defimetrics-io/defimetrics/pkg/tokens"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var (
	protocolID = schema.ID("perp-v1")
	poolID     = schema.ID("market-eth")
	tokenA     = schema.ID{0xaa}
	tokenB     = schema.ID{0xbb}
	userOne    = schema.ID{0x01}
	userTwo    = schema.ID{0x02}
)

// staticTokens resolves every address to a zero-decimals token so amounts
// read as whole units in assertions.
type staticTokens struct{}

func (staticTokens) TokenParams(_ context.Context, address schema.ID) (tokens.TokenParams, error) {
	return tokens.TokenParams{Name: "Token " + address.String(), Symbol: "TKN", Decimals: 0}, nil
}

type harness struct {
	store  *memstore.Store
	pricer *pricer.Fixed
}

func newHarness() *harness {
	px := pricer.NewFixed()
	px.SetPrice(tokenA, decimal.NewFromInt(1))
	px.SetPrice(tokenB, decimal.NewFromInt(2))
	return &harness{store: memstore.New(), pricer: px}
}

// session builds the per-event unit of work the way a host's event handler
// would, one per decoded event.
func (h *harness) session(t *testing.T, evt event.Context) *Session {
	t.Helper()
	logger := zaptest.NewLogger(t)
	s, err := NewSession(Config{
		Logger:       logger,
		Store:        h.store,
		Pricer:       h.pricer,
		Tokens:       tokens.NewRegistry(h.store, staticTokens{}, logger),
		ProtocolID:   protocolID,
		Name:         "Perp V1",
		Slug:         "perp-v1",
		Network:      network.Mainnet,
		ProtocolType: schema.ProtocolTypePerpetual,
	}, evt)
	require.NoError(t, err)
	return s
}

func eventAt(ts int64, logIndex uint32) event.Context {
	return event.Context{
		BlockNumber: uint64(ts / 12),
		Timestamp:   ts,
		TxHash:      []byte{0xfe, 0xed, byte(logIndex), byte(ts)},
		LogIndex:    logIndex,
	}
}

// initializedPool loads the pool through a fresh protocol load and runs the
// one-time initialization.
func (h *harness) initializedPool(t *testing.T, s *Session) *Pool {
	t.Helper()
	pool, err := s.Pool(context.Background(), poolID)
	require.NoError(t, err)
	require.NoError(t, pool.Initialize(context.Background(), "ETH Market", "ETH", []schema.ID{tokenA}, nil))
	return pool
}

func (h *harness) loadProtocolRow(t *testing.T) *schema.Protocol {
	t.Helper()
	row := &schema.Protocol{}
	found, err := h.store.Load(context.Background(), protocolID, row)
	require.NoError(t, err)
	require.True(t, found)
	return row
}

func (h *harness) loadPoolRow(t *testing.T) *schema.Pool {
	t.Helper()
	row := &schema.Pool{}
	found, err := h.store.Load(context.Background(), poolID, row)
	require.NoError(t, err)
	require.True(t, found)
	return row
}

func (h *harness) loadHelperRow(t *testing.T) *schema.ActivityHelper {
	t.Helper()
	row := &schema.ActivityHelper{}
	found, err := h.store.Load(context.Background(), schema.ActivityHelperID(protocolID), row)
	require.NoError(t, err)
	require.True(t, found)
	return row
}

func (h *harness) loadAccountRow(t *testing.T, id schema.ID) *schema.Account {
	t.Helper()
	row := &schema.Account{}
	found, err := h.store.Load(context.Background(), id, row)
	require.NoError(t, err)
	require.True(t, found)
	return row
}

func amounts(vs ...int64) []*big.Int {
	out := make([]*big.Int, len(vs))
	for i, v := range vs {
		out[i] = big.NewInt(v)
	}
	return out
}
