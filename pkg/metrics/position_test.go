package metrics

import (
	"context"
	"math/big"
	"testing"

	"github.com/defimetrics-io/defimetrics/pkg/schema"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (h *harness) openedPosition(t *testing.T, s *Session, user schema.ID, side schema.PositionSide, ref []byte) (*Pool, *Account, *Position) {
	t.Helper()
	ctx := context.Background()
	pool := h.initializedPool(t, s)
	account, err := s.Account(ctx, user)
	require.NoError(t, err)
	position, err := s.Position(ctx, pool, account, tokenA, tokenA, side, ref)
	require.NoError(t, err)
	return pool, account, position
}

func assertSideInvariant(t *testing.T, long, short, open int32) {
	t.Helper()
	assert.Equal(t, open, long+short, "long %d + short %d must equal open %d", long, short, open)
}

func TestOpenPositionCascadesCounts(t *testing.T) {
	h := newHarness()

	s := h.session(t, eventAt(day1+100, 0))
	_, _, position := h.openedPosition(t, s, userOne, schema.SideLong, []byte{0x01})

	assert.False(t, position.Data().Closed())
	assert.Equal(t, day1+100, position.Data().TimestampOpened)

	proto := h.loadProtocolRow(t)
	assert.Equal(t, int32(1), proto.LongPositionCount)
	assert.Equal(t, int32(1), proto.OpenPositionCount)
	assert.Equal(t, int32(1), proto.CumulativePositionCount)
	assertSideInvariant(t, proto.LongPositionCount, proto.ShortPositionCount, proto.OpenPositionCount)

	poolRow := h.loadPoolRow(t)
	assertSideInvariant(t, poolRow.LongPositionCount, poolRow.ShortPositionCount, poolRow.OpenPositionCount)

	acc := h.loadAccountRow(t, userOne)
	assertSideInvariant(t, acc.LongPositionCount, acc.ShortPositionCount, acc.OpenPositionCount)
}

func TestSideInvariantAcrossMixedPositions(t *testing.T) {
	h := newHarness()

	s := h.session(t, eventAt(day1+100, 0))
	h.openedPosition(t, s, userOne, schema.SideLong, []byte{0x01})

	s2 := h.session(t, eventAt(day1+200, 1))
	h.openedPosition(t, s2, userTwo, schema.SideShort, []byte{0x02})

	proto := h.loadProtocolRow(t)
	assert.Equal(t, int32(1), proto.LongPositionCount)
	assert.Equal(t, int32(1), proto.ShortPositionCount)
	assertSideInvariant(t, proto.LongPositionCount, proto.ShortPositionCount, proto.OpenPositionCount)
}

func TestClosePosition(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	s := h.session(t, eventAt(day1+100, 0))
	_, _, position := h.openedPosition(t, s, userOne, schema.SideLong, []byte{0x01})

	pnl := decimal.NewFromInt(12)
	require.NoError(t, position.Close(ctx, nil, &pnl))
	assert.True(t, position.Data().Closed())

	proto := h.loadProtocolRow(t)
	assert.Equal(t, int32(0), proto.LongPositionCount)
	assert.Equal(t, int32(0), proto.OpenPositionCount)
	assert.Equal(t, int32(1), proto.ClosedPositionCount)
	assert.Equal(t, int32(1), proto.CumulativePositionCount)
	assertSideInvariant(t, proto.LongPositionCount, proto.ShortPositionCount, proto.OpenPositionCount)

	acc := h.loadAccountRow(t, userOne)
	assert.Equal(t, int32(1), acc.ClosedPositionCount)
	assert.Equal(t, int32(0), acc.OpenPositionCount)
}

// Replayed close events must not drive the open count negative.
func TestCloseIsIdempotent(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	s := h.session(t, eventAt(day1+100, 0))
	_, _, position := h.openedPosition(t, s, userOne, schema.SideLong, []byte{0x01})

	require.NoError(t, position.Close(ctx, nil, nil))
	require.NoError(t, position.Close(ctx, nil, nil))

	proto := h.loadProtocolRow(t)
	assert.Equal(t, int32(1), proto.ClosedPositionCount)
	assert.Equal(t, int32(0), proto.OpenPositionCount)
}

// The same on-chain reference resolves to the same row; a new reference for
// the same identity advances the counter and yields a fresh row.
func TestPositionCounterDisambiguates(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	s := h.session(t, eventAt(day1+100, 0))
	pool, account, first := h.openedPosition(t, s, userOne, schema.SideLong, []byte{0x01})

	again, err := s.Position(ctx, pool, account, tokenA, tokenA, schema.SideLong, []byte{0x01})
	require.NoError(t, err)
	assert.Equal(t, first.Data().ID.String(), again.Data().ID.String())

	require.NoError(t, first.Close(ctx, nil, nil))

	fresh, err := s.Position(ctx, pool, account, tokenA, tokenA, schema.SideLong, []byte{0x02})
	require.NoError(t, err)
	assert.NotEqual(t, first.Data().ID.String(), fresh.Data().ID.String())

	proto := h.loadProtocolRow(t)
	assert.Equal(t, int32(2), proto.CumulativePositionCount)
	assert.Equal(t, int32(1), proto.OpenPositionCount)
	assert.Equal(t, int32(1), proto.ClosedPositionCount)
}

func TestPositionBalancesReprice(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	s := h.session(t, eventAt(day1+100, 0))
	_, _, position := h.openedPosition(t, s, userOne, schema.SideLong, []byte{0x01})

	require.NoError(t, position.SetBalance(ctx, big.NewInt(10)))
	require.NoError(t, position.SetCollateralBalance(ctx, big.NewInt(4)))

	data := position.Data()
	assert.True(t, data.BalanceUSD.Equal(decimal.NewFromInt(10)))
	assert.True(t, data.CollateralBalanceUSD.Equal(decimal.NewFromInt(4)))
}

func TestPositionRejectsUnknownSide(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	s := h.session(t, eventAt(day1+100, 0))
	pool := h.initializedPool(t, s)
	account, err := s.Account(ctx, userOne)
	require.NoError(t, err)

	_, err = s.Position(ctx, pool, account, tokenA, tokenA, schema.PositionSide("FLAT"), []byte{0x01})
	require.ErrorIs(t, err, schema.ErrUnknownPositionSide)
}

func TestOpenInterestCascades(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	s := h.session(t, eventAt(day1+100, 0))
	pool := h.initializedPool(t, s)

	require.NoError(t, pool.AddOpenInterest(ctx, schema.SideLong, decimal.NewFromInt(100)))
	require.NoError(t, pool.AddOpenInterest(ctx, schema.SideShort, decimal.NewFromInt(40)))
	require.NoError(t, pool.AddOpenInterest(ctx, schema.SideLong, decimal.NewFromInt(-30)))

	proto := h.loadProtocolRow(t)
	assert.True(t, proto.LongOpenInterestUSD.Equal(decimal.NewFromInt(70)))
	assert.True(t, proto.ShortOpenInterestUSD.Equal(decimal.NewFromInt(40)))
	assert.True(t, proto.TotalOpenInterestUSD.Equal(decimal.NewFromInt(110)))

	poolRow := h.loadPoolRow(t)
	assert.True(t, poolRow.TotalOpenInterestUSD.Equal(decimal.NewFromInt(110)))
}
