package tokens

import (
	"context"
	"testing"

	"github.com/defimetrics-io/defimetrics/pkg/schema"
	"github.com/defimetrics-io/defimetrics/pkg/store/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type countingInit struct {
	calls int
}

func (c *countingInit) TokenParams(_ context.Context, _ schema.ID) (TokenParams, error) {
	c.calls++
	return TokenParams{Name: "Wrapped Ether", Symbol: "WETH", Decimals: 18}, nil
}

func TestGetOrCreateInitializesOnce(t *testing.T) {
	init := &countingInit{}
	reg := NewRegistry(memstore.New(), init, zaptest.NewLogger(t))
	ctx := context.Background()
	addr := schema.ID{0xaa}

	token, err := reg.GetOrCreate(ctx, addr)
	require.NoError(t, err)
	assert.Equal(t, "WETH", token.Symbol)
	assert.Equal(t, uint8(18), token.Decimals)

	_, err = reg.GetOrCreate(ctx, addr)
	require.NoError(t, err)
	assert.Equal(t, 1, init.calls, "metadata must be fetched once per address")
}

func TestGetOrCreateReward(t *testing.T) {
	reg := NewRegistry(memstore.New(), &countingInit{}, zaptest.NewLogger(t))
	ctx := context.Background()
	addr := schema.ID{0xaa}

	reward, err := reg.GetOrCreateReward(ctx, schema.RewardTypeDeposit, addr)
	require.NoError(t, err)
	assert.Equal(t, schema.RewardTypeDeposit, reward.Type)
	assert.Equal(t, addr.String(), reward.TokenID.String())
	assert.Equal(t, schema.RewardTokenID(schema.RewardTypeDeposit, addr).String(), reward.ID.String())

	// Same type and address resolves to the same row; a different type is a
	// distinct reward token over the same underlying asset.
	same, err := reg.GetOrCreateReward(ctx, schema.RewardTypeDeposit, addr)
	require.NoError(t, err)
	assert.Equal(t, reward.ID.String(), same.ID.String())

	other, err := reg.GetOrCreateReward(ctx, schema.RewardTypeBorrow, addr)
	require.NoError(t, err)
	assert.NotEqual(t, reward.ID.String(), other.ID.String())
}

func TestGetOrCreateRewardRejectsUnknownType(t *testing.T) {
	reg := NewRegistry(memstore.New(), &countingInit{}, zaptest.NewLogger(t))

	_, err := reg.GetOrCreateReward(context.Background(), schema.RewardTokenType("STAKING"), schema.ID{0xaa})
	require.ErrorIs(t, err, schema.ErrUnknownRewardTokenType)
}
