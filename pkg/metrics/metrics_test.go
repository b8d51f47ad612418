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

const day1 = int64(86400 * 19700) // an arbitrary day boundary-aligned base

func TestFirstDeposit(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	s := h.session(t, eventAt(day1+100, 0))
	pool := h.initializedPool(t, s)
	account, err := s.Account(ctx, userOne)
	require.NoError(t, err)

	_, err = account.Deposit(ctx, pool, amounts(100), nil)
	require.NoError(t, err)
	require.NoError(t, pool.AddInputTokenBalances(ctx, amounts(100)))

	acc := h.loadAccountRow(t, userOne)
	assert.Equal(t, int32(1), acc.DepositCount)

	poolRow := h.loadPoolRow(t)
	assert.Equal(t, big.NewInt(100), poolRow.InputTokenBalances[0])
	assert.True(t, poolRow.TotalValueLockedUSD.Equal(decimal.NewFromInt(100)),
		"pool TVL: %s", poolRow.TotalValueLockedUSD)

	proto := h.loadProtocolRow(t)
	assert.True(t, proto.TotalValueLockedUSD.Equal(decimal.NewFromInt(100)),
		"protocol TVL: %s", proto.TotalValueLockedUSD)
	assert.Equal(t, int32(1), proto.CumulativeUniqueUsers)
	assert.Equal(t, int32(1), proto.CumulativeUniqueDepositors)
	assert.Equal(t, int32(1), proto.DepositCount)
	assert.Equal(t, int32(1), proto.TransactionCount)
	assert.Equal(t, int32(1), proto.TotalPoolCount)

	helper := h.loadHelperRow(t)
	assert.Equal(t, int32(1), helper.DailyActiveUsers)
	assert.Equal(t, int32(1), helper.HourlyActiveUsers)
	assert.Equal(t, int32(1), helper.DailyActiveDepositors)
	assert.Equal(t, int32(1), helper.DailyDepositCount)
}

func TestRepeatDepositorIsNotUniqueTwice(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	s := h.session(t, eventAt(day1+100, 0))
	pool := h.initializedPool(t, s)
	account, err := s.Account(ctx, userOne)
	require.NoError(t, err)
	_, err = account.Deposit(ctx, pool, amounts(100), nil)
	require.NoError(t, err)

	// Second deposit, later the same day, fresh session.
	s2 := h.session(t, eventAt(day1+500, 0))
	pool2, err := s2.Pool(ctx, poolID)
	require.NoError(t, err)
	account2, err := s2.Account(ctx, userOne)
	require.NoError(t, err)
	_, err = account2.Deposit(ctx, pool2, amounts(50), nil)
	require.NoError(t, err)

	proto := h.loadProtocolRow(t)
	assert.Equal(t, int32(1), proto.CumulativeUniqueUsers)
	assert.Equal(t, int32(1), proto.CumulativeUniqueDepositors)
	assert.Equal(t, int32(2), proto.DepositCount)

	// Same day and hour, so the activity markers dedup the account.
	helper := h.loadHelperRow(t)
	assert.Equal(t, int32(1), helper.DailyActiveUsers)
	assert.Equal(t, int32(1), helper.HourlyActiveUsers)

	acc := h.loadAccountRow(t, userOne)
	assert.Equal(t, int32(2), acc.DepositCount)
}

func TestSecondAccountCountsAsNewUser(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	s := h.session(t, eventAt(day1+100, 0))
	pool := h.initializedPool(t, s)
	one, err := s.Account(ctx, userOne)
	require.NoError(t, err)
	_, err = one.Deposit(ctx, pool, amounts(10), nil)
	require.NoError(t, err)

	two, err := s.Account(ctx, userTwo)
	require.NoError(t, err)
	_, err = two.Deposit(ctx, pool, amounts(20), nil)
	require.NoError(t, err)

	proto := h.loadProtocolRow(t)
	assert.Equal(t, int32(2), proto.CumulativeUniqueUsers)
	assert.Equal(t, int32(2), proto.CumulativeUniqueDepositors)

	helper := h.loadHelperRow(t)
	assert.Equal(t, int32(2), helper.DailyActiveUsers)

	poolRow := h.loadPoolRow(t)
	assert.Equal(t, int32(2), poolRow.CumulativeUniqueUsers)
}

func TestDepositRejectsMismatchedAmounts(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	s := h.session(t, eventAt(day1+100, 0))
	pool := h.initializedPool(t, s)
	account, err := s.Account(ctx, userOne)
	require.NoError(t, err)

	_, err = account.Deposit(ctx, pool, amounts(1, 2), nil)
	require.ErrorIs(t, err, ErrTokenCountMismatch)

	// Nothing was counted.
	acc := h.loadAccountRow(t, userOne)
	assert.Equal(t, int32(0), acc.DepositCount)
}

func TestUnknownCategoryTagsAreFatal(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	s := h.session(t, eventAt(day1+100, 0))
	protocol, err := s.Protocol(ctx)
	require.NoError(t, err)

	err = protocol.AddTransaction(ctx, schema.TransactionType("STAKE"))
	require.ErrorIs(t, err, schema.ErrUnknownTransactionType)

	_, err = protocol.TrackActivity(ctx, userOne, schema.ActivityType("GAMBLER"))
	require.ErrorIs(t, err, schema.ErrUnknownActivityType)

	err = protocol.AddOpenInterest(ctx, schema.PositionSide("SIDEWAYS"), decimal.NewFromInt(1))
	require.ErrorIs(t, err, schema.ErrUnknownPositionSide)

	pool := h.initializedPool(t, s)
	err = pool.SetFee(ctx, schema.PoolFeeType("EXIT_FEE"), nil)
	require.ErrorIs(t, err, schema.ErrUnknownPoolFeeType)

	_, err = NewSession(Config{ProtocolType: schema.ProtocolType("CDP")}, eventAt(day1, 0))
	require.ErrorIs(t, err, schema.ErrUnknownProtocolType)
}

func TestLiquidationCountsBothSides(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	s := h.session(t, eventAt(day1+100, 0))
	pool := h.initializedPool(t, s)
	liquidator, err := s.Account(ctx, userOne)
	require.NoError(t, err)

	_, err = liquidator.Liquidate(ctx, pool, nil, tokenA, big.NewInt(40), decimal.NewFromInt(4), userTwo)
	require.NoError(t, err)

	proto := h.loadProtocolRow(t)
	assert.Equal(t, int32(1), proto.CumulativeUniqueLiquidators)
	assert.Equal(t, int32(1), proto.CumulativeUniqueLiquidatees)
	// The liquidatee account was created on the fly and counts as a user.
	assert.Equal(t, int32(2), proto.CumulativeUniqueUsers)

	assert.Equal(t, int32(1), h.loadAccountRow(t, userOne).LiquidateCount)
	assert.Equal(t, int32(1), h.loadAccountRow(t, userTwo).LiquidationCount)

	helper := h.loadHelperRow(t)
	assert.Equal(t, int32(1), helper.DailyActiveLiquidators)
	assert.Equal(t, int32(1), helper.DailyActiveLiquidatees)
	assert.Equal(t, int32(2), helper.DailyActiveUsers)
}

func TestRevenueSplitsSumToTotal(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	s := h.session(t, eventAt(day1+100, 0))
	pool := h.initializedPool(t, s)

	require.NoError(t, pool.AddSupplySideRevenue(ctx, decimal.NewFromInt(3)))
	require.NoError(t, pool.AddProtocolSideRevenue(ctx, decimal.NewFromInt(2)))
	require.NoError(t, pool.AddStakeSideRevenue(ctx, decimal.NewFromInt(1)))

	proto := h.loadProtocolRow(t)
	sum := proto.CumulativeSupplySideRevenueUSD.
		Add(proto.CumulativeProtocolSideRevenueUSD).
		Add(proto.CumulativeStakeSideRevenueUSD)
	assert.True(t, proto.CumulativeTotalRevenueUSD.Equal(sum),
		"total %s != sum of splits %s", proto.CumulativeTotalRevenueUSD, sum)
}

func TestRewardEmissionKeepsTripleAligned(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	s := h.session(t, eventAt(day1+100, 0))
	pool := h.initializedPool(t, s)

	// Registered out of order: tokenB first, tokenA second.
	require.NoError(t, pool.SetRewardEmission(ctx, schema.RewardTypeDeposit, tokenB, big.NewInt(200)))
	require.NoError(t, pool.SetRewardEmission(ctx, schema.RewardTypeDeposit, tokenA, big.NewInt(100)))

	poolRow := h.loadPoolRow(t)
	require.Len(t, poolRow.RewardTokens, 2)

	idA := schema.RewardTokenID(schema.RewardTypeDeposit, tokenA)
	idB := schema.RewardTokenID(schema.RewardTypeDeposit, tokenB)
	assert.Equal(t, idA.String(), poolRow.RewardTokens[0].String())
	assert.Equal(t, idB.String(), poolRow.RewardTokens[1].String())

	// Amounts and USD values followed their tokens through the sort.
	assert.Equal(t, big.NewInt(100), poolRow.RewardTokenEmissionsAmount[0])
	assert.Equal(t, big.NewInt(200), poolRow.RewardTokenEmissionsAmount[1])
	assert.True(t, poolRow.RewardTokenEmissionsUSD[0].Equal(decimal.NewFromInt(100)))
	assert.True(t, poolRow.RewardTokenEmissionsUSD[1].Equal(decimal.NewFromInt(400)))
}

func TestRewardEmissionOverwritesExisting(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	s := h.session(t, eventAt(day1+100, 0))
	pool := h.initializedPool(t, s)

	require.NoError(t, pool.SetRewardEmission(ctx, schema.RewardTypeDeposit, tokenA, big.NewInt(100)))
	require.NoError(t, pool.SetRewardEmission(ctx, schema.RewardTypeDeposit, tokenA, big.NewInt(300)))

	poolRow := h.loadPoolRow(t)
	require.Len(t, poolRow.RewardTokens, 1)
	assert.Equal(t, big.NewInt(300), poolRow.RewardTokenEmissionsAmount[0])
}

func TestPoolInitializeOnlyOnce(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	s := h.session(t, eventAt(day1+100, 0))
	pool := h.initializedPool(t, s)

	// Second call must not re-register the pool.
	require.NoError(t, pool.Initialize(ctx, "Other Name", "OTH", []schema.ID{tokenB}, nil))

	poolRow := h.loadPoolRow(t)
	assert.Equal(t, "ETH Market", poolRow.Name)
	assert.Equal(t, int32(1), h.loadProtocolRow(t).TotalPoolCount)
}

func TestPoolFeeUpsert(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	s := h.session(t, eventAt(day1+100, 0))
	pool := h.initializedPool(t, s)

	pct := decimal.NewFromFloat(0.3)
	require.NoError(t, pool.SetFee(ctx, schema.FeeTradingFee, &pct))

	updated := decimal.NewFromFloat(0.25)
	require.NoError(t, pool.SetFee(ctx, schema.FeeTradingFee, &updated))

	poolRow := h.loadPoolRow(t)
	require.Len(t, poolRow.Fees, 1)

	fee := &schema.PoolFee{}
	found, err := h.store.Load(ctx, schema.PoolFeeID(schema.FeeTradingFee, poolID), fee)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, fee.FeePercentage.Equal(updated))
}

func TestNetVolumeTracksFlows(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	s := h.session(t, eventAt(day1+100, 0))
	pool := h.initializedPool(t, s)

	require.NoError(t, pool.AddInflowVolume(ctx, decimal.NewFromInt(70)))
	require.NoError(t, pool.AddOutflowVolume(ctx, decimal.NewFromInt(30)))
	require.NoError(t, pool.AddInflowVolume(ctx, decimal.NewFromInt(5)))

	poolRow := h.loadPoolRow(t)
	assert.True(t, poolRow.NetVolumeUSD.Equal(decimal.NewFromInt(45)),
		"pool net volume: %s", poolRow.NetVolumeUSD)
	assert.True(t, poolRow.NetVolumeUSD.Equal(
		poolRow.CumulativeInflowVolumeUSD.Sub(poolRow.CumulativeOutflowVolumeUSD)))

	proto := h.loadProtocolRow(t)
	assert.True(t, proto.NetVolumeUSD.Equal(decimal.NewFromInt(45)),
		"protocol net volume: %s", proto.NetVolumeUSD)
	assert.True(t, proto.NetVolumeUSD.Equal(
		proto.CumulativeInflowVolumeUSD.Sub(proto.CumulativeOutflowVolumeUSD)))
}

func TestSwapVolumeCascades(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	s := h.session(t, eventAt(day1+100, 0))
	pool := h.initializedPool(t, s)
	account, err := s.Account(ctx, userOne)
	require.NoError(t, err)

	swap, err := account.Swap(ctx, pool, tokenA, big.NewInt(10), tokenB, big.NewInt(5), nil)
	require.NoError(t, err)
	assert.True(t, swap.AmountInUSD.Equal(decimal.NewFromInt(10)))
	assert.True(t, swap.AmountOutUSD.Equal(decimal.NewFromInt(10)))

	require.NoError(t, pool.AddVolume(ctx, swap.AmountInUSD))

	proto := h.loadProtocolRow(t)
	assert.True(t, proto.CumulativeVolumeUSD.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, int32(1), proto.SwapCount)

	poolRow := h.loadPoolRow(t)
	assert.True(t, poolRow.CumulativeVolumeUSD.Equal(decimal.NewFromInt(10)))
}
