package metrics

import (
	"context"
	"fmt"
	"math/big"

	"github.com/defimetrics-io/defimetrics/pkg/schema"
	"github.com/defimetrics-io/defimetrics/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Pool wraps one market row. Every mutation that changes a pool-scoped total
// cascades the same delta to the owning protocol in the same call, which is
// what keeps the two levels consistent without reconciliation.
type Pool struct {
	s        *Session
	protocol *Protocol
	data     *schema.Pool
}

func (p *Pool) Data() *schema.Pool {
	return p.data
}

func (p *Pool) save(ctx context.Context) error {
	return p.s.store.Save(ctx, p.data.ID, p.data)
}

// Initialize sets the immutable pool parameters. The first call wins and
// counts the pool at protocol level; later calls are no-ops so handlers may
// call it unconditionally.
func (p *Pool) Initialize(ctx context.Context, name, symbol string, inputTokens []schema.ID, outputToken schema.ID) error {
	if p.data.IsInitialized {
		return nil
	}

	for _, addr := range inputTokens {
		if _, err := p.s.tokens.GetOrCreate(ctx, addr); err != nil {
			return err
		}
	}
	if len(outputToken) > 0 {
		if _, err := p.s.tokens.GetOrCreate(ctx, outputToken); err != nil {
			return err
		}
	}

	p.data.IsInitialized = true
	p.data.Name = name
	p.data.Symbol = symbol
	p.data.InputTokens = inputTokens
	p.data.InputTokenBalances = make([]*big.Int, len(inputTokens))
	for i := range p.data.InputTokenBalances {
		p.data.InputTokenBalances[i] = new(big.Int)
	}
	p.data.OutputToken = outputToken

	if err := p.save(ctx); err != nil {
		return err
	}
	p.s.logger.Info("Initialized pool",
		zap.String("pool", p.data.ID.String()),
		zap.String("name", name))
	return p.protocol.AddPool(ctx)
}

// SetInputTokenBalances replaces the tracked balances and re-derives the
// pool's TVL from them, cascading the TVL delta to the protocol.
func (p *Pool) SetInputTokenBalances(ctx context.Context, balances []*big.Int) error {
	if len(balances) != len(p.data.InputTokens) {
		return fmt.Errorf("pool %s: %w: %d tokens, %d balances",
			p.data.ID, ErrTokenCountMismatch, len(p.data.InputTokens), len(balances))
	}
	p.data.InputTokenBalances = balances
	return p.RefreshTotalValueLocked(ctx)
}

// AddInputTokenBalances moves each tracked balance by its delta and
// re-derives TVL.
func (p *Pool) AddInputTokenBalances(ctx context.Context, deltas []*big.Int) error {
	if len(deltas) != len(p.data.InputTokens) {
		return fmt.Errorf("pool %s: %w: %d tokens, %d deltas",
			p.data.ID, ErrTokenCountMismatch, len(p.data.InputTokens), len(deltas))
	}
	for i, delta := range deltas {
		if delta == nil {
			continue
		}
		if p.data.InputTokenBalances[i] == nil {
			p.data.InputTokenBalances[i] = new(big.Int)
		}
		p.data.InputTokenBalances[i] = new(big.Int).Add(p.data.InputTokenBalances[i], delta)
	}
	return p.RefreshTotalValueLocked(ctx)
}

// RefreshTotalValueLocked reprices the tracked balances and replaces the
// pool's TVL with the result. The protocol receives the difference.
func (p *Pool) RefreshTotalValueLocked(ctx context.Context) error {
	tvl := decimal.Zero
	for i, addr := range p.data.InputTokens {
		token, err := p.s.tokens.GetOrCreate(ctx, addr)
		if err != nil {
			return err
		}
		tvl = tvl.Add(p.s.pricer.AmountValueUSD(token, p.data.InputTokenBalances[i]))
	}
	return p.SetTotalValueLocked(ctx, tvl)
}

// SetTotalValueLocked replaces the pool TVL outright, for venues that report
// it directly instead of per-token balances.
func (p *Pool) SetTotalValueLocked(ctx context.Context, tvlUSD decimal.Decimal) error {
	delta := tvlUSD.Sub(p.data.TotalValueLockedUSD)
	p.data.TotalValueLockedUSD = tvlUSD
	if err := p.save(ctx); err != nil {
		return err
	}
	return p.protocol.AddTotalValueLocked(ctx, delta)
}

func (p *Pool) AddVolume(ctx context.Context, volumeUSD decimal.Decimal) error {
	p.data.CumulativeVolumeUSD = p.data.CumulativeVolumeUSD.Add(volumeUSD)
	if err := p.save(ctx); err != nil {
		return err
	}
	return p.protocol.AddVolume(ctx, volumeUSD)
}

func (p *Pool) AddInflowVolume(ctx context.Context, volumeUSD decimal.Decimal) error {
	p.data.CumulativeInflowVolumeUSD = p.data.CumulativeInflowVolumeUSD.Add(volumeUSD)
	p.data.NetVolumeUSD = p.data.NetVolumeUSD.Add(volumeUSD)
	if err := p.save(ctx); err != nil {
		return err
	}
	return p.protocol.AddInflowVolume(ctx, volumeUSD)
}

func (p *Pool) AddClosedInflowVolume(ctx context.Context, volumeUSD decimal.Decimal) error {
	p.data.CumulativeClosedInflowVolumeUSD = p.data.CumulativeClosedInflowVolumeUSD.Add(volumeUSD)
	if err := p.save(ctx); err != nil {
		return err
	}
	return p.protocol.AddClosedInflowVolume(ctx, volumeUSD)
}

func (p *Pool) AddOutflowVolume(ctx context.Context, volumeUSD decimal.Decimal) error {
	p.data.CumulativeOutflowVolumeUSD = p.data.CumulativeOutflowVolumeUSD.Add(volumeUSD)
	p.data.NetVolumeUSD = p.data.NetVolumeUSD.Sub(volumeUSD)
	if err := p.save(ctx); err != nil {
		return err
	}
	return p.protocol.AddOutflowVolume(ctx, volumeUSD)
}

func (p *Pool) AddSupplySideRevenue(ctx context.Context, revenueUSD decimal.Decimal) error {
	p.data.CumulativeSupplySideRevenueUSD = p.data.CumulativeSupplySideRevenueUSD.Add(revenueUSD)
	p.data.CumulativeTotalRevenueUSD = p.data.CumulativeTotalRevenueUSD.Add(revenueUSD)
	if err := p.save(ctx); err != nil {
		return err
	}
	return p.protocol.AddSupplySideRevenue(ctx, revenueUSD)
}

func (p *Pool) AddProtocolSideRevenue(ctx context.Context, revenueUSD decimal.Decimal) error {
	p.data.CumulativeProtocolSideRevenueUSD = p.data.CumulativeProtocolSideRevenueUSD.Add(revenueUSD)
	p.data.CumulativeTotalRevenueUSD = p.data.CumulativeTotalRevenueUSD.Add(revenueUSD)
	if err := p.save(ctx); err != nil {
		return err
	}
	return p.protocol.AddProtocolSideRevenue(ctx, revenueUSD)
}

func (p *Pool) AddStakeSideRevenue(ctx context.Context, revenueUSD decimal.Decimal) error {
	p.data.CumulativeStakeSideRevenueUSD = p.data.CumulativeStakeSideRevenueUSD.Add(revenueUSD)
	p.data.CumulativeTotalRevenueUSD = p.data.CumulativeTotalRevenueUSD.Add(revenueUSD)
	if err := p.save(ctx); err != nil {
		return err
	}
	return p.protocol.AddStakeSideRevenue(ctx, revenueUSD)
}

// AddEntryPremium accrues an entry premium at pool, protocol, and account
// level in one move. The other premium kinds follow the same shape.
func (p *Pool) AddEntryPremium(ctx context.Context, account *Account, premiumUSD decimal.Decimal) error {
	p.data.CumulativeEntryPremiumUSD = p.data.CumulativeEntryPremiumUSD.Add(premiumUSD)
	p.data.CumulativeTotalPremiumUSD = p.data.CumulativeTotalPremiumUSD.Add(premiumUSD)
	if err := p.save(ctx); err != nil {
		return err
	}
	if err := p.protocol.AddEntryPremium(ctx, premiumUSD); err != nil {
		return err
	}
	return account.addEntryPremium(ctx, premiumUSD)
}

func (p *Pool) AddExitPremium(ctx context.Context, account *Account, premiumUSD decimal.Decimal) error {
	p.data.CumulativeExitPremiumUSD = p.data.CumulativeExitPremiumUSD.Add(premiumUSD)
	p.data.CumulativeTotalPremiumUSD = p.data.CumulativeTotalPremiumUSD.Add(premiumUSD)
	if err := p.save(ctx); err != nil {
		return err
	}
	if err := p.protocol.AddExitPremium(ctx, premiumUSD); err != nil {
		return err
	}
	return account.addExitPremium(ctx, premiumUSD)
}

func (p *Pool) AddDepositPremium(ctx context.Context, account *Account, premiumUSD decimal.Decimal) error {
	p.data.CumulativeDepositPremiumUSD = p.data.CumulativeDepositPremiumUSD.Add(premiumUSD)
	p.data.CumulativeTotalLiquidityPremiumUSD = p.data.CumulativeTotalLiquidityPremiumUSD.Add(premiumUSD)
	if err := p.save(ctx); err != nil {
		return err
	}
	if err := p.protocol.AddDepositPremium(ctx, premiumUSD); err != nil {
		return err
	}
	return account.addDepositPremium(ctx, premiumUSD)
}

func (p *Pool) AddWithdrawPremium(ctx context.Context, account *Account, premiumUSD decimal.Decimal) error {
	p.data.CumulativeWithdrawPremiumUSD = p.data.CumulativeWithdrawPremiumUSD.Add(premiumUSD)
	p.data.CumulativeTotalLiquidityPremiumUSD = p.data.CumulativeTotalLiquidityPremiumUSD.Add(premiumUSD)
	if err := p.save(ctx); err != nil {
		return err
	}
	if err := p.protocol.AddWithdrawPremium(ctx, premiumUSD); err != nil {
		return err
	}
	return account.addWithdrawPremium(ctx, premiumUSD)
}

func (p *Pool) AddOpenInterest(ctx context.Context, side schema.PositionSide, delta decimal.Decimal) error {
	switch side {
	case schema.SideLong:
		p.data.LongOpenInterestUSD = p.data.LongOpenInterestUSD.Add(delta)
	case schema.SideShort:
		p.data.ShortOpenInterestUSD = p.data.ShortOpenInterestUSD.Add(delta)
	default:
		return fmt.Errorf("pool %s: %w: %q", p.data.ID, schema.ErrUnknownPositionSide, side)
	}
	p.data.TotalOpenInterestUSD = p.data.TotalOpenInterestUSD.Add(delta)
	if err := p.save(ctx); err != nil {
		return err
	}
	return p.protocol.AddOpenInterest(ctx, side, delta)
}

// SetOutputTokenSupply updates the LP token supply.
func (p *Pool) SetOutputTokenSupply(ctx context.Context, supply *big.Int) error {
	p.data.OutputTokenSupply = supply
	return p.save(ctx)
}

func (p *Pool) SetOutputTokenPrice(ctx context.Context, priceUSD decimal.Decimal) error {
	p.data.OutputTokenPriceUSD = priceUSD
	return p.save(ctx)
}

func (p *Pool) SetStakedOutputTokenAmount(ctx context.Context, amount *big.Int) error {
	p.data.StakedOutputTokenAmount = amount
	return p.save(ctx)
}

// SetRewardEmission records the per-day emission of one reward token. The
// token list stays sorted ascending by token identifier; the amount and USD
// slices are permuted alongside it so the triple stays index-aligned.
func (p *Pool) SetRewardEmission(ctx context.Context, typ schema.RewardTokenType, token schema.ID, amountPerDay *big.Int) error {
	reward, err := p.s.tokens.GetOrCreateReward(ctx, typ, token)
	if err != nil {
		return err
	}
	meta, err := p.s.tokens.GetOrCreate(ctx, token)
	if err != nil {
		return err
	}
	amountUSD := p.s.pricer.AmountValueUSD(meta, amountPerDay)

	for i, existing := range p.data.RewardTokens {
		if existing.String() == reward.ID.String() {
			p.data.RewardTokenEmissionsAmount[i] = amountPerDay
			p.data.RewardTokenEmissionsUSD[i] = amountUSD
			return p.save(ctx)
		}
	}

	unsorted := append(p.data.RewardTokens, reward.ID)
	amounts := append(p.data.RewardTokenEmissionsAmount, amountPerDay)
	usd := append(p.data.RewardTokenEmissionsUSD, amountUSD)

	sorted := utils.SortBytes(unsorted)
	p.data.RewardTokens = sorted
	p.data.RewardTokenEmissionsAmount = utils.SortByReference(sorted, unsorted, amounts)
	p.data.RewardTokenEmissionsUSD = utils.SortByReference(sorted, unsorted, usd)
	return p.save(ctx)
}

// SetFee upserts one typed fee record for the pool.
func (p *Pool) SetFee(ctx context.Context, typ schema.PoolFeeType, percentage *decimal.Decimal) error {
	if !typ.Valid() {
		return fmt.Errorf("pool %s: %w: %q", p.data.ID, schema.ErrUnknownPoolFeeType, typ)
	}

	id := schema.PoolFeeID(typ, p.data.ID)
	fee := &schema.PoolFee{ID: id, Type: typ, FeePercentage: percentage}
	if err := p.s.store.Save(ctx, id, fee); err != nil {
		return err
	}

	for _, existing := range p.data.Fees {
		if existing.String() == id.String() {
			return nil
		}
	}
	p.data.Fees = append(p.data.Fees, id)
	return p.save(ctx)
}

// countUser bumps the pool's unique-user counter the first time an account
// touches this pool, using a permanent marker for the dedup.
func (p *Pool) countUser(ctx context.Context, account schema.ID) error {
	created, err := p.s.store.CreateMarker(ctx, schema.PoolUserMarkerID(p.data.ID, account))
	if err != nil {
		return err
	}
	if !created {
		return nil
	}
	p.data.CumulativeUniqueUsers++
	return p.save(ctx)
}

func (p *Pool) addDepositor(ctx context.Context) error {
	p.data.CumulativeUniqueDepositors++
	return p.save(ctx)
}

func (p *Pool) addBorrower(ctx context.Context) error {
	p.data.CumulativeUniqueBorrowers++
	return p.save(ctx)
}

func (p *Pool) addLiquidator(ctx context.Context) error {
	p.data.CumulativeUniqueLiquidators++
	return p.save(ctx)
}

func (p *Pool) addLiquidatee(ctx context.Context) error {
	p.data.CumulativeUniqueLiquidatees++
	return p.save(ctx)
}

func (p *Pool) openPosition(ctx context.Context, side schema.PositionSide) error {
	switch side {
	case schema.SideLong:
		p.data.LongPositionCount++
	case schema.SideShort:
		p.data.ShortPositionCount++
	default:
		return fmt.Errorf("pool %s: %w: %q", p.data.ID, schema.ErrUnknownPositionSide, side)
	}
	p.data.OpenPositionCount++
	p.data.CumulativePositionCount++
	if err := p.save(ctx); err != nil {
		return err
	}
	return p.protocol.openPosition(ctx, side)
}

func (p *Pool) closePosition(ctx context.Context, side schema.PositionSide) error {
	switch side {
	case schema.SideLong:
		p.data.LongPositionCount--
	case schema.SideShort:
		p.data.ShortPositionCount--
	default:
		return fmt.Errorf("pool %s: %w: %q", p.data.ID, schema.ErrUnknownPositionSide, side)
	}
	p.data.OpenPositionCount--
	p.data.ClosedPositionCount++
	if err := p.save(ctx); err != nil {
		return err
	}
	return p.protocol.closePosition(ctx, side)
}
