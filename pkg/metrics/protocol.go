package metrics

import (
	"context"
	"fmt"

	"github.com/defimetrics-io/defimetrics/pkg/schema"
	"github.com/shopspring/decimal"
)

// Protocol wraps the singleton protocol row and its activity helper. All
// mutations persist immediately; a crash between two accumulator calls loses
// at most the not-yet-applied event.
type Protocol struct {
	s      *Session
	data   *schema.Protocol
	helper *schema.ActivityHelper
}

// Data returns the underlying row for reads. Mutate through the accumulator
// methods only.
func (p *Protocol) Data() *schema.Protocol {
	return p.data
}

func (p *Protocol) save(ctx context.Context) error {
	if err := p.s.store.Save(ctx, p.data.ID, p.data); err != nil {
		return err
	}
	return p.s.store.Save(ctx, p.helper.ID, p.helper)
}

// AddTotalValueLocked moves the protocol TVL by delta, which may be negative.
func (p *Protocol) AddTotalValueLocked(ctx context.Context, delta decimal.Decimal) error {
	p.data.TotalValueLockedUSD = p.data.TotalValueLockedUSD.Add(delta)
	return p.save(ctx)
}

// AddVolume accrues trade volume at protocol level.
func (p *Protocol) AddVolume(ctx context.Context, volumeUSD decimal.Decimal) error {
	p.data.CumulativeVolumeUSD = p.data.CumulativeVolumeUSD.Add(volumeUSD)
	return p.save(ctx)
}

func (p *Protocol) AddInflowVolume(ctx context.Context, volumeUSD decimal.Decimal) error {
	p.data.CumulativeInflowVolumeUSD = p.data.CumulativeInflowVolumeUSD.Add(volumeUSD)
	p.data.NetVolumeUSD = p.data.NetVolumeUSD.Add(volumeUSD)
	return p.save(ctx)
}

func (p *Protocol) AddClosedInflowVolume(ctx context.Context, volumeUSD decimal.Decimal) error {
	p.data.CumulativeClosedInflowVolumeUSD = p.data.CumulativeClosedInflowVolumeUSD.Add(volumeUSD)
	return p.save(ctx)
}

func (p *Protocol) AddOutflowVolume(ctx context.Context, volumeUSD decimal.Decimal) error {
	p.data.CumulativeOutflowVolumeUSD = p.data.CumulativeOutflowVolumeUSD.Add(volumeUSD)
	p.data.NetVolumeUSD = p.data.NetVolumeUSD.Sub(volumeUSD)
	return p.save(ctx)
}

// AddSupplySideRevenue accrues revenue kept by liquidity providers. Total
// revenue moves with every split so the three parts always sum to it.
func (p *Protocol) AddSupplySideRevenue(ctx context.Context, revenueUSD decimal.Decimal) error {
	p.data.CumulativeSupplySideRevenueUSD = p.data.CumulativeSupplySideRevenueUSD.Add(revenueUSD)
	p.data.CumulativeTotalRevenueUSD = p.data.CumulativeTotalRevenueUSD.Add(revenueUSD)
	return p.save(ctx)
}

func (p *Protocol) AddProtocolSideRevenue(ctx context.Context, revenueUSD decimal.Decimal) error {
	p.data.CumulativeProtocolSideRevenueUSD = p.data.CumulativeProtocolSideRevenueUSD.Add(revenueUSD)
	p.data.CumulativeTotalRevenueUSD = p.data.CumulativeTotalRevenueUSD.Add(revenueUSD)
	return p.save(ctx)
}

func (p *Protocol) AddStakeSideRevenue(ctx context.Context, revenueUSD decimal.Decimal) error {
	p.data.CumulativeStakeSideRevenueUSD = p.data.CumulativeStakeSideRevenueUSD.Add(revenueUSD)
	p.data.CumulativeTotalRevenueUSD = p.data.CumulativeTotalRevenueUSD.Add(revenueUSD)
	return p.save(ctx)
}

func (p *Protocol) AddEntryPremium(ctx context.Context, premiumUSD decimal.Decimal) error {
	p.data.CumulativeEntryPremiumUSD = p.data.CumulativeEntryPremiumUSD.Add(premiumUSD)
	p.data.CumulativeTotalPremiumUSD = p.data.CumulativeTotalPremiumUSD.Add(premiumUSD)
	return p.save(ctx)
}

func (p *Protocol) AddExitPremium(ctx context.Context, premiumUSD decimal.Decimal) error {
	p.data.CumulativeExitPremiumUSD = p.data.CumulativeExitPremiumUSD.Add(premiumUSD)
	p.data.CumulativeTotalPremiumUSD = p.data.CumulativeTotalPremiumUSD.Add(premiumUSD)
	return p.save(ctx)
}

func (p *Protocol) AddDepositPremium(ctx context.Context, premiumUSD decimal.Decimal) error {
	p.data.CumulativeDepositPremiumUSD = p.data.CumulativeDepositPremiumUSD.Add(premiumUSD)
	p.data.CumulativeTotalLiquidityPremiumUSD = p.data.CumulativeTotalLiquidityPremiumUSD.Add(premiumUSD)
	return p.save(ctx)
}

func (p *Protocol) AddWithdrawPremium(ctx context.Context, premiumUSD decimal.Decimal) error {
	p.data.CumulativeWithdrawPremiumUSD = p.data.CumulativeWithdrawPremiumUSD.Add(premiumUSD)
	p.data.CumulativeTotalLiquidityPremiumUSD = p.data.CumulativeTotalLiquidityPremiumUSD.Add(premiumUSD)
	return p.save(ctx)
}

// AddOpenInterest moves the side's open interest by delta and keeps the
// total in step.
func (p *Protocol) AddOpenInterest(ctx context.Context, side schema.PositionSide, delta decimal.Decimal) error {
	switch side {
	case schema.SideLong:
		p.data.LongOpenInterestUSD = p.data.LongOpenInterestUSD.Add(delta)
	case schema.SideShort:
		p.data.ShortOpenInterestUSD = p.data.ShortOpenInterestUSD.Add(delta)
	default:
		return fmt.Errorf("protocol %s: %w: %q", p.data.ID, schema.ErrUnknownPositionSide, side)
	}
	p.data.TotalOpenInterestUSD = p.data.TotalOpenInterestUSD.Add(delta)
	return p.save(ctx)
}

// AddUser records a never-before-seen account.
func (p *Protocol) AddUser(ctx context.Context) error {
	p.data.CumulativeUniqueUsers++
	return p.save(ctx)
}

func (p *Protocol) AddDepositor(ctx context.Context) error {
	p.data.CumulativeUniqueDepositors++
	return p.save(ctx)
}

func (p *Protocol) AddBorrower(ctx context.Context) error {
	p.data.CumulativeUniqueBorrowers++
	return p.save(ctx)
}

func (p *Protocol) AddLiquidator(ctx context.Context) error {
	p.data.CumulativeUniqueLiquidators++
	return p.save(ctx)
}

func (p *Protocol) AddLiquidatee(ctx context.Context) error {
	p.data.CumulativeUniqueLiquidatees++
	return p.save(ctx)
}

// AddPool records a newly initialized pool under the protocol.
func (p *Protocol) AddPool(ctx context.Context) error {
	p.data.TotalPoolCount++
	return p.save(ctx)
}

// AddTransaction bumps the per-kind transaction counters at cumulative and
// in-period (helper) level. Unknown kinds abort the event before anything is
// touched.
func (p *Protocol) AddTransaction(ctx context.Context, typ schema.TransactionType) error {
	if !typ.Valid() {
		return fmt.Errorf("protocol %s: %w: %q", p.data.ID, schema.ErrUnknownTransactionType, typ)
	}

	switch typ {
	case schema.TxDeposit:
		p.data.DepositCount++
		p.helper.DailyDepositCount++
		p.helper.HourlyDepositCount++
	case schema.TxWithdraw:
		p.data.WithdrawCount++
		p.helper.DailyWithdrawCount++
		p.helper.HourlyWithdrawCount++
	case schema.TxSwap:
		p.data.SwapCount++
		p.helper.DailySwapCount++
		p.helper.HourlySwapCount++
	case schema.TxBorrow:
		p.data.BorrowCount++
		p.helper.DailyBorrowCount++
		p.helper.HourlyBorrowCount++
	case schema.TxCollateralIn:
		p.data.CollateralInCount++
	case schema.TxCollateralOut:
		p.data.CollateralOutCount++
	}

	p.data.TransactionCount++
	p.helper.DailyTransactionCount++
	p.helper.HourlyTransactionCount++
	return p.save(ctx)
}

func (p *Protocol) openPosition(ctx context.Context, side schema.PositionSide) error {
	switch side {
	case schema.SideLong:
		p.data.LongPositionCount++
	case schema.SideShort:
		p.data.ShortPositionCount++
	default:
		return fmt.Errorf("protocol %s: %w: %q", p.data.ID, schema.ErrUnknownPositionSide, side)
	}
	p.data.OpenPositionCount++
	p.data.CumulativePositionCount++
	return p.save(ctx)
}

func (p *Protocol) closePosition(ctx context.Context, side schema.PositionSide) error {
	switch side {
	case schema.SideLong:
		p.data.LongPositionCount--
	case schema.SideShort:
		p.data.ShortPositionCount--
	default:
		return fmt.Errorf("protocol %s: %w: %q", p.data.ID, schema.ErrUnknownPositionSide, side)
	}
	p.data.OpenPositionCount--
	p.data.ClosedPositionCount++
	return p.save(ctx)
}
