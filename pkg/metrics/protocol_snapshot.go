package metrics

import (
	"context"

	"github.com/defimetrics-io/defimetrics/pkg/event"
	"github.com/defimetrics-io/defimetrics/pkg/schema"
	"go.uber.org/zap"
)

// takeSnapshots closes any day or hour that ended between the last recorded
// update and the current event. It runs on load, before the event's own
// mutations, so the rows capture the state the period actually ended with.
// The previous snapshot is read through the stored last-snapshot index
// first; only then is the index moved to the period being closed.
func (p *Protocol) takeSnapshots(ctx context.Context) error {
	if p.data.LastUpdateTimestamp == 0 {
		return nil
	}

	lastDay := p.data.LastUpdateTimestamp / event.SecondsPerDay
	lastHour := p.data.LastUpdateTimestamp / event.SecondsPerHour

	if p.s.event.Days() != lastDay {
		if err := p.takeFinancialsDailySnapshot(ctx, lastDay); err != nil {
			return err
		}
		if err := p.takeUsageDailySnapshot(ctx, lastDay); err != nil {
			return err
		}
		p.data.LastSnapshotDayID = lastDay
	}
	if p.s.event.Hours() != lastHour {
		if err := p.takeUsageHourlySnapshot(ctx, lastHour); err != nil {
			return err
		}
		p.data.LastSnapshotHourID = lastHour
	}
	return nil
}

func (p *Protocol) takeFinancialsDailySnapshot(ctx context.Context, day int64) error {
	var prev *schema.FinancialsDailySnapshot
	if p.data.LastSnapshotDayID != 0 {
		loaded := &schema.FinancialsDailySnapshot{}
		found, err := p.s.store.Load(ctx, schema.FinancialsDailySnapshotID(p.data.ID, p.data.LastSnapshotDayID), loaded)
		if err != nil {
			return err
		}
		if found {
			prev = loaded
		}
	}

	d := p.data
	snap := &schema.FinancialsDailySnapshot{
		ID:         schema.FinancialsDailySnapshotID(d.ID, day),
		ProtocolID: d.ID,
		Day:        day,

		TotalValueLockedUSD:  d.TotalValueLockedUSD,
		LongOpenInterestUSD:  d.LongOpenInterestUSD,
		ShortOpenInterestUSD: d.ShortOpenInterestUSD,
		TotalOpenInterestUSD: d.TotalOpenInterestUSD,

		CumulativeVolumeUSD:             d.CumulativeVolumeUSD,
		CumulativeInflowVolumeUSD:       d.CumulativeInflowVolumeUSD,
		CumulativeClosedInflowVolumeUSD: d.CumulativeClosedInflowVolumeUSD,
		CumulativeOutflowVolumeUSD:      d.CumulativeOutflowVolumeUSD,
		NetVolumeUSD:                    d.NetVolumeUSD,

		CumulativeSupplySideRevenueUSD:   d.CumulativeSupplySideRevenueUSD,
		CumulativeProtocolSideRevenueUSD: d.CumulativeProtocolSideRevenueUSD,
		CumulativeStakeSideRevenueUSD:    d.CumulativeStakeSideRevenueUSD,
		CumulativeTotalRevenueUSD:        d.CumulativeTotalRevenueUSD,

		CumulativeEntryPremiumUSD: d.CumulativeEntryPremiumUSD,
		CumulativeExitPremiumUSD:  d.CumulativeExitPremiumUSD,
		CumulativeTotalPremiumUSD: d.CumulativeTotalPremiumUSD,

		CumulativeDepositPremiumUSD:        d.CumulativeDepositPremiumUSD,
		CumulativeWithdrawPremiumUSD:       d.CumulativeWithdrawPremiumUSD,
		CumulativeTotalLiquidityPremiumUSD: d.CumulativeTotalLiquidityPremiumUSD,
	}

	if prev == nil {
		snap.DailyVolumeUSD = d.CumulativeVolumeUSD
		snap.DailyInflowVolumeUSD = d.CumulativeInflowVolumeUSD
		snap.DailyClosedInflowVolumeUSD = d.CumulativeClosedInflowVolumeUSD
		snap.DailyOutflowVolumeUSD = d.CumulativeOutflowVolumeUSD
		snap.DailySupplySideRevenueUSD = d.CumulativeSupplySideRevenueUSD
		snap.DailyProtocolSideRevenueUSD = d.CumulativeProtocolSideRevenueUSD
		snap.DailyStakeSideRevenueUSD = d.CumulativeStakeSideRevenueUSD
		snap.DailyTotalRevenueUSD = d.CumulativeTotalRevenueUSD
		snap.DailyEntryPremiumUSD = d.CumulativeEntryPremiumUSD
		snap.DailyExitPremiumUSD = d.CumulativeExitPremiumUSD
		snap.DailyTotalPremiumUSD = d.CumulativeTotalPremiumUSD
		snap.DailyDepositPremiumUSD = d.CumulativeDepositPremiumUSD
		snap.DailyWithdrawPremiumUSD = d.CumulativeWithdrawPremiumUSD
		snap.DailyTotalLiquidityPremiumUSD = d.CumulativeTotalLiquidityPremiumUSD
	} else {
		snap.DailyVolumeUSD = d.CumulativeVolumeUSD.Sub(prev.CumulativeVolumeUSD)
		snap.DailyInflowVolumeUSD = d.CumulativeInflowVolumeUSD.Sub(prev.CumulativeInflowVolumeUSD)
		snap.DailyClosedInflowVolumeUSD = d.CumulativeClosedInflowVolumeUSD.Sub(prev.CumulativeClosedInflowVolumeUSD)
		snap.DailyOutflowVolumeUSD = d.CumulativeOutflowVolumeUSD.Sub(prev.CumulativeOutflowVolumeUSD)
		snap.DailySupplySideRevenueUSD = d.CumulativeSupplySideRevenueUSD.Sub(prev.CumulativeSupplySideRevenueUSD)
		snap.DailyProtocolSideRevenueUSD = d.CumulativeProtocolSideRevenueUSD.Sub(prev.CumulativeProtocolSideRevenueUSD)
		snap.DailyStakeSideRevenueUSD = d.CumulativeStakeSideRevenueUSD.Sub(prev.CumulativeStakeSideRevenueUSD)
		snap.DailyTotalRevenueUSD = d.CumulativeTotalRevenueUSD.Sub(prev.CumulativeTotalRevenueUSD)
		snap.DailyEntryPremiumUSD = d.CumulativeEntryPremiumUSD.Sub(prev.CumulativeEntryPremiumUSD)
		snap.DailyExitPremiumUSD = d.CumulativeExitPremiumUSD.Sub(prev.CumulativeExitPremiumUSD)
		snap.DailyTotalPremiumUSD = d.CumulativeTotalPremiumUSD.Sub(prev.CumulativeTotalPremiumUSD)
		snap.DailyDepositPremiumUSD = d.CumulativeDepositPremiumUSD.Sub(prev.CumulativeDepositPremiumUSD)
		snap.DailyWithdrawPremiumUSD = d.CumulativeWithdrawPremiumUSD.Sub(prev.CumulativeWithdrawPremiumUSD)
		snap.DailyTotalLiquidityPremiumUSD = d.CumulativeTotalLiquidityPremiumUSD.Sub(prev.CumulativeTotalLiquidityPremiumUSD)
	}

	if err := p.s.store.Save(ctx, snap.ID, snap); err != nil {
		return err
	}
	if p.s.snapshots != nil {
		if err := p.s.snapshots.WriteFinancialsDaily(ctx, snap); err != nil {
			return err
		}
	}
	p.s.logger.Debug("Closed daily financials period",
		zap.String("protocol", d.ID.String()),
		zap.Int64("day", day))
	return nil
}

func (p *Protocol) takeUsageDailySnapshot(ctx context.Context, day int64) error {
	var prev *schema.UsageDailySnapshot
	if p.data.LastSnapshotDayID != 0 {
		loaded := &schema.UsageDailySnapshot{}
		found, err := p.s.store.Load(ctx, schema.UsageDailySnapshotID(p.data.ID, p.data.LastSnapshotDayID), loaded)
		if err != nil {
			return err
		}
		if found {
			prev = loaded
		}
	}

	d := p.data
	h := p.helper
	snap := &schema.UsageDailySnapshot{
		ID:         schema.UsageDailySnapshotID(d.ID, day),
		ProtocolID: d.ID,
		Day:        day,

		DailyActiveUsers:      h.DailyActiveUsers,
		CumulativeUniqueUsers: d.CumulativeUniqueUsers,

		DailyActiveDepositors:      h.DailyActiveDepositors,
		CumulativeUniqueDepositors: d.CumulativeUniqueDepositors,

		DailyActiveBorrowers:      h.DailyActiveBorrowers,
		CumulativeUniqueBorrowers: d.CumulativeUniqueBorrowers,

		DailyActiveLiquidators:      h.DailyActiveLiquidators,
		CumulativeUniqueLiquidators: d.CumulativeUniqueLiquidators,

		DailyActiveLiquidatees:      h.DailyActiveLiquidatees,
		CumulativeUniqueLiquidatees: d.CumulativeUniqueLiquidatees,

		LongPositionCount:       d.LongPositionCount,
		ShortPositionCount:      d.ShortPositionCount,
		OpenPositionCount:       d.OpenPositionCount,
		ClosedPositionCount:     d.ClosedPositionCount,
		CumulativePositionCount: d.CumulativePositionCount,

		DailyTransactionCount: h.DailyTransactionCount,
		DailyDepositCount:     h.DailyDepositCount,
		DailyWithdrawCount:    h.DailyWithdrawCount,
		DailyBorrowCount:      h.DailyBorrowCount,
		DailySwapCount:        h.DailySwapCount,

		CumulativeCollateralIn:  d.CollateralInCount,
		CumulativeCollateralOut: d.CollateralOutCount,

		TotalPoolCount: d.TotalPoolCount,
	}

	if prev == nil {
		snap.DailyLongPositionCount = d.LongPositionCount
		snap.DailyShortPositionCount = d.ShortPositionCount
		snap.DailyOpenPositionCount = d.OpenPositionCount
		snap.DailyClosedPositionCount = d.ClosedPositionCount
		snap.DailyCumulativePositionCount = d.CumulativePositionCount
		snap.DailyCollateralIn = d.CollateralInCount
		snap.DailyCollateralOut = d.CollateralOutCount
	} else {
		snap.DailyLongPositionCount = d.LongPositionCount - prev.LongPositionCount
		snap.DailyShortPositionCount = d.ShortPositionCount - prev.ShortPositionCount
		snap.DailyOpenPositionCount = d.OpenPositionCount - prev.OpenPositionCount
		snap.DailyClosedPositionCount = d.ClosedPositionCount - prev.ClosedPositionCount
		snap.DailyCumulativePositionCount = d.CumulativePositionCount - prev.CumulativePositionCount
		snap.DailyCollateralIn = d.CollateralInCount - prev.CumulativeCollateralIn
		snap.DailyCollateralOut = d.CollateralOutCount - prev.CumulativeCollateralOut
	}

	if err := p.s.store.Save(ctx, snap.ID, snap); err != nil {
		return err
	}
	if p.s.snapshots != nil {
		if err := p.s.snapshots.WriteUsageDaily(ctx, snap); err != nil {
			return err
		}
	}

	h.DailyActiveUsers = 0
	h.DailyActiveDepositors = 0
	h.DailyActiveBorrowers = 0
	h.DailyActiveLiquidators = 0
	h.DailyActiveLiquidatees = 0
	h.DailyTransactionCount = 0
	h.DailyDepositCount = 0
	h.DailyWithdrawCount = 0
	h.DailyBorrowCount = 0
	h.DailySwapCount = 0
	return p.s.store.Save(ctx, h.ID, h)
}

func (p *Protocol) takeUsageHourlySnapshot(ctx context.Context, hour int64) error {
	d := p.data
	h := p.helper
	snap := &schema.UsageHourlySnapshot{
		ID:         schema.UsageHourlySnapshotID(d.ID, hour),
		ProtocolID: d.ID,
		Hour:       hour,

		HourlyActiveUsers:     h.HourlyActiveUsers,
		CumulativeUniqueUsers: d.CumulativeUniqueUsers,

		HourlyTransactionCount: h.HourlyTransactionCount,
		HourlyDepositCount:     h.HourlyDepositCount,
		HourlyWithdrawCount:    h.HourlyWithdrawCount,
		HourlyBorrowCount:      h.HourlyBorrowCount,
		HourlySwapCount:        h.HourlySwapCount,
	}

	if err := p.s.store.Save(ctx, snap.ID, snap); err != nil {
		return err
	}
	if p.s.snapshots != nil {
		if err := p.s.snapshots.WriteUsageHourly(ctx, snap); err != nil {
			return err
		}
	}

	h.HourlyActiveUsers = 0
	h.HourlyTransactionCount = 0
	h.HourlyDepositCount = 0
	h.HourlyWithdrawCount = 0
	h.HourlyBorrowCount = 0
	h.HourlySwapCount = 0
	return p.s.store.Save(ctx, h.ID, h)
}
