package metrics

import (
	"context"

	"github.com/defimetrics-io/defimetrics/pkg/event"
	"github.com/defimetrics-io/defimetrics/pkg/schema"
)

// takeSnapshots mirrors the protocol boundary check at pool scope: one
// financial rollup row per closed day and per closed hour, deltas computed
// against the previous row of the same granularity through the stored index.
func (p *Pool) takeSnapshots(ctx context.Context) error {
	if p.data.LastUpdateTimestamp == 0 {
		return nil
	}

	lastDay := p.data.LastUpdateTimestamp / event.SecondsPerDay
	lastHour := p.data.LastUpdateTimestamp / event.SecondsPerHour

	if p.s.event.Days() != lastDay {
		var prevID schema.ID
		if p.data.LastSnapshotDayID != 0 {
			prevID = schema.PoolDailySnapshotID(p.data.ID, p.data.LastSnapshotDayID)
		}
		snapID := schema.PoolDailySnapshotID(p.data.ID, lastDay)
		if err := p.takeSnapshot(ctx, snapID, prevID, schema.IntervalDaily, lastDay); err != nil {
			return err
		}
		p.data.LastSnapshotDayID = lastDay
	}
	if p.s.event.Hours() != lastHour {
		var prevID schema.ID
		if p.data.LastSnapshotHourID != 0 {
			prevID = schema.PoolHourlySnapshotID(p.data.ID, p.data.LastSnapshotHourID)
		}
		snapID := schema.PoolHourlySnapshotID(p.data.ID, lastHour)
		if err := p.takeSnapshot(ctx, snapID, prevID, schema.IntervalHourly, lastHour); err != nil {
			return err
		}
		p.data.LastSnapshotHourID = lastHour
	}
	return nil
}

func (p *Pool) takeSnapshot(ctx context.Context, id, prevID schema.ID, interval string, bucket int64) error {
	var prev *schema.PoolSnapshot
	if prevID != nil {
		loaded := &schema.PoolSnapshot{}
		found, err := p.s.store.Load(ctx, prevID, loaded)
		if err != nil {
			return err
		}
		if found {
			prev = loaded
		}
	}

	d := p.data
	snap := &schema.PoolSnapshot{
		ID:       id,
		PoolID:   d.ID,
		Interval: interval,
		Bucket:   bucket,

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
		CumulativeTotalRevenueUSD:        d.CumulativeTotalRevenueUSD,

		CumulativeEntryPremiumUSD: d.CumulativeEntryPremiumUSD,
		CumulativeExitPremiumUSD:  d.CumulativeExitPremiumUSD,
		CumulativeTotalPremiumUSD: d.CumulativeTotalPremiumUSD,

		InputTokenBalances:  d.InputTokenBalances,
		OutputTokenSupply:   d.OutputTokenSupply,
		OutputTokenPriceUSD: d.OutputTokenPriceUSD,

		RewardTokens:               d.RewardTokens,
		RewardTokenEmissionsAmount: d.RewardTokenEmissionsAmount,
		RewardTokenEmissionsUSD:    d.RewardTokenEmissionsUSD,
	}

	if prev == nil {
		snap.DeltaVolumeUSD = d.CumulativeVolumeUSD
		snap.DeltaInflowVolumeUSD = d.CumulativeInflowVolumeUSD
		snap.DeltaClosedInflowVolumeUSD = d.CumulativeClosedInflowVolumeUSD
		snap.DeltaOutflowVolumeUSD = d.CumulativeOutflowVolumeUSD
		snap.DeltaSupplySideRevenueUSD = d.CumulativeSupplySideRevenueUSD
		snap.DeltaProtocolSideRevenueUSD = d.CumulativeProtocolSideRevenueUSD
		snap.DeltaTotalRevenueUSD = d.CumulativeTotalRevenueUSD
		snap.DeltaEntryPremiumUSD = d.CumulativeEntryPremiumUSD
		snap.DeltaExitPremiumUSD = d.CumulativeExitPremiumUSD
		snap.DeltaTotalPremiumUSD = d.CumulativeTotalPremiumUSD
	} else {
		snap.DeltaVolumeUSD = d.CumulativeVolumeUSD.Sub(prev.CumulativeVolumeUSD)
		snap.DeltaInflowVolumeUSD = d.CumulativeInflowVolumeUSD.Sub(prev.CumulativeInflowVolumeUSD)
		snap.DeltaClosedInflowVolumeUSD = d.CumulativeClosedInflowVolumeUSD.Sub(prev.CumulativeClosedInflowVolumeUSD)
		snap.DeltaOutflowVolumeUSD = d.CumulativeOutflowVolumeUSD.Sub(prev.CumulativeOutflowVolumeUSD)
		snap.DeltaSupplySideRevenueUSD = d.CumulativeSupplySideRevenueUSD.Sub(prev.CumulativeSupplySideRevenueUSD)
		snap.DeltaProtocolSideRevenueUSD = d.CumulativeProtocolSideRevenueUSD.Sub(prev.CumulativeProtocolSideRevenueUSD)
		snap.DeltaTotalRevenueUSD = d.CumulativeTotalRevenueUSD.Sub(prev.CumulativeTotalRevenueUSD)
		snap.DeltaEntryPremiumUSD = d.CumulativeEntryPremiumUSD.Sub(prev.CumulativeEntryPremiumUSD)
		snap.DeltaExitPremiumUSD = d.CumulativeExitPremiumUSD.Sub(prev.CumulativeExitPremiumUSD)
		snap.DeltaTotalPremiumUSD = d.CumulativeTotalPremiumUSD.Sub(prev.CumulativeTotalPremiumUSD)
	}

	if err := p.s.store.Save(ctx, snap.ID, snap); err != nil {
		return err
	}
	if p.s.snapshots != nil {
		return p.s.snapshots.WritePoolSnapshot(ctx, snap)
	}
	return nil
}
