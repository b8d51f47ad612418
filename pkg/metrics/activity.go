package metrics

import (
	"context"
	"fmt"

	"github.com/defimetrics-io/defimetrics/pkg/schema"
)

// TrackActivity records that account acted during the event's hour and day.
// Markers dedup per period: only the call that creates a marker counts the
// account as active, so the second action of the same hour or day is a
// no-op. The generic markers feed the hourly and daily active-user counters;
// a non-empty typ additionally feeds that kind's daily active counter. An
// unknown kind aborts the event before any marker is created.
func (p *Protocol) TrackActivity(ctx context.Context, account schema.ID, typ schema.ActivityType) (schema.WasActive, error) {
	if typ != "" && !typ.Valid() {
		return schema.WasActive{}, fmt.Errorf("account %s: %w: %q", account, schema.ErrUnknownActivityType, typ)
	}

	hour := p.s.event.Hours()
	day := p.s.event.Days()

	hourlyID := schema.ActivityMarkerID(account, schema.IntervalHourly, hour, "")
	newHourly, err := p.s.store.CreateMarker(ctx, hourlyID)
	if err != nil {
		return schema.WasActive{}, err
	}
	if newHourly {
		p.helper.HourlyActiveUsers++
	}

	dailyID := schema.ActivityMarkerID(account, schema.IntervalDaily, day, "")
	newDaily, err := p.s.store.CreateMarker(ctx, dailyID)
	if err != nil {
		return schema.WasActive{}, err
	}
	if newDaily {
		p.helper.DailyActiveUsers++
	}

	newTypedDaily := false
	if typ != "" {
		typedDailyID := schema.ActivityMarkerID(account, schema.IntervalDaily, day, typ)
		newTypedDaily, err = p.s.store.CreateMarker(ctx, typedDailyID)
		if err != nil {
			return schema.WasActive{}, err
		}
		if newTypedDaily {
			switch typ {
			case schema.ActivityDeposit:
				p.helper.DailyActiveDepositors++
			case schema.ActivityBorrow:
				p.helper.DailyActiveBorrowers++
			case schema.ActivityLiquidator:
				p.helper.DailyActiveLiquidators++
			case schema.ActivityLiquidatee:
				p.helper.DailyActiveLiquidatees++
			}
		}

		// The typed hourly marker is kept for parity with the generic one
		// even though no hourly by-kind counter consumes it yet.
		typedHourlyID := schema.ActivityMarkerID(account, schema.IntervalHourly, hour, typ)
		if _, err := p.s.store.CreateMarker(ctx, typedHourlyID); err != nil {
			return schema.WasActive{}, err
		}
	}

	if newHourly || newDaily || newTypedDaily {
		if err := p.save(ctx); err != nil {
			return schema.WasActive{}, err
		}
	}
	return schema.WasActive{Hourly: newHourly, Daily: newDaily}, nil
}
