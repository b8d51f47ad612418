package schema

import (
	"encoding/hex"
	"fmt"
)

// ID is the byte identifier every entity is keyed by in the entity store.
// Identifiers are synthesized, never parsed back; the hex form is only for
// logging and composite-key construction.
type ID []byte

func (id ID) String() string {
	return hex.EncodeToString(id)
}

// Snapshot row kinds. A snapshot key is kind + subject + bucket so rows for
// different subjects sharing one store can never collide.
const (
	kindFinancialsDaily = "financials-daily"
	kindUsageDaily      = "usage-daily"
	kindUsageHourly     = "usage-hourly"
	kindPoolDaily       = "pool-daily"
	kindPoolHourly      = "pool-hourly"
)

const (
	IntervalHourly = "hourly"
	IntervalDaily  = "daily"
)

// Composite keys embed leaf identifiers in hex so raw binary IDs (tx
// hashes, addresses) stay printable; already-composite IDs are embedded
// as-is.
func snapshotID(kind string, subject ID, bucket int64) ID {
	return ID(fmt.Sprintf("%s-%s-%d", kind, subject.String(), bucket))
}

func FinancialsDailySnapshotID(protocol ID, day int64) ID {
	return snapshotID(kindFinancialsDaily, protocol, day)
}

func UsageDailySnapshotID(protocol ID, day int64) ID {
	return snapshotID(kindUsageDaily, protocol, day)
}

func UsageHourlySnapshotID(protocol ID, hour int64) ID {
	return snapshotID(kindUsageHourly, protocol, hour)
}

func PoolDailySnapshotID(pool ID, day int64) ID {
	return snapshotID(kindPoolDaily, pool, day)
}

func PoolHourlySnapshotID(pool ID, hour int64) ID {
	return snapshotID(kindPoolHourly, pool, hour)
}

// ActivityMarkerID builds the dedup key for per-period activity detection.
// typ is empty for the generic (any-activity) marker.
func ActivityMarkerID(subject ID, interval string, bucket int64, typ ActivityType) ID {
	if typ == "" {
		return ID(fmt.Sprintf("%s-%s-%d", subject.String(), interval, bucket))
	}
	return ID(fmt.Sprintf("%s-%s-%d-%s", subject.String(), interval, bucket, typ))
}

func ActivityHelperID(protocol ID) ID {
	return ID(fmt.Sprintf("activity-helper-%s", protocol.String()))
}

// PoolUserMarkerID is the permanent marker recording that an account has
// interacted with a pool at least once.
func PoolUserMarkerID(pool, account ID) ID {
	return ID(fmt.Sprintf("pool-user-%s-%s", pool.String(), account.String()))
}

func PositionCounterID(account, pool, asset ID, side PositionSide) ID {
	return ID(fmt.Sprintf("%s-%s-%s-%s", account.String(), pool.String(), asset.String(), side))
}

func PositionID(counter ID, count int32) ID {
	return ID(fmt.Sprintf("%s-%d", string(counter), count))
}

func RewardTokenID(typ RewardTokenType, token ID) ID {
	return ID(fmt.Sprintf("%s-%s", typ, token.String()))
}

func PoolFeeID(typ PoolFeeType, pool ID) ID {
	return ID(fmt.Sprintf("%s-%s", typ, pool.String()))
}
