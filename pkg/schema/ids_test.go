package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActivityMarkerID(t *testing.T) {
	account := ID{0x01}

	generic := ActivityMarkerID(account, IntervalDaily, 19700, "")
	typed := ActivityMarkerID(account, IntervalDaily, 19700, ActivityDeposit)

	assert.Equal(t, "01-daily-19700", string(generic))
	assert.Equal(t, "01-daily-19700-DEPOSIT", string(typed))
	assert.NotEqual(t, string(generic), string(typed))

	// Different buckets never collide.
	next := ActivityMarkerID(account, IntervalDaily, 19701, "")
	assert.NotEqual(t, string(generic), string(next))
}

func TestSnapshotIDsScopedByKind(t *testing.T) {
	subject := ID("proto")

	fin := FinancialsDailySnapshotID(subject, 5)
	usage := UsageDailySnapshotID(subject, 5)
	assert.NotEqual(t, string(fin), string(usage),
		"rows of different kinds sharing subject and bucket must not collide")
}

func TestPositionIDs(t *testing.T) {
	counter := PositionCounterID(ID{0x01}, ID{0x02}, ID{0x03}, SideLong)
	assert.Equal(t, "01-02-03-LONG", string(counter))

	// The counter is already a composite key, so the suffix attaches to it
	// verbatim instead of re-encoding it.
	first := PositionID(counter, 0)
	second := PositionID(counter, 1)
	assert.Equal(t, "01-02-03-LONG-0", string(first))
	assert.NotEqual(t, string(first), string(second))
}
