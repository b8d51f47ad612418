package sink

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// interval is a reserved word in ClickHouse, so the pool snapshot table
// names that column granularity; the DDL and inserts are unquoted and would
// otherwise fail to parse.
func TestPoolSnapshotDDLAvoidsReservedInterval(t *testing.T) {
	assert.Contains(t, poolSnapshotsDDL, "granularity String")
	assert.Contains(t, poolSnapshotsDDL, "ORDER BY (pool_id, granularity, bucket)")
	assert.NotContains(t, poolSnapshotsDDL, "\n\t\tinterval ")
}
