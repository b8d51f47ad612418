// Package event carries the decoded-event context handed to every
// accumulator call, and synthesizes the collision-free identifiers derived
// from it.
package event

import (
	"encoding/binary"

	"github.com/defimetrics-io/defimetrics/pkg/schema"
)

const (
	SecondsPerHour int64 = 3600
	SecondsPerDay  int64 = 86400
)

// Context is the provenance of one decoded blockchain event. It is produced
// by upstream decoding and never mutated here.
type Context struct {
	BlockNumber uint64
	Timestamp   int64
	TxHash      []byte
	LogIndex    uint32
}

// Hours is the hour-bucket index of the event timestamp.
func (c Context) Hours() int64 {
	return c.Timestamp / SecondsPerHour
}

// Days is the day-bucket index of the event timestamp.
func (c Context) Days() int64 {
	return c.Timestamp / SecondsPerDay
}

// Sequence numbers the entities created while processing one event. It must
// be owned by the per-event unit of work and shared by everything that mints
// IDs within it; a counter living on a long-lived object would restart when
// the same subject is loaded twice in one event and hand out colliding IDs.
type Sequence struct {
	next uint32
}

func (s *Sequence) Next() uint32 {
	n := s.next
	s.next++
	return n
}

// NewID builds txHash || logIndex || seq. Unique across all entities created
// while processing one event, including several sub-entities minted from the
// same log.
func NewID(c Context, seq *Sequence) schema.ID {
	id := make([]byte, 0, len(c.TxHash)+8)
	id = append(id, c.TxHash...)
	id = binary.BigEndian.AppendUint32(id, c.LogIndex)
	id = binary.BigEndian.AppendUint32(id, seq.Next())
	return schema.ID(id)
}
