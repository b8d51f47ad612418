package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketHelpers(t *testing.T) {
	c := Context{Timestamp: 1700000000}
	assert.Equal(t, int64(1700000000/86400), c.Days())
	assert.Equal(t, int64(1700000000/3600), c.Hours())

	// Timestamps inside the same hour share buckets.
	later := Context{Timestamp: 1700000000 + 59}
	assert.Equal(t, c.Hours(), later.Hours())
	assert.Equal(t, c.Days(), later.Days())
}

func TestNewIDUniqueWithinEvent(t *testing.T) {
	c := Context{
		BlockNumber: 100,
		Timestamp:   1700000000,
		TxHash:      []byte{0xde, 0xad, 0xbe, 0xef},
		LogIndex:    7,
	}

	var seq Sequence
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewID(c, &seq)
		require.False(t, seen[id.String()], "id %s minted twice", id)
		seen[id.String()] = true
	}
}

// Loading the same aggregate twice while handling one event must keep
// drawing from the one shared sequence, otherwise the second load would
// restart numbering and mint IDs that collide with the first.
func TestIDsUniqueAcrossReloads(t *testing.T) {
	c := Context{TxHash: []byte{0x01}, LogIndex: 3}

	var seq Sequence
	first := NewID(c, &seq)

	// Simulates a second manager for the same event sharing the sequence.
	second := NewID(c, &seq)
	assert.NotEqual(t, first.String(), second.String())
}

func TestNewIDDiffersByLogIndex(t *testing.T) {
	hash := []byte{0xaa, 0xbb}

	var seqA, seqB Sequence
	a := NewID(Context{TxHash: hash, LogIndex: 0}, &seqA)
	b := NewID(Context{TxHash: hash, LogIndex: 1}, &seqB)
	assert.NotEqual(t, a.String(), b.String())
}
