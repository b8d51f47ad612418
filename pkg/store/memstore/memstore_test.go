package memstore

import (
	"context"
	"testing"

	"github.com/defimetrics-io/defimetrics/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	Name  string `json:"name"`
	Count int32  `json:"count"`
}

func TestLoadAbsentRow(t *testing.T) {
	s := New()

	var dst row
	found, err := s.Load(context.Background(), schema.ID("missing"), &dst)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSaveThenLoad(t *testing.T) {
	s := New()
	ctx := context.Background()
	id := schema.ID("row-1")

	require.NoError(t, s.Save(ctx, id, &row{Name: "a", Count: 2}))

	var dst row
	found, err := s.Load(ctx, id, &dst)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, row{Name: "a", Count: 2}, dst)
	assert.Equal(t, 1, s.Len())
}

// Load must hand back an independent copy: mutating the loaded struct and
// not saving it may never change what the next Load sees.
func TestLoadReturnsCopy(t *testing.T) {
	s := New()
	ctx := context.Background()
	id := schema.ID("row-1")

	require.NoError(t, s.Save(ctx, id, &row{Count: 1}))

	var first row
	_, err := s.Load(ctx, id, &first)
	require.NoError(t, err)
	first.Count = 99

	var second row
	_, err = s.Load(ctx, id, &second)
	require.NoError(t, err)
	assert.Equal(t, int32(1), second.Count)
}

func TestCreateMarkerOnlyOnce(t *testing.T) {
	s := New()
	ctx := context.Background()
	id := schema.ID("marker-1")

	created, err := s.CreateMarker(ctx, id)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = s.CreateMarker(ctx, id)
	require.NoError(t, err)
	assert.False(t, created)

	// Markers are not rows.
	assert.Equal(t, 0, s.Len())
}
