// Package memstore is the in-process entity store. Rows are held as their
// JSON encoding so Load always hands back an independent copy; aliasing a
// stored row from two managers in one event would otherwise let a stale
// in-memory struct overwrite a cascaded update.
package memstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/defimetrics-io/defimetrics/pkg/schema"
	"github.com/puzpuzpuz/xsync/v4"
)

type Store struct {
	rows    *xsync.Map[string, []byte]
	markers *xsync.Map[string, struct{}]
}

func New() *Store {
	return &Store{
		rows:    xsync.NewMap[string, []byte](),
		markers: xsync.NewMap[string, struct{}](),
	}
}

func (s *Store) Load(_ context.Context, id schema.ID, dst any) (bool, error) {
	raw, ok := s.rows.Load(string(id))
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode row %s: %w", id, err)
	}
	return true, nil
}

func (s *Store) Save(_ context.Context, id schema.ID, entity any) error {
	raw, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("encode row %s: %w", id, err)
	}
	s.rows.Store(string(id), raw)
	return nil
}

func (s *Store) CreateMarker(_ context.Context, id schema.ID) (bool, error) {
	_, loaded := s.markers.LoadOrStore(string(id), struct{}{})
	return !loaded, nil
}

// Len reports the number of stored rows, markers excluded.
func (s *Store) Len() int {
	return s.rows.Size()
}
