// Package store defines the entity store contract the accounting core
// persists through. The core is storage-agnostic: hosts may plug in any
// keyed load/save implementation. Two are shipped, an in-process map store
// for tests and embedding, and a Redis store.
package store

import (
	"context"

	"github.com/defimetrics-io/defimetrics/pkg/schema"
)

type Store interface {
	// Load decodes the row stored under id into dst and reports whether it
	// existed. Absence is not an error; callers treat it as the
	// create-on-first-reference path.
	Load(ctx context.Context, id schema.ID, dst any) (bool, error)

	// Save encodes entity and stores it under id, replacing any previous row.
	Save(ctx context.Context, id schema.ID, entity any) error

	// CreateMarker creates the existence record under id if and only if it
	// does not exist yet, reporting whether this call created it. The
	// created-now signal is the per-period activity dedup primitive.
	CreateMarker(ctx context.Context, id schema.ID) (bool, error)
}
