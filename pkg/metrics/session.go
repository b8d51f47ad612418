// Package metrics is the accounting core. A Session is the unit of work for
// one decoded event: it owns the identifier sequence, loads the aggregate
// wrappers, and runs the period snapshot checks before any mutation of the
// event is applied. Sessions are single-writer; nothing here locks.
package metrics

import (
	"context"
	"errors"
	"fmt"

	"github.com/defimetrics-io/defimetrics/pkg/event"
	"github.com/defimetrics-io/defimetrics/pkg/pricer"
	"github.com/defimetrics-io/defimetrics/pkg/schema"
	"github.com/defimetrics-io/defimetrics/pkg/store"
	"github.com/defimetrics-io/defimetrics/pkg/tokens"
	"go.uber.org/zap"
)

// ErrTokenCountMismatch is returned when a caller hands in token and amount
// slices of different lengths. The event must be aborted: valuing a partial
// pairing would corrupt the running totals.
var ErrTokenCountMismatch = errors.New("token and amount counts differ")

// SnapshotWriter receives every snapshot row the engine closes, in addition
// to the row landing in the entity store. Hosts use it to stream rows into an
// analytical sink; a nil writer disables the tee.
type SnapshotWriter interface {
	WriteFinancialsDaily(ctx context.Context, snap *schema.FinancialsDailySnapshot) error
	WriteUsageDaily(ctx context.Context, snap *schema.UsageDailySnapshot) error
	WriteUsageHourly(ctx context.Context, snap *schema.UsageHourlySnapshot) error
	WritePoolSnapshot(ctx context.Context, snap *schema.PoolSnapshot) error
}

// Config carries the long-lived collaborators shared by every session. The
// protocol identity fields are only used the first time the protocol row is
// created.
type Config struct {
	Logger    *zap.Logger
	Store     store.Store
	Pricer    pricer.TokenPricer
	Tokens    *tokens.Registry
	Snapshots SnapshotWriter

	ProtocolID   schema.ID
	Name         string
	Slug         string
	Network      string
	ProtocolType schema.ProtocolType
}

// Session is the per-event unit of work. Build a fresh one for every decoded
// event; reusing a session across events would reuse its identifier sequence
// and mint colliding IDs.
type Session struct {
	logger    *zap.Logger
	store     store.Store
	pricer    pricer.TokenPricer
	tokens    *tokens.Registry
	snapshots SnapshotWriter

	// Protocol identity, used only when the row is first created.
	protocolID   schema.ID
	name         string
	slug         string
	network      string
	protocolType schema.ProtocolType

	event event.Context
	seq   event.Sequence

	protocol *Protocol
}

func NewSession(cfg Config, evt event.Context) (*Session, error) {
	if !cfg.ProtocolType.Valid() {
		return nil, fmt.Errorf("protocol %s: %w: %q", cfg.ProtocolID, schema.ErrUnknownProtocolType, cfg.ProtocolType)
	}
	return &Session{
		logger:       cfg.Logger,
		store:        cfg.Store,
		pricer:       cfg.Pricer,
		tokens:       cfg.Tokens,
		snapshots:    cfg.Snapshots,
		protocolID:   cfg.ProtocolID,
		name:         cfg.Name,
		slug:         cfg.Slug,
		network:      cfg.Network,
		protocolType: cfg.ProtocolType,
		event:        evt,
	}, nil
}

// Event returns the decoded-event context this session processes.
func (s *Session) Event() event.Context {
	return s.event
}

// NewID mints the next entity identifier for this event.
func (s *Session) NewID() schema.ID {
	return event.NewID(s.event, &s.seq)
}

// Tokens exposes the token registry for handlers that resolve metadata
// directly.
func (s *Session) Tokens() *tokens.Registry {
	return s.tokens
}

// Protocol loads the protocol aggregate, creating it on first reference.
// Loading runs the period boundary check: if the stored last-update
// timestamp falls in an earlier day or hour than the event, the closed
// periods are snapshotted from the stored cumulatives before the event's own
// mutations can touch them.
func (s *Session) Protocol(ctx context.Context) (*Protocol, error) {
	if s.protocol != nil {
		return s.protocol, nil
	}

	data := &schema.Protocol{}
	found, err := s.store.Load(ctx, s.protocolID, data)
	if err != nil {
		return nil, err
	}
	if !found {
		data = &schema.Protocol{
			ID:      s.protocolID,
			Name:    s.name,
			Slug:    s.slug,
			Network: s.network,
			Type:    s.protocolType,
		}
	}

	helper := &schema.ActivityHelper{}
	helperID := schema.ActivityHelperID(data.ID)
	if _, err := s.store.Load(ctx, helperID, helper); err != nil {
		return nil, err
	}
	helper.ID = helperID

	p := &Protocol{s: s, data: data, helper: helper}
	if err := p.takeSnapshots(ctx); err != nil {
		return nil, err
	}

	data.LastUpdateTimestamp = s.event.Timestamp
	if err := p.save(ctx); err != nil {
		return nil, err
	}

	s.protocol = p
	return p, nil
}

// Pool loads a pool aggregate under the protocol, creating an uninitialized
// row on first reference. The pool's own boundary check runs here, after the
// protocol's.
func (s *Session) Pool(ctx context.Context, id schema.ID) (*Pool, error) {
	protocol, err := s.Protocol(ctx)
	if err != nil {
		return nil, err
	}

	data := &schema.Pool{}
	found, err := s.store.Load(ctx, id, data)
	if err != nil {
		return nil, err
	}
	if !found {
		data = &schema.Pool{
			ID:                 id,
			ProtocolID:         protocol.data.ID,
			CreatedTimestamp:   s.event.Timestamp,
			CreatedBlockNumber: s.event.BlockNumber,
		}
	}

	p := &Pool{s: s, protocol: protocol, data: data}
	if err := p.takeSnapshots(ctx); err != nil {
		return nil, err
	}

	data.LastUpdateTimestamp = s.event.Timestamp
	if err := p.save(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// Account loads the account row for an address, creating it on first
// reference. A newly created account counts as a new unique user at protocol
// level.
func (s *Session) Account(ctx context.Context, address schema.ID) (*Account, error) {
	protocol, err := s.Protocol(ctx)
	if err != nil {
		return nil, err
	}

	data := &schema.Account{}
	found, err := s.store.Load(ctx, address, data)
	if err != nil {
		return nil, err
	}
	a := &Account{s: s, protocol: protocol, data: data}
	if !found {
		data.ID = address
		if err := a.save(ctx); err != nil {
			return nil, err
		}
		if err := protocol.AddUser(ctx); err != nil {
			return nil, err
		}
	}
	return a, nil
}
