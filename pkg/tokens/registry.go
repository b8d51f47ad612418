// Package tokens resolves token metadata. Each address is initialized at
// most once: the first reference calls out to the host's initializer, every
// later reference is served from the entity store.
package tokens

import (
	"context"
	"fmt"

	"github.com/defimetrics-io/defimetrics/pkg/schema"
	"github.com/defimetrics-io/defimetrics/pkg/store"
	"go.uber.org/zap"
)

// TokenParams is what the initializer resolved for a token address, usually
// by calling the token contract.
type TokenParams struct {
	Name     string
	Symbol   string
	Decimals uint8
}

// Initializer fetches metadata for a first-seen token address. Hosts plug in
// a chain-backed implementation; tests use a fixture.
type Initializer interface {
	TokenParams(ctx context.Context, address schema.ID) (TokenParams, error)
}

type Registry struct {
	store  store.Store
	init   Initializer
	logger *zap.Logger
}

func NewRegistry(s store.Store, init Initializer, logger *zap.Logger) *Registry {
	return &Registry{store: s, init: init, logger: logger}
}

// GetOrCreate returns the token row for address, creating it through the
// initializer on first reference.
func (r *Registry) GetOrCreate(ctx context.Context, address schema.ID) (schema.Token, error) {
	var token schema.Token
	found, err := r.store.Load(ctx, address, &token)
	if err != nil {
		return schema.Token{}, err
	}
	if found {
		return token, nil
	}

	params, err := r.init.TokenParams(ctx, address)
	if err != nil {
		return schema.Token{}, fmt.Errorf("initialize token %s: %w", address, err)
	}
	token = schema.Token{
		ID:       address,
		Name:     params.Name,
		Symbol:   params.Symbol,
		Decimals: params.Decimals,
	}
	if err := r.store.Save(ctx, address, &token); err != nil {
		return schema.Token{}, err
	}
	r.logger.Debug("Initialized token",
		zap.String("address", address.String()),
		zap.String("symbol", token.Symbol))
	return token, nil
}

// GetOrCreateReward returns the reward-token row for (typ, address). The
// reward type is validated up front; an unknown type aborts the event.
func (r *Registry) GetOrCreateReward(ctx context.Context, typ schema.RewardTokenType, address schema.ID) (schema.RewardToken, error) {
	if !typ.Valid() {
		return schema.RewardToken{}, fmt.Errorf("reward token %s: %w: %q", address, schema.ErrUnknownRewardTokenType, typ)
	}
	if _, err := r.GetOrCreate(ctx, address); err != nil {
		return schema.RewardToken{}, err
	}

	id := schema.RewardTokenID(typ, address)
	var reward schema.RewardToken
	found, err := r.store.Load(ctx, id, &reward)
	if err != nil {
		return schema.RewardToken{}, err
	}
	if found {
		return reward, nil
	}
	reward = schema.RewardToken{ID: id, Type: typ, TokenID: address}
	if err := r.store.Save(ctx, id, &reward); err != nil {
		return schema.RewardToken{}, err
	}
	return reward, nil
}
