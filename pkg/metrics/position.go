package metrics

import (
	"bytes"
	"context"
	"fmt"
	"math/big"

	"github.com/defimetrics-io/defimetrics/pkg/schema"
	"github.com/shopspring/decimal"
)

// Position wraps one leveraged exposure row. Opening and closing cascade the
// side, open, closed, and cumulative counters through account, pool, and
// protocol in one move; every mutation leaves an immutable per-mutation
// snapshot behind.
type Position struct {
	s       *Session
	pool    *Pool
	account *Account
	data    *schema.Position
}

func (p *Position) Data() *schema.Position {
	return p.data
}

// Position resolves the row for (account, pool, asset, side) and the
// on-chain reference ref. Sequential positions sharing that identity are
// disambiguated by the counter entity: a reference not seen before advances
// the counter, so the identity maps to a fresh row while older rows stay
// addressable. A resolved row that does not exist yet is opened here, with
// the open cascade applied.
func (s *Session) Position(ctx context.Context, pool *Pool, account *Account, asset, collateral schema.ID, side schema.PositionSide, ref []byte) (*Position, error) {
	if !side.Valid() {
		return nil, fmt.Errorf("account %s: %w: %q", account.data.ID, schema.ErrUnknownPositionSide, side)
	}

	counterID := schema.PositionCounterID(account.data.ID, pool.data.ID, asset, side)
	counter := &schema.PositionCounter{}
	found, err := s.store.Load(ctx, counterID, counter)
	if err != nil {
		return nil, err
	}
	if !found {
		counter.ID = counterID
		counter.LastRef = ref
		if err := s.store.Save(ctx, counterID, counter); err != nil {
			return nil, err
		}
	} else if !bytes.Equal(counter.LastRef, ref) {
		counter.Count++
		counter.LastRef = ref
		if err := s.store.Save(ctx, counterID, counter); err != nil {
			return nil, err
		}
	}

	positionID := schema.PositionID(counterID, counter.Count)
	data := &schema.Position{}
	found, err = s.store.Load(ctx, positionID, data)
	if err != nil {
		return nil, err
	}

	p := &Position{s: s, pool: pool, account: account, data: data}
	if found {
		return p, nil
	}

	data.ID = positionID
	data.AccountID = account.data.ID
	data.PoolID = pool.data.ID
	data.Asset = asset
	data.Collateral = collateral
	data.Side = side
	data.HashOpened = s.event.TxHash
	data.BlockOpened = s.event.BlockNumber
	data.TimestampOpened = s.event.Timestamp
	data.Balance = new(big.Int)
	data.CollateralBalance = new(big.Int)
	if err := p.save(ctx); err != nil {
		return nil, err
	}

	if err := account.openPosition(ctx, side); err != nil {
		return nil, err
	}
	if err := pool.openPosition(ctx, side); err != nil {
		return nil, err
	}
	return p, p.takeSnapshot(ctx)
}

func (p *Position) save(ctx context.Context) error {
	return p.s.store.Save(ctx, p.data.ID, p.data)
}

// takeSnapshot captures the row as it stands, keyed by a fresh per-event
// identifier.
func (p *Position) takeSnapshot(ctx context.Context) error {
	evt := p.s.event
	snap := &schema.PositionSnapshot{
		ID:         p.s.NewID(),
		PositionID: p.data.ID,
		AccountID:  p.data.AccountID,

		Hash:        evt.TxHash,
		LogIndex:    evt.LogIndex,
		BlockNumber: evt.BlockNumber,
		Timestamp:   evt.Timestamp,

		Balance:              p.data.Balance,
		BalanceUSD:           p.data.BalanceUSD,
		CollateralBalance:    p.data.CollateralBalance,
		CollateralBalanceUSD: p.data.CollateralBalanceUSD,
		FundingRate:          p.data.FundingRateOpen,
		RealisedPnlUSD:       p.data.RealisedPnlUSD,
	}
	return p.s.store.Save(ctx, snap.ID, snap)
}

// SetBalance replaces the exposure balance, repricing its USD value through
// the position's asset.
func (p *Position) SetBalance(ctx context.Context, balance *big.Int) error {
	token, err := p.s.tokens.GetOrCreate(ctx, p.data.Asset)
	if err != nil {
		return err
	}
	p.data.Balance = balance
	p.data.BalanceUSD = p.s.pricer.AmountValueUSD(token, balance)
	if err := p.save(ctx); err != nil {
		return err
	}
	return p.takeSnapshot(ctx)
}

// SetCollateralBalance replaces the collateral balance, repricing through
// the collateral token.
func (p *Position) SetCollateralBalance(ctx context.Context, balance *big.Int) error {
	token, err := p.s.tokens.GetOrCreate(ctx, p.data.Collateral)
	if err != nil {
		return err
	}
	p.data.CollateralBalance = balance
	p.data.CollateralBalanceUSD = p.s.pricer.AmountValueUSD(token, balance)
	if err := p.save(ctx); err != nil {
		return err
	}
	return p.takeSnapshot(ctx)
}

func (p *Position) SetLeverage(ctx context.Context, leverage decimal.Decimal) error {
	p.data.Leverage = leverage
	if err := p.save(ctx); err != nil {
		return err
	}
	return p.takeSnapshot(ctx)
}

func (p *Position) SetFundingRate(ctx context.Context, rate decimal.Decimal) error {
	p.data.FundingRateOpen = rate
	if err := p.save(ctx); err != nil {
		return err
	}
	return p.takeSnapshot(ctx)
}

func (p *Position) AddCollateralInCount(ctx context.Context) error {
	p.data.CollateralInCount++
	return p.save(ctx)
}

func (p *Position) AddCollateralOutCount(ctx context.Context) error {
	p.data.CollateralOutCount++
	return p.save(ctx)
}

func (p *Position) AddLiquidationCount(ctx context.Context) error {
	p.data.LiquidationCount++
	return p.save(ctx)
}

// Close moves the position to its terminal state and runs the close cascade.
// Closing an already closed position is a no-op, so replayed or duplicated
// close events cannot double-count.
func (p *Position) Close(ctx context.Context, fundingRate, realisedPnlUSD *decimal.Decimal) error {
	if p.data.Closed() {
		return nil
	}

	evt := p.s.event
	p.data.HashClosed = evt.TxHash
	p.data.BlockClosed = evt.BlockNumber
	p.data.TimestampClosed = evt.Timestamp
	p.data.FundingRateClosed = fundingRate
	p.data.RealisedPnlUSD = realisedPnlUSD

	closeBalance := p.data.BalanceUSD
	closeCollateral := p.data.CollateralBalanceUSD
	p.data.CloseBalanceUSD = &closeBalance
	p.data.CloseCollateralBalanceUSD = &closeCollateral

	if err := p.save(ctx); err != nil {
		return err
	}
	if err := p.account.closePosition(ctx, p.data.Side); err != nil {
		return err
	}
	if err := p.pool.closePosition(ctx, p.data.Side); err != nil {
		return err
	}
	return p.takeSnapshot(ctx)
}
