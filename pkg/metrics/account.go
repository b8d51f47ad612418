package metrics

import (
	"context"
	"fmt"
	"math/big"

	"github.com/defimetrics-io/defimetrics/pkg/schema"
	"github.com/shopspring/decimal"
)

// Account wraps one external address. The interaction methods write the
// transaction row, bump the account's own per-kind counter, detect first-ever
// interactions of that kind, track period activity, and feed the protocol
// transaction counters, in that order.
type Account struct {
	s        *Session
	protocol *Protocol
	data     *schema.Account
}

func (a *Account) Data() *schema.Account {
	return a.data
}

func (a *Account) save(ctx context.Context) error {
	return a.s.store.Save(ctx, a.data.ID, a.data)
}

func (a *Account) txMeta(from, to schema.ID) schema.TxMeta {
	evt := a.s.event
	return schema.TxMeta{
		Hash:        evt.TxHash,
		LogIndex:    evt.LogIndex,
		ProtocolID:  a.protocol.data.ID,
		AccountID:   a.data.ID,
		From:        from,
		To:          to,
		BlockNumber: evt.BlockNumber,
		Timestamp:   evt.Timestamp,
	}
}

// valueInputTokens prices amounts against the pool's input token list.
func (a *Account) valueInputTokens(ctx context.Context, pool *Pool, amounts []*big.Int) (decimal.Decimal, error) {
	if len(amounts) != len(pool.data.InputTokens) {
		return decimal.Zero, fmt.Errorf("pool %s: %w: %d tokens, %d amounts",
			pool.data.ID, ErrTokenCountMismatch, len(pool.data.InputTokens), len(amounts))
	}
	total := decimal.Zero
	for i, addr := range pool.data.InputTokens {
		token, err := a.s.tokens.GetOrCreate(ctx, addr)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(a.s.pricer.AmountValueUSD(token, amounts[i]))
	}
	return total, nil
}

// Deposit records a liquidity deposit into pool. The first deposit this
// account ever makes marks it as a new unique depositor at pool and protocol
// level.
func (a *Account) Deposit(ctx context.Context, pool *Pool, amounts []*big.Int, sharesMinted *big.Int) (*schema.Deposit, error) {
	amountUSD, err := a.valueInputTokens(ctx, pool, amounts)
	if err != nil {
		return nil, err
	}

	row := &schema.Deposit{
		ID:                a.s.NewID(),
		TxMeta:            a.txMeta(a.data.ID, pool.data.ID),
		PoolID:            pool.data.ID,
		InputTokens:       pool.data.InputTokens,
		InputTokenAmounts: amounts,
		OutputToken:       pool.data.OutputToken,
		OutputTokenAmount: sharesMinted,
		AmountUSD:         amountUSD,
	}
	if err := a.s.store.Save(ctx, row.ID, row); err != nil {
		return nil, err
	}
	if err := a.countDeposit(ctx, pool); err != nil {
		return nil, err
	}
	if _, err := a.protocol.TrackActivity(ctx, a.data.ID, schema.ActivityDeposit); err != nil {
		return nil, err
	}
	return row, a.protocol.AddTransaction(ctx, schema.TxDeposit)
}

// Withdraw records a liquidity withdrawal from pool.
func (a *Account) Withdraw(ctx context.Context, pool *Pool, amounts []*big.Int, sharesBurnt *big.Int) (*schema.Withdraw, error) {
	amountUSD, err := a.valueInputTokens(ctx, pool, amounts)
	if err != nil {
		return nil, err
	}

	row := &schema.Withdraw{
		ID:                a.s.NewID(),
		TxMeta:            a.txMeta(pool.data.ID, a.data.ID),
		PoolID:            pool.data.ID,
		InputTokens:       pool.data.InputTokens,
		InputTokenAmounts: amounts,
		OutputToken:       pool.data.OutputToken,
		OutputTokenAmount: sharesBurnt,
		AmountUSD:         amountUSD,
	}
	if err := a.s.store.Save(ctx, row.ID, row); err != nil {
		return nil, err
	}
	if err := a.countWithdraw(ctx, pool); err != nil {
		return nil, err
	}
	if _, err := a.protocol.TrackActivity(ctx, a.data.ID, ""); err != nil {
		return nil, err
	}
	return row, a.protocol.AddTransaction(ctx, schema.TxWithdraw)
}

// Swap records one trade through pool.
func (a *Account) Swap(ctx context.Context, pool *Pool, tokenIn schema.ID, amountIn *big.Int, tokenOut schema.ID, amountOut *big.Int, tradingPair schema.ID) (*schema.Swap, error) {
	in, err := a.s.tokens.GetOrCreate(ctx, tokenIn)
	if err != nil {
		return nil, err
	}
	out, err := a.s.tokens.GetOrCreate(ctx, tokenOut)
	if err != nil {
		return nil, err
	}

	row := &schema.Swap{
		ID:           a.s.NewID(),
		TxMeta:       a.txMeta(a.data.ID, pool.data.ID),
		PoolID:       pool.data.ID,
		TokenIn:      tokenIn,
		AmountIn:     amountIn,
		AmountInUSD:  a.s.pricer.AmountValueUSD(in, amountIn),
		TokenOut:     tokenOut,
		AmountOut:    amountOut,
		AmountOutUSD: a.s.pricer.AmountValueUSD(out, amountOut),
		TradingPair:  tradingPair,
	}
	if err := a.s.store.Save(ctx, row.ID, row); err != nil {
		return nil, err
	}
	if err := a.countSwap(ctx, pool); err != nil {
		return nil, err
	}
	if _, err := a.protocol.TrackActivity(ctx, a.data.ID, ""); err != nil {
		return nil, err
	}
	return row, a.protocol.AddTransaction(ctx, schema.TxSwap)
}

// Borrow records principal borrowed against a position. The first borrow
// this account ever makes marks it as a new unique borrower.
func (a *Account) Borrow(ctx context.Context, pool *Pool, positionID, asset schema.ID, amount *big.Int) (*schema.Borrow, error) {
	token, err := a.s.tokens.GetOrCreate(ctx, asset)
	if err != nil {
		return nil, err
	}

	row := &schema.Borrow{
		ID:         a.s.NewID(),
		TxMeta:     a.txMeta(pool.data.ID, a.data.ID),
		PoolID:     pool.data.ID,
		PositionID: positionID,
		Asset:      asset,
		Amount:     amount,
		AmountUSD:  a.s.pricer.AmountValueUSD(token, amount),
	}
	if err := a.s.store.Save(ctx, row.ID, row); err != nil {
		return nil, err
	}
	if err := a.countBorrow(ctx, pool); err != nil {
		return nil, err
	}
	if _, err := a.protocol.TrackActivity(ctx, a.data.ID, schema.ActivityBorrow); err != nil {
		return nil, err
	}
	return row, a.protocol.AddTransaction(ctx, schema.TxBorrow)
}

// CollateralIn records collateral added to a position.
func (a *Account) CollateralIn(ctx context.Context, pool *Pool, positionID schema.ID, amounts []*big.Int, sharesMinted *big.Int) (*schema.CollateralIn, error) {
	amountUSD, err := a.valueInputTokens(ctx, pool, amounts)
	if err != nil {
		return nil, err
	}

	row := &schema.CollateralIn{
		ID:                a.s.NewID(),
		TxMeta:            a.txMeta(a.data.ID, pool.data.ID),
		PoolID:            pool.data.ID,
		PositionID:        positionID,
		InputTokens:       pool.data.InputTokens,
		InputTokenAmounts: amounts,
		OutputToken:       pool.data.OutputToken,
		OutputTokenAmount: sharesMinted,
		AmountUSD:         amountUSD,
	}
	if err := a.s.store.Save(ctx, row.ID, row); err != nil {
		return nil, err
	}
	if err := a.countCollateralIn(ctx, pool); err != nil {
		return nil, err
	}
	if _, err := a.protocol.TrackActivity(ctx, a.data.ID, ""); err != nil {
		return nil, err
	}
	return row, a.protocol.AddTransaction(ctx, schema.TxCollateralIn)
}

// CollateralOut records collateral removed from a position.
func (a *Account) CollateralOut(ctx context.Context, pool *Pool, positionID schema.ID, amounts []*big.Int, sharesBurnt *big.Int) (*schema.CollateralOut, error) {
	amountUSD, err := a.valueInputTokens(ctx, pool, amounts)
	if err != nil {
		return nil, err
	}

	row := &schema.CollateralOut{
		ID:                a.s.NewID(),
		TxMeta:            a.txMeta(pool.data.ID, a.data.ID),
		PoolID:            pool.data.ID,
		PositionID:        positionID,
		InputTokens:       pool.data.InputTokens,
		InputTokenAmounts: amounts,
		OutputToken:       pool.data.OutputToken,
		OutputTokenAmount: sharesBurnt,
		AmountUSD:         amountUSD,
	}
	if err := a.s.store.Save(ctx, row.ID, row); err != nil {
		return nil, err
	}
	if err := a.countCollateralOut(ctx, pool); err != nil {
		return nil, err
	}
	if _, err := a.protocol.TrackActivity(ctx, a.data.ID, ""); err != nil {
		return nil, err
	}
	return row, a.protocol.AddTransaction(ctx, schema.TxCollateralOut)
}

// Liquidate records this account liquidating liquidatee's position. Both
// sides are counted: the receiver as a liquidator, the liquidated account as
// a liquidatee, each with its own first-ever detection and daily activity.
func (a *Account) Liquidate(ctx context.Context, pool *Pool, positionID, asset schema.ID, amount *big.Int, profitUSD decimal.Decimal, liquidatee schema.ID) (*schema.Liquidate, error) {
	token, err := a.s.tokens.GetOrCreate(ctx, asset)
	if err != nil {
		return nil, err
	}

	row := &schema.Liquidate{
		ID:           a.s.NewID(),
		TxMeta:       a.txMeta(a.data.ID, pool.data.ID),
		PoolID:       pool.data.ID,
		PositionID:   positionID,
		LiquidateeID: liquidatee,
		Asset:        asset,
		Amount:       amount,
		AmountUSD:    a.s.pricer.AmountValueUSD(token, amount),
		ProfitUSD:    profitUSD,
	}
	if err := a.s.store.Save(ctx, row.ID, row); err != nil {
		return nil, err
	}

	if err := a.countLiquidate(ctx, pool); err != nil {
		return nil, err
	}
	liquidated, err := a.s.Account(ctx, liquidatee)
	if err != nil {
		return nil, err
	}
	if err := liquidated.countLiquidation(ctx, pool); err != nil {
		return nil, err
	}

	if _, err := a.protocol.TrackActivity(ctx, a.data.ID, schema.ActivityLiquidator); err != nil {
		return nil, err
	}
	if _, err := a.protocol.TrackActivity(ctx, liquidatee, schema.ActivityLiquidatee); err != nil {
		return nil, err
	}
	return row, a.protocol.AddTransaction(ctx, schema.TxLiquidate)
}

// countDeposit is the unique-depositor detector: the check runs on the
// account's own counter before the increment, so only the first ever deposit
// fires the pool and protocol bumps.
func (a *Account) countDeposit(ctx context.Context, pool *Pool) error {
	if a.data.DepositCount == 0 {
		if err := a.protocol.AddDepositor(ctx); err != nil {
			return err
		}
		if err := pool.addDepositor(ctx); err != nil {
			return err
		}
	}
	a.data.DepositCount++
	if err := a.save(ctx); err != nil {
		return err
	}
	return pool.countUser(ctx, a.data.ID)
}

func (a *Account) countWithdraw(ctx context.Context, pool *Pool) error {
	a.data.WithdrawCount++
	if err := a.save(ctx); err != nil {
		return err
	}
	return pool.countUser(ctx, a.data.ID)
}

func (a *Account) countSwap(ctx context.Context, pool *Pool) error {
	a.data.SwapCount++
	if err := a.save(ctx); err != nil {
		return err
	}
	return pool.countUser(ctx, a.data.ID)
}

func (a *Account) countBorrow(ctx context.Context, pool *Pool) error {
	if a.data.BorrowCount == 0 {
		if err := a.protocol.AddBorrower(ctx); err != nil {
			return err
		}
		if err := pool.addBorrower(ctx); err != nil {
			return err
		}
	}
	a.data.BorrowCount++
	if err := a.save(ctx); err != nil {
		return err
	}
	return pool.countUser(ctx, a.data.ID)
}

func (a *Account) countCollateralIn(ctx context.Context, pool *Pool) error {
	a.data.CollateralInCount++
	if err := a.save(ctx); err != nil {
		return err
	}
	return pool.countUser(ctx, a.data.ID)
}

func (a *Account) countCollateralOut(ctx context.Context, pool *Pool) error {
	a.data.CollateralOutCount++
	if err := a.save(ctx); err != nil {
		return err
	}
	return pool.countUser(ctx, a.data.ID)
}

func (a *Account) countLiquidate(ctx context.Context, pool *Pool) error {
	if a.data.LiquidateCount == 0 {
		if err := a.protocol.AddLiquidator(ctx); err != nil {
			return err
		}
		if err := pool.addLiquidator(ctx); err != nil {
			return err
		}
	}
	a.data.LiquidateCount++
	if err := a.save(ctx); err != nil {
		return err
	}
	return pool.countUser(ctx, a.data.ID)
}

func (a *Account) countLiquidation(ctx context.Context, pool *Pool) error {
	if a.data.LiquidationCount == 0 {
		if err := a.protocol.AddLiquidatee(ctx); err != nil {
			return err
		}
		if err := pool.addLiquidatee(ctx); err != nil {
			return err
		}
	}
	a.data.LiquidationCount++
	return a.save(ctx)
}

func (a *Account) addEntryPremium(ctx context.Context, premiumUSD decimal.Decimal) error {
	a.data.CumulativeEntryPremiumUSD = a.data.CumulativeEntryPremiumUSD.Add(premiumUSD)
	a.data.CumulativeTotalPremiumUSD = a.data.CumulativeTotalPremiumUSD.Add(premiumUSD)
	return a.save(ctx)
}

func (a *Account) addExitPremium(ctx context.Context, premiumUSD decimal.Decimal) error {
	a.data.CumulativeExitPremiumUSD = a.data.CumulativeExitPremiumUSD.Add(premiumUSD)
	a.data.CumulativeTotalPremiumUSD = a.data.CumulativeTotalPremiumUSD.Add(premiumUSD)
	return a.save(ctx)
}

func (a *Account) addDepositPremium(ctx context.Context, premiumUSD decimal.Decimal) error {
	a.data.CumulativeDepositPremiumUSD = a.data.CumulativeDepositPremiumUSD.Add(premiumUSD)
	a.data.CumulativeTotalLiquidityPremiumUSD = a.data.CumulativeTotalLiquidityPremiumUSD.Add(premiumUSD)
	return a.save(ctx)
}

func (a *Account) addWithdrawPremium(ctx context.Context, premiumUSD decimal.Decimal) error {
	a.data.CumulativeWithdrawPremiumUSD = a.data.CumulativeWithdrawPremiumUSD.Add(premiumUSD)
	a.data.CumulativeTotalLiquidityPremiumUSD = a.data.CumulativeTotalLiquidityPremiumUSD.Add(premiumUSD)
	return a.save(ctx)
}

func (a *Account) openPosition(ctx context.Context, side schema.PositionSide) error {
	switch side {
	case schema.SideLong:
		a.data.LongPositionCount++
	case schema.SideShort:
		a.data.ShortPositionCount++
	default:
		return fmt.Errorf("account %s: %w: %q", a.data.ID, schema.ErrUnknownPositionSide, side)
	}
	a.data.OpenPositionCount++
	return a.save(ctx)
}

func (a *Account) closePosition(ctx context.Context, side schema.PositionSide) error {
	switch side {
	case schema.SideLong:
		a.data.LongPositionCount--
	case schema.SideShort:
		a.data.ShortPositionCount--
	default:
		return fmt.Errorf("account %s: %w: %q", a.data.ID, schema.ErrUnknownPositionSide, side)
	}
	a.data.OpenPositionCount--
	a.data.ClosedPositionCount++
	return a.save(ctx)
}
