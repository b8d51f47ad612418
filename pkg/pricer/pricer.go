// Package pricer defines how the accounting core values token amounts in
// USD. Pricing itself lives with the host; the core only consumes quotes.
package pricer

import (
	"math/big"

	"github.com/defimetrics-io/defimetrics/pkg/schema"
	"github.com/shopspring/decimal"
)

// TokenPricer quotes token prices at event-processing time. Implementations
// are expected to be cheap to call; the core queries it on every valuation.
type TokenPricer interface {
	// TokenPrice returns the USD price of one whole token.
	TokenPrice(token schema.Token) decimal.Decimal

	// AmountValueUSD values a native (unscaled) token amount in USD.
	AmountValueUSD(token schema.Token, amount *big.Int) decimal.Decimal
}

// Fixed is a static price table keyed by token address, used in tests and
// backfills where prices are known up front.
type Fixed struct {
	prices map[string]decimal.Decimal
}

func NewFixed() *Fixed {
	return &Fixed{prices: make(map[string]decimal.Decimal)}
}

func (f *Fixed) SetPrice(token schema.ID, price decimal.Decimal) {
	f.prices[token.String()] = price
}

func (f *Fixed) TokenPrice(token schema.Token) decimal.Decimal {
	return f.prices[token.ID.String()]
}

func (f *Fixed) AmountValueUSD(token schema.Token, amount *big.Int) decimal.Decimal {
	if amount == nil {
		return decimal.Zero
	}
	scaled := decimal.NewFromBigInt(amount, -int32(token.Decimals))
	return scaled.Mul(f.TokenPrice(token))
}
