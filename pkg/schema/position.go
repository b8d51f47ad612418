package schema

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Position is one leveraged exposure row. Identity is
// (account, pool, asset, side) plus the counter-issued suffix; the row moves
// OPEN -> CLOSED once and is never deleted or reopened.
type Position struct {
	ID         ID           `json:"id"`
	AccountID  ID           `json:"account_id"`
	PoolID     ID           `json:"pool_id"`
	Asset      ID           `json:"asset"`
	Collateral ID           `json:"collateral"`
	Side       PositionSide `json:"side"`

	HashOpened      []byte `json:"hash_opened"`
	BlockOpened     uint64 `json:"block_opened"`
	TimestampOpened int64  `json:"timestamp_opened"`

	// HashClosed set marks the terminal state.
	HashClosed      []byte `json:"hash_closed,omitempty"`
	BlockClosed     uint64 `json:"block_closed,omitempty"`
	TimestampClosed int64  `json:"timestamp_closed,omitempty"`

	Balance    *big.Int        `json:"balance"`
	BalanceUSD decimal.Decimal `json:"balance_usd"`

	CollateralBalance    *big.Int        `json:"collateral_balance"`
	CollateralBalanceUSD decimal.Decimal `json:"collateral_balance_usd"`

	Leverage        decimal.Decimal `json:"leverage"`
	FundingRateOpen decimal.Decimal `json:"funding_rate_open"`

	FundingRateClosed         *decimal.Decimal `json:"funding_rate_closed,omitempty"`
	CloseBalanceUSD           *decimal.Decimal `json:"close_balance_usd,omitempty"`
	CloseCollateralBalanceUSD *decimal.Decimal `json:"close_collateral_balance_usd,omitempty"`
	RealisedPnlUSD            *decimal.Decimal `json:"realised_pnl_usd,omitempty"`

	CollateralInCount  int32 `json:"collateral_in_count"`
	CollateralOutCount int32 `json:"collateral_out_count"`
	LiquidationCount   int32 `json:"liquidation_count"`
}

func (p *Position) Closed() bool {
	return len(p.HashClosed) > 0
}

// PositionCounter issues the disambiguating suffix for sequential positions
// sharing one (account, pool, asset, side) identity. LastRef remembers the
// underlying on-chain position identifier last seen for the identity so
// repeated references to it resolve to the same row.
type PositionCounter struct {
	ID      ID     `json:"id"`
	Count   int32  `json:"count"`
	LastRef []byte `json:"last_ref,omitempty"`
}

// PositionSnapshot is an immutable per-mutation capture of a position row.
type PositionSnapshot struct {
	ID         ID `json:"id"`
	PositionID ID `json:"position_id"`
	AccountID  ID `json:"account_id"`

	Hash        []byte `json:"hash"`
	LogIndex    uint32 `json:"log_index"`
	BlockNumber uint64 `json:"block_number"`
	Timestamp   int64  `json:"timestamp"`

	Balance              *big.Int         `json:"balance"`
	BalanceUSD           decimal.Decimal  `json:"balance_usd"`
	CollateralBalance    *big.Int         `json:"collateral_balance"`
	CollateralBalanceUSD decimal.Decimal  `json:"collateral_balance_usd"`
	FundingRate          decimal.Decimal  `json:"funding_rate"`
	RealisedPnlUSD       *decimal.Decimal `json:"realised_pnl_usd,omitempty"`
}
