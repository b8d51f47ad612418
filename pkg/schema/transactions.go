package schema

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Transaction rows record individual protocol interactions with their event
// provenance. They are written once and never revisited by the core.

// TxMeta carries the provenance fields shared by every transaction row.
type TxMeta struct {
	Hash        []byte `json:"hash"`
	LogIndex    uint32 `json:"log_index"`
	ProtocolID  ID     `json:"protocol_id"`
	AccountID   ID     `json:"account_id"`
	From        ID     `json:"from"`
	To          ID     `json:"to"`
	BlockNumber uint64 `json:"block_number"`
	Timestamp   int64  `json:"timestamp"`
}

type Deposit struct {
	ID ID `json:"id"`
	TxMeta

	PoolID            ID              `json:"pool_id"`
	InputTokens       []ID            `json:"input_tokens"`
	InputTokenAmounts []*big.Int      `json:"input_token_amounts"`
	OutputToken       ID              `json:"output_token,omitempty"`
	OutputTokenAmount *big.Int        `json:"output_token_amount,omitempty"`
	AmountUSD         decimal.Decimal `json:"amount_usd"`
}

type Withdraw struct {
	ID ID `json:"id"`
	TxMeta

	PoolID            ID              `json:"pool_id"`
	InputTokens       []ID            `json:"input_tokens"`
	InputTokenAmounts []*big.Int      `json:"input_token_amounts"`
	OutputToken       ID              `json:"output_token,omitempty"`
	OutputTokenAmount *big.Int        `json:"output_token_amount,omitempty"`
	AmountUSD         decimal.Decimal `json:"amount_usd"`
}

type Swap struct {
	ID ID `json:"id"`
	TxMeta

	PoolID       ID              `json:"pool_id"`
	TokenIn      ID              `json:"token_in"`
	AmountIn     *big.Int        `json:"amount_in"`
	AmountInUSD  decimal.Decimal `json:"amount_in_usd"`
	TokenOut     ID              `json:"token_out"`
	AmountOut    *big.Int        `json:"amount_out"`
	AmountOutUSD decimal.Decimal `json:"amount_out_usd"`
	TradingPair  ID              `json:"trading_pair"`
}

type Borrow struct {
	ID ID `json:"id"`
	TxMeta

	PoolID     ID              `json:"pool_id"`
	PositionID ID              `json:"position_id"`
	Asset      ID              `json:"asset"`
	Amount     *big.Int        `json:"amount"`
	AmountUSD  decimal.Decimal `json:"amount_usd"`
}

type CollateralIn struct {
	ID ID `json:"id"`
	TxMeta

	PoolID            ID              `json:"pool_id"`
	PositionID        ID              `json:"position_id"`
	InputTokens       []ID            `json:"input_tokens"`
	InputTokenAmounts []*big.Int      `json:"input_token_amounts"`
	OutputToken       ID              `json:"output_token,omitempty"`
	OutputTokenAmount *big.Int        `json:"output_token_amount,omitempty"`
	AmountUSD         decimal.Decimal `json:"amount_usd"`
}

type CollateralOut struct {
	ID ID `json:"id"`
	TxMeta

	PoolID            ID              `json:"pool_id"`
	PositionID        ID              `json:"position_id"`
	InputTokens       []ID            `json:"input_tokens"`
	InputTokenAmounts []*big.Int      `json:"input_token_amounts"`
	OutputToken       ID              `json:"output_token,omitempty"`
	OutputTokenAmount *big.Int        `json:"output_token_amount,omitempty"`
	AmountUSD         decimal.Decimal `json:"amount_usd"`
}

type Liquidate struct {
	ID ID `json:"id"`
	TxMeta

	PoolID       ID              `json:"pool_id"`
	PositionID   ID              `json:"position_id"`
	LiquidateeID ID              `json:"liquidatee_id"`
	Asset        ID              `json:"asset"`
	Amount       *big.Int        `json:"amount"`
	AmountUSD    decimal.Decimal `json:"amount_usd"`
	ProfitUSD    decimal.Decimal `json:"profit_usd"`
}
