package schema

import "github.com/shopspring/decimal"

// Account is one external address. The per-kind counters double as the
// "first ever" detectors: a counter that is zero before its increment marks
// the account as a new unique depositor/borrower/... at pool and protocol
// level.
type Account struct {
	ID ID `json:"id"`

	CumulativeEntryPremiumUSD decimal.Decimal `json:"cumulative_entry_premium_usd"`
	CumulativeExitPremiumUSD  decimal.Decimal `json:"cumulative_exit_premium_usd"`
	CumulativeTotalPremiumUSD decimal.Decimal `json:"cumulative_total_premium_usd"`

	CumulativeDepositPremiumUSD        decimal.Decimal `json:"cumulative_deposit_premium_usd"`
	CumulativeWithdrawPremiumUSD       decimal.Decimal `json:"cumulative_withdraw_premium_usd"`
	CumulativeTotalLiquidityPremiumUSD decimal.Decimal `json:"cumulative_total_liquidity_premium_usd"`

	LongPositionCount   int32 `json:"long_position_count"`
	ShortPositionCount  int32 `json:"short_position_count"`
	OpenPositionCount   int32 `json:"open_position_count"`
	ClosedPositionCount int32 `json:"closed_position_count"`

	DepositCount       int32 `json:"deposit_count"`
	WithdrawCount      int32 `json:"withdraw_count"`
	BorrowCount        int32 `json:"borrow_count"`
	SwapCount          int32 `json:"swap_count"`
	CollateralInCount  int32 `json:"collateral_in_count"`
	CollateralOutCount int32 `json:"collateral_out_count"`

	// LiquidateCount counts liquidations carried out by this account,
	// LiquidationCount the times this account got liquidated.
	LiquidateCount   int32 `json:"liquidate_count"`
	LiquidationCount int32 `json:"liquidation_count"`
}
