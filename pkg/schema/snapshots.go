package schema

import "github.com/shopspring/decimal"

// Snapshot rows are append-only: once written they are never mutated.
// Daily*/Hourly* fields hold the delta since the previous snapshot of the
// same granularity, or the cumulative value itself when no previous row
// exists. The series is sparse; idle buckets produce no rows.

type FinancialsDailySnapshot struct {
	ID         ID    `json:"id"`
	ProtocolID ID    `json:"protocol_id"`
	Day        int64 `json:"day"`

	TotalValueLockedUSD  decimal.Decimal `json:"total_value_locked_usd"`
	LongOpenInterestUSD  decimal.Decimal `json:"long_open_interest_usd"`
	ShortOpenInterestUSD decimal.Decimal `json:"short_open_interest_usd"`
	TotalOpenInterestUSD decimal.Decimal `json:"total_open_interest_usd"`

	DailyVolumeUSD      decimal.Decimal `json:"daily_volume_usd"`
	CumulativeVolumeUSD decimal.Decimal `json:"cumulative_volume_usd"`

	DailyInflowVolumeUSD            decimal.Decimal `json:"daily_inflow_volume_usd"`
	DailyClosedInflowVolumeUSD      decimal.Decimal `json:"daily_closed_inflow_volume_usd"`
	DailyOutflowVolumeUSD           decimal.Decimal `json:"daily_outflow_volume_usd"`
	CumulativeInflowVolumeUSD       decimal.Decimal `json:"cumulative_inflow_volume_usd"`
	CumulativeClosedInflowVolumeUSD decimal.Decimal `json:"cumulative_closed_inflow_volume_usd"`
	CumulativeOutflowVolumeUSD      decimal.Decimal `json:"cumulative_outflow_volume_usd"`
	NetVolumeUSD                    decimal.Decimal `json:"net_volume_usd"`

	DailySupplySideRevenueUSD        decimal.Decimal `json:"daily_supply_side_revenue_usd"`
	DailyProtocolSideRevenueUSD      decimal.Decimal `json:"daily_protocol_side_revenue_usd"`
	DailyStakeSideRevenueUSD         decimal.Decimal `json:"daily_stake_side_revenue_usd"`
	DailyTotalRevenueUSD             decimal.Decimal `json:"daily_total_revenue_usd"`
	CumulativeSupplySideRevenueUSD   decimal.Decimal `json:"cumulative_supply_side_revenue_usd"`
	CumulativeProtocolSideRevenueUSD decimal.Decimal `json:"cumulative_protocol_side_revenue_usd"`
	CumulativeStakeSideRevenueUSD    decimal.Decimal `json:"cumulative_stake_side_revenue_usd"`
	CumulativeTotalRevenueUSD        decimal.Decimal `json:"cumulative_total_revenue_usd"`

	DailyEntryPremiumUSD      decimal.Decimal `json:"daily_entry_premium_usd"`
	DailyExitPremiumUSD       decimal.Decimal `json:"daily_exit_premium_usd"`
	DailyTotalPremiumUSD      decimal.Decimal `json:"daily_total_premium_usd"`
	CumulativeEntryPremiumUSD decimal.Decimal `json:"cumulative_entry_premium_usd"`
	CumulativeExitPremiumUSD  decimal.Decimal `json:"cumulative_exit_premium_usd"`
	CumulativeTotalPremiumUSD decimal.Decimal `json:"cumulative_total_premium_usd"`

	DailyDepositPremiumUSD             decimal.Decimal `json:"daily_deposit_premium_usd"`
	DailyWithdrawPremiumUSD            decimal.Decimal `json:"daily_withdraw_premium_usd"`
	DailyTotalLiquidityPremiumUSD      decimal.Decimal `json:"daily_total_liquidity_premium_usd"`
	CumulativeDepositPremiumUSD        decimal.Decimal `json:"cumulative_deposit_premium_usd"`
	CumulativeWithdrawPremiumUSD       decimal.Decimal `json:"cumulative_withdraw_premium_usd"`
	CumulativeTotalLiquidityPremiumUSD decimal.Decimal `json:"cumulative_total_liquidity_premium_usd"`
}

type UsageDailySnapshot struct {
	ID         ID    `json:"id"`
	ProtocolID ID    `json:"protocol_id"`
	Day        int64 `json:"day"`

	DailyActiveUsers      int32 `json:"daily_active_users"`
	CumulativeUniqueUsers int32 `json:"cumulative_unique_users"`

	DailyActiveDepositors      int32 `json:"daily_active_depositors"`
	CumulativeUniqueDepositors int32 `json:"cumulative_unique_depositors"`

	DailyActiveBorrowers      int32 `json:"daily_active_borrowers"`
	CumulativeUniqueBorrowers int32 `json:"cumulative_unique_borrowers"`

	DailyActiveLiquidators      int32 `json:"daily_active_liquidators"`
	CumulativeUniqueLiquidators int32 `json:"cumulative_unique_liquidators"`

	DailyActiveLiquidatees      int32 `json:"daily_active_liquidatees"`
	CumulativeUniqueLiquidatees int32 `json:"cumulative_unique_liquidatees"`

	DailyLongPositionCount       int32 `json:"daily_long_position_count"`
	LongPositionCount            int32 `json:"long_position_count"`
	DailyShortPositionCount      int32 `json:"daily_short_position_count"`
	ShortPositionCount           int32 `json:"short_position_count"`
	DailyOpenPositionCount       int32 `json:"daily_open_position_count"`
	OpenPositionCount            int32 `json:"open_position_count"`
	DailyClosedPositionCount     int32 `json:"daily_closed_position_count"`
	ClosedPositionCount          int32 `json:"closed_position_count"`
	DailyCumulativePositionCount int32 `json:"daily_cumulative_position_count"`
	CumulativePositionCount      int32 `json:"cumulative_position_count"`

	DailyTransactionCount int32 `json:"daily_transaction_count"`
	DailyDepositCount     int32 `json:"daily_deposit_count"`
	DailyWithdrawCount    int32 `json:"daily_withdraw_count"`
	DailyBorrowCount      int32 `json:"daily_borrow_count"`
	DailySwapCount        int32 `json:"daily_swap_count"`

	DailyCollateralIn       int32 `json:"daily_collateral_in"`
	CumulativeCollateralIn  int32 `json:"cumulative_collateral_in"`
	DailyCollateralOut      int32 `json:"daily_collateral_out"`
	CumulativeCollateralOut int32 `json:"cumulative_collateral_out"`

	TotalPoolCount int32 `json:"total_pool_count"`
}

type UsageHourlySnapshot struct {
	ID         ID    `json:"id"`
	ProtocolID ID    `json:"protocol_id"`
	Hour       int64 `json:"hour"`

	HourlyActiveUsers     int32 `json:"hourly_active_users"`
	CumulativeUniqueUsers int32 `json:"cumulative_unique_users"`

	HourlyTransactionCount int32 `json:"hourly_transaction_count"`
	HourlyDepositCount     int32 `json:"hourly_deposit_count"`
	HourlyWithdrawCount    int32 `json:"hourly_withdraw_count"`
	HourlyBorrowCount      int32 `json:"hourly_borrow_count"`
	HourlySwapCount        int32 `json:"hourly_swap_count"`
}
