package schema

import "github.com/shopspring/decimal"

// Protocol is the singleton aggregate root for one deployment. Every
// accumulator call touches it, either directly or through a pool cascade.
// Cumulative USD fields are signed running totals; counters only move through
// the accumulator methods so the pool/protocol levels cannot diverge.
type Protocol struct {
	ID      ID           `json:"id"`
	Name    string       `json:"name"`
	Slug    string       `json:"slug"`
	Network string       `json:"network"`
	Type    ProtocolType `json:"type"`

	TotalValueLockedUSD decimal.Decimal `json:"total_value_locked_usd"`
	CumulativeVolumeUSD decimal.Decimal `json:"cumulative_volume_usd"`

	CumulativeInflowVolumeUSD       decimal.Decimal `json:"cumulative_inflow_volume_usd"`
	CumulativeClosedInflowVolumeUSD decimal.Decimal `json:"cumulative_closed_inflow_volume_usd"`
	CumulativeOutflowVolumeUSD      decimal.Decimal `json:"cumulative_outflow_volume_usd"`
	// NetVolumeUSD is kept equal to inflow minus outflow at all times.
	NetVolumeUSD decimal.Decimal `json:"net_volume_usd"`

	CumulativeSupplySideRevenueUSD   decimal.Decimal `json:"cumulative_supply_side_revenue_usd"`
	CumulativeProtocolSideRevenueUSD decimal.Decimal `json:"cumulative_protocol_side_revenue_usd"`
	CumulativeStakeSideRevenueUSD    decimal.Decimal `json:"cumulative_stake_side_revenue_usd"`
	CumulativeTotalRevenueUSD        decimal.Decimal `json:"cumulative_total_revenue_usd"`

	CumulativeEntryPremiumUSD decimal.Decimal `json:"cumulative_entry_premium_usd"`
	CumulativeExitPremiumUSD  decimal.Decimal `json:"cumulative_exit_premium_usd"`
	CumulativeTotalPremiumUSD decimal.Decimal `json:"cumulative_total_premium_usd"`

	CumulativeDepositPremiumUSD        decimal.Decimal `json:"cumulative_deposit_premium_usd"`
	CumulativeWithdrawPremiumUSD       decimal.Decimal `json:"cumulative_withdraw_premium_usd"`
	CumulativeTotalLiquidityPremiumUSD decimal.Decimal `json:"cumulative_total_liquidity_premium_usd"`

	LongOpenInterestUSD  decimal.Decimal `json:"long_open_interest_usd"`
	ShortOpenInterestUSD decimal.Decimal `json:"short_open_interest_usd"`
	TotalOpenInterestUSD decimal.Decimal `json:"total_open_interest_usd"`

	CumulativeUniqueUsers       int32 `json:"cumulative_unique_users"`
	CumulativeUniqueDepositors  int32 `json:"cumulative_unique_depositors"`
	CumulativeUniqueBorrowers   int32 `json:"cumulative_unique_borrowers"`
	CumulativeUniqueLiquidators int32 `json:"cumulative_unique_liquidators"`
	CumulativeUniqueLiquidatees int32 `json:"cumulative_unique_liquidatees"`

	LongPositionCount       int32 `json:"long_position_count"`
	ShortPositionCount      int32 `json:"short_position_count"`
	OpenPositionCount       int32 `json:"open_position_count"`
	ClosedPositionCount     int32 `json:"closed_position_count"`
	CumulativePositionCount int32 `json:"cumulative_position_count"`

	TransactionCount   int32 `json:"transaction_count"`
	DepositCount       int32 `json:"deposit_count"`
	WithdrawCount      int32 `json:"withdraw_count"`
	BorrowCount        int32 `json:"borrow_count"`
	SwapCount          int32 `json:"swap_count"`
	CollateralInCount  int32 `json:"collateral_in_count"`
	CollateralOutCount int32 `json:"collateral_out_count"`

	TotalPoolCount int32 `json:"total_pool_count"`

	// Snapshot engine bookkeeping. LastUpdateTimestamp == 0 means the
	// protocol has never been touched, so there is no period to close.
	LastSnapshotDayID   int64 `json:"last_snapshot_day_id"`
	LastSnapshotHourID  int64 `json:"last_snapshot_hour_id"`
	LastUpdateTimestamp int64 `json:"last_update_timestamp"`
}
