package schema

// ActivityHelper accrues the in-progress "active" counters between snapshot
// boundaries. It is a singleton per protocol; the snapshot engine captures
// and zeroes the fields of the granularity it just closed.
type ActivityHelper struct {
	ID ID `json:"id"`

	DailyActiveUsers  int32 `json:"daily_active_users"`
	HourlyActiveUsers int32 `json:"hourly_active_users"`

	DailyActiveDepositors  int32 `json:"daily_active_depositors"`
	DailyActiveBorrowers   int32 `json:"daily_active_borrowers"`
	DailyActiveLiquidators int32 `json:"daily_active_liquidators"`
	DailyActiveLiquidatees int32 `json:"daily_active_liquidatees"`

	DailyTransactionCount  int32 `json:"daily_transaction_count"`
	HourlyTransactionCount int32 `json:"hourly_transaction_count"`
	DailyDepositCount      int32 `json:"daily_deposit_count"`
	HourlyDepositCount     int32 `json:"hourly_deposit_count"`
	DailyWithdrawCount     int32 `json:"daily_withdraw_count"`
	HourlyWithdrawCount    int32 `json:"hourly_withdraw_count"`
	DailyBorrowCount       int32 `json:"daily_borrow_count"`
	HourlyBorrowCount      int32 `json:"hourly_borrow_count"`
	DailySwapCount         int32 `json:"daily_swap_count"`
	HourlySwapCount        int32 `json:"hourly_swap_count"`
}

// WasActive reports which granularities saw an account's first activity of
// the period. Only first-time marker creation sets the flags.
type WasActive struct {
	Hourly bool
	Daily  bool
}
