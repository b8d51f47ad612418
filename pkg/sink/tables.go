package sink

import (
	"context"
	"fmt"

	"github.com/alitto/pond/v2"
)

const (
	FinancialsDailyTable = "financials_daily_snapshots"
	UsageDailyTable      = "usage_daily_snapshots"
	UsageHourlyTable     = "usage_hourly_snapshots"
	PoolSnapshotsTable   = "pool_snapshots"
)

// Snapshot rows are append-only, so plain MergeTree ordered by subject and
// bucket is enough; there is nothing to deduplicate or replace.
const financialsDailyDDL = `
	CREATE TABLE IF NOT EXISTS "%s"."%s" (
		id String CODEC(ZSTD),
		protocol_id String CODEC(ZSTD),
		day Int64 CODEC(Delta, ZSTD),
		total_value_locked_usd Decimal(38, 18),
		long_open_interest_usd Decimal(38, 18),
		short_open_interest_usd Decimal(38, 18),
		total_open_interest_usd Decimal(38, 18),
		daily_volume_usd Decimal(38, 18),
		cumulative_volume_usd Decimal(38, 18),
		daily_inflow_volume_usd Decimal(38, 18),
		daily_closed_inflow_volume_usd Decimal(38, 18),
		daily_outflow_volume_usd Decimal(38, 18),
		cumulative_inflow_volume_usd Decimal(38, 18),
		cumulative_closed_inflow_volume_usd Decimal(38, 18),
		cumulative_outflow_volume_usd Decimal(38, 18),
		net_volume_usd Decimal(38, 18),
		daily_supply_side_revenue_usd Decimal(38, 18),
		daily_protocol_side_revenue_usd Decimal(38, 18),
		daily_stake_side_revenue_usd Decimal(38, 18),
		daily_total_revenue_usd Decimal(38, 18),
		cumulative_supply_side_revenue_usd Decimal(38, 18),
		cumulative_protocol_side_revenue_usd Decimal(38, 18),
		cumulative_stake_side_revenue_usd Decimal(38, 18),
		cumulative_total_revenue_usd Decimal(38, 18),
		daily_entry_premium_usd Decimal(38, 18),
		daily_exit_premium_usd Decimal(38, 18),
		daily_total_premium_usd Decimal(38, 18),
		cumulative_entry_premium_usd Decimal(38, 18),
		cumulative_exit_premium_usd Decimal(38, 18),
		cumulative_total_premium_usd Decimal(38, 18),
		daily_deposit_premium_usd Decimal(38, 18),
		daily_withdraw_premium_usd Decimal(38, 18),
		daily_total_liquidity_premium_usd Decimal(38, 18),
		cumulative_deposit_premium_usd Decimal(38, 18),
		cumulative_withdraw_premium_usd Decimal(38, 18),
		cumulative_total_liquidity_premium_usd Decimal(38, 18)
	) ENGINE = MergeTree
	ORDER BY (protocol_id, day)
`

const usageDailyDDL = `
	CREATE TABLE IF NOT EXISTS "%s"."%s" (
		id String CODEC(ZSTD),
		protocol_id String CODEC(ZSTD),
		day Int64 CODEC(Delta, ZSTD),
		daily_active_users Int32,
		cumulative_unique_users Int32,
		daily_active_depositors Int32,
		cumulative_unique_depositors Int32,
		daily_active_borrowers Int32,
		cumulative_unique_borrowers Int32,
		daily_active_liquidators Int32,
		cumulative_unique_liquidators Int32,
		daily_active_liquidatees Int32,
		cumulative_unique_liquidatees Int32,
		daily_long_position_count Int32,
		long_position_count Int32,
		daily_short_position_count Int32,
		short_position_count Int32,
		daily_open_position_count Int32,
		open_position_count Int32,
		daily_closed_position_count Int32,
		closed_position_count Int32,
		daily_cumulative_position_count Int32,
		cumulative_position_count Int32,
		daily_transaction_count Int32,
		daily_deposit_count Int32,
		daily_withdraw_count Int32,
		daily_borrow_count Int32,
		daily_swap_count Int32,
		daily_collateral_in Int32,
		cumulative_collateral_in Int32,
		daily_collateral_out Int32,
		cumulative_collateral_out Int32,
		total_pool_count Int32
	) ENGINE = MergeTree
	ORDER BY (protocol_id, day)
`

const usageHourlyDDL = `
	CREATE TABLE IF NOT EXISTS "%s"."%s" (
		id String CODEC(ZSTD),
		protocol_id String CODEC(ZSTD),
		hour Int64 CODEC(Delta, ZSTD),
		hourly_active_users Int32,
		cumulative_unique_users Int32,
		hourly_transaction_count Int32,
		hourly_deposit_count Int32,
		hourly_withdraw_count Int32,
		hourly_borrow_count Int32,
		hourly_swap_count Int32
	) ENGINE = MergeTree
	ORDER BY (protocol_id, hour)
`

const poolSnapshotsDDL = `
	CREATE TABLE IF NOT EXISTS "%s"."%s" (
		id String CODEC(ZSTD),
		pool_id String CODEC(ZSTD),
		granularity String CODEC(ZSTD),
		bucket Int64 CODEC(Delta, ZSTD),
		total_value_locked_usd Decimal(38, 18),
		long_open_interest_usd Decimal(38, 18),
		short_open_interest_usd Decimal(38, 18),
		total_open_interest_usd Decimal(38, 18),
		delta_volume_usd Decimal(38, 18),
		cumulative_volume_usd Decimal(38, 18),
		delta_inflow_volume_usd Decimal(38, 18),
		delta_closed_inflow_volume_usd Decimal(38, 18),
		delta_outflow_volume_usd Decimal(38, 18),
		cumulative_inflow_volume_usd Decimal(38, 18),
		cumulative_closed_inflow_volume_usd Decimal(38, 18),
		cumulative_outflow_volume_usd Decimal(38, 18),
		net_volume_usd Decimal(38, 18),
		delta_supply_side_revenue_usd Decimal(38, 18),
		delta_protocol_side_revenue_usd Decimal(38, 18),
		delta_total_revenue_usd Decimal(38, 18),
		cumulative_supply_side_revenue_usd Decimal(38, 18),
		cumulative_protocol_side_revenue_usd Decimal(38, 18),
		cumulative_total_revenue_usd Decimal(38, 18),
		delta_entry_premium_usd Decimal(38, 18),
		delta_exit_premium_usd Decimal(38, 18),
		delta_total_premium_usd Decimal(38, 18),
		cumulative_entry_premium_usd Decimal(38, 18),
		cumulative_exit_premium_usd Decimal(38, 18),
		cumulative_total_premium_usd Decimal(38, 18),
		input_token_balances Array(String),
		output_token_supply String,
		output_token_price_usd Decimal(38, 18),
		reward_tokens Array(String),
		reward_token_emissions_amount Array(String),
		reward_token_emissions_usd Array(Decimal(38, 18))
	) ENGINE = MergeTree
	ORDER BY (pool_id, granularity, bucket)
`

// InitTables creates the database and the four snapshot tables. Table
// creation is independent per table, so the statements run in parallel on a
// small worker pool.
func (c *Client) InitTables(ctx context.Context) error {
	if err := c.CreateDbIfNotExists(ctx); err != nil {
		return err
	}

	ddls := map[string]string{
		FinancialsDailyTable: financialsDailyDDL,
		UsageDailyTable:      usageDailyDDL,
		UsageHourlyTable:     usageHourlyDDL,
		PoolSnapshotsTable:   poolSnapshotsDDL,
	}

	pool := pond.NewPool(len(ddls))
	defer pool.StopAndWait()

	group := pool.NewGroup()
	for table, ddl := range ddls {
		query := fmt.Sprintf(ddl, c.Database, table)
		group.SubmitErr(func() error {
			if err := c.Exec(ctx, query); err != nil {
				return fmt.Errorf("create %s: %w", table, err)
			}
			return nil
		})
	}
	return group.Wait()
}
