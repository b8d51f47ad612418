package sink

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/defimetrics-io/defimetrics/pkg/retry"
	"github.com/defimetrics-io/defimetrics/pkg/schema"
	"github.com/defimetrics-io/defimetrics/pkg/utils"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sink buffers closed snapshot rows and flushes them to ClickHouse in
// batches on a cron schedule. Writes never block on the warehouse: a Write*
// call only appends to the in-memory buffer, and a failed flush keeps the
// rows buffered for the next tick.
type Sink struct {
	client *Client
	logger *zap.Logger

	cron     *cron.Cron
	cronSpec string

	mu              sync.Mutex
	financialsDaily []*schema.FinancialsDailySnapshot
	usageDaily      []*schema.UsageDailySnapshot
	usageHourly     []*schema.UsageHourlySnapshot
	poolSnapshots   []*schema.PoolSnapshot
}

// New connects, creates the tables, and schedules the flush. The schedule
// comes from SINK_FLUSH_CRON (seconds field included) and defaults to every
// 30 seconds.
func New(ctx context.Context, logger *zap.Logger) (*Sink, error) {
	database := utils.Env("CLICKHOUSE_DB", "defimetrics")
	client, err := NewClient(ctx, logger, database)
	if err != nil {
		return nil, err
	}
	if err := client.InitTables(ctx); err != nil {
		return nil, err
	}

	s := &Sink{
		client:   client,
		logger:   logger,
		cronSpec: utils.Env("SINK_FLUSH_CRON", "*/30 * * * * *"),
	}

	s.cron = cron.New(cron.WithSeconds(), cron.WithChain(cron.Recover(cron.DefaultLogger)))
	_, err = s.cron.AddFunc(s.cronSpec, func() {
		fctx, cancel := context.WithTimeout(ctx, 25*time.Second)
		defer cancel()
		if err := s.Flush(fctx); err != nil {
			s.logger.Warn("Snapshot flush failed, rows stay buffered", zap.Error(err))
		}
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Start begins the scheduled flushing.
func (s *Sink) Start() {
	s.cron.Start()
	s.logger.Info("Snapshot sink started", zap.String("cronSpec", s.cronSpec))
}

// Stop drains the scheduler, flushes whatever is still buffered, and closes
// the connection.
func (s *Sink) Stop(ctx context.Context) error {
	<-s.cron.Stop().Done()
	if err := s.Flush(ctx); err != nil {
		return err
	}
	return s.client.Close()
}

func (s *Sink) WriteFinancialsDaily(_ context.Context, snap *schema.FinancialsDailySnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.financialsDaily = append(s.financialsDaily, snap)
	return nil
}

func (s *Sink) WriteUsageDaily(_ context.Context, snap *schema.UsageDailySnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usageDaily = append(s.usageDaily, snap)
	return nil
}

func (s *Sink) WriteUsageHourly(_ context.Context, snap *schema.UsageHourlySnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usageHourly = append(s.usageHourly, snap)
	return nil
}

func (s *Sink) WritePoolSnapshot(_ context.Context, snap *schema.PoolSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.poolSnapshots = append(s.poolSnapshots, snap)
	return nil
}

// Flush sends every buffered row, table by table, retrying each batch with
// backoff. Buffers are only cleared after their batch lands.
func (s *Sink) Flush(ctx context.Context) error {
	s.mu.Lock()
	financials := s.financialsDaily
	usageDaily := s.usageDaily
	usageHourly := s.usageHourly
	pools := s.poolSnapshots
	s.financialsDaily = nil
	s.usageDaily = nil
	s.usageHourly = nil
	s.poolSnapshots = nil
	s.mu.Unlock()

	restore := func() {
		s.mu.Lock()
		s.financialsDaily = append(financials, s.financialsDaily...)
		s.usageDaily = append(usageDaily, s.usageDaily...)
		s.usageHourly = append(usageHourly, s.usageHourly...)
		s.poolSnapshots = append(pools, s.poolSnapshots...)
		s.mu.Unlock()
	}

	err := retry.SinkPolicy().Do(ctx, s.logger, "sink_flush", func() error {
		if err := s.insertFinancialsDaily(ctx, financials); err != nil {
			return err
		}
		financials = nil
		if err := s.insertUsageDaily(ctx, usageDaily); err != nil {
			return err
		}
		usageDaily = nil
		if err := s.insertUsageHourly(ctx, usageHourly); err != nil {
			return err
		}
		usageHourly = nil
		if err := s.insertPoolSnapshots(ctx, pools); err != nil {
			return err
		}
		pools = nil
		return nil
	})
	if err != nil {
		restore()
		return err
	}
	return nil
}

func (s *Sink) insertFinancialsDaily(ctx context.Context, rows []*schema.FinancialsDailySnapshot) error {
	if len(rows) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO "%s"."%s" (
		id, protocol_id, day,
		total_value_locked_usd, long_open_interest_usd, short_open_interest_usd, total_open_interest_usd,
		daily_volume_usd, cumulative_volume_usd,
		daily_inflow_volume_usd, daily_closed_inflow_volume_usd, daily_outflow_volume_usd,
		cumulative_inflow_volume_usd, cumulative_closed_inflow_volume_usd, cumulative_outflow_volume_usd, net_volume_usd,
		daily_supply_side_revenue_usd, daily_protocol_side_revenue_usd, daily_stake_side_revenue_usd, daily_total_revenue_usd,
		cumulative_supply_side_revenue_usd, cumulative_protocol_side_revenue_usd, cumulative_stake_side_revenue_usd, cumulative_total_revenue_usd,
		daily_entry_premium_usd, daily_exit_premium_usd, daily_total_premium_usd,
		cumulative_entry_premium_usd, cumulative_exit_premium_usd, cumulative_total_premium_usd,
		daily_deposit_premium_usd, daily_withdraw_premium_usd, daily_total_liquidity_premium_usd,
		cumulative_deposit_premium_usd, cumulative_withdraw_premium_usd, cumulative_total_liquidity_premium_usd
	) VALUES`, s.client.Database, FinancialsDailyTable)

	batch, err := s.client.PrepareBatch(ctx, query)
	if err != nil {
		return err
	}
	defer func(batch driver.Batch) {
		_ = batch.Abort()
	}(batch)

	for _, row := range rows {
		err = batch.Append(
			row.ID.String(),
			row.ProtocolID.String(),
			row.Day,
			row.TotalValueLockedUSD,
			row.LongOpenInterestUSD,
			row.ShortOpenInterestUSD,
			row.TotalOpenInterestUSD,
			row.DailyVolumeUSD,
			row.CumulativeVolumeUSD,
			row.DailyInflowVolumeUSD,
			row.DailyClosedInflowVolumeUSD,
			row.DailyOutflowVolumeUSD,
			row.CumulativeInflowVolumeUSD,
			row.CumulativeClosedInflowVolumeUSD,
			row.CumulativeOutflowVolumeUSD,
			row.NetVolumeUSD,
			row.DailySupplySideRevenueUSD,
			row.DailyProtocolSideRevenueUSD,
			row.DailyStakeSideRevenueUSD,
			row.DailyTotalRevenueUSD,
			row.CumulativeSupplySideRevenueUSD,
			row.CumulativeProtocolSideRevenueUSD,
			row.CumulativeStakeSideRevenueUSD,
			row.CumulativeTotalRevenueUSD,
			row.DailyEntryPremiumUSD,
			row.DailyExitPremiumUSD,
			row.DailyTotalPremiumUSD,
			row.CumulativeEntryPremiumUSD,
			row.CumulativeExitPremiumUSD,
			row.CumulativeTotalPremiumUSD,
			row.DailyDepositPremiumUSD,
			row.DailyWithdrawPremiumUSD,
			row.DailyTotalLiquidityPremiumUSD,
			row.CumulativeDepositPremiumUSD,
			row.CumulativeWithdrawPremiumUSD,
			row.CumulativeTotalLiquidityPremiumUSD,
		)
		if err != nil {
			return err
		}
	}
	return batch.Send()
}

func (s *Sink) insertUsageDaily(ctx context.Context, rows []*schema.UsageDailySnapshot) error {
	if len(rows) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO "%s"."%s" (
		id, protocol_id, day,
		daily_active_users, cumulative_unique_users,
		daily_active_depositors, cumulative_unique_depositors,
		daily_active_borrowers, cumulative_unique_borrowers,
		daily_active_liquidators, cumulative_unique_liquidators,
		daily_active_liquidatees, cumulative_unique_liquidatees,
		daily_long_position_count, long_position_count,
		daily_short_position_count, short_position_count,
		daily_open_position_count, open_position_count,
		daily_closed_position_count, closed_position_count,
		daily_cumulative_position_count, cumulative_position_count,
		daily_transaction_count, daily_deposit_count, daily_withdraw_count, daily_borrow_count, daily_swap_count,
		daily_collateral_in, cumulative_collateral_in, daily_collateral_out, cumulative_collateral_out,
		total_pool_count
	) VALUES`, s.client.Database, UsageDailyTable)

	batch, err := s.client.PrepareBatch(ctx, query)
	if err != nil {
		return err
	}
	defer func(batch driver.Batch) {
		_ = batch.Abort()
	}(batch)

	for _, row := range rows {
		err = batch.Append(
			row.ID.String(),
			row.ProtocolID.String(),
			row.Day,
			row.DailyActiveUsers,
			row.CumulativeUniqueUsers,
			row.DailyActiveDepositors,
			row.CumulativeUniqueDepositors,
			row.DailyActiveBorrowers,
			row.CumulativeUniqueBorrowers,
			row.DailyActiveLiquidators,
			row.CumulativeUniqueLiquidators,
			row.DailyActiveLiquidatees,
			row.CumulativeUniqueLiquidatees,
			row.DailyLongPositionCount,
			row.LongPositionCount,
			row.DailyShortPositionCount,
			row.ShortPositionCount,
			row.DailyOpenPositionCount,
			row.OpenPositionCount,
			row.DailyClosedPositionCount,
			row.ClosedPositionCount,
			row.DailyCumulativePositionCount,
			row.CumulativePositionCount,
			row.DailyTransactionCount,
			row.DailyDepositCount,
			row.DailyWithdrawCount,
			row.DailyBorrowCount,
			row.DailySwapCount,
			row.DailyCollateralIn,
			row.CumulativeCollateralIn,
			row.DailyCollateralOut,
			row.CumulativeCollateralOut,
			row.TotalPoolCount,
		)
		if err != nil {
			return err
		}
	}
	return batch.Send()
}

func (s *Sink) insertUsageHourly(ctx context.Context, rows []*schema.UsageHourlySnapshot) error {
	if len(rows) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO "%s"."%s" (
		id, protocol_id, hour,
		hourly_active_users, cumulative_unique_users,
		hourly_transaction_count, hourly_deposit_count, hourly_withdraw_count, hourly_borrow_count, hourly_swap_count
	) VALUES`, s.client.Database, UsageHourlyTable)

	batch, err := s.client.PrepareBatch(ctx, query)
	if err != nil {
		return err
	}
	defer func(batch driver.Batch) {
		_ = batch.Abort()
	}(batch)

	for _, row := range rows {
		err = batch.Append(
			row.ID.String(),
			row.ProtocolID.String(),
			row.Hour,
			row.HourlyActiveUsers,
			row.CumulativeUniqueUsers,
			row.HourlyTransactionCount,
			row.HourlyDepositCount,
			row.HourlyWithdrawCount,
			row.HourlyBorrowCount,
			row.HourlySwapCount,
		)
		if err != nil {
			return err
		}
	}
	return batch.Send()
}

func (s *Sink) insertPoolSnapshots(ctx context.Context, rows []*schema.PoolSnapshot) error {
	if len(rows) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO "%s"."%s" (
		id, pool_id, granularity, bucket,
		total_value_locked_usd, long_open_interest_usd, short_open_interest_usd, total_open_interest_usd,
		delta_volume_usd, cumulative_volume_usd,
		delta_inflow_volume_usd, delta_closed_inflow_volume_usd, delta_outflow_volume_usd,
		cumulative_inflow_volume_usd, cumulative_closed_inflow_volume_usd, cumulative_outflow_volume_usd, net_volume_usd,
		delta_supply_side_revenue_usd, delta_protocol_side_revenue_usd, delta_total_revenue_usd,
		cumulative_supply_side_revenue_usd, cumulative_protocol_side_revenue_usd, cumulative_total_revenue_usd,
		delta_entry_premium_usd, delta_exit_premium_usd, delta_total_premium_usd,
		cumulative_entry_premium_usd, cumulative_exit_premium_usd, cumulative_total_premium_usd,
		input_token_balances, output_token_supply, output_token_price_usd,
		reward_tokens, reward_token_emissions_amount, reward_token_emissions_usd
	) VALUES`, s.client.Database, PoolSnapshotsTable)

	batch, err := s.client.PrepareBatch(ctx, query)
	if err != nil {
		return err
	}
	defer func(batch driver.Batch) {
		_ = batch.Abort()
	}(batch)

	for _, row := range rows {
		err = batch.Append(
			row.ID.String(),
			row.PoolID.String(),
			row.Interval,
			row.Bucket,
			row.TotalValueLockedUSD,
			row.LongOpenInterestUSD,
			row.ShortOpenInterestUSD,
			row.TotalOpenInterestUSD,
			row.DeltaVolumeUSD,
			row.CumulativeVolumeUSD,
			row.DeltaInflowVolumeUSD,
			row.DeltaClosedInflowVolumeUSD,
			row.DeltaOutflowVolumeUSD,
			row.CumulativeInflowVolumeUSD,
			row.CumulativeClosedInflowVolumeUSD,
			row.CumulativeOutflowVolumeUSD,
			row.NetVolumeUSD,
			row.DeltaSupplySideRevenueUSD,
			row.DeltaProtocolSideRevenueUSD,
			row.DeltaTotalRevenueUSD,
			row.CumulativeSupplySideRevenueUSD,
			row.CumulativeProtocolSideRevenueUSD,
			row.CumulativeTotalRevenueUSD,
			row.DeltaEntryPremiumUSD,
			row.DeltaExitPremiumUSD,
			row.DeltaTotalPremiumUSD,
			row.CumulativeEntryPremiumUSD,
			row.CumulativeExitPremiumUSD,
			row.CumulativeTotalPremiumUSD,
			bigIntStrings(row.InputTokenBalances),
			bigIntString(row.OutputTokenSupply),
			row.OutputTokenPriceUSD,
			idStrings(row.RewardTokens),
			bigIntStrings(row.RewardTokenEmissionsAmount),
			row.RewardTokenEmissionsUSD,
		)
		if err != nil {
			return err
		}
	}
	return batch.Send()
}

func bigIntString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func bigIntStrings(vs []*big.Int) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = bigIntString(v)
	}
	return out
}

func idStrings(ids []schema.ID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
