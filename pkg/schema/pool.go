package schema

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Pool is one market/route scoped aggregate. Created on first reference,
// initialized exactly once; every mutation cascades its delta to the owning
// protocol in the same call.
//
// RewardTokens / RewardTokenEmissionsAmount / RewardTokenEmissionsUSD are the
// index-aligned reward triple: RewardTokens stays sorted ascending and the
// other two are always permuted to match it.
type Pool struct {
	ID            ID     `json:"id"`
	ProtocolID    ID     `json:"protocol_id"`
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	IsInitialized bool   `json:"is_initialized"`

	InputTokens        []ID       `json:"input_tokens"`
	InputTokenBalances []*big.Int `json:"input_token_balances"`
	OutputToken        ID         `json:"output_token,omitempty"`

	OutputTokenSupply       *big.Int        `json:"output_token_supply,omitempty"`
	OutputTokenPriceUSD     decimal.Decimal `json:"output_token_price_usd"`
	StakedOutputTokenAmount *big.Int        `json:"staked_output_token_amount,omitempty"`

	RewardTokens               []ID              `json:"reward_tokens,omitempty"`
	RewardTokenEmissionsAmount []*big.Int        `json:"reward_token_emissions_amount,omitempty"`
	RewardTokenEmissionsUSD    []decimal.Decimal `json:"reward_token_emissions_usd,omitempty"`

	Fees []ID `json:"fees,omitempty"`

	TotalValueLockedUSD decimal.Decimal `json:"total_value_locked_usd"`
	CumulativeVolumeUSD decimal.Decimal `json:"cumulative_volume_usd"`

	CumulativeInflowVolumeUSD       decimal.Decimal `json:"cumulative_inflow_volume_usd"`
	CumulativeClosedInflowVolumeUSD decimal.Decimal `json:"cumulative_closed_inflow_volume_usd"`
	CumulativeOutflowVolumeUSD      decimal.Decimal `json:"cumulative_outflow_volume_usd"`
	NetVolumeUSD                    decimal.Decimal `json:"net_volume_usd"`

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

	CreatedTimestamp   int64  `json:"created_timestamp"`
	CreatedBlockNumber uint64 `json:"created_block_number"`

	LastSnapshotDayID   int64 `json:"last_snapshot_day_id"`
	LastSnapshotHourID  int64 `json:"last_snapshot_hour_id"`
	LastUpdateTimestamp int64 `json:"last_update_timestamp"`
}

// PoolFee is one typed fee record attached to a pool, upserted in place.
type PoolFee struct {
	ID            ID               `json:"id"`
	Type          PoolFeeType      `json:"type"`
	FeePercentage *decimal.Decimal `json:"fee_percentage,omitempty"`
}
