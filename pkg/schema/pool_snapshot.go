package schema

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// PoolSnapshot is one pool-scoped financial rollup row, materialized for
// both granularities (the Interval field tells them apart; the ID is already
// granularity-specific). Delta fields follow the same previous-snapshot
// arithmetic as the protocol rows.
type PoolSnapshot struct {
	ID       ID     `json:"id"`
	PoolID   ID     `json:"pool_id"`
	Interval string `json:"interval"`
	Bucket   int64  `json:"bucket"`

	TotalValueLockedUSD  decimal.Decimal `json:"total_value_locked_usd"`
	LongOpenInterestUSD  decimal.Decimal `json:"long_open_interest_usd"`
	ShortOpenInterestUSD decimal.Decimal `json:"short_open_interest_usd"`
	TotalOpenInterestUSD decimal.Decimal `json:"total_open_interest_usd"`

	DeltaVolumeUSD      decimal.Decimal `json:"delta_volume_usd"`
	CumulativeVolumeUSD decimal.Decimal `json:"cumulative_volume_usd"`

	DeltaInflowVolumeUSD            decimal.Decimal `json:"delta_inflow_volume_usd"`
	DeltaClosedInflowVolumeUSD      decimal.Decimal `json:"delta_closed_inflow_volume_usd"`
	DeltaOutflowVolumeUSD           decimal.Decimal `json:"delta_outflow_volume_usd"`
	CumulativeInflowVolumeUSD       decimal.Decimal `json:"cumulative_inflow_volume_usd"`
	CumulativeClosedInflowVolumeUSD decimal.Decimal `json:"cumulative_closed_inflow_volume_usd"`
	CumulativeOutflowVolumeUSD      decimal.Decimal `json:"cumulative_outflow_volume_usd"`
	NetVolumeUSD                    decimal.Decimal `json:"net_volume_usd"`

	DeltaSupplySideRevenueUSD        decimal.Decimal `json:"delta_supply_side_revenue_usd"`
	DeltaProtocolSideRevenueUSD      decimal.Decimal `json:"delta_protocol_side_revenue_usd"`
	DeltaTotalRevenueUSD             decimal.Decimal `json:"delta_total_revenue_usd"`
	CumulativeSupplySideRevenueUSD   decimal.Decimal `json:"cumulative_supply_side_revenue_usd"`
	CumulativeProtocolSideRevenueUSD decimal.Decimal `json:"cumulative_protocol_side_revenue_usd"`
	CumulativeTotalRevenueUSD        decimal.Decimal `json:"cumulative_total_revenue_usd"`

	DeltaEntryPremiumUSD      decimal.Decimal `json:"delta_entry_premium_usd"`
	DeltaExitPremiumUSD       decimal.Decimal `json:"delta_exit_premium_usd"`
	DeltaTotalPremiumUSD      decimal.Decimal `json:"delta_total_premium_usd"`
	CumulativeEntryPremiumUSD decimal.Decimal `json:"cumulative_entry_premium_usd"`
	CumulativeExitPremiumUSD  decimal.Decimal `json:"cumulative_exit_premium_usd"`
	CumulativeTotalPremiumUSD decimal.Decimal `json:"cumulative_total_premium_usd"`

	InputTokenBalances  []*big.Int      `json:"input_token_balances"`
	OutputTokenSupply   *big.Int        `json:"output_token_supply,omitempty"`
	OutputTokenPriceUSD decimal.Decimal `json:"output_token_price_usd"`

	RewardTokens               []ID              `json:"reward_tokens,omitempty"`
	RewardTokenEmissionsAmount []*big.Int        `json:"reward_token_emissions_amount,omitempty"`
	RewardTokenEmissionsUSD    []decimal.Decimal `json:"reward_token_emissions_usd,omitempty"`
}
