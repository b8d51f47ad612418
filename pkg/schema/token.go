package schema

import "github.com/shopspring/decimal"

// Token metadata is fetched once per first-seen address through the token
// initializer collaborator and cached in the store afterwards.
type Token struct {
	ID           ID              `json:"id"`
	Name         string          `json:"name"`
	Symbol       string          `json:"symbol"`
	Decimals     uint8           `json:"decimals"`
	LastPriceUSD decimal.Decimal `json:"last_price_usd"`
}

type RewardToken struct {
	ID      ID              `json:"id"`
	Type    RewardTokenType `json:"type"`
	TokenID ID              `json:"token_id"`
}
