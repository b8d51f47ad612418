package schema

import "errors"

// Category tags are closed sets. Mutation paths validate them up front and
// treat an unknown tag as a fatal error for the event being processed: a
// partially applied mutation would desynchronize the aggregate hierarchy.
var (
	ErrUnknownProtocolType    = errors.New("unknown protocol type")
	ErrUnknownTransactionType = errors.New("unknown transaction type")
	ErrUnknownActivityType    = errors.New("unknown activity type")
	ErrUnknownPositionSide    = errors.New("unknown position side")
	ErrUnknownRewardTokenType = errors.New("unknown reward token type")
	ErrUnknownPoolFeeType     = errors.New("unknown pool fee type")
)

type ProtocolType string

const (
	ProtocolTypeBridge    ProtocolType = "BRIDGE"
	ProtocolTypeGeneric   ProtocolType = "GENERIC"
	ProtocolTypePerpetual ProtocolType = "PERPETUAL"
)

func (t ProtocolType) Valid() bool {
	switch t {
	case ProtocolTypeBridge, ProtocolTypeGeneric, ProtocolTypePerpetual:
		return true
	}
	return false
}

type TransactionType string

const (
	TxDeposit       TransactionType = "DEPOSIT"
	TxWithdraw      TransactionType = "WITHDRAW"
	TxSwap          TransactionType = "SWAP"
	TxBorrow        TransactionType = "BORROW"
	TxCollateralIn  TransactionType = "COLLATERAL_IN"
	TxCollateralOut TransactionType = "COLLATERAL_OUT"
	TxLiquidate     TransactionType = "LIQUIDATE"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TxDeposit, TxWithdraw, TxSwap, TxBorrow, TxCollateralIn, TxCollateralOut, TxLiquidate:
		return true
	}
	return false
}

type ActivityType string

const (
	ActivityDeposit    ActivityType = "DEPOSIT"
	ActivityBorrow     ActivityType = "BORROW"
	ActivityLiquidator ActivityType = "LIQUIDATOR"
	ActivityLiquidatee ActivityType = "LIQUIDATEE"
)

func (t ActivityType) Valid() bool {
	switch t {
	case ActivityDeposit, ActivityBorrow, ActivityLiquidator, ActivityLiquidatee:
		return true
	}
	return false
}

type PositionSide string

const (
	SideLong  PositionSide = "LONG"
	SideShort PositionSide = "SHORT"
)

func (s PositionSide) Valid() bool {
	return s == SideLong || s == SideShort
}

type RewardTokenType string

const (
	RewardTypeDeposit RewardTokenType = "DEPOSIT"
	RewardTypeBorrow  RewardTokenType = "BORROW"
)

func (t RewardTokenType) Valid() bool {
	return t == RewardTypeDeposit || t == RewardTypeBorrow
}

type PoolFeeType string

const (
	FeeTradingFee         PoolFeeType = "TRADING_FEE"
	FeeProtocolFee        PoolFeeType = "PROTOCOL_FEE"
	FeeDynamicTradingFee  PoolFeeType = "DYNAMIC_TRADING_FEE"
	FeeDynamicProtocolFee PoolFeeType = "DYNAMIC_PROTOCOL_FEE"
	FeeDepositFee         PoolFeeType = "DEPOSIT_FEE"
	FeeWithdrawalFee      PoolFeeType = "WITHDRAWAL_FEE"
)

func (t PoolFeeType) Valid() bool {
	switch t {
	case FeeTradingFee, FeeProtocolFee, FeeDynamicTradingFee, FeeDynamicProtocolFee, FeeDepositFee, FeeWithdrawalFee:
		return true
	}
	return false
}
