package types

import "cosmossdk.io/errors"

// CDP module sentinel errors
var (
	ErrCdpNotFound            = errors.Register(ModuleName, 1, "cdp not found")
	ErrCdpExists              = errors.Register(ModuleName, 2, "owner already has an open cdp for pair")
	ErrNotCdpOwner            = errors.Register(ModuleName, 3, "not the cdp owner")
	ErrCollateralNotActivated = errors.Register(ModuleName, 4, "collateral token not activated for staking")
	ErrInvalidDebtSymbol      = errors.Register(ModuleName, 5, "debt token is not a recognized stablecoin")
	ErrAmountTooSmall         = errors.Register(ModuleName, 6, "amount below required minimum")
	ErrAmountOverflow         = errors.Register(ModuleName, 7, "cdp amount overflow")
	ErrRedeemExceedsBalance   = errors.Register(ModuleName, 8, "redeem amount exceeds cdp balance")
	ErrRatioBelowStart        = errors.Register(ModuleName, 9, "collateral ratio below start requirement")
	ErrRatioAboveLiquidate    = errors.Register(ModuleName, 10, "collateral ratio above liquidation threshold")
	ErrGlobalCeilingExceeded  = errors.Register(ModuleName, 11, "global collateral ceiling exceeded")
	ErrGlobalRatioBelowFloor  = errors.Register(ModuleName, 12, "global collateral ratio below floor")
	ErrInsufficientBalance    = errors.Register(ModuleName, 13, "insufficient account balance for cdp operation")
	ErrWriteCdp               = errors.Register(ModuleName, 14, "write cdp failed")
)
