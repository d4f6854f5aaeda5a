package types

import "cosmossdk.io/errors"

// DEX module sentinel errors
var (
	ErrOrderInactive        = errors.Register(ModuleName, 1, "order not found in active set")
	ErrNotOrderOwner        = errors.Register(ModuleName, 2, "not the order owner")
	ErrInvalidOrderPair     = errors.Register(ModuleName, 3, "unsupported trading pair")
	ErrInvalidOrderAmount   = errors.Register(ModuleName, 4, "order amount out of range")
	ErrInvalidOrderPrice    = errors.Register(ModuleName, 5, "invalid order price")
	ErrFeeRatioTooHigh      = errors.Register(ModuleName, 6, "fee ratio exceeds configured maximum")
	ErrOrderSideMismatch    = errors.Register(ModuleName, 7, "deal order side mismatch")
	ErrOrderSymbolMismatch  = errors.Register(ModuleName, 8, "deal order symbol mismatch")
	ErrDealPriceMismatch    = errors.Register(ModuleName, 9, "deal price outside order price bounds")
	ErrDealAmountMismatch   = errors.Register(ModuleName, 10, "deal coin amount inconsistent with price")
	ErrOrderOverFilled      = errors.Register(ModuleName, 11, "deal exceeds order limit amount")
	ErrUnauthorizedSettler  = errors.Register(ModuleName, 12, "settler is not an authorized matching service")
	ErrSettleBatchTooLarge  = errors.Register(ModuleName, 13, "settlement batch exceeds maximum")
	ErrEmptySettleBatch     = errors.Register(ModuleName, 14, "settlement batch is empty")
	ErrOperatorExists       = errors.Register(ModuleName, 15, "owner already has a registered operator")
	ErrOperatorNotFound     = errors.Register(ModuleName, 16, "operator not found")
	ErrRegIDNotMature       = errors.Register(ModuleName, 17, "regid not mature at current height")
	ErrInvalidOperatorField = errors.Register(ModuleName, 18, "invalid operator field")
	ErrInsufficientBalance  = errors.Register(ModuleName, 19, "insufficient account balance for dex operation")
	ErrAmountOverflow       = errors.Register(ModuleName, 20, "dex amount overflow")
	ErrWriteDex             = errors.Register(ModuleName, 21, "write dex record failed")
)
