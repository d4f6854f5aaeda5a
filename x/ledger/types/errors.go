package types

import (
	"cosmossdk.io/errors"
)

// Ledger module sentinel errors
var (
	ErrAccountNotFound     = errors.Register(ModuleName, 1, "account not found")
	ErrAccountExists       = errors.Register(ModuleName, 2, "account already exists")
	ErrInsufficientBalance = errors.Register(ModuleName, 3, "insufficient balance")
	ErrBalanceOverflow     = errors.Register(ModuleName, 4, "balance overflow")
	ErrInvalidBalanceOp    = errors.Register(ModuleName, 5, "invalid balance operation")
	ErrRegIDAssigned       = errors.Register(ModuleName, 6, "regid already assigned")
	ErrRegIDNotFound       = errors.Register(ModuleName, 7, "regid not found")
	ErrWriteAccount        = errors.Register(ModuleName, 8, "write account failed")
	ErrNamedAccountMissing = errors.Register(ModuleName, 9, "named system account not set")
)
