package txs

import "cosmossdk.io/errors"

const ModuleName = "txs"

// Dispatch and validation sentinel errors
var (
	ErrUnknownKind     = errors.Register(ModuleName, 1, "unknown transaction kind")
	ErrUnsupportedKind = errors.Register(ModuleName, 2, "transaction kind reserved but not supported")
	ErrInvalidVersion  = errors.Register(ModuleName, 3, "unsupported transaction version")
	ErrInvalidHeight   = errors.Register(ModuleName, 4, "transaction valid height out of range")
	ErrInvalidFee      = errors.Register(ModuleName, 5, "invalid transaction fee")
	ErrInvalidSigner   = errors.Register(ModuleName, 6, "invalid signer id")
	ErrSignerNotFound  = errors.Register(ModuleName, 7, "signer account not found")
	ErrUnregistered    = errors.Register(ModuleName, 8, "signer account not registered")
	ErrBadSignature    = errors.Register(ModuleName, 9, "signature verification failed")
	ErrMemoTooLong     = errors.Register(ModuleName, 10, "memo exceeds maximum length")
	ErrInvalidPayload  = errors.Register(ModuleName, 11, "invalid transaction payload")
	ErrDecode          = errors.Register(ModuleName, 12, "transaction decode failed")
)
