package types

import "cosmossdk.io/errors"

const ModuleName = "delegate"

// Store keys
var (
	ActiveDelegatesKey = []byte{0x01}
)

var (
	ErrNoActiveDelegates = errors.Register(ModuleName, 1, "no active delegates")
	ErrWriteDelegates    = errors.Register(ModuleName, 2, "write delegates failed")
)
