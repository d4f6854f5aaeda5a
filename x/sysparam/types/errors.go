package types

import "cosmossdk.io/errors"

// Sysparam module sentinel errors. ErrParamMissing marks a misconfigured
// node rather than invalid user input.
var (
	ErrParamMissing = errors.Register(ModuleName, 1, "required system parameter missing")
	ErrParamInvalid = errors.Register(ModuleName, 2, "invalid system parameter value")
)
