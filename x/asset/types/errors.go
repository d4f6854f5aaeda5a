package types

import (
	"cosmossdk.io/errors"
)

// Asset module sentinel errors
var (
	ErrInvalidSymbol      = errors.Register(ModuleName, 1, "invalid token symbol")
	ErrAssetNotFound      = errors.Register(ModuleName, 2, "asset not found")
	ErrAssetExists        = errors.Register(ModuleName, 3, "asset already exists")
	ErrNotMintable        = errors.Register(ModuleName, 4, "asset is not mintable")
	ErrSupplyOverflow     = errors.Register(ModuleName, 5, "total supply overflow")
	ErrSupplyUnderflow    = errors.Register(ModuleName, 6, "total supply underflow")
	ErrUnsupportedPair    = errors.Register(ModuleName, 7, "unsupported trading pair")
	ErrNotAssetOwner      = errors.Register(ModuleName, 8, "not the asset owner")
	ErrInvalidAssetName   = errors.Register(ModuleName, 9, "invalid asset name")
	ErrInvalidUpdateKey   = errors.Register(ModuleName, 10, "invalid asset update key")
	ErrWriteAsset         = errors.Register(ModuleName, 11, "write asset failed")
)
