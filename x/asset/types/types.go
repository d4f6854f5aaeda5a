package types

import (
	"regexp"
)

const (
	// ModuleName defines the module name
	ModuleName = "asset"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName
)

// Chain-native token symbols.
const (
	// BaseCoin is the fuel and default CDP collateral coin.
	BaseCoin = "PERC"
	// StableCoin is the CDP-minted stablecoin.
	StableCoin = "PUSD"
	// GovCoin is the governance coin; never stakeable as CDP collateral.
	GovCoin = "PERG"
)

// Fixed-point scales. All consensus arithmetic is integer-only.
const (
	// Coin is the number of sawi in one coin.
	Coin uint64 = 100_000_000
	// PriceBoost scales oracle prices: price(sawi of quote per coin of base) * PriceBoost.
	PriceBoost uint64 = 100_000_000
	// RatioBoost scales percent-like ratios: 1% == RatioBoost / 100.
	RatioBoost uint64 = 10_000
	// RatioBaseBoost scales the CDP collateral-ratio-base index key.
	RatioBaseBoost uint64 = 100_000_000
)

const (
	MinTokenSymbolLen = 2
	MaxTokenSymbolLen = 8
	MaxAssetNameLen   = 32
)

var symbolRE = regexp.MustCompile(`^[A-Z][A-Z0-9]*$`)

// IsValidSymbol reports whether a token symbol is well formed.
func IsValidSymbol(symbol string) bool {
	if len(symbol) < MinTokenSymbolLen || len(symbol) > MaxTokenSymbolLen {
		return false
	}
	return symbolRE.MatchString(symbol)
}

// ValidateSymbol returns the registered error for a malformed symbol.
func ValidateSymbol(symbol string) error {
	if !IsValidSymbol(symbol) {
		return ErrInvalidSymbol.Wrapf("symbol=%q", symbol)
	}
	return nil
}

// ValidateAssetName bounds the display name of an asset.
func ValidateAssetName(name string) error {
	if name == "" || len(name) > MaxAssetNameLen {
		return ErrInvalidAssetName.Wrapf("name=%q", name)
	}
	return nil
}

// Asset is a registered token.
type Asset struct {
	Symbol      string `json:"symbol"`
	OwnerRegID  []byte `json:"owner_regid"` // ledger regid bytes
	Name        string `json:"name"`
	Mintable    bool   `json:"mintable"`
	TotalSupply uint64 `json:"total_supply"`
}

// TradingPair is an (asset, coin) pair allowed on the DEX. The coin side is
// the quote symbol the asset trades against.
type TradingPair struct {
	AssetSymbol string `json:"asset_symbol"`
	CoinSymbol  string `json:"coin_symbol"`
}

// AssetUpdateKey addresses one mutable asset field in an update transaction.
type AssetUpdateKey uint8

const (
	AssetUpdateNone AssetUpdateKey = iota
	AssetUpdateOwner
	AssetUpdateName
	AssetUpdateMintAmount
)
