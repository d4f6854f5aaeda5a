package types

import (
	"fmt"

	"cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	ledgertypes "github.com/perch-chain/perch/x/ledger/types"
)

const ModuleName = "oracle"

// Store prefixes
var (
	FeedKeyPrefix = []byte{0x01}
)

// PairBytes renders a price pair as a store key component.
func PairBytes(assetSymbol, coinSymbol string) []byte {
	return []byte(assetSymbol + ":" + coinSymbol)
}

// FeedPairPrefix is the common prefix of all feed entries for one pair.
func FeedPairPrefix(assetSymbol, coinSymbol string) []byte {
	key := append([]byte{}, FeedKeyPrefix...)
	key = append(key, PairBytes(assetSymbol, coinSymbol)...)
	return append(key, '/')
}

// FeedKey keys one feeder's submission for a pair at a height. Height is
// big-endian so pair prefixes iterate in ascending height order.
func FeedKey(assetSymbol, coinSymbol string, height int64, feeder ledgertypes.RegID) []byte {
	key := FeedPairPrefix(assetSymbol, coinSymbol)
	key = append(key, sdk.Uint64ToBigEndian(uint64(height))...)
	return append(key, feeder.Bytes()...)
}

// PricePoint is one feeder's price submission for a pair.
type PricePoint struct {
	AssetSymbol string
	CoinSymbol  string
	Price       uint64 // boosted by PriceBoost
}

func (p PricePoint) String() string {
	return fmt.Sprintf("%s:%s=%d", p.AssetSymbol, p.CoinSymbol, p.Price)
}

var (
	ErrNoPrice          = errors.Register(ModuleName, 1, "no median price available")
	ErrInvalidPrice     = errors.Register(ModuleName, 2, "invalid feed price")
	ErrFeederNotAllowed = errors.Register(ModuleName, 3, "feeder is not an active delegate")
)
