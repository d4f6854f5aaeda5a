package keeper

import (
	"context"
	"sort"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	ledgertypes "github.com/perch-chain/perch/x/ledger/types"
	"github.com/perch-chain/perch/x/oracle/types"
)

// Keeper stores raw price-feed submissions and serves the sliding-window
// median consumed by the CDP engine.
type Keeper struct {
	storeKey storetypes.StoreKey
	logger   log.Logger
}

func NewKeeper(key storetypes.StoreKey, logger log.Logger) Keeper {
	return Keeper{
		storeKey: key,
		logger:   logger.With("module", types.ModuleName),
	}
}

func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	return sdk.UnwrapSDKContext(ctx).KVStore(k.storeKey)
}

// SetFeedPrice records one feeder's submission for a pair at a height,
// overwriting any earlier submission by the same feeder at the same height.
func (k Keeper) SetFeedPrice(ctx context.Context, feeder ledgertypes.RegID, assetSymbol, coinSymbol string, price uint64, height int64) error {
	if price == 0 {
		return types.ErrInvalidPrice.Wrapf("pair=%s:%s, feeder=%s", assetSymbol, coinSymbol, feeder)
	}
	key := types.FeedKey(assetSymbol, coinSymbol, height, feeder)
	k.getStore(ctx).Set(key, sdk.Uint64ToBigEndian(price))
	return nil
}

// GetMedianPrice computes the median over the latest submission per feeder
// within (height-window, height]. Odd feeder counts take the middle value,
// even counts the mean of the two middle values.
func (k Keeper) GetMedianPrice(ctx context.Context, height int64, window uint64, assetSymbol, coinSymbol string) (uint64, error) {
	pairPrefix := types.FeedPairPrefix(assetSymbol, coinSymbol)
	startHeight := int64(0)
	if height > int64(window) {
		startHeight = height - int64(window) + 1
	}
	start := append(append([]byte{}, pairPrefix...), sdk.Uint64ToBigEndian(uint64(startHeight))...)
	end := append(append([]byte{}, pairPrefix...), sdk.Uint64ToBigEndian(uint64(height)+1)...)

	iterator := k.getStore(ctx).Iterator(start, end)
	defer iterator.Close()

	// Ascending height iteration: later submissions overwrite earlier ones
	// so the map holds each feeder's latest price in the window.
	latest := make(map[ledgertypes.RegID]uint64)
	for ; iterator.Valid(); iterator.Next() {
		key := iterator.Key()
		feederBytes := key[len(key)-ledgertypes.RegIDByteLen:]
		feeder, err := ledgertypes.RegIDFromBytes(feederBytes)
		if err != nil {
			continue
		}
		latest[feeder] = sdk.BigEndianToUint64(iterator.Value())
	}
	if len(latest) == 0 {
		return 0, types.ErrNoPrice.Wrapf("pair=%s:%s, height=%d, window=%d", assetSymbol, coinSymbol, height, window)
	}

	prices := make([]uint64, 0, len(latest))
	for _, p := range latest {
		prices = append(prices, p)
	}
	sort.Slice(prices, func(i, j int) bool { return prices[i] < prices[j] })

	n := len(prices)
	if n%2 == 1 {
		return prices[n/2], nil
	}
	lo, hi := prices[n/2-1], prices[n/2]
	return lo + (hi-lo)/2, nil
}
