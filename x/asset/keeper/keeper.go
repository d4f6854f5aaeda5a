package keeper

import (
	"context"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/perch-chain/perch/x/asset/types"
)

// Keeper of the asset registry store
type Keeper struct {
	storeKey storetypes.StoreKey
	cdc      *codec.LegacyAmino
	logger   log.Logger
}

// NewKeeper creates a new asset Keeper instance
func NewKeeper(cdc *codec.LegacyAmino, key storetypes.StoreKey, logger log.Logger) Keeper {
	return Keeper{
		storeKey: key,
		cdc:      cdc,
		logger:   logger.With("module", types.ModuleName),
	}
}

func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	return sdk.UnwrapSDKContext(ctx).KVStore(k.storeKey)
}

// HasAsset reports whether a symbol is registered.
func (k Keeper) HasAsset(ctx context.Context, symbol string) bool {
	return k.getStore(ctx).Has(types.AssetKey(symbol))
}

// GetAsset retrieves an asset record by symbol.
func (k Keeper) GetAsset(ctx context.Context, symbol string) (*types.Asset, error) {
	bz := k.getStore(ctx).Get(types.AssetKey(symbol))
	if bz == nil {
		return nil, types.ErrAssetNotFound.Wrapf("symbol=%s", symbol)
	}
	var asset types.Asset
	if err := k.cdc.Unmarshal(bz, &asset); err != nil {
		return nil, types.ErrWriteAsset.Wrapf("unmarshal asset %s: %v", symbol, err)
	}
	return &asset, nil
}

// SetAsset persists an asset record.
func (k Keeper) SetAsset(ctx context.Context, asset *types.Asset) error {
	bz, err := k.cdc.Marshal(asset)
	if err != nil {
		return types.ErrWriteAsset.Wrapf("marshal asset %s: %v", asset.Symbol, err)
	}
	k.getStore(ctx).Set(types.AssetKey(asset.Symbol), bz)
	return nil
}

// AdjustSupply changes an asset's total supply by delta (positive mints,
// negative burns), with checked arithmetic in both directions.
func (k Keeper) AdjustSupply(ctx context.Context, symbol string, delta int64) error {
	asset, err := k.GetAsset(ctx, symbol)
	if err != nil {
		return err
	}
	if delta >= 0 {
		d := uint64(delta)
		if asset.TotalSupply > ^uint64(0)-d {
			return types.ErrSupplyOverflow.Wrapf("symbol=%s, supply=%d, delta=%d", symbol, asset.TotalSupply, d)
		}
		asset.TotalSupply += d
	} else {
		d := uint64(-delta)
		if asset.TotalSupply < d {
			return types.ErrSupplyUnderflow.Wrapf("symbol=%s, supply=%d, delta=-%d", symbol, asset.TotalSupply, d)
		}
		asset.TotalSupply -= d
	}
	return k.SetAsset(ctx, asset)
}

// RegisterTradingPair marks an (asset, coin) pair as tradable on the DEX.
func (k Keeper) RegisterTradingPair(ctx context.Context, assetSymbol, coinSymbol string) {
	k.getStore(ctx).Set(types.TradingPairKey(assetSymbol, coinSymbol), []byte{1})
}

// HasTradingPair reports whether the (asset, coin) pair is tradable.
func (k Keeper) HasTradingPair(ctx context.Context, assetSymbol, coinSymbol string) bool {
	return k.getStore(ctx).Has(types.TradingPairKey(assetSymbol, coinSymbol))
}

// IterateAssets walks all registered assets in symbol order.
func (k Keeper) IterateAssets(ctx context.Context, cb func(asset types.Asset) (stop bool)) error {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.AssetKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var asset types.Asset
		if err := k.cdc.Unmarshal(iterator.Value(), &asset); err != nil {
			return err
		}
		if cb(asset) {
			break
		}
	}
	return nil
}
