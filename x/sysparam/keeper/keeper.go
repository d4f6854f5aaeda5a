package keeper

import (
	"context"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/perch-chain/perch/x/sysparam/types"
)

// Keeper serves read-mostly chain configuration: genesis defaults overlaid
// with any stored overrides.
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

// GetParam returns the parameter value and whether it resolved, consulting
// the store first and falling back to the compiled defaults.
func (k Keeper) GetParam(ctx context.Context, name string) (uint64, bool) {
	if bz := k.getStore(ctx).Get(types.ParamKey(name)); bz != nil {
		return sdk.BigEndianToUint64(bz), true
	}
	v, ok := types.DefaultParams[name]
	return v, ok
}

// MustGetParam returns the parameter value or a configuration error when the
// parameter resolves nowhere.
func (k Keeper) MustGetParam(ctx context.Context, name string) (uint64, error) {
	v, ok := k.GetParam(ctx, name)
	if !ok {
		return 0, types.ErrParamMissing.Wrapf("name=%s", name)
	}
	return v, nil
}

// SetParam stores an override for a parameter. Used at genesis and by
// governance paths.
func (k Keeper) SetParam(ctx context.Context, name string, value uint64) {
	k.getStore(ctx).Set(types.ParamKey(name), sdk.Uint64ToBigEndian(value))
}
