package keeper

import (
	"context"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/perch-chain/perch/x/delegate/types"
	ledgertypes "github.com/perch-chain/perch/x/ledger/types"
)

// Keeper holds the ordered active delegate set, consumed by fee
// distribution and price-feed authorization.
type Keeper struct {
	storeKey storetypes.StoreKey
	cdc      *codec.LegacyAmino
	logger   log.Logger
}

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

// SetActiveDelegates replaces the active set. Order is preserved and
// significant: division dust from fee splits goes to the first entry.
func (k Keeper) SetActiveDelegates(ctx context.Context, delegates []ledgertypes.RegID) error {
	bz, err := k.cdc.Marshal(delegates)
	if err != nil {
		return types.ErrWriteDelegates.Wrapf("marshal: %v", err)
	}
	k.getStore(ctx).Set(types.ActiveDelegatesKey, bz)
	return nil
}

// GetActiveDelegates returns the active set in stored order.
func (k Keeper) GetActiveDelegates(ctx context.Context) ([]ledgertypes.RegID, error) {
	bz := k.getStore(ctx).Get(types.ActiveDelegatesKey)
	if bz == nil {
		return nil, types.ErrNoActiveDelegates
	}
	var delegates []ledgertypes.RegID
	if err := k.cdc.Unmarshal(bz, &delegates); err != nil {
		return nil, types.ErrWriteDelegates.Wrapf("unmarshal: %v", err)
	}
	if len(delegates) == 0 {
		return nil, types.ErrNoActiveDelegates
	}
	return delegates, nil
}

// IsActiveDelegate reports whether regid is in the active set.
func (k Keeper) IsActiveDelegate(ctx context.Context, regid ledgertypes.RegID) bool {
	delegates, err := k.GetActiveDelegates(ctx)
	if err != nil {
		return false
	}
	for _, d := range delegates {
		if d == regid {
			return true
		}
	}
	return false
}
