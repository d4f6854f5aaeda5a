package keeper

import (
	"context"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"

	assettypes "github.com/perch-chain/perch/x/asset/types"
	"github.com/perch-chain/perch/x/cdp/types"
	ledgertypes "github.com/perch-chain/perch/x/ledger/types"
)

// Compiled-in activation lists for collateral symbols. The deny list wins
// over the allow list; symbols in neither fall back to the persisted flag.
var (
	stakeAllowList = map[string]bool{assettypes.BaseCoin: true}
	stakeDenyList  = map[string]bool{assettypes.StableCoin: true, assettypes.GovCoin: true}
)

// Keeper owns the CDP primary store, its secondary indexes, and the
// per-pair global aggregate.
type Keeper struct {
	storeKey storetypes.StoreKey
	cdc      *codec.LegacyAmino
	logger   log.Logger

	ledgerKeeper types.LedgerKeeper
	assetKeeper  types.AssetKeeper
	oracleKeeper types.OracleKeeper
	paramKeeper  types.ParamKeeper
}

func NewKeeper(
	cdc *codec.LegacyAmino,
	key storetypes.StoreKey,
	logger log.Logger,
	ledgerKeeper types.LedgerKeeper,
	assetKeeper types.AssetKeeper,
	oracleKeeper types.OracleKeeper,
	paramKeeper types.ParamKeeper,
) Keeper {
	return Keeper{
		storeKey:     key,
		cdc:          cdc,
		logger:       logger.With("module", types.ModuleName),
		ledgerKeeper: ledgerKeeper,
		assetKeeper:  assetKeeper,
		oracleKeeper: oracleKeeper,
		paramKeeper:  paramKeeper,
	}
}

func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	return sdk.UnwrapSDKContext(ctx).KVStore(k.storeKey)
}

// GetCdp loads an open position by cdpid.
func (k Keeper) GetCdp(ctx context.Context, cdpid []byte) (*types.Cdp, error) {
	bz := k.getStore(ctx).Get(types.CdpKey(cdpid))
	if bz == nil {
		return nil, types.ErrCdpNotFound.Wrapf("cdpid=%X", cdpid)
	}
	var cdp types.Cdp
	if err := k.cdc.Unmarshal(bz, &cdp); err != nil {
		return nil, types.ErrWriteCdp.Wrapf("unmarshal cdp %X: %v", cdpid, err)
	}
	return &cdp, nil
}

// GetUserCdp loads the owner's open position for a pair through the
// uniqueness index, nil when the owner has none.
func (k Keeper) GetUserCdp(ctx context.Context, owner ledgertypes.RegID, bcoinSymbol, scoinSymbol string) (*types.Cdp, error) {
	cdpid := k.getStore(ctx).Get(types.OwnerIndexKey(owner, bcoinSymbol, scoinSymbol))
	if cdpid == nil {
		return nil, nil
	}
	return k.GetCdp(ctx, cdpid)
}

// saveCdp persists a position and refreshes its secondary indexes. The
// ratio and height indexes are keyed by the indexed values themselves, so
// the previous entries are deleted and fresh ones inserted.
func (k Keeper) saveCdp(ctx context.Context, cdp *types.Cdp, old *types.Cdp) error {
	store := k.getStore(ctx)
	if old != nil {
		k.deleteIndexEntries(store, old)
	}

	bz, err := k.cdc.Marshal(cdp)
	if err != nil {
		return types.ErrWriteCdp.Wrapf("marshal cdp %X: %v", cdp.CdpID, err)
	}
	store.Set(types.CdpKey(cdp.CdpID), bz)
	store.Set(types.OwnerIndexKey(cdp.OwnerRegID, cdp.BcoinSymbol, cdp.ScoinSymbol), cdp.CdpID)
	store.Set(types.RatioIndexKey(cdp.BcoinSymbol, cdp.ScoinSymbol, cdp.CollateralRatioBase, cdp.BlockHeight, cdp.CdpID), []byte{1})
	store.Set(types.HeightIndexKey(cdp.BcoinSymbol, cdp.ScoinSymbol, cdp.BlockHeight, cdp.CdpID), []byte{1})
	return nil
}

func (k Keeper) deleteIndexEntries(store storetypes.KVStore, cdp *types.Cdp) {
	store.Delete(types.RatioIndexKey(cdp.BcoinSymbol, cdp.ScoinSymbol, cdp.CollateralRatioBase, cdp.BlockHeight, cdp.CdpID))
	store.Delete(types.HeightIndexKey(cdp.BcoinSymbol, cdp.ScoinSymbol, cdp.BlockHeight, cdp.CdpID))
}

// closeCdp erases a position from the open set and records the closure under
// both the cdpid and the closing transaction id.
func (k Keeper) closeCdp(ctx context.Context, cdp *types.Cdp, closedType types.ClosedType, closingTx []byte) error {
	store := k.getStore(ctx)
	k.deleteIndexEntries(store, cdp)
	store.Delete(types.CdpKey(cdp.CdpID))
	store.Delete(types.OwnerIndexKey(cdp.OwnerRegID, cdp.BcoinSymbol, cdp.ScoinSymbol))

	closed := types.ClosedCdp{Cdp: *cdp, ClosedType: closedType, ClosingTx: closingTx}
	bz, err := k.cdc.Marshal(&closed)
	if err != nil {
		return types.ErrWriteCdp.Wrapf("marshal closed cdp %X: %v", cdp.CdpID, err)
	}
	store.Set(types.ClosedCdpKey(cdp.CdpID), bz)
	store.Set(types.ClosedByTxKey(closingTx), bz)
	return nil
}

// GetClosedCdp loads a closure record by cdpid, nil if the position was
// never closed.
func (k Keeper) GetClosedCdp(ctx context.Context, cdpid []byte) (*types.ClosedCdp, error) {
	bz := k.getStore(ctx).Get(types.ClosedCdpKey(cdpid))
	if bz == nil {
		return nil, nil
	}
	var closed types.ClosedCdp
	if err := k.cdc.Unmarshal(bz, &closed); err != nil {
		return nil, types.ErrWriteCdp.Wrapf("unmarshal closed cdp %X: %v", cdpid, err)
	}
	return &closed, nil
}

// GetGlobalData loads a pair's aggregate, zero-valued when absent.
func (k Keeper) GetGlobalData(ctx context.Context, bcoinSymbol, scoinSymbol string) (types.GlobalData, error) {
	bz := k.getStore(ctx).Get(types.GlobalDataKey(bcoinSymbol, scoinSymbol))
	if bz == nil {
		return types.GlobalData{}, nil
	}
	var data types.GlobalData
	if err := k.cdc.Unmarshal(bz, &data); err != nil {
		return types.GlobalData{}, types.ErrWriteCdp.Wrapf("unmarshal global data %s:%s: %v", bcoinSymbol, scoinSymbol, err)
	}
	return data, nil
}

func (k Keeper) setGlobalData(ctx context.Context, bcoinSymbol, scoinSymbol string, data types.GlobalData) error {
	bz, err := k.cdc.Marshal(&data)
	if err != nil {
		return types.ErrWriteCdp.Wrapf("marshal global data %s:%s: %v", bcoinSymbol, scoinSymbol, err)
	}
	if bz == nil {
		// amino encodes the zero value to a nil slice, which the store rejects
		bz = []byte{}
	}
	k.getStore(ctx).Set(types.GlobalDataKey(bcoinSymbol, scoinSymbol), bz)
	return nil
}

// SetStakeActivation persists the activation flag for a collateral symbol
// outside the compiled-in lists.
func (k Keeper) SetStakeActivation(ctx context.Context, symbol string, activated bool) {
	v := byte(0)
	if activated {
		v = 1
	}
	k.getStore(ctx).Set(types.ActivationKey(symbol), []byte{v})
}

// GetActivationStatus resolves the staking permission of a collateral
// symbol as a total function: deny list, then allow list, then the
// persisted flag, then not activated.
func (k Keeper) GetActivationStatus(ctx context.Context, symbol string) types.ActivationStatus {
	if stakeDenyList[symbol] {
		return types.Denied
	}
	if stakeAllowList[symbol] {
		return types.Activated
	}
	if bz := k.getStore(ctx).Get(types.ActivationKey(symbol)); len(bz) == 1 && bz[0] == 1 {
		return types.Activated
	}
	return types.ActivationNone
}

// GetCdpListByCollateralRatio scans the ratio index from the lowest ratio
// upward and returns every open position whose live collateral ratio at the
// given price is at or below ratio. This is the liquidation candidate set.
func (k Keeper) GetCdpListByCollateralRatio(ctx context.Context, bcoinSymbol, scoinSymbol string, ratio, price uint64) ([]types.Cdp, error) {
	// ratio = ratioBase * price * RatioBoost / (RatioBaseBoost * PriceBoost)
	// so the scan threshold on the stored ratio base is the inversion below.
	ratioBaseMax, err := mulDivUint64(ratio, assettypes.RatioBaseBoost/assettypes.RatioBoost*assettypes.PriceBoost, price)
	if err != nil {
		return nil, types.ErrAmountOverflow.Wrapf("ratio scan threshold: %v", err)
	}

	prefix := types.RatioIndexPrefix(bcoinSymbol, scoinSymbol)
	start := append([]byte{}, prefix...)
	end := append(append([]byte{}, prefix...), sdk.Uint64ToBigEndian(ratioBaseMax+1)...)

	iterator := k.getStore(ctx).Iterator(start, end)
	defer iterator.Close()

	var list []types.Cdp
	for ; iterator.Valid(); iterator.Next() {
		key := iterator.Key()
		cdpid := key[len(prefix)+16:]
		cdp, err := k.GetCdp(ctx, cdpid)
		if err != nil {
			return nil, err
		}
		list = append(list, *cdp)
	}
	return list, nil
}
