package keeper

import (
	"context"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/perch-chain/perch/x/dex/types"
	ledgertypes "github.com/perch-chain/perch/x/ledger/types"
)

// Keeper owns the active order book and the operator registry.
type Keeper struct {
	storeKey storetypes.StoreKey
	cdc      *codec.LegacyAmino
	logger   log.Logger

	ledgerKeeper   types.LedgerKeeper
	assetKeeper    types.AssetKeeper
	paramKeeper    types.ParamKeeper
	delegateKeeper types.DelegateKeeper
}

func NewKeeper(
	cdc *codec.LegacyAmino,
	key storetypes.StoreKey,
	logger log.Logger,
	ledgerKeeper types.LedgerKeeper,
	assetKeeper types.AssetKeeper,
	paramKeeper types.ParamKeeper,
	delegateKeeper types.DelegateKeeper,
) Keeper {
	return Keeper{
		storeKey:       key,
		cdc:            cdc,
		logger:         logger.With("module", types.ModuleName),
		ledgerKeeper:   ledgerKeeper,
		assetKeeper:    assetKeeper,
		paramKeeper:    paramKeeper,
		delegateKeeper: delegateKeeper,
	}
}

func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	return sdk.UnwrapSDKContext(ctx).KVStore(k.storeKey)
}

// GetActiveOrder loads an order from the active set.
func (k Keeper) GetActiveOrder(ctx context.Context, orderID []byte) (*types.Order, error) {
	bz := k.getStore(ctx).Get(types.OrderKey(orderID))
	if bz == nil {
		return nil, types.ErrOrderInactive.Wrapf("order=%X", orderID)
	}
	var order types.Order
	if err := k.cdc.Unmarshal(bz, &order); err != nil {
		return nil, types.ErrWriteDex.Wrapf("unmarshal order %X: %v", orderID, err)
	}
	return &order, nil
}

// HasActiveOrder reports whether the order id is in the active set.
func (k Keeper) HasActiveOrder(ctx context.Context, orderID []byte) bool {
	return k.getStore(ctx).Has(types.OrderKey(orderID))
}

func (k Keeper) setActiveOrder(ctx context.Context, order *types.Order) error {
	bz, err := k.cdc.Marshal(order)
	if err != nil {
		return types.ErrWriteDex.Wrapf("marshal order %X: %v", order.OrderID, err)
	}
	k.getStore(ctx).Set(types.OrderKey(order.OrderID), bz)
	return nil
}

func (k Keeper) eraseActiveOrder(ctx context.Context, orderID []byte) {
	k.getStore(ctx).Delete(types.OrderKey(orderID))
}

// IterateActiveOrders walks the active set in order-id order.
func (k Keeper) IterateActiveOrders(ctx context.Context, cb func(order types.Order) (stop bool)) error {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.OrderKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var order types.Order
		if err := k.cdc.Unmarshal(iterator.Value(), &order); err != nil {
			return err
		}
		if cb(order) {
			break
		}
	}
	return nil
}

// GetOperator loads an operator record by id.
func (k Keeper) GetOperator(ctx context.Context, id uint64) (*types.OperatorDetail, error) {
	bz := k.getStore(ctx).Get(types.OperatorKey(id))
	if bz == nil {
		return nil, types.ErrOperatorNotFound.Wrapf("id=%d", id)
	}
	var op types.OperatorDetail
	if err := k.cdc.Unmarshal(bz, &op); err != nil {
		return nil, types.ErrWriteDex.Wrapf("unmarshal operator %d: %v", id, err)
	}
	return &op, nil
}

// GetOperatorByOwner resolves the owner uniqueness index, nil if the owner
// has no operator.
func (k Keeper) GetOperatorByOwner(ctx context.Context, owner ledgertypes.RegID) (*types.OperatorDetail, error) {
	bz := k.getStore(ctx).Get(types.OperatorOwnerKey(owner))
	if bz == nil {
		return nil, nil
	}
	return k.GetOperator(ctx, sdk.BigEndianToUint64(bz))
}

func (k Keeper) setOperator(ctx context.Context, op *types.OperatorDetail) error {
	bz, err := k.cdc.Marshal(op)
	if err != nil {
		return types.ErrWriteDex.Wrapf("marshal operator %d: %v", op.ID, err)
	}
	store := k.getStore(ctx)
	store.Set(types.OperatorKey(op.ID), bz)
	store.Set(types.OperatorOwnerKey(op.OwnerRegID), sdk.Uint64ToBigEndian(op.ID))
	return nil
}

// nextOperatorID assigns sequential operator ids starting from 1.
func (k Keeper) nextOperatorID(ctx context.Context) uint64 {
	store := k.getStore(ctx)
	next := uint64(1)
	if bz := store.Get(types.OperatorCountKey); bz != nil {
		next = sdk.BigEndianToUint64(bz) + 1
	}
	store.Set(types.OperatorCountKey, sdk.Uint64ToBigEndian(next))
	return next
}

// IsAuthorizedSettler reports whether the regid may submit settlement
// batches: the genesis matcher account or any operator's matching service.
func (k Keeper) IsAuthorizedSettler(ctx context.Context, regID ledgertypes.RegID) bool {
	if matcher, err := k.ledgerKeeper.GetNamedAccount(ctx, ledgertypes.DexMatcherAccount); err == nil && matcher == regID {
		return true
	}
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.OperatorKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var op types.OperatorDetail
		if err := k.cdc.Unmarshal(iterator.Value(), &op); err != nil {
			continue
		}
		if op.MatcherRegID == regID {
			return true
		}
	}
	return false
}
