package keeper

import (
	"context"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/perch-chain/perch/x/ledger/types"
)

// Keeper of the account ledger store
type Keeper struct {
	storeKey storetypes.StoreKey
	cdc      *codec.LegacyAmino
	logger   log.Logger
}

// NewKeeper creates a new ledger Keeper instance
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

// HasAccount reports whether an account exists for the key id.
func (k Keeper) HasAccount(ctx context.Context, keyID sdk.AccAddress) bool {
	return k.getStore(ctx).Has(types.AccountKey(keyID))
}

// GetAccount retrieves an account by key id.
func (k Keeper) GetAccount(ctx context.Context, keyID sdk.AccAddress) (*types.Account, error) {
	bz := k.getStore(ctx).Get(types.AccountKey(keyID))
	if bz == nil {
		return nil, types.ErrAccountNotFound.Wrapf("key_id=%s", keyID.String())
	}
	var acc types.Account
	if err := k.cdc.Unmarshal(bz, &acc); err != nil {
		return nil, types.ErrWriteAccount.Wrapf("unmarshal account %s: %v", keyID.String(), err)
	}
	return &acc, nil
}

// GetOrNewAccount retrieves an account, creating an empty in-memory record
// when none exists yet. The account is not persisted until SetAccount.
func (k Keeper) GetOrNewAccount(ctx context.Context, keyID sdk.AccAddress) *types.Account {
	acc, err := k.GetAccount(ctx, keyID)
	if err != nil {
		return types.NewAccount(keyID)
	}
	return acc
}

// GetAccountByRegID resolves a regid through the index and loads the account.
func (k Keeper) GetAccountByRegID(ctx context.Context, regID types.RegID) (*types.Account, error) {
	bz := k.getStore(ctx).Get(types.RegIDIndexKey(regID))
	if bz == nil {
		return nil, types.ErrRegIDNotFound.Wrapf("regid=%s", regID.String())
	}
	return k.GetAccount(ctx, sdk.AccAddress(bz))
}

// SetAccount persists an account and maintains the regid index.
func (k Keeper) SetAccount(ctx context.Context, acc *types.Account) error {
	bz, err := k.cdc.Marshal(acc)
	if err != nil {
		return types.ErrWriteAccount.Wrapf("marshal account %s: %v", acc.KeyID.String(), err)
	}
	store := k.getStore(ctx)
	store.Set(types.AccountKey(acc.KeyID), bz)
	if acc.IsRegistered() {
		store.Set(types.RegIDIndexKey(acc.RegID), acc.KeyID.Bytes())
	}
	return nil
}

// AssignRegID assigns the block coordinate as the account's permanent regid.
// Assignment happens once; an already registered account is left untouched.
func (k Keeper) AssignRegID(ctx context.Context, acc *types.Account, height int64, txIndex uint16) {
	if acc.IsRegistered() {
		return
	}
	acc.RegID = types.NewRegID(uint32(height), txIndex)
}

// IterateAccounts walks every account in key-id order.
func (k Keeper) IterateAccounts(ctx context.Context, cb func(acc types.Account) (stop bool)) error {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.AccountKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var acc types.Account
		if err := k.cdc.Unmarshal(iterator.Value(), &acc); err != nil {
			return err
		}
		if cb(acc) {
			break
		}
	}
	return nil
}

// SetNamedAccount records the regid of a well-known system account.
func (k Keeper) SetNamedAccount(ctx context.Context, name string, regID types.RegID) {
	k.getStore(ctx).Set(types.NamedAccountKey(name), regID.Bytes())
}

// GetNamedAccount resolves a well-known system account by name.
func (k Keeper) GetNamedAccount(ctx context.Context, name string) (types.RegID, error) {
	bz := k.getStore(ctx).Get(types.NamedAccountKey(name))
	if bz == nil {
		return types.RegID{}, types.ErrNamedAccountMissing.Wrapf("name=%s", name)
	}
	return types.RegIDFromBytes(bz)
}
