package keeper_test

import (
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	keepertest "github.com/perch-chain/perch/testutil/keeper"
	"github.com/perch-chain/perch/x/ledger/types"
)

func TestAccountRoundTrip(t *testing.T) {
	f := keepertest.NewFixture(t)

	keyID := sdk.AccAddress("ledger-test-addr-001")
	acc := types.NewAccount(keyID)
	require.True(t, acc.OperateBalance("PERC", types.AddFree, 500))
	require.NoError(t, f.Ledger.SetAccount(f.Ctx, acc))

	got, err := f.Ledger.GetAccount(f.Ctx, keyID)
	require.NoError(t, err)
	require.Equal(t, uint64(500), got.GetFree("PERC"))
	require.False(t, got.IsRegistered())

	_, err = f.Ledger.GetAccount(f.Ctx, sdk.AccAddress("no-such-address-0000"))
	require.ErrorIs(t, err, types.ErrAccountNotFound)
}

func TestRegIDIndex(t *testing.T) {
	f := keepertest.NewFixture(t)

	keyID := sdk.AccAddress("ledger-test-addr-002")
	acc := types.NewAccount(keyID)

	// unregistered accounts are not indexed
	require.NoError(t, f.Ledger.SetAccount(f.Ctx, acc))
	_, err := f.Ledger.GetAccountByRegID(f.Ctx, types.NewRegID(10, 1))
	require.ErrorIs(t, err, types.ErrRegIDNotFound)

	f.Ledger.AssignRegID(f.Ctx, acc, 10, 1)
	require.Equal(t, types.NewRegID(10, 1), acc.RegID)
	require.NoError(t, f.Ledger.SetAccount(f.Ctx, acc))

	got, err := f.Ledger.GetAccountByRegID(f.Ctx, types.NewRegID(10, 1))
	require.NoError(t, err)
	require.Equal(t, keyID, got.KeyID)

	// a regid is assigned once
	f.Ledger.AssignRegID(f.Ctx, acc, 99, 3)
	require.Equal(t, types.NewRegID(10, 1), acc.RegID)
}

func TestNamedAccounts(t *testing.T) {
	f := keepertest.NewFixture(t)

	_, err := f.Ledger.GetNamedAccount(f.Ctx, types.RiskReserveAccount)
	require.ErrorIs(t, err, types.ErrNamedAccountMissing)

	regid := types.NewRegID(0, 2)
	f.Ledger.SetNamedAccount(f.Ctx, types.RiskReserveAccount, regid)
	got, err := f.Ledger.GetNamedAccount(f.Ctx, types.RiskReserveAccount)
	require.NoError(t, err)
	require.Equal(t, regid, got)
}

func TestTxReceipts(t *testing.T) {
	f := keepertest.NewFixture(t)
	txid := []byte("txid-0001")

	got, err := f.Ledger.GetTxReceipts(f.Ctx, txid)
	require.NoError(t, err)
	require.Nil(t, got)

	receipts := []types.Receipt{
		types.NewReceipt(types.NewRegID(1, 0), types.NewRegID(2, 0), "PERC", 100, types.TransferCoins),
	}
	require.NoError(t, f.Ledger.SetTxReceipts(f.Ctx, txid, receipts))

	got, err = f.Ledger.GetTxReceipts(f.Ctx, txid)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, receipts[0], got[0])
}
