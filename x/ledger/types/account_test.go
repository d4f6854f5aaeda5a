package types

import (
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
)

func testAccount() *Account {
	return NewAccount(sdk.AccAddress("test-account-addr-01"))
}

func TestOperateBalanceAddSub(t *testing.T) {
	acc := testAccount()

	require.True(t, acc.OperateBalance("PERC", AddFree, 100))
	require.Equal(t, uint64(100), acc.GetFree("PERC"))

	require.True(t, acc.OperateBalance("PERC", SubFree, 40))
	require.Equal(t, uint64(60), acc.GetFree("PERC"))

	// insufficient free balance leaves the account unchanged
	require.False(t, acc.OperateBalance("PERC", SubFree, 61))
	require.Equal(t, uint64(60), acc.GetFree("PERC"))
}

func TestOperateBalanceFreezeUnfreeze(t *testing.T) {
	acc := testAccount()
	require.True(t, acc.OperateBalance("PERC", AddFree, 100))

	require.True(t, acc.OperateBalance("PERC", Freeze, 70))
	require.Equal(t, uint64(30), acc.GetFree("PERC"))
	require.Equal(t, uint64(70), acc.GetFrozen("PERC"))

	require.False(t, acc.OperateBalance("PERC", Freeze, 31))
	require.False(t, acc.OperateBalance("PERC", Unfreeze, 71))

	require.True(t, acc.OperateBalance("PERC", Unfreeze, 70))
	require.Equal(t, uint64(100), acc.GetFree("PERC"))
	require.Equal(t, uint64(0), acc.GetFrozen("PERC"))
}

func TestOperateBalanceOverflow(t *testing.T) {
	acc := testAccount()
	max := ^uint64(0)

	require.True(t, acc.OperateBalance("PERC", AddFree, max))
	require.False(t, acc.OperateBalance("PERC", AddFree, 1))
	require.Equal(t, max, acc.GetFree("PERC"))

	// unfreezing into a saturated free balance must fail atomically
	acc2 := testAccount()
	require.True(t, acc2.OperateBalance("PUSD", AddFree, max))
	require.True(t, acc2.OperateBalance("PUSD", Freeze, 5))
	require.True(t, acc2.OperateBalance("PUSD", AddFree, 5))
	require.False(t, acc2.OperateBalance("PUSD", Unfreeze, 5))
	require.Equal(t, uint64(5), acc2.GetFrozen("PUSD"))
}

func TestOperateBalanceUnknownOp(t *testing.T) {
	acc := testAccount()
	require.False(t, acc.OperateBalance("PERC", BalanceOpNone, 1))
	require.False(t, acc.OperateBalance("PERC", BalanceOp(99), 1))
}

func TestBalancesStaySorted(t *testing.T) {
	acc := testAccount()
	require.True(t, acc.OperateBalance("PUSD", AddFree, 1))
	require.True(t, acc.OperateBalance("PERC", AddFree, 2))
	require.True(t, acc.OperateBalance("PERG", AddFree, 3))

	symbols := make([]string, 0, len(acc.Balances))
	for _, b := range acc.Balances {
		symbols = append(symbols, b.Symbol)
	}
	require.Equal(t, []string{"PERC", "PERG", "PUSD"}, symbols)
}

func TestRegIDRoundTrip(t *testing.T) {
	regid := NewRegID(1024, 7)
	parsed, err := RegIDFromBytes(regid.Bytes())
	require.NoError(t, err)
	require.Equal(t, regid, parsed)
	require.Equal(t, "1024-7", regid.String())

	_, err = RegIDFromBytes([]byte{1, 2, 3})
	require.Error(t, err)
}
