package keeper_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	keepertest "github.com/perch-chain/perch/testutil/keeper"
	"github.com/perch-chain/perch/x/delegate/types"
	ledgertypes "github.com/perch-chain/perch/x/ledger/types"
)

func TestActiveDelegates(t *testing.T) {
	f := keepertest.NewFixture(t)

	_, err := f.Delegate.GetActiveDelegates(f.Ctx)
	require.ErrorIs(t, err, types.ErrNoActiveDelegates)

	set := []ledgertypes.RegID{
		ledgertypes.NewRegID(0, 3),
		ledgertypes.NewRegID(0, 1),
		ledgertypes.NewRegID(0, 2),
	}
	require.NoError(t, f.Delegate.SetActiveDelegates(f.Ctx, set))

	got, err := f.Delegate.GetActiveDelegates(f.Ctx)
	require.NoError(t, err)
	// storage preserves the configured order, it decides dust placement
	require.Equal(t, set, got)

	require.True(t, f.Delegate.IsActiveDelegate(f.Ctx, ledgertypes.NewRegID(0, 2)))
	require.False(t, f.Delegate.IsActiveDelegate(f.Ctx, ledgertypes.NewRegID(0, 9)))
}
