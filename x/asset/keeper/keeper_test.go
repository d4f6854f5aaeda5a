package keeper_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	keepertest "github.com/perch-chain/perch/testutil/keeper"
	"github.com/perch-chain/perch/x/asset/types"
	ledgertypes "github.com/perch-chain/perch/x/ledger/types"
)

func TestAssetRoundTrip(t *testing.T) {
	f := keepertest.NewFixture(t)

	require.False(t, f.Asset.HasAsset(f.Ctx, "GOLD"))
	_, err := f.Asset.GetAsset(f.Ctx, "GOLD")
	require.ErrorIs(t, err, types.ErrAssetNotFound)

	asset := &types.Asset{
		Symbol:      "GOLD",
		OwnerRegID:  ledgertypes.NewRegID(5, 0).Bytes(),
		Name:        "Gold Token",
		Mintable:    true,
		TotalSupply: 1_000 * types.Coin,
	}
	require.NoError(t, f.Asset.SetAsset(f.Ctx, asset))
	require.True(t, f.Asset.HasAsset(f.Ctx, "GOLD"))

	got, err := f.Asset.GetAsset(f.Ctx, "GOLD")
	require.NoError(t, err)
	require.Equal(t, asset, got)
}

func TestAdjustSupply(t *testing.T) {
	f := keepertest.NewFixture(t)

	asset := &types.Asset{Symbol: "GOLD", Name: "Gold Token", Mintable: true, TotalSupply: 100}
	require.NoError(t, f.Asset.SetAsset(f.Ctx, asset))

	require.NoError(t, f.Asset.AdjustSupply(f.Ctx, "GOLD", 50))
	require.NoError(t, f.Asset.AdjustSupply(f.Ctx, "GOLD", -30))
	got, err := f.Asset.GetAsset(f.Ctx, "GOLD")
	require.NoError(t, err)
	require.Equal(t, uint64(120), got.TotalSupply)

	require.ErrorIs(t, f.Asset.AdjustSupply(f.Ctx, "GOLD", -121), types.ErrSupplyUnderflow)
	require.ErrorIs(t, f.Asset.AdjustSupply(f.Ctx, "NONE", 1), types.ErrAssetNotFound)
}

func TestTradingPairs(t *testing.T) {
	f := keepertest.NewFixture(t)

	require.True(t, f.Asset.HasTradingPair(f.Ctx, types.BaseCoin, types.StableCoin))
	require.False(t, f.Asset.HasTradingPair(f.Ctx, types.StableCoin, types.BaseCoin))

	f.Asset.RegisterTradingPair(f.Ctx, "GOLD", types.BaseCoin)
	require.True(t, f.Asset.HasTradingPair(f.Ctx, "GOLD", types.BaseCoin))
}

func TestValidateSymbol(t *testing.T) {
	require.NoError(t, types.ValidateSymbol("PERC"))
	require.NoError(t, types.ValidateSymbol("AB"))

	for _, bad := range []string{"", "A", "perc", "1ABC", "TOOLONGSYM", "AB-C"} {
		require.ErrorIs(t, types.ValidateSymbol(bad), types.ErrInvalidSymbol, "symbol %q", bad)
	}
}
