package keeper

import (
	"testing"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	assetkeeper "github.com/perch-chain/perch/x/asset/keeper"
	assettypes "github.com/perch-chain/perch/x/asset/types"
	cdpkeeper "github.com/perch-chain/perch/x/cdp/keeper"
	cdptypes "github.com/perch-chain/perch/x/cdp/types"
	delegatekeeper "github.com/perch-chain/perch/x/delegate/keeper"
	delegatetypes "github.com/perch-chain/perch/x/delegate/types"
	dexkeeper "github.com/perch-chain/perch/x/dex/keeper"
	dextypes "github.com/perch-chain/perch/x/dex/types"
	ledgerkeeper "github.com/perch-chain/perch/x/ledger/keeper"
	ledgertypes "github.com/perch-chain/perch/x/ledger/types"
	oraclekeeper "github.com/perch-chain/perch/x/oracle/keeper"
	oracletypes "github.com/perch-chain/perch/x/oracle/types"
	sysparamkeeper "github.com/perch-chain/perch/x/sysparam/keeper"
	sysparamtypes "github.com/perch-chain/perch/x/sysparam/types"
)

// Fixture wires all keepers onto one in-memory multistore the way the app
// does, so keeper tests run against real dependencies instead of mocks.
type Fixture struct {
	Ctx sdk.Context
	Cdc *codec.LegacyAmino

	Ledger   ledgerkeeper.Keeper
	Asset    assetkeeper.Keeper
	Oracle   oraclekeeper.Keeper
	Sysparam sysparamkeeper.Keeper
	Delegate delegatekeeper.Keeper
	Cdp      cdpkeeper.Keeper
	Dex      dexkeeper.Keeper
}

// NewFixture builds a fixture with the base assets registered and the
// default trading pairs in place.
func NewFixture(t testing.TB) *Fixture {
	db := dbm.NewMemDB()
	logger := log.NewNopLogger()
	stateStore := store.NewCommitMultiStore(db, logger, metrics.NewNoOpMetrics())

	names := []string{
		ledgertypes.ModuleName,
		assettypes.ModuleName,
		oracletypes.ModuleName,
		cdptypes.ModuleName,
		dextypes.ModuleName,
		sysparamtypes.ModuleName,
		delegatetypes.ModuleName,
	}
	keys := make(map[string]*storetypes.KVStoreKey, len(names))
	for _, name := range names {
		key := storetypes.NewKVStoreKey(name)
		keys[name] = key
		stateStore.MountStoreWithDB(key, storetypes.StoreTypeIAVL, db)
	}
	require.NoError(t, stateStore.LoadLatestVersion())

	cdc := codec.NewLegacyAmino()
	f := &Fixture{
		Ctx:      sdk.NewContext(stateStore, cmtproto.Header{}, false, logger),
		Cdc:      cdc,
		Ledger:   ledgerkeeper.NewKeeper(cdc, keys[ledgertypes.ModuleName], logger),
		Asset:    assetkeeper.NewKeeper(cdc, keys[assettypes.ModuleName], logger),
		Oracle:   oraclekeeper.NewKeeper(keys[oracletypes.ModuleName], logger),
		Sysparam: sysparamkeeper.NewKeeper(keys[sysparamtypes.ModuleName], logger),
		Delegate: delegatekeeper.NewKeeper(cdc, keys[delegatetypes.ModuleName], logger),
	}
	f.Cdp = cdpkeeper.NewKeeper(cdc, keys[cdptypes.ModuleName], logger, f.Ledger, f.Asset, f.Oracle, f.Sysparam)
	f.Dex = dexkeeper.NewKeeper(cdc, keys[dextypes.ModuleName], logger, f.Ledger, f.Asset, f.Sysparam, f.Delegate)

	require.NoError(t, f.Asset.SetAsset(f.Ctx, &assettypes.Asset{
		Symbol: assettypes.BaseCoin, Name: "Perch Coin", TotalSupply: 210_000_000 * assettypes.Coin,
	}))
	require.NoError(t, f.Asset.SetAsset(f.Ctx, &assettypes.Asset{
		Symbol: assettypes.StableCoin, Name: "Perch USD", Mintable: true,
	}))
	require.NoError(t, f.Asset.SetAsset(f.Ctx, &assettypes.Asset{
		Symbol: assettypes.GovCoin, Name: "Perch Governance", TotalSupply: 21_000_000 * assettypes.Coin,
	}))
	f.Asset.RegisterTradingPair(f.Ctx, assettypes.BaseCoin, assettypes.StableCoin)
	f.Asset.RegisterTradingPair(f.Ctx, assettypes.GovCoin, assettypes.StableCoin)
	return f
}

// WithHeight returns a context at the given block height over the same state.
func (f *Fixture) WithHeight(height int64) sdk.Context {
	return f.Ctx.WithBlockHeight(height)
}

// SeedAccount creates and persists a registered account with the given free
// balances, keyed by a deterministic address derived from the regid.
func (f *Fixture) SeedAccount(t testing.TB, regID ledgertypes.RegID, balances ...ledgertypes.TokenBalance) *ledgertypes.Account {
	keyID := make(sdk.AccAddress, 20)
	copy(keyID, regID.Bytes())
	acc := ledgertypes.NewAccount(keyID)
	acc.RegID = regID
	for _, b := range balances {
		require.True(t, acc.OperateBalance(b.Symbol, ledgertypes.AddFree, b.Free))
	}
	require.NoError(t, f.Ledger.SetAccount(f.Ctx, acc))
	return acc
}

// SeedNamedAccount seeds a registered account and records it under a
// well-known system name.
func (f *Fixture) SeedNamedAccount(t testing.TB, name string, regID ledgertypes.RegID, balances ...ledgertypes.TokenBalance) *ledgertypes.Account {
	acc := f.SeedAccount(t, regID, balances...)
	f.Ledger.SetNamedAccount(f.Ctx, name, regID)
	return acc
}

// SeedPrice records one feed point from a synthetic delegate so a median is
// available at the given height.
func (f *Fixture) SeedPrice(t testing.TB, height int64, assetSymbol, coinSymbol string, price uint64) {
	feeder := ledgertypes.NewRegID(0, 999)
	require.NoError(t, f.Oracle.SetFeedPrice(f.Ctx, feeder, assetSymbol, coinSymbol, price, height))
}
