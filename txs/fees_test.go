package txs

import (
	"testing"

	"github.com/stretchr/testify/require"

	keepertest "github.com/perch-chain/perch/testutil/keeper"
	assettypes "github.com/perch-chain/perch/x/asset/types"
	ledgertypes "github.com/perch-chain/perch/x/ledger/types"
	sysparamtypes "github.com/perch-chain/perch/x/sysparam/types"
)

func feeContext(f *keepertest.Fixture) *Context {
	return &Context{Ctx: f.Ctx, Keepers: Keepers{
		Ledger:    f.Ledger,
		Sysparam:  f.Sysparam,
		Delegates: f.Delegate,
	}}
}

func TestDistributeFeeSplit(t *testing.T) {
	f := keepertest.NewFixture(t)
	payer := f.SeedAccount(t, ledgertypes.NewRegID(0, 10))
	f.SeedNamedAccount(t, ledgertypes.RiskReserveAccount, ledgertypes.NewRegID(0, 2))
	delegate := f.SeedAccount(t, ledgertypes.NewRegID(0, 20))
	require.NoError(t, f.Delegate.SetActiveDelegates(f.Ctx, []ledgertypes.RegID{delegate.RegID}))

	c := feeContext(f)
	require.NoError(t, c.distributeFee(payer, assettypes.BaseCoin, 1_000,
		ledgertypes.AssetFeeToRiskReserve, ledgertypes.AssetFeeToDelegate))

	// default risk ratio is 40%
	reserve, err := f.Ledger.GetAccountByRegID(f.Ctx, ledgertypes.NewRegID(0, 2))
	require.NoError(t, err)
	require.Equal(t, uint64(400), reserve.GetFree(assettypes.BaseCoin))
	d, err := f.Ledger.GetAccountByRegID(f.Ctx, delegate.RegID)
	require.NoError(t, err)
	require.Equal(t, uint64(600), d.GetFree(assettypes.BaseCoin))
	require.Len(t, c.Receipts, 2)
}

func TestDistributeFeeRiskRatioAboveScale(t *testing.T) {
	f := keepertest.NewFixture(t)
	payer := f.SeedAccount(t, ledgertypes.NewRegID(0, 10))
	f.SeedNamedAccount(t, ledgertypes.RiskReserveAccount, ledgertypes.NewRegID(0, 2))
	delegate := f.SeedAccount(t, ledgertypes.NewRegID(0, 20))
	require.NoError(t, f.Delegate.SetActiveDelegates(f.Ctx, []ledgertypes.RegID{delegate.RegID}))

	// a ratio above the base scale must cap at the full amount, not wrap
	// the delegate remainder
	f.Sysparam.SetParam(f.Ctx, sysparamtypes.RiskFeeRatio, 3*assettypes.RatioBaseBoost)

	c := feeContext(f)
	amount := uint64(1_000)
	require.NoError(t, c.distributeFee(payer, assettypes.BaseCoin, amount,
		ledgertypes.AssetFeeToRiskReserve, ledgertypes.AssetFeeToDelegate))

	require.Len(t, c.Receipts, 1)
	require.Equal(t, ledgertypes.AssetFeeToRiskReserve, c.Receipts[0].Code)
	require.Equal(t, amount, c.Receipts[0].Amount)

	reserve, err := f.Ledger.GetAccountByRegID(f.Ctx, ledgertypes.NewRegID(0, 2))
	require.NoError(t, err)
	require.Equal(t, amount, reserve.GetFree(assettypes.BaseCoin))
	d, err := f.Ledger.GetAccountByRegID(f.Ctx, delegate.RegID)
	require.NoError(t, err)
	require.Equal(t, uint64(0), d.GetFree(assettypes.BaseCoin))
}
