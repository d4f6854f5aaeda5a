package keeper_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	keepertest "github.com/perch-chain/perch/testutil/keeper"
	assettypes "github.com/perch-chain/perch/x/asset/types"
	"github.com/perch-chain/perch/x/dex/types"
	ledgertypes "github.com/perch-chain/perch/x/ledger/types"
	sysparamtypes "github.com/perch-chain/perch/x/sysparam/types"
)

const registerFee = 10_000 * assettypes.Coin

type operatorEnv struct {
	f          *keepertest.Fixture
	registrant *ledgertypes.Account
	reserve    *ledgertypes.Account
	delegates  []*ledgertypes.Account
}

func newOperatorEnv(t *testing.T) *operatorEnv {
	f := keepertest.NewFixture(t)
	env := &operatorEnv{
		f: f,
		registrant: f.SeedAccount(t, ledgertypes.NewRegID(0, 10),
			ledgertypes.TokenBalance{Symbol: assettypes.BaseCoin, Free: 100_000 * assettypes.Coin}),
		reserve: f.SeedNamedAccount(t, ledgertypes.RiskReserveAccount, ledgertypes.NewRegID(0, 2)),
	}
	var regids []ledgertypes.RegID
	for i := uint16(0); i < 3; i++ {
		acc := f.SeedAccount(t, ledgertypes.NewRegID(0, 20+i))
		env.delegates = append(env.delegates, acc)
		regids = append(regids, acc.RegID)
	}
	require.NoError(t, f.Delegate.SetActiveDelegates(f.Ctx, regids))
	return env
}

func (e *operatorEnv) detail() types.OperatorDetail {
	return types.OperatorDetail{
		OwnerRegID:    e.registrant.RegID,
		MatcherRegID:  ledgertypes.NewRegID(0, 3),
		Name:          "Perch DEX",
		Portal:        "https://dex.example.org",
		MakerFeeRatio: 20_000,
		TakerFeeRatio: 40_000,
	}
}

func TestRegisterOperator(t *testing.T) {
	env := newOperatorEnv(t)
	f := env.f
	f.SeedAccount(t, ledgertypes.NewRegID(0, 3)) // matcher account

	op, receipts, err := f.Dex.RegisterOperator(f.Ctx, 10, env.registrant, env.detail())
	require.NoError(t, err)
	require.Equal(t, uint64(1), op.ID)
	// one reserve receipt plus one per delegate
	require.Len(t, receipts, 4)

	got, err := f.Dex.GetOperator(f.Ctx, 1)
	require.NoError(t, err)
	require.Equal(t, op, got)
	byOwner, err := f.Dex.GetOperatorByOwner(f.Ctx, env.registrant.RegID)
	require.NoError(t, err)
	require.Equal(t, op.ID, byOwner.ID)

	// fee split: 40% to the risk reserve, the rest evenly across delegates
	require.Equal(t, uint64(100_000*assettypes.Coin-registerFee), env.registrant.GetFree(assettypes.BaseCoin))
	riskShare := uint64(registerFee) * 40 / 100
	delegateShare := (uint64(registerFee) - riskShare) / 3

	reserve, err := f.Ledger.GetAccountByRegID(f.Ctx, env.reserve.RegID)
	require.NoError(t, err)
	require.Equal(t, riskShare, reserve.GetFree(assettypes.BaseCoin))
	for _, d := range env.delegates {
		acc, err := f.Ledger.GetAccountByRegID(f.Ctx, d.RegID)
		require.NoError(t, err)
		require.Equal(t, delegateShare, acc.GetFree(assettypes.BaseCoin))
	}

	// the operator's matcher may settle
	require.True(t, f.Dex.IsAuthorizedSettler(f.Ctx, ledgertypes.NewRegID(0, 3)))
}

func TestRegisterOperatorRiskRatioAboveScale(t *testing.T) {
	env := newOperatorEnv(t)
	f := env.f
	f.SeedAccount(t, ledgertypes.NewRegID(0, 3))

	// a risk ratio above the base scale sends the whole fee to the reserve
	// instead of underflowing the delegate remainder
	f.Sysparam.SetParam(f.Ctx, sysparamtypes.RiskFeeRatio, 2*assettypes.RatioBaseBoost)

	_, receipts, err := f.Dex.RegisterOperator(f.Ctx, 10, env.registrant, env.detail())
	require.NoError(t, err)
	require.Len(t, receipts, 1)

	require.Equal(t, uint64(100_000*assettypes.Coin-registerFee), env.registrant.GetFree(assettypes.BaseCoin))
	reserve, err := f.Ledger.GetAccountByRegID(f.Ctx, env.reserve.RegID)
	require.NoError(t, err)
	require.Equal(t, uint64(registerFee), reserve.GetFree(assettypes.BaseCoin))
	for _, d := range env.delegates {
		acc, err := f.Ledger.GetAccountByRegID(f.Ctx, d.RegID)
		require.NoError(t, err)
		require.Equal(t, uint64(0), acc.GetFree(assettypes.BaseCoin))
	}
}

func TestRegisterOperatorRejections(t *testing.T) {
	env := newOperatorEnv(t)
	f := env.f
	f.SeedAccount(t, ledgertypes.NewRegID(0, 3))

	// a regid registered at the current height is not yet usable
	d := env.detail()
	_, _, err := f.Dex.RegisterOperator(f.Ctx, 0, env.registrant, d)
	require.ErrorIs(t, err, types.ErrRegIDNotMature)

	d = env.detail()
	d.Name = ""
	_, _, err = f.Dex.RegisterOperator(f.Ctx, 10, env.registrant, d)
	require.ErrorIs(t, err, types.ErrInvalidOperatorField)

	d = env.detail()
	d.TakerFeeRatio = assettypes.RatioBaseBoost
	_, _, err = f.Dex.RegisterOperator(f.Ctx, 10, env.registrant, d)
	require.ErrorIs(t, err, types.ErrFeeRatioTooHigh)

	// one operator per owner
	_, _, err = f.Dex.RegisterOperator(f.Ctx, 10, env.registrant, env.detail())
	require.NoError(t, err)
	_, _, err = f.Dex.RegisterOperator(f.Ctx, 10, env.registrant, env.detail())
	require.ErrorIs(t, err, types.ErrOperatorExists)
}

func TestUpdateOperator(t *testing.T) {
	env := newOperatorEnv(t)
	f := env.f
	f.SeedAccount(t, ledgertypes.NewRegID(0, 3))

	op, _, err := f.Dex.RegisterOperator(f.Ctx, 10, env.registrant, env.detail())
	require.NoError(t, err)
	balanceAfterRegister := env.registrant.GetFree(assettypes.BaseCoin)

	_, err = f.Dex.UpdateOperator(f.Ctx, 11, env.registrant, op.ID, []types.OperatorUpdate{
		{Key: types.OperatorUpdateName, StringValue: "Perch DEX v2"},
		{Key: types.OperatorUpdateTakerFeeRatio, Uint64Value: 30_000},
	})
	require.NoError(t, err)

	got, err := f.Dex.GetOperator(f.Ctx, op.ID)
	require.NoError(t, err)
	require.Equal(t, "Perch DEX v2", got.Name)
	require.Equal(t, uint64(30_000), got.TakerFeeRatio)

	// update fee charged on top of registration
	require.Equal(t, balanceAfterRegister-100*assettypes.Coin, env.registrant.GetFree(assettypes.BaseCoin))

	// only the owner may update
	stranger := f.SeedAccount(t, ledgertypes.NewRegID(0, 50),
		ledgertypes.TokenBalance{Symbol: assettypes.BaseCoin, Free: 1000 * assettypes.Coin})
	_, err = f.Dex.UpdateOperator(f.Ctx, 11, stranger, op.ID, []types.OperatorUpdate{
		{Key: types.OperatorUpdateName, StringValue: "hijack"},
	})
	require.ErrorIs(t, err, types.ErrInvalidOperatorField)

	// ownership transfer re-indexes the owner lookup
	_, err = f.Dex.UpdateOperator(f.Ctx, 11, env.registrant, op.ID, []types.OperatorUpdate{
		{Key: types.OperatorUpdateOwner, RegIDValue: stranger.RegID},
	})
	require.NoError(t, err)
	byOld, err := f.Dex.GetOperatorByOwner(f.Ctx, env.registrant.RegID)
	require.NoError(t, err)
	require.Nil(t, byOld)
	byNew, err := f.Dex.GetOperatorByOwner(f.Ctx, stranger.RegID)
	require.NoError(t, err)
	require.Equal(t, op.ID, byNew.ID)
}
