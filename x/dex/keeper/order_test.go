package keeper_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	keepertest "github.com/perch-chain/perch/testutil/keeper"
	assettypes "github.com/perch-chain/perch/x/asset/types"
	"github.com/perch-chain/perch/x/dex/types"
	ledgertypes "github.com/perch-chain/perch/x/ledger/types"
)

const orderPrice = 2 * assettypes.PriceBoost // 2 PUSD per PERC

func seedBuyer(t *testing.T, f *keepertest.Fixture) *ledgertypes.Account {
	return f.SeedAccount(t, ledgertypes.NewRegID(0, 10),
		ledgertypes.TokenBalance{Symbol: assettypes.StableCoin, Free: 1000 * assettypes.Coin})
}

func seedSeller(t *testing.T, f *keepertest.Fixture) *ledgertypes.Account {
	return f.SeedAccount(t, ledgertypes.NewRegID(0, 11),
		ledgertypes.TokenBalance{Symbol: assettypes.BaseCoin, Free: 1000 * assettypes.Coin})
}

func TestCreateLimitBuyFreezesCommittedCoins(t *testing.T) {
	f := keepertest.NewFixture(t)
	buyer := seedBuyer(t, f)

	order, err := f.Dex.CreateOrder(f.Ctx, []byte("order-buy-1"), 10, 0, buyer,
		types.UserGenerated, types.LimitPrice, types.BuyOrder,
		assettypes.StableCoin, assettypes.BaseCoin,
		0, 100*assettypes.Coin, orderPrice, 0)
	require.NoError(t, err)

	// 100 PERC at 2 PUSD commits 200 PUSD
	require.Equal(t, uint64(200*assettypes.Coin), order.CoinAmount)
	require.Equal(t, uint64(200*assettypes.Coin), buyer.GetFrozen(assettypes.StableCoin))
	require.Equal(t, uint64(800*assettypes.Coin), buyer.GetFree(assettypes.StableCoin))

	got, err := f.Dex.GetActiveOrder(f.Ctx, []byte("order-buy-1"))
	require.NoError(t, err)
	require.Equal(t, order, got)
}

func TestCreateSellFreezesAssets(t *testing.T) {
	f := keepertest.NewFixture(t)
	seller := seedSeller(t, f)

	_, err := f.Dex.CreateOrder(f.Ctx, []byte("order-sell-1"), 10, 0, seller,
		types.UserGenerated, types.MarketPrice, types.SellOrder,
		assettypes.StableCoin, assettypes.BaseCoin,
		0, 100*assettypes.Coin, 0, 0)
	require.NoError(t, err)

	require.Equal(t, uint64(100*assettypes.Coin), seller.GetFrozen(assettypes.BaseCoin))
	require.Equal(t, uint64(900*assettypes.Coin), seller.GetFree(assettypes.BaseCoin))
}

func TestCreateOrderRejections(t *testing.T) {
	f := keepertest.NewFixture(t)
	buyer := seedBuyer(t, f)

	// unregistered pair
	_, err := f.Dex.CreateOrder(f.Ctx, []byte("o1"), 10, 0, buyer,
		types.UserGenerated, types.LimitPrice, types.BuyOrder,
		assettypes.BaseCoin, assettypes.StableCoin,
		0, 100*assettypes.Coin, orderPrice, 0)
	require.ErrorIs(t, err, types.ErrInvalidOrderPair)

	// limit order without a price
	_, err = f.Dex.CreateOrder(f.Ctx, []byte("o2"), 10, 0, buyer,
		types.UserGenerated, types.LimitPrice, types.BuyOrder,
		assettypes.StableCoin, assettypes.BaseCoin,
		0, 100*assettypes.Coin, 0, 0)
	require.ErrorIs(t, err, types.ErrInvalidOrderPrice)

	// market order carrying a price
	_, err = f.Dex.CreateOrder(f.Ctx, []byte("o3"), 10, 0, buyer,
		types.UserGenerated, types.MarketPrice, types.BuyOrder,
		assettypes.StableCoin, assettypes.BaseCoin,
		100*assettypes.Coin, 0, orderPrice, 0)
	require.ErrorIs(t, err, types.ErrInvalidOrderPrice)

	// fee ratio beyond the chain maximum
	_, err = f.Dex.CreateOrder(f.Ctx, []byte("o4"), 10, 0, buyer,
		types.UserGenerated, types.LimitPrice, types.BuyOrder,
		assettypes.StableCoin, assettypes.BaseCoin,
		0, 100*assettypes.Coin, orderPrice, assettypes.RatioBaseBoost)
	require.ErrorIs(t, err, types.ErrFeeRatioTooHigh)

	// below the minimum order amount
	_, err = f.Dex.CreateOrder(f.Ctx, []byte("o5"), 10, 0, buyer,
		types.UserGenerated, types.LimitPrice, types.BuyOrder,
		assettypes.StableCoin, assettypes.BaseCoin,
		0, 100, orderPrice, 0)
	require.ErrorIs(t, err, types.ErrInvalidOrderAmount)

	// committed coins exceeding the free balance
	_, err = f.Dex.CreateOrder(f.Ctx, []byte("o6"), 10, 0, buyer,
		types.UserGenerated, types.LimitPrice, types.BuyOrder,
		assettypes.StableCoin, assettypes.BaseCoin,
		0, 600*assettypes.Coin, orderPrice, 0)
	require.ErrorIs(t, err, types.ErrInsufficientBalance)
}

func TestCancelOrderUnfreezesResidual(t *testing.T) {
	f := keepertest.NewFixture(t)
	buyer := seedBuyer(t, f)

	_, err := f.Dex.CreateOrder(f.Ctx, []byte("order-buy-1"), 10, 0, buyer,
		types.UserGenerated, types.LimitPrice, types.BuyOrder,
		assettypes.StableCoin, assettypes.BaseCoin,
		0, 100*assettypes.Coin, orderPrice, 0)
	require.NoError(t, err)

	receipts, err := f.Dex.CancelOrder(f.Ctx, buyer, []byte("order-buy-1"))
	require.NoError(t, err)
	require.Len(t, receipts, 1)
	require.Equal(t, ledgertypes.DexUnfreezeCoinToBuyer, receipts[0].Code)
	require.Equal(t, uint64(200*assettypes.Coin), receipts[0].Amount)

	require.Equal(t, uint64(1000*assettypes.Coin), buyer.GetFree(assettypes.StableCoin))
	require.Equal(t, uint64(0), buyer.GetFrozen(assettypes.StableCoin))

	// the id is inactive now, cancelling again fails without balance change
	_, err = f.Dex.CancelOrder(f.Ctx, buyer, []byte("order-buy-1"))
	require.ErrorIs(t, err, types.ErrOrderInactive)
}

func TestCancelOrderOwnerOnly(t *testing.T) {
	f := keepertest.NewFixture(t)
	buyer := seedBuyer(t, f)
	seller := seedSeller(t, f)

	_, err := f.Dex.CreateOrder(f.Ctx, []byte("order-buy-1"), 10, 0, buyer,
		types.UserGenerated, types.LimitPrice, types.BuyOrder,
		assettypes.StableCoin, assettypes.BaseCoin,
		0, 100*assettypes.Coin, orderPrice, 0)
	require.NoError(t, err)

	_, err = f.Dex.CancelOrder(f.Ctx, seller, []byte("order-buy-1"))
	require.ErrorIs(t, err, types.ErrNotOrderOwner)
}
