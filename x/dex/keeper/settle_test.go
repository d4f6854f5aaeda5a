package keeper_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	keepertest "github.com/perch-chain/perch/testutil/keeper"
	assettypes "github.com/perch-chain/perch/x/asset/types"
	"github.com/perch-chain/perch/x/dex/types"
	ledgertypes "github.com/perch-chain/perch/x/ledger/types"
)

const dealFeeRatio = 40_000 // 0.04% in RatioBaseBoost scale

func seedMatcher(t *testing.T, f *keepertest.Fixture) *ledgertypes.Account {
	return f.SeedNamedAccount(t, ledgertypes.DexMatcherAccount, ledgertypes.NewRegID(0, 3))
}

func placeCrossedOrders(t *testing.T, f *keepertest.Fixture, buyer, seller *ledgertypes.Account, assetAmount, feeRatio uint64) {
	_, err := f.Dex.CreateOrder(f.Ctx, []byte("order-buy-1"), 10, 0, buyer,
		types.UserGenerated, types.LimitPrice, types.BuyOrder,
		assettypes.StableCoin, assettypes.BaseCoin,
		0, assetAmount, orderPrice, feeRatio)
	require.NoError(t, err)

	_, err = f.Dex.CreateOrder(f.Ctx, []byte("order-sell-1"), 10, 1, seller,
		types.UserGenerated, types.LimitPrice, types.SellOrder,
		assettypes.StableCoin, assettypes.BaseCoin,
		0, assetAmount, orderPrice, feeRatio)
	require.NoError(t, err)
}

func TestSettleFullFill(t *testing.T) {
	f := keepertest.NewFixture(t)
	buyer := seedBuyer(t, f)
	seller := seedSeller(t, f)
	matcher := seedMatcher(t, f)
	placeCrossedOrders(t, f, buyer, seller, 100*assettypes.Coin, dealFeeRatio)

	deal := types.DealItem{
		BuyOrderID:      []byte("order-buy-1"),
		SellOrderID:     []byte("order-sell-1"),
		DealPrice:       orderPrice,
		DealCoinAmount:  200 * assettypes.Coin,
		DealAssetAmount: 100 * assettypes.Coin,
	}
	receipts, err := f.Dex.SettleOrders(f.Ctx, []byte("settle-1"), 11, matcher, []types.DealItem{deal})
	require.NoError(t, err)
	require.Len(t, receipts, 4)

	assetFee := uint64(100*assettypes.Coin) * dealFeeRatio / assettypes.RatioBaseBoost
	coinFee := uint64(200*assettypes.Coin) * dealFeeRatio / assettypes.RatioBaseBoost

	require.Equal(t, uint64(800*assettypes.Coin), buyer.GetFree(assettypes.StableCoin))
	require.Equal(t, uint64(0), buyer.GetFrozen(assettypes.StableCoin))
	require.Equal(t, uint64(100*assettypes.Coin)-assetFee, buyer.GetFree(assettypes.BaseCoin))

	require.Equal(t, uint64(900*assettypes.Coin), seller.GetFree(assettypes.BaseCoin))
	require.Equal(t, uint64(0), seller.GetFrozen(assettypes.BaseCoin))
	require.Equal(t, uint64(200*assettypes.Coin)-coinFee, seller.GetFree(assettypes.StableCoin))

	require.Equal(t, assetFee, matcher.GetFree(assettypes.BaseCoin))
	require.Equal(t, coinFee, matcher.GetFree(assettypes.StableCoin))

	// value is conserved across the three parties
	require.Equal(t, uint64(1000*assettypes.Coin),
		buyer.GetFree(assettypes.BaseCoin)+seller.GetFree(assettypes.BaseCoin)+matcher.GetFree(assettypes.BaseCoin))
	require.Equal(t, uint64(1000*assettypes.Coin),
		buyer.GetFree(assettypes.StableCoin)+seller.GetFree(assettypes.StableCoin)+matcher.GetFree(assettypes.StableCoin))

	// both orders filled completely and left the active set
	require.False(t, f.Dex.HasActiveOrder(f.Ctx, []byte("order-buy-1")))
	require.False(t, f.Dex.HasActiveOrder(f.Ctx, []byte("order-sell-1")))
}

func TestSettlePartialFillThenCancel(t *testing.T) {
	f := keepertest.NewFixture(t)
	buyer := seedBuyer(t, f)
	seller := seedSeller(t, f)
	matcher := seedMatcher(t, f)

	// sell 100, buy only 40
	_, err := f.Dex.CreateOrder(f.Ctx, []byte("order-sell-1"), 10, 0, seller,
		types.UserGenerated, types.LimitPrice, types.SellOrder,
		assettypes.StableCoin, assettypes.BaseCoin,
		0, 100*assettypes.Coin, orderPrice, 0)
	require.NoError(t, err)
	_, err = f.Dex.CreateOrder(f.Ctx, []byte("order-buy-1"), 10, 1, buyer,
		types.UserGenerated, types.LimitPrice, types.BuyOrder,
		assettypes.StableCoin, assettypes.BaseCoin,
		0, 40*assettypes.Coin, orderPrice, 0)
	require.NoError(t, err)

	deal := types.DealItem{
		BuyOrderID:      []byte("order-buy-1"),
		SellOrderID:     []byte("order-sell-1"),
		DealPrice:       orderPrice,
		DealCoinAmount:  80 * assettypes.Coin,
		DealAssetAmount: 40 * assettypes.Coin,
	}
	_, err = f.Dex.SettleOrders(f.Ctx, []byte("settle-1"), 11, matcher, []types.DealItem{deal})
	require.NoError(t, err)

	// the sell order stays active with 60 still frozen
	sellOrder, err := f.Dex.GetActiveOrder(f.Ctx, []byte("order-sell-1"))
	require.NoError(t, err)
	require.Equal(t, uint64(40*assettypes.Coin), sellOrder.TotalDealAssetAmount)
	require.Equal(t, uint64(60*assettypes.Coin), sellOrder.FrozenResidual())
	require.Equal(t, uint64(60*assettypes.Coin), seller.GetFrozen(assettypes.BaseCoin))

	// cancelling returns exactly the unfilled remainder
	receipts, err := f.Dex.CancelOrder(f.Ctx, seller, []byte("order-sell-1"))
	require.NoError(t, err)
	require.Len(t, receipts, 1)
	require.Equal(t, ledgertypes.DexUnfreezeAssetToSeller, receipts[0].Code)
	require.Equal(t, uint64(60*assettypes.Coin), receipts[0].Amount)
	require.Equal(t, uint64(0), seller.GetFrozen(assettypes.BaseCoin))
	require.Equal(t, uint64(960*assettypes.Coin), seller.GetFree(assettypes.BaseCoin))
}

func TestSettleUnauthorizedSettler(t *testing.T) {
	f := keepertest.NewFixture(t)
	buyer := seedBuyer(t, f)
	seller := seedSeller(t, f)
	placeCrossedOrders(t, f, buyer, seller, 100*assettypes.Coin, 0)

	outsider := f.SeedAccount(t, ledgertypes.NewRegID(0, 99))
	deal := types.DealItem{
		BuyOrderID:      []byte("order-buy-1"),
		SellOrderID:     []byte("order-sell-1"),
		DealPrice:       orderPrice,
		DealCoinAmount:  200 * assettypes.Coin,
		DealAssetAmount: 100 * assettypes.Coin,
	}
	_, err := f.Dex.SettleOrders(f.Ctx, []byte("settle-1"), 11, outsider, []types.DealItem{deal})
	require.ErrorIs(t, err, types.ErrUnauthorizedSettler)
}

func TestSettleRejectsBadDeals(t *testing.T) {
	f := keepertest.NewFixture(t)
	buyer := seedBuyer(t, f)
	seller := seedSeller(t, f)
	matcher := seedMatcher(t, f)
	placeCrossedOrders(t, f, buyer, seller, 100*assettypes.Coin, 0)

	settle := func(deal types.DealItem) error {
		_, err := f.Dex.SettleOrders(f.Ctx, []byte("settle-1"), 11, matcher, []types.DealItem{deal})
		return err
	}

	// deal price above the buy limit
	require.ErrorIs(t, settle(types.DealItem{
		BuyOrderID: []byte("order-buy-1"), SellOrderID: []byte("order-sell-1"),
		DealPrice: 3 * assettypes.PriceBoost, DealCoinAmount: 300 * assettypes.Coin, DealAssetAmount: 100 * assettypes.Coin,
	}), types.ErrDealPriceMismatch)

	// coin amount inconsistent with price for limit orders
	require.ErrorIs(t, settle(types.DealItem{
		BuyOrderID: []byte("order-buy-1"), SellOrderID: []byte("order-sell-1"),
		DealPrice: orderPrice, DealCoinAmount: 199 * assettypes.Coin, DealAssetAmount: 100 * assettypes.Coin,
	}), types.ErrDealAmountMismatch)

	// overfill beyond both order limits
	require.ErrorIs(t, settle(types.DealItem{
		BuyOrderID: []byte("order-buy-1"), SellOrderID: []byte("order-sell-1"),
		DealPrice: orderPrice, DealCoinAmount: 300 * assettypes.Coin, DealAssetAmount: 150 * assettypes.Coin,
	}), types.ErrOrderOverFilled)

	// swapped sides
	require.ErrorIs(t, settle(types.DealItem{
		BuyOrderID: []byte("order-sell-1"), SellOrderID: []byte("order-buy-1"),
		DealPrice: orderPrice, DealCoinAmount: 200 * assettypes.Coin, DealAssetAmount: 100 * assettypes.Coin,
	}), types.ErrOrderSideMismatch)

	// unknown order id
	require.ErrorIs(t, settle(types.DealItem{
		BuyOrderID: []byte("no-such-order"), SellOrderID: []byte("order-sell-1"),
		DealPrice: orderPrice, DealCoinAmount: 200 * assettypes.Coin, DealAssetAmount: 100 * assettypes.Coin,
	}), types.ErrOrderInactive)

	// a rejected batch leaves balances and orders untouched
	require.Equal(t, uint64(200*assettypes.Coin), buyer.GetFrozen(assettypes.StableCoin))
	require.Equal(t, uint64(100*assettypes.Coin), seller.GetFrozen(assettypes.BaseCoin))
	require.True(t, f.Dex.HasActiveOrder(f.Ctx, []byte("order-buy-1")))
	require.True(t, f.Dex.HasActiveOrder(f.Ctx, []byte("order-sell-1")))
}

func TestSettleEmptyBatch(t *testing.T) {
	f := keepertest.NewFixture(t)
	matcher := seedMatcher(t, f)

	_, err := f.Dex.SettleOrders(f.Ctx, []byte("settle-1"), 11, matcher, nil)
	require.ErrorIs(t, err, types.ErrEmptySettleBatch)
}
