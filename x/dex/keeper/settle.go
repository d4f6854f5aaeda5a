package keeper

import (
	"context"

	"cosmossdk.io/errors"

	assettypes "github.com/perch-chain/perch/x/asset/types"
	"github.com/perch-chain/perch/x/dex/types"
	ledgertypes "github.com/perch-chain/perch/x/ledger/types"
	sysparamtypes "github.com/perch-chain/perch/x/sysparam/types"
)

// systemRegID marks unfreeze movements in receipts.
var systemRegID = ledgertypes.RegID{}

// accountMap shares loaded accounts across the deal items of one batch so
// repeated touches accumulate before the single final persist.
type accountMap map[ledgertypes.RegID]*ledgertypes.Account

func (m accountMap) get(ctx context.Context, k Keeper, regID ledgertypes.RegID) (*ledgertypes.Account, error) {
	if acc, ok := m[regID]; ok {
		return acc, nil
	}
	acc, err := k.ledgerKeeper.GetAccountByRegID(ctx, regID)
	if err != nil {
		return nil, err
	}
	m[regID] = acc
	return acc, nil
}

// SettleOrders processes a batch of matched deals submitted by an
// authorized matching service. Each deal mutates the two referenced orders
// and the owners' balances; accounts are persisted once after the whole
// batch. Any failing deal rejects the entire settlement.
func (k Keeper) SettleOrders(
	ctx context.Context,
	txid []byte,
	height int64,
	settler *ledgertypes.Account,
	deals []types.DealItem,
) ([]ledgertypes.Receipt, error) {
	if len(deals) == 0 {
		return nil, types.ErrEmptySettleBatch
	}
	batchMax, err := k.paramKeeper.MustGetParam(ctx, sysparamtypes.DexSettleBatchMax)
	if err != nil {
		return nil, err
	}
	if uint64(len(deals)) > batchMax {
		return nil, types.ErrSettleBatchTooLarge.Wrapf("items=%d, max=%d", len(deals), batchMax)
	}
	if !k.IsAuthorizedSettler(ctx, settler.RegID) {
		return nil, types.ErrUnauthorizedSettler.Wrapf("settler=%s", settler.RegID)
	}

	accounts := accountMap{settler.RegID: settler}
	var receipts []ledgertypes.Receipt

	for i, deal := range deals {
		dealReceipts, err := k.settleDeal(ctx, accounts, settler.RegID, deal)
		if err != nil {
			return nil, errWrapDeal(err, i, deal)
		}
		receipts = append(receipts, dealReceipts...)
	}

	for _, acc := range accounts {
		if err := k.ledgerKeeper.SetAccount(ctx, acc); err != nil {
			return nil, err
		}
	}
	k.logger.Debug("settlement executed", "txid", txid, "height", height,
		"deals", len(deals), "receipts", len(receipts))
	return receipts, nil
}

func errWrapDeal(err error, i int, deal types.DealItem) error {
	return errors.Wrapf(err, "deal[%d] buy=%X sell=%X price=%d coin=%d asset=%d",
		i, deal.BuyOrderID, deal.SellOrderID, deal.DealPrice, deal.DealCoinAmount, deal.DealAssetAmount)
}

// settleDeal applies one deal item against the shared account map.
func (k Keeper) settleDeal(
	ctx context.Context,
	accounts accountMap,
	settlerRegID ledgertypes.RegID,
	deal types.DealItem,
) ([]ledgertypes.Receipt, error) {
	buyOrder, err := k.GetActiveOrder(ctx, deal.BuyOrderID)
	if err != nil {
		return nil, err
	}
	sellOrder, err := k.GetActiveOrder(ctx, deal.SellOrderID)
	if err != nil {
		return nil, err
	}
	if buyOrder.Side != types.BuyOrder {
		return nil, types.ErrOrderSideMismatch.Wrapf("order %X is not a buy order", deal.BuyOrderID)
	}
	if sellOrder.Side != types.SellOrder {
		return nil, types.ErrOrderSideMismatch.Wrapf("order %X is not a sell order", deal.SellOrderID)
	}
	if buyOrder.CoinSymbol != sellOrder.CoinSymbol || buyOrder.AssetSymbol != sellOrder.AssetSymbol {
		return nil, types.ErrOrderSymbolMismatch.Wrapf("buy pair=%s:%s, sell pair=%s:%s",
			buyOrder.AssetSymbol, buyOrder.CoinSymbol, sellOrder.AssetSymbol, sellOrder.CoinSymbol)
	}
	if deal.DealAssetAmount == 0 || deal.DealCoinAmount == 0 || deal.DealPrice == 0 {
		return nil, types.ErrDealAmountMismatch.Wrap("zero deal amount or price")
	}

	// price matching by order-kind combination
	switch {
	case buyOrder.Kind == types.LimitPrice && sellOrder.Kind == types.LimitPrice:
		if deal.DealPrice < sellOrder.Price || deal.DealPrice > buyOrder.Price {
			return nil, types.ErrDealPriceMismatch.Wrapf("deal=%d, sell=%d, buy=%d",
				deal.DealPrice, sellOrder.Price, buyOrder.Price)
		}
	case buyOrder.Kind == types.LimitPrice && sellOrder.Kind == types.MarketPrice:
		if deal.DealPrice != buyOrder.Price {
			return nil, types.ErrDealPriceMismatch.Wrapf("deal=%d, limit buy=%d", deal.DealPrice, buyOrder.Price)
		}
	case buyOrder.Kind == types.MarketPrice && sellOrder.Kind == types.LimitPrice:
		if deal.DealPrice != sellOrder.Price {
			return nil, types.ErrDealPriceMismatch.Wrapf("deal=%d, limit sell=%d", deal.DealPrice, sellOrder.Price)
		}
	default:
		// market to market, price trusted to the matcher
	}

	// coin amount consistency against the deal price
	expectedCoin, err := mulDivUint64(deal.DealAssetAmount, deal.DealPrice, assettypes.PriceBoost)
	if err != nil {
		return nil, types.ErrAmountOverflow.Wrapf("expected coin: %v", err)
	}
	if buyOrder.Kind == types.MarketPrice {
		tolerance := deal.DealPrice / assettypes.PriceBoost
		if tolerance < 1 {
			tolerance = 1
		}
		if absDiff(expectedCoin, deal.DealCoinAmount) > tolerance {
			return nil, types.ErrDealAmountMismatch.Wrapf("expected=%d, got=%d, tolerance=%d",
				expectedCoin, deal.DealCoinAmount, tolerance)
		}
	} else if expectedCoin != deal.DealCoinAmount {
		return nil, types.ErrDealAmountMismatch.Wrapf("expected=%d, got=%d", expectedCoin, deal.DealCoinAmount)
	}

	// accumulate cumulative fills, bounded by each order's limit amount
	if buyOrder.TotalDealCoinAmount, err = addUint64(buyOrder.TotalDealCoinAmount, deal.DealCoinAmount); err != nil {
		return nil, types.ErrAmountOverflow.Wrapf("buy coin total: %v", err)
	}
	if buyOrder.TotalDealAssetAmount, err = addUint64(buyOrder.TotalDealAssetAmount, deal.DealAssetAmount); err != nil {
		return nil, types.ErrAmountOverflow.Wrapf("buy asset total: %v", err)
	}
	if sellOrder.TotalDealCoinAmount, err = addUint64(sellOrder.TotalDealCoinAmount, deal.DealCoinAmount); err != nil {
		return nil, types.ErrAmountOverflow.Wrapf("sell coin total: %v", err)
	}
	if sellOrder.TotalDealAssetAmount, err = addUint64(sellOrder.TotalDealAssetAmount, deal.DealAssetAmount); err != nil {
		return nil, types.ErrAmountOverflow.Wrapf("sell asset total: %v", err)
	}
	if buyOrder.DealAmount() > buyOrder.LimitAmount() {
		return nil, types.ErrOrderOverFilled.Wrapf("buy order %X: dealt=%d, limit=%d",
			buyOrder.OrderID, buyOrder.DealAmount(), buyOrder.LimitAmount())
	}
	if sellOrder.TotalDealAssetAmount > sellOrder.AssetAmount {
		return nil, types.ErrOrderOverFilled.Wrapf("sell order %X: dealt=%d, limit=%d",
			sellOrder.OrderID, sellOrder.TotalDealAssetAmount, sellOrder.AssetAmount)
	}

	buyer, err := accounts.get(ctx, k, buyOrder.OwnerRegID)
	if err != nil {
		return nil, err
	}
	seller, err := accounts.get(ctx, k, sellOrder.OwnerRegID)
	if err != nil {
		return nil, err
	}
	settlerAcc, err := accounts.get(ctx, k, settlerRegID)
	if err != nil {
		return nil, err
	}

	coinSymbol, assetSymbol := buyOrder.CoinSymbol, buyOrder.AssetSymbol

	// consume the committed frozen sides
	if !buyer.OperateBalance(coinSymbol, ledgertypes.Unfreeze, deal.DealCoinAmount) ||
		!buyer.OperateBalance(coinSymbol, ledgertypes.SubFree, deal.DealCoinAmount) {
		return nil, types.ErrInsufficientBalance.Wrapf("buyer frozen %s short of %d", coinSymbol, deal.DealCoinAmount)
	}
	if !seller.OperateBalance(assetSymbol, ledgertypes.Unfreeze, deal.DealAssetAmount) ||
		!seller.OperateBalance(assetSymbol, ledgertypes.SubFree, deal.DealAssetAmount) {
		return nil, types.ErrInsufficientBalance.Wrapf("seller frozen %s short of %d", assetSymbol, deal.DealAssetAmount)
	}

	// fees come off what each side receives, paid to the settlement service
	assetFee, err := mulDivUint64(deal.DealAssetAmount, buyOrder.FeeRatio, assettypes.RatioBaseBoost)
	if err != nil {
		return nil, types.ErrAmountOverflow.Wrapf("asset fee: %v", err)
	}
	coinFee, err := mulDivUint64(deal.DealCoinAmount, sellOrder.FeeRatio, assettypes.RatioBaseBoost)
	if err != nil {
		return nil, types.ErrAmountOverflow.Wrapf("coin fee: %v", err)
	}

	if !buyer.OperateBalance(assetSymbol, ledgertypes.AddFree, deal.DealAssetAmount-assetFee) {
		return nil, types.ErrAmountOverflow.Wrap("buyer asset credit overflow")
	}
	if !seller.OperateBalance(coinSymbol, ledgertypes.AddFree, deal.DealCoinAmount-coinFee) {
		return nil, types.ErrAmountOverflow.Wrap("seller coin credit overflow")
	}

	receipts := []ledgertypes.Receipt{
		ledgertypes.NewReceipt(sellOrder.OwnerRegID, buyOrder.OwnerRegID, assetSymbol,
			deal.DealAssetAmount-assetFee, ledgertypes.DexAssetToBuyer),
		ledgertypes.NewReceipt(buyOrder.OwnerRegID, sellOrder.OwnerRegID, coinSymbol,
			deal.DealCoinAmount-coinFee, ledgertypes.DexCoinToSeller),
	}
	if assetFee > 0 {
		if !settlerAcc.OperateBalance(assetSymbol, ledgertypes.AddFree, assetFee) {
			return nil, types.ErrAmountOverflow.Wrap("settler asset fee credit overflow")
		}
		receipts = append(receipts, ledgertypes.NewReceipt(buyOrder.OwnerRegID, settlerRegID,
			assetSymbol, assetFee, ledgertypes.DexAssetFeeToSettler))
	}
	if coinFee > 0 {
		if !settlerAcc.OperateBalance(coinSymbol, ledgertypes.AddFree, coinFee) {
			return nil, types.ErrAmountOverflow.Wrap("settler coin fee credit overflow")
		}
		receipts = append(receipts, ledgertypes.NewReceipt(sellOrder.OwnerRegID, settlerRegID,
			coinSymbol, coinFee, ledgertypes.DexCoinFeeToSettler))
	}

	// residual handling: filled orders leave the active set, a filled limit
	// buy returns any rounding leftover still frozen
	if buyOrder.ResidualAmount() == 0 {
		if leftover := buyOrder.FrozenResidual(); leftover > 0 {
			if !buyer.OperateBalance(coinSymbol, ledgertypes.Unfreeze, leftover) {
				return nil, types.ErrWriteDex.Wrapf("unfreeze buy leftover %d failed", leftover)
			}
			receipts = append(receipts, ledgertypes.NewReceipt(systemRegID, buyOrder.OwnerRegID,
				coinSymbol, leftover, ledgertypes.DexUnfreezeCoinToBuyer))
		}
		k.eraseActiveOrder(ctx, buyOrder.OrderID)
	} else {
		if err := k.setActiveOrder(ctx, buyOrder); err != nil {
			return nil, err
		}
	}
	if sellOrder.ResidualAmount() == 0 {
		k.eraseActiveOrder(ctx, sellOrder.OrderID)
	} else {
		if err := k.setActiveOrder(ctx, sellOrder); err != nil {
			return nil, err
		}
	}
	return receipts, nil
}
