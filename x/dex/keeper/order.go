package keeper

import (
	"context"

	assettypes "github.com/perch-chain/perch/x/asset/types"
	"github.com/perch-chain/perch/x/dex/types"
	ledgertypes "github.com/perch-chain/perch/x/ledger/types"
	sysparamtypes "github.com/perch-chain/perch/x/sysparam/types"
)

// CreateOrder validates a new order, freezes the committed side of the
// trade on the owner's account, and inserts the order into the active set.
// The owner account is persisted here.
func (k Keeper) CreateOrder(
	ctx context.Context,
	txid []byte,
	height int64,
	index uint16,
	owner *ledgertypes.Account,
	generator types.OrderGenerator,
	kind types.OrderKind,
	side types.OrderSide,
	coinSymbol, assetSymbol string,
	coinAmount, assetAmount, price, feeRatio uint64,
) (*types.Order, error) {
	if !k.assetKeeper.HasTradingPair(ctx, assetSymbol, coinSymbol) {
		return nil, types.ErrInvalidOrderPair.Wrapf("pair=%s:%s", assetSymbol, coinSymbol)
	}
	if kind == types.LimitPrice && price == 0 {
		return nil, types.ErrInvalidOrderPrice.Wrap("limit order requires price > 0")
	}
	if kind == types.MarketPrice && price != 0 {
		return nil, types.ErrInvalidOrderPrice.Wrapf("market order carries price %d", price)
	}
	feeRatioMax, err := k.paramKeeper.MustGetParam(ctx, sysparamtypes.DexOrderFeeRatioMax)
	if err != nil {
		return nil, err
	}
	if feeRatio > feeRatioMax {
		return nil, types.ErrFeeRatioTooHigh.Wrapf("fee_ratio=%d, max=%d", feeRatio, feeRatioMax)
	}
	amountMin, err := k.paramKeeper.MustGetParam(ctx, sysparamtypes.DexOrderAmountMin)
	if err != nil {
		return nil, err
	}

	order := &types.Order{
		OrderID:     txid,
		Generator:   generator,
		Kind:        kind,
		Side:        side,
		CoinSymbol:  coinSymbol,
		AssetSymbol: assetSymbol,
		Price:       price,
		FeeRatio:    feeRatio,
		Height:      height,
		Index:       index,
		OwnerRegID:  owner.RegID,
	}

	switch {
	case side == types.BuyOrder && kind == types.LimitPrice:
		if assetAmount < amountMin || assetAmount > types.MaxOrderAmount {
			return nil, types.ErrInvalidOrderAmount.Wrapf("asset_amount=%d", assetAmount)
		}
		committed, err := mulDivUint64(assetAmount, price, assettypes.PriceBoost)
		if err != nil {
			return nil, types.ErrAmountOverflow.Wrapf("coin amount: %v", err)
		}
		if committed == 0 {
			return nil, types.ErrInvalidOrderAmount.Wrap("computed coin amount is zero")
		}
		order.AssetAmount = assetAmount
		order.CoinAmount = committed
	case side == types.BuyOrder && kind == types.MarketPrice:
		if coinAmount < amountMin || coinAmount > types.MaxOrderAmount {
			return nil, types.ErrInvalidOrderAmount.Wrapf("coin_amount=%d", coinAmount)
		}
		order.CoinAmount = coinAmount
	default: // sell, limit or market
		if assetAmount < amountMin || assetAmount > types.MaxOrderAmount {
			return nil, types.ErrInvalidOrderAmount.Wrapf("asset_amount=%d", assetAmount)
		}
		order.AssetAmount = assetAmount
	}

	frozenSymbol := order.FrozenSymbol()
	frozenAmount := order.CoinAmount
	if side == types.SellOrder {
		frozenAmount = order.AssetAmount
	}
	if !owner.OperateBalance(frozenSymbol, ledgertypes.Freeze, frozenAmount) {
		return nil, types.ErrInsufficientBalance.Wrapf("symbol=%s, need=%d, free=%d",
			frozenSymbol, frozenAmount, owner.GetFree(frozenSymbol))
	}

	if err := k.setActiveOrder(ctx, order); err != nil {
		return nil, err
	}
	if err := k.ledgerKeeper.SetAccount(ctx, owner); err != nil {
		return nil, err
	}
	k.logger.Debug("order created", "order", order.String())
	return order, nil
}

// CancelOrder removes an active order and unfreezes its residual. Only the
// owner may cancel; a filled or already cancelled id fails as inactive with
// no balance change.
func (k Keeper) CancelOrder(
	ctx context.Context,
	owner *ledgertypes.Account,
	orderID []byte,
) ([]ledgertypes.Receipt, error) {
	order, err := k.GetActiveOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.OwnerRegID != owner.RegID {
		return nil, types.ErrNotOrderOwner.Wrapf("order owner=%s, signer=%s", order.OwnerRegID, owner.RegID)
	}

	residual := order.FrozenResidual()
	if residual > 0 {
		if !owner.OperateBalance(order.FrozenSymbol(), ledgertypes.Unfreeze, residual) {
			return nil, types.ErrWriteDex.Wrapf("unfreeze %d %s failed, frozen=%d",
				residual, order.FrozenSymbol(), owner.GetFrozen(order.FrozenSymbol()))
		}
	}

	k.eraseActiveOrder(ctx, orderID)
	if err := k.ledgerKeeper.SetAccount(ctx, owner); err != nil {
		return nil, err
	}

	code := ledgertypes.DexUnfreezeCoinToBuyer
	if order.Side == types.SellOrder {
		code = ledgertypes.DexUnfreezeAssetToSeller
	}
	receipts := []ledgertypes.Receipt{
		ledgertypes.NewReceipt(systemRegID, owner.RegID, order.FrozenSymbol(), residual, code),
	}
	k.logger.Debug("order cancelled", "order", order.String(), "unfrozen", residual)
	return receipts, nil
}
