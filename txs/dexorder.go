package txs

import (
	assettypes "github.com/perch-chain/perch/x/asset/types"
	dextypes "github.com/perch-chain/perch/x/dex/types"
	sysparamtypes "github.com/perch-chain/perch/x/sysparam/types"
)

// DexOrderTx is the unified order transaction: pricing mode and side are
// explicit fields rather than separate wire kinds. An order may carry an
// explicit fee ratio; without one the chain-wide deal fee ratio applies.
type DexOrderTx struct {
	BaseTx
	OrderKind   dextypes.OrderKind `json:"order_kind"`
	OrderSide   dextypes.OrderSide `json:"order_side"`
	CoinSymbol  string             `json:"coin_symbol"`
	AssetSymbol string             `json:"asset_symbol"`
	CoinAmount  uint64             `json:"coin_amount"`
	AssetAmount uint64             `json:"asset_amount"`
	Price       uint64             `json:"price"`
	HasFeeRatio bool               `json:"has_fee_ratio"`
	FeeRatio    uint64             `json:"fee_ratio"`
}

func (tx *DexOrderTx) Kind() Kind    { return KindDexOrder }
func (tx *DexOrderTx) Base() *BaseTx { return &tx.BaseTx }

func (tx *DexOrderTx) ValidateBasic() error {
	if err := tx.validateBase(); err != nil {
		return err
	}
	if err := assettypes.ValidateSymbol(tx.CoinSymbol); err != nil {
		return err
	}
	if err := assettypes.ValidateSymbol(tx.AssetSymbol); err != nil {
		return err
	}
	if tx.CoinSymbol == tx.AssetSymbol {
		return dextypes.ErrInvalidOrderPair.Wrapf("identical symbols %s", tx.CoinSymbol)
	}
	if tx.OrderKind == dextypes.LimitPrice && tx.Price == 0 {
		return dextypes.ErrInvalidOrderPrice.Wrap("limit order requires price > 0")
	}
	if tx.OrderKind == dextypes.MarketPrice && tx.Price != 0 {
		return dextypes.ErrInvalidOrderPrice.Wrapf("market order carries price %d", tx.Price)
	}
	if !tx.HasFeeRatio && tx.FeeRatio != 0 {
		return dextypes.ErrInvalidOperatorField.Wrap("fee ratio set without flag")
	}
	return nil
}

func (tx *DexOrderTx) SignBytes() []byte {
	c := *tx
	c.Signature = nil
	return signBytes(KindDexOrder, &c)
}

// effectiveFeeRatio resolves the fee ratio: the explicit one when carried,
// otherwise the chain-wide deal fee ratio parameter.
func (tx *DexOrderTx) effectiveFeeRatio(ctx *Context) (uint64, error) {
	if tx.HasFeeRatio {
		return tx.FeeRatio, nil
	}
	return ctx.Sysparam.MustGetParam(ctx.Ctx, sysparamtypes.DexDealFeeRatio)
}

func (tx *DexOrderTx) CheckTx(ctx *Context) error {
	if !ctx.Asset.HasTradingPair(ctx.Ctx, tx.AssetSymbol, tx.CoinSymbol) {
		return dextypes.ErrInvalidOrderPair.Wrapf("pair=%s:%s", tx.AssetSymbol, tx.CoinSymbol)
	}
	acc, err := ctx.checkSignedTx(tx)
	if err != nil {
		return err
	}
	if !acc.IsRegistered() {
		return ErrUnregistered.Wrapf("signer=%s", tx.Signer)
	}
	feeRatio, err := tx.effectiveFeeRatio(ctx)
	if err != nil {
		return err
	}
	feeRatioMax, err := ctx.Sysparam.MustGetParam(ctx.Ctx, sysparamtypes.DexOrderFeeRatioMax)
	if err != nil {
		return err
	}
	if feeRatio > feeRatioMax {
		return dextypes.ErrFeeRatioTooHigh.Wrapf("fee_ratio=%d, max=%d", feeRatio, feeRatioMax)
	}
	return nil
}

func (tx *DexOrderTx) ExecuteTx(ctx *Context) error {
	owner, err := ctx.beginExecute(tx)
	if err != nil {
		return err
	}
	if !owner.IsRegistered() {
		return ErrUnregistered.Wrapf("signer=%s", tx.Signer)
	}
	feeRatio, err := tx.effectiveFeeRatio(ctx)
	if err != nil {
		return err
	}
	_, err = ctx.Dex.CreateOrder(ctx.Ctx, ctx.TxID, ctx.Height, ctx.Index, owner,
		dextypes.UserGenerated, tx.OrderKind, tx.OrderSide,
		tx.CoinSymbol, tx.AssetSymbol, tx.CoinAmount, tx.AssetAmount, tx.Price, feeRatio)
	return err
}

// decodeLegacyOrder maps the eight retired order discriminants onto the
// unified order transaction. The discriminant wins over any side or kind
// fields carried in the body; only the "ex" generation may carry an
// explicit fee ratio.
func decodeLegacyOrder(kind Kind, body []byte) (Tx, error) {
	var tx DexOrderTx
	if err := cdc.Unmarshal(body, &tx); err != nil {
		return nil, ErrDecode.Wrapf("unmarshal %s: %v", kind, err)
	}
	switch kind {
	case KindLegacyLimitBuy, KindLegacyLimitBuyEx:
		tx.OrderKind, tx.OrderSide = dextypes.LimitPrice, dextypes.BuyOrder
	case KindLegacyLimitSell, KindLegacyLimitSellEx:
		tx.OrderKind, tx.OrderSide = dextypes.LimitPrice, dextypes.SellOrder
	case KindLegacyMarketBuy, KindLegacyMarketBuyEx:
		tx.OrderKind, tx.OrderSide = dextypes.MarketPrice, dextypes.BuyOrder
	case KindLegacyMarketSell, KindLegacyMarketSellEx:
		tx.OrderKind, tx.OrderSide = dextypes.MarketPrice, dextypes.SellOrder
	}
	if kind < KindLegacyLimitBuyEx {
		tx.HasFeeRatio = false
		tx.FeeRatio = 0
	}
	return &tx, nil
}

// DexCancelTx removes the signer's active order and unfreezes its residual.
type DexCancelTx struct {
	BaseTx
	OrderID []byte `json:"order_id"`
}

func (tx *DexCancelTx) Kind() Kind    { return KindDexCancel }
func (tx *DexCancelTx) Base() *BaseTx { return &tx.BaseTx }

func (tx *DexCancelTx) ValidateBasic() error {
	if err := tx.validateBase(); err != nil {
		return err
	}
	if len(tx.OrderID) == 0 {
		return ErrInvalidPayload.Wrap("empty order id")
	}
	return nil
}

func (tx *DexCancelTx) SignBytes() []byte {
	c := *tx
	c.Signature = nil
	return signBytes(KindDexCancel, &c)
}

func (tx *DexCancelTx) CheckTx(ctx *Context) error {
	acc, err := ctx.checkSignedTx(tx)
	if err != nil {
		return err
	}
	order, err := ctx.Dex.GetActiveOrder(ctx.Ctx, tx.OrderID)
	if err != nil {
		return err
	}
	if order.OwnerRegID != acc.RegID {
		return dextypes.ErrNotOrderOwner.Wrapf("order owner=%s, signer=%s", order.OwnerRegID, acc.RegID)
	}
	return nil
}

func (tx *DexCancelTx) ExecuteTx(ctx *Context) error {
	owner, err := ctx.beginExecute(tx)
	if err != nil {
		return err
	}
	receipts, err := ctx.Dex.CancelOrder(ctx.Ctx, owner, tx.OrderID)
	if err != nil {
		return err
	}
	ctx.AddReceipts(receipts...)
	return nil
}
