package txs

import (
	dextypes "github.com/perch-chain/perch/x/dex/types"
)

// DexSettleTx applies a batch of matched deals submitted by an authorized
// matching service.
type DexSettleTx struct {
	BaseTx
	Deals []dextypes.DealItem `json:"deals"`
}

func (tx *DexSettleTx) Kind() Kind    { return KindDexSettle }
func (tx *DexSettleTx) Base() *BaseTx { return &tx.BaseTx }

func (tx *DexSettleTx) ValidateBasic() error {
	if err := tx.validateBase(); err != nil {
		return err
	}
	if len(tx.Deals) == 0 {
		return dextypes.ErrEmptySettleBatch
	}
	for i, d := range tx.Deals {
		if len(d.BuyOrderID) == 0 || len(d.SellOrderID) == 0 {
			return ErrInvalidPayload.Wrapf("deal[%d]: empty order id", i)
		}
		if d.DealPrice == 0 || d.DealCoinAmount == 0 || d.DealAssetAmount == 0 {
			return ErrInvalidPayload.Wrapf("deal[%d]: zero price or amount", i)
		}
	}
	return nil
}

func (tx *DexSettleTx) SignBytes() []byte {
	c := *tx
	c.Signature = nil
	return signBytes(KindDexSettle, &c)
}

func (tx *DexSettleTx) CheckTx(ctx *Context) error {
	acc, err := ctx.checkSignedTx(tx)
	if err != nil {
		return err
	}
	if !ctx.Dex.IsAuthorizedSettler(ctx.Ctx, acc.RegID) {
		return dextypes.ErrUnauthorizedSettler.Wrapf("settler=%s", acc.RegID)
	}
	return nil
}

func (tx *DexSettleTx) ExecuteTx(ctx *Context) error {
	settler, err := ctx.beginExecute(tx)
	if err != nil {
		return err
	}
	receipts, err := ctx.Dex.SettleOrders(ctx.Ctx, ctx.TxID, ctx.Height, settler, tx.Deals)
	if err != nil {
		return err
	}
	ctx.AddReceipts(receipts...)
	return nil
}
