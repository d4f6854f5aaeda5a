package txs

import (
	assettypes "github.com/perch-chain/perch/x/asset/types"
	oracletypes "github.com/perch-chain/perch/x/oracle/types"
)

// MaxPricePointsPerFeed bounds one submission.
const MaxPricePointsPerFeed = 10

// PriceFeedTx submits price points for one or more pairs. Only active
// delegates may feed.
type PriceFeedTx struct {
	BaseTx
	Prices []oracletypes.PricePoint `json:"prices"`
}

func (tx *PriceFeedTx) Kind() Kind    { return KindPriceFeed }
func (tx *PriceFeedTx) Base() *BaseTx { return &tx.BaseTx }

func (tx *PriceFeedTx) ValidateBasic() error {
	if err := tx.validateBase(); err != nil {
		return err
	}
	if len(tx.Prices) == 0 || len(tx.Prices) > MaxPricePointsPerFeed {
		return ErrInvalidPayload.Wrapf("price points=%d", len(tx.Prices))
	}
	for _, p := range tx.Prices {
		if err := assettypes.ValidateSymbol(p.AssetSymbol); err != nil {
			return err
		}
		if err := assettypes.ValidateSymbol(p.CoinSymbol); err != nil {
			return err
		}
		if p.Price == 0 {
			return oracletypes.ErrInvalidPrice.Wrapf("pair=%s:%s", p.AssetSymbol, p.CoinSymbol)
		}
	}
	return nil
}

func (tx *PriceFeedTx) SignBytes() []byte {
	c := *tx
	c.Signature = nil
	return signBytes(KindPriceFeed, &c)
}

func (tx *PriceFeedTx) CheckTx(ctx *Context) error {
	acc, err := ctx.checkSignedTx(tx)
	if err != nil {
		return err
	}
	if !ctx.Delegates.IsActiveDelegate(ctx.Ctx, acc.RegID) {
		return oracletypes.ErrFeederNotAllowed.Wrapf("feeder=%s", acc.RegID)
	}
	return nil
}

func (tx *PriceFeedTx) ExecuteTx(ctx *Context) error {
	feeder, err := ctx.beginExecute(tx)
	if err != nil {
		return err
	}
	if !ctx.Delegates.IsActiveDelegate(ctx.Ctx, feeder.RegID) {
		return oracletypes.ErrFeederNotAllowed.Wrapf("feeder=%s", feeder.RegID)
	}
	for _, p := range tx.Prices {
		if err := ctx.Oracle.SetFeedPrice(ctx.Ctx, feeder.RegID, p.AssetSymbol, p.CoinSymbol, p.Price, ctx.Height); err != nil {
			return err
		}
	}
	return ctx.Ledger.SetAccount(ctx.Ctx, feeder)
}
