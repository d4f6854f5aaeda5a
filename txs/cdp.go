package txs

import (
	cdptypes "github.com/perch-chain/perch/x/cdp/types"
)

// CdpStakeTx stakes collateral and mints stablecoins against it, opening a
// new position or topping up the signer's existing one for the pair.
type CdpStakeTx struct {
	BaseTx
	CdpID         []byte `json:"cdp_id,omitempty"` // empty on first stake
	BcoinSymbol   string `json:"bcoin_symbol"`
	ScoinSymbol   string `json:"scoin_symbol"`
	BcoinsToStake uint64 `json:"bcoins_to_stake"`
	ScoinsToMint  uint64 `json:"scoins_to_mint"`
}

func (tx *CdpStakeTx) Kind() Kind    { return KindCdpStake }
func (tx *CdpStakeTx) Base() *BaseTx { return &tx.BaseTx }

func (tx *CdpStakeTx) ValidateBasic() error {
	if err := tx.validateBase(); err != nil {
		return err
	}
	if tx.BcoinsToStake == 0 && tx.ScoinsToMint == 0 {
		return ErrInvalidPayload.Wrap("nothing to stake or mint")
	}
	return nil
}

func (tx *CdpStakeTx) SignBytes() []byte {
	c := *tx
	c.Signature = nil
	return signBytes(KindCdpStake, &c)
}

func (tx *CdpStakeTx) CheckTx(ctx *Context) error {
	acc, err := ctx.checkSignedTx(tx)
	if err != nil {
		return err
	}
	if !acc.IsRegistered() {
		return ErrUnregistered.Wrapf("signer=%s", tx.Signer)
	}
	if ctx.Cdp.GetActivationStatus(ctx.Ctx, tx.BcoinSymbol) != cdptypes.Activated {
		return cdptypes.ErrCollateralNotActivated.Wrapf("symbol=%s", tx.BcoinSymbol)
	}
	if len(tx.CdpID) > 0 {
		cdp, err := ctx.Cdp.GetCdp(ctx.Ctx, tx.CdpID)
		if err != nil {
			return err
		}
		if cdp.OwnerRegID != acc.RegID {
			return cdptypes.ErrNotCdpOwner.Wrapf("cdp owner=%s, signer=%s", cdp.OwnerRegID, acc.RegID)
		}
	}
	return nil
}

func (tx *CdpStakeTx) ExecuteTx(ctx *Context) error {
	owner, err := ctx.beginExecute(tx)
	if err != nil {
		return err
	}
	if !owner.IsRegistered() {
		return ErrUnregistered.Wrapf("signer=%s", tx.Signer)
	}
	receipts, err := ctx.Cdp.StakeBcoins(ctx.Ctx, ctx.TxID, ctx.Height, owner,
		tx.BcoinSymbol, tx.ScoinSymbol, tx.BcoinsToStake, tx.ScoinsToMint)
	if err != nil {
		return err
	}
	ctx.AddReceipts(receipts...)
	return nil
}

// CdpRedeemTx repays owed stablecoins and withdraws staked collateral from
// the signer's position.
type CdpRedeemTx struct {
	BaseTx
	CdpID          []byte `json:"cdp_id"`
	ScoinsToRepay  uint64 `json:"scoins_to_repay"`
	BcoinsToRedeem uint64 `json:"bcoins_to_redeem"`
}

func (tx *CdpRedeemTx) Kind() Kind    { return KindCdpRedeem }
func (tx *CdpRedeemTx) Base() *BaseTx { return &tx.BaseTx }

func (tx *CdpRedeemTx) ValidateBasic() error {
	if err := tx.validateBase(); err != nil {
		return err
	}
	if len(tx.CdpID) == 0 {
		return ErrInvalidPayload.Wrap("empty cdp id")
	}
	if tx.ScoinsToRepay == 0 && tx.BcoinsToRedeem == 0 {
		return ErrInvalidPayload.Wrap("nothing to repay or redeem")
	}
	return nil
}

func (tx *CdpRedeemTx) SignBytes() []byte {
	c := *tx
	c.Signature = nil
	return signBytes(KindCdpRedeem, &c)
}

func (tx *CdpRedeemTx) CheckTx(ctx *Context) error {
	acc, err := ctx.checkSignedTx(tx)
	if err != nil {
		return err
	}
	cdp, err := ctx.Cdp.GetCdp(ctx.Ctx, tx.CdpID)
	if err != nil {
		return err
	}
	if cdp.OwnerRegID != acc.RegID {
		return cdptypes.ErrNotCdpOwner.Wrapf("cdp owner=%s, signer=%s", cdp.OwnerRegID, acc.RegID)
	}
	return nil
}

func (tx *CdpRedeemTx) ExecuteTx(ctx *Context) error {
	owner, err := ctx.beginExecute(tx)
	if err != nil {
		return err
	}
	receipts, err := ctx.Cdp.RedeemBcoins(ctx.Ctx, ctx.TxID, ctx.Height, owner,
		tx.CdpID, tx.ScoinsToRepay, tx.BcoinsToRedeem)
	if err != nil {
		return err
	}
	ctx.AddReceipts(receipts...)
	return nil
}

// CdpLiquidateTx lets any account repay an undercollateralized position's
// debt in exchange for discounted collateral.
type CdpLiquidateTx struct {
	BaseTx
	CdpID             []byte `json:"cdp_id"`
	ScoinsToLiquidate uint64 `json:"scoins_to_liquidate"`
}

func (tx *CdpLiquidateTx) Kind() Kind    { return KindCdpLiquidate }
func (tx *CdpLiquidateTx) Base() *BaseTx { return &tx.BaseTx }

func (tx *CdpLiquidateTx) ValidateBasic() error {
	if err := tx.validateBase(); err != nil {
		return err
	}
	if len(tx.CdpID) == 0 {
		return ErrInvalidPayload.Wrap("empty cdp id")
	}
	if tx.ScoinsToLiquidate == 0 {
		return ErrInvalidPayload.Wrap("zero liquidate amount")
	}
	return nil
}

func (tx *CdpLiquidateTx) SignBytes() []byte {
	c := *tx
	c.Signature = nil
	return signBytes(KindCdpLiquidate, &c)
}

func (tx *CdpLiquidateTx) CheckTx(ctx *Context) error {
	if _, err := ctx.Cdp.GetCdp(ctx.Ctx, tx.CdpID); err != nil {
		return err
	}
	_, err := ctx.checkSignedTx(tx)
	return err
}

func (tx *CdpLiquidateTx) ExecuteTx(ctx *Context) error {
	liquidator, err := ctx.beginExecute(tx)
	if err != nil {
		return err
	}
	receipts, err := ctx.Cdp.LiquidateCdp(ctx.Ctx, ctx.TxID, ctx.Height, liquidator,
		tx.CdpID, tx.ScoinsToLiquidate, false)
	if err != nil {
		return err
	}
	ctx.AddReceipts(receipts...)
	return nil
}
