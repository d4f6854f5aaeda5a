package txs

import (
	dextypes "github.com/perch-chain/perch/x/dex/types"
	ledgertypes "github.com/perch-chain/perch/x/ledger/types"
)

// DexOperatorRegisterTx registers a new exchange operator.
type DexOperatorRegisterTx struct {
	BaseTx
	OwnerRegID    ledgertypes.RegID `json:"owner_reg_id"`
	MatcherRegID  ledgertypes.RegID `json:"matcher_reg_id"`
	Name          string            `json:"name"`
	Portal        string            `json:"portal,omitempty"`
	MakerFeeRatio uint64            `json:"maker_fee_ratio"`
	TakerFeeRatio uint64            `json:"taker_fee_ratio"`
	Memo          string            `json:"memo,omitempty"`
}

func (tx *DexOperatorRegisterTx) Kind() Kind    { return KindDexOperatorRegister }
func (tx *DexOperatorRegisterTx) Base() *BaseTx { return &tx.BaseTx }

func (tx *DexOperatorRegisterTx) ValidateBasic() error {
	if err := tx.validateBase(); err != nil {
		return err
	}
	if tx.OwnerRegID.IsEmpty() || tx.MatcherRegID.IsEmpty() {
		return dextypes.ErrInvalidOperatorField.Wrap("empty owner or matcher regid")
	}
	if tx.Name == "" {
		return dextypes.ErrInvalidOperatorField.Wrap("empty operator name")
	}
	if len(tx.Memo) > MaxMemoLen {
		return ErrMemoTooLong.Wrapf("len=%d, max=%d", len(tx.Memo), MaxMemoLen)
	}
	return nil
}

func (tx *DexOperatorRegisterTx) SignBytes() []byte {
	c := *tx
	c.Signature = nil
	return signBytes(KindDexOperatorRegister, &c)
}

func (tx *DexOperatorRegisterTx) CheckTx(ctx *Context) error {
	acc, err := ctx.checkSignedTx(tx)
	if err != nil {
		return err
	}
	if !acc.IsRegistered() {
		return ErrUnregistered.Wrapf("signer=%s", tx.Signer)
	}
	existing, err := ctx.Dex.GetOperatorByOwner(ctx.Ctx, tx.OwnerRegID)
	if err != nil {
		return err
	}
	if existing != nil {
		return dextypes.ErrOperatorExists.Wrapf("owner=%s, operator=%d", tx.OwnerRegID, existing.ID)
	}
	return nil
}

func (tx *DexOperatorRegisterTx) ExecuteTx(ctx *Context) error {
	registrant, err := ctx.beginExecute(tx)
	if err != nil {
		return err
	}
	detail := dextypes.OperatorDetail{
		OwnerRegID:    tx.OwnerRegID,
		MatcherRegID:  tx.MatcherRegID,
		Name:          tx.Name,
		Portal:        tx.Portal,
		MakerFeeRatio: tx.MakerFeeRatio,
		TakerFeeRatio: tx.TakerFeeRatio,
		Memo:          tx.Memo,
	}
	_, receipts, err := ctx.Dex.RegisterOperator(ctx.Ctx, ctx.Height, registrant, detail)
	if err != nil {
		return err
	}
	ctx.AddReceipts(receipts...)
	return nil
}

// DexOperatorUpdateTx replaces operator fields addressed by update keys.
type DexOperatorUpdateTx struct {
	BaseTx
	OperatorID uint64                    `json:"operator_id"`
	Updates    []dextypes.OperatorUpdate `json:"updates"`
}

func (tx *DexOperatorUpdateTx) Kind() Kind    { return KindDexOperatorUpdate }
func (tx *DexOperatorUpdateTx) Base() *BaseTx { return &tx.BaseTx }

func (tx *DexOperatorUpdateTx) ValidateBasic() error {
	if err := tx.validateBase(); err != nil {
		return err
	}
	if len(tx.Updates) == 0 {
		return dextypes.ErrInvalidOperatorField.Wrap("no updates")
	}
	for _, u := range tx.Updates {
		if u.Key == dextypes.OperatorUpdateNone || u.Key > dextypes.OperatorUpdateMemo {
			return dextypes.ErrInvalidOperatorField.Wrapf("unknown update key %d", u.Key)
		}
	}
	return nil
}

func (tx *DexOperatorUpdateTx) SignBytes() []byte {
	c := *tx
	c.Signature = nil
	return signBytes(KindDexOperatorUpdate, &c)
}

func (tx *DexOperatorUpdateTx) CheckTx(ctx *Context) error {
	acc, err := ctx.checkSignedTx(tx)
	if err != nil {
		return err
	}
	op, err := ctx.Dex.GetOperator(ctx.Ctx, tx.OperatorID)
	if err != nil {
		return err
	}
	if op.OwnerRegID != acc.RegID {
		return dextypes.ErrInvalidOperatorField.Wrapf("operator owner=%s, signer=%s", op.OwnerRegID, acc.RegID)
	}
	return nil
}

func (tx *DexOperatorUpdateTx) ExecuteTx(ctx *Context) error {
	registrant, err := ctx.beginExecute(tx)
	if err != nil {
		return err
	}
	receipts, err := ctx.Dex.UpdateOperator(ctx.Ctx, ctx.Height, registrant, tx.OperatorID, tx.Updates)
	if err != nil {
		return err
	}
	ctx.AddReceipts(receipts...)
	return nil
}
