package txs

import (
	sysparamtypes "github.com/perch-chain/perch/x/sysparam/types"
)

// AccountRegisterTx assigns the signer a permanent regid at the current
// block coordinate. The signer must address itself by public key since no
// regid exists yet.
type AccountRegisterTx struct {
	BaseTx
}

func (tx *AccountRegisterTx) Kind() Kind    { return KindAccountRegister }
func (tx *AccountRegisterTx) Base() *BaseTx { return &tx.BaseTx }

func (tx *AccountRegisterTx) ValidateBasic() error {
	if err := tx.validateBase(); err != nil {
		return err
	}
	if !tx.Signer.IsPubKey() {
		return ErrInvalidSigner.Wrap("registration requires a pubkey signer")
	}
	return nil
}

func (tx *AccountRegisterTx) SignBytes() []byte {
	c := *tx
	c.Signature = nil
	return signBytes(KindAccountRegister, &c)
}

func (tx *AccountRegisterTx) CheckTx(ctx *Context) error {
	minFee, err := ctx.Sysparam.MustGetParam(ctx.Ctx, sysparamtypes.AccountRegisterFee)
	if err != nil {
		return err
	}
	if tx.Fee < minFee {
		return ErrInvalidFee.Wrapf("fee=%d, min=%d", tx.Fee, minFee)
	}
	addr := AddressFromPubKey(tx.Signer.PubKey)
	acc := ctx.Ledger.GetOrNewAccount(ctx.Ctx, addr)
	if acc.IsRegistered() {
		return ErrInvalidSigner.Wrapf("account %s already registered as %s", addr, acc.RegID)
	}
	if !verifySignature(tx.Signer.PubKey, tx.SignBytes(), tx.Signature) {
		return ErrBadSignature.Wrapf("signer=%s", tx.Signer)
	}
	return nil
}

func (tx *AccountRegisterTx) ExecuteTx(ctx *Context) error {
	if err := tx.CheckTx(ctx); err != nil {
		return err
	}
	addr := AddressFromPubKey(tx.Signer.PubKey)
	acc := ctx.Ledger.GetOrNewAccount(ctx.Ctx, addr)
	acc.PubKey = tx.Signer.PubKey

	if err := ctx.deductFee(acc, &tx.BaseTx); err != nil {
		return err
	}
	ctx.Ledger.AssignRegID(ctx.Ctx, acc, ctx.Height, ctx.Index)
	return ctx.Ledger.SetAccount(ctx.Ctx, acc)
}
