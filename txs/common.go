package txs

import (
	"cosmossdk.io/math"

	assettypes "github.com/perch-chain/perch/x/asset/types"
	ledgertypes "github.com/perch-chain/perch/x/ledger/types"
	sysparamtypes "github.com/perch-chain/perch/x/sysparam/types"
)

// validateBase runs the stateless checks shared by every signed kind.
func (b *BaseTx) validateBase() error {
	if b.Version != CurrentTxVersion {
		return ErrInvalidVersion.Wrapf("version=%d", b.Version)
	}
	if b.ValidHeight < 0 {
		return ErrInvalidHeight.Wrapf("valid_height=%d", b.ValidHeight)
	}
	if b.FeeSymbol != assettypes.BaseCoin {
		return ErrInvalidFee.Wrapf("fee symbol %s not accepted", b.FeeSymbol)
	}
	if b.Signer.IsEmpty() {
		return ErrInvalidSigner.Wrap("empty signer")
	}
	if len(b.Signature) == 0 {
		return ErrBadSignature.Wrap("missing signature")
	}
	return nil
}

// resolveSigner loads the signer's account. A regid signer must resolve
// through the index; a pubkey signer resolves by derived address.
func (c *Context) resolveSigner(b *BaseTx) (*ledgertypes.Account, error) {
	if b.Signer.IsRegID() {
		return c.Ledger.GetAccountByRegID(c.Ctx, b.Signer.RegID)
	}
	acc, err := c.Ledger.GetAccount(c.Ctx, AddressFromPubKey(b.Signer.PubKey))
	if err != nil {
		return nil, ErrSignerNotFound.Wrapf("signer=%s", b.Signer)
	}
	return acc, nil
}

// checkSignedTx runs the stateful checks shared by every signed kind: the
// signer resolves, the fee clears the minimum, and the signature verifies
// over the sign bytes. It returns the loaded signer account.
func (c *Context) checkSignedTx(tx Tx) (*ledgertypes.Account, error) {
	b := tx.Base()
	minFee, err := c.Sysparam.MustGetParam(c.Ctx, sysparamtypes.MinTxFee)
	if err != nil {
		return nil, err
	}
	if b.Fee < minFee {
		return nil, ErrInvalidFee.Wrapf("fee=%d, min=%d", b.Fee, minFee)
	}

	acc, err := c.resolveSigner(b)
	if err != nil {
		return nil, err
	}

	pubKey := b.Signer.PubKey
	if len(pubKey) == 0 {
		pubKey = acc.PubKey
	}
	if !verifySignature(pubKey, tx.SignBytes(), b.Signature) {
		return nil, ErrBadSignature.Wrapf("signer=%s", b.Signer)
	}
	return acc, nil
}

// deductFee subtracts the transaction fee from the signer and records it
// for the block proposer. The account is not persisted here.
func (c *Context) deductFee(acc *ledgertypes.Account, b *BaseTx) error {
	if !acc.OperateBalance(b.FeeSymbol, ledgertypes.SubFree, b.Fee) {
		return ErrInvalidFee.Wrapf("insufficient %s for fee %d, free=%d",
			b.FeeSymbol, b.Fee, acc.GetFree(b.FeeSymbol))
	}
	c.FeeCollected = b.Fee
	return nil
}

// beginExecute bundles the shared prologue of ExecuteTx: revalidate the
// signature and fee, then deduct the fee from the signer.
func (c *Context) beginExecute(tx Tx) (*ledgertypes.Account, error) {
	acc, err := c.checkSignedTx(tx)
	if err != nil {
		return nil, err
	}
	if err := c.deductFee(acc, tx.Base()); err != nil {
		return nil, err
	}
	return acc, nil
}

// distributeFee splits an operation fee already deducted from the payer:
// the risk-reserve ratio to the reserve account, the remainder divided
// evenly across the active delegates with division dust to the first.
func (c *Context) distributeFee(
	payer *ledgertypes.Account,
	symbol string,
	amount uint64,
	reserveCode, delegateCode ledgertypes.ReceiptCode,
) error {
	if amount == 0 {
		return nil
	}
	riskRatio, err := c.Sysparam.MustGetParam(c.Ctx, sysparamtypes.RiskFeeRatio)
	if err != nil {
		return err
	}
	// a risk ratio at or above the base scale routes the whole amount to the
	// reserve; computing first would underflow the delegate remainder
	riskAmount := amount
	if riskRatio < assettypes.RatioBaseBoost {
		riskAmount = math.NewIntFromUint64(amount).
			Mul(math.NewIntFromUint64(riskRatio)).
			Quo(math.NewIntFromUint64(assettypes.RatioBaseBoost)).Uint64()
	}

	riskRegID, err := c.Ledger.GetNamedAccount(c.Ctx, ledgertypes.RiskReserveAccount)
	if err != nil {
		return err
	}
	if riskAmount > 0 {
		riskAcc, err := c.Ledger.GetAccountByRegID(c.Ctx, riskRegID)
		if err != nil {
			return err
		}
		if !riskAcc.OperateBalance(symbol, ledgertypes.AddFree, riskAmount) {
			return ErrInvalidFee.Wrap("risk reserve credit overflow")
		}
		if err := c.Ledger.SetAccount(c.Ctx, riskAcc); err != nil {
			return err
		}
		c.AddReceipts(ledgertypes.NewReceipt(payer.RegID, riskRegID, symbol, riskAmount, reserveCode))
	}

	remainder := amount - riskAmount
	if remainder == 0 {
		return nil
	}
	delegates, err := c.Delegates.GetActiveDelegates(c.Ctx)
	if err != nil {
		return err
	}
	share := remainder / uint64(len(delegates))
	dust := remainder % uint64(len(delegates))
	for i, regID := range delegates {
		cut := share
		if i == 0 {
			cut += dust
		}
		if cut == 0 {
			continue
		}
		acc, err := c.Ledger.GetAccountByRegID(c.Ctx, regID)
		if err != nil {
			return err
		}
		if !acc.OperateBalance(symbol, ledgertypes.AddFree, cut) {
			return ErrInvalidFee.Wrap("delegate credit overflow")
		}
		if err := c.Ledger.SetAccount(c.Ctx, acc); err != nil {
			return err
		}
		c.AddReceipts(ledgertypes.NewReceipt(payer.RegID, regID, symbol, cut, delegateCode))
	}
	return nil
}
