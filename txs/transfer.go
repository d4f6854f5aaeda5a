package txs

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	ledgertypes "github.com/perch-chain/perch/x/ledger/types"
)

// CoinTransferTx moves free balance from the signer to a destination
// addressed by regid or by raw key id. A transfer to an unknown key id
// creates the destination account.
type CoinTransferTx struct {
	BaseTx
	ToRegID    ledgertypes.RegID `json:"to_reg_id"`
	ToKeyID    []byte            `json:"to_key_id,omitempty"`
	CoinSymbol string            `json:"coin_symbol"`
	Amount     uint64            `json:"amount"`
	Memo       string            `json:"memo,omitempty"`
}

func (tx *CoinTransferTx) Kind() Kind    { return KindCoinTransfer }
func (tx *CoinTransferTx) Base() *BaseTx { return &tx.BaseTx }

func (tx *CoinTransferTx) ValidateBasic() error {
	if err := tx.validateBase(); err != nil {
		return err
	}
	if tx.ToRegID.IsEmpty() && len(tx.ToKeyID) == 0 {
		return ErrInvalidPayload.Wrap("empty transfer destination")
	}
	if tx.Amount == 0 {
		return ErrInvalidPayload.Wrap("zero transfer amount")
	}
	if len(tx.Memo) > MaxMemoLen {
		return ErrMemoTooLong.Wrapf("len=%d, max=%d", len(tx.Memo), MaxMemoLen)
	}
	return nil
}

func (tx *CoinTransferTx) SignBytes() []byte {
	c := *tx
	c.Signature = nil
	return signBytes(KindCoinTransfer, &c)
}

func (tx *CoinTransferTx) CheckTx(ctx *Context) error {
	if !ctx.Asset.HasAsset(ctx.Ctx, tx.CoinSymbol) {
		return ErrInvalidPayload.Wrapf("unknown symbol %s", tx.CoinSymbol)
	}
	_, err := ctx.checkSignedTx(tx)
	return err
}

func (tx *CoinTransferTx) ExecuteTx(ctx *Context) error {
	if !ctx.Asset.HasAsset(ctx.Ctx, tx.CoinSymbol) {
		return ErrInvalidPayload.Wrapf("unknown symbol %s", tx.CoinSymbol)
	}
	sender, err := ctx.beginExecute(tx)
	if err != nil {
		return err
	}
	if !sender.OperateBalance(tx.CoinSymbol, ledgertypes.SubFree, tx.Amount) {
		return ErrInvalidPayload.Wrapf("insufficient %s, need=%d, free=%d",
			tx.CoinSymbol, tx.Amount, sender.GetFree(tx.CoinSymbol))
	}

	var dest *ledgertypes.Account
	if !tx.ToRegID.IsEmpty() {
		if dest, err = ctx.Ledger.GetAccountByRegID(ctx.Ctx, tx.ToRegID); err != nil {
			return err
		}
	} else {
		dest = ctx.Ledger.GetOrNewAccount(ctx.Ctx, sdk.AccAddress(tx.ToKeyID))
	}
	if dest.KeyID.Equals(sender.KeyID) {
		dest = sender
	}
	if !dest.OperateBalance(tx.CoinSymbol, ledgertypes.AddFree, tx.Amount) {
		return ErrInvalidPayload.Wrap("destination credit overflow")
	}

	if err := ctx.Ledger.SetAccount(ctx.Ctx, sender); err != nil {
		return err
	}
	if dest != sender {
		if err := ctx.Ledger.SetAccount(ctx.Ctx, dest); err != nil {
			return err
		}
	}
	ctx.AddReceipts(ledgertypes.NewReceipt(sender.RegID, dest.RegID,
		tx.CoinSymbol, tx.Amount, ledgertypes.TransferCoins))
	return nil
}
