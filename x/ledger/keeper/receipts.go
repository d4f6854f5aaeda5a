package keeper

import (
	"context"

	"github.com/perch-chain/perch/x/ledger/types"
)

// SetTxReceipts appends the receipt list of a transaction to the audit log.
// Receipts are written once per txid at the end of execution.
func (k Keeper) SetTxReceipts(ctx context.Context, txid []byte, receipts []types.Receipt) error {
	if len(receipts) == 0 {
		return nil
	}
	bz, err := k.cdc.Marshal(receipts)
	if err != nil {
		return types.ErrWriteAccount.Wrapf("marshal receipts for tx %X: %v", txid, err)
	}
	k.getStore(ctx).Set(types.ReceiptKey(txid), bz)
	return nil
}

// GetTxReceipts loads the receipts recorded for a transaction, nil if none.
func (k Keeper) GetTxReceipts(ctx context.Context, txid []byte) ([]types.Receipt, error) {
	bz := k.getStore(ctx).Get(types.ReceiptKey(txid))
	if bz == nil {
		return nil, nil
	}
	var receipts []types.Receipt
	if err := k.cdc.Unmarshal(bz, &receipts); err != nil {
		return nil, err
	}
	return receipts, nil
}
