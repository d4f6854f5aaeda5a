package txs

import (
	assettypes "github.com/perch-chain/perch/x/asset/types"
	ledgertypes "github.com/perch-chain/perch/x/ledger/types"
)

// BlockRewardTx credits the block reward to the proposer. It is generated
// by the chain itself as the first transaction of a block and carries no
// signature or fee.
type BlockRewardTx struct {
	BaseTx
	MinerRegID ledgertypes.RegID `json:"miner_reg_id"`
	Reward     uint64            `json:"reward"`
}

func (tx *BlockRewardTx) Kind() Kind     { return KindBlockReward }
func (tx *BlockRewardTx) Base() *BaseTx  { return &tx.BaseTx }

func (tx *BlockRewardTx) ValidateBasic() error {
	if tx.Version != CurrentTxVersion {
		return ErrInvalidVersion.Wrapf("version=%d", tx.Version)
	}
	if tx.MinerRegID.IsEmpty() {
		return ErrInvalidSigner.Wrap("empty miner regid")
	}
	if tx.Fee != 0 {
		return ErrInvalidFee.Wrap("reward transaction carries no fee")
	}
	return nil
}

func (tx *BlockRewardTx) SignBytes() []byte {
	c := *tx
	c.Signature = nil
	return signBytes(KindBlockReward, &c)
}

func (tx *BlockRewardTx) CheckTx(ctx *Context) error {
	if ctx.Index != 0 {
		return ErrInvalidPayload.Wrapf("reward transaction at index %d", ctx.Index)
	}
	if _, err := ctx.Ledger.GetAccountByRegID(ctx.Ctx, tx.MinerRegID); err != nil {
		return err
	}
	return nil
}

func (tx *BlockRewardTx) ExecuteTx(ctx *Context) error {
	miner, err := ctx.Ledger.GetAccountByRegID(ctx.Ctx, tx.MinerRegID)
	if err != nil {
		return err
	}
	if !miner.OperateBalance(assettypes.BaseCoin, ledgertypes.AddFree, tx.Reward) {
		return ErrInvalidPayload.Wrap("reward credit overflow")
	}
	if err := ctx.Ledger.SetAccount(ctx.Ctx, miner); err != nil {
		return err
	}
	ctx.AddReceipts(ledgertypes.NewReceipt(ledgertypes.RegID{}, tx.MinerRegID,
		assettypes.BaseCoin, tx.Reward, ledgertypes.BlockRewardToMiner))
	return nil
}
