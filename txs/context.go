package txs

import (
	"context"

	"cosmossdk.io/log"

	assetkeeper "github.com/perch-chain/perch/x/asset/keeper"
	cdpkeeper "github.com/perch-chain/perch/x/cdp/keeper"
	delegatekeeper "github.com/perch-chain/perch/x/delegate/keeper"
	dexkeeper "github.com/perch-chain/perch/x/dex/keeper"
	ledgerkeeper "github.com/perch-chain/perch/x/ledger/keeper"
	ledgertypes "github.com/perch-chain/perch/x/ledger/types"
	oraclekeeper "github.com/perch-chain/perch/x/oracle/keeper"
	sysparamkeeper "github.com/perch-chain/perch/x/sysparam/keeper"
)

// Keepers bundles every module keeper a transaction may touch.
type Keepers struct {
	Ledger    ledgerkeeper.Keeper
	Asset     assetkeeper.Keeper
	Cdp       cdpkeeper.Keeper
	Dex       dexkeeper.Keeper
	Oracle    oraclekeeper.Keeper
	Sysparam  sysparamkeeper.Keeper
	Delegates delegatekeeper.Keeper
}

// Context carries everything CheckTx and ExecuteTx need: the store context
// (an overlay during execution), the block coordinate, the keepers, and the
// receipts accumulated so far. There are no ambient globals.
type Context struct {
	Ctx    context.Context
	Height int64
	Index  uint16
	TxID   []byte
	Logger log.Logger

	Keepers

	// Receipts collected during ExecuteTx, written to the audit log by the
	// block executor after the transaction succeeds.
	Receipts []ledgertypes.Receipt

	// FeeCollected is the fee deducted by this transaction, credited to the
	// block proposer when the block commits.
	FeeCollected uint64
}

// NewContext builds an execution context at a block coordinate.
func NewContext(ctx context.Context, height int64, index uint16, txid []byte, keepers Keepers, logger log.Logger) *Context {
	return &Context{
		Ctx:     ctx,
		Height:  height,
		Index:   index,
		TxID:    txid,
		Logger:  logger,
		Keepers: keepers,
	}
}

// AddReceipts appends receipts from an engine operation.
func (c *Context) AddReceipts(receipts ...ledgertypes.Receipt) {
	c.Receipts = append(c.Receipts, receipts...)
}
