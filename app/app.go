package app

import (
	"fmt"
	"sync"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	storemetrics "cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/hashicorp/go-metrics"

	"github.com/perch-chain/perch/txs"
	assetkeeper "github.com/perch-chain/perch/x/asset/keeper"
	assettypes "github.com/perch-chain/perch/x/asset/types"
	cdpkeeper "github.com/perch-chain/perch/x/cdp/keeper"
	cdptypes "github.com/perch-chain/perch/x/cdp/types"
	delegatekeeper "github.com/perch-chain/perch/x/delegate/keeper"
	delegatetypes "github.com/perch-chain/perch/x/delegate/types"
	dexkeeper "github.com/perch-chain/perch/x/dex/keeper"
	dextypes "github.com/perch-chain/perch/x/dex/types"
	ledgerkeeper "github.com/perch-chain/perch/x/ledger/keeper"
	ledgertypes "github.com/perch-chain/perch/x/ledger/types"
	oraclekeeper "github.com/perch-chain/perch/x/oracle/keeper"
	oracletypes "github.com/perch-chain/perch/x/oracle/types"
	sysparamkeeper "github.com/perch-chain/perch/x/sysparam/keeper"
	sysparamtypes "github.com/perch-chain/perch/x/sysparam/types"
)

// ChainApp wires the module keepers onto one commit multistore and executes
// blocks sequentially. State mutation is single-writer: every block (and
// every mempool admission check) runs under the same lock, because partial
// interleaving of balance changes would break conservation invariants.
type ChainApp struct {
	mu sync.Mutex

	logger  log.Logger
	db      dbm.DB
	cms     storetypes.CommitMultiStore
	cdc     *codec.LegacyAmino
	keys    map[string]*storetypes.KVStoreKey
	keepers txs.Keepers

	height int64
}

// storeNames lists one KVStore per module.
var storeNames = []string{
	ledgertypes.ModuleName,
	assettypes.ModuleName,
	oracletypes.ModuleName,
	cdptypes.ModuleName,
	dextypes.ModuleName,
	sysparamtypes.ModuleName,
	delegatetypes.ModuleName,
}

// NewChainApp builds an app on an in-memory database.
func NewChainApp(logger log.Logger) (*ChainApp, error) {
	db := dbm.NewMemDB()
	cms := store.NewCommitMultiStore(db, logger, storemetrics.NewNoOpMetrics())

	keys := make(map[string]*storetypes.KVStoreKey, len(storeNames))
	for _, name := range storeNames {
		key := storetypes.NewKVStoreKey(name)
		keys[name] = key
		cms.MountStoreWithDB(key, storetypes.StoreTypeIAVL, nil)
	}
	if err := cms.LoadLatestVersion(); err != nil {
		return nil, fmt.Errorf("load multistore: %w", err)
	}

	cdc := codec.NewLegacyAmino()
	ledgerK := ledgerkeeper.NewKeeper(cdc, keys[ledgertypes.ModuleName], logger)
	assetK := assetkeeper.NewKeeper(cdc, keys[assettypes.ModuleName], logger)
	oracleK := oraclekeeper.NewKeeper(keys[oracletypes.ModuleName], logger)
	sysparamK := sysparamkeeper.NewKeeper(keys[sysparamtypes.ModuleName], logger)
	delegateK := delegatekeeper.NewKeeper(cdc, keys[delegatetypes.ModuleName], logger)
	cdpK := cdpkeeper.NewKeeper(cdc, keys[cdptypes.ModuleName], logger, ledgerK, assetK, oracleK, sysparamK)
	dexK := dexkeeper.NewKeeper(cdc, keys[dextypes.ModuleName], logger, ledgerK, assetK, sysparamK, delegateK)

	return &ChainApp{
		logger: logger.With("module", "app"),
		db:     db,
		cms:    cms,
		cdc:    cdc,
		keys:   keys,
		keepers: txs.Keepers{
			Ledger:    ledgerK,
			Asset:     assetK,
			Cdp:       cdpK,
			Dex:       dexK,
			Oracle:    oracleK,
			Sysparam:  sysparamK,
			Delegates: delegateK,
		},
	}, nil
}

// Keepers exposes the wired keepers, mainly for queries and tests.
func (a *ChainApp) Keepers() txs.Keepers {
	return a.keepers
}

// QueryContext returns a read-only context over committed state at the
// current height. Writes made through it are never committed.
func (a *ChainApp) QueryContext() sdk.Context {
	a.mu.Lock()
	defer a.mu.Unlock()
	ctx, _ := a.newContext(a.height).CacheContext()
	return ctx
}

// Height returns the last committed block height.
func (a *ChainApp) Height() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.height
}

func (a *ChainApp) newContext(height int64) sdk.Context {
	return sdk.NewContext(a.cms, cmtproto.Header{Height: height}, false, a.logger)
}

// TxResult reports one transaction's outcome within a block.
type TxResult struct {
	TxID     []byte
	Kind     txs.Kind
	OK       bool
	Err      error
	Receipts int
}

// BlockResult reports a delivered block.
type BlockResult struct {
	Height    int64
	TxResults []TxResult
	FeeTotal  uint64
}

// DeliverBlock executes a block's transactions strictly in order. Each
// transaction runs against its own overlay of the block state; a failing
// transaction discards only its own writes. Collected fees are credited to
// the proposer before the block commits.
func (a *ChainApp) DeliverBlock(proposer ledgertypes.RegID, transactions []txs.Tx) (*BlockResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	height := a.height + 1
	baseCtx := a.newContext(height)
	result := &BlockResult{Height: height}

	for i, tx := range transactions {
		txid := txs.TxID(tx)
		res := TxResult{TxID: txid, Kind: tx.Kind()}

		if err := a.runTx(baseCtx, height, uint16(i), txid, tx, result, &res); err != nil {
			res.OK = false
			res.Err = err
			metrics.IncrCounter([]string{"app", "tx_failed"}, 1)
			a.logger.Info("tx rejected", "height", height, "index", i,
				"kind", tx.Kind().String(), "err", err)
		} else {
			res.OK = true
			metrics.IncrCounter([]string{"app", "tx_executed"}, 1)
		}
		result.TxResults = append(result.TxResults, res)
	}

	if result.FeeTotal > 0 {
		if err := a.creditFees(baseCtx, proposer, result.FeeTotal); err != nil {
			return nil, err
		}
	}

	a.cms.Commit()
	a.height = height
	metrics.SetGauge([]string{"app", "block_height"}, float32(height))
	a.logger.Info("block committed", "height", height,
		"txs", len(transactions), "fees", result.FeeTotal)
	return result, nil
}

// runTx validates and executes one transaction against a fresh overlay.
// The overlay is written through only when everything, receipts included,
// succeeded.
func (a *ChainApp) runTx(baseCtx sdk.Context, height int64, index uint16, txid []byte, tx txs.Tx, block *BlockResult, res *TxResult) error {
	if err := tx.ValidateBasic(); err != nil {
		return err
	}
	cacheCtx, write := baseCtx.CacheContext()
	ectx := txs.NewContext(cacheCtx, height, index, txid, a.keepers, a.logger)

	if err := tx.CheckTx(ectx); err != nil {
		return err
	}
	if err := tx.ExecuteTx(ectx); err != nil {
		return err
	}
	if err := a.keepers.Ledger.SetTxReceipts(cacheCtx, txid, ectx.Receipts); err != nil {
		return err
	}
	write()
	block.FeeTotal += ectx.FeeCollected
	res.Receipts = len(ectx.Receipts)
	return nil
}

// CheckTx runs mempool admission against a throwaway overlay of the next
// block's state.
func (a *ChainApp) CheckTx(tx txs.Tx) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := tx.ValidateBasic(); err != nil {
		return err
	}
	baseCtx := a.newContext(a.height + 1)
	cacheCtx, _ := baseCtx.CacheContext()
	ectx := txs.NewContext(cacheCtx, a.height+1, 0, txs.TxID(tx), a.keepers, a.logger)
	return tx.CheckTx(ectx)
}

func (a *ChainApp) creditFees(ctx sdk.Context, proposer ledgertypes.RegID, amount uint64) error {
	acc, err := a.keepers.Ledger.GetAccountByRegID(ctx, proposer)
	if err != nil {
		return err
	}
	if !acc.OperateBalance(assettypes.BaseCoin, ledgertypes.AddFree, amount) {
		return fmt.Errorf("fee credit overflow for proposer %s", proposer)
	}
	return a.keepers.Ledger.SetAccount(ctx, acc)
}
