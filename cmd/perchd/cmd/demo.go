package cmd

import (
	"fmt"

	"github.com/cometbft/cometbft/crypto/secp256k1"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"

	"github.com/perch-chain/perch/app"
	"github.com/perch-chain/perch/txs"
	assettypes "github.com/perch-chain/perch/x/asset/types"
	dextypes "github.com/perch-chain/perch/x/dex/types"
	ledgertypes "github.com/perch-chain/perch/x/ledger/types"
	oracletypes "github.com/perch-chain/perch/x/oracle/types"
)

// demoAccount bundles a generated key with its genesis regid.
type demoAccount struct {
	priv  secp256k1.PrivKey
	regID ledgertypes.RegID
}

func (d demoAccount) keyID() sdk.AccAddress {
	return sdk.AccAddress(d.priv.PubKey().Address())
}

func (d demoAccount) sign(tx txs.Tx) txs.Tx {
	sig, err := d.priv.Sign(tx.SignBytes())
	if err != nil {
		panic(err)
	}
	tx.Base().Signature = sig
	return tx
}

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run an in-memory end-to-end flow: price feed, CDP stake, DEX trade",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDemo(cmd)
		},
	}
}

func runDemo(cmd *cobra.Command) error {
	logger := newLogger()
	chain, err := app.NewChainApp(logger)
	if err != nil {
		return err
	}

	newAcc := func(index uint16) demoAccount {
		return demoAccount{priv: secp256k1.GenPrivKey(), regID: ledgertypes.NewRegID(0, index)}
	}
	delegate := newAcc(1)
	reserve := newAcc(2)
	matcher := newAcc(3)
	alice := newAcc(4)
	bob := newAcc(5)

	genesis := app.DefaultGenesis()
	perc := func(n uint64) uint64 { return n * assettypes.Coin }
	genesis.Accounts = []app.GenesisAccount{
		{KeyID: delegate.keyID(), PubKey: delegate.priv.PubKey().Bytes(), RegID: delegate.regID,
			Balances: []ledgertypes.TokenBalance{{Symbol: assettypes.BaseCoin, Free: perc(1000)}}, Delegate: true},
		{KeyID: reserve.keyID(), PubKey: reserve.priv.PubKey().Bytes(), RegID: reserve.regID,
			Name: ledgertypes.RiskReserveAccount},
		{KeyID: matcher.keyID(), PubKey: matcher.priv.PubKey().Bytes(), RegID: matcher.regID,
			Name: ledgertypes.DexMatcherAccount,
			Balances: []ledgertypes.TokenBalance{{Symbol: assettypes.BaseCoin, Free: perc(100)}}},
		{KeyID: alice.keyID(), PubKey: alice.priv.PubKey().Bytes(), RegID: alice.regID,
			Balances: []ledgertypes.TokenBalance{{Symbol: assettypes.BaseCoin, Free: perc(10_000)}}},
		{KeyID: bob.keyID(), PubKey: bob.priv.PubKey().Bytes(), RegID: bob.regID,
			Balances: []ledgertypes.TokenBalance{{Symbol: assettypes.BaseCoin, Free: perc(10_000)}}},
	}
	if err := chain.InitGenesis(genesis); err != nil {
		return err
	}

	base := func(signer ledgertypes.RegID) txs.BaseTx {
		return txs.BaseTx{
			Version:   txs.CurrentTxVersion,
			FeeSymbol: assettypes.BaseCoin,
			Fee:       10_000,
			Signer:    txs.NewRegIDSigner(signer),
		}
	}
	price := 10 * assettypes.PriceBoost // 10 PUSD per PERC

	// block 1: the delegate feeds the PERC price
	feed := delegate.sign(&txs.PriceFeedTx{
		BaseTx: base(delegate.regID),
		Prices: []oracletypes.PricePoint{{
			AssetSymbol: assettypes.BaseCoin, CoinSymbol: assettypes.StableCoin, Price: price,
		}},
	})
	if err := deliver(cmd, chain, delegate.regID, feed); err != nil {
		return err
	}

	// block 2: alice opens a CDP, staking 2000 PERC to mint 300 PUSD
	stake := alice.sign(&txs.CdpStakeTx{
		BaseTx:        base(alice.regID),
		BcoinSymbol:   assettypes.BaseCoin,
		ScoinSymbol:   assettypes.StableCoin,
		BcoinsToStake: perc(2000),
		ScoinsToMint:  perc(300),
	})
	if err := deliver(cmd, chain, delegate.regID, stake); err != nil {
		return err
	}

	// block 3: alice bids 10 PERC at the feed price, bob asks the same
	buy := alice.sign(&txs.DexOrderTx{
		BaseTx:      base(alice.regID),
		OrderKind:   dextypes.LimitPrice,
		OrderSide:   dextypes.BuyOrder,
		CoinSymbol:  assettypes.StableCoin,
		AssetSymbol: assettypes.BaseCoin,
		AssetAmount: perc(10),
		Price:       price,
	})
	sell := bob.sign(&txs.DexOrderTx{
		BaseTx:      base(bob.regID),
		OrderKind:   dextypes.LimitPrice,
		OrderSide:   dextypes.SellOrder,
		CoinSymbol:  assettypes.StableCoin,
		AssetSymbol: assettypes.BaseCoin,
		AssetAmount: perc(10),
		Price:       price,
	})
	if err := deliver(cmd, chain, delegate.regID, buy, sell); err != nil {
		return err
	}

	// block 4: the matcher settles the crossed orders
	settle := matcher.sign(&txs.DexSettleTx{
		BaseTx: base(matcher.regID),
		Deals: []dextypes.DealItem{{
			BuyOrderID:      txs.TxID(buy),
			SellOrderID:     txs.TxID(sell),
			DealPrice:       price,
			DealCoinAmount:  perc(100),
			DealAssetAmount: perc(10),
		}},
	})
	if err := deliver(cmd, chain, delegate.regID, settle); err != nil {
		return err
	}

	printBalances(cmd, chain, "alice", alice.regID)
	printBalances(cmd, chain, "bob", bob.regID)
	printBalances(cmd, chain, "matcher", matcher.regID)
	return nil
}

func deliver(cmd *cobra.Command, chain *app.ChainApp, proposer ledgertypes.RegID, transactions ...txs.Tx) error {
	result, err := chain.DeliverBlock(proposer, transactions)
	if err != nil {
		return err
	}
	for _, r := range result.TxResults {
		if !r.OK {
			return fmt.Errorf("height %d: %s rejected: %w", result.Height, r.Kind, r.Err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "height %d: %s ok, txid=%X, receipts=%d\n",
			result.Height, r.Kind, r.TxID, r.Receipts)
	}
	return nil
}

func printBalances(cmd *cobra.Command, chain *app.ChainApp, name string, regID ledgertypes.RegID) {
	acc, err := chain.Keepers().Ledger.GetAccountByRegID(chain.QueryContext(), regID)
	if err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", name, err)
		return
	}
	for _, b := range acc.Balances {
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s): %s free=%d frozen=%d\n",
			name, regID, b.Symbol, b.Free, b.Frozen)
	}
}
