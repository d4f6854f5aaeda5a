package app

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	assettypes "github.com/perch-chain/perch/x/asset/types"
	ledgertypes "github.com/perch-chain/perch/x/ledger/types"
)

// GenesisAccount seeds one account at height zero. RegIDs of genesis
// accounts use height 0 with a nonzero index.
type GenesisAccount struct {
	KeyID    sdk.AccAddress
	PubKey   []byte
	RegID    ledgertypes.RegID
	Balances []ledgertypes.TokenBalance
	Name     string // optional well-known system account name
	Delegate bool
}

// Genesis is the chain's initial state.
type Genesis struct {
	Params       map[string]uint64
	Accounts     []GenesisAccount
	Assets       []assettypes.Asset
	TradingPairs []assettypes.TradingPair
}

// DefaultGenesis seeds the chain-native assets and the base trading pairs.
// Accounts must be supplied by the caller.
func DefaultGenesis() Genesis {
	return Genesis{
		Params: map[string]uint64{},
		Assets: []assettypes.Asset{
			{Symbol: assettypes.BaseCoin, Name: "Perch Coin", Mintable: false, TotalSupply: 210_000_000 * assettypes.Coin},
			{Symbol: assettypes.StableCoin, Name: "Perch USD", Mintable: true, TotalSupply: 0},
			{Symbol: assettypes.GovCoin, Name: "Perch Governance Coin", Mintable: false, TotalSupply: 21_000_000 * assettypes.Coin},
		},
		TradingPairs: []assettypes.TradingPair{
			{AssetSymbol: assettypes.BaseCoin, CoinSymbol: assettypes.StableCoin},
			{AssetSymbol: assettypes.GovCoin, CoinSymbol: assettypes.StableCoin},
			{AssetSymbol: assettypes.GovCoin, CoinSymbol: assettypes.BaseCoin},
		},
	}
}

// InitGenesis writes the initial state and commits height zero.
func (a *ChainApp) InitGenesis(genesis Genesis) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.height != 0 {
		return fmt.Errorf("genesis after height %d", a.height)
	}

	ctx := a.newContext(0)

	for name, value := range genesis.Params {
		a.keepers.Sysparam.SetParam(ctx, name, value)
	}

	for i := range genesis.Assets {
		if err := a.keepers.Asset.SetAsset(ctx, &genesis.Assets[i]); err != nil {
			return err
		}
	}
	for _, pair := range genesis.TradingPairs {
		a.keepers.Asset.RegisterTradingPair(ctx, pair.AssetSymbol, pair.CoinSymbol)
	}

	var delegates []ledgertypes.RegID
	for _, ga := range genesis.Accounts {
		if ga.RegID.IsEmpty() {
			return fmt.Errorf("genesis account %s without regid", ga.KeyID)
		}
		acc := &ledgertypes.Account{
			KeyID:    ga.KeyID,
			RegID:    ga.RegID,
			PubKey:   ga.PubKey,
			Balances: ga.Balances,
		}
		if err := a.keepers.Ledger.SetAccount(ctx, acc); err != nil {
			return err
		}
		if ga.Name != "" {
			a.keepers.Ledger.SetNamedAccount(ctx, ga.Name, ga.RegID)
		}
		if ga.Delegate {
			delegates = append(delegates, ga.RegID)
		}
	}
	if len(delegates) > 0 {
		if err := a.keepers.Delegates.SetActiveDelegates(ctx, delegates); err != nil {
			return err
		}
	}

	a.cms.Commit()
	a.logger.Info("genesis initialized", "accounts", len(genesis.Accounts),
		"assets", len(genesis.Assets), "delegates", len(delegates))
	return nil
}
