package types

import (
	"context"

	ledgertypes "github.com/perch-chain/perch/x/ledger/types"
)

// LedgerKeeper is the account-ledger surface the DEX engine consumes.
type LedgerKeeper interface {
	GetAccountByRegID(ctx context.Context, regID ledgertypes.RegID) (*ledgertypes.Account, error)
	SetAccount(ctx context.Context, acc *ledgertypes.Account) error
	GetNamedAccount(ctx context.Context, name string) (ledgertypes.RegID, error)
}

// AssetKeeper validates trading pairs and symbols.
type AssetKeeper interface {
	HasAsset(ctx context.Context, symbol string) bool
	HasTradingPair(ctx context.Context, assetSymbol, coinSymbol string) bool
}

// ParamKeeper serves chain configuration values.
type ParamKeeper interface {
	GetParam(ctx context.Context, name string) (uint64, bool)
	MustGetParam(ctx context.Context, name string) (uint64, error)
}

// DelegateKeeper supplies the active set for fee distribution.
type DelegateKeeper interface {
	GetActiveDelegates(ctx context.Context) ([]ledgertypes.RegID, error)
}
