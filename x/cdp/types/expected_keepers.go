package types

import (
	"context"

	ledgertypes "github.com/perch-chain/perch/x/ledger/types"
)

// LedgerKeeper is the account-ledger surface the CDP engine consumes.
type LedgerKeeper interface {
	GetAccountByRegID(ctx context.Context, regID ledgertypes.RegID) (*ledgertypes.Account, error)
	SetAccount(ctx context.Context, acc *ledgertypes.Account) error
	GetNamedAccount(ctx context.Context, name string) (ledgertypes.RegID, error)
}

// AssetKeeper validates symbols and tracks stablecoin supply.
type AssetKeeper interface {
	HasAsset(ctx context.Context, symbol string) bool
	AdjustSupply(ctx context.Context, symbol string, delta int64) error
}

// OracleKeeper serves the sliding-window median price.
type OracleKeeper interface {
	GetMedianPrice(ctx context.Context, height int64, window uint64, assetSymbol, coinSymbol string) (uint64, error)
}

// ParamKeeper serves chain configuration values.
type ParamKeeper interface {
	GetParam(ctx context.Context, name string) (uint64, bool)
	MustGetParam(ctx context.Context, name string) (uint64, error)
}
