package types

import "github.com/perch-chain/perch/x/asset/types"

const ModuleName = "sysparam"

// Store prefixes
var (
	ParamKeyPrefix = []byte{0x01}
)

// ParamKey builds the store key for a parameter override.
func ParamKey(name string) []byte {
	return append(ParamKeyPrefix, []byte(name)...)
}

// Well-known parameter names. Values are plain uint64; ratio params are
// measured against RatioBaseBoost unless noted, collateral ratios against
// RatioBoost.
const (
	MinTxFee                = "min_tx_fee"
	AccountRegisterFee      = "account_register_fee"
	AssetIssueFee           = "asset_issue_fee"
	AssetUpdateFee          = "asset_update_fee"
	RiskFeeRatio            = "risk_fee_ratio"
	DexDealFeeRatio         = "dex_deal_fee_ratio"
	DexOrderAmountMin       = "dex_order_amount_min"
	DexOrderFeeRatioMax     = "dex_order_fee_ratio_max"
	DexOperatorRegisterFee  = "dex_operator_register_fee"
	DexOperatorUpdateFee    = "dex_operator_update_fee"
	DexSettleBatchMax       = "dex_settle_batch_max"
	CdpStartCollateralRatio = "cdp_start_collateral_ratio"
	CdpForceLiquidateRatio  = "cdp_force_liquidate_ratio"
	CdpLiquidateDiscount    = "cdp_liquidate_discount"
	CdpPenaltyFeeRatio      = "cdp_penalty_fee_ratio"
	CdpBcoinStakeMin        = "cdp_bcoin_stake_min"
	CdpScoinMintMin         = "cdp_scoin_mint_min"
	GlobalCollateralFloor   = "global_collateral_ratio_floor"
	GlobalCollateralCeiling = "global_collateral_ceiling"
	PriceFeedWindow         = "price_feed_window"
)

// DefaultParams are the genesis-seeded values used when no override is
// stored. Every parameter a transaction path reads must appear here.
var DefaultParams = map[string]uint64{
	MinTxFee:                10_000,
	AccountRegisterFee:      10_000,
	AssetIssueFee:           550 * types.Coin,
	AssetUpdateFee:          110 * types.Coin,
	RiskFeeRatio:            40_000_000, // 40% of fees to the risk reserve
	DexDealFeeRatio:         40_000, // 0.04%
	DexOrderAmountMin:       types.Coin / 10,
	DexOrderFeeRatioMax:     50_000_000, // 50%
	DexOperatorRegisterFee:  10_000 * types.Coin,
	DexOperatorUpdateFee:    100 * types.Coin,
	DexSettleBatchMax:       1_000,
	CdpStartCollateralRatio: 19_000, // 190%
	CdpForceLiquidateRatio:  10_400, // 104%
	CdpLiquidateDiscount:    9_700,  // liquidator buys collateral at 97%
	CdpPenaltyFeeRatio:      2_000_000, // 2% of owed debt
	CdpBcoinStakeMin:        1 * types.Coin,
	CdpScoinMintMin:         90 * types.Coin,
	GlobalCollateralFloor:   8_000, // 80%
	GlobalCollateralCeiling: 52_500_000 * types.Coin,
	PriceFeedWindow:         11,
}
