package txs

// Kind is the one-byte wire discriminant of a transaction. The enumeration
// is closed: Decode switches over every value and rejects the rest.
type Kind uint8

const (
	KindNone Kind = iota
	KindBlockReward
	KindAccountRegister
	KindCoinTransfer
	KindContractDeploy // reserved, VM not wired
	KindContractInvoke // reserved, VM not wired
	KindDelegateVote   // reserved
	KindCoinStake      // reserved
	KindAssetIssue
	KindAssetUpdate
	KindPriceFeed
	KindCdpStake
	KindCdpRedeem
	KindCdpLiquidate
	KindDexOrder
	KindDexCancel
	KindDexSettle
	KindDexOperatorRegister
	KindDexOperatorUpdate
)

// Legacy order discriminants. Earlier wire formats carried one kind byte
// per (pricing, side) combination plus a second generation with an explicit
// fee ratio. All eight decode into the unified DexOrderTx.
const (
	KindLegacyLimitBuy Kind = iota + 0x20
	KindLegacyLimitSell
	KindLegacyMarketBuy
	KindLegacyMarketSell
	KindLegacyLimitBuyEx
	KindLegacyLimitSellEx
	KindLegacyMarketBuyEx
	KindLegacyMarketSellEx
)

var kindNames = map[Kind]string{
	KindBlockReward:         "block_reward",
	KindAccountRegister:     "account_register",
	KindCoinTransfer:        "coin_transfer",
	KindContractDeploy:      "contract_deploy",
	KindContractInvoke:      "contract_invoke",
	KindDelegateVote:        "delegate_vote",
	KindCoinStake:           "coin_stake",
	KindAssetIssue:          "asset_issue",
	KindAssetUpdate:         "asset_update",
	KindPriceFeed:           "price_feed",
	KindCdpStake:            "cdp_stake",
	KindCdpRedeem:           "cdp_redeem",
	KindCdpLiquidate:        "cdp_liquidate",
	KindDexOrder:            "dex_order",
	KindDexCancel:           "dex_cancel",
	KindDexSettle:           "dex_settle",
	KindDexOperatorRegister: "dex_operator_register",
	KindDexOperatorUpdate:   "dex_operator_update",
	KindLegacyLimitBuy:      "dex_limit_buy_order",
	KindLegacyLimitSell:     "dex_limit_sell_order",
	KindLegacyMarketBuy:     "dex_market_buy_order",
	KindLegacyMarketSell:    "dex_market_sell_order",
	KindLegacyLimitBuyEx:    "dex_limit_buy_order_ex",
	KindLegacyLimitSellEx:   "dex_limit_sell_order_ex",
	KindLegacyMarketBuyEx:   "dex_market_buy_order_ex",
	KindLegacyMarketSellEx:  "dex_market_sell_order_ex",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}
