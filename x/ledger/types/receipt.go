package types

// ReceiptCode tags a value movement recorded in the receipt log.
type ReceiptCode uint16

const (
	ReceiptNone ReceiptCode = 0

	// transfers and rewards
	TransferCoins      ReceiptCode = 101
	BlockRewardToMiner ReceiptCode = 102

	// asset issuance
	AssetIssuedToOwner        ReceiptCode = 201
	AssetFeeToRiskReserve     ReceiptCode = 202
	AssetFeeToDelegate        ReceiptCode = 203
	AssetMintedToOwner        ReceiptCode = 204

	// CDP engine
	CdpStakedAssetFromOwner     ReceiptCode = 301
	CdpMintedScoinToOwner       ReceiptCode = 302
	CdpRepaidScoinFromOwner     ReceiptCode = 303
	CdpRedeemedAssetToOwner     ReceiptCode = 304
	CdpLiquidatedScoinFromUser  ReceiptCode = 305
	CdpLiquidatedAssetToUser    ReceiptCode = 306
	CdpLiquidatedAssetToOwner   ReceiptCode = 307
	CdpPenaltyToRiskReserve     ReceiptCode = 308

	// DEX engine
	DexAssetToBuyer            ReceiptCode = 401
	DexCoinToSeller            ReceiptCode = 402
	DexAssetFeeToSettler       ReceiptCode = 403
	DexCoinFeeToSettler        ReceiptCode = 404
	DexUnfreezeCoinToBuyer     ReceiptCode = 405
	DexUnfreezeAssetToSeller   ReceiptCode = 406
	DexOperatorFeeToReserve    ReceiptCode = 407
	DexOperatorFeeToDelegate   ReceiptCode = 408
)

var receiptCodeNames = map[ReceiptCode]string{
	TransferCoins:              "transfer_coins",
	BlockRewardToMiner:         "block_reward_to_miner",
	AssetIssuedToOwner:         "asset_issued_to_owner",
	AssetFeeToRiskReserve:      "asset_fee_to_risk_reserve",
	AssetFeeToDelegate:         "asset_fee_to_delegate",
	AssetMintedToOwner:         "asset_minted_to_owner",
	CdpStakedAssetFromOwner:    "cdp_staked_asset_from_owner",
	CdpMintedScoinToOwner:      "cdp_minted_scoin_to_owner",
	CdpRepaidScoinFromOwner:    "cdp_repaid_scoin_from_owner",
	CdpRedeemedAssetToOwner:    "cdp_redeemed_asset_to_owner",
	CdpLiquidatedScoinFromUser: "cdp_liquidated_scoin_from_user",
	CdpLiquidatedAssetToUser:   "cdp_liquidated_asset_to_user",
	CdpLiquidatedAssetToOwner:  "cdp_liquidated_asset_to_owner",
	CdpPenaltyToRiskReserve:    "cdp_penalty_to_risk_reserve",
	DexAssetToBuyer:            "dex_asset_to_buyer",
	DexCoinToSeller:            "dex_coin_to_seller",
	DexAssetFeeToSettler:       "dex_asset_fee_to_settler",
	DexCoinFeeToSettler:        "dex_coin_fee_to_settler",
	DexUnfreezeCoinToBuyer:     "dex_unfreeze_coin_to_buyer",
	DexUnfreezeAssetToSeller:   "dex_unfreeze_asset_to_seller",
	DexOperatorFeeToReserve:    "dex_operator_fee_to_reserve",
	DexOperatorFeeToDelegate:   "dex_operator_fee_to_delegate",
}

// String returns the receipt code name.
func (c ReceiptCode) String() string {
	if name, ok := receiptCodeNames[c]; ok {
		return name
	}
	return "unknown"
}

// Receipt is one audited value movement. From is the zero regid for
// movements that originate from the system (mint, unfreeze).
type Receipt struct {
	From   RegID       `json:"from"`
	To     RegID       `json:"to"`
	Symbol string      `json:"symbol"`
	Amount uint64      `json:"amount"`
	Code   ReceiptCode `json:"code"`
}

// NewReceipt builds one receipt entry.
func NewReceipt(from, to RegID, symbol string, amount uint64, code ReceiptCode) Receipt {
	return Receipt{From: from, To: to, Symbol: symbol, Amount: amount, Code: code}
}
