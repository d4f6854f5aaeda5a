package types

// Store key prefixes
var (
	AssetKeyPrefix       = []byte{0x01} // symbol -> Asset
	TradingPairKeyPrefix = []byte{0x02} // asset_symbol + '/' + coin_symbol -> 1
)

// AssetKey returns the store key for an asset record.
func AssetKey(symbol string) []byte {
	return append(AssetKeyPrefix, []byte(symbol)...)
}

// TradingPairKey returns the store key for a trading pair.
func TradingPairKey(assetSymbol, coinSymbol string) []byte {
	key := append(TradingPairKeyPrefix, []byte(assetSymbol)...)
	key = append(key, '/')
	return append(key, []byte(coinSymbol)...)
}
