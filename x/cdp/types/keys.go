package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	ledgertypes "github.com/perch-chain/perch/x/ledger/types"
)

// Store key prefixes
var (
	CdpKeyPrefix         = []byte{0x01} // cdpid -> Cdp
	OwnerIndexKeyPrefix  = []byte{0x02} // owner ++ pair -> cdpid
	RatioIndexKeyPrefix  = []byte{0x03} // pair ++ ratio ++ height ++ cdpid -> nil
	HeightIndexKeyPrefix = []byte{0x04} // pair ++ height ++ cdpid -> nil
	GlobalDataKeyPrefix  = []byte{0x05} // pair -> GlobalData
	ClosedCdpKeyPrefix   = []byte{0x06} // cdpid -> ClosedCdp
	ClosedByTxKeyPrefix  = []byte{0x07} // closing txid -> ClosedCdp
	ActivationKeyPrefix  = []byte{0x08} // symbol -> activation flag
)

func pairBytes(bcoinSymbol, scoinSymbol string) []byte {
	return []byte(bcoinSymbol + ":" + scoinSymbol + "/")
}

// CdpKey returns the primary store key of a position.
func CdpKey(cdpid []byte) []byte {
	return append(CdpKeyPrefix, cdpid...)
}

// OwnerIndexKey enforces one open position per owner per pair.
func OwnerIndexKey(owner ledgertypes.RegID, bcoinSymbol, scoinSymbol string) []byte {
	key := append([]byte{}, OwnerIndexKeyPrefix...)
	key = append(key, owner.Bytes()...)
	return append(key, pairBytes(bcoinSymbol, scoinSymbol)...)
}

// RatioIndexPrefix is the common prefix of one pair's ratio index. Entries
// under it iterate in ascending ratio order, then ascending height.
func RatioIndexPrefix(bcoinSymbol, scoinSymbol string) []byte {
	key := append([]byte{}, RatioIndexKeyPrefix...)
	return append(key, pairBytes(bcoinSymbol, scoinSymbol)...)
}

// RatioIndexKey keys a position by its boosted collateral ratio base.
func RatioIndexKey(bcoinSymbol, scoinSymbol string, ratioBase uint64, height int64, cdpid []byte) []byte {
	key := RatioIndexPrefix(bcoinSymbol, scoinSymbol)
	key = append(key, sdk.Uint64ToBigEndian(ratioBase)...)
	key = append(key, sdk.Uint64ToBigEndian(uint64(height))...)
	return append(key, cdpid...)
}

// HeightIndexKey keys a position by its last update height.
func HeightIndexKey(bcoinSymbol, scoinSymbol string, height int64, cdpid []byte) []byte {
	key := append([]byte{}, HeightIndexKeyPrefix...)
	key = append(key, pairBytes(bcoinSymbol, scoinSymbol)...)
	key = append(key, sdk.Uint64ToBigEndian(uint64(height))...)
	return append(key, cdpid...)
}

// GlobalDataKey returns the store key of a pair's aggregate.
func GlobalDataKey(bcoinSymbol, scoinSymbol string) []byte {
	return append(GlobalDataKeyPrefix, pairBytes(bcoinSymbol, scoinSymbol)...)
}

// ClosedCdpKey returns the closed-record key addressed by cdpid.
func ClosedCdpKey(cdpid []byte) []byte {
	return append(ClosedCdpKeyPrefix, cdpid...)
}

// ClosedByTxKey returns the closed-record key addressed by the closing tx.
func ClosedByTxKey(txid []byte) []byte {
	return append(ClosedByTxKeyPrefix, txid...)
}

// ActivationKey returns the persisted activation-flag key for a symbol.
func ActivationKey(symbol string) []byte {
	return append(ActivationKeyPrefix, []byte(symbol)...)
}
