package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	ledgertypes "github.com/perch-chain/perch/x/ledger/types"
)

// Store key prefixes
var (
	OrderKeyPrefix         = []byte{0x01} // orderid -> Order
	OperatorKeyPrefix      = []byte{0x02} // BE(id) -> OperatorDetail
	OperatorOwnerKeyPrefix = []byte{0x03} // owner regid -> BE(id)
	OperatorCountKey       = []byte{0x04} // -> BE(next id)
)

// OrderKey returns the store key of an active order.
func OrderKey(orderID []byte) []byte {
	return append(OrderKeyPrefix, orderID...)
}

// OperatorKey returns the store key of an operator record.
func OperatorKey(id uint64) []byte {
	return append(OperatorKeyPrefix, sdk.Uint64ToBigEndian(id)...)
}

// OperatorOwnerKey enforces one operator per owner.
func OperatorOwnerKey(owner ledgertypes.RegID) []byte {
	return append(OperatorOwnerKeyPrefix, owner.Bytes()...)
}
