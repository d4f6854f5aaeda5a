package types

import (
	"encoding/binary"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	// ModuleName defines the module name
	ModuleName = "ledger"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName
)

// Store key prefixes
var (
	AccountKeyPrefix      = []byte{0x01} // keyid -> Account
	RegIDIndexKeyPrefix   = []byte{0x02} // regid -> keyid
	ReceiptKeyPrefix      = []byte{0x03} // txid -> []Receipt
	NamedAccountKeyPrefix = []byte{0x04} // name -> regid
)

// AccountKey returns the store key for an account addressed by key id.
func AccountKey(keyID sdk.AccAddress) []byte {
	return append(AccountKeyPrefix, keyID.Bytes()...)
}

// RegIDIndexKey returns the store key mapping a regid to its key id.
func RegIDIndexKey(regID RegID) []byte {
	return append(RegIDIndexKeyPrefix, regID.Bytes()...)
}

// ReceiptKey returns the store key for the receipts of a transaction.
func ReceiptKey(txid []byte) []byte {
	return append(ReceiptKeyPrefix, txid...)
}

// NamedAccountKey returns the store key for a well-known system account.
func NamedAccountKey(name string) []byte {
	return append(NamedAccountKeyPrefix, []byte(name)...)
}

// Well-known system account names, assigned at genesis.
const (
	RiskReserveAccount = "risk_reserve"
	DexMatcherAccount  = "dex_matcher"
)

// RegIDByteLen is the fixed width of the store-key form of a RegID.
const RegIDByteLen = 6

// RegID is the permanent registration identifier of an account, assigned at
// the block coordinate of its first registering transaction.
type RegID struct {
	Height uint32 `json:"height"`
	Index  uint16 `json:"index"`
}

// NewRegID creates a regid from a block coordinate.
func NewRegID(height uint32, index uint16) RegID {
	return RegID{Height: height, Index: index}
}

// IsEmpty reports whether the regid has not been assigned.
func (r RegID) IsEmpty() bool {
	return r.Height == 0 && r.Index == 0
}

// Bytes returns the fixed-width big-endian representation, suitable for use
// inside ordered store keys.
func (r RegID) Bytes() []byte {
	bz := make([]byte, 6)
	binary.BigEndian.PutUint32(bz[0:4], r.Height)
	binary.BigEndian.PutUint16(bz[4:6], r.Index)
	return bz
}

// String renders the canonical height-index form, e.g. "100-2".
func (r RegID) String() string {
	return fmt.Sprintf("%d-%d", r.Height, r.Index)
}

// RegIDFromBytes parses the fixed-width form produced by Bytes.
func RegIDFromBytes(bz []byte) (RegID, error) {
	if len(bz) != 6 {
		return RegID{}, fmt.Errorf("invalid regid length %d", len(bz))
	}
	return RegID{
		Height: binary.BigEndian.Uint32(bz[0:4]),
		Index:  binary.BigEndian.Uint16(bz[4:6]),
	}, nil
}
