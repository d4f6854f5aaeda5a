package txs

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	ledgertypes "github.com/perch-chain/perch/x/ledger/types"
)

// CurrentTxVersion is the only wire version accepted.
const CurrentTxVersion = 1

// MaxMemoLen bounds free-form memo fields.
const MaxMemoLen = 100

// SignerID addresses an account either by its permanent regid or, before
// registration, by its raw public key. Exactly one form is set.
type SignerID struct {
	RegID  ledgertypes.RegID `json:"reg_id"`
	PubKey []byte            `json:"pub_key,omitempty"`
}

// NewRegIDSigner addresses a registered account.
func NewRegIDSigner(regID ledgertypes.RegID) SignerID {
	return SignerID{RegID: regID}
}

// NewPubKeySigner addresses an account by public key.
func NewPubKeySigner(pubKey []byte) SignerID {
	return SignerID{PubKey: pubKey}
}

// IsRegID reports whether the regid form is set.
func (s SignerID) IsRegID() bool {
	return !s.RegID.IsEmpty()
}

// IsPubKey reports whether the pubkey form is set.
func (s SignerID) IsPubKey() bool {
	return len(s.PubKey) > 0
}

// IsEmpty reports whether neither form is set.
func (s SignerID) IsEmpty() bool {
	return !s.IsRegID() && !s.IsPubKey()
}

func (s SignerID) String() string {
	if s.IsRegID() {
		return s.RegID.String()
	}
	if s.IsPubKey() {
		return fmt.Sprintf("pubkey:%X", s.PubKey)
	}
	return "empty"
}

// BaseTx carries the fields shared by every transaction kind.
type BaseTx struct {
	Version     int32    `json:"version"`
	ValidHeight int64    `json:"valid_height"`
	FeeSymbol   string   `json:"fee_symbol"`
	Fee         uint64   `json:"fee"`
	Signer      SignerID `json:"signer"`
	Signature   []byte   `json:"signature,omitempty"`
}

// Tx is the contract every transaction kind implements. CheckTx validates
// without mutating state; ExecuteTx applies the transaction against the
// context's overlay and records receipts on the context.
type Tx interface {
	Kind() Kind
	ValidateBasic() error
	CheckTx(ctx *Context) error
	ExecuteTx(ctx *Context) error
	SignBytes() []byte
	Base() *BaseTx
}

// TxID is the hash identifying a transaction, computed over the
// signature-free wire form.
func TxID(tx Tx) []byte {
	return hashSignBytes(tx.SignBytes())
}

// AddressFromPubKey derives the ledger key id of a secp256k1 public key.
func AddressFromPubKey(pubKey []byte) sdk.AccAddress {
	return sdk.AccAddress(pubKeyAddress(pubKey))
}
