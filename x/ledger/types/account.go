package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// BalanceOp enumerates the atomic balance operations of the ledger.
type BalanceOp uint8

const (
	BalanceOpNone BalanceOp = iota
	AddFree
	SubFree
	Freeze
	Unfreeze
)

// String returns the operation name for logs and error contexts.
func (op BalanceOp) String() string {
	switch op {
	case AddFree:
		return "add_free"
	case SubFree:
		return "sub_free"
	case Freeze:
		return "freeze"
	case Unfreeze:
		return "unfreeze"
	}
	return "none"
}

// TokenBalance holds the free and frozen sub-balances of one token symbol.
// Amounts are in sawi (1 coin = 10^8 sawi).
type TokenBalance struct {
	Symbol string `json:"symbol"`
	Free   uint64 `json:"free"`
	Frozen uint64 `json:"frozen"`
}

// Account is a per-user ledger entry. Balances are kept as a sorted slice
// rather than a map so the stored form is deterministic.
type Account struct {
	KeyID    sdk.AccAddress `json:"key_id"`
	RegID    RegID          `json:"reg_id"`
	PubKey   []byte         `json:"pub_key,omitempty"`
	Balances []TokenBalance `json:"balances"`
}

// NewAccount creates an empty account for a key id.
func NewAccount(keyID sdk.AccAddress) *Account {
	return &Account{KeyID: keyID}
}

// IsRegistered reports whether the account has been assigned a regid.
func (a *Account) IsRegistered() bool {
	return !a.RegID.IsEmpty()
}

// GetBalance returns the balance record for a symbol, zero if absent.
func (a *Account) GetBalance(symbol string) TokenBalance {
	for _, b := range a.Balances {
		if b.Symbol == symbol {
			return b
		}
	}
	return TokenBalance{Symbol: symbol}
}

// GetFree returns the free sub-balance for a symbol.
func (a *Account) GetFree(symbol string) uint64 {
	return a.GetBalance(symbol).Free
}

// GetFrozen returns the frozen sub-balance for a symbol.
func (a *Account) GetFrozen(symbol string) uint64 {
	return a.GetBalance(symbol).Frozen
}

func (a *Account) setBalance(b TokenBalance) {
	for i := range a.Balances {
		if a.Balances[i].Symbol == b.Symbol {
			a.Balances[i] = b
			return
		}
	}
	// keep symbols sorted for deterministic serialization
	at := len(a.Balances)
	for i, cur := range a.Balances {
		if b.Symbol < cur.Symbol {
			at = i
			break
		}
	}
	a.Balances = append(a.Balances, TokenBalance{})
	copy(a.Balances[at+1:], a.Balances[at:])
	a.Balances[at] = b
}

// OperateBalance applies one atomic balance operation. It returns false and
// leaves the account unchanged when the operation would underflow or
// overflow. Callers must check the result before persisting the account.
func (a *Account) OperateBalance(symbol string, op BalanceOp, amount uint64) bool {
	b := a.GetBalance(symbol)
	switch op {
	case AddFree:
		if b.Free > ^uint64(0)-amount {
			return false
		}
		b.Free += amount
	case SubFree:
		if b.Free < amount {
			return false
		}
		b.Free -= amount
	case Freeze:
		if b.Free < amount {
			return false
		}
		if b.Frozen > ^uint64(0)-amount {
			return false
		}
		b.Free -= amount
		b.Frozen += amount
	case Unfreeze:
		if b.Frozen < amount {
			return false
		}
		if b.Free > ^uint64(0)-amount {
			return false
		}
		b.Frozen -= amount
		b.Free += amount
	default:
		return false
	}
	a.setBalance(b)
	return true
}
