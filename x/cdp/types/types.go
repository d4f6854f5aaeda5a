package types

import (
	"bytes"
	"fmt"

	ledgertypes "github.com/perch-chain/perch/x/ledger/types"
)

const ModuleName = "cdp"

// ClosedType records why a CDP left the open set.
type ClosedType uint8

const (
	ClosedNone ClosedType = iota
	ClosedRedeemed
	ClosedForceLiquidated
	ClosedManuallyLiquidated
)

func (t ClosedType) String() string {
	switch t {
	case ClosedRedeemed:
		return "redeemed"
	case ClosedForceLiquidated:
		return "force_liquidated"
	case ClosedManuallyLiquidated:
		return "manually_liquidated"
	}
	return "none"
}

// Cdp is one open collateralized debt position, keyed by the id of the
// transaction that created it.
type Cdp struct {
	CdpID               []byte             `json:"cdp_id"`
	OwnerRegID          ledgertypes.RegID  `json:"owner_reg_id"`
	BlockHeight         int64              `json:"block_height"` // last update height
	BcoinSymbol         string             `json:"bcoin_symbol"`
	ScoinSymbol         string             `json:"scoin_symbol"`
	TotalStakedBcoins   uint64             `json:"total_staked_bcoins"`
	TotalOwedScoins     uint64             `json:"total_owed_scoins"`
	CollateralRatioBase uint64             `json:"collateral_ratio_base"` // staked/owed boosted by RatioBaseBoost
}

// NewCdp opens a position at a block coordinate.
func NewCdp(cdpid []byte, owner ledgertypes.RegID, height int64, bcoinSymbol, scoinSymbol string) *Cdp {
	return &Cdp{
		CdpID:       cdpid,
		OwnerRegID:  owner,
		BlockHeight: height,
		BcoinSymbol: bcoinSymbol,
		ScoinSymbol: scoinSymbol,
	}
}

// IsClosed reports whether both sides have reached zero.
func (c *Cdp) IsClosed() bool {
	return c.TotalStakedBcoins == 0 && c.TotalOwedScoins == 0
}

// PairID renders the (collateral, debt) pair for keys and logs.
func (c *Cdp) PairID() string {
	return c.BcoinSymbol + ":" + c.ScoinSymbol
}

func (c *Cdp) String() string {
	return fmt.Sprintf("cdp{id=%x, owner=%s, pair=%s, staked=%d, owed=%d, ratio_base=%d, height=%d}",
		c.CdpID, c.OwnerRegID, c.PairID(), c.TotalStakedBcoins, c.TotalOwedScoins,
		c.CollateralRatioBase, c.BlockHeight)
}

// SameID reports whether two cdp ids refer to the same position.
func SameID(a, b []byte) bool {
	return bytes.Equal(a, b)
}

// ClosedCdp records a position after closure, retrievable by both its cdpid
// and the id of the closing transaction.
type ClosedCdp struct {
	Cdp        Cdp        `json:"cdp"`
	ClosedType ClosedType `json:"closed_type"`
	ClosingTx  []byte     `json:"closing_tx"`
}

// GlobalData aggregates all open positions of one pair.
type GlobalData struct {
	TotalStakedBcoins uint64 `json:"total_staked_bcoins"`
	TotalOwedScoins   uint64 `json:"total_owed_scoins"`
}

// ActivationStatus is the resolved staking permission of a collateral
// symbol: the deny list wins over the allow list, the allow list wins over
// any persisted flag, and symbols absent everywhere are not activated.
type ActivationStatus uint8

const (
	ActivationNone ActivationStatus = iota
	Activated
	Denied
)
