package types

import (
	"fmt"

	ledgertypes "github.com/perch-chain/perch/x/ledger/types"
)

const ModuleName = "dex"

// MaxOrderAmount bounds order amounts to a representable range well inside
// uint64 so fixed-point products cannot wrap in widened arithmetic.
const MaxOrderAmount uint64 = 1_000_000_000_000_000_000

// OrderGenerator distinguishes user-submitted orders from system-generated
// ones (forced settlement orders created by the chain itself).
type OrderGenerator uint8

const (
	UserGenerated OrderGenerator = iota
	SystemGenerated
)

func (g OrderGenerator) String() string {
	if g == SystemGenerated {
		return "system"
	}
	return "user"
}

// OrderKind is the pricing mode of an order.
type OrderKind uint8

const (
	LimitPrice OrderKind = iota
	MarketPrice
)

func (k OrderKind) String() string {
	if k == MarketPrice {
		return "market"
	}
	return "limit"
}

// OrderSide is the direction of an order.
type OrderSide uint8

const (
	BuyOrder OrderSide = iota
	SellOrder
)

func (s OrderSide) String() string {
	if s == SellOrder {
		return "sell"
	}
	return "buy"
}

// Order is one active order, keyed by the id of the creating transaction.
// CoinAmount and AssetAmount hold the knowable limit amounts at creation:
// market buys know only CoinAmount, market sells only AssetAmount, limit
// orders both (coin side computed from price).
type Order struct {
	OrderID   []byte            `json:"order_id"`
	Generator OrderGenerator    `json:"generator"`
	Kind      OrderKind         `json:"kind"`
	Side      OrderSide         `json:"side"`

	CoinSymbol  string `json:"coin_symbol"`
	AssetSymbol string `json:"asset_symbol"`
	CoinAmount  uint64 `json:"coin_amount"`
	AssetAmount uint64 `json:"asset_amount"`
	Price       uint64 `json:"price"` // boosted by PriceBoost, zero for market orders
	FeeRatio    uint64 `json:"fee_ratio"`

	Height     int64             `json:"height"`
	Index      uint16            `json:"index"`
	OwnerRegID ledgertypes.RegID `json:"owner_reg_id"`

	TotalDealCoinAmount  uint64 `json:"total_deal_coin_amount"`
	TotalDealAssetAmount uint64 `json:"total_deal_asset_amount"`
}

// LimitAmount is the order's fill ceiling: coin amount for a market buy,
// asset amount otherwise.
func (o *Order) LimitAmount() uint64 {
	if o.Side == BuyOrder && o.Kind == MarketPrice {
		return o.CoinAmount
	}
	return o.AssetAmount
}

// DealAmount is the cumulative filled amount measured in the same unit as
// LimitAmount.
func (o *Order) DealAmount() uint64 {
	if o.Side == BuyOrder && o.Kind == MarketPrice {
		return o.TotalDealCoinAmount
	}
	return o.TotalDealAssetAmount
}

// ResidualAmount is the unfilled remainder of the limit amount.
func (o *Order) ResidualAmount() uint64 {
	return o.LimitAmount() - o.DealAmount()
}

// FrozenResidual is the amount still frozen on the owner's account: the
// committed coin side for buys, the asset side for sells.
func (o *Order) FrozenResidual() uint64 {
	if o.Side == BuyOrder {
		return o.CoinAmount - o.TotalDealCoinAmount
	}
	return o.AssetAmount - o.TotalDealAssetAmount
}

// FrozenSymbol is the symbol the order holds frozen.
func (o *Order) FrozenSymbol() string {
	if o.Side == BuyOrder {
		return o.CoinSymbol
	}
	return o.AssetSymbol
}

func (o *Order) String() string {
	return fmt.Sprintf("order{id=%x, %s %s %s, pair=%s:%s, coin=%d, asset=%d, price=%d, dealt=%d/%d, owner=%s}",
		o.OrderID, o.Generator, o.Kind, o.Side, o.AssetSymbol, o.CoinSymbol,
		o.CoinAmount, o.AssetAmount, o.Price, o.TotalDealCoinAmount, o.TotalDealAssetAmount, o.OwnerRegID)
}

// DealItem is one matched trade submitted by the settlement service. It is
// consumed, never persisted.
type DealItem struct {
	BuyOrderID      []byte `json:"buy_order_id"`
	SellOrderID     []byte `json:"sell_order_id"`
	DealPrice       uint64 `json:"deal_price"`
	DealCoinAmount  uint64 `json:"deal_coin_amount"`
	DealAssetAmount uint64 `json:"deal_asset_amount"`
}

// OperatorDetail is one registered exchange operator.
type OperatorDetail struct {
	ID            uint64            `json:"id"`
	OwnerRegID    ledgertypes.RegID `json:"owner_reg_id"`
	MatcherRegID  ledgertypes.RegID `json:"matcher_reg_id"`
	Name          string            `json:"name"`
	Portal        string            `json:"portal"`
	MakerFeeRatio uint64            `json:"maker_fee_ratio"`
	TakerFeeRatio uint64            `json:"taker_fee_ratio"`
	Memo          string            `json:"memo"`
}

// OperatorUpdateKey addresses one operator field in an update payload.
type OperatorUpdateKey uint8

const (
	OperatorUpdateNone OperatorUpdateKey = iota
	OperatorUpdateOwner
	OperatorUpdateMatcher
	OperatorUpdateName
	OperatorUpdatePortal
	OperatorUpdateMakerFeeRatio
	OperatorUpdateTakerFeeRatio
	OperatorUpdateMemo
)

func (k OperatorUpdateKey) String() string {
	switch k {
	case OperatorUpdateOwner:
		return "owner"
	case OperatorUpdateMatcher:
		return "matcher"
	case OperatorUpdateName:
		return "name"
	case OperatorUpdatePortal:
		return "portal"
	case OperatorUpdateMakerFeeRatio:
		return "maker_fee_ratio"
	case OperatorUpdateTakerFeeRatio:
		return "taker_fee_ratio"
	case OperatorUpdateMemo:
		return "memo"
	}
	return "none"
}

// OperatorUpdate carries one field replacement. Exactly one value field is
// meaningful, selected by Key.
type OperatorUpdate struct {
	Key         OperatorUpdateKey `json:"key"`
	RegIDValue  ledgertypes.RegID `json:"regid_value"`
	StringValue string            `json:"string_value"`
	Uint64Value uint64            `json:"uint64_value"`
}
