package txs

import (
	"github.com/cometbft/cometbft/crypto/secp256k1"
	"github.com/cometbft/cometbft/crypto/tmhash"
	"github.com/cosmos/cosmos-sdk/codec"
)

// cdc serializes transaction bodies. The one-byte kind discriminant is
// framed outside the amino body.
var cdc = codec.NewLegacyAmino()

// Encode renders a transaction in wire form: kind byte plus amino body.
func Encode(tx Tx) ([]byte, error) {
	body, err := cdc.Marshal(tx)
	if err != nil {
		return nil, ErrDecode.Wrapf("marshal %s: %v", tx.Kind(), err)
	}
	return append([]byte{byte(tx.Kind())}, body...), nil
}

// Decode parses wire form back into a typed transaction. The kind space is
// closed: reserved kinds fail as unsupported, anything else as unknown.
func Decode(bz []byte) (Tx, error) {
	if len(bz) < 2 {
		return nil, ErrDecode.Wrap("truncated transaction")
	}
	kind, body := Kind(bz[0]), bz[1:]

	switch kind {
	case KindBlockReward:
		var tx BlockRewardTx
		return &tx, unmarshalBody(kind, body, &tx)
	case KindAccountRegister:
		var tx AccountRegisterTx
		return &tx, unmarshalBody(kind, body, &tx)
	case KindCoinTransfer:
		var tx CoinTransferTx
		return &tx, unmarshalBody(kind, body, &tx)
	case KindAssetIssue:
		var tx AssetIssueTx
		return &tx, unmarshalBody(kind, body, &tx)
	case KindAssetUpdate:
		var tx AssetUpdateTx
		return &tx, unmarshalBody(kind, body, &tx)
	case KindPriceFeed:
		var tx PriceFeedTx
		return &tx, unmarshalBody(kind, body, &tx)
	case KindCdpStake:
		var tx CdpStakeTx
		return &tx, unmarshalBody(kind, body, &tx)
	case KindCdpRedeem:
		var tx CdpRedeemTx
		return &tx, unmarshalBody(kind, body, &tx)
	case KindCdpLiquidate:
		var tx CdpLiquidateTx
		return &tx, unmarshalBody(kind, body, &tx)
	case KindDexOrder:
		var tx DexOrderTx
		return &tx, unmarshalBody(kind, body, &tx)
	case KindDexCancel:
		var tx DexCancelTx
		return &tx, unmarshalBody(kind, body, &tx)
	case KindDexSettle:
		var tx DexSettleTx
		return &tx, unmarshalBody(kind, body, &tx)
	case KindDexOperatorRegister:
		var tx DexOperatorRegisterTx
		return &tx, unmarshalBody(kind, body, &tx)
	case KindDexOperatorUpdate:
		var tx DexOperatorUpdateTx
		return &tx, unmarshalBody(kind, body, &tx)
	case KindLegacyLimitBuy, KindLegacyLimitSell, KindLegacyMarketBuy, KindLegacyMarketSell,
		KindLegacyLimitBuyEx, KindLegacyLimitSellEx, KindLegacyMarketBuyEx, KindLegacyMarketSellEx:
		return decodeLegacyOrder(kind, body)
	case KindContractDeploy, KindContractInvoke, KindDelegateVote, KindCoinStake:
		return nil, ErrUnsupportedKind.Wrapf("kind=%s(%d)", kind, kind)
	default:
		return nil, ErrUnknownKind.Wrapf("kind=%d", kind)
	}
}

func unmarshalBody(kind Kind, body []byte, tx Tx) error {
	if err := cdc.Unmarshal(body, tx); err != nil {
		return ErrDecode.Wrapf("unmarshal %s: %v", kind, err)
	}
	return nil
}

// signBytes builds the signature-free wire form of a transaction body.
func signBytes(kind Kind, body interface{}) []byte {
	bz, err := cdc.Marshal(body)
	if err != nil {
		panic(err)
	}
	return append([]byte{byte(kind)}, bz...)
}

func hashSignBytes(bz []byte) []byte {
	return tmhash.Sum(bz)
}

func pubKeyAddress(pubKey []byte) []byte {
	return secp256k1.PubKey(pubKey).Address()
}

// verifySignature checks a secp256k1 signature over the sign bytes.
func verifySignature(pubKey, msg, sig []byte) bool {
	if len(pubKey) != secp256k1.PubKeySize || len(sig) == 0 {
		return false
	}
	return secp256k1.PubKey(pubKey).VerifySignature(msg, sig)
}
