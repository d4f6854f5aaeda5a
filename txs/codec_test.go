package txs

import (
	"testing"

	"github.com/stretchr/testify/require"

	dextypes "github.com/perch-chain/perch/x/dex/types"
	ledgertypes "github.com/perch-chain/perch/x/ledger/types"
)

func testBase() BaseTx {
	return BaseTx{
		Version:   CurrentTxVersion,
		FeeSymbol: "PERC",
		Fee:       10_000,
		Signer:    NewRegIDSigner(ledgertypes.NewRegID(10, 1)),
		Signature: []byte("sig"),
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	txs := []Tx{
		&CoinTransferTx{
			BaseTx:     testBase(),
			ToRegID:    ledgertypes.NewRegID(20, 2),
			CoinSymbol: "PERC",
			Amount:     5_000,
			Memo:       "rent",
		},
		&DexOrderTx{
			BaseTx:      testBase(),
			OrderKind:   dextypes.LimitPrice,
			OrderSide:   dextypes.BuyOrder,
			CoinSymbol:  "PUSD",
			AssetSymbol: "PERC",
			AssetAmount: 10_000_000_000,
			Price:       200_000_000,
		},
		&CdpStakeTx{
			BaseTx:        testBase(),
			BcoinSymbol:   "PERC",
			ScoinSymbol:   "PUSD",
			BcoinsToStake: 20_000_000_000,
			ScoinsToMint:  10_000_000_000,
		},
		&DexSettleTx{
			BaseTx: testBase(),
			Deals: []dextypes.DealItem{{
				BuyOrderID:      []byte("buy-1"),
				SellOrderID:     []byte("sell-1"),
				DealPrice:       200_000_000,
				DealCoinAmount:  100,
				DealAssetAmount: 50,
			}},
		},
	}

	for _, tx := range txs {
		bz, err := Encode(tx)
		require.NoError(t, err)
		require.Equal(t, byte(tx.Kind()), bz[0])

		decoded, err := Decode(bz)
		require.NoError(t, err)
		require.Equal(t, tx, decoded)
	}
}

func TestDecodeRejectsUnknownAndReserved(t *testing.T) {
	_, err := Decode([]byte{0xEE, 0x00})
	require.ErrorIs(t, err, ErrUnknownKind)

	_, err = Decode([]byte{byte(KindContractDeploy), 0x00})
	require.ErrorIs(t, err, ErrUnsupportedKind)

	_, err = Decode([]byte{byte(KindDelegateVote), 0x00})
	require.ErrorIs(t, err, ErrUnsupportedKind)

	_, err = Decode(nil)
	require.ErrorIs(t, err, ErrDecode)
	_, err = Decode([]byte{byte(KindCoinTransfer)})
	require.ErrorIs(t, err, ErrDecode)
}

func TestDecodeLegacyOrderKinds(t *testing.T) {
	order := &DexOrderTx{
		BaseTx:      testBase(),
		CoinSymbol:  "PUSD",
		AssetSymbol: "PERC",
		AssetAmount: 10_000_000_000,
		Price:       200_000_000,
		HasFeeRatio: true,
		FeeRatio:    40_000,
	}
	body, err := cdc.Marshal(order)
	require.NoError(t, err)

	// the discriminant overrides whatever the body carries
	decoded, err := Decode(append([]byte{byte(KindLegacyLimitSellEx)}, body...))
	require.NoError(t, err)
	sell, ok := decoded.(*DexOrderTx)
	require.True(t, ok)
	require.Equal(t, dextypes.LimitPrice, sell.OrderKind)
	require.Equal(t, dextypes.SellOrder, sell.OrderSide)
	require.True(t, sell.HasFeeRatio)
	require.Equal(t, uint64(40_000), sell.FeeRatio)

	// first-generation kinds have no fee ratio field, any carried value drops
	decoded, err = Decode(append([]byte{byte(KindLegacyMarketBuy)}, body...))
	require.NoError(t, err)
	buy, ok := decoded.(*DexOrderTx)
	require.True(t, ok)
	require.Equal(t, dextypes.MarketPrice, buy.OrderKind)
	require.Equal(t, dextypes.BuyOrder, buy.OrderSide)
	require.False(t, buy.HasFeeRatio)
	require.Equal(t, uint64(0), buy.FeeRatio)
}

func TestTxIDIgnoresSignature(t *testing.T) {
	tx := &CoinTransferTx{
		BaseTx:     testBase(),
		ToRegID:    ledgertypes.NewRegID(20, 2),
		CoinSymbol: "PERC",
		Amount:     5_000,
	}
	id1 := TxID(tx)
	require.Len(t, id1, 32)

	tx.Signature = []byte("another signature entirely")
	require.Equal(t, id1, TxID(tx))

	// any signed field change moves the id
	tx.Amount = 5_001
	require.NotEqual(t, id1, TxID(tx))
}

func TestSignerIDForms(t *testing.T) {
	regid := NewRegIDSigner(ledgertypes.NewRegID(10, 1))
	require.True(t, regid.IsRegID())
	require.False(t, regid.IsPubKey())
	require.Equal(t, "10-1", regid.String())

	pub := NewPubKeySigner([]byte{0x02, 0x03})
	require.True(t, pub.IsPubKey())
	require.False(t, pub.IsRegID())

	var empty SignerID
	require.True(t, empty.IsEmpty())
	require.Equal(t, "empty", empty.String())
}

func TestKindNames(t *testing.T) {
	require.Equal(t, "dex_order", KindDexOrder.String())
	require.Equal(t, "dex_limit_buy_order_ex", KindLegacyLimitBuyEx.String())
	require.Equal(t, "unknown", Kind(0xEE).String())
}
