package txs

import (
	assettypes "github.com/perch-chain/perch/x/asset/types"
	ledgertypes "github.com/perch-chain/perch/x/ledger/types"
	sysparamtypes "github.com/perch-chain/perch/x/sysparam/types"
)

// AssetIssueTx registers a new user token. The issue fee is charged on top
// of the transaction fee and split between the risk reserve and the active
// delegates; the initial supply is credited to the issuer and the token is
// paired against the base coin for DEX trading.
type AssetIssueTx struct {
	BaseTx
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Mintable    bool   `json:"mintable"`
	TotalSupply uint64 `json:"total_supply"`
}

func (tx *AssetIssueTx) Kind() Kind    { return KindAssetIssue }
func (tx *AssetIssueTx) Base() *BaseTx { return &tx.BaseTx }

func (tx *AssetIssueTx) ValidateBasic() error {
	if err := tx.validateBase(); err != nil {
		return err
	}
	if err := assettypes.ValidateSymbol(tx.Symbol); err != nil {
		return err
	}
	if err := assettypes.ValidateAssetName(tx.Name); err != nil {
		return err
	}
	if tx.TotalSupply == 0 {
		return ErrInvalidPayload.Wrap("zero total supply")
	}
	return nil
}

func (tx *AssetIssueTx) SignBytes() []byte {
	c := *tx
	c.Signature = nil
	return signBytes(KindAssetIssue, &c)
}

func (tx *AssetIssueTx) CheckTx(ctx *Context) error {
	if ctx.Asset.HasAsset(ctx.Ctx, tx.Symbol) {
		return assettypes.ErrAssetExists.Wrapf("symbol=%s", tx.Symbol)
	}
	acc, err := ctx.checkSignedTx(tx)
	if err != nil {
		return err
	}
	if !acc.IsRegistered() {
		return ErrUnregistered.Wrapf("signer=%s", tx.Signer)
	}
	return nil
}

func (tx *AssetIssueTx) ExecuteTx(ctx *Context) error {
	if ctx.Asset.HasAsset(ctx.Ctx, tx.Symbol) {
		return assettypes.ErrAssetExists.Wrapf("symbol=%s", tx.Symbol)
	}
	issuer, err := ctx.beginExecute(tx)
	if err != nil {
		return err
	}
	if !issuer.IsRegistered() {
		return ErrUnregistered.Wrapf("signer=%s", tx.Signer)
	}

	issueFee, err := ctx.Sysparam.MustGetParam(ctx.Ctx, sysparamtypes.AssetIssueFee)
	if err != nil {
		return err
	}
	if !issuer.OperateBalance(assettypes.BaseCoin, ledgertypes.SubFree, issueFee) {
		return ErrInvalidFee.Wrapf("insufficient %s for issue fee %d", assettypes.BaseCoin, issueFee)
	}
	if err := ctx.distributeFee(issuer, assettypes.BaseCoin, issueFee,
		ledgertypes.AssetFeeToRiskReserve, ledgertypes.AssetFeeToDelegate); err != nil {
		return err
	}

	if !issuer.OperateBalance(tx.Symbol, ledgertypes.AddFree, tx.TotalSupply) {
		return ErrInvalidPayload.Wrap("supply credit overflow")
	}
	asset := &assettypes.Asset{
		Symbol:      tx.Symbol,
		OwnerRegID:  issuer.RegID.Bytes(),
		Name:        tx.Name,
		Mintable:    tx.Mintable,
		TotalSupply: tx.TotalSupply,
	}
	if err := ctx.Asset.SetAsset(ctx.Ctx, asset); err != nil {
		return err
	}
	ctx.Asset.RegisterTradingPair(ctx.Ctx, tx.Symbol, assettypes.BaseCoin)

	if err := ctx.Ledger.SetAccount(ctx.Ctx, issuer); err != nil {
		return err
	}
	ctx.AddReceipts(ledgertypes.NewReceipt(ledgertypes.RegID{}, issuer.RegID,
		tx.Symbol, tx.TotalSupply, ledgertypes.AssetIssuedToOwner))
	return nil
}

// AssetUpdateTx replaces one asset field addressed by an update key: the
// owner, the display name, or a supply mint on a mintable token.
type AssetUpdateTx struct {
	BaseTx
	Symbol      string                   `json:"symbol"`
	UpdateKey   assettypes.AssetUpdateKey `json:"update_key"`
	RegIDValue  ledgertypes.RegID        `json:"regid_value"`
	StringValue string                   `json:"string_value,omitempty"`
	Uint64Value uint64                   `json:"uint64_value,omitempty"`
}

func (tx *AssetUpdateTx) Kind() Kind    { return KindAssetUpdate }
func (tx *AssetUpdateTx) Base() *BaseTx { return &tx.BaseTx }

func (tx *AssetUpdateTx) ValidateBasic() error {
	if err := tx.validateBase(); err != nil {
		return err
	}
	switch tx.UpdateKey {
	case assettypes.AssetUpdateOwner:
		if tx.RegIDValue.IsEmpty() {
			return ErrInvalidPayload.Wrap("empty new owner regid")
		}
	case assettypes.AssetUpdateName:
		if err := assettypes.ValidateAssetName(tx.StringValue); err != nil {
			return err
		}
	case assettypes.AssetUpdateMintAmount:
		if tx.Uint64Value == 0 {
			return ErrInvalidPayload.Wrap("zero mint amount")
		}
	default:
		return assettypes.ErrInvalidUpdateKey.Wrapf("key=%d", tx.UpdateKey)
	}
	return nil
}

func (tx *AssetUpdateTx) SignBytes() []byte {
	c := *tx
	c.Signature = nil
	return signBytes(KindAssetUpdate, &c)
}

func (tx *AssetUpdateTx) CheckTx(ctx *Context) error {
	asset, err := ctx.Asset.GetAsset(ctx.Ctx, tx.Symbol)
	if err != nil {
		return err
	}
	acc, err := ctx.checkSignedTx(tx)
	if err != nil {
		return err
	}
	if string(asset.OwnerRegID) != string(acc.RegID.Bytes()) {
		return assettypes.ErrNotAssetOwner.Wrapf("symbol=%s, signer=%s", tx.Symbol, acc.RegID)
	}
	if tx.UpdateKey == assettypes.AssetUpdateMintAmount && !asset.Mintable {
		return assettypes.ErrNotMintable.Wrapf("symbol=%s", tx.Symbol)
	}
	return nil
}

func (tx *AssetUpdateTx) ExecuteTx(ctx *Context) error {
	asset, err := ctx.Asset.GetAsset(ctx.Ctx, tx.Symbol)
	if err != nil {
		return err
	}
	owner, err := ctx.beginExecute(tx)
	if err != nil {
		return err
	}
	if string(asset.OwnerRegID) != string(owner.RegID.Bytes()) {
		return assettypes.ErrNotAssetOwner.Wrapf("symbol=%s, signer=%s", tx.Symbol, owner.RegID)
	}

	updateFee, err := ctx.Sysparam.MustGetParam(ctx.Ctx, sysparamtypes.AssetUpdateFee)
	if err != nil {
		return err
	}
	if !owner.OperateBalance(assettypes.BaseCoin, ledgertypes.SubFree, updateFee) {
		return ErrInvalidFee.Wrapf("insufficient %s for update fee %d", assettypes.BaseCoin, updateFee)
	}
	if err := ctx.distributeFee(owner, assettypes.BaseCoin, updateFee,
		ledgertypes.AssetFeeToRiskReserve, ledgertypes.AssetFeeToDelegate); err != nil {
		return err
	}

	switch tx.UpdateKey {
	case assettypes.AssetUpdateOwner:
		if _, err := ctx.Ledger.GetAccountByRegID(ctx.Ctx, tx.RegIDValue); err != nil {
			return err
		}
		asset.OwnerRegID = tx.RegIDValue.Bytes()
	case assettypes.AssetUpdateName:
		asset.Name = tx.StringValue
	case assettypes.AssetUpdateMintAmount:
		if !asset.Mintable {
			return assettypes.ErrNotMintable.Wrapf("symbol=%s", tx.Symbol)
		}
		newSupply, overflow := addChecked(asset.TotalSupply, tx.Uint64Value)
		if overflow {
			return assettypes.ErrSupplyOverflow.Wrapf("symbol=%s", tx.Symbol)
		}
		asset.TotalSupply = newSupply
		if !owner.OperateBalance(tx.Symbol, ledgertypes.AddFree, tx.Uint64Value) {
			return ErrInvalidPayload.Wrap("mint credit overflow")
		}
		ctx.AddReceipts(ledgertypes.NewReceipt(ledgertypes.RegID{}, owner.RegID,
			tx.Symbol, tx.Uint64Value, ledgertypes.AssetMintedToOwner))
	}

	if err := ctx.Asset.SetAsset(ctx.Ctx, asset); err != nil {
		return err
	}
	return ctx.Ledger.SetAccount(ctx.Ctx, owner)
}

func addChecked(a, b uint64) (uint64, bool) {
	if a > ^uint64(0)-b {
		return 0, true
	}
	return a + b, false
}
