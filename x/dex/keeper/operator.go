package keeper

import (
	"context"

	assettypes "github.com/perch-chain/perch/x/asset/types"
	"github.com/perch-chain/perch/x/dex/types"
	ledgertypes "github.com/perch-chain/perch/x/ledger/types"
	sysparamtypes "github.com/perch-chain/perch/x/sysparam/types"
)

// RegisterOperator validates and persists a new exchange operator, charging
// the registration fee split between the risk reserve and the active
// delegates. The registrant account is persisted here.
func (k Keeper) RegisterOperator(
	ctx context.Context,
	height int64,
	registrant *ledgertypes.Account,
	detail types.OperatorDetail,
) (*types.OperatorDetail, []ledgertypes.Receipt, error) {
	if err := k.validateOperatorRegID(ctx, detail.OwnerRegID, height); err != nil {
		return nil, nil, err
	}
	if err := k.validateOperatorRegID(ctx, detail.MatcherRegID, height); err != nil {
		return nil, nil, err
	}
	if err := k.validateOperatorFeeRatios(ctx, detail.MakerFeeRatio, detail.TakerFeeRatio); err != nil {
		return nil, nil, err
	}
	if detail.Name == "" {
		return nil, nil, types.ErrInvalidOperatorField.Wrap("empty operator name")
	}
	existing, err := k.GetOperatorByOwner(ctx, detail.OwnerRegID)
	if err != nil {
		return nil, nil, err
	}
	if existing != nil {
		return nil, nil, types.ErrOperatorExists.Wrapf("owner=%s, operator=%d", detail.OwnerRegID, existing.ID)
	}

	fee, err := k.paramKeeper.MustGetParam(ctx, sysparamtypes.DexOperatorRegisterFee)
	if err != nil {
		return nil, nil, err
	}
	receipts, err := k.chargeOperatorFee(ctx, registrant, fee)
	if err != nil {
		return nil, nil, err
	}

	detail.ID = k.nextOperatorID(ctx)
	if err := k.setOperator(ctx, &detail); err != nil {
		return nil, nil, err
	}
	if err := k.ledgerKeeper.SetAccount(ctx, registrant); err != nil {
		return nil, nil, err
	}
	k.logger.Info("operator registered", "id", detail.ID, "owner", detail.OwnerRegID.String(),
		"matcher", detail.MatcherRegID.String(), "name", detail.Name)
	return &detail, receipts, nil
}

// UpdateOperator replaces individual operator fields addressed by update
// keys, charging the update fee with the same split as registration. Only
// the current owner may update.
func (k Keeper) UpdateOperator(
	ctx context.Context,
	height int64,
	registrant *ledgertypes.Account,
	operatorID uint64,
	updates []types.OperatorUpdate,
) ([]ledgertypes.Receipt, error) {
	op, err := k.GetOperator(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	if op.OwnerRegID != registrant.RegID {
		return nil, types.ErrInvalidOperatorField.Wrapf("operator owner=%s, signer=%s", op.OwnerRegID, registrant.RegID)
	}
	if len(updates) == 0 {
		return nil, types.ErrInvalidOperatorField.Wrap("no updates")
	}

	oldOwner := op.OwnerRegID
	for _, u := range updates {
		switch u.Key {
		case types.OperatorUpdateOwner:
			if err := k.validateOperatorRegID(ctx, u.RegIDValue, height); err != nil {
				return nil, err
			}
			other, err := k.GetOperatorByOwner(ctx, u.RegIDValue)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != op.ID {
				return nil, types.ErrOperatorExists.Wrapf("new owner=%s already owns operator %d", u.RegIDValue, other.ID)
			}
			op.OwnerRegID = u.RegIDValue
		case types.OperatorUpdateMatcher:
			if err := k.validateOperatorRegID(ctx, u.RegIDValue, height); err != nil {
				return nil, err
			}
			op.MatcherRegID = u.RegIDValue
		case types.OperatorUpdateName:
			if u.StringValue == "" {
				return nil, types.ErrInvalidOperatorField.Wrap("empty operator name")
			}
			op.Name = u.StringValue
		case types.OperatorUpdatePortal:
			op.Portal = u.StringValue
		case types.OperatorUpdateMakerFeeRatio:
			if err := k.validateOperatorFeeRatios(ctx, u.Uint64Value, 0); err != nil {
				return nil, err
			}
			op.MakerFeeRatio = u.Uint64Value
		case types.OperatorUpdateTakerFeeRatio:
			if err := k.validateOperatorFeeRatios(ctx, u.Uint64Value, 0); err != nil {
				return nil, err
			}
			op.TakerFeeRatio = u.Uint64Value
		case types.OperatorUpdateMemo:
			op.Memo = u.StringValue
		default:
			return nil, types.ErrInvalidOperatorField.Wrapf("unknown update key %d", u.Key)
		}
	}

	fee, err := k.paramKeeper.MustGetParam(ctx, sysparamtypes.DexOperatorUpdateFee)
	if err != nil {
		return nil, err
	}
	receipts, err := k.chargeOperatorFee(ctx, registrant, fee)
	if err != nil {
		return nil, err
	}

	if oldOwner != op.OwnerRegID {
		k.getStore(ctx).Delete(types.OperatorOwnerKey(oldOwner))
	}
	if err := k.setOperator(ctx, op); err != nil {
		return nil, err
	}
	if err := k.ledgerKeeper.SetAccount(ctx, registrant); err != nil {
		return nil, err
	}
	return receipts, nil
}

// chargeOperatorFee deducts the fee from the payer and splits it: a fixed
// ratio to the risk reserve, the remainder divided evenly across the active
// delegates with division dust to the first.
func (k Keeper) chargeOperatorFee(ctx context.Context, payer *ledgertypes.Account, fee uint64) ([]ledgertypes.Receipt, error) {
	if fee == 0 {
		return nil, nil
	}
	if !payer.OperateBalance(assettypes.BaseCoin, ledgertypes.SubFree, fee) {
		return nil, types.ErrInsufficientBalance.Wrapf("fee=%d %s, free=%d",
			fee, assettypes.BaseCoin, payer.GetFree(assettypes.BaseCoin))
	}

	riskRatio, err := k.paramKeeper.MustGetParam(ctx, sysparamtypes.RiskFeeRatio)
	if err != nil {
		return nil, err
	}
	// a risk ratio at or above the base scale routes the whole fee to the
	// reserve; computing first would underflow the delegate remainder
	riskAmount := fee
	if riskRatio < assettypes.RatioBaseBoost {
		riskAmount, err = mulDivUint64(fee, riskRatio, assettypes.RatioBaseBoost)
		if err != nil {
			return nil, types.ErrAmountOverflow.Wrapf("risk share: %v", err)
		}
	}

	var receipts []ledgertypes.Receipt
	riskRegID, err := k.ledgerKeeper.GetNamedAccount(ctx, ledgertypes.RiskReserveAccount)
	if err != nil {
		return nil, err
	}
	if riskAmount > 0 {
		riskAcc, err := k.ledgerKeeper.GetAccountByRegID(ctx, riskRegID)
		if err != nil {
			return nil, err
		}
		if !riskAcc.OperateBalance(assettypes.BaseCoin, ledgertypes.AddFree, riskAmount) {
			return nil, types.ErrAmountOverflow.Wrap("risk reserve credit overflow")
		}
		if err := k.ledgerKeeper.SetAccount(ctx, riskAcc); err != nil {
			return nil, err
		}
		receipts = append(receipts, ledgertypes.NewReceipt(payer.RegID, riskRegID,
			assettypes.BaseCoin, riskAmount, ledgertypes.DexOperatorFeeToReserve))
	}

	remainder := fee - riskAmount
	if remainder == 0 {
		return receipts, nil
	}
	delegates, err := k.delegateKeeper.GetActiveDelegates(ctx)
	if err != nil {
		return nil, err
	}
	share := remainder / uint64(len(delegates))
	dust := remainder % uint64(len(delegates))
	for i, regID := range delegates {
		amount := share
		if i == 0 {
			amount += dust
		}
		if amount == 0 {
			continue
		}
		acc, err := k.ledgerKeeper.GetAccountByRegID(ctx, regID)
		if err != nil {
			return nil, err
		}
		if !acc.OperateBalance(assettypes.BaseCoin, ledgertypes.AddFree, amount) {
			return nil, types.ErrAmountOverflow.Wrap("delegate credit overflow")
		}
		if err := k.ledgerKeeper.SetAccount(ctx, acc); err != nil {
			return nil, err
		}
		receipts = append(receipts, ledgertypes.NewReceipt(payer.RegID, regID,
			assettypes.BaseCoin, amount, ledgertypes.DexOperatorFeeToDelegate))
	}
	return receipts, nil
}

// validateOperatorRegID requires the regid to resolve to a registered
// account whose registration height is strictly below the current height.
func (k Keeper) validateOperatorRegID(ctx context.Context, regID ledgertypes.RegID, height int64) error {
	if regID.IsEmpty() {
		return types.ErrInvalidOperatorField.Wrap("empty regid")
	}
	if _, err := k.ledgerKeeper.GetAccountByRegID(ctx, regID); err != nil {
		return err
	}
	if int64(regID.Height) >= height {
		return types.ErrRegIDNotMature.Wrapf("regid=%s, height=%d", regID, height)
	}
	return nil
}

func (k Keeper) validateOperatorFeeRatios(ctx context.Context, ratios ...uint64) error {
	max, err := k.paramKeeper.MustGetParam(ctx, sysparamtypes.DexOrderFeeRatioMax)
	if err != nil {
		return err
	}
	for _, r := range ratios {
		if r > max {
			return types.ErrFeeRatioTooHigh.Wrapf("fee_ratio=%d, max=%d", r, max)
		}
	}
	return nil
}
