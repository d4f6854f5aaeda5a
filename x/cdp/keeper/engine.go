package keeper

import (
	"context"

	assettypes "github.com/perch-chain/perch/x/asset/types"
	"github.com/perch-chain/perch/x/cdp/types"
	ledgertypes "github.com/perch-chain/perch/x/ledger/types"
	sysparamtypes "github.com/perch-chain/perch/x/sysparam/types"
)

// systemRegID marks mint/burn movements in receipts.
var systemRegID = ledgertypes.RegID{}

// StakeBcoins opens a new position or adds to the owner's existing one for
// the pair. The collateral leaves the owner's free balance and the minted
// stablecoins are credited to it. The owner account is persisted here;
// atomicity comes from the per-transaction overlay.
func (k Keeper) StakeBcoins(
	ctx context.Context,
	txid []byte,
	height int64,
	owner *ledgertypes.Account,
	bcoinSymbol, scoinSymbol string,
	bcoinsToStake, scoinsToMint uint64,
) ([]ledgertypes.Receipt, error) {
	if k.GetActivationStatus(ctx, bcoinSymbol) != types.Activated {
		return nil, types.ErrCollateralNotActivated.Wrapf("symbol=%s", bcoinSymbol)
	}
	if scoinSymbol != assettypes.StableCoin {
		return nil, types.ErrInvalidDebtSymbol.Wrapf("symbol=%s", scoinSymbol)
	}
	if bcoinsToStake == 0 && scoinsToMint == 0 {
		return nil, types.ErrAmountTooSmall.Wrap("nothing to stake or mint")
	}

	existing, err := k.GetUserCdp(ctx, owner.RegID, bcoinSymbol, scoinSymbol)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		stakeMin, err := k.paramKeeper.MustGetParam(ctx, sysparamtypes.CdpBcoinStakeMin)
		if err != nil {
			return nil, err
		}
		mintMin, err := k.paramKeeper.MustGetParam(ctx, sysparamtypes.CdpScoinMintMin)
		if err != nil {
			return nil, err
		}
		if bcoinsToStake < stakeMin {
			return nil, types.ErrAmountTooSmall.Wrapf("stake=%d, min=%d", bcoinsToStake, stakeMin)
		}
		if scoinsToMint < mintMin {
			return nil, types.ErrAmountTooSmall.Wrapf("mint=%d, min=%d", scoinsToMint, mintMin)
		}
	}

	price, err := k.medianPrice(ctx, height, bcoinSymbol, scoinSymbol)
	if err != nil {
		return nil, err
	}

	var oldStaked, oldOwed uint64
	if existing != nil {
		oldStaked = existing.TotalStakedBcoins
		oldOwed = existing.TotalOwedScoins
	}
	newStaked, err := addUint64(oldStaked, bcoinsToStake)
	if err != nil {
		return nil, types.ErrAmountOverflow.Wrapf("staked=%d, delta=%d", oldStaked, bcoinsToStake)
	}
	newOwed, err := addUint64(oldOwed, scoinsToMint)
	if err != nil {
		return nil, types.ErrAmountOverflow.Wrapf("owed=%d, delta=%d", oldOwed, scoinsToMint)
	}

	startRatio, err := k.paramKeeper.MustGetParam(ctx, sysparamtypes.CdpStartCollateralRatio)
	if err != nil {
		return nil, err
	}
	ratio := collateralRatio(newStaked, newOwed, price, assettypes.PriceBoost, assettypes.RatioBoost)
	if ratio < startRatio {
		return nil, types.ErrRatioBelowStart.Wrapf("ratio=%d, required=%d, price=%d", ratio, startRatio, price)
	}

	global, err := k.GetGlobalData(ctx, bcoinSymbol, scoinSymbol)
	if err != nil {
		return nil, err
	}
	globalStaked, err := addUint64(global.TotalStakedBcoins, bcoinsToStake)
	if err != nil {
		return nil, types.ErrAmountOverflow.Wrap("global staked overflow")
	}
	globalOwed, err := addUint64(global.TotalOwedScoins, scoinsToMint)
	if err != nil {
		return nil, types.ErrAmountOverflow.Wrap("global owed overflow")
	}
	ceiling, err := k.paramKeeper.MustGetParam(ctx, sysparamtypes.GlobalCollateralCeiling)
	if err != nil {
		return nil, err
	}
	if globalStaked > ceiling {
		return nil, types.ErrGlobalCeilingExceeded.Wrapf("staked=%d, ceiling=%d", globalStaked, ceiling)
	}
	if scoinsToMint > 0 {
		floor, err := k.paramKeeper.MustGetParam(ctx, sysparamtypes.GlobalCollateralFloor)
		if err != nil {
			return nil, err
		}
		globalRatio := collateralRatio(globalStaked, globalOwed, price, assettypes.PriceBoost, assettypes.RatioBoost)
		if globalRatio < floor {
			return nil, types.ErrGlobalRatioBelowFloor.Wrapf("ratio=%d, floor=%d", globalRatio, floor)
		}
	}

	if !owner.OperateBalance(bcoinSymbol, ledgertypes.SubFree, bcoinsToStake) {
		return nil, types.ErrInsufficientBalance.Wrapf("symbol=%s, need=%d, free=%d",
			bcoinSymbol, bcoinsToStake, owner.GetFree(bcoinSymbol))
	}
	if !owner.OperateBalance(scoinSymbol, ledgertypes.AddFree, scoinsToMint) {
		return nil, types.ErrAmountOverflow.Wrapf("mint credit overflow, symbol=%s", scoinSymbol)
	}
	if err := k.assetKeeper.AdjustSupply(ctx, scoinSymbol, int64(scoinsToMint)); err != nil {
		return nil, err
	}

	cdp := existing
	var prev *types.Cdp
	if cdp == nil {
		cdp = types.NewCdp(txid, owner.RegID, height, bcoinSymbol, scoinSymbol)
	} else {
		// snapshot the pre-update record so the stale index keys it carries
		// can be deleted
		p := *existing
		prev = &p
	}
	cdp.TotalStakedBcoins = newStaked
	cdp.TotalOwedScoins = newOwed
	cdp.BlockHeight = height
	if newOwed > 0 {
		cdp.CollateralRatioBase, err = mulDivUint64(newStaked, assettypes.RatioBaseBoost, newOwed)
		if err != nil {
			return nil, types.ErrAmountOverflow.Wrapf("ratio base: %v", err)
		}
	} else {
		// topping up a fully repaid position keeps it at infinite ratio
		cdp.CollateralRatioBase = ^uint64(0)
	}
	if err := k.saveCdp(ctx, cdp, prev); err != nil {
		return nil, err
	}

	global.TotalStakedBcoins = globalStaked
	global.TotalOwedScoins = globalOwed
	if err := k.setGlobalData(ctx, bcoinSymbol, scoinSymbol, global); err != nil {
		return nil, err
	}
	if err := k.ledgerKeeper.SetAccount(ctx, owner); err != nil {
		return nil, err
	}

	receipts := []ledgertypes.Receipt{
		ledgertypes.NewReceipt(owner.RegID, systemRegID, bcoinSymbol, bcoinsToStake, ledgertypes.CdpStakedAssetFromOwner),
		ledgertypes.NewReceipt(systemRegID, owner.RegID, scoinSymbol, scoinsToMint, ledgertypes.CdpMintedScoinToOwner),
	}
	k.logger.Debug("cdp staked", "cdpid", cdp.String(), "price", price)
	return receipts, nil
}

// RedeemBcoins repays owed stablecoins and withdraws collateral. When both
// sides reach zero the position closes tagged redeemed.
func (k Keeper) RedeemBcoins(
	ctx context.Context,
	txid []byte,
	height int64,
	owner *ledgertypes.Account,
	cdpid []byte,
	scoinsToRepay, bcoinsToRedeem uint64,
) ([]ledgertypes.Receipt, error) {
	cdp, err := k.GetCdp(ctx, cdpid)
	if err != nil {
		return nil, err
	}
	if cdp.OwnerRegID != owner.RegID {
		return nil, types.ErrNotCdpOwner.Wrapf("cdp owner=%s, signer=%s", cdp.OwnerRegID, owner.RegID)
	}
	if scoinsToRepay > cdp.TotalOwedScoins || bcoinsToRedeem > cdp.TotalStakedBcoins {
		return nil, types.ErrRedeemExceedsBalance.Wrapf("repay=%d/%d, redeem=%d/%d",
			scoinsToRepay, cdp.TotalOwedScoins, bcoinsToRedeem, cdp.TotalStakedBcoins)
	}

	newOwed := cdp.TotalOwedScoins - scoinsToRepay
	newStaked := cdp.TotalStakedBcoins - bcoinsToRedeem

	if newOwed > 0 {
		price, err := k.medianPrice(ctx, height, cdp.BcoinSymbol, cdp.ScoinSymbol)
		if err != nil {
			return nil, err
		}
		startRatio, err := k.paramKeeper.MustGetParam(ctx, sysparamtypes.CdpStartCollateralRatio)
		if err != nil {
			return nil, err
		}
		ratio := collateralRatio(newStaked, newOwed, price, assettypes.PriceBoost, assettypes.RatioBoost)
		if ratio < startRatio {
			return nil, types.ErrRatioBelowStart.Wrapf("ratio=%d, required=%d", ratio, startRatio)
		}
	}

	if !owner.OperateBalance(cdp.ScoinSymbol, ledgertypes.SubFree, scoinsToRepay) {
		return nil, types.ErrInsufficientBalance.Wrapf("symbol=%s, need=%d, free=%d",
			cdp.ScoinSymbol, scoinsToRepay, owner.GetFree(cdp.ScoinSymbol))
	}
	if !owner.OperateBalance(cdp.BcoinSymbol, ledgertypes.AddFree, bcoinsToRedeem) {
		return nil, types.ErrAmountOverflow.Wrapf("redeem credit overflow, symbol=%s", cdp.BcoinSymbol)
	}
	if err := k.assetKeeper.AdjustSupply(ctx, cdp.ScoinSymbol, -int64(scoinsToRepay)); err != nil {
		return nil, err
	}

	global, err := k.GetGlobalData(ctx, cdp.BcoinSymbol, cdp.ScoinSymbol)
	if err != nil {
		return nil, err
	}
	if global.TotalStakedBcoins < bcoinsToRedeem || global.TotalOwedScoins < scoinsToRepay {
		return nil, types.ErrWriteCdp.Wrap("global aggregate inconsistent with cdp deltas")
	}
	global.TotalStakedBcoins -= bcoinsToRedeem
	global.TotalOwedScoins -= scoinsToRepay

	prev := *cdp
	cdp.TotalStakedBcoins = newStaked
	cdp.TotalOwedScoins = newOwed
	cdp.BlockHeight = height

	if cdp.IsClosed() {
		if err := k.closeCdp(ctx, &prev, types.ClosedRedeemed, txid); err != nil {
			return nil, err
		}
	} else {
		if newOwed > 0 {
			cdp.CollateralRatioBase, err = mulDivUint64(newStaked, assettypes.RatioBaseBoost, newOwed)
			if err != nil {
				return nil, types.ErrAmountOverflow.Wrapf("ratio base: %v", err)
			}
		} else {
			cdp.CollateralRatioBase = ^uint64(0)
		}
		if err := k.saveCdp(ctx, cdp, &prev); err != nil {
			return nil, err
		}
	}

	if err := k.setGlobalData(ctx, cdp.BcoinSymbol, cdp.ScoinSymbol, global); err != nil {
		return nil, err
	}
	if err := k.ledgerKeeper.SetAccount(ctx, owner); err != nil {
		return nil, err
	}

	receipts := []ledgertypes.Receipt{
		ledgertypes.NewReceipt(owner.RegID, systemRegID, cdp.ScoinSymbol, scoinsToRepay, ledgertypes.CdpRepaidScoinFromOwner),
		ledgertypes.NewReceipt(systemRegID, owner.RegID, cdp.BcoinSymbol, bcoinsToRedeem, ledgertypes.CdpRedeemedAssetToOwner),
	}
	return receipts, nil
}

// LiquidateCdp lets a third party repay an undercollateralized position's
// debt in exchange for discounted collateral. A liquidation penalty on the
// repaid amount goes to the risk reserve in collateral units. Full repayment
// closes the position and returns residual collateral to the owner.
func (k Keeper) LiquidateCdp(
	ctx context.Context,
	txid []byte,
	height int64,
	liquidator *ledgertypes.Account,
	cdpid []byte,
	scoinsToLiquidate uint64,
	forced bool,
) ([]ledgertypes.Receipt, error) {
	cdp, err := k.GetCdp(ctx, cdpid)
	if err != nil {
		return nil, err
	}
	price, err := k.medianPrice(ctx, height, cdp.BcoinSymbol, cdp.ScoinSymbol)
	if err != nil {
		return nil, err
	}
	forceRatio, err := k.paramKeeper.MustGetParam(ctx, sysparamtypes.CdpForceLiquidateRatio)
	if err != nil {
		return nil, err
	}
	liveRatio := collateralRatio(cdp.TotalStakedBcoins, cdp.TotalOwedScoins, price, assettypes.PriceBoost, assettypes.RatioBoost)
	if liveRatio > forceRatio {
		return nil, types.ErrRatioAboveLiquidate.Wrapf("ratio=%d, threshold=%d, price=%d", liveRatio, forceRatio, price)
	}

	repay := scoinsToLiquidate
	if repay > cdp.TotalOwedScoins {
		repay = cdp.TotalOwedScoins
	}
	if repay == 0 {
		return nil, types.ErrAmountTooSmall.Wrap("nothing to liquidate")
	}

	discount, err := k.paramKeeper.MustGetParam(ctx, sysparamtypes.CdpLiquidateDiscount)
	if err != nil {
		return nil, err
	}
	penaltyRatio, err := k.paramKeeper.MustGetParam(ctx, sysparamtypes.CdpPenaltyFeeRatio)
	if err != nil {
		return nil, err
	}

	// Collateral at market value for the repaid debt, then marked up by the
	// liquidation discount: repay*PriceBoost/price * RatioBoost/discount.
	marketBcoins, err := mulDivUint64(repay, assettypes.PriceBoost, price)
	if err != nil {
		return nil, types.ErrAmountOverflow.Wrapf("market collateral: %v", err)
	}
	seized, err := mulDivUint64(marketBcoins, assettypes.RatioBoost, discount)
	if err != nil {
		return nil, types.ErrAmountOverflow.Wrapf("seized collateral: %v", err)
	}
	if seized > cdp.TotalStakedBcoins {
		seized = cdp.TotalStakedBcoins
	}
	penaltyScoins, err := mulDivUint64(repay, penaltyRatio, assettypes.RatioBaseBoost)
	if err != nil {
		return nil, types.ErrAmountOverflow.Wrapf("penalty: %v", err)
	}
	penaltyBcoins, err := mulDivUint64(penaltyScoins, assettypes.PriceBoost, price)
	if err != nil {
		return nil, types.ErrAmountOverflow.Wrapf("penalty collateral: %v", err)
	}
	if penaltyBcoins > cdp.TotalStakedBcoins-seized {
		penaltyBcoins = cdp.TotalStakedBcoins - seized
	}

	if !liquidator.OperateBalance(cdp.ScoinSymbol, ledgertypes.SubFree, repay) {
		return nil, types.ErrInsufficientBalance.Wrapf("symbol=%s, need=%d, free=%d",
			cdp.ScoinSymbol, repay, liquidator.GetFree(cdp.ScoinSymbol))
	}
	if !liquidator.OperateBalance(cdp.BcoinSymbol, ledgertypes.AddFree, seized) {
		return nil, types.ErrAmountOverflow.Wrapf("seized credit overflow, symbol=%s", cdp.BcoinSymbol)
	}
	if err := k.assetKeeper.AdjustSupply(ctx, cdp.ScoinSymbol, -int64(repay)); err != nil {
		return nil, err
	}

	receipts := []ledgertypes.Receipt{
		ledgertypes.NewReceipt(liquidator.RegID, systemRegID, cdp.ScoinSymbol, repay, ledgertypes.CdpLiquidatedScoinFromUser),
		ledgertypes.NewReceipt(systemRegID, liquidator.RegID, cdp.BcoinSymbol, seized, ledgertypes.CdpLiquidatedAssetToUser),
	}

	riskRegID, err := k.ledgerKeeper.GetNamedAccount(ctx, ledgertypes.RiskReserveAccount)
	if err != nil {
		return nil, err
	}
	if penaltyBcoins > 0 {
		riskAcc, err := k.resolveAccount(ctx, riskRegID, liquidator)
		if err != nil {
			return nil, err
		}
		if !riskAcc.OperateBalance(cdp.BcoinSymbol, ledgertypes.AddFree, penaltyBcoins) {
			return nil, types.ErrAmountOverflow.Wrap("risk reserve credit overflow")
		}
		if riskAcc != liquidator {
			if err := k.ledgerKeeper.SetAccount(ctx, riskAcc); err != nil {
				return nil, err
			}
		}
		receipts = append(receipts,
			ledgertypes.NewReceipt(cdp.OwnerRegID, riskRegID, cdp.BcoinSymbol, penaltyBcoins, ledgertypes.CdpPenaltyToRiskReserve))
	}

	global, err := k.GetGlobalData(ctx, cdp.BcoinSymbol, cdp.ScoinSymbol)
	if err != nil {
		return nil, err
	}

	closedType := types.ClosedManuallyLiquidated
	if forced {
		closedType = types.ClosedForceLiquidated
	}

	if repay == cdp.TotalOwedScoins {
		residual := cdp.TotalStakedBcoins - seized - penaltyBcoins
		if residual > 0 {
			ownerAcc, err := k.resolveAccount(ctx, cdp.OwnerRegID, liquidator)
			if err != nil {
				return nil, err
			}
			if !ownerAcc.OperateBalance(cdp.BcoinSymbol, ledgertypes.AddFree, residual) {
				return nil, types.ErrAmountOverflow.Wrap("residual credit overflow")
			}
			if ownerAcc != liquidator {
				if err := k.ledgerKeeper.SetAccount(ctx, ownerAcc); err != nil {
					return nil, err
				}
			}
			receipts = append(receipts,
				ledgertypes.NewReceipt(systemRegID, cdp.OwnerRegID, cdp.BcoinSymbol, residual, ledgertypes.CdpLiquidatedAssetToOwner))
		}
		if global.TotalStakedBcoins < cdp.TotalStakedBcoins || global.TotalOwedScoins < cdp.TotalOwedScoins {
			return nil, types.ErrWriteCdp.Wrap("global aggregate inconsistent with cdp close")
		}
		global.TotalStakedBcoins -= cdp.TotalStakedBcoins
		global.TotalOwedScoins -= cdp.TotalOwedScoins
		if err := k.closeCdp(ctx, cdp, closedType, txid); err != nil {
			return nil, err
		}
	} else {
		removed := seized + penaltyBcoins
		if global.TotalStakedBcoins < removed || global.TotalOwedScoins < repay {
			return nil, types.ErrWriteCdp.Wrap("global aggregate inconsistent with partial liquidation")
		}
		global.TotalStakedBcoins -= removed
		global.TotalOwedScoins -= repay

		prev := *cdp
		cdp.TotalStakedBcoins -= removed
		cdp.TotalOwedScoins -= repay
		cdp.BlockHeight = height
		cdp.CollateralRatioBase, err = mulDivUint64(cdp.TotalStakedBcoins, assettypes.RatioBaseBoost, cdp.TotalOwedScoins)
		if err != nil {
			return nil, types.ErrAmountOverflow.Wrapf("ratio base: %v", err)
		}
		if err := k.saveCdp(ctx, cdp, &prev); err != nil {
			return nil, err
		}
	}

	if err := k.setGlobalData(ctx, cdp.BcoinSymbol, cdp.ScoinSymbol, global); err != nil {
		return nil, err
	}
	if err := k.ledgerKeeper.SetAccount(ctx, liquidator); err != nil {
		return nil, err
	}

	k.logger.Debug("cdp liquidated", "cdpid", cdp.String(), "repay", repay,
		"seized", seized, "penalty", penaltyBcoins, "closed_type", closedType.String())
	return receipts, nil
}

// resolveAccount returns hot when the regid addresses the same account,
// avoiding two divergent in-memory copies inside one operation.
func (k Keeper) resolveAccount(ctx context.Context, regID ledgertypes.RegID, hot *ledgertypes.Account) (*ledgertypes.Account, error) {
	if hot != nil && hot.RegID == regID {
		return hot, nil
	}
	return k.ledgerKeeper.GetAccountByRegID(ctx, regID)
}

func (k Keeper) medianPrice(ctx context.Context, height int64, bcoinSymbol, scoinSymbol string) (uint64, error) {
	window, err := k.paramKeeper.MustGetParam(ctx, sysparamtypes.PriceFeedWindow)
	if err != nil {
		return 0, err
	}
	return k.oracleKeeper.GetMedianPrice(ctx, height, window, bcoinSymbol, scoinSymbol)
}
