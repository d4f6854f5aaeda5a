package keeper

import (
	"fmt"

	"cosmossdk.io/math"
)

// mulDivUint64 computes a*b/c in widened arithmetic and checks the result
// still fits uint64. Division by zero and overflow are hard errors.
func mulDivUint64(a, b, c uint64) (uint64, error) {
	if c == 0 {
		return 0, fmt.Errorf("division by zero")
	}
	result := math.NewIntFromUint64(a).Mul(math.NewIntFromUint64(b)).Quo(math.NewIntFromUint64(c))
	if !result.IsUint64() {
		return 0, fmt.Errorf("result %s exceeds uint64 range", result.String())
	}
	return result.Uint64(), nil
}

// addUint64 adds with overflow checking.
func addUint64(a, b uint64) (uint64, error) {
	if a > ^uint64(0)-b {
		return 0, fmt.Errorf("uint64 addition overflow")
	}
	return a + b, nil
}

// collateralRatio computes staked*price/PriceBoost * RatioBoost / owed, the
// live collateral ratio in RatioBoost scale. Zero owed reads as infinite.
func collateralRatio(staked, owed, price, priceBoost, ratioBoost uint64) uint64 {
	if owed == 0 {
		return ^uint64(0)
	}
	value := math.NewIntFromUint64(staked).Mul(math.NewIntFromUint64(price))
	ratio := value.Mul(math.NewIntFromUint64(ratioBoost)).
		Quo(math.NewIntFromUint64(priceBoost)).
		Quo(math.NewIntFromUint64(owed))
	if !ratio.IsUint64() {
		return ^uint64(0)
	}
	return ratio.Uint64()
}
