package keeper

import (
	"fmt"

	"cosmossdk.io/math"
)

// mulDivUint64 computes a*b/c in widened arithmetic and checks the result
// still fits uint64.
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

// absDiff returns |a-b| without signed conversion.
func absDiff(a, b uint64) uint64 {
	if a > b {
		return a - b
	}
	return b - a
}
