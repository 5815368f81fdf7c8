package collateral

import (
	"fmt"
	"math/big"
	"strings"
)

// maxUint128 bounds every balance, supply and price value. The ledgers store
// unsigned 128-bit quantities; big.Int is only the carrier.
var maxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

// ParseAmount parses a decimal string into an unsigned 128-bit amount.
func ParseAmount(raw string) (*big.Int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty string", ErrParseAmount)
	}
	value, ok := new(big.Int).SetString(trimmed, 10)
	if !ok || value.Sign() < 0 {
		return nil, fmt.Errorf("%w: %q", ErrParseAmount, raw)
	}
	if value.Cmp(maxUint128) > 0 {
		return nil, fmt.Errorf("%w: %q", ErrAmountOverflow, raw)
	}
	return value, nil
}

// checkRange verifies the value stays inside the unsigned 128-bit range.
func checkRange(value *big.Int) error {
	if value.Sign() < 0 || value.Cmp(maxUint128) > 0 {
		return ErrAmountOverflow
	}
	return nil
}

// checkedAdd returns a+b, failing when the sum leaves the u128 range.
func checkedAdd(a, b *big.Int) (*big.Int, error) {
	sum := new(big.Int).Add(a, b)
	if err := checkRange(sum); err != nil {
		return nil, err
	}
	return sum, nil
}

// checkedSub returns a-b, failing with notEnough when b exceeds a.
func checkedSub(a, b *big.Int, notEnough error) (*big.Int, error) {
	if a.Cmp(b) < 0 {
		return nil, notEnough
	}
	return new(big.Int).Sub(a, b), nil
}

func cloneAmount(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}
