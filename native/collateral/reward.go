package collateral

import "math/big"

const secondsPerDay = 24 * 60 * 60

// accrue compounds the staking reward over the whole days elapsed between
// paidAt and now. It returns the new principal, the advanced checkpoint and
// whether anything accrued. The checkpoint only moves by whole days so the
// fractional remainder of the current day carries over to the next call.
//
// The elapsed days are consumed tier by tier: whole years against the yearly
// table, then whole months against the monthly table, then the remaining days
// against the daily table. Every multiplication is an exact integer
// numerator/denominator product floored to a token amount, matching the
// protocol's reference schedule bit for bit. Table indexes are clamped to the
// last entry so pathological checkpoints degrade to the maximum multiplier
// instead of trapping.
func accrue(principal *big.Int, paidAt, now uint64) (*big.Int, uint64, bool) {
	if principal == nil || principal.Sign() == 0 {
		return cloneAmount(principal), paidAt, false
	}
	if now <= paidAt {
		return cloneAmount(principal), paidAt, false
	}
	days := (now - paidAt) / secondsPerDay
	if days == 0 {
		return cloneAmount(principal), paidAt, false
	}
	paidAt += days * secondsPerDay

	out := cloneAmount(principal)
	if days > 365 {
		out = applyRatio(out, yearInterest[:], days/365)
		days %= 365
	}
	if days > 30 {
		out = applyRatio(out, monthInterest[:], days/30)
		days %= 30
	}
	if days > 0 {
		out = applyRatio(out, dayInterest[:], days)
	}
	return out, paidAt, true
}

// applyRatio multiplies the principal by table[idx]/ratioDenom, flooring the
// result to an integer token amount.
func applyRatio(principal *big.Int, table []uint64, idx uint64) *big.Int {
	if idx >= uint64(len(table)) {
		idx = uint64(len(table)) - 1
	}
	out := new(big.Int).Mul(principal, new(big.Int).SetUint64(table[idx]))
	return out.Quo(out, big.NewInt(ratioDenom))
}
