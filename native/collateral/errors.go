package collateral

import "errors"

var (
	// ErrUnauthorized is returned when a caller invokes an owner-only or
	// peer-only entry point.
	ErrUnauthorized = errors.New("collateral: caller not authorized")
	// ErrPriceMissing is returned when a price-dependent operation runs
	// before the oracle submitted the required price.
	ErrPriceMissing = errors.New("collateral: no price data from oracle")
	// ErrInsufficientBalance is returned when the free balance cannot cover
	// a debit.
	ErrInsufficientBalance = errors.New("collateral: not enough unstaked balance")
	// ErrInsufficientStake is returned when the staked balance cannot cover
	// an unstake.
	ErrInsufficientStake = errors.New("collateral: not enough staked tokens")
	// ErrInsufficientAllowance is returned when an escrow transfer exceeds
	// the granted allowance.
	ErrInsufficientAllowance = errors.New("collateral: not enough allowance")
	// ErrSelfAllowance rejects allowances granted to the owner itself.
	ErrSelfAllowance = errors.New("collateral: can't set allowance for yourself")
	// ErrZeroAmount rejects zero amount parameters outright.
	ErrZeroAmount = errors.New("collateral: amount must be positive")
	// ErrParseAmount is returned for malformed numeric string input.
	ErrParseAmount = errors.New("collateral: malformed numeric input")
	// ErrAmountOverflow is returned when a balance or supply update leaves
	// the unsigned 128-bit range.
	ErrAmountOverflow = errors.New("collateral: amount outside u128 range")
	// ErrAccountBalancePositive rejects unforced deregistration of accounts
	// that still hold tokens.
	ErrAccountBalancePositive = errors.New("collateral: can't unregister account with positive balance without force")
	// ErrNotInitialized is returned when the ledger store has no metadata
	// record yet.
	ErrNotInitialized = errors.New("collateral: ledger not initialized")
	// ErrAlreadyInitialized rejects double initialization.
	ErrAlreadyInitialized = errors.New("collateral: ledger already initialized")
)
