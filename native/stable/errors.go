package stable

import "errors"

var (
	// ErrUnauthorized is returned when a caller other than the paired
	// collateral ledger invokes a mint or burn entry point.
	ErrUnauthorized = errors.New("stable: caller not authorized")
	// ErrInsufficientBalance is returned when an account cannot cover a
	// burn or transfer.
	ErrInsufficientBalance = errors.New("stable: not enough balance")
	// ErrZeroAmount rejects zero amount parameters for transfers.
	ErrZeroAmount = errors.New("stable: amount must be positive")
	// ErrSelfTransfer rejects transfers where sender and receiver match.
	ErrSelfTransfer = errors.New("stable: sender and receiver must differ")
	// ErrAmountOverflow is returned when a balance or supply update leaves
	// the unsigned 128-bit range.
	ErrAmountOverflow = errors.New("stable: amount outside u128 range")
	// ErrNotInitialized is returned when the ledger store has no metadata
	// record yet.
	ErrNotInitialized = errors.New("stable: ledger not initialized")
	// ErrAlreadyInitialized rejects double initialization.
	ErrAlreadyInitialized = errors.New("stable: ledger already initialized")
)
