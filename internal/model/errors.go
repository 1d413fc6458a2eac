package model

import (
	"errors"
	"fmt"
)

// Kind-level errors. Every failure of a ledger operation wraps exactly one of these,
// so callers match with errors.Is.
var (
	ErrValidation          = errors.New("validation error")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrStaleReference      = errors.New("stale reference")
	ErrWriteFailure        = errors.New("write failure")
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrEntryNotFound       = errors.New("entry not found")
	ErrWalletNotEmpty      = errors.New("wallet balance is not zero")
)

var (
	ErrCurrencyMismatch = fmt.Errorf("%w: currency mismatch", ErrValidation)
	ErrSameWallet       = fmt.Errorf("%w: source and destination wallet are the same", ErrValidation)
	ErrConflict         = fmt.Errorf("%w: entry changed since it was read", ErrStaleReference)
	ErrWalletArchived   = fmt.Errorf("%w: wallet is not active", ErrStaleReference)
)
