package dao

import "errors"

var (
	// ErrInsufficientBalance is returned when a guarded debit finds less than the requested amount
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrGuardFailed is returned when a conditional update matched no row
	ErrGuardFailed = errors.New("conditional update matched no row")
)
