package services

import (
	"errors"

	"github.com/Govind-619/CoinSphere/utils"
)

// Error kinds returned by the services. Every AppError a service returns wraps exactly one of them.
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrApproval          = errors.New("approval invalid")
	ErrRateLimited       = errors.New("rate limited")
	ErrNotApproved       = errors.New("not approved")
	ErrConflict          = errors.New("conflict")
	ErrUnauthorized      = errors.New("unauthorized")
)

func validationError(message string) error {
	return utils.BadRequestError(message, ErrValidation)
}

func notFoundError(message string) error {
	return utils.NotFoundError(message, ErrNotFound)
}

func insufficientFundsError() error {
	return utils.BadRequestError("Insufficient balance", ErrInsufficientFunds)
}

func approvalError(message string) error {
	return utils.ForbiddenError(message, ErrApproval)
}

func rateLimitError(message string) error {
	return utils.TooManyRequestsError(message, ErrRateLimited)
}

func notApprovedError(message string) error {
	return utils.ForbiddenError(message, ErrNotApproved)
}

func conflictError(message string) error {
	return utils.ConflictError(message, ErrConflict)
}

func unauthorizedError(message string) error {
	return utils.UnauthorizedError(message, ErrUnauthorized)
}
