package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates the caller could not be authenticated.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the caller is authenticated but not permitted to perform the action.
var ErrForbidden = errors.New("forbidden")

// ErrConflict indicates the operation could not complete due to a concurrent
// write or a state the operation cannot proceed from. Callers may retry.
var ErrConflict = errors.New("conflict")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// ErrUnavailable indicates the storage layer could not be reached. Callers may retry with backoff.
var ErrUnavailable = errors.New("service unavailable")

// Ledger error kinds.
var (
	// ErrInvalidAmount indicates a transfer amount that is not a positive integer.
	ErrInvalidAmount = errors.New("amount must be a positive integer")

	// ErrSelfTransfer indicates an attempt to move coins from an account to itself.
	ErrSelfTransfer = errors.New("cannot transfer coins to the same account")

	// ErrInsufficientBalance indicates the debited account does not hold enough coins.
	ErrInsufficientBalance = errors.New("insufficient coin balance")
)

// Session and seal error kinds.
var (
	// ErrDuplicateBarcode indicates the seal barcode is already in use.
	ErrDuplicateBarcode = errors.New("seal barcode already in use")

	// ErrAlreadySealed indicates the session already has a seal attached.
	ErrAlreadySealed = errors.New("session already sealed")

	// ErrAlreadyVerified indicates the seal has already been verified.
	ErrAlreadyVerified = errors.New("seal already verified")
)

// Identity error kinds.
var (
	// ErrHasDependents indicates the account has provisioned other accounts and cannot be deleted.
	ErrHasDependents = errors.New("account has dependent accounts")

	// ErrNoSystemAccount indicates no designated system account exists to
	// receive session-start debits. This is a deployment configuration fault.
	ErrNoSystemAccount = errors.New("no system account configured")
)

// AppError wraps a lower-layer failure with a code and message for logging
// and transport mapping. Storage-layer repositories use this for unexpected
// database errors so the cause survives the trip up the stack.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the wrapped error for errors.Is/errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}
