package domain

import "errors"

// Common domain errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInternalServer = errors.New("internal server error")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("token invalid")
)

// StatsErrors
var (
	ErrMissingUserID        = errors.New("userId is required")
	ErrLoanStoreUnavailable = errors.New("loan store unavailable")
)

// LoanErrors
var (
	ErrLoanNotFound    = errors.New("loan not found")
	ErrPaymentNotFound = errors.New("payment not found")
	ErrNotLoanOwner    = errors.New("loan does not belong to user")
)
