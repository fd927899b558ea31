package services

import "errors"

// Domain errors recovered at the service boundary and mapped to HTTP status
// codes by the handlers. Check with errors.Is; store failures are wrapped
// with %w instead.
var (
	ErrInvalidReferralCode = errors.New("referral code is not valid")
	ErrReferralInactive    = errors.New("referral code is no longer active")
	ErrSelfReferral        = errors.New("self referral is not allowed")
	ErrDuplicateEmail      = errors.New("an account with this email already exists")
	ErrInsufficientBalance = errors.New("insufficient available points")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidEntryType    = errors.New("unknown ledger entry type")
	ErrNegativeAmount      = errors.New("amount must not be negative")
)
