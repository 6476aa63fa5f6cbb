package domain

import "errors"

// Domain errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInternalError       = errors.New("internal error")
	ErrUserNotFound        = errors.New("user not found")
	ErrWorkspaceNotFound   = errors.New("workspace not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrTitleRequired       = errors.New("title is required")
	ErrTitleTooLong        = errors.New("title exceeds maximum length")
	ErrTitleInvalid        = errors.New("title must contain only letters and spaces")
	ErrCategoryRequired    = errors.New("category is required")
	ErrCategoryTooLong     = errors.New("category exceeds maximum length")
	ErrCategoryInvalid     = errors.New("category must contain only letters and spaces")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInvalidType         = errors.New("invalid transaction type")
	ErrInvalidPeriod       = errors.New("invalid filter period")
	ErrFutureDate          = errors.New("date cannot be in the future")
	ErrNoFieldsToUpdate    = errors.New("no fields to update")
)

// Validation constants
const (
	MaxTitleLength    = 255
	MaxCategoryLength = 100
)
