// Package errors provides error handling for hipgen.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints and details for user-facing remediation
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "run 'hipgen generate' to update")
//
//	// Check errors
//	if errors.Is(err, errors.ErrOutOfDate) {
//	    // handle stale outputs
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is            = crdb.Is
	IsAny         = crdb.IsAny
	As            = crdb.As
	Unwrap        = crdb.Unwrap
	UnwrapOnce    = crdb.UnwrapOnce
	UnwrapAll     = crdb.UnwrapAll
	GetAllHints   = crdb.GetAllHints
	GetAllDetails = crdb.GetAllDetails
	FlattenHints  = crdb.FlattenHints
)

// Assertions
var (
	AssertionFailedf                 = crdb.AssertionFailedf
	NewAssertionErrorWithWrappedErrf = crdb.NewAssertionErrorWithWrappedErrf
)

// Common sentinel errors for use across hipgen.
// Use these with errors.Is() for type-safe error checking.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrUnknownLanguage indicates a target language no generator is registered for
	ErrUnknownLanguage = New("unknown target language")

	// ErrUnsupportedOrder indicates a derivative order outside the dispatch range
	ErrUnsupportedOrder = New("unsupported derivative order")

	// ErrOutOfDate indicates committed generated outputs differ from a fresh run
	ErrOutOfDate = New("generated outputs are out of date")

	// ErrInvalidConfig indicates the loaded configuration failed validation
	ErrInvalidConfig = New("invalid configuration")
)

// IsUnsupportedOrderError checks if an error is or wraps ErrUnsupportedOrder
func IsUnsupportedOrderError(err error) bool {
	return err != nil && Is(err, ErrUnsupportedOrder)
}

// IsOutOfDateError checks if an error is or wraps ErrOutOfDate
func IsOutOfDateError(err error) bool {
	return err != nil && Is(err, ErrOutOfDate)
}

// NewUnsupportedOrder creates an unsupported-order error naming the order,
// matching the wording of the runtime error in generated code.
func NewUnsupportedOrder(order int) error {
	return Wrapf(ErrUnsupportedOrder, "%dth derivatives not implemented", order)
}

// NewUnknownLanguage creates an unknown-language error naming the language.
func NewUnknownLanguage(lang string) error {
	return Wrapf(ErrUnknownLanguage, "no generator for language %q", lang)
}
