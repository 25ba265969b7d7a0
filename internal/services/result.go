package services

import (
	"errors"

	"expense-tracker/internal/core"
	"expense-tracker/internal/storage"
)

// Reason classifies why an operation failed.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonValidation
	ReasonNotFound
	ReasonUnavailable
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonValidation:
		return "validation"
	case ReasonNotFound:
		return "not_found"
	case ReasonUnavailable:
		return "unavailable"
	}
	return "unknown"
}

// Result is the outcome of a persistence call. A failed result still carries
// a usable Value (an empty list for fetches), so callers that only want the
// data can ignore the error.
type Result[T any] struct {
	Value  T
	Reason Reason
	Err    error
}

func (r Result[T]) OK() bool { return r.Err == nil }

func success[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

func failure[T any](v T, err error) Result[T] {
	return Result[T]{Value: v, Reason: classify(err), Err: err}
}

var validationErrors = []error{
	core.ErrEmptyID,
	core.ErrInvalidDate,
	core.ErrInvalidAmount,
	core.ErrEmptyDescription,
	core.ErrDescriptionTooLong,
	core.ErrInvalidCategory,
	core.ErrInvalidPaymentMethod,
	storage.ErrDuplicateID,
}

func classify(err error) Reason {
	switch {
	case err == nil:
		return ReasonNone
	case errors.Is(err, storage.ErrNotFound):
		return ReasonNotFound
	}
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return ReasonValidation
		}
	}
	return ReasonUnavailable
}
