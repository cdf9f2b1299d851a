// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"errors"
	"fmt"
)

// Sentinel kinds. Every typed error matches its kind with errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrUpstream     = errors.New("upstream failure")
	ErrRaceExceeded = errors.New("race condition retries exhausted")
)

// ErrTitleNotFound is returned by vector stores for titles without an embedding.
var ErrTitleNotFound = errors.New("title not found")

// ValidationError reports input rejected before any I/O.
type ValidationError struct {
	Op  string
	Msg string
	Err error
}

func (e *ValidationError) Error() string { return format(e.Op, e.Msg, e.Err) }
func (e *ValidationError) Unwrap() error { return e.Err }
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFoundError reports a source title without a stored embedding.
type NotFoundError struct {
	Op  string
	Msg string
	Err error
}

func (e *NotFoundError) Error() string { return format(e.Op, e.Msg, e.Err) }
func (e *NotFoundError) Unwrap() error { return e.Err }
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// UpstreamError reports a failure of the vector store, the relational store
// or the embedding provider. Op names the failing operation for logs.
type UpstreamError struct {
	Op  string
	Msg string
	Err error
}

func (e *UpstreamError) Error() string { return format(e.Op, e.Msg, e.Err) }
func (e *UpstreamError) Unwrap() error { return e.Err }
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}

// RaceConditionError reports that an embedding insert kept conflicting
// after all retries.
type RaceConditionError struct {
	Op  string
	Msg string
	Err error
}

func (e *RaceConditionError) Error() string { return format(e.Op, e.Msg, e.Err) }
func (e *RaceConditionError) Unwrap() error { return e.Err }
func (e *RaceConditionError) Is(target error) bool {
	return target == ErrRaceExceeded
}

func format(op, msg string, err error) string {
	s := msg
	if op != "" {
		s = op + ": " + msg
	}
	if err != nil {
		s = fmt.Sprintf("%s: %v", s, err)
	}
	return s
}

// Validationf builds a ValidationError.
func Validationf(op, format string, args ...interface{}) error {
	return &ValidationError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Upstream wraps err as an UpstreamError unless it already carries a domain kind.
func Upstream(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsDomainError(err) {
		return err
	}
	return &UpstreamError{Op: op, Msg: "upstream call failed", Err: err}
}

// IsDomainError reports whether err carries one of the domain kinds.
func IsDomainError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUpstream) ||
		errors.Is(err, ErrRaceExceeded)
}

// ErrorKind returns a short label for metrics, or "" for nil.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrRaceExceeded):
		return "race_condition"
	case errors.Is(err, ErrUpstream):
		return "upstream"
	default:
		return "other"
	}
}
