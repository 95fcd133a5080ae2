package entity

import "errors"

var (
	ErrProfileNotFound = errors.New("difficulty profile not found")
	ErrInvalidItemRef  = errors.New("invalid item reference")
	ErrEmptyBatch      = errors.New("empty batch")

	// ErrStorage marks persistence failures so callers can tell them
	// apart from domain errors with errors.Is.
	ErrStorage = errors.New("storage failure")
)
