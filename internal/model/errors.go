package model

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks candidate or offer data the scorer cannot use.
var ErrInvalidInput = errors.New("invalid input")

// RepositoryError wraps a skill repository failure so retry logic can inspect it.
type RepositoryError struct {
	Op        string // "lookup", "upsert", ...
	Slug      string
	Transient bool // true when the same call may succeed later (busy, connection reset)
	Err       error
}

func (e *RepositoryError) Error() string {
	if e.Slug != "" {
		return fmt.Sprintf("repository %s %q: %v", e.Op, e.Slug, e.Err)
	}
	return fmt.Sprintf("repository %s: %v", e.Op, e.Err)
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}
