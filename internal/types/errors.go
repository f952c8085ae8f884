package types

import (
	"fmt"
)

// ErrQuotaExceeded indicates the user has used up a monthly allowance
type ErrQuotaExceeded struct {
	Kind   QuotaKind
	Period string
	Limit  int
	Used   int
}

func (e *ErrQuotaExceeded) Error() string {
	return fmt.Sprintf("quota exceeded for %s in %s: %d/%d", e.Kind, e.Period, e.Used, e.Limit)
}

// ErrNotFound indicates a resource does not exist or is not owned by the caller
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrConflict indicates a concurrent write changed the row first
type ErrConflict struct {
	Resource string
	ID       string
}

func (e *ErrConflict) Error() string {
	return fmt.Sprintf("%s %s was modified concurrently", e.Resource, e.ID)
}
