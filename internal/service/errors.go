package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"go-blog-app/internal/data"
)

// The workflow operations report failures as values from this small taxonomy.
// Callers are expected to branch with errors.Is / errors.As; the presentation
// layer decides how each kind is surfaced (it may deliberately render Denied
// and NotFound identically, but the distinction is always available here).
var (
	// ErrNotFound means the referenced entity id does not resolve. It is
	// the same sentinel the repositories return, so a repository miss
	// passes through workflow operations unchanged.
	ErrNotFound = data.ErrNotFound

	// ErrDenied means the authorization predicate rejected the viewer.
	// No mutation has taken place.
	ErrDenied = errors.New("denied")

	// ErrNoOp marks a read-only preview of a destructive operation, such
	// as a delete reached without confirmation. Nothing was mutated and
	// nothing went wrong.
	ErrNoOp = errors.New("no-op")
)

// ValidationError reports missing or malformed input fields. Fields maps the
// field name to a human-readable problem description.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}

// IsValidation reports whether err is a ValidationError and returns it.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
