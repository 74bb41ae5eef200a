package spawn

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is matched by every ConfigError.
	ErrConfiguration = errors.New("invalid spawn configuration")

	// ErrEmptyTable is returned by Table.Draw when the table has no entries.
	ErrEmptyTable = errors.New("herb table is empty")

	// ErrPlacementFailed means rejection sampling ran out of retries for one slot.
	// Expected under high density; never aborts a cycle.
	ErrPlacementFailed = errors.New("no free position within retry budget")

	// ErrUnknownEntity is returned when a handle is not tracked by the registry.
	ErrUnknownEntity = errors.New("unknown entity")

	// ErrHarvestInProgress is returned for a second gather on the same handle.
	ErrHarvestInProgress = errors.New("harvest already in progress")

	// ErrNotInRange is returned when proximity is required and the player is not near the herb.
	ErrNotInRange = errors.New("entity not in interaction range")
)

// ConfigError describes a configuration problem that prevents a cycle from starting.
type ConfigError struct {
	Field  string
	Reason string
	Err    error // optional underlying cause
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrConfiguration, e.Field, e.Reason)
}

// Unwrap makes errors.Is match both ErrConfiguration and the cause.
func (e *ConfigError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrConfiguration}
	}
	return []error{ErrConfiguration, e.Err}
}

func configErrorf(field, format string, args ...any) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
