package eviction

import (
	"errors"
	"fmt"
)

// ErrInconsistentSelection is matched by every ConsistencyError.
var ErrInconsistentSelection = errors.New("eviction selection is inconsistent with usage")

// ErrPartitionMismatch reports a summary whose retained and deleted sets do not
// add up to the original inventory.
var ErrPartitionMismatch = errors.New("retained and deleted artifacts do not partition the inventory")

// ConsistencyError is returned when usage exceeds the limit but no artifact was selected.
type ConsistencyError struct {
	Count      int
	TotalBytes int64
	LimitBytes int64
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("%v: %d artifacts totalling %d bytes exceed limit %d but none were selected",
		ErrInconsistentSelection, e.Count, e.TotalBytes, e.LimitBytes)
}

func (e *ConsistencyError) Unwrap() error {
	return ErrInconsistentSelection
}

// DuplicateArtifactError is returned when an inventory lists the same id twice.
type DuplicateArtifactError struct {
	ID int64
}

func (e *DuplicateArtifactError) Error() string {
	return fmt.Sprintf("%v: artifact %d appears more than once in the inventory", ErrInconsistentSelection, e.ID)
}

func (e *DuplicateArtifactError) Unwrap() error {
	return ErrInconsistentSelection
}
