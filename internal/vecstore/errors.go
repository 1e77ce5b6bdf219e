package vecstore

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a lookup or delete references an unknown ID.
	ErrNotFound = errors.New("vector not found")
	// ErrDuplicateID is returned by the raw ID assignment when the ID is already mapped.
	ErrDuplicateID = errors.New("id already assigned")
	// ErrEmptyIndex is returned when searching a store with zero live entries.
	ErrEmptyIndex = errors.New("index is empty")
	// ErrClosed is returned when the store is used after Close.
	ErrClosed = errors.New("store is closed")
)

// DimensionError indicates a vector whose length does not match the store dimension.
type DimensionError struct {
	Expected int
	Actual   int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// ValueError indicates a non-finite vector element.
type ValueError struct {
	Position int
	Value    float64
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("invalid vector value at position %d: %v", e.Position, e.Value)
}
