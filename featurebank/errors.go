package featurebank

import (
	"errors"
	"fmt"
)

var (
	// ErrEmpty is returned when a bank is constructed from zero rows.
	ErrEmpty = errors.New("feature bank must contain at least one row")

	// ErrZeroDimension is returned when the first row carries an empty vector.
	ErrZeroDimension = errors.New("feature vectors must have at least one dimension")
)

// ErrDimensionMismatch indicates that a row's vector does not match the
// bank's embedding dimension.
type ErrDimensionMismatch struct {
	Index    int // row position in construction order
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch at row %d: expected %d, got %d", e.Index, e.Expected, e.Actual)
}

// ErrShapeMismatch indicates that parallel label/vector sequences have
// different lengths.
type ErrShapeMismatch struct {
	Labels  int
	Vectors int
}

func (e *ErrShapeMismatch) Error() string {
	return fmt.Sprintf("shape mismatch: %d labels, %d vectors", e.Labels, e.Vectors)
}

// ErrIndexOutOfRange indicates an out-of-range row access.
type ErrIndexOutOfRange struct {
	Index int
	Size  int
}

func (e *ErrIndexOutOfRange) Error() string {
	return fmt.Sprintf("index %d out of range [0, %d)", e.Index, e.Size)
}
