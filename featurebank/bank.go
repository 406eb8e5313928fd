// Package featurebank provides the immutable store of labeled feature
// vectors that episodic sampling draws from. A bank is built once from
// extraction output and is read-only afterwards, so it is safe to share
// across any number of concurrent readers.
package featurebank

import (
	"sync"

	"github.com/hupe1980/fewshot/internal/floats"
)

// Row is one labeled embedding.
//
// Vector aliases the bank's backing storage when returned from Get and must
// be treated as read-only.
type Row[L comparable] struct {
	Label  L
	Vector []float32
}

// Bank is an indexed, immutable collection of (label, vector) rows.
// All vectors share the same dimension. Labels may be any comparable type
// and need not be contiguous or ordered.
type Bank[L comparable] struct {
	dim     int
	labels  []L
	vectors []float32 // row-major, len = Len() * dim

	classOnce sync.Once
	classes   *ClassIndex[L]
}

// New constructs a bank from parallel sequences of labels and vectors.
// Vectors are copied into a single contiguous backing array.
func New[L comparable](labels []L, vectors [][]float32) (*Bank[L], error) {
	if len(labels) != len(vectors) {
		return nil, &ErrShapeMismatch{Labels: len(labels), Vectors: len(vectors)}
	}
	if len(labels) == 0 {
		return nil, ErrEmpty
	}

	dim := len(vectors[0])
	if dim == 0 {
		return nil, ErrZeroDimension
	}

	b := &Bank[L]{
		dim:     dim,
		labels:  make([]L, len(labels)),
		vectors: make([]float32, len(labels)*dim),
	}
	copy(b.labels, labels)

	for i, v := range vectors {
		if len(v) != dim {
			return nil, &ErrDimensionMismatch{Index: i, Expected: dim, Actual: len(v)}
		}
		copy(b.vectors[i*dim:(i+1)*dim], v)
	}

	return b, nil
}

// FromRows constructs a bank from a table of rows, preserving row order.
func FromRows[L comparable](rows []Row[L]) (*Bank[L], error) {
	labels := make([]L, len(rows))
	vectors := make([][]float32, len(rows))
	for i, r := range rows {
		labels[i] = r.Label
		vectors[i] = r.Vector
	}
	return New(labels, vectors)
}

// FromGroups constructs a bank from a mapping of label to vectors.
//
// Rows within a label keep their slice order; the order of labels follows
// map iteration and is therefore unspecified. Pair a bank built this way
// with a fixed sampler seed only if the label order does not matter, or
// build from rows/parallel sequences instead.
func FromGroups[L comparable](groups map[L][][]float32) (*Bank[L], error) {
	total := 0
	for _, vs := range groups {
		total += len(vs)
	}

	labels := make([]L, 0, total)
	vectors := make([][]float32, 0, total)
	for label, vs := range groups {
		for _, v := range vs {
			labels = append(labels, label)
			vectors = append(vectors, v)
		}
	}
	return New(labels, vectors)
}

// Len returns the number of rows in the bank.
func (b *Bank[L]) Len() int { return len(b.labels) }

// Dim returns the embedding dimension.
func (b *Bank[L]) Dim() int { return b.dim }

// Get returns the row at index i. The returned vector aliases the bank's
// storage and must not be modified.
func (b *Bank[L]) Get(i int) (Row[L], error) {
	if i < 0 || i >= len(b.labels) {
		return Row[L]{}, &ErrIndexOutOfRange{Index: i, Size: len(b.labels)}
	}
	return Row[L]{Label: b.labels[i], Vector: b.vectors[i*b.dim : (i+1)*b.dim]}, nil
}

// Label returns the label at index i without bounds checking.
// Callers must ensure i is in range.
func (b *Bank[L]) Label(i int) L { return b.labels[i] }

// Vector returns a read-only view of the vector at index i without bounds
// checking. Callers must ensure i is in range.
func (b *Bank[L]) Vector(i int) []float32 {
	return b.vectors[i*b.dim : (i+1)*b.dim : (i+1)*b.dim]
}

// Mean returns the element-wise mean of all vectors in the bank.
func (b *Bank[L]) Mean() []float32 {
	mean := make([]float32, b.dim)
	floats.MeanInto(mean, b.vectors, b.dim, b.Len())
	return mean
}

// Classes returns the bank's class index, built lazily on first use.
func (b *Bank[L]) Classes() *ClassIndex[L] {
	b.classOnce.Do(func() {
		b.classes = newClassIndex(b.labels)
	})
	return b.classes
}
