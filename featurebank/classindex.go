package featurebank

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// ClassIndex maps each distinct label to the set of row indices holding it.
// Rows per label are kept as roaring bitmaps; labels are ordered by first
// appearance in the bank. The index is read-only once built.
type ClassIndex[L comparable] struct {
	order   []L
	byLabel map[L]*roaring.Bitmap
}

func newClassIndex[L comparable](labels []L) *ClassIndex[L] {
	ci := &ClassIndex[L]{
		byLabel: make(map[L]*roaring.Bitmap),
	}
	for i, label := range labels {
		bm, ok := ci.byLabel[label]
		if !ok {
			bm = roaring.New()
			ci.byLabel[label] = bm
			ci.order = append(ci.order, label)
		}
		bm.Add(uint32(i))
	}
	return ci
}

// NumClasses returns the number of distinct labels.
func (ci *ClassIndex[L]) NumClasses() int { return len(ci.order) }

// Labels returns the distinct labels in first-appearance order.
// The returned slice is a copy.
func (ci *ClassIndex[L]) Labels() []L {
	out := make([]L, len(ci.order))
	copy(out, ci.order)
	return out
}

// Contains reports whether the label occurs in the bank.
func (ci *ClassIndex[L]) Contains(label L) bool {
	_, ok := ci.byLabel[label]
	return ok
}

// Count returns the number of rows holding the label, 0 if absent.
func (ci *ClassIndex[L]) Count(label L) int {
	bm, ok := ci.byLabel[label]
	if !ok {
		return 0
	}
	return int(bm.GetCardinality())
}

// Indices returns the row indices holding the label, in ascending order.
// The returned slice is freshly allocated.
func (ci *ClassIndex[L]) Indices(label L) []uint32 {
	bm, ok := ci.byLabel[label]
	if !ok {
		return nil
	}
	return bm.ToArray()
}

// MinCount returns the smallest per-class row count.
// Returns 0 for an empty index.
func (ci *ClassIndex[L]) MinCount() int {
	min := 0
	for i, label := range ci.order {
		n := int(ci.byLabel[label].GetCardinality())
		if i == 0 || n < min {
			min = n
		}
	}
	return min
}
