package floats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDot(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float32
	}{
		{"Simple", []float32{1, 2, 3}, []float32{4, 5, 6}, 32},
		{"Zero", []float32{0, 0, 0}, []float32{0, 0, 0}, 0},
		{"Mixed", []float32{1, -1, 2}, []float32{1, 1, -2}, -4},
		{"Empty", []float32{}, []float32{}, 0},
		{"Single", []float32{2}, []float32{3}, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Dot(tt.a, tt.b)
			assert.InDelta(t, tt.expected, got, 1e-5)
		})
	}
}

func TestSquaredL2(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float32
	}{
		{"Simple", []float32{1, 2, 3}, []float32{4, 5, 6}, 27},
		{"Zero", []float32{0, 0, 0}, []float32{0, 0, 0}, 0},
		{"Identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 0},
		{"Mixed", []float32{1, -1}, []float32{-1, 1}, 8}, // (1 - -1)^2 + (-1 - 1)^2 = 4 + 4 = 8
		{"Empty", []float32{}, []float32{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SquaredL2(tt.a, tt.b)
			assert.InDelta(t, tt.expected, got, 1e-5)
		})
	}
}

func TestBatchKernels(t *testing.T) {
	// Two target vectors of dim 2, flattened.
	targets := []float32{1, 0, 0, 1}
	query := []float32{1, 0}

	t.Run("SquaredL2Batch", func(t *testing.T) {
		out := make([]float32, 2)
		SquaredL2Batch(query, targets, 2, out)
		assert.InDelta(t, float32(0), out[0], 1e-5)
		assert.InDelta(t, float32(2), out[1], 1e-5)
	})

	t.Run("DotBatch", func(t *testing.T) {
		out := make([]float32, 2)
		DotBatch(query, targets, 2, out)
		assert.InDelta(t, float32(1), out[0], 1e-5)
		assert.InDelta(t, float32(0), out[1], 1e-5)
	})

	t.Run("ZeroDim", func(t *testing.T) {
		out := []float32{42}
		SquaredL2Batch(query, targets, 0, out)
		assert.Equal(t, float32(42), out[0])
	})
}

func TestInPlace(t *testing.T) {
	t.Run("Scale", func(t *testing.T) {
		v := []float32{2, 4, 8}
		ScaleInPlace(v, 0.5)
		assert.Equal(t, []float32{1, 2, 4}, v)
	})

	t.Run("Add", func(t *testing.T) {
		a := []float32{1, 2}
		AddInPlace(a, []float32{3, 4})
		assert.Equal(t, []float32{4, 6}, a)
	})
}

func TestMeanInto(t *testing.T) {
	src := []float32{
		1, 2,
		3, 4,
		5, 6,
	}
	dst := []float32{99, 99} // Must be overwritten, not accumulated into.
	MeanInto(dst, src, 2, 3)
	assert.InDelta(t, float32(3), dst[0], 1e-5)
	assert.InDelta(t, float32(4), dst[1], 1e-5)
}
