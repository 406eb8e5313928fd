package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetric(t *testing.T) {
	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "NegSquaredL2", MetricNegSquaredL2.String())
		assert.Equal(t, "Cosine", MetricCosine.String())
		assert.Equal(t, "Dot", MetricDot.String())
		assert.Equal(t, "Unknown(99)", Metric(99).String())
	})

	t.Run("Provider", func(t *testing.T) {
		s, err := Provider(MetricNegSquaredL2)
		require.NoError(t, err)
		assert.Equal(t, "neg-squared-l2", s.Name())

		s, err = Provider(MetricCosine)
		require.NoError(t, err)
		assert.Equal(t, "cosine", s.Name())

		s, err = Provider(MetricDot)
		require.NoError(t, err)
		assert.Equal(t, "dot", s.Name())

		_, err = Provider(Metric(99))
		assert.Error(t, err)
	})
}

func TestNegSquaredL2(t *testing.T) {
	// Prototypes at (0,0) and (3,4); queries at (0,0) and (3,0).
	prototypes := []float32{0, 0, 3, 4}
	queries := []float32{0, 0, 3, 0}
	out := make([]float32, 4)

	require.NoError(t, NegSquaredL2{}.Scores(prototypes, queries, 2, out))

	assert.InDelta(t, float32(0), out[0], 1e-5)   // q0 vs p0
	assert.InDelta(t, float32(-25), out[1], 1e-5) // q0 vs p1
	assert.InDelta(t, float32(-9), out[2], 1e-5)  // q1 vs p0
	assert.InDelta(t, float32(-16), out[3], 1e-5) // q1 vs p1

	// Exact match scores highest in its row.
	assert.Greater(t, out[0], out[1])
}

func TestDotScorer(t *testing.T) {
	prototypes := []float32{1, 0, 0, 1}
	queries := []float32{2, 3}
	out := make([]float32, 2)

	require.NoError(t, Dot{}.Scores(prototypes, queries, 2, out))
	assert.InDelta(t, float32(2), out[0], 1e-5)
	assert.InDelta(t, float32(3), out[1], 1e-5)
}

func TestCosine(t *testing.T) {
	t.Run("ScaleInvariant", func(t *testing.T) {
		prototypes := []float32{10, 0, 0, 2}
		queries := []float32{3, 0}
		out := make([]float32, 2)

		require.NoError(t, Cosine{}.Scores(prototypes, queries, 2, out))
		assert.InDelta(t, float32(1), out[0], 1e-5)
		assert.InDelta(t, float32(0), out[1], 1e-5)
	})

	t.Run("ZeroNorm", func(t *testing.T) {
		prototypes := []float32{0, 0, 1, 0}
		queries := []float32{0, 0, 1, 0}
		out := make([]float32, 4)

		require.NoError(t, Cosine{}.Scores(prototypes, queries, 2, out))
		// Zero-norm query row is all zeros.
		assert.Equal(t, float32(0), out[0])
		assert.Equal(t, float32(0), out[1])
		// Zero-norm prototype column is zero, identical direction scores 1.
		assert.Equal(t, float32(0), out[2])
		assert.InDelta(t, float32(1), out[3], 1e-5)
	})

	t.Run("InputsNotMutated", func(t *testing.T) {
		prototypes := []float32{3, 4}
		queries := []float32{5, 12}
		out := make([]float32, 1)

		require.NoError(t, Cosine{}.Scores(prototypes, queries, 2, out))
		assert.Equal(t, []float32{3, 4}, prototypes)
		assert.Equal(t, []float32{5, 12}, queries)
	})
}

func TestScoresShapeMismatch(t *testing.T) {
	tests := []struct {
		name       string
		prototypes []float32
		queries    []float32
		dim        int
		outLen     int
		block      string
	}{
		{"RaggedPrototypes", []float32{1, 2, 3}, []float32{1, 2}, 2, 2, "prototypes"},
		{"EmptyPrototypes", nil, []float32{1, 2}, 2, 0, "prototypes"},
		{"RaggedQueries", []float32{1, 2}, []float32{1, 2, 3}, 2, 1, "queries"},
		{"BadOut", []float32{1, 2}, []float32{1, 2}, 2, 3, "out"},
		{"ZeroDim", []float32{1, 2}, []float32{1, 2}, 0, 1, "prototypes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, s := range []Scorer{NegSquaredL2{}, Dot{}, Cosine{}} {
				err := s.Scores(tt.prototypes, tt.queries, tt.dim, make([]float32, tt.outLen))
				var sm *ErrShapeMismatch
				require.ErrorAs(t, err, &sm, s.Name())
				assert.Equal(t, tt.block, sm.Block, s.Name())
			}
		})
	}
}

func TestNormalizeL2InPlace(t *testing.T) {
	v := []float32{3, 4}
	assert.True(t, NormalizeL2InPlace(v))
	assert.InDelta(t, float32(0.6), v[0], 1e-5)
	assert.InDelta(t, float32(0.8), v[1], 1e-5)
	assert.InDelta(t, 1.0, math.Sqrt(float64(v[0]*v[0]+v[1]*v[1])), 1e-5)

	assert.False(t, NormalizeL2InPlace([]float32{0, 0}))
	assert.False(t, NormalizeL2InPlace(nil))
}
