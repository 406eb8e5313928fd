package episode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/fewshot/featurebank"
)

func row(label string, v ...float32) featurebank.Row[string] {
	return featurebank.Row[string]{Label: label, Vector: v}
}

func TestCollate(t *testing.T) {
	// 2-way, 2-shot, 1-query: class runs of 3 rows each.
	rows := []featurebank.Row[string]{
		row("dog", 1, 1), row("dog", 2, 2), row("dog", 3, 3),
		row("cat", 4, 4), row("cat", 5, 5), row("cat", 6, 6),
	}

	ep, err := Collate(rows, 2, 2, 1)
	require.NoError(t, err)

	// Class ids in first-appearance order, not sorted.
	assert.Equal(t, []string{"dog", "cat"}, ep.ClassIDs)
	assert.Equal(t, 2, ep.Way)
	assert.Equal(t, 2, ep.Dim)

	assert.Equal(t, []int{0, 0, 1, 1}, ep.SupportLabels)
	assert.Equal(t, []float32{1, 1, 2, 2, 4, 4, 5, 5}, ep.Support)

	assert.Equal(t, []int{0, 1}, ep.QueryLabels)
	assert.Equal(t, []float32{3, 3, 6, 6}, ep.Queries)

	assert.Equal(t, []float32{3, 3}, ep.QueryVector(0))
	assert.Equal(t, []float32{5, 5}, ep.SupportVector(3))
}

// For every episode-local class c, exactly shot support rows and query query
// rows carry label c, and labels stay within [0, way).
func TestCollateLabelInvariants(t *testing.T) {
	way, shot, query := 3, 2, 4
	var rows []featurebank.Row[string]
	for _, label := range []string{"x", "y", "z"} {
		for i := 0; i < shot+query; i++ {
			rows = append(rows, row(label, float32(i)))
		}
	}

	ep, err := Collate(rows, way, shot, query)
	require.NoError(t, err)

	require.Len(t, ep.ClassIDs, way)
	seen := map[string]bool{}
	for _, id := range ep.ClassIDs {
		assert.False(t, seen[id])
		seen[id] = true
	}

	supportCount := make([]int, way)
	for _, l := range ep.SupportLabels {
		require.GreaterOrEqual(t, l, 0)
		require.Less(t, l, way)
		supportCount[l]++
	}
	queryCount := make([]int, way)
	for _, l := range ep.QueryLabels {
		require.GreaterOrEqual(t, l, 0)
		require.Less(t, l, way)
		queryCount[l]++
	}
	for c := 0; c < way; c++ {
		assert.Equal(t, shot, supportCount[c])
		assert.Equal(t, query, queryCount[c])
	}
}

func TestCollateZeroQuery(t *testing.T) {
	rows := []featurebank.Row[string]{
		row("a", 1), row("a", 2),
		row("b", 3), row("b", 4),
	}

	ep, err := Collate(rows, 2, 2, 0)
	require.NoError(t, err)

	assert.Equal(t, 4, ep.NumSupport())
	assert.Equal(t, 0, ep.NumQueries())
	assert.Empty(t, ep.Queries)
	assert.Empty(t, ep.QueryLabels)
}

func TestCollateMalformed(t *testing.T) {
	tests := []struct {
		name             string
		rows             []featurebank.Row[string]
		way, shot, query int
	}{
		{
			"WrongCount",
			[]featurebank.Row[string]{row("a", 1)},
			2, 1, 0,
		},
		{
			"MixedRun",
			[]featurebank.Row[string]{row("a", 1), row("b", 2), row("b", 3), row("a", 4)},
			2, 1, 1,
		},
		{
			"DuplicateClassRun",
			[]featurebank.Row[string]{row("a", 1), row("a", 2), row("a", 3), row("a", 4)},
			2, 1, 1,
		},
		{
			"RaggedVectors",
			[]featurebank.Row[string]{row("a", 1, 2), row("b", 3)},
			2, 1, 0,
		},
		{
			"EmptyVectors",
			[]featurebank.Row[string]{row("a"), row("b")},
			2, 1, 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Collate(tt.rows, tt.way, tt.shot, tt.query)
			var mb *ErrMalformedBatch
			assert.ErrorAs(t, err, &mb)
		})
	}

	t.Run("BadShape", func(t *testing.T) {
		_, err := Collate([]featurebank.Row[string]{row("a", 1)}, 0, 1, 1)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}
