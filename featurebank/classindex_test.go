package featurebank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassIndex(t *testing.T) {
	b, err := New(
		[]string{"cat", "dog", "cat", "fox", "dog", "cat"},
		[][]float32{{1}, {2}, {3}, {4}, {5}, {6}},
	)
	require.NoError(t, err)

	ci := b.Classes()

	t.Run("FirstAppearanceOrder", func(t *testing.T) {
		assert.Equal(t, []string{"cat", "dog", "fox"}, ci.Labels())
		assert.Equal(t, 3, ci.NumClasses())
	})

	t.Run("Counts", func(t *testing.T) {
		assert.Equal(t, 3, ci.Count("cat"))
		assert.Equal(t, 2, ci.Count("dog"))
		assert.Equal(t, 1, ci.Count("fox"))
		assert.Equal(t, 0, ci.Count("unknown"))
		assert.Equal(t, 1, ci.MinCount())
	})

	t.Run("Indices", func(t *testing.T) {
		assert.Equal(t, []uint32{0, 2, 5}, ci.Indices("cat"))
		assert.Equal(t, []uint32{1, 4}, ci.Indices("dog"))
		assert.Equal(t, []uint32{3}, ci.Indices("fox"))
		assert.Nil(t, ci.Indices("unknown"))
	})

	t.Run("Contains", func(t *testing.T) {
		assert.True(t, ci.Contains("cat"))
		assert.False(t, ci.Contains("unknown"))
	})

	t.Run("Cached", func(t *testing.T) {
		assert.Same(t, ci, b.Classes())
	})

	t.Run("LabelsIsCopy", func(t *testing.T) {
		labels := ci.Labels()
		labels[0] = "mutated"
		assert.Equal(t, []string{"cat", "dog", "fox"}, ci.Labels())
	})
}

// Every label in the bank must appear in the index with at least one row.
func TestClassIndexCoversAllLabels(t *testing.T) {
	labels := []int{4, 2, 4, 9, 2, 2, 7}
	vectors := make([][]float32, len(labels))
	for i := range vectors {
		vectors[i] = []float32{float32(i)}
	}

	b, err := New(labels, vectors)
	require.NoError(t, err)

	ci := b.Classes()
	seen := map[int]bool{}
	for _, l := range ci.Labels() {
		seen[l] = true
		require.NotEmpty(t, ci.Indices(l))
		for _, idx := range ci.Indices(l) {
			assert.Equal(t, l, b.Label(int(idx)))
		}
	}
	for _, l := range labels {
		assert.True(t, seen[l])
	}
}
