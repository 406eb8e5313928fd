package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabeledClusters(t *testing.T) {
	rng := NewRNG(42)
	labels, vectors := rng.LabeledClusters(4, 5, 8, 0.1)

	require.Len(t, labels, 20)
	require.Len(t, vectors, 20)
	for i, v := range vectors {
		assert.Len(t, v, 8)
		assert.Equal(t, i/5, labels[i])
	}
}

func TestLabeledClustersDeterminism(t *testing.T) {
	a1, v1 := NewRNG(7).LabeledClusters(3, 4, 6, 0.05)
	a2, v2 := NewRNG(7).LabeledClusters(3, 4, 6, 0.05)

	assert.Equal(t, a1, a2)
	assert.Equal(t, v1, v2)
}

func TestNearestCentroid(t *testing.T) {
	centroids := [][]float32{
		{0, 0},
		{10, 0},
		{0, 10},
	}

	assert.Equal(t, 0, NearestCentroid([]float32{1, 1}, centroids))
	assert.Equal(t, 1, NearestCentroid([]float32{9, 1}, centroids))
	assert.Equal(t, 2, NearestCentroid([]float32{1, 9}, centroids))

	// Tie resolves to the lowest index.
	assert.Equal(t, 0, NearestCentroid([]float32{5, 0}, centroids[:2]))
}
