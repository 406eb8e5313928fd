package testutil

import (
	"math"
	"math/rand"
	"sync"

	"github.com/hupe1980/fewshot/internal/floats"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float32 returns, as a float32, a pseudo-random number in [0.0,1.0).
func (r *RNG) Float32() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float32()
}

// FillUniform fills dst with random values in range [0, 1).
// Locks only once per call (preferred over calling Float32 in a loop).
func (r *RNG) FillUniform(dst []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = r.rand.Float32()
	}
}

// GaussianVectors generates random vectors with values from a standard normal distribution.
func (r *RNG) GaussianVectors(num int, dimensions int) [][]float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float32, num*dimensions)
	vectors := make([][]float32, num)

	for i := range num {
		vec := data[i*dimensions : (i+1)*dimensions]
		for j := range vec {
			vec[j] = float32(r.rand.NormFloat64())
		}
		vectors[i] = vec
	}

	return vectors
}

// UnitVectors generates L2-normalized random vectors (on the hypersphere).
// Uses Gaussian distribution for uniform distribution on the sphere.
func (r *RNG) UnitVectors(num int, dimensions int) [][]float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float32, num*dimensions)
	vectors := make([][]float32, num)

	for i := range num {
		vec := data[i*dimensions : (i+1)*dimensions]
		var norm float64
		for j := range vec {
			v := r.rand.NormFloat64()
			vec[j] = float32(v)
			norm += v * v
		}

		if norm == 0 {
			norm = 1 // Avoid division by zero, though unlikely with floats
		}

		invNorm := float32(1.0 / math.Sqrt(norm))
		floats.ScaleInPlace(vec, invNorm)
		vectors[i] = vec
	}

	return vectors
}

// LabeledClusters generates a labeled dataset of `classes` Gaussian clusters
// with `perClass` vectors each. Every class gets its own unit-vector
// centroid; members are centroid + N(0, spread) noise per coordinate.
//
// Returns parallel label/vector slices ordered class by class, ready for
// featurebank.New. Class labels are 0..classes-1.
func (r *RNG) LabeledClusters(classes, perClass, dim int, spread float32) ([]int, [][]float32) {
	centroids := r.UnitVectors(classes, dim)

	r.mu.Lock()
	defer r.mu.Unlock()

	n := classes * perClass
	labels := make([]int, 0, n)
	data := make([]float32, n*dim)
	vectors := make([][]float32, 0, n)

	for c := range classes {
		for i := range perClass {
			vec := data[(c*perClass+i)*dim : (c*perClass+i+1)*dim]
			for j := range dim {
				vec[j] = centroids[c][j] + float32(r.rand.NormFloat64())*spread
			}
			labels = append(labels, c)
			vectors = append(vectors, vec)
		}
	}

	return labels, vectors
}

// NearestCentroid returns the index of the centroid closest to v in
// squared L2 distance, ties to the lowest index. Useful as ground truth
// when verifying prototype-based predictions.
func NearestCentroid(v []float32, centroids [][]float32) int {
	best := 0
	bestDist := floats.SquaredL2(v, centroids[0])
	for i := 1; i < len(centroids); i++ {
		if d := floats.SquaredL2(v, centroids[i]); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}
