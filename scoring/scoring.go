// Package scoring provides the pluggable scoring functions used to compare
// query vectors against class prototypes. Scores are "higher is better":
// the default metric is the negative squared L2 distance.
package scoring

import (
	"fmt"
	"math"
	"slices"

	"github.com/hupe1980/fewshot/internal/floats"
)

// ErrShapeMismatch indicates that a flattened vector block does not match
// the expected shape for the requested dimension.
type ErrShapeMismatch struct {
	Block    string // which input: "prototypes", "queries" or "out"
	Len      int
	Expected int
}

func (e *ErrShapeMismatch) Error() string {
	return fmt.Sprintf("scoring: %s has length %d, expected %d", e.Block, e.Len, e.Expected)
}

// Metric represents the scoring metric used for query/prototype comparison.
type Metric int

const (
	MetricNegSquaredL2 Metric = iota
	MetricCosine
	MetricDot
)

func (m Metric) String() string {
	switch m {
	case MetricNegSquaredL2:
		return "NegSquaredL2"
	case MetricCosine:
		return "Cosine"
	case MetricDot:
		return "Dot"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// Scorer computes a score matrix between class prototypes and query vectors.
//
// Scores fills out with one row per query: out[q*k+c] is the score of query q
// against prototype c, where k = len(prototypes)/dim. Higher scores indicate
// a better match. Implementations must be safe for concurrent use.
type Scorer interface {
	Scores(prototypes, queries []float32, dim int, out []float32) error
	Name() string
}

// Provider returns the scorer for the given metric.
func Provider(m Metric) (Scorer, error) {
	switch m {
	case MetricNegSquaredL2:
		return NegSquaredL2{}, nil
	case MetricCosine:
		return Cosine{}, nil
	case MetricDot:
		return Dot{}, nil
	default:
		return nil, fmt.Errorf("scoring: unsupported metric: %v", m)
	}
}

// Default is the scorer used when none is configured.
var Default Scorer = NegSquaredL2{}

func checkShape(prototypes, queries []float32, dim int, out []float32) (k, n int, err error) {
	if dim <= 0 || len(prototypes) == 0 || len(prototypes)%dim != 0 {
		return 0, 0, &ErrShapeMismatch{Block: "prototypes", Len: len(prototypes), Expected: dim}
	}
	if len(queries)%dim != 0 {
		return 0, 0, &ErrShapeMismatch{Block: "queries", Len: len(queries), Expected: dim}
	}
	k = len(prototypes) / dim
	n = len(queries) / dim
	if len(out) != n*k {
		return 0, 0, &ErrShapeMismatch{Block: "out", Len: len(out), Expected: n * k}
	}
	return k, n, nil
}

// NegSquaredL2 scores by negative squared Euclidean distance.
// Identical vectors score 0; everything else scores below 0.
type NegSquaredL2 struct{}

// Scores implements Scorer.
func (NegSquaredL2) Scores(prototypes, queries []float32, dim int, out []float32) error {
	k, n, err := checkShape(prototypes, queries, dim, out)
	if err != nil {
		return err
	}

	for q := 0; q < n; q++ {
		row := out[q*k : (q+1)*k]
		floats.SquaredL2Batch(queries[q*dim:(q+1)*dim], prototypes, dim, row)
		floats.ScaleInPlace(row, -1)
	}
	return nil
}

// Name implements Scorer.
func (NegSquaredL2) Name() string { return "neg-squared-l2" }

// Dot scores by the raw dot product.
type Dot struct{}

// Scores implements Scorer.
func (Dot) Scores(prototypes, queries []float32, dim int, out []float32) error {
	k, n, err := checkShape(prototypes, queries, dim, out)
	if err != nil {
		return err
	}

	for q := 0; q < n; q++ {
		floats.DotBatch(queries[q*dim:(q+1)*dim], prototypes, dim, out[q*k:(q+1)*k])
	}
	return nil
}

// Name implements Scorer.
func (Dot) Name() string { return "dot" }

// Cosine scores by cosine similarity. Inputs are normalized on copies; the
// originals are never mutated. A zero-norm vector scores 0 against everything.
type Cosine struct{}

// Scores implements Scorer.
func (Cosine) Scores(prototypes, queries []float32, dim int, out []float32) error {
	k, n, err := checkShape(prototypes, queries, dim, out)
	if err != nil {
		return err
	}

	normProtos := slices.Clone(prototypes)
	zeroProto := make([]bool, k)
	for c := 0; c < k; c++ {
		zeroProto[c] = !NormalizeL2InPlace(normProtos[c*dim : (c+1)*dim])
	}

	q := make([]float32, dim)
	for i := 0; i < n; i++ {
		row := out[i*k : (i+1)*k]
		copy(q, queries[i*dim:(i+1)*dim])
		if !NormalizeL2InPlace(q) {
			for c := range row {
				row[c] = 0
			}
			continue
		}
		floats.DotBatch(q, normProtos, dim, row)
		for c := range row {
			if zeroProto[c] {
				row[c] = 0
			}
		}
	}
	return nil
}

// Name implements Scorer.
func (Cosine) Name() string { return "cosine" }

// NormalizeL2InPlace L2-normalizes v in place.
// Returns false if v has zero L2 norm.
func NormalizeL2InPlace(v []float32) bool {
	if len(v) == 0 {
		return false
	}
	norm2 := floats.Dot(v, v)
	if norm2 == 0 {
		return false
	}
	floats.ScaleInPlace(v, 1/float32(math.Sqrt(float64(norm2))))
	return true
}
