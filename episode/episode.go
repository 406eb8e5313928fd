// Package episode converts a flat feature bank into randomized N-way K-shot
// classification tasks: the sampler draws balanced index sets, the collator
// assembles them into immutable Episode values.
package episode

import "fmt"

// Config describes the shape of the episodes to sample.
type Config struct {
	// Way is the number of distinct classes per episode.
	Way int
	// Shot is the number of support examples per class.
	Shot int
	// Query is the number of query examples per class. May be zero.
	Query int
	// Tasks is the number of episodes to sample.
	Tasks int
	// Seed seeds the sampler's random source. The same seed reproduces the
	// same episode sequence.
	Seed int64
}

func (c Config) validate() error {
	switch {
	case c.Way < 1:
		return fmt.Errorf("%w: way must be >= 1, got %d", ErrInvalidConfig, c.Way)
	case c.Shot < 1:
		return fmt.Errorf("%w: shot must be >= 1, got %d", ErrInvalidConfig, c.Shot)
	case c.Query < 0:
		return fmt.Errorf("%w: query must be >= 0, got %d", ErrInvalidConfig, c.Query)
	case c.Tasks < 1:
		return fmt.Errorf("%w: tasks must be >= 1, got %d", ErrInvalidConfig, c.Tasks)
	}
	return nil
}

// Episode is one N-way K-shot task. Vector blocks are flattened class-major:
// the support block holds Way*Shot vectors of Dim values, grouped by class in
// ClassIDs order; the query block holds Way*Query vectors the same way.
// Labels are episode-local indices in [0, Way) such that local label i maps
// to ClassIDs[i]. An Episode is immutable once built.
type Episode[L comparable] struct {
	Dim int
	Way int

	Support       []float32
	SupportLabels []int

	Queries     []float32
	QueryLabels []int

	// ClassIDs maps episode-local class index to the original label, in the
	// order classes first appear in the sampled batch.
	ClassIDs []L
}

// NumSupport returns the total number of support examples.
func (e *Episode[L]) NumSupport() int { return len(e.SupportLabels) }

// NumQueries returns the total number of query examples.
func (e *Episode[L]) NumQueries() int { return len(e.QueryLabels) }

// SupportVector returns a read-only view of the i-th support vector.
func (e *Episode[L]) SupportVector(i int) []float32 {
	return e.Support[i*e.Dim : (i+1)*e.Dim]
}

// QueryVector returns a read-only view of the i-th query vector.
func (e *Episode[L]) QueryVector(i int) []float32 {
	return e.Queries[i*e.Dim : (i+1)*e.Dim]
}
