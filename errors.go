package fewshot

import (
	"errors"
	"fmt"
)

var (
	// ErrNoQueries is returned when an evaluation run completes with zero
	// query predictions, leaving the accuracy ratio undefined.
	ErrNoQueries = errors.New("evaluation produced no query predictions")

	// ErrNilClassifier is returned when an evaluator is built without a classifier.
	ErrNilClassifier = errors.New("classifier must not be nil")

	// ErrEmptyWindow is returned when a sliding mean is requested over no values.
	ErrEmptyWindow = errors.New("cannot compute sliding mean of an empty list")
)

// EpisodeError attributes a failure to the episode ordinal that triggered it.
// Evaluation aborts on the first failing episode; partial results are not
// salvaged.
//
// The underlying error can be accessed via errors.Unwrap.
type EpisodeError struct {
	// Ordinal is the zero-based position of the episode in the sampled sequence.
	Ordinal int
	Err     error
}

func (e *EpisodeError) Error() string {
	return fmt.Sprintf("episode %d: %v", e.Ordinal, e.Err)
}

func (e *EpisodeError) Unwrap() error { return e.Err }
