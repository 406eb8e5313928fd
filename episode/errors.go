package episode

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned when a sampler configuration parameter is out
// of range (way/shot/tasks must be positive, query must be non-negative).
var ErrInvalidConfig = errors.New("invalid episode config")

// ErrInsufficientClasses indicates that the bank holds fewer distinct labels
// than the requested way.
type ErrInsufficientClasses struct {
	Available int
	Requested int
}

func (e *ErrInsufficientClasses) Error() string {
	return fmt.Sprintf("bank has %d distinct classes, episode needs %d", e.Available, e.Requested)
}

// ErrInsufficientExamples indicates that a class holds fewer rows than one
// episode needs (shot + query).
type ErrInsufficientExamples struct {
	Label     any // original label of the offending class
	Available int
	Required  int
}

func (e *ErrInsufficientExamples) Error() string {
	return fmt.Sprintf("class %v has %d examples, episode needs %d", e.Label, e.Available, e.Required)
}

// ErrMalformedBatch indicates a collation input that does not match the
// sampler's output convention (§class-major grouping).
type ErrMalformedBatch struct {
	Reason string
}

func (e *ErrMalformedBatch) Error() string {
	return fmt.Sprintf("malformed episode batch: %s", e.Reason)
}
