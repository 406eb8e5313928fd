// Package protonet implements prototypical-network classification over
// episodes: one prototype per class (the mean of its support vectors),
// queries scored against all prototypes, prediction by argmax.
package protonet

import (
	"fmt"

	"github.com/hupe1980/fewshot/episode"
	"github.com/hupe1980/fewshot/internal/floats"
	"github.com/hupe1980/fewshot/scoring"
)

// ErrEmptyClass indicates an episode that presents a class with zero support
// vectors. Unreachable through a validated sampler, checked defensively for
// hand-built episodes.
type ErrEmptyClass struct {
	Class int // episode-local class index
}

func (e *ErrEmptyClass) Error() string {
	return fmt.Sprintf("class %d has no support vectors", e.Class)
}

// Options configures a Classifier.
type Options struct {
	// Scorer computes the query/prototype score matrix.
	// Defaults to scoring.Default (negative squared L2).
	Scorer scoring.Scorer
}

// Classifier is a prototypical-network classifier. It carries no per-episode
// state: the same instance can classify any number of episodes, concurrently.
type Classifier[L comparable] struct {
	scorer scoring.Scorer
}

// New creates a Classifier.
func New[L comparable](optFns ...func(o *Options)) *Classifier[L] {
	opts := Options{
		Scorer: scoring.Default,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Scorer == nil {
		opts.Scorer = scoring.Default
	}

	return &Classifier[L]{scorer: opts.Scorer}
}

// Scorer returns the classifier's scoring strategy.
func (c *Classifier[L]) Scorer() scoring.Scorer { return c.scorer }

// Prototypes computes the per-class mean of the episode's support vectors,
// returned as a flattened Way*Dim block in episode-local class order.
func (c *Classifier[L]) Prototypes(ep *episode.Episode[L]) ([]float32, error) {
	protos := make([]float32, ep.Way*ep.Dim)
	counts := make([]int, ep.Way)

	for i, class := range ep.SupportLabels {
		if class < 0 || class >= ep.Way {
			return nil, fmt.Errorf("support label %d out of range [0, %d)", class, ep.Way)
		}
		floats.AddInPlace(protos[class*ep.Dim:(class+1)*ep.Dim], ep.SupportVector(i))
		counts[class]++
	}

	for class, n := range counts {
		if n == 0 {
			return nil, &ErrEmptyClass{Class: class}
		}
		floats.ScaleInPlace(protos[class*ep.Dim:(class+1)*ep.Dim], 1/float32(n))
	}

	return protos, nil
}

// Scores returns the flattened NumQueries*Way score matrix, one row per
// query in episode order. Higher scores mean a better match.
func (c *Classifier[L]) Scores(ep *episode.Episode[L]) ([]float32, error) {
	protos, err := c.Prototypes(ep)
	if err != nil {
		return nil, err
	}

	out := make([]float32, ep.NumQueries()*ep.Way)
	if len(out) == 0 {
		return out, nil
	}
	if err := c.scorer.Scores(protos, ep.Queries, ep.Dim, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Predict returns the episode-local class prediction for every query.
// Score ties resolve to the lowest class index, so predictions are
// reproducible even on exact floating-point ties.
func (c *Classifier[L]) Predict(ep *episode.Episode[L]) ([]int, error) {
	scores, err := c.Scores(ep)
	if err != nil {
		return nil, err
	}

	preds := make([]int, ep.NumQueries())
	for q := range preds {
		row := scores[q*ep.Way : (q+1)*ep.Way]
		best := 0
		for class := 1; class < ep.Way; class++ {
			if row[class] > row[best] {
				best = class
			}
		}
		preds[q] = best
	}
	return preds, nil
}
