package fewshot

import (
	"context"
	"fmt"
	"iter"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/hupe1980/fewshot/episode"
	"github.com/hupe1980/fewshot/featurebank"
)

// Classifier predicts episode-local labels for an episode's queries.
// *protonet.Classifier satisfies this; alternative few-shot methods can be
// plugged in the same way.
type Classifier[L comparable] interface {
	Predict(ep *episode.Episode[L]) ([]int, error)
}

// Evaluator runs a classifier over a stream of sampled episodes and
// aggregates the results into a Report. An Evaluator is stateless across
// runs: the same instance can evaluate any number of banks.
type Evaluator[L comparable] struct {
	classifier Classifier[L]
	opts       options
}

// NewEvaluator creates an Evaluator around the given classifier.
func NewEvaluator[L comparable](classifier Classifier[L], optFns ...Option) (*Evaluator[L], error) {
	if classifier == nil {
		return nil, ErrNilClassifier
	}
	return &Evaluator[L]{
		classifier: classifier,
		opts:       applyOptions(optFns),
	}, nil
}

// Evaluate samples cfg.Tasks episodes from bank and classifies each one.
//
// The first failing episode aborts the run with an EpisodeError carrying its
// ordinal; partial results are discarded. A run that completes without a
// single query prediction returns ErrNoQueries.
func (e *Evaluator[L]) Evaluate(ctx context.Context, bank *featurebank.Bank[L], cfg episode.Config) (*Report, error) {
	sampler, err := episode.NewSampler(bank, cfg)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	acc := newAccumulator(cfg.Way)

	if e.opts.prefetch > 0 {
		err = e.runPipelined(ctx, bank, sampler, cfg, acc)
	} else {
		err = e.runSequential(ctx, bank, sampler, cfg, acc)
	}

	var report *Report
	if err == nil {
		report, err = acc.report()
	}

	e.opts.metricsCollector.RecordEvaluation(acc.episodes, time.Since(start), err)
	accuracy := 0.0
	if report != nil {
		accuracy = report.Accuracy
	}
	e.opts.logger.LogEvaluation(ctx, acc.episodes, accuracy, err)

	return report, err
}

// EvaluateEpisodes classifies pre-assembled episodes, e.g. loaded from disk
// or produced by a custom collation step. All episodes must share the same
// way. Error semantics match Evaluate.
func (e *Evaluator[L]) EvaluateEpisodes(ctx context.Context, episodes iter.Seq[*episode.Episode[L]]) (*Report, error) {
	start := time.Now()

	var acc *accumulator
	limiter := e.progressLimiter()

	ordinal := 0
	var runErr error
	for ep := range episodes {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		if e.opts.maxEpisodes > 0 && ordinal >= e.opts.maxEpisodes {
			break
		}

		if acc == nil {
			acc = newAccumulator(ep.Way)
		} else if ep.Way != acc.way {
			runErr = &EpisodeError{Ordinal: ordinal, Err: fmt.Errorf("way changed from %d to %d", acc.way, ep.Way)}
			break
		}

		if err := e.consume(ctx, acc, ordinal, ep, limiter); err != nil {
			runErr = err
			break
		}
		ordinal++
	}

	var report *Report
	seen := 0
	if acc != nil {
		seen = acc.episodes
	}
	if runErr == nil {
		if acc == nil {
			runErr = ErrNoQueries
		} else {
			report, runErr = acc.report()
		}
	}

	e.opts.metricsCollector.RecordEvaluation(seen, time.Since(start), runErr)
	accuracy := 0.0
	if report != nil {
		accuracy = report.Accuracy
	}
	e.opts.logger.LogEvaluation(ctx, seen, accuracy, runErr)

	return report, runErr
}

func (e *Evaluator[L]) progressLimiter() *rate.Limiter {
	if e.opts.progressEvery <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(e.opts.progressEvery), 1)
}

// consume classifies one episode and folds it into the accumulator.
func (e *Evaluator[L]) consume(ctx context.Context, acc *accumulator, ordinal int, ep *episode.Episode[L], limiter *rate.Limiter) error {
	start := time.Now()
	preds, err := e.classifier.Predict(ep)
	e.opts.metricsCollector.RecordEpisode(len(preds), time.Since(start), err)

	if err != nil {
		e.opts.logger.LogEpisode(ctx, ordinal, ep.NumQueries(), 0, err)
		return &EpisodeError{Ordinal: ordinal, Err: err}
	}

	correct := acc.add(ep.QueryLabels, preds)
	e.opts.logger.LogEpisode(ctx, ordinal, len(preds), correct, nil)

	if limiter != nil && limiter.Allow() {
		if mean, ok := acc.runningAccuracy(e.opts.progressWindow); ok {
			e.opts.logger.LogProgress(ctx, ordinal, mean)
		}
	}
	return nil
}

func (e *Evaluator[L]) runSequential(ctx context.Context, bank *featurebank.Bank[L], sampler *episode.Sampler[L], cfg episode.Config, acc *accumulator) error {
	limiter := e.progressLimiter()

	ordinal := 0
	for indices := range sampler.Episodes() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if e.opts.maxEpisodes > 0 && ordinal >= e.opts.maxEpisodes {
			return nil
		}

		ep, err := episode.Assemble(bank, indices, cfg)
		if err != nil {
			return &EpisodeError{Ordinal: ordinal, Err: err}
		}
		if err := e.consume(ctx, acc, ordinal, ep, limiter); err != nil {
			return err
		}
		ordinal++
	}
	return nil
}

type evalJob struct {
	ordinal int
	indices []uint32
}

type evalResult[L comparable] struct {
	ordinal int
	ep      *episode.Episode[L]
}

// runPipelined overlaps episode assembly with classification. Sampling stays
// on a single goroutine so the index sequence is identical to the sequential
// run; workers only perform the collation, and classification happens on one
// consumer. Accumulation is therefore order independent but value identical.
func (e *Evaluator[L]) runPipelined(ctx context.Context, bank *featurebank.Bank[L], sampler *episode.Sampler[L], cfg episode.Config, acc *accumulator) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	queueCap := e.opts.prefetch * 2
	jobs := make(chan evalJob, queueCap)
	results := make(chan evalResult[L], queueCap)

	g.Go(func() error {
		defer close(jobs)

		ordinal := 0
		for indices := range sampler.Episodes() {
			if e.opts.maxEpisodes > 0 && ordinal >= e.opts.maxEpisodes {
				return nil
			}
			select {
			case jobs <- evalJob{ordinal: ordinal, indices: indices}:
			case <-gctx.Done():
				return gctx.Err()
			}
			ordinal++
		}
		return nil
	})

	var workers sync.WaitGroup
	for w := 0; w < e.opts.prefetch; w++ {
		workers.Add(1)
		g.Go(func() error {
			defer workers.Done()

			for job := range jobs {
				ep, err := episode.Assemble(bank, job.indices, cfg)
				if err != nil {
					return &EpisodeError{Ordinal: job.ordinal, Err: err}
				}
				select {
				case results <- evalResult[L]{ordinal: job.ordinal, ep: ep}:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}

	go func() {
		workers.Wait()
		close(results)
	}()

	limiter := e.progressLimiter()

	// Drain results even after a failure so the pipeline goroutines can exit.
	var consumeErr error
	for res := range results {
		if consumeErr != nil {
			continue
		}
		if err := e.consume(ctx, acc, res.ordinal, res.ep, limiter); err != nil {
			consumeErr = err
			cancel()
		}
	}

	if err := g.Wait(); err != nil && consumeErr == nil {
		consumeErr = err
	}
	return consumeErr
}
