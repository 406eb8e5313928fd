package fewshot

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    episodeCounter    prometheus.Counter
//	    episodeHistogram  prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordEpisode(queries int, duration time.Duration, err error) {
//	    p.episodeCounter.Inc()
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordEpisode is called after each evaluated episode.
	// queries is the number of predictions made, duration is the time taken
	// to assemble and classify the episode, err is nil if successful.
	RecordEpisode(queries int, duration time.Duration, err error)

	// RecordEvaluation is called once per evaluation run.
	// episodes is the number of episodes consumed, duration is the total
	// wall time, err is nil if the run completed.
	RecordEvaluation(episodes int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordEpisode(int, time.Duration, error)    {}
func (NoopMetricsCollector) RecordEvaluation(int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	EpisodeCount         atomic.Int64
	EpisodeErrors        atomic.Int64
	EpisodeTotalNanos    atomic.Int64
	QueryCount           atomic.Int64
	EvaluationCount      atomic.Int64
	EvaluationErrors     atomic.Int64
	EvaluationTotalNanos atomic.Int64
}

// RecordEpisode implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEpisode(queries int, duration time.Duration, err error) {
	b.EpisodeCount.Add(1)
	b.QueryCount.Add(int64(queries))
	b.EpisodeTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.EpisodeErrors.Add(1)
	}
}

// RecordEvaluation implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEvaluation(episodes int, duration time.Duration, err error) {
	b.EvaluationCount.Add(1)
	b.EvaluationTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.EvaluationErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		EpisodeCount:       b.EpisodeCount.Load(),
		EpisodeErrors:      b.EpisodeErrors.Load(),
		EpisodeAvgNanos:    b.getAvgEpisodeNanos(),
		QueryCount:         b.QueryCount.Load(),
		EvaluationCount:    b.EvaluationCount.Load(),
		EvaluationErrors:   b.EvaluationErrors.Load(),
		EvaluationAvgNanos: b.getAvgEvaluationNanos(),
	}
}

func (b *BasicMetricsCollector) getAvgEpisodeNanos() int64 {
	count := b.EpisodeCount.Load()
	if count == 0 {
		return 0
	}
	return b.EpisodeTotalNanos.Load() / count
}

func (b *BasicMetricsCollector) getAvgEvaluationNanos() int64 {
	count := b.EvaluationCount.Load()
	if count == 0 {
		return 0
	}
	return b.EvaluationTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	EpisodeCount       int64
	EpisodeErrors      int64
	EpisodeAvgNanos    int64
	QueryCount         int64
	EvaluationCount    int64
	EvaluationErrors   int64
	EvaluationAvgNanos int64
}
