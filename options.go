package fewshot

import (
	"log/slog"
	"time"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	prefetch         int
	maxEpisodes      int
	progressEvery    time.Duration
	progressWindow   int
}

// Option configures Evaluator behavior.
type Option func(*options)

// WithPrefetch enables pipelined evaluation: workers sample and collate
// episodes ahead of classification through a bounded queue. workers is the
// number of collation goroutines; classification itself stays sequential so
// results are identical to the unpipelined run.
//
// If workers <= 0, prefetching is disabled (the default).
func WithPrefetch(workers int) Option {
	return func(o *options) {
		o.prefetch = workers
	}
}

// WithMaxEpisodes caps the number of episodes consumed from the sampler,
// overriding the configured task count when lower. Useful for smoke runs
// against a sampler configured for a full benchmark.
//
// If n <= 0, no cap is applied (the default).
func WithMaxEpisodes(n int) Option {
	return func(o *options) {
		o.maxEpisodes = n
	}
}

// WithProgressInterval configures how often running accuracy is logged at
// info level during evaluation. Progress lines are rate limited, not emitted
// per episode. Defaults to 10 seconds; d <= 0 disables progress logging.
func WithProgressInterval(d time.Duration) Option {
	return func(o *options) {
		o.progressEvery = d
	}
}

// WithProgressWindow sets the sliding window (in episodes) over which the
// running accuracy reported by progress logs is averaged. Defaults to 100;
// n <= 0 averages over all episodes seen so far.
func WithProgressWindow(n int) Option {
	return func(o *options) {
		o.progressWindow = n
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// evaluation. Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &fewshot.BasicMetricsCollector{}
//	ev, _ := fewshot.NewEvaluator(clf, fewshot.WithMetricsCollector(metrics))
//	// ... run evaluations ...
//	stats := metrics.GetStats()
//	fmt.Printf("Episodes: %d, Avg latency: %dns\n", stats.EpisodeCount, stats.EpisodeAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for evaluation.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := fewshot.NewJSONLogger(slog.LevelInfo)
//	ev, _ := fewshot.NewEvaluator(clf, fewshot.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		progressEvery:    10 * time.Second,
		progressWindow:   100,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}
