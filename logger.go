package fewshot

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with fewshot-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithEpisode adds an episode ordinal field to the logger.
func (l *Logger) WithEpisode(ordinal int) *Logger {
	return &Logger{
		Logger: l.Logger.With("episode", ordinal),
	}
}

// WithWay adds a way (classes per episode) field to the logger.
func (l *Logger) WithWay(way int) *Logger {
	return &Logger{
		Logger: l.Logger.With("way", way),
	}
}

// WithShot adds a shot (support examples per class) field to the logger.
func (l *Logger) WithShot(shot int) *Logger {
	return &Logger{
		Logger: l.Logger.With("shot", shot),
	}
}

// WithSeed adds a seed field to the logger.
func (l *Logger) WithSeed(seed int64) *Logger {
	return &Logger{
		Logger: l.Logger.With("seed", seed),
	}
}

// LogProgress logs evaluation progress after an episode.
func (l *Logger) LogProgress(ctx context.Context, ordinal int, runningAccuracy float64) {
	l.InfoContext(ctx, "evaluation progress",
		"episode", ordinal,
		"running_accuracy", runningAccuracy,
	)
}

// LogEpisode logs a single evaluated episode.
func (l *Logger) LogEpisode(ctx context.Context, ordinal, queries, correct int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "episode failed",
			"episode", ordinal,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "episode evaluated",
			"episode", ordinal,
			"queries", queries,
			"correct", correct,
		)
	}
}

// LogEvaluation logs a completed evaluation run.
func (l *Logger) LogEvaluation(ctx context.Context, episodes int, accuracy float64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "evaluation failed",
			"episodes", episodes,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "evaluation completed",
			"episodes", episodes,
			"accuracy", accuracy,
		)
	}
}
