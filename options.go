package hipster

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Options defines parameters for a Search.
type Options struct {
	Logger *slog.Logger
	Tracer trace.Tracer
	// Name labels logs, spans and metrics (for example "astar").
	Name string
}

// Option is a function that modifies Options.
type Option func(*Options)

// WithLogger replaces the default component logger.
func WithLogger(logger *slog.Logger) Option {
	return func(options *Options) { options.Logger = logger }
}

// WithTracer replaces the global OpenTelemetry tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(options *Options) { options.Tracer = tracer }
}

// WithName labels the search in logs, spans and metrics.
func WithName(name string) Option {
	return func(options *Options) { options.Name = name }
}

func defaultOptions() Options {
	return Options{
		Logger: slog.Default().With(slog.String("component", "hipster")),
		Tracer: otel.Tracer("github.com/pdrpinto/hipster"),
		Name:   "custom",
	}
}
