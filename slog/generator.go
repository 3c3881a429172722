package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/urlvault"
)

// Ensure LoggingGenerator implements urlvault.Generator.
var _ urlvault.Generator = (*LoggingGenerator)(nil)

// LoggingGenerator wraps a Generator with logging.
type LoggingGenerator struct {
	next   urlvault.Generator
	logger *slog.Logger
}

// NewLoggingGenerator creates a new LoggingGenerator.
func NewLoggingGenerator(next urlvault.Generator, logger *slog.Logger) *LoggingGenerator {
	return &LoggingGenerator{next: next, logger: logger}
}

// Generate delegates to the wrapped generator and logs the call.
func (g *LoggingGenerator) Generate(ctx context.Context, model, prompt string) (text string, err error) {
	defer func(begin time.Time) {
		g.logger.Info("generate",
			"model", model,
			"prompt_bytes", len(prompt),
			"bytes", len(text),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return g.next.Generate(ctx, model, prompt)
}

// WrapFactory returns a factory whose generators log every call.
func WrapFactory(factory urlvault.GeneratorFactory, logger *slog.Logger) urlvault.GeneratorFactory {
	return func(ctx context.Context, apiKey string) (urlvault.Generator, error) {
		gen, err := factory(ctx, apiKey)
		if err != nil {
			return nil, err
		}
		return NewLoggingGenerator(gen, logger), nil
	}
}
