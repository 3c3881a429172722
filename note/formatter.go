// Package note turns fetched articles into vault notes: the model
// formatter with its retry policy, and the import pipeline around it.
package note

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"net"
	"net/http"
	"sync"
	"syscall"
	"time"

	"github.com/fwojciec/urlvault"
)

// DefaultBaseDelay is the wait before the first retry. Each further retry
// doubles it.
const DefaultBaseDelay = 500 * time.Millisecond

// class is the retry classification of a model call failure.
type class int

const (
	classFatalAuth class = iota
	classFatalQuota
	classRetriable
	classUnknownRetriable
	classUnknownFatal
)

// Formatter sends article prompts to a text-generation model and retries
// transient failures with exponential backoff.
type Formatter struct {
	// Factory builds a Generator for a credential. Required.
	Factory urlvault.GeneratorFactory

	// Cache holds the Generator for the last credential. Optional; without
	// one a Generator is built per call.
	Cache *ClientCache

	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int

	// BaseDelay defaults to DefaultBaseDelay.
	BaseDelay time.Duration

	// Sleep waits between attempts. Defaults to a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error

	// Logger defaults to a discarding logger.
	Logger *slog.Logger
}

// Format builds the prompt for article and returns the model's note text.
//
// A 401 or an insufficient-quota response fails immediately with EAUTH or
// EQUOTA. Rate limiting, server errors and transport failures are retried up
// to MaxRetries times, waiting BaseDelay*2^n before retry n+1; the last
// failure is then returned as ERETRYABLE. Any other error is returned as is
// on first occurrence. An empty model output is a valid result.
func (f *Formatter) Format(ctx context.Context, apiKey, model, url string, article *urlvault.Article, tags []string, template string) (string, error) {
	if apiKey == "" {
		return "", urlvault.Errorf(urlvault.ENOCREDENTIAL, "no API key configured")
	}
	if model == "" {
		return "", urlvault.Errorf(urlvault.EINVALID, "model required")
	}

	gen, err := f.generator(ctx, apiKey)
	if err != nil {
		return "", err
	}

	prompt := urlvault.BuildPrompt(url, article, tags, template)
	logger := f.logger()

	for attempt := 0; ; attempt++ {
		text, err := gen.Generate(ctx, model, prompt)
		if err == nil {
			return text, nil
		}
		if ctx.Err() != nil {
			return "", err
		}

		switch classify(err) {
		case classFatalAuth:
			// A rejected credential must not keep serving later imports.
			if f.Cache != nil {
				f.Cache.Reset()
			}
			return "", urlvault.Errorf(urlvault.EAUTH, "authentication failed: %s", failureMessage(err))
		case classFatalQuota:
			return "", urlvault.Errorf(urlvault.EQUOTA, "quota exhausted: %s", failureMessage(err))
		case classUnknownFatal:
			return "", err
		}

		if attempt >= f.MaxRetries {
			return "", urlvault.Errorf(urlvault.ERETRYABLE, "model request failed after %d attempts: %s", attempt+1, failureMessage(err))
		}

		delay := f.delay(attempt)
		logger.Warn("model request failed, retrying",
			"attempt", attempt+1,
			"delay", delay,
			"err", err,
		)
		if err := f.sleep(ctx, delay); err != nil {
			return "", err
		}
	}
}

func (f *Formatter) generator(ctx context.Context, apiKey string) (urlvault.Generator, error) {
	if f.Factory == nil {
		return nil, urlvault.Errorf(urlvault.EINTERNAL, "no model client configured")
	}
	if f.Cache == nil {
		return f.Factory(ctx, apiKey)
	}
	return f.Cache.Get(ctx, apiKey, f.Factory)
}

func (f *Formatter) delay(attempt int) time.Duration {
	base := f.BaseDelay
	if base <= 0 {
		base = DefaultBaseDelay
	}
	return time.Duration(float64(base) * math.Pow(2, float64(attempt)))
}

func (f *Formatter) sleep(ctx context.Context, d time.Duration) error {
	if f.Sleep != nil {
		return f.Sleep(ctx, d)
	}
	return Sleep(ctx, d)
}

func (f *Formatter) logger() *slog.Logger {
	if f.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return f.Logger
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// classify maps a model call failure onto the retry policy.
func classify(err error) class {
	if errors.Is(err, context.Canceled) {
		return classUnknownFatal
	}

	var apiErr *urlvault.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusUnauthorized:
			return classFatalAuth
		case apiErr.Code == urlvault.CodeInsufficientQuota:
			return classFatalQuota
		case apiErr.StatusCode == http.StatusTooManyRequests, apiErr.StatusCode >= http.StatusInternalServerError:
			return classRetriable
		}
		return classUnknownFatal
	}

	if isTransient(err) {
		return classUnknownRetriable
	}
	return classUnknownFatal
}

// isTransient reports whether err is a local transport failure that is
// likely to succeed on a later attempt.
func isTransient(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, io.ErrUnexpectedEOF)
}

// failureMessage returns the provider message of err when it has one.
func failureMessage(err error) string {
	var apiErr *urlvault.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return urlvault.ErrorMessage(err)
}

// ClientCache holds the Generator built for one credential. Asking for a
// different credential replaces the entry.
type ClientCache struct {
	mu     sync.Mutex
	key    string
	client urlvault.Generator
}

// Get returns the cached Generator for apiKey, building it with factory on a
// miss.
func (c *ClientCache) Get(ctx context.Context, apiKey string, factory urlvault.GeneratorFactory) (urlvault.Generator, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil && c.key == apiKey {
		return c.client, nil
	}

	client, err := factory(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	c.key = apiKey
	c.client = client
	return client, nil
}

// Reset drops the cached entry.
func (c *ClientCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.key = ""
	c.client = nil
}
