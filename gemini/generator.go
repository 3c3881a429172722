// Package gemini implements urlvault.Generator and urlvault.TokenCounter
// using Google Gemini.
package gemini

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/fwojciec/urlvault"
	"google.golang.org/genai"
)

// Ensure Generator implements urlvault.Generator at compile time.
var _ urlvault.Generator = (*Generator)(nil)

// Generator implements urlvault.Generator using Google Gemini.
type Generator struct {
	client *genai.Client
	config *genai.GenerateContentConfig
}

// NewGenerator creates a new Generator.
func NewGenerator(client *genai.Client) *Generator {
	return &Generator{client: client, config: BuildConfig()}
}

// Option configures the clients built by NewFactory.
type Option func(*genai.ClientConfig)

// WithBaseURL points the client at a different API endpoint.
func WithBaseURL(u string) Option {
	return func(c *genai.ClientConfig) {
		c.HTTPOptions.BaseURL = u
	}
}

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *genai.ClientConfig) {
		c.HTTPClient = hc
	}
}

// NewFactory returns a urlvault.GeneratorFactory building Gemini API
// clients bound to a single API key.
func NewFactory(opts ...Option) urlvault.GeneratorFactory {
	return func(ctx context.Context, apiKey string) (urlvault.Generator, error) {
		cfg := &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		}
		for _, opt := range opts {
			opt(cfg)
		}
		client, err := genai.NewClient(ctx, cfg)
		if err != nil {
			return nil, urlvault.Errorf(urlvault.EINTERNAL, "failed to connect to Gemini API: %v", err)
		}
		return NewGenerator(client), nil
	}
}

// Generate sends prompt to model and returns the trimmed response text.
func (g *Generator) Generate(ctx context.Context, model, prompt string) (string, error) {
	if model == "" {
		return "", urlvault.Errorf(urlvault.EINVALID, "model required")
	}

	result, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), g.config)
	if err != nil {
		return "", normalizeError(err)
	}
	if result == nil {
		return "", urlvault.Errorf(urlvault.EINTERNAL, "gemini returned nil result")
	}

	return strings.TrimSpace(result.Text()), nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.3)
	return &genai.GenerateContentConfig{
		Temperature: &temp,
	}
}

// normalizeError converts Gemini API failures into *urlvault.APIError.
// Gemini reports a bad key as 400 API_KEY_INVALID or 403; both become 401.
// Gemini has no distinct billing signal: RESOURCE_EXHAUSTED stays a 429.
func normalizeError(err error) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		var ptr *genai.APIError
		if !errors.As(err, &ptr) || ptr == nil {
			return err
		}
		apiErr = *ptr
	}

	status := apiErr.Code
	if isAuthFailure(apiErr) {
		status = http.StatusUnauthorized
	}
	return &urlvault.APIError{
		StatusCode: status,
		Code:       strings.ToLower(apiErr.Status),
		Message:    apiErr.Message,
	}
}

func isAuthFailure(apiErr genai.APIError) bool {
	switch {
	case apiErr.Code == http.StatusUnauthorized, apiErr.Code == http.StatusForbidden:
		return true
	case apiErr.Status == "UNAUTHENTICATED":
		return true
	case apiErr.Code == http.StatusBadRequest && strings.Contains(apiErr.Message, "API key not valid"):
		return true
	}
	return false
}
