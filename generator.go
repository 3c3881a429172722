package urlvault

import (
	"context"
	"fmt"
)

// CodeInsufficientQuota is the normalized APIError code for billing or
// quota exhaustion.
const CodeInsufficientQuota = "insufficient_quota"

// Generator sends a prompt to a remote text-generation model.
type Generator interface {
	// Generate returns the model's primary text output. An empty string is
	// a valid result. Failures reported by the remote service are returned
	// as *APIError.
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// GeneratorFactory builds a Generator bound to one API credential.
type GeneratorFactory func(ctx context.Context, apiKey string) (Generator, error)

// APIError is a failure reported by a text-generation service, normalized
// across providers.
type APIError struct {
	StatusCode int
	Code       string // provider error code, e.g. CodeInsufficientQuota
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("model API error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("model API error %d: %s", e.StatusCode, e.Message)
}

// TokenCounter counts tokens in text for a specific model.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}

// NoteValidator enforces the structural contract on model output before it
// is persisted.
type NoteValidator interface {
	// Validate returns text unchanged when it satisfies the contract and an
	// EFORMAT error otherwise.
	Validate(text string) (string, error)
}

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	Convert(html string) (string, error)
}
