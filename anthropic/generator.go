// Package anthropic implements urlvault.Generator using the Anthropic
// Messages API.
package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/fwojciec/urlvault"
)

// DefaultMaxTokens bounds the length of a generated note.
const DefaultMaxTokens = 4096

// Ensure Generator implements urlvault.Generator at compile time.
var _ urlvault.Generator = (*Generator)(nil)

// Generator implements urlvault.Generator using Anthropic models.
type Generator struct {
	client    anthropic.Client
	maxTokens int64
}

// NewGenerator creates a new Generator.
func NewGenerator(client anthropic.Client) *Generator {
	return &Generator{client: client, maxTokens: DefaultMaxTokens}
}

// NewFactory returns a urlvault.GeneratorFactory building Anthropic clients
// bound to a single API key. SDK retries are disabled; the note formatter
// owns the retry policy.
func NewFactory(opts ...option.RequestOption) urlvault.GeneratorFactory {
	return func(_ context.Context, apiKey string) (urlvault.Generator, error) {
		all := append([]option.RequestOption{
			option.WithAPIKey(apiKey),
			option.WithMaxRetries(0),
		}, opts...)
		return NewGenerator(anthropic.NewClient(all...)), nil
	}
}

// Generate sends prompt to model and returns the trimmed text of the
// response's text blocks.
func (g *Generator) Generate(ctx context.Context, model, prompt string) (string, error) {
	if model == "" {
		return "", urlvault.Errorf(urlvault.EINVALID, "model required")
	}

	msg, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: g.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", normalizeError(err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

// errorBody is the JSON envelope of an Anthropic API error.
type errorBody struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// normalizeError converts Anthropic API failures into *urlvault.APIError.
// A low credit balance is reported as a 400 and becomes
// CodeInsufficientQuota; permission failures become 401.
func normalizeError(err error) error {
	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	var body errorBody
	_ = json.Unmarshal([]byte(apiErr.RawJSON()), &body)

	out := &urlvault.APIError{
		StatusCode: apiErr.StatusCode,
		Code:       body.Error.Type,
		Message:    urlvault.FirstNonEmpty(body.Error.Message, http.StatusText(apiErr.StatusCode)),
	}
	switch {
	case apiErr.StatusCode == http.StatusForbidden:
		out.StatusCode = http.StatusUnauthorized
	case strings.Contains(strings.ToLower(body.Error.Message), "credit balance"):
		out.Code = urlvault.CodeInsufficientQuota
	}
	return out
}
