package gemini

import (
	"context"

	"github.com/fwojciec/urlvault"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

// TokenizerModel is the model the local tokenizer counts prompt tokens for.
// Newer models share its vocabulary closely enough for logging purposes.
const TokenizerModel = "gemini-2.5-flash"

var _ urlvault.TokenCounter = (*TokenCounter)(nil)

// TokenCounter counts tokens using the Gemini tokenizer.
type TokenCounter struct {
	tok *tokenizer.LocalTokenizer
}

// NewTokenCounter creates a new TokenCounter for the given model.
func NewTokenCounter(model string) (*TokenCounter, error) {
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, err
	}
	return &TokenCounter{tok: tok}, nil
}

// CountTokens counts the number of tokens in the prompt text.
func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if text == "" {
		return 0, nil
	}

	result, err := tc.tok.CountTokens(genai.Text(text), nil)
	if err != nil {
		return 0, err
	}

	return int(result.TotalTokens), nil
}
