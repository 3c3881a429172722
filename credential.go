package urlvault

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// SecretStore is the preferred storage for API credentials.
type SecretStore interface {
	// GetSecret returns the secret stored under id, or an empty string.
	GetSecret(ctx context.Context, id string) (string, error)

	// SetSecret stores value under id.
	SetSecret(ctx context.Context, id, value string) error
}

// SecretID returns the secret store key holding the provider's API key.
func SecretID(provider string) string {
	return "urlvault-" + provider + "-key"
}

// APIKeyEnv returns the environment variable consulted for the provider's
// API key when neither the secret store nor the settings hold one.
func APIKeyEnv(provider string) string {
	switch provider {
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return "GEMINI_API_KEY"
	}
}

// CredentialProvider yields an API credential, or an empty string when it
// has none.
type CredentialProvider interface {
	Credential(ctx context.Context) (string, error)
}

// SecretCredential reads the credential from a SecretStore. A missing store
// or a store failure is treated as an absent credential and only logged.
type SecretCredential struct {
	Store  SecretStore
	ID     string
	Logger *slog.Logger
}

// Credential implements CredentialProvider.
func (c *SecretCredential) Credential(ctx context.Context) (string, error) {
	if c.Store == nil {
		return "", nil
	}
	secret, err := c.Store.GetSecret(ctx, c.ID)
	if err != nil {
		if c.Logger != nil {
			c.Logger.Warn("secret store read failed", "id", c.ID, "err", err)
		}
		return "", nil
	}
	return secret, nil
}

// StaticCredential is a credential held in configuration.
type StaticCredential string

// Credential implements CredentialProvider.
func (c StaticCredential) Credential(context.Context) (string, error) {
	return string(c), nil
}

// EnvCredential reads the credential from an environment variable.
type EnvCredential struct {
	Name string

	// Lookup defaults to os.LookupEnv.
	Lookup func(key string) (string, bool)
}

// Credential implements CredentialProvider.
func (c *EnvCredential) Credential(context.Context) (string, error) {
	lookup := c.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	v, _ := lookup(c.Name)
	return v, nil
}

// CredentialChain tries providers in order; the first non-empty credential
// wins.
type CredentialChain []CredentialProvider

// Resolve returns the first non-empty credential in the chain.
// Returns ENOCREDENTIAL when no provider yields one.
func (ch CredentialChain) Resolve(ctx context.Context) (string, error) {
	for _, p := range ch {
		v, err := p.Credential(ctx)
		if err != nil {
			return "", err
		}
		if v = strings.TrimSpace(v); v != "" {
			return v, nil
		}
	}
	return "", Errorf(ENOCREDENTIAL, "no API key configured")
}
