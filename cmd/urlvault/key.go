package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/urlvault"
)

// Run executes the key set command. The key goes to the secret store and to
// the provider's settings fallback; a secret store failure is only a warning.
func (c *KeySetCmd) Run(deps *Dependencies) error {
	value := strings.TrimSpace(c.Value)
	if value == "" {
		return fail(deps.Stderr, urlvault.Errorf(urlvault.EINVALID, "API key must not be empty"))
	}

	settings, err := deps.Settings.Load(deps.Ctx)
	if err != nil {
		return fail(deps.Stderr, err)
	}
	provider := c.Provider
	if provider == "" {
		provider = settings.Provider
	}
	if !urlvault.IsProvider(provider) {
		return fail(deps.Stderr, urlvault.Errorf(urlvault.EINVALID, "unknown provider %q", provider))
	}

	if err := deps.Secrets.SetSecret(deps.Ctx, urlvault.SecretID(provider), value); err != nil {
		fmt.Fprintf(deps.Stderr, "warning: secret store unavailable: %s\n", urlvault.ErrorMessage(err))
	}

	settings.SetAPIKey(provider, value)
	if err := deps.Settings.Save(deps.Ctx, settings); err != nil {
		return fail(deps.Stderr, err)
	}

	fmt.Fprintf(deps.Stdout, "Stored %s API key %s.\n", provider, MaskKey(value))
	return nil
}

// Run executes the key show command. The key is resolved the same way an
// import resolves it.
func (c *KeyShowCmd) Run(deps *Dependencies) error {
	settings, err := deps.Settings.Load(deps.Ctx)
	if err != nil {
		return fail(deps.Stderr, err)
	}
	provider := c.Provider
	if provider == "" {
		provider = settings.Provider
	}

	chain := urlvault.CredentialChain{
		&urlvault.SecretCredential{Store: deps.Secrets, ID: urlvault.SecretID(provider)},
		urlvault.StaticCredential(settings.APIKeyFor(provider)),
		&urlvault.EnvCredential{Name: urlvault.APIKeyEnv(provider)},
	}
	key, err := chain.Resolve(deps.Ctx)
	if err != nil {
		err = fail(deps.Stderr, err)
		if hint := urlvault.Remediation(err); hint != "" {
			fmt.Fprintln(deps.Stderr, hint)
		}
		return err
	}

	fmt.Fprintln(deps.Stdout, MaskKey(key))
	return nil
}

// MaskKey hides all but the first and last four characters of key.
func MaskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}
