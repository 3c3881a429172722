package main_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/urlvault"
	main "github.com/fwojciec/urlvault/cmd/urlvault"
	"github.com/fwojciec/urlvault/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key  string
		want string
	}{
		{key: "", want: ""},
		{key: "short", want: "*****"},
		{key: "12345678", want: "********"},
		{key: "abcd12345wxyz", want: "abcd*****wxyz"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, main.MaskKey(tt.key))
		})
	}
}

func TestKeySetCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("stores the key in the secret store and settings", func(t *testing.T) {
		t.Parallel()

		secrets := map[string]string{}
		secretStore := &mock.SecretStore{
			SetSecretFn: func(_ context.Context, id, value string) error {
				secrets[id] = value
				return nil
			},
		}
		settings, current := memorySettings(urlvault.DefaultSettings())

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   stdout,
			Stderr:   &bytes.Buffer{},
			Settings: settings,
			Secrets:  secretStore,
		}

		err := (&main.KeySetCmd{Value: " AIzaSyEXAMPLE1234 "}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "AIzaSyEXAMPLE1234", secrets["urlvault-gemini-key"])
		assert.Equal(t, "AIzaSyEXAMPLE1234", current().APIKeyFor(urlvault.ProviderGemini))
		assert.Contains(t, stdout.String(), "Stored gemini API key AIza")
		assert.NotContains(t, stdout.String(), "EXAMPLE")
	})

	t.Run("uses the provider flag", func(t *testing.T) {
		t.Parallel()

		var gotID string
		secretStore := &mock.SecretStore{
			SetSecretFn: func(_ context.Context, id, _ string) error {
				gotID = id
				return nil
			},
		}
		settings, current := memorySettings(urlvault.DefaultSettings())
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   &bytes.Buffer{},
			Stderr:   &bytes.Buffer{},
			Settings: settings,
			Secrets:  secretStore,
		}

		err := (&main.KeySetCmd{Value: "sk-ant-0123456789", Provider: urlvault.ProviderAnthropic}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "urlvault-anthropic-key", gotID)
		assert.Equal(t, "sk-ant-0123456789", current().APIKeyFor(urlvault.ProviderAnthropic))
		assert.Empty(t, current().APIKeyFor(urlvault.ProviderGemini))
	})

	t.Run("rejects an unknown provider", func(t *testing.T) {
		t.Parallel()

		settings, _ := memorySettings(urlvault.DefaultSettings())
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   &bytes.Buffer{},
			Stderr:   stderr,
			Settings: settings,
			Secrets:  &mock.SecretStore{},
		}

		err := (&main.KeySetCmd{Value: "sk-0123456789", Provider: "openai"}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, urlvault.EINVALID, urlvault.ErrorCode(err))
		assert.Equal(t, "error: unknown provider \"openai\"\n", stderr.String())
	})

	t.Run("secret store failure is a warning", func(t *testing.T) {
		t.Parallel()

		secretStore := &mock.SecretStore{
			SetSecretFn: func(context.Context, string, string) error {
				return errors.New("permission denied")
			},
		}
		settings, current := memorySettings(urlvault.DefaultSettings())
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   &bytes.Buffer{},
			Stderr:   stderr,
			Settings: settings,
			Secrets:  secretStore,
		}

		err := (&main.KeySetCmd{Value: "AIzaSyEXAMPLE1234"}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stderr.String(), "warning: secret store unavailable: permission denied")
		assert.Equal(t, "AIzaSyEXAMPLE1234", current().APIKeyFor(urlvault.ProviderGemini))
	})

	t.Run("rejects an empty key", func(t *testing.T) {
		t.Parallel()

		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: &bytes.Buffer{},
		}

		err := (&main.KeySetCmd{Value: "  "}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, urlvault.EINVALID, urlvault.ErrorCode(err))
	})
}

func TestKeyShowCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prefers the secret store", func(t *testing.T) {
		t.Parallel()

		secretStore := &mock.SecretStore{
			GetSecretFn: func(_ context.Context, id string) (string, error) {
				if id == "urlvault-gemini-key" {
					return "AIzaSECRETSTORE9999", nil
				}
				return "", nil
			},
		}
		initial := urlvault.DefaultSettings()
		initial.SetAPIKey(urlvault.ProviderGemini, "AIzaSETTINGS0000")
		settings, _ := memorySettings(initial)

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   stdout,
			Stderr:   &bytes.Buffer{},
			Settings: settings,
			Secrets:  secretStore,
		}

		err := (&main.KeyShowCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "AIza***********9999\n", stdout.String())
	})

	t.Run("falls back to the settings key", func(t *testing.T) {
		t.Parallel()

		secretStore := &mock.SecretStore{
			GetSecretFn: func(context.Context, string) (string, error) {
				return "", errors.New("store locked")
			},
		}
		initial := urlvault.DefaultSettings()
		initial.SetAPIKey(urlvault.ProviderGemini, "AIzaSETTINGS0000")
		settings, _ := memorySettings(initial)

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   stdout,
			Stderr:   &bytes.Buffer{},
			Settings: settings,
			Secrets:  secretStore,
		}

		err := (&main.KeyShowCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "AIza********0000\n", stdout.String())
	})
}

func TestKeyShowCmd_NoKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	secretStore := &mock.SecretStore{
		GetSecretFn: func(context.Context, string) (string, error) {
			return "", nil
		},
	}
	settings, _ := memorySettings(urlvault.DefaultSettings())

	stderr := &bytes.Buffer{}
	deps := &main.Dependencies{
		Ctx:      context.Background(),
		Stdout:   &bytes.Buffer{},
		Stderr:   stderr,
		Settings: settings,
		Secrets:  secretStore,
	}

	err := (&main.KeyShowCmd{Provider: urlvault.ProviderAnthropic}).Run(deps)

	require.Error(t, err)
	assert.Equal(t, urlvault.ENOCREDENTIAL, urlvault.ErrorCode(err))
	assert.Contains(t, stderr.String(), "urlvault key set")
}

func TestKeyShowCmd_OtherProviderKeyIsNotUsed(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	secretStore := &mock.SecretStore{
		GetSecretFn: func(_ context.Context, id string) (string, error) {
			if id == "urlvault-anthropic-key" {
				return "sk-ant-0123456789", nil
			}
			return "", nil
		},
	}
	initial := urlvault.DefaultSettings()
	initial.SetAPIKey(urlvault.ProviderAnthropic, "sk-ant-0123456789")
	settings, _ := memorySettings(initial)

	stdout := &bytes.Buffer{}
	deps := &main.Dependencies{
		Ctx:      context.Background(),
		Stdout:   stdout,
		Stderr:   &bytes.Buffer{},
		Settings: settings,
		Secrets:  secretStore,
	}

	err := (&main.KeyShowCmd{Provider: urlvault.ProviderGemini}).Run(deps)

	require.Error(t, err)
	assert.Equal(t, urlvault.ENOCREDENTIAL, urlvault.ErrorCode(err))
	assert.Empty(t, stdout.String())
}
