package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/urlvault"
	main "github.com/fwojciec/urlvault/cmd/urlvault"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain_Run_Config(t *testing.T) {
	t.Parallel()

	m := newTestMain(t)
	ctx := context.Background()

	stdout := &bytes.Buffer{}
	err := m.Run(ctx, []string{"config", "set", "outputFolder", "inbox"}, stdout, &bytes.Buffer{})
	require.NoError(t, err)

	stdout.Reset()
	err = m.Run(ctx, []string{"config", "show"}, stdout, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "outputFolder = inbox\n")

	_, err = os.Stat(m.ConfigPath)
	require.NoError(t, err)

	stdout.Reset()
	err = m.Run(ctx, []string{"config", "reset"}, stdout, &bytes.Buffer{})
	require.NoError(t, err)

	stdout.Reset()
	err = m.Run(ctx, []string{"config", "show"}, stdout, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "outputFolder = articles\n")
}

func TestMain_Run_Key(t *testing.T) {
	t.Parallel()

	m := newTestMain(t)
	ctx := context.Background()

	err := m.Run(ctx, []string{"key", "set", "AIzaSyEXAMPLE1234"}, &bytes.Buffer{}, &bytes.Buffer{})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(m.SecretsDir, "urlvault-gemini-key"))
	require.NoError(t, err)
	assert.Equal(t, "AIzaSyEXAMPLE1234", string(bytes.TrimSpace(data)))

	stdout := &bytes.Buffer{}
	err = m.Run(ctx, []string{"key", "show"}, stdout, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "AIza*********1234\n", stdout.String())
}

func TestMain_Run_HistoryEmpty(t *testing.T) {
	t.Parallel()

	m := newTestMain(t)
	stdout := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"history"}, stdout, &bytes.Buffer{})

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "No imports found")
}

func TestMain_Run_ImportRejectsInvalidSettings(t *testing.T) {
	t.Parallel()

	m := newTestMain(t)
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(),
		[]string{"import", "https://example.com/a", "--vault", t.TempDir(), "--provider", "other"},
		&bytes.Buffer{}, stderr)

	require.Error(t, err)
	assert.Contains(t, stderr.String(), `error: unknown provider "other"`)
}

func TestMain_Run_ImportFailureIsReportedOnce(t *testing.T) {
	t.Parallel()

	m := newTestMain(t)
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(),
		[]string{"import", "not a url", "--vault", t.TempDir()},
		&bytes.Buffer{}, stderr)
	require.Error(t, err)
	main.Report(stderr, err)

	assert.Equal(t, "Please enter a valid URL.\n", stderr.String())
}

func TestMain_Run_KeyIsScopedToProvider(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	m := newTestMain(t)
	ctx := context.Background()

	err := m.Run(ctx, []string{"key", "set", "--provider", "anthropic", "sk-ant-0123456789"}, &bytes.Buffer{}, &bytes.Buffer{})
	require.NoError(t, err)

	stdout := &bytes.Buffer{}
	err = m.Run(ctx, []string{"key", "show", "--provider", "gemini"}, stdout, &bytes.Buffer{})
	require.Error(t, err)
	assert.Equal(t, urlvault.ENOCREDENTIAL, urlvault.ErrorCode(err))
	assert.Empty(t, stdout.String())

	stderr := &bytes.Buffer{}
	err = m.Run(ctx, []string{"import", "https://example.com/a", "--vault", t.TempDir()}, &bytes.Buffer{}, stderr)
	require.Error(t, err)
	assert.Equal(t, urlvault.ENOCREDENTIAL, urlvault.ErrorCode(err))
	main.Report(stderr, err)
	assert.Equal(t, 1, strings.Count(stderr.String(), "no API key configured"))
	assert.NotContains(t, stderr.String(), "urlvault error:")
}

func TestMain_Run_ProviderFlagUsesProviderModel(t *testing.T) {
	t.Parallel()

	m := newTestMain(t)
	ctx := context.Background()

	err := m.Run(ctx, []string{"config", "set", "provider", "anthropic"}, &bytes.Buffer{}, &bytes.Buffer{})
	require.NoError(t, err)

	stdout := &bytes.Buffer{}
	err = m.Run(ctx, []string{"config", "show"}, stdout, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "model = "+urlvault.DefaultClaudeModel+"\n")
	assert.Contains(t, stdout.String(), "provider = anthropic\n")
}
