package main_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/urlvault"
	main "github.com/fwojciec/urlvault/cmd/urlvault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type importerFunc func(ctx context.Context, rawURL string) (*urlvault.NoteFile, error)

func (f importerFunc) Import(ctx context.Context, rawURL string) (*urlvault.NoteFile, error) {
	return f(ctx, rawURL)
}

func TestImportCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("passes the URL to the importer", func(t *testing.T) {
		t.Parallel()

		var gotURL string
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: &bytes.Buffer{},
			Importer: importerFunc(func(_ context.Context, rawURL string) (*urlvault.NoteFile, error) {
				gotURL = rawURL
				return &urlvault.NoteFile{Path: "articles/Title.md"}, nil
			}),
		}

		err := (&main.ImportCmd{URL: "https://example.com/a"}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/a", gotURL)
	})

	t.Run("returns importer errors", func(t *testing.T) {
		t.Parallel()

		wantErr := urlvault.Errorf(urlvault.EFETCH, "HTTP 404 when fetching URL")
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: &bytes.Buffer{},
			Importer: importerFunc(func(context.Context, string) (*urlvault.NoteFile, error) {
				return nil, wantErr
			}),
		}

		err := (&main.ImportCmd{URL: "https://example.com/a"}).Run(deps)

		require.Error(t, err)
		assert.True(t, errors.Is(err, wantErr))
		var reported *main.ReportedError
		assert.True(t, errors.As(err, &reported))
		assert.Empty(t, deps.Stderr.(*bytes.Buffer).String())
	})
}

func TestImportCmd_Apply(t *testing.T) {
	t.Parallel()

	t.Run("keeps settings when no flags are set", func(t *testing.T) {
		t.Parallel()

		s := urlvault.DefaultSettings()
		(&main.ImportCmd{MaxRetries: -1}).Apply(s)

		assert.Equal(t, urlvault.DefaultSettings(), s)
	})

	t.Run("overrides settings with set flags", func(t *testing.T) {
		t.Parallel()

		s := urlvault.DefaultSettings()
		(&main.ImportCmd{
			Folder:     " inbox ",
			Tags:       "a, b",
			Model:      "claude-sonnet-4-5",
			Provider:   urlvault.ProviderAnthropic,
			Extractor:  urlvault.ExtractorTrafilatura,
			RawFormat:  urlvault.RawFormatMarkdown,
			MaxChars:   500,
			MaxRetries: 0,
			NoRaw:      true,
			Render:     true,
			Links:      true,
			Images:     true,
			Verbose:    true,
		}).Apply(s)

		assert.Equal(t, "inbox", s.OutputFolder)
		assert.Equal(t, "a, b", s.DefaultTags)
		assert.Equal(t, "claude-sonnet-4-5", s.Model)
		assert.Equal(t, urlvault.ProviderAnthropic, s.Provider)
		assert.Equal(t, urlvault.ExtractorTrafilatura, s.Extractor)
		assert.Equal(t, urlvault.RawFormatMarkdown, s.RawFormat)
		assert.Equal(t, 500, s.MaxChars)
		assert.Equal(t, 0, s.MaxRetries)
		assert.False(t, s.IncludeRaw)
		assert.True(t, s.Render)
		assert.True(t, s.IncludeLinks)
		assert.True(t, s.IncludeImages)
		assert.True(t, s.VerboseLogging)
		require.NoError(t, s.Validate())
	})

	t.Run("provider flag switches to the provider default model", func(t *testing.T) {
		t.Parallel()

		s := urlvault.DefaultSettings()
		(&main.ImportCmd{Provider: urlvault.ProviderAnthropic, MaxRetries: -1}).Apply(s)

		assert.Equal(t, urlvault.ProviderAnthropic, s.Provider)
		assert.Equal(t, urlvault.DefaultClaudeModel, s.Model)
		require.NoError(t, s.Validate())
	})

	t.Run("model flag wins over the provider default", func(t *testing.T) {
		t.Parallel()

		s := urlvault.DefaultSettings()
		(&main.ImportCmd{Provider: urlvault.ProviderAnthropic, Model: "claude-opus-4-1", MaxRetries: -1}).Apply(s)

		assert.Equal(t, "claude-opus-4-1", s.Model)
	})

	t.Run("mismatched model flag fails validation", func(t *testing.T) {
		t.Parallel()

		s := urlvault.DefaultSettings()
		(&main.ImportCmd{Model: "claude-opus-4-1", MaxRetries: -1}).Apply(s)

		err := s.Validate()

		require.Error(t, err)
		assert.Equal(t, urlvault.EINVALID, urlvault.ErrorCode(err))
	})

	t.Run("raw flag enables the raw section", func(t *testing.T) {
		t.Parallel()

		s := urlvault.DefaultSettings()
		s.IncludeRaw = false
		(&main.ImportCmd{Raw: true, MaxRetries: -1}).Apply(s)

		assert.True(t, s.IncludeRaw)
	})
}
