package main_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/urlvault"
	main "github.com/fwojciec/urlvault/cmd/urlvault"
	"github.com/fwojciec/urlvault/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists imports with date, path, and URL", func(t *testing.T) {
		t.Parallel()

		var gotFilter urlvault.ImportFilter
		imports := &mock.ImportService{
			FindImportsFn: func(_ context.Context, filter urlvault.ImportFilter) ([]*urlvault.Import, error) {
				gotFilter = filter
				return []*urlvault.Import{
					{
						URL:       "https://example.com/b",
						Path:      "articles/B.md",
						CreatedAt: time.Date(2025, 1, 16, 11, 30, 0, 0, time.UTC),
					},
					{
						URL:       "https://example.com/a",
						Path:      "articles/A.md",
						CreatedAt: time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC),
					},
				}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  stdout,
			Stderr:  &bytes.Buffer{},
			Imports: imports,
		}

		err := (&main.HistoryCmd{Limit: 20}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, 20, gotFilter.Limit)
		assert.Nil(t, gotFilter.URL)
		assert.Equal(t,
			"2025-01-16 11:30  articles/B.md  https://example.com/b\n"+
				"2025-01-15 10:00  articles/A.md  https://example.com/a\n",
			stdout.String())
	})

	t.Run("filters by URL", func(t *testing.T) {
		t.Parallel()

		var gotFilter urlvault.ImportFilter
		imports := &mock.ImportService{
			FindImportsFn: func(_ context.Context, filter urlvault.ImportFilter) ([]*urlvault.Import, error) {
				gotFilter = filter
				return nil, nil
			},
		}

		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &bytes.Buffer{},
			Stderr:  &bytes.Buffer{},
			Imports: imports,
		}

		err := (&main.HistoryCmd{URL: "https://example.com/a"}).Run(deps)

		require.NoError(t, err)
		require.NotNil(t, gotFilter.URL)
		assert.Equal(t, "https://example.com/a", *gotFilter.URL)
	})

	t.Run("shows helpful message when no imports exist", func(t *testing.T) {
		t.Parallel()

		imports := &mock.ImportService{
			FindImportsFn: func(context.Context, urlvault.ImportFilter) ([]*urlvault.Import, error) {
				return []*urlvault.Import{}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  stdout,
			Stderr:  &bytes.Buffer{},
			Imports: imports,
		}

		err := (&main.HistoryCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No imports found")
	})

	t.Run("reports store errors", func(t *testing.T) {
		t.Parallel()

		imports := &mock.ImportService{
			FindImportsFn: func(context.Context, urlvault.ImportFilter) ([]*urlvault.Import, error) {
				return nil, errors.New("disk I/O error")
			},
		}

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &bytes.Buffer{},
			Stderr:  stderr,
			Imports: imports,
		}

		err := (&main.HistoryCmd{}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error: disk I/O error")
	})
}
