package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/urlvault"
	"github.com/fwojciec/urlvault/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clock returns a Now func advancing one minute per call.
func clock() func() time.Time {
	t := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func TestImportService_CreateImport(t *testing.T) {
	t.Parallel()

	t.Run("creates import with generated ID and timestamp", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewImportService(setupTestDB(t))
		imp := &urlvault.Import{
			URL:   "https://city-news.com/budget",
			Title: "Council approves budget",
			Path:  "articles/Council approves budget.md",
			Model: "gemini-2.5-flash",
		}

		err := svc.CreateImport(context.Background(), imp)

		require.NoError(t, err)
		assert.NotEmpty(t, imp.ID)
		assert.False(t, imp.CreatedAt.IsZero())
	})

	t.Run("returns error for invalid import", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewImportService(setupTestDB(t))

		err := svc.CreateImport(context.Background(), &urlvault.Import{URL: "https://x.com"})

		require.Error(t, err)
		assert.Equal(t, urlvault.EINVALID, urlvault.ErrorCode(err))
	})
}

func TestImportService_FindImports(t *testing.T) {
	t.Parallel()

	seed := func(t *testing.T) *sqlite.ImportService {
		t.Helper()
		svc := sqlite.NewImportService(setupTestDB(t))
		svc.Now = clock()
		for _, imp := range []*urlvault.Import{
			{URL: "https://a.com/1", Title: "One", Path: "articles/One.md", ContentHash: "h1"},
			{URL: "https://b.com/2", Title: "Two", Path: "articles/Two.md", ContentHash: "h2"},
			{URL: "https://a.com/1", Title: "One", Path: "articles/One (2).md", ContentHash: "h1"},
		} {
			require.NoError(t, svc.CreateImport(context.Background(), imp))
		}
		return svc
	}

	t.Run("returns newest first", func(t *testing.T) {
		t.Parallel()

		svc := seed(t)

		got, err := svc.FindImports(context.Background(), urlvault.ImportFilter{})

		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "articles/One (2).md", got[0].Path)
		assert.Equal(t, "articles/Two.md", got[1].Path)
		assert.Equal(t, "articles/One.md", got[2].Path)
		assert.Equal(t, time.Date(2024, 3, 5, 10, 3, 0, 0, time.UTC), got[0].CreatedAt)
		assert.Equal(t, "h1", got[0].ContentHash)
	})

	t.Run("filters by URL", func(t *testing.T) {
		t.Parallel()

		svc := seed(t)
		u := "https://a.com/1"

		got, err := svc.FindImports(context.Background(), urlvault.ImportFilter{URL: &u})

		require.NoError(t, err)
		require.Len(t, got, 2)
		for _, imp := range got {
			assert.Equal(t, u, imp.URL)
		}
	})

	t.Run("applies limit and offset", func(t *testing.T) {
		t.Parallel()

		svc := seed(t)

		got, err := svc.FindImports(context.Background(), urlvault.ImportFilter{Limit: 1, Offset: 1})

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "articles/Two.md", got[0].Path)
	})

	t.Run("returns empty slice when nothing matches", func(t *testing.T) {
		t.Parallel()

		svc := seed(t)
		u := "https://none.com"

		got, err := svc.FindImports(context.Background(), urlvault.ImportFilter{URL: &u})

		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}
