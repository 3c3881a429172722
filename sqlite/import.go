package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/fwojciec/urlvault"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ urlvault.ImportService = (*ImportService)(nil)

// ImportService implements urlvault.ImportService using SQLite.
type ImportService struct {
	db *DB

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewImportService creates a new ImportService.
func NewImportService(db *DB) *ImportService {
	return &ImportService{db: db, Now: time.Now}
}

// CreateImport records a new import with a generated ID and timestamp.
func (s *ImportService) CreateImport(ctx context.Context, imp *urlvault.Import) error {
	if err := imp.Validate(); err != nil {
		return err
	}

	imp.ID = uuid.New().String()
	imp.CreatedAt = s.Now().UTC().Truncate(time.Second)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO imports (id, url, title, path, model, content_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, imp.ID, imp.URL, imp.Title, imp.Path, imp.Model, imp.ContentHash,
		imp.CreatedAt.Format(time.RFC3339))

	return err
}

// FindImports retrieves imports matching the filter, newest first.
func (s *ImportService) FindImports(ctx context.Context, filter urlvault.ImportFilter) ([]*urlvault.Import, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, url, title, path, model, content_hash, created_at FROM imports WHERE 1=1")

	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	imports := []*urlvault.Import{}
	for rows.Next() {
		var imp urlvault.Import
		var createdAt string

		if err := rows.Scan(&imp.ID, &imp.URL, &imp.Title, &imp.Path, &imp.Model, &imp.ContentHash, &createdAt); err != nil {
			return nil, err
		}
		if imp.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}

		imports = append(imports, &imp)
	}

	return imports, rows.Err()
}
