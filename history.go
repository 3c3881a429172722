package urlvault

import (
	"context"
	"time"
)

// Import records a note written by an import.
type Import struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Path        string    `json:"path"`
	Model       string    `json:"model"`
	ContentHash string    `json:"contentHash"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Validate returns an error if the import contains invalid fields.
func (i *Import) Validate() error {
	if i.URL == "" {
		return Errorf(EINVALID, "import URL required")
	}
	if i.Path == "" {
		return Errorf(EINVALID, "import path required")
	}
	return nil
}

// ImportService represents a service for managing the import history.
type ImportService interface {
	// CreateImport records a new import.
	CreateImport(ctx context.Context, imp *Import) error

	// FindImports retrieves imports matching the filter, newest first.
	FindImports(ctx context.Context, filter ImportFilter) ([]*Import, error)
}

// ImportFilter represents a filter for FindImports.
type ImportFilter struct {
	URL *string `json:"url"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
