package mock

import (
	"context"

	"github.com/fwojciec/urlvault"
)

var _ urlvault.ImportService = (*ImportService)(nil)

// ImportService is a mock implementation of urlvault.ImportService.
type ImportService struct {
	CreateImportFn func(ctx context.Context, imp *urlvault.Import) error
	FindImportsFn  func(ctx context.Context, filter urlvault.ImportFilter) ([]*urlvault.Import, error)
}

func (s *ImportService) CreateImport(ctx context.Context, imp *urlvault.Import) error {
	return s.CreateImportFn(ctx, imp)
}

func (s *ImportService) FindImports(ctx context.Context, filter urlvault.ImportFilter) ([]*urlvault.Import, error) {
	return s.FindImportsFn(ctx, filter)
}
