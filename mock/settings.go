package mock

import (
	"context"

	"github.com/fwojciec/urlvault"
)

var _ urlvault.SettingsStore = (*SettingsStore)(nil)

// SettingsStore is a mock implementation of urlvault.SettingsStore.
type SettingsStore struct {
	LoadFn func(ctx context.Context) (*urlvault.Settings, error)
	SaveFn func(ctx context.Context, s *urlvault.Settings) error
}

func (s *SettingsStore) Load(ctx context.Context) (*urlvault.Settings, error) {
	return s.LoadFn(ctx)
}

func (s *SettingsStore) Save(ctx context.Context, settings *urlvault.Settings) error {
	return s.SaveFn(ctx, settings)
}
