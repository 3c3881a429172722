package mock

import (
	"context"

	"github.com/fwojciec/urlvault"
)

var _ urlvault.SecretStore = (*SecretStore)(nil)

// SecretStore is a mock implementation of urlvault.SecretStore.
type SecretStore struct {
	GetSecretFn func(ctx context.Context, id string) (string, error)
	SetSecretFn func(ctx context.Context, id, value string) error
}

func (s *SecretStore) GetSecret(ctx context.Context, id string) (string, error) {
	return s.GetSecretFn(ctx, id)
}

func (s *SecretStore) SetSecret(ctx context.Context, id, value string) error {
	return s.SetSecretFn(ctx, id, value)
}
