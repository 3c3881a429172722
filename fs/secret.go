package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/urlvault"
)

// Ensure SecretStore implements urlvault.SecretStore at compile time.
var _ urlvault.SecretStore = (*SecretStore)(nil)

// SecretStore keeps each secret in its own owner-only file inside a
// directory.
type SecretStore struct {
	dir string
}

// NewSecretStore creates a new SecretStore in dir.
func NewSecretStore(dir string) *SecretStore {
	return &SecretStore{dir: dir}
}

// GetSecret returns the trimmed secret stored under id, or an empty string
// when there is none.
func (s *SecretStore) GetSecret(ctx context.Context, id string) (string, error) {
	name, err := s.file(id)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(name)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	} else if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// SetSecret stores value under id. An empty value deletes the secret.
func (s *SecretStore) SetSecret(ctx context.Context, id, value string) error {
	name, err := s.file(id)
	if err != nil {
		return err
	}
	value = strings.TrimSpace(value)
	if value == "" {
		if err := os.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return err
	}
	return writeAtomic(name, []byte(value), 0600)
}

func (s *SecretStore) file(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", urlvault.Errorf(urlvault.EINVALID, "invalid secret id %q", id)
	}
	return filepath.Join(s.dir, id), nil
}
