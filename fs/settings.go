package fs

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"

	"github.com/fwojciec/urlvault"
)

// Ensure SettingsStore implements urlvault.SettingsStore at compile time.
var _ urlvault.SettingsStore = (*SettingsStore)(nil)

// SettingsStore keeps settings in a JSON file.
type SettingsStore struct {
	path string
}

// NewSettingsStore creates a new SettingsStore backed by the file at path.
func NewSettingsStore(path string) *SettingsStore {
	return &SettingsStore{path: path}
}

// Path returns the settings file location.
func (s *SettingsStore) Path() string {
	return s.path
}

// Load reads the settings file. Keys missing from the file keep their
// default values and a missing file yields DefaultSettings.
func (s *SettingsStore) Load(ctx context.Context) (*urlvault.Settings, error) {
	settings := urlvault.DefaultSettings()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return settings, nil
	} else if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(data, settings); err != nil {
		return nil, urlvault.Errorf(urlvault.EINVALID, "invalid settings file %s: %v", s.path, err)
	}
	if strings.TrimSpace(settings.Model) == "" {
		settings.Model = urlvault.DefaultModelFor(settings.Provider)
	}
	return settings, nil
}

// Save validates and writes the settings. The file may hold an API key and
// is readable by the owner only.
func (s *SettingsStore) Save(ctx context.Context, settings *urlvault.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	return writeAtomic(s.path, append(data, '\n'), 0600)
}
