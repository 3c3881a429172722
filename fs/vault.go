// Package fs provides file-based storage: the note vault, the settings
// file and the secret store.
package fs

import (
	"context"
	"errors"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/fwojciec/urlvault"
)

// Ensure Vault implements urlvault.NoteSink at compile time.
var _ urlvault.NoteSink = (*Vault)(nil)

// Vault writes notes below a root directory. Paths handed in and out are
// vault-relative and slash separated.
type Vault struct {
	root string
}

// NewVault creates a new Vault rooted at dir.
func NewVault(dir string) *Vault {
	return &Vault{root: dir}
}

// Root returns the vault directory.
func (v *Vault) Root() string {
	return v.root
}

// EnsureFolder creates folder and returns its normalized path.
func (v *Vault) EnsureFolder(ctx context.Context, folder string) (string, error) {
	rel, err := normalize(folder)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(v.abs(rel), 0755); err != nil {
		return "", err
	}
	return rel, nil
}

// Exists reports whether a file or folder exists at p.
func (v *Vault) Exists(ctx context.Context, p string) (bool, error) {
	rel, err := normalize(p)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(v.abs(rel))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

// CreateUnique returns basePath or its first free "name (N).ext" variant.
func (v *Vault) CreateUnique(ctx context.Context, basePath string) (string, error) {
	rel, err := normalize(basePath)
	if err != nil {
		return "", err
	}
	if rel == "" {
		return "", urlvault.Errorf(urlvault.EINVALID, "file path required")
	}
	return urlvault.UniquePath(rel, func(p string) (bool, error) {
		return v.Exists(ctx, p)
	})
}

// Write creates the file at p with content. The content is written to a
// temporary file first and renamed into place, so readers never observe a
// partial note. An existing file is never overwritten.
func (v *Vault) Write(ctx context.Context, p, content string) (*urlvault.NoteFile, error) {
	rel, err := normalize(p)
	if err != nil {
		return nil, err
	}
	if rel == "" {
		return nil, urlvault.Errorf(urlvault.EINVALID, "file path required")
	}

	full := v.abs(rel)
	if _, err := os.Stat(full); err == nil {
		return nil, urlvault.Errorf(urlvault.ECONFLICT, "file already exists: %s", rel)
	}
	if err := writeAtomic(full, []byte(content), 0644); err != nil {
		return nil, err
	}

	return &urlvault.NoteFile{Path: rel, Size: len(content)}, nil
}

func (v *Vault) abs(rel string) string {
	return filepath.Join(v.root, filepath.FromSlash(rel))
}

// normalize cleans a vault-relative path. Paths escaping the vault are
// rejected; the vault root itself is "".
func normalize(p string) (string, error) {
	p = strings.TrimSpace(strings.ReplaceAll(p, `\`, "/"))
	clean := strings.TrimPrefix(path.Clean("/"+p), "/")
	for _, part := range strings.Split(p, "/") {
		if part == ".." {
			return "", urlvault.Errorf(urlvault.EINVALID, "path escapes the vault: %s", p)
		}
	}
	return clean, nil
}

// writeAtomic writes data to a temporary file next to name and renames it
// into place. Parent directories are created as needed.
func writeAtomic(name string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".urlvault-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), name)
}
