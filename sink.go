package urlvault

import (
	"context"
	"time"
)

// NoteFile is a note written to the vault.
type NoteFile struct {
	Path string // vault-relative, slash separated
	Size int
}

// NoteSink writes notes into the vault. Paths are vault-relative and slash
// separated.
type NoteSink interface {
	// EnsureFolder creates the folder if needed and returns its normalized
	// path. An empty folder is the vault root and returns "".
	EnsureFolder(ctx context.Context, folder string) (string, error)

	// Exists reports whether a file exists at path.
	Exists(ctx context.Context, path string) (bool, error)

	// CreateUnique returns basePath, or the first free "name (N).ext"
	// variant of it.
	CreateUnique(ctx context.Context, basePath string) (string, error)

	// Write creates the file at path with content.
	Write(ctx context.Context, path, content string) (*NoteFile, error)
}

// Notifier displays progress and outcome messages to the user. Calls are
// fire-and-forget; a zero duration means the message stays until replaced.
type Notifier interface {
	Notify(message string, d time.Duration)
}

// Opener opens a written note for the user.
type Opener interface {
	Open(ctx context.Context, file *NoteFile) error
}
