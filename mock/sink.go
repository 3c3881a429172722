package mock

import (
	"context"
	"sync"
	"time"

	"github.com/fwojciec/urlvault"
)

var (
	_ urlvault.NoteSink = (*NoteSink)(nil)
	_ urlvault.Notifier = (*Notifier)(nil)
	_ urlvault.Opener   = (*Opener)(nil)
)

// NoteSink is a mock implementation of urlvault.NoteSink.
type NoteSink struct {
	EnsureFolderFn func(ctx context.Context, folder string) (string, error)
	ExistsFn       func(ctx context.Context, path string) (bool, error)
	CreateUniqueFn func(ctx context.Context, basePath string) (string, error)
	WriteFn        func(ctx context.Context, path, content string) (*urlvault.NoteFile, error)
}

func (s *NoteSink) EnsureFolder(ctx context.Context, folder string) (string, error) {
	return s.EnsureFolderFn(ctx, folder)
}

func (s *NoteSink) Exists(ctx context.Context, path string) (bool, error) {
	return s.ExistsFn(ctx, path)
}

func (s *NoteSink) CreateUnique(ctx context.Context, basePath string) (string, error) {
	return s.CreateUniqueFn(ctx, basePath)
}

func (s *NoteSink) Write(ctx context.Context, path, content string) (*urlvault.NoteFile, error) {
	return s.WriteFn(ctx, path, content)
}

// Notifier is a mock implementation of urlvault.Notifier that records
// every message.
type Notifier struct {
	mu       sync.Mutex
	Messages []string
}

func (n *Notifier) Notify(message string, _ time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Messages = append(n.Messages, message)
}

// Opener is a mock implementation of urlvault.Opener.
type Opener struct {
	OpenFn func(ctx context.Context, file *urlvault.NoteFile) error
}

func (o *Opener) Open(ctx context.Context, file *urlvault.NoteFile) error {
	return o.OpenFn(ctx, file)
}
