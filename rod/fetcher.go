// Package rod provides a headless-browser implementation of urlvault.Fetcher
// for articles rendered by JavaScript.
package rod

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fwojciec/urlvault"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds a single page load.
const DefaultFetchTimeout = 30 * time.Second

// Ensure Fetcher implements urlvault.Fetcher at compile time.
var _ urlvault.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	timeout   time.Duration
	userAgent string

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
	closed   bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the per-page load timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent overrides the browser's User-Agent for every page.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{timeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(f)
	}

	l := launcher.New().Headless(true)
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	f.launcher = l
	f.browser = browser
	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return "", urlvault.Errorf(urlvault.EINVALID, "fetcher is closed")
	}
	browser := f.browser
	f.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}
	defer page.Close()

	page = page.Context(ctx)

	if f.userAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: f.userAgent}); err != nil {
			return "", fmt.Errorf("setting user agent: %w", err)
		}
	}

	if err := page.Navigate(url); err != nil {
		return "", urlvault.Errorf(urlvault.EFETCH, "navigating to URL: %v", err)
	}

	if err := page.WaitLoad(); err != nil {
		return "", err
	}

	return page.HTML()
}

// LauncherPID returns the PID of the launched browser process.
func (f *Fetcher) LauncherPID() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.launcher == nil {
		return 0
	}
	return f.launcher.PID()
}

// Close releases browser resources. Calling Close more than once is safe.
func (f *Fetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true

	err := f.browser.Close()
	f.launcher.Kill()
	return err
}
