package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/urlvault"
	"github.com/fwojciec/urlvault/sqlite"
	"github.com/mattn/go-isatty"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	DB       *sqlite.DB
	Settings urlvault.SettingsStore
	Secrets  urlvault.SecretStore
	Imports  urlvault.ImportService
	Importer Importer
}

// Importer runs the import pipeline for a URL.
type Importer interface {
	Import(ctx context.Context, rawURL string) (*urlvault.NoteFile, error)
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Import  ImportCmd  `cmd:"" help:"Import an article URL as a note"`
	History HistoryCmd `cmd:"" help:"List recorded imports"`
	Config  ConfigCmd  `cmd:"" help:"Show or change settings"`
	Key     KeyCmd     `cmd:"" help:"Manage the model API key"`
}

// ImportCmd is the "import" subcommand. Unset flags fall back to the stored
// settings.
type ImportCmd struct {
	URL        string `arg:"" help:"Article URL"`
	Vault      string `default:"." env:"URLVAULT_VAULT" help:"Vault root directory"`
	Folder     string `help:"Output folder inside the vault"`
	Tags       string `help:"Comma-separated default tags"`
	Model      string `short:"m" help:"Model name"`
	Provider   string `help:"Model provider (gemini, anthropic)"`
	Extractor  string `help:"Content extractor (readability, trafilatura)"`
	RawFormat  string `name:"raw-format" help:"Raw section format (text, markdown)"`
	MaxChars   int    `name:"max-chars" help:"Article text budget in characters"`
	MaxRetries int    `name:"max-retries" default:"-1" help:"Retries after a failed model call"`
	Render     bool   `help:"Render the page in a headless browser"`
	Raw        bool   `xor:"raw" help:"Append the raw article text"`
	NoRaw      bool   `name:"no-raw" xor:"raw" help:"Omit the raw article text"`
	Links      bool   `help:"Append extracted links"`
	Images     bool   `help:"Append extracted images"`
	Open       bool   `help:"Print an open URI for the note"`
	Verbose    bool   `short:"v" help:"Log pipeline details to stderr"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	URL   string `help:"Only show imports of this URL"`
	Limit int    `short:"n" default:"20" help:"Maximum number of imports to show"`
}

// ConfigCmd is the "config" command group.
type ConfigCmd struct {
	Show  ConfigShowCmd  `cmd:"" help:"Print the current settings"`
	Set   ConfigSetCmd   `cmd:"" help:"Change a setting"`
	Reset ConfigResetCmd `cmd:"" help:"Restore the default settings"`
}

// ConfigShowCmd is the "config show" subcommand.
type ConfigShowCmd struct{}

// ConfigSetCmd is the "config set" subcommand.
type ConfigSetCmd struct {
	Key   string `arg:"" help:"Setting name, e.g. maxChars"`
	Value string `arg:"" help:"New value"`
}

// ConfigResetCmd is the "config reset" subcommand.
type ConfigResetCmd struct{}

// KeyCmd is the "key" command group.
type KeyCmd struct {
	Set  KeySetCmd  `cmd:"" help:"Store the API key"`
	Show KeyShowCmd `cmd:"" help:"Print the configured API key, masked"`
}

// KeySetCmd is the "key set" subcommand.
type KeySetCmd struct {
	Value    string `arg:"" help:"API key"`
	Provider string `help:"Provider the key belongs to (defaults to the configured provider)"`
}

// KeyShowCmd is the "key show" subcommand.
type KeyShowCmd struct {
	Provider string `help:"Provider whose key to show (defaults to the configured provider)"`
}

// Notifier prints importer notifications to w. On a terminal a message with a
// zero duration stays on the current line until the next message or Dismiss
// replaces it. Elsewhere every message is printed on its own line.
type Notifier struct {
	mu     sync.Mutex
	w      io.Writer
	tty    bool
	sticky bool
}

var _ urlvault.Notifier = (*Notifier)(nil)

// NewNotifier returns a Notifier writing to w. Line replacement is enabled
// when w is a terminal.
func NewNotifier(w io.Writer) *Notifier {
	n := &Notifier{w: w}
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		n.tty = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return n
}

// NewTerminalNotifier returns a Notifier that always replaces sticky
// messages, whatever w is.
func NewTerminalNotifier(w io.Writer) *Notifier {
	return &Notifier{w: w, tty: true}
}

// Notify prints message. Non-zero durations are not tracked.
func (n *Notifier) Notify(message string, d time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.clear()
	if n.tty && d == 0 {
		fmt.Fprint(n.w, message)
		n.sticky = true
		return
	}
	fmt.Fprintln(n.w, message)
}

// Dismiss removes a sticky message that is still shown.
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.clear()
}

func (n *Notifier) clear() {
	if n.sticky {
		fmt.Fprint(n.w, "\r\033[K")
		n.sticky = false
	}
}

// ReportedError wraps an error that has already been shown to the user.
type ReportedError struct {
	Err error
}

func (e *ReportedError) Error() string { return e.Err.Error() }

func (e *ReportedError) Unwrap() error { return e.Err }

// fail prints err to w as "error: <message>" and marks it reported.
func fail(w io.Writer, err error) error {
	fmt.Fprintf(w, "error: %s\n", urlvault.ErrorMessage(err))
	return &ReportedError{Err: err}
}

// Report prints err to w as "error: <message>" unless it was already
// reported.
func Report(w io.Writer, err error) {
	var reported *ReportedError
	if err == nil || errors.As(err, &reported) {
		return
	}
	fmt.Fprintf(w, "error: %s\n", urlvault.ErrorMessage(err))
}

// uriOpener prints an obsidian:// URI for the written note.
type uriOpener struct {
	root string
	w    io.Writer
}

var _ urlvault.Opener = (*uriOpener)(nil)

func (o *uriOpener) Open(_ context.Context, file *urlvault.NoteFile) error {
	_, err := fmt.Fprintln(o.w, ObsidianURI(filepath.Join(o.root, filepath.FromSlash(file.Path))))
	return err
}

// ObsidianURI returns the URI that opens the note at path in Obsidian.
func ObsidianURI(path string) string {
	return "obsidian://open?path=" + strings.ReplaceAll(url.QueryEscape(path), "+", "%20")
}
