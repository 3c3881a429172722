package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/urlvault"
	"github.com/fwojciec/urlvault/anthropic"
	"github.com/fwojciec/urlvault/fs"
	"github.com/fwojciec/urlvault/gemini"
	"github.com/fwojciec/urlvault/htmltomarkdown"
	urlhttp "github.com/fwojciec/urlvault/http"
	"github.com/fwojciec/urlvault/note"
	"github.com/fwojciec/urlvault/readability"
	"github.com/fwojciec/urlvault/rod"
	urlslog "github.com/fwojciec/urlvault/slog"
	"github.com/fwojciec/urlvault/sqlite"
	"github.com/fwojciec/urlvault/trafilatura"
	"github.com/fwojciec/urlvault/yaml"
	"github.com/joho/godotenv"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		Report(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Paths used by the stores. Set before calling Run().
	DBPath     string
	ConfigPath string
	SecretsDir string

	// Env files loaded before flags are parsed. Missing files are ignored.
	EnvFiles []string

	// SQLite database used by the import history.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	dir := defaultDir()
	return &Main{
		DBPath:     defaultDBPath(dir),
		ConfigPath: defaultConfigPath(dir),
		SecretsDir: filepath.Join(dir, "secrets"),
		EnvFiles:   []string{".env"},
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	loadEnvFiles(m.EnvFiles)

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("urlvault"),
		kong.Description("Turn web articles into notes with a language model."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'urlvault --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Settings = fs.NewSettingsStore(m.ConfigPath)
	deps.Secrets = fs.NewSecretStore(m.SecretsDir)

	if cmd == "import" || cmd == "history" {
		if err := os.MkdirAll(filepath.Dir(m.DBPath), 0755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
		m.DB = sqlite.NewDB(m.DBPath)
		if err := m.DB.Open(); err != nil {
			err = fail(stderr, fmt.Errorf("failed to open database at %q: %w", m.DBPath, err))
			fmt.Fprintln(stderr, "Hint: Set URLVAULT_DB to use a different database path")
			return err
		}
		defer m.Close()

		deps.DB = m.DB
		deps.Imports = sqlite.NewImportService(m.DB)
	}

	if cmd == "import" {
		importer, closeFn, err := m.newImporter(ctx, &cli.Import, deps)
		if err != nil {
			return fail(stderr, err)
		}
		defer closeFn()
		deps.Importer = importer
	}

	return kongCtx.Run(deps)
}

// newImporter wires the import pipeline from the stored settings and the
// command's flag overrides.
func (m *Main) newImporter(ctx context.Context, c *ImportCmd, deps *Dependencies) (*note.Importer, func(), error) {
	settings, err := deps.Settings.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	c.Apply(settings)
	if err := settings.Validate(); err != nil {
		return nil, nil, err
	}

	logger := newLogger(deps.Stderr, settings.VerboseLogging)

	var fetcher urlvault.Fetcher
	if settings.Render {
		f, err := rod.NewFetcher()
		if err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed for --render")
			return nil, nil, fmt.Errorf("failed to start browser: %w", err)
		}
		fetcher = f
	} else {
		fetcher = urlhttp.NewFetcher()
	}
	fetcher = urlslog.NewLoggingFetcher(fetcher, logger)

	var extractor urlvault.Extractor
	switch settings.Extractor {
	case urlvault.ExtractorTrafilatura:
		extractor = trafilatura.NewExtractor()
	default:
		extractor = readability.NewExtractor()
	}
	extractor = urlslog.NewLoggingExtractor(extractor, logger)

	var factory urlvault.GeneratorFactory
	switch settings.Provider {
	case urlvault.ProviderAnthropic:
		factory = anthropic.NewFactory()
	default:
		factory = gemini.NewFactory()
	}

	// Log lines would land in the middle of a sticky notice.
	notifier := NewNotifier(deps.Stderr)
	if settings.VerboseLogging {
		notifier = &Notifier{w: deps.Stderr}
	}

	root, err := filepath.Abs(c.Vault)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve vault directory: %w", err)
	}
	vault := fs.NewVault(root)

	importer := &note.Importer{
		Settings: settings,
		Credentials: urlvault.CredentialChain{
			&urlvault.SecretCredential{Store: deps.Secrets, ID: urlvault.SecretID(settings.Provider), Logger: logger},
			urlvault.StaticCredential(settings.APIKeyFor(settings.Provider)),
			&urlvault.EnvCredential{Name: urlvault.APIKeyEnv(settings.Provider)},
		},
		Fetcher:   fetcher,
		Extractor: extractor,
		Formatter: &note.Formatter{
			Factory:    urlslog.WrapFactory(factory, logger),
			Cache:      &note.ClientCache{},
			MaxRetries: settings.MaxRetries,
			Logger:     logger,
		},
		Validator:    yaml.NewValidator(),
		Sink:         vault,
		Notifier:     notifier,
		Opener:       &uriOpener{root: vault.Root(), w: deps.Stdout},
		History:      deps.Imports,
		RawConverter: htmltomarkdown.NewConverter(htmltomarkdown.WithDomain(siteRoot(c.URL))),
		Logger:       logger,
	}

	if settings.VerboseLogging {
		tc, err := gemini.NewTokenCounter(gemini.TokenizerModel)
		if err != nil {
			logger.Warn("token counter unavailable", "err", err)
		} else {
			importer.Tokens = tc
		}
	}

	closeFn := func() {
		notifier.Dismiss()
		if err := fetcher.Close(); err != nil {
			logger.Warn("closing fetcher failed", "err", err)
		}
	}
	return importer, closeFn, nil
}

// newLogger returns a debug-level text logger on w when verbose is set and a
// discarding logger otherwise.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// siteRoot returns the scheme and host of rawURL, or an empty string when it
// does not parse.
func siteRoot(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

func loadEnvFiles(files []string) {
	for _, name := range files {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		_ = godotenv.Load(name)
	}
}

func defaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".urlvault"
	}
	return filepath.Join(home, ".urlvault")
}

func defaultDBPath(dir string) string {
	if path := os.Getenv("URLVAULT_DB"); path != "" {
		return path
	}
	return filepath.Join(dir, "urlvault.db")
}

func defaultConfigPath(dir string) string {
	if path := os.Getenv("URLVAULT_CONFIG"); path != "" {
		return path
	}
	return filepath.Join(dir, "settings.json")
}
