package note

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/urlvault"
)

// Notification messages and durations.
const (
	MsgEnterURL      = "Please enter a URL."
	MsgInvalidURL    = "Please enter a valid URL."
	MsgImporting     = "Importing article..."
	MsgNoArticleText = "No article text extracted; sending minimal content to the model."
	MsgSavedPrefix   = "Saved: "
	MsgFailedPrefix  = "Import failed: "

	ShortNotice = 4 * time.Second
	LongNotice  = 8 * time.Second
)

// Importer runs the article-to-note pipeline for one URL at a time.
type Importer struct {
	Settings    *urlvault.Settings
	Credentials urlvault.CredentialChain
	Fetcher     urlvault.Fetcher
	Extractor   urlvault.Extractor
	Formatter   *Formatter
	Validator   urlvault.NoteValidator
	Sink        urlvault.NoteSink
	Notifier    urlvault.Notifier

	// Optional collaborators.
	Opener       urlvault.Opener
	History      urlvault.ImportService
	RawConverter urlvault.Converter
	Tokens       urlvault.TokenCounter
	Logger       *slog.Logger
}

// Import fetches rawURL, formats it into a note and writes it to the vault.
// Every failure is logged, reported through a single notification and
// returned. A note is written only after its output passes validation.
func (imp *Importer) Import(ctx context.Context, rawURL string) (*urlvault.NoteFile, error) {
	pageURL, err := validateURL(rawURL)
	if err != nil {
		imp.notify(urlvault.ErrorMessage(err), ShortNotice)
		return nil, err
	}

	file, err := imp.run(ctx, pageURL)
	if err != nil {
		imp.logger().Error("import failed", "url", pageURL, "err", err)
		msg := MsgFailedPrefix + urlvault.ErrorMessage(err)
		if hint := urlvault.Remediation(err); hint != "" {
			msg += " " + hint
		}
		imp.notify(msg, LongNotice)
		return nil, err
	}

	imp.notify(MsgSavedPrefix+file.Path, ShortNotice)
	return file, nil
}

func (imp *Importer) run(ctx context.Context, pageURL string) (*urlvault.NoteFile, error) {
	settings := imp.settings()
	logger := imp.logger()

	apiKey, err := imp.Credentials.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	imp.notify(MsgImporting, 0)

	html, err := imp.Fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	article, err := imp.Extractor.Extract(html, pageURL, settings.MaxChars)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(article.Text) == "" {
		imp.notify(MsgNoArticleText, ShortNotice)
	}
	logger.Debug("article extracted",
		"url", pageURL,
		"title", article.Title,
		"chars", len([]rune(article.Text)),
		"links", len(article.Links),
		"images", len(article.Images),
	)

	tags := settings.Tags()
	template := settings.PromptTemplate()
	imp.logPromptSize(ctx, pageURL, article, tags, template)

	output, err := imp.Formatter.Format(ctx, apiKey, settings.Model, pageURL, article, tags, template)
	if err != nil {
		return nil, err
	}

	validated, err := imp.Validator.Validate(output)
	if err != nil {
		return nil, err
	}

	content := urlvault.AssembleNote(validated, article, urlvault.AssembleOptions{
		IncludeRaw:    settings.IncludeRaw,
		IncludeLinks:  settings.IncludeLinks,
		IncludeImages: settings.IncludeImages,
		RawSection:    imp.rawSection(article, settings),
	})
	content = strings.TrimRight(content, "\n") + "\n"

	file, err := imp.write(ctx, settings.OutputFolder, article.Title, content)
	if err != nil {
		return nil, err
	}

	if imp.History != nil {
		if err := imp.History.CreateImport(ctx, &urlvault.Import{
			URL:         pageURL,
			Title:       article.Title,
			Path:        file.Path,
			Model:       settings.Model,
			ContentHash: ContentHash(content),
		}); err != nil {
			logger.Warn("recording import failed", "path", file.Path, "err", err)
		}
	}

	if settings.OpenAfterCreate && imp.Opener != nil {
		if err := imp.Opener.Open(ctx, file); err != nil {
			logger.Warn("opening note failed", "path", file.Path, "err", err)
		}
	}

	return file, nil
}

// write stores content in folder under a unique name derived from title.
func (imp *Importer) write(ctx context.Context, folder, title, content string) (*urlvault.NoteFile, error) {
	dir, err := imp.Sink.EnsureFolder(ctx, folder)
	if err != nil {
		return nil, err
	}
	target, err := imp.Sink.CreateUnique(ctx, path.Join(dir, urlvault.NoteFilename(title)))
	if err != nil {
		return nil, err
	}
	return imp.Sink.Write(ctx, target, content)
}

// rawSection renders the article content as Markdown when configured.
// Conversion failures fall back to the plain text.
func (imp *Importer) rawSection(article *urlvault.Article, settings *urlvault.Settings) string {
	if !settings.IncludeRaw || settings.RawFormat != urlvault.RawFormatMarkdown ||
		imp.RawConverter == nil || strings.TrimSpace(article.ContentHTML) == "" {
		return ""
	}
	md, err := imp.RawConverter.Convert(article.ContentHTML)
	if err != nil {
		imp.logger().Warn("markdown conversion failed, using plain text", "err", err)
		return ""
	}
	return md
}

func (imp *Importer) logPromptSize(ctx context.Context, pageURL string, article *urlvault.Article, tags []string, template string) {
	if imp.Tokens == nil {
		return
	}
	n, err := imp.Tokens.CountTokens(ctx, urlvault.BuildPrompt(pageURL, article, tags, template))
	if err != nil {
		imp.logger().Debug("counting prompt tokens failed", "err", err)
		return
	}
	imp.logger().Debug("prompt built", "tokens", n)
}

func (imp *Importer) settings() *urlvault.Settings {
	if imp.Settings == nil {
		return urlvault.DefaultSettings()
	}
	return imp.Settings
}

func (imp *Importer) logger() *slog.Logger {
	if imp.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return imp.Logger
}

func (imp *Importer) notify(msg string, d time.Duration) {
	if imp.Notifier != nil {
		imp.Notifier.Notify(msg, d)
	}
}

// validateURL trims rawURL and checks it is an absolute http(s) URL.
func validateURL(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", urlvault.Errorf(urlvault.EINVALID, MsgEnterURL)
	}
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", urlvault.Errorf(urlvault.EINVALID, MsgInvalidURL)
	}
	return rawURL, nil
}

// ContentHash returns the hex xxhash of note content, recorded in the
// import history to spot repeated imports of unchanged articles.
func ContentHash(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}
