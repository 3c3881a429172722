package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/urlvault"
)

// Ensure LoggingExtractor implements urlvault.Extractor.
var _ urlvault.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with logging.
type LoggingExtractor struct {
	next   urlvault.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next urlvault.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs what it found.
func (e *LoggingExtractor) Extract(rawHTML, pageURL string, maxChars int) (article *urlvault.Article, err error) {
	defer func(begin time.Time) {
		var title string
		var chars int
		if article != nil {
			title = article.Title
			chars = len([]rune(article.Text))
		}
		e.logger.Info("extract",
			"url", pageURL,
			"title", title,
			"chars", chars,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(rawHTML, pageURL, maxChars)
}
