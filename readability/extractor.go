// Package readability implements urlvault.Extractor on top of go-readability.
package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/urlvault"
	"github.com/fwojciec/urlvault/goquery"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements urlvault.Extractor at compile time.
var _ urlvault.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to isolate the main article content, and
// falls back to plain DOM queries for every field readability leaves empty.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the article. Parse failures degrade
// to empty fields; an error is never returned for malformed markup.
func (e *Extractor) Extract(rawHTML, pageURL string, maxChars int) (*urlvault.Article, error) {
	article := &urlvault.Article{
		Authors:     []string{},
		SourceGuess: urlvault.GuessSource(pageURL),
		Links:       []urlvault.Link{},
		Images:      []urlvault.Image{},
	}
	if strings.TrimSpace(rawHTML) == "" {
		return article, nil
	}

	// A nil URL leaves relative links unresolved.
	base, err := url.Parse(pageURL)
	if err != nil {
		base = nil
	}

	parsed, err := readability.FromReader(strings.NewReader(rawHTML), base)
	if err != nil {
		parsed = readability.Article{}
	}

	var docTitle, articleText, bodyText string
	if doc, err := goquery.Parse(rawHTML); err == nil {
		docTitle = goquery.DocumentTitle(doc)
		articleText = goquery.ArticleText(doc)
		bodyText = goquery.BodyText(doc)
		article.Published = goquery.Published(doc)
	}

	article.Title = urlvault.FirstNonEmpty(parsed.Title, docTitle)
	article.Authors = urlvault.SplitAuthors(parsed.Byline)
	article.Text = urlvault.TrimText(urlvault.FirstNonEmpty(parsed.TextContent, articleText, bodyText), maxChars)
	article.ContentHTML = parsed.Content
	article.Links, article.Images = goquery.LinksAndImages(parsed.Content, pageURL)

	return article, nil
}
