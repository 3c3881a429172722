// Package trafilatura implements urlvault.Extractor on top of go-trafilatura,
// an alternative to the readability extractor for pages it handles poorly.
package trafilatura

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/fwojciec/urlvault"
	"github.com/fwojciec/urlvault/goquery"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// dateLayout formats dates trafilatura detects when the page has no
// publish-date metadata of its own.
const dateLayout = "2006-01-02"

// Ensure Extractor implements urlvault.Extractor at compile time.
var _ urlvault.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the article. Extraction failures
// degrade to the DOM fallbacks; an error is never returned for bad markup.
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

	opts := trafilatura.Options{
		EnableFallback: true,
		IncludeLinks:   true,
		IncludeImages:  true,
	}
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		opts.OriginalURL = u
	}

	var title, author, date, text, contentHTML string
	if result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts); err == nil && result != nil {
		title = result.Metadata.Title
		author = result.Metadata.Author
		if !result.Metadata.Date.IsZero() {
			date = result.Metadata.Date.Format(dateLayout)
		}
		text = result.ContentText
		if result.ContentNode != nil {
			contentHTML, _ = renderNode(result.ContentNode)
		}
	}

	var docTitle, articleText, bodyText, published string
	if doc, err := goquery.Parse(rawHTML); err == nil {
		docTitle = goquery.DocumentTitle(doc)
		articleText = goquery.ArticleText(doc)
		bodyText = goquery.BodyText(doc)
		published = goquery.Published(doc)
	}

	article.Title = urlvault.FirstNonEmpty(title, docTitle)
	article.Authors = urlvault.SplitAuthors(author)
	article.Published = urlvault.FirstNonEmpty(published, date)
	article.Text = urlvault.TrimText(urlvault.FirstNonEmpty(text, articleText, bodyText), maxChars)
	article.ContentHTML = contentHTML
	article.Links, article.Images = goquery.LinksAndImages(contentHTML, pageURL)

	return article, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
