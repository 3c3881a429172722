package urlvault

import (
	"context"
	"net/url"
	"regexp"
	"strings"
)

// TruncationMarker is appended to article text cut at the character budget.
const TruncationMarker = "\n\n[truncated]"

// Article is the readable content and metadata extracted from one web page.
// It lives for the duration of a single import and is never persisted.
type Article struct {
	Title       string
	Authors     []string
	Published   string // passed through verbatim, never parsed
	Text        string
	SourceGuess string

	Links  []Link
	Images []Image

	// ContentHTML is the main-content HTML the text was derived from.
	// Only used when the raw section is rendered as Markdown.
	ContentHTML string
}

// Link is an anchor found in the article content.
type Link struct {
	Text string
	Href string
}

// Image is an image found in the article content.
type Image struct {
	Alt string
	Src string
}

// Fetcher retrieves raw HTML from URLs.
type Fetcher interface {
	// Fetch returns the page body. Status codes >= 400 are reported as EFETCH.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// Extractor turns raw HTML into an Article.
type Extractor interface {
	// Extract isolates the main content of the page and its metadata.
	// The text is truncated to maxChars characters (TruncationMarker appended
	// when cut). Malformed markup degrades to empty fields rather than errors,
	// and an empty Text is a valid result.
	Extract(rawHTML, pageURL string, maxChars int) (*Article, error)
}

// TrimText truncates text to maxChars characters and appends
// TruncationMarker when anything was cut. A non-positive budget disables
// truncation.
func TrimText(text string, maxChars int) string {
	if maxChars <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars]) + TruncationMarker
}

// GuessSource returns the URL's hostname without a leading "www.".
// Any parse failure yields an empty string.
func GuessSource(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}

var authorSeparators = regexp.MustCompile(`(?i),\s*|\s+and\s+|\s*&\s*|;\s*`)

// SplitAuthors splits a byline into individual author names.
// Names are trimmed and empty entries dropped; a byline without separators
// is a single author.
func SplitAuthors(byline string) []string {
	if strings.TrimSpace(byline) == "" {
		return []string{}
	}

	parts := authorSeparators.Split(byline, -1)
	authors := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			authors = append(authors, p)
		}
	}
	return authors
}

// FirstNonEmpty returns the first candidate that is not blank, trimmed.
// It returns an empty string when every candidate is blank.
func FirstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if c = strings.TrimSpace(c); c != "" {
			return c
		}
	}
	return ""
}
