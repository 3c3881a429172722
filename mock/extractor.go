package mock

import "github.com/fwojciec/urlvault"

var _ urlvault.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of urlvault.Extractor.
type Extractor struct {
	ExtractFn func(html, pageURL string, maxChars int) (*urlvault.Article, error)
}

func (e *Extractor) Extract(html, pageURL string, maxChars int) (*urlvault.Article, error) {
	return e.ExtractFn(html, pageURL, maxChars)
}
