// Package htmltomarkdown renders article content HTML as Markdown for the
// optional raw section of a note.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/strikethrough"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/urlvault"
)

// Ensure Converter implements urlvault.Converter at compile time.
var _ urlvault.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown to convert HTML to Markdown.
type Converter struct {
	conv   *converter.Converter
	domain string
}

// Option configures a Converter.
type Option func(*Converter)

// WithDomain resolves relative links and image sources against domain,
// e.g. "https://example.com".
func WithDomain(domain string) Option {
	return func(c *Converter) {
		c.domain = domain
	}
}

// NewConverter creates a new Converter.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				strikethrough.NewStrikethroughPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert transforms HTML content into trimmed Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", urlvault.Errorf(urlvault.EINVALID, "empty HTML input")
	}

	var result string
	var err error
	if c.domain != "" {
		result, err = c.conv.ConvertString(html, converter.WithDomain(c.domain))
	} else {
		result, err = c.conv.ConvertString(html)
	}
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(result), nil
}
