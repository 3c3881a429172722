package urlvault

import (
	"strings"
)

// Section headings appended to the model output.
const (
	RawSectionHeader   = "## Extracted article (plaintext)"
	LinksSectionHeader = "## Links"
	ImageSectionHeader = "## Images"
)

// NoRawText is written in the raw section when extraction found no text.
const NoRawText = "_No article text extracted._"

// AssembleOptions selects the optional sections appended to a note.
type AssembleOptions struct {
	IncludeRaw    bool
	IncludeLinks  bool
	IncludeImages bool

	// RawSection replaces the article text in the raw section when set,
	// e.g. with a Markdown rendering of the article content.
	RawSection string
}

// AssembleNote composes the final note text from validated model output and
// the optional raw text, link and image sections, in that fixed order.
// Link and image sections are written only when enabled and non-empty.
func AssembleNote(validated string, article *Article, opts AssembleOptions) string {
	if article == nil {
		article = &Article{}
	}

	sections := []string{validated}

	if opts.IncludeRaw {
		body := FirstNonEmpty(opts.RawSection, article.Text, NoRawText)
		sections = append(sections, RawSectionHeader+"\n\n"+body)
	}

	if opts.IncludeLinks && len(article.Links) > 0 {
		lines := make([]string, 0, len(article.Links))
		for _, l := range article.Links {
			lines = append(lines, "- ["+escapeLinkText(FirstNonEmpty(l.Text, l.Href))+"]("+l.Href+")")
		}
		sections = append(sections, LinksSectionHeader+"\n\n"+strings.Join(lines, "\n"))
	}

	if opts.IncludeImages && len(article.Images) > 0 {
		lines := make([]string, 0, len(article.Images))
		for _, img := range article.Images {
			lines = append(lines, "- !["+escapeLinkText(img.Alt)+"]("+img.Src+")")
		}
		sections = append(sections, ImageSectionHeader+"\n\n"+strings.Join(lines, "\n"))
	}

	return strings.Join(sections, "\n\n")
}

var linkTextEscaper = strings.NewReplacer("[", `\[`, "]", `\]`, "\n", " ")

func escapeLinkText(s string) string {
	return linkTextEscaper.Replace(s)
}
