// Package goquery implements the DOM queries used during article extraction:
// metadata lookups, plain-text fallbacks and link/image harvesting.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/urlvault"
)

// PublishedSelectors lists the metadata elements consulted for the publish
// date. Order matters: earlier entries win when a page carries several.
var PublishedSelectors = []string{
	`meta[property='article:published_time']`,
	`meta[name='article:published_time']`,
	`meta[name='pubdate']`,
	`meta[property='og:pubdate']`,
	`meta[name='date']`,
	`meta[property='article:modified_time']`,
}

// Parse builds a document from raw HTML. Malformed markup never fails; the
// tokenizer recovers the way browsers do.
func Parse(rawHTML string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, urlvault.Errorf(urlvault.EINVALID, "failed to parse HTML: %v", err)
	}
	return doc, nil
}

// Published returns the content attribute of the first PublishedSelectors
// element that has a non-empty one. The value is passed through verbatim.
func Published(doc *goquery.Document) string {
	for _, selector := range PublishedSelectors {
		var found string
		doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			content, ok := sel.Attr("content")
			if ok && strings.TrimSpace(content) != "" {
				found = strings.TrimSpace(content)
				return false
			}
			return true
		})
		if found != "" {
			return found
		}
	}
	return ""
}

// DocumentTitle returns the trimmed text of the <title> element.
func DocumentTitle(doc *goquery.Document) string {
	return collapseSpaces(doc.Find("title").First().Text())
}

// ArticleText returns the text of the first <article> element.
func ArticleText(doc *goquery.Document) string {
	return visibleText(doc.Find("article").First())
}

// BodyText returns the text of the whole document body.
func BodyText(doc *goquery.Document) string {
	return visibleText(doc.Find("body").First())
}

// visibleText returns the text of sel without script and style contents,
// one trimmed line per source line and no consecutive blank lines.
func visibleText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	clone := sel.Clone()
	clone.Find("script, style, noscript, template").Remove()

	var b strings.Builder
	blank := true
	for _, line := range strings.Split(clone.Text(), "\n") {
		line = collapseSpaces(line)
		if line == "" {
			if !blank {
				b.WriteString("\n")
			}
			blank = true
			continue
		}
		b.WriteString(line)
		b.WriteString("\n")
		blank = false
	}
	return strings.TrimSpace(b.String())
}

// LinksAndImages parses an HTML fragment and returns its anchors and images
// in document order, with targets resolved against baseURL. Entries without
// a target are skipped.
func LinksAndImages(fragmentHTML, baseURL string) ([]urlvault.Link, []urlvault.Image) {
	links := []urlvault.Link{}
	images := []urlvault.Image{}
	if strings.TrimSpace(fragmentHTML) == "" {
		return links, images
	}

	doc, err := Parse(fragmentHTML)
	if err != nil {
		return links, images
	}
	base, _ := url.Parse(baseURL)

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if isScriptLink(href) {
			return
		}
		if resolved := resolveURL(base, href); resolved != "" {
			links = append(links, urlvault.Link{
				Text: collapseSpaces(sel.Text()),
				Href: resolved,
			})
		}
	})

	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		src := urlvault.FirstNonEmpty(sel.AttrOr("src", ""), sel.AttrOr("data-src", ""))
		if resolved := resolveURL(base, src); resolved != "" {
			images = append(images, urlvault.Image{
				Alt: collapseSpaces(sel.AttrOr("alt", "")),
				Src: resolved,
			})
		}
	})

	return links, images
}

// resolveURL resolves href against base. Returns an empty string for blank
// or unparsable references; without a base the reference is kept as is.
func resolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base == nil {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}

// isScriptLink reports whether href executes script instead of navigating.
func isScriptLink(href string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(href)), "javascript:")
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
