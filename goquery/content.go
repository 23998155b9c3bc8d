// Package goquery implements HTML processing with PuerkitoBio/goquery:
// main-content extraction, link discovery and locating PDF downloads on
// wrapper pages.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/lawdoc"
)

// noiseSelector matches elements removed before content is selected.
const noiseSelector = "script, style, noscript, iframe, " +
	".advertisement, .comments, .social-share, .ad-container, #comments, .ads"

// mainSelectors are tried in order; the first match is the content region.
var mainSelectors = []string{"main", "article", ".main-content", ".content"}

// metaSelectors map document metadata keys to the <meta> tags declaring them.
var metaSelectors = map[string]string{
	lawdoc.MetaAuthor:   `meta[name="author"]`,
	lawdoc.MetaCreated:  `meta[property="article:published_time"]`,
	lawdoc.MetaModified: `meta[property="article:modified_time"]`,
}

var _ lawdoc.Extractor = (*Extractor)(nil)

// Extractor selects the main content region of a page with CSS
// selectors.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract strips noise from html and returns its main region.
func (e *Extractor) Extract(html string) (*lawdoc.ExtractResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, lawdoc.Errorf(lawdoc.ECONTENT, "failed to parse HTML: %v", err)
	}

	metadata := make(map[string]string)
	for key, selector := range metaSelectors {
		if v := strings.TrimSpace(doc.Find(selector).First().AttrOr("content", "")); v != "" {
			metadata[key] = v
		}
	}

	title := pageTitle(doc)

	doc.Find(noiseSelector).Remove()

	region := doc.Find("body")
	for _, selector := range mainSelectors {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			region = sel
			break
		}
	}

	content, err := region.Html()
	if err != nil {
		return nil, lawdoc.Errorf(lawdoc.ECONTENT, "failed to render content: %v", err)
	}

	return &lawdoc.ExtractResult{
		Title:       title,
		ContentHTML: strings.TrimSpace(content),
		Metadata:    metadata,
	}, nil
}

// pageTitle returns the <title> text, falling back to og:title and the
// first heading.
func pageTitle(doc *goquery.Document) string {
	if t := strings.TrimSpace(doc.Find("head title").First().Text()); t != "" {
		return t
	}
	if t := strings.TrimSpace(doc.Find(`meta[property="og:title"]`).First().AttrOr("content", "")); t != "" {
		return t
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}
