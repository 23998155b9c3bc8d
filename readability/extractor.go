// Package readability implements lawdoc.Extractor with go-readability,
// the Mozilla Readability port.
package readability

import (
	"strings"
	"time"

	"github.com/fwojciec/lawdoc"
	"github.com/go-shiori/go-readability"
)

var _ lawdoc.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*lawdoc.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, lawdoc.Errorf(lawdoc.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, lawdoc.Errorf(lawdoc.ECONTENT, "extract content: %v", err)
	}

	metadata := make(map[string]string)
	setText(metadata, lawdoc.MetaAuthor, article.Byline)
	setText(metadata, lawdoc.MetaDescription, article.Excerpt)
	setText(metadata, lawdoc.MetaSite, article.SiteName)
	setTime(metadata, lawdoc.MetaCreated, article.PublishedTime)
	setTime(metadata, lawdoc.MetaModified, article.ModifiedTime)

	return &lawdoc.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
		Metadata:    metadata,
	}, nil
}

func setText(m map[string]string, key, v string) {
	if v = strings.TrimSpace(v); v != "" {
		m[key] = v
	}
}

func setTime(m map[string]string, key string, t *time.Time) {
	if t != nil && !t.IsZero() {
		m[key] = t.Format(time.RFC3339)
	}
}
