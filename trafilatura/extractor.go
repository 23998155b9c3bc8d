// Package trafilatura implements lawdoc.Extractor with go-trafilatura,
// a boilerplate-removal extractor suited to article-like pages.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/lawdoc"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

var _ lawdoc.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct {
	opts trafilatura.Options
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{opts: trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
	}}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*lawdoc.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, lawdoc.Errorf(lawdoc.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), e.opts)
	if err != nil {
		return nil, lawdoc.Errorf(lawdoc.ECONTENT, "extract content: %v", err)
	}

	var body string
	if result.ContentNode != nil {
		var buf bytes.Buffer
		if err := html.Render(&buf, result.ContentNode); err != nil {
			return nil, lawdoc.Errorf(lawdoc.ECONTENT, "render content: %v", err)
		}
		body = buf.String()
	}

	meta := result.Metadata
	metadata := make(map[string]string)
	for key, value := range map[string]string{
		lawdoc.MetaAuthor:      meta.Author,
		lawdoc.MetaDescription: meta.Description,
		lawdoc.MetaSite:        meta.Sitename,
	} {
		if v := strings.TrimSpace(value); v != "" {
			metadata[key] = v
		}
	}
	if !meta.Date.IsZero() {
		metadata[lawdoc.MetaCreated] = meta.Date.Format("2006-01-02")
	}

	return &lawdoc.ExtractResult{
		Title:       strings.TrimSpace(meta.Title),
		ContentHTML: body,
		Metadata:    metadata,
	}, nil
}
