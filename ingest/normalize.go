// Package ingest turns fetched responses into indexed chunks. The
// Normalizer converts HTML, PDF and calendar responses into canonical
// documents, the Indexer embeds and stores their chunks, and the Pipeline
// composes both into the crawler's Processor.
package ingest

import (
	"bytes"
	"context"
	"strconv"
	"strings"

	"github.com/fwojciec/lawdoc"
)

// Normalizer converts fetched responses into canonical documents.
type Normalizer struct {
	Extractor lawdoc.Extractor
	Converter lawdoc.Converter
	PDF       lawdoc.PDFParser

	// PDFLinks and Fetcher resolve HTML pages served in place of a PDF.
	PDFLinks lawdoc.PDFLinkFinder
	Fetcher  lawdoc.Fetcher
}

// Normalize classifies the response and produces a document from it.
// Unsupported content and documents shorter than lawdoc.MinContentLength
// are rejected with ESKIPPED; malformed content with ECONTENT.
func (n *Normalizer) Normalize(ctx context.Context, resp *lawdoc.Response) (*lawdoc.Document, error) {
	var doc *lawdoc.Document
	var err error

	switch kind := lawdoc.ClassifyContent(resp.ContentType, resp.URL); kind {
	case lawdoc.ContentHTML:
		doc, err = n.normalizeHTML(resp)
	case lawdoc.ContentPDF:
		doc, err = n.normalizePDF(ctx, resp)
	case lawdoc.ContentCalendar:
		doc, err = n.normalizeCalendar(resp)
	default:
		return nil, lawdoc.Errorf(lawdoc.ESKIPPED, "unsupported content type %q", resp.ContentType)
	}
	if err != nil {
		return nil, err
	}

	doc.Content = strings.TrimSpace(doc.Content)
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

func (n *Normalizer) normalizeHTML(resp *lawdoc.Response) (*lawdoc.Document, error) {
	extracted, err := n.Extractor.Extract(string(resp.Body))
	if err != nil {
		return nil, lawdoc.Errorf(lawdoc.ECONTENT, "extract %s: %v", resp.URL, err)
	}
	markdown, err := n.Converter.Convert(extracted.ContentHTML)
	if err != nil {
		return nil, lawdoc.Errorf(lawdoc.ECONTENT, "convert %s: %v", resp.URL, err)
	}
	return &lawdoc.Document{
		URL:      resp.URL,
		Title:    strings.TrimSpace(extracted.Title),
		Content:  markdown,
		Kind:     lawdoc.ContentHTML,
		Metadata: extracted.Metadata,
	}, nil
}

func (n *Normalizer) normalizePDF(ctx context.Context, resp *lawdoc.Response) (*lawdoc.Document, error) {
	body := resp.Body
	source := resp.URL

	if !lawdoc.IsPDF(body) && looksLikeHTML(body) {
		link, err := n.resolvePDFLink(ctx, resp)
		if err != nil {
			return nil, err
		}
		body, source = link.Body, link.URL
	}
	if !lawdoc.IsPDF(body) {
		return nil, lawdoc.Errorf(lawdoc.ECONTENT, "%s is not a PDF file", source)
	}

	parsed, err := n.PDF.Parse(body)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(parsed.Text) == "" {
		return nil, lawdoc.Errorf(lawdoc.ECONTENT, "no text extracted from %s", source)
	}

	title := strings.TrimSpace(parsed.Title)
	if title == "" {
		title = lawdoc.DefaultPDFTitle
	}
	meta := make(map[string]string, len(parsed.Info)+2)
	for k, v := range parsed.Info {
		meta[k] = v
	}
	meta[lawdoc.MetaPages] = strconv.Itoa(parsed.Pages)
	if parsed.Version != "" {
		meta[lawdoc.MetaPDFVersion] = parsed.Version
	}

	return &lawdoc.Document{
		URL:      resp.URL,
		Title:    title,
		Content:  parsed.Text,
		Kind:     lawdoc.ContentPDF,
		Metadata: meta,
	}, nil
}

// resolvePDFLink follows the first PDF link on an HTML page that was served
// where a PDF was expected.
func (n *Normalizer) resolvePDFLink(ctx context.Context, resp *lawdoc.Response) (*lawdoc.Response, error) {
	if n.PDFLinks == nil || n.Fetcher == nil {
		return nil, lawdoc.Errorf(lawdoc.ECONTENT, "%s serves HTML instead of a PDF", resp.URL)
	}
	href, err := n.PDFLinks.FindPDFLink(string(resp.Body), resp.URL)
	if err != nil {
		return nil, lawdoc.Errorf(lawdoc.ECONTENT, "%s serves HTML without a PDF link", resp.URL)
	}
	linked, err := n.Fetcher.Fetch(ctx, href)
	if err != nil {
		return nil, lawdoc.Errorf(lawdoc.ECONTENT, "fetch linked PDF %s: %v", href, err)
	}
	return linked, nil
}

func (n *Normalizer) normalizeCalendar(resp *lawdoc.Response) (*lawdoc.Document, error) {
	return &lawdoc.Document{
		URL:      resp.URL,
		Title:    lawdoc.DefaultCalendarTitle,
		Content:  string(resp.Body),
		Kind:     lawdoc.ContentCalendar,
		Metadata: map[string]string{lawdoc.MetaType: "calendar"},
	}, nil
}

func looksLikeHTML(body []byte) bool {
	head := bytes.ToLower(body[:min(len(body), 1024)])
	return bytes.Contains(head, []byte("<html")) || bytes.Contains(head, []byte("<!doctype html"))
}
