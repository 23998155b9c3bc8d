package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/lawdoc"
)

var _ lawdoc.PDFLinkFinder = (*PDFLinkFinder)(nil)

// PDFLinkFinder finds the download link on pages that wrap a PDF.
type PDFLinkFinder struct{}

// NewPDFLinkFinder creates a new PDFLinkFinder.
func NewPDFLinkFinder() *PDFLinkFinder {
	return &PDFLinkFinder{}
}

// FindPDFLink returns the first anchor whose href ends in .pdf, resolved
// against baseURL.
func (f *PDFLinkFinder) FindPDFLink(html string, baseURL string) (string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", lawdoc.Errorf(lawdoc.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", lawdoc.Errorf(lawdoc.ECONTENT, "failed to parse HTML: %v", err)
	}

	var found string
	doc.Find(`a[href$=".pdf"], a[href$=".PDF"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		ref, err := url.Parse(strings.TrimSpace(sel.AttrOr("href", "")))
		if err != nil {
			return true
		}
		found = base.ResolveReference(ref).String()
		return false
	})
	if found == "" {
		return "", lawdoc.Errorf(lawdoc.ENOTFOUND, "no PDF link on %s", baseURL)
	}
	return found, nil
}
