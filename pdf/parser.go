// Package pdf implements lawdoc.PDFParser with ledongthuc/pdf.
package pdf

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/fwojciec/lawdoc"
	"github.com/ledongthuc/pdf"
)

var versionPattern = regexp.MustCompile(`^%PDF-(\d+\.\d+)`)

// infoKeys maps information dictionary entries to document metadata keys.
// Entries not listed here are kept under their lower-cased name.
var infoKeys = map[string]string{
	"Author":       lawdoc.MetaAuthor,
	"CreationDate": lawdoc.MetaCreated,
	"ModDate":      lawdoc.MetaModified,
}

var _ lawdoc.PDFParser = (*Parser)(nil)

// Parser extracts plain text page by page.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse extracts the text and information dictionary of a PDF. Pages that
// fail to decode are skipped; a file where every page fails is rejected.
func (p *Parser) Parse(data []byte) (result *lawdoc.PDFResult, err error) {
	if !lawdoc.IsPDF(data) {
		return nil, lawdoc.Errorf(lawdoc.ECONTENT, "missing PDF signature")
	}

	// The decoder panics on some malformed streams.
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, lawdoc.Errorf(lawdoc.ECONTENT, "malformed PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, lawdoc.Errorf(lawdoc.ECONTENT, "open PDF: %v", err)
	}

	pages := reader.NumPage()
	texts := make([]string, 0, pages)
	failed := 0
	for i := 1; i <= pages; i++ {
		text, err := pageText(reader.Page(i))
		if err != nil {
			failed++
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			texts = append(texts, text)
		}
	}
	if pages > 0 && failed == pages {
		return nil, lawdoc.Errorf(lawdoc.ECONTENT, "no readable pages in %d-page PDF", pages)
	}

	title, info := information(reader.Trailer().Key("Info"))

	return &lawdoc.PDFResult{
		Text:    strings.Join(texts, "\n\n"),
		Pages:   pages,
		Version: Version(data),
		Title:   title,
		Info:    info,
	}, nil
}

// pageText extracts one page, converting decoder panics into errors so a
// single bad page does not lose the rest of the document.
func pageText(page pdf.Page) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page decode: %v", r)
		}
	}()
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}

// information splits the document information dictionary into the title
// and the remaining string entries.
func information(dict pdf.Value) (string, map[string]string) {
	info := make(map[string]string)
	if dict.Kind() != pdf.Dict {
		return "", info
	}
	var title string
	for _, key := range dict.Keys() {
		v := dict.Key(key)
		if v.Kind() != pdf.String {
			continue
		}
		text := strings.TrimSpace(v.Text())
		if text == "" {
			continue
		}
		if key == "Title" {
			title = text
			continue
		}
		name, ok := infoKeys[key]
		if !ok {
			name = strings.ToLower(key)
		}
		info[name] = text
	}
	return title, info
}

// Version returns the version declared in the PDF header, e.g. "1.7".
func Version(data []byte) string {
	m := versionPattern.FindSubmatch(data[:min(len(data), 16)])
	if m == nil {
		return ""
	}
	return string(m[1])
}
