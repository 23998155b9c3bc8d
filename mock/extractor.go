package mock

import "github.com/fwojciec/lawdoc"

var (
	_ lawdoc.Extractor     = (*Extractor)(nil)
	_ lawdoc.Converter     = (*Converter)(nil)
	_ lawdoc.LinkExtractor = (*LinkExtractor)(nil)
	_ lawdoc.PDFLinkFinder = (*PDFLinkFinder)(nil)
	_ lawdoc.PDFParser     = (*PDFParser)(nil)
)

// Extractor is a mock implementation of lawdoc.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*lawdoc.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*lawdoc.ExtractResult, error) {
	return e.ExtractFn(html)
}

// Converter is a mock implementation of lawdoc.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

// LinkExtractor is a mock implementation of lawdoc.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html string, baseURL string) ([]lawdoc.DiscoveredLink, error)
}

func (l *LinkExtractor) ExtractLinks(html string, baseURL string) ([]lawdoc.DiscoveredLink, error) {
	return l.ExtractLinksFn(html, baseURL)
}

// PDFLinkFinder is a mock implementation of lawdoc.PDFLinkFinder.
type PDFLinkFinder struct {
	FindPDFLinkFn func(html string, baseURL string) (string, error)
}

func (p *PDFLinkFinder) FindPDFLink(html string, baseURL string) (string, error) {
	return p.FindPDFLinkFn(html, baseURL)
}

// PDFParser is a mock implementation of lawdoc.PDFParser.
type PDFParser struct {
	ParseFn func(data []byte) (*lawdoc.PDFResult, error)
}

func (p *PDFParser) Parse(data []byte) (*lawdoc.PDFResult, error) {
	return p.ParseFn(data)
}
