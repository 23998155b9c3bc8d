package lawdoc

import "bytes"

// PDFMagic is the signature every PDF file starts with.
const PDFMagic = "%PDF-"

// DefaultPDFTitle is used when a PDF declares no title.
const DefaultPDFTitle = "PDF Document"

// IsPDF reports whether body carries the PDF signature.
func IsPDF(body []byte) bool {
	return bytes.HasPrefix(body, []byte(PDFMagic))
}

// PDFResult holds the text and metadata extracted from a PDF.
type PDFResult struct {
	Text    string
	Pages   int
	Version string

	// Title comes from the document information dictionary, if present.
	Title string

	// Info holds the remaining string entries of the information
	// dictionary (Author, Subject, Producer...).
	Info map[string]string
}

// PDFParser extracts text from PDF files.
type PDFParser interface {
	// Parse extracts the text of every page. Returns ECONTENT when the
	// file is malformed or yields no text.
	Parse(data []byte) (*PDFResult, error)
}
