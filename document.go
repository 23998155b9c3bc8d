package lawdoc

import (
	"context"
	"mime"
	"net/url"
	"strings"
	"unicode/utf8"
)

// MinContentLength is the minimum length of trimmed document content worth
// indexing. Shorter documents are skipped.
const MinContentLength = 50

// Default titles for documents without their own.
const (
	DefaultCalendarTitle = "Calendar Events"
	DefaultSourceTitle   = "Untitled Document"
)

// ContentKind identifies how a fetched response is normalized.
type ContentKind int

// Supported content kinds. The set is closed: every response is classified
// as exactly one of them.
const (
	ContentUnsupported ContentKind = iota
	ContentHTML
	ContentPDF
	ContentCalendar
)

// String returns the media type family for the kind.
func (k ContentKind) String() string {
	switch k {
	case ContentHTML:
		return "html"
	case ContentPDF:
		return "pdf"
	case ContentCalendar:
		return "calendar"
	default:
		return "unsupported"
	}
}

// ClassifyContent determines the kind of a response from its declared
// content type, with the URL as a tiebreaker: a path ending in .pdf is
// treated as a PDF regardless of what the server claims for it.
func ClassifyContent(contentType, rawURL string) ContentKind {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.TrimSpace(strings.Split(contentType, ";")[0])
	}
	mediaType = strings.ToLower(mediaType)

	if hasPDFSuffix(rawURL) {
		return ContentPDF
	}

	switch mediaType {
	case "text/html", "application/xhtml+xml":
		return ContentHTML
	case "application/pdf", "application/x-pdf":
		return ContentPDF
	case "text/calendar":
		return ContentCalendar
	default:
		return ContentUnsupported
	}
}

func hasPDFSuffix(rawURL string) bool {
	path := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		path = u.Path
	}
	return strings.HasSuffix(strings.ToLower(path), ".pdf")
}

// Document is the canonical normalized form of a fetched resource.
type Document struct {
	URL      string            `json:"url"`
	Title    string            `json:"title"`
	Content  string            `json:"content"`
	Kind     ContentKind       `json:"kind"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.URL == "" {
		return Errorf(EINVALID, "document URL required")
	}
	if utf8.RuneCountInString(strings.TrimSpace(d.Content)) < MinContentLength {
		return Errorf(ESKIPPED, "document content shorter than %d characters", MinContentLength)
	}
	return nil
}

// DocumentWriter archives normalized documents outside the vector store.
type DocumentWriter interface {
	WriteDocument(ctx context.Context, doc *Document) error
}
