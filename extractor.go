package lawdoc

// Metadata keys recorded on documents.
const (
	MetaAuthor      = "author"
	MetaCreated     = "created"
	MetaDescription = "description"
	MetaModified    = "modified"
	MetaPages       = "pages"
	MetaPDFVersion  = "pdfVersion"
	MetaSite        = "site"
	MetaType        = "type"
)

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content region as clean HTML.
	// Scripts, styles and known noise blocks (ads, comments, share
	// widgets) have been removed.
	ContentHTML string

	// Metadata holds author, description, site name and publication dates
	// when the page declares them, keyed by the Meta* constants.
	Metadata map[string]string
}

// Extractor extracts main content from HTML pages, removing boilerplate.
type Extractor interface {
	// Extract processes raw HTML and returns the main content.
	Extract(html string) (*ExtractResult, error)
}

// Converter renders extracted HTML as Markdown with ATX headings, fenced
// code blocks and "-" bullets.
type Converter interface {
	Convert(html string) (string, error)
}
