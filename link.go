package lawdoc

// LinkPriority represents crawl priority (higher = more important).
type LinkPriority int

// Link priority levels for crawl ordering.
const (
	PriorityIgnore     LinkPriority = 0
	PriorityFallback   LinkPriority = 10
	PriorityFooter     LinkPriority = 20
	PriorityContent    LinkPriority = 50
	PriorityNavigation LinkPriority = 100
	PriorityDocument   LinkPriority = 110
)

// DiscoveredLink represents a URL with priority metadata.
type DiscoveredLink struct {
	URL      string
	Priority LinkPriority
	Text     string
	Source   string // "nav", "content", "footer", "document"
}

// LinkExtractor extracts prioritized links from HTML.
type LinkExtractor interface {
	// ExtractLinks parses HTML and returns discovered links with priority.
	// The baseURL is used to resolve relative URLs.
	ExtractLinks(html string, baseURL string) ([]DiscoveredLink, error)
}

// PDFLinkFinder locates the real document behind an HTML page that wraps
// a PDF download.
type PDFLinkFinder interface {
	// FindPDFLink returns the absolute URL of the first anchor pointing to a
	// .pdf resource. Returns ENOTFOUND when the page has none.
	FindPDFLink(html string, baseURL string) (string, error)
}
