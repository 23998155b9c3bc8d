package goquery

import "github.com/fwojciec/lawdoc"

var _ lawdoc.LinkExtractor = (*LinkExtractor)(nil)

// linkSelectors are the page regions links are collected from, most
// important first. Government sites rarely use a documentation framework,
// so the selectors target common layout conventions.
var linkSelectors = []SelectorConfig{
	{Selector: `nav a[href], [role="navigation"] a[href], .nav a[href], .menu a[href], .navbar a[href], .sidebar a[href], aside a[href], .toc a[href]`, Priority: lawdoc.PriorityNavigation, Source: "nav"},
	{Selector: `main a[href], article a[href], .main-content a[href], .content a[href]`, Priority: lawdoc.PriorityContent, Source: "content"},
	{Selector: `footer a[href], .footer a[href]`, Priority: lawdoc.PriorityFooter, Source: "footer"},
}

// LinkExtractor discovers same-host links on a page and ranks them by the
// region they appear in. Links to PDF and calendar files are ranked
// above all page links.
type LinkExtractor struct{}

// NewLinkExtractor creates a new LinkExtractor.
func NewLinkExtractor() *LinkExtractor {
	return &LinkExtractor{}
}

// ExtractLinks parses HTML and returns discovered links with priority.
//
// Priority order (highest to lowest):
//   - Document: links to .pdf and .ics files anywhere on the page
//   - Navigation: nav, [role="navigation"], .nav, .menu, .navbar, .sidebar, aside, .toc
//   - Content: main, article, .main-content, .content
//   - Footer: footer, .footer
//   - Fallback: any other anchor under the page's directory
func (e *LinkExtractor) ExtractLinks(html string, baseURL string) ([]lawdoc.DiscoveredLink, error) {
	return ExtractLinksWithConfigsAndFallback(html, baseURL, linkSelectors)
}
