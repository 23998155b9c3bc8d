package goquery

import (
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/lawdoc"
)

// SelectorConfig defines a CSS selector with its priority and source label.
type SelectorConfig struct {
	Selector string
	Priority lawdoc.LinkPriority
	Source   string
}

// documentExtensions are file types fetched as documents rather than
// pages. Links to them outrank every page link.
var documentExtensions = map[string]bool{
	".pdf": true,
	".ics": true,
}

// ExtractLinksWithConfigs extracts links from HTML using the provided selector configurations.
// Links are deduplicated by URL, keeping the highest priority version.
// External links (different host than baseURL) are filtered out.
// The returned links maintain document order based on first occurrence.
func ExtractLinksWithConfigs(html string, baseURL string, configs []SelectorConfig) ([]lawdoc.DiscoveredLink, error) {
	return extractLinksWithConfigs(html, baseURL, configs, false)
}

// ExtractLinksWithConfigsAndFallback is like ExtractLinksWithConfigs but also extracts
// fallback links from any anchor under the base URL's directory.
// Fallback links have PriorityFallback and won't override higher-priority duplicates.
func ExtractLinksWithConfigsAndFallback(html string, baseURL string, configs []SelectorConfig) ([]lawdoc.DiscoveredLink, error) {
	return extractLinksWithConfigs(html, baseURL, configs, true)
}

func extractLinksWithConfigs(html string, baseURL string, configs []SelectorConfig, includeFallback bool) ([]lawdoc.DiscoveredLink, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, lawdoc.Errorf(lawdoc.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, lawdoc.Errorf(lawdoc.EINVALID, "failed to parse HTML: %v", err)
	}

	c := &linkCollector{base: base, seen: make(map[string]int)}
	for _, config := range configs {
		doc.Find(config.Selector).Each(func(_ int, sel *goquery.Selection) {
			c.add(sel, config.Priority, config.Source, "")
		})
	}

	// Fallback: anchors outside any semantic region, limited to the base
	// URL's directory. Pages built from bare divs still get crawled.
	if includeFallback {
		dir := base.Path
		if i := strings.LastIndex(dir, "/"); i >= 0 {
			dir = dir[:i+1]
		}
		doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
			c.add(sel, lawdoc.PriorityFallback, "fallback", dir)
		})
	}

	return c.links, nil
}

// linkCollector accumulates deduplicated links in first-seen order.
type linkCollector struct {
	base  *url.URL
	seen  map[string]int
	links []lawdoc.DiscoveredLink
}

func (c *linkCollector) add(sel *goquery.Selection, priority lawdoc.LinkPriority, source, pathPrefix string) {
	href, exists := sel.Attr("href")
	if !exists || href == "" {
		return
	}

	// Skip non-HTTP links (javascript:, mailto:, etc.)
	if isNonHTTPLink(href) {
		return
	}

	resolved := resolveURL(c.base, href)
	if resolved == nil {
		return
	}

	// Filter external links (exact host match, subdomains are filtered)
	if resolved.Host != c.base.Host {
		return
	}
	if isDocumentLink(resolved) {
		priority, source = lawdoc.PriorityDocument, "document"
	} else if pathPrefix != "" && !strings.HasPrefix(resolved.Path, pathPrefix) {
		return
	}

	u := resolved.String()
	link := lawdoc.DiscoveredLink{
		URL:      u,
		Priority: priority,
		Text:     strings.TrimSpace(sel.Text()),
		Source:   source,
	}

	if idx, ok := c.seen[u]; ok {
		if priority > c.links[idx].Priority {
			c.links[idx] = link
		}
		return
	}
	c.seen[u] = len(c.links)
	c.links = append(c.links, link)
}

// resolveURL resolves a relative URL against a base URL.
// Returns nil if the href cannot be parsed, is not http(s), or if the
// resolved URL is self-referential (same as base URL after stripping
// fragment). Fragments are stripped for deduplication purposes.
func resolveURL(base *url.URL, href string) *url.URL {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return nil
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return nil
	}

	baseNoFragment := *base
	baseNoFragment.Fragment = ""
	if resolved.String() == baseNoFragment.String() {
		return nil
	}
	return resolved
}

// isDocumentLink reports whether u points at a downloadable document.
func isDocumentLink(u *url.URL) bool {
	return documentExtensions[strings.ToLower(path.Ext(u.Path))]
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
