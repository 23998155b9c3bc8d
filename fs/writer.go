// Package fs provides file-based storage: crawl job records and a markdown
// archive of normalized documents.
package fs

import (
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/fwojciec/lawdoc"
)

// URLToPath converts a document URL to a relative markdown file path under
// a directory named after the host.
// Example: https://sos.ohio.gov/business/forms/ → sos.ohio.gov/business/forms/index.md
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", lawdoc.Errorf(lawdoc.EINVALID, "invalid URL %q", rawURL)
	}
	if u.Host == "" {
		return "", lawdoc.Errorf(lawdoc.EINVALID, "URL %q has no host", rawURL)
	}

	p := u.Path
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", lawdoc.Errorf(lawdoc.EINVALID, "path traversal in %q", rawURL)
		}
	}

	switch {
	case p == "" || p == "/":
		p = "index.md"
	case strings.HasSuffix(p, "/"):
		p = strings.TrimPrefix(p, "/") + "index.md"
	default:
		p = strings.TrimPrefix(p, "/")
		switch ext := path.Ext(p); strings.ToLower(ext) {
		case ".pdf", ".ics", ".html", ".htm":
			p = strings.TrimSuffix(p, ext)
		}
		p += ".md"
	}

	return filepath.Join(u.Host, filepath.FromSlash(p)), nil
}

// FormatDocument formats a document with YAML frontmatter.
func FormatDocument(doc *lawdoc.Document, crawled string) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(doc.URL)
	b.WriteString("\ntitle: ")
	b.WriteString(doc.Title)
	b.WriteString("\nkind: ")
	b.WriteString(doc.Kind.String())
	b.WriteString("\ncrawled: ")
	b.WriteString(crawled)
	b.WriteString("\n---\n\n")
	b.WriteString(doc.Content)
	return b.String()
}

// writeFileAtomic writes data to a temporary file next to name and renames
// it into place, so readers never observe a partial file.
func writeFileAtomic(name string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(name), "."+filepath.Base(name)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), name)
}
