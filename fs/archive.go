package fs

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/lawdoc"
)

// Ensure Archive implements lawdoc.DocumentWriter at compile time.
var _ lawdoc.DocumentWriter = (*Archive)(nil)

// Archive writes normalized documents as markdown files. Files are written
// to baseDir/name.tmp and replace baseDir/name only on Commit, so an
// interrupted crawl leaves the previous archive intact.
type Archive struct {
	baseDir string
	name    string

	// Now returns the crawl date written to frontmatter.
	Now func() time.Time
}

// NewArchive creates a new Archive.
func NewArchive(baseDir, name string) *Archive {
	return &Archive{
		baseDir: baseDir,
		name:    name,
		Now:     time.Now,
	}
}

func (a *Archive) tempDir() string {
	return filepath.Join(a.baseDir, a.name+".tmp")
}

func (a *Archive) finalDir() string {
	return filepath.Join(a.baseDir, a.name)
}

// WriteDocument implements lawdoc.DocumentWriter.
func (a *Archive) WriteDocument(ctx context.Context, doc *lawdoc.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	relPath, err := URLToPath(doc.URL)
	if err != nil {
		return err
	}
	content := FormatDocument(doc, a.Now().Format("2006-01-02"))
	return writeFileAtomic(filepath.Join(a.tempDir(), relPath), []byte(content))
}

// Commit replaces the archive with the documents written so far.
func (a *Archive) Commit() error {
	if _, err := os.Stat(a.tempDir()); os.IsNotExist(err) {
		return nil
	}
	if err := os.RemoveAll(a.finalDir()); err != nil {
		return err
	}
	return os.Rename(a.tempDir(), a.finalDir())
}

// Abort discards the documents written so far.
func (a *Archive) Abort() error {
	return os.RemoveAll(a.tempDir())
}
