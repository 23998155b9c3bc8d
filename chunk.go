package lawdoc

import (
	"context"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Chunk is a bounded, overlapping slice of a document's text, together with
// its embedding. Chunks are keyed by (URL, Index).
type Chunk struct {
	URL       string        `json:"url"`
	State     string        `json:"state"`
	Title     string        `json:"title"`
	Index     int           `json:"chunkIndex"`
	Total     int           `json:"totalChunks"`
	Content   string        `json:"content"`
	Embedding []float32     `json:"embedding,omitempty"`
	Metadata  ChunkMetadata `json:"metadata"`
}

// ChunkMetadata describes the chunk's content for filtering and display.
type ChunkMetadata struct {
	Kind      string    `json:"type"`
	Overlap   int       `json:"overlap"`
	WordCount int       `json:"wordCount"`
	CharCount int       `json:"charCount"`
	HasCode   bool      `json:"hasCode"`
	HasList   bool      `json:"hasList"`
	HasTable  bool      `json:"hasTable"`
	CreatedAt time.Time `json:"timestamp"`
}

// Validate returns an error if the chunk contains invalid fields.
func (c *Chunk) Validate() error {
	if c.URL == "" {
		return Errorf(EINVALID, "chunk URL required")
	}
	if c.State == "" {
		return Errorf(EINVALID, "chunk state required")
	}
	if c.Index < 0 || c.Index >= c.Total {
		return Errorf(EINVALID, "chunk index %d out of range [0,%d)", c.Index, c.Total)
	}
	if c.Content == "" {
		return Errorf(EINVALID, "chunk content required")
	}
	return nil
}

var (
	codePattern  = regexp.MustCompile("```|`[^`]+`")
	listPattern  = regexp.MustCompile(`(?m)^[-*]\s`)
	tablePattern = regexp.MustCompile(`\|.*\|`)
)

// NewChunks splits a document into chunks for the given state. Indices are
// contiguous from zero and every chunk records the total.
func NewChunks(doc *Document, state string, opts SplitOptions, now time.Time) []*Chunk {
	segments := SplitText(doc.Content, opts)
	chunks := make([]*Chunk, 0, len(segments))
	for i, seg := range segments {
		chunks = append(chunks, &Chunk{
			URL:     doc.URL,
			State:   state,
			Title:   doc.Title,
			Index:   i,
			Total:   len(segments),
			Content: seg.Text,
			Metadata: ChunkMetadata{
				Kind:      doc.Kind.String(),
				Overlap:   seg.Overlap,
				WordCount: len(strings.Fields(seg.Text)),
				CharCount: utf8.RuneCountInString(seg.Text),
				HasCode:   codePattern.MatchString(seg.Text),
				HasList:   listPattern.MatchString(seg.Text),
				HasTable:  tablePattern.MatchString(seg.Text),
				CreatedAt: now,
			},
		})
	}
	return chunks
}

// JoinChunks reassembles the document text from its chunks in index order.
func JoinChunks(chunks []*Chunk) string {
	segments := make([]Segment, len(chunks))
	for i, c := range chunks {
		segments[i] = Segment{Text: c.Content, Overlap: c.Metadata.Overlap}
	}
	return JoinSegments(segments)
}

// VectorStore persists chunk embeddings and answers similarity queries.
type VectorStore interface {
	// InsertChunks stores chunks, replacing any existing chunk with the
	// same URL and index.
	InsertChunks(ctx context.Context, chunks []*Chunk) error

	// PruneChunks removes chunks of url with an index at or above total,
	// left behind when a re-crawled document shrinks.
	PruneChunks(ctx context.Context, url string, total int) error

	// Search returns the chunks most similar to vector, highest score
	// first.
	Search(ctx context.Context, vector []float32, opts SearchOptions) ([]SearchResult, error)
}

// SearchOptions configures search behavior.
type SearchOptions struct {
	// State restricts results to chunks indexed for one state.
	State string `json:"state,omitempty"`

	// Maximum number of results to return
	Limit int `json:"limit,omitempty"`
}

// SearchResult represents a search match.
type SearchResult struct {
	Chunk *Chunk  `json:"chunk"`
	Score float64 `json:"score"`
}
