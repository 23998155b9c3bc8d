package lawdoc

import (
	"strings"
	"unicode/utf8"
)

// Default chunking configuration used for every indexed document.
const (
	DefaultChunkSize    = 4000
	DefaultChunkOverlap = 200
)

// SplitOptions configures SplitText. Sizes are counted in characters.
type SplitOptions struct {
	Size    int
	Overlap int
}

// DefaultSplitOptions returns the chunking configuration used for indexing.
func DefaultSplitOptions() SplitOptions {
	return SplitOptions{Size: DefaultChunkSize, Overlap: DefaultChunkOverlap}
}

func (o SplitOptions) normalize() (size, overlap int) {
	size, overlap = o.Size, o.Overlap
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size / 2
	}
	return size, overlap
}

// Segment is a contiguous run of characters of the split text.
type Segment struct {
	Text string

	// Start and End are character offsets into the source text.
	Start int
	End   int

	// Overlap is the number of leading characters repeated from the end
	// of the previous segment.
	Overlap int
}

// separator is a boundary candidate. keep is the number of characters of
// the pattern that stay at the end of the left segment; the rest start the
// next one.
type separator struct {
	pattern string
	keep    int
}

// separatorLevels lists boundaries from coarsest to finest: section
// headers, paragraphs, lines, sentences, words. Character boundaries are
// the implicit last level.
var separatorLevels = [][]separator{
	{{"\n# ", 1}, {"\n## ", 1}, {"\n### ", 1}},
	{{"\n\n", 2}},
	{{"\n", 1}},
	{{". ", 2}},
	{{" ", 1}},
}

// SplitText splits text into segments of at most opts.Size characters.
// Each boundary is placed at the coarsest separator that yields a segment
// within the size bound, and consecutive segments share exactly
// opts.Overlap characters. The result is deterministic and JoinSegments
// reverses it.
func SplitText(text string, opts SplitOptions) []Segment {
	size, overlap := opts.normalize()
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	var segments []Segment
	start, prevEnd := 0, 0
	for {
		shared := max(prevEnd-start, 0)
		if len(runes)-start <= size {
			return append(segments, Segment{
				Text:    string(runes[start:]),
				Start:   start,
				End:     len(runes),
				Overlap: shared,
			})
		}

		end := cutPoint(runes, start, size, overlap)
		segments = append(segments, Segment{
			Text:    string(runes[start:end]),
			Start:   start,
			End:     end,
			Overlap: shared,
		})
		prevEnd = end
		start = end - overlap
	}
}

// cutPoint returns the end offset for a segment beginning at start. The
// segment must extend beyond the overlap so the next one makes progress.
func cutPoint(runes []rune, start, size, overlap int) int {
	window := string(runes[start : start+size])
	for _, level := range separatorLevels {
		best := -1
		for _, sep := range level {
			i := strings.LastIndex(window, sep.pattern)
			if i < 0 {
				continue
			}
			cut := utf8.RuneCountInString(window[:i]) + sep.keep
			if cut > overlap && cut > best {
				best = cut
			}
		}
		if best > 0 {
			return start + best
		}
	}
	return start + size
}

// JoinSegments reassembles split text by dropping the overlapping prefix
// of every segment after the first.
func JoinSegments(segments []Segment) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteString(string([]rune(s.Text)[s.Overlap:]))
	}
	return b.String()
}
