package lawdoc

import (
	"regexp"
	"sort"
	"strings"
)

// Retrieval defaults.
const (
	DefaultSearchLimit = 20

	ContextThreshold = 0.6
	ContextLimit     = 5
	SourceThreshold  = 0.5
	SourceLimit      = 4
)

// DefaultAnchorKeywords steer retrieval towards the permit and licensing
// domain. They are appended to the search string and boost chunks that
// mention them.
var DefaultAnchorKeywords = []string{"restaurant", "permit", "license", "business registration"}

// ScoreOptions configures AdjustScores.
type ScoreOptions struct {
	// URLSectionBoost applies when the question's section number is a
	// path segment of the chunk's URL.
	URLSectionBoost float64

	// ContentSectionBoost applies when the chunk mentions "section N".
	ContentSectionBoost float64

	// KeywordBoost applies when the chunk mentions any anchor keyword.
	KeywordBoost float64
	Keywords     []string
}

// DefaultScoreOptions returns the boosts used for answering questions.
func DefaultScoreOptions() ScoreOptions {
	return ScoreOptions{
		URLSectionBoost:     0.3,
		ContentSectionBoost: 0.2,
		KeywordBoost:        0.2,
		Keywords:            DefaultAnchorKeywords,
	}
}

var sectionNumberPattern = regexp.MustCompile(`§?\s*(\d+)`)

// SectionNumber returns the first number mentioned in the question, which
// is treated as a statute section reference. Returns "" if there is none.
func SectionNumber(question string) string {
	m := sectionNumberPattern.FindStringSubmatch(question)
	if m == nil {
		return ""
	}
	return m[1]
}

// SearchQuery expands a question into the string embedded for retrieval.
func SearchQuery(state, question string, keywords []string) string {
	parts := []string{state, question}
	if len(keywords) > 0 {
		parts = append(parts, strings.Join(keywords, " "))
	}
	return strings.Join(parts, " ")
}

// AdjustScores applies domain boosts to raw similarity scores and returns
// the results sorted by adjusted score, highest first. Scores stay within
// [0, 1]; ties keep their retrieval order.
func AdjustScores(question string, results []SearchResult, opts ScoreOptions) []SearchResult {
	var urlSection, contentSection *regexp.Regexp
	if n := SectionNumber(question); n != "" {
		urlSection = regexp.MustCompile(`/` + n + `(?:\D|$)`)
		contentSection = regexp.MustCompile(`(?i)section\s+` + n + `(?:\D|$)`)
	}

	adjusted := make([]SearchResult, 0, len(results))
	for _, r := range results {
		if r.Chunk == nil {
			continue
		}
		score := r.Score
		if urlSection != nil && urlSection.MatchString(r.Chunk.URL) {
			score += opts.URLSectionBoost
		}
		if contentSection != nil && contentSection.MatchString(r.Chunk.Content) {
			score += opts.ContentSectionBoost
		}
		if containsAny(strings.ToLower(r.Chunk.Content), opts.Keywords) {
			score += opts.KeywordBoost
		}
		adjusted = append(adjusted, SearchResult{Chunk: r.Chunk, Score: min(max(score, 0), 1)})
	}

	sort.SliceStable(adjusted, func(i, j int) bool {
		return adjusted[i].Score > adjusted[j].Score
	})
	return adjusted
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if k != "" && strings.Contains(s, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

// MergedSource combines every retrieved chunk of one document.
type MergedSource struct {
	URL     string
	Title   string
	Content string
	Score   float64
}

// MergeSources groups scored chunks by URL. Each group's content is joined
// in chunk order and scored by its best chunk. The result is sorted by
// score, highest first.
func MergeSources(results []SearchResult) []MergedSource {
	type group struct {
		title  string
		score  float64
		chunks []*Chunk
	}
	var order []string
	groups := make(map[string]*group)
	for _, r := range results {
		if r.Chunk == nil {
			continue
		}
		g, ok := groups[r.Chunk.URL]
		if !ok {
			g = &group{title: r.Chunk.Title, score: r.Score}
			groups[r.Chunk.URL] = g
			order = append(order, r.Chunk.URL)
		}
		if r.Score > g.score {
			g.score = r.Score
		}
		if g.title == "" {
			g.title = r.Chunk.Title
		}
		g.chunks = append(g.chunks, r.Chunk)
	}

	merged := make([]MergedSource, 0, len(order))
	for _, url := range order {
		g := groups[url]
		sort.SliceStable(g.chunks, func(i, j int) bool {
			return g.chunks[i].Index < g.chunks[j].Index
		})
		parts := make([]string, 0, len(g.chunks))
		last := -1
		for _, c := range g.chunks {
			if c.Index == last {
				continue
			}
			last = c.Index
			parts = append(parts, c.Content)
		}
		merged = append(merged, MergedSource{
			URL:     url,
			Title:   g.title,
			Content: strings.Join(parts, "\n\n"),
			Score:   g.score,
		})
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})
	return merged
}

// SelectSources returns up to limit merged sources scoring at least
// threshold. The input must be sorted by score.
func SelectSources(merged []MergedSource, threshold float64, limit int) []MergedSource {
	var selected []MergedSource
	for _, m := range merged {
		if len(selected) >= limit {
			break
		}
		if m.Score >= threshold {
			selected = append(selected, m)
		}
	}
	return selected
}

// FormatContext renders merged sources as the context block of the system
// prompt.
func FormatContext(merged []MergedSource) string {
	if len(merged) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Relevant Information:\n")
	for _, m := range merged {
		b.WriteString("Source: ")
		b.WriteString(m.URL)
		b.WriteString("\n")
		b.WriteString(m.Content)
		b.WriteString("\n---\n")
	}
	return b.String()
}

// Citations converts merged sources into answer citations.
func Citations(merged []MergedSource) []Source {
	sources := make([]Source, 0, len(merged))
	for _, m := range merged {
		title := m.Title
		if strings.TrimSpace(title) == "" {
			title = DefaultSourceTitle
		}
		sources = append(sources, Source{URL: m.URL, Title: title, Score: m.Score})
	}
	return sources
}
