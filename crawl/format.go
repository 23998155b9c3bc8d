package crawl

import (
	"fmt"
	"strings"

	"github.com/fwojciec/lawdoc"
)

// FormatTokens renders a token count approximately: exact below a thousand,
// rounded thousands above.
func FormatTokens(tokens int) string {
	if tokens < 1000 {
		return fmt.Sprintf("~%d tokens", tokens)
	}
	return fmt.Sprintf("~%dk tokens", (tokens+500)/1000)
}

// FormatStats summarizes crawl counts on one line.
func FormatStats(stats *lawdoc.CrawlStats) string {
	if stats == nil || stats.Processed == 0 {
		return "no pages processed"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Processed %s (%d stored, %d skipped), %s indexed",
		plural(stats.Processed, "page"), stats.Stored, stats.Skipped, plural(stats.Chunks, "chunk"))
	if stats.Tokens > 0 {
		b.WriteString(", ")
		b.WriteString(FormatTokens(stats.Tokens))
	}
	return b.String()
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
