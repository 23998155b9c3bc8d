// Package htmltomarkdown implements lawdoc.Converter with
// JohannesKaufmann/html-to-markdown.
package htmltomarkdown

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/lawdoc"
)

var _ lawdoc.Converter = (*Converter)(nil)

// blankRuns matches three or more consecutive newlines, optionally holding
// whitespace-only lines left behind by layout tables.
var blankRuns = regexp.MustCompile(`\n[ \t]*(?:\n[ \t]*){2,}`)

// Converter renders extracted HTML as Markdown with ATX headings, fenced
// code blocks, "-" bullets and pipe tables. The chunker prefers to split
// before "#" headings.
type Converter struct {
	md *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	return &Converter{md: converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(
				commonmark.WithHeadingStyle(commonmark.HeadingStyleATX),
				commonmark.WithCodeBlockFence("```"),
				commonmark.WithBulletListMarker("-"),
			),
			table.NewTablePlugin(),
		),
	)}
}

// Convert returns the Markdown for html with runs of blank lines collapsed
// to one. Blank input converts to blank output.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", nil
	}
	out, err := c.md.ConvertString(html)
	if err != nil {
		return "", lawdoc.Errorf(lawdoc.ECONTENT, "convert HTML: %v", err)
	}
	return strings.TrimSpace(blankRuns.ReplaceAllString(out, "\n\n")), nil
}
