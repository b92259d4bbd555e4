// Package normalize implements the markdown Normalizer.
//
// Raw markdown is rendered to HTML with goldmark, cleaned up with goquery
// (code and images dropped, tables flattened into "column: value" lines),
// and converted back to Markdown with html-to-markdown. The heading sequence
// is then rewritten so that every heading occurrence carries its full
// ancestor chain, which keeps any later slice of the document
// self-describing when the splitter cuts it apart.
package normalize

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// fallbackHeading opens documents that have no heading and no title.
// A heading before any text is required for hierarchy extraction to work.
const fallbackHeading = "Context"

var leadingHeading = regexp.MustCompile(`^#.+\n`)

// MarkdownNormalizer converts raw markdown into the flat, context-complete
// form consumed by the splitter. Instances are stateless and safe for
// concurrent use.
type MarkdownNormalizer struct {
	engine goldmark.Markdown
}

// New creates a MarkdownNormalizer.
func New() *MarkdownNormalizer {
	return &MarkdownNormalizer{
		engine: goldmark.New(goldmark.WithExtensions(extension.Table)),
	}
}

// Normalize rewrites markdown content. title names the document and becomes
// the top-level heading when the content does not already start with one.
func (n *MarkdownNormalizer) Normalize(content, title string) (string, error) {
	content = ensureHeading(content, title)

	var buf bytes.Buffer
	if err := n.engine.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		return "", fmt.Errorf("parsing rendered HTML: %w", err)
	}

	// Code contributes nothing to retrieval context; images cannot be
	// represented in a text chunk at all.
	doc.Find("pre").ReplaceWithHtml(" ")
	doc.Find("code").ReplaceWithHtml(" ")
	doc.Find("img").Remove()

	tables := flattenTables(doc)

	body, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("serializing content: %w", err)
	}

	markdown, err := htmltomarkdown.ConvertString(body)
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}

	// Swap the table placeholders for the flattened rows only now, after the
	// markdown conversion, so the pipe delimiters come through unescaped.
	for i, table := range tables {
		markdown = strings.Replace(markdown, tablePlaceholder(i), table, 1)
	}

	return materializeHierarchy(markdown), nil
}

// ensureHeading guarantees the document opens with a heading line.
func ensureHeading(content, title string) string {
	if leadingHeading.MatchString(content) {
		return content
	}
	if title != "" {
		return "# " + title + "\n\n" + content
	}
	return "# " + fallbackHeading + "\n\n" + content
}

// flattenTables rewrites each table into sequential "header: cell | " lines,
// one line per body row, zipping header cells with row cells in order. The
// zip truncates to the shorter sequence: a row with fewer cells than headers
// silently drops the excess headers. Each table is replaced in the DOM by a
// placeholder paragraph; the flattened text is returned for later
// substitution.
func flattenTables(doc *goquery.Document) []string {
	var tables []string
	doc.Find("table").Each(func(i int, table *goquery.Selection) {
		headers := table.Find("thead th").Map(func(_ int, th *goquery.Selection) string {
			return strings.TrimSpace(th.Text())
		})

		var rows []string
		table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
			cells := tr.Find("td")
			n := cells.Length()
			if len(headers) < n {
				n = len(headers)
			}
			var row strings.Builder
			for c := 0; c < n; c++ {
				fmt.Fprintf(&row, "%s: %s | ", headers[c], strings.TrimSpace(cells.Eq(c).Text()))
			}
			rows = append(rows, strings.TrimRight(row.String(), " "))
		})

		tables = append(tables, strings.Join(rows, "\n"))
		table.ReplaceWithHtml("<p>" + tablePlaceholder(i) + "</p>")
	})
	return tables
}

func tablePlaceholder(i int) string {
	return fmt.Sprintf("@@md2chunks-table-%d@@", i)
}
