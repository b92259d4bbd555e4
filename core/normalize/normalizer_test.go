package normalize

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAddsHeadingWhenMissing(t *testing.T) {
	n := New()

	out, err := n.Normalize("Just some body text.\n", "User Guide")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# User Guide"), "got: %q", out)

	out, err = n.Normalize("Just some body text.\n", "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# Context"), "got: %q", out)
}

func TestNormalizeKeepsExistingHeading(t *testing.T) {
	n := New()

	out, err := n.Normalize("# Original Title\n\nBody here.\n", "Ignored")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# Original Title"), "got: %q", out)
	assert.NotContains(t, out, "Ignored")
}

func TestNormalizeFlattensTables(t *testing.T) {
	n := New()

	md := `# Doc

| Name | Age |
| ---- | --- |
| Alice | 30 |
| Bob | 41 |
`
	out, err := n.Normalize(md, "")
	require.NoError(t, err)

	assert.Contains(t, out, "Name: Alice | Age: 30 |")
	assert.Contains(t, out, "Name: Bob | Age: 41 |")
	assert.NotContains(t, out, "----")
	assert.NotContains(t, out, "@@md2chunks-table")
}

func TestFlattenTablesTruncatesMismatchedRows(t *testing.T) {
	// The zip truncates to the shorter sequence: a row with fewer cells than
	// headers silently drops the excess headers, and extra cells are ignored.
	html := `<html><body><table>
<thead><tr><th>Name</th><th>Age</th><th>City</th></tr></thead>
<tbody>
<tr><td>Alice</td><td>30</td></tr>
<tr><td>Bob</td><td>41</td><td>Oslo</td><td>extra</td></tr>
</tbody>
</table></body></html>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	tables := flattenTables(doc)
	require.Len(t, tables, 1)

	rows := strings.Split(tables[0], "\n")
	require.Len(t, rows, 2)
	assert.Equal(t, "Name: Alice | Age: 30 |", rows[0])
	assert.Equal(t, "Name: Bob | Age: 41 | City: Oslo |", rows[1])
}

func TestFlattenTablesWithoutHeader(t *testing.T) {
	// A table missing its header row degrades to nothing instead of failing.
	html := `<html><body><table><tbody><tr><td>orphan</td></tr></tbody></table></body></html>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	tables := flattenTables(doc)
	require.Len(t, tables, 1)
	assert.NotContains(t, tables[0], "orphan")
}

func TestNormalizeStripsCodeAndImages(t *testing.T) {
	n := New()

	md := "# Doc\n\nBefore code.\n\n```\nsecretFencedToken()\n```\n\nUse `inlineToken` carefully.\n\n![diagram](http://example.com/diagram.png)\n\nAfter image.\n"
	out, err := n.Normalize(md, "")
	require.NoError(t, err)

	assert.NotContains(t, out, "secretFencedToken")
	assert.NotContains(t, out, "inlineToken")
	assert.NotContains(t, out, "diagram.png")
	assert.Contains(t, out, "Before code.")
	assert.Contains(t, out, "After image.")
}

func TestNormalizeMaterializesHeadingHierarchy(t *testing.T) {
	n := New()

	md := `# T

## A

alpha body

### B

beta body

## C

gamma body
`
	out, err := n.Normalize(md, "")
	require.NoError(t, err)

	// A heading reached after body text carries its full ancestor chain.
	assert.Contains(t, out, "# T\n## A\n### B\n\nbeta body")
	assert.Contains(t, out, "# T\n## C\n\ngamma body")
	// A heading directly under its parent does not repeat the parent.
	assert.Contains(t, out, "# T\n## A\n\nalpha body")
}

func TestNormalizeResetsChainAtNewTopLevelHeading(t *testing.T) {
	n := New()

	md := `# First

## Sub

body one

# Second

## Other

body two
`
	out, err := n.Normalize(md, "")
	require.NoError(t, err)

	// The second top-level section must not inherit headings from the first.
	idx := strings.Index(out, "# Second")
	require.GreaterOrEqual(t, idx, 0)
	tail := out[idx:]
	assert.NotContains(t, tail, "# First")
	assert.Contains(t, tail, "# Second\n## Other\n\nbody two")
}

func TestMaterializeHierarchy(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "chain inserted after body text",
			in:   "# T\n\n## A\n\nbody\n\n### B\n\ndeep",
			want: "# T\n## A\n\nbody\n\n# T\n## A\n### B\n\ndeep",
		},
		{
			name: "no insertion when parent is adjacent",
			in:   "# T\n\n## A\n\n### B\n\ndeep",
			want: "# T\n## A\n### B\n\ndeep",
		},
		{
			name: "level skip uses whatever ancestors exist",
			in:   "# T\n\nbody\n\n### B\n\ndeep",
			want: "# T\n\nbody\n\n# T\n### B\n\ndeep",
		},
		{
			name: "sibling heading needs no chain",
			in:   "# T\n\n## A\n\n## B\n\nbody",
			want: "# T\n## A\n## B\n\nbody",
		},
		{
			name: "deep headings are body text",
			in:   "# T\n\n##### Tiny\n\nbody",
			want: "# T\n\n##### Tiny\n\nbody",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, materializeHierarchy(tt.in))
		})
	}
}

func TestBlocks(t *testing.T) {
	got := blocks("# H\n\nline one\nline two\n\n## H2\nimmediate body")
	assert.Equal(t, []string{"# H", "line one\nline two", "## H2", "immediate body"}, got)
}

func TestHeadingLevel(t *testing.T) {
	tests := []struct {
		line string
		want int
	}{
		{"# one", 1},
		{"## two", 2},
		{"#### four", 4},
		{"###### six", 6},
		{"####### seven", 0},
		{"#nospace", 0},
		{"plain", 0},
		{"", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, headingLevel(tt.line), "line %q", tt.line)
	}
}
