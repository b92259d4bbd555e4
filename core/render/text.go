// Package render — text renderer.
// Produces a human-readable listing of a document's chunks, one block per
// chunk, for eyeballing how a document was cut.
package render

import (
	"fmt"
	"strings"

	"github.com/verloop/md2chunks/core"
)

// TextRenderer writes chunks as a readable .chunks.txt listing.
type TextRenderer struct{}

// NewTextRenderer creates a TextRenderer.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

// Render writes a header followed by every chunk in order.
func (r *TextRenderer) Render(doc core.DocInfo, nodes []*core.Node) ([]byte, error) {
	var buf strings.Builder
	fmt.Fprintf(&buf, "# source: %s\n", doc.Path)
	fmt.Fprintf(&buf, "# model: %s\n", doc.Model)
	fmt.Fprintf(&buf, "# chunk_size: %d\n\n", doc.ChunkSize)

	for i, node := range nodes {
		fmt.Fprintf(&buf, "--- chunk %d ---\n", i+1)
		fmt.Fprintf(&buf, "%s\n\n", node.Text)
	}

	return []byte(buf.String()), nil
}

// Extension returns the file extension for text output.
func (r *TextRenderer) Extension() string {
	return ".chunks.txt"
}
