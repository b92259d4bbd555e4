// Package render provides output renderers for chunked documents.
// This file implements the JSON renderer, the machine-readable format.
package render

import (
	"encoding/json"
	"fmt"

	"github.com/verloop/md2chunks/core"
)

// ChunksJSON is the complete JSON output for a single document.
type ChunksJSON struct {
	Document core.DocInfo `json:"document"`
	Chunks   []*core.Node `json:"chunks"`
}

// JSONRenderer emits a document's chunks as pretty-printed JSON.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render marshals the document info and its chunk nodes.
func (r *JSONRenderer) Render(doc core.DocInfo, nodes []*core.Node) ([]byte, error) {
	out := ChunksJSON{Document: doc, Chunks: nodes}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling chunks: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".chunks.json"
}
