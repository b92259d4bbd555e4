// Package core defines the pipeline interfaces for md2chunks.
// Each stage of the pipeline is a clean, testable interface.
package core

// DocInfo holds metadata about a source document being chunked.
type DocInfo struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	Format    string `json:"format"` // "md" or "txt"
	ChunkSize int    `json:"chunk_size"`
	Model     string `json:"model"`
}

// Node carries one chunk of a document plus its neighbor links.
// It is a plain record with no behavior of its own: the reader assembles
// nodes, renderers consume them.
type Node struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Source   string            `json:"source,omitempty"`   // path of the source document
	Previous string            `json:"previous,omitempty"` // ID of the preceding chunk
	Next     string            `json:"next,omitempty"`     // ID of the following chunk
}

// Tokenizer counts model-specific subword tokens in a string.
// Implementations must be deterministic for a fixed vocabulary.
type Tokenizer interface {
	Count(text string) int
}

// Normalizer rewrites raw markdown into a flat, context-complete form:
// the document is guaranteed to start with a heading, tables are flattened
// into "column: value" lines, and every heading occurrence carries its full
// ancestor chain.
type Normalizer interface {
	Normalize(markdown, title string) (string, error)
}

// Splitter splits normalized (or plain) text into an ordered sequence of
// token-bounded chunks. metadata is text the caller will prepend to every
// chunk downstream; its token cost is subtracted from the budget.
type Splitter interface {
	Split(content, metadata string, isMarkdown bool) ([]string, error)
}

// Renderer converts a document's chunk nodes into a final output format.
type Renderer interface {
	Render(doc DocInfo, nodes []*Node) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".chunks.json").
	Extension() string
}
