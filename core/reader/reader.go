// Package reader loads text and markdown documents from a directory and
// turns each one into a list of linked chunk nodes. Markdown files are
// normalized before splitting; plain text files are split as-is; anything
// else is skipped.
package reader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/verloop/md2chunks/core"
)

// Reader runs documents through normalize → split and wraps the resulting
// chunks into nodes carrying source and neighbor links.
type Reader struct {
	normalizer core.Normalizer
	splitter   core.Splitter
	metadata   string
}

// New creates a Reader. metadata is passed through to the splitter so the
// token budget accounts for whatever the caller prepends downstream.
func New(normalizer core.Normalizer, splitter core.Splitter, metadata string) *Reader {
	return &Reader{
		normalizer: normalizer,
		splitter:   splitter,
		metadata:   metadata,
	}
}

// Discover lists the markdown and text files in dir, in directory order.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".md", ".txt":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}

// Load processes every eligible file in dir. Documents are independent of
// one another: a failure on one does not stop the rest. The nodes of all
// documents that loaded are returned alongside the joined errors of those
// that did not.
func (r *Reader) Load(dir string) ([]*core.Node, error) {
	files, err := Discover(dir)
	if err != nil {
		return nil, err
	}

	var (
		nodes []*core.Node
		errs  []error
	)
	for _, path := range files {
		fileNodes, err := r.LoadFile(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		nodes = append(nodes, fileNodes...)
	}
	return nodes, errors.Join(errs...)
}

// LoadFile reads, normalizes (markdown only), and splits a single document,
// returning its chunks as linked nodes.
func (r *Reader) LoadFile(path string) ([]*core.Node, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	ext := filepath.Ext(path)
	name := strings.TrimSuffix(filepath.Base(path), ext)
	isMarkdown := ext == ".md"

	content := string(raw)
	if isMarkdown {
		content, err = r.normalizer.Normalize(content, name)
		if err != nil {
			return nil, fmt.Errorf("normalizing %s: %w", path, err)
		}
	}

	chunks, err := r.splitter.Split(content, r.metadata, isMarkdown)
	if err != nil {
		return nil, fmt.Errorf("splitting %s: %w", path, err)
	}

	format := strings.TrimPrefix(ext, ".")
	nodes := make([]*core.Node, 0, len(chunks))
	for _, chunk := range chunks {
		nodes = append(nodes, &core.Node{
			ID:     uuid.NewString(),
			Text:   chunk,
			Source: path,
			Metadata: map[string]string{
				"doc_name": name,
				"format":   format,
			},
		})
	}

	// Link neighbors so callers can walk a document's chunks in order.
	for i, node := range nodes {
		if i > 0 {
			node.Previous = nodes[i-1].ID
		}
		if i < len(nodes)-1 {
			node.Next = nodes[i+1].ID
		}
	}

	return nodes, nil
}
