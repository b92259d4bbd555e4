package reader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeNormalizer prepends a marker so tests can tell whether a document
// went through normalization.
type fakeNormalizer struct {
	calls int
}

func (n *fakeNormalizer) Normalize(content, title string) (string, error) {
	n.calls++
	return "# " + title + "\n\n" + content, nil
}

// fakeSplitter cuts on blank lines and fails on demand.
type fakeSplitter struct {
	failOn string
}

func (s *fakeSplitter) Split(content, metadata string, isMarkdown bool) ([]string, error) {
	if s.failOn != "" && strings.Contains(content, s.failOn) {
		return nil, errors.New("splitter forced failure")
	}
	var chunks []string
	for _, part := range strings.Split(content, "\n\n") {
		if part = strings.TrimSpace(part); part != "" {
			chunks = append(chunks, part)
		}
	}
	return chunks, nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "guide.md", "# G\n")
	writeFile(t, dir, "notes.txt", "plain\n")
	writeFile(t, dir, "image.png", "binary")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.md"), 0755))

	files, err := Discover(dir)
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f))
	}
	assert.ElementsMatch(t, []string{"guide.md", "notes.txt"}, names)
}

func TestDiscoverMissingDir(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestLoadFileMarkdownIsNormalized(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "user_guide.md", "first paragraph\n\nsecond paragraph\n")

	norm := &fakeNormalizer{}
	r := New(norm, &fakeSplitter{}, "")

	nodes, err := r.LoadFile(path)
	require.NoError(t, err)
	require.Len(t, nodes, 3) // injected heading + two paragraphs

	assert.Equal(t, 1, norm.calls)
	assert.Equal(t, "# user_guide", nodes[0].Text)

	for _, node := range nodes {
		assert.NotEmpty(t, node.ID)
		assert.Equal(t, path, node.Source)
		assert.Equal(t, "user_guide", node.Metadata["doc_name"])
		assert.Equal(t, "md", node.Metadata["format"])
	}
}

func TestLoadFileTextSkipsNormalization(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "notes.txt", "just text\n")

	norm := &fakeNormalizer{}
	r := New(norm, &fakeSplitter{}, "")

	nodes, err := r.LoadFile(path)
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	assert.Zero(t, norm.calls)
	assert.Equal(t, "just text", nodes[0].Text)
	assert.Equal(t, "txt", nodes[0].Metadata["format"])
}

func TestLoadFileLinksNeighbors(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "doc.txt", "one\n\ntwo\n\nthree\n")

	r := New(&fakeNormalizer{}, &fakeSplitter{}, "")
	nodes, err := r.LoadFile(path)
	require.NoError(t, err)
	require.Len(t, nodes, 3)

	assert.Empty(t, nodes[0].Previous)
	assert.Equal(t, nodes[1].ID, nodes[0].Next)
	assert.Equal(t, nodes[0].ID, nodes[1].Previous)
	assert.Equal(t, nodes[2].ID, nodes[1].Next)
	assert.Equal(t, nodes[1].ID, nodes[2].Previous)
	assert.Empty(t, nodes[2].Next)

	assert.NotEqual(t, nodes[0].ID, nodes[1].ID)
}

func TestLoadIsolatesPerFileErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.txt", "boom content\n")
	writeFile(t, dir, "good.txt", "fine content\n")

	r := New(&fakeNormalizer{}, &fakeSplitter{failOn: "boom"}, "")
	nodes, err := r.Load(dir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.txt")
	require.Len(t, nodes, 1)
	assert.Equal(t, "fine content", nodes[0].Text)
}
