package split

import "strings"

// A heading block is a run of heading lines ending at the first blank line
// that is not followed by another heading, e.g. "# Doc\n## Section\n\n".
// The normalizer guarantees such a block precedes every slice of body text,
// which is what makes context re-derivation after a split possible.

// assignContexts pairs each markdown chunk with the heading breadcrumb in
// effect where the chunk starts. A chunk that itself begins with a heading
// block has that block extracted as its own context and stripped from its
// body; the last block seen in a chunk becomes the context carried forward.
func (s *Splitter) assignContexts(chunks []string) []fragment {
	var context string
	frags := make([]fragment, 0, len(chunks))

	for _, chunk := range chunks {
		blocks := headingBlocks(chunk)
		if len(blocks) == 0 {
			frags = append(frags, fragment{context: context, text: chunk})
			continue
		}

		switch first := blocks[0]; {
		case strings.HasPrefix(chunk, first):
			frags = append(frags, fragment{context: first, text: chunk[len(first):]})
		case startsWithHeadingLine(chunk):
			frags = append(frags, fragment{context: first, text: chunk})
		default:
			frags = append(frags, fragment{context: context, text: chunk})
		}
		context = blocks[len(blocks)-1]
	}

	return frags
}

// headingBlocks finds the heading blocks in text, non-overlapping and in
// document order. Heading runs separated by blank lines coalesce into a
// single block.
func headingBlocks(text string) []string {
	var blocks []string
	for i := 0; i+1 < len(text); i++ {
		if text[i] != '#' || !isSpaceByte(text[i+1]) {
			continue
		}
		end := headingBlockEnd(text, i)
		if end < 0 {
			break
		}
		blocks = append(blocks, text[i:end])
		i = end - 1
	}
	return blocks
}

// headingBlockEnd returns the index just past the blank line terminating the
// block starting at start, or -1 when the block never terminates.
func headingBlockEnd(text string, start int) int {
	// At least one character must sit between the "# " and the blank line.
	j := start + 3
	for {
		k := strings.Index(text[j:], "\n\n")
		if k < 0 {
			return -1
		}
		j += k + 2
		if j >= len(text) || text[j] != '#' {
			return j
		}
	}
}

// startsWithHeadingLine reports whether the chunk opens with a heading line.
func startsWithHeadingLine(chunk string) bool {
	if len(chunk) == 0 || chunk[0] != '#' {
		return false
	}
	return strings.IndexByte(chunk, '\n') > 1
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
