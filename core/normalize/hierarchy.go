package normalize

import "strings"

// maxLevel is the deepest heading level that participates in the hierarchy.
// Deeper headings are carried through as body text.
const maxLevel = 4

// materializeHierarchy rewrites the heading sequence of a markdown document
// so that every heading occurrence carries its full ancestor chain. The most
// recent heading seen at each level (1..4) is tracked in a fixed array of
// slots; whenever a heading of level L appears and the previous block was
// not a heading of level L or L-1, the recorded ancestors for levels 1..L-1
// are emitted directly before it. A new level-1 heading resets the slots, so
// no chain is carried across top-level sections.
//
// Spacing is rebuilt on the way out: headings belonging to one chain are
// joined by a single newline, while a heading and body text are separated by
// a blank line. The splitter's context extraction depends on exactly this
// layout.
func materializeHierarchy(markdown string) string {
	var (
		out  strings.Builder
		last [maxLevel + 1]string
		prev int // heading level of the previous block; 0 at start, -1 for body
	)

	write := func(block string, heading bool) {
		switch {
		case out.Len() == 0:
		case heading && prev > 0:
			out.WriteString("\n")
		default:
			out.WriteString("\n\n")
		}
		out.WriteString(block)
	}

	for _, block := range blocks(markdown) {
		level := headingLevel(block)
		if level == 0 || level > maxLevel {
			write(block, false)
			prev = -1
			continue
		}

		if level == 1 {
			last = [maxLevel + 1]string{}
		} else if prev != level && prev != level-1 {
			for l := 1; l < level; l++ {
				if last[l] == "" {
					continue
				}
				write(last[l], true)
				prev = l
			}
		}

		write(block, true)
		last[level] = block
		prev = level
	}

	return out.String()
}

// blocks splits markdown into blank-line-separated blocks, with each heading
// line forming a block of its own.
func blocks(markdown string) []string {
	var (
		blks []string
		cur  []string
	)
	flush := func() {
		if len(cur) > 0 {
			blks = append(blks, strings.Join(cur, "\n"))
			cur = nil
		}
	}
	for _, line := range strings.Split(markdown, "\n") {
		switch {
		case strings.TrimSpace(line) == "":
			flush()
		case headingLevel(line) > 0:
			flush()
			blks = append(blks, line)
		default:
			cur = append(cur, line)
		}
	}
	flush()
	return blks
}

// headingLevel returns the ATX heading level of a line (1-6), or 0 when the
// line is not a heading.
func headingLevel(line string) int {
	i := 0
	for i < len(line) && line[i] == '#' {
		i++
	}
	if i == 0 || i > 6 || i >= len(line) || line[i] != ' ' {
		return 0
	}
	return i
}
