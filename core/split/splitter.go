// Package split implements the hierarchical, token-aware text splitter.
//
// Content is decomposed along an ordered separator hierarchy (paragraph
// break, line break, sentence period, whitespace) until every fragment fits
// the token budget, then adjacent fragments are merged back together until no
// further merge is possible. Markdown fragments carry their heading
// breadcrumb as context, so every emitted chunk is self-describing. Periods
// inside decimals, URLs, and known abbreviations are masked before splitting
// and restored on the final chunks.
package split

import (
	"errors"
	"fmt"
	"strings"

	"github.com/verloop/md2chunks/core"
	"github.com/verloop/md2chunks/core/token"
)

// ErrInvalidBudget is returned when the metadata overhead leaves no token
// budget for content.
var ErrInvalidBudget = errors.New("effective chunk size is non-positive after considering metadata")

// Config holds the splitting parameters. Every Splitter receives an explicit
// Config at construction; there is no ambient state.
type Config struct {
	// ChunkSize is the target token count per chunk.
	ChunkSize int
	// OverlapBuffer must be above 1.0. ChunkSize*OverlapBuffer is both the
	// forced-split trigger and the merge ceiling.
	OverlapBuffer float64
	// ParagraphSeparator delimits paragraph-level fragments.
	ParagraphSeparator string
	// CharacterSeparators is the separator hierarchy, coarsest to finest.
	// The finest separator is assumed to always terminate the recursion.
	CharacterSeparators []string
	// BreakSeparator is the hard wall. Content on either side is processed
	// independently and never merged back together.
	BreakSeparator string
	// Abbreviations whose trailing period must not trigger a sentence split.
	Abbreviations []string
	// Model selects the tokenizer vocabulary.
	Model string
}

// DefaultConfig returns the standard splitting configuration.
func DefaultConfig() Config {
	return Config{
		ChunkSize:           256,
		OverlapBuffer:       1.4,
		ParagraphSeparator:  "\n\n\n",
		CharacterSeparators: []string{"\n\n", "\n", ".", " "},
		BreakSeparator:      "\n---\n",
		Abbreviations:       []string{"eg.", "i.e.", "vs.", "Dr.", "Mr.", "Ms."},
		Model:               "gpt-3.5-turbo",
	}
}

// withDefaults fills zero-valued fields from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.ChunkSize <= 0 {
		c.ChunkSize = def.ChunkSize
	}
	if c.OverlapBuffer <= 1.0 {
		c.OverlapBuffer = def.OverlapBuffer
	}
	if c.ParagraphSeparator == "" {
		c.ParagraphSeparator = def.ParagraphSeparator
	}
	if len(c.CharacterSeparators) == 0 {
		c.CharacterSeparators = def.CharacterSeparators
	}
	if c.BreakSeparator == "" {
		c.BreakSeparator = def.BreakSeparator
	}
	if c.Abbreviations == nil {
		c.Abbreviations = def.Abbreviations
	}
	if c.Model == "" {
		c.Model = def.Model
	}
	return c
}

// fragment is the unit flowing through the splitter: a heading breadcrumb
// (empty for plain text) plus the body it prefixes. Token counts are always
// taken over context+text.
type fragment struct {
	context string
	text    string
}

// Splitter splits text into token-bounded chunks. Instances hold no mutable
// state and may be used from multiple goroutines.
type Splitter struct {
	cfg     Config
	tok     core.Tokenizer
	abbrevs []abbrevRule
}

// New creates a Splitter, constructing the tokenizer for cfg.Model.
// An unsupported model fails here, never on first use.
func New(cfg Config) (*Splitter, error) {
	cfg = cfg.withDefaults()
	enc, err := token.ForModel(cfg.Model)
	if err != nil {
		return nil, err
	}
	return NewWithTokenizer(cfg, enc), nil
}

// NewWithTokenizer creates a Splitter with a caller-supplied tokenizer.
func NewWithTokenizer(cfg Config, tok core.Tokenizer) *Splitter {
	cfg = cfg.withDefaults()
	return &Splitter{
		cfg:     cfg,
		tok:     tok,
		abbrevs: compileAbbreviations(cfg.Abbreviations),
	}
}

// Config returns the configuration the Splitter was built with.
func (s *Splitter) Config() Config {
	return s.cfg
}

// Split splits content into chunks of at most roughly
// ChunkSize*OverlapBuffer tokens each. For markdown input every chunk keeps
// its heading breadcrumb as a literal prefix. Chunk size is a soft ceiling:
// an atomic run of text that cannot be split any finer is emitted oversized
// rather than dropped.
func (s *Splitter) Split(content, metadata string, isMarkdown bool) ([]string, error) {
	if content == "" {
		return []string{}, nil
	}

	limit := s.cfg.ChunkSize
	if metadata != "" {
		limit -= s.tok.Count(metadata)
		if limit <= 0 {
			return nil, fmt.Errorf("metadata %q: %w", metadata, ErrInvalidBudget)
		}
	}

	if s.tok.Count(content) < limit {
		return []string{content}, nil
	}

	masked := s.mask(content)

	var final []string
	// Break-separated segments are hard-walled: each one is split and merged
	// on its own, so no chunk ever spans a wall.
	for _, segment := range strings.Split(masked, s.cfg.BreakSeparator) {
		frags := s.paragraphSplits(strings.Trim(segment, "\n"), isMarkdown)

		var chunks []fragment
		for _, f := range frags {
			if s.overCeiling(f, limit) {
				chunks = append(chunks, s.characterSplits(f, limit, isMarkdown)...)
			} else {
				chunks = append(chunks, f)
			}
		}

		chunks = s.merge(chunks, limit)

		for _, f := range chunks {
			text := strings.TrimSpace(f.text)
			if text == "" {
				continue
			}
			// Pipes collide with the record separator convention used by
			// callers; rewrite them on the way out. This one is deliberately
			// not reversible.
			chunk := strings.ReplaceAll(f.context+text, "|", ";")
			final = append(final, unmask(chunk))
		}
	}

	return final, nil
}

// overCeiling reports whether a fragment exceeds the forced-split threshold.
func (s *Splitter) overCeiling(f fragment, limit int) bool {
	return float64(s.tok.Count(f.context+f.text)) > float64(limit)*s.cfg.OverlapBuffer
}

// paragraphSplits splits a segment on the paragraph separator. For markdown
// the separator is re-appended to every piece and each piece is assigned the
// heading context in effect at that point of the document.
func (s *Splitter) paragraphSplits(segment string, isMarkdown bool) []fragment {
	pieces := strings.Split(segment, s.cfg.ParagraphSeparator)

	if !isMarkdown {
		frags := make([]fragment, 0, len(pieces))
		for _, p := range pieces {
			frags = append(frags, fragment{text: strings.Trim(p, "\n")})
		}
		return frags
	}

	chunks := make([]string, 0, len(pieces))
	for _, p := range pieces {
		chunks = append(chunks, strings.Trim(p, "\n")+s.cfg.ParagraphSeparator)
	}
	return s.assignContexts(chunks)
}

// characterSplits decomposes an oversized fragment along the separator
// hierarchy. Each level re-splits whatever still exceeds the ceiling, then
// merges, so over-fragmentation from a fine separator is undone before the
// next level runs.
func (s *Splitter) characterSplits(f fragment, limit int, isMarkdown bool) []fragment {
	frags := []fragment{f}

	for _, sep := range s.cfg.CharacterSeparators {
		splitMore := false
		collected := make([]string, 0, len(frags))

		for _, f := range frags {
			if !s.overCeiling(f, limit) {
				collected = append(collected, f.context+f.text)
				continue
			}
			// The context and separator are re-attached to every piece, the
			// last one included, so no boundary text is lost on remerge.
			for _, piece := range strings.Split(f.text, sep) {
				collected = append(collected, f.context+piece+sep)
			}
			splitMore = true
		}

		if isMarkdown {
			frags = s.assignContexts(collected)
		} else {
			frags = make([]fragment, 0, len(collected))
			for _, c := range collected {
				frags = append(frags, fragment{text: c})
			}
		}

		if !splitMore {
			return frags
		}
		frags = s.merge(frags, limit)
	}

	return frags
}

// merge joins adjacent fragments whose combined token count stays under the
// ceiling, repeating until a full pass makes no merge. When contexts differ,
// the later fragment's breadcrumb is materialized into the merged text so it
// is not silently lost.
func (s *Splitter) merge(frags []fragment, limit int) []fragment {
	ceiling := int(float64(limit) * s.cfg.OverlapBuffer)

	for merged := true; merged; {
		merged = false
		for i := 1; i < len(frags); {
			prev := frags[i-1]
			cur := frags[i]

			text := cur.text
			if cur.context != prev.context {
				text = cur.context + cur.text
			}

			if s.tok.Count(prev.context+prev.text)+s.tok.Count(text) < ceiling {
				frags[i-1] = fragment{context: prev.context, text: prev.text + text}
				frags = append(frags[:i], frags[i+1:]...)
				merged = true
			} else {
				i++
			}
		}
	}

	return frags
}
