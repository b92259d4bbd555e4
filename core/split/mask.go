package split

import (
	"regexp"
	"strings"
)

// Marker sequences substituted for periods that must not trigger a sentence
// split. They are restored verbatim on the final chunk text, so input
// containing the literal markers themselves is not supported.
const (
	decimalMarker      = "#-#"
	urlMarker          = "@-@"
	abbreviationMarker = "*-*"
)

var urlPattern = regexp.MustCompile(`[-a-zA-Z0-9@:%._+~#=]{1,256}\.[a-zA-Z0-9()]{1,6}\b[-a-zA-Z0-9()@:%_+.~#?&/=]*`)

// abbrevRule masks the periods of one configured abbreviation.
type abbrevRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// compileAbbreviations builds one rule per abbreviation. The pattern anchors
// on a word boundary and requires trailing whitespace or end of input, so
// "vs." inside a longer token is left alone.
func compileAbbreviations(abbreviations []string) []abbrevRule {
	rules := make([]abbrevRule, 0, len(abbreviations))
	for _, abbr := range abbreviations {
		rules = append(rules, abbrevRule{
			pattern:     regexp.MustCompile(`\b` + regexp.QuoteMeta(abbr) + `(\s|$)`),
			replacement: strings.ReplaceAll(abbr, ".", abbreviationMarker) + "${1}",
		})
	}
	return rules
}

// mask replaces periods inside decimals, URLs, and configured abbreviations
// with marker sequences so that period-based splitting leaves them intact.
func (s *Splitter) mask(text string) string {
	text = maskDecimals(text)
	text = maskURLs(text)
	return s.maskAbbreviations(text)
}

// unmask restores all marker sequences back to periods.
func unmask(text string) string {
	text = strings.ReplaceAll(text, decimalMarker, ".")
	text = strings.ReplaceAll(text, urlMarker, ".")
	return strings.ReplaceAll(text, abbreviationMarker, ".")
}

// maskDecimals replaces every period flanked by digits. A byte scan instead
// of a regexp: RE2 has no lookaround, and "1.2.3" needs both periods masked.
func maskDecimals(text string) string {
	if !strings.Contains(text, ".") {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		if text[i] == '.' && i > 0 && i+1 < len(text) && isDigit(text[i-1]) && isDigit(text[i+1]) {
			b.WriteString(decimalMarker)
			continue
		}
		b.WriteByte(text[i])
	}
	return b.String()
}

// maskURLs replaces the periods of anything URL-shaped (host, path, query).
func maskURLs(text string) string {
	return urlPattern.ReplaceAllStringFunc(text, func(m string) string {
		return strings.ReplaceAll(m, ".", urlMarker)
	})
}

func (s *Splitter) maskAbbreviations(text string) string {
	for _, rule := range s.abbrevs {
		text = rule.pattern.ReplaceAllString(text, rule.replacement)
	}
	return text
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
