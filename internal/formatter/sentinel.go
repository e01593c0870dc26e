package formatter

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Placeholders look like U+E000, one index rune from U+E100 upwards, U+E001.
// They contain no ASCII letters, digits or punctuation, so no rewrite rule
// can match inside them.
const (
	sentinelOpen  = '\uE000'
	sentinelClose = '\uE001'
	sentinelBase  = 0xE100
	sentinelLimit = 0xF8FF - sentinelBase
)

type sentinels struct {
	spans []string
}

func (s *sentinels) protect(original string) (string, bool) {
	if len(s.spans) >= sentinelLimit {
		return original, false
	}
	idx := len(s.spans)
	s.spans = append(s.spans, original)
	return string([]rune{sentinelOpen, rune(sentinelBase + idx), sentinelClose}), true
}

func (s *sentinels) restore(text string) string {
	if len(s.spans) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == sentinelOpen {
			idxRune, n := utf8.DecodeRuneInString(text[i+size:])
			closeRune, m := utf8.DecodeRuneInString(text[i+size+n:])
			idx := int(idxRune) - sentinelBase
			if closeRune == sentinelClose && idx >= 0 && idx < len(s.spans) {
				b.WriteString(s.spans[idx])
				i += size + n + m
				continue
			}
		}
		b.WriteRune(r)
		i += size
	}
	return b.String()
}

func hasSentinel(s string) bool {
	return strings.ContainsRune(s, sentinelOpen)
}

var hyphenEmRe = regexp.MustCompile(`(?i)([A-Za-z])(-[ \t]*\n[ \t]*em)\b`)

// protectSpans hides whole-line parentheticals and words hyphenated across a
// line break into "em" behind placeholders.
func protectSpans(r *run, text string) string {
	text = strings.Map(func(c rune) rune {
		if c == sentinelOpen || c == sentinelClose {
			return -1
		}
		return c
	}, text)

	text = eachLine(text, func(line string) string {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) < 2 || trimmed[0] != '(' || trimmed[len(trimmed)-1] != ')' {
			return line
		}
		if isInstrumentalLabel(trimmed, r.opts.Lang) {
			return line
		}
		placeholder, ok := r.sentinels.protect(trimmed)
		if !ok {
			return line
		}
		return placeholder
	})

	return replaceMatches(hyphenEmRe, text, func(s string, m []int) string {
		placeholder, ok := r.sentinels.protect(group(s, m, 2))
		if !ok {
			return s[m[0]:m[1]]
		}
		return group(s, m, 1) + placeholder
	})
}

func restoreSpans(r *run, text string) string {
	return r.sentinels.restore(text)
}
