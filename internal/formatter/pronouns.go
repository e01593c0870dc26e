package formatter

import (
	"regexp"
	"unicode"
	"unicode/utf8"
)

var (
	bareEmRe      = regexp.MustCompile(`(?i)\bem\b`)
	standaloneIRe = regexp.MustCompile(`\bi\b`)
	asciiLetterRe = regexp.MustCompile(`[A-Za-z]`)
	hyphenRunes   = []rune{'-', '‐', '‑', '‒', '–', '—', '−'}
)

func isHyphen(r rune) bool {
	for _, h := range hyphenRunes {
		if r == h {
			return true
		}
	}
	return false
}

// hyphenatedBreak reports whether the whitespace before offset crosses a line
// break back to a hyphen that follows a letter, as in "Lov-\nem".
func hyphenatedBreak(s string, offset int) bool {
	i := offset
	crossed := false
	for i > 0 {
		r, size := utf8.DecodeLastRuneInString(s[:i])
		if !unicode.IsSpace(r) {
			break
		}
		if r == '\n' || r == '\r' {
			crossed = true
		}
		i -= size
	}
	if !crossed || !isHyphen(prevRune(s, i)) {
		return false
	}
	_, size := utf8.DecodeLastRuneInString(s[:i])
	j := i - size
	for j > 0 {
		r, n := utf8.DecodeLastRuneInString(s[:j])
		if !unicode.IsSpace(r) {
			break
		}
		j -= n
	}
	return asciiLetterRe.MatchString(string(prevRune(s, j)))
}

// normalizeEm turns the bare pronoun "em" into "'em".
func normalizeEm(_ *run, text string) string {
	return replaceMatches(bareEmRe, text, func(s string, m []int) string {
		word := s[m[0]:m[1]]
		if m[0] > 0 {
			if !unicode.IsSpace(prevRune(s, m[0])) {
				return word
			}
			if hyphenatedBreak(s, m[0]) {
				return word
			}
		}
		if isAllCaps(word) {
			return "'EM"
		}
		return "'em"
	})
}

func capitalizeStandaloneI(_ *run, text string) string {
	return standaloneIRe.ReplaceAllString(text, "I")
}
