package formatter

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const openingQuotes = "\"'“”‘’"

var (
	spaceBeforePunctRe = regexp.MustCompile(`[ \t]+([!?.,;:])`)
	lineStartCauseRe   = regexp.MustCompile(`(?i)^([ \t]*)('?cause|'til)\b`)
	glueParenRe        = regexp.MustCompile(`(\p{Ll})\(`)
	backingVocalRe     = regexp.MustCompile(`\(([^()\n]+)\)`)
	afterParenWordRe   = regexp.MustCompile(`\)[ \t]+([A-Z][a-z]*)\b`)
	firstWordRe        = regexp.MustCompile(`^[\p{L}']+`)
)

// pronounLeads keep a backing-vocal line in its written case.
var pronounLeads = wordSet("I", "I'm", "I'ma", "I'll", "I've", "I'd")

func removeSpaceBeforePunct(_ *run, text string) string {
	return spaceBeforePunctRe.ReplaceAllString(text, "$1")
}

// capitalizeLineStartContractions writes "'Cause" and "'Til" at the start of
// lines, or the upper case form on shouted lines.
func capitalizeLineStartContractions(_ *run, text string) string {
	return eachLine(text, func(line string) string {
		return replaceMatches(lineStartCauseRe, line, func(s string, m []int) string {
			token := group(s, m, 2)
			word := "'" + strings.ToLower(strings.TrimLeft(token, "'"))
			rest := s[m[1]:]
			if isAllCaps(token) && countLetters(token) > 1 || isAllCaps(rest) {
				return group(s, m, 1) + strings.ToUpper(word)
			}
			return group(s, m, 1) + upperFirstLetter(word)
		})
	})
}

// capitalizeLines upper-cases the first letter of every lyric line, looking
// past leading spaces, an opening parenthesis and one quote.
func capitalizeLines(_ *run, text string) string {
	return eachLine(text, func(line string) string {
		if isTagLine(line) {
			return line
		}
		i := skipSpaces(line, 0)
		if i < len(line) && line[i] == '(' {
			i = skipSpaces(line, i+1)
		}
		if r := nextRune(line, i); strings.ContainsRune(openingQuotes, r) {
			i += utf8.RuneLen(r)
		}
		r := nextRune(line, i)
		if !unicode.IsLower(r) {
			return line
		}
		return line[:i] + string(unicode.ToUpper(r)) + line[i+utf8.RuneLen(r):]
	})
}

// capitalizeAfterSentenceEnders upper-cases the first lowercase ASCII letter
// after "?" or "!", looking past spaces, line breaks, parentheses and quotes.
func capitalizeAfterSentenceEnders(_ *run, text string) string {
	b := []byte(text)
	isSpace := func(c byte) bool { return c == ' ' || c == '\t' || c == '\n' }
	for i := 0; i < len(b); i++ {
		if b[i] != '?' && b[i] != '!' {
			continue
		}
		k := i + 1
		for k < len(b) && isSpace(b[k]) {
			k++
		}
		for k < len(b) && b[k] == '(' {
			k++
			for k < len(b) && isSpace(b[k]) {
				k++
			}
		}
		for k < len(b) {
			r, size := utf8.DecodeRune(b[k:])
			if !strings.ContainsRune(openingQuotes, r) {
				break
			}
			k += size
		}
		if k < len(b) && b[k] >= 'a' && b[k] <= 'z' {
			b[k] -= 'a' - 'A'
		}
	}
	return string(b)
}

// fixBackingVocals lower-cases text in parentheses. Parentheticals that are
// shouted, or that open with "I" or a known proper noun, keep their case.
func fixBackingVocals(r *run, text string) string {
	if !r.opts.FixBackingVocals {
		return text
	}
	text = glueParenRe.ReplaceAllString(text, "$1 (")
	return replaceMatches(backingVocalRe, text, func(s string, m []int) string {
		whole := s[m[0]:m[1]]
		if hasSentinel(whole) {
			return whole
		}
		inner := strings.Join(strings.Fields(group(s, m, 1)), " ")
		if inner == "" {
			return whole
		}
		lead := firstWordRe.FindString(inner)
		switch {
		case isAllCaps(inner):
		case inSet(pronounLeads, lead):
		case r.lexicon.isProperNoun(lead):
		default:
			inner = standaloneIRe.ReplaceAllString(strings.ToLower(inner), "I")
		}
		return "(" + inner + ")"
	})
}

// lowercaseAfterParen lower-cases a Title-case word right after ")", since the
// line continues the sentence. "I" forms and proper nouns are kept.
func lowercaseAfterParen(r *run, text string) string {
	return replaceMatches(afterParenWordRe, text, func(s string, m []int) string {
		word := group(s, m, 1)
		if word == "I" || r.lexicon.isProperNoun(word) {
			return ") " + word
		}
		return ") " + strings.ToLower(word)
	})
}

// autoLowercase lower-cases every lyric line. Tags and protected
// parentheticals keep their case.
func autoLowercase(r *run, text string) string {
	if !r.opts.AutoLowercase {
		return text
	}
	return eachLine(text, func(line string) string {
		if isTagLine(line) {
			return line
		}
		return strings.ToLower(line)
	})
}
