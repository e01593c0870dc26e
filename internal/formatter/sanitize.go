package formatter

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	commaParenRe     = regexp.MustCompile(`,[ \t]*(\([^()\n]*\)(?:[ \t]*\([^()\n]*\))*)`)
	punctGlueRe      = regexp.MustCompile(`([,;!?])(\S)`)
	multiSpaceRe     = regexp.MustCompile(` {2,}`)
	spaceBeforeRe    = regexp.MustCompile(`[ \t]+([,.;!?)])`)
	bangParenRe      = regexp.MustCompile(`([!?])[ \t]*\(`)
	letterParenRe    = regexp.MustCompile(`(\p{L})\(`)
	parenLetterRe    = regexp.MustCompile(`\)(\p{L})`)
	parenInnerOpenRe = regexp.MustCompile(`\([ \t]+`)
	parenInnerEndRe  = regexp.MustCompile(`[ \t]+\)`)
	commaRunRe       = regexp.MustCompile(`,(?:[ \t]*,)+`)
	commaCloseRe     = regexp.MustCompile(`,([ \t]*\))`)
	trailingCommaRe  = regexp.MustCompile(`,+[ \t]*$`)
	meridiemEndRe    = regexp.MustCompile(`(?i)\b[ap]\.m\.$`)
)

// relocateCommas moves a comma that sits before parentheticals to after the
// last of them: "go, (go) (go) now" becomes "go (go) (go), now". At the end
// of a line the comma is dropped.
func relocateCommas(_ *run, text string) string {
	return eachLine(text, func(line string) string {
		return replaceMatches(commaParenRe, line, func(s string, m []int) string {
			paren := " " + group(s, m, 1)
			rest := s[m[1]:]
			switch {
			case strings.TrimSpace(rest) == "":
				return paren
			case strings.HasPrefix(rest, ","):
				return paren
			default:
				return paren + ","
			}
		})
	})
}

// spaceAfterPunct puts one space between ",;!?" and a following word. Quotes
// and further punctuation stay tight, and so do digit groups like "1,000".
func spaceAfterPunct(line string) string {
	return replaceMatches(punctGlueRe, line, func(s string, m []int) string {
		punct, follow := group(s, m, 1), group(s, m, 2)
		next, _ := utf8.DecodeRuneInString(follow)
		spaced := punct + " " + follow
		switch {
		case strings.ContainsRune(`"?!`, next):
		case next == '\'':
			if unicode.IsLetter(nextRune(s, m[1])) {
				return spaced
			}
		case unicode.IsDigit(next) && punct == "," && isDigit(prevRune(s, m[0])):
		case unicode.IsLetter(next) || unicode.IsDigit(next):
			return spaced
		}
		return punct + follow
	})
}

// spaceClosingQuotes adds a space after a closing double quote that runs
// into a word. Lines with an odd number of quotes are left alone, since the
// pairs cannot be told apart.
func spaceClosingQuotes(line string) string {
	if strings.Count(line, `"`)%2 != 0 {
		return line
	}
	var b strings.Builder
	b.Grow(len(line) + 4)
	open := false
	for i, r := range line {
		b.WriteRune(r)
		if r != '"' {
			continue
		}
		if open {
			next, _ := utf8.DecodeRuneInString(line[i+1:])
			if unicode.IsLetter(next) || unicode.IsDigit(next) {
				b.WriteByte(' ')
			}
		}
		open = !open
	}
	return b.String()
}

// stripLineEnd drops punctuation left at the end of a lyric line once the
// spaces around it are gone. Tags and "a.m."/"p.m." keep their dots.
func stripLineEnd(line string) string {
	if isTagLine(strings.TrimSpace(line)) || meridiemEndRe.MatchString(line) {
		return line
	}
	return lineEndPunctRe.ReplaceAllString(line, "")
}

// sanitize is the closing whitespace and punctuation pass. Running it twice
// gives the same text as running it once.
func sanitize(_ *run, text string) string {
	text = eachLine(text, func(line string) string {
		line = spaceAfterPunct(line)
		line = multiSpaceRe.ReplaceAllString(line, " ")
		line = spaceBeforeRe.ReplaceAllString(line, "$1")
		line = spaceClosingQuotes(line)
		line = bangParenRe.ReplaceAllString(line, "$1 (")
		line = letterParenRe.ReplaceAllString(line, "$1 (")
		line = parenLetterRe.ReplaceAllString(line, ") $1")
		line = parenInnerOpenRe.ReplaceAllString(line, "(")
		line = parenInnerEndRe.ReplaceAllString(line, ")")
		line = commaRunRe.ReplaceAllString(line, ",")
		line = commaCloseRe.ReplaceAllString(line, "$1")
		line = spaceBeforeRe.ReplaceAllString(line, "$1")
		line = repeatedBangRe.ReplaceAllString(line, "!")
		line = repeatedQMarkRe.ReplaceAllString(line, "?")
		line = trailingCommaRe.ReplaceAllString(line, "")
		return strings.TrimSpace(stripLineEnd(line))
	})
	text = blankRunsRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
