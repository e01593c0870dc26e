package formatter

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

var (
	spaceRunsRe     = regexp.MustCompile(`[ \t]{2,}`)
	trailingSpaceRe = regexp.MustCompile(`[ \t]+\n`)
	blankRunsRe     = regexp.MustCompile(`\n{3,}`)
	lineEndPunctRe  = regexp.MustCompile(`(?:[ \t]*[.,;:\-])+[ \t]*$`)
	repeatedBangRe  = regexp.MustCompile(`!{2,}`)
	repeatedQMarkRe = regexp.MustCompile(`\?{2,}`)
)

var charReplacer = strings.NewReplacer(
	"\r\n", "\n",
	"\r", "\n",
	"\t", " ",
	"‘", "'", "’", "'", "`", "'", "´", "'", "′", "'",
	"“", `"`, "”", `"`, "«", `"`, "»", `"`, "„", `"`, "″", `"`,
	"–", "-", "—", "-", "―", "-",
	"…", "...",
)

func isSpaceLike(r rune) bool {
	switch {
	case r >= 0x2000 && r <= 0x200B,
		r == 0x00A0, r == 0x202F, r == 0x205F, r == 0x2060, r == 0x3000, r == 0xFEFF:
		return true
	}
	return false
}

func isDecorativeSymbol(r rune) bool {
	switch {
	case r >= 0x1F000 && r <= 0x1FAFF,
		r >= 0x2600 && r <= 0x27BF,
		r >= 0xFE00 && r <= 0xFE0F,
		r == 0x200D:
		return true
	}
	return false
}

// unicodeCleanup composes to NFC, folds full-width forms and drops emoji,
// pictographs and invisible format characters.
func unicodeCleanup(s string) string {
	t := transform.Chain(
		runes.Map(func(r rune) rune {
			if isSpaceLike(r) {
				return ' '
			}
			return r
		}),
		norm.NFC,
		width.Fold,
		runes.Remove(runes.Predicate(isDecorativeSymbol)),
		runes.Remove(runes.In(unicode.Cf)),
	)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// foldHomoglyphs replaces Cyrillic е/Е that slip into Latin-script lyrics.
func foldHomoglyphs(s string) string {
	return strings.NewReplacer("е", "e", "Е", "E").Replace(s)
}

func normalizeText(r *run, text string) string {
	text = unicodeCleanup(text)
	text = charReplacer.Replace(text)
	if r.opts.Lang != LangRU {
		text = foldHomoglyphs(text)
	}
	text = repeatedBangRe.ReplaceAllString(text, "!")
	text = repeatedQMarkRe.ReplaceAllString(text, "?")
	text = spaceRunsRe.ReplaceAllString(text, " ")
	text = trailingSpaceRe.ReplaceAllString(text, "\n")
	text = eachLine(text, func(line string) string {
		return strings.TrimLeft(line, " ")
	})
	text = blankRunsRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// stripLineEndPunctuation drops trailing periods, commas, semicolons, colons
// and dashes. Question and exclamation marks stay.
func stripLineEndPunctuation(_ *run, text string) string {
	return eachLine(text, func(line string) string {
		if isTagLine(line) {
			return line
		}
		return lineEndPunctRe.ReplaceAllString(line, "")
	})
}
