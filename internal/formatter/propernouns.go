package formatter

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/sukalov/lyricsfmt/internal/wordlist"
)

// knownProperNouns maps a lower-case word to its canonical spelling.
// "May" and "March" are left out, they are far more often verbs.
var knownProperNouns = canonicalTable(
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
	"January", "February", "April", "June", "July", "August",
	"September", "October", "November", "December",
	"London", "Paris", "Tokyo", "California", "Texas", "Miami", "Atlanta", "Chicago",
	"Brooklyn", "Hollywood", "Vegas", "Detroit", "Houston", "Memphis", "Nashville", "Toronto",
	"America", "American", "England", "English", "Mexico", "Jamaica", "Africa", "Europe",
	"Christmas", "Easter", "Halloween",
	"God", "Jesus", "Christ",
	"iPhone", "YouTube", "Instagram", "Facebook", "TikTok", "Netflix",
	"Gucci", "Prada", "Versace", "Chanel", "Rolex",
	"Mercedes", "Bentley", "Lamborghini", "Ferrari", "Porsche", "Cadillac",
	"Nike", "Adidas", "Hennessy", "Snapchat", "Twitter", "Google", "Spotify",
	"Xbox", "PlayStation", "McDonald's", "Uber",
	"BMW", "NYC", "USA", "TV", "DJ", "MC", "UFO", "FBI", "CIA", "CEO",
)

var knownPhrases = []string{"New York", "Los Angeles", "Las Vegas", "New Orleans", "Rolls-Royce"}

var (
	tokenRe       = regexp.MustCompile(`[\p{L}][\p{L}\p{N}]*(?:'[\p{L}]+)?`)
	phraseRes     = compilePhrases(knownPhrases)
	sentenceEndRe = regexp.MustCompile(`[.?!]["'”’)]*[ \t]*$`)
)

// promotionLimit caps how often a title-case word may occur and still be
// taken for a name.
const promotionLimit = 6

type phraseRule struct {
	re        *regexp.Regexp
	canonical string
}

func canonicalTable(words ...string) map[string]string {
	table := make(map[string]string, len(words))
	for _, w := range words {
		table[strings.ToLower(w)] = w
	}
	return table
}

func compilePhrases(phrases []string) []phraseRule {
	rules := make([]phraseRule, 0, len(phrases))
	for _, p := range phrases {
		pattern := strings.ReplaceAll(regexp.QuoteMeta(strings.ToLower(p)), " ", `[ \t]+`)
		rules = append(rules, phraseRule{
			re:        regexp.MustCompile(`(?i)\b` + pattern + `\b`),
			canonical: p,
		})
	}
	return rules
}

// lexicon is the proper-noun table one Format call works with: the static
// entries plus whatever the evidence scan promoted.
type lexicon struct {
	known    map[string]string
	promoted map[string]string
	stoplist wordlist.Set
}

func newLexicon(stoplist wordlist.Set) *lexicon {
	return &lexicon{
		known:    knownProperNouns,
		promoted: map[string]string{},
		stoplist: stoplist,
	}
}

func (l *lexicon) lookup(word string) (string, bool) {
	if l == nil {
		return "", false
	}
	key := strings.ToLower(word)
	if c, ok := l.known[key]; ok {
		return c, true
	}
	c, ok := l.promoted[key]
	return c, ok
}

func (l *lexicon) isProperNoun(word string) bool {
	_, ok := l.lookup(word)
	return ok
}

// apply rewrites lower-case and Title-case occurrences of known names in
// their canonical form. Shouted words are left alone.
func (l *lexicon) apply(text string) string {
	if l == nil {
		return text
	}
	for _, p := range phraseRes {
		text = p.re.ReplaceAllStringFunc(text, func(m string) string {
			if isAllCaps(m) {
				return m
			}
			return p.canonical
		})
	}
	return replaceMatches(tokenRe, text, func(s string, m []int) string {
		word := s[m[0]:m[1]]
		canonical, ok := l.lookup(word)
		if !ok || word == canonical {
			return word
		}
		if isAllCaps(word) && countLetters(word) > 1 && !isAllCaps(canonical) {
			return word
		}
		if !isPlainCase(word) {
			return word
		}
		return canonical
	})
}

// isPlainCase reports lower-case words and words with only the first letter
// capitalized.
func isPlainCase(word string) bool {
	for i, r := range word {
		if i > 0 && unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

func isMixedCase(word string) bool {
	hasLower, innerUpper := false, false
	for i, r := range word {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case i > 0 && unicode.IsUpper(r):
			innerUpper = true
		}
	}
	return hasLower && innerUpper
}

type tokenStats struct {
	form  string
	count int
	// capitalized counts title-case uses where capitals carry no grammar
	capitalized int
	mixed       bool
	acronym     bool
}

// scanProperNouns collects evidence about names from the lyric itself:
// mixed-case tokens ("DaBaby"), short acronyms on otherwise lower-case lines
// and rare title-case words that appear mid-sentence.
func scanProperNouns(r *run, text string) string {
	stats := map[string]*tokenStats{}
	stat := func(key string) *tokenStats {
		st, ok := stats[key]
		if !ok {
			st = &tokenStats{}
			stats[key] = st
		}
		return st
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || isTagLine(trimmed) || hasSentinel(trimmed) {
			continue
		}
		matches := tokenRe.FindAllStringIndex(line, -1)
		for _, m := range matches {
			stat(strings.ToLower(line[m[0]:m[1]])).count++
		}
		if isAllCaps(trimmed) || isTitleLine(line, matches) {
			continue
		}
		hasLower := strings.IndexFunc(line, unicode.IsLower) >= 0
		depth := 0
		last := 0
		for i, m := range matches {
			depth += strings.Count(line[last:m[0]], "(") - strings.Count(line[last:m[0]], ")")
			last = m[0]
			word := line[m[0]:m[1]]
			key := strings.ToLower(word)
			if depth > 0 || i == 0 || sentenceEndRe.MatchString(line[:m[0]]) || afterOpeningQuote(line, m[0]) {
				continue
			}
			switch {
			case isMixedCase(word):
				st := stat(key)
				st.form, st.mixed = word, true
			case isAllCaps(word) && hasLower && countLetters(word) >= 2 && countLetters(word) <= 4:
				if !r.lexicon.stoplist.Contains(key) {
					st := stat(key)
					st.form, st.acronym = word, true
				}
			case isTitleCase(word) && isPlainCase(word) && countLetters(word) > 1:
				st := stat(key)
				if st.form == "" {
					st.form = word
				}
				st.capitalized++
			}
		}
	}

	for key, st := range stats {
		if r.lexicon.isProperNoun(key) || st.form == "" {
			continue
		}
		switch {
		case st.mixed, st.acronym:
			r.lexicon.promoted[key] = st.form
		case st.capitalized > 0 && st.count <= promotionLimit && !r.lexicon.stoplist.Contains(key):
			r.lexicon.promoted[key] = st.form
		}
	}
	return text
}

// isTitleLine reports lines where every word starts with a capital, which
// says nothing about names.
func isTitleLine(line string, matches [][]int) bool {
	if len(matches) < 2 {
		return false
	}
	for _, m := range matches {
		if !isTitleCase(line[m[0]:m[1]]) {
			return false
		}
	}
	return true
}

func afterOpeningQuote(line string, start int) bool {
	return strings.ContainsRune(openingQuotes, prevRune(line, start))
}

// applyProperNouns writes known and promoted names in canonical form.
func applyProperNouns(r *run, text string) string {
	return eachLine(text, func(line string) string {
		if isTagLine(strings.TrimSpace(line)) {
			return line
		}
		return r.lexicon.apply(line)
	})
}
