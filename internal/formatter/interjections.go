package formatter

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	interjectionStoppers = ",!?.-;:)]}"
	closingQuotes        = "'\"’”"
)

var (
	elongationRe      = regexp.MustCompile(`(?i)\b(oh|ah|yeah|uh)h+\b`)
	interjectionRe    = regexp.MustCompile(`(?i)\b(oh|ah|yeah|whoa|ooh|uh|well)\b`)
	interjectParenRe  = regexp.MustCompile(`(?i)\b(oh|ah|yeah|whoa|ooh|uh|well)[ \t]*,[ \t]*\)`)
	prevWordRe        = regexp.MustCompile(`([A-Za-z'’]+)[^A-Za-z'’]*$`)
	clauseWordRe      = regexp.MustCompile(`^[A-Za-z'’]+`)
	contractionTailRe = regexp.MustCompile(`(?:'ll|'re|'ve|'d|'m|'s)$`)
)

// wellAllowedPreceders may sit right before "well" without making it an
// adverb: "oh well, I".
var wellAllowedPreceders = wordSet(
	"oh", "ah", "yeah", "yea", "yah", "uh", "um", "huh", "hmm", "mm",
	"aw", "aww", "awww", "gee", "gosh", "hey",
	"and", "but", "so", "yet", "or", "anyway", "anyways", "well",
)

// wellPrecederWords make "well" an adverb or adjective: "so well", "do well".
var wellPrecederWords = wordSet(
	"a", "an", "the", "this", "that", "these", "those",
	"my", "your", "his", "her", "their", "our", "its",
	"some", "any", "such", "each", "every",
	"too", "very", "so", "as", "quite", "pretty", "rather", "really", "real",
	"feel", "feels", "felt", "feeling",
	"do", "does", "did", "doing", "done", "to",
	"am", "is", "are", "was", "were", "be", "been", "being",
	"stay", "stays", "stayed", "staying",
	"keep", "keeps", "kept", "keeping",
	"remain", "remains", "remained", "remaining",
	"seem", "seems", "seemed", "seeming",
	"sound", "sounds", "sounded", "sounding",
	"look", "looks", "looked", "looking",
	"become", "becomes", "became", "becoming",
	"grow", "grows", "grew", "growing",
	"live", "lives", "lived", "living",
	"work", "works", "worked", "working",
	"play", "plays", "played", "playing",
)

// wellClauseStarters open a new clause after an interjected "well".
// Entries carry no apostrophes.
var wellClauseStarters = wordSet(
	"i", "im", "id", "ill", "ive",
	"you", "youre", "youd", "youll", "youve", "ya", "yall", "yous", "youse",
	"he", "hes", "hed", "hell", "she", "shes", "shed", "shell",
	"we", "were", "wed", "well", "weve",
	"they", "theyre", "theyd", "theyll", "theyve",
	"it", "its", "itd", "itll",
	"this", "that", "these", "those",
	"there", "theres", "therell", "thered", "thereve", "therere",
	"who", "whos", "what", "whats", "where", "wheres", "when", "whens",
	"why", "whys", "how", "hows",
	"the", "a", "an", "another", "all",
	"someone", "somebody", "anyone", "anybody", "everyone", "everybody",
	"nobody", "nothing", "something", "anything", "everything",
	"so", "then", "now", "anyway", "anyways", "anyhow", "anyhoo",
	"guess", "maybe", "perhaps",
	"alright", "alrighty", "allright", "okay", "ok", "okey",
	"uh", "oh", "right", "listen", "look", "hey", "hi", "hello", "yo",
	"dude", "man", "girl", "boy", "baby", "honey", "buddy", "sir", "maam",
	"ladies", "folks", "guys", "people", "kid", "kids", "partner", "friend", "friends",
	"gimme", "lemme", "dear",
	"cause", "because", "cuz", "cos", "coz",
	"if", "whenever", "while", "since", "once", "after", "before", "for",
	"and", "but", "or", "yet", "though",
	"let", "lets", "gonna", "please", "cmon", "come",
	"should", "shoulda", "shouldve", "shouldnt",
	"could", "coulda", "couldve", "couldnt",
	"would", "woulda", "wouldve", "wouldnt",
	"might", "mighta", "mightve", "mightnt",
	"may", "must", "mustve", "mustnt", "shall", "shant",
	"can", "cant", "cannot", "won", "wont", "will",
	"did", "didnt", "do", "dont", "does", "doesnt", "done", "doing",
	"ain", "aint", "is", "isnt", "are", "arent", "was", "wasnt", "werent",
	"have", "havent", "has", "hasnt", "had", "hadnt",
)

func isASCIIAlnum(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
}

// skipSpaces returns the first index at or after i that is not a space.
func skipSpaces(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i
}

// skipRunes advances past any runes from set, with spaces between them.
func skipRunes(s string, i int, set string) int {
	for i < len(s) && strings.ContainsRune(set, nextRune(s, i)) {
		i += len(string(nextRune(s, i)))
		i = skipSpaces(s, i)
	}
	return i
}

// collapseElongations shortens "ohhh" and "yeahhh" to their base word.
func collapseElongations(_ *run, text string) string {
	return replaceMatches(elongationRe, text, func(s string, m []int) string {
		next := nextRune(s, m[1])
		if m[1] < len(s) && !unicode.IsSpace(next) && !strings.ContainsRune(",!.?)", next) {
			return s[m[0]:m[1]]
		}
		return group(s, m, 1)
	})
}

// wellStartsClause decides whether an interjected "well" followed by rest
// opens a new clause and so takes a comma.
func wellStartsClause(line string, start int, rest string) bool {
	before := strings.TrimRight(line[:start], " \t")
	var prevWord string
	if pm := prevWordRe.FindStringSubmatch(before); pm != nil {
		prevWord = strings.ToLower(strings.TrimLeft(pm[1], "'’"))
	}
	if prevWord != "" && inSet(wellPrecederWords, prevWord) {
		return false
	}
	if before != "" {
		if isASCIIAlnum(prevRune(before, len(before))) {
			if prevWord == "" || !inSet(wellAllowedPreceders, prevWord) {
				return false
			}
		}
	}

	i := skipRunes(rest, 0, "([{")
	i = skipRunes(rest, i, closingQuotes)
	word := clauseWordRe.FindString(rest[i:])
	if word == "" {
		return false
	}
	candidate := strings.TrimLeft(strings.ReplaceAll(strings.ToLower(word), "’", "'"), "'")
	if candidate == "" {
		return false
	}
	forms := []string{candidate}
	if stripped := contractionTailRe.ReplaceAllString(candidate, ""); stripped != "" && stripped != candidate {
		forms = append(forms, stripped)
	}
	for _, f := range forms {
		if inSet(wellClauseStarters, strings.ReplaceAll(f, "'", "")) {
			return true
		}
	}
	return false
}

// insertInterjectionCommas adds a comma after interjections that run into
// the next word: "Oh I know" becomes "Oh, I know". Line ends, existing
// commas and punctuation leave the token alone.
func insertInterjectionCommas(_ *run, text string) string {
	return eachLine(text, func(line string) string {
		line = replaceMatches(interjectionRe, line, func(s string, m []int) string {
			word := s[m[0]:m[1]]
			i := skipSpaces(s, m[1])
			if i >= len(s) || s[i] == ',' {
				return word
			}
			i = skipRunes(s, i, closingQuotes)
			if i >= len(s) || s[i] == ',' {
				return word
			}
			if strings.ContainsRune(interjectionStoppers, nextRune(s, i)) {
				return word
			}
			if strings.EqualFold(word, "well") && !wellStartsClause(s, m[0], s[i:]) {
				return word
			}
			return word + ","
		})
		return interjectParenRe.ReplaceAllString(line, "$1)")
	})
}
