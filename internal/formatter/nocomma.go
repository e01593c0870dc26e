package formatter

import (
	"regexp"
	"strings"

	"github.com/dlclark/regexp2"
)

// noFollowers are words that, right after a standalone "no", mark it as an
// interjection rather than a determiner.
var noFollowers = wordSet(
	"i", "i'm", "im", "i'd", "i'll", "i've", "imma", "i'ma",
	"you", "you're", "youre", "u", "ya", "y'all", "yall", "ya'll",
	"he", "she", "we", "they", "it", "it's", "its",
	"there", "there's", "theres", "this", "that", "these", "those",
	"dont", "don't", "do", "does", "did", "didn't", "didnt",
	"cant", "can't", "cannot", "wont", "won't", "wouldnt", "wouldn't",
	"shouldnt", "shouldn't", "couldnt", "couldn't", "aint", "ain't",
	"never", "ever", "please", "thanks", "thank", "sorry",
	"sir", "ma'am", "maam", "bro", "dude", "man", "girl", "boy", "baby", "babe", "darling", "honey",
	"stop", "wait", "listen", "hold", "hang", "come", "comeon", "c'mon", "let", "lets", "let's",
	"leave", "gimme", "gonna", "gotta", "no", "nah",
)

// Speech verbs introduce "no" as a quoted answer: "said no, you can't".
var noSpeechVerbs = wordSet(
	"say", "says", "said", "tell", "tells", "told", "ask", "asks", "asked",
	"reply", "replies", "replied", "yell", "yells", "yelled", "shout", "shouts", "shouted",
	"scream", "screams", "screamed", "whisper", "whispers", "whispered",
)

var sayNoMoreVerbs = wordSet("say", "says", "said", "told", "telling", "tell", "tells")

const noQuoteChars = "\"'“”‘’"

const noWord = `((?:'?)[A-Za-z0-9][^\s,.;!?()#"]*)`

var (
	noBetweenRe     = regexp.MustCompile(noWord + `([ \t]+)([Nn][Oo])([ \t]+)` + noWord)
	noCommaBeforeRe = regexp.MustCompile(noWord + `([ \t]*,[ \t]*)([Nn][Oo])([ \t]+)` + noWord)
	noCommaAfterRe  = regexp.MustCompile(noWord + `([ \t]+)([Nn][Oo])([ \t]*,[ \t]*)` + noWord)
	leadingWordRe   = regexp.MustCompile(`^[A-Za-z']+`)
	digitsOnlyRe    = regexp.MustCompile(`^\d+$`)

	// Lookarounds: "no no" gets a comma, a line-initial "no" only when
	// no comma follows already.
	noNoRe        = regexp2.MustCompile(`\b([Nn][Oo])[ \t]+(?=[Nn][Oo]\b)`, regexp2.None)
	lineStartNoRe = regexp2.MustCompile(`^([ \t]*)([Nn][Oo])\b(?![ \t]*,)`, regexp2.None)
)

func boundaryWord(word string, leading bool) string {
	if leading {
		word = strings.TrimLeft(word, noQuoteChars)
	} else {
		word = strings.TrimRight(word, noQuoteChars)
	}
	return strings.ToLower(word)
}

// shouldIsolateNo reports whether "prev no next" reads as a spoken "no".
func shouldIsolateNo(prev, next string) bool {
	prevLower := boundaryWord(prev, true)
	nextLower := boundaryWord(next, false)
	if nextLower == "" || nextLower == "no" || prevLower == "no" {
		return false
	}
	if digitsOnlyRe.MatchString(prevLower) || digitsOnlyRe.MatchString(nextLower) {
		return true
	}
	return inSet(noFollowers, nextLower)
}

// shouldCommaAfterNo looks past spaces and quotes after a "no" ending at idx.
func shouldCommaAfterNo(s string, idx int) bool {
	i := idx
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	for i < len(s) && strings.ContainsRune(noQuoteChars, nextRune(s, i)) {
		i += len(string(nextRune(s, i)))
	}
	if i >= len(s) {
		return false
	}
	switch s[i] {
	case '\n', ',', '.', '!', '?', ';', ':', ')':
		return false
	}
	w := leadingWordRe.FindString(s[i:])
	if w == "" {
		return false
	}
	return inSet(noFollowers, strings.ToLower(w))
}

func isSayNoMore(prev, next string) bool {
	return boundaryWord(next, false) == "more" && inSet(sayNoMoreVerbs, boundaryWord(prev, true))
}

// isolateNo rewrites one "prev <sep> no <sep> next" match.
func isolateNo(s string, m []int) string {
	whole := s[m[0]:m[1]]
	prev, no, next := group(s, m, 1), group(s, m, 3), group(s, m, 5)
	if isSayNoMore(prev, next) || !shouldIsolateNo(prev, next) {
		return whole
	}
	if inSet(noSpeechVerbs, boundaryWord(prev, true)) && !strings.Contains(group(s, m, 2), ",") {
		return prev + " " + no + ", " + next
	}
	return prev + ", " + no + ", " + next
}

// applyNoCommas punctuates the interjection "no": "Oh no, I can't",
// "I said no, you", "No, no". "Say no more" is left as is.
func applyNoCommas(_ *run, text string) string {
	return eachLine(text, func(line string) string {
		line = replaceMatches(noBetweenRe, line, isolateNo)
		line = replaceMatches(noCommaBeforeRe, line, isolateNo)
		line = replaceMatches(noCommaAfterRe, line, isolateNo)

		line = replace2(noNoRe, line, func(m regexp2.Match) string {
			return m.GroupByNumber(1).String() + ", "
		})

		runes := []rune(line)
		return replace2(lineStartNoRe, line, func(m regexp2.Match) string {
			after := string(runes[m.Index+m.Length:])
			if shouldCommaAfterNo(after, 0) {
				return m.String() + ","
			}
			return m.String()
		})
	})
}

// replace2 runs a lookaround pattern over s. Matching only fails on timeout,
// which none of these patterns set, so s is returned unchanged then.
func replace2(re *regexp2.Regexp, s string, fn func(regexp2.Match) string) string {
	out, err := re.ReplaceFunc(s, fn, -1, -1)
	if err != nil {
		return s
	}
	return out
}
