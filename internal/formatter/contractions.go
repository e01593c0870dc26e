package formatter

import (
	"regexp"
	"strings"
)

var (
	gunnaRe    = regexp.MustCompile(`(?i)\bgunna\b`)
	gonRe      = regexp.MustCompile(`(?i)\bgon\b`)
	cuzRe      = regexp.MustCompile(`(?i)'?\bc(?:uz|os|oz)\b`)
	causeRe    = regexp.MustCompile(`(?i)\bcause\b`)
	tillRe     = regexp.MustCompile(`(?i)\bti(?:ll|l)\b'?`)
	immaRe     = regexp.MustCompile(`(?i)\b(?:imma|i'?m'?ma|ima)\b`)
	imRe       = regexp.MustCompile(`(?i)\bim\b`)
	negationRe = regexp.MustCompile(`(?i)\b(dont|cant|wont|aint)\b`)
	woahRe     = regexp.MustCompile(`(?i)\bwoah\b`)
	emTrailRe  = regexp.MustCompile(`(?i)\bem'`)
	godDamnRe  = regexp.MustCompile(`(?i)\bgod[ \t]+damn\b`)
	naRunRe    = regexp.MustCompile(`(?i)(?:\bna\b(?:[ \t]+|-[ \t]*)?){4,}`)
	naWordRe   = regexp.MustCompile(`(?i)\bna\b`)
)

var negations = map[string]string{
	"dont": "don't",
	"cant": "can't",
	"wont": "won't",
	"aint": "ain't",
}

// droppedG is the closed list of gerunds written without the final g.
var droppedG = []string{
	"nothin", "somethin", "anythin", "everythin", "nuthin", "mornin", "evenin",
	"comin", "becomin", "lovin", "rollin", "rockin", "talkin", "walkin", "havin", "goin", "doin",
	"leanin", "feelin", "lookin", "runnin", "gettin", "trippin", "workin", "flexin",
	"drinkin", "smokin", "bangin", "kickin", "breathin", "swervin", "singin", "dancin",
	"cryin", "tryin", "watchin", "listenin", "writin", "hittin", "sittin", "ridin",
	"drivin", "closin", "openin", "turnin", "burnin", "learnin", "earnin", "shinin",
	"movin", "provin", "shootin", "textin", "postin", "hatin", "winnin", "losin",
	"chillin", "fallin", "risin", "flyin", "playin", "makin", "takin", "thinkin",
	"sayin", "prayin", "waitin", "wishin", "killin", "livin", "dyin", "spinnin",
}

var droppedGRe = regexp.MustCompile(`(?i)\b(?:` + strings.Join(droppedG, "|") + `)\b`)

func isApostrophe(r rune) bool {
	return r == '\'' || r == '’'
}

// normalizeContractions rewrites informal spellings to their contracted
// forms, keeping the capitalization of the token it replaces.
func normalizeContractions(_ *run, text string) string {
	return eachLine(text, func(line string) string {
		line = gunnaRe.ReplaceAllStringFunc(line, func(m string) string { return matchCase(m, "gonna") })

		line = replaceMatches(gonRe, line, func(s string, m []int) string {
			if isApostrophe(nextRune(s, m[1])) {
				return s[m[0]:m[1]]
			}
			return s[m[0]:m[1]] + "'"
		})

		line = replaceMatches(cuzRe, line, func(s string, m []int) string {
			word := s[m[0]:m[1]]
			if isWordRune(prevRune(s, m[0])) || isWordRune(nextRune(s, m[1])) {
				return word
			}
			return matchCase(strings.TrimLeft(word, "'"), "'cause")
		})

		line = replaceMatches(causeRe, line, func(s string, m []int) string {
			word := s[m[0]:m[1]]
			if isApostrophe(prevRune(s, m[0])) {
				return word
			}
			return matchCase(word, "'cause")
		})

		line = replaceMatches(tillRe, line, func(s string, m []int) string {
			word := s[m[0]:m[1]]
			if isApostrophe(prevRune(s, m[0])) || isWordRune(nextRune(s, m[1])) {
				return word
			}
			return matchCase(strings.TrimRight(word, "'"), "'til")
		})

		line = immaRe.ReplaceAllStringFunc(line, func(m string) string {
			if isAllCaps(m) && countLetters(m) > 1 {
				return "I'MA"
			}
			return "I'ma"
		})

		line = replaceMatches(imRe, line, func(s string, m []int) string {
			if isApostrophe(prevRune(s, m[0])) {
				return s[m[0]:m[1]]
			}
			if isAllCaps(s[m[0]:m[1]]) {
				return "I'M"
			}
			return "I'm"
		})

		line = negationRe.ReplaceAllStringFunc(line, func(m string) string {
			return matchCase(m, negations[strings.ToLower(m)])
		})

		line = woahRe.ReplaceAllStringFunc(line, func(m string) string { return matchCase(m, "whoa") })

		line = replaceMatches(emTrailRe, line, func(s string, m []int) string {
			word := s[m[0]:m[1]]
			if isApostrophe(prevRune(s, m[0])) || isWordRune(nextRune(s, m[1])) {
				return word
			}
			return matchCase(word[:2], "'em")
		})

		return godDamnRe.ReplaceAllStringFunc(line, func(m string) string {
			return matchCase(m, "goddamn")
		})
	})
}

// appendDroppedG adds the apostrophe to listed g-dropping gerunds.
func appendDroppedG(_ *run, text string) string {
	return replaceMatches(droppedGRe, text, func(s string, m []int) string {
		word := s[m[0]:m[1]]
		if isApostrophe(nextRune(s, m[1])) {
			return word
		}
		return word + "'"
	})
}

// collapseNaRuns rewrites four or more "na" in a row as "na-na-na-na" and
// lists any extras after commas.
func collapseNaRuns(_ *run, text string) string {
	return eachLine(text, func(line string) string {
		return naRunRe.ReplaceAllStringFunc(line, func(seq string) string {
			count := len(naWordRe.FindAllString(seq, -1))
			suffix := seq[len(strings.TrimRight(seq, " \t")):]
			out := "na-na-na-na"
			if count > 4 {
				out += strings.Repeat(", na", count-4)
			}
			if isAllCaps(seq) {
				out = strings.ToUpper(out)
			}
			return out + suffix
		})
	})
}
