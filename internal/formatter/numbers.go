package formatter

import (
	"regexp"
	"strconv"
	"strings"
)

var numWords0to10 = []string{"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine", "ten"}

var teens = map[string]int{
	"eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14, "fifteen": 15,
	"sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19,
}

var tens = map[string]int{
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
	"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
}

var ones = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9,
}

// clockWords covers the hours a 12-hour clock can show.
var clockWords = []string{"", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine", "ten", "eleven", "twelve"}

var hourWords = map[string]int{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6,
	"seven": 7, "eight": 8, "nine": 9, "ten": 10, "eleven": 11, "twelve": 12,
}

const onesAlt = `one|two|three|four|five|six|seven|eight|nine`

var (
	smallNumeralRe  = regexp.MustCompile(`\b(10|[0-9])\b`)
	digitGroupRe    = regexp.MustCompile(`\b\d+\b`)
	numeralLineRe   = regexp.MustCompile(`(?i)\b(?:19|20)\d{2}\b|'\d0s|\d{1,2}:\d{2}\s*(?:a\.m\.|p\.m\.)`)
	countSequenceRe = regexp.MustCompile(`^\s*(?:\d{1,2}[,\s]+)+\d{1,2}\s*$`)
	wordStartRe     = regexp.MustCompile(`(^|\s)([a-z])`)
	commaSpacingRe  = regexp.MustCompile(`\s*,\s*`)
	spacesRe        = regexp.MustCompile(`\s+`)

	timeAfterRe   = regexp.MustCompile(`(?i)^\s*(?::\s*\d{2}|[ap]\.m|(?:am|pm)\b)`)
	dateRe        = regexp.MustCompile(`\d{1,2}[/-]\d{1,2}(?:[/-]\d{2,4})?|\b(?:19|20)\d{2}\b`)
	decadeAfterRe = regexp.MustCompile(`^'s\b`)
	oclockAfterRe = regexp.MustCompile(`(?i)^\s*(?:o\s+clock|oclock|o'clock)\b`)

	teensRe = regexp.MustCompile(`(?i)\b(eleven|twelve|thirteen|fourteen|fifteen|sixteen|seventeen|eighteen|nineteen)\b`)
	tensRe  = regexp.MustCompile(`(?i)\b(twenty|thirty|forty|fifty|sixty|seventy|eighty|ninety)(?:[- \t]+(` + onesAlt + `)|(` + onesAlt + `))?\b`)

	oclockRe = regexp.MustCompile(`(?i)\b(?:(\d{1,2})|(one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve))[ \t]*(o'?[ \t]*clock)\b`)

	meridiem       = `((?:a|p)[ \t]*\.?[ \t]*m\.?)`
	digitTimeRe    = regexp.MustCompile(`(?i)\b(\d{1,2})(?:[ \t]*[:.][ \t]*(\d{1,2}))?[ \t]*` + meridiem)
	wordTimeRe     = regexp.MustCompile(`(?i)\b(zero|one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve)\b[ \t]*` + meridiem)
	meridiemLetter = regexp.MustCompile(`(?i)[ap]`)
)

func isTimeContext(line string, end int) bool {
	return timeAfterRe.MatchString(line[end:])
}

func isDateContext(line string, start, end int) bool {
	lo, hi := max(0, start-6), min(len(line), end+6)
	return dateRe.MatchString(line[lo:hi])
}

func isDecade(line string, end int) bool {
	return decadeAfterRe.MatchString(line[end:])
}

func isOClockFollowing(line string, end int) bool {
	return oclockAfterRe.MatchString(line[end:])
}

// isMeasured reports digits that belong to a decimal, an amount or a
// percentage, which stay numeric.
func isMeasured(line string, start, end int) bool {
	prev, next := prevRune(line, start), nextRune(line, end)
	switch prev {
	case '$', '£', '€', '#', '%':
		return true
	case '.', ',':
		if isDigit(prevRune(line, start-1)) {
			return true
		}
	}
	switch next {
	case '%':
		return true
	case '.', ',':
		if isDigit(nextRune(line, end+1)) {
			return true
		}
	}
	return false
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// isCountingSequence matches count-offs such as "1 2 3 4" or "1,2,3,4".
func isCountingSequence(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !countSequenceRe.MatchString(trimmed) {
		return false
	}
	for _, d := range digitGroupRe.FindAllString(trimmed, -1) {
		if n, _ := strconv.Atoi(d); n > 10 {
			return false
		}
	}
	return true
}

func spellOutCountSequence(line string) string {
	line = smallNumeralRe.ReplaceAllStringFunc(line, func(d string) string {
		n, _ := strconv.Atoi(d)
		return numWords0to10[n]
	})
	line = wordStartRe.ReplaceAllStringFunc(line, strings.ToUpper)
	line = commaSpacingRe.ReplaceAllString(line, ", ")
	return strings.TrimSpace(spacesRe.ReplaceAllString(line, " "))
}

func numeralsToWords(line string) string {
	return replaceMatches(smallNumeralRe, line, func(s string, m []int) string {
		start, end := m[0], m[1]
		if isTimeContext(s, end) || isDateContext(s, start, end) || isDecade(s, end) || isMeasured(s, start, end) {
			return s[start:end]
		}
		n, _ := strconv.Atoi(s[start:end])
		return numWords0to10[n]
	})
}

func wordsToNumerals(line string) string {
	line = replaceMatches(teensRe, line, func(s string, m []int) string {
		if isOClockFollowing(s, m[1]) {
			return s[m[0]:m[1]]
		}
		return strconv.Itoa(teens[strings.ToLower(group(s, m, 1))])
	})
	return replaceMatches(tensRe, line, func(s string, m []int) string {
		if isOClockFollowing(s, m[1]) {
			return s[m[0]:m[1]]
		}
		n := tens[strings.ToLower(group(s, m, 1))]
		unit := group(s, m, 2)
		if unit == "" {
			unit = group(s, m, 3)
		}
		n += ones[strings.ToLower(unit)]
		return strconv.Itoa(n)
	})
}

// applyNumberRules decides per line between spelling small numerals out and
// turning number words into digits. Lines dense with numbers, years, decades
// or clock times keep their digits in aggressive mode.
func applyNumberRules(r *run, text string) string {
	aggressive := r.opts.AggressiveNumbers
	return eachLine(text, func(line string) string {
		if isTagLine(line) {
			return line
		}
		if isCountingSequence(line) {
			return spellOutCountSequence(line)
		}
		useNumerals := len(digitGroupRe.FindAllString(line, -1)) >= 3 || numeralLineRe.MatchString(line)
		if useNumerals && aggressive {
			return line
		}
		line = numeralsToWords(line)
		if aggressive {
			line = wordsToNumerals(line)
		}
		return line
	})
}

// normalizeOClock writes hours before "o'clock" as words.
func normalizeOClock(_ *run, text string) string {
	return replaceMatches(oclockRe, text, func(s string, m []int) string {
		whole := s[m[0]:m[1]]
		var word string
		if digits := group(s, m, 1); digits != "" {
			n, _ := strconv.Atoi(digits)
			if n < 1 || n > 12 {
				return whole
			}
			word = clockWords[n]
		} else {
			raw := group(s, m, 2)
			word = strings.ToLower(raw)
			if isAllCaps(raw) {
				word = strings.ToUpper(word)
			}
		}
		if isAllCaps(group(s, m, 3)) {
			return strings.ToUpper(word) + " O'CLOCK"
		}
		return word + " o'clock"
	})
}

func canonicalMeridiem(token string) string {
	if strings.EqualFold(meridiemLetter.FindString(token), "p") {
		return "p.m."
	}
	return "a.m."
}

// normalizeMeridiem rewrites "7pm", "7:30 P.M" or "seven am" as "7 p.m.",
// "7:30 p.m." and "7 a.m.". Hours past 12 are left alone.
func normalizeMeridiem(_ *run, text string) string {
	text = replaceMatches(digitTimeRe, text, func(s string, m []int) string {
		whole := s[m[0]:m[1]]
		if isWordRune(nextRune(s, m[1])) {
			return whole
		}
		hour, err := strconv.Atoi(group(s, m, 1))
		if err != nil || hour > 12 {
			return whole
		}
		mer := canonicalMeridiem(group(s, m, 3))
		if minute := group(s, m, 2); minute != "" {
			if len(minute) == 1 {
				minute = "0" + minute
			}
			return strconv.Itoa(hour) + ":" + minute + " " + mer
		}
		return strconv.Itoa(hour) + " " + mer
	})

	return replaceMatches(wordTimeRe, text, func(s string, m []int) string {
		if isWordRune(nextRune(s, m[1])) {
			return s[m[0]:m[1]]
		}
		hour := hourWords[strings.ToLower(group(s, m, 1))]
		return strconv.Itoa(hour) + " " + canonicalMeridiem(group(s, m, 2))
	})
}
