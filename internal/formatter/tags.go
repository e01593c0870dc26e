package formatter

import (
	"regexp"
	"strings"
)

const (
	TagIntro        = "#INTRO"
	TagVerse        = "#VERSE"
	TagPreChorus    = "#PRE-CHORUS"
	TagChorus       = "#CHORUS"
	TagBridge       = "#BRIDGE"
	TagHook         = "#HOOK"
	TagOutro        = "#OUTRO"
	TagInstrumental = "#INSTRUMENTAL"
)

// tagRule maps a lowercased label prefix to a canonical tag.
type tagRule struct {
	prefix *regexp.Regexp
	tag    string
}

func rule(pattern, tag string) tagRule {
	return tagRule{prefix: regexp.MustCompile(`^(?:` + pattern + `)`), tag: tag}
}

// Order matters: pre-chorus before chorus.
var englishTagRules = []tagRule{
	rule(`intro`, TagIntro),
	rule(`verse`, TagVerse),
	rule(`pre[- ]?chorus`, TagPreChorus),
	rule(`chorus`, TagChorus),
	rule(`bridge`, TagBridge),
	rule(`hook|refrain|post[- ]?chorus|drop|break|interlude|ad[- ]?libs?|spoken`, TagHook),
	rule(`outro`, TagOutro),
	rule(`instrumental(?:\s+(?:break|bridge|outro|interlude|solo))?`, TagInstrumental),
}

// Bare lines are riskier than brackets, so fewer words qualify.
var englishBareRules = []tagRule{
	rule(`intro`, TagIntro),
	rule(`verse`, TagVerse),
	rule(`pre[- ]?chorus`, TagPreChorus),
	rule(`chorus`, TagChorus),
	rule(`post[- ]?chorus|hook|ad[- ]?libs?|spoken`, TagHook),
	rule(`bridge`, TagBridge),
	rule(`outro`, TagOutro),
}

var (
	bracketLabelRe  = regexp.MustCompile(`\[([^\]\n]*)\]`)
	bareLabelTailRe = regexp.MustCompile(`[\s\d]*:?\s*$`)
	tagLineRe       = regexp.MustCompile(`^#\p{Lu}[\p{Lu}\p{M}'&.-]*$`)
	tagNumberRe     = regexp.MustCompile(`^(#\p{Lu}[\p{Lu}\p{M}'&.-]*)[\s\d]*:?\s*$`)
	fallbackDropRe  = regexp.MustCompile(`[\d:]+`)
	fallbackSpaceRe = regexp.MustCompile(`\s+`)
	instrumentalRe  = regexp.MustCompile(`(?i)^instrumental(?:\s+(?:break|bridge|outro|interlude|solo))?$`)
	labelTrimRe     = regexp.MustCompile(`^[\[(]+|[\])]+$`)
	labelDashRe     = regexp.MustCompile(`^[-:]+\s*|\s*[-:]+$|[.,!?;:]+$`)
	bareInterjectRe = regexp.MustCompile(`(?i)^(?:(?:oh+|uh+)[\s,.!?'-]*)+$`)
)

func tagRulesFor(lang Lang) []tagRule {
	return withLocale(lang, englishTagRules)
}

func bareRulesFor(lang Lang) []tagRule {
	return withLocale(lang, englishBareRules)
}

// withLocale puts the language's own vocabulary ahead of the English one.
func withLocale(lang Lang, english []tagRule) []tagRule {
	if lang == LangEN {
		return english
	}
	rules := make([]tagRule, 0, len(localeTagRules[lang])+len(english))
	rules = append(rules, localeTagRules[lang]...)
	return append(rules, english...)
}

// classifyLabel maps a section label to its canonical tag or "".
func classifyLabel(label string, lang Lang) string {
	t := strings.ToLower(strings.TrimSpace(label))
	for _, rl := range tagRulesFor(lang) {
		if rl.prefix.MatchString(t) {
			return rl.tag
		}
	}
	return ""
}

// fallbackTag turns an unknown bracketed label into an uppercase literal tag.
func fallbackTag(label string) string {
	lit := strings.ToUpper(label)
	lit = fallbackDropRe.ReplaceAllString(lit, "")
	lit = fallbackSpaceRe.ReplaceAllString(strings.TrimSpace(lit), "-")
	lit = strings.Trim(lit, "-")
	if lit == "" {
		return ""
	}
	return "#" + lit
}

func isTagLine(line string) bool {
	return tagLineRe.MatchString(strings.TrimSpace(line))
}

func isInstrumentalLabel(line string, lang Lang) bool {
	s := strings.TrimSpace(labelTrimRe.ReplaceAllString(strings.TrimSpace(line), ""))
	s = strings.TrimSpace(labelDashRe.ReplaceAllString(s, ""))
	if s == "" {
		return false
	}
	if instrumentalRe.MatchString(s) {
		return true
	}
	for _, rl := range localeTagRules[lang] {
		if rl.tag == TagInstrumental && rl.prefix.MatchString(strings.ToLower(s)) {
			return true
		}
	}
	return false
}

// bareLabel reports the tag for a line that consists only of a section word,
// optionally numbered or followed by a colon.
func bareLabel(line string, lang Lang) string {
	t := strings.ToLower(strings.TrimSpace(line))
	t = strings.TrimSpace(bareLabelTailRe.ReplaceAllString(t, ""))
	if t == "" {
		return ""
	}
	for _, rl := range bareRulesFor(lang) {
		loc := rl.prefix.FindStringIndex(t)
		if loc != nil && loc[1] == len(t) {
			return rl.tag
		}
	}
	return ""
}

func normalizeTags(r *run, text string) string {
	lang := r.opts.Lang
	text = replaceMatches(bracketLabelRe, text, func(s string, m []int) string {
		label := group(s, m, 1)
		if tag := classifyLabel(label, lang); tag != "" {
			return tag
		}
		return fallbackTag(label)
	})

	return eachLine(text, func(line string) string {
		if tag := bareLabel(line, lang); tag != "" {
			return tag
		}
		if m := tagNumberRe.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			return m[1]
		}
		return line
	})
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// normalizeInstrumentals turns instrumental labels into #INSTRUMENTAL, drops
// them at the edges of the song, merges repeats and attaches each one to the
// stanza above it with a single blank line after.
func normalizeInstrumentals(r *run, text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if isBlank(line) || strings.TrimSpace(line) == TagInstrumental {
			if !isBlank(line) {
				lines[i] = TagInstrumental
			}
			continue
		}
		if isInstrumentalLabel(line, r.opts.Lang) {
			lines[i] = TagInstrumental
		}
	}

	isInstr := func(line string) bool { return line == TagInstrumental }

	for {
		first := firstNonBlank(lines)
		if first < 0 || !isInstr(lines[first]) {
			break
		}
		lines = lines[first+1:]
	}
	for {
		last := lastNonBlank(lines)
		if last < 0 || !isInstr(lines[last]) {
			break
		}
		lines = lines[:last]
	}

	out := make([]string, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if !isInstr(line) {
			out = append(out, line)
			continue
		}
		for len(out) > 0 && isBlank(out[len(out)-1]) {
			out = out[:len(out)-1]
		}
		if len(out) > 0 && isInstr(out[len(out)-1]) {
			out = out[:len(out)-1]
		}
		out = append(out, TagInstrumental, "")
		for i+1 < len(lines) && isBlank(lines[i+1]) {
			i++
		}
	}
	return strings.Join(out, "\n")
}

func firstNonBlank(lines []string) int {
	for i, l := range lines {
		if !isBlank(l) {
			return i
		}
	}
	return -1
}

func lastNonBlank(lines []string) int {
	for i := len(lines) - 1; i >= 0; i-- {
		if !isBlank(lines[i]) {
			return i
		}
	}
	return -1
}

// dedupeTags collapses a tag repeated on consecutive non-blank lines.
func dedupeTags(_ *run, text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	prevTag := ""
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if isBlank(line) {
			out = append(out, line)
			continue
		}
		if isTagLine(trimmed) {
			if trimmed == prevTag {
				for len(out) > 0 && isBlank(out[len(out)-1]) {
					out = out[:len(out)-1]
				}
				continue
			}
			prevTag = trimmed
		} else {
			prevTag = ""
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// enforceTagSpacing leaves exactly one blank line before every structure tag
// other than #INSTRUMENTAL. A tag that follows a bare interjection line such
// as "Oh" or "uh" is pulled up against it.
func enforceTagSpacing(_ *run, text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines)+4)
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !isTagLine(trimmed) || trimmed == TagInstrumental {
			out = append(out, line)
			continue
		}
		for len(out) > 0 && isBlank(out[len(out)-1]) {
			out = out[:len(out)-1]
		}
		if len(out) > 0 && !bareInterjectRe.MatchString(strings.TrimSpace(out[len(out)-1])) {
			out = append(out, "")
		}
		out = append(out, trimmed)
	}
	return strings.Join(out, "\n")
}
