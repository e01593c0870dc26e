// Package formatter rewrites raw lyric transcriptions into the house style:
// structure tags, punctuation, contractions, numbers, interjection commas,
// backing-vocal casing and proper nouns.
//
// Format runs an ordered list of named stages over the text. Each stage is a
// plain string rewrite, so the order of the list is part of the behavior.
package formatter

import (
	"strings"
)

// run is the state of one Format call.
type run struct {
	opts      Options
	sentinels *sentinels
	lexicon   *lexicon
}

func newRun(opts Options) *run {
	opts = opts.normalized()
	return &run{
		opts:      opts,
		sentinels: &sentinels{},
		lexicon:   newLexicon(opts.Stoplist),
	}
}

// Stage is one named rewrite of the pipeline.
type Stage struct {
	Name string
	// EnglishOnly stages are skipped for every other language.
	EnglishOnly bool
	apply       func(r *run, text string) string
}

// Apply runs the stage alone on text. Stages that depend on earlier ones,
// such as "restore" after "protect", only see what text already contains.
func (s Stage) Apply(text string, opts Options) string {
	return s.apply(newRun(opts), text)
}

var stages = []Stage{
	{Name: "protect", apply: protectSpans},
	{Name: "normalize", apply: normalizeText},
	{Name: "tags", apply: normalizeTags},
	{Name: "dedupe-tags", apply: dedupeTags},
	{Name: "line-end-punctuation", apply: stripLineEndPunctuation},
	{Name: "instrumentals", apply: normalizeInstrumentals},
	{Name: "proper-noun-scan", apply: scanProperNouns},
	{Name: "contractions", EnglishOnly: true, apply: normalizeContractions},
	{Name: "dropped-g", EnglishOnly: true, apply: appendDroppedG},
	{Name: "meridiem", EnglishOnly: true, apply: normalizeMeridiem},
	{Name: "em", EnglishOnly: true, apply: normalizeEm},
	{Name: "elongations", EnglishOnly: true, apply: collapseElongations},
	{Name: "interjections", EnglishOnly: true, apply: insertInterjectionCommas},
	{Name: "oclock", EnglishOnly: true, apply: normalizeOClock},
	{Name: "numbers", EnglishOnly: true, apply: applyNumberRules},
	{Name: "no-commas", EnglishOnly: true, apply: applyNoCommas},
	{Name: "na-runs", EnglishOnly: true, apply: collapseNaRuns},
	{Name: "space-before-punctuation", apply: removeSpaceBeforePunct},
	{Name: "standalone-i", EnglishOnly: true, apply: capitalizeStandaloneI},
	{Name: "line-start-contractions", EnglishOnly: true, apply: capitalizeLineStartContractions},
	{Name: "backing-vocals", apply: fixBackingVocals},
	{Name: "proper-nouns", apply: applyProperNouns},
	{Name: "capitalize-lines", apply: capitalizeLines},
	{Name: "sentence-enders", apply: capitalizeAfterSentenceEnders},
	{Name: "after-paren", apply: lowercaseAfterParen},
	{Name: "comma-relocation", apply: relocateCommas},
	{Name: "sanitize", apply: sanitize},
	{Name: "tag-spacing", apply: enforceTagSpacing},
	{Name: "auto-lowercase", apply: autoLowercase},
	{Name: "restore", apply: restoreSpans},
}

// Stages returns the pipeline in execution order.
func Stages() []Stage {
	out := make([]Stage, len(stages))
	copy(out, stages)
	return out
}

// Format rewrites text with opts. It accepts any input and never fails;
// blank input gives "".
func Format(text string, opts Options) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	r := newRun(opts)
	for _, st := range stages {
		if st.EnglishOnly && !r.opts.english() {
			continue
		}
		text = st.apply(r, text)
	}
	return strings.TrimSpace(text)
}
