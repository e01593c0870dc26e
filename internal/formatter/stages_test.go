package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stageCase struct {
	in   string
	want string
}

func runStage(t *testing.T, fn func(*run, string) string, cases []stageCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, fn(newRun(DefaultOptions()), tc.in))
		})
	}
}

func TestNormalizeText(t *testing.T) {
	runStage(t, normalizeText, []stageCase{
		{"Hello world…  ok!!", "Hello world... ok!"},
		{"Love 😍 you", "Love you"},
		{"hеllo", "hello"},
		{"why??", "why?"},
	})

	t.Run("homoglyphs kept outside english", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Lang = LangRU
		assert.Equal(t, "hеllo", normalizeText(newRun(opts), "hеllo"))
	})
}

func TestStripLineEndPunctuation(t *testing.T) {
	got := stripLineEndPunctuation(nil, "Hello, world.\nWhat?\n#VERSE")
	assert.Equal(t, "Hello, world\nWhat?\n#VERSE", got)
}

func TestNormalizeTags(t *testing.T) {
	runStage(t, normalizeTags, []stageCase{
		{"[Pre-Chorus 2]", "#PRE-CHORUS"},
		{"[Post-Chorus]", "#HOOK"},
		{"#VERSE 2", "#VERSE"},
		{"Verse 2:", "#VERSE"},
		{"Chorus", "#CHORUS"},
		{"Verse of my life", "Verse of my life"},
	})

	assert.Equal(t, "#GUITAR-SOLO", fallbackTag("Guitar Solo 2"))
	assert.Equal(t, "", fallbackTag("2:"))
}

func TestDedupeTags(t *testing.T) {
	assert.Equal(t, "#CHORUS\nLa", dedupeTags(nil, "#CHORUS\n#CHORUS\nLa"))
	assert.Equal(t, "#CHORUS\nLa\n#CHORUS", dedupeTags(nil, "#CHORUS\nLa\n#CHORUS"))
}

func TestNormalizeContractions(t *testing.T) {
	runStage(t, normalizeContractions, []stageCase{
		{"gunna", "gonna"},
		{"Gunna", "Gonna"},
		{"ima go", "I'ma go"},
		{"dont", "don't"},
		{"woah", "whoa"},
	})
}

func TestAppendDroppedG(t *testing.T) {
	runStage(t, appendDroppedG, []stageCase{
		{"nothin but", "nothin' but"},
		{"nothin' but", "nothin' but"},
	})
}

func TestCollapseNaRuns(t *testing.T) {
	assert.Equal(t, "na-na-na-na, na", collapseNaRuns(nil, "na na na na na"))
	assert.Equal(t, "na na", collapseNaRuns(nil, "na na"))
}

func TestNormalizeMeridiem(t *testing.T) {
	runStage(t, normalizeMeridiem, []stageCase{
		{"at 7pm", "at 7 p.m."},
		{"seven am", "7 a.m."},
		{"7 amazing", "7 amazing"},
	})
}

func TestNormalizeOClock(t *testing.T) {
	runStage(t, normalizeOClock, []stageCase{
		{"5 OCLOCK", "FIVE O'CLOCK"},
		{"at 3 o clock", "at three o'clock"},
	})
}

func TestNormalizeEm(t *testing.T) {
	assert.Equal(t, "let 'em go", normalizeEm(nil, "let em go"))
	assert.Equal(t, "Lov-\nem", normalizeEm(nil, "Lov-\nem"))
}

func TestInsertInterjectionCommas(t *testing.T) {
	runStage(t, insertInterjectionCommas, []stageCase{
		{"oh I see", "oh, I see"},
		{"oh!", "oh!"},
		{"doing well today", "doing well today"},
		{"oh well I tried", "oh, well, I tried"},
	})
}

func TestCollapseElongations(t *testing.T) {
	assert.Equal(t, "oh yeah", collapseElongations(nil, "ohhh yeahhh"))
}

func TestApplyNoCommas(t *testing.T) {
	runStage(t, applyNoCommas, []stageCase{
		{"Oh no I can't", "Oh, no, I can't"},
		{"I said no more", "I said no more"},
		{"no no no", "no, no, no"},
		{"There's no way", "There's no way"},
		{"No I won't", "No, I won't"},
	})
}

func TestApplyNumberRules(t *testing.T) {
	runStage(t, applyNumberRules, []stageCase{
		{"1 2 3 4", "one two three four"},
		{"I got 2 cars", "I got two cars"},
		{"Twenty one reasons", "21 reasons"},
		{"1 and 2 and 3 go", "1 and 2 and 3 go"},
	})

	t.Run("dense lines spelled out when not aggressive", func(t *testing.T) {
		opts := DefaultOptions()
		opts.AggressiveNumbers = false
		r := newRun(opts)
		assert.Equal(t, "one and two and three go", applyNumberRules(r, "1 and 2 and 3 go"))
		assert.Equal(t, "twenty one reasons", applyNumberRules(r, "twenty one reasons"))
	})
}

func TestNumeralsToWords(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"at 3:15 we go", "at 3:15 we go"},
		{"at 3 pm", "at 3 pm"},
		{"on 12/5 we met", "on 12/5 we met"},
		{"all the 9's", "all the 9's"},
		{"3.5 miles", "3.5 miles"},
		{"a $5 bill", "a $5 bill"},
		{"100% and 5%", "100% and 5%"},
		{"I got 2 cars", "I got two cars"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, numeralsToWords(tt.in), tt.in)
	}
}

func TestFixBackingVocals(t *testing.T) {
	runStage(t, fixBackingVocals, []stageCase{
		{"Go (Hey Now) yeah", "Go (hey now) yeah"},
		{"Go(I know) yeah", "Go (I know) yeah"},
		{"Go (Paris) yeah", "Go (Paris) yeah"},
	})
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Hello\n(Yeah)\n\"Quote", capitalizeLines(nil, "hello\n(yeah)\n\"quote"))
	assert.Equal(t, "what? No way! (Yes)", capitalizeAfterSentenceEnders(nil, "what? no way! (yes)"))

	r := newRun(DefaultOptions())
	assert.Equal(t, "(oh) baby", lowercaseAfterParen(r, "(oh) Baby"))
	assert.Equal(t, "(oh) I know", lowercaseAfterParen(r, "(oh) I know"))
	assert.Equal(t, "(oh) Paris", lowercaseAfterParen(r, "(oh) Paris"))
}

func TestRelocateCommas(t *testing.T) {
	runStage(t, relocateCommas, []stageCase{
		{"Go, (go) now", "Go (go), now"},
		{"Go, (go)", "Go (go)"},
		{"Go, (go), now", "Go (go), now"},
		{"Go, (go) (go) now", "Go (go) (go), now"},
		{"Go, (go)(go)", "Go (go)(go)"},
	})
}

func TestSanitize(t *testing.T) {
	runStage(t, sanitize, []stageCase{
		{"Hey,you", "Hey, you"},
		{"Wait ,what", "Wait, what"},
		{"1,000 dollars", "1,000 dollars"},
		{`He said "go"now`, `He said "go" now`},
		{"(hey,)", "(hey)"},
		{"word,,", "word"},
		{"Stop!! now", "Stop! now"},
		{"Why ? ? why", "Why? why"},
		{"Wait . .", "Wait"},
		{"Meet me at 7 p.m.", "Meet me at 7 p.m."},
		{"#VERSE", "#VERSE"},
	})
}

func TestSentinels(t *testing.T) {
	r := newRun(DefaultOptions())
	in := "Line\n(Whole, LINE)\nLov-\nem"
	protected := protectSpans(r, in)
	require.True(t, hasSentinel(protected))
	assert.NotContains(t, protected, "(Whole, LINE)")
	assert.Equal(t, in, restoreSpans(r, protected))

	t.Run("instrumental labels stay visible", func(t *testing.T) {
		r := newRun(DefaultOptions())
		assert.Equal(t, "(Instrumental)", protectSpans(r, "(Instrumental)"))
	})
}

func TestLexicon(t *testing.T) {
	l := newLexicon(nil)
	assert.Equal(t, "I love New York", l.apply("I love new york"))
	assert.True(t, l.isProperNoun("monday"))
	assert.False(t, l.isProperNoun("baby"))

	var none *lexicon
	assert.False(t, none.isProperNoun("Paris"))
	assert.Equal(t, "paris", none.apply("paris"))
}
