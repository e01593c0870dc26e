package formatter

import (
	"strings"

	"github.com/sukalov/lyricsfmt/internal/wordlist"
)

type Lang string

const (
	LangEN Lang = "EN"
	LangRU Lang = "RU"
	LangES Lang = "ES"
	LangPT Lang = "PT"
	LangFR Lang = "FR"
	LangIT Lang = "IT"
	LangEL Lang = "EL"
)

var Langs = []Lang{LangEN, LangRU, LangES, LangPT, LangFR, LangIT, LangEL}

// ParseLang accepts a language code in any case. Unknown codes report false.
func ParseLang(code string) (Lang, bool) {
	l := Lang(strings.ToUpper(strings.TrimSpace(code)))
	for _, known := range Langs {
		if l == known {
			return l, true
		}
	}
	return LangEN, false
}

// Options is the settings snapshot a single Format call works with.
type Options struct {
	Lang              Lang `json:"lang" yaml:"lang"`
	AggressiveNumbers bool `json:"aggressive_numbers" yaml:"aggressive_numbers"`
	AutoLowercase     bool `json:"auto_lowercase" yaml:"auto_lowercase"`
	FixBackingVocals  bool `json:"fix_backing_vocals" yaml:"fix_backing_vocals"`
	// ShowFloatingButton is only meaningful to editor hosts.
	ShowFloatingButton bool `json:"show_floating_button" yaml:"show_floating_button"`

	// Stoplist lists common words that are never promoted to proper nouns.
	// nil means the embedded default list.
	Stoplist wordlist.Set `json:"-" yaml:"-"`
}

func DefaultOptions() Options {
	return Options{
		Lang:               LangEN,
		AggressiveNumbers:  true,
		AutoLowercase:      false,
		FixBackingVocals:   true,
		ShowFloatingButton: true,
	}
}

func (o Options) english() bool {
	return o.Lang == LangEN
}

func (o Options) normalized() Options {
	o.Lang, _ = ParseLang(string(o.Lang))
	if o.Stoplist == nil {
		o.Stoplist = wordlist.Default()
	}
	return o
}
