package formatter

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	maxLineLength = 70
	maxStanzaSize = 10
)

var (
	metricTagRe    = regexp.MustCompile(`(?i)^#(?:INTRO|VERSE|PRE-CHORUS|CHORUS|BRIDGE|HOOK|OUTRO|INSTRUMENTAL)\b`)
	clockTimeRe    = regexp.MustCompile(`\b\d{1,2}:\d{2}\b`)
	meridiemNearRe = regexp.MustCompile(`(?i)\b[ap]\.?m\.?`)
	oclockNearRe   = regexp.MustCompile(`(?i)\bo'?clock\b`)
	fullDateRe     = regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`)
	yearRe         = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
)

// Stanza is a run of lyric lines longer than the house limit.
type Stanza struct {
	// Line is the 0-based index of the line that ends the stanza.
	Line int `json:"line"`
	Size int `json:"size"`
}

// NumeralIssue is a 0-10 digit left outside a time, o'clock or date context.
type NumeralIssue struct {
	Line   int    `json:"line"`
	Col    int    `json:"col"`
	Value  string `json:"value"`
	Sample string `json:"sample"`
}

// Metrics are the checks shown after formatting.
type Metrics struct {
	Over70        int            `json:"over70"`
	LongStanzas   []Stanza       `json:"long_stanzas"`
	NumeralIssues []NumeralIssue `json:"numeral_issues"`
}

func (m Metrics) String() string {
	return fmt.Sprintf("L70:%d  V10:%d  #nums:%d", m.Over70, len(m.LongStanzas), len(m.NumeralIssues))
}

// Clean reports whether no check fired.
func (m Metrics) Clean() bool {
	return m.Over70 == 0 && len(m.LongStanzas) == 0 && len(m.NumeralIssues) == 0
}

// maxReportedIssues caps the numeral lines of a report.
const maxReportedIssues = 10

// Report lists the findings one per line. It is empty when m is clean.
func (m Metrics) Report() string {
	var parts []string
	if m.Over70 > 0 {
		parts = append(parts, fmt.Sprintf("%d line(s) longer than %d characters", m.Over70, maxLineLength))
	}
	if len(m.LongStanzas) > 0 {
		lines := []string{"long stanzas:"}
		for _, s := range m.LongStanzas {
			lines = append(lines, fmt.Sprintf("- line %d: %d lines", s.Line, s.Size))
		}
		parts = append(parts, strings.Join(lines, "\n"))
	}
	if len(m.NumeralIssues) > 0 {
		lines := []string{"numbers to spell out:"}
		for i, n := range m.NumeralIssues {
			if i == maxReportedIssues {
				lines = append(lines, fmt.Sprintf("...and %d more", len(m.NumeralIssues)-i))
				break
			}
			lines = append(lines, fmt.Sprintf("- line %d, col %d: %s (%s)", n.Line, n.Col, n.Value, n.Sample))
		}
		parts = append(parts, strings.Join(lines, "\n"))
	}
	return strings.Join(parts, "\n\n")
}

// Check measures formatted lyrics: lines longer than 70 characters, stanzas
// of more than 10 lines and bare 0-10 numerals.
func Check(text string) Metrics {
	var m Metrics
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	stanza := 0
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		tag := metricTagRe.MatchString(trimmed)
		if !tag && utf8.RuneCountInString(line) > maxLineLength {
			m.Over70++
		}
		if !tag && trimmed != "" {
			stanza++
		} else {
			if stanza > maxStanzaSize {
				m.LongStanzas = append(m.LongStanzas, Stanza{Line: i, Size: stanza})
			}
			stanza = 0
		}

		for _, loc := range smallNumeralRe.FindAllStringIndex(line, -1) {
			if numeralInContext(line, loc[0], loc[1]) {
				continue
			}
			m.NumeralIssues = append(m.NumeralIssues, NumeralIssue{
				Line:   i + 1,
				Col:    utf8.RuneCountInString(line[:loc[0]]) + 1,
				Value:  line[loc[0]:loc[1]],
				Sample: trimmed,
			})
		}
	}
	if stanza > maxStanzaSize {
		m.LongStanzas = append(m.LongStanzas, Stanza{Line: len(lines), Size: stanza})
	}
	return m
}

func numeralInContext(line string, start, end int) bool {
	near := func(lo, hi int) string {
		return line[max(0, lo):min(len(line), hi)]
	}
	switch {
	case clockTimeRe.MatchString(line),
		meridiemNearRe.MatchString(near(end, end+6)),
		meridiemNearRe.MatchString(near(start-6, end)),
		oclockNearRe.MatchString(near(end, end+10)),
		fullDateRe.MatchString(line),
		yearRe.MatchString(line),
		strings.ContainsAny(near(start-6, end+6), "/-"):
		return true
	}
	return false
}
