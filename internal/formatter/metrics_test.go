package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	t.Run("long line", func(t *testing.T) {
		m := Check(strings.Repeat("a", 71) + "\n" + strings.Repeat("b", 70))
		assert.Equal(t, 1, m.Over70)
		assert.False(t, m.Clean())
	})

	t.Run("long line counted in runes", func(t *testing.T) {
		m := Check(strings.Repeat("я", 70))
		assert.Equal(t, 0, m.Over70)
	})

	t.Run("bare numeral", func(t *testing.T) {
		m := Check("I have 2 dogs")
		require.Len(t, m.NumeralIssues, 1)
		assert.Equal(t, NumeralIssue{Line: 1, Col: 8, Value: "2", Sample: "I have 2 dogs"}, m.NumeralIssues[0])
	})

	t.Run("numerals in context", func(t *testing.T) {
		for _, line := range []string{"At 5 o'clock", "Meet me at 7:30 p.m.", "Call at 5 p.m.", "Born 2/3/99", "Back in 2009 with 5 friends"} {
			assert.Empty(t, Check(line).NumeralIssues, line)
		}
	})

	t.Run("long stanza", func(t *testing.T) {
		lines := make([]string, 11)
		for i := range lines {
			lines[i] = "la"
		}
		m := Check(strings.Join(lines, "\n"))
		assert.Equal(t, []Stanza{{Line: 11, Size: 11}}, m.LongStanzas)
	})

	t.Run("tags split stanzas", func(t *testing.T) {
		lines := make([]string, 0, 13)
		for i := 0; i < 6; i++ {
			lines = append(lines, "la")
		}
		lines = append(lines, "#CHORUS")
		for i := 0; i < 6; i++ {
			lines = append(lines, "la")
		}
		assert.Empty(t, Check(strings.Join(lines, "\n")).LongStanzas)
	})

	t.Run("clean", func(t *testing.T) {
		m := Check("#VERSE\nHello there")
		assert.True(t, m.Clean())
		assert.Equal(t, "L70:0  V10:0  #nums:0", m.String())
	})
}

func TestMetricsReport(t *testing.T) {
	assert.Equal(t, "", Check("All good").Report())

	m := Check("I have 2 dogs\n" + strings.Repeat("la ", 30))
	want := "1 line(s) longer than 70 characters\n\n" +
		"numbers to spell out:\n- line 1, col 8: 2 (I have 2 dogs)"
	assert.Equal(t, want, m.Report())
}
