package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sukalov/lyricsfmt/internal/formatter"
)

var altM = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'m'}, Alt: true}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(model)
	require.True(t, ok)
	return out, cmd
}

func TestFormatInPlace(t *testing.T) {
	m := newModel(Config{Text: "[Verse 1]\nim gonna cuz i cant", Version: "1.2"})

	m, cmd := update(t, m, altM)
	assert.Nil(t, cmd)
	assert.Equal(t, "#VERSE\nI'm gonna 'cause I can't", m.textarea.Value())
	assert.Equal(t, "Formatted ✓ (v1.2)  L70:0  V10:0  #nums:0", m.status)
	assert.Equal(t, statusOK, m.kind)
}

func TestFormatUsesOptions(t *testing.T) {
	opts := formatter.DefaultOptions()
	opts.Lang = formatter.LangRU
	m := newModel(Config{
		Text:    "[Припев]\nя люблю тебя",
		Options: func() formatter.Options { return opts },
	})

	m, _ = update(t, m, altM)
	assert.Equal(t, "#CHORUS\nЯ люблю тебя", m.textarea.Value())
}

func TestFormatWarnsOnIssues(t *testing.T) {
	m := newModel(Config{Text: strings.Repeat("la ", 30)})
	m, _ = update(t, m, altM)
	assert.Equal(t, statusWarn, m.kind)
	assert.Contains(t, m.status, "L70:1")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlK})
	assert.True(t, m.showReport)
	assert.Contains(t, m.View(), "longer than 70 characters")
}

func TestSave(t *testing.T) {
	var savedPath, savedText string
	m := newModel(Config{
		Path: "song.txt",
		Text: "3 little birds",
		Save: func(path, text string) error {
			savedPath, savedText = path, text
			return nil
		},
	})
	m, _ = update(t, m, altM)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	assert.Equal(t, "song.txt", savedPath)
	assert.Equal(t, "Three little birds", savedText)
	assert.Equal(t, "saved song.txt", m.status)
}

func TestSaveErrors(t *testing.T) {
	m := newModel(Config{Text: "hello"})
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Nil(t, cmd)
	assert.Equal(t, "no file to save to", m.status)
	assert.Equal(t, statusErr, m.kind)

	m = newModel(Config{
		Path: "song.txt",
		Save: func(string, string) error { return errors.New("disk full") },
	})
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m, _ = update(t, m, cmd())
	assert.Equal(t, "save failed: disk full", m.status)
}

func TestQuit(t *testing.T) {
	for _, key := range []tea.KeyMsg{{Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		_, cmd := update(t, newModel(Config{}), key)
		require.NotNil(t, cmd)
		assert.Equal(t, tea.QuitMsg{}, cmd())
	}
}

func TestTypingReachesEditor(t *testing.T) {
	m := newModel(Config{})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("hey")})
	assert.Equal(t, "hey", m.textarea.Value())
}

func TestResize(t *testing.T) {
	m := newModel(Config{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	assert.Equal(t, 38, m.textarea.Height())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlK})
	assert.Equal(t, 29, m.textarea.Height())
}
