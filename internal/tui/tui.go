// Package tui is a terminal editor that formats lyrics in place.
package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sukalov/lyricsfmt/internal/formatter"
)

type Config struct {
	// Path is where Ctrl+S writes. Empty disables saving.
	Path    string
	Text    string
	Version string
	// Options returns the settings snapshot for one format.
	Options func() formatter.Options
	Save    func(path, text string) error
}

var (
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	hintStyle   = lipgloss.NewStyle().Faint(true)
	reportStyle = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderTop(true)
)

const hint = "alt+m format · ctrl+k report · ctrl+s save · esc quit"

type statusKind int

const (
	statusNone statusKind = iota
	statusOK
	statusWarn
	statusErr
)

type model struct {
	config     Config
	textarea   textarea.Model
	report     viewport.Model
	showReport bool
	metrics    formatter.Metrics
	status     string
	kind       statusKind
	width      int
	height     int
}

type savedMsg struct {
	path string
	err  error
}

func Run(cfg Config) error {
	p := tea.NewProgram(newModel(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(cfg Config) model {
	if cfg.Options == nil {
		cfg.Options = formatter.DefaultOptions
	}
	if cfg.Save == nil {
		cfg.Save = func(path, text string) error {
			return os.WriteFile(path, []byte(text), 0644)
		}
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}

	ta := textarea.New()
	ta.Placeholder = "Paste lyrics..."
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.SetValue(cfg.Text)
	ta.Focus()

	vp := viewport.New(80, 8)

	return model{
		config:   cfg,
		textarea: ta,
		report:   vp,
		metrics:  formatter.Check(cfg.Text),
	}
}

func (m model) Init() tea.Cmd {
	return textarea.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "alt+m":
			m.format()
			return m, nil
		case "ctrl+k":
			m.showReport = !m.showReport
			m.refreshReport()
			m.resize()
			return m, nil
		case "ctrl+s":
			if m.config.Path == "" {
				m.setStatus(statusErr, "no file to save to")
				return m, nil
			}
			return m, m.save()
		}

	case savedMsg:
		if msg.err != nil {
			m.setStatus(statusErr, fmt.Sprintf("save failed: %v", msg.err))
		} else {
			m.setStatus(statusOK, "saved "+msg.path)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

// format replaces the buffer with its formatted version.
func (m *model) format() {
	text := formatter.Format(m.textarea.Value(), m.config.Options())
	m.textarea.SetValue(text)
	m.metrics = formatter.Check(text)
	m.refreshReport()

	kind := statusOK
	if !m.metrics.Clean() {
		kind = statusWarn
	}
	m.setStatus(kind, fmt.Sprintf("Formatted ✓ (v%s)  %s", m.config.Version, m.metrics.String()))
}

func (m *model) setStatus(kind statusKind, text string) {
	m.kind = kind
	m.status = text
}

func (m *model) refreshReport() {
	report := m.metrics.Report()
	if report == "" {
		report = "nothing to report"
	}
	m.report.SetContent(report)
}

func (m *model) resize() {
	if m.width == 0 {
		return
	}
	m.textarea.SetWidth(m.width)
	m.report.Width = m.width

	editorHeight := m.height - 2
	if m.showReport {
		editorHeight -= m.report.Height + 1
	}
	m.textarea.SetHeight(max(editorHeight, 3))
}

func (m model) save() tea.Cmd {
	path, text, save := m.config.Path, m.textarea.Value(), m.config.Save
	return func() tea.Msg {
		return savedMsg{path: path, err: save(path, text)}
	}
}

func (m model) statusLine() string {
	switch m.kind {
	case statusOK:
		return okStyle.Render(m.status)
	case statusWarn:
		return warnStyle.Render(m.status)
	case statusErr:
		return errStyle.Render(m.status)
	}
	return hintStyle.Render(hint)
}

func (m model) View() string {
	var sb strings.Builder
	sb.WriteString(m.textarea.View())
	if m.showReport {
		sb.WriteString("\n")
		sb.WriteString(reportStyle.Render(m.report.View()))
	}
	sb.WriteString("\n")
	sb.WriteString(m.statusLine())
	return sb.String()
}
