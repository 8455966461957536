// Package tui is the terminal reading surface: a bubbletea program over one
// reading session.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/japaniel/vocabreader/pkg/annotate"
	"github.com/japaniel/vocabreader/pkg/export"
	"github.com/japaniel/vocabreader/pkg/glossary"
	"github.com/japaniel/vocabreader/pkg/saved"
	"github.com/japaniel/vocabreader/pkg/session"
)

// Config wires runtime options into the TUI program.
type Config struct {
	Session *session.Session
	// ExportPath receives the CSV on "e". Empty copies to the clipboard.
	ExportPath string
}

const (
	defaultWidth  = 100
	defaultHeight = 30
	sidebarWidth  = 32
	chromeHeight  = 5
)

type model struct {
	config Config
	sess   *session.Session
	view   session.PageView

	// words holds the instruction indices of annotated tokens; cursor
	// indexes into it.
	words  []int
	cursor int

	viewport    viewport.Model
	width       int
	height      int
	showSidebar bool

	message string
	err     error
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	return newModel(config)
}

func newModel(config Config) *model {
	m := &model{
		config:      config,
		sess:        config.Session,
		viewport:    viewport.New(defaultWidth-sidebarWidth, defaultHeight-chromeHeight),
		width:       defaultWidth,
		height:      defaultHeight,
		showSidebar: true,
	}
	m.refresh(config.Session.View())
	return m
}

func (m *model) Init() tea.Cmd { return nil }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		if err := m.sess.Close(context.Background()); err != nil {
			m.err = err
		}
		return m, tea.Quit
	case "right", "l", "tab":
		m.moveCursor(1)
	case "left", "h", "shift+tab":
		m.moveCursor(-1)
	case " ", "enter":
		m.toggleCurrent()
	case "n", "pgdown":
		m.refresh(m.sess.Next())
		m.cursor = 0
	case "p", "pgup":
		m.refresh(m.sess.Prev())
		m.cursor = 0
	case "d":
		if m.sess.Mode() == annotate.ModeFull {
			m.sess.SetMode(annotate.ModeEnglish)
		} else {
			m.sess.SetMode(annotate.ModeFull)
		}
		m.refresh(m.sess.View())
		m.message = "Definitions: " + m.sess.Mode().String()
	case "x":
		m.sess.Clear()
		m.refresh(m.sess.View())
		m.message = "Cleared saved words"
	case "e":
		m.exportSaved()
	case "s":
		m.showSidebar = !m.showSidebar
		m.layout()
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	m.render()
	return m, nil
}

// refresh adopts a new page view and rebuilds the word list.
func (m *model) refresh(v session.PageView) {
	m.view = v
	m.words = m.words[:0]
	for i, in := range v.Instructions {
		if in.IsAnnotated() {
			m.words = append(m.words, i)
		}
	}
	if m.cursor >= len(m.words) {
		m.cursor = 0
	}
	m.render()
}

func (m *model) moveCursor(delta int) {
	if len(m.words) == 0 {
		return
	}
	m.cursor = (m.cursor + delta + len(m.words)) % len(m.words)
}

// current returns the instruction under the cursor.
func (m *model) current() (annotate.Instruction, bool) {
	if len(m.words) == 0 {
		return annotate.Instruction{}, false
	}
	return m.view.Instructions[m.words[m.cursor]], true
}

// toggleCurrent sends a click with the state the screen shows as advisory.
func (m *model) toggleCurrent() {
	in, ok := m.current()
	if !ok {
		return
	}
	out := m.sess.Click(saved.ClickEvent{Key: in.Key, Saved: saved.Bool(!in.Saved)})
	if out.Rejected() {
		m.err = out.Err
		return
	}
	m.refresh(m.sess.View())
	verb := "Removed"
	if out.Saved {
		verb = "Saved"
	}
	m.message = fmt.Sprintf("%s %q", verb, in.Word)
}

func (m *model) exportSaved() {
	entries := m.sess.SavedEntries()
	rows := make([]glossary.Entry, len(entries))
	for i, e := range entries {
		rows[i] = e.Entry
	}
	if m.config.ExportPath != "" {
		if err := export.WriteFile(m.config.ExportPath, rows); err != nil {
			m.err = err
			return
		}
		m.message = fmt.Sprintf("Exported %d words to %s", len(rows), m.config.ExportPath)
		return
	}
	if err := export.ToClipboard(rows); err != nil {
		m.err = err
		return
	}
	m.message = fmt.Sprintf("Copied %d words to the clipboard", len(rows))
}

func (m *model) layout() {
	w := m.width
	if m.showSidebar {
		w -= sidebarWidth
	}
	if w < 20 {
		w = 20
	}
	h := m.height - chromeHeight
	if h < 3 {
		h = 3
	}
	m.viewport.Width = w
	m.viewport.Height = h
	m.render()
}

func (m *model) render() {
	m.viewport.SetContent(renderPage(m.view.Instructions, m.cursorIndex(), m.viewport.Width-2))
}

func (m *model) cursorIndex() int {
	if len(m.words) == 0 {
		return -1
	}
	return m.words[m.cursor]
}

// noSpaceBefore lists tokens written flush against the previous token.
const noSpaceBefore = ".,;:!?)]}»“"

// noSpaceAfter lists tokens the next token is written flush against.
const noSpaceAfter = "([{«„"

// spaced reports whether a space goes between prev and next.
func spaced(prev, next string) bool {
	if len([]rune(next)) == 1 && strings.Contains(noSpaceBefore, next) {
		return false
	}
	if len([]rune(prev)) == 1 && strings.Contains(noSpaceAfter, prev) {
		return false
	}
	return true
}

func (m *model) View() string {
	annotated, onPage := annotate.Count(m.view.Instructions)
	status := fmt.Sprintf("%s  %d glossary words, %d saved on page", m.view.Status(), annotated, onPage)
	header := titleStyle.Render(m.view.Title) + "  " + statusStyle.Render(status)
	body := m.viewport.View()
	if m.showSidebar {
		body = joinHorizontal(body, renderSidebar(m.view.Saved, m.height-chromeHeight))
	}

	var footer strings.Builder
	if in, ok := m.current(); ok {
		footer.WriteString(in.Word + ": " + in.English)
		if in.German != "" {
			footer.WriteString(" | " + in.German)
		}
		if in.Context != "" {
			footer.WriteString(" | " + in.Context)
		}
	}
	footer.WriteString("\n")
	switch {
	case m.err != nil:
		footer.WriteString(errorStyle.Render("Error: " + m.err.Error()))
	case m.message != "":
		footer.WriteString(messageStyle.Render(m.message))
	}
	footer.WriteString("\n")
	footer.WriteString(helpStyle.Render("←/→ word • space save • n/p page • d definitions • x clear • e export • s sidebar • q quit"))

	return header + "\n" + body + "\n" + footer.String()
}
