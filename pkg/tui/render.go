package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/japaniel/vocabreader/pkg/annotate"
	"github.com/japaniel/vocabreader/pkg/session"
)

// renderPage styles each instruction and wraps the result to width. cursor is
// the instruction index to highlight, or -1.
func renderPage(ins []annotate.Instruction, cursor, width int) string {
	var b strings.Builder
	for i, in := range ins {
		if i > 0 && spaced(ins[i-1].Text, in.Text) {
			b.WriteByte(' ')
		}
		b.WriteString(styleToken(in, i == cursor))
	}
	if width <= 0 {
		return b.String()
	}
	return wordwrap.String(b.String(), width)
}

func styleToken(in annotate.Instruction, atCursor bool) string {
	if !in.IsAnnotated() {
		return in.Text
	}
	style := wordStyle
	if in.Saved {
		style = savedStyle
	}
	if atCursor {
		style = style.Inherit(cursorStyle)
	}
	return style.Render(in.Text)
}

// renderSidebar lists saved words with their English gloss.
func renderSidebar(entries []session.SavedEntry, height int) string {
	inner := sidebarWidth - 4
	lines := []string{fmt.Sprintf("Saved words (%d)", len(entries))}
	if len(entries) == 0 {
		lines = append(lines, glossStyle.Render("none yet"))
	}
	for _, e := range entries {
		lines = append(lines, truncate.StringWithTail(e.Word, uint(inner), "…"))
		if e.DefinitionEnglish != "" {
			lines = append(lines, glossStyle.Render(truncate.StringWithTail("  "+e.DefinitionEnglish, uint(inner), "…")))
		}
	}
	if height > 2 && len(lines) > height-2 {
		lines = append(lines[:height-3], glossStyle.Render("…"))
	}
	return sidebarStyle.Width(sidebarWidth - 2).Render(strings.Join(lines, "\n"))
}

func joinHorizontal(left, right string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}
