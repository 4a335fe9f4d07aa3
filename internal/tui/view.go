//go:build linux

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pranshuparmar/memwatch/internal/render"
)

func (m Model) View() string {
	title := titleStyle.Render("memwatch")
	command := lipgloss.NewStyle().PaddingLeft(1).Render(strings.Join(m.opts.Command, " "))

	status := statusStyle.Render(render.StatusLine(m.elapsed, m.sample, m.opts.Unit))
	if m.stopping && !m.done {
		status += stoppingStyle.Render("  stopping…")
	}

	footerText := fmt.Sprintf("pid %d | q: stop | K: kill | ↑/↓: scroll", m.opts.Child.PID())
	if m.done {
		footerText = "child exited | q: quit"
	}

	width := m.width
	if width <= 0 {
		width = 80
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Center, title, command),
		status,
		outputBorderStyle.Width(width).Render(m.viewport.View()),
		footerStyle.Width(width-2).Render(footerText),
	)
}
