//go:build linux

package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wrap"

	"github.com/pranshuparmar/memwatch/internal/relay"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Stop):
			if m.done {
				return m, tea.Quit
			}
			// First press asks the child to stop; a second one
			// escalates. The dashboard quits once the child exits.
			m.interrupted = true
			if m.stopping {
				m.opts.Child.Kill()
			} else {
				m.stopping = true
				m.opts.Child.Terminate()
			}
			return m, nil
		case key.Matches(msg, m.keys.Kill):
			if !m.done {
				m.interrupted = true
				m.stopping = true
				m.opts.Child.Kill()
			}
			return m, nil
		}

		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Header (2 lines), output border (1), footer (2)
		vpHeight := msg.Height - 5
		if vpHeight < 3 {
			vpHeight = 3
		}
		m.viewport.Width = msg.Width
		m.viewport.Height = vpHeight
		m.refreshViewport()
		return m, nil

	case tickMsg:
		if m.done {
			return m, nil
		}
		m.resample()
		return m, m.tick()

	case lineMsg:
		m.appendLine(relay.Line(msg))
		return m, m.listenLine()

	case linesDoneMsg:
		// The child may still be running with no more output expected.
		return m, nil

	case exitMsg:
		m.waitErr = msg.err
		m.done = true
		m.resample()
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) resample() {
	m.elapsed = time.Since(m.start)
	m.sample = m.opts.FS.SampleTree(m.opts.Child.PID())
	m.peak = m.peak.Max(m.sample)
}

func (m *Model) appendLine(l relay.Line) {
	text := l.Text
	if l.Origin == relay.Stderr {
		text = stderrStyle.Render(text)
	}
	m.lines = append(m.lines, text)
	if len(m.lines) > maxLines {
		m.lines = m.lines[len(m.lines)-maxLines:]
	}
	m.refreshViewport()
}

func (m *Model) refreshViewport() {
	atBottom := m.viewport.AtBottom()
	content := strings.Join(m.lines, "\n")
	if m.viewport.Width > 0 {
		content = wrap.String(content, m.viewport.Width)
	}
	m.viewport.SetContent(content)
	if atBottom {
		m.viewport.GotoBottom()
	}
}
