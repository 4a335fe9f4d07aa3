//go:build linux

// Package tui is the --watch dashboard: the live status plus a scrollable
// view of the child's relayed output.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pranshuparmar/memwatch/internal/output"
	"github.com/pranshuparmar/memwatch/internal/proc"
	"github.com/pranshuparmar/memwatch/internal/render"
	"github.com/pranshuparmar/memwatch/internal/supervisor"
)

// maxLines bounds the retained output tail.
const maxLines = 1000

// Options configures the dashboard for one supervised child.
type Options struct {
	Command  []string
	Child    *supervisor.Child
	FS       *proc.FS
	Interval time.Duration
	Unit     render.Unit
}

type Model struct {
	opts     Options
	keys     KeyMap
	viewport viewport.Model
	start    time.Time

	lines       []string
	sample      proc.MemSample
	peak        proc.MemSample
	elapsed     time.Duration
	stopping    bool
	interrupted bool
	done        bool
	waitErr     error
	width       int
	height      int
}

// New builds the dashboard model. The child is already running.
func New(opts Options) Model {
	vp := viewport.New(0, 0)
	return Model{
		opts:     opts,
		keys:     DefaultKeyMap(),
		viewport: vp,
		start:    time.Now(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), m.listenLine(), m.waitExit())
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.opts.Interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) listenLine() tea.Cmd {
	lines := m.opts.Child.Lines()
	return func() tea.Msg {
		l, ok := <-lines
		if !ok {
			return linesDoneMsg{}
		}
		return lineMsg(l)
	}
}

func (m Model) waitExit() tea.Cmd {
	wait := m.opts.Child.Wait()
	return func() tea.Msg {
		return exitMsg{err: <-wait}
	}
}

// Summary is read by the caller after the program has finished.
func (m Model) Summary() output.Summary {
	code, sig := supervisor.ExitStatus(m.waitErr)
	return output.Summary{
		Command:     m.opts.Command,
		ExitCode:    code,
		Signal:      sig,
		Interrupted: m.interrupted,
		Elapsed:     m.elapsed,
		Final:       m.sample,
		Peak:        m.peak,
	}
}
