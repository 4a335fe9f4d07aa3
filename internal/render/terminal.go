package render

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/pranshuparmar/memwatch/internal/relay"
)

// Terminal writes status redraws and relayed output lines without letting
// the two interleave. On a TTY the status line is redrawn in place; anywhere
// else everything degrades to plain sequential lines.
type Terminal struct {
	out     *termenv.Output
	stdout  io.Writer
	stderr  io.Writer
	tty     bool
	hasLine bool // an in-place status line is currently displayed
}

// NewTerminal wraps the given stdout/stderr writers.
func NewTerminal(stdout, stderr io.Writer) *Terminal {
	return &Terminal{
		out:    termenv.NewOutput(stdout),
		stdout: stdout,
		stderr: stderr,
		tty:    isTTY(stdout),
	}
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// HideCursor hides the cursor for the duration of monitoring. Callers must
// pair it with a deferred ShowCursor so every exit path restores it.
func (t *Terminal) HideCursor() {
	if t.tty {
		t.out.HideCursor()
	}
}

// ShowCursor restores the cursor.
func (t *Terminal) ShowCursor() {
	if t.tty {
		t.out.ShowCursor()
	}
}

// clear erases the whole current line, not just overwrites it, so a shorter
// redraw never leaves stray trailing characters.
func (t *Terminal) clear() {
	if t.tty && t.hasLine {
		t.out.ClearLine()
		fmt.Fprint(t.stdout, "\r")
		t.hasLine = false
	}
}

// Status redraws the in-place status line.
func (t *Terminal) Status(line string) {
	if !t.tty {
		fmt.Fprintln(t.stdout, line)
		return
	}
	t.clear()
	fmt.Fprint(t.stdout, "\r"+line)
	t.hasLine = true
}

// Line prints a relayed child output line on its origin stream, clearing the
// status line first so program output never splices into it.
func (t *Terminal) Line(l relay.Line) {
	t.clear()
	if l.Origin == relay.Stderr {
		fmt.Fprintln(t.stderr, l.Text)
		return
	}
	fmt.Fprintln(t.stdout, l.Text)
}

// Finish prints the final status line followed by a newline, ending the
// in-place redraw.
func (t *Terminal) Finish(line string) {
	t.clear()
	if t.tty {
		fmt.Fprint(t.stdout, "\r")
	}
	fmt.Fprintln(t.stdout, line)
	t.hasLine = false
}
