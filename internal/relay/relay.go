// Package relay forwards a child process's stdout and stderr to a single
// channel of origin-tagged lines.
package relay

import (
	"bufio"
	"io"
	"sync"
)

// Origin identifies which stream a line came from.
type Origin int

const (
	Stdout Origin = iota
	Stderr
)

func (o Origin) String() string {
	if o == Stderr {
		return "stderr"
	}
	return "stdout"
}

// Line is one complete output line from the child.
type Line struct {
	Origin Origin
	Text   string
}

// Relay reads both output streams concurrently and delivers lines on a
// shared channel. Lines from the same stream keep their order; interleaving
// between streams is arrival order. The channel is closed once both streams
// have reached EOF or failed.
type Relay struct {
	lines chan Line
	wg    sync.WaitGroup
}

// The buffer keeps a chatty child from blocking behind a slow redraw.
const lineBuffer = 1024

// New starts a forwarding goroutine per stream and a closer that fires when
// both finish.
func New(stdout, stderr io.Reader) *Relay {
	r := &Relay{lines: make(chan Line, lineBuffer)}
	r.forward(stdout, Stdout)
	r.forward(stderr, Stderr)

	go func() {
		r.wg.Wait()
		close(r.lines)
	}()

	return r
}

// Lines returns the shared output channel.
func (r *Relay) Lines() <-chan Line {
	return r.lines
}

func (r *Relay) forward(src io.Reader, origin Origin) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		scanner := bufio.NewScanner(src)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			r.lines <- Line{Origin: origin, Text: scanner.Text()}
		}
		// EOF and read errors both just end this stream; absence of
		// further lines is the signal.
	}()
}
