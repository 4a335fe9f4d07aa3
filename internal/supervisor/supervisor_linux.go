//go:build linux

// Package supervisor runs a child command while sampling the aggregate
// memory of its process tree on a fixed cadence and relaying its output.
package supervisor

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/pranshuparmar/memwatch/internal/output"
	"github.com/pranshuparmar/memwatch/internal/proc"
	"github.com/pranshuparmar/memwatch/internal/relay"
	"github.com/pranshuparmar/memwatch/internal/render"
)

// Config controls one supervision run.
type Config struct {
	Interval time.Duration
	Unit     render.Unit
}

// Supervisor owns the child handle, the sampling ticker, the interruption
// flag and the terminal for the duration of a run.
type Supervisor struct {
	cfg  Config
	fs   *proc.FS
	term *render.Terminal

	// Written from the signal path, read by the loop.
	interrupted atomic.Bool
}

// New creates a supervisor sampling through fs and drawing on term.
func New(cfg Config, fs *proc.FS, term *render.Terminal) *Supervisor {
	return &Supervisor{cfg: cfg, fs: fs, term: term}
}

// Run spawns argv and supervises it until it exits. The returned Summary
// carries the child's exit status; the error is non-nil only for spawn
// failures.
func (s *Supervisor) Run(argv []string) (output.Summary, error) {
	child, err := Spawn(argv)
	if err != nil {
		return output.Summary{}, err
	}
	defer child.Close()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	s.term.HideCursor()
	defer s.term.ShowCursor()

	start := time.Now()
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	var peak proc.MemSample
	sample := func() proc.MemSample {
		m := s.fs.SampleTree(child.PID())
		peak = peak.Max(m)
		return m
	}

	lines := child.Lines()
	termRequested := false
	var waitErr error

loop:
	for {
		// Drain everything already queued before touching the status
		// line, so bursts of output never flicker against redraws.
	drain:
		for lines != nil {
			select {
			case l, ok := <-lines:
				if !ok {
					// No more output expected; the child may
					// well still be running.
					lines = nil
					break drain
				}
				s.term.Line(l)
			default:
				break drain
			}
		}

		s.term.Status(render.StatusLine(time.Since(start), sample(), s.cfg.Unit))

		// A receive on a nil lines channel blocks forever, which leaves
		// the remaining cases racing as usual.
		select {
		case l, ok := <-lines:
			if !ok {
				lines = nil
				continue
			}
			s.term.Line(l)

		case <-ticker.C:
			// next sampling tick

		case <-sigCh:
			s.interrupted.Store(true)
			if !termRequested {
				termRequested = true
				child.Terminate()
			} else {
				// Second interrupt: stop waiting politely.
				child.Kill()
			}

		case waitErr = <-child.Wait():
			break loop
		}
	}

	s.flush(child, lines)

	elapsed := time.Since(start)
	final := sample()
	s.term.Finish(render.StatusLine(elapsed, final, s.cfg.Unit))

	code, sig := ExitStatus(waitErr)
	return output.Summary{
		Command:     argv,
		ExitCode:    code,
		Signal:      sig,
		Interrupted: s.interrupted.Load(),
		Elapsed:     elapsed,
		Final:       final,
		Peak:        peak,
	}, nil
}

// flush prints whatever output is still queued after the child has exited.
// The wait is bounded by one sampling interval: a background descendant that
// inherited the child's output keeps the pipes open past the child's exit,
// so the channel cannot be relied on to close on its own. Once the grace
// period expires the read ends are closed, which unblocks the readers and
// guarantees channel closure.
func (s *Supervisor) flush(child *Child, lines <-chan relay.Line) {
	if lines == nil {
		return
	}

	grace := time.NewTimer(s.cfg.Interval)
	defer grace.Stop()

	for {
		select {
		case l, ok := <-lines:
			if !ok {
				return
			}
			s.term.Line(l)
		case <-grace.C:
			child.Close()
			for l := range lines {
				s.term.Line(l)
			}
			return
		}
	}
}
