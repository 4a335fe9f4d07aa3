//go:build linux

package supervisor

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/pranshuparmar/memwatch/internal/relay"
)

// Child is a spawned process with stdin inherited and both output streams
// captured for relay.
type Child struct {
	cmd   *exec.Cmd
	lines <-chan relay.Line
	wait  chan error
	outR  *os.File
	errR  *os.File
}

// Spawn launches argv[0] with the remaining arguments. The child gets its
// own process group so that termination requests reach its descendants too.
// Output is piped through os.Pipe pairs rather than StdoutPipe so that Wait
// can never close the read ends out from under the relay readers.
func Spawn(argv []string) (*Child, error) {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	outR, outW, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	errR, errW, err := os.Pipe()
	if err != nil {
		outR.Close()
		outW.Close()
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}
	cmd.Stdout = outW
	cmd.Stderr = errW

	if err := cmd.Start(); err != nil {
		outR.Close()
		outW.Close()
		errR.Close()
		errW.Close()
		return nil, fmt.Errorf("failed to spawn %q: %w", argv[0], err)
	}

	// The parent's copies of the write ends must close now, otherwise the
	// readers never see EOF after the child exits.
	outW.Close()
	errW.Close()

	c := &Child{
		cmd:   cmd,
		lines: relay.New(outR, errR).Lines(),
		wait:  make(chan error, 1),
		outR:  outR,
		errR:  errR,
	}
	go func() { c.wait <- cmd.Wait() }()

	return c, nil
}

// PID returns the child's process ID.
func (c *Child) PID() int {
	return c.cmd.Process.Pid
}

// Lines returns the relayed output channel. It closes once both of the
// child's output streams have finished.
func (c *Child) Lines() <-chan relay.Line {
	return c.lines
}

// Wait returns a channel that delivers the child's wait result exactly once.
func (c *Child) Wait() <-chan error {
	return c.wait
}

// Terminate asks the child's process group to shut down.
func (c *Child) Terminate() error {
	return syscall.Kill(-c.cmd.Process.Pid, syscall.SIGTERM)
}

// Kill forcibly ends the child's process group.
func (c *Child) Kill() error {
	return syscall.Kill(-c.cmd.Process.Pid, syscall.SIGKILL)
}

// Close releases the parent's read ends. A background descendant that
// inherited the child's output keeps the write ends open past the child's
// exit; closing our side unblocks the relay readers so their channel can
// close.
func (c *Child) Close() {
	c.outR.Close()
	c.errR.Close()
}

// ExitStatus extracts the child's exit code, and the terminating signal name
// when there is no exit code to report.
func ExitStatus(err error) (code int, signal string) {
	if err == nil {
		return 0, ""
	}
	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		return -1, ""
	}
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return exitErr.ExitCode(), ws.Signal().String()
	}
	return exitErr.ExitCode(), ""
}
