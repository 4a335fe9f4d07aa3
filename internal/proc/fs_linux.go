//go:build linux

package proc

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var errMalformedStat = errors.New("malformed stat file")

// FS reads process metadata from a procfs mount. The root is configurable so
// tests can point it at a fixture directory.
type FS struct {
	root     string
	pageSize uint64
}

// NewFS returns an FS rooted at the given directory, reading memory counters
// with the given page size.
func NewFS(root string, pageSize uint64) *FS {
	return &FS{root: root, pageSize: pageSize}
}

// Default returns an FS over the live /proc mount.
func Default() *FS {
	return NewFS("/proc", uint64(os.Getpagesize()))
}

// Snapshot enumerates all visible processes and returns a parent→children
// adjacency map. Processes that disappear mid-enumeration are skipped.
func (fs *FS) Snapshot() (map[int][]int, error) {
	entries, err := os.ReadDir(fs.root)
	if err != nil {
		return nil, err
	}

	children := make(map[int][]int)
	for _, entry := range entries {
		pid, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue // not a process directory
		}
		ppid, err := fs.parentOf(pid)
		if err != nil {
			continue
		}
		children[ppid] = append(children[ppid], pid)
	}

	return children, nil
}

// parentOf reads the parent PID from /proc/<pid>/stat.
// Format: pid (comm) state ppid ... — comm may contain spaces and
// parentheses, so fields are split after the last ')'.
func (fs *FS) parentOf(pid int) (int, error) {
	data, err := os.ReadFile(filepath.Join(fs.root, strconv.Itoa(pid), "stat"))
	if err != nil {
		return 0, err
	}

	raw := string(data)
	end := strings.LastIndexByte(raw, ')')
	if end < 0 || end+1 >= len(raw) {
		return 0, errMalformedStat
	}

	// fields[0] is the state, fields[1] the ppid
	fields := strings.Fields(raw[end+1:])
	if len(fields) < 2 {
		return 0, errMalformedStat
	}

	return strconv.Atoi(fields[1])
}

// Memory reads the resident and virtual sizes of a single process from
// /proc/<pid>/statm, in bytes. The second return is false if the process
// vanished or its data was unreadable.
func (fs *FS) Memory(pid int) (MemSample, bool) {
	data, err := os.ReadFile(filepath.Join(fs.root, strconv.Itoa(pid), "statm"))
	if err != nil {
		return MemSample{}, false
	}

	// statm: size resident shared text lib data dt (in pages)
	fields := strings.Fields(string(data))
	if len(fields) < 2 {
		return MemSample{}, false
	}

	size, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return MemSample{}, false
	}
	resident, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return MemSample{}, false
	}

	return MemSample{
		RSS: resident * fs.pageSize,
		VSZ: size * fs.pageSize,
	}, true
}

// SampleTree sums the memory counters of root and every descendant reachable
// at this instant. It never fails: an unreadable enumeration yields a zero
// sample, and individual processes that exit mid-scan contribute zero.
func (fs *FS) SampleTree(root int) MemSample {
	children, err := fs.Snapshot()
	if err != nil {
		return MemSample{}
	}

	var total MemSample
	seen := make(map[int]bool)
	stack := []int{root}

	for len(stack) > 0 {
		pid := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[pid] {
			continue // defensive: inconsistent snapshots must not loop
		}
		seen[pid] = true

		if m, ok := fs.Memory(pid); ok {
			total = total.Add(m)
		}
		stack = append(stack, children[pid]...)
	}

	return total
}
