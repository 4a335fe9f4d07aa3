//go:build linux

package proc

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

const testPageSize = 4096

// fakeProc builds a procfs fixture. Each entry is pid → (ppid, size pages,
// resident pages). A negative size omits the statm file, simulating a
// process that exited between enumeration and the counter read.
type fakeEntry struct {
	ppid     int
	size     int64
	resident int64
}

func fakeProc(t *testing.T, entries map[int]fakeEntry) *FS {
	t.Helper()
	root := t.TempDir()

	for pid, e := range entries {
		dir := filepath.Join(root, fmt.Sprintf("%d", pid))
		if err := os.Mkdir(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}

		stat := fmt.Sprintf("%d (proc %d) S %d 1 1 0 -1 0 0 0 0 0 0 0\n", pid, pid, e.ppid)
		if err := os.WriteFile(filepath.Join(dir, "stat"), []byte(stat), 0o644); err != nil {
			t.Fatalf("write stat: %v", err)
		}

		if e.size >= 0 {
			statm := fmt.Sprintf("%d %d 10 5 0 20 0\n", e.size, e.resident)
			if err := os.WriteFile(filepath.Join(dir, "statm"), []byte(statm), 0o644); err != nil {
				t.Fatalf("write statm: %v", err)
			}
		}
	}

	// Non-process entries must be ignored during enumeration
	if err := os.WriteFile(filepath.Join(root, "meminfo"), []byte("MemTotal: 1 kB\n"), 0o644); err != nil {
		t.Fatalf("write meminfo: %v", err)
	}

	return NewFS(root, testPageSize)
}

func TestSnapshotAdjacency(t *testing.T) {
	fs := fakeProc(t, map[int]fakeEntry{
		1:   {ppid: 0, size: 1, resident: 1},
		100: {ppid: 1, size: 1, resident: 1},
		101: {ppid: 100, size: 1, resident: 1},
		102: {ppid: 100, size: 1, resident: 1},
	})

	children, err := fs.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}

	if got := len(children[100]); got != 2 {
		t.Errorf("expected 2 children of 100, got %d (%v)", got, children[100])
	}
	if got := len(children[1]); got != 1 {
		t.Errorf("expected 1 child of 1, got %d (%v)", got, children[1])
	}
}

func TestMemoryReadsStatm(t *testing.T) {
	fs := fakeProc(t, map[int]fakeEntry{
		200: {ppid: 1, size: 300, resident: 50},
	})

	m, ok := fs.Memory(200)
	if !ok {
		t.Fatal("Memory returned not-ok for a readable process")
	}
	if m.VSZ != 300*testPageSize {
		t.Errorf("VSZ = %d, want %d", m.VSZ, 300*testPageSize)
	}
	if m.RSS != 50*testPageSize {
		t.Errorf("RSS = %d, want %d", m.RSS, 50*testPageSize)
	}
}

func TestMemoryVanishedProcess(t *testing.T) {
	fs := fakeProc(t, map[int]fakeEntry{
		1: {ppid: 0, size: 1, resident: 1},
	})

	if _, ok := fs.Memory(9999); ok {
		t.Error("Memory returned ok for a nonexistent pid")
	}
}

func TestSampleTreeAggregates(t *testing.T) {
	fs := fakeProc(t, map[int]fakeEntry{
		1:   {ppid: 0, size: 1000, resident: 1000}, // outside the tree
		100: {ppid: 1, size: 10, resident: 4},
		101: {ppid: 100, size: 20, resident: 6},
		102: {ppid: 101, size: 30, resident: 8},
		103: {ppid: 100, size: 40, resident: 2},
		500: {ppid: 1, size: 999, resident: 999}, // sibling, not a descendant
	})

	got := fs.SampleTree(100)
	want := MemSample{
		VSZ: (10 + 20 + 30 + 40) * testPageSize,
		RSS: (4 + 6 + 8 + 2) * testPageSize,
	}
	if got != want {
		t.Errorf("SampleTree(100) = %+v, want %+v", got, want)
	}
}

func TestSampleTreeRootOnly(t *testing.T) {
	fs := fakeProc(t, map[int]fakeEntry{
		300: {ppid: 1, size: 7, resident: 3},
	})

	got := fs.SampleTree(300)
	want := MemSample{VSZ: 7 * testPageSize, RSS: 3 * testPageSize}
	if got != want {
		t.Errorf("SampleTree(300) = %+v, want %+v", got, want)
	}
}

func TestSampleTreeExitedMidScan(t *testing.T) {
	// 101 is enumerable (stat present) but its statm is gone
	fs := fakeProc(t, map[int]fakeEntry{
		100: {ppid: 1, size: 10, resident: 4},
		101: {ppid: 100, size: -1, resident: -1},
		102: {ppid: 101, size: 5, resident: 2},
	})

	got := fs.SampleTree(100)
	want := MemSample{VSZ: 15 * testPageSize, RSS: 6 * testPageSize}
	if got != want {
		t.Errorf("SampleTree = %+v, want %+v (vanished process must contribute zero)", got, want)
	}
}

func TestSampleTreeRootExited(t *testing.T) {
	fs := fakeProc(t, map[int]fakeEntry{
		1: {ppid: 0, size: 1, resident: 1},
	})

	if got := fs.SampleTree(4242); got != (MemSample{}) {
		t.Errorf("SampleTree for an exited root = %+v, want zero", got)
	}
}

func TestSampleTreeInconsistentSnapshot(t *testing.T) {
	// A pid that lists itself as its own ancestor must not loop forever.
	fs := fakeProc(t, map[int]fakeEntry{
		100: {ppid: 101, size: 10, resident: 4},
		101: {ppid: 100, size: 20, resident: 6},
	})

	got := fs.SampleTree(100)
	want := MemSample{VSZ: 30 * testPageSize, RSS: 10 * testPageSize}
	if got != want {
		t.Errorf("SampleTree = %+v, want %+v", got, want)
	}
}

func TestSampleTreeMissingRoot(t *testing.T) {
	fs := NewFS(filepath.Join(t.TempDir(), "nonexistent"), testPageSize)
	if got := fs.SampleTree(1); got != (MemSample{}) {
		t.Errorf("SampleTree with unreadable proc root = %+v, want zero", got)
	}
}

func TestParentOfCommWithSpaces(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "42")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	// comm containing spaces and a ')' — everything up to the last ')' is comm
	stat := "42 (tmux: server (1)) S 7 42 42 0 -1\n"
	if err := os.WriteFile(filepath.Join(dir, "stat"), []byte(stat), 0o644); err != nil {
		t.Fatal(err)
	}

	fs := NewFS(root, testPageSize)
	ppid, err := fs.parentOf(42)
	if err != nil {
		t.Fatalf("parentOf failed: %v", err)
	}
	if ppid != 7 {
		t.Errorf("ppid = %d, want 7", ppid)
	}
}
