package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/pranshuparmar/memwatch/internal/proc"
	"github.com/pranshuparmar/memwatch/internal/render"
)

func TestToJSON(t *testing.T) {
	s := Summary{
		Command:     []string{"sleep", "1"},
		ExitCode:    0,
		Interrupted: false,
		Elapsed:     1500 * time.Millisecond,
		Final:       proc.MemSample{RSS: 1024, VSZ: 2048},
		Peak:        proc.MemSample{RSS: 4096, VSZ: 8192},
	}

	out, err := ToJSON(s)
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["elapsedMs"].(float64) != 1500 {
		t.Errorf("elapsedMs = %v, want 1500", decoded["elapsedMs"])
	}
	peak := decoded["peak"].(map[string]any)
	if peak["rssBytes"].(float64) != 4096 {
		t.Errorf("peak.rssBytes = %v, want 4096", peak["rssBytes"])
	}
}

func TestPrintTextExitCode(t *testing.T) {
	var buf bytes.Buffer
	PrintText(&buf, Summary{Command: []string{"true"}, ExitCode: 0}, render.Auto, false)
	if !strings.Contains(buf.String(), "Process exited with status: 0") {
		t.Errorf("missing exit status line: %q", buf.String())
	}

	buf.Reset()
	PrintText(&buf, Summary{Command: []string{"false"}, ExitCode: 3}, render.Auto, false)
	if !strings.Contains(buf.String(), "Process exited with status: 3") {
		t.Errorf("missing nonzero exit status line: %q", buf.String())
	}
}

func TestPrintTextSignalAndInterrupt(t *testing.T) {
	var buf bytes.Buffer
	PrintText(&buf, Summary{Signal: "terminated", Interrupted: true}, render.Auto, false)

	out := buf.String()
	if !strings.Contains(out, "terminated by signal: terminated") {
		t.Errorf("missing signal report: %q", out)
	}
	if !strings.Contains(out, "Run was interrupted") {
		t.Errorf("missing interrupted report: %q", out)
	}
	if strings.Contains(out, "exited with status") {
		t.Errorf("signal death must not also report an exit status: %q", out)
	}
}

func TestPrintTextNoColorHasNoEscapes(t *testing.T) {
	var buf bytes.Buffer
	PrintText(&buf, Summary{ExitCode: 1}, render.Auto, false)
	if strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("escape sequences present with color disabled: %q", buf.String())
	}
}
