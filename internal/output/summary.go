// Package output renders the end-of-run summary.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/pranshuparmar/memwatch/internal/proc"
	"github.com/pranshuparmar/memwatch/internal/render"
)

// Summary describes one completed supervision run.
type Summary struct {
	Command     []string       `json:"command"`
	ExitCode    int            `json:"exitCode"`
	Signal      string         `json:"signal,omitempty"` // set when the child was killed by a signal
	Interrupted bool           `json:"interrupted"`
	Elapsed     time.Duration  `json:"-"`
	ElapsedMS   int64          `json:"elapsedMs"`
	Final       proc.MemSample `json:"final"`
	Peak        proc.MemSample `json:"peak"`
}

var (
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
)

// ToJSON renders the summary as indented JSON.
func ToJSON(s Summary) (string, error) {
	s.ElapsedMS = s.Elapsed.Milliseconds()
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "{}", err
	}
	return string(data), nil
}

// PrintJSON writes the JSON summary followed by a newline.
func PrintJSON(w io.Writer, s Summary) error {
	out, err := ToJSON(s)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

// PrintText writes the human summary. The child's exit code is reported
// here, on the supervisor's stderr; it is never propagated as the
// supervisor's own exit code.
func PrintText(w io.Writer, s Summary, unit render.Unit, color bool) {
	style := func(st lipgloss.Style, text string) string {
		if !color {
			return text
		}
		return st.Render(text)
	}

	switch {
	case s.Signal != "":
		fmt.Fprintln(w, style(failStyle, "Process terminated by signal: "+s.Signal))
	case s.ExitCode == 0:
		fmt.Fprintln(w, style(okStyle, "Process exited with status: 0"))
	default:
		fmt.Fprintln(w, style(failStyle, fmt.Sprintf("Process exited with status: %d", s.ExitCode)))
	}

	if s.Interrupted {
		fmt.Fprintln(w, style(noticeStyle, "Run was interrupted"))
	}

	fmt.Fprintln(w, style(dimStyle, fmt.Sprintf("Peak RSS: %s | Peak VSZ: %s | Elapsed: %s",
		render.FormatBytes(s.Peak.RSS, unit),
		render.FormatBytes(s.Peak.VSZ, unit),
		formatElapsed(s.Elapsed))))
}

func formatElapsed(d time.Duration) string {
	secs := int64(d.Seconds())
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
