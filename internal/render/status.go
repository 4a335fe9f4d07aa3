// Package render formats the monitoring status line and owns the terminal
// discipline around it.
package render

import (
	"fmt"
	"time"

	"github.com/pranshuparmar/memwatch/internal/proc"
)

// Unit selects the display unit for byte values.
type Unit int

const (
	Auto Unit = iota
	KB
	MB
	GB
)

// ParseUnit parses the --unit flag value.
func ParseUnit(s string) (Unit, error) {
	switch s {
	case "auto", "":
		return Auto, nil
	case "kb":
		return KB, nil
	case "mb":
		return MB, nil
	case "gb":
		return GB, nil
	default:
		return Auto, fmt.Errorf("invalid unit %q (want auto, kb, mb or gb)", s)
	}
}

func (u Unit) String() string {
	switch u {
	case KB:
		return "kb"
	case MB:
		return "mb"
	case GB:
		return "gb"
	default:
		return "auto"
	}
}

const (
	kib = 1 << 10
	mib = 1 << 20
	gib = 1 << 30
)

// FormatBytes renders a byte count in the given unit, or auto-scaled to the
// largest unit with a value >= 1, always with two fractional digits.
func FormatBytes(b uint64, u Unit) string {
	switch u {
	case KB:
		return fmt.Sprintf("%.2f KB", float64(b)/kib)
	case MB:
		return fmt.Sprintf("%.2f MB", float64(b)/mib)
	case GB:
		return fmt.Sprintf("%.2f GB", float64(b)/gib)
	}

	switch {
	case b >= gib:
		return fmt.Sprintf("%.2f GB", float64(b)/gib)
	case b >= mib:
		return fmt.Sprintf("%.2f MB", float64(b)/mib)
	case b >= kib:
		return fmt.Sprintf("%.2f KB", float64(b)/kib)
	default:
		return fmt.Sprintf("%.2f B", float64(b))
	}
}

// StatusLine formats one status line: "[MM:SS] RSS: <v> <u> | VSZ: <v> <u>".
// Minutes are unbounded, not wrapped at 60.
func StatusLine(elapsed time.Duration, m proc.MemSample, u Unit) string {
	secs := int64(elapsed.Seconds())
	return fmt.Sprintf("[%02d:%02d] RSS: %s | VSZ: %s",
		secs/60, secs%60, FormatBytes(m.RSS, u), FormatBytes(m.VSZ, u))
}
