//go:build linux

package tui

import (
	"time"

	"github.com/pranshuparmar/memwatch/internal/relay"
)

// tickMsg signals a sampling tick
type tickMsg time.Time

// lineMsg carries one relayed child output line
type lineMsg relay.Line

// linesDoneMsg signals that both output streams have finished
type linesDoneMsg struct{}

// exitMsg carries the child's wait result
type exitMsg struct {
	err error
}
