//go:build !linux

package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(
		os.Stderr,
		"memwatch is only supported on Linux.\n\nIf you are seeing this message, you are attempting to build or run memwatch on a platform without procfs.\n\nPlease use Linux to build and run memwatch.",
	)
	os.Exit(1)
}
