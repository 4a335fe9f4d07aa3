//go:build linux

package main

import "github.com/pranshuparmar/memwatch/internal/app"

func main() {
	app.Execute()
}
