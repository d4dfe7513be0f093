//go:build !dev

package main

import (
	"embed"
	"io/fs"
)

// The frontend is built into frontend/dist by the bundler described in
// internal/buildconfig before `go build`.
//
//go:embed frontend/dist
var embeddedFrontend embed.FS

func frontendFS() (fs.FS, error) {
	return fs.Sub(embeddedFrontend, "frontend/dist")
}
