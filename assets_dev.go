//go:build dev

package main

import "io/fs"

// frontendFS returns nil in dev builds so the server proxies the UI to the
// Vite dev server at VITE_DEV_URL.
func frontendFS() (fs.FS, error) {
	return nil, nil
}
