// Package ui holds the browser client. The files under static/ are compiled
// into the binary.
package ui

import (
	"embed"
	"io/fs"
)

//go:embed static
var files embed.FS

// Static returns the client assets rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
