// Package web bundles the stylesheet and the live-update script served
// under /static.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var files embed.FS

// FS returns the static bundle rooted at its top directory
func FS() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic("web: static bundle missing: " + err.Error())
	}
	return sub
}

// Handler serves the static bundle
func Handler() http.Handler {
	return http.FileServer(http.FS(FS()))
}
