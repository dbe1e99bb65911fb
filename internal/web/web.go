// Package web serves the embedded single-page UI.
package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
)

//go:embed static
var staticFS embed.FS

// RegisterRoutes mounts the UI at the router root
func RegisterRoutes(r chi.Router) {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// embedded content is fixed at compile time, this cannot happen
		panic(err)
	}

	fileServer := http.FileServer(http.FS(sub))

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.ServeFileFS(w, req, sub, "index.html")
	})
	r.Get("/static/*", http.StripPrefix("/static/", fileServer).ServeHTTP)
}
