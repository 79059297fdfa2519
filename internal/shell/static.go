package shell

import (
	_ "embed"
	"net/http"

	"github.com/go-chi/chi/v5"
)

//go:embed static/manifest.json
var manifestJSON []byte

//go:embed static/client.js
var clientJS []byte

// RegisterRoutes mounts the shell's embedded assets on r.
func RegisterRoutes(r chi.Router) {
	r.Get("/manifest.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/manifest+json")
		w.Write(manifestJSON)
	})
	r.Get("/_docshell/client.js", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
		w.Write(clientJS)
	})
}
