// pkg/server/router.go
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter assembles the HTTP surface of the service
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(corsMiddleware)

	r.Get("/", h.handleRoot)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/upload", h.handleUpload)
	r.Post("/generate-demo", h.handleGenerateDemo)
	r.Post("/ai-analyze/{account_id}", func(w http.ResponseWriter, r *http.Request) {
		h.handleDeepDive(w, r, chi.URLParam(r, "account_id"))
	})

	return r
}
