// Package dashboard serves the browser page and the markup endpoint it
// renders documents through.
package dashboard

import (
	"github.com/go-chi/chi/v5"
)

// maxRenderBody caps the JSON accepted by POST /api/render.
const maxRenderBody = 64 << 20

// Dashboard provides the law viewer page.
type Dashboard struct {
	datasetID   int
	chatEnabled bool
}

// New creates a Dashboard. chatEnabled reports whether the chatbot has a
// provider behind it; the page hides the chat box otherwise.
func New(datasetID int, chatEnabled bool) *Dashboard {
	return &Dashboard{
		datasetID:   datasetID,
		chatEnabled: chatEnabled,
	}
}

// RegisterRoutes mounts all dashboard routes onto the given router.
func (d *Dashboard) RegisterRoutes(r chi.Router) {
	r.Get("/", d.ServeIndex)
	r.Get("/api/dashboard/status", d.handleStatus)
	r.Post("/api/render", d.handleRender)
}
