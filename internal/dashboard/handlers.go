package dashboard

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/ezlaw/ezlaw/internal/jsonvalue"
	"github.com/ezlaw/ezlaw/internal/render"
)

// statusResponse is the JSON response for the status endpoint.
type statusResponse struct {
	DatasetID   int  `json:"dataset_id"`
	ChatEnabled bool `json:"chat_enabled"`
}

// renderResponse is the JSON response for POST /api/render.
type renderResponse struct {
	Success bool   `json:"success"`
	Markup  string `json:"markup,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (d *Dashboard) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		DatasetID:   d.datasetID,
		ChatEnabled: d.chatEnabled,
	})
}

// handleRender turns the JSON request body into display markup. The
// optional title query parameter becomes the document header.
func (d *Dashboard) handleRender(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRenderBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, renderResponse{Error: "Document too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, renderResponse{Error: "Failed to read request body"})
		return
	}

	v, err := jsonvalue.Parse(body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, renderResponse{Error: "Invalid JSON: " + err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, renderResponse{
		Success: true,
		Markup:  render.RenderDocument(v, r.URL.Query().Get("title")),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
