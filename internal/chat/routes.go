package chat

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the chatbot endpoints on the given router.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/api/chatbot", func(r chi.Router) {
		r.Post("/", handleChat(svc))
		r.Get("/{sessionID}", handleTranscript(svc))
	})
}

func handleChat(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, Response{Error: "Invalid request body"})
			return
		}

		reply, err := svc.Reply(r.Context(), req.SessionID, req.Message)
		switch {
		case errors.Is(err, ErrEmptyMessage), errors.Is(err, ErrInvalidSession):
			writeJSON(w, http.StatusBadRequest, Response{Error: userMessage(err)})
			return
		case errors.Is(err, ErrNotConfigured):
			writeJSON(w, http.StatusServiceUnavailable, Response{Error: userMessage(err)})
			return
		case err != nil:
			log.Printf("chat: %v", err)
			writeJSON(w, http.StatusInternalServerError, Response{Error: err.Error()})
			return
		}

		writeJSON(w, http.StatusOK, Response{
			Success:      true,
			Response:     reply.Text,
			ResponseHTML: reply.HTML,
			SessionID:    reply.SessionID,
		})
	}
}

// Messages shown to the user for validation failures.
const (
	msgMessageRequired = "Message is required"
	msgInvalidSession  = "Invalid session_id"
	msgNotConfigured   = "Chatbot is not configured"
)

func userMessage(err error) string {
	switch {
	case errors.Is(err, ErrEmptyMessage):
		return msgMessageRequired
	case errors.Is(err, ErrInvalidSession):
		return msgInvalidSession
	case errors.Is(err, ErrNotConfigured):
		return msgNotConfigured
	}
	return err.Error()
}

func handleTranscript(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		messages, err := svc.Transcript(r.Context(), chi.URLParam(r, "sessionID"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if len(messages) == 0 {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, messages)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
