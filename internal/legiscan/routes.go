package legiscan

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// RegisterRoutes mounts the dataset endpoints on the given router.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/api/get-laws", handleGetLaws(svc))
	r.Get("/api/get-laws/history", handleHistory(svc))
}

func handleGetLaws(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := svc.GetLaws(r.Context())
		if err != nil {
			writeJSON(w, StatusOf(err), errorResponse{Success: false, Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func handleHistory(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 20
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				limit = n
			}
		}

		fetches, err := svc.History(r.Context(), limit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, fetches)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
