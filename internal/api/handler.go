// Package api exposes the card lookup surface over HTTP. It is read-only
// and serves the same answers as the Telegram bot.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ovoronin/cardvault/internal/query"
	"github.com/ovoronin/cardvault/internal/storage"
)

type cardResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
	Estimate string `json:"estimate,omitempty"`
	NoSignal bool   `json:"no_signal,omitempty"`
	Link     string `json:"link"`
}

// NewHandler builds the HTTP router over a query service.
func NewHandler(svc *query.Service) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	r.Get("/cards/{id}", handleGetCard(svc))

	return r
}

func handleGetCard(svc *query.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := query.ParseID(chi.URLParam(r, "id"))
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "card id must be an integer")
			return
		}

		answer, err := svc.Lookup(id)
		switch {
		case errors.Is(err, query.ErrInvalidID):
			httpError(w, http.StatusBadRequest, "invalid_request_error", "card id out of range")
			return
		case errors.Is(err, storage.ErrNotFound):
			httpError(w, http.StatusNotFound, "not_found_error",
				"card %d is not in the database; it may have been deleted (%s)", id, svc.CardLink(id))
			return
		case err != nil:
			slog.Error("card lookup failed", "card_id", id, "error", err)
			httpError(w, http.StatusInternalServerError, "api_error", "lookup failed")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(cardResponse{
			ID:       answer.Card.ID,
			Name:     answer.Card.Name,
			ImageURL: answer.Card.ImageURL,
			Estimate: answer.Estimate,
			NoSignal: answer.Estimate == "",
			Link:     answer.Link,
		})
	}
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
