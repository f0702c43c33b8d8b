package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dom/locus-core/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeServiceError maps a service error to its HTTP status.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
	case errors.Is(err, domain.ErrMissingToken):
		http.Error(w, "Authorization required", http.StatusUnauthorized)
	case errors.Is(err, domain.ErrSessionExpired):
		http.Error(w, "Session expired", http.StatusUnauthorized)
	case errors.Is(err, domain.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrWrongPassword):
		http.Error(w, "Old password is incorrect", http.StatusForbidden)
	case errors.Is(err, domain.ErrUnauthorized):
		http.Error(w, "Not allowed", http.StatusForbidden)
	case errors.Is(err, domain.ErrRecordNotFound):
		http.Error(w, "Record not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrUnknownTable):
		http.Error(w, "Unknown record type", http.StatusNotFound)
	case errors.Is(err, domain.ErrIDConflict):
		http.Error(w, "Identifier already taken, retry", http.StatusConflict)
	default:
		slog.Error("Request failed", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
