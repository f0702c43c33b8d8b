package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dom/locus-core/internal/api/middleware"
	"github.com/dom/locus-core/internal/service"
	"github.com/go-chi/chi/v5"
)

type EntryHandler struct {
	entryService *service.EntryService
}

func NewEntryHandler(entryService *service.EntryService) *EntryHandler {
	return &EntryHandler{entryService: entryService}
}

type CreateEntryResponse struct {
	ID string `json:"id"`
}

// Create appends an entry of the kind named in the path. The body is a flat
// object keyed by column name; numbers and booleans are accepted as-is.
func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	fields := make(map[string]string, len(body))
	for k, v := range body {
		fields[k] = cellText(v)
	}

	id, err := h.entryService.Create(r.Context(), session, chi.URLParam(r, "kind"), fields)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, CreateEntryResponse{ID: id})
}

func cellText(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}
