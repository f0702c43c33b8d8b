package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dom/locus-core/internal/api/middleware"
	"github.com/dom/locus-core/internal/domain"
	"github.com/dom/locus-core/internal/service"
)

const actionVerifyHandshake = "verifyHandshakeToken"

type HandshakeHandler struct {
	handshakeService *service.HandshakeService
}

func NewHandshakeHandler(handshakeService *service.HandshakeService) *HandshakeHandler {
	return &HandshakeHandler{handshakeService: handshakeService}
}

type IssueHandshakeResponse struct {
	HandshakeToken string `json:"handshakeToken"`
}

type VerifyHandshakeRequest struct {
	Token string `json:"token"`
}

// VerifyHandshakeResponse carries a null user when the token is unknown,
// expired or already used.
type VerifyHandshakeResponse struct {
	User *domain.Session `json:"user"`
}

// ActionRequest is the peer-facing envelope: {"action": "...", ...}.
type ActionRequest struct {
	Action string `json:"action"`
	Token  string `json:"token"`
}

type ActionError struct {
	Error string `json:"error"`
}

func (h *HandshakeHandler) Issue(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.GetToken(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	handshake, err := h.handshakeService.Issue(r.Context(), token)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, IssueHandshakeResponse{HandshakeToken: handshake})
}

func (h *HandshakeHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyHandshakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, VerifyHandshakeResponse{
		User: h.handshakeService.Redeem(r.Context(), req.Token),
	})
}

// Exec serves the action-dispatch contract used by peer applications. Every
// failure is reported as a JSON error object.
func (h *HandshakeHandler) Exec(w http.ResponseWriter, r *http.Request) {
	var req ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ActionError{Error: "Invalid request body"})
		return
	}

	switch req.Action {
	case actionVerifyHandshake:
		writeJSON(w, http.StatusOK, VerifyHandshakeResponse{
			User: h.handshakeService.Redeem(r.Context(), req.Token),
		})
	case "":
		writeJSON(w, http.StatusBadRequest, ActionError{Error: "Missing action"})
	default:
		writeJSON(w, http.StatusBadRequest, ActionError{Error: fmt.Sprintf("Unknown action: %s", req.Action)})
	}
}
