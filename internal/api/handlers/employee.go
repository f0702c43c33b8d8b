package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/dom/locus-core/internal/api/middleware"
	"github.com/dom/locus-core/internal/service"
)

type EmployeeHandler struct {
	employeeService *service.EmployeeService
}

func NewEmployeeHandler(employeeService *service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

type CreateEmployeeRequest struct {
	Name   string `json:"name"`
	Branch string `json:"branch"`
	Role   string `json:"role"`
}

type CreateEmployeeResponse struct {
	Code     string `json:"code"`
	Password string `json:"password"`
}

func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.employeeService.Add(r.Context(), session, service.NewEmployeeInput{
		Name:   req.Name,
		Branch: req.Branch,
		Role:   req.Role,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, CreateEmployeeResponse{
		Code:     result.Code,
		Password: result.Password,
	})
}
