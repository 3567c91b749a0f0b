package shift

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/evn/shiftpass_backend/internal/middleware"
	"github.com/evn/shiftpass_backend/internal/models"
	"github.com/evn/shiftpass_backend/internal/pkg/response"
	services "github.com/evn/shiftpass_backend/internal/services/shift"
	"github.com/go-chi/chi/v5"
)

type ShiftHandler struct {
	service *services.Service
}

func NewShiftHandler(service *services.Service) *ShiftHandler {
	return &ShiftHandler{service: service}
}

// GetShifts - смены текущего сотрудника.
func (h *ShiftHandler) GetShifts(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmailFromContext(r.Context())
	if !ok {
		response.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	shifts, err := h.service.List(r.Context(), email)
	if err != nil {
		response.RespondWithDomainError(w, err)
		return
	}
	response.RespondWithJSON(w, http.StatusOK, shifts)
}

func (h *ShiftHandler) CreateShift(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmailFromContext(r.Context())
	if !ok {
		response.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req models.ShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	shift, err := h.service.Create(r.Context(), email, req)
	if err != nil {
		response.RespondWithDomainError(w, err)
		return
	}
	response.RespondWithJSON(w, http.StatusCreated, shift)
}

func (h *ShiftHandler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmailFromContext(r.Context())
	if !ok {
		response.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}
	id, ok := shiftID(w, r)
	if !ok {
		return
	}

	var req models.ShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	shift, err := h.service.Update(r.Context(), email, id, req)
	if err != nil {
		response.RespondWithDomainError(w, err)
		return
	}
	response.RespondWithJSON(w, http.StatusOK, shift)
}

func (h *ShiftHandler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmailFromContext(r.Context())
	if !ok {
		response.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}
	id, ok := shiftID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), email, id); err != nil {
		response.RespondWithDomainError(w, err)
		return
	}
	response.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// GetLocations - активные локации текущего сотрудника.
func (h *ShiftHandler) GetLocations(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmailFromContext(r.Context())
	if !ok {
		response.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	locations, err := h.service.Locations(r.Context(), email)
	if err != nil {
		response.RespondWithDomainError(w, err)
		return
	}
	response.RespondWithJSON(w, http.StatusOK, locations)
}

func shiftID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		response.RespondWithError(w, http.StatusBadRequest, "Invalid shift ID")
		return 0, false
	}
	return id, true
}
