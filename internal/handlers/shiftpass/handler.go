package shiftpass

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/evn/shiftpass_backend/internal/middleware"
	"github.com/evn/shiftpass_backend/internal/models"
	"github.com/evn/shiftpass_backend/internal/pkg/response"
	"github.com/evn/shiftpass_backend/internal/services/report"
	services "github.com/evn/shiftpass_backend/internal/services/shiftpass"
	"github.com/go-chi/chi/v5"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ShiftPassHandler struct {
	service *services.Service
}

func NewShiftPassHandler(service *services.Service) *ShiftPassHandler {
	return &ShiftPassHandler{service: service}
}

// CreateShiftPass - POST /api/shifts/pass
func (h *ShiftPassHandler) CreateShiftPass(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmailFromContext(r.Context())
	if !ok {
		response.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req models.ShiftPassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.ShiftID <= 0 {
		response.RespondWithError(w, http.StatusBadRequest, "shift_id is required")
		return
	}

	pass, err := h.service.Create(r.Context(), req.ShiftID, email, req.OfferedUsers)
	if err != nil {
		response.RespondWithDomainError(w, err)
		return
	}
	response.RespondWithJSON(w, http.StatusOK, pass)
}

// GetShiftPass - GET /api/shifts/pass/{id}
func (h *ShiftPassHandler) GetShiftPass(w http.ResponseWriter, r *http.Request) {
	id, ok := passID(w, r)
	if !ok {
		return
	}

	pass, err := h.service.Get(r.Context(), id)
	if err != nil {
		response.RespondWithDomainError(w, err)
		return
	}
	response.RespondWithJSON(w, http.StatusOK, pass)
}

// AcceptShiftPass - POST /api/shifts/pass/{id}/accept?location_id=N
func (h *ShiftPassHandler) AcceptShiftPass(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmailFromContext(r.Context())
	if !ok {
		response.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}
	id, ok := passID(w, r)
	if !ok {
		return
	}

	locationID, err := strconv.ParseInt(r.URL.Query().Get("location_id"), 10, 64)
	if err != nil || locationID <= 0 {
		log.Printf("Invalid location ID format: %q", r.URL.Query().Get("location_id"))
		response.RespondWithError(w, http.StatusBadRequest, "Invalid location_id")
		return
	}

	pass, err := h.service.Accept(r.Context(), id, email, locationID)
	if err != nil {
		response.RespondWithDomainError(w, err)
		return
	}
	response.RespondWithJSON(w, http.StatusOK, pass)
}

// CancelShiftPass - DELETE /api/shifts/pass/{id}
func (h *ShiftPassHandler) CancelShiftPass(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmailFromContext(r.Context())
	if !ok {
		response.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}
	id, ok := passID(w, r)
	if !ok {
		return
	}

	res, err := h.service.Cancel(r.Context(), id, email)
	if err != nil {
		response.RespondWithDomainError(w, err)
		return
	}
	response.RespondWithJSON(w, http.StatusOK, models.ShiftPassActionResponse{
		UserEmail:       email,
		OriginalShiftID: res.OriginalShiftID,
		ShiftPassID:     res.ShiftPassID,
		Message:         "Shift Pass deleted successfully",
	})
}

// GetOfferedShiftPasses - GET /api/shifts/pass/offered
func (h *ShiftPassHandler) GetOfferedShiftPasses(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmailFromContext(r.Context())
	if !ok {
		response.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	passes, err := h.service.ListOffered(r.Context(), email)
	if err != nil {
		response.RespondWithDomainError(w, err)
		return
	}
	response.RespondWithJSON(w, http.StatusOK, passes)
}

// GetCreatedShiftPasses - GET /api/shifts/pass/created
func (h *ShiftPassHandler) GetCreatedShiftPasses(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmailFromContext(r.Context())
	if !ok {
		response.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	passes, err := h.service.ListCreated(r.Context(), email)
	if err != nil {
		response.RespondWithDomainError(w, err)
		return
	}
	response.RespondWithJSON(w, http.StatusOK, passes)
}

// ExportShiftPasses - GET /api/shifts/pass/export
func (h *ShiftPassHandler) ExportShiftPasses(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmailFromContext(r.Context())
	if !ok {
		response.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	offered, err := h.service.ListOffered(r.Context(), email)
	if err != nil {
		response.RespondWithDomainError(w, err)
		return
	}
	created, err := h.service.ListCreated(r.Context(), email)
	if err != nil {
		response.RespondWithDomainError(w, err)
		return
	}

	// Книга собирается целиком, чтобы ошибку можно было вернуть как JSON.
	var buf bytes.Buffer
	if err := report.WriteShiftPasses(&buf, offered, created); err != nil {
		log.Printf("[%s] Error building export: %v", email, err)
		response.RespondWithError(w, http.StatusInternalServerError, "Failed to build export")
		return
	}

	filename := fmt.Sprintf("shift_passes_%s.xlsx", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func passID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		response.RespondWithError(w, http.StatusBadRequest, "Invalid shift pass ID")
		return 0, false
	}
	return id, true
}
