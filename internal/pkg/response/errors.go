package response

import (
	"errors"
	"log"
	"net/http"

	"github.com/evn/shiftpass_backend/internal/models"
)

// StatusFor сопоставляет ошибку предметной области с HTTP-статусом.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrDuplicateOffer),
		errors.Is(err, models.ErrShiftLocked),
		errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, models.ErrInvalidState):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// RespondWithDomainError отвечает статусом по виду ошибки. Внутренние
// сбои логируются, а клиенту уходит общий текст.
func RespondWithDomainError(w http.ResponseWriter, err error) {
	code := StatusFor(err)
	if code == http.StatusInternalServerError {
		log.Printf("Internal error: %v", err)
		RespondWithError(w, code, "Internal server error")
		return
	}
	RespondWithError(w, code, err.Error())
}
