package handlers

import (
	"net/http"

	"github.com/evn/shiftpass_backend/internal/middleware"
	"github.com/evn/shiftpass_backend/internal/pkg/response"
	"github.com/evn/shiftpass_backend/internal/services/shiftpass"
)

// GetProfileHandler - профиль текущего сотрудника
func GetProfileHandler(workers shiftpass.WorkerDirectory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, ok := middleware.GetUserEmailFromContext(r.Context())
		if !ok {
			response.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
			return
		}

		user, err := workers.FindByEmail(r.Context(), email)
		if err != nil {
			response.RespondWithDomainError(w, err)
			return
		}
		response.RespondWithJSON(w, http.StatusOK, user)
	}
}
