package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/evn/shiftpass_backend/internal/models"
	"github.com/evn/shiftpass_backend/internal/pkg/response"
)

type UserLister interface {
	List(ctx context.Context) ([]models.UserSummary, error)
}

// ListUsersHandler отдаёт сотрудников, из которых выбираются кандидаты.
func ListUsersHandler(users UserLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := users.List(r.Context())
		if err != nil {
			log.Printf("Error querying users: %v", err)
			response.RespondWithError(w, http.StatusInternalServerError, "Failed to query users")
			return
		}
		response.RespondWithJSON(w, http.StatusOK, list)
	}
}
