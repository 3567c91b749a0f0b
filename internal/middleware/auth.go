package middleware

import (
	"net/http"

	"github.com/evn/shiftpass_backend/internal/pkg/response"
)

// RequireUserEmail пропускает только запросы, в контексте которых есть email
// сотрудника.
func RequireUserEmail() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := GetUserEmailFromContext(r.Context()); !ok {
				response.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
