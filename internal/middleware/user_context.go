package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

// UserEmailContextKey - ключ для email сотрудника в контексте запроса.
const UserEmailContextKey contextKey = "user_email"

// GetUserEmailFromContext возвращает email из контекста.
func GetUserEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(UserEmailContextKey).(string)
	return email, ok && email != ""
}

// AddUserEmailToContext извлекает email из JWT и кладёт в контекст.
// Если claim "email" нет, используется "sub".
func AddUserEmailToContext() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, _ := jwtauth.FromContext(r.Context())
			if claims == nil {
				next.ServeHTTP(w, r)
				return
			}

			email, _ := claims["email"].(string)
			if email == "" {
				email, _ = claims["sub"].(string)
			}
			email = strings.TrimSpace(email)

			if email != "" {
				ctx := context.WithValue(r.Context(), UserEmailContextKey, email)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}
