package middleware

import (
	"context"
	"net/http"
	"strings"

	"distance-tracker/internal/domain"
	"distance-tracker/internal/service"
)

const personContextKey contextKey = "person"

// Auth validates the bearer token and injects the person into the request
// context. Handlers behind it can assume PersonFromContext succeeds.
func Auth(auth *service.AuthService, unauthorized func(w http.ResponseWriter, msg string)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if token == "" {
				unauthorized(w, "missing authorization token")
				return
			}

			person, err := auth.VerifyToken(r.Context(), token)
			if err != nil {
				unauthorized(w, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), personContextKey, person)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func PersonFromContext(ctx context.Context) (*domain.Person, bool) {
	person, ok := ctx.Value(personContextKey).(*domain.Person)
	return person, ok
}
