package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

type contextKey string

const adminEmailKey contextKey = "admin_email"

// AdminAuthMiddleware accepts requests carrying a valid HS256 bearer token
// signed with secret.
func AdminAuthMiddleware(secret string) func(http.Handler) http.Handler {
	key := []byte(secret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") || len(key) == 0 {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims := jwt.MapClaims{}
			_, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims,
				func(*jwt.Token) (any, error) { return key, nil },
				jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
				jwt.WithExpirationRequired(),
			)
			if err != nil {
				log.Debug().Err(err).Msg("Rejected admin token")
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			email, _ := claims["email"].(string)
			ctx := context.WithValue(r.Context(), adminEmailKey, email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminEmail returns the email of the admin authenticated for ctx.
func AdminEmail(ctx context.Context) string {
	email, _ := ctx.Value(adminEmailKey).(string)
	return email
}
