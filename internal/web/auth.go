package web

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/memora-app/memora/internal/config"
	"github.com/memora-app/memora/internal/errors"
)

type contextKey string

const userIDKey contextKey = "memora.user_id"

// authenticate validates the Authorization bearer token (HS256 JWT, user
// ID in the subject claim) and stores the user ID in the request context.
// With no JWT secret configured the server runs in local mode: every
// request is attributed to the configured default user.
func authenticate(cfg *config.Config) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.JWTSecret == "" {
				next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), cfg.DefaultUser)))
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				renderError(w, errors.NewUnauthorized("missing authorization header"))
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				renderError(w, errors.NewUnauthorized("invalid authorization header format"))
				return
			}

			userID, err := validateToken(parts[1], cfg.JWTSecret)
			if err != nil {
				renderError(w, errors.NewUnauthorized("invalid or expired token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), userID)))
		})
	}
}

// validateToken parses and verifies an HS256 token, returning the subject.
func validateToken(tokenString, secret string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return "", err
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", jwt.ErrTokenInvalidSubject
	}

	return subject, nil
}

// IssueToken signs a token for the given user ID. Used by the CLI to mint
// credentials for API access; there is no account system behind this.
func IssueToken(userID, secret string, ttlSeconds int64) (string, error) {
	claims := jwt.MapClaims{"sub": userID}
	if ttlSeconds != 0 {
		claims["exp"] = time.Now().Add(time.Duration(ttlSeconds) * time.Second).Unix()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func withUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// requestUserID extracts the authenticated user ID from the context.
func requestUserID(r *http.Request) string {
	userID, _ := r.Context().Value(userIDKey).(string)
	return userID
}
