package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/ademidov/authgate/internal/common"
	"github.com/ademidov/authgate/internal/logging"
	"github.com/ademidov/authgate/internal/server/models"
	"github.com/ademidov/authgate/internal/server/services"
)

type ctxKey string

const userKey ctxKey = "user"

// UserFromContext returns the authenticated user injected by RequireAuth.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok
}

// RequireAuth validates the bearer token on the request and injects the
// resolved user into the request context. A missing Authorization header is
// the only failure reported with a specific message; every defect in a
// presented token yields the same "Invalid token" response.
func RequireAuth(users *services.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if err != nil {
				writeError(w, err)
				return
			}

			user, err := users.Identify(r.Context(), token)
			if err != nil {
				writeError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", common.ErrMissingToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", common.ErrMalformedToken
	}
	return parts[1], nil
}

// LogRequests logs method, path, status and duration of every request.
func LogRequests(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			logger.Info(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"duration", time.Since(start).String(),
			)
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
