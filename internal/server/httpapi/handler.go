// Package httpapi exposes the authentication service over a JSON REST API.
package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ademidov/authgate/internal/logging"
	"github.com/ademidov/authgate/internal/server/services"
)

// Handler holds the auth-related HTTP handlers.
type Handler struct {
	users  *services.UserService
	logger logging.Logger
}

func NewHandler(users *services.UserService, logger logging.Logger) *Handler {
	return &Handler{users: users, logger: logger}
}

// SignUp handles POST /api/auth/signup.
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if msg := missingFields(map[string]string{
		"username": req.Username,
		"email":    req.Email,
		"password": req.Password,
	}); msg != "" {
		writeFail(w, http.StatusBadRequest, msg)
		return
	}

	user, token, err := h.users.SignUp(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.logger.Warn(r.Context(), "signup failed", "email", req.Email, "err", err)
		writeError(w, err)
		return
	}

	h.logger.Info(r.Context(), "user registered", "user_id", user.ID, "username", user.Username)
	writeUser(w, http.StatusCreated, token, user)
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if msg := missingFields(map[string]string{
		"email":    req.Email,
		"password": req.Password,
	}); msg != "" {
		writeFail(w, http.StatusBadRequest, msg)
		return
	}

	user, token, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Warn(r.Context(), "login failed", "err", err)
		writeError(w, err)
		return
	}

	h.logger.Info(r.Context(), "user logged in", "user_id", user.ID)
	writeUser(w, http.StatusOK, token, user)
}

// Me handles GET /api/auth/me. RequireAuth has already resolved the token
// to a user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeFail(w, http.StatusUnauthorized, msgNotLoggedIn)
		return
	}
	writeUser(w, http.StatusOK, "", user)
}

// Health handles GET /api/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// missingFields returns a validation message naming every empty field, or ""
// if all values are present. Fields are listed in a stable order.
func missingFields(fields map[string]string) string {
	order := []string{"username", "email", "password"}
	var missing []string
	for _, name := range order {
		if v, ok := fields[name]; ok && strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return ""
	}
	return fmt.Sprintf("Please provide %s", strings.Join(missing, ", "))
}
