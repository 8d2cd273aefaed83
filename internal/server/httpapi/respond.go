package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ademidov/authgate/internal/common"
	"github.com/ademidov/authgate/internal/server/models"
)

// Response messages. The unauthorized and conflict texts are deliberately
// identical for every underlying cause so that error bodies cannot be used
// to enumerate accounts or probe token internals.
const (
	msgAlreadyExists = "User with this email or username already exists"
	msgBadLogin      = "Incorrect email or password"
	msgNotLoggedIn   = "You are not logged in"
	msgInvalidToken  = "Invalid token"
	msgInternal      = "Something went wrong"
)

// envelope is the JSON body shape shared by all endpoints:
// {status:"success", token?, data?} or {status:"fail", message}.
type envelope struct {
	Status  string `json:"status"`
	Token   string `json:"token,omitempty"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type userPayload struct {
	User *models.User `json:"user"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeUser(w http.ResponseWriter, code int, token string, user *models.User) {
	writeJSON(w, code, envelope{
		Status: "success",
		Token:  token,
		Data:   userPayload{User: user},
	})
}

func writeFail(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, envelope{Status: "fail", Message: message})
}

// writeError is the single translation point from the error taxonomy to
// HTTP status codes and envelope messages. Nothing else in the package maps
// service errors to responses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrorAlreadyExists):
		writeFail(w, http.StatusBadRequest, msgAlreadyExists)
	case errors.Is(err, common.ErrorUnauthorized):
		writeFail(w, http.StatusUnauthorized, msgBadLogin)
	case errors.Is(err, common.ErrMissingToken):
		writeFail(w, http.StatusUnauthorized, msgNotLoggedIn)
	case errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrBadSignature),
		errors.Is(err, common.ErrMalformedToken):
		writeFail(w, http.StatusUnauthorized, msgInvalidToken)
	default:
		writeFail(w, http.StatusInternalServerError, msgInternal)
	}
}
