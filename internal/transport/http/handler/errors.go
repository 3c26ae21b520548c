package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-auth-api/internal/domain"
)

// httpError maps domain sentinel errors to HTTP responses. Anything
// unclassified is logged with its cause and surfaced as a generic 500 so
// internal details never reach the client.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, domain.ErrDuplicateEmail.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, domain.ErrInvalidCredentials.Error())
	case errors.Is(err, domain.ErrInvalidCode):
		writeError(w, http.StatusUnauthorized, domain.ErrInvalidCode.Error())
	case errors.Is(err, domain.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, domain.ErrInvalidToken.Error())
	case errors.Is(err, domain.ErrUserNotFound):
		writeError(w, http.StatusNotFound, domain.ErrUserNotFound.Error())
	default:
		slog.Error("unhandled error in request", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
