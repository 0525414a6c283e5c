package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/appdotbuilder/invoice-manager-internal/internal/apperr"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	var body []byte
	var err error
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			// best-effort error response; avoid writing partial JSON
			http.Error(w, `{"error":"encode_error"}`, http.StatusInternalServerError)
			return
		}
	} else {
		body = []byte("null")
	}
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		// nothing we can do at this point
		_ = err
	}
}

func JSONError(w http.ResponseWriter, status int, msg string, details any) {
	JSON(w, status, ErrorResponse{Error: msg, Details: details})
}

// Error maps the apperr taxonomy onto HTTP statuses. Anything outside the
// taxonomy is a 500 with a generic body.
func Error(w http.ResponseWriter, err error) {
	var ve *apperr.ValidationError
	switch {
	case apperr.IsNotFound(err):
		JSONError(w, http.StatusNotFound, err.Error(), nil)
	case apperr.IsConflict(err):
		JSONError(w, http.StatusConflict, err.Error(), nil)
	case errors.As(err, &ve):
		JSONError(w, http.StatusBadRequest, "validation_failed", ve.Violations)
	case errors.Is(err, apperr.ErrInvalidCredentials):
		JSONError(w, http.StatusUnauthorized, "invalid_credentials", nil)
	default:
		JSONError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}
