package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/voyago/travel-gateway/internal/domain"
	"github.com/voyago/travel-gateway/pkg/logger"
)

// Envelope is the success shape every endpoint returns: the human-readable
// trace of queries executed plus the payload.
type Envelope struct {
	Context domain.Context `json:"context"`
	Data    interface{}    `json:"data"`
}

// Failure is the error shape: a message and a 4xx/5xx status.
type Failure struct {
	Message string `json:"message"`
}

// OK writes the success envelope. A nil trace is rendered as an empty list
// so the context key is always present.
func OK(w http.ResponseWriter, statusCode int, data interface{}, trace domain.Context) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if trace == nil {
		trace = domain.Context{}
	}
	if err := json.NewEncoder(w).Encode(Envelope{Context: trace, Data: data}); err != nil {
		logger.Error("failed to encode response envelope", "error", err)
	}
}

// Fail writes the error shape.
func Fail(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(Failure{Message: message}); err != nil {
		logger.Error("failed to encode error response", "error", err)
	}
}

// FromError maps a domain error onto its HTTP status. Credential and token
// failures are 401, a signup conflict is 409, anything unclassified is a
// 500 so storage trouble is never mistaken for bad credentials.
func FromError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrPasswordMismatch),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrInvalidUserToken):
		Fail(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrUserAlreadyExists):
		Fail(w, http.StatusConflict, err.Error())
	default:
		Fail(w, http.StatusInternalServerError, err.Error())
	}
}
