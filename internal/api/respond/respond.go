package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/AFARIMINTAH/Safehaven/internal/model"
)

// Error codes carried in ErrorResponse.Code.
const (
	CodeBadRequest         = "bad_request"
	CodeValidation         = "validation_error"
	CodeConflict           = "conflict"
	CodeInvalidCredentials = "invalid_credentials"
	CodeUnauthorized       = "unauthorized"
	CodeForbidden          = "forbidden"
	CodeNotFound           = "not_found"
	CodeRateLimited        = "rate_limited"
	CodeUpstream           = "upstream_error"
	CodeInternal           = "internal_error"
)

// ErrorResponse is the JSON body of every non-2xx response. Error and Msg carry the
// same text so clients reading either field keep working.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Msg     string      `json:"msg"`
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// WriteError writes a standardized error response
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details interface{}) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error:   message,
		Msg:     message,
		Code:    code,
		Details: details,
	})
}

// WriteBadRequest writes a 400 Bad Request response
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, CodeBadRequest, message, nil)
}

// WriteInternalError writes a 500 Internal Server Error response
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, CodeInternal, message, nil)
}

// WriteServiceError maps a service-layer error to its HTTP status and body.
// fallback is the message used for unclassified failures; their cause is logged, not returned.
func WriteServiceError(w http.ResponseWriter, err error, fallback string) {
	var (
		ve model.ValidationError
		ce model.ConflictError
		ne model.NotFoundError
		ue model.UnauthorizedError
		fe model.ForbiddenError
	)
	switch {
	case errors.As(err, &ve):
		WriteError(w, http.StatusBadRequest, CodeValidation, ve.Message, map[string]string{"field": ve.Field})
	case errors.As(err, &ce):
		WriteError(w, http.StatusBadRequest, CodeConflict, ce.Message, nil)
	case model.IsInvalidCredentialsError(err):
		WriteError(w, http.StatusBadRequest, CodeInvalidCredentials, model.InvalidCredentialsError{}.Error(), nil)
	case errors.As(err, &ue):
		WriteError(w, http.StatusUnauthorized, CodeUnauthorized, ue.Message, nil)
	case errors.As(err, &fe):
		WriteError(w, http.StatusForbidden, CodeForbidden, fe.Message, nil)
	case errors.As(err, &ne):
		WriteError(w, http.StatusNotFound, CodeNotFound, ne.Message, nil)
	default:
		if up, ok := model.AsUpstreamError(err); ok {
			log.Error().Err(err).Msg("completion upstream failure")
			var details interface{}
			if up.Details != "" {
				details = up.Details
			}
			WriteError(w, http.StatusInternalServerError, CodeUpstream, up.Message, details)
			return
		}
		log.Error().Stack().Err(err).Msg(fallback)
		WriteInternalError(w, fallback)
	}
}
