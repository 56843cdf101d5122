// Package response builds the JSON envelope returned by every HTTP endpoint.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/shared"
)

// Transport-only statuses, produced before a service is reached.
const (
	StatusUnauthorized    = "unauthorized"
	StatusForbidden       = "forbidden"
	StatusTooManyRequests = "too_many_requests"
	StatusUnavailable     = "unavailable"
)

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// BaseResponse is the standard response format.
type BaseResponse struct {
	Status           string            `json:"status"`
	StatusCode       int               `json:"status_code"`
	IsSuccess        bool              `json:"is_success"`
	Message          string            `json:"message"`
	Data             any               `json:"data,omitempty"`
	Errors           []string          `json:"errors,omitempty"`
	ValidationErrors []ValidationError `json:"validation_errors,omitempty"`
}

// HTTPStatus maps a Result status to its HTTP status code. created turns a
// success into 201.
func HTTPStatus(status shared.Status, created bool) int {
	switch status {
	case shared.StatusSuccess:
		if created {
			return http.StatusCreated
		}
		return http.StatusOK
	case shared.StatusValidationError:
		return http.StatusBadRequest
	case shared.StatusNotFound:
		return http.StatusNotFound
	case shared.StatusConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// FromResult converts a service Result into the envelope.
func FromResult(r *shared.Result, created bool) BaseResponse {
	resp := BaseResponse{
		Status:     string(r.Status()),
		StatusCode: HTTPStatus(r.Status(), created),
		IsSuccess:  r.IsSuccess(),
		Message:    r.Message(),
		Data:       r.Data(),
		Errors:     r.Errors(),
	}
	for _, fe := range r.FieldErrors() {
		resp.ValidationErrors = append(resp.ValidationErrors, ValidationError(fe))
	}
	return resp
}

// Failure creates an error envelope that did not come from a service.
func Failure(statusCode int, status, message string) BaseResponse {
	return BaseResponse{Status: status, StatusCode: statusCode, Message: message}
}

// BadRequest creates a bad request response.
func BadRequest(message string, errs ...ValidationError) BaseResponse {
	resp := Failure(http.StatusBadRequest, string(shared.StatusValidationError), message)
	resp.ValidationErrors = errs
	return resp
}

// Unauthorized creates a 401 response.
func Unauthorized(message string) BaseResponse {
	return Failure(http.StatusUnauthorized, StatusUnauthorized, message)
}

// Forbidden creates a 403 response.
func Forbidden(message string) BaseResponse {
	return Failure(http.StatusForbidden, StatusForbidden, message)
}

// NotFound creates a not found response.
func NotFound(message string) BaseResponse {
	return Failure(http.StatusNotFound, string(shared.StatusNotFound), message)
}

// InternalError creates an internal server error response.
func InternalError(message string) BaseResponse {
	return Failure(http.StatusInternalServerError, string(shared.StatusError), message)
}

// Write serialises resp with its own status code.
func Write(w http.ResponseWriter, resp BaseResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(resp.StatusCode)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Debug().Err(err).Msg("Failed to write response body")
	}
}
