// Package shared provides building blocks reused by every domain module:
// the Result outcome type, field errors, common rules and the DAO contract.
package shared

import "encoding/json"

// Status tags the outcome of a business operation.
type Status string

// Result statuses.
const (
	StatusSuccess         Status = "success"
	StatusValidationError Status = "validation_error"
	StatusNotFound        Status = "not_found"
	StatusConflict        Status = "conflict"
	StatusError           Status = "error"
)

// Result is the uniform outcome returned by every service operation.
// It is immutable once constructed.
type Result struct {
	status      Status
	message     string
	data        any
	errors      []string
	fieldErrors []FieldError
}

// Success creates a successful result carrying data.
func Success(data any, message string) *Result {
	if message == "" {
		message = "Operación exitosa"
	}
	return &Result{status: StatusSuccess, data: data, message: message}
}

// Invalid creates a validation_error result from field-level errors.
// The error list keeps the order in which the rules were evaluated.
func Invalid(message string, fieldErrors []FieldError) *Result {
	errs := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		errs = append(errs, fe.Message)
	}
	return &Result{
		status:      StatusValidationError,
		message:     message,
		errors:      errs,
		fieldErrors: append([]FieldError(nil), fieldErrors...),
	}
}

// ValidationError creates a validation_error result from plain messages.
func ValidationError(message string, errs ...string) *Result {
	return &Result{status: StatusValidationError, message: message, errors: append([]string(nil), errs...)}
}

// NotFound creates a not_found result.
func NotFound(message string) *Result {
	if message == "" {
		message = "Recurso no encontrado"
	}
	return &Result{status: StatusNotFound, message: message}
}

// Conflict creates a conflict result.
func Conflict(message string, errs ...string) *Result {
	return &Result{status: StatusConflict, message: message, errors: append([]string(nil), errs...)}
}

// Error creates an error result for unexpected or storage faults.
func Error(message string, errs ...string) *Result {
	return &Result{status: StatusError, message: message, errors: append([]string(nil), errs...)}
}

// Status returns the status tag.
func (r *Result) Status() Status { return r.status }

// Message returns the human readable message.
func (r *Result) Message() string { return r.message }

// Data returns the payload, if any.
func (r *Result) Data() any { return r.data }

// Errors returns a copy of the error list.
func (r *Result) Errors() []string { return append([]string(nil), r.errors...) }

// FieldErrors returns a copy of the field-level errors.
func (r *Result) FieldErrors() []FieldError { return append([]FieldError(nil), r.fieldErrors...) }

// IsSuccess reports whether the operation succeeded.
func (r *Result) IsSuccess() bool { return r.status == StatusSuccess }

// IsError reports whether the result represents a failure the caller must act on.
func (r *Result) IsError() bool {
	switch r.status {
	case StatusError, StatusValidationError, StatusConflict:
		return true
	default:
		return false
	}
}

// MarshalJSON renders the result as {status, message, data?, errors?}.
func (r *Result) MarshalJSON() ([]byte, error) {
	out := struct {
		Status  Status   `json:"status"`
		Message string   `json:"message"`
		Data    any      `json:"data,omitempty"`
		Errors  []string `json:"errors,omitempty"`
	}{
		Status:  r.status,
		Message: r.message,
		Data:    r.data,
		Errors:  r.errors,
	}
	return json.Marshal(out)
}
