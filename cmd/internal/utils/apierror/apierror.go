// Package apierror holds the errors services hand back to routes. Every
// value carries the HTTP status it should be written with.
package apierror

import (
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"net/http"
	"strings"
)

type ErrorResponse interface {
	error
	Code() int
}

type SimpleError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (e *SimpleError) Error() string { return e.Message }
func (e *SimpleError) Code() int     { return e.Status }

type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

type ValidationError struct {
	SimpleError
	Fields []FieldError `json:"fields"`
}

func NewSimple(status int, message string) *SimpleError {
	return &SimpleError{Status: status, Message: message}
}

func NewMissingParamError(name string) *SimpleError {
	return NewSimple(http.StatusBadRequest, fmt.Sprintf("Missing required parameter: %s", name))
}

// FromValidationError turns validator output into a 400 listing the
// offending json fields.
func FromValidationError(err error) ErrorResponse {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return MalformedBodyError
	}

	fields := make([]FieldError, len(verrs))
	names := make([]string, len(verrs))
	for i, fe := range verrs {
		fields[i] = FieldError{Field: fe.Field(), Rule: fe.Tag()}
		names[i] = fe.Field()
	}
	return &ValidationError{
		SimpleError: SimpleError{
			Status:  http.StatusBadRequest,
			Message: "Invalid or missing fields: " + strings.Join(names, ", "),
		},
		Fields: fields,
	}
}

var (
	MalformedBodyError   = NewSimple(http.StatusBadRequest, "Malformed request body")
	PasswordTooLongError = NewSimple(http.StatusBadRequest, "Password must be at most 72 bytes")

	// Same status and message whether the username or the password was wrong.
	InvalidCredentialsError = NewSimple(http.StatusBadRequest, "Invalid username or password")

	MissingAuthTokenError = NewSimple(http.StatusUnauthorized, "Access token required")
	InvalidAuthTokenError = NewSimple(http.StatusForbidden, "Invalid or expired token")

	ForbiddenError = NewSimple(http.StatusForbidden, "You are not allowed to perform this action")
	NotFoundError  = NewSimple(http.StatusNotFound, "Appointment not found")

	DuplicateUsernameError = NewSimple(http.StatusConflict, "Username already exists")
	SlotConflictError      = NewSimple(http.StatusConflict, "This time slot is already booked")

	TooManyRequestsError = NewSimple(http.StatusTooManyRequests, "Too many requests")
	InternalServerError  = NewSimple(http.StatusInternalServerError, "Internal server error")
)
