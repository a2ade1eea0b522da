package engine

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/restfake/restfake/pkg/store"
)

// NotFoundError reports a bad route: the endpoint pattern is not registered,
// or the registered handler set has no function bound to the verb.
type NotFoundError struct {
	Verb     string
	Endpoint string
}

func (e *NotFoundError) Error() string {
	if e.Verb != "" {
		return fmt.Sprintf("no %s handler registered for %s", e.Verb, e.Endpoint)
	}
	return fmt.Sprintf("endpoint %s is not registered", e.Endpoint)
}

// StatusCode returns the HTTP status code for this error.
func (e *NotFoundError) StatusCode() int {
	return http.StatusNotFound
}

// MissingError reports a bad id: the route resolved but the handler found
// no record. Same status as NotFoundError, distinct message, so diagnostics
// can tell bad-route from bad-id.
type MissingError struct {
	Verb     string
	Endpoint string
	ID       int
}

func (e *MissingError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("%s %s: record %d is missing", e.Verb, e.Endpoint, e.ID)
	}
	return fmt.Sprintf("%s %s: record is missing", e.Verb, e.Endpoint)
}

// StatusCode returns the HTTP status code for this error.
func (e *MissingError) StatusCode() int {
	return http.StatusNotFound
}

// ForbiddenError simulates a backend rejecting the caller. It is raised by
// custom handler code; the dispatcher only propagates it.
type ForbiddenError struct {
	Message string
}

// Forbidden returns a *ForbiddenError with the given message.
func Forbidden(message string) *ForbiddenError {
	if message == "" {
		message = "forbidden"
	}
	return &ForbiddenError{Message: message}
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status code for this error.
func (e *ForbiddenError) StatusCode() int {
	return http.StatusForbidden
}

// ServerError simulates a backend failure. It is raised by custom handler
// code; the dispatcher only propagates it.
type ServerError struct {
	Message string
}

// ServerFailure returns a *ServerError with the given message.
func ServerFailure(message string) *ServerError {
	if message == "" {
		message = "internal server error"
	}
	return &ServerError{Message: message}
}

func (e *ServerError) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status code for this error.
func (e *ServerError) StatusCode() int {
	return http.StatusInternalServerError
}

// StatusCodeError is the interface for errors that carry an HTTP status.
type StatusCodeError interface {
	error
	StatusCode() int
}

// Response is the envelope delivered on success.
type Response struct {
	Status int `json:"status"`
	Data   any `json:"data"`
}

// Error is the envelope delivered on rejection.
type Error struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// AsError shapes any dispatch failure into the rejection envelope. Errors
// carrying a status keep it unchanged; a data-layer not-found becomes a 404;
// everything else surfaces as a 500.
func AsError(err error) *Error {
	var sc StatusCodeError
	if errors.As(err, &sc) {
		return &Error{Status: sc.StatusCode(), Message: sc.Error()}
	}
	var nf *store.NotFoundError
	if errors.As(err, &nf) {
		return &Error{Status: http.StatusNotFound, Message: nf.Error()}
	}
	return &Error{Status: http.StatusInternalServerError, Message: err.Error()}
}
