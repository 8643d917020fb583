package zferr

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

const (
	CodeNotFound       = "NOT_FOUND"
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeConflict       = "CONFLICT"
	CodeUnavailable    = "UNAVAILABLE"
	CodeInternalError  = "INTERNAL_ERROR"
)

var (
	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = New(fiber.StatusNotFound, CodeNotFound, "resource not found with given parameters")

	// ErrInvalidReq is returned when a request is invalid.
	ErrInvalidReq = New(fiber.StatusBadRequest, CodeInvalidRequest, "invalid request: some or all request parameters are invalid")

	// ErrUnauthorized is returned when the bearer token is missing or unknown.
	ErrUnauthorized = New(fiber.StatusUnauthorized, CodeUnauthorized, "unauthorized: a valid bearer token is required")

	// ErrConflict is returned when a concurrent request holds the same resource.
	ErrConflict = New(fiber.StatusConflict, CodeConflict, "conflict: the resource is locked by another request")

	// ErrUnavailable is returned when an optional backend component is not configured.
	ErrUnavailable = New(fiber.StatusServiceUnavailable, CodeUnavailable, "service unavailable")

	// ErrInternalError is returned when an internal error occurs.
	ErrInternalError = New(fiber.StatusInternalServerError, CodeInternalError, "internal server error occurred")
)

type Extras map[string]any

type Error struct {
	StatusCode int    `example:"400"`
	ErrorCode  string `example:"INVALID_REQUEST"`
	Message    string `example:"invalid request: some or all request parameters are invalid"`
	Extras     *Extras
}

func New(statusCode int, errorCode string, message string) *Error {
	return &Error{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

func (e Error) Msg(format string, parts ...any) *Error {
	e.Message = fmt.Sprintf(format, parts...)
	return &e
}

func (e Error) WithExtras(extras Extras) *Error {
	e.Extras = &extras
	return &e
}

func NewInvalidViolations(violations any) *Error {
	// copy ErrInvalidReq as e
	e := *ErrInvalidReq
	e.Extras = &Extras{
		"violations": violations,
	}
	return &e
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.ErrorCode, e.Message)
}
