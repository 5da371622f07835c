package api

import (
	"errors"
	"net/http"

	"github.com/samcharles93/caff2jpg/internal/convert"
	"github.com/samcharles93/caff2jpg/pkg/caff"
)

var ErrInvalidRequest = errors.New("invalid_request")

type invalidRequestError struct {
	msg string
}

func (e invalidRequestError) Error() string {
	return e.msg
}

func (e invalidRequestError) Unwrap() error {
	return ErrInvalidRequest
}

func newInvalidRequest(msg string) error {
	return invalidRequestError{msg: msg}
}

type ErrorBody struct {
	Message   string `json:"message"`
	Type      string `json:"type"`
	RequestID string `json:"request_id,omitempty"`
}

// classify maps a conversion error to an HTTP status and error type.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest, "invalid_request_error"
	case errors.Is(err, errUnknownKind):
		return http.StatusNotFound, "not_found_error"
	case errors.Is(err, errBodyTooLarge):
		return http.StatusRequestEntityTooLarge, "body_too_large"
	case errors.Is(err, caff.ErrSize):
		return http.StatusRequestEntityTooLarge, "size_error"
	case errors.Is(err, caff.ErrTruncated):
		return http.StatusUnprocessableEntity, "truncated_input"
	case errors.Is(err, caff.ErrFormat):
		return http.StatusUnprocessableEntity, "format_error"
	case errors.Is(err, caff.ErrNoFrames), errors.Is(err, convert.ErrDimensions):
		return http.StatusUnprocessableEntity, "unencodable_image"
	default:
		return http.StatusInternalServerError, "server_error"
	}
}
