package blobapi

import "net/http"

// Error A server-side error with a corresponding code
type Error struct {
	HTTPStatus int
	Message    string
}

var (
	// ErrInvalidKey - blob key is empty or contains whitespace
	ErrInvalidKey = &Error{
		HTTPStatus: http.StatusBadRequest,
		Message:    "Invalid blob key",
	}
	// ErrReadingInput - I/O error reading the request body
	ErrReadingInput = &Error{
		HTTPStatus: http.StatusBadRequest,
		Message:    "Error reading request input",
	}
)

func (e *Error) Error() string {
	return e.Message
}
