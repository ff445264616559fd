package services

import "errors"

// ErrNotFound covers a missing post or attachment, and an attachment that
// exists but belongs to another post.
var ErrNotFound = errors.New("record not found")

// ErrFileTooLarge is returned when an upload exceeds MaxUploadBytes.
var ErrFileTooLarge = errors.New("file too large")

// ValidationError reports missing or malformed required input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validation(message string) error {
	return &ValidationError{Message: message}
}

// AsValidation reports whether err is a ValidationError and returns it.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
