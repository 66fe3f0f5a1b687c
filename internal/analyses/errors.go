package analyses

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/clausewise/internal/workflow"
	"github.com/JaimeStill/clausewise/pkg/identity"
)

// Domain errors for analysis operations.
var (
	ErrNotFound        = errors.New("contract analysis not found")
	ErrDuplicate       = errors.New("contract analysis already exists")
	ErrInvalidID       = errors.New("invalid contract analysis id")
	ErrInvalidType     = errors.New("contract type is required")
	ErrInvalidFile     = errors.New("only PDF files are allowed")
	ErrMissingFile     = errors.New("no contract file uploaded")
	ErrFileTooLarge    = errors.New("file exceeds maximum upload size")
	ErrUploadNotFound  = errors.New("upload expired or not found")
	ErrUploadForbidden = errors.New("upload belongs to another owner")

	ErrAnalysisFailed  = errors.New("failed to analyze contract")
	ErrDetectionFailed = errors.New("failed to detect contract type")
	ErrUploadStorage   = errors.New("upload storage unavailable")
)

// failure reports a generic public message while keeping the workflow or
// storage cause reachable through errors.Is.
type failure struct {
	public error
	cause  error
}

func (f *failure) Error() string {
	return f.public.Error()
}

func (f *failure) Unwrap() []error {
	return []error{f.public, f.cause}
}

// MapHTTPStatus maps analysis domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUploadNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidID),
		errors.Is(err, ErrInvalidType),
		errors.Is(err, ErrInvalidFile),
		errors.Is(err, ErrMissingFile):
		return http.StatusBadRequest
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrUploadForbidden):
		return http.StatusForbidden
	case errors.Is(err, identity.ErrMissingIdentity):
		return http.StatusUnauthorized
	case errors.Is(err, workflow.ErrExtraction):
		return http.StatusUnprocessableEntity
	case errors.Is(err, workflow.ErrGeneration), errors.Is(err, workflow.ErrValidation):
		return http.StatusBadGateway
	case errors.Is(err, ErrUploadStorage):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
