package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-builder/internal/chat"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/fetch"
	"github.com/jonathan/resume-builder/internal/generation"
	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/jonathan/resume-builder/internal/schemas"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr   *ErrValidation
		schemaErr       *schemas.ValidationError
		preconditionErr *generation.PreconditionNotMetError
		inFlightErr     *generation.InFlightError
		fetchErr        *fetch.Error
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &schemaErr), errors.Is(err, chat.ErrEmptyMessage),
		errors.Is(err, resume.ErrDuplicateID):
		return http.StatusBadRequest
	case errors.Is(err, resume.ErrInvalidPath), errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &preconditionErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &inFlightErr):
		return http.StatusConflict
	case errors.Is(err, generation.ErrGenerationFailed), errors.As(err, &fetchErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ErrorBody is the JSON shape of every error response
type ErrorBody struct {
	Error  string   `json:"error"`
	Field  string   `json:"field,omitempty"`
	Kind   string   `json:"kind,omitempty"`
	Fields []string `json:"fields,omitempty"`
}

func errorBody(err error) ErrorBody {
	body := ErrorBody{Error: err.Error()}

	var (
		validationErr   *ErrValidation
		schemaErr       *schemas.ValidationError
		preconditionErr *generation.PreconditionNotMetError
		inFlightErr     *generation.InFlightError
		failedErr       *generation.GenerationFailedError
	)
	switch {
	case errors.As(err, &validationErr):
		body.Field = validationErr.Field
	case errors.As(err, &schemaErr):
		body.Error = "document does not match schema"
		for _, fe := range schemaErr.Errors {
			body.Fields = append(body.Fields, fe.Field+": "+fe.Message)
		}
	case errors.As(err, &preconditionErr):
		body.Error = preconditionErr.Message
		body.Field = preconditionErr.Field
		body.Kind = string(preconditionErr.Kind)
	case errors.As(err, &inFlightErr):
		body.Kind = string(inFlightErr.Kind)
	case errors.As(err, &failedErr):
		body.Kind = string(failedErr.Kind)
	}
	return body
}
