package generation

import (
	"errors"
	"fmt"
)

// Kind names a generated content kind
type Kind string

// Content kinds the orchestrator can generate
const (
	KindSummary            Kind = "summary"
	KindBulletPoints       Kind = "bullet_points"
	KindSkills             Kind = "skills"
	KindProjectDescription Kind = "project_description"
	KindChat               Kind = "chat"
)

// ErrGenerationFailed is matched by every GenerationFailedError
var ErrGenerationFailed = errors.New("generation failed")

// ErrEmptyResponse is the cause recorded when the service answers with nothing usable
var ErrEmptyResponse = errors.New("empty response from generation service")

// PreconditionNotMetError reports a field that must be filled in before a kind can be generated.
// No request is sent when it is returned.
type PreconditionNotMetError struct {
	Kind    Kind
	Field   string
	Message string
}

func (e *PreconditionNotMetError) Error() string {
	return fmt.Sprintf("cannot generate %s: %s", e.Kind, e.Message)
}

// GenerationFailedError reports a failed call to the generation service.
// The document is left unchanged and the request is not retried.
type GenerationFailedError struct {
	Kind  Kind
	Cause error
}

func (e *GenerationFailedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("generation of %s failed: %v", e.Kind, e.Cause)
	}
	return fmt.Sprintf("generation of %s failed", e.Kind)
}

func (e *GenerationFailedError) Unwrap() error {
	return e.Cause
}

// Is makes errors.Is(err, ErrGenerationFailed) succeed
func (e *GenerationFailedError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// InFlightError rejects a request for an entity that is already being generated for
type InFlightError struct {
	Kind Kind
	Key  string
}

func (e *InFlightError) Error() string {
	return fmt.Sprintf("%s generation already in progress for %q", e.Kind, e.Key)
}
