package generation

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Defaults used when the document does not provide a value
const (
	DefaultExperienceLevel = "student"
	FallbackSummaryTitle   = "Entry-level role"
	FallbackSkillsTitle    = "Candidate"
)

// SummaryRequest asks for a career summary
type SummaryRequest struct {
	ExperienceLevel   string `json:"experienceLevel" validate:"required"`
	JobTitle          string `json:"jobTitle" validate:"required"`
	Skills            string `json:"skills"`
	ExperienceSummary string `json:"experienceSummary"`
}

// SummaryResponse carries the generated summary
type SummaryResponse struct {
	Summary string `json:"summary"`
}

// BulletPointsRequest asks for the responsibility lines of one experience entry
type BulletPointsRequest struct {
	JobTitle                 string   `json:"jobTitle" validate:"required"`
	Company                  string   `json:"company" validate:"required"`
	ExistingResponsibilities []string `json:"existingResponsibilities"`
}

// BulletPointsResponse carries the generated lines
type BulletPointsResponse struct {
	GeneratedBulletPoints []string `json:"generatedBulletPoints"`
}

// SkillsRequest asks for skill suggestions. At least one of the job title and the
// job description must be present.
type SkillsRequest struct {
	JobTitle       string   `json:"jobTitle" validate:"required_without=JobDescription"`
	ExistingSkills []string `json:"existingSkills"`
	JobDescription string   `json:"jobDescription,omitempty" validate:"required_without=JobTitle"`
}

// SkillsResponse carries suggested skill names
type SkillsResponse struct {
	SuggestedSkills []string `json:"suggestedSkills"`
}

// ProjectDescriptionRequest asks for description lines of one project
type ProjectDescriptionRequest struct {
	ProjectName          string   `json:"projectName" validate:"required"`
	Technologies         []string `json:"technologies" validate:"min=1"`
	ExistingDescriptions []string `json:"existingDescriptions"`
}

// ProjectDescriptionResponse carries the generated lines
type ProjectDescriptionResponse struct {
	GeneratedDescriptions []string `json:"generatedDescriptions"`
}

// ChatMessage is one turn as sent to the service; Role is "user" or "model"
type ChatMessage struct {
	Role    string `json:"role" validate:"oneof=user model"`
	Content string `json:"content"`
}

// ChatRequest carries the full ordered history, ending with the new user turn,
// plus the new message itself. Preamble is attached as an instruction only.
type ChatRequest struct {
	Preamble   string        `json:"-"`
	History    []ChatMessage `json:"history" validate:"dive"`
	NewMessage string        `json:"newMessage" validate:"required"`
}

// ChatResponse carries the model's reply
type ChatResponse struct {
	Response string `json:"response"`
}

// Service is the external generation service
type Service interface {
	Summary(ctx context.Context, req SummaryRequest) (SummaryResponse, error)
	BulletPoints(ctx context.Context, req BulletPointsRequest) (BulletPointsResponse, error)
	SuggestSkills(ctx context.Context, req SkillsRequest) (SkillsResponse, error)
	ProjectDescriptions(ctx context.Context, req ProjectDescriptionRequest) (ProjectDescriptionResponse, error)
	Chat(ctx context.Context, req ChatRequest) (ChatResponse, error)
}

var validate = newValidator()

// newValidator reports fields by their JSON names so messages match the wire format
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// checkPreconditions validates req's tags and converts the first violation into
// a PreconditionNotMetError naming the missing field
func checkPreconditions(kind Kind, req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return &PreconditionNotMetError{Kind: kind, Message: err.Error()}
	}

	fe := validationErrors[0]
	return &PreconditionNotMetError{
		Kind:    kind,
		Field:   fe.Field(),
		Message: preconditionMessage(fe),
	}
}

func preconditionMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "required_without":
		return fmt.Sprintf("%s is required when %s is empty", fe.Field(), lowerFirst(fe.Param()))
	case "min":
		return fmt.Sprintf("%s needs at least %s entry", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
