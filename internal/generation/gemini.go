package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/prompts"
	"github.com/jonathan/resume-builder/internal/schemas"
	embedded "github.com/jonathan/resume-builder/schemas"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// DefaultRequestsPerMinute throttles outbound model calls
const DefaultRequestsPerMinute = 30

// GeminiService implements Service on top of an llm.Client
type GeminiService struct {
	client  llm.Client
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// NewGeminiService wraps client. requestsPerMinute <= 0 uses DefaultRequestsPerMinute.
func NewGeminiService(client llm.Client, requestsPerMinute int, logger zerolog.Logger) *GeminiService {
	if requestsPerMinute <= 0 {
		requestsPerMinute = DefaultRequestsPerMinute
	}
	return &GeminiService{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60), requestsPerMinute),
		logger:  logger,
	}
}

// Summary drafts a career summary
func (s *GeminiService) Summary(ctx context.Context, req SummaryRequest) (SummaryResponse, error) {
	prompt := prompts.Format(prompts.Generation(prompts.KeyCareerSummary), map[string]string{
		"ExperienceLevel":   req.ExperienceLevel,
		"JobTitle":          req.JobTitle,
		"Skills":            req.Skills,
		"ExperienceSummary": req.ExperienceSummary,
	})
	schema := llm.OutputSchema{Name: "summary", Fields: []llm.SchemaField{
		{Name: "summary", Type: "string", Description: "the career summary paragraph"},
	}}

	var resp SummaryResponse
	err := s.generate(ctx, llm.TierStandard, prompt, schema, embedded.Summary, &resp)
	return resp, err
}

// BulletPoints drafts responsibility lines for one role
func (s *GeminiService) BulletPoints(ctx context.Context, req BulletPointsRequest) (BulletPointsResponse, error) {
	prompt := prompts.Format(prompts.Generation(prompts.KeyBulletPoints), map[string]string{
		"JobTitle":                 req.JobTitle,
		"Company":                  req.Company,
		"ExistingResponsibilities": bulletList(req.ExistingResponsibilities),
	})
	schema := llm.OutputSchema{Name: "bullet_points", Fields: []llm.SchemaField{
		{Name: "generatedBulletPoints", Type: "[]string", Description: "one bullet per element"},
	}}

	var resp BulletPointsResponse
	err := s.generate(ctx, llm.TierLite, prompt, schema, embedded.BulletPoints, &resp)
	return resp, err
}

// SuggestSkills proposes skills for a role or job description
func (s *GeminiService) SuggestSkills(ctx context.Context, req SkillsRequest) (SkillsResponse, error) {
	prompt := prompts.Format(prompts.Generation(prompts.KeySkillSuggestions), map[string]string{
		"JobTitle":       req.JobTitle,
		"ExistingSkills": strings.Join(req.ExistingSkills, ", "),
		"JobDescription": req.JobDescription,
	})
	schema := llm.OutputSchema{Name: "skills", Fields: []llm.SchemaField{
		{Name: "suggestedSkills", Type: "[]string", Description: "skill names"},
	}}

	var resp SkillsResponse
	err := s.generate(ctx, llm.TierLite, prompt, schema, embedded.Skills, &resp)
	return resp, err
}

// ProjectDescriptions drafts description lines for a project
func (s *GeminiService) ProjectDescriptions(ctx context.Context, req ProjectDescriptionRequest) (ProjectDescriptionResponse, error) {
	prompt := prompts.Format(prompts.Generation(prompts.KeyProjectDescription), map[string]string{
		"ProjectName":          req.ProjectName,
		"Technologies":         strings.Join(req.Technologies, ", "),
		"ExistingDescriptions": bulletList(req.ExistingDescriptions),
	})
	schema := llm.OutputSchema{Name: "project_descriptions", Fields: []llm.SchemaField{
		{Name: "generatedDescriptions", Type: "[]string", Description: "one description line per element"},
	}}

	var resp ProjectDescriptionResponse
	err := s.generate(ctx, llm.TierStandard, prompt, schema, embedded.ProjectDescriptions, &resp)
	return resp, err
}

// Chat answers the last turn of the conversation. The final history element is the
// new message itself, so only the turns before it are sent as history.
func (s *GeminiService) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return ChatResponse{}, fmt.Errorf("rate limiter: %w", err)
	}

	prior := req.History
	if n := len(prior); n > 0 && prior[n-1].Role == string(llm.RoleUser) && prior[n-1].Content == req.NewMessage {
		prior = prior[:n-1]
	}
	history := make([]llm.Message, len(prior))
	for i, m := range prior {
		history[i] = llm.Message{Role: llm.Role(m.Role), Content: m.Content}
	}

	preamble := req.Preamble
	if preamble == "" {
		preamble = prompts.Generation(prompts.KeyCounselorPreamble)
	}

	reply, err := s.client.Chat(ctx, preamble, history, req.NewMessage, llm.TierAdvanced)
	if err != nil {
		return ChatResponse{}, err
	}
	return ChatResponse{Response: strings.TrimSpace(reply)}, nil
}

// generate sends a structured prompt, checks the reply against the response schema
// and decodes it into out
func (s *GeminiService) generate(ctx context.Context, tier llm.ModelTier, instructions string, schema llm.OutputSchema, schemaFile string, out any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	prompt := llm.BuildStructuredPrompt(instructions, schema)
	s.logger.Debug().Str("schema", schema.Name).Str("model", s.client.GetModel(tier)).Msg("sending generation prompt")

	raw, err := s.client.GenerateJSON(ctx, prompt, tier)
	if err != nil {
		return err
	}
	cleaned := llm.CleanJSONBlock(raw)

	if err := schemas.Validate(schemaFile, []byte(cleaned)); err != nil {
		s.logger.Warn().Err(err).Str("schema", schema.Name).Msg("model response rejected")
		return fmt.Errorf("invalid %s response: %w", schema.Name, err)
	}
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", schema.Name, err)
	}
	return nil
}

func bulletList(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return "- " + strings.Join(lines, "\n- ")
}
