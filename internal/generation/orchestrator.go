// Package generation requests AI-drafted content for a résumé and merges it back.
//
// The Orchestrator checks each kind's preconditions before anything is sent,
// tracks per-entity status, rejects duplicate in-flight requests and converts
// service failures into GenerationFailedError without touching the document.
package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jonathan/resume-builder/internal/editor"
	"github.com/jonathan/resume-builder/internal/identity"
	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultParallelism bounds concurrent requests in DraftAllBulletPoints
const DefaultParallelism = 3

// Orchestrator runs generation requests against a Service
type Orchestrator struct {
	service         Service
	ids             identity.Allocator
	logger          zerolog.Logger
	tracker         *StatusTracker
	experienceLevel string
	parallelism     int
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithExperienceLevel overrides the experience level sent with summary requests
func WithExperienceLevel(level string) Option {
	return func(o *Orchestrator) {
		if level = strings.TrimSpace(level); level != "" {
			o.experienceLevel = level
		}
	}
}

// WithParallelism bounds concurrent requests when drafting several entries
func WithParallelism(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.parallelism = n
		}
	}
}

// NewOrchestrator creates an orchestrator. A nil allocator means merged entities
// take their ids from the workspace they are merged into.
func NewOrchestrator(service Service, ids identity.Allocator, logger zerolog.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		service:         service,
		ids:             ids,
		logger:          logger,
		tracker:         NewStatusTracker(),
		experienceLevel: DefaultExperienceLevel,
		parallelism:     DefaultParallelism,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Status returns the generation status of an entity id or document-level key
func (o *Orchestrator) Status(key string) Status {
	return o.tracker.Status(key)
}

// Statuses returns every key that is generating or failed
func (o *Orchestrator) Statuses() map[string]Status {
	return o.tracker.Snapshot()
}

func (o *Orchestrator) allocator(ws *editor.Workspace) identity.Allocator {
	if o.ids != nil {
		return o.ids
	}
	return ws.IDs()
}

// job describes one generation round trip
type job[Req, Resp any] struct {
	kind    Kind
	key     string
	request func() (Req, error)
	call    func(context.Context, Req) (Resp, error)
	usable  func(Resp) bool
	merge   func(Resp) error
}

// run builds and checks the request, guards the key, calls the service and merges.
// Nothing is merged unless the call succeeded with a usable response.
func run[Req, Resp any](ctx context.Context, o *Orchestrator, j job[Req, Resp]) (Resp, error) {
	var zero Resp
	logger := o.logger.With().Str("kind", string(j.kind)).Str("key", j.key).Logger()

	req, err := j.request()
	if err != nil {
		var pre *PreconditionNotMetError
		if errors.As(err, &pre) {
			logger.Info().Str("field", pre.Field).Msg("generation precondition not met")
		}
		return zero, err
	}

	if !o.tracker.Begin(j.key) {
		logger.Warn().Msg("generation already in flight")
		return zero, &InFlightError{Kind: j.kind, Key: j.key}
	}
	logger.Debug().Msg("generation started")

	resp, err := j.call(ctx, req)
	if err == nil && j.usable != nil && !j.usable(resp) {
		err = ErrEmptyResponse
	}
	if err != nil {
		o.tracker.Fail(j.key)
		logger.Error().Err(err).Msg("generation failed")
		return zero, &GenerationFailedError{Kind: j.kind, Cause: err}
	}

	if j.merge != nil {
		if err := j.merge(resp); err != nil {
			o.tracker.Fail(j.key)
			return zero, err
		}
	}
	o.tracker.Finish(j.key)
	logger.Debug().Msg("generation merged")
	return resp, nil
}

// GenerateSummary drafts the career summary and replaces the existing one
func (o *Orchestrator) GenerateSummary(ctx context.Context, ws *editor.Workspace) (string, error) {
	resp, err := run(ctx, o, job[SummaryRequest, SummaryResponse]{
		kind: KindSummary,
		key:  KeySummary,
		request: func() (SummaryRequest, error) {
			req := BuildSummaryRequest(ws.Snapshot(), o.experienceLevel)
			return req, checkPreconditions(KindSummary, req)
		},
		call:   o.service.Summary,
		usable: func(r SummaryResponse) bool { return strings.TrimSpace(r.Summary) != "" },
		merge: func(r SummaryResponse) error {
			_, err := ws.Apply(func(doc resume.Document) (resume.Document, error) {
				return MergeSummary(doc, r), nil
			})
			return err
		},
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Summary), nil
}

// GenerateBulletPoints drafts the responsibilities of one experience entry,
// replacing the lines it had
func (o *Orchestrator) GenerateBulletPoints(ctx context.Context, ws *editor.Workspace, expID string) ([]string, error) {
	resp, err := run(ctx, o, job[BulletPointsRequest, BulletPointsResponse]{
		kind: KindBulletPoints,
		key:  ExperienceKey(expID),
		request: func() (BulletPointsRequest, error) {
			exp, ok := ws.Snapshot().FindExperience(expID)
			if !ok {
				return BulletPointsRequest{}, &resume.InvalidPathError{Section: resume.SectionExperience, ID: expID}
			}
			req := BuildBulletPointsRequest(exp)
			return req, checkPreconditions(KindBulletPoints, req)
		},
		call:   o.service.BulletPoints,
		usable: func(r BulletPointsResponse) bool { return len(cleanLines(r.GeneratedBulletPoints)) > 0 },
		merge: func(r BulletPointsResponse) error {
			ids := o.allocator(ws)
			_, err := ws.Apply(func(doc resume.Document) (resume.Document, error) {
				return MergeBulletPoints(doc, expID, r, ids), nil
			})
			return err
		},
	})
	if err != nil {
		return nil, err
	}
	return cleanLines(resp.GeneratedBulletPoints), nil
}

// SuggestSkills asks for skills matching the most recent job title or the supplied
// job description and appends the ones not already listed. It returns how many
// skills were added.
func (o *Orchestrator) SuggestSkills(ctx context.Context, ws *editor.Workspace, jobDescription string) (int, error) {
	added := 0
	_, err := run(ctx, o, job[SkillsRequest, SkillsResponse]{
		kind: KindSkills,
		key:  KeySkills,
		request: func() (SkillsRequest, error) {
			req := BuildSkillsRequest(ws.Snapshot(), jobDescription)
			if err := checkPreconditions(KindSkills, req); err != nil {
				return req, err
			}
			if req.JobTitle == "" {
				req.JobTitle = FallbackSkillsTitle
			}
			return req, nil
		},
		call: o.service.SuggestSkills,
		merge: func(r SkillsResponse) error {
			ids := o.allocator(ws)
			_, err := ws.Apply(func(doc resume.Document) (resume.Document, error) {
				merged, n := MergeSuggestedSkills(doc, r, ids)
				added = n
				return merged, nil
			})
			return err
		},
	})
	if err != nil {
		return 0, err
	}
	o.logger.Info().Int("added", added).Msg("skill suggestions merged")
	return added, nil
}

// GenerateProjectDescription drafts the description of one project, replacing
// the existing text
func (o *Orchestrator) GenerateProjectDescription(ctx context.Context, ws *editor.Workspace, projectID string) (string, error) {
	resp, err := run(ctx, o, job[ProjectDescriptionRequest, ProjectDescriptionResponse]{
		kind: KindProjectDescription,
		key:  ProjectKey(projectID),
		request: func() (ProjectDescriptionRequest, error) {
			p, ok := ws.Snapshot().FindProject(projectID)
			if !ok {
				return ProjectDescriptionRequest{}, &resume.InvalidPathError{Section: resume.SectionProject, ID: projectID}
			}
			req := BuildProjectDescriptionRequest(p)
			return req, checkPreconditions(KindProjectDescription, req)
		},
		call:   o.service.ProjectDescriptions,
		usable: func(r ProjectDescriptionResponse) bool { return len(cleanLines(r.GeneratedDescriptions)) > 0 },
		merge: func(r ProjectDescriptionResponse) error {
			_, err := ws.Apply(func(doc resume.Document) (resume.Document, error) {
				return MergeProjectDescription(doc, projectID, r), nil
			})
			return err
		},
	})
	if err != nil {
		return "", err
	}
	return JoinLines(resp.GeneratedDescriptions), nil
}

// Chat asks for a reply to the last turn of req. The reply is returned, never merged.
func (o *Orchestrator) Chat(ctx context.Context, req ChatRequest) (string, error) {
	resp, err := run(ctx, o, job[ChatRequest, ChatResponse]{
		kind: KindChat,
		key:  KeyChat,
		request: func() (ChatRequest, error) {
			return req, checkPreconditions(KindChat, req)
		},
		call:   o.service.Chat,
		usable: func(r ChatResponse) bool { return strings.TrimSpace(r.Response) != "" },
	})
	if err != nil {
		return "", err
	}
	return resp.Response, nil
}

// DraftAllBulletPoints generates bullet points for every entry that has a job title
// and a company. Requests run concurrently; each merge goes through the workspace.
// It returns the number of entries drafted and the joined errors of the rest.
func (o *Orchestrator) DraftAllBulletPoints(ctx context.Context, ws *editor.Workspace) (int, error) {
	var eligible []string
	for _, exp := range ws.Snapshot().Experience {
		if strings.TrimSpace(exp.JobTitle) != "" && strings.TrimSpace(exp.Company) != "" {
			eligible = append(eligible, exp.ID)
		}
	}

	var (
		mu      sync.Mutex
		drafted int
		errs    []error
	)
	g := new(errgroup.Group)
	g.SetLimit(o.parallelism)
	for _, id := range eligible {
		g.Go(func() error {
			_, err := o.GenerateBulletPoints(ctx, ws, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, fmt.Errorf("experience %s: %w", id, err))
				return nil
			}
			drafted++
			return nil
		})
	}
	_ = g.Wait()

	o.logger.Info().Int("eligible", len(eligible)).Int("drafted", drafted).Msg("bullet point drafting finished")
	return drafted, errors.Join(errs...)
}

// BuildSummaryRequest sources the summary inputs from doc
func BuildSummaryRequest(doc resume.Document, experienceLevel string) SummaryRequest {
	if experienceLevel == "" {
		experienceLevel = DefaultExperienceLevel
	}
	jobTitle := strings.TrimSpace(doc.MostRecentJobTitle())
	if jobTitle == "" {
		jobTitle = FallbackSummaryTitle
	}

	lines := make([]string, 0, len(doc.Experience))
	for _, exp := range doc.Experience {
		texts := make([]string, 0, len(exp.Responsibilities))
		for _, r := range exp.Responsibilities {
			texts = append(texts, r.Text)
		}
		lines = append(lines, fmt.Sprintf("%s at %s: %s", exp.JobTitle, exp.Company, strings.Join(texts, ". ")))
	}

	return SummaryRequest{
		ExperienceLevel:   experienceLevel,
		JobTitle:          jobTitle,
		Skills:            strings.Join(doc.SkillNames(), ", "),
		ExperienceSummary: strings.Join(lines, "\n"),
	}
}

// BuildBulletPointsRequest sources the bullet point inputs from one entry
func BuildBulletPointsRequest(exp resume.Experience) BulletPointsRequest {
	existing := make([]string, 0, len(exp.Responsibilities))
	for _, r := range exp.Responsibilities {
		if text := strings.TrimSpace(r.Text); text != "" {
			existing = append(existing, text)
		}
	}
	return BulletPointsRequest{
		JobTitle:                 strings.TrimSpace(exp.JobTitle),
		Company:                  strings.TrimSpace(exp.Company),
		ExistingResponsibilities: existing,
	}
}

// BuildSkillsRequest sources the skill suggestion inputs from doc. The job title
// is left empty when the first entry has none so preconditions can be checked.
func BuildSkillsRequest(doc resume.Document, jobDescription string) SkillsRequest {
	return SkillsRequest{
		JobTitle:       strings.TrimSpace(doc.MostRecentJobTitle()),
		ExistingSkills: doc.SkillNames(),
		JobDescription: strings.TrimSpace(jobDescription),
	}
}

// BuildProjectDescriptionRequest sources the description inputs from one project
func BuildProjectDescriptionRequest(p resume.Project) ProjectDescriptionRequest {
	techs := make([]string, len(p.Technologies))
	copy(techs, p.Technologies)
	return ProjectDescriptionRequest{
		ProjectName:          strings.TrimSpace(p.Name),
		Technologies:         techs,
		ExistingDescriptions: SplitLines(p.Description),
	}
}
