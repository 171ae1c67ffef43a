package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/jonathan/resume-builder/internal/chat"
	"github.com/jonathan/resume-builder/internal/generation"
	"github.com/jonathan/resume-builder/internal/identity"
	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/jonathan/resume-builder/internal/server/ratelimit"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeService answers every kind with canned content unless an error is set
type fakeService struct {
	mu         sync.Mutex
	err        error
	skillsReqs []generation.SkillsRequest
	chatReqs   []generation.ChatRequest
}

func (f *fakeService) Summary(context.Context, generation.SummaryRequest) (generation.SummaryResponse, error) {
	if f.err != nil {
		return generation.SummaryResponse{}, f.err
	}
	return generation.SummaryResponse{Summary: "Motivated engineer."}, nil
}

func (f *fakeService) BulletPoints(_ context.Context, req generation.BulletPointsRequest) (generation.BulletPointsResponse, error) {
	if f.err != nil {
		return generation.BulletPointsResponse{}, f.err
	}
	return generation.BulletPointsResponse{GeneratedBulletPoints: []string{"Built " + req.Company, "Shipped features"}}, nil
}

func (f *fakeService) SuggestSkills(_ context.Context, req generation.SkillsRequest) (generation.SkillsResponse, error) {
	f.mu.Lock()
	f.skillsReqs = append(f.skillsReqs, req)
	f.mu.Unlock()
	if f.err != nil {
		return generation.SkillsResponse{}, f.err
	}
	return generation.SkillsResponse{SuggestedSkills: []string{"Go", "SQL"}}, nil
}

func (f *fakeService) ProjectDescriptions(context.Context, generation.ProjectDescriptionRequest) (generation.ProjectDescriptionResponse, error) {
	if f.err != nil {
		return generation.ProjectDescriptionResponse{}, f.err
	}
	return generation.ProjectDescriptionResponse{GeneratedDescriptions: []string{"A tool.", "Used daily."}}, nil
}

func (f *fakeService) Chat(_ context.Context, req generation.ChatRequest) (generation.ChatResponse, error) {
	f.mu.Lock()
	f.chatReqs = append(f.chatReqs, req)
	f.mu.Unlock()
	if f.err != nil {
		return generation.ChatResponse{}, f.err
	}
	return generation.ChatResponse{Response: "Tailor your résumé to the posting."}, nil
}

type fakeFetcher struct {
	urls []string
}

func (f *fakeFetcher) JobDescription(_ context.Context, url string) (string, error) {
	f.urls = append(f.urls, url)
	return "We need a Kubernetes expert.", nil
}

type testServer struct {
	*Server
	store   *MemoryStore
	service *fakeService
	fetcher *fakeFetcher
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		store:   NewMemoryStore(),
		service: &fakeService{},
		fetcher: &fakeFetcher{},
	}
	s, err := New(Config{
		Store:     ts.store,
		History:   chat.NewMemoryStore(),
		Service:   ts.service,
		Fetcher:   ts.fetcher,
		IDs:       identity.NewSequence("e"),
		Logger:    zerolog.Nop(),
		RateLimit: &ratelimit.Config{Enabled: false},
	})
	require.NoError(t, err)
	t.Cleanup(s.Close)
	ts.Server = s
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

// createResume posts an empty résumé and returns its path
func (ts *testServer) createResume(t *testing.T) string {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/resumes", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return "/resumes/" + decode[ResumeResponse](t, w).ID.String()
}

func (ts *testServer) op(t *testing.T, path string, req OperationRequest) OperationResult {
	t.Helper()
	w := ts.do(t, http.MethodPost, path+"/operations", req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode[OperationResult](t, w)
}

func TestNew_RequiresStoreAndService(t *testing.T) {
	_, err := New(Config{Service: &fakeService{}})
	assert.Error(t, err)
	_, err = New(Config{Store: NewMemoryStore()})
	assert.Error(t, err)
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, w)["status"])
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodOptions, "/resumes", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestResumeLifecycle(t *testing.T) {
	ts := newTestServer(t)
	path := ts.createResume(t)

	w := ts.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[ResumeResponse](t, w)
	assert.Empty(t, got.Document.Experience)
	assert.NotNil(t, got.Document.Experience)

	w = ts.do(t, http.MethodGet, "/resumes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode[map[string]any](t, w)["count"])

	w = ts.do(t, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = ts.do(t, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateResume_WithDocument(t *testing.T) {
	ts := newTestServer(t)
	doc := resume.New()
	doc.Contact.Name = "Ada Lovelace"
	doc.Skills = []resume.Skill{{ID: "s1", Name: "Go"}}

	w := ts.do(t, http.MethodPost, "/resumes", doc)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[ResumeResponse](t, w)

	rec, err := ts.store.GetResume(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", rec.Title)
	assert.Equal(t, []string{"Go"}, rec.Document.SkillNames())
}

func TestCreateResume_SchemaViolation(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodPost, "/resumes", map[string]any{"summary": 42})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[ErrorBody](t, w)
	assert.NotEmpty(t, body.Fields)
}

func TestCreateResume_NormalizesSets(t *testing.T) {
	ts := newTestServer(t)
	doc := resume.New()
	doc.Skills = []resume.Skill{{ID: "s1", Name: "SQL"}, {ID: "s2", Name: "sql"}}
	doc.Projects = []resume.Project{{ID: "p1", Name: "Tool", Technologies: []string{"Go", "Go"}}}

	w := ts.do(t, http.MethodPost, "/resumes", doc)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[ResumeResponse](t, w)

	assert.Equal(t, []string{"SQL"}, created.Document.SkillNames())
	assert.Equal(t, []string{"Go"}, created.Document.Projects[0].Technologies)
}

func TestReplaceResume_DuplicateIDs(t *testing.T) {
	ts := newTestServer(t)
	path := ts.createResume(t)

	doc := resume.New()
	doc.Skills = []resume.Skill{{ID: "a", Name: "Go"}, {ID: "a", Name: "SQL"}}
	w := ts.do(t, http.MethodPut, path, doc)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "skills", decode[ErrorBody](t, w).Field)

	w = ts.do(t, http.MethodGet, path, nil)
	assert.Empty(t, decode[ResumeResponse](t, w).Document.Skills)
}

func TestGetResume_BadAndUnknownIDs(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/resumes/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "id", decode[ErrorBody](t, w).Field)

	w = ts.do(t, http.MethodGet, "/resumes/00000000-0000-0000-0000-000000000001", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReplaceResume(t *testing.T) {
	ts := newTestServer(t)
	path := ts.createResume(t)

	doc := resume.New()
	doc.Summary = "Replaced."
	w := ts.do(t, http.MethodPut, path, doc)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Replaced.", decode[ResumeResponse](t, w).Document.Summary)

	w = ts.do(t, http.MethodGet, path, nil)
	assert.Equal(t, "Replaced.", decode[ResumeResponse](t, w).Document.Summary)
}

func TestOperations_ExperienceFlow(t *testing.T) {
	ts := newTestServer(t)
	path := ts.createResume(t)

	added := ts.op(t, path, OperationRequest{Op: "experience.add"})
	require.NotEmpty(t, added.ID)
	require.Len(t, added.Document.Experience, 1)
	assert.Len(t, added.Document.Experience[0].Responsibilities, 1)

	updated := ts.op(t, path, OperationRequest{
		Op: "experience.update",
		ID: added.ID,
		Fields: map[string]string{
			"jobTitle":  "Engineer",
			"company":   "Acme",
			"isCurrent": "true",
		},
	})
	exp := updated.Document.Experience[0]
	assert.Equal(t, "Engineer", exp.JobTitle)
	assert.Equal(t, "Acme", exp.Company)
	assert.True(t, exp.IsCurrent)

	respID := exp.Responsibilities[0].ID
	updated = ts.op(t, path, OperationRequest{
		Op:               "experience.update_responsibility",
		ID:               added.ID,
		ResponsibilityID: respID,
		Text:             "Led the team",
	})
	assert.Equal(t, "Led the team", updated.Document.Experience[0].Responsibilities[0].Text)

	// every mutation is persisted
	ids := ts.store.records
	require.Len(t, ids, 1)
	for _, rec := range ids {
		assert.Equal(t, "Engineer", rec.Document.Experience[0].JobTitle)
	}
}

func TestOperations_SkillsAndTechnologies(t *testing.T) {
	ts := newTestServer(t)
	path := ts.createResume(t)

	first := ts.op(t, path, OperationRequest{Op: "skill.add", Name: "Go"})
	require.NotNil(t, first.Changed)
	assert.True(t, *first.Changed)

	dup := ts.op(t, path, OperationRequest{Op: "skill.add", Name: "go"})
	require.NotNil(t, dup.Changed)
	assert.False(t, *dup.Changed)
	assert.Len(t, dup.Document.Skills, 1)

	project := ts.op(t, path, OperationRequest{Op: "project.add"})
	tech := ts.op(t, path, OperationRequest{Op: "project.add_technology", ID: project.ID, Text: "Postgres"})
	assert.True(t, *tech.Changed)
	tech = ts.op(t, path, OperationRequest{Op: "project.add_technology", ID: project.ID, Text: "Postgres"})
	assert.False(t, *tech.Changed)
	assert.Equal(t, []string{"Postgres"}, tech.Document.Projects[0].Technologies)
}

func TestOperations_CustomSectionMoveItem(t *testing.T) {
	ts := newTestServer(t)
	path := ts.createResume(t)

	section := ts.op(t, path, OperationRequest{Op: "custom_section.add"})
	a := ts.op(t, path, OperationRequest{Op: "custom_section.add_item", SectionID: section.ID})
	b := ts.op(t, path, OperationRequest{Op: "custom_section.add_item", SectionID: section.ID})

	moved := ts.op(t, path, OperationRequest{
		Op:        "custom_section.move_item",
		SectionID: section.ID,
		ItemID:    b.ID,
		Direction: "up",
	})
	items := moved.Document.CustomSections[0].Items
	require.Len(t, items, 2)
	assert.Equal(t, b.ID, items[0].ID)
	assert.Equal(t, a.ID, items[1].ID)
}

func TestOperations_Errors(t *testing.T) {
	ts := newTestServer(t)
	path := ts.createResume(t)

	tests := []struct {
		name   string
		req    OperationRequest
		status int
		field  string
	}{
		{"missing op", OperationRequest{}, http.StatusBadRequest, "op"},
		{"unknown op", OperationRequest{Op: "experience.teleport"}, http.StatusBadRequest, "op"},
		{"missing id", OperationRequest{Op: "experience.remove"}, http.StatusBadRequest, "id"},
		{"unknown entity", OperationRequest{Op: "experience.remove", ID: "nope"}, http.StatusNotFound, ""},
		{"unknown field", OperationRequest{Op: "contact.update", Fields: map[string]string{"shoeSize": "9"}}, http.StatusBadRequest, "fields.shoeSize"},
		{"bad direction", OperationRequest{Op: "custom_section.move_item", SectionID: "s", ItemID: "i", Direction: "left"}, http.StatusBadRequest, "direction"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, http.MethodPost, path+"/operations", tt.req)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.field != "" {
				assert.Equal(t, tt.field, decode[ErrorBody](t, w).Field)
			}
		})
	}
}

func TestOperationNames(t *testing.T) {
	names := OperationNames()
	assert.Contains(t, names, "custom_section.move_item")
	assert.Contains(t, names, "experience.add")
	assert.IsIncreasing(t, names)
}

func TestGenerateSummary(t *testing.T) {
	ts := newTestServer(t)
	path := ts.createResume(t)

	w := ts.do(t, http.MethodPost, path+"/generate/summary", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[GenerationResponse](t, w)
	assert.Equal(t, "Motivated engineer.", resp.Summary)
	assert.Equal(t, "Motivated engineer.", resp.Document.Summary)

	w = ts.do(t, http.MethodGet, path+"/generation-status/summary", nil)
	assert.Equal(t, generation.StatusIdle, decode[StatusResponse](t, w).Status)
}

func TestGenerateBulletPoints(t *testing.T) {
	ts := newTestServer(t)
	path := ts.createResume(t)
	exp := ts.op(t, path, OperationRequest{Op: "experience.add"})

	w := ts.do(t, http.MethodPost, path+"/generate/experience/"+exp.ID, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decode[ErrorBody](t, w)
	assert.Equal(t, "jobTitle", body.Field)
	assert.Equal(t, string(generation.KindBulletPoints), body.Kind)

	ts.op(t, path, OperationRequest{Op: "experience.update", ID: exp.ID, Fields: map[string]string{
		"jobTitle": "Engineer", "company": "Acme",
	}})
	w = ts.do(t, http.MethodPost, path+"/generate/experience/"+exp.ID, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[GenerationResponse](t, w)
	assert.Equal(t, []string{"Built Acme", "Shipped features"}, resp.BulletPoints)
	assert.Len(t, resp.Document.Experience[0].Responsibilities, 2)

	w = ts.do(t, http.MethodPost, path+"/generate/experience/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDraftAllBulletPoints(t *testing.T) {
	ts := newTestServer(t)
	path := ts.createResume(t)
	for _, company := range []string{"Acme", "Globex"} {
		exp := ts.op(t, path, OperationRequest{Op: "experience.add"})
		ts.op(t, path, OperationRequest{Op: "experience.update", ID: exp.ID, Fields: map[string]string{
			"jobTitle": "Engineer", "company": company,
		}})
	}
	ts.op(t, path, OperationRequest{Op: "experience.add"})

	w := ts.do(t, http.MethodPost, path+"/generate/experience", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[GenerationResponse](t, w)
	require.NotNil(t, resp.Drafted)
	assert.Equal(t, 2, *resp.Drafted)
	assert.Empty(t, resp.Errors)
}

func TestGenerateProjectDescription(t *testing.T) {
	ts := newTestServer(t)
	path := ts.createResume(t)
	p := ts.op(t, path, OperationRequest{Op: "project.add"})
	ts.op(t, path, OperationRequest{Op: "project.update", ID: p.ID, Fields: map[string]string{"name": "Builder"}})

	w := ts.do(t, http.MethodPost, path+"/generate/projects/"+p.ID, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "technologies", decode[ErrorBody](t, w).Field)

	ts.op(t, path, OperationRequest{Op: "project.add_technology", ID: p.ID, Text: "Go"})
	w = ts.do(t, http.MethodPost, path+"/generate/projects/"+p.ID, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[GenerationResponse](t, w)
	assert.Equal(t, "A tool.\nUsed daily.", resp.Description)
	assert.Equal(t, resp.Description, resp.Document.Projects[0].Description)
}

func TestSuggestSkills_FromJobURL(t *testing.T) {
	ts := newTestServer(t)
	path := ts.createResume(t)
	ts.op(t, path, OperationRequest{Op: "skill.add", Name: "go"})

	w := ts.do(t, http.MethodPost, path+"/generate/skills", SkillsBody{JobURL: "https://boards.greenhouse.io/acme/jobs/1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[GenerationResponse](t, w)
	require.NotNil(t, resp.Added)
	assert.Equal(t, 1, *resp.Added)
	assert.Equal(t, []string{"go", "SQL"}, resp.Document.SkillNames())

	assert.Equal(t, []string{"https://boards.greenhouse.io/acme/jobs/1"}, ts.fetcher.urls)
	require.Len(t, ts.service.skillsReqs, 1)
	assert.Equal(t, "We need a Kubernetes expert.", ts.service.skillsReqs[0].JobDescription)
}

func TestSuggestSkills_InvalidURL(t *testing.T) {
	ts := newTestServer(t)
	path := ts.createResume(t)
	w := ts.do(t, http.MethodPost, path+"/generate/skills", SkillsBody{JobURL: "not a url"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "job_url", decode[ErrorBody](t, w).Field)
}

func TestGenerationFailure(t *testing.T) {
	ts := newTestServer(t)
	ts.service.err = errors.New("quota exceeded")
	path := ts.createResume(t)

	w := ts.do(t, http.MethodPost, path+"/generate/summary", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, string(generation.KindSummary), decode[ErrorBody](t, w).Kind)

	w = ts.do(t, http.MethodGet, path+"/generation-status/summary", nil)
	assert.Equal(t, generation.StatusFailed, decode[StatusResponse](t, w).Status)

	w = ts.do(t, http.MethodGet, path, nil)
	assert.Empty(t, decode[ResumeResponse](t, w).Document.Summary)
}

func TestChat(t *testing.T) {
	ts := newTestServer(t)
	path := ts.createResume(t)

	w := ts.do(t, http.MethodPost, path+"/chat", ChatBody{Message: "How do I stand out?"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	reply := decode[ChatResponse](t, w).Reply
	assert.Equal(t, chat.RoleAssistant, reply.Role)
	assert.Equal(t, "Tailor your résumé to the posting.", reply.Content)

	require.Len(t, ts.service.chatReqs, 1)
	assert.Equal(t, "How do I stand out?", ts.service.chatReqs[0].NewMessage)

	w = ts.do(t, http.MethodGet, path+"/chat", nil)
	require.Equal(t, http.StatusOK, w.Code)
	history := decode[HistoryResponse](t, w).History
	require.Len(t, history, 2)
	assert.Equal(t, chat.RoleUser, history[0].Role)
	assert.Equal(t, chat.RoleAssistant, history[1].Role)
}

func TestChat_EmptyMessage(t *testing.T) {
	ts := newTestServer(t)
	path := ts.createResume(t)

	w := ts.do(t, http.MethodPost, path+"/chat", ChatBody{Message: "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodGet, path+"/chat", nil)
	assert.Empty(t, decode[HistoryResponse](t, w).History)
	assert.Empty(t, ts.service.chatReqs)
}

func TestRateLimit(t *testing.T) {
	cfg := ratelimit.DefaultConfig()
	cfg.CleanupInterval = 0
	cfg.DefaultLimit = 1
	s, err := New(Config{
		Store:     NewMemoryStore(),
		Service:   &fakeService{},
		Logger:    zerolog.Nop(),
		RateLimit: cfg,
	})
	require.NoError(t, err)
	defer s.Close()

	call := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/resumes", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, req)
		return w
	}
	assert.Equal(t, http.StatusOK, call().Code)
	w := call()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}
