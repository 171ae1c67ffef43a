package server

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/generation"
	"github.com/jonathan/resume-builder/internal/resume"
)

// SkillsBody optionally narrows skill suggestions to a job posting
type SkillsBody struct {
	JobDescription string `json:"job_description,omitempty"`
	JobURL         string `json:"job_url,omitempty" validate:"omitempty,url"`
}

// GenerationResponse is returned by every generation endpoint
type GenerationResponse struct {
	Kind         generation.Kind `json:"kind"`
	Summary      string          `json:"summary,omitempty"`
	BulletPoints []string        `json:"bulletPoints,omitempty"`
	Description  string          `json:"description,omitempty"`
	Added        *int            `json:"added,omitempty"`
	Drafted      *int            `json:"drafted,omitempty"`
	Errors       []string        `json:"errors,omitempty"`
	Document     resume.Document `json:"document"`
}

// StatusResponse reports the generation status of one entity key
type StatusResponse struct {
	Key    string            `json:"key"`
	Status generation.Status `json:"status"`
}

func (s *Server) handleGenerateSummary(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.openSession(w, r)
	if !ok {
		return
	}
	summary, err := sess.orch.GenerateSummary(r.Context(), sess.ws)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.finishGeneration(w, r, id, sess, GenerationResponse{Kind: generation.KindSummary, Summary: summary})
}

func (s *Server) handleSuggestSkills(w http.ResponseWriter, r *http.Request) {
	var body SkillsBody
	if err := s.decodeJSON(r, &body); err != nil {
		s.writeError(w, err)
		return
	}
	id, sess, ok := s.openSession(w, r)
	if !ok {
		return
	}

	jobDescription := strings.TrimSpace(body.JobDescription)
	if jobDescription == "" && body.JobURL != "" {
		if s.fetcher == nil {
			s.writeError(w, &ErrValidation{Field: "job_url", Message: "job fetching is not enabled"})
			return
		}
		text, err := s.fetcher.JobDescription(r.Context(), body.JobURL)
		if err != nil {
			s.writeError(w, err)
			return
		}
		jobDescription = text
	}

	added, err := sess.orch.SuggestSkills(r.Context(), sess.ws, jobDescription)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.finishGeneration(w, r, id, sess, GenerationResponse{Kind: generation.KindSkills, Added: &added})
}

func (s *Server) handleGenerateBulletPoints(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.openSession(w, r)
	if !ok {
		return
	}
	lines, err := sess.orch.GenerateBulletPoints(r.Context(), sess.ws, r.PathValue("entry_id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.finishGeneration(w, r, id, sess, GenerationResponse{Kind: generation.KindBulletPoints, BulletPoints: lines})
}

// handleDraftAllBulletPoints drafts every eligible experience entry. Partial
// failures are reported alongside the entries that succeeded.
func (s *Server) handleDraftAllBulletPoints(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.openSession(w, r)
	if !ok {
		return
	}
	drafted, err := sess.orch.DraftAllBulletPoints(r.Context(), sess.ws)
	resp := GenerationResponse{Kind: generation.KindBulletPoints, Drafted: &drafted}
	if err != nil {
		if drafted == 0 {
			s.writeError(w, err)
			return
		}
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, e := range joined.Unwrap() {
				resp.Errors = append(resp.Errors, e.Error())
			}
		} else {
			resp.Errors = []string{err.Error()}
		}
	}
	s.finishGeneration(w, r, id, sess, resp)
}

func (s *Server) handleGenerateProjectDescription(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.openSession(w, r)
	if !ok {
		return
	}
	description, err := sess.orch.GenerateProjectDescription(r.Context(), sess.ws, r.PathValue("entry_id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.finishGeneration(w, r, id, sess, GenerationResponse{Kind: generation.KindProjectDescription, Description: description})
}

func (s *Server) handleGenerationStatus(w http.ResponseWriter, r *http.Request) {
	_, sess, ok := s.openSession(w, r)
	if !ok {
		return
	}
	key := r.PathValue("key")
	s.jsonResponse(w, http.StatusOK, StatusResponse{Key: key, Status: sess.orch.Status(key)})
}

func (s *Server) handleListGenerationStatus(w http.ResponseWriter, r *http.Request) {
	_, sess, ok := s.openSession(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"statuses": sess.orch.Statuses()})
}

// finishGeneration persists the merged document and writes resp
func (s *Server) finishGeneration(w http.ResponseWriter, r *http.Request, id uuid.UUID, sess *session, resp GenerationResponse) {
	if err := s.persist(r.Context(), id, sess); err != nil {
		s.writeError(w, err)
		return
	}
	resp.Document = sess.ws.Snapshot()
	s.jsonResponse(w, http.StatusOK, resp)
}
