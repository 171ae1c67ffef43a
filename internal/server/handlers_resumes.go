package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/jonathan/resume-builder/internal/schemas"
	embedded "github.com/jonathan/resume-builder/schemas"
)

// maxDocumentBytes bounds résumé bodies; photos are references, not bytes
const maxDocumentBytes = 1 << 20

// ResumeResponse is a document together with its id
type ResumeResponse struct {
	ID       uuid.UUID       `json:"id"`
	Document resume.Document `json:"document"`
}

// handleListResumes lists stored résumés, newest first
func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.writeError(w, &ErrValidation{Field: "limit", Message: "must be a positive integer"})
			return
		}
		limit = n
	}
	list, err := s.store.ListResumes(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"resumes": list, "count": len(list)})
}

// handleCreateResume stores a new document. An empty body creates a blank résumé.
func (s *Server) handleCreateResume(w http.ResponseWriter, r *http.Request) {
	doc := resume.New()
	body, err := readBody(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if len(body) > 0 {
		if doc, err = decodeDocument(body); err != nil {
			s.writeError(w, err)
			return
		}
	}

	id, err := s.store.CreateResume(r.Context(), doc)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info().Str("resume", id.String()).Msg("resume created")
	s.jsonResponse(w, http.StatusCreated, ResumeResponse{ID: id, Document: doc})
}

// handleGetResume returns the current document of a résumé
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.openSession(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, ResumeResponse{ID: id, Document: sess.ws.Snapshot()})
}

// handleReplaceResume swaps in a whole, schema-valid document
func (s *Server) handleReplaceResume(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	doc, err := decodeDocument(body)
	if err != nil {
		s.writeError(w, err)
		return
	}

	id, sess, ok := s.openSession(w, r)
	if !ok {
		return
	}
	sess.ws.Replace(doc)
	if err := s.persist(r.Context(), id, sess); err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ResumeResponse{ID: id, Document: sess.ws.Snapshot()})
}

// handleDeleteResume removes a résumé and closes its session
func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	id, err := resumeID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.DeleteResume(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	s.forget(id)
	s.logger.Info().Str("resume", id.String()).Msg("resume deleted")
	w.WriteHeader(http.StatusNoContent)
}

// handleOperation applies one editor command to a résumé
func (s *Server) handleOperation(w http.ResponseWriter, r *http.Request) {
	var req OperationRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	id, sess, ok := s.openSession(w, r)
	if !ok {
		return
	}

	result, err := applyOperation(sess.ws, req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.persist(r.Context(), id, sess); err != nil {
		s.writeError(w, err)
		return
	}
	result.Document = sess.ws.Snapshot()
	s.jsonResponse(w, http.StatusOK, result)
}

func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentBytes+1))
	if err != nil {
		return nil, &ErrValidation{Field: "body", Message: "failed to read body"}
	}
	if len(body) > maxDocumentBytes {
		return nil, &ErrValidation{Field: "body", Message: "document too large"}
	}
	return body, nil
}

// decodeDocument validates body against the résumé schema, then decodes it
func decodeDocument(body []byte) (resume.Document, error) {
	if err := schemas.Validate(embedded.Resume, body); err != nil {
		return resume.Document{}, err
	}
	doc, err := resume.Decode(body)
	if err != nil {
		var dup *resume.DuplicateIDError
		if errors.As(err, &dup) {
			return resume.Document{}, &ErrValidation{Field: string(dup.Section), Message: err.Error()}
		}
		return resume.Document{}, &ErrValidation{Field: "body", Message: err.Error()}
	}
	return doc, nil
}
