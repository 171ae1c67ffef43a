package server

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/resume"
)

// Store persists documents. *db.DB implements it.
type Store interface {
	CreateResume(ctx context.Context, doc resume.Document) (uuid.UUID, error)
	GetResume(ctx context.Context, id uuid.UUID) (*db.ResumeRecord, error)
	SaveResume(ctx context.Context, id uuid.UUID, doc resume.Document) error
	DeleteResume(ctx context.Context, id uuid.UUID) error
	ListResumes(ctx context.Context, limit int) ([]db.ResumeSummary, error)
}

var _ Store = (*db.DB)(nil)

// MemoryStore keeps documents in process memory
type MemoryStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]db.ResumeRecord
}

// NewMemoryStore returns an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[uuid.UUID]db.ResumeRecord)}
}

func (m *MemoryStore) CreateResume(_ context.Context, doc resume.Document) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	id := uuid.New()
	m.records[id] = db.ResumeRecord{
		ID:        id,
		Title:     db.Title(doc),
		Document:  doc.Clone(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return id, nil
}

func (m *MemoryStore) GetResume(_ context.Context, id uuid.UUID) (*db.ResumeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	rec.Document = rec.Document.Clone()
	return &rec, nil
}

func (m *MemoryStore) SaveResume(_ context.Context, id uuid.UUID, doc resume.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return db.ErrNotFound
	}
	rec.Document = doc.Clone()
	rec.Title = db.Title(doc)
	rec.UpdatedAt = time.Now().UTC()
	m.records[id] = rec
	return nil
}

func (m *MemoryStore) DeleteResume(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return db.ErrNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *MemoryStore) ListResumes(_ context.Context, limit int) ([]db.ResumeSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]db.ResumeSummary, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, db.ResumeSummary{ID: rec.ID, Title: rec.Title, UpdatedAt: rec.UpdatedAt})
	}
	slices.SortFunc(out, func(a, b db.ResumeSummary) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
