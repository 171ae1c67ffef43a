package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/resume-builder/internal/resume"
)

// ResumeRecord is a stored document
type ResumeRecord struct {
	ID        uuid.UUID       `json:"id"`
	Title     string          `json:"title"`
	Document  resume.Document `json:"document"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ResumeSummary is a listing row without the document body
type ResumeSummary struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Title derives a listing title from the document's contact name
func Title(doc resume.Document) string {
	if doc.Contact.Name != "" {
		return doc.Contact.Name
	}
	return "Untitled résumé"
}

// CreateResume stores a new document and returns its id
func (db *DB) CreateResume(ctx context.Context, doc resume.Document) (uuid.UUID, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal resume: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO resumes (title, document) VALUES ($1, $2) RETURNING id`,
		Title(doc), body,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create resume: %w", err)
	}
	return id, nil
}

// GetResume loads a document by id
func (db *DB) GetResume(ctx context.Context, id uuid.UUID) (*ResumeRecord, error) {
	var (
		rec  ResumeRecord
		body []byte
	)
	err := db.pool.QueryRow(ctx,
		`SELECT id, title, document, created_at, updated_at FROM resumes WHERE id = $1`,
		id,
	).Scan(&rec.ID, &rec.Title, &body, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}

	doc, err := resume.Decode(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode resume %s: %w", id, err)
	}
	rec.Document = doc
	return &rec, nil
}

// SaveResume overwrites a stored document
func (db *DB) SaveResume(ctx context.Context, id uuid.UUID, doc resume.Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal resume: %w", err)
	}

	tag, err := db.pool.Exec(ctx,
		`UPDATE resumes SET title = $2, document = $3, updated_at = NOW() WHERE id = $1`,
		id, Title(doc), body,
	)
	if err != nil {
		return fmt.Errorf("failed to save resume: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteResume removes a document and its chat history
func (db *DB) DeleteResume(ctx context.Context, id uuid.UUID) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `DELETE FROM resumes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete resume: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	if _, err := tx.Exec(ctx, `DELETE FROM chat_turns WHERE session_id = $1`, id.String()); err != nil {
		return fmt.Errorf("failed to delete chat history: %w", err)
	}
	return tx.Commit(ctx)
}

// ListResumes returns the most recently updated documents
func (db *DB) ListResumes(ctx context.Context, limit int) ([]ResumeSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, title, updated_at FROM resumes ORDER BY updated_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	var out []ResumeSummary
	for rows.Next() {
		var s ResumeSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
