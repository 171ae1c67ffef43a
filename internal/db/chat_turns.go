package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/resume-builder/internal/chat"
)

// ChatHistory stores chat turns in PostgreSQL. It implements chat.HistoryStore.
type ChatHistory struct {
	db *DB
}

// ChatHistory returns a history store sharing this connection pool
func (db *DB) ChatHistory() *ChatHistory {
	return &ChatHistory{db: db}
}

// Append stores a turn at the end of a session
func (h *ChatHistory) Append(ctx context.Context, sessionID string, turn chat.Turn) error {
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now()
	}
	_, err := h.db.pool.Exec(ctx,
		`INSERT INTO chat_turns (session_id, role, content, created_at) VALUES ($1, $2, $3, $4)`,
		sessionID, string(turn.Role), turn.Content, turn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append chat turn: %w", err)
	}
	return nil
}

// Load returns a session's turns in insertion order
func (h *ChatHistory) Load(ctx context.Context, sessionID string) ([]chat.Turn, error) {
	rows, err := h.db.pool.Query(ctx,
		`SELECT role, content, created_at FROM chat_turns WHERE session_id = $1 ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat turns: %w", err)
	}
	defer rows.Close()

	turns := []chat.Turn{}
	for rows.Next() {
		var (
			turn chat.Turn
			role string
		)
		if err := rows.Scan(&role, &turn.Content, &turn.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat turn: %w", err)
		}
		turn.Role = chat.Role(role)
		turns = append(turns, turn)
	}
	return turns, rows.Err()
}

var _ chat.HistoryStore = (*ChatHistory)(nil)
