// Package chat implements the career-counselor conversation attached to a résumé.
//
// A Session is an append-only sequence of turns. Every request carries the full
// history plus a fixed preamble; the preamble is never stored as a turn.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/resume-builder/internal/generation"
	"github.com/jonathan/resume-builder/internal/prompts"
	"github.com/rs/zerolog"
)

// ErrEmptyMessage rejects a blank message before anything is stored or sent
var ErrEmptyMessage = errors.New("message is empty")

// Role tags who produced a turn
type Role string

// Local turn roles
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// wireRole maps local roles onto the roles the generation service expects
func (r Role) wireRole() string {
	if r == RoleAssistant {
		return "model"
	}
	return "user"
}

// Turn is one message of a session
type Turn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Responder produces the reply to a chat request
type Responder interface {
	Chat(ctx context.Context, req generation.ChatRequest) (string, error)
}

// Session is one conversation
type Session struct {
	id        string
	store     HistoryStore
	responder Responder
	preamble  string
	logger    zerolog.Logger
	now       func() time.Time

	// turn holds one slot; Send keeps it from appending the user turn until the reply is stored
	turn chan struct{}
}

// Option configures a Session
type Option func(*Session)

// WithPreamble replaces the default career-counselor preamble
func WithPreamble(preamble string) Option {
	return func(s *Session) { s.preamble = preamble }
}

// WithLogger sets the session logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// NewSession creates a session backed by store
func NewSession(id string, store HistoryStore, responder Responder, opts ...Option) *Session {
	s := &Session{
		id:        id,
		store:     store,
		responder: responder,
		preamble:  prompts.Generation(prompts.KeyCounselorPreamble),
		logger:    zerolog.Nop(),
		now:       time.Now,
		turn:      make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session id
func (s *Session) ID() string { return s.id }

// History returns the turns so far, oldest first
func (s *Session) History(ctx context.Context) ([]Turn, error) {
	return s.store.Load(ctx, s.id)
}

// Send appends text as a user turn, asks for a reply with the full history and
// appends the reply as an assistant turn. When the reply fails the user turn stays.
// Concurrent sends on one session run one after another, so every reply directly
// follows its own question.
func (s *Session) Send(ctx context.Context, text string) (Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Turn{}, ErrEmptyMessage
	}

	select {
	case s.turn <- struct{}{}:
		defer func() { <-s.turn }()
	case <-ctx.Done():
		return Turn{}, ctx.Err()
	}

	if err := s.store.Append(ctx, s.id, Turn{Role: RoleUser, Content: text, CreatedAt: s.now()}); err != nil {
		return Turn{}, err
	}

	turns, err := s.store.Load(ctx, s.id)
	if err != nil {
		return Turn{}, err
	}

	req := BuildRequest(s.preamble, turns, text)
	s.logger.Debug().Str("session", s.id).Int("history", len(req.History)).Msg("sending chat message")

	reply, err := s.responder.Chat(ctx, req)
	if err != nil {
		s.logger.Error().Err(err).Str("session", s.id).Msg("chat reply failed")
		return Turn{}, err
	}

	turn := Turn{Role: RoleAssistant, Content: reply, CreatedAt: s.now()}
	if err := s.store.Append(ctx, s.id, turn); err != nil {
		return Turn{}, fmt.Errorf("reply received but not stored: %w", err)
	}
	return turn, nil
}

// BuildRequest converts stored turns, which already end with the new user turn,
// into a request for the generation service
func BuildRequest(preamble string, turns []Turn, newMessage string) generation.ChatRequest {
	history := make([]generation.ChatMessage, len(turns))
	for i, t := range turns {
		history[i] = generation.ChatMessage{Role: t.Role.wireRole(), Content: t.Content}
	}
	return generation.ChatRequest{
		Preamble:   preamble,
		History:    history,
		NewMessage: newMessage,
	}
}
