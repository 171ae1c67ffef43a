package generation

import "sync"

// Status is the generation state of one entity
type Status string

// Generation states
const (
	StatusIdle       Status = "idle"
	StatusGenerating Status = "generating"
	StatusFailed     Status = "failed"
)

// Document-level status keys. Entity keys carry a kind prefix, so no entity id
// can collide with them or with an entity of another kind.
const (
	KeySummary = "summary"
	KeySkills  = "skills"
	KeyChat    = "chat"
)

// ExperienceKey is the status key of one experience entry
func ExperienceKey(id string) string { return "experience:" + id }

// ProjectKey is the status key of one project
func ProjectKey(id string) string { return "project:" + id }

// StatusTracker maps entity keys to their generation status
type StatusTracker struct {
	mu       sync.Mutex
	statuses map[string]Status
}

// NewStatusTracker returns a tracker where every key starts idle
func NewStatusTracker() *StatusTracker {
	return &StatusTracker{statuses: make(map[string]Status)}
}

// Status returns the status of key, idle when never seen
func (t *StatusTracker) Status(key string) Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.statuses[key]; ok {
		return s
	}
	return StatusIdle
}

// Begin marks key as generating. It returns false, leaving the status untouched,
// when key is already generating.
func (t *StatusTracker) Begin(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.statuses[key] == StatusGenerating {
		return false
	}
	t.statuses[key] = StatusGenerating
	return true
}

// Finish marks key idle after a successful merge
func (t *StatusTracker) Finish(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.statuses, key)
}

// Fail marks key failed; the next Begin clears it
func (t *StatusTracker) Fail(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.statuses[key] = StatusFailed
}

// Snapshot returns every key that is not idle
func (t *StatusTracker) Snapshot() map[string]Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]Status, len(t.statuses))
	for k, v := range t.statuses {
		out[k] = v
	}
	return out
}
