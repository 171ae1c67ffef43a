// Package editor provides the editing session for a résumé and one editor per section.
//
// A Workspace holds the current document of a single session and applies every
// mutation sequentially. Section editors are thin views that translate user-facing
// operations into resume.Document operators.
package editor

import (
	"errors"
	"sync"

	"github.com/jonathan/resume-builder/internal/identity"
	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/rs/zerolog"
)

// Operation computes the next document from the current one
type Operation func(resume.Document) (resume.Document, error)

// ChangeHook observes every committed document. Hooks run while the workspace is
// locked, in commit order, and must not call back into the workspace.
type ChangeHook func(resume.Document)

// Workspace is the single editing session for one document
type Workspace struct {
	mu     sync.Mutex
	doc    resume.Document
	ids    identity.Allocator
	logger zerolog.Logger
	hooks  []ChangeHook
}

// Option configures a Workspace
type Option func(*Workspace)

// WithLogger sets the logger used for editor operations
func WithLogger(logger zerolog.Logger) Option {
	return func(w *Workspace) { w.logger = logger }
}

// WithChangeHook registers a hook called after each committed change
func WithChangeHook(hook ChangeHook) Option {
	return func(w *Workspace) { w.hooks = append(w.hooks, hook) }
}

// NewWorkspace starts a session on doc. A nil allocator falls back to identity.Default().
func NewWorkspace(doc resume.Document, ids identity.Allocator, opts ...Option) *Workspace {
	if ids == nil {
		ids = identity.Default()
	}
	w := &Workspace{
		doc:    doc.Clone(),
		ids:    ids,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Snapshot returns the current document
func (w *Workspace) Snapshot() resume.Document {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.doc
}

// IDs returns the allocator entities of this session are created with
func (w *Workspace) IDs() identity.Allocator {
	return w.ids
}

// Apply runs op against the current document and commits the result.
// When op fails the document is left unchanged and the error is returned;
// invalid paths are logged at error level since they indicate a caller bug.
func (w *Workspace) Apply(op Operation) (resume.Document, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	next, err := op(w.doc)
	if err != nil {
		if errors.Is(err, resume.ErrInvalidPath) {
			w.logger.Error().Err(err).Msg("editor operation addressed a missing entity")
		}
		return w.doc, err
	}

	w.doc = next
	for _, hook := range w.hooks {
		hook(next)
	}
	return next, nil
}

// Replace swaps in a whole new document, e.g. after loading from storage
func (w *Workspace) Replace(doc resume.Document) {
	_, _ = w.Apply(func(resume.Document) (resume.Document, error) {
		return doc.Clone(), nil
	})
}

// SetSummary overwrites the career summary
func (w *Workspace) SetSummary(summary string) {
	_, _ = w.Apply(func(d resume.Document) (resume.Document, error) {
		return d.WithSummary(summary), nil
	})
}

// UpdateContact applies contact field edits
func (w *Workspace) UpdateContact(edits ...resume.ContactEdit) {
	_, _ = w.Apply(func(d resume.Document) (resume.Document, error) {
		return d.UpdateContact(edits...), nil
	})
}

func (w *Workspace) debug(section resume.Section, op, id string) {
	w.logger.Debug().Str("section", string(section)).Str("op", op).Str("id", id).Msg("editor")
}
