package editor

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/jonathan/resume-builder/internal/identity"
	"github.com/jonathan/resume-builder/internal/logging"
	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorkspace(opts ...Option) *Workspace {
	return NewWorkspace(resume.New(), identity.NewSequence("t"), opts...)
}

func TestWorkspace_ApplyErrorLeavesDocument(t *testing.T) {
	var buf bytes.Buffer
	ws := newTestWorkspace(WithLogger(logging.New(&buf, logging.Config{Level: "debug"})))
	ws.SetSummary("keep me")
	before := ws.Snapshot()

	err := ws.Experience().Update("missing", resume.SetJobTitle("x"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, resume.ErrInvalidPath))
	assert.Equal(t, before, ws.Snapshot())
	assert.Contains(t, buf.String(), "missing entity")
}

func TestWorkspace_ApplyNonPathErrorIsNotLogged(t *testing.T) {
	var buf bytes.Buffer
	ws := newTestWorkspace(WithLogger(logging.New(&buf, logging.Config{Level: "debug"})))

	_, err := ws.Apply(func(d resume.Document) (resume.Document, error) {
		return d, errors.New("boom")
	})
	require.Error(t, err)
	assert.NotContains(t, buf.String(), "missing entity")
}

func TestWorkspace_RemoveLogsOnlyOnSuccess(t *testing.T) {
	var buf bytes.Buffer
	ws := newTestWorkspace(WithLogger(logging.New(&buf, logging.Config{Level: "debug"})))

	for _, remove := range []func(string) error{
		ws.Experience().Remove,
		ws.Projects().Remove,
		ws.Education().Remove,
		ws.Skills().Remove,
		ws.Languages().Remove,
		ws.CustomSections().Remove,
	} {
		require.Error(t, remove("missing"))
	}
	assert.NotContains(t, buf.String(), `"op":"remove"`)

	id := ws.Languages().Add()
	require.NoError(t, ws.Languages().Remove(id))
	assert.Contains(t, buf.String(), `"op":"remove"`)
}

func TestWorkspace_ChangeHookSeesEveryCommit(t *testing.T) {
	var seen []string
	ws := newTestWorkspace(WithChangeHook(func(d resume.Document) {
		seen = append(seen, d.Summary)
	}))

	ws.SetSummary("one")
	ws.SetSummary("two")
	_ = ws.Experience().Remove("missing")

	assert.Equal(t, []string{"one", "two"}, seen)
}

func TestWorkspace_SnapshotIsIsolated(t *testing.T) {
	ws := newTestWorkspace()
	id := ws.Projects().Add()
	_, err := ws.Projects().AddTechnology(id, "Go")
	require.NoError(t, err)

	snap := ws.Snapshot()
	_, err = ws.Projects().AddTechnology(id, "SQL")
	require.NoError(t, err)

	p, _ := snap.FindProject(id)
	assert.Equal(t, []string{"Go"}, p.Technologies)
}

func TestWorkspace_ConcurrentApplies(t *testing.T) {
	ws := newTestWorkspace()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ws.Languages().Add()
		}()
	}
	wg.Wait()

	assert.Len(t, ws.Snapshot().Languages, 20)
}

func TestWorkspace_Replace(t *testing.T) {
	ws := newTestWorkspace()
	doc := resume.New().WithSummary("loaded")
	ws.Replace(doc)
	assert.Equal(t, "loaded", ws.Snapshot().Summary)
}

func TestWorkspace_UpdateContact(t *testing.T) {
	ws := newTestWorkspace()
	ws.UpdateContact(resume.SetName("Grace"), resume.SetGitHub("gh/grace"))
	assert.Equal(t, "Grace", ws.Snapshot().Contact.Name)
	assert.Equal(t, "gh/grace", ws.Snapshot().Contact.GitHub)
}
