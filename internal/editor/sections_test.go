package editor

import (
	"testing"

	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExperienceEditor(t *testing.T) {
	ws := newTestWorkspace()
	ed := ws.Experience()

	first := ed.Add()
	second := ed.Add()
	require.NoError(t, ed.Update(first, resume.SetJobTitle("Engineer"), resume.SetCompany("Acme")))

	respID, err := ed.AddResponsibility(first)
	require.NoError(t, err)
	require.NoError(t, ed.UpdateResponsibility(first, respID, "Built APIs"))

	exp, ok := ws.Snapshot().FindExperience(first)
	require.True(t, ok)
	assert.Equal(t, "Engineer", exp.JobTitle)
	require.Len(t, exp.Responsibilities, 2)
	assert.Equal(t, "Built APIs", exp.Responsibilities[1].Text)

	require.NoError(t, ed.RemoveResponsibility(first, respID))
	require.NoError(t, ed.Remove(first))

	doc := ws.Snapshot()
	require.Len(t, doc.Experience, 1)
	assert.Equal(t, second, doc.Experience[0].ID)

	_, err = ed.AddResponsibility(first)
	assert.ErrorIs(t, err, resume.ErrInvalidPath)
}

func TestProjectEditor_Technologies(t *testing.T) {
	ws := newTestWorkspace()
	ed := ws.Projects()
	id := ed.Add()

	added, err := ed.AddTechnology(id, "Go")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = ed.AddTechnology(id, "Go")
	require.NoError(t, err)
	assert.False(t, added)

	added, _ = ed.AddTechnology(id, "")
	assert.False(t, added)
	added, _ = ed.AddTechnology(id, "  ")
	assert.False(t, added)

	p, _ := ws.Snapshot().FindProject(id)
	assert.Equal(t, []string{"Go"}, p.Technologies)

	removed, err := ed.RemoveTechnology(id, "Go")
	require.NoError(t, err)
	assert.True(t, removed)

	require.NoError(t, ed.Update(id, resume.SetProjectName("CLI"), resume.SetProjectLink("https://example.com")))
	p, _ = ws.Snapshot().FindProject(id)
	assert.Equal(t, "CLI", p.Name)
	assert.Empty(t, p.Technologies)

	require.NoError(t, ed.Remove(id))
	assert.Empty(t, ws.Snapshot().Projects)
}

func TestSkillEditor(t *testing.T) {
	ws := newTestWorkspace()
	ed := ws.Skills()

	id, added := ed.Add("React", "")
	require.True(t, added)
	_, added = ed.Add("react", "")
	assert.False(t, added)

	doc := ws.Snapshot()
	require.Len(t, doc.Skills, 1)
	assert.Equal(t, "React", doc.Skills[0].Name)

	require.NoError(t, ed.Update(id, resume.SetSkillCategory("Frontend")))
	assert.Equal(t, "Frontend", ws.Snapshot().Skills[0].Category)

	require.NoError(t, ed.Remove(id))
	assert.Empty(t, ws.Snapshot().Skills)
}

func TestEducationAndLanguageEditors(t *testing.T) {
	ws := newTestWorkspace()

	eduID := ws.Education().Add()
	require.NoError(t, ws.Education().Update(eduID, resume.SetDegree("MSc")))
	assert.Equal(t, "MSc", ws.Snapshot().Education[0].Degree)
	require.NoError(t, ws.Education().Remove(eduID))

	langID := ws.Languages().Add()
	require.NoError(t, ws.Languages().Update(langID, resume.SetLanguageName("German"), resume.SetProficiency("B2")))
	assert.Equal(t, resume.Language{ID: langID, Name: "German", Proficiency: "B2"}, ws.Snapshot().Languages[0])
	require.NoError(t, ws.Languages().Remove(langID))
	assert.ErrorIs(t, ws.Languages().Remove(langID), resume.ErrInvalidPath)
}

func TestCustomSectionEditor_MoveItem(t *testing.T) {
	ws := newTestWorkspace()
	ed := ws.CustomSections()

	sid := ed.Add()
	require.NoError(t, ed.SetTitle(sid, "Volunteering"))

	var ids []string
	for _, content := range []string{"A", "B", "C"} {
		id, err := ed.AddItem(sid)
		require.NoError(t, err)
		require.NoError(t, ed.UpdateItem(sid, id, resume.SetItemContent(content)))
		ids = append(ids, id)
	}

	before := ws.Snapshot()
	require.NoError(t, ed.MoveItem(sid, ids[0], resume.Up))
	require.NoError(t, ed.MoveItem(sid, ids[2], resume.Down))
	assert.Equal(t, before, ws.Snapshot())

	require.NoError(t, ed.MoveItem(sid, ids[0], resume.Down))
	sec, _ := ws.Snapshot().FindCustomSection(sid)
	assert.Equal(t, "Volunteering", sec.Title)
	assert.Equal(t, []string{"B", "A", "C"}, []string{sec.Items[0].Content, sec.Items[1].Content, sec.Items[2].Content})

	require.NoError(t, ed.RemoveItem(sid, ids[1]))
	sec, _ = ws.Snapshot().FindCustomSection(sid)
	assert.Len(t, sec.Items, 2)

	require.NoError(t, ed.Remove(sid))
	assert.ErrorIs(t, ed.MoveItem(sid, ids[0], resume.Up), resume.ErrInvalidPath)
}
