package editor

import (
	"github.com/jonathan/resume-builder/internal/resume"
)

// ExperienceEditor edits the experience section
type ExperienceEditor struct{ ws *Workspace }

// Experience returns the experience section editor
func (w *Workspace) Experience() ExperienceEditor { return ExperienceEditor{w} }

// Add appends a new entry with one blank responsibility and returns its id
func (e ExperienceEditor) Add() string {
	var id string
	_, _ = e.ws.Apply(func(d resume.Document) (resume.Document, error) {
		d, id = d.AddExperience(e.ws.ids)
		return d, nil
	})
	e.ws.debug(resume.SectionExperience, "add", id)
	return id
}

// Update applies field edits to one entry
func (e ExperienceEditor) Update(id string, edits ...resume.ExperienceEdit) error {
	_, err := e.ws.Apply(func(d resume.Document) (resume.Document, error) {
		return d.UpdateExperience(id, edits...)
	})
	return err
}

// Remove drops an entry
func (e ExperienceEditor) Remove(id string) error {
	_, err := e.ws.Apply(func(d resume.Document) (resume.Document, error) {
		return d.RemoveExperience(id)
	})
	if err == nil {
		e.ws.debug(resume.SectionExperience, "remove", id)
	}
	return err
}

// AddResponsibility appends a blank line to an entry and returns the line's id
func (e ExperienceEditor) AddResponsibility(expID string) (string, error) {
	var id string
	_, err := e.ws.Apply(func(d resume.Document) (resume.Document, error) {
		var err error
		d, id, err = d.AddResponsibility(expID, e.ws.ids)
		return d, err
	})
	return id, err
}

// UpdateResponsibility replaces one line's text
func (e ExperienceEditor) UpdateResponsibility(expID, respID, text string) error {
	_, err := e.ws.Apply(func(d resume.Document) (resume.Document, error) {
		return d.UpdateResponsibility(expID, respID, text)
	})
	return err
}

// RemoveResponsibility drops one line
func (e ExperienceEditor) RemoveResponsibility(expID, respID string) error {
	_, err := e.ws.Apply(func(d resume.Document) (resume.Document, error) {
		return d.RemoveResponsibility(expID, respID)
	})
	return err
}

// ProjectEditor edits the projects section, including technology tags
type ProjectEditor struct{ ws *Workspace }

// Projects returns the projects section editor
func (w *Workspace) Projects() ProjectEditor { return ProjectEditor{w} }

// Add appends an empty project and returns its id
func (p ProjectEditor) Add() string {
	var id string
	_, _ = p.ws.Apply(func(d resume.Document) (resume.Document, error) {
		d, id = d.AddProject(p.ws.ids)
		return d, nil
	})
	p.ws.debug(resume.SectionProject, "add", id)
	return id
}

// Update applies field edits to one project
func (p ProjectEditor) Update(id string, edits ...resume.ProjectEdit) error {
	_, err := p.ws.Apply(func(d resume.Document) (resume.Document, error) {
		return d.UpdateProject(id, edits...)
	})
	return err
}

// Remove drops a project
func (p ProjectEditor) Remove(id string) error {
	_, err := p.ws.Apply(func(d resume.Document) (resume.Document, error) {
		return d.RemoveProject(id)
	})
	if err == nil {
		p.ws.debug(resume.SectionProject, "remove", id)
	}
	return err
}

// AddTechnology adds a trimmed tag. Blank and duplicate tags are ignored and reported as not added.
func (p ProjectEditor) AddTechnology(projectID, text string) (bool, error) {
	var added bool
	_, err := p.ws.Apply(func(d resume.Document) (resume.Document, error) {
		var err error
		d, added, err = d.AddTechnology(projectID, text)
		return d, err
	})
	return added, err
}

// RemoveTechnology removes the first exact match of a tag
func (p ProjectEditor) RemoveTechnology(projectID, text string) (bool, error) {
	var removed bool
	_, err := p.ws.Apply(func(d resume.Document) (resume.Document, error) {
		var err error
		d, removed, err = d.RemoveTechnology(projectID, text)
		return d, err
	})
	return removed, err
}

// EducationEditor edits the education section
type EducationEditor struct{ ws *Workspace }

// Education returns the education section editor
func (w *Workspace) Education() EducationEditor { return EducationEditor{w} }

// Add appends an empty entry and returns its id
func (e EducationEditor) Add() string {
	var id string
	_, _ = e.ws.Apply(func(d resume.Document) (resume.Document, error) {
		d, id = d.AddEducation(e.ws.ids)
		return d, nil
	})
	e.ws.debug(resume.SectionEducation, "add", id)
	return id
}

// Update applies field edits to one entry
func (e EducationEditor) Update(id string, edits ...resume.EducationEdit) error {
	_, err := e.ws.Apply(func(d resume.Document) (resume.Document, error) {
		return d.UpdateEducation(id, edits...)
	})
	return err
}

// Remove drops an entry
func (e EducationEditor) Remove(id string) error {
	_, err := e.ws.Apply(func(d resume.Document) (resume.Document, error) {
		return d.RemoveEducation(id)
	})
	if err == nil {
		e.ws.debug(resume.SectionEducation, "remove", id)
	}
	return err
}

// SkillEditor edits the skills list
type SkillEditor struct{ ws *Workspace }

// Skills returns the skills editor
func (w *Workspace) Skills() SkillEditor { return SkillEditor{w} }

// Add appends a skill unless a case-insensitive match exists. It returns the new
// id and true, or "" and false when nothing was added.
func (s SkillEditor) Add(name, category string) (string, bool) {
	var (
		id    string
		added bool
	)
	_, _ = s.ws.Apply(func(d resume.Document) (resume.Document, error) {
		d, id, added = d.AddSkill(name, category, s.ws.ids)
		return d, nil
	})
	if added {
		s.ws.debug(resume.SectionSkill, "add", id)
	}
	return id, added
}

// Update applies edits to one skill
func (s SkillEditor) Update(id string, edits ...resume.SkillEdit) error {
	_, err := s.ws.Apply(func(d resume.Document) (resume.Document, error) {
		return d.UpdateSkill(id, edits...)
	})
	return err
}

// Remove drops a skill by id
func (s SkillEditor) Remove(id string) error {
	_, err := s.ws.Apply(func(d resume.Document) (resume.Document, error) {
		return d.RemoveSkill(id)
	})
	if err == nil {
		s.ws.debug(resume.SectionSkill, "remove", id)
	}
	return err
}

// LanguageEditor edits the languages section
type LanguageEditor struct{ ws *Workspace }

// Languages returns the languages editor
func (w *Workspace) Languages() LanguageEditor { return LanguageEditor{w} }

// Add appends an empty language row and returns its id
func (l LanguageEditor) Add() string {
	var id string
	_, _ = l.ws.Apply(func(d resume.Document) (resume.Document, error) {
		d, id = d.AddLanguage(l.ws.ids)
		return d, nil
	})
	l.ws.debug(resume.SectionLanguage, "add", id)
	return id
}

// Update applies field edits to one language
func (l LanguageEditor) Update(id string, edits ...resume.LanguageEdit) error {
	_, err := l.ws.Apply(func(d resume.Document) (resume.Document, error) {
		return d.UpdateLanguage(id, edits...)
	})
	return err
}

// Remove drops a language row
func (l LanguageEditor) Remove(id string) error {
	_, err := l.ws.Apply(func(d resume.Document) (resume.Document, error) {
		return d.RemoveLanguage(id)
	})
	if err == nil {
		l.ws.debug(resume.SectionLanguage, "remove", id)
	}
	return err
}

// CustomSectionEditor edits custom sections and their items
type CustomSectionEditor struct{ ws *Workspace }

// CustomSections returns the custom sections editor
func (w *Workspace) CustomSections() CustomSectionEditor { return CustomSectionEditor{w} }

// Add appends a new section titled resume.DefaultCustomSectionTitle and returns its id
func (c CustomSectionEditor) Add() string {
	var id string
	_, _ = c.ws.Apply(func(d resume.Document) (resume.Document, error) {
		d, id = d.AddCustomSection(c.ws.ids)
		return d, nil
	})
	c.ws.debug(resume.SectionCustomSection, "add", id)
	return id
}

// SetTitle renames a section
func (c CustomSectionEditor) SetTitle(sectionID, title string) error {
	_, err := c.ws.Apply(func(d resume.Document) (resume.Document, error) {
		return d.UpdateCustomSection(sectionID, resume.SetSectionTitle(title))
	})
	return err
}

// Remove drops a section and its items
func (c CustomSectionEditor) Remove(sectionID string) error {
	_, err := c.ws.Apply(func(d resume.Document) (resume.Document, error) {
		return d.RemoveCustomSection(sectionID)
	})
	if err == nil {
		c.ws.debug(resume.SectionCustomSection, "remove", sectionID)
	}
	return err
}

// AddItem appends an empty item to a section and returns its id
func (c CustomSectionEditor) AddItem(sectionID string) (string, error) {
	var id string
	_, err := c.ws.Apply(func(d resume.Document) (resume.Document, error) {
		var err error
		d, id, err = d.AddCustomItem(sectionID, c.ws.ids)
		return d, err
	})
	return id, err
}

// UpdateItem applies field edits to one item
func (c CustomSectionEditor) UpdateItem(sectionID, itemID string, edits ...resume.CustomItemEdit) error {
	_, err := c.ws.Apply(func(d resume.Document) (resume.Document, error) {
		return d.UpdateCustomItem(sectionID, itemID, edits...)
	})
	return err
}

// RemoveItem drops one item
func (c CustomSectionEditor) RemoveItem(sectionID, itemID string) error {
	_, err := c.ws.Apply(func(d resume.Document) (resume.Document, error) {
		return d.RemoveCustomItem(sectionID, itemID)
	})
	return err
}

// MoveItem swaps an item with its neighbour; moving past either end is a no-op
func (c CustomSectionEditor) MoveItem(sectionID, itemID string, dir resume.Direction) error {
	_, err := c.ws.Apply(func(d resume.Document) (resume.Document, error) {
		return d.MoveCustomItem(sectionID, itemID, dir)
	})
	return err
}
