package resume

import (
	"slices"
	"strings"

	"github.com/jonathan/resume-builder/internal/identity"
)

// DefaultCustomSectionTitle is the title given to a freshly added custom section
const DefaultCustomSectionTitle = "New Section"

// -----------------------------------------------------------------------------
// Summary and contact
// -----------------------------------------------------------------------------

// WithSummary returns a copy of d with the summary replaced
func (d Document) WithSummary(summary string) Document {
	d.Summary = summary
	return d
}

// UpdateContact applies edits to the contact block
func (d Document) UpdateContact(edits ...ContactEdit) Document {
	for _, edit := range edits {
		edit(&d.Contact)
	}
	return d
}

// -----------------------------------------------------------------------------
// Experience
// -----------------------------------------------------------------------------

// AddExperience appends an empty entry holding one blank responsibility line
func (d Document) AddExperience(ids identity.Allocator) (Document, string) {
	exp := Experience{
		ID:               ids.NewID(),
		Responsibilities: []Responsibility{{ID: ids.NewID()}},
	}
	d.Experience = Append(d.Experience, exp)
	return d, exp.ID
}

// UpdateExperience applies scalar field edits to one entry
func (d Document) UpdateExperience(id string, edits ...ExperienceEdit) (Document, error) {
	updated, ok := ReplaceByID(d.Experience, id, func(e Experience) Experience {
		for _, edit := range edits {
			edit(&e)
		}
		return e
	})
	if !ok {
		return d, notFound(SectionExperience, id)
	}
	d.Experience = updated
	return d, nil
}

// RemoveExperience drops an entry and its responsibilities
func (d Document) RemoveExperience(id string) (Document, error) {
	updated, ok := RemoveByID(d.Experience, id)
	if !ok {
		return d, notFound(SectionExperience, id)
	}
	d.Experience = updated
	return d, nil
}

// AddResponsibility appends a blank responsibility line to an entry
func (d Document) AddResponsibility(expID string, ids identity.Allocator) (Document, string, error) {
	resp := Responsibility{ID: ids.NewID()}
	updated, ok := ReplaceByID(d.Experience, expID, func(e Experience) Experience {
		e.Responsibilities = Append(e.Responsibilities, resp)
		return e
	})
	if !ok {
		return d, "", notFound(SectionExperience, expID)
	}
	d.Experience = updated
	return d, resp.ID, nil
}

// UpdateResponsibility replaces the text of one responsibility line
func (d Document) UpdateResponsibility(expID, respID, text string) (Document, error) {
	return d.editResponsibilities(expID, respID, func(rs []Responsibility) ([]Responsibility, bool) {
		return ReplaceByID(rs, respID, func(r Responsibility) Responsibility {
			r.Text = text
			return r
		})
	})
}

// RemoveResponsibility drops one responsibility line
func (d Document) RemoveResponsibility(expID, respID string) (Document, error) {
	return d.editResponsibilities(expID, respID, func(rs []Responsibility) ([]Responsibility, bool) {
		return RemoveByID(rs, respID)
	})
}

// ReplaceResponsibilities discards every line of an entry and installs one freshly
// identified Responsibility per text, in order
func (d Document) ReplaceResponsibilities(expID string, texts []string, ids identity.Allocator) (Document, error) {
	fresh := make([]Responsibility, len(texts))
	for i, text := range texts {
		fresh[i] = Responsibility{ID: ids.NewID(), Text: text}
	}
	updated, ok := ReplaceByID(d.Experience, expID, func(e Experience) Experience {
		e.Responsibilities = fresh
		return e
	})
	if !ok {
		return d, notFound(SectionExperience, expID)
	}
	d.Experience = updated
	return d, nil
}

func (d Document) editResponsibilities(expID, respID string, fn func([]Responsibility) ([]Responsibility, bool)) (Document, error) {
	i := IndexOf(d.Experience, expID)
	if i < 0 {
		return d, notFound(SectionExperience, expID)
	}
	rs, ok := fn(d.Experience[i].Responsibilities)
	if !ok {
		return d, notFoundIn(SectionResponsibility, respID, expID)
	}
	d.Experience, _ = ReplaceByID(d.Experience, expID, func(e Experience) Experience {
		e.Responsibilities = rs
		return e
	})
	return d, nil
}

// -----------------------------------------------------------------------------
// Projects
// -----------------------------------------------------------------------------

// AddProject appends an empty project
func (d Document) AddProject(ids identity.Allocator) (Document, string) {
	p := Project{ID: ids.NewID(), Technologies: []string{}}
	d.Projects = Append(d.Projects, p)
	return d, p.ID
}

// UpdateProject applies scalar field edits to one project
func (d Document) UpdateProject(id string, edits ...ProjectEdit) (Document, error) {
	updated, ok := ReplaceByID(d.Projects, id, func(p Project) Project {
		for _, edit := range edits {
			edit(&p)
		}
		return p
	})
	if !ok {
		return d, notFound(SectionProject, id)
	}
	d.Projects = updated
	return d, nil
}

// RemoveProject drops a project
func (d Document) RemoveProject(id string) (Document, error) {
	updated, ok := RemoveByID(d.Projects, id)
	if !ok {
		return d, notFound(SectionProject, id)
	}
	d.Projects = updated
	return d, nil
}

// AddTechnology appends the trimmed text to a project's technologies.
// Blank text and exact duplicates are silent no-ops; added reports which case applied.
func (d Document) AddTechnology(projectID, text string) (doc Document, added bool, err error) {
	i := IndexOf(d.Projects, projectID)
	if i < 0 {
		return d, false, notFound(SectionProject, projectID)
	}
	tech := strings.TrimSpace(text)
	if tech == "" || slices.Contains(d.Projects[i].Technologies, tech) {
		return d, false, nil
	}
	d.Projects, _ = ReplaceByID(d.Projects, projectID, func(p Project) Project {
		p.Technologies = Append(p.Technologies, tech)
		return p
	})
	return d, true, nil
}

// RemoveTechnology removes the first exact match of text from a project's technologies
func (d Document) RemoveTechnology(projectID, text string) (doc Document, removed bool, err error) {
	i := IndexOf(d.Projects, projectID)
	if i < 0 {
		return d, false, notFound(SectionProject, projectID)
	}
	at := slices.Index(d.Projects[i].Technologies, text)
	if at < 0 {
		return d, false, nil
	}
	d.Projects, _ = ReplaceByID(d.Projects, projectID, func(p Project) Project {
		p.Technologies = slices.Delete(cloneSlice(p.Technologies), at, at+1)
		return p
	})
	return d, true, nil
}

// -----------------------------------------------------------------------------
// Education
// -----------------------------------------------------------------------------

// AddEducation appends an empty education entry
func (d Document) AddEducation(ids identity.Allocator) (Document, string) {
	e := Education{ID: ids.NewID()}
	d.Education = Append(d.Education, e)
	return d, e.ID
}

// UpdateEducation applies field edits to one education entry
func (d Document) UpdateEducation(id string, edits ...EducationEdit) (Document, error) {
	updated, ok := ReplaceByID(d.Education, id, func(e Education) Education {
		for _, edit := range edits {
			edit(&e)
		}
		return e
	})
	if !ok {
		return d, notFound(SectionEducation, id)
	}
	d.Education = updated
	return d, nil
}

// RemoveEducation drops an education entry
func (d Document) RemoveEducation(id string) (Document, error) {
	updated, ok := RemoveByID(d.Education, id)
	if !ok {
		return d, notFound(SectionEducation, id)
	}
	d.Education = updated
	return d, nil
}

// -----------------------------------------------------------------------------
// Skills
// -----------------------------------------------------------------------------

// AddSkill appends a skill unless one with the same name, ignoring case, already exists.
// Names are trimmed; a blank name is a no-op. The first occurrence always wins.
func (d Document) AddSkill(name, category string, ids identity.Allocator) (doc Document, id string, added bool) {
	name = strings.TrimSpace(name)
	if name == "" || d.HasSkill(name) {
		return d, "", false
	}
	s := Skill{ID: ids.NewID(), Name: name, Category: strings.TrimSpace(category)}
	d.Skills = Append(d.Skills, s)
	return d, s.ID, true
}

// UpdateSkill applies edits to one skill
func (d Document) UpdateSkill(id string, edits ...SkillEdit) (Document, error) {
	updated, ok := ReplaceByID(d.Skills, id, func(s Skill) Skill {
		for _, edit := range edits {
			edit(&s)
		}
		return s
	})
	if !ok {
		return d, notFound(SectionSkill, id)
	}
	d.Skills = updated
	return d, nil
}

// RemoveSkill drops a skill by id
func (d Document) RemoveSkill(id string) (Document, error) {
	updated, ok := RemoveByID(d.Skills, id)
	if !ok {
		return d, notFound(SectionSkill, id)
	}
	d.Skills = updated
	return d, nil
}

// -----------------------------------------------------------------------------
// Languages
// -----------------------------------------------------------------------------

// AddLanguage appends an empty language row
func (d Document) AddLanguage(ids identity.Allocator) (Document, string) {
	l := Language{ID: ids.NewID()}
	d.Languages = Append(d.Languages, l)
	return d, l.ID
}

// UpdateLanguage applies field edits to one language
func (d Document) UpdateLanguage(id string, edits ...LanguageEdit) (Document, error) {
	updated, ok := ReplaceByID(d.Languages, id, func(l Language) Language {
		for _, edit := range edits {
			edit(&l)
		}
		return l
	})
	if !ok {
		return d, notFound(SectionLanguage, id)
	}
	d.Languages = updated
	return d, nil
}

// RemoveLanguage drops a language row
func (d Document) RemoveLanguage(id string) (Document, error) {
	updated, ok := RemoveByID(d.Languages, id)
	if !ok {
		return d, notFound(SectionLanguage, id)
	}
	d.Languages = updated
	return d, nil
}

// -----------------------------------------------------------------------------
// Custom sections
// -----------------------------------------------------------------------------

// AddCustomSection appends an empty section titled DefaultCustomSectionTitle
func (d Document) AddCustomSection(ids identity.Allocator) (Document, string) {
	s := CustomSection{ID: ids.NewID(), Title: DefaultCustomSectionTitle, Items: []CustomSectionItem{}}
	d.CustomSections = Append(d.CustomSections, s)
	return d, s.ID
}

// UpdateCustomSection applies edits to one section
func (d Document) UpdateCustomSection(id string, edits ...CustomSectionEdit) (Document, error) {
	updated, ok := ReplaceByID(d.CustomSections, id, func(s CustomSection) CustomSection {
		for _, edit := range edits {
			edit(&s)
		}
		return s
	})
	if !ok {
		return d, notFound(SectionCustomSection, id)
	}
	d.CustomSections = updated
	return d, nil
}

// RemoveCustomSection drops a section with all of its items
func (d Document) RemoveCustomSection(id string) (Document, error) {
	updated, ok := RemoveByID(d.CustomSections, id)
	if !ok {
		return d, notFound(SectionCustomSection, id)
	}
	d.CustomSections = updated
	return d, nil
}

// AddCustomItem appends an empty item to a section
func (d Document) AddCustomItem(sectionID string, ids identity.Allocator) (Document, string, error) {
	item := CustomSectionItem{ID: ids.NewID()}
	updated, ok := ReplaceByID(d.CustomSections, sectionID, func(s CustomSection) CustomSection {
		s.Items = Append(s.Items, item)
		return s
	})
	if !ok {
		return d, "", notFound(SectionCustomSection, sectionID)
	}
	d.CustomSections = updated
	return d, item.ID, nil
}

// UpdateCustomItem applies edits to one item of a section
func (d Document) UpdateCustomItem(sectionID, itemID string, edits ...CustomItemEdit) (Document, error) {
	return d.editItems(sectionID, itemID, func(items []CustomSectionItem) ([]CustomSectionItem, bool) {
		return ReplaceByID(items, itemID, func(i CustomSectionItem) CustomSectionItem {
			for _, edit := range edits {
				edit(&i)
			}
			return i
		})
	})
}

// RemoveCustomItem drops one item of a section
func (d Document) RemoveCustomItem(sectionID, itemID string) (Document, error) {
	return d.editItems(sectionID, itemID, func(items []CustomSectionItem) ([]CustomSectionItem, bool) {
		return RemoveByID(items, itemID)
	})
}

// MoveCustomItem swaps an item with its neighbour. Boundary moves leave the section as it was.
func (d Document) MoveCustomItem(sectionID, itemID string, dir Direction) (Document, error) {
	return d.editItems(sectionID, itemID, func(items []CustomSectionItem) ([]CustomSectionItem, bool) {
		return MoveByID(items, itemID, dir)
	})
}

func (d Document) editItems(sectionID, itemID string, fn func([]CustomSectionItem) ([]CustomSectionItem, bool)) (Document, error) {
	i := IndexOf(d.CustomSections, sectionID)
	if i < 0 {
		return d, notFound(SectionCustomSection, sectionID)
	}
	items, ok := fn(d.CustomSections[i].Items)
	if !ok {
		return d, notFoundIn(SectionCustomItem, itemID, sectionID)
	}
	d.CustomSections, _ = ReplaceByID(d.CustomSections, sectionID, func(s CustomSection) CustomSection {
		s.Items = items
		return s
	})
	return d, nil
}
