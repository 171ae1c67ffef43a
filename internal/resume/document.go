// Package resume defines the résumé document model and the pure operators that edit it.
//
// A Document is a value. Every operator returns a new Document and never writes
// through a slice it received, so a document handed out earlier keeps its contents
// no matter what happens to later versions.
package resume

import (
	"encoding/json"
	"slices"
	"strings"
)

// Document is the top-level résumé container of an editing session
type Document struct {
	Contact        Contact         `json:"contact"`
	Summary        string          `json:"summary"`
	Experience     []Experience    `json:"experience"`
	Projects       []Project       `json:"projects"`
	Education      []Education     `json:"education"`
	Skills         []Skill         `json:"skills"`
	Languages      []Language      `json:"languages"`
	CustomSections []CustomSection `json:"customSections"`
}

// Contact holds the candidate's contact block. No field is required at this level.
type Contact struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	LinkedIn  string `json:"linkedin"`
	GitHub    string `json:"github"`
	Portfolio string `json:"portfolio"`
	Photo     string `json:"photo,omitempty"` // reference to an uploaded image, never the bytes
}

// Experience is one job entry. EndDate is kept even when IsCurrent is set.
type Experience struct {
	ID               string           `json:"id"`
	JobTitle         string           `json:"jobTitle"`
	Company          string           `json:"company"`
	Location         string           `json:"location"`
	StartDate        string           `json:"startDate"`
	EndDate          string           `json:"endDate"`
	IsCurrent        bool             `json:"isCurrent"`
	Responsibilities []Responsibility `json:"responsibilities"`
}

// Responsibility is one bullet line of an Experience
type Responsibility struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Project is a portfolio entry. Technologies is an insertion-ordered set.
type Project struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	Link         string   `json:"link"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
}

// Education is one degree or program
type Education struct {
	ID           string `json:"id"`
	Institution  string `json:"institution"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldOfStudy"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	GPA          string `json:"gpa"`
}

// Skill names are unique within a Document, compared case-insensitively
type Skill struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

// Language is a spoken language with an optional proficiency label
type Language struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Proficiency string `json:"proficiency,omitempty"`
}

// CustomSection is a user-titled section of free-form items
type CustomSection struct {
	ID    string              `json:"id"`
	Title string              `json:"title"`
	Items []CustomSectionItem `json:"items"`
}

// CustomSectionItem is one row of a CustomSection
type CustomSectionItem struct {
	ID         string `json:"id"`
	Content    string `json:"content"`
	SubContent string `json:"subContent,omitempty"`
	Date       string `json:"date,omitempty"`
}

// EntityID implementations let the generic collection helpers address entities by id.

func (e Experience) EntityID() string        { return e.ID }
func (r Responsibility) EntityID() string    { return r.ID }
func (p Project) EntityID() string           { return p.ID }
func (e Education) EntityID() string         { return e.ID }
func (s Skill) EntityID() string             { return s.ID }
func (l Language) EntityID() string          { return l.ID }
func (c CustomSection) EntityID() string     { return c.ID }
func (i CustomSectionItem) EntityID() string { return i.ID }

// New returns an empty document whose collections encode as [] rather than null
func New() Document {
	return Document{}.normalize()
}

// Decode parses a JSON document and fills missing collections with empty slices.
// Ids must be unique within each collection (*DuplicateIDError otherwise). Skills
// whose names repeat ignoring case are dropped, keeping the first; technologies
// are trimmed with blanks and exact repeats dropped.
func Decode(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, err
	}
	doc = doc.normalize()
	if err := doc.checkIDs(); err != nil {
		return Document{}, err
	}
	return doc.dedupe(), nil
}

// checkIDs rejects an id used twice within one collection
func (d Document) checkIDs() error {
	if err := uniqueIDs(d.Experience, SectionExperience, ""); err != nil {
		return err
	}
	for _, exp := range d.Experience {
		if err := uniqueIDs(exp.Responsibilities, SectionResponsibility, exp.ID); err != nil {
			return err
		}
	}
	if err := uniqueIDs(d.Projects, SectionProject, ""); err != nil {
		return err
	}
	if err := uniqueIDs(d.Education, SectionEducation, ""); err != nil {
		return err
	}
	if err := uniqueIDs(d.Skills, SectionSkill, ""); err != nil {
		return err
	}
	if err := uniqueIDs(d.Languages, SectionLanguage, ""); err != nil {
		return err
	}
	if err := uniqueIDs(d.CustomSections, SectionCustomSection, ""); err != nil {
		return err
	}
	for _, sec := range d.CustomSections {
		if err := uniqueIDs(sec.Items, SectionCustomItem, sec.ID); err != nil {
			return err
		}
	}
	return nil
}

func uniqueIDs[T Entity](items []T, section Section, parentID string) error {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		id := item.EntityID()
		if _, dup := seen[id]; dup {
			return &DuplicateIDError{Section: section, ID: id, ParentID: parentID}
		}
		seen[id] = struct{}{}
	}
	return nil
}

// dedupe restores the skill and technology set invariants
func (d Document) dedupe() Document {
	skills := make([]Skill, 0, len(d.Skills))
	for _, s := range d.Skills {
		s.Name = strings.TrimSpace(s.Name)
		if (Document{Skills: skills}).HasSkill(s.Name) {
			continue
		}
		skills = append(skills, s)
	}
	d.Skills = skills

	projects := make([]Project, len(d.Projects))
	for i, p := range d.Projects {
		techs := make([]string, 0, len(p.Technologies))
		for _, t := range p.Technologies {
			t = strings.TrimSpace(t)
			if t != "" && !slices.Contains(techs, t) {
				techs = append(techs, t)
			}
		}
		p.Technologies = techs
		projects[i] = p
	}
	d.Projects = projects
	return d
}

// normalize replaces nil collections with empty ones, copying only what it touches
func (d Document) normalize() Document {
	if d.Experience == nil {
		d.Experience = []Experience{}
	}
	if d.Projects == nil {
		d.Projects = []Project{}
	}
	if d.Education == nil {
		d.Education = []Education{}
	}
	if d.Skills == nil {
		d.Skills = []Skill{}
	}
	if d.Languages == nil {
		d.Languages = []Language{}
	}
	if d.CustomSections == nil {
		d.CustomSections = []CustomSection{}
	}
	if slices.ContainsFunc(d.Experience, func(e Experience) bool { return e.Responsibilities == nil }) {
		d.Experience = cloneSlice(d.Experience)
		for i := range d.Experience {
			if d.Experience[i].Responsibilities == nil {
				d.Experience[i].Responsibilities = []Responsibility{}
			}
		}
	}
	if slices.ContainsFunc(d.Projects, func(p Project) bool { return p.Technologies == nil }) {
		d.Projects = cloneSlice(d.Projects)
		for i := range d.Projects {
			if d.Projects[i].Technologies == nil {
				d.Projects[i].Technologies = []string{}
			}
		}
	}
	if slices.ContainsFunc(d.CustomSections, func(c CustomSection) bool { return c.Items == nil }) {
		d.CustomSections = cloneSlice(d.CustomSections)
		for i := range d.CustomSections {
			if d.CustomSections[i].Items == nil {
				d.CustomSections[i].Items = []CustomSectionItem{}
			}
		}
	}
	return d
}

// Clone returns a deep copy that shares no backing arrays with d
func (d Document) Clone() Document {
	out := d
	out.Experience = make([]Experience, len(d.Experience))
	for i, exp := range d.Experience {
		exp.Responsibilities = cloneSlice(exp.Responsibilities)
		out.Experience[i] = exp
	}
	out.Projects = make([]Project, len(d.Projects))
	for i, p := range d.Projects {
		p.Technologies = cloneSlice(p.Technologies)
		out.Projects[i] = p
	}
	out.Education = cloneSlice(d.Education)
	out.Skills = cloneSlice(d.Skills)
	out.Languages = cloneSlice(d.Languages)
	out.CustomSections = make([]CustomSection, len(d.CustomSections))
	for i, s := range d.CustomSections {
		s.Items = cloneSlice(s.Items)
		out.CustomSections[i] = s
	}
	return out.normalize()
}

// SkillNames returns skill names in document order
func (d Document) SkillNames() []string {
	names := make([]string, len(d.Skills))
	for i, s := range d.Skills {
		names[i] = s.Name
	}
	return names
}

// HasSkill reports whether a skill with the given name exists, ignoring case
func (d Document) HasSkill(name string) bool {
	for _, s := range d.Skills {
		if strings.EqualFold(s.Name, name) {
			return true
		}
	}
	return false
}

// MostRecentJobTitle returns the job title of the first experience entry, or ""
func (d Document) MostRecentJobTitle() string {
	if len(d.Experience) == 0 {
		return ""
	}
	return d.Experience[0].JobTitle
}

// FindExperience looks up an experience entry by id
func (d Document) FindExperience(id string) (Experience, bool) {
	if i := IndexOf(d.Experience, id); i >= 0 {
		return d.Experience[i], true
	}
	return Experience{}, false
}

// FindProject looks up a project by id
func (d Document) FindProject(id string) (Project, bool) {
	if i := IndexOf(d.Projects, id); i >= 0 {
		return d.Projects[i], true
	}
	return Project{}, false
}

// FindCustomSection looks up a custom section by id
func (d Document) FindCustomSection(id string) (CustomSection, bool) {
	if i := IndexOf(d.CustomSections, id); i >= 0 {
		return d.CustomSections[i], true
	}
	return CustomSection{}, false
}
