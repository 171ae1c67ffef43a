package resume

import (
	"errors"
	"fmt"
)

// ErrInvalidPath is matched by every InvalidPathError
var ErrInvalidPath = errors.New("invalid path")

// ErrDuplicateID is matched by every DuplicateIDError
var ErrDuplicateID = errors.New("duplicate id")

// Section names the collection an operator addresses
type Section string

// Sections of a Document, including nested collections
const (
	SectionExperience     Section = "experience"
	SectionResponsibility Section = "responsibility"
	SectionProject        Section = "projects"
	SectionEducation      Section = "education"
	SectionSkill          Section = "skills"
	SectionLanguage       Section = "languages"
	SectionCustomSection  Section = "customSections"
	SectionCustomItem     Section = "customSectionItem"
)

// InvalidPathError reports an operator addressing an entity id that does not exist.
// It is a programming error on the caller's side and must not be swallowed.
type InvalidPathError struct {
	Section  Section
	ID       string
	ParentID string // owning entity for nested collections
}

func (e *InvalidPathError) Error() string {
	if e.ParentID != "" {
		return fmt.Sprintf("invalid path: %s %q not found in %q", e.Section, e.ID, e.ParentID)
	}
	return fmt.Sprintf("invalid path: %s %q not found", e.Section, e.ID)
}

// Is makes errors.Is(err, ErrInvalidPath) succeed
func (e *InvalidPathError) Is(target error) bool {
	return target == ErrInvalidPath
}

func notFound(section Section, id string) error {
	return &InvalidPathError{Section: section, ID: id}
}

func notFoundIn(section Section, id, parentID string) error {
	return &InvalidPathError{Section: section, ID: id, ParentID: parentID}
}

// DuplicateIDError reports a decoded document that uses one id twice within a
// collection, which would make every operator addressing that id ambiguous
type DuplicateIDError struct {
	Section  Section
	ID       string
	ParentID string // owning entity for nested collections
}

func (e *DuplicateIDError) Error() string {
	if e.ParentID != "" {
		return fmt.Sprintf("duplicate id: %s %q appears more than once in %q", e.Section, e.ID, e.ParentID)
	}
	return fmt.Sprintf("duplicate id: %s %q appears more than once", e.Section, e.ID)
}

// Is makes errors.Is(err, ErrDuplicateID) succeed
func (e *DuplicateIDError) Is(target error) bool {
	return target == ErrDuplicateID
}
