package server

import (
	"sort"
	"strconv"

	"github.com/jonathan/resume-builder/internal/editor"
	"github.com/jonathan/resume-builder/internal/resume"
)

// OperationRequest is one editor command. Which fields are read depends on Op:
// ID addresses the entity itself, SectionID/ItemID address custom section items,
// ResponsibilityID addresses a line of experience ID, and Fields carries field
// updates keyed by their document JSON names.
type OperationRequest struct {
	Op               string            `json:"op" validate:"required"`
	ID               string            `json:"id,omitempty"`
	SectionID        string            `json:"section_id,omitempty"`
	ItemID           string            `json:"item_id,omitempty"`
	ResponsibilityID string            `json:"responsibility_id,omitempty"`
	Text             string            `json:"text,omitempty"`
	Name             string            `json:"name,omitempty"`
	Category         string            `json:"category,omitempty"`
	Direction        string            `json:"direction,omitempty" validate:"omitempty,oneof=up down"`
	Fields           map[string]string `json:"fields,omitempty"`
}

// OperationResult reports the outcome of an operation
type OperationResult struct {
	Op       string          `json:"op"`
	ID       string          `json:"id,omitempty"`
	Changed  *bool           `json:"changed,omitempty"`
	Document resume.Document `json:"document"`
}

type operationFunc func(ws *editor.Workspace, req OperationRequest) (OperationResult, error)

var operations = map[string]operationFunc{
	"contact.update": func(ws *editor.Workspace, req OperationRequest) (OperationResult, error) {
		edits, err := contactEdits(req.Fields)
		if err != nil {
			return OperationResult{}, err
		}
		ws.UpdateContact(edits...)
		return OperationResult{}, nil
	},
	"summary.set": func(ws *editor.Workspace, req OperationRequest) (OperationResult, error) {
		ws.SetSummary(req.Text)
		return OperationResult{}, nil
	},

	"experience.add": func(ws *editor.Workspace, _ OperationRequest) (OperationResult, error) {
		return OperationResult{ID: ws.Experience().Add()}, nil
	},
	"experience.update": func(ws *editor.Workspace, req OperationRequest) (OperationResult, error) {
		edits, err := experienceEdits(req.Fields)
		if err != nil {
			return OperationResult{}, err
		}
		return withID("id", req.ID, func() error { return ws.Experience().Update(req.ID, edits...) })
	},
	"experience.remove": func(ws *editor.Workspace, req OperationRequest) (OperationResult, error) {
		return withID("id", req.ID, func() error { return ws.Experience().Remove(req.ID) })
	},
	"experience.add_responsibility": func(ws *editor.Workspace, req OperationRequest) (OperationResult, error) {
		if err := requireField("id", req.ID); err != nil {
			return OperationResult{}, err
		}
		id, err := ws.Experience().AddResponsibility(req.ID)
		return OperationResult{ID: id}, err
	},
	"experience.update_responsibility": func(ws *editor.Workspace, req OperationRequest) (OperationResult, error) {
		if err := requireField("responsibility_id", req.ResponsibilityID); err != nil {
			return OperationResult{}, err
		}
		return withID("id", req.ID, func() error {
			return ws.Experience().UpdateResponsibility(req.ID, req.ResponsibilityID, req.Text)
		})
	},
	"experience.remove_responsibility": func(ws *editor.Workspace, req OperationRequest) (OperationResult, error) {
		if err := requireField("responsibility_id", req.ResponsibilityID); err != nil {
			return OperationResult{}, err
		}
		return withID("id", req.ID, func() error {
			return ws.Experience().RemoveResponsibility(req.ID, req.ResponsibilityID)
		})
	},

	"project.add": func(ws *editor.Workspace, _ OperationRequest) (OperationResult, error) {
		return OperationResult{ID: ws.Projects().Add()}, nil
	},
	"project.update": func(ws *editor.Workspace, req OperationRequest) (OperationResult, error) {
		edits, err := projectEdits(req.Fields)
		if err != nil {
			return OperationResult{}, err
		}
		return withID("id", req.ID, func() error { return ws.Projects().Update(req.ID, edits...) })
	},
	"project.remove": func(ws *editor.Workspace, req OperationRequest) (OperationResult, error) {
		return withID("id", req.ID, func() error { return ws.Projects().Remove(req.ID) })
	},
	"project.add_technology": func(ws *editor.Workspace, req OperationRequest) (OperationResult, error) {
		if err := requireField("id", req.ID); err != nil {
			return OperationResult{}, err
		}
		added, err := ws.Projects().AddTechnology(req.ID, req.Text)
		return OperationResult{ID: req.ID, Changed: &added}, err
	},
	"project.remove_technology": func(ws *editor.Workspace, req OperationRequest) (OperationResult, error) {
		if err := requireField("id", req.ID); err != nil {
			return OperationResult{}, err
		}
		removed, err := ws.Projects().RemoveTechnology(req.ID, req.Text)
		return OperationResult{ID: req.ID, Changed: &removed}, err
	},

	"education.add": func(ws *editor.Workspace, _ OperationRequest) (OperationResult, error) {
		return OperationResult{ID: ws.Education().Add()}, nil
	},
	"education.update": func(ws *editor.Workspace, req OperationRequest) (OperationResult, error) {
		edits, err := educationEdits(req.Fields)
		if err != nil {
			return OperationResult{}, err
		}
		return withID("id", req.ID, func() error { return ws.Education().Update(req.ID, edits...) })
	},
	"education.remove": func(ws *editor.Workspace, req OperationRequest) (OperationResult, error) {
		return withID("id", req.ID, func() error { return ws.Education().Remove(req.ID) })
	},

	"skill.add": func(ws *editor.Workspace, req OperationRequest) (OperationResult, error) {
		id, added := ws.Skills().Add(req.Name, req.Category)
		return OperationResult{ID: id, Changed: &added}, nil
	},
	"skill.update": func(ws *editor.Workspace, req OperationRequest) (OperationResult, error) {
		return withID("id", req.ID, func() error {
			return ws.Skills().Update(req.ID, resume.SetSkillCategory(req.Category))
		})
	},
	"skill.remove": func(ws *editor.Workspace, req OperationRequest) (OperationResult, error) {
		return withID("id", req.ID, func() error { return ws.Skills().Remove(req.ID) })
	},

	"language.add": func(ws *editor.Workspace, _ OperationRequest) (OperationResult, error) {
		return OperationResult{ID: ws.Languages().Add()}, nil
	},
	"language.update": func(ws *editor.Workspace, req OperationRequest) (OperationResult, error) {
		edits, err := languageEdits(req.Fields)
		if err != nil {
			return OperationResult{}, err
		}
		return withID("id", req.ID, func() error { return ws.Languages().Update(req.ID, edits...) })
	},
	"language.remove": func(ws *editor.Workspace, req OperationRequest) (OperationResult, error) {
		return withID("id", req.ID, func() error { return ws.Languages().Remove(req.ID) })
	},

	"custom_section.add": func(ws *editor.Workspace, _ OperationRequest) (OperationResult, error) {
		return OperationResult{ID: ws.CustomSections().Add()}, nil
	},
	"custom_section.set_title": func(ws *editor.Workspace, req OperationRequest) (OperationResult, error) {
		return withID("section_id", req.SectionID, func() error {
			return ws.CustomSections().SetTitle(req.SectionID, req.Text)
		})
	},
	"custom_section.remove": func(ws *editor.Workspace, req OperationRequest) (OperationResult, error) {
		return withID("section_id", req.SectionID, func() error {
			return ws.CustomSections().Remove(req.SectionID)
		})
	},
	"custom_section.add_item": func(ws *editor.Workspace, req OperationRequest) (OperationResult, error) {
		if err := requireField("section_id", req.SectionID); err != nil {
			return OperationResult{}, err
		}
		id, err := ws.CustomSections().AddItem(req.SectionID)
		return OperationResult{ID: id}, err
	},
	"custom_section.update_item": func(ws *editor.Workspace, req OperationRequest) (OperationResult, error) {
		edits, err := itemEdits(req.Fields)
		if err != nil {
			return OperationResult{}, err
		}
		if err := requireField("section_id", req.SectionID); err != nil {
			return OperationResult{}, err
		}
		return withID("item_id", req.ItemID, func() error {
			return ws.CustomSections().UpdateItem(req.SectionID, req.ItemID, edits...)
		})
	},
	"custom_section.remove_item": func(ws *editor.Workspace, req OperationRequest) (OperationResult, error) {
		if err := requireField("section_id", req.SectionID); err != nil {
			return OperationResult{}, err
		}
		return withID("item_id", req.ItemID, func() error {
			return ws.CustomSections().RemoveItem(req.SectionID, req.ItemID)
		})
	},
	"custom_section.move_item": func(ws *editor.Workspace, req OperationRequest) (OperationResult, error) {
		if err := requireField("section_id", req.SectionID); err != nil {
			return OperationResult{}, err
		}
		dir, err := resume.ParseDirection(req.Direction)
		if err != nil {
			return OperationResult{}, &ErrValidation{Field: "direction", Message: err.Error()}
		}
		return withID("item_id", req.ItemID, func() error {
			return ws.CustomSections().MoveItem(req.SectionID, req.ItemID, dir)
		})
	},
}

// OperationNames lists every supported op, sorted
func OperationNames() []string {
	names := make([]string, 0, len(operations))
	for name := range operations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func applyOperation(ws *editor.Workspace, req OperationRequest) (OperationResult, error) {
	op, ok := operations[req.Op]
	if !ok {
		return OperationResult{}, &ErrValidation{Field: "op", Message: "unknown operation " + strconv.Quote(req.Op)}
	}
	result, err := op(ws, req)
	if err != nil {
		return OperationResult{}, err
	}
	result.Op = req.Op
	return result, nil
}

func requireField(field, value string) error {
	if value == "" {
		return &ErrValidation{Field: field, Message: "is required"}
	}
	return nil
}

// withID checks the addressing id, runs fn and echoes the id back
func withID(field, id string, fn func() error) (OperationResult, error) {
	if err := requireField(field, id); err != nil {
		return OperationResult{}, err
	}
	if err := fn(); err != nil {
		return OperationResult{}, err
	}
	return OperationResult{ID: id}, nil
}

func unknownField(name string) error {
	return &ErrValidation{Field: "fields." + name, Message: "unknown field"}
}

func contactEdits(fields map[string]string) ([]resume.ContactEdit, error) {
	setters := map[string]func(string) resume.ContactEdit{
		"name":      resume.SetName,
		"email":     resume.SetEmail,
		"phone":     resume.SetPhone,
		"address":   resume.SetAddress,
		"linkedin":  resume.SetLinkedIn,
		"github":    resume.SetGitHub,
		"portfolio": resume.SetPortfolio,
		"photo":     resume.SetPhoto,
	}
	return buildEdits(fields, setters)
}

func experienceEdits(fields map[string]string) ([]resume.ExperienceEdit, error) {
	setters := map[string]func(string) resume.ExperienceEdit{
		"jobTitle":  resume.SetJobTitle,
		"company":   resume.SetCompany,
		"location":  resume.SetLocation,
		"startDate": resume.SetExperienceStart,
		"endDate":   resume.SetExperienceEnd,
	}
	current, hasCurrent := fields["isCurrent"]
	rest := without(fields, "isCurrent")
	edits, err := buildEdits(rest, setters)
	if err != nil {
		return nil, err
	}
	if hasCurrent {
		b, err := strconv.ParseBool(current)
		if err != nil {
			return nil, &ErrValidation{Field: "fields.isCurrent", Message: "must be true or false"}
		}
		edits = append(edits, resume.SetCurrent(b))
	}
	return edits, nil
}

func projectEdits(fields map[string]string) ([]resume.ProjectEdit, error) {
	return buildEdits(fields, map[string]func(string) resume.ProjectEdit{
		"name":        resume.SetProjectName,
		"description": resume.SetProjectDescription,
		"link":        resume.SetProjectLink,
		"startDate":   resume.SetProjectStart,
		"endDate":     resume.SetProjectEnd,
	})
}

func educationEdits(fields map[string]string) ([]resume.EducationEdit, error) {
	return buildEdits(fields, map[string]func(string) resume.EducationEdit{
		"institution":  resume.SetInstitution,
		"degree":       resume.SetDegree,
		"fieldOfStudy": resume.SetFieldOfStudy,
		"startDate":    resume.SetEducationStart,
		"endDate":      resume.SetEducationEnd,
		"gpa":          resume.SetGPA,
	})
}

func languageEdits(fields map[string]string) ([]resume.LanguageEdit, error) {
	return buildEdits(fields, map[string]func(string) resume.LanguageEdit{
		"name":        resume.SetLanguageName,
		"proficiency": resume.SetProficiency,
	})
}

func itemEdits(fields map[string]string) ([]resume.CustomItemEdit, error) {
	return buildEdits(fields, map[string]func(string) resume.CustomItemEdit{
		"content":    resume.SetItemContent,
		"subContent": resume.SetItemSubContent,
		"date":       resume.SetItemDate,
	})
}

// buildEdits turns JSON field names into typed edits. Keys are visited in
// sorted order so errors name the same field every time.
func buildEdits[E any](fields map[string]string, setters map[string]func(string) E) ([]E, error) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	edits := make([]E, 0, len(keys))
	for _, k := range keys {
		set, ok := setters[k]
		if !ok {
			return nil, unknownField(k)
		}
		edits = append(edits, set(fields[k]))
	}
	return edits, nil
}

func without(fields map[string]string, key string) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		if k != key {
			out[k] = v
		}
	}
	return out
}
