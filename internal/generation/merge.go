package generation

import (
	"strings"

	"github.com/jonathan/resume-builder/internal/identity"
	"github.com/jonathan/resume-builder/internal/resume"
)

// Merge policies combine a response with the current document. Each targets its
// entity by id and leaves the document as is when that id no longer exists.

// MergeSummary replaces the summary wholesale
func MergeSummary(doc resume.Document, resp SummaryResponse) resume.Document {
	return doc.WithSummary(strings.TrimSpace(resp.Summary))
}

// MergeBulletPoints discards the entry's responsibilities and installs one freshly
// identified line per generated bullet, in order
func MergeBulletPoints(doc resume.Document, expID string, resp BulletPointsResponse, ids identity.Allocator) resume.Document {
	if _, ok := doc.FindExperience(expID); !ok {
		return doc
	}
	merged, err := doc.ReplaceResponsibilities(expID, cleanLines(resp.GeneratedBulletPoints), ids)
	if err != nil {
		return doc
	}
	return merged
}

// MergeSuggestedSkills appends every suggestion not already present ignoring case.
// Existing skills win; new skills have no category. It returns how many were added.
func MergeSuggestedSkills(doc resume.Document, resp SkillsResponse, ids identity.Allocator) (resume.Document, int) {
	added := 0
	for _, name := range resp.SuggestedSkills {
		var ok bool
		doc, _, ok = doc.AddSkill(name, "", ids)
		if ok {
			added++
		}
	}
	return doc, added
}

// MergeProjectDescription replaces the project description with the generated lines
// joined by line breaks
func MergeProjectDescription(doc resume.Document, projectID string, resp ProjectDescriptionResponse) resume.Document {
	if _, ok := doc.FindProject(projectID); !ok {
		return doc
	}
	merged, err := doc.UpdateProject(projectID, resume.SetProjectDescription(JoinLines(resp.GeneratedDescriptions)))
	if err != nil {
		return doc
	}
	return merged
}

// SplitLines splits text on line breaks, dropping blank lines
func SplitLines(text string) []string {
	return cleanLines(strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n"))
}

// JoinLines joins non-blank lines with line breaks
func JoinLines(lines []string) string {
	return strings.Join(cleanLines(lines), "\n")
}

func cleanLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
