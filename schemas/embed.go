// Package schemas embeds the JSON Schema documents that describe résumé
// documents and the structured responses expected from the generation model.
package schemas

import "embed"

// FS holds every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS

// Schema file names
const (
	Resume              = "resume.schema.json"
	Summary             = "summary.schema.json"
	BulletPoints        = "bullet_points.schema.json"
	Skills              = "skills.schema.json"
	ProjectDescriptions = "project_descriptions.schema.json"
)

// All lists every embedded schema.
var All = []string{Resume, Summary, BulletPoints, Skills, ProjectDescriptions}
