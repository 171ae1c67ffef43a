package llm

import (
	"fmt"
	"strings"
)

// OutputSchema describes the JSON object a structured prompt asks the model to return
type OutputSchema struct {
	Name   string
	Fields []SchemaField
}

// SchemaField defines a single field of the expected output
type SchemaField struct {
	Name        string // JSON field name
	Type        string // type hint: "string", "[]string"
	Description string
}

// BuildStructuredPrompt appends the output contract to an instruction prompt
func BuildStructuredPrompt(instructions string, schema OutputSchema) string {
	var sb strings.Builder

	sb.WriteString(strings.TrimSpace(instructions))
	sb.WriteString("\n\n")

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "string"
		}
		sb.WriteString(fmt.Sprintf("  %q: %s", field.Name, typeHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n")
	sb.WriteString("Do not wrap the JSON in markdown and do not add any explanation.\n")

	return sb.String()
}
