package main

import (
	"fmt"
	"slices"

	"github.com/jonathan/resume-builder/internal/schemas"
	embedded "github.com/jonathan/resume-builder/schemas"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a JSON file against a schema",
	Long:  "Validate a résumé document, or a stored generation response, against its embedded JSON schema.",
	RunE:  runValidate,
}

var (
	validateInput  string
	validateSchema string
)

func init() {
	validateCmd.Flags().StringVarP(&validateInput, "in", "i", "", "Path to JSON file (required)")
	validateCmd.Flags().StringVar(&validateSchema, "schema", embedded.Resume, fmt.Sprintf("Schema name, one of %v", embedded.All))
	_ = validateCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	if !slices.Contains(embedded.All, validateSchema) {
		return fmt.Errorf("unknown schema %q, want one of %v", validateSchema, embedded.All)
	}
	if err := schemas.ValidateFile(validateSchema, validateInput); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s is valid against %s\n", validateInput, validateSchema)
	return nil
}
