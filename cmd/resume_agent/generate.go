package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jonathan/resume-builder/internal/editor"
	"github.com/jonathan/resume-builder/internal/generation"
	"github.com/jonathan/resume-builder/internal/identity"
	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/spf13/cobra"
)

// Content kinds accepted by --kind
const (
	kindSummary  = "summary"
	kindBullets  = "bullets"
	kindSkills   = "skills"
	kindProjects = "projects"
	kindAll      = "all"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Draft résumé content with the generative model",
	Long: `Draft a career summary, experience bullet points, skill suggestions or project
descriptions for a résumé JSON file and merge them into the document.

Without --entry, bullets and projects are drafted for every eligible entry.`,
	RunE: runGenerate,
}

var (
	generateInput   string
	generateOutput  string
	generateKind    string
	generateEntry   string
	generateJobFile string
	generateJobURL  string
)

func init() {
	generateCmd.Flags().StringVarP(&generateInput, "in", "i", "", "Path to résumé JSON (required)")
	generateCmd.Flags().StringVarP(&generateOutput, "out", "o", "", "Path to write the updated résumé (default: overwrite --in)")
	generateCmd.Flags().StringVarP(&generateKind, "kind", "k", kindAll, "What to draft: summary, bullets, skills, projects or all")
	generateCmd.Flags().StringVar(&generateEntry, "entry", "", "Experience or project id for bullets/projects")
	generateCmd.Flags().StringVar(&generateJobFile, "job-file", "", "Job description text file for skill suggestions")
	generateCmd.Flags().StringVar(&generateJobURL, "job-url", "", "Job posting URL for skill suggestions")

	_ = generateCmd.MarkFlagRequired("in")
	generateCmd.MarkFlagsMutuallyExclusive("job-file", "job-url")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	doc, err := readDocument(generateInput)
	if err != nil {
		return err
	}

	jobDescription, err := loadJobDescription(ctx)
	if err != nil {
		return err
	}

	svc, closeService, err := newService(ctx, appConfig, appLogger)
	if err != nil {
		return err
	}
	defer closeService()

	ws := editor.NewWorkspace(doc, identity.Default(), editor.WithLogger(appLogger))
	orch := newOrchestrator(svc, appConfig, appLogger)
	printer := observability.NewPrinter(cmd.OutOrStdout())

	genErr := generate(ctx, orch, ws, generateOptions{
		Kind:           generateKind,
		Entry:          generateEntry,
		JobDescription: jobDescription,
	}, printer)
	printer.PrintFailures(genErr)
	printer.PrintStatuses(orch.Statuses())

	out := generateOutput
	if out == "" {
		out = generateInput
	}
	if err := writeDocument(out, ws.Snapshot()); err != nil {
		return errors.Join(genErr, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Résumé written to %s\n", out)
	return genErr
}

func loadJobDescription(ctx context.Context) (string, error) {
	switch {
	case generateJobFile != "":
		data, err := os.ReadFile(generateJobFile)
		if err != nil {
			return "", fmt.Errorf("failed to read job file: %w", err)
		}
		return string(data), nil
	case generateJobURL != "":
		return newFetcher(appConfig, false, appLogger).JobDescription(ctx, generateJobURL)
	default:
		return "", nil
	}
}

type generateOptions struct {
	Kind           string
	Entry          string
	JobDescription string
}

// generate drafts opts.Kind into ws and prints each result to p. For kindAll
// every step runs and the failures are joined.
func generate(ctx context.Context, orch *generation.Orchestrator, ws *editor.Workspace, opts generateOptions, p *observability.Printer) error {
	switch opts.Kind {
	case kindSummary:
		summary, err := orch.GenerateSummary(ctx, ws)
		if err != nil {
			return err
		}
		p.PrintSummary(summary)
		return nil

	case kindBullets:
		if opts.Entry != "" {
			if _, err := orch.GenerateBulletPoints(ctx, ws, opts.Entry); err != nil {
				return err
			}
			exp, _ := ws.Snapshot().FindExperience(opts.Entry)
			p.PrintBulletPoints(exp)
			return nil
		}
		drafted, err := orch.DraftAllBulletPoints(ctx, ws)
		p.PrintDrafted(drafted)
		return err

	case kindSkills:
		added, err := orch.SuggestSkills(ctx, ws, opts.JobDescription)
		if err != nil {
			return err
		}
		p.PrintSkills(added, ws.Snapshot().SkillNames())
		return nil

	case kindProjects:
		ids := []string{opts.Entry}
		if opts.Entry == "" {
			ids = eligibleProjects(ws)
		}
		var errs []error
		for _, id := range ids {
			if _, err := orch.GenerateProjectDescription(ctx, ws, id); err != nil {
				errs = append(errs, fmt.Errorf("project %s: %w", id, err))
				continue
			}
			project, _ := ws.Snapshot().FindProject(id)
			p.PrintProjectDescription(project)
		}
		return errors.Join(errs...)

	case kindAll:
		var errs []error
		for _, kind := range []string{kindBullets, kindSummary, kindSkills, kindProjects} {
			step := generateOptions{Kind: kind, JobDescription: opts.JobDescription}
			if err := generate(ctx, orch, ws, step, p); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", kind, err))
			}
		}
		return errors.Join(errs...)

	default:
		return fmt.Errorf("unknown kind %q (want summary, bullets, skills, projects or all)", opts.Kind)
	}
}

// eligibleProjects lists projects with a name and at least one technology
func eligibleProjects(ws *editor.Workspace) []string {
	var ids []string
	for _, p := range ws.Snapshot().Projects {
		if strings.TrimSpace(p.Name) != "" && len(p.Technologies) > 0 {
			ids = append(ids, p.ID)
		}
	}
	return ids
}
