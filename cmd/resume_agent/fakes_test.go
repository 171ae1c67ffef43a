package main

import (
	"context"
	"errors"
	"strings"

	"github.com/jonathan/resume-builder/internal/generation"
)

// fakeService returns canned drafts; failKinds makes chosen kinds fail
type fakeService struct {
	failKinds map[generation.Kind]bool
	skills    []string
	chatReply string
}

func (f *fakeService) fail(kind generation.Kind) error {
	if f.failKinds[kind] {
		return errors.New("model unavailable")
	}
	return nil
}

func (f *fakeService) Summary(context.Context, generation.SummaryRequest) (generation.SummaryResponse, error) {
	return generation.SummaryResponse{Summary: "Curious engineer."}, f.fail(generation.KindSummary)
}

func (f *fakeService) BulletPoints(_ context.Context, req generation.BulletPointsRequest) (generation.BulletPointsResponse, error) {
	return generation.BulletPointsResponse{
		GeneratedBulletPoints: []string{"Worked at " + req.Company},
	}, f.fail(generation.KindBulletPoints)
}

func (f *fakeService) SuggestSkills(context.Context, generation.SkillsRequest) (generation.SkillsResponse, error) {
	return generation.SkillsResponse{SuggestedSkills: f.skills}, f.fail(generation.KindSkills)
}

func (f *fakeService) ProjectDescriptions(_ context.Context, req generation.ProjectDescriptionRequest) (generation.ProjectDescriptionResponse, error) {
	return generation.ProjectDescriptionResponse{
		GeneratedDescriptions: []string{req.ProjectName + " in " + strings.Join(req.Technologies, ", ")},
	}, f.fail(generation.KindProjectDescription)
}

func (f *fakeService) Chat(_ context.Context, req generation.ChatRequest) (generation.ChatResponse, error) {
	if err := f.fail(generation.KindChat); err != nil {
		return generation.ChatResponse{}, err
	}
	reply := f.chatReply
	if reply == "" {
		reply = "echo: " + req.NewMessage
	}
	return generation.ChatResponse{Response: reply}, nil
}
