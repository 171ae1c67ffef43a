package generation

import (
	"context"
	"errors"
	"sync"
)

var errServiceDown = errors.New("service unavailable")

// fakeService records requests and answers with canned responses
type fakeService struct {
	mu    sync.Mutex
	calls map[Kind]int

	summary      SummaryResponse
	bullets      BulletPointsResponse
	skills       SkillsResponse
	descriptions ProjectDescriptionResponse
	chat         ChatResponse
	err          error

	lastSummary  SummaryRequest
	lastBullets  BulletPointsRequest
	lastSkills   SkillsRequest
	lastProject  ProjectDescriptionRequest
	lastChat     ChatRequest
	bulletsByJob map[string]BulletPointsResponse

	// block, when set, holds every call until it is closed
	block   chan struct{}
	entered chan struct{}
}

func newFakeService() *fakeService {
	return &fakeService{calls: make(map[Kind]int)}
}

func (f *fakeService) record(ctx context.Context, kind Kind) error {
	f.mu.Lock()
	f.calls[kind]++
	block, entered := f.block, f.entered
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return f.err
}

func (f *fakeService) count(kind Kind) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[kind]
}

func (f *fakeService) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeService) Summary(ctx context.Context, req SummaryRequest) (SummaryResponse, error) {
	f.mu.Lock()
	f.lastSummary = req
	f.mu.Unlock()
	if err := f.record(ctx, KindSummary); err != nil {
		return SummaryResponse{}, err
	}
	return f.summary, nil
}

func (f *fakeService) BulletPoints(ctx context.Context, req BulletPointsRequest) (BulletPointsResponse, error) {
	f.mu.Lock()
	f.lastBullets = req
	byJob := f.bulletsByJob
	f.mu.Unlock()
	if err := f.record(ctx, KindBulletPoints); err != nil {
		return BulletPointsResponse{}, err
	}
	if resp, ok := byJob[req.JobTitle]; ok {
		return resp, nil
	}
	return f.bullets, nil
}

func (f *fakeService) SuggestSkills(ctx context.Context, req SkillsRequest) (SkillsResponse, error) {
	f.mu.Lock()
	f.lastSkills = req
	f.mu.Unlock()
	if err := f.record(ctx, KindSkills); err != nil {
		return SkillsResponse{}, err
	}
	return f.skills, nil
}

func (f *fakeService) ProjectDescriptions(ctx context.Context, req ProjectDescriptionRequest) (ProjectDescriptionResponse, error) {
	f.mu.Lock()
	f.lastProject = req
	f.mu.Unlock()
	if err := f.record(ctx, KindProjectDescription); err != nil {
		return ProjectDescriptionResponse{}, err
	}
	return f.descriptions, nil
}

func (f *fakeService) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	f.mu.Lock()
	f.lastChat = req
	f.mu.Unlock()
	if err := f.record(ctx, KindChat); err != nil {
		return ChatResponse{}, err
	}
	return f.chat, nil
}
