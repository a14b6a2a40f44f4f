package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-tailor/internal/experience"
	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/prompts"
	"github.com/jonathan/resume-tailor/internal/types"
)

type reply struct {
	text       string
	stopReason llm.StopReason
	err        error
	// block waits for the context to end before returning its error
	block bool
}

// fakeClient answers classification (lite tier) and tailoring (advanced tier) calls from
// separate scripts. A script with one entry left repeats it.
type fakeClient struct {
	mu        sync.Mutex
	classify  []reply
	tailor    []reply
	tailorLog []string
	calls     map[llm.ModelTier]int
}

func (f *fakeClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	resp, err := f.Generate(ctx, prompt, tier, llm.GenerateOptions{})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

func (f *fakeClient) Generate(ctx context.Context, prompt string, tier llm.ModelTier, _ llm.GenerateOptions) (*llm.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	if f.calls == nil {
		f.calls = map[llm.ModelTier]int{}
	}
	f.calls[tier]++
	script := &f.classify
	if tier == llm.TierAdvanced {
		script = &f.tailor
		f.tailorLog = append(f.tailorLog, prompt)
	}
	if len(*script) == 0 {
		f.mu.Unlock()
		return nil, errors.New("no scripted reply")
	}
	r := (*script)[0]
	if len(*script) > 1 {
		*script = (*script)[1:]
	}
	f.mu.Unlock()

	if r.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if r.err != nil {
		return nil, r.err
	}
	stop := r.stopReason
	if stop == "" {
		stop = llm.StopReasonEnd
	}
	return &llm.Response{Text: r.text, StopReason: stop, Model: "fake-" + string(tier)}, nil
}

func (f *fakeClient) GetModel(tier llm.ModelTier) string { return "fake-" + string(tier) }

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) callCount(tier llm.ModelTier) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[tier]
}

// mapStore serves canonical resumes keyed by profile name and records the variants requested
type mapStore struct {
	mu        sync.Mutex
	resumes   map[string]*types.CanonicalResume
	requested []types.ResumeVariant
}

func (s *mapStore) Load(ctx context.Context, profileName string, variant types.ResumeVariant) (*types.CanonicalResume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requested = append(s.requested, variant)
	resume, ok := s.resumes[profileName]
	if !ok {
		return nil, &experience.NotFoundError{Profile: profileName, Variant: string(variant)}
	}
	return resume, nil
}

type recordedRun struct {
	profile, company string
	status, errMsg   string
	artifacts        map[string]any
	texts            map[string]string
}

// memRecorder keeps run history in memory
type memRecorder struct {
	mu   sync.Mutex
	runs map[uuid.UUID]*recordedRun
}

func newMemRecorder() *memRecorder {
	return &memRecorder{runs: map[uuid.UUID]*recordedRun{}}
}

func (r *memRecorder) CreateRun(_ context.Context, runID uuid.UUID, profile, company string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[runID] = &recordedRun{profile: profile, company: company, artifacts: map[string]any{}, texts: map[string]string{}}
	return nil
}

func (r *memRecorder) CompleteRun(_ context.Context, runID uuid.UUID, status, errMessage string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[runID].status = status
	r.runs[runID].errMsg = errMessage
	return nil
}

func (r *memRecorder) SaveArtifact(_ context.Context, runID uuid.UUID, step string, content any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[runID].artifacts[step] = content
	return nil
}

func (r *memRecorder) SaveTextArtifact(_ context.Context, runID uuid.UUID, step, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[runID].texts[step] = text
	return nil
}

func (r *memRecorder) only(t *testing.T) *recordedRun {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.Len(t, r.runs, 1)
	for _, run := range r.runs {
		return run
	}
	return nil
}

func janeDoe() *types.CanonicalResume {
	return &types.CanonicalResume{
		Name:     "Jane Q Doe",
		Email:    "jane@example.com",
		Location: "Austin, TX",
		Summary:  "Backend engineer.",
		Skills:   types.SkillGroups{{Name: "Languages", Skills: []string{"Go", "Python"}}},
		Experience: []types.CanonicalExperience{
			{
				Company:   "Acme Corp",
				Title:     "Backend Engineer",
				Location:  "Remote",
				StartDate: "Jan 2020",
				EndDate:   "Present",
				Bullets:   []string{"Wrote services", "Ran on-call"},
			},
			{
				Company:   "Globex Inc.",
				Title:     "Software Engineer",
				Location:  "Austin, TX",
				StartDate: "Jun 2016",
				EndDate:   "Dec 2019",
				Bullets:   []string{"Built tools", "Fixed bugs"},
			},
		},
		Education: []types.Education{{Degree: "BS Computer Science", School: "UT Austin", StartYear: "2012", EndYear: "2016"}},
	}
}

const tailoredResponse = "Here is the JSON:\n```json\n" + `{
  "title": "Senior Go Engineer - Payments Platform",
  "summary": "Senior Go Engineer - Payments Platform with a decade of backend work.",
  "skills": {"Languages": ["Go", "SQL"], "Cloud": ["Kubernetes"]},
  "experience": [
    {"title": "Backend Engineer, Acme Corp (Jan 2020 - Present)", "details": ["Built {payments} APIs in Go", "Cut p99 latency 40%"]},
    {"title": "Software Engineer, Globex (2016 - 2019)", "details": ["Shipped Go services"]}
  ]
}` + "\n```"

func newTestPipeline(t *testing.T, client llm.Client, recorder Recorder) (*Pipeline, *mapStore) {
	t.Helper()
	templates, err := prompts.Load()
	require.NoError(t, err)

	store := &mapStore{resumes: map[string]*types.CanonicalResume{"Jane Doe": janeDoe()}}
	opts := RunOptions{
		Templates: templates,
		Store:     store,
		Recorder:  recorder,
	}
	if client != nil {
		opts.Client = client
	}
	p, err := New(opts)
	require.NoError(t, err)
	return p, store
}
