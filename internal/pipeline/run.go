// Package pipeline provides the high-level orchestration for one resume tailoring request:
// classify, select a variant, load the canonical resume, prompt, generate, extract and reconcile.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jonathan/resume-tailor/internal/classify"
	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/experience"
	"github.com/jonathan/resume-tailor/internal/extraction"
	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/pipeline/steps"
	"github.com/jonathan/resume-tailor/internal/prompts"
	"github.com/jonathan/resume-tailor/internal/reconcile"
	"github.com/jonathan/resume-tailor/internal/sanitize"
	"github.com/jonathan/resume-tailor/internal/stack"
	"github.com/jonathan/resume-tailor/internal/types"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Recorder persists run history. *db.DB implements it.
type Recorder interface {
	CreateRun(ctx context.Context, runID uuid.UUID, profile, company string) error
	CompleteRun(ctx context.Context, runID uuid.UUID, status, errMessage string) error
	SaveArtifact(ctx context.Context, runID uuid.UUID, step string, content any) error
	SaveTextArtifact(ctx context.Context, runID uuid.UUID, step, text string) error
}

var _ Recorder = (*db.DB)(nil)

// RunOptions holds the dependencies shared by every request.
// Templates and Store are required; Client may be nil when every request
// supplies both a Variant and an AIResponse.
type RunOptions struct {
	Client     llm.Client
	Templates  *prompts.Templates
	Store      experience.Store
	Recorder   Recorder
	Reconciler *reconcile.Reconciler
	Logger     zerolog.Logger
	OnProgress ProgressCallback
	// Now is the clock used for years-of-experience; defaults to time.Now
	Now func() time.Time
	// ClassifyOptions are passed to the classifier built from Client
	ClassifyOptions []classify.Option
}

// Request is one tailoring job
type Request struct {
	// Profile is the canonical resume name, e.g. "Jane Doe"
	Profile string
	// Company is optional and only used for run records and output naming
	Company string
	JobText string
	// Variant skips classification when set
	Variant types.ResumeVariant
	// AIResponse skips the tailoring call and feeds this text to extraction
	AIResponse string
	// OnProgress receives this request's progress in addition to RunOptions.OnProgress
	OnProgress ProgressCallback
}

// Prepared is everything known before the tailoring call
type Prepared struct {
	TechProfile types.TechProfile
	// Classification is nil when the request supplied a variant
	Classification *classify.Outcome
	Variant        types.ResumeVariant
	Canonical      *types.CanonicalResume
	Prompt         string
}

// Result is a completed tailoring run
type Result struct {
	Prepared
	RunID       uuid.UUID
	RawResponse string
	// Generation is nil when the response was supplied by the caller
	Generation *llm.Response
	// RetriedConcise is set when the first generation was truncated
	RetriedConcise bool
	Extraction     *extraction.Result
	Resume         types.ReconciledResume
	Pairings       []reconcile.Pairing
	Warnings       []string
}

// Pipeline runs tailoring requests against a fixed set of dependencies.
// It holds no per-request state and is safe for concurrent use.
type Pipeline struct {
	opts       RunOptions
	classifier *classify.Classifier
}

// New validates the options and builds a Pipeline
func New(opts RunOptions) (*Pipeline, error) {
	if opts.Templates == nil {
		return nil, fmt.Errorf("pipeline: prompt templates are required")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("pipeline: canonical resume store is required")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Reconciler == nil {
		opts.Reconciler = reconcile.New()
	}

	p := &Pipeline{opts: opts}
	if opts.Client != nil {
		classifyOpts := append([]classify.Option{classify.WithLogger(opts.Logger)}, opts.ClassifyOptions...)
		p.classifier = classify.New(opts.Client, opts.Templates, classifyOpts...)
	}
	return p, nil
}

// emitProgress calls the pipeline and request progress callbacks if configured
func (p *Pipeline) emitProgress(req Request, runID uuid.UUID, step, message string, content any) {
	if p.opts.OnProgress == nil && req.OnProgress == nil {
		return
	}
	event := ProgressEvent{
		Step:     step,
		Category: steps.Category(step),
		Message:  message,
		Content:  content,
	}
	if runID != uuid.Nil {
		event.RunID = runID.String()
	}
	if p.opts.OnProgress != nil {
		p.opts.OnProgress(event)
	}
	if req.OnProgress != nil {
		req.OnProgress(event)
	}
}

// PreparePrompt classifies the job, selects the variant, loads the canonical resume
// and builds the tailoring prompt without calling the tailoring model.
func (p *Pipeline) PreparePrompt(ctx context.Context, req Request) (*Prepared, error) {
	return p.prepare(ctx, uuid.Nil, req, p.opts.Logger)
}

func (p *Pipeline) prepare(ctx context.Context, runID uuid.UUID, req Request, log zerolog.Logger) (*Prepared, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prepared := &Prepared{Variant: req.Variant}

	if prepared.Variant == "" {
		if p.classifier == nil {
			return nil, &StepError{Step: db.StepTechProfile, Cause: ErrNoClient}
		}
		outcome, err := p.classifier.Classify(ctx, req.JobText)
		if err != nil {
			return nil, err
		}
		prepared.Classification = &outcome
		prepared.TechProfile = outcome.Profile
		prepared.Variant = stack.Select(outcome.Profile)
		log.Info().
			Str("category", string(outcome.Profile.Category)).
			Str("variant", string(prepared.Variant)).
			Int("attempts", outcome.Attempts).
			Bool("degraded", outcome.Degraded).
			Msg("job classified")
	}
	p.emitProgress(req, runID, db.StepTechProfile, fmt.Sprintf("Selected %s resume", prepared.Variant), prepared.TechProfile)

	canonical, err := p.opts.Store.Load(ctx, req.Profile, prepared.Variant)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &StepError{Step: db.StepCanonicalResume, Cause: err}
	}
	prepared.Canonical = canonical
	p.emitProgress(req, runID, db.StepCanonicalResume,
		fmt.Sprintf("Loaded canonical resume with %d experience entries", len(canonical.Experience)), nil)

	prepared.Prompt = p.opts.Templates.Tailoring(canonical, req.JobText, p.opts.Now())
	p.emitProgress(req, runID, db.StepTailoringPrompt, fmt.Sprintf("Built tailoring prompt (%d chars)", len(prepared.Prompt)), nil)

	return prepared, nil
}

// Run executes one tailoring request. Context cancellation aborts the in-flight model
// call and ctx.Err() is returned. Extraction failures abort the request with no partial content.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	runID := uuid.New()
	log := p.opts.Logger.With().Str("run_id", runID.String()).Str("profile", req.Profile).Logger()

	p.startRun(ctx, runID, req, log)
	result, err := p.run(ctx, runID, req, log)
	p.finishRun(ctx, runID, err, log)

	if err != nil {
		log.Error().Err(err).Msg("tailoring run failed")
		return nil, err
	}
	log.Info().
		Str("strategy", string(result.Extraction.Strategy)).
		Int("experience", len(result.Resume.Experience)).
		Msg("tailoring run completed")
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, runID uuid.UUID, req Request, log zerolog.Logger) (*Result, error) {
	prepared, err := p.prepare(ctx, runID, req, log)
	if err != nil {
		return nil, err
	}
	result := &Result{Prepared: *prepared, RunID: runID}
	p.record(ctx, runID, db.StepTechProfile, prepared.TechProfile, log)
	p.record(ctx, runID, db.StepCanonicalResume, prepared.Canonical, log)
	p.recordText(ctx, runID, db.StepTailoringPrompt, prepared.Prompt, log)

	if req.AIResponse != "" {
		log.Info().Msg("using supplied AI response, skipping generation")
		result.RawResponse = req.AIResponse
	} else {
		if err := p.generate(ctx, result, log); err != nil {
			return nil, err
		}
	}
	p.recordText(ctx, runID, db.StepRawResponse, result.RawResponse, log)
	p.emitProgress(req, runID, db.StepRawResponse, fmt.Sprintf("Received %d chars of model output", len(result.RawResponse)), nil)

	extracted, err := extraction.ExtractResult(result.RawResponse)
	if err != nil {
		return nil, &StepError{Step: db.StepTailoredContent, Cause: err}
	}
	result.Extraction = extracted
	log.Debug().Str("strategy", string(extracted.Strategy)).Msg("tailored content extracted")
	p.record(ctx, runID, db.StepTailoredContent, extracted.Content, log)
	p.emitProgress(req, runID, db.StepTailoredContent,
		fmt.Sprintf("Extracted tailored content using %s", extracted.Strategy), extracted.Content)

	resume, pairings := p.opts.Reconciler.Reconcile(prepared.Canonical, extracted.Content)
	resume.Title, resume.Summary = sanitize.TitleSummary(resume.Title, resume.Summary)
	result.Resume = resume
	result.Pairings = pairings
	result.Warnings = observe(prepared.Canonical, extracted.Content, pairings, log)
	p.record(ctx, runID, db.StepReconciledResume, resume, log)
	p.emitProgress(req, runID, db.StepReconciledResume, "Reconciled tailored content with canonical resume", resume)

	return result, nil
}

// generate calls the tailoring model, retrying once with the concise prompt when truncated
func (p *Pipeline) generate(ctx context.Context, result *Result, log zerolog.Logger) error {
	if p.opts.Client == nil {
		return &StepError{Step: db.StepRawResponse, Cause: ErrNoClient}
	}

	resp, err := p.call(ctx, result.Prompt, log)
	if err != nil {
		return err
	}

	if resp.Truncated() {
		log.Warn().
			Str("stop_reason", string(resp.StopReason)).
			Int("output_tokens", resp.OutputTokens).
			Msg("tailoring response truncated, retrying with concise prompt")
		result.RetriedConcise = true
		resp, err = p.call(ctx, prompts.Concise(result.Prompt), log)
		if err != nil {
			return err
		}
	}

	result.Generation = resp
	result.RawResponse = resp.Text
	return nil
}

func (p *Pipeline) call(ctx context.Context, prompt string, log zerolog.Logger) (*llm.Response, error) {
	resp, err := p.opts.Client.Generate(ctx, prompt, llm.TierAdvanced, llm.GenerateOptions{})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, &GenerationError{Message: "tailoring call failed", Cause: err}
	}
	log.Debug().
		Str("model", resp.Model).
		Str("stop_reason", string(resp.StopReason)).
		Int("input_tokens", resp.InputTokens).
		Int("output_tokens", resp.OutputTokens).
		Msg("tailoring response received")
	return resp, nil
}

func (p *Pipeline) startRun(ctx context.Context, runID uuid.UUID, req Request, log zerolog.Logger) {
	if p.opts.Recorder == nil {
		return
	}
	if err := p.opts.Recorder.CreateRun(ctx, runID, req.Profile, req.Company); err != nil {
		log.Warn().Err(err).Msg("failed to create run record")
	}
}

func (p *Pipeline) finishRun(ctx context.Context, runID uuid.UUID, runErr error, log zerolog.Logger) {
	if p.opts.Recorder == nil {
		return
	}
	status, message := db.RunStatusCompleted, ""
	if runErr != nil {
		status, message = db.RunStatusFailed, runErr.Error()
	}
	// The run outcome is still written when the request context was cancelled
	if err := p.opts.Recorder.CompleteRun(context.WithoutCancel(ctx), runID, status, message); err != nil {
		log.Warn().Err(err).Msg("failed to complete run record")
	}
}

func (p *Pipeline) record(ctx context.Context, runID uuid.UUID, step string, content any, log zerolog.Logger) {
	if p.opts.Recorder == nil {
		return
	}
	if err := p.opts.Recorder.SaveArtifact(ctx, runID, step, content); err != nil {
		log.Warn().Err(err).Str("step", step).Msg("failed to save artifact")
	}
}

func (p *Pipeline) recordText(ctx context.Context, runID uuid.UUID, step, text string, log zerolog.Logger) {
	if p.opts.Recorder == nil {
		return
	}
	if err := p.opts.Recorder.SaveTextArtifact(ctx, runID, step, text); err != nil {
		log.Warn().Err(err).Str("step", step).Msg("failed to save artifact")
	}
}
