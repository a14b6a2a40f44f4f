// Package classify turns a job description into a technology category and keyword line
// by querying an unreliable LLM oracle with a bounded number of attempts.
package classify

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/prompts"
	"github.com/jonathan/resume-tailor/internal/types"
)

// MaxAttempts bounds the number of oracle calls per classification
const MaxAttempts = 3

// oracleMaxTokens is enough for two short lines
const oracleMaxTokens = 500

// DegradePolicy decides the result once every attempt has failed
type DegradePolicy struct {
	// DefaultCategory is used when no attempt produced a recognized category
	DefaultCategory types.TechCategory
}

// DefaultDegradePolicy falls back to Web
func DefaultDegradePolicy() DegradePolicy {
	return DegradePolicy{DefaultCategory: types.CategoryWeb}
}

// Outcome is the result of a classification
type Outcome struct {
	Profile  types.TechProfile
	Attempts int
	// Degraded is set when attempts were exhausted and the profile was assembled from defaults
	Degraded bool
	// LastError is the most recent oracle or validation failure, if any
	LastError error
}

// Classifier classifies job descriptions
type Classifier struct {
	client    llm.Client
	templates *prompts.Templates
	policy    DegradePolicy
	tier      llm.ModelTier
	logger    zerolog.Logger
}

// Option configures a Classifier
type Option func(*Classifier)

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Classifier) { c.logger = logger }
}

// WithDegradePolicy overrides the exhaustion policy
func WithDegradePolicy(policy DegradePolicy) Option {
	return func(c *Classifier) { c.policy = policy }
}

// WithTier sets the model tier used for the oracle
func WithTier(tier llm.ModelTier) Option {
	return func(c *Classifier) { c.tier = tier }
}

// New creates a Classifier
func New(client llm.Client, templates *prompts.Templates, opts ...Option) *Classifier {
	c := &Classifier{
		client:    client,
		templates: templates,
		policy:    DefaultDegradePolicy(),
		tier:      llm.TierLite,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// state is the retry state carried between attempts
type state struct {
	attempt      int
	lastCategory types.TechCategory
	lastKeywords string
	lastErr      error
}

// Classify returns the tech profile for a job description.
// Oracle failures and malformed responses are retried up to MaxAttempts and then degraded
// according to the policy. Only context cancellation or deadline errors are returned.
func (c *Classifier) Classify(ctx context.Context, jobText string) (Outcome, error) {
	st := state{}

	for st.attempt < MaxAttempts {
		if err := ctx.Err(); err != nil {
			return Outcome{}, err
		}

		prompt := c.templates.Classify(jobText, st.attempt)
		resp, err := c.client.Generate(ctx, prompt, c.tier, llm.GenerateOptions{MaxOutputTokens: oracleMaxTokens})
		st.attempt++

		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Outcome{}, ctxErr
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return Outcome{}, err
			}
			st.lastErr = err
			c.logger.Debug().Err(err).Int("attempt", st.attempt).Msg("classification call failed")
			continue
		}

		parsed := ParseResponse(resp.Text)
		if parsed.Category != "" {
			st.lastCategory = parsed.Category
		}
		if parsed.HasKeywordLine {
			st.lastKeywords = parsed.Keywords
		}

		if parsed.Valid() {
			c.logger.Debug().
				Str("category", string(parsed.Category)).
				Str("keywords", parsed.Keywords).
				Int("attempt", st.attempt).
				Msg("job classified")
			return Outcome{
				Profile:  types.TechProfile{Category: parsed.Category, Keywords: parsed.Keywords},
				Attempts: st.attempt,
			}, nil
		}

		st.lastErr = &InvalidResponseError{Message: invalidReason(parsed), Response: resp.Text}
		c.logger.Debug().
			Int("attempt", st.attempt).
			Str("category", string(parsed.Category)).
			Bool("has_keywords", parsed.Keywords != "").
			Msg("classification response rejected, retrying with strict template")
	}

	return c.degrade(st), nil
}

func (c *Classifier) degrade(st state) Outcome {
	category := st.lastCategory
	if category == "" {
		category = c.policy.DefaultCategory
	}
	if !category.Valid() {
		category = types.CategoryWeb
	}

	degraded := &DegradedError{Attempts: st.attempt, Category: string(category), Cause: st.lastErr}
	c.logger.Warn().
		Err(degraded).
		Str("category", string(category)).
		Str("keywords", st.lastKeywords).
		Msg("ClassificationDegraded")

	return Outcome{
		Profile:   types.TechProfile{Category: category, Keywords: st.lastKeywords},
		Attempts:  st.attempt,
		Degraded:  true,
		LastError: degraded,
	}
}

func invalidReason(p ParsedResponse) string {
	switch {
	case p.Category == "" && p.Keywords == "":
		return "no recognized category and no keywords"
	case p.Category == "":
		return "no recognized category"
	default:
		return "empty keyword line"
	}
}
