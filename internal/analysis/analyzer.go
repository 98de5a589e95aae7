// Package analysis requests a structured skill-gap comparison of a resume and
// a job description from the reasoning service and validates the reply.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jonathan/skillbridge/internal/ingestion"
	"github.com/jonathan/skillbridge/internal/llm"
	"github.com/jonathan/skillbridge/internal/prompts"
	"github.com/jonathan/skillbridge/internal/retry"
	"github.com/jonathan/skillbridge/internal/types"
)

// DefaultScoreTolerance is how far outside [0,100] a score may fall and still
// be clamped.
const DefaultScoreTolerance = 5

// Options controls reply validation and retries.
type Options struct {
	HighScoreThreshold int
	ScoreTolerance     int
	Retry              retry.Policy
}

// DefaultOptions returns the options used by the CLI and server.
func DefaultOptions() Options {
	return Options{
		HighScoreThreshold: types.DefaultHighScoreThreshold,
		ScoreTolerance:     DefaultScoreTolerance,
		Retry:              retry.DefaultPolicy,
	}
}

// Analyzer turns resume and job texts into a SkillGap.
type Analyzer struct {
	client llm.Client
	opts   Options
}

// New creates an Analyzer using client.
func New(client llm.Client, opts Options) *Analyzer {
	return &Analyzer{client: client, opts: opts}
}

// BuildRequest builds the structured-output request for a resume and job.
// The same inputs always produce the same request.
func BuildRequest(resume, job string) llm.Request {
	schema := SkillGapSchema()
	return llm.Request{
		System: prompts.MustGet("analysis.json", "system"),
		Prompt: prompts.MustRender("analysis.json", "analyze", map[string]string{
			"Resume": resume,
			"Job":    job,
		}),
		Schema: &schema,
	}
}

// Analyze compares resume with job. Transient service failures are retried
// and surface as UnavailableError; unusable replies surface as
// MalformedError and are not retried.
func (a *Analyzer) Analyze(ctx context.Context, resume, job string) (*types.SkillGap, error) {
	if strings.TrimSpace(resume) == "" {
		return nil, &ingestion.EmptyTextError{Field: "resume text"}
	}
	if strings.TrimSpace(job) == "" {
		return nil, &ingestion.EmptyTextError{Field: "job description"}
	}

	req := BuildRequest(resume, job)
	slog.Debug("requesting analysis",
		slog.String("model", a.client.Model()),
		slog.Int("prompt_chars", len(req.Prompt)))

	start := time.Now()
	gap, err := retry.Do(ctx, a.opts.Retry, isRetryable, "analysis", func(ctx context.Context) (*types.SkillGap, error) {
		raw, err := a.client.GenerateJSON(ctx, req)
		if err != nil {
			return nil, classify(err)
		}
		return ParseReply(raw, a.opts)
	})
	if err != nil {
		slog.Warn("analysis failed", slog.Any("error", err))
		return nil, err
	}

	slog.Info("analysis complete",
		slog.Int("overall_score", gap.OverallScore()),
		slog.Int("missing_skills", len(gap.MissingSkills())),
		slog.Duration("duration", time.Since(start)))
	return gap, nil
}

// Probe sends a minimal request to check that the service is reachable and
// the credentials are accepted.
func (a *Analyzer) Probe(ctx context.Context) error {
	schema := llm.OutputSchema{
		Name:   "probe",
		Fields: []llm.SchemaField{{Name: "status", Type: llm.FieldString, Required: true}},
	}
	raw, err := a.client.GenerateJSON(ctx, llm.Request{
		Prompt: prompts.MustRender("analysis.json", "probe", nil),
		Schema: &schema,
	})
	if err != nil {
		return classify(err)
	}
	var reply map[string]any
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(raw)), &reply); err != nil {
		return &MalformedError{Reason: "probe reply is not JSON", Cause: err}
	}
	return nil
}

// classify maps a provider error to UnavailableError or MalformedError.
func classify(err error) error {
	if errors.Is(err, llm.ErrEmptyReply) {
		return &MalformedError{Reason: "service returned no content", Cause: err}
	}

	var statusErr *retry.StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return &UnavailableError{Retryable: false, Cause: fmt.Errorf("check the API key: %w", err)}
		}
	}
	return &UnavailableError{Retryable: retry.IsTransient(err), Cause: err}
}

func isRetryable(err error) bool {
	var unavailable *UnavailableError
	return errors.As(err, &unavailable) && unavailable.Retryable
}
