package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jonathan/skillbridge/internal/ingestion"
	"github.com/jonathan/skillbridge/internal/pipeline/steps"
	"github.com/jonathan/skillbridge/internal/types"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// RunOptions holds configuration for running the pipeline
type RunOptions struct {
	// ResumeData is the raw resume document; ResumeName is its file name.
	ResumeData []byte
	ResumeName string
	// ResumeText is used instead of ResumeData when set.
	ResumeText string
	JobText    string
	JobURL     string
	// Skill overrides the default selection, the first missing skill.
	Skill string
	// SkipRecommendations stops after the analysis.
	SkipRecommendations bool
	UseBrowser          bool
	Now                 func() time.Time
	OnProgress          ProgressCallback
}

// RunResult holds everything an end-to-end run produced.
type RunResult struct {
	Resume         string
	Job            string
	Warnings       []string
	SkillGap       *types.SkillGap
	Recommendation *types.RecommendationSet
	Report         types.Report
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *RunOptions, step, message string, content any) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{
			Step:     step,
			Category: steps.StepRegistry[step].Category,
			Message:  message,
			Content:  content,
		})
	}
}

// Run executes document normalization, analysis, recommendation and report
// assembly in order. Recommendations are skipped when the analysis reports
// no missing skills.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	res := &RunResult{}

	if opts.ResumeText != "" {
		text, err := p.NormalizeResumeText(opts.ResumeText)
		if err != nil {
			return nil, fmt.Errorf("resume normalization failed: %w", err)
		}
		res.Resume = text
	} else {
		doc, err := p.NormalizeDocument(opts.ResumeData, opts.ResumeName)
		if err != nil {
			return nil, fmt.Errorf("resume normalization failed: %w", err)
		}
		res.Resume = doc.Text
	}
	emitProgress(&opts, steps.NormalizeDocument,
		fmt.Sprintf("Extracted %d characters of resume text", len([]rune(res.Resume))), nil)

	job, err := p.ingestJob(ctx, opts)
	if err != nil {
		return nil, err
	}
	res.Job = job
	emitProgress(&opts, steps.IngestJob,
		fmt.Sprintf("Prepared %d characters of job description", len([]rune(job))), nil)

	res.Warnings = ingestion.ContentWarnings(res.Resume, res.Job)
	for _, w := range res.Warnings {
		slog.Warn("content warning", slog.String("warning", w))
	}

	gap, err := p.Analyze(ctx, res.Resume, res.Job)
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}
	res.SkillGap = gap
	emitProgress(&opts, steps.Analyze,
		fmt.Sprintf("Overall match %d/100 with %d missing skills", gap.OverallScore(), len(gap.MissingSkills())), gap)

	skill := strings.TrimSpace(opts.Skill)
	if skill == "" {
		if missing := gap.MissingSkills(); len(missing) > 0 {
			skill = missing[0]
		}
	}
	if skill != "" && !opts.SkipRecommendations {
		rec, err := p.Recommend(ctx, skill)
		if err != nil {
			return nil, fmt.Errorf("recommendation failed: %w", err)
		}
		res.Recommendation = rec
		emitProgress(&opts, steps.Recommend,
			fmt.Sprintf("Found %d videos for %s", len(rec.Videos), rec.SelectedSkill), rec)
	}

	res.Report = p.AssembleReport(res.SkillGap, res.Recommendation, now())
	emitProgress(&opts, steps.AssembleReport, "Report assembled", res.Report)

	return res, nil
}

func (p *Pipeline) ingestJob(ctx context.Context, opts RunOptions) (string, error) {
	if opts.JobURL != "" {
		text, err := p.IngestJobURL(ctx, opts.JobURL, opts.UseBrowser)
		if err != nil {
			return "", fmt.Errorf("job ingestion from URL failed: %w", err)
		}
		return text, nil
	}
	text, err := p.NormalizeJob(opts.JobText)
	if err != nil {
		return "", fmt.Errorf("job normalization failed: %w", err)
	}
	return text, nil
}
