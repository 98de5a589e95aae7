// Package pipeline wires document normalization, skill-gap analysis,
// recommendations and report assembly into sessions and end-to-end runs.
package pipeline

import (
	"context"
	"time"

	"github.com/jonathan/skillbridge/internal/ingestion"
	"github.com/jonathan/skillbridge/internal/report"
	"github.com/jonathan/skillbridge/internal/types"
)

// Analyzer produces a skill gap. *analysis.Analyzer implements it.
type Analyzer interface {
	Analyze(ctx context.Context, resume, job string) (*types.SkillGap, error)
}

// Recommender produces a recommendation set. *recommend.Engine implements it.
type Recommender interface {
	Recommend(ctx context.Context, skill string) (*types.RecommendationSet, error)
}

// Pipeline exposes the four core operations. Each can be called on its own.
type Pipeline struct {
	analyzer    Analyzer
	recommender Recommender
	docOpts     ingestion.Options
}

// New creates a Pipeline.
func New(analyzer Analyzer, recommender Recommender, docOpts ingestion.Options) *Pipeline {
	return &Pipeline{analyzer: analyzer, recommender: recommender, docOpts: docOpts}
}

// NormalizeDocument extracts analysis-ready text from an uploaded resume.
func (p *Pipeline) NormalizeDocument(data []byte, name string) (*ingestion.Document, error) {
	return ingestion.ExtractDocument(data, name, p.docOpts)
}

// NormalizeResumeText cleans and truncates pasted resume text.
func (p *Pipeline) NormalizeResumeText(text string) (string, error) {
	out, _, err := ingestion.Normalize(text, p.docOpts)
	return out, err
}

// IngestJobURL fetches a job posting and returns its cleaned, truncated text.
func (p *Pipeline) IngestJobURL(ctx context.Context, url string, useBrowser bool) (string, error) {
	text, _, err := ingestion.IngestJobFromURL(ctx, url, ingestion.JobURLOptions{
		MaxChars:   p.docOpts.JobMaxChars(),
		UseBrowser: useBrowser,
	})
	return text, err
}

// NormalizeJob cleans and truncates job description text.
func (p *Pipeline) NormalizeJob(text string) (string, error) {
	out, _, err := ingestion.NormalizeJobText(text, p.docOpts.JobMaxChars())
	return out, err
}

// Analyze compares resume text with job text.
func (p *Pipeline) Analyze(ctx context.Context, resume, job string) (*types.SkillGap, error) {
	return p.analyzer.Analyze(ctx, resume, job)
}

// Recommend finds learning videos for skill.
func (p *Pipeline) Recommend(ctx context.Context, skill string) (*types.RecommendationSet, error) {
	return p.recommender.Recommend(ctx, skill)
}

// AssembleReport builds a report snapshot. See report.Assemble.
func (p *Pipeline) AssembleReport(gap *types.SkillGap, rec *types.RecommendationSet, ts time.Time) types.Report {
	return report.Assemble(gap, rec, ts)
}
