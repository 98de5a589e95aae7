// Package report assembles and serializes skill-gap reports.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/skillbridge/internal/schemas"
	"github.com/jonathan/skillbridge/internal/types"
	schemafiles "github.com/jonathan/skillbridge/schemas"
)

// MaxVideos is the largest recommendation set a report accepts.
const MaxVideos = 10

// filenameLayout is the timestamp layout used in download file names.
const filenameLayout = "20060102T150405Z"

var validate = validator.New()

type videoShape struct {
	Title        string `validate:"required"`
	URL          string `validate:"required,http_url"`
	ThumbnailURL string `validate:"omitempty,http_url"`
}

// Assemble builds an immutable report from an analysis and an optional
// recommendation set. The timestamp is normalized to UTC. A nil gap or a
// malformed recommendation set means a caller broke an upstream invariant,
// so Assemble panics instead of returning an error.
func Assemble(gap *types.SkillGap, rec *types.RecommendationSet, ts time.Time) types.Report {
	if gap == nil {
		panic("report: nil skill gap")
	}
	if rec != nil {
		if err := checkRecommendation(rec); err != nil {
			panic("report: " + err.Error())
		}
	}
	return types.Report{
		GeneratedAt:    ts.UTC(),
		SkillGap:       gap,
		Recommendation: rec.Clone(),
	}
}

// Check reports whether gap and rec can be assembled into a report. Callers
// holding data from outside the pipeline check it before calling Assemble.
func Check(gap *types.SkillGap, rec *types.RecommendationSet) error {
	if gap == nil {
		return fmt.Errorf("report requires a skill gap")
	}
	if rec != nil {
		return checkRecommendation(rec)
	}
	return nil
}

func checkRecommendation(rec *types.RecommendationSet) error {
	if strings.TrimSpace(rec.SelectedSkill) == "" {
		return fmt.Errorf("recommendation set has no selected skill")
	}
	if len(rec.Videos) > MaxVideos {
		return fmt.Errorf("recommendation set has %d videos, limit %d", len(rec.Videos), MaxVideos)
	}
	seen := make(map[string]bool, len(rec.Videos))
	for i, v := range rec.Videos {
		if err := validate.Struct(videoShape{Title: strings.TrimSpace(v.Title), URL: v.URL, ThumbnailURL: v.ThumbnailURL}); err != nil {
			return fmt.Errorf("video %d: %w", i, err)
		}
		if seen[v.URL] {
			return fmt.Errorf("video %d: duplicate url %s", i, v.URL)
		}
		seen[v.URL] = true
	}
	return nil
}

// Marshal serializes a report as indented JSON. The same report always
// serializes to the same bytes.
func Marshal(r types.Report) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	return buf.Bytes(), nil
}

// ValidateExport checks serialized report data against the report schema.
func ValidateExport(data []byte) error {
	return schemas.ValidateEmbedded(schemafiles.Report, data)
}

// ValidateFile checks a previously exported report file.
func ValidateFile(path string) error {
	return schemas.ValidateFile(schemafiles.Report, path)
}

// Export marshals r and validates the result.
func Export(r types.Report) ([]byte, error) {
	data, err := Marshal(r)
	if err != nil {
		return nil, err
	}
	if err := ValidateExport(data); err != nil {
		return nil, fmt.Errorf("report failed validation: %w", err)
	}
	return data, nil
}

// Filename returns the download file name of a report.
func Filename(r types.Report) string {
	return "skill_gap_report_" + r.GeneratedAt.UTC().Format(filenameLayout) + ".json"
}
