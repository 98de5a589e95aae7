package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/jonathan/skillbridge/internal/llm"
	"github.com/jonathan/skillbridge/internal/schemas"
	"github.com/jonathan/skillbridge/internal/types"
	schemafiles "github.com/jonathan/skillbridge/schemas"
)

var scoreFields = []string{"overall_score", "skills_score", "experience_score", "education_score"}

// ParseReply validates a raw service reply and coerces it into a SkillGap.
// Scores must be integral; a score outside [0,100] by at most tolerance is
// clamped and anything further out is rejected. Missing scores are never
// filled in. A blank gap summary is synthesized from the missing skills.
func ParseReply(raw string, opts Options) (*types.SkillGap, error) {
	cleaned := llm.CleanJSONBlock(raw)

	var payload map[string]any
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, &MalformedError{Reason: "reply is not a JSON object", Cause: err}
	}

	if err := schemas.ValidateEmbedded(schemafiles.AnalysisReply, []byte(cleaned)); err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			return nil, &MalformedError{Reason: validationErr.Summary(), Cause: err}
		}
		return nil, &MalformedError{Reason: "reply could not be validated", Cause: err}
	}

	scores := make(map[string]int, len(scoreFields))
	for _, name := range scoreFields {
		v, err := coerceScore(name, payload[name], opts.ScoreTolerance)
		if err != nil {
			return nil, err
		}
		scores[name] = v
	}

	missing := types.DedupeFold(coerceList(payload["missing_skills"]))
	summary, _ := payload["gap_summary"].(string)
	if strings.TrimSpace(summary) == "" {
		summary = synthesizeSummary(missing)
		slog.Debug("synthesized empty gap summary", slog.Int("missing_skills", len(missing)))
	}

	gap, err := types.NewSkillGap(types.SkillGapFields{
		OverallScore:    scores["overall_score"],
		SkillsScore:     scores["skills_score"],
		ExperienceScore: scores["experience_score"],
		EducationScore:  scores["education_score"],
		Strengths:       coerceList(payload["strengths"]),
		MissingSkills:   missing,
		GapSummary:      summary,
	}, opts.HighScoreThreshold)
	if err != nil {
		return nil, &MalformedError{Reason: err.Error(), Cause: err}
	}
	return gap, nil
}

func coerceScore(name string, v any, tolerance int) (int, error) {
	f, ok := v.(float64)
	if !ok {
		return 0, &MalformedError{Reason: fmt.Sprintf("%s is missing or not a number", name)}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, &MalformedError{Reason: fmt.Sprintf("%s is not an integer: %v", name, f)}
	}

	lo, hi := float64(types.MinScore), float64(types.MaxScore)
	tol := float64(max(tolerance, 0))
	switch {
	case f >= lo && f <= hi:
		return int(f), nil
	case f < lo && f >= lo-tol:
		slog.Warn("clamped score", slog.String("field", name), slog.Float64("value", f))
		return types.MinScore, nil
	case f > hi && f <= hi+tol:
		slog.Warn("clamped score", slog.String("field", name), slog.Float64("value", f))
		return types.MaxScore, nil
	}
	return 0, &MalformedError{Reason: fmt.Sprintf("%s out of range: %v", name, f)}
}

// coerceList turns a reply list into plain strings. Object items are
// replaced by their name or skill field; blank items are dropped.
func coerceList(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		switch it := item.(type) {
		case string:
			s = it
		case map[string]any:
			if name, ok := it["name"].(string); ok && strings.TrimSpace(name) != "" {
				s = name
			} else if skill, ok := it["skill"].(string); ok {
				s = skill
			}
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func synthesizeSummary(missing []string) string {
	if len(missing) == 0 {
		return "The resume covers the requirements of the job description; no significant skill gaps were identified."
	}
	return "Key gaps to address: " + strings.Join(missing, ", ") + "."
}
