// Package types provides type definitions for structured data used throughout the skillbridge system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Score bounds for every Skill-Gap score.
const (
	MinScore = 0
	MaxScore = 100
)

// DefaultHighScoreThreshold is the overall score at or above which an empty
// missing-skills list is accepted.
const DefaultHighScoreThreshold = 90

// SkillGapFields carries the raw values used to construct a SkillGap.
type SkillGapFields struct {
	OverallScore    int
	SkillsScore     int
	ExperienceScore int
	EducationScore  int
	Strengths       []string
	MissingSkills   []string
	GapSummary      string
}

// SkillGap is the canonical result of comparing a resume to a job description.
// It is immutable: accessors return copies and there are no setters.
type SkillGap struct {
	overall    int
	skills     int
	experience int
	education  int
	strengths  []string
	missing    []string
	summary    string
}

// NewSkillGap validates f and builds a SkillGap. Strengths and missing skills
// are deduplicated case-insensitively, keeping the first occurrence. A missing
// skills list may only be empty when the overall score is at least highThreshold.
func NewSkillGap(f SkillGapFields, highThreshold int) (*SkillGap, error) {
	scores := []struct {
		name  string
		value int
	}{
		{"overall_score", f.OverallScore},
		{"skills_score", f.SkillsScore},
		{"experience_score", f.ExperienceScore},
		{"education_score", f.EducationScore},
	}
	for _, s := range scores {
		if s.value < MinScore || s.value > MaxScore {
			return nil, &InvariantError{Field: s.name, Message: fmt.Sprintf("score %d outside [%d,%d]", s.value, MinScore, MaxScore)}
		}
	}

	summary := strings.TrimSpace(f.GapSummary)
	if summary == "" {
		return nil, &InvariantError{Field: "gap_summary", Message: "must not be empty"}
	}

	missing := DedupeFold(f.MissingSkills)
	if len(missing) == 0 && f.OverallScore < highThreshold {
		return nil, &InvariantError{
			Field:   "missing_skills",
			Message: fmt.Sprintf("empty while overall_score %d is below %d", f.OverallScore, highThreshold),
		}
	}

	return &SkillGap{
		overall:    f.OverallScore,
		skills:     f.SkillsScore,
		experience: f.ExperienceScore,
		education:  f.EducationScore,
		strengths:  DedupeFold(f.Strengths),
		missing:    missing,
		summary:    summary,
	}, nil
}

func (g *SkillGap) OverallScore() int    { return g.overall }
func (g *SkillGap) SkillsScore() int     { return g.skills }
func (g *SkillGap) ExperienceScore() int { return g.experience }
func (g *SkillGap) EducationScore() int  { return g.education }
func (g *SkillGap) GapSummary() string   { return g.summary }

// Strengths returns a copy of the strengths in relevance order.
func (g *SkillGap) Strengths() []string { return slices.Clone(g.strengths) }

// MissingSkills returns a copy of the missing skills in relevance order.
func (g *SkillGap) MissingSkills() []string { return slices.Clone(g.missing) }

// HasMissingSkill reports whether skill is one of the missing skills, ignoring case.
func (g *SkillGap) HasMissingSkill(skill string) bool {
	key := foldKey(skill)
	for _, m := range g.missing {
		if foldKey(m) == key {
			return true
		}
	}
	return false
}

// Fields returns the values the SkillGap was built from, after normalization.
func (g *SkillGap) Fields() SkillGapFields {
	return SkillGapFields{
		OverallScore:    g.overall,
		SkillsScore:     g.skills,
		ExperienceScore: g.experience,
		EducationScore:  g.education,
		Strengths:       g.Strengths(),
		MissingSkills:   g.MissingSkills(),
		GapSummary:      g.summary,
	}
}

type skillGapJSON struct {
	OverallScore    int      `json:"overall_score"`
	SkillsScore     int      `json:"skills_score"`
	ExperienceScore int      `json:"experience_score"`
	EducationScore  int      `json:"education_score"`
	Strengths       []string `json:"strengths"`
	MissingSkills   []string `json:"missing_skills"`
	GapSummary      string   `json:"gap_summary"`
}

// MarshalJSON encodes the SkillGap with its canonical field names.
func (g *SkillGap) MarshalJSON() ([]byte, error) {
	return json.Marshal(skillGapJSON{
		OverallScore:    g.overall,
		SkillsScore:     g.skills,
		ExperienceScore: g.experience,
		EducationScore:  g.education,
		Strengths:       nonNil(g.strengths),
		MissingSkills:   nonNil(g.missing),
		GapSummary:      g.summary,
	})
}

// UnmarshalJSON decodes a previously exported SkillGap and re-checks its
// invariants using DefaultHighScoreThreshold.
func (g *SkillGap) UnmarshalJSON(data []byte) error {
	var raw skillGapJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	built, err := NewSkillGap(SkillGapFields(raw), DefaultHighScoreThreshold)
	if err != nil {
		return err
	}
	*g = *built
	return nil
}

// DedupeFold removes blank entries and case-insensitive duplicates, keeping
// the first occurrence of each value and its original spelling.
func DedupeFold(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.Join(strings.Fields(v), " ")
		if v == "" {
			continue
		}
		key := foldKey(v)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}

func foldKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
