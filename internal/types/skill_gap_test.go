// Package types provides type definitions for structured data used throughout the skillbridge system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFields() SkillGapFields {
	return SkillGapFields{
		OverallScore:    62,
		SkillsScore:     55,
		ExperienceScore: 70,
		EducationScore:  80,
		Strengths:       []string{"Python", "SQL"},
		MissingSkills:   []string{"Docker", "Kubernetes"},
		GapSummary:      "Strong data background; container tooling is missing.",
	}
}

func TestNewSkillGap_Valid(t *testing.T) {
	gap, err := NewSkillGap(validFields(), DefaultHighScoreThreshold)
	require.NoError(t, err)

	assert.Equal(t, 62, gap.OverallScore())
	assert.Equal(t, 55, gap.SkillsScore())
	assert.Equal(t, 70, gap.ExperienceScore())
	assert.Equal(t, 80, gap.EducationScore())
	assert.Equal(t, []string{"Python", "SQL"}, gap.Strengths())
	assert.Equal(t, []string{"Docker", "Kubernetes"}, gap.MissingSkills())
	assert.True(t, gap.HasMissingSkill("docker"))
	assert.False(t, gap.HasMissingSkill("Python"))
}

func TestNewSkillGap_ScoreOutOfRange(t *testing.T) {
	for _, score := range []int{-1, 101} {
		t.Run(fmt.Sprint(score), func(t *testing.T) {
			f := validFields()
			f.ExperienceScore = score

			_, err := NewSkillGap(f, DefaultHighScoreThreshold)
			require.Error(t, err)

			var invErr *InvariantError
			require.True(t, errors.As(err, &invErr))
			assert.Equal(t, "experience_score", invErr.Field)
		})
	}
}

func TestNewSkillGap_DedupesCaseInsensitively(t *testing.T) {
	f := validFields()
	f.Strengths = []string{"Python", "python", " SQL ", "sql", ""}
	f.MissingSkills = []string{"Docker", "Kubernetes", "DOCKER", "kubernetes", "Terraform"}

	gap, err := NewSkillGap(f, DefaultHighScoreThreshold)
	require.NoError(t, err)
	assert.Equal(t, []string{"Python", "SQL"}, gap.Strengths())
	assert.Equal(t, []string{"Docker", "Kubernetes", "Terraform"}, gap.MissingSkills())
}

func TestNewSkillGap_EmptySummary(t *testing.T) {
	f := validFields()
	f.GapSummary = "   "

	_, err := NewSkillGap(f, DefaultHighScoreThreshold)
	var invErr *InvariantError
	require.True(t, errors.As(err, &invErr))
	assert.Equal(t, "gap_summary", invErr.Field)
}

func TestNewSkillGap_EmptyMissingSkills(t *testing.T) {
	f := validFields()
	f.MissingSkills = nil

	_, err := NewSkillGap(f, DefaultHighScoreThreshold)
	require.Error(t, err)

	f.OverallScore = 95
	gap, err := NewSkillGap(f, DefaultHighScoreThreshold)
	require.NoError(t, err)
	assert.Empty(t, gap.MissingSkills())
}

func TestSkillGap_AccessorsReturnCopies(t *testing.T) {
	gap, err := NewSkillGap(validFields(), DefaultHighScoreThreshold)
	require.NoError(t, err)

	missing := gap.MissingSkills()
	missing[0] = "changed"
	strengths := gap.Strengths()
	strengths[0] = "changed"

	assert.Equal(t, "Docker", gap.MissingSkills()[0])
	assert.Equal(t, "Python", gap.Strengths()[0])
}

func TestSkillGap_JSONRoundTrip(t *testing.T) {
	gap, err := NewSkillGap(validFields(), DefaultHighScoreThreshold)
	require.NoError(t, err)

	data, err := json.Marshal(gap)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"overall_score":62`)
	assert.Contains(t, string(data), `"missing_skills":["Docker","Kubernetes"]`)
	assert.Contains(t, string(data), `"gap_summary"`)

	var decoded SkillGap
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, gap.Fields(), decoded.Fields())
}

func TestSkillGap_UnmarshalRejectsInvalid(t *testing.T) {
	var gap SkillGap
	err := json.Unmarshal([]byte(`{"overall_score":150,"skills_score":1,"experience_score":1,"education_score":1,"missing_skills":["Go"],"gap_summary":"x"}`), &gap)
	require.Error(t, err)
}

func TestDedupeFold(t *testing.T) {
	assert.Equal(t, []string{"Go", "Rust lang"}, DedupeFold([]string{"Go", "GO", "  Rust   lang ", "rust lang"}))
	assert.Empty(t, DedupeFold(nil))
}
