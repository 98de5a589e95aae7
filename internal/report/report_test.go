package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonathan/skillbridge/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGap(t *testing.T) *types.SkillGap {
	t.Helper()
	gap, err := types.NewSkillGap(types.SkillGapFields{
		OverallScore:    62,
		SkillsScore:     55,
		ExperienceScore: 70,
		EducationScore:  80,
		Strengths:       []string{"Python", "SQL"},
		MissingSkills:   []string{"Docker", "Kubernetes"},
		GapSummary:      "Strong Python and SQL; container tooling is missing.",
	}, types.DefaultHighScoreThreshold)
	require.NoError(t, err)
	return gap
}

func testSet() *types.RecommendationSet {
	return &types.RecommendationSet{
		SelectedSkill: "Docker",
		Query:         "Docker tutorial, latest on youtube",
		Videos: []types.VideoCandidate{
			{Title: "Docker in 100 Seconds", URL: "https://www.youtube.com/watch?v=Gjnup-PuquQ", Channel: "Fireship", Duration: "2:06"},
			{Title: "Docker Tutorial", URL: "https://www.youtube.com/watch?v=pTFZFxd4hOI&t=1", Channel: "Programming with Mosh"},
		},
	}
}

var testTime = time.Date(2026, 3, 4, 5, 6, 7, 0, time.FixedZone("CET", 3600))

func TestAssemble(t *testing.T) {
	gap := testGap(t)
	set := testSet()

	r := Assemble(gap, set, testTime)

	assert.Equal(t, time.UTC, r.GeneratedAt.Location())
	assert.True(t, r.GeneratedAt.Equal(testTime))
	assert.Same(t, gap, r.SkillGap)
	assert.Equal(t, set, r.Recommendation)

	set.Videos[0].Title = "changed"
	assert.Equal(t, "Docker in 100 Seconds", r.Recommendation.Videos[0].Title, "report holds its own copy")
}

func TestAssemble_NoRecommendation(t *testing.T) {
	r := Assemble(testGap(t), nil, testTime)
	assert.Nil(t, r.Recommendation)

	data, err := Export(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"recommendation": null`)
}

func TestAssemble_ShapeViolationsPanic(t *testing.T) {
	assert.Panics(t, func() { Assemble(nil, nil, testTime) })

	blank := testSet()
	blank.SelectedSkill = " "
	assert.Panics(t, func() { Assemble(testGap(t), blank, testTime) })

	badURL := testSet()
	badURL.Videos[1].URL = "javascript:alert(1)"
	assert.Panics(t, func() { Assemble(testGap(t), badURL, testTime) })

	dup := testSet()
	dup.Videos[1].URL = dup.Videos[0].URL
	assert.Panics(t, func() { Assemble(testGap(t), dup, testTime) })
}

func TestCheck(t *testing.T) {
	assert.NoError(t, Check(testGap(t), nil))
	assert.NoError(t, Check(testGap(t), testSet()))
	assert.Error(t, Check(nil, nil))

	dup := testSet()
	dup.Videos[1].URL = dup.Videos[0].URL
	assert.ErrorContains(t, Check(testGap(t), dup), "duplicate url")
}

func TestMarshal_Deterministic(t *testing.T) {
	a, err := Marshal(Assemble(testGap(t), testSet(), testTime))
	require.NoError(t, err)
	b, err := Marshal(Assemble(testGap(t), testSet(), testTime))
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestMarshal_FieldNames(t *testing.T) {
	data, err := Export(Assemble(testGap(t), testSet(), testTime))
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "2026-03-04T04:06:07Z", doc["generated_at"])

	gap := doc["skill_gap"].(map[string]any)
	for _, key := range []string{"overall_score", "skills_score", "experience_score", "education_score", "strengths", "missing_skills", "gap_summary"} {
		assert.Contains(t, gap, key)
	}

	rec := doc["recommendation"].(map[string]any)
	assert.Equal(t, "Docker", rec["selected_skill"])
	videos := rec["videos"].([]any)
	require.Len(t, videos, 2)
	assert.NotContains(t, videos[1].(map[string]any), "thumbnail_url")
	assert.Contains(t, string(data), `&t=1`, "urls are not html-escaped")
}

func TestValidateExport_RejectsTampered(t *testing.T) {
	err := ValidateExport([]byte(`{"generated_at":"2026-03-04T04:06:07Z","skill_gap":{"overall_score":140},"recommendation":null}`))
	assert.Error(t, err)
}

func TestFilename(t *testing.T) {
	r := Assemble(testGap(t), nil, testTime)
	assert.Equal(t, "skill_gap_report_20260304T040607Z.json", Filename(r))
}

func TestValidateFile_ExportedReport(t *testing.T) {
	data, err := Export(Assemble(testGap(t), testSet(), testTime))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, os.WriteFile(path, data, 0644))
	assert.NoError(t, ValidateFile(path))

	require.NoError(t, os.WriteFile(path, []byte(`{"skill_gap": null}`), 0644))
	assert.Error(t, ValidateFile(path))
}
