package analysis

import (
	"github.com/jonathan/skillbridge/internal/llm"
	"github.com/jonathan/skillbridge/internal/types"
)

// SkillGapSchema is the structured-output schema sent with every analysis
// request.
func SkillGapSchema() llm.OutputSchema {
	score := func(name, desc string) llm.SchemaField {
		return llm.SchemaField{
			Name:        name,
			Type:        llm.FieldInteger,
			Description: desc,
			Required:    true,
			Min:         llm.Bounded(types.MinScore),
			Max:         llm.Bounded(types.MaxScore),
		}
	}
	return llm.OutputSchema{
		Name:        "skill_gap",
		Description: "Comparison of a resume against a job description",
		Fields: []llm.SchemaField{
			score("overall_score", "overall match between candidate and role"),
			score("skills_score", "alignment of skills with the job"),
			score("experience_score", "alignment of experience with the job"),
			score("education_score", "fit of education with the requirements"),
			{Name: "strengths", Type: llm.FieldStringList, Required: true, Description: "matching skills, most relevant first"},
			{Name: "missing_skills", Type: llm.FieldStringList, Required: true, Description: "short skill names missing from the resume, most important first"},
			{Name: "gap_summary", Type: llm.FieldString, Required: true, Description: "narrative of strengths, gaps and what to learn next"},
		},
	}
}
