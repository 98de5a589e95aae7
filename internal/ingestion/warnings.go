package ingestion

import "strings"

var (
	resumeKeywords = []string{"experience", "education", "skills", "work", "project", "university", "degree", "employment"}
	jobKeywords    = []string{"requirements", "responsibilities", "qualifications", "experience", "skills", "role", "position", "job"}
)

// ContentWarnings returns advisory messages when the resume or job text lacks
// the vocabulary those documents usually contain. They never block analysis.
func ContentWarnings(resumeText, jobText string) []string {
	var warnings []string
	if countKeywords(resumeText, resumeKeywords) < 2 {
		warnings = append(warnings, "The resume does not look like a typical CV; results may be less accurate.")
	}
	if countKeywords(jobText, jobKeywords) < 2 {
		warnings = append(warnings, "The job description does not look like a typical posting; results may be less accurate.")
	}
	return warnings
}

func countKeywords(text string, keywords []string) int {
	lower := strings.ToLower(text)
	n := 0
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			n++
		}
	}
	return n
}
