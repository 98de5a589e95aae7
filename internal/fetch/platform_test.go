package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url      string
		expected Platform
	}{
		{"https://job-boards.greenhouse.io/doordashusa/jobs/7063751", PlatformGreenhouse},
		{"https://boards.greenhouse.io/company/jobs/123", PlatformGreenhouse},
		{"https://jobs.lever.co/company/abc", PlatformLever},
		{"https://acme.wd5.myworkdayjobs.com/en-US/External/job/123", PlatformWorkday},
		{"https://jobs.ashbyhq.com/acme/123", PlatformAshby},
		{"https://jobs.smartrecruiters.com/Acme/123", PlatformSmartRecruiters},
		{"https://www.linkedin.com/jobs/view/123", PlatformLinkedIn},
		{"https://example.com/jobs", PlatformUnknown},
		{"https://notgreenhouse.io.example.com/jobs", PlatformUnknown},
		{"://bad", PlatformUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectPlatform(tt.url))
		})
	}
}

func TestPlatformContentSelectors(t *testing.T) {
	selectors := PlatformContentSelectors(PlatformGreenhouse)
	assert.Contains(t, selectors, ".job__description.body")

	selectors = PlatformContentSelectors(PlatformUnknown)
	assert.Contains(t, selectors, ".job-description")
	assert.Contains(t, selectors, "main")
}

func TestPlatformNoiseSelectors(t *testing.T) {
	selectors := PlatformNoiseSelectors(PlatformGreenhouse)
	assert.Contains(t, selectors, "#application-form")
	assert.Contains(t, selectors, ".application--wrapper")

	selectors = PlatformNoiseSelectors(PlatformUnknown)
	assert.Contains(t, selectors, "form")
	assert.NotContains(t, selectors, ".application--wrapper")
}

func TestPlatformNoiseSelectors_DoesNotAliasCommon(t *testing.T) {
	first := PlatformNoiseSelectors(PlatformLever)
	first[0] = "mutated"
	assert.Equal(t, "form", PlatformNoiseSelectors(PlatformWorkday)[0])
}
