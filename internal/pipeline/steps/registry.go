// Package steps defines the steps of a skill-gap session and the order in
// which they may run.
package steps

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jonathan/skillbridge/internal/types"
)

// Step names.
const (
	NormalizeDocument = "normalize_document"
	IngestJob         = "ingest_job"
	Analyze           = "analyze"
	Recommend         = "recommend"
	AssembleReport    = "assemble_report"
)

// Step categories.
const (
	CategoryIngestion      = "ingestion"
	CategoryAnalysis       = "analysis"
	CategoryRecommendation = "recommendation"
	CategoryReport         = "report"
)

// StepDefinition defines metadata for a pipeline step
type StepDefinition struct {
	Name         string
	Category     string
	Dependencies []string
	Optional     []string
}

// StepRegistry holds all step definitions
var StepRegistry = map[string]StepDefinition{
	NormalizeDocument: {
		Name:         NormalizeDocument,
		Category:     CategoryIngestion,
		Dependencies: []string{},
		Optional:     []string{},
	},
	IngestJob: {
		Name:         IngestJob,
		Category:     CategoryIngestion,
		Dependencies: []string{},
		Optional:     []string{},
	},
	Analyze: {
		Name:         Analyze,
		Category:     CategoryAnalysis,
		Dependencies: []string{NormalizeDocument, IngestJob},
		Optional:     []string{},
	},
	Recommend: {
		Name:         Recommend,
		Category:     CategoryRecommendation,
		Dependencies: []string{Analyze},
		Optional:     []string{},
	},
	AssembleReport: {
		Name:         AssembleReport,
		Category:     CategoryReport,
		Dependencies: []string{Analyze},
		Optional:     []string{Recommend},
	},
}

// Order lists the steps in execution order.
var Order = []string{NormalizeDocument, IngestJob, Analyze, Recommend, AssembleReport}

// DependencyError represents a dependency validation error
type DependencyError struct {
	Step                string
	MissingDependencies []string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s requires %s first", e.Step, strings.Join(e.MissingDependencies, ", "))
}

// Kind marks the error as a caller mistake.
func (e *DependencyError) Kind() types.ErrorKind {
	return types.KindInput
}

// ValidateDependencies checks if all required dependencies for a step are completed
func ValidateDependencies(completed map[string]bool, stepName string) error {
	def, ok := StepRegistry[stepName]
	if !ok {
		return fmt.Errorf("unknown step: %s", stepName)
	}

	var missing []string
	for _, dep := range def.Dependencies {
		if !completed[dep] {
			missing = append(missing, dep)
		}
	}

	if len(missing) > 0 {
		return &DependencyError{
			Step:                stepName,
			MissingDependencies: missing,
		}
	}
	return nil
}

// AvailableSteps returns steps that are not completed and whose dependencies
// are met, in execution order.
func AvailableSteps(completed map[string]bool) []string {
	var available []string
	for _, name := range Order {
		if completed[name] {
			continue
		}
		if ValidateDependencies(completed, name) == nil {
			available = append(available, name)
		}
	}
	return available
}

// BlockedSteps returns steps whose dependencies are not met, in execution order.
func BlockedSteps(completed map[string]bool) []string {
	var blocked []string
	for _, name := range Order {
		if completed[name] {
			continue
		}
		if ValidateDependencies(completed, name) != nil {
			blocked = append(blocked, name)
		}
	}
	return blocked
}

// Invalidate returns the steps that must be redone when step is redone.
func Invalidate(step string) []string {
	var out []string
	for _, name := range Order {
		if name == step {
			continue
		}
		if dependsOn(name, step) {
			out = append(out, name)
		}
	}
	return out
}

func dependsOn(name, target string) bool {
	def := StepRegistry[name]
	for _, dep := range slices.Concat(def.Dependencies, def.Optional) {
		if dep == target || dependsOn(dep, target) {
			return true
		}
	}
	return false
}
