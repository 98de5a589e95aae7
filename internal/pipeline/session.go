package pipeline

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/skillbridge/internal/pipeline/steps"
	"github.com/jonathan/skillbridge/internal/report"
	"github.com/jonathan/skillbridge/internal/types"
)

// ErrSuperseded is returned to the caller of a recommendation or analysis
// whose result arrived after a newer request was issued. The stale result
// is discarded.
var ErrSuperseded = errors.New("result superseded by a newer request")

// UnknownSkillError is returned when the selected skill is not one of the
// current analysis's missing skills.
type UnknownSkillError struct {
	Skill string
}

func (e *UnknownSkillError) Error() string {
	return "skill " + e.Skill + " is not among the missing skills"
}

// Kind marks the error as user-correctable.
func (e *UnknownSkillError) Kind() types.ErrorKind {
	return types.KindInput
}

// Session holds the state of one user's analysis. All methods are safe for
// concurrent use. The latest selection always wins: every selection or
// analysis takes a new token, and a result is stored only if its token is
// still current when it completes.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu         sync.Mutex
	resume     string
	job        string
	gap        *types.SkillGap
	selected   string
	rec        *types.RecommendationSet
	analysisID uint64
	selection  uint64
	pending    bool
	completed  map[string]bool
	touched    time.Time
}

// State is a read-only snapshot of a session.
type State struct {
	ID             string                   `json:"id"`
	HasDocument    bool                     `json:"has_document"`
	HasJob         bool                     `json:"has_job"`
	SkillGap       *types.SkillGap          `json:"skill_gap,omitempty"`
	SelectedSkill  string                   `json:"selected_skill,omitempty"`
	Pending        bool                     `json:"pending"`
	Recommendation *types.RecommendationSet `json:"recommendation,omitempty"`
	NextSteps      []string                 `json:"next_steps"`
	BlockedSteps   []string                 `json:"blocked_steps"`
}

// NewSession creates an empty session with a random ID.
func NewSession() *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		completed: make(map[string]bool),
		touched:   now,
	}
}

// SetDocument stores normalized resume text, discarding any analysis made
// from the previous document.
func (s *Session) SetDocument(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resume = text
	s.complete(steps.NormalizeDocument)
}

// SetJob stores normalized job description text, discarding any analysis
// made from the previous text.
func (s *Session) SetJob(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.job = text
	s.complete(steps.IngestJob)
}

// SetAnalysis replaces the skill gap and clears the selection and any
// recommendation, including one still in flight.
func (s *Session) SetAnalysis(gap *types.SkillGap) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analysisID++
	s.setAnalysisLocked(gap)
}

func (s *Session) setAnalysisLocked(gap *types.SkillGap) {
	s.gap = gap
	s.complete(steps.Analyze)
	s.selection++
	s.selected = ""
	s.pending = false
	s.rec = nil
}

// complete marks step done and resets every step that depends on it.
// Callers hold s.mu.
func (s *Session) complete(step string) {
	for _, dep := range steps.Invalidate(step) {
		delete(s.completed, dep)
	}
	s.completed[step] = true
	switch step {
	case steps.NormalizeDocument, steps.IngestJob:
		s.gap = nil
		s.selection++
		s.selected = ""
		s.pending = false
		s.rec = nil
	}
	s.touched = time.Now()
}

// Analyze runs an analysis of the stored resume and job and stores the
// result. If the inputs change or another analysis starts before this one
// finishes, ErrSuperseded is returned and the result is discarded.
func (s *Session) Analyze(ctx context.Context, p *Pipeline) (*types.SkillGap, error) {
	s.mu.Lock()
	if err := steps.ValidateDependencies(s.completed, steps.Analyze); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.analysisID++
	token := s.analysisID
	resume, job := s.resume, s.job
	inputs := s.inputsVersion()
	s.mu.Unlock()

	gap, err := p.Analyze(ctx, resume, job)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.analysisID != token || s.inputsVersion() != inputs {
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, err
	}
	s.setAnalysisLocked(gap)
	return gap, nil
}

// inputsVersion identifies the current inputs. Callers hold s.mu.
func (s *Session) inputsVersion() [2]string {
	return [2]string{s.resume, s.job}
}

// Select records skill as the current selection and fetches its
// recommendations. A later Select, or a new analysis, supersedes this one:
// its caller then gets ErrSuperseded and the stored set is never overwritten
// by the late result.
func (s *Session) Select(ctx context.Context, p *Pipeline, skill string) (*types.RecommendationSet, error) {
	s.mu.Lock()
	if err := steps.ValidateDependencies(s.completed, steps.Recommend); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if !s.gap.HasMissingSkill(skill) {
		s.mu.Unlock()
		return nil, &UnknownSkillError{Skill: skill}
	}
	s.selection++
	token := s.selection
	s.selected = skill
	s.pending = true
	s.rec = nil
	delete(s.completed, steps.Recommend)
	s.touched = time.Now()
	s.mu.Unlock()

	rec, err := p.Recommend(ctx, skill)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selection != token {
		return nil, ErrSuperseded
	}
	s.pending = false
	if err != nil {
		return nil, err
	}
	s.rec = rec
	s.completed[steps.Recommend] = true
	return rec.Clone(), nil
}

// Report assembles a report from the current analysis and, when one has
// completed, the current recommendation set.
func (s *Session) Report(now time.Time) (types.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := steps.ValidateDependencies(s.completed, steps.AssembleReport); err != nil {
		return types.Report{}, err
	}
	return report.Assemble(s.gap, s.rec, now), nil
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		ID:             s.ID,
		HasDocument:    s.completed[steps.NormalizeDocument],
		HasJob:         s.completed[steps.IngestJob],
		SkillGap:       s.gap,
		SelectedSkill:  s.selected,
		Pending:        s.pending,
		Recommendation: s.rec.Clone(),
		NextSteps:      steps.AvailableSteps(s.completed),
		BlockedSteps:   steps.BlockedSteps(s.completed),
	}
}

// lastTouched returns the time of the last state change.
func (s *Session) lastTouched() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched
}

func (s *Session) touch() {
	s.mu.Lock()
	s.touched = time.Now()
	s.mu.Unlock()
}
