package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonathan/skillbridge/internal/ingestion"
	"github.com/jonathan/skillbridge/internal/pipeline/steps"
	"github.com/jonathan/skillbridge/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGap(t *testing.T, missing ...string) *types.SkillGap {
	t.Helper()
	gap, err := types.NewSkillGap(types.SkillGapFields{
		OverallScore:    60,
		SkillsScore:     55,
		ExperienceScore: 65,
		EducationScore:  70,
		Strengths:       []string{"SQL"},
		MissingSkills:   missing,
		GapSummary:      "summary",
	}, types.DefaultHighScoreThreshold)
	require.NoError(t, err)
	return gap
}

type stubAnalyzer struct {
	gap   *types.SkillGap
	err   error
	calls int
	mu    sync.Mutex
}

func (a *stubAnalyzer) Analyze(context.Context, string, string) (*types.SkillGap, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	return a.gap, a.err
}

// gatedRecommender blocks calls for skills listed in gates until released.
type gatedRecommender struct {
	mu      sync.Mutex
	gates   map[string]chan struct{}
	started chan string
	err     error
}

func (r *gatedRecommender) Recommend(ctx context.Context, skill string) (*types.RecommendationSet, error) {
	r.mu.Lock()
	gate := r.gates[skill]
	r.mu.Unlock()
	if r.started != nil {
		r.started <- skill
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if r.err != nil {
		return nil, r.err
	}
	return &types.RecommendationSet{
		SelectedSkill: skill,
		Query:         skill + " tutorial, latest on youtube",
		Videos:        []types.VideoCandidate{{Title: skill + " course", URL: "https://example.com/" + skill}},
	}, nil
}

func analyzedSession(t *testing.T, p *Pipeline) *Session {
	t.Helper()
	s := NewSession()
	s.SetDocument("resume text with Python and SQL")
	s.SetJob("job requiring Python, Docker, Kubernetes")
	_, err := s.Analyze(context.Background(), p)
	require.NoError(t, err)
	return s
}

func TestSession_LastSelectionWins(t *testing.T) {
	rec := &gatedRecommender{
		gates:   map[string]chan struct{}{"Python": make(chan struct{})},
		started: make(chan string, 2),
	}
	p := New(&stubAnalyzer{gap: newGap(t, "Python", "Docker")}, rec, ingestion.DefaultOptions())
	s := analyzedSession(t, p)

	var (
		wg        sync.WaitGroup
		pythonErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, pythonErr = s.Select(context.Background(), p, "Python")
	}()
	require.Equal(t, "Python", <-rec.started)

	docker, err := s.Select(context.Background(), p, "Docker")
	require.NoError(t, err)
	assert.Equal(t, "Docker", docker.SelectedSkill)
	<-rec.started

	close(rec.gates["Python"])
	wg.Wait()

	assert.ErrorIs(t, pythonErr, ErrSuperseded)
	state := s.State()
	require.NotNil(t, state.Recommendation)
	assert.Equal(t, "Docker", state.Recommendation.SelectedSkill)
	assert.Equal(t, "Docker", state.SelectedSkill)
	assert.False(t, state.Pending)
}

func TestSession_NewAnalysisDiscardsInFlightSelection(t *testing.T) {
	rec := &gatedRecommender{
		gates:   map[string]chan struct{}{"Docker": make(chan struct{})},
		started: make(chan string, 1),
	}
	p := New(&stubAnalyzer{gap: newGap(t, "Docker")}, rec, ingestion.DefaultOptions())
	s := analyzedSession(t, p)

	errCh := make(chan error, 1)
	go func() {
		_, err := s.Select(context.Background(), p, "Docker")
		errCh <- err
	}()
	<-rec.started

	s.SetAnalysis(newGap(t, "Kubernetes"))
	close(rec.gates["Docker"])

	assert.ErrorIs(t, <-errCh, ErrSuperseded)
	state := s.State()
	assert.Nil(t, state.Recommendation)
	assert.Empty(t, state.SelectedSkill)
	assert.Equal(t, []string{"Kubernetes"}, state.SkillGap.MissingSkills())
}

func TestSession_StepOrder(t *testing.T) {
	p := New(&stubAnalyzer{gap: newGap(t, "Docker")}, &gatedRecommender{}, ingestion.DefaultOptions())
	s := NewSession()

	_, err := s.Analyze(context.Background(), p)
	var depErr *steps.DependencyError
	require.ErrorAs(t, err, &depErr)
	assert.Equal(t, []string{steps.NormalizeDocument, steps.IngestJob}, depErr.MissingDependencies)

	_, err = s.Select(context.Background(), p, "Docker")
	require.ErrorAs(t, err, &depErr)

	_, err = s.Report(time.Now())
	require.ErrorAs(t, err, &depErr)

	assert.Equal(t, []string{steps.NormalizeDocument, steps.IngestJob}, s.State().NextSteps)
	assert.Equal(t, []string{steps.Analyze, steps.Recommend, steps.AssembleReport}, s.State().BlockedSteps)
}

func TestSession_SelectUnknownSkill(t *testing.T) {
	p := New(&stubAnalyzer{gap: newGap(t, "Docker")}, &gatedRecommender{}, ingestion.DefaultOptions())
	s := analyzedSession(t, p)

	_, err := s.Select(context.Background(), p, "Rust")
	var unknown *UnknownSkillError
	require.ErrorAs(t, err, &unknown)

	rec, err := s.Select(context.Background(), p, "docker")
	require.NoError(t, err)
	assert.Equal(t, "docker", rec.SelectedSkill)
}

func TestSession_FailedSelectionClearsPending(t *testing.T) {
	boom := errors.New("search down")
	p := New(&stubAnalyzer{gap: newGap(t, "Docker")}, &gatedRecommender{err: boom}, ingestion.DefaultOptions())
	s := analyzedSession(t, p)

	_, err := s.Select(context.Background(), p, "Docker")
	assert.ErrorIs(t, err, boom)
	state := s.State()
	assert.False(t, state.Pending)
	assert.Nil(t, state.Recommendation)
}

func TestSession_NewDocumentResetsAnalysis(t *testing.T) {
	p := New(&stubAnalyzer{gap: newGap(t, "Docker")}, &gatedRecommender{}, ingestion.DefaultOptions())
	s := analyzedSession(t, p)
	_, err := s.Select(context.Background(), p, "Docker")
	require.NoError(t, err)

	s.SetDocument("a different resume")

	state := s.State()
	assert.Nil(t, state.SkillGap)
	assert.Nil(t, state.Recommendation)
	assert.Equal(t, []string{steps.Analyze}, state.NextSteps)
}

func TestSession_Report(t *testing.T) {
	p := New(&stubAnalyzer{gap: newGap(t, "Docker")}, &gatedRecommender{}, ingestion.DefaultOptions())
	s := analyzedSession(t, p)
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	r, err := s.Report(ts)
	require.NoError(t, err)
	assert.Nil(t, r.Recommendation)
	assert.Equal(t, ts, r.GeneratedAt)

	_, err = s.Select(context.Background(), p, "Docker")
	require.NoError(t, err)
	r, err = s.Report(ts)
	require.NoError(t, err)
	require.NotNil(t, r.Recommendation)
	assert.Equal(t, "Docker", r.Recommendation.SelectedSkill)
}
