package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"courses-backend/internal/embedding"
	"courses-backend/internal/recommend"
	"courses-backend/internal/search"
	"courses-backend/internal/shared/metrics"
	"courses-backend/internal/shared/telemetry"
	"courses-backend/internal/textgen"
)

// AbortError wraps an unhandled stage failure. Partial state is discarded,
// not returned.
type AbortError struct {
	Stage string
	Err   error
}

func (e *AbortError) Error() string {
	return fmt.Sprintf("pipeline aborted at %s: %v", e.Stage, e.Err)
}

func (e *AbortError) Unwrap() error { return e.Err }

// State is the shared record the five stages read and write. Each stage
// reads fields written by prior stages and writes its own; data flows
// strictly forward.
type State struct {
	RunID       string
	Query       string
	Preferences recommend.Preferences

	Courses  []search.Result
	Degraded bool

	Recommendations []recommend.Recommendation
	Analytics       *recommend.Analytics
	LearningPath    *recommend.LearningPath
	SkillGaps       *recommend.GapReport
	Response        string
}

// Result is the terminal pipeline state consumed by the API boundary.
type Result struct {
	Query           string                     `json:"query"`
	Response        string                     `json:"response"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
	Analytics       *recommend.Analytics       `json:"analytics"`
	LearningPath    *recommend.LearningPath    `json:"learning_path"`
	SkillGaps       *recommend.GapReport       `json:"skill_gaps"`
	Degraded        bool                       `json:"degraded,omitempty"`
}

// Service runs the fixed five-stage recommendation pipeline:
// Retrieve, Score, BuildPath, AnalyzeGaps, Synthesize. Each invocation is
// synchronous and independent; concurrent requests share only the read-only
// catalog.
type Service struct {
	Retriever      *search.Retriever
	Gaps           *recommend.GapAnalyzer
	TextGen        textgen.Client
	RetrievalLimit int
}

type stage struct {
	name string
	run  func(ctx context.Context, state *State) error
}

// Recommend executes the pipeline for one query. Authentication and
// configuration failures propagate unmodified; any other stage failure
// aborts the remaining stages with an AbortError.
func (s *Service) Recommend(ctx context.Context, query string, prefs recommend.Preferences) (Result, error) {
	if strings.TrimSpace(query) == "" {
		return Result{}, search.ErrInvalidQuery
	}

	state := &State{
		RunID:       uuid.NewString(),
		Query:       query,
		Preferences: prefs,
	}

	stages := []stage{
		{"retrieve", s.stageRetrieve},
		{"score", s.stageScore},
		{"build_path", s.stageBuildPath},
		{"analyze_gaps", s.stageAnalyzeGaps},
		{"synthesize", s.stageSynthesize},
	}

	metrics.IncPipelineStarted()
	started := time.Now()

	for _, st := range stages {
		if err := st.run(ctx, state); err != nil {
			metrics.IncPipelineFailed()
			telemetry.Error("pipeline.stage_failed", map[string]any{
				"run_id": state.RunID,
				"stage":  st.name,
				"err":    err.Error(),
			})
			if embedding.IsAuthError(err) || embedding.IsConfigurationError(err) || textgen.IsConfigurationError(err) {
				return Result{}, err
			}
			return Result{}, &AbortError{Stage: st.name, Err: err}
		}
	}

	metrics.IncPipelineCompleted()
	metrics.ObservePipelineDurationMs(float64(time.Since(started).Milliseconds()))
	telemetry.Info("pipeline.completed", map[string]any{
		"run_id":          state.RunID,
		"courses":         len(state.Courses),
		"recommendations": len(state.Recommendations),
		"degraded":        state.Degraded,
		"duration_ms":     time.Since(started).Milliseconds(),
	})

	return Result{
		Query:           state.Query,
		Response:        state.Response,
		Recommendations: state.Recommendations,
		Analytics:       state.Analytics,
		LearningPath:    state.LearningPath,
		SkillGaps:       state.SkillGaps,
		Degraded:        state.Degraded,
	}, nil
}

func (s *Service) stageRetrieve(ctx context.Context, state *State) error {
	limit := s.RetrievalLimit
	if limit <= 0 {
		limit = search.DefaultLimit
	}
	outcome, err := s.Retriever.Retrieve(ctx, state.Query, limit)
	if err != nil {
		return err
	}
	state.Courses = outcome.Results
	state.Degraded = outcome.Degraded
	if outcome.Degraded {
		metrics.IncRetrievalDegraded()
		telemetry.Warn("pipeline.retrieval_degraded", map[string]any{
			"run_id": state.RunID,
			"cause":  outcome.DegradedCause.Error(),
		})
	}
	return nil
}

func (s *Service) stageScore(_ context.Context, state *State) error {
	state.Recommendations = recommend.Score(state.Courses, state.Preferences)
	analytics := recommend.Summarize(state.Courses)
	state.Analytics = &analytics
	return nil
}

func (s *Service) stageBuildPath(_ context.Context, state *State) error {
	// skill_level is the user's current level, not the path target. The
	// target defaults to advanced.
	path := recommend.BuildPath(state.Courses, "")
	state.LearningPath = &path
	return nil
}

func (s *Service) stageAnalyzeGaps(ctx context.Context, state *State) error {
	report := s.Gaps.Analyze(ctx, state.Courses, state.Preferences.Background, state.Preferences.CompletedCourses)
	state.SkillGaps = &report
	return nil
}

func (s *Service) stageSynthesize(ctx context.Context, state *State) error {
	prompt := buildPrompt(state)
	response, err := s.TextGen.Generate(ctx, prompt)
	if err != nil {
		return err
	}
	state.Response = response
	return nil
}
