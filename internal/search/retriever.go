package search

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"courses-backend/internal/catalog"
	"courses-backend/internal/embedding"
	"courses-backend/internal/shared/telemetry"
)

const (
	// DefaultLimit caps retrieval when the caller does not specify one.
	DefaultLimit = 10
	// previewLength bounds the content preview, in characters.
	previewLength = 200
)

// ErrInvalidQuery is returned when the query text is empty.
var ErrInvalidQuery = errors.New("query text is required")

// Result is a course projection with its similarity to the query.
type Result struct {
	catalog.Course
	SimilarityScore float64 `json:"similarity_score"`
	ContentPreview  string  `json:"content_preview"`
}

// Outcome is the explicit retrieval result. Degraded marks the bounded
// fallback taken on non-auth dependency failures; DegradedCause carries the
// original error for operability.
type Outcome struct {
	Results       []Result
	Degraded      bool
	DegradedCause error
}

// Retriever performs brute-force cosine similarity search over the catalog
// embeddings. A sequential sweep is fine at catalog scale (hundreds to low
// thousands of rows); an ANN index could replace it behind this same
// contract.
type Retriever struct {
	Repo     catalog.Repo
	Embedder embedding.Service
}

// Retrieve embeds the query, ranks every embedded course by cosine
// similarity and returns the top limit results.
//
// Authentication and configuration failures from the embedding service
// always propagate. Any other failure degrades to a single placeholder
// result so the pipeline keeps progressing.
func (r *Retriever) Retrieve(ctx context.Context, queryText string, limit int) (Outcome, error) {
	if strings.TrimSpace(queryText) == "" {
		return Outcome{}, ErrInvalidQuery
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	queryVec, err := r.Embedder.Embed(ctx, queryText)
	if err != nil {
		if embedding.IsAuthError(err) || embedding.IsConfigurationError(err) {
			return Outcome{}, err
		}
		return r.degrade(queryText, fmt.Errorf("embed query: %w", err)), nil
	}

	courses, err := r.Repo.ListEmbedded(ctx)
	if err != nil {
		return r.degrade(queryText, fmt.Errorf("load embedded courses: %w", err)), nil
	}
	if len(courses) == 0 {
		return r.degrade(queryText, errors.New("no embedded courses in catalog")), nil
	}

	return Outcome{Results: rank(queryVec, courses, limit, "")}, nil
}

// SimilarTo ranks courses by similarity to a stored course's embedding,
// excluding the seed course itself. Returns catalog.ErrNotFound when the
// seed course is absent or has no stored embedding.
func (r *Retriever) SimilarTo(ctx context.Context, courseID string, limit int) (Outcome, error) {
	if limit <= 0 {
		limit = 5
	}

	seed, err := r.Repo.Get(ctx, courseID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return Outcome{}, err
		}
		return r.degradeSimilar(courseID, limit, fmt.Errorf("load seed course: %w", err)), nil
	}
	if len(seed.Embedding) == 0 {
		return Outcome{}, fmt.Errorf("course %s has no embedding: %w", courseID, catalog.ErrNotFound)
	}

	courses, err := r.Repo.ListEmbedded(ctx)
	if err != nil {
		return r.degradeSimilar(courseID, limit, fmt.Errorf("load embedded courses: %w", err)), nil
	}

	return Outcome{Results: rank(seed.Embedding, courses, limit, courseID)}, nil
}

// rank computes cosine similarity against every candidate, sorts descending
// and truncates. Stable sort keeps store order for equal scores.
func rank(queryVec []float32, courses []catalog.Course, limit int, excludeID string) []Result {
	scored := make([]Result, 0, len(courses))
	for _, course := range courses {
		if excludeID != "" && course.CourseID == excludeID {
			continue
		}
		similarity, ok := cosineSimilarity(queryVec, course.Embedding)
		if !ok {
			// Malformed or zero vector; leave it out rather than rank on NaN.
			continue
		}
		scored = append(scored, Result{
			Course:          course,
			SimilarityScore: similarity,
			ContentPreview:  preview(course),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].SimilarityScore > scored[j].SimilarityScore
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// cosineSimilarity returns dot(a,b)/(|a|*|b|). The bool is false when either
// vector is empty, mismatched in length, or has zero norm.
func cosineSimilarity(a, b []float32) (float64, bool) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, false
	}
	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0, false
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), true
}

func preview(course catalog.Course) string {
	text := course.Content
	if text == "" {
		text = course.Title
	}
	runes := []rune(text)
	if len(runes) > previewLength {
		return string(runes[:previewLength])
	}
	return text
}

func (r *Retriever) degrade(queryText string, cause error) Outcome {
	telemetry.Warn("search.degraded", map[string]any{"cause": cause.Error()})
	return Outcome{
		Results: []Result{{
			Course: catalog.Course{
				CourseID:      "sample_001",
				Title:         "Sample Course for: " + queryText,
				Provider:      "Sample Provider",
				Level:         catalog.LevelIntermediate,
				DurationHours: 20,
				Modality:      catalog.ModalityOnline,
				Tags:          []string{"sample", "development"},
				Prerequisites: []string{"basic knowledge"},
				ValidRegions:  []string{"US", "EU"},
			},
			SimilarityScore: 0.85,
			ContentPreview:  "This is a sample course matching your query: " + queryText,
		}},
		Degraded:      true,
		DegradedCause: cause,
	}
}

func (r *Retriever) degradeSimilar(courseID string, limit int, cause error) Outcome {
	telemetry.Warn("search.similar_degraded", map[string]any{"course_id": courseID, "cause": cause.Error()})
	count := limit
	if count > 3 {
		count = 3
	}
	results := make([]Result, 0, count)
	for i := 1; i <= count; i++ {
		results = append(results, Result{
			Course: catalog.Course{
				CourseID:      fmt.Sprintf("similar_%d", i),
				Title:         fmt.Sprintf("Similar Course %d to %s", i, courseID),
				Provider:      "Sample Provider",
				Level:         catalog.LevelIntermediate,
				DurationHours: 15,
				Modality:      catalog.ModalityOnline,
				Tags:          []string{"similar", "related"},
				ValidRegions:  []string{"US"},
			},
			SimilarityScore: 0.8 - float64(i-1)*0.1,
			ContentPreview:  "Course similar to " + courseID,
		})
	}
	return Outcome{Results: results, Degraded: true, DegradedCause: cause}
}
