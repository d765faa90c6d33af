package catalog

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a referenced course is absent from the store.
var ErrNotFound = errors.New("course not found")

// Stats aggregates catalog-wide statistics.
type Stats struct {
	TotalCourses          int                `json:"total_courses"`
	CoursesWithEmbeddings int                `json:"courses_with_embeddings"`
	LevelDistribution     map[string]int     `json:"level_distribution"`
	ModalityDistribution  map[string]int     `json:"modality_distribution"`
	TopProviders          map[string]int     `json:"top_providers"`
	DurationStats         map[string]float64 `json:"duration_stats"`
}

// Repo abstracts the catalog store.
type Repo interface {
	// Insert upserts a course row.
	Insert(ctx context.Context, course Course) error
	// Get returns a single course, ErrNotFound when absent.
	Get(ctx context.Context, courseID string) (Course, error)
	// GetMany returns the courses for the given IDs, ordered by course_id.
	// Missing IDs are skipped, not errors.
	GetMany(ctx context.Context, courseIDs []string) ([]Course, error)
	// ListEmbedded returns every course whose embedding is non-null.
	ListEmbedded(ctx context.Context) ([]Course, error)
	// ListMissingEmbedding returns courses awaiting embedding generation.
	ListMissingEmbedding(ctx context.Context) ([]Course, error)
	// UpdateEmbedding stores a freshly computed embedding for a course.
	UpdateEmbedding(ctx context.Context, courseID string, embedding []float32) error
	// FindBridgeCourse returns the title of a beginner-level course whose
	// title or tags match the gap term, ErrNotFound when none does.
	FindBridgeCourse(ctx context.Context, gapTerm string) (string, error)
	// FindAlternatives returns up to limit course IDs sharing a tag with the
	// excluded course.
	FindAlternatives(ctx context.Context, excludeID, tag string, limit int) ([]string, error)
	// SearchByKeywords matches title, content or tags against the keywords.
	SearchByKeywords(ctx context.Context, keywords []string, limit int) ([]Course, error)
	// Stats returns catalog-wide aggregates.
	Stats(ctx context.Context) (Stats, error)
}
