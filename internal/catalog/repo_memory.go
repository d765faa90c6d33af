package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repo used for tests and when no database is
// configured.
type MemoryRepo struct {
	mu      sync.RWMutex
	courses map[string]Course
	order   []string
}

// NewMemoryRepo constructs an empty in-memory repo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{courses: make(map[string]Course)}
}

// Insert upserts a course, preserving an existing embedding on replace.
func (r *MemoryRepo) Insert(_ context.Context, course Course) error {
	if err := course.Validate(); err != nil {
		return fmt.Errorf("invalid course: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	course.Level = strings.ToLower(course.Level)
	course.Modality = strings.ToLower(course.Modality)
	now := time.Now().UTC()
	if existing, ok := r.courses[course.CourseID]; ok {
		if course.Embedding == nil {
			course.Embedding = existing.Embedding
		}
		course.CreatedAt = existing.CreatedAt
	} else {
		course.CreatedAt = now
		r.order = append(r.order, course.CourseID)
	}
	course.UpdatedAt = now
	r.courses[course.CourseID] = course
	return nil
}

// Get returns a single course by ID.
func (r *MemoryRepo) Get(_ context.Context, courseID string) (Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	course, ok := r.courses[courseID]
	if !ok {
		return Course{}, ErrNotFound
	}
	return course, nil
}

// GetMany returns the courses for the given IDs ordered by course_id.
func (r *MemoryRepo) GetMany(_ context.Context, courseIDs []string) ([]Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Course
	for _, id := range courseIDs {
		if course, ok := r.courses[id]; ok {
			out = append(out, course)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CourseID < out[j].CourseID })
	return out, nil
}

// ListEmbedded returns courses with a stored embedding in insertion order.
func (r *MemoryRepo) ListEmbedded(_ context.Context) ([]Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Course
	for _, id := range r.order {
		if course := r.courses[id]; course.Embedding != nil {
			out = append(out, course)
		}
	}
	return out, nil
}

// ListMissingEmbedding returns courses without an embedding in insertion order.
func (r *MemoryRepo) ListMissingEmbedding(_ context.Context) ([]Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Course
	for _, id := range r.order {
		if course := r.courses[id]; course.Embedding == nil {
			out = append(out, course)
		}
	}
	return out, nil
}

// UpdateEmbedding stores a freshly computed embedding.
func (r *MemoryRepo) UpdateEmbedding(_ context.Context, courseID string, embedding []float32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	course, ok := r.courses[courseID]
	if !ok {
		return ErrNotFound
	}
	course.Embedding = append([]float32(nil), embedding...)
	course.UpdatedAt = time.Now().UTC()
	r.courses[courseID] = course
	return nil
}

// FindBridgeCourse returns the title of a beginner course matching the gap term.
func (r *MemoryRepo) FindBridgeCourse(_ context.Context, gapTerm string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	needle := strings.ToLower(gapTerm)
	for _, id := range r.order {
		course := r.courses[id]
		if course.Level != LevelBeginner {
			continue
		}
		if strings.Contains(strings.ToLower(course.Title), needle) || tagsMatch(course.Tags, needle) {
			return course.Title, nil
		}
	}
	return "", ErrNotFound
}

// FindAlternatives returns course IDs sharing a tag with the excluded course.
func (r *MemoryRepo) FindAlternatives(_ context.Context, excludeID, tag string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 3
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	needle := strings.ToLower(tag)
	var ids []string
	for _, id := range r.order {
		if id == excludeID {
			continue
		}
		if tagsMatch(r.courses[id].Tags, needle) {
			ids = append(ids, id)
			if len(ids) == limit {
				break
			}
		}
	}
	return ids, nil
}

// SearchByKeywords matches title, content or tags against the keywords.
func (r *MemoryRepo) SearchByKeywords(_ context.Context, keywords []string, limit int) ([]Course, error) {
	if len(keywords) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Course
	for _, id := range r.order {
		course := r.courses[id]
		for _, keyword := range keywords {
			needle := strings.ToLower(keyword)
			if strings.Contains(strings.ToLower(course.Title), needle) ||
				strings.Contains(strings.ToLower(course.Content), needle) ||
				tagsMatch(course.Tags, needle) {
				out = append(out, course)
				break
			}
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// Stats returns catalog-wide aggregates.
func (r *MemoryRepo) Stats(_ context.Context) (Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats := Stats{
		LevelDistribution:    map[string]int{},
		ModalityDistribution: map[string]int{},
		TopProviders:         map[string]int{},
		DurationStats:        map[string]float64{},
	}
	var durSum, durMin, durMax float64
	var durCount int
	for _, id := range r.order {
		course := r.courses[id]
		stats.TotalCourses++
		if course.Embedding != nil {
			stats.CoursesWithEmbeddings++
		}
		stats.LevelDistribution[orUnknown(course.Level)]++
		stats.ModalityDistribution[orUnknown(course.Modality)]++
		stats.TopProviders[orUnknown(course.Provider)]++
		if course.DurationHours > 0 {
			dur := float64(course.DurationHours)
			durSum += dur
			durCount++
			if durCount == 1 || dur < durMin {
				durMin = dur
			}
			if dur > durMax {
				durMax = dur
			}
		}
	}
	if durCount > 0 {
		stats.DurationStats["average"] = durSum / float64(durCount)
		stats.DurationStats["minimum"] = durMin
		stats.DurationStats["maximum"] = durMax
	}
	return stats, nil
}

func tagsMatch(tags []string, needle string) bool {
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

func orUnknown(val string) string {
	if val == "" {
		return "unknown"
	}
	return val
}

var _ Repo = (*MemoryRepo)(nil)
var _ Repo = (*PGRepo)(nil)
