package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"courses-backend/internal/catalog"
	"courses-backend/internal/search"
	"courses-backend/internal/shared/telemetry"
)

const maxBridgeSuggestions = 3

// Severity levels of a gap report, a pure function of the deduplicated gap
// count: 0 is Low, 1-2 is Medium, 3 or more is High.
const (
	SeverityLow    = "Low"
	SeverityMedium = "Medium"
	SeverityHigh   = "High"
)

// GapAnalyzer compares course prerequisites and level against a user's
// background, consulting the catalog for bridge-course suggestions.
type GapAnalyzer struct {
	Repo catalog.Repo
}

// Analyze inspects each target course for level mismatches and unmet
// prerequisites. A prerequisite counts as met when it appears, case
// insensitively, in the background text or any completed-course entry.
//
// Catalog failures while looking up bridge courses degrade to synthesized
// placeholder identifiers; they never abort the analysis.
func (a *GapAnalyzer) Analyze(ctx context.Context, targetCourses []search.Result, userBackground string, completedCourses []string) GapReport {
	background := strings.ToLower(userBackground)

	var gaps []string
	var issues []string

	for _, course := range targetCourses {
		level := strings.ToLower(course.Level)
		if level == "" {
			level = catalog.LevelIntermediate
		}

		if level == catalog.LevelAdvanced && strings.Contains(background, catalog.LevelBeginner) {
			gaps = append(gaps, fmt.Sprintf("Intermediate %s knowledge", course.Title))
			issues = append(issues, fmt.Sprintf("Course '%s' may be too advanced", course.Title))
		}

		for _, prereq := range course.Prerequisites {
			if a.prerequisiteMet(prereq, background, completedCourses) {
				continue
			}
			gaps = append(gaps, prereq)
			issues = append(issues, "Missing prerequisite: "+prereq)
		}
	}

	deduped := dedupeGaps(gaps)

	return GapReport{
		GapSeverity:                  Severity(len(deduped)),
		IdentifiedGaps:               deduped,
		PrerequisiteIssues:           issues,
		RecommendedAdditionalCourses: a.bridgeCourses(ctx, deduped),
	}
}

// Severity classifies a deduplicated gap count.
func Severity(gapCount int) string {
	switch {
	case gapCount == 0:
		return SeverityLow
	case gapCount <= 2:
		return SeverityMedium
	default:
		return SeverityHigh
	}
}

func (a *GapAnalyzer) prerequisiteMet(prereq, backgroundLower string, completedCourses []string) bool {
	needle := strings.ToLower(prereq)
	if backgroundLower != "" && strings.Contains(backgroundLower, needle) {
		return true
	}
	for _, completed := range completedCourses {
		if strings.Contains(strings.ToLower(completed), needle) {
			return true
		}
	}
	return false
}

// bridgeCourses suggests a beginner course per gap, for up to the first
// three distinct gaps. A missing or failing catalog lookup falls back to a
// synthesized introductory identifier.
func (a *GapAnalyzer) bridgeCourses(ctx context.Context, gaps []string) []string {
	if len(gaps) == 0 {
		return nil
	}
	limit := len(gaps)
	if limit > maxBridgeSuggestions {
		limit = maxBridgeSuggestions
	}

	suggestions := make([]string, 0, limit)
	for _, gap := range gaps[:limit] {
		title, err := a.Repo.FindBridgeCourse(ctx, gap)
		if err != nil {
			if !errors.Is(err, catalog.ErrNotFound) {
				telemetry.Warn("gaps.bridge_lookup_failed", map[string]any{"gap": gap, "err": err.Error()})
			}
			suggestions = append(suggestions, placeholderBridgeCourse(gap))
			continue
		}
		suggestions = append(suggestions, title)
	}
	return suggestions
}

func placeholderBridgeCourse(gap string) string {
	slug := strings.ReplaceAll(strings.ToLower(gap), " ", "_")
	return "introductory_" + slug + "_course"
}

// dedupeGaps removes exact duplicates, keeping first-occurrence order.
func dedupeGaps(gaps []string) []string {
	seen := make(map[string]bool, len(gaps))
	out := make([]string, 0, len(gaps))
	for _, gap := range gaps {
		if seen[gap] {
			continue
		}
		seen[gap] = true
		out = append(out, gap)
	}
	return out
}
