package recommend

import (
	"fmt"
	"sort"
	"strings"

	"courses-backend/internal/catalog"
	"courses-backend/internal/search"
)

const (
	maxPathCourses = 6
	// hoursPerMonth assumes roughly 5 study hours per week.
	hoursPerMonth = 20

	reasonFoundation = "Foundation course to establish core knowledge"
	reasonInterior   = "Builds upon previous concepts and introduces new skills"
	reasonCapstone   = "Advanced course to master the subject area"
)

// BuildPath orders candidates into a skill-progressive learning path of at
// most six courses. Pure function of its inputs.
func BuildPath(candidates []search.Result, targetSkillLevel string) LearningPath {
	if targetSkillLevel == "" {
		targetSkillLevel = catalog.LevelAdvanced
	}
	if len(candidates) == 0 {
		return LearningPath{
			PathName:        "Empty Learning Path",
			PathDescription: "No courses provided",
		}
	}

	sorted := make([]search.Result, len(candidates))
	copy(sorted, candidates)
	// Stable: input order is the tie-break within a level.
	sort.SliceStable(sorted, func(i, j int) bool {
		return catalog.LevelOrdinal(sorted[i].Level) < catalog.LevelOrdinal(sorted[j].Level)
	})

	selected := sorted
	if len(selected) > maxPathCourses {
		selected = selected[:maxPathCourses]
	}

	courses := make([]Recommendation, 0, len(selected))
	totalDuration := 0
	for i, candidate := range selected {
		totalDuration += candidate.DurationHours

		var reason string
		switch {
		case i == 0:
			reason = reasonFoundation
		case i == len(selected)-1:
			reason = reasonCapstone
		default:
			reason = reasonInterior
		}

		courses = append(courses, Recommendation{
			CourseID:             candidate.CourseID,
			Title:                candidate.Title,
			Provider:             candidate.Provider,
			Level:                candidate.Level,
			DurationHours:        candidate.DurationHours,
			Modality:             candidate.Modality,
			Tags:                 candidate.Tags,
			RecommendationScore:  candidate.SimilarityScore,
			RecommendationReason: reason,
			SimilarityScore:      candidate.SimilarityScore,
		})
	}

	progression := skillProgression(sorted)

	startLevel := catalog.LevelBeginner
	if len(progression) > 0 {
		startLevel = progression[0]
	}

	return LearningPath{
		PathName: buildPathName(sorted),
		PathDescription: fmt.Sprintf("Structured learning path progressing from %s to %s level",
			startLevel, targetSkillLevel),
		TotalDurationHours:        totalDuration,
		EstimatedCompletionMonths: estimateMonths(totalDuration),
		SkillProgression:          progression,
		Courses:                   courses,
	}
}

// skillProgression returns the distinct levels present, ascending by skill
// ordinal. A missing level counts as intermediate.
func skillProgression(sorted []search.Result) []string {
	seen := map[string]bool{}
	var levels []string
	for _, candidate := range sorted {
		level := strings.ToLower(strings.TrimSpace(candidate.Level))
		if level == "" {
			level = catalog.LevelIntermediate
		}
		if !seen[level] {
			seen[level] = true
			levels = append(levels, level)
		}
	}
	sort.SliceStable(levels, func(i, j int) bool {
		return catalog.LevelOrdinal(levels[i]) < catalog.LevelOrdinal(levels[j])
	})
	return levels
}

// buildPathName names the path after the first two tags that recur across
// the candidate set, ranked by first occurrence so the name is reproducible.
func buildPathName(sorted []search.Result) string {
	counts := map[string]int{}
	var order []string
	for _, candidate := range sorted {
		for _, tag := range candidate.Tags {
			if counts[tag] == 0 {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}

	var common []string
	for _, tag := range order {
		if counts[tag] > 1 {
			common = append(common, tag)
			if len(common) == 2 {
				break
			}
		}
	}
	if len(common) == 0 {
		return "Professional Development Path"
	}
	return strings.Join(common, " & ") + " Learning Path"
}

func estimateMonths(totalDuration int) int {
	months := totalDuration / hoursPerMonth
	if months < 1 {
		return 1
	}
	return months
}
