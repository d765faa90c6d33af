package recommend

import (
	"sort"
	"strings"

	"courses-backend/internal/search"
)

const topTagLimit = 10

// Summarize computes distribution statistics over the candidate set.
func Summarize(candidates []search.Result) Analytics {
	analytics := Analytics{
		SkillLevelDistribution: map[string]int{},
		ModalityDistribution:   map[string]int{},
		DurationStatistics:     map[string]float64{},
	}
	if len(candidates) == 0 {
		return analytics
	}

	analytics.TotalCoursesAnalyzed = len(candidates)

	var similaritySum float64
	var durSum, durMin, durMax float64
	var durCount int
	tagCounts := map[string]int{}
	var tagOrder []string

	for _, candidate := range candidates {
		similaritySum += candidate.SimilarityScore

		analytics.SkillLevelDistribution[lowerOr(candidate.Level, "unknown")]++
		analytics.ModalityDistribution[lowerOr(candidate.Modality, "unknown")]++

		if candidate.DurationHours > 0 {
			dur := float64(candidate.DurationHours)
			durSum += dur
			durCount++
			if durCount == 1 || dur < durMin {
				durMin = dur
			}
			if dur > durMax {
				durMax = dur
			}
		}

		for _, tag := range candidate.Tags {
			key := strings.ToLower(tag)
			if tagCounts[key] == 0 {
				tagOrder = append(tagOrder, key)
			}
			tagCounts[key]++
		}
	}

	analytics.AverageSimilarityScore = similaritySum / float64(len(candidates))
	if durCount > 0 {
		analytics.DurationStatistics["min"] = durMin
		analytics.DurationStatistics["max"] = durMax
		analytics.DurationStatistics["mean"] = durSum / float64(durCount)
	}

	// Descending by count; first occurrence wins ties so output is stable.
	top := make([]TagCount, 0, len(tagOrder))
	for _, tag := range tagOrder {
		top = append(top, TagCount{Tag: tag, Count: tagCounts[tag]})
	}
	sort.SliceStable(top, func(i, j int) bool { return top[i].Count > top[j].Count })
	if len(top) > topTagLimit {
		top = top[:topTagLimit]
	}
	analytics.TopTags = top

	return analytics
}

func lowerOr(val, fallback string) string {
	if strings.TrimSpace(val) == "" {
		return fallback
	}
	return strings.ToLower(val)
}
