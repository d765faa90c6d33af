package recommend

import (
	"sort"
	"strings"

	"courses-backend/internal/search"
)

// Score converts retrieved candidates into ranked recommendations. Pure
// function of its inputs: no external calls, no hidden state.
//
// score = similarity + quality boost + preference boost, clamped to [0,1].
// Descending stable sort preserves retrieval order for equal scores.
func Score(candidates []search.Result, prefs Preferences) []Recommendation {
	if len(candidates) == 0 {
		return nil
	}

	recommendations := make([]Recommendation, 0, len(candidates))
	for _, candidate := range candidates {
		baseScore := candidate.SimilarityScore
		quality := qualityBoost(candidate)
		preference := preferenceBoost(candidate, prefs)
		finalScore := clamp01(baseScore + quality + preference)

		recommendations = append(recommendations, Recommendation{
			CourseID:             candidate.CourseID,
			Title:                candidate.Title,
			Provider:             candidate.Provider,
			Level:                candidate.Level,
			DurationHours:        candidate.DurationHours,
			Modality:             candidate.Modality,
			Tags:                 candidate.Tags,
			RecommendationScore:  finalScore,
			RecommendationReason: buildReason(candidate, baseScore, quality, preference),
			SimilarityScore:      baseScore,
		})
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].RecommendationScore > recommendations[j].RecommendationScore
	})
	return recommendations
}

func qualityBoost(candidate search.Result) float64 {
	boost := 0.0
	if candidate.Rating >= 4.0 {
		boost += 0.10
	}
	if candidate.EnrollmentCount > 1000 {
		boost += 0.05
	}
	if candidate.CertificationOffered {
		boost += 0.05
	}
	return boost
}

func preferenceBoost(candidate search.Result, prefs Preferences) float64 {
	boost := 0.0
	if prefs.SkillLevel != "" && strings.EqualFold(prefs.SkillLevel, candidate.Level) {
		boost += 0.10
	}
	if prefs.Modality != "" && strings.EqualFold(prefs.Modality, candidate.Modality) {
		boost += 0.05
	}
	if prefs.ProviderPreference != "" &&
		strings.Contains(strings.ToLower(candidate.Provider), strings.ToLower(prefs.ProviderPreference)) {
		boost += 0.05
	}
	if prefs.MaxDurationHours > 0 && candidate.DurationHours <= prefs.MaxDurationHours {
		boost += 0.05
	}
	return boost
}

// buildReason walks a fixed, ordered checklist and joins the first two
// applicable reasons.
func buildReason(candidate search.Result, baseScore, quality, preference float64) string {
	var reasons []string
	if baseScore > 0.8 {
		reasons = append(reasons, "highly relevant to your query")
	}
	if candidate.CertificationOffered {
		reasons = append(reasons, "offers professional certification")
	}
	if quality > 0.1 {
		reasons = append(reasons, "highly rated by students")
	}
	if preference > 0.05 {
		reasons = append(reasons, "matches your preferences")
	}
	if len(reasons) == 0 {
		return "Good match for your needs"
	}
	if len(reasons) > 2 {
		reasons = reasons[:2]
	}
	return strings.Join(reasons, ", ")
}

func clamp01(val float64) float64 {
	if val < 0 {
		return 0
	}
	if val > 1 {
		return 1
	}
	return val
}
