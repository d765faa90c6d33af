package pipeline

import (
	"fmt"
	"strings"
)

// buildContext assembles the grounding context for the text-generation
// service. Each section appears only when its artifact is present.
func buildContext(state *State) string {
	var parts []string

	if len(state.Recommendations) > 0 {
		parts = append(parts, fmt.Sprintf("Found %d relevant courses:", len(state.Recommendations)))
		top := state.Recommendations
		if len(top) > 3 {
			top = top[:3]
		}
		for _, rec := range top {
			parts = append(parts, fmt.Sprintf("- %s (%s) - Score: %.2f", rec.Title, rec.Provider, rec.RecommendationScore))
		}
	}

	if state.Analytics != nil && state.Analytics.TotalCoursesAnalyzed > 0 {
		parts = append(parts, fmt.Sprintf("\nAnalytics: %d courses analyzed, avg similarity: %.2f",
			state.Analytics.TotalCoursesAnalyzed, state.Analytics.AverageSimilarityScore))
	}

	if state.LearningPath != nil && len(state.LearningPath.Courses) > 0 {
		parts = append(parts, fmt.Sprintf("\nLearning Path: %s (%dh, %d months)",
			state.LearningPath.PathName,
			state.LearningPath.TotalDurationHours,
			state.LearningPath.EstimatedCompletionMonths))
	}

	if state.SkillGaps != nil {
		parts = append(parts, fmt.Sprintf("\nSkill Gaps: %s severity, %d gaps identified",
			state.SkillGaps.GapSeverity, len(state.SkillGaps.IdentifiedGaps)))
	}

	return strings.Join(parts, "\n")
}

func buildPrompt(state *State) string {
	return fmt.Sprintf(`User Query: %s

Course Analysis Results:
%s

Please provide a comprehensive response that:
1. Addresses the user's specific query
2. Summarizes the most relevant course recommendations
3. Explains the learning path if applicable
4. Mentions any skill gaps that should be addressed
5. Provides actionable next steps

Keep the response helpful, concise, and focused on the user's learning goals.`,
		state.Query, buildContext(state))
}
