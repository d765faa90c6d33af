package recommend

// Preferences is the per-request user profile. Zero values mean "no
// preference" and contribute no boost.
type Preferences struct {
	SkillLevel         string         `json:"skill_level,omitempty"`
	Modality           string         `json:"modality,omitempty"`
	ProviderPreference string         `json:"provider_preference,omitempty"`
	MaxDurationHours   int            `json:"max_duration_hours,omitempty"`
	Background         string         `json:"background,omitempty"`
	CompletedCourses   []string       `json:"completed_courses,omitempty"`
	Filters            map[string]any `json:"filters,omitempty"`
}

// Recommendation is a scored, explained course candidate.
type Recommendation struct {
	CourseID             string   `json:"course_id"`
	Title                string   `json:"title"`
	Provider             string   `json:"provider"`
	Level                string   `json:"level"`
	DurationHours        int      `json:"duration_hours"`
	Modality             string   `json:"modality"`
	Tags                 []string `json:"tags"`
	RecommendationScore  float64  `json:"recommendation_score"`
	RecommendationReason string   `json:"recommendation_reason"`
	SimilarityScore      float64  `json:"similarity_score"`
}

// LearningPath is an ordered, skill-progressive course sequence.
type LearningPath struct {
	PathName                  string           `json:"path_name"`
	PathDescription           string           `json:"path_description"`
	TotalDurationHours        int              `json:"total_duration_hours"`
	EstimatedCompletionMonths int              `json:"estimated_completion_months"`
	SkillProgression          []string         `json:"skill_progression"`
	Courses                   []Recommendation `json:"courses"`
}

// GapReport classifies the skill gaps between a user's background and a set
// of target courses.
type GapReport struct {
	GapSeverity                  string   `json:"gap_severity"`
	IdentifiedGaps               []string `json:"identified_gaps"`
	PrerequisiteIssues           []string `json:"prerequisite_issues"`
	RecommendedAdditionalCourses []string `json:"recommended_additional_courses"`
}

// TagCount pairs a tag with its frequency.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// Analytics aggregates distribution statistics over a candidate set.
type Analytics struct {
	TotalCoursesAnalyzed   int                `json:"total_courses_analyzed"`
	AverageSimilarityScore float64            `json:"average_similarity_score"`
	SkillLevelDistribution map[string]int     `json:"skill_level_distribution"`
	ModalityDistribution   map[string]int     `json:"modality_distribution"`
	DurationStatistics     map[string]float64 `json:"duration_statistics"`
	TopTags                []TagCount         `json:"top_tags"`
}
