package catalog

import (
	"fmt"
	"math"
	"strings"
)

// LearningOutcome describes what a learner can do after completing a course.
type LearningOutcome struct {
	OutcomeID        string `json:"outcome_id"`
	Description      string `json:"description"`
	SkillCategory    string `json:"skill_category"`
	ProficiencyLevel string `json:"proficiency_level"`
}

// CourseModule is one unit of a derived curriculum breakdown.
type CourseModule struct {
	ModuleNumber  int      `json:"module_number"`
	Title         string   `json:"title"`
	DurationHours float64  `json:"duration_hours"`
	Topics        []string `json:"topics"`
	Assessments   []string `json:"assessments"`
}

// DetailedCourse is a Course enriched with derived outcomes and curriculum.
type DetailedCourse struct {
	Course
	FullDescription  string            `json:"full_description"`
	LearningOutcomes []LearningOutcome `json:"learning_outcomes"`
	Modules          []CourseModule    `json:"course_modules"`
	Language         string            `json:"language"`
}

// Detail derives the enriched view of a course. Outcomes and modules are
// synthesized from the title, content and tags; the catalog does not store
// curricula.
func Detail(course Course) DetailedCourse {
	description := course.Content
	if description == "" {
		description = course.Title
	}
	return DetailedCourse{
		Course:           course,
		FullDescription:  description,
		LearningOutcomes: deriveOutcomes(course.Title, course.Tags),
		Modules:          deriveModules(course.DurationHours, course.Tags),
		Language:         "English",
	}
}

var (
	technicalSkills  = []string{"programming", "automation", "safety", "quality", "maintenance", "analysis"}
	softSkills       = []string{"leadership", "communication", "management", "teamwork"}
	regulatorySkills = []string{"compliance", "osha", "iso", "standards"}
)

func deriveOutcomes(title string, tags []string) []LearningOutcome {
	var outcomes []LearningOutcome
	nextID := 1

	for _, tag := range tags {
		if containsAny(strings.ToLower(tag), technicalSkills) {
			outcomes = append(outcomes, LearningOutcome{
				OutcomeID:        fmt.Sprintf("LO%d", nextID),
				Description:      fmt.Sprintf("Apply %s principles and techniques in professional settings", tag),
				SkillCategory:    "technical",
				ProficiencyLevel: LevelIntermediate,
			})
			nextID++
		}
	}

	titleLower := strings.ToLower(title)
	if containsAny(titleLower, softSkills) {
		outcomes = append(outcomes, LearningOutcome{
			OutcomeID:        fmt.Sprintf("LO%d", nextID),
			Description:      "Demonstrate effective leadership and communication skills",
			SkillCategory:    "soft",
			ProficiencyLevel: LevelIntermediate,
		})
		nextID++
	}

	if containsAny(titleLower, regulatorySkills) || anyTagContains(tags, regulatorySkills) {
		outcomes = append(outcomes, LearningOutcome{
			OutcomeID:        fmt.Sprintf("LO%d", nextID),
			Description:      "Ensure compliance with industry standards and regulations",
			SkillCategory:    "regulatory",
			ProficiencyLevel: LevelAdvanced,
		})
	}

	if len(outcomes) == 0 {
		outcomes = append(outcomes, LearningOutcome{
			OutcomeID:        "LO1",
			Description:      fmt.Sprintf("Master fundamental concepts covered in %s", title),
			SkillCategory:    "technical",
			ProficiencyLevel: LevelBeginner,
		})
	}
	return outcomes
}

var moduleTemplates = []struct {
	title  string
	topics []string
}{
	{"Introduction and Fundamentals", []string{"basics", "overview", "principles"}},
	{"Core Concepts and Theory", []string{"theory", "concepts", "methods"}},
	{"Practical Applications", []string{"applications", "practice", "examples"}},
	{"Advanced Topics", []string{"advanced", "complex", "specialized"}},
	{"Assessment and Review", []string{"assessment", "review", "evaluation"}},
}

func deriveModules(durationHours int, tags []string) []CourseModule {
	if durationHours <= 0 {
		return nil
	}

	var numModules int
	switch {
	case durationHours <= 8:
		numModules = 2
	case durationHours <= 20:
		numModules = 3
	case durationHours <= 40:
		numModules = 4
	default:
		numModules = 5
	}
	moduleDuration := math.Round(float64(durationHours)/float64(numModules)*10) / 10

	modules := make([]CourseModule, 0, numModules)
	for i := 0; i < numModules; i++ {
		template := moduleTemplates[i%len(moduleTemplates)]

		var topics []string
		for _, tag := range tags {
			topics = append(topics, fmt.Sprintf("%s in %s", template.topics[0], tag))
			if len(topics) == 3 {
				break
			}
		}
		if len(topics) == 0 {
			topics = template.topics
		}

		assessments := []string{"Quiz", "Practical Exercise"}
		if i == numModules-1 {
			assessments = append(assessments, "Final Assessment")
		}

		modules = append(modules, CourseModule{
			ModuleNumber:  i + 1,
			Title:         fmt.Sprintf("Module %d: %s", i+1, template.title),
			DurationHours: moduleDuration,
			Topics:        topics,
			Assessments:   assessments,
		})
	}
	return modules
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}

func anyTagContains(tags []string, needles []string) bool {
	for _, tag := range tags {
		if containsAny(strings.ToLower(tag), needles) {
			return true
		}
	}
	return false
}
