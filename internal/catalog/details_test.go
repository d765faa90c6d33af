package catalog

import "testing"

func TestDetailFallsBackToTitleDescription(t *testing.T) {
	got := Detail(Course{CourseID: "c1", Title: "Go Basics"})
	if got.FullDescription != "Go Basics" {
		t.Fatalf("description = %q", got.FullDescription)
	}
	if got.Language != "English" {
		t.Fatalf("language = %q", got.Language)
	}
}

func TestDeriveOutcomesByCategory(t *testing.T) {
	got := Detail(Course{
		CourseID: "c1",
		Title:    "Leadership for OSHA Compliance",
		Tags:     []string{"safety automation"},
	})

	categories := map[string]bool{}
	for _, outcome := range got.LearningOutcomes {
		categories[outcome.SkillCategory] = true
	}
	for _, want := range []string{"technical", "soft", "regulatory"} {
		if !categories[want] {
			t.Fatalf("missing %s outcome: %+v", want, got.LearningOutcomes)
		}
	}
}

func TestDeriveOutcomesFallback(t *testing.T) {
	got := Detail(Course{CourseID: "c1", Title: "Watercolor Painting"})
	if len(got.LearningOutcomes) != 1 {
		t.Fatalf("outcomes = %+v", got.LearningOutcomes)
	}
	outcome := got.LearningOutcomes[0]
	if outcome.OutcomeID != "LO1" || outcome.ProficiencyLevel != LevelBeginner {
		t.Fatalf("outcome = %+v", outcome)
	}
}

func TestDeriveModulesByDuration(t *testing.T) {
	cases := []struct {
		hours int
		want  int
	}{
		{0, 0},
		{5, 2},
		{15, 3},
		{30, 4},
		{80, 5},
	}
	for _, tc := range cases {
		got := Detail(Course{CourseID: "c1", Title: "T", DurationHours: tc.hours})
		if len(got.Modules) != tc.want {
			t.Fatalf("hours %d: modules = %d, want %d", tc.hours, len(got.Modules), tc.want)
		}
	}
}

func TestDeriveModulesFinalAssessment(t *testing.T) {
	got := Detail(Course{CourseID: "c1", Title: "T", DurationHours: 30, Tags: []string{"go"}})
	last := got.Modules[len(got.Modules)-1]
	found := false
	for _, assessment := range last.Assessments {
		if assessment == "Final Assessment" {
			found = true
		}
	}
	if !found {
		t.Fatalf("last module assessments = %v", last.Assessments)
	}
	if got.Modules[0].Topics[0] != "basics in go" {
		t.Fatalf("topics = %v", got.Modules[0].Topics)
	}
}
