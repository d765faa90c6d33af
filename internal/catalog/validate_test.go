package catalog

import (
	"context"
	"testing"
)

func validationRepo(t *testing.T) *MemoryRepo {
	t.Helper()
	repo := NewMemoryRepo()
	seedCourse(t, repo, Course{
		CourseID:      "ml-advanced",
		Title:         "Advanced Machine Learning",
		Level:         "advanced",
		Tags:          []string{"ml"},
		Prerequisites: []string{"linear algebra", "python"},
		ValidRegions:  []string{"US", "EU"},
	})
	seedCourse(t, repo, Course{
		CourseID: "ml-intro",
		Title:    "Intro to ML",
		Level:    "beginner",
		Tags:     []string{"ml"},
	})
	return repo
}

func TestValidateCompatibilityAllMet(t *testing.T) {
	repo := validationRepo(t)

	got, err := ValidateCompatibility(context.Background(), repo,
		[]string{"ml-advanced"}, "I know linear algebra and Python well", "US", nil)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d validations", len(got))
	}
	v := got[0]
	if !v.PrerequisitesMet || !v.RegionAccessible || !v.IsAvailable {
		t.Fatalf("validation = %+v", v)
	}
	if len(v.AlternativeCourses) != 0 {
		t.Fatalf("alternatives = %v", v.AlternativeCourses)
	}
}

func TestValidateCompatibilityMissingPrerequisites(t *testing.T) {
	repo := validationRepo(t)

	got, err := ValidateCompatibility(context.Background(), repo,
		[]string{"ml-advanced"}, "complete novice", "US", nil)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	v := got[0]
	if v.PrerequisitesMet {
		t.Fatal("prerequisites should not be met")
	}
	if len(v.PrerequisiteGaps) != 2 {
		t.Fatalf("gaps = %v", v.PrerequisiteGaps)
	}
	if len(v.AlternativeCourses) != 1 || v.AlternativeCourses[0] != "ml-intro" {
		t.Fatalf("alternatives = %v", v.AlternativeCourses)
	}
}

func TestValidateCompatibilityPrerequisiteFromCompletedCourse(t *testing.T) {
	repo := validationRepo(t)

	got, err := ValidateCompatibility(context.Background(), repo,
		[]string{"ml-advanced"}, "studied linear algebra", "US", []string{"Python for Everybody"})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !got[0].PrerequisitesMet {
		t.Fatalf("gaps = %v", got[0].PrerequisiteGaps)
	}
}

func TestValidateCompatibilityRegionRestricted(t *testing.T) {
	repo := validationRepo(t)

	got, err := ValidateCompatibility(context.Background(), repo,
		[]string{"ml-advanced"}, "linear algebra and python", "APAC", nil)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got[0].RegionAccessible {
		t.Fatal("region should be restricted")
	}
}

func TestValidateCompatibilityNoRegionListMeansOpen(t *testing.T) {
	repo := validationRepo(t)

	got, err := ValidateCompatibility(context.Background(), repo,
		[]string{"ml-intro"}, "", "APAC", nil)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !got[0].RegionAccessible {
		t.Fatal("course without region list should be open everywhere")
	}
}

func TestValidateCompatibilitySkipsMissingCourses(t *testing.T) {
	repo := validationRepo(t)

	got, err := ValidateCompatibility(context.Background(), repo,
		[]string{"missing", "ml-intro"}, "", "", nil)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(got) != 1 || got[0].CourseID != "ml-intro" {
		t.Fatalf("validations = %+v", got)
	}
}

func TestValidateCompatibilityEmptyInput(t *testing.T) {
	got, err := ValidateCompatibility(context.Background(), NewMemoryRepo(), nil, "", "", nil)
	if err != nil || got != nil {
		t.Fatalf("got %v, %v", got, err)
	}
}
