package catalog

import (
	"context"
	"strings"
)

// Validation reports whether a course is compatible with a user's
// background, region and completed courses.
type Validation struct {
	CourseID           string   `json:"course_id"`
	IsAvailable        bool     `json:"is_available"`
	PrerequisitesMet   bool     `json:"prerequisites_met"`
	RegionAccessible   bool     `json:"region_accessible"`
	PrerequisiteGaps   []string `json:"prerequisite_gaps"`
	AlternativeCourses []string `json:"alternative_courses"`
}

// ValidateCompatibility checks each requested course against the user's
// background, region and completed courses, suggesting alternatives for
// incompatible ones. Prerequisite matching is the same case-insensitive
// substring test the gap analyzer uses.
func ValidateCompatibility(ctx context.Context, repo Repo, courseIDs []string, userBackground, userRegion string, completedCourses []string) ([]Validation, error) {
	if len(courseIDs) == 0 {
		return nil, nil
	}

	courses, err := repo.GetMany(ctx, courseIDs)
	if err != nil {
		return nil, err
	}

	background := strings.ToLower(userBackground)
	region := strings.ToLower(userRegion)

	validations := make([]Validation, 0, len(courses))
	for _, course := range courses {
		validation := Validation{
			CourseID:         course.CourseID,
			IsAvailable:      true,
			PrerequisitesMet: true,
			RegionAccessible: true,
		}

		if region != "" && len(course.ValidRegions) > 0 {
			validation.RegionAccessible = false
			for _, valid := range course.ValidRegions {
				validLower := strings.ToLower(valid)
				if strings.Contains(validLower, region) || strings.Contains(region, validLower) {
					validation.RegionAccessible = true
					break
				}
			}
		}

		for _, prereq := range course.Prerequisites {
			if prerequisiteMet(prereq, background, completedCourses) {
				continue
			}
			validation.PrerequisitesMet = false
			validation.PrerequisiteGaps = append(validation.PrerequisiteGaps, prereq)
		}

		if !validation.RegionAccessible || !validation.PrerequisitesMet {
			if len(course.Tags) > 0 {
				alternatives, err := repo.FindAlternatives(ctx, course.CourseID, course.Tags[0], 3)
				if err == nil {
					validation.AlternativeCourses = alternatives
				}
			}
		}

		validations = append(validations, validation)
	}
	return validations, nil
}

func prerequisiteMet(prereq, backgroundLower string, completedCourses []string) bool {
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
