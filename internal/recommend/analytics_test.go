package recommend

import (
	"math"
	"testing"

	"courses-backend/internal/catalog"
	"courses-backend/internal/search"
)

func TestSummarizeEmpty(t *testing.T) {
	got := Summarize(nil)
	if got.TotalCoursesAnalyzed != 0 {
		t.Fatalf("total = %d", got.TotalCoursesAnalyzed)
	}
	if got.AverageSimilarityScore != 0 {
		t.Fatalf("average = %v", got.AverageSimilarityScore)
	}
	if len(got.SkillLevelDistribution) != 0 || len(got.ModalityDistribution) != 0 {
		t.Fatalf("distributions not empty: %v %v", got.SkillLevelDistribution, got.ModalityDistribution)
	}
}

func TestSummarizeDistributions(t *testing.T) {
	input := []search.Result{
		{Course: catalog.Course{Level: "Beginner", Modality: "Online", DurationHours: 10, Tags: []string{"Python"}}, SimilarityScore: 0.8},
		{Course: catalog.Course{Level: "beginner", Modality: "hybrid", DurationHours: 30, Tags: []string{"python", "data"}}, SimilarityScore: 0.6},
		{Course: catalog.Course{Level: "advanced", Modality: "", DurationHours: 0, Tags: []string{"data"}}, SimilarityScore: 0.4},
	}

	got := Summarize(input)
	if got.TotalCoursesAnalyzed != 3 {
		t.Fatalf("total = %d", got.TotalCoursesAnalyzed)
	}
	if math.Abs(got.AverageSimilarityScore-0.6) > 1e-9 {
		t.Fatalf("average = %v, want 0.6", got.AverageSimilarityScore)
	}
	if got.SkillLevelDistribution["beginner"] != 2 || got.SkillLevelDistribution["advanced"] != 1 {
		t.Fatalf("levels = %v", got.SkillLevelDistribution)
	}
	if got.ModalityDistribution["unknown"] != 1 {
		t.Fatalf("modalities = %v", got.ModalityDistribution)
	}
	if got.DurationStatistics["min"] != 10 || got.DurationStatistics["max"] != 30 || got.DurationStatistics["mean"] != 20 {
		t.Fatalf("durations = %v", got.DurationStatistics)
	}
}

func TestSummarizeTopTagsOrdering(t *testing.T) {
	input := []search.Result{
		{Course: catalog.Course{Tags: []string{"python", "data"}}},
		{Course: catalog.Course{Tags: []string{"data", "ml"}}},
		{Course: catalog.Course{Tags: []string{"ml"}}},
	}

	got := Summarize(input)
	if len(got.TopTags) != 3 {
		t.Fatalf("top tags = %v", got.TopTags)
	}
	// data and ml both count 2; data appeared first.
	if got.TopTags[0].Tag != "data" || got.TopTags[0].Count != 2 {
		t.Fatalf("top tag = %+v", got.TopTags[0])
	}
	if got.TopTags[1].Tag != "ml" || got.TopTags[2].Tag != "python" {
		t.Fatalf("tag order = %v", got.TopTags)
	}
}

func TestSummarizeTopTagsCapped(t *testing.T) {
	tags := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"}
	input := []search.Result{{Course: catalog.Course{Tags: tags}}}

	got := Summarize(input)
	if len(got.TopTags) != topTagLimit {
		t.Fatalf("top tags = %d, want %d", len(got.TopTags), topTagLimit)
	}
}
