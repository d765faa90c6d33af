package catalog

import (
	"testing"
)

func TestLevelOrdinal(t *testing.T) {
	cases := []struct {
		level string
		want  int
	}{
		{"beginner", 1},
		{"Intermediate", 2},
		{" advanced ", 3},
		{"EXPERT", 4},
		{"", 2},
		{"unheard-of", 2},
	}
	for _, tc := range cases {
		if got := LevelOrdinal(tc.level); got != tc.want {
			t.Fatalf("LevelOrdinal(%q) = %d, want %d", tc.level, got, tc.want)
		}
	}
}

func TestCourseValidate(t *testing.T) {
	valid := Course{CourseID: "c1", Title: "Go Basics", Rating: 4.2}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid course rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Course)
	}{
		{"missing id", func(c *Course) { c.CourseID = " " }},
		{"missing title", func(c *Course) { c.Title = "" }},
		{"negative duration", func(c *Course) { c.DurationHours = -1 }},
		{"rating too high", func(c *Course) { c.Rating = 5.5 }},
		{"negative enrollment", func(c *Course) { c.EnrollmentCount = -3 }},
	}
	for _, tc := range cases {
		course := valid
		tc.mutate(&course)
		if err := course.Validate(); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestEmbeddingText(t *testing.T) {
	course := Course{
		Title:    "Go Basics",
		Content:  "Learn the Go language",
		Provider: "Tech Academy",
		Tags:     []string{"go", "programming"},
	}
	want := "Go Basics | Learn the Go language | Provider: Tech Academy | Topics: go, programming"
	if got := course.EmbeddingText(); got != want {
		t.Fatalf("EmbeddingText() = %q, want %q", got, want)
	}

	minimal := Course{Title: "Go Basics"}
	if got := minimal.EmbeddingText(); got != "Go Basics" {
		t.Fatalf("EmbeddingText() = %q", got)
	}
}

func TestEmbeddingCodecRoundTrip(t *testing.T) {
	vec := []float32{0.25, -1.5, 3.75, 0}

	blob := EncodeEmbedding(vec)
	if len(blob) != 16 {
		t.Fatalf("blob length = %d, want 16", len(blob))
	}

	decoded, err := DecodeEmbedding(blob)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded) != len(vec) {
		t.Fatalf("decoded length = %d", len(decoded))
	}
	for i := range vec {
		if decoded[i] != vec[i] {
			t.Fatalf("decoded[%d] = %v, want %v", i, decoded[i], vec[i])
		}
	}
}

func TestEmbeddingCodecEmpty(t *testing.T) {
	if got := EncodeEmbedding(nil); got != nil {
		t.Fatalf("EncodeEmbedding(nil) = %v", got)
	}
	decoded, err := DecodeEmbedding(nil)
	if err != nil || decoded != nil {
		t.Fatalf("DecodeEmbedding(nil) = %v, %v", decoded, err)
	}
}

func TestDecodeEmbeddingRejectsBadLength(t *testing.T) {
	if _, err := DecodeEmbedding([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for odd-length blob")
	}
}
