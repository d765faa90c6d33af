package catalog

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"time"
)

// Skill levels recognized by the catalog. Unknown values are treated as
// intermediate for ordering purposes.
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
	LevelExpert       = "expert"
)

// Delivery modalities.
const (
	ModalityOnline   = "online"
	ModalityHybrid   = "hybrid"
	ModalityInPerson = "in-person"
)

// LevelOrdinal maps a skill level to its fixed rank used for sorting and
// progression: beginner < intermediate < advanced < expert.
func LevelOrdinal(level string) int {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case LevelBeginner:
		return 1
	case LevelIntermediate:
		return 2
	case LevelAdvanced:
		return 3
	case LevelExpert:
		return 4
	default:
		return 2
	}
}

// Instructor is the optional one-to-one instructor sub-record.
type Instructor struct {
	Name            string `json:"name"`
	Credentials     string `json:"credentials,omitempty"`
	ExperienceYears int    `json:"experience_years,omitempty"`
	Bio             string `json:"bio,omitempty"`
}

// Course is a single catalog row. Embedding is nil until generated.
type Course struct {
	CourseID             string      `json:"course_id"`
	Title                string      `json:"title"`
	Provider             string      `json:"provider"`
	Level                string      `json:"level"`
	DurationHours        int         `json:"duration_hours"`
	Modality             string      `json:"modality"`
	Tags                 []string    `json:"tags"`
	Prerequisites        []string    `json:"prerequisites"`
	ValidRegions         []string    `json:"valid_regions"`
	Content              string      `json:"course_content,omitempty"`
	Embedding            []float32   `json:"-"`
	Rating               float64     `json:"course_rating"`
	EnrollmentCount      int         `json:"enrollment_count"`
	CertificationOffered bool        `json:"certification_offered"`
	CertificationBody    string      `json:"certification_body,omitempty"`
	Price                float64     `json:"price,omitempty"`
	Instructor           *Instructor `json:"instructor,omitempty"`
	CreatedAt            time.Time   `json:"created_at,omitempty"`
	UpdatedAt            time.Time   `json:"updated_at,omitempty"`
}

// Validate rejects malformed records at the boundary instead of defaulting
// deep inside scoring logic.
func (c Course) Validate() error {
	if strings.TrimSpace(c.CourseID) == "" {
		return fmt.Errorf("course_id is required")
	}
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if c.DurationHours < 0 {
		return fmt.Errorf("duration_hours must not be negative")
	}
	if c.Rating < 0 || c.Rating > 5 {
		return fmt.Errorf("course_rating must be within [0,5]")
	}
	if c.EnrollmentCount < 0 {
		return fmt.Errorf("enrollment_count must not be negative")
	}
	return nil
}

// EmbeddingText composes the text a course is embedded from, mirroring the
// catalog ingestion format: title | content | Provider: p | Topics: a, b.
func (c Course) EmbeddingText() string {
	parts := []string{c.Title}
	if c.Content != "" {
		parts = append(parts, c.Content)
	}
	if c.Provider != "" {
		parts = append(parts, "Provider: "+c.Provider)
	}
	if len(c.Tags) > 0 {
		parts = append(parts, "Topics: "+strings.Join(c.Tags, ", "))
	}
	return strings.Join(parts, " | ")
}

// EncodeEmbedding serializes a vector as raw little-endian 32-bit floats,
// the on-disk format of the content_embedding column.
func EncodeEmbedding(vec []float32) []byte {
	if len(vec) == 0 {
		return nil
	}
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return buf
}

// DecodeEmbedding parses a raw little-endian float32 blob back into a vector.
func DecodeEmbedding(blob []byte) ([]float32, error) {
	if len(blob) == 0 {
		return nil, nil
	}
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("embedding blob length %d is not a multiple of 4", len(blob))
	}
	vec := make([]float32, len(blob)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[4*i:]))
	}
	return vec, nil
}
