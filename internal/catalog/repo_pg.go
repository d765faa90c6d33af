package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const courseColumns = `course_id, title, provider, level, duration_hours, modality,
       tags, prerequisites, valid_regions, course_content, content_embedding,
       course_rating, enrollment_count, certification_offered, certification_body, price,
       instructor_name, instructor_credentials, instructor_experience, instructor_bio,
       created_at, updated_at`

// Insert upserts a course row. The embedding column is left untouched so a
// catalog refresh does not wipe previously computed vectors.
func (r *PGRepo) Insert(ctx context.Context, course Course) error {
	if err := course.Validate(); err != nil {
		return fmt.Errorf("invalid course: %w", err)
	}
	const query = `
INSERT INTO course_catalog (
    course_id, title, provider, level, duration_hours, modality,
    tags, prerequisites, valid_regions, course_content,
    course_rating, enrollment_count, certification_offered, certification_body, price,
    instructor_name, instructor_credentials, instructor_experience, instructor_bio
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
ON CONFLICT (course_id) DO UPDATE SET
    title = EXCLUDED.title,
    provider = EXCLUDED.provider,
    level = EXCLUDED.level,
    duration_hours = EXCLUDED.duration_hours,
    modality = EXCLUDED.modality,
    tags = EXCLUDED.tags,
    prerequisites = EXCLUDED.prerequisites,
    valid_regions = EXCLUDED.valid_regions,
    course_content = EXCLUDED.course_content,
    course_rating = EXCLUDED.course_rating,
    enrollment_count = EXCLUDED.enrollment_count,
    certification_offered = EXCLUDED.certification_offered,
    certification_body = EXCLUDED.certification_body,
    price = EXCLUDED.price,
    instructor_name = EXCLUDED.instructor_name,
    instructor_credentials = EXCLUDED.instructor_credentials,
    instructor_experience = EXCLUDED.instructor_experience,
    instructor_bio = EXCLUDED.instructor_bio,
    updated_at = NOW()`

	tags, err := marshalList(course.Tags)
	if err != nil {
		return err
	}
	prereqs, err := marshalList(course.Prerequisites)
	if err != nil {
		return err
	}
	regions, err := marshalList(course.ValidRegions)
	if err != nil {
		return err
	}

	var instructorName, instructorCredentials, instructorBio sql.NullString
	var instructorExperience sql.NullInt64
	if course.Instructor != nil {
		instructorName = sql.NullString{String: course.Instructor.Name, Valid: true}
		if course.Instructor.Credentials != "" {
			instructorCredentials = sql.NullString{String: course.Instructor.Credentials, Valid: true}
		}
		if course.Instructor.ExperienceYears > 0 {
			instructorExperience = sql.NullInt64{Int64: int64(course.Instructor.ExperienceYears), Valid: true}
		}
		if course.Instructor.Bio != "" {
			instructorBio = sql.NullString{String: course.Instructor.Bio, Valid: true}
		}
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		course.CourseID,
		course.Title,
		course.Provider,
		strings.ToLower(course.Level),
		course.DurationHours,
		strings.ToLower(course.Modality),
		tags,
		prereqs,
		regions,
		nullString(course.Content),
		course.Rating,
		course.EnrollmentCount,
		course.CertificationOffered,
		nullString(course.CertificationBody),
		nullFloat(course.Price),
		instructorName,
		instructorCredentials,
		instructorExperience,
		instructorBio,
	)
	return err
}

// Get returns a single course by ID.
func (r *PGRepo) Get(ctx context.Context, courseID string) (Course, error) {
	query := `SELECT ` + courseColumns + ` FROM course_catalog WHERE course_id = $1`
	row := r.DB.QueryRowContext(ctx, query, courseID)
	course, err := scanCourse(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Course{}, ErrNotFound
		}
		return Course{}, err
	}
	return course, nil
}

// GetMany returns the courses for the given IDs ordered by course_id.
func (r *PGRepo) GetMany(ctx context.Context, courseIDs []string) ([]Course, error) {
	if len(courseIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(courseIDs))
	args := make([]any, len(courseIDs))
	for i, id := range courseIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := `SELECT ` + courseColumns + ` FROM course_catalog WHERE course_id IN (` +
		strings.Join(placeholders, ",") + `) ORDER BY course_id`
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCourses(rows)
}

// ListEmbedded returns every course with a stored embedding.
func (r *PGRepo) ListEmbedded(ctx context.Context) ([]Course, error) {
	query := `SELECT ` + courseColumns + ` FROM course_catalog WHERE content_embedding IS NOT NULL`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCourses(rows)
}

// ListMissingEmbedding returns courses awaiting embedding generation.
func (r *PGRepo) ListMissingEmbedding(ctx context.Context) ([]Course, error) {
	query := `SELECT ` + courseColumns + ` FROM course_catalog WHERE content_embedding IS NULL`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCourses(rows)
}

// UpdateEmbedding stores a freshly computed embedding.
func (r *PGRepo) UpdateEmbedding(ctx context.Context, courseID string, embedding []float32) error {
	const query = `
UPDATE course_catalog
SET content_embedding = $1, updated_at = NOW()
WHERE course_id = $2`
	res, err := r.DB.ExecContext(ctx, query, EncodeEmbedding(embedding), courseID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// FindBridgeCourse returns the title of a beginner course matching the gap term.
func (r *PGRepo) FindBridgeCourse(ctx context.Context, gapTerm string) (string, error) {
	const query = `
SELECT title FROM course_catalog
WHERE level = 'beginner'
  AND (title ILIKE $1 OR tags::text ILIKE $1)
LIMIT 1`
	var title string
	err := r.DB.QueryRowContext(ctx, query, "%"+gapTerm+"%").Scan(&title)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return title, nil
}

// FindAlternatives returns course IDs sharing a tag with the excluded course.
func (r *PGRepo) FindAlternatives(ctx context.Context, excludeID, tag string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 3
	}
	const query = `
SELECT course_id FROM course_catalog
WHERE course_id != $1 AND tags::text ILIKE $2
LIMIT $3`
	rows, err := r.DB.QueryContext(ctx, query, excludeID, "%"+tag+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SearchByKeywords matches title, content or tags against the keywords.
func (r *PGRepo) SearchByKeywords(ctx context.Context, keywords []string, limit int) ([]Course, error) {
	if len(keywords) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}
	conditions := make([]string, 0, len(keywords))
	args := make([]any, 0, len(keywords)+1)
	for i, keyword := range keywords {
		conditions = append(conditions, fmt.Sprintf(
			"(title ILIKE $%d OR course_content ILIKE $%d OR tags::text ILIKE $%d)", i+1, i+1, i+1))
		args = append(args, "%"+keyword+"%")
	}
	query := `SELECT ` + courseColumns + ` FROM course_catalog WHERE ` +
		strings.Join(conditions, " OR ") + fmt.Sprintf(" LIMIT $%d", len(keywords)+1)
	args = append(args, limit)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCourses(rows)
}

// Stats returns catalog-wide aggregates.
func (r *PGRepo) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{
		LevelDistribution:    map[string]int{},
		ModalityDistribution: map[string]int{},
		TopProviders:         map[string]int{},
		DurationStats:        map[string]float64{},
	}

	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM course_catalog`).Scan(&stats.TotalCourses); err != nil {
		return Stats{}, err
	}
	if err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM course_catalog WHERE content_embedding IS NOT NULL`,
	).Scan(&stats.CoursesWithEmbeddings); err != nil {
		return Stats{}, err
	}

	if err := r.scanDistribution(ctx,
		`SELECT level, COUNT(*) FROM course_catalog GROUP BY level`, stats.LevelDistribution); err != nil {
		return Stats{}, err
	}
	if err := r.scanDistribution(ctx,
		`SELECT modality, COUNT(*) FROM course_catalog GROUP BY modality`, stats.ModalityDistribution); err != nil {
		return Stats{}, err
	}
	if err := r.scanDistribution(ctx,
		`SELECT provider, COUNT(*) FROM course_catalog GROUP BY provider ORDER BY COUNT(*) DESC LIMIT 10`,
		stats.TopProviders); err != nil {
		return Stats{}, err
	}

	var avg, min, max sql.NullFloat64
	err := r.DB.QueryRowContext(ctx,
		`SELECT AVG(duration_hours), MIN(duration_hours), MAX(duration_hours) FROM course_catalog WHERE duration_hours > 0`,
	).Scan(&avg, &min, &max)
	if err != nil {
		return Stats{}, err
	}
	if avg.Valid {
		stats.DurationStats["average"] = avg.Float64
		stats.DurationStats["minimum"] = min.Float64
		stats.DurationStats["maximum"] = max.Float64
	}
	return stats, nil
}

func (r *PGRepo) scanDistribution(ctx context.Context, query string, dest map[string]int) error {
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var key sql.NullString
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return err
		}
		name := key.String
		if name == "" {
			name = "unknown"
		}
		dest[name] = count
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(row rowScanner) (Course, error) {
	var course Course
	var provider, level, modality sql.NullString
	var tags, prereqs, regions []byte
	var content, certBody sql.NullString
	var embedding []byte
	var rating, price sql.NullFloat64
	var enrollment sql.NullInt64
	var certified sql.NullBool
	var instructorName, instructorCredentials, instructorBio sql.NullString
	var instructorExperience sql.NullInt64
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&course.CourseID,
		&course.Title,
		&provider,
		&level,
		&course.DurationHours,
		&modality,
		&tags,
		&prereqs,
		&regions,
		&content,
		&embedding,
		&rating,
		&enrollment,
		&certified,
		&certBody,
		&price,
		&instructorName,
		&instructorCredentials,
		&instructorExperience,
		&instructorBio,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return Course{}, err
	}

	course.Provider = provider.String
	course.Level = level.String
	course.Modality = modality.String
	course.Content = content.String
	course.CertificationBody = certBody.String
	course.Rating = rating.Float64
	course.EnrollmentCount = int(enrollment.Int64)
	course.CertificationOffered = certified.Bool
	course.Price = price.Float64
	if createdAt.Valid {
		course.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		course.UpdatedAt = updatedAt.Time
	}

	if course.Tags, err = unmarshalList(tags); err != nil {
		return Course{}, fmt.Errorf("course %s tags: %w", course.CourseID, err)
	}
	if course.Prerequisites, err = unmarshalList(prereqs); err != nil {
		return Course{}, fmt.Errorf("course %s prerequisites: %w", course.CourseID, err)
	}
	if course.ValidRegions, err = unmarshalList(regions); err != nil {
		return Course{}, fmt.Errorf("course %s valid_regions: %w", course.CourseID, err)
	}
	if course.Embedding, err = DecodeEmbedding(embedding); err != nil {
		return Course{}, fmt.Errorf("course %s embedding: %w", course.CourseID, err)
	}

	if instructorName.Valid && instructorName.String != "" {
		course.Instructor = &Instructor{
			Name:            instructorName.String,
			Credentials:     instructorCredentials.String,
			ExperienceYears: int(instructorExperience.Int64),
			Bio:             instructorBio.String,
		}
	}
	return course, nil
}

func collectCourses(rows *sql.Rows) ([]Course, error) {
	var courses []Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	return courses, rows.Err()
}

func marshalList(items []string) ([]byte, error) {
	if items == nil {
		items = []string{}
	}
	return json.Marshal(items)
}

func unmarshalList(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func nullString(val string) sql.NullString {
	if val == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: val, Valid: true}
}

func nullFloat(val float64) sql.NullFloat64 {
	if val == 0 {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: val, Valid: true}
}
