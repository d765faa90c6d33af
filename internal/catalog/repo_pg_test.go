package catalog

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var courseRowColumns = []string{
	"course_id", "title", "provider", "level", "duration_hours", "modality",
	"tags", "prerequisites", "valid_regions", "course_content", "content_embedding",
	"course_rating", "enrollment_count", "certification_offered", "certification_body", "price",
	"instructor_name", "instructor_credentials", "instructor_experience", "instructor_bio",
	"created_at", "updated_at",
}

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func fullCourseRows(courseID string, embedding []byte) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(courseRowColumns).AddRow(
		courseID, "Go Basics", "Tech Academy", "beginner", 20, "online",
		[]byte(`["go","programming"]`), []byte(`[]`), []byte(`["US","EU"]`), "Learn Go", embedding,
		4.5, 1500, true, "Cert Body", 99.0,
		"Jane Doe", "PhD", 12, "Teaches Go",
		now, now,
	)
}

func TestPGRepoGetScansFullRow(t *testing.T) {
	repo, mock := newMockRepo(t)

	embedding := EncodeEmbedding([]float32{0.1, 0.2})
	mock.ExpectQuery("SELECT (.+) FROM course_catalog WHERE course_id = ").
		WithArgs("c1").
		WillReturnRows(fullCourseRows("c1", embedding))

	got, err := repo.Get(context.Background(), "c1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "Go Basics" || got.Provider != "Tech Academy" {
		t.Fatalf("course = %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "go" {
		t.Fatalf("tags = %v", got.Tags)
	}
	if len(got.Embedding) != 2 {
		t.Fatalf("embedding = %v", got.Embedding)
	}
	if got.Instructor == nil || got.Instructor.Name != "Jane Doe" || got.Instructor.ExperienceYears != 12 {
		t.Fatalf("instructor = %+v", got.Instructor)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM course_catalog WHERE course_id = ").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPGRepoInsertUpsert(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("INSERT INTO course_catalog").
		WithArgs(
			"c1", "Go Basics", "Tech Academy", "beginner", 20, "online",
			[]byte(`["go"]`), []byte(`[]`), []byte(`[]`),
			sqlmock.AnyArg(), // course_content
			4.5, 1500, true,
			sqlmock.AnyArg(), // certification_body
			sqlmock.AnyArg(), // price
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	course := Course{
		CourseID:             "c1",
		Title:                "Go Basics",
		Provider:             "Tech Academy",
		Level:                "Beginner",
		DurationHours:        20,
		Modality:             "Online",
		Tags:                 []string{"go"},
		Rating:               4.5,
		EnrollmentCount:      1500,
		CertificationOffered: true,
	}
	if err := repo.Insert(context.Background(), course); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoInsertRejectsInvalid(t *testing.T) {
	repo, _ := newMockRepo(t)

	if err := repo.Insert(context.Background(), Course{CourseID: "c1"}); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestPGRepoUpdateEmbedding(t *testing.T) {
	repo, mock := newMockRepo(t)

	vec := []float32{0.5, 0.5}
	mock.ExpectExec("UPDATE course_catalog").
		WithArgs(EncodeEmbedding(vec), "c1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateEmbedding(context.Background(), "c1", vec); err != nil {
		t.Fatalf("UpdateEmbedding: %v", err)
	}
}

func TestPGRepoUpdateEmbeddingNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE course_catalog").
		WithArgs(sqlmock.AnyArg(), "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.UpdateEmbedding(context.Background(), "missing", []float32{1}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPGRepoFindBridgeCourse(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT title FROM course_catalog").
		WithArgs("%statistics%").
		WillReturnRows(sqlmock.NewRows([]string{"title"}).AddRow("Statistics Fundamentals"))

	title, err := repo.FindBridgeCourse(context.Background(), "statistics")
	if err != nil {
		t.Fatalf("FindBridgeCourse: %v", err)
	}
	if title != "Statistics Fundamentals" {
		t.Fatalf("title = %q", title)
	}
}

func TestPGRepoFindBridgeCourseNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT title FROM course_catalog").
		WithArgs("%welding%").
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.FindBridgeCourse(context.Background(), "welding"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPGRepoFindAlternatives(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT course_id FROM course_catalog").
		WithArgs("target", "%python%", 3).
		WillReturnRows(sqlmock.NewRows([]string{"course_id"}).AddRow("alt1").AddRow("alt2"))

	got, err := repo.FindAlternatives(context.Background(), "target", "python", 3)
	if err != nil {
		t.Fatalf("FindAlternatives: %v", err)
	}
	if len(got) != 2 || got[0] != "alt1" {
		t.Fatalf("alternatives = %v", got)
	}
}

func TestPGRepoListEmbedded(t *testing.T) {
	repo, mock := newMockRepo(t)

	embedding := EncodeEmbedding([]float32{0.3})
	mock.ExpectQuery("SELECT (.+) FROM course_catalog WHERE content_embedding IS NOT NULL").
		WillReturnRows(fullCourseRows("c1", embedding))

	got, err := repo.ListEmbedded(context.Background())
	if err != nil {
		t.Fatalf("ListEmbedded: %v", err)
	}
	if len(got) != 1 || len(got[0].Embedding) != 1 {
		t.Fatalf("courses = %+v", got)
	}
}

func TestPGRepoStats(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM course_catalog$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM course_catalog WHERE content_embedding IS NOT NULL`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery("SELECT level, COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"level", "count"}).AddRow("beginner", 2).AddRow(nil, 3))
	mock.ExpectQuery("SELECT modality, COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"modality", "count"}).AddRow("online", 5))
	mock.ExpectQuery("SELECT provider, COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"provider", "count"}).AddRow("Tech Academy", 5))
	mock.ExpectQuery("SELECT AVG").
		WillReturnRows(sqlmock.NewRows([]string{"avg", "min", "max"}).AddRow(20.0, 10.0, 30.0))

	stats, err := repo.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalCourses != 5 || stats.CoursesWithEmbeddings != 3 {
		t.Fatalf("counts = %d/%d", stats.TotalCourses, stats.CoursesWithEmbeddings)
	}
	if stats.LevelDistribution["unknown"] != 3 {
		t.Fatalf("levels = %v", stats.LevelDistribution)
	}
	if stats.DurationStats["average"] != 20 {
		t.Fatalf("durations = %v", stats.DurationStats)
	}
}
