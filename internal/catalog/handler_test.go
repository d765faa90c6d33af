package catalog

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newCatalogRouter(repo Repo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1")
	NewHandler(repo).RegisterRoutes(api)
	return r
}

func TestGetCourseEndpoint(t *testing.T) {
	repo := NewMemoryRepo()
	seedCourse(t, repo, Course{
		CourseID:      "go-basics",
		Title:         "Go Basics",
		DurationHours: 30,
		Tags:          []string{"programming"},
	})
	router := newCatalogRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/courses/go-basics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d", resp.Code)
	}
	var detail DetailedCourse
	if err := json.Unmarshal(resp.Body.Bytes(), &detail); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if detail.CourseID != "go-basics" {
		t.Fatalf("course = %+v", detail.Course)
	}
	if len(detail.Modules) == 0 || len(detail.LearningOutcomes) == 0 {
		t.Fatalf("derived content missing: %+v", detail)
	}
}

func TestGetCourseEndpointNotFound(t *testing.T) {
	router := newCatalogRouter(NewMemoryRepo())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/courses/missing", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("status = %d", resp.Code)
	}
}

func TestValidateEndpoint(t *testing.T) {
	repo := NewMemoryRepo()
	seedCourse(t, repo, Course{
		CourseID:      "ml-advanced",
		Title:         "Advanced ML",
		Prerequisites: []string{"python"},
	})
	router := newCatalogRouter(repo)

	body := `{"course_ids":["ml-advanced"],"user_background":"python developer"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/courses/validate", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.Code, resp.Body.String())
	}
	var payload struct {
		Validations []Validation `json:"validations"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Validations) != 1 || !payload.Validations[0].PrerequisitesMet {
		t.Fatalf("validations = %+v", payload.Validations)
	}
}

func TestValidateEndpointRequiresCourseIDs(t *testing.T) {
	router := newCatalogRouter(NewMemoryRepo())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/courses/validate", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.Code)
	}
}

func TestCatalogStatsEndpoint(t *testing.T) {
	repo := NewMemoryRepo()
	seedCourse(t, repo, Course{CourseID: "c1", Title: "A", Level: "beginner", DurationHours: 10})
	router := newCatalogRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/stats", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d", resp.Code)
	}
	var stats Stats
	if err := json.Unmarshal(resp.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.TotalCourses != 1 {
		t.Fatalf("stats = %+v", stats)
	}
}
