package server

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"courses-backend/internal/catalog"
	"courses-backend/internal/config"
	"courses-backend/internal/embedding"
	embedwx "courses-backend/internal/embedding/watsonx"
	"courses-backend/internal/pipeline"
	"courses-backend/internal/recommend"
	"courses-backend/internal/search"
	"courses-backend/internal/services/health"
	"courses-backend/internal/shared/metrics"
	"courses-backend/internal/shared/server/middleware"
	"courses-backend/internal/shared/server/respond"
	"courses-backend/internal/shared/storage/db"
	"courses-backend/internal/textgen"
	textgenwx "courses-backend/internal/textgen/watsonx"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				"RECOMMEND": {Rate: 2, Burst: 10},
			},
			GroupFor: func(c *gin.Context) string {
				if c.Request.Method == http.MethodPost && c.FullPath() == "/api/v1/recommendations" {
					return "RECOMMEND"
				}
				return ""
			},
		}),
	)

	// Dependencies
	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		dbConn, err := db.Connect(context.Background(), cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			log.Printf("failed to connect database, falling back to memory: %v", err)
		} else {
			if err := db.RunMigrations(context.Background(), dbConn); err != nil {
				log.Printf("failed to run migrations, falling back to memory: %v", err)
				dbConn = nil
			}
		}
		sqlDB = dbConn
	}

	var courseRepo catalog.Repo
	if sqlDB != nil {
		courseRepo = &catalog.PGRepo{DB: sqlDB}
	} else {
		courseRepo = catalog.NewMemoryRepo()
	}

	var embedder embedding.Service
	embedClient, err := embedwx.NewClient(embedwx.Config{
		APIKey:      cfg.WatsonxAPIKey,
		ProjectID:   cfg.WatsonxProjectID,
		Model:       cfg.EmbeddingModel,
		BaseURL:     cfg.WatsonxURL,
		IAMTokenURL: cfg.IAMTokenURL,
	})
	if err != nil {
		log.Printf("embeddings unavailable: %v", err)
		embedder = embedding.Misconfigured{Err: err}
	} else {
		embedder = embedClient
	}

	var generator textgen.Client
	genClient, err := textgenwx.NewClient(textgenwx.Config{
		APIKey:      cfg.WatsonxAPIKey,
		ProjectID:   cfg.WatsonxProjectID,
		Model:       cfg.TextGenModel,
		BaseURL:     cfg.WatsonxURL,
		IAMTokenURL: cfg.IAMTokenURL,
	})
	if err != nil {
		log.Printf("text generation unavailable: %v", err)
		generator = textgen.Misconfigured{Err: err}
	} else {
		generator = genClient
	}

	retriever := &search.Retriever{Repo: courseRepo, Embedder: embedder}
	gapAnalyzer := &recommend.GapAnalyzer{Repo: courseRepo}
	pipelineSvc := &pipeline.Service{
		Retriever:      retriever,
		Gaps:           gapAnalyzer,
		TextGen:        generator,
		RetrievalLimit: cfg.RetrievalLimit,
	}

	healthSvc := health.NewService(sqlDB)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, healthSvc.Status(c.Request.Context()))
	})
	pipeline.NewHandler(pipelineSvc).RegisterRoutes(api)
	catalog.NewHandler(courseRepo).RegisterRoutes(api)
	search.NewHandler(retriever, courseRepo).RegisterRoutes(api)

	r.GET("/metrics", metrics.Handler())

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
