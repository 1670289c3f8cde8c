package api

import (
	"github.com/gin-gonic/gin"

	"github.com/larsvdm/fieldtrack/internal/api/handler"
	"github.com/larsvdm/fieldtrack/internal/api/middleware"
	"github.com/larsvdm/fieldtrack/internal/config"
)

// Dependencies bundles everything the router needs. Nil-able fields disable
// their routes.
type Dependencies struct {
	Tracker   handler.ProgressService
	Jobs      handler.JobDebugger
	Snapshots handler.SnapshotReader
	Export    *handler.ExportHandler
}

// SetupRouter configures the Gin router with all routes.
func SetupRouter(cfg *config.ServerConfig, deps Dependencies) *gin.Engine {
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:  cfg.CORS.AllowedOrigins,
		AllowAllOrigins: cfg.CORS.AllowAllOrigins,
	}))

	healthHandler := handler.NewHealthHandler()
	r.GET("/health", healthHandler.Health)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.APIKey(cfg.APIKey))
	{
		progressHandler := handler.NewProgressHandler(deps.Tracker)
		v1.GET("/progress", progressHandler.GetProgress)
		v1.GET("/diagnostics", progressHandler.GetDiagnostics)

		if deps.Jobs != nil {
			jobsHandler := handler.NewJobsHandler(deps.Jobs, deps.Tracker.DefaultWindow())
			v1.GET("/jobs", jobsHandler.ListJobs)
		}

		if deps.Snapshots != nil {
			snapshotsHandler := handler.NewSnapshotsHandler(deps.Snapshots)
			v1.GET("/snapshots", snapshotsHandler.ListSnapshots)
			v1.GET("/snapshots/:id", snapshotsHandler.GetSnapshot)
		}

		if deps.Export != nil {
			v1.GET("/export", deps.Export.Export)
		}
	}

	return r
}
