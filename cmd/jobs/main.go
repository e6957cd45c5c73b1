package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"farmconnect/pkg/apperr"
	"farmconnect/pkg/config"
	"farmconnect/pkg/database"
)

// server bundles the job-board handlers' dependencies.
type server struct {
	db  *gorm.DB
	dev bool
}

func main() {
	cfg := config.Load("jobs")

	s := &server{
		db:  database.InitJobsDB(cfg),
		dev: cfg.Development(),
	}
	r := setupRouter(s)

	log.Println("Jobs service starting on :8070")
	if err := r.Run(":8070"); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func setupRouter(s *server) *gin.Engine {
	r := gin.Default()

	r.GET("/manage/health", s.healthCheck)

	api := r.Group("/api/v1")
	{
		api.POST("/farmers", s.registerFarmer)
		api.GET("/farmers/:id", s.getFarmer)
		api.PUT("/farmers/:id", s.updateFarmer)

		api.POST("/workers", s.registerWorker)
		api.GET("/workers", s.listWorkers)
		api.GET("/workers/:id", s.getWorker)
		api.PUT("/workers/:id", s.updateWorker)

		api.POST("/jobs", s.postJob)
		api.GET("/jobs", s.listOpenJobs)
		api.GET("/jobs/farmer/:farmerId", s.listFarmerJobs)
		api.DELETE("/jobs/:id", s.deleteJob)

		api.POST("/collaborations/requests", s.createRequest)
		api.POST("/collaborations/applications", s.createApplication)
		api.PUT("/collaborations/:id/status", s.updateCollaborationStatus)
		api.PUT("/collaborations/:id/end", s.endCollaboration)

		api.GET("/collaborations/farmers/:id/sent", s.farmerSent)
		api.GET("/collaborations/farmers/:id/received", s.farmerReceived)
		api.GET("/collaborations/workers/:id/sent", s.workerSent)
		api.GET("/collaborations/workers/:id/received", s.workerReceived)
		api.GET("/collaborations/active/:userId", s.activeCollaborations)

		api.POST("/feedback", s.createFeedback)
		api.GET("/feedback/:collaborationId", s.listFeedback)

		api.GET("/dashboard/:userId", s.dashboard)
	}

	return r
}

func (s *server) healthCheck(c *gin.Context) {
	sqlDB, err := s.db.DB()
	if err != nil || sqlDB.Ping() != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *server) fail(c *gin.Context, err error) {
	status := apperr.Status(err)
	if status == http.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		if !s.dev {
			c.JSON(status, gin.H{"error": "internal server error"})
			return
		}
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
