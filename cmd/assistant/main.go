package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"farmconnect/pkg/ai"
	"farmconnect/pkg/apperr"
	"farmconnect/pkg/config"
	"farmconnect/pkg/database"
	"farmconnect/pkg/mandi"
	"farmconnect/pkg/weather"
)

// server bundles the assistant handlers' dependencies. The AI, weather and
// mandi collaborators sit behind interfaces so tests can stub them.
type server struct {
	db      *gorm.DB
	ai      ai.Client
	weather weather.Client
	mandi   mandi.Client
	dev     bool
}

func main() {
	cfg := config.Load("assistant")

	s := &server{
		db:      database.InitAssistantDB(cfg),
		weather: weather.NewOpenWeather(cfg.WeatherAPIKey, cfg.WeatherAPIURL),
		mandi:   mandi.NewAgmarknet(cfg.DataGovAPIKey, cfg.MandiAPIURL),
		dev:     cfg.Development(),
	}

	gemini, err := ai.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Printf("Chat disabled: %v", err)
	} else {
		s.ai = gemini
	}

	seedContent(s.db)

	r := setupRouter(s)

	log.Println("Assistant service starting on :8060")
	if err := r.Run(":8060"); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func setupRouter(s *server) *gin.Engine {
	r := gin.Default()

	r.GET("/manage/health", s.healthCheck)

	api := r.Group("/api/v1")
	{
		api.POST("/chat", s.chat)
		api.POST("/conversations", s.createConversation)
		api.GET("/conversations", s.listConversations)
		api.GET("/conversations/:id", s.getConversation)
		api.DELETE("/conversations/:id", s.deleteConversation)

		api.GET("/weather/current", s.currentWeather)
		api.GET("/weather/forecast", s.weatherForecast)
		api.GET("/weather/alerts", s.weatherAlerts)

		api.GET("/mandi", s.mandiPrices)

		api.GET("/schemes", s.listSchemes)
		api.GET("/schemes/:id", s.getScheme)
		api.POST("/schemes", s.createScheme)
		api.PATCH("/schemes/:id", s.updateScheme)
		api.DELETE("/schemes/:id", s.deleteScheme)

		api.GET("/tips", s.listTips)
		api.GET("/tips/:id", s.getTip)
		api.POST("/tips", s.createTip)
		api.PATCH("/tips/:id", s.updateTip)
		api.DELETE("/tips/:id", s.deleteTip)
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
