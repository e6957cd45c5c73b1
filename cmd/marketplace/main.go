package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"farmconnect/pkg/apperr"
	"farmconnect/pkg/auth"
	"farmconnect/pkg/config"
	"farmconnect/pkg/database"
	"farmconnect/pkg/geo"
	"farmconnect/pkg/storage"
)

// server bundles the marketplace handlers' dependencies. Handlers are
// methods, so tests can construct one around an in-memory database and stub
// collaborators.
type server struct {
	db       *gorm.DB
	uploader storage.Uploader
	geocoder geo.Geocoder
	dev      bool
}

func main() {
	cfg := config.Load("marketplace")

	s := &server{
		db:       database.InitMarketplaceDB(cfg),
		geocoder: geo.NewNominatim(),
		dev:      cfg.Development(),
	}

	uploader, err := storage.NewCloudinaryUploader(cfg.Cloudinary)
	if err != nil {
		log.Printf("Image uploads disabled: %v", err)
	} else {
		s.uploader = uploader
	}

	r := setupRouter(s, auth.NewJWTService(cfg.JWTSecret))

	log.Println("Marketplace service starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func setupRouter(s *server, jwtService *auth.JWTService) *gin.Engine {
	r := gin.Default()

	r.GET("/manage/health", s.healthCheck)

	api := r.Group("/api/v1")
	api.Use(auth.Middleware(jwtService))
	{
		api.GET("/profiles/:userId", s.getProfile)
		api.PUT("/profiles/:userId", s.updateProfile)

		api.POST("/listings", s.createListing)
		api.GET("/listings", s.listListings)
		api.GET("/listings/:id", s.getListing)
		api.PUT("/listings/:id", s.updateListing)

		api.POST("/bookings", s.createBooking)
		api.GET("/bookings", s.listBookings)
		api.PATCH("/bookings/:id/status", s.updateBookingStatus)

		api.POST("/messages", s.sendMessage)
		api.GET("/messages/:listingId", s.listMessages)

		api.POST("/favorites/:listingId", s.addFavorite)
		api.DELETE("/favorites/:listingId", s.removeFavorite)

		api.POST("/reviews/:listingId", s.createReview)
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

// fail translates a sentinel error to its status code. Unrecognized errors
// are logged and answered with a generic body unless the service runs in
// development mode.
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
