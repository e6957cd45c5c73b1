package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"farmconnect/pkg/auth"
	"farmconnect/pkg/models"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)

	err = db.AutoMigrate(
		&models.Profile{}, &models.Listing{}, &models.Booking{},
		&models.Message{}, &models.Favorite{}, &models.Review{})
	assert.NoError(t, err)
	return db
}

type stubGeocoder struct {
	lat, lon float64
	ok       bool
}

func (g stubGeocoder) Geocode(_ context.Context, _, _, _, _ string) (float64, float64, bool) {
	return g.lat, g.lon, g.ok
}

type stubUploader struct {
	url string
	err error
}

func (u stubUploader) Upload(_ context.Context, _ io.Reader, _ string) (string, error) {
	return u.url, u.err
}

func newTestServer(t *testing.T) *server {
	return &server{db: setupTestDB(t), geocoder: stubGeocoder{}, dev: true}
}

// jsonContext builds a test context for userID with an optional JSON body.
func jsonContext(t *testing.T, w *httptest.ResponseRecorder, userID, method, target string, body interface{}) *gin.Context {
	c, _ := gin.CreateTestContext(w)

	var buf bytes.Buffer
	if body != nil {
		assert.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	c.Request = httptest.NewRequest(method, target, &buf)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(auth.ContextUserKey, userID)
	return c
}

func floatPtr(v float64) *float64 { return &v }

func seedListing(t *testing.T, db *gorm.DB, listing *models.Listing) {
	if listing.Title == "" {
		listing.Title = "Tractor"
	}
	if listing.Category == "" {
		listing.Category = "tractor"
	}
	if listing.Location == "" {
		listing.Location = "Anand"
	}
	if listing.Type == "" {
		listing.Type = models.ListingEquipment
	}
	if listing.Period == "" {
		listing.Period = models.PeriodDay
	}
	assert.NoError(t, db.Create(listing).Error)
}
