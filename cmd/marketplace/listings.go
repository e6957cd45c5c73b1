package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"farmconnect/pkg/apperr"
	"farmconnect/pkg/auth"
	"farmconnect/pkg/models"
	"farmconnect/pkg/query"
)

// createListing accepts a multipart form: text fields plus optional image
// files. The first uploaded image's URL is stored on the listing. When no
// coordinates are given, the address is geocoded best-effort; a geocoder
// miss never fails the request.
func (s *server) createListing(c *gin.Context) {
	userID := auth.UserID(c)

	listingType := models.ListingType(c.PostForm("type"))
	if listingType != models.ListingEquipment && listingType != models.ListingLand {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be equipment or land"})
		return
	}
	title := c.PostForm("title")
	category := c.PostForm("category")
	location := c.PostForm("location")
	if title == "" || category == "" || location == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title, category and location are required"})
		return
	}

	listing := models.Listing{
		ListingUid:  uuid.NewString(),
		OwnerUid:    userID,
		Type:        listingType,
		Title:       title,
		Description: c.PostForm("description"),
		Category:    category,
		Brand:       c.PostForm("brand"),
		Location:    location,
		Pincode:     c.PostForm("pincode"),
		City:        c.PostForm("city"),
		State:       c.PostForm("state"),
		ImageURL:    c.PostForm("image_url"),
		Condition:   c.PostForm("condition"),
		Available:   true,
	}

	period := models.Period(c.PostForm("period"))
	switch period {
	case models.PeriodHour, models.PeriodDay, models.PeriodWeek, models.PeriodMonth:
		listing.Period = period
	case "":
		listing.Period = models.PeriodDay
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "period must be hour, day, week or month"})
		return
	}

	var parseErr error
	listing.PricePerHour = formFloat(c, "price_per_hour", &parseErr)
	listing.PricePerDay = formFloat(c, "price_per_day", &parseErr)
	listing.PricePerWeek = formFloat(c, "price_per_week", &parseErr)
	listing.PricePerMonth = formFloat(c, "price_per_month", &parseErr)
	listing.Latitude = formFloat(c, "latitude", &parseErr)
	listing.Longitude = formFloat(c, "longitude", &parseErr)
	listing.Area = formFloat(c, "area", &parseErr)
	if parseErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": parseErr.Error()})
		return
	}

	if s.uploader != nil {
		if form, err := c.MultipartForm(); err == nil {
			for _, fh := range form.File["images"] {
				f, err := fh.Open()
				if err != nil {
					continue
				}
				url, err := s.uploader.Upload(c.Request.Context(), f, fh.Filename)
				f.Close()
				if err != nil {
					log.Printf("Image upload failed: %v", err)
					continue
				}
				if listing.ImageURL == "" {
					listing.ImageURL = url
				}
			}
		}
	}

	if listing.Latitude == nil || listing.Longitude == nil {
		if lat, lon, ok := s.geocoder.Geocode(c.Request.Context(), listing.Location, listing.City, listing.State, listing.Pincode); ok {
			listing.Latitude = &lat
			listing.Longitude = &lon
		}
	}

	if err := s.db.Create(&listing).Error; err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, listing)
}

func (s *server) listListings(c *gin.Context) {
	db := s.db.Model(&models.Listing{})

	if q := c.Query("q"); q != "" {
		pattern := "%" + q + "%"
		db = db.Where("LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", pattern, pattern)
	}

	var parseErr error
	db = query.Apply(db,
		query.Eq("type", c.Query("type")),
		query.Like("category", c.Query("category")),
		query.Like("brand", c.Query("brand")),
		query.Eq("condition", c.Query("condition")),
		query.Like("location", c.Query("location")),
		query.Eq("pincode", c.Query("pincode")),
		query.Min("price_per_day", queryFloat(c, "min_price", &parseErr)),
		query.Max("price_per_day", queryFloat(c, "max_price", &parseErr)),
		query.Min("price_per_week", queryFloat(c, "min_weekly_price", &parseErr)),
		query.Max("price_per_week", queryFloat(c, "max_weekly_price", &parseErr)),
	)
	if parseErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": parseErr.Error()})
		return
	}

	if avail := c.Query("available"); avail != "" {
		db = db.Where("available = ?", avail == "true")
	}

	// Approximate radius filter: one degree is ~111 km, close enough for
	// "show me tractors nearby".
	lat := queryFloat(c, "latitude", &parseErr)
	lon := queryFloat(c, "longitude", &parseErr)
	dist := queryFloat(c, "max_distance", &parseErr)
	if parseErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": parseErr.Error()})
		return
	}
	if lat != nil && lon != nil && dist != nil {
		deg := *dist / 111.0
		db = db.Where(
			"latitude IS NOT NULL AND longitude IS NOT NULL AND (latitude - ?) * (latitude - ?) + (longitude - ?) * (longitude - ?) <= ?",
			*lat, *lat, *lon, *lon, deg*deg)
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	var listings []models.Listing
	if err := query.Page(db.Order("created_at DESC"), limit, offset).Find(&listings).Error; err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, listings)
}

func (s *server) getListing(c *gin.Context) {
	var listing models.Listing
	err := s.db.Where("listing_uid = ?", c.Param("id")).First(&listing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.fail(c, fmt.Errorf("listing: %w", apperr.ErrNotFound))
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// listingUpdate is the allow-list of owner-editable fields. Pointer fields
// distinguish "absent" from "set to zero value".
type listingUpdate struct {
	Title         *string  `json:"title"`
	Description   *string  `json:"description"`
	Category      *string  `json:"category"`
	Brand         *string  `json:"brand"`
	PricePerHour  *float64 `json:"price_per_hour"`
	PricePerDay   *float64 `json:"price_per_day"`
	PricePerWeek  *float64 `json:"price_per_week"`
	PricePerMonth *float64 `json:"price_per_month"`
	Period        *string  `json:"period"`
	Location      *string  `json:"location"`
	Pincode       *string  `json:"pincode"`
	City          *string  `json:"city"`
	State         *string  `json:"state"`
	ImageURL      *string  `json:"image_url"`
	Condition     *string  `json:"condition"`
	Area          *float64 `json:"area"`
	Available     *bool    `json:"available"`
}

func (s *server) updateListing(c *gin.Context) {
	userID := auth.UserID(c)

	var listing models.Listing
	err := s.db.Where("listing_uid = ?", c.Param("id")).First(&listing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.fail(c, fmt.Errorf("listing: %w", apperr.ErrNotFound))
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	if listing.OwnerUid != userID {
		s.fail(c, fmt.Errorf("only the owner may edit a listing: %w", apperr.ErrForbidden))
		return
	}

	var upd listingUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	setString := func(col string, v *string) {
		if v != nil {
			updates[col] = *v
		}
	}
	setFloat := func(col string, v *float64) {
		if v != nil {
			updates[col] = *v
		}
	}
	setString("title", upd.Title)
	setString("description", upd.Description)
	setString("category", upd.Category)
	setString("brand", upd.Brand)
	setFloat("price_per_hour", upd.PricePerHour)
	setFloat("price_per_day", upd.PricePerDay)
	setFloat("price_per_week", upd.PricePerWeek)
	setFloat("price_per_month", upd.PricePerMonth)
	setString("location", upd.Location)
	setString("pincode", upd.Pincode)
	setString("city", upd.City)
	setString("state", upd.State)
	setString("image_url", upd.ImageURL)
	setString("condition", upd.Condition)
	setFloat("area", upd.Area)
	if upd.Period != nil {
		p := models.Period(*upd.Period)
		if p != models.PeriodHour && p != models.PeriodDay && p != models.PeriodWeek && p != models.PeriodMonth {
			c.JSON(http.StatusBadRequest, gin.H{"error": "period must be hour, day, week or month"})
			return
		}
		updates["period"] = p
	}
	if upd.Available != nil {
		updates["available"] = *upd.Available
	}

	if len(updates) > 0 {
		if err := s.db.Model(&listing).Updates(updates).Error; err != nil {
			s.fail(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, listing)
}

// formFloat parses an optional float form field, recording the first parse
// failure in errOut.
func formFloat(c *gin.Context, field string, errOut *error) *float64 {
	raw := c.PostForm(field)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		if *errOut == nil {
			*errOut = fmt.Errorf("invalid %s", field)
		}
		return nil
	}
	return &v
}

func queryFloat(c *gin.Context, field string, errOut *error) *float64 {
	raw := c.Query(field)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		if *errOut == nil {
			*errOut = fmt.Errorf("invalid %s", field)
		}
		return nil
	}
	return &v
}
