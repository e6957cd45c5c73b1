package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"farmconnect/pkg/apperr"
	"farmconnect/pkg/auth"
	"farmconnect/pkg/models"
	"farmconnect/pkg/query"
)

const dateLayout = "2006-01-02"

// rentalDays is the chargeable length of a booking: whole days between the
// dates, with same-day and inverted ranges charged as one day.
func rentalDays(start, end time.Time) int {
	days := int(end.Sub(start).Hours() / 24)
	if days <= 0 {
		return 1
	}
	return days
}

// dailyRate converts the listing's quoted rate to a per-day figure: weekly/7,
// monthly/30, hourly*24, or the per-day rate as-is. A listing whose quoted
// rate is unset falls back to the per-day rate, and to 0 when that is unset
// too.
func dailyRate(l *models.Listing) float64 {
	switch l.Period {
	case models.PeriodWeek:
		if l.PricePerWeek != nil {
			return *l.PricePerWeek / 7
		}
	case models.PeriodMonth:
		if l.PricePerMonth != nil {
			return *l.PricePerMonth / 30
		}
	case models.PeriodHour:
		if l.PricePerHour != nil {
			return *l.PricePerHour * 24
		}
	}
	if l.PricePerDay != nil {
		return *l.PricePerDay
	}
	return 0
}

func bookingTotal(l *models.Listing, start, end time.Time) float64 {
	return dailyRate(l) * float64(rentalDays(start, end))
}

type bookingRequest struct {
	ListingUid string `json:"listing_id" binding:"required"`
	StartDate  string `json:"start_date" binding:"required"`
	EndDate    string `json:"end_date" binding:"required"`
}

// createBooking books a listing for a date range. The insert and the
// availability flip run in one transaction; the conditional
// "available = true" update closes the race where two renters grab the same
// listing at once — the loser's transaction rolls back and nothing persists.
func (s *server) createBooking(c *gin.Context) {
	userID := auth.UserID(c)

	var req bookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must be YYYY-MM-DD"})
		return
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must be YYYY-MM-DD"})
		return
	}

	var booking models.Booking
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		var listing models.Listing
		err := tx.Where("listing_uid = ?", req.ListingUid).First(&listing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("listing: %w", apperr.ErrNotAvailable)
		}
		if err != nil {
			return err
		}
		if !listing.Available {
			return fmt.Errorf("listing: %w", apperr.ErrNotAvailable)
		}

		booking = models.Booking{
			BookingUid: uuid.NewString(),
			ListingUid: listing.ListingUid,
			RenterUid:  userID,
			OwnerUid:   listing.OwnerUid,
			StartDate:  start,
			EndDate:    end,
			TotalPrice: bookingTotal(&listing, start, end),
			Status:     models.BookingPending,
		}
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}

		res := tx.Model(&models.Listing{}).
			Where("listing_uid = ? AND available = ?", listing.ListingUid, true).
			Update("available", false)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("listing: %w", apperr.ErrNotAvailable)
		}
		return nil
	})
	if txErr != nil {
		s.fail(c, txErr)
		return
	}

	c.JSON(http.StatusCreated, booking)
}

func (s *server) listBookings(c *gin.Context) {
	userID := auth.UserID(c)

	db := s.db.Model(&models.Booking{})
	switch c.DefaultQuery("role", "all") {
	case "owner":
		db = db.Where("owner_uid = ?", userID)
	case "renter":
		db = db.Where("renter_uid = ?", userID)
	default:
		db = db.Where("owner_uid = ? OR renter_uid = ?", userID, userID)
	}
	db = query.Apply(db, query.Eq("status", c.Query("status")))

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	var bookings []models.Booking
	if err := query.Page(db.Order("created_at DESC"), limit, offset).Find(&bookings).Error; err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

type bookingStatusRequest struct {
	Status models.BookingStatus `json:"status" binding:"required"`
}

// updateBookingStatus lets either party move a booking to any status.
func (s *server) updateBookingStatus(c *gin.Context) {
	userID := auth.UserID(c)

	var req bookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	switch req.Status {
	case models.BookingPending, models.BookingAccepted, models.BookingRejected,
		models.BookingCompleted, models.BookingCancelled:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking status"})
		return
	}

	var booking models.Booking
	err := s.db.Where("booking_uid = ?", c.Param("id")).First(&booking).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.fail(c, fmt.Errorf("booking: %w", apperr.ErrNotFound))
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	if booking.OwnerUid != userID && booking.RenterUid != userID {
		s.fail(c, fmt.Errorf("only a booking party may update it: %w", apperr.ErrForbidden))
		return
	}

	if err := s.db.Model(&booking).Update("status", req.Status).Error; err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}
