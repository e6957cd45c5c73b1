package main

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"farmconnect/pkg/apperr"
	"farmconnect/pkg/auth"
	"farmconnect/pkg/models"
)

func (s *server) getProfile(c *gin.Context) {
	userID := auth.UserID(c)
	if c.Param("userId") != userID {
		s.fail(c, fmt.Errorf("profiles are private: %w", apperr.ErrForbidden))
		return
	}

	var profile models.Profile
	err := s.db.Where("user_uid = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.fail(c, fmt.Errorf("profile: %w", apperr.ErrNotFound))
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

type profileUpdate struct {
	FullName  *string `json:"full_name"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	Pincode   *string `json:"pincode"`
	City      *string `json:"city"`
	State     *string `json:"state"`
	AvatarURL *string `json:"avatar_url"`
}

// updateProfile upserts the caller's profile with the fields present in the
// body.
func (s *server) updateProfile(c *gin.Context) {
	userID := auth.UserID(c)
	if c.Param("userId") != userID {
		s.fail(c, fmt.Errorf("profiles are private: %w", apperr.ErrForbidden))
		return
	}

	var upd profileUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var profile models.Profile
	err := s.db.Where("user_uid = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = models.Profile{UserUid: userID}
		if err := s.db.Create(&profile).Error; err != nil {
			s.fail(c, err)
			return
		}
	} else if err != nil {
		s.fail(c, err)
		return
	}

	updates := map[string]interface{}{}
	set := func(col string, v *string) {
		if v != nil {
			updates[col] = *v
		}
	}
	set("full_name", upd.FullName)
	set("phone", upd.Phone)
	set("address", upd.Address)
	set("pincode", upd.Pincode)
	set("city", upd.City)
	set("state", upd.State)
	set("avatar_url", upd.AvatarURL)

	if len(updates) > 0 {
		if err := s.db.Model(&profile).Updates(updates).Error; err != nil {
			s.fail(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, profile)
}

type messageRequest struct {
	ListingUid  string `json:"listing_id" binding:"required"`
	ReceiverUid string `json:"receiver_id" binding:"required"`
	Content     string `json:"content" binding:"required"`
}

func (s *server) sendMessage(c *gin.Context) {
	userID := auth.UserID(c)

	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var count int64
	if err := s.db.Model(&models.Listing{}).Where("listing_uid = ?", req.ListingUid).Count(&count).Error; err != nil {
		s.fail(c, err)
		return
	}
	if count == 0 {
		s.fail(c, fmt.Errorf("listing: %w", apperr.ErrNotFound))
		return
	}

	msg := models.Message{
		ListingUid:  req.ListingUid,
		SenderUid:   userID,
		ReceiverUid: req.ReceiverUid,
		Content:     req.Content,
	}
	if err := s.db.Create(&msg).Error; err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// listMessages returns the caller's side of a listing's conversation, oldest
// first.
func (s *server) listMessages(c *gin.Context) {
	userID := auth.UserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var messages []models.Message
	err := s.db.
		Where("listing_uid = ? AND (sender_uid = ? OR receiver_uid = ?)", c.Param("listingId"), userID, userID).
		Order("created_at ASC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (s *server) addFavorite(c *gin.Context) {
	userID := auth.UserID(c)
	listingUid := c.Param("listingId")

	var count int64
	if err := s.db.Model(&models.Listing{}).Where("listing_uid = ?", listingUid).Count(&count).Error; err != nil {
		s.fail(c, err)
		return
	}
	if count == 0 {
		s.fail(c, fmt.Errorf("listing: %w", apperr.ErrNotFound))
		return
	}

	fav := models.Favorite{UserUid: userID, ListingUid: listingUid}
	if err := s.db.Create(&fav).Error; err != nil {
		if apperr.IsDuplicate(err) {
			s.fail(c, fmt.Errorf("favorite: %w", apperr.ErrDuplicate))
			return
		}
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, fav)
}

func (s *server) removeFavorite(c *gin.Context) {
	userID := auth.UserID(c)

	res := s.db.Where("user_uid = ? AND listing_uid = ?", userID, c.Param("listingId")).Delete(&models.Favorite{})
	if res.Error != nil {
		s.fail(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		s.fail(c, fmt.Errorf("favorite: %w", apperr.ErrNotFound))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

type reviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// createReview inserts the review and refreshes the listing's aggregate
// rating in the same transaction, so readers never see a review without its
// effect on the mean.
func (s *server) createReview(c *gin.Context) {
	userID := auth.UserID(c)
	listingUid := c.Param("listingId")

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var review models.Review
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		var listing models.Listing
		err := tx.Where("listing_uid = ?", listingUid).First(&listing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("listing: %w", apperr.ErrNotFound)
		}
		if err != nil {
			return err
		}

		review = models.Review{
			ListingUid: listingUid,
			UserUid:    userID,
			Rating:     req.Rating,
			Comment:    req.Comment,
		}
		if err := tx.Create(&review).Error; err != nil {
			if apperr.IsDuplicate(err) {
				return fmt.Errorf("review: %w", apperr.ErrDuplicate)
			}
			return err
		}

		var avg float64
		err = tx.Model(&models.Review{}).
			Where("listing_uid = ?", listingUid).
			Select("AVG(rating)").
			Scan(&avg).Error
		if err != nil {
			return err
		}
		rounded := math.Round(avg*100) / 100

		return tx.Model(&listing).Update("rating", rounded).Error
	})
	if txErr != nil {
		s.fail(c, txErr)
		return
	}

	c.JSON(http.StatusCreated, review)
}
