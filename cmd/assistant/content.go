package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"farmconnect/pkg/apperr"
	"farmconnect/pkg/models"
	"farmconnect/pkg/query"
)

// schemeView maps one scheme to the requested language, falling back to
// English per field.
func schemeView(s *models.Scheme, lang models.Language) gin.H {
	return gin.H{
		"id":              s.SchemeUid,
		"name":            s.Name.In(lang),
		"description":     s.Description.In(lang),
		"eligibility":     s.Eligibility.In(lang),
		"benefits":        s.Benefits.In(lang),
		"application_url": s.ApplicationURL,
		"category":        s.Category,
		"is_active":       s.IsActive,
		"priority":        s.Priority,
		"created_at":      s.CreatedAt,
		"updated_at":      s.UpdatedAt,
	}
}

func tipView(t *models.Tip, lang models.Language) gin.H {
	return gin.H{
		"id":          t.TipUid,
		"title":       t.Title.In(lang),
		"description": t.Description.In(lang),
		"content":     t.Content.In(lang),
		"category":    t.Category,
		"icon":        t.Icon,
		"season":      t.Season,
		"is_active":   t.IsActive,
		"priority":    t.Priority,
		"created_at":  t.CreatedAt,
		"updated_at":  t.UpdatedAt,
	}
}

func (s *server) listSchemes(c *gin.Context) {
	lang := models.ParseLanguage(c.Query("language"))

	db := query.Apply(s.db.Model(&models.Scheme{}),
		query.Eq("category", c.Query("category")))
	if c.DefaultQuery("active_only", "true") == "true" {
		db = db.Where("is_active = ?", true)
	}

	var schemes []models.Scheme
	if err := db.Order("priority DESC, created_at DESC").Find(&schemes).Error; err != nil {
		s.fail(c, err)
		return
	}

	out := make([]gin.H, 0, len(schemes))
	for i := range schemes {
		out = append(out, schemeView(&schemes[i], lang))
	}
	c.JSON(http.StatusOK, out)
}

func (s *server) getScheme(c *gin.Context) {
	var scheme models.Scheme
	err := s.db.Where("scheme_uid = ?", c.Param("id")).First(&scheme).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.fail(c, fmt.Errorf("scheme: %w", apperr.ErrNotFound))
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, schemeView(&scheme, models.ParseLanguage(c.Query("language"))))
}

type schemeRequest struct {
	Name           models.LocalizedText `json:"name"`
	Description    models.LocalizedText `json:"description"`
	Eligibility    models.LocalizedText `json:"eligibility"`
	Benefits       models.LocalizedText `json:"benefits"`
	ApplicationURL string               `json:"application_url"`
	Category       string               `json:"category"`
	IsActive       *bool                `json:"is_active"`
	Priority       int                  `json:"priority"`
}

func (s *server) createScheme(c *gin.Context) {
	var req schemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Name.En == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name.en is required"})
		return
	}

	scheme := models.Scheme{
		SchemeUid:      uuid.NewString(),
		Name:           req.Name,
		Description:    req.Description,
		Eligibility:    req.Eligibility,
		Benefits:       req.Benefits,
		ApplicationURL: req.ApplicationURL,
		Category:       req.Category,
		IsActive:       true,
		Priority:       req.Priority,
	}
	if req.IsActive != nil {
		scheme.IsActive = *req.IsActive
	}
	if err := s.db.Create(&scheme).Error; err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, scheme)
}

// schemeUpdate is the allow-list for partial scheme edits. Localized blocks
// are replaced whole when present.
type schemeUpdate struct {
	Name           *models.LocalizedText `json:"name"`
	Description    *models.LocalizedText `json:"description"`
	Eligibility    *models.LocalizedText `json:"eligibility"`
	Benefits       *models.LocalizedText `json:"benefits"`
	ApplicationURL *string               `json:"application_url"`
	Category       *string               `json:"category"`
	IsActive       *bool                 `json:"is_active"`
	Priority       *int                  `json:"priority"`
}

func (s *server) updateScheme(c *gin.Context) {
	var scheme models.Scheme
	err := s.db.Where("scheme_uid = ?", c.Param("id")).First(&scheme).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.fail(c, fmt.Errorf("scheme: %w", apperr.ErrNotFound))
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}

	var upd schemeUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if upd.Name != nil {
		scheme.Name = *upd.Name
	}
	if upd.Description != nil {
		scheme.Description = *upd.Description
	}
	if upd.Eligibility != nil {
		scheme.Eligibility = *upd.Eligibility
	}
	if upd.Benefits != nil {
		scheme.Benefits = *upd.Benefits
	}
	if upd.ApplicationURL != nil {
		scheme.ApplicationURL = *upd.ApplicationURL
	}
	if upd.Category != nil {
		scheme.Category = *upd.Category
	}
	if upd.IsActive != nil {
		scheme.IsActive = *upd.IsActive
	}
	if upd.Priority != nil {
		scheme.Priority = *upd.Priority
	}

	if err := s.db.Save(&scheme).Error; err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, scheme)
}

func (s *server) deleteScheme(c *gin.Context) {
	res := s.db.Where("scheme_uid = ?", c.Param("id")).Delete(&models.Scheme{})
	if res.Error != nil {
		s.fail(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		s.fail(c, fmt.Errorf("scheme: %w", apperr.ErrNotFound))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (s *server) listTips(c *gin.Context) {
	lang := models.ParseLanguage(c.Query("language"))

	db := query.Apply(s.db.Model(&models.Tip{}),
		query.Eq("category", c.Query("category")))
	if season := c.Query("season"); season != "" {
		db = db.Where("season = ? OR season = ?", season, "all")
	}
	if c.DefaultQuery("active_only", "true") == "true" {
		db = db.Where("is_active = ?", true)
	}

	var tips []models.Tip
	if err := db.Order("priority DESC, created_at DESC").Find(&tips).Error; err != nil {
		s.fail(c, err)
		return
	}

	out := make([]gin.H, 0, len(tips))
	for i := range tips {
		out = append(out, tipView(&tips[i], lang))
	}
	c.JSON(http.StatusOK, out)
}

func (s *server) getTip(c *gin.Context) {
	var tip models.Tip
	err := s.db.Where("tip_uid = ?", c.Param("id")).First(&tip).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.fail(c, fmt.Errorf("tip: %w", apperr.ErrNotFound))
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tipView(&tip, models.ParseLanguage(c.Query("language"))))
}

type tipRequest struct {
	Title       models.LocalizedText `json:"title"`
	Description models.LocalizedText `json:"description"`
	Content     models.LocalizedText `json:"content"`
	Category    string               `json:"category"`
	Icon        string               `json:"icon"`
	Season      string               `json:"season"`
	IsActive    *bool                `json:"is_active"`
	Priority    int                  `json:"priority"`
}

func (s *server) createTip(c *gin.Context) {
	var req tipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Title.En == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title.en is required"})
		return
	}

	tip := models.Tip{
		TipUid:      uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		Category:    req.Category,
		Icon:        req.Icon,
		Season:      req.Season,
		IsActive:    true,
		Priority:    req.Priority,
	}
	if tip.Season == "" {
		tip.Season = "all"
	}
	if req.IsActive != nil {
		tip.IsActive = *req.IsActive
	}
	if err := s.db.Create(&tip).Error; err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, tip)
}

type tipUpdate struct {
	Title       *models.LocalizedText `json:"title"`
	Description *models.LocalizedText `json:"description"`
	Content     *models.LocalizedText `json:"content"`
	Category    *string               `json:"category"`
	Icon        *string               `json:"icon"`
	Season      *string               `json:"season"`
	IsActive    *bool                 `json:"is_active"`
	Priority    *int                  `json:"priority"`
}

func (s *server) updateTip(c *gin.Context) {
	var tip models.Tip
	err := s.db.Where("tip_uid = ?", c.Param("id")).First(&tip).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.fail(c, fmt.Errorf("tip: %w", apperr.ErrNotFound))
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}

	var upd tipUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if upd.Title != nil {
		tip.Title = *upd.Title
	}
	if upd.Description != nil {
		tip.Description = *upd.Description
	}
	if upd.Content != nil {
		tip.Content = *upd.Content
	}
	if upd.Category != nil {
		tip.Category = *upd.Category
	}
	if upd.Icon != nil {
		tip.Icon = *upd.Icon
	}
	if upd.Season != nil {
		tip.Season = *upd.Season
	}
	if upd.IsActive != nil {
		tip.IsActive = *upd.IsActive
	}
	if upd.Priority != nil {
		tip.Priority = *upd.Priority
	}

	if err := s.db.Save(&tip).Error; err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tip)
}

func (s *server) deleteTip(c *gin.Context) {
	res := s.db.Where("tip_uid = ?", c.Param("id")).Delete(&models.Tip{})
	if res.Error != nil {
		s.fail(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		s.fail(c, fmt.Errorf("tip: %w", apperr.ErrNotFound))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
