package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"farmconnect/pkg/apperr"
	"farmconnect/pkg/models"
	"farmconnect/pkg/query"
)

type farmerRequest struct {
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	ContactNumber  string `json:"contact_number"`
	City           string `json:"city"`
	State          string `json:"state"`
	FullAddress    string `json:"full_address"`
	ProfilePicture string `json:"profile_picture"`
}

func (s *server) registerFarmer(c *gin.Context) {
	var req farmerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	farmer := models.Farmer{
		FarmerUid:      uuid.NewString(),
		Name:           req.Name,
		Email:          req.Email,
		ContactNumber:  req.ContactNumber,
		City:           req.City,
		State:          req.State,
		FullAddress:    req.FullAddress,
		ProfilePicture: req.ProfilePicture,
	}
	if err := s.db.Create(&farmer).Error; err != nil {
		if apperr.IsDuplicate(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email already registered"})
			return
		}
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, farmer)
}

func (s *server) getFarmer(c *gin.Context) {
	var farmer models.Farmer
	err := s.db.Where("farmer_uid = ?", c.Param("id")).First(&farmer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.fail(c, fmt.Errorf("farmer: %w", apperr.ErrNotFound))
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	farmer.Email = "" // not exposed on profile reads
	c.JSON(http.StatusOK, farmer)
}

// farmerUpdate is the allow-list of editable farmer fields. Email is
// immutable after registration.
type farmerUpdate struct {
	Name           *string `json:"name"`
	ContactNumber  *string `json:"contact_number"`
	City           *string `json:"city"`
	State          *string `json:"state"`
	FullAddress    *string `json:"full_address"`
	ProfilePicture *string `json:"profile_picture"`
}

func (s *server) updateFarmer(c *gin.Context) {
	var farmer models.Farmer
	err := s.db.Where("farmer_uid = ?", c.Param("id")).First(&farmer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.fail(c, fmt.Errorf("farmer: %w", apperr.ErrNotFound))
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}

	var upd farmerUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	set := func(col string, v *string) {
		if v != nil {
			updates[col] = *v
		}
	}
	set("name", upd.Name)
	set("contact_number", upd.ContactNumber)
	set("city", upd.City)
	set("state", upd.State)
	set("full_address", upd.FullAddress)
	set("profile_picture", upd.ProfilePicture)

	if len(updates) > 0 {
		if err := s.db.Model(&farmer).Updates(updates).Error; err != nil {
			s.fail(c, err)
			return
		}
	}
	farmer.Email = ""
	c.JSON(http.StatusOK, farmer)
}

type workerRequest struct {
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	ContactNumber  string `json:"contact_number"`
	City           string `json:"city"`
	State          string `json:"state"`
	FullAddress    string `json:"full_address"`
	ProfilePicture string `json:"profile_picture"`

	JobExpertise         []string `json:"job_expertise"`
	SkillLevel           string   `json:"skill_level"`
	WorkCapacity         string   `json:"work_capacity"`
	NeedAccommodation    bool     `json:"need_accommodation"`
	ExpectedSalary       *float64 `json:"expected_salary"`
	SalaryType           string   `json:"salary_type"`
	AdditionalBenefits   []string `json:"additional_benefits"`
	AvailabilityDuration string   `json:"availability_duration"`
}

func (s *server) registerWorker(c *gin.Context) {
	var req workerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	worker := models.Worker{
		WorkerUid:            uuid.NewString(),
		Name:                 req.Name,
		Email:                req.Email,
		ContactNumber:        req.ContactNumber,
		City:                 req.City,
		State:                req.State,
		FullAddress:          req.FullAddress,
		ProfilePicture:       req.ProfilePicture,
		JobExpertise:         req.JobExpertise,
		SkillLevel:           req.SkillLevel,
		WorkCapacity:         req.WorkCapacity,
		NeedAccommodation:    req.NeedAccommodation,
		ExpectedSalary:       req.ExpectedSalary,
		SalaryType:           req.SalaryType,
		AdditionalBenefits:   req.AdditionalBenefits,
		AvailabilityDuration: req.AvailabilityDuration,
	}
	if err := s.db.Create(&worker).Error; err != nil {
		if apperr.IsDuplicate(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email already registered"})
			return
		}
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, worker)
}

func (s *server) listWorkers(c *gin.Context) {
	db := query.Apply(s.db.Model(&models.Worker{}),
		query.Like("city", c.Query("city")),
		query.Like("state", c.Query("state")),
		query.Eq("skill_level", c.Query("skill_level")),
	)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	var workers []models.Worker
	if err := query.Page(db.Order("created_at DESC"), limit, offset).Find(&workers).Error; err != nil {
		s.fail(c, err)
		return
	}
	for i := range workers {
		workers[i].Email = ""
	}
	c.JSON(http.StatusOK, workers)
}

func (s *server) getWorker(c *gin.Context) {
	var worker models.Worker
	err := s.db.Where("worker_uid = ?", c.Param("id")).First(&worker).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.fail(c, fmt.Errorf("worker: %w", apperr.ErrNotFound))
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	worker.Email = ""
	c.JSON(http.StatusOK, worker)
}

type workerUpdate struct {
	Name           *string `json:"name"`
	ContactNumber  *string `json:"contact_number"`
	City           *string `json:"city"`
	State          *string `json:"state"`
	FullAddress    *string `json:"full_address"`
	ProfilePicture *string `json:"profile_picture"`

	JobExpertise         *[]string `json:"job_expertise"`
	SkillLevel           *string   `json:"skill_level"`
	WorkCapacity         *string   `json:"work_capacity"`
	NeedAccommodation    *bool     `json:"need_accommodation"`
	ExpectedSalary       *float64  `json:"expected_salary"`
	SalaryType           *string   `json:"salary_type"`
	AdditionalBenefits   *[]string `json:"additional_benefits"`
	AvailabilityDuration *string   `json:"availability_duration"`
}

func (s *server) updateWorker(c *gin.Context) {
	var worker models.Worker
	err := s.db.Where("worker_uid = ?", c.Param("id")).First(&worker).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.fail(c, fmt.Errorf("worker: %w", apperr.ErrNotFound))
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}

	var upd workerUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if upd.Name != nil {
		worker.Name = *upd.Name
	}
	if upd.ContactNumber != nil {
		worker.ContactNumber = *upd.ContactNumber
	}
	if upd.City != nil {
		worker.City = *upd.City
	}
	if upd.State != nil {
		worker.State = *upd.State
	}
	if upd.FullAddress != nil {
		worker.FullAddress = *upd.FullAddress
	}
	if upd.ProfilePicture != nil {
		worker.ProfilePicture = *upd.ProfilePicture
	}
	if upd.JobExpertise != nil {
		worker.JobExpertise = *upd.JobExpertise
	}
	if upd.SkillLevel != nil {
		worker.SkillLevel = *upd.SkillLevel
	}
	if upd.WorkCapacity != nil {
		worker.WorkCapacity = *upd.WorkCapacity
	}
	if upd.NeedAccommodation != nil {
		worker.NeedAccommodation = *upd.NeedAccommodation
	}
	if upd.ExpectedSalary != nil {
		worker.ExpectedSalary = upd.ExpectedSalary
	}
	if upd.SalaryType != nil {
		worker.SalaryType = *upd.SalaryType
	}
	if upd.AdditionalBenefits != nil {
		worker.AdditionalBenefits = *upd.AdditionalBenefits
	}
	if upd.AvailabilityDuration != nil {
		worker.AvailabilityDuration = *upd.AvailabilityDuration
	}

	if err := s.db.Save(&worker).Error; err != nil {
		s.fail(c, err)
		return
	}
	worker.Email = ""
	c.JSON(http.StatusOK, worker)
}

type jobRequest struct {
	FarmerUid string `json:"farmer_id" binding:"required"`
	JobTitle  string `json:"job_title" binding:"required"`

	JobType            string   `json:"job_type"`
	JobDescription     string   `json:"job_description"`
	LandArea           string   `json:"land_area"`
	WorkersNeeded      int      `json:"workers_needed"`
	JobDuration        string   `json:"job_duration"`
	PaymentType        string   `json:"payment_type"`
	SalaryAmount       float64  `json:"salary_amount"`
	UrgencyLevel       string   `json:"urgency_level"`
	RequiredSkillLevel string   `json:"required_skill_level"`
	PhysicalDemands    string   `json:"physical_demands"`
	WorkingHoursPerDay string   `json:"working_hours_per_day"`
	AccommodationType  string   `json:"accommodation_type"`
	Transportation     string   `json:"transportation_facility"`
	AdditionalBenefits []string `json:"additional_benefits"`
	JobImages          []string `json:"job_images"`

	City          string `json:"city"`
	State         string `json:"state"`
	FullAddress   string `json:"full_address"`
	ContactNumber string `json:"contact_number"`
	Email         string `json:"email"`
}

func (s *server) postJob(c *gin.Context) {
	var req jobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var count int64
	if err := s.db.Model(&models.Farmer{}).Where("farmer_uid = ?", req.FarmerUid).Count(&count).Error; err != nil {
		s.fail(c, err)
		return
	}
	if count == 0 {
		s.fail(c, fmt.Errorf("farmer: %w", apperr.ErrNotFound))
		return
	}

	workersNeeded := req.WorkersNeeded
	if workersNeeded < 1 {
		workersNeeded = 1
	}
	job := models.JobListing{
		JobUid:             uuid.NewString(),
		FarmerUid:          req.FarmerUid,
		JobTitle:           req.JobTitle,
		JobType:            req.JobType,
		JobDescription:     req.JobDescription,
		LandArea:           req.LandArea,
		WorkersNeeded:      workersNeeded,
		JobDuration:        req.JobDuration,
		PaymentType:        req.PaymentType,
		SalaryAmount:       req.SalaryAmount,
		UrgencyLevel:       req.UrgencyLevel,
		RequiredSkillLevel: req.RequiredSkillLevel,
		PhysicalDemands:    req.PhysicalDemands,
		WorkingHoursPerDay: req.WorkingHoursPerDay,
		AccommodationType:  req.AccommodationType,
		Transportation:     req.Transportation,
		AdditionalBenefits: req.AdditionalBenefits,
		JobImages:          req.JobImages,
		City:               req.City,
		State:              req.State,
		FullAddress:        req.FullAddress,
		ContactNumber:      req.ContactNumber,
		Email:              req.Email,
	}
	if err := s.db.Create(&job).Error; err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

// listOpenJobs is the worker-facing "find work" feed.
func (s *server) listOpenJobs(c *gin.Context) {
	db := query.Apply(s.db.Model(&models.JobListing{}),
		query.Like("city", c.Query("city")),
		query.Like("state", c.Query("state")),
		query.Eq("job_type", c.Query("job_type")),
		query.Eq("urgency_level", c.Query("urgency_level")),
	)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	var jobs []models.JobListing
	if err := query.Page(db.Order("created_at DESC"), limit, offset).Find(&jobs).Error; err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

func (s *server) listFarmerJobs(c *gin.Context) {
	var jobs []models.JobListing
	err := s.db.Where("farmer_uid = ?", c.Param("farmerId")).
		Order("created_at DESC").
		Find(&jobs).Error
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

func (s *server) deleteJob(c *gin.Context) {
	res := s.db.Where("job_uid = ?", c.Param("id")).Delete(&models.JobListing{})
	if res.Error != nil {
		s.fail(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		s.fail(c, fmt.Errorf("job: %w", apperr.ErrNotFound))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
