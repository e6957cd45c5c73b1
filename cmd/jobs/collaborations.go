package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"farmconnect/pkg/apperr"
	"farmconnect/pkg/models"
)

type requestBody struct {
	FarmerUid string `json:"farmer_id" binding:"required"`
	WorkerUid string `json:"worker_id" binding:"required"`
	JobUid    string `json:"job_id" binding:"required"`
}

// createRequest is the farmer-initiated path: the farmer invites a worker to
// a job, so the farmer's acceptance flag starts true and only the worker's
// answer is pending.
func (s *server) createRequest(c *gin.Context) {
	var req requestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.ensureExists(&models.Farmer{}, "farmer_uid", req.FarmerUid, "farmer"); err != nil {
		s.fail(c, err)
		return
	}
	if err := s.ensureExists(&models.Worker{}, "worker_uid", req.WorkerUid, "worker"); err != nil {
		s.fail(c, err)
		return
	}
	if err := s.ensureExists(&models.JobListing{}, "job_uid", req.JobUid, "job"); err != nil {
		s.fail(c, err)
		return
	}

	var count int64
	err := s.db.Model(&models.Collaboration{}).
		Where("farmer_uid = ? AND worker_uid = ? AND job_uid = ?", req.FarmerUid, req.WorkerUid, req.JobUid).
		Count(&count).Error
	if err != nil {
		s.fail(c, err)
		return
	}
	if count > 0 {
		s.fail(c, fmt.Errorf("collaboration request: %w", apperr.ErrDuplicate))
		return
	}

	collab := models.Collaboration{
		CollaborationUid: uuid.NewString(),
		JobUid:           req.JobUid,
		WorkerUid:        req.WorkerUid,
		FarmerUid:        req.FarmerUid,
		Status:           models.CollaborationPending,
		AcceptedByFarmer: true,
		RequestedAt:      time.Now().UTC(),
	}
	if err := s.db.Create(&collab).Error; err != nil {
		if apperr.IsDuplicate(err) {
			s.fail(c, fmt.Errorf("collaboration request: %w", apperr.ErrDuplicate))
			return
		}
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, collab)
}

type applicationBody struct {
	WorkerUid string `json:"worker_id" binding:"required"`
	JobUid    string `json:"job_id" binding:"required"`
}

// createApplication is the worker-initiated path: the farmer comes from the
// job, and the worker's acceptance flag starts true.
func (s *server) createApplication(c *gin.Context) {
	var req applicationBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.ensureExists(&models.Worker{}, "worker_uid", req.WorkerUid, "worker"); err != nil {
		s.fail(c, err)
		return
	}
	var job models.JobListing
	err := s.db.Where("job_uid = ?", req.JobUid).First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.fail(c, fmt.Errorf("job: %w", apperr.ErrNotFound))
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}

	var count int64
	err = s.db.Model(&models.Collaboration{}).
		Where("worker_uid = ? AND job_uid = ?", req.WorkerUid, req.JobUid).
		Count(&count).Error
	if err != nil {
		s.fail(c, err)
		return
	}
	if count > 0 {
		s.fail(c, fmt.Errorf("application: %w", apperr.ErrDuplicate))
		return
	}

	collab := models.Collaboration{
		CollaborationUid: uuid.NewString(),
		JobUid:           req.JobUid,
		WorkerUid:        req.WorkerUid,
		FarmerUid:        job.FarmerUid,
		Status:           models.CollaborationPending,
		AcceptedByWorker: true,
		RequestedAt:      time.Now().UTC(),
	}
	if err := s.db.Create(&collab).Error; err != nil {
		if apperr.IsDuplicate(err) {
			s.fail(c, fmt.Errorf("application: %w", apperr.ErrDuplicate))
			return
		}
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, collab)
}

type statusBody struct {
	ActorUid string                     `json:"actor_id" binding:"required"`
	Status   models.CollaborationStatus `json:"status" binding:"required"`
}

// updateCollaborationStatus handles the accept/reject answer. Accepting sets
// the acting party's flag; once both flags are true the collaboration turns
// active and started_at is stamped. Rejecting ends the collaboration without
// it ever starting.
func (s *server) updateCollaborationStatus(c *gin.Context) {
	var req statusBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Status != models.CollaborationAccepted && req.Status != models.CollaborationRejected {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be accepted or rejected"})
		return
	}

	var collab models.Collaboration
	err := s.db.Where("collaboration_uid = ?", c.Param("id")).First(&collab).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.fail(c, fmt.Errorf("collaboration: %w", apperr.ErrNotFound))
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}

	if req.ActorUid != collab.FarmerUid && req.ActorUid != collab.WorkerUid {
		s.fail(c, fmt.Errorf("only a collaboration party may answer: %w", apperr.ErrForbidden))
		return
	}
	if collab.Status == models.CollaborationRejected || collab.Status == models.CollaborationCompleted {
		s.fail(c, fmt.Errorf("collaboration is %s: %w", collab.Status, apperr.ErrInvalidTransition))
		return
	}
	// A running collaboration cannot be rejected anymore, only ended.
	if req.Status == models.CollaborationRejected && collab.Status == models.CollaborationActive {
		s.fail(c, fmt.Errorf("collaboration is %s: %w", collab.Status, apperr.ErrInvalidTransition))
		return
	}

	now := time.Now().UTC()
	if req.Status == models.CollaborationRejected {
		collab.Status = models.CollaborationRejected
		collab.EndedAt = &now
	} else {
		if req.ActorUid == collab.FarmerUid {
			collab.AcceptedByFarmer = true
		} else {
			collab.AcceptedByWorker = true
		}
		if collab.AcceptedByFarmer && collab.AcceptedByWorker {
			collab.Status = models.CollaborationActive
			collab.StartedAt = &now
		} else {
			collab.Status = models.CollaborationAccepted
		}
	}

	if err := s.db.Save(&collab).Error; err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, collab)
}

type endBody struct {
	UserUid string `json:"user_id" binding:"required"`
}

func (s *server) endCollaboration(c *gin.Context) {
	var req endBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var collab models.Collaboration
	err := s.db.Where("collaboration_uid = ?", c.Param("id")).First(&collab).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.fail(c, fmt.Errorf("collaboration: %w", apperr.ErrNotFound))
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}

	if req.UserUid != collab.FarmerUid && req.UserUid != collab.WorkerUid {
		s.fail(c, fmt.Errorf("only a collaboration party may end it: %w", apperr.ErrForbidden))
		return
	}
	if collab.Status != models.CollaborationActive && collab.Status != models.CollaborationAccepted {
		s.fail(c, fmt.Errorf("only active collaborations can be ended: %w", apperr.ErrInvalidTransition))
		return
	}

	now := time.Now().UTC()
	collab.Status = models.CollaborationCompleted
	collab.EndedAt = &now
	if err := s.db.Save(&collab).Error; err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, collab)
}

type feedbackBody struct {
	CollaborationUid string `json:"collaboration_id" binding:"required"`
	UserUid          string `json:"user_id" binding:"required"`
	Rating           int    `json:"rating" binding:"required,min=1,max=5"`
	Review           string `json:"review"`
}

// createFeedback records a party's rating once the collaboration has
// completed.
func (s *server) createFeedback(c *gin.Context) {
	var req feedbackBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var collab models.Collaboration
	err := s.db.Where("collaboration_uid = ?", req.CollaborationUid).First(&collab).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.fail(c, fmt.Errorf("collaboration: %w", apperr.ErrNotFound))
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}

	var givenBy string
	switch req.UserUid {
	case collab.FarmerUid:
		givenBy = "farmer"
	case collab.WorkerUid:
		givenBy = "worker"
	default:
		s.fail(c, fmt.Errorf("only a collaboration party may leave feedback: %w", apperr.ErrForbidden))
		return
	}
	if collab.Status != models.CollaborationCompleted {
		s.fail(c, fmt.Errorf("feedback requires a completed collaboration: %w", apperr.ErrInvalidTransition))
		return
	}

	fb := models.Feedback{
		CollaborationUid: collab.CollaborationUid,
		FarmerUid:        collab.FarmerUid,
		WorkerUid:        collab.WorkerUid,
		GivenBy:          givenBy,
		Rating:           req.Rating,
		Review:           req.Review,
	}
	if err := s.db.Create(&fb).Error; err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, fb)
}

func (s *server) listFeedback(c *gin.Context) {
	var feedback []models.Feedback
	err := s.db.Where("collaboration_uid = ?", c.Param("collaborationId")).
		Order("created_at DESC").
		Find(&feedback).Error
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, feedback)
}

// collaborationView is a collaboration enriched with party and job
// summaries. Missing joins degrade to empty objects rather than errors.
type collaborationView struct {
	models.Collaboration
	Farmer gin.H `json:"farmer"`
	Worker gin.H `json:"worker"`
	Job    gin.H `json:"job"`
}

func (s *server) enrich(collabs []models.Collaboration) []collaborationView {
	views := make([]collaborationView, 0, len(collabs))
	for _, collab := range collabs {
		view := collaborationView{Collaboration: collab, Farmer: gin.H{}, Worker: gin.H{}, Job: gin.H{}}

		var farmer models.Farmer
		if err := s.db.Where("farmer_uid = ?", collab.FarmerUid).First(&farmer).Error; err == nil {
			view.Farmer = gin.H{
				"id":             farmer.FarmerUid,
				"name":           farmer.Name,
				"city":           farmer.City,
				"state":          farmer.State,
				"contact_number": farmer.ContactNumber,
			}
		}
		var worker models.Worker
		if err := s.db.Where("worker_uid = ?", collab.WorkerUid).First(&worker).Error; err == nil {
			view.Worker = gin.H{
				"id":            worker.WorkerUid,
				"name":          worker.Name,
				"city":          worker.City,
				"state":         worker.State,
				"skill_level":   worker.SkillLevel,
				"job_expertise": worker.JobExpertise,
			}
		}
		var job models.JobListing
		if err := s.db.Where("job_uid = ?", collab.JobUid).First(&job).Error; err == nil {
			view.Job = gin.H{
				"id":            job.JobUid,
				"job_title":     job.JobTitle,
				"job_type":      job.JobType,
				"city":          job.City,
				"state":         job.State,
				"payment_type":  job.PaymentType,
				"salary_amount": job.SalaryAmount,
			}
		}
		views = append(views, view)
	}
	return views
}

func (s *server) collaborationsWhere(c *gin.Context, cond string, args ...interface{}) {
	var collabs []models.Collaboration
	err := s.db.Where(cond, args...).Order("requested_at DESC").Find(&collabs).Error
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.enrich(collabs))
}

// Sent/received follow the acceptance flags: the initiating side's flag is
// true while the answering side's is still false. Rejecting leaves the flags
// untouched, so a rejected invitation stays visible in the sender's list;
// only farmerReceived narrows to pending answers.
func (s *server) farmerSent(c *gin.Context) {
	s.collaborationsWhere(c,
		"farmer_uid = ? AND accepted_by_farmer = ? AND accepted_by_worker = ?",
		c.Param("id"), true, false)
}

func (s *server) farmerReceived(c *gin.Context) {
	s.collaborationsWhere(c,
		"farmer_uid = ? AND status = ? AND accepted_by_worker = ? AND accepted_by_farmer = ?",
		c.Param("id"), models.CollaborationPending, true, false)
}

func (s *server) workerSent(c *gin.Context) {
	s.collaborationsWhere(c,
		"worker_uid = ? AND accepted_by_worker = ? AND accepted_by_farmer = ?",
		c.Param("id"), true, false)
}

func (s *server) workerReceived(c *gin.Context) {
	s.collaborationsWhere(c,
		"worker_uid = ? AND accepted_by_farmer = ? AND accepted_by_worker = ?",
		c.Param("id"), true, false)
}

// activeCollaborations covers both the fully active rows and the half-agreed
// ones, for either side of the table.
func (s *server) activeCollaborations(c *gin.Context) {
	userID := c.Param("userId")
	s.collaborationsWhere(c,
		"(farmer_uid = ? OR worker_uid = ?) AND status IN ?",
		userID, userID, []models.CollaborationStatus{models.CollaborationAccepted, models.CollaborationActive})
}

// dashboard summarizes one user's standing: profile, application volume and
// current active collaborations.
func (s *server) dashboard(c *gin.Context) {
	userID := c.Param("userId")

	var role string
	profile := gin.H{}

	var farmer models.Farmer
	if err := s.db.Where("farmer_uid = ?", userID).First(&farmer).Error; err == nil {
		role = "farmer"
		profile = gin.H{"id": farmer.FarmerUid, "name": farmer.Name, "city": farmer.City, "state": farmer.State}
	} else {
		var worker models.Worker
		if err := s.db.Where("worker_uid = ?", userID).First(&worker).Error; err == nil {
			role = "worker"
			profile = gin.H{"id": worker.WorkerUid, "name": worker.Name, "city": worker.City, "state": worker.State}
		}
	}
	if role == "" {
		s.fail(c, fmt.Errorf("user: %w", apperr.ErrNotFound))
		return
	}

	var total, active int64
	party := s.db.Model(&models.Collaboration{}).Where("farmer_uid = ? OR worker_uid = ?", userID, userID)
	if err := party.Count(&total).Error; err != nil {
		s.fail(c, err)
		return
	}
	err := s.db.Model(&models.Collaboration{}).
		Where("(farmer_uid = ? OR worker_uid = ?) AND status IN ?", userID, userID,
			[]models.CollaborationStatus{models.CollaborationAccepted, models.CollaborationActive}).
		Count(&active).Error
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"role":                  role,
		"profile":               profile,
		"total_applications":    total,
		"active_collaborations": active,
	})
}

func (s *server) ensureExists(model interface{}, column, uid, name string) error {
	var count int64
	if err := s.db.Model(model).Where(column+" = ?", uid).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%s: %w", name, apperr.ErrNotFound)
	}
	return nil
}
