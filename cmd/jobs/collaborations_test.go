package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"farmconnect/pkg/models"
)

func TestCreateRequest(t *testing.T) {
	s := newTestServer(t)
	farmer := seedFarmer(t, s.db)
	worker := seedWorker(t, s.db)
	job := seedJob(t, s.db, farmer.FarmerUid)

	body := requestBody{FarmerUid: farmer.FarmerUid, WorkerUid: worker.WorkerUid, JobUid: job.JobUid}

	w := httptest.NewRecorder()
	s.createRequest(jsonContext(t, w, "POST", "/api/v1/collaborations/requests", body))
	assert.Equal(t, http.StatusCreated, w.Code)

	var collab models.Collaboration
	assert.NoError(t, s.db.First(&collab).Error)
	assert.Equal(t, models.CollaborationPending, collab.Status)
	assert.True(t, collab.AcceptedByFarmer)
	assert.False(t, collab.AcceptedByWorker)
	assert.False(t, collab.RequestedAt.IsZero())
	assert.Nil(t, collab.StartedAt)

	// Same farmer+worker+job pair conflicts.
	w = httptest.NewRecorder()
	s.createRequest(jsonContext(t, w, "POST", "/api/v1/collaborations/requests", body))
	assert.Equal(t, http.StatusConflict, w.Code)

	// A request against a missing worker is a 404.
	w = httptest.NewRecorder()
	s.createRequest(jsonContext(t, w, "POST", "/api/v1/collaborations/requests", requestBody{
		FarmerUid: farmer.FarmerUid, WorkerUid: uuid.NewString(), JobUid: job.JobUid,
	}))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateApplication(t *testing.T) {
	s := newTestServer(t)
	farmer := seedFarmer(t, s.db)
	worker := seedWorker(t, s.db)
	job := seedJob(t, s.db, farmer.FarmerUid)

	body := applicationBody{WorkerUid: worker.WorkerUid, JobUid: job.JobUid}

	w := httptest.NewRecorder()
	s.createApplication(jsonContext(t, w, "POST", "/api/v1/collaborations/applications", body))
	assert.Equal(t, http.StatusCreated, w.Code)

	var collab models.Collaboration
	assert.NoError(t, s.db.First(&collab).Error)
	// The farmer is derived from the job, and the worker's flag starts true.
	assert.Equal(t, farmer.FarmerUid, collab.FarmerUid)
	assert.True(t, collab.AcceptedByWorker)
	assert.False(t, collab.AcceptedByFarmer)

	w = httptest.NewRecorder()
	s.createApplication(jsonContext(t, w, "POST", "/api/v1/collaborations/applications", body))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func statusCtx(t *testing.T, w *httptest.ResponseRecorder, collabUid string, body interface{}) *gin.Context {
	c := jsonContext(t, w, "PUT", "/api/v1/collaborations/x/status", body)
	c.Params = gin.Params{{Key: "id", Value: collabUid}}
	return c
}

func TestAcceptActivatesWhenBothAgree(t *testing.T) {
	s := newTestServer(t)
	farmer := seedFarmer(t, s.db)
	worker := seedWorker(t, s.db)
	job := seedJob(t, s.db, farmer.FarmerUid)
	collab := seedCollaboration(t, s.db, farmer, worker, job)

	w := httptest.NewRecorder()
	s.updateCollaborationStatus(statusCtx(t, w, collab.CollaborationUid,
		statusBody{ActorUid: worker.WorkerUid, Status: models.CollaborationAccepted}))
	assert.Equal(t, http.StatusOK, w.Code)

	var updated models.Collaboration
	assert.NoError(t, s.db.Where("collaboration_uid = ?", collab.CollaborationUid).First(&updated).Error)
	assert.Equal(t, models.CollaborationActive, updated.Status)
	assert.True(t, updated.AcceptedByWorker)
	assert.NotNil(t, updated.StartedAt)
	assert.Nil(t, updated.EndedAt)
}

func TestRejectEndsWithoutStarting(t *testing.T) {
	s := newTestServer(t)
	farmer := seedFarmer(t, s.db)
	worker := seedWorker(t, s.db)
	job := seedJob(t, s.db, farmer.FarmerUid)
	collab := seedCollaboration(t, s.db, farmer, worker, job)

	w := httptest.NewRecorder()
	s.updateCollaborationStatus(statusCtx(t, w, collab.CollaborationUid,
		statusBody{ActorUid: worker.WorkerUid, Status: models.CollaborationRejected}))
	assert.Equal(t, http.StatusOK, w.Code)

	var updated models.Collaboration
	assert.NoError(t, s.db.Where("collaboration_uid = ?", collab.CollaborationUid).First(&updated).Error)
	assert.Equal(t, models.CollaborationRejected, updated.Status)
	assert.Nil(t, updated.StartedAt)
	assert.NotNil(t, updated.EndedAt)

	// Rejected is terminal.
	w = httptest.NewRecorder()
	s.updateCollaborationStatus(statusCtx(t, w, collab.CollaborationUid,
		statusBody{ActorUid: worker.WorkerUid, Status: models.CollaborationAccepted}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatusUpdateAuthorization(t *testing.T) {
	s := newTestServer(t)
	farmer := seedFarmer(t, s.db)
	worker := seedWorker(t, s.db)
	job := seedJob(t, s.db, farmer.FarmerUid)
	collab := seedCollaboration(t, s.db, farmer, worker, job)

	// A stranger may not answer.
	w := httptest.NewRecorder()
	s.updateCollaborationStatus(statusCtx(t, w, collab.CollaborationUid,
		statusBody{ActorUid: uuid.NewString(), Status: models.CollaborationAccepted}))
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Only accepted/rejected are valid answers.
	w = httptest.NewRecorder()
	s.updateCollaborationStatus(statusCtx(t, w, collab.CollaborationUid,
		statusBody{ActorUid: worker.WorkerUid, Status: models.CollaborationCompleted}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	s.updateCollaborationStatus(statusCtx(t, w, uuid.NewString(),
		statusBody{ActorUid: worker.WorkerUid, Status: models.CollaborationAccepted}))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEndCollaboration(t *testing.T) {
	s := newTestServer(t)
	farmer := seedFarmer(t, s.db)
	worker := seedWorker(t, s.db)
	job := seedJob(t, s.db, farmer.FarmerUid)
	collab := seedCollaboration(t, s.db, farmer, worker, job)

	endCtx := func(w *httptest.ResponseRecorder, uid string, user string) *gin.Context {
		c := jsonContext(t, w, "PUT", "/api/v1/collaborations/x/end", endBody{UserUid: user})
		c.Params = gin.Params{{Key: "id", Value: uid}}
		return c
	}

	// Pending rows cannot be ended.
	w := httptest.NewRecorder()
	s.endCollaboration(endCtx(w, collab.CollaborationUid, farmer.FarmerUid))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Activate, then a stranger still may not end it.
	w = httptest.NewRecorder()
	s.updateCollaborationStatus(statusCtx(t, w, collab.CollaborationUid,
		statusBody{ActorUid: worker.WorkerUid, Status: models.CollaborationAccepted}))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	s.endCollaboration(endCtx(w, collab.CollaborationUid, uuid.NewString()))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	s.endCollaboration(endCtx(w, collab.CollaborationUid, farmer.FarmerUid))
	assert.Equal(t, http.StatusOK, w.Code)

	var updated models.Collaboration
	assert.NoError(t, s.db.Where("collaboration_uid = ?", collab.CollaborationUid).First(&updated).Error)
	assert.Equal(t, models.CollaborationCompleted, updated.Status)
	assert.NotNil(t, updated.EndedAt)

	// Completed is terminal.
	w = httptest.NewRecorder()
	s.endCollaboration(endCtx(w, collab.CollaborationUid, farmer.FarmerUid))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFeedbackRequiresCompletion(t *testing.T) {
	s := newTestServer(t)
	farmer := seedFarmer(t, s.db)
	worker := seedWorker(t, s.db)
	job := seedJob(t, s.db, farmer.FarmerUid)
	collab := seedCollaboration(t, s.db, farmer, worker, job)

	// Activate the collaboration; feedback is still premature.
	w := httptest.NewRecorder()
	s.updateCollaborationStatus(statusCtx(t, w, collab.CollaborationUid,
		statusBody{ActorUid: worker.WorkerUid, Status: models.CollaborationAccepted}))
	assert.Equal(t, http.StatusOK, w.Code)

	fb := feedbackBody{CollaborationUid: collab.CollaborationUid, UserUid: farmer.FarmerUid, Rating: 5, Review: "great work"}
	w = httptest.NewRecorder()
	s.createFeedback(jsonContext(t, w, "POST", "/api/v1/feedback", fb))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Complete it; now feedback lands, attributed to the right side.
	w = httptest.NewRecorder()
	c := jsonContext(t, w, "PUT", "/api/v1/collaborations/x/end", endBody{UserUid: farmer.FarmerUid})
	c.Params = gin.Params{{Key: "id", Value: collab.CollaborationUid}}
	s.endCollaboration(c)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	s.createFeedback(jsonContext(t, w, "POST", "/api/v1/feedback", fb))
	assert.Equal(t, http.StatusCreated, w.Code)

	var stored models.Feedback
	assert.NoError(t, s.db.First(&stored).Error)
	assert.Equal(t, "farmer", stored.GivenBy)
	assert.Equal(t, 5, stored.Rating)

	// Strangers and out-of-range ratings are rejected.
	w = httptest.NewRecorder()
	s.createFeedback(jsonContext(t, w, "POST", "/api/v1/feedback", feedbackBody{
		CollaborationUid: collab.CollaborationUid, UserUid: uuid.NewString(), Rating: 4,
	}))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	s.createFeedback(jsonContext(t, w, "POST", "/api/v1/feedback", feedbackBody{
		CollaborationUid: collab.CollaborationUid, UserUid: worker.WorkerUid, Rating: 6,
	}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSentReceivedQueries(t *testing.T) {
	s := newTestServer(t)
	farmer := seedFarmer(t, s.db)
	worker := seedWorker(t, s.db)
	jobA := seedJob(t, s.db, farmer.FarmerUid)
	jobB := seedJob(t, s.db, farmer.FarmerUid)

	// Farmer-initiated request on job A, worker-initiated application on job B.
	seedCollaboration(t, s.db, farmer, worker, jobA)
	application := models.Collaboration{
		CollaborationUid: uuid.NewString(),
		JobUid:           jobB.JobUid,
		WorkerUid:        worker.WorkerUid,
		FarmerUid:        farmer.FarmerUid,
		Status:           models.CollaborationPending,
		AcceptedByWorker: true,
	}
	assert.NoError(t, s.db.Create(&application).Error)

	fetch := func(handler func(*gin.Context), param, value string) []collaborationView {
		w := httptest.NewRecorder()
		c := jsonContext(t, w, "GET", "/api/v1/collaborations", nil)
		c.Params = gin.Params{{Key: param, Value: value}}
		handler(c)
		assert.Equal(t, http.StatusOK, w.Code)
		var out []collaborationView
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		return out
	}

	sent := fetch(s.farmerSent, "id", farmer.FarmerUid)
	assert.Len(t, sent, 1)
	assert.Equal(t, jobA.JobUid, sent[0].JobUid)
	// Enriched with the counterparty summary.
	assert.Equal(t, worker.Name, sent[0].Worker["name"])

	received := fetch(s.farmerReceived, "id", farmer.FarmerUid)
	assert.Len(t, received, 1)
	assert.Equal(t, jobB.JobUid, received[0].JobUid)

	assert.Len(t, fetch(s.workerSent, "id", worker.WorkerUid), 1)
	assert.Len(t, fetch(s.workerReceived, "id", worker.WorkerUid), 1)
}

func TestSentListsKeepRejectedRequests(t *testing.T) {
	s := newTestServer(t)
	farmer := seedFarmer(t, s.db)
	worker := seedWorker(t, s.db)
	job := seedJob(t, s.db, farmer.FarmerUid)
	collab := seedCollaboration(t, s.db, farmer, worker, job)

	w := httptest.NewRecorder()
	s.updateCollaborationStatus(statusCtx(t, w, collab.CollaborationUid,
		statusBody{ActorUid: worker.WorkerUid, Status: models.CollaborationRejected}))
	assert.Equal(t, http.StatusOK, w.Code)

	fetch := func(handler func(*gin.Context), value string) []collaborationView {
		w := httptest.NewRecorder()
		c := jsonContext(t, w, "GET", "/api/v1/collaborations", nil)
		c.Params = gin.Params{{Key: "id", Value: value}}
		handler(c)
		assert.Equal(t, http.StatusOK, w.Code)
		var out []collaborationView
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		return out
	}

	// Rejecting leaves the acceptance flags alone, so the invitation stays
	// in the farmer's sent list and the worker's received list.
	sent := fetch(s.farmerSent, farmer.FarmerUid)
	assert.Len(t, sent, 1)
	assert.Equal(t, models.CollaborationRejected, sent[0].Status)
	assert.Len(t, fetch(s.workerReceived, worker.WorkerUid), 1)

	// The farmer's received list only carries answers still pending.
	application := models.Collaboration{
		CollaborationUid: uuid.NewString(),
		JobUid:           job.JobUid,
		WorkerUid:        uuid.NewString(),
		FarmerUid:        farmer.FarmerUid,
		Status:           models.CollaborationRejected,
		AcceptedByWorker: true,
	}
	assert.NoError(t, s.db.Create(&application).Error)
	assert.Len(t, fetch(s.farmerReceived, farmer.FarmerUid), 0)
}

func TestRejectRequiresUnstartedCollaboration(t *testing.T) {
	s := newTestServer(t)
	farmer := seedFarmer(t, s.db)
	worker := seedWorker(t, s.db)
	job := seedJob(t, s.db, farmer.FarmerUid)
	collab := seedCollaboration(t, s.db, farmer, worker, job)

	w := httptest.NewRecorder()
	s.updateCollaborationStatus(statusCtx(t, w, collab.CollaborationUid,
		statusBody{ActorUid: worker.WorkerUid, Status: models.CollaborationAccepted}))
	assert.Equal(t, http.StatusOK, w.Code)

	// Once running it can only be ended, not rejected.
	w = httptest.NewRecorder()
	s.updateCollaborationStatus(statusCtx(t, w, collab.CollaborationUid,
		statusBody{ActorUid: farmer.FarmerUid, Status: models.CollaborationRejected}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var updated models.Collaboration
	assert.NoError(t, s.db.Where("collaboration_uid = ?", collab.CollaborationUid).First(&updated).Error)
	assert.Equal(t, models.CollaborationActive, updated.Status)
	assert.Nil(t, updated.EndedAt)
}

func TestActiveCollaborationsAndDashboard(t *testing.T) {
	s := newTestServer(t)
	farmer := seedFarmer(t, s.db)
	worker := seedWorker(t, s.db)
	job := seedJob(t, s.db, farmer.FarmerUid)
	collab := seedCollaboration(t, s.db, farmer, worker, job)

	w := httptest.NewRecorder()
	s.updateCollaborationStatus(statusCtx(t, w, collab.CollaborationUid,
		statusBody{ActorUid: worker.WorkerUid, Status: models.CollaborationAccepted}))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	c := jsonContext(t, w, "GET", "/api/v1/collaborations/active/x", nil)
	c.Params = gin.Params{{Key: "userId", Value: worker.WorkerUid}}
	s.activeCollaborations(c)
	assert.Equal(t, http.StatusOK, w.Code)

	var active []collaborationView
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &active))
	assert.Len(t, active, 1)

	w = httptest.NewRecorder()
	c = jsonContext(t, w, "GET", "/api/v1/dashboard/x", nil)
	c.Params = gin.Params{{Key: "userId", Value: worker.WorkerUid}}
	s.dashboard(c)
	assert.Equal(t, http.StatusOK, w.Code)

	var dash map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &dash))
	assert.Equal(t, "worker", dash["role"])
	assert.Equal(t, float64(1), dash["total_applications"])
	assert.Equal(t, float64(1), dash["active_collaborations"])

	w = httptest.NewRecorder()
	c = jsonContext(t, w, "GET", "/api/v1/dashboard/x", nil)
	c.Params = gin.Params{{Key: "userId", Value: uuid.NewString()}}
	s.dashboard(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
