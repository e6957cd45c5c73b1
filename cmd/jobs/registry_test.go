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

func TestRegisterFarmer(t *testing.T) {
	s := newTestServer(t)

	body := farmerRequest{Name: "Kishan Patel", Email: "kishan@example.com", City: "Anand", State: "Gujarat"}

	w := httptest.NewRecorder()
	s.registerFarmer(jsonContext(t, w, "POST", "/api/v1/farmers", body))
	assert.Equal(t, http.StatusCreated, w.Code)

	// Duplicate email is rejected.
	w = httptest.NewRecorder()
	s.registerFarmer(jsonContext(t, w, "POST", "/api/v1/farmers", body))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Email is required.
	w = httptest.NewRecorder()
	s.registerFarmer(jsonContext(t, w, "POST", "/api/v1/farmers", farmerRequest{Name: "No Email"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetFarmerHidesEmail(t *testing.T) {
	s := newTestServer(t)
	farmer := seedFarmer(t, s.db)

	w := httptest.NewRecorder()
	c := jsonContext(t, w, "GET", "/api/v1/farmers/x", nil)
	c.Params = gin.Params{{Key: "id", Value: farmer.FarmerUid}}
	s.getFarmer(c)
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, farmer.Name, body["name"])
	_, hasEmail := body["email"]
	assert.False(t, hasEmail)

	w = httptest.NewRecorder()
	c = jsonContext(t, w, "GET", "/api/v1/farmers/x", nil)
	c.Params = gin.Params{{Key: "id", Value: uuid.NewString()}}
	s.getFarmer(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateFarmerEmailImmutable(t *testing.T) {
	s := newTestServer(t)
	farmer := seedFarmer(t, s.db)

	city := "Vadodara"
	w := httptest.NewRecorder()
	c := jsonContext(t, w, "PUT", "/api/v1/farmers/x", farmerUpdate{City: &city})
	c.Params = gin.Params{{Key: "id", Value: farmer.FarmerUid}}
	s.updateFarmer(c)
	assert.Equal(t, http.StatusOK, w.Code)

	var updated models.Farmer
	assert.NoError(t, s.db.Where("farmer_uid = ?", farmer.FarmerUid).First(&updated).Error)
	assert.Equal(t, "Vadodara", updated.City)
	assert.Equal(t, farmer.Name, updated.Name)
	assert.Equal(t, farmer.Email, updated.Email)
}

func TestRegisterWorkerWithExpertise(t *testing.T) {
	s := newTestServer(t)

	salary := 600.0
	body := workerRequest{
		Name:           "Raju Bhai",
		Email:          "raju@example.com",
		City:           "Nadiad",
		JobExpertise:   []string{"harvesting", "sowing"},
		SkillLevel:     "experienced",
		ExpectedSalary: &salary,
		SalaryType:     "daily",
	}

	w := httptest.NewRecorder()
	s.registerWorker(jsonContext(t, w, "POST", "/api/v1/workers", body))
	assert.Equal(t, http.StatusCreated, w.Code)

	var worker models.Worker
	assert.NoError(t, s.db.First(&worker).Error)
	assert.Equal(t, []string{"harvesting", "sowing"}, worker.JobExpertise)
	assert.NotNil(t, worker.ExpectedSalary)
	assert.Equal(t, 600.0, *worker.ExpectedSalary)
}

func TestListWorkersFilters(t *testing.T) {
	s := newTestServer(t)
	seedWorker(t, s.db)

	other := models.Worker{
		WorkerUid:  uuid.NewString(),
		Name:       "Mohan",
		Email:      uuid.NewString() + "@example.com",
		City:       "Rajkot",
		SkillLevel: "beginner",
	}
	assert.NoError(t, s.db.Create(&other).Error)

	w := httptest.NewRecorder()
	s.listWorkers(jsonContext(t, w, "GET", "/api/v1/workers?city=nadiad", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var workers []models.Worker
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &workers))
	assert.Len(t, workers, 1)
	assert.Equal(t, "Nadiad", workers[0].City)
	assert.Empty(t, workers[0].Email)
}

func TestPostJob(t *testing.T) {
	s := newTestServer(t)
	farmer := seedFarmer(t, s.db)

	body := jobRequest{
		FarmerUid:    farmer.FarmerUid,
		JobTitle:     "Cotton picking",
		JobType:      "harvesting",
		PaymentType:  "daily",
		SalaryAmount: 550,
		City:         "Anand",
	}

	w := httptest.NewRecorder()
	s.postJob(jsonContext(t, w, "POST", "/api/v1/jobs", body))
	assert.Equal(t, http.StatusCreated, w.Code)

	var job models.JobListing
	assert.NoError(t, s.db.First(&job).Error)
	assert.Equal(t, 1, job.WorkersNeeded)

	// Unknown farmer is a 404.
	body.FarmerUid = uuid.NewString()
	w = httptest.NewRecorder()
	s.postJob(jsonContext(t, w, "POST", "/api/v1/jobs", body))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListAndDeleteJobs(t *testing.T) {
	s := newTestServer(t)
	farmer := seedFarmer(t, s.db)
	job := seedJob(t, s.db, farmer.FarmerUid)
	seedJob(t, s.db, farmer.FarmerUid)

	w := httptest.NewRecorder()
	s.listOpenJobs(jsonContext(t, w, "GET", "/api/v1/jobs", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var jobs []models.JobListing
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &jobs))
	assert.Len(t, jobs, 2)

	w = httptest.NewRecorder()
	c := jsonContext(t, w, "GET", "/api/v1/jobs/farmer/x", nil)
	c.Params = gin.Params{{Key: "farmerId", Value: farmer.FarmerUid}}
	s.listFarmerJobs(c)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &jobs))
	assert.Len(t, jobs, 2)

	w = httptest.NewRecorder()
	c = jsonContext(t, w, "DELETE", "/api/v1/jobs/x", nil)
	c.Params = gin.Params{{Key: "id", Value: job.JobUid}}
	s.deleteJob(c)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	c = jsonContext(t, w, "DELETE", "/api/v1/jobs/x", nil)
	c.Params = gin.Params{{Key: "id", Value: job.JobUid}}
	s.deleteJob(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
