package models

import "time"

type CollaborationStatus string

const (
	CollaborationPending   CollaborationStatus = "pending"
	CollaborationAccepted  CollaborationStatus = "accepted"
	CollaborationRejected  CollaborationStatus = "rejected"
	CollaborationActive    CollaborationStatus = "active"
	CollaborationCompleted CollaborationStatus = "completed"
	// Declared for completeness; no endpoint currently produces it.
	CollaborationCancelled CollaborationStatus = "cancelled"
)

type Farmer struct {
	ID             uint   `gorm:"primaryKey" json:"-"`
	FarmerUid      string `json:"id" gorm:"type:uuid;uniqueIndex;not null"`
	Name           string `json:"name" gorm:"not null"`
	Email          string `json:"email,omitempty" gorm:"uniqueIndex;not null"`
	ContactNumber  string `json:"contact_number" gorm:"size:20"`
	City           string `json:"city"`
	State          string `json:"state"`
	FullAddress    string `json:"full_address"`
	ProfilePicture string `json:"profile_picture"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Worker struct {
	ID             uint   `gorm:"primaryKey" json:"-"`
	WorkerUid      string `json:"id" gorm:"type:uuid;uniqueIndex;not null"`
	Name           string `json:"name" gorm:"not null"`
	Email          string `json:"email,omitempty" gorm:"uniqueIndex;not null"`
	ContactNumber  string `json:"contact_number" gorm:"size:20"`
	City           string `json:"city"`
	State          string `json:"state"`
	FullAddress    string `json:"full_address"`
	ProfilePicture string `json:"profile_picture"`

	JobExpertise         []string `json:"job_expertise" gorm:"serializer:json"`
	SkillLevel           string   `json:"skill_level" gorm:"size:20"`
	WorkCapacity         string   `json:"work_capacity"`
	NeedAccommodation    bool     `json:"need_accommodation" gorm:"default:false"`
	ExpectedSalary       *float64 `json:"expected_salary"`
	SalaryType           string   `json:"salary_type" gorm:"size:20"`
	AdditionalBenefits   []string `json:"additional_benefits" gorm:"serializer:json"`
	AvailabilityDuration string   `json:"availability_duration"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type JobListing struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	JobUid    string `json:"id" gorm:"type:uuid;uniqueIndex;not null"`
	FarmerUid string `json:"farmer_id" gorm:"type:uuid;index;not null"`

	JobTitle           string   `json:"job_title" gorm:"not null"`
	JobType            string   `json:"job_type"`
	JobDescription     string   `json:"job_description"`
	LandArea           string   `json:"land_area"`
	WorkersNeeded      int      `json:"workers_needed" gorm:"default:1"`
	JobDuration        string   `json:"job_duration"`
	PaymentType        string   `json:"payment_type" gorm:"size:20"`
	SalaryAmount       float64  `json:"salary_amount"`
	UrgencyLevel       string   `json:"urgency_level" gorm:"size:20"`
	RequiredSkillLevel string   `json:"required_skill_level" gorm:"size:20"`
	PhysicalDemands    string   `json:"physical_demands"`
	WorkingHoursPerDay string   `json:"working_hours_per_day"`
	AccommodationType  string   `json:"accommodation_type"`
	Transportation     string   `json:"transportation_facility"`
	AdditionalBenefits []string `json:"additional_benefits" gorm:"serializer:json"`
	JobImages          []string `json:"job_images" gorm:"serializer:json"`

	City          string `json:"city"`
	State         string `json:"state"`
	FullAddress   string `json:"full_address"`
	ContactNumber string `json:"contact_number" gorm:"size:20"`
	Email         string `json:"email"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Collaboration ties a farmer and a worker to one job. Exactly one row may
// exist per (worker, job); the unique index backs the duplicate checks on
// both the request and the application path.
//
// Status walks pending -> accepted -> active -> completed, or pending ->
// rejected. A row becomes active only when both acceptance flags are true.
type Collaboration struct {
	ID               uint   `gorm:"primaryKey" json:"-"`
	CollaborationUid string `json:"id" gorm:"type:uuid;uniqueIndex;not null"`
	JobUid           string `json:"job_id" gorm:"type:uuid;not null;uniqueIndex:idx_collaborations_worker_job"`
	WorkerUid        string `json:"worker_id" gorm:"type:uuid;not null;uniqueIndex:idx_collaborations_worker_job"`
	FarmerUid        string `json:"farmer_id" gorm:"type:uuid;index;not null"`

	Status           CollaborationStatus `json:"status" gorm:"size:20;default:'pending'"`
	AcceptedByFarmer bool                `json:"accepted_by_farmer" gorm:"default:false"`
	AcceptedByWorker bool                `json:"accepted_by_worker" gorm:"default:false"`

	RequestedAt time.Time  `json:"requested_at"`
	StartedAt   *time.Time `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Feedback is written once a collaboration has completed. GivenBy records
// which side authored it ("farmer" or "worker").
type Feedback struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	CollaborationUid string    `json:"collaboration_id" gorm:"type:uuid;index;not null"`
	FarmerUid        string    `json:"farmer_id" gorm:"type:uuid;not null"`
	WorkerUid        string    `json:"worker_id" gorm:"type:uuid;not null"`
	GivenBy          string    `json:"given_by" gorm:"size:10;not null"`
	Rating           int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Review           string    `json:"review"`
	CreatedAt        time.Time `json:"created_at"`
}
