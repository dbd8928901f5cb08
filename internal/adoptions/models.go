package adoptions

import (
	"time"

	"github.com/google/uuid"

	"straypaws/rescue-portal/rescue-portal-backend/pkg/workflows"
)

// Status of an adoption application.
type Status string

const (
	StatusPending     Status = "pending"
	StatusUnderReview Status = "under_review"
	StatusApproved    Status = "approved"
	StatusRejected    Status = "rejected"
)

// statusMachine drives application review. Approval and rejection are final.
var statusMachine = workflows.NewStateMachine(map[Status][]Status{
	StatusPending:     {StatusUnderReview, StatusApproved, StatusRejected},
	StatusUnderReview: {StatusApproved, StatusRejected},
	StatusApproved:    {},
	StatusRejected:    {},
})

// AdoptionApplication is one adopter's request for one dog.
// NGOID is copied from the dog's owning organization at submission time so a
// later transfer of the dog does not reroute the decision.
type AdoptionApplication struct {
	ID          uuid.UUID  `json:"id" gorm:"primaryKey;type:uuid"`
	DogID       uuid.UUID  `json:"dog_id" gorm:"not null;index"`
	ApplicantID uuid.UUID  `json:"applicant_id" gorm:"not null;index"`
	NGOID       *uuid.UUID `json:"ngo_id,omitempty" gorm:"index"`
	Status      Status     `json:"status" gorm:"not null;index"`

	Phone      string `json:"phone" gorm:""`
	HomeType   string `json:"home_type" gorm:""`
	HasYard    bool   `json:"has_yard" gorm:"default:false"`
	OtherPets  string `json:"other_pets" gorm:""`
	Experience string `json:"experience" gorm:""`
	Motivation string `json:"motivation" gorm:"not null"`

	SubmittedAt time.Time  `json:"submitted_at" gorm:"not null"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty" gorm:""`
	ReviewedBy  *uuid.UUID `json:"reviewed_by,omitempty" gorm:""`
	Notes       string     `json:"notes,omitempty" gorm:""`

	CertificateURL string `json:"certificate_url,omitempty" gorm:""`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Requests

type SubmitApplicationRequest struct {
	DogID      uuid.UUID `json:"dog_id"`
	Phone      string    `json:"phone"`
	HomeType   string    `json:"home_type"`
	HasYard    bool      `json:"has_yard"`
	OtherPets  string    `json:"other_pets"`
	Experience string    `json:"experience"`
	Motivation string    `json:"motivation"`
}

type DecisionRequest struct {
	Notes string `json:"notes"`
}

// Filter narrows application listings.
type Filter struct {
	DogID       *uuid.UUID
	ApplicantID *uuid.UUID
	NGOID       *uuid.UUID
	Status      *Status
	Limit       int
	Offset      int
}
