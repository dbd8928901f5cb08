package dogs

import (
	"time"

	"github.com/google/uuid"

	"straypaws/rescue-portal/rescue-portal-backend/pkg/workflows"
)

// Status is a dog's rescue-case status.
type Status string

const (
	StatusReported   Status = "reported"
	StatusInProgress Status = "in_progress"
	StatusTreated    Status = "treated"
	StatusAdoptable  Status = "adoptable"
	StatusAdopted    Status = "adopted"
)

// TreatmentStatus tracks the assigned vet's progress on a case.
type TreatmentStatus string

const (
	TreatmentPending    TreatmentStatus = "pending"
	TreatmentInProgress TreatmentStatus = "in_progress"
	TreatmentCompleted  TreatmentStatus = "completed"
)

// Gender of the dog, as far as it is known.
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnknown Gender = "unknown"
)

// Size buckets for listings.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// statusMachine validates direct status edits. Administrators may move a case
// between any of the working states without walking the chain; `adopted` is
// terminal and is entered only by the adoption approval transaction.
var statusMachine = workflows.NewStateMachine(map[Status][]Status{
	StatusReported:   {StatusInProgress, StatusTreated, StatusAdoptable},
	StatusInProgress: {StatusReported, StatusTreated, StatusAdoptable},
	StatusTreated:    {StatusReported, StatusInProgress, StatusAdoptable},
	StatusAdoptable:  {StatusReported, StatusInProgress, StatusTreated},
	StatusAdopted:    {},
})

var treatmentStatuses = map[TreatmentStatus]bool{
	TreatmentPending:    true,
	TreatmentInProgress: true,
	TreatmentCompleted:  true,
}

// Dog is a managed rescue case.
// Invariant: AdopterID is non-nil iff Status is adopted; both are written
// only inside the adoption approval transaction.
type Dog struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	Name      string    `json:"name" gorm:"not null"`
	Breed     string    `json:"breed" gorm:""`
	AgeMonths int       `json:"age_months" gorm:""`
	Gender    Gender    `json:"gender" gorm:""`
	Size      Size      `json:"size" gorm:""`
	Status    Status    `json:"status" gorm:"not null;index"`
	Location  string    `json:"location" gorm:""`
	PhotoURL  string    `json:"photo_url" gorm:""`

	Vaccinated   bool   `json:"vaccinated" gorm:"default:false"`
	Sterilized   bool   `json:"sterilized" gorm:"default:false"`
	MedicalNotes string `json:"medical_notes" gorm:""`

	CreatedBy       *uuid.UUID      `json:"created_by,omitempty" gorm:"index"`
	AssignedVet     *uuid.UUID      `json:"assigned_vet,omitempty" gorm:"index"`
	TreatmentStatus TreatmentStatus `json:"treatment_status" gorm:"not null"`

	AdopterID *uuid.UUID `json:"adopter_id,omitempty" gorm:""`
	AdoptedAt *time.Time `json:"adopted_at,omitempty" gorm:""`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Requests

type CreateDogRequest struct {
	Name         string `json:"name"`
	Breed        string `json:"breed"`
	AgeMonths    int    `json:"age_months"`
	Gender       string `json:"gender"`
	Size         string `json:"size"`
	Location     string `json:"location"`
	PhotoURL     string `json:"photo_url"`
	MedicalNotes string `json:"medical_notes"`
}

// UpdateDogRequest is a field-by-field patch; nil fields are left unchanged.
type UpdateDogRequest struct {
	Name         *string `json:"name"`
	Breed        *string `json:"breed"`
	AgeMonths    *int    `json:"age_months"`
	Gender       *string `json:"gender"`
	Size         *string `json:"size"`
	Status       *string `json:"status"`
	Location     *string `json:"location"`
	PhotoURL     *string `json:"photo_url"`
	MedicalNotes *string `json:"medical_notes"`
}

type AssignVetRequest struct {
	VetID *uuid.UUID `json:"vet_id"` // null unassigns
}

// TreatmentUpdateRequest records treatment progress. The vaccinated and
// sterilized flags arrive when the corresponding medical record is filed.
type TreatmentUpdateRequest struct {
	Status     string  `json:"status"`
	Vaccinated *bool   `json:"vaccinated"`
	Sterilized *bool   `json:"sterilized"`
	Notes      *string `json:"notes"`
}

// Filter narrows dog listings.
type Filter struct {
	Status      *Status
	CreatedBy   *uuid.UUID
	AssignedVet *uuid.UUID
	Limit       int
	Offset      int
}
