package rescue

import (
	"time"

	"github.com/google/uuid"

	"straypaws/rescue-portal/rescue-portal-backend/pkg/workflows"
)

// Status of a street report.
type Status string

const (
	StatusPending    Status = "pending"
	StatusAssigned   Status = "assigned"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Urgency as stated by the reporter.
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

var urgencies = map[Urgency]bool{
	UrgencyLow:      true,
	UrgencyMedium:   true,
	UrgencyHigh:     true,
	UrgencyCritical: true,
}

// statusMachine drives report triage. Completed and cancelled are terminal;
// cancellation is reachable from every working state.
var statusMachine = workflows.NewStateMachine(map[Status][]Status{
	StatusPending:    {StatusAssigned, StatusInProgress, StatusCancelled},
	StatusAssigned:   {StatusPending, StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusAssigned, StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
})

// RescueReport is a sighting filed by a member of the public. Reporters do
// not need an account, so contact details live on the report itself.
// Invariant: DogID is written at most once, by the promotion transaction.
type RescueReport struct {
	ID          uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	Description string    `json:"description" gorm:"not null"`
	Location    string    `json:"location" gorm:"not null"`
	Urgency     Urgency   `json:"urgency" gorm:"not null;index"`
	Status      Status    `json:"status" gorm:"not null;index"`

	ReporterName    string `json:"reporter_name" gorm:""`
	ReporterContact string `json:"reporter_contact" gorm:""`
	PhotoURL        string `json:"photo_url" gorm:""`

	AssignedTo *uuid.UUID `json:"assigned_to,omitempty" gorm:"index"`
	DogID      *uuid.UUID `json:"dog_id,omitempty" gorm:""`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Requests

type SubmitReportRequest struct {
	Description     string `json:"description"`
	Location        string `json:"location"`
	Urgency         string `json:"urgency"`
	ReporterName    string `json:"reporter_name"`
	ReporterContact string `json:"reporter_contact"`
	PhotoURL        string `json:"photo_url"`
}

type SetStatusRequest struct {
	Status string `json:"status"`
}

type AssignRequest struct {
	AssigneeID *uuid.UUID `json:"assignee_id"` // null unassigns
}

// PromoteRequest carries optional overrides for the dog record created from
// the report. An empty name defaults to "Unnamed".
type PromoteRequest struct {
	Name      string `json:"name"`
	Breed     string `json:"breed"`
	AgeMonths int    `json:"age_months"`
	Gender    string `json:"gender"`
	Size      string `json:"size"`
}

// Filter narrows report listings.
type Filter struct {
	Status     *Status
	Urgency    *Urgency
	AssignedTo *uuid.UUID
	Limit      int
	Offset     int
}
