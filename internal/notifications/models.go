package notifications

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Notification types
const (
	TypeApplication = "APPLICATION"
	TypeDecision    = "DECISION"
	TypeAccount     = "ACCOUNT"
	TypeReport      = "REPORT"
	TypeSystem      = "SYSTEM"
)

// Notification is an in-app message addressed to one account. It is created
// only as a side effect of a lifecycle transition and never gates one.
type Notification struct {
	ID        uuid.UUID      `json:"id" gorm:"primaryKey;type:uuid"`
	AccountID uuid.UUID      `json:"account_id" gorm:"not null;index"`
	Type      string         `json:"type" gorm:"not null"`
	Title     string         `json:"title" gorm:"not null"`
	Message   string         `json:"message" gorm:"not null"`
	Link      string         `json:"link" gorm:""`
	Read      bool           `json:"read" gorm:"default:false"`
	Metadata  datatypes.JSON `json:"metadata" gorm:"type:jsonb"`
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
}

// Event is a post-commit effect returned by a lifecycle transition, drained
// by the dispatcher after the primary state change is durable.
type Event struct {
	AccountID uuid.UUID
	Type      string
	Title     string
	Message   string
	Link      string
	EmailTo   string // empty = in-app only
	Metadata  map[string]interface{}
}
