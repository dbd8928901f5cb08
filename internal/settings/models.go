package settings

import (
	"time"

	"github.com/google/uuid"
)

// NotificationPreferences controls how an account wants to be reached.
// In-app notifications are always stored; email delivery is opt-out.
type NotificationPreferences struct {
	AccountID    uuid.UUID `json:"account_id" gorm:"primaryKey;type:uuid"`
	EmailEnabled bool      `json:"email_enabled" gorm:"default:true"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// UpdatePreferencesRequest is the settings patch payload.
type UpdatePreferencesRequest struct {
	EmailEnabled *bool `json:"email_enabled"`
}
