package accounts

import (
	"time"

	"github.com/google/uuid"

	"straypaws/rescue-portal/rescue-portal-backend/internal/authz"
)

// VerificationStatus is the manual-vetting state of a gated-role account.
// A nil status on the account means the record predates gating and is
// tolerated as approved.
type VerificationStatus string

const (
	VerificationUnsubmitted VerificationStatus = "unsubmitted"
	VerificationPending     VerificationStatus = "pending"
	VerificationApproved    VerificationStatus = "approved"
	VerificationRejected    VerificationStatus = "rejected"
)

// Account is a registered identity.
type Account struct {
	ID           uuid.UUID  `json:"id" gorm:"primaryKey;type:uuid"`
	Email        string     `json:"email" gorm:"not null;uniqueIndex"`
	PasswordHash string     `json:"-" gorm:"not null"`
	FullName     string     `json:"full_name" gorm:"not null"`
	Phone        string     `json:"phone" gorm:""`
	Role         authz.Role `json:"role" gorm:"not null;index"`

	VerificationStatus *VerificationStatus `json:"verification_status,omitempty" gorm:""`
	VerificationDocURL string              `json:"verification_doc_url,omitempty" gorm:""`
	RejectionReason    string              `json:"rejection_reason,omitempty" gorm:""`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// PasswordResetChallenge is a single-use, time-boxed code bound to an account.
type PasswordResetChallenge struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	AccountID uuid.UUID `json:"account_id" gorm:"not null;index"`
	Email     string    `json:"email" gorm:"not null"`
	Code      string    `json:"-" gorm:"not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	Used      bool      `json:"used" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// Requests

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"full_name"`
	Phone       string `json:"phone"`
	Role        string `json:"role"`
	DocumentURL string `json:"document_url"` // verification document for gated roles
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token   string   `json:"token"`
	Account *Account `json:"account"`
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

type ResetRequest struct {
	Email string `json:"email"`
}

type ConfirmResetRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}
