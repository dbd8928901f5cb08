package accounts

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"straypaws/rescue-portal/rescue-portal-backend/pkg/apperrors"
)

type Repository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	ListPendingVerification(ctx context.Context) ([]Account, error)
	SetVerification(ctx context.Context, id uuid.UUID, status VerificationStatus, reason string) error
	SetDocumentSubmitted(ctx context.Context, id uuid.UUID, docURL string) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error

	InvalidateChallenges(ctx context.Context, accountID uuid.UUID) error
	CreateChallenge(ctx context.Context, ch *PasswordResetChallenge) error
	ConsumeChallenge(ctx context.Context, accountID uuid.UUID, code string, now time.Time) error
	PurgeDeadChallenges(ctx context.Context, now time.Time) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a gorm-backed account repository.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, account *Account) error {
	err := r.db.WithContext(ctx).Create(account).Error
	if err != nil && isUniqueViolation(err) {
		return apperrors.Conflict("account", "an account with this email already exists")
	}
	return err
}

func (r *gormRepository) GetByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	var account Account
	err := r.db.WithContext(ctx).First(&account, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("account")
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *gormRepository) GetByEmail(ctx context.Context, email string) (*Account, error) {
	var account Account
	err := r.db.WithContext(ctx).First(&account, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("account")
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *gormRepository) ListPendingVerification(ctx context.Context) ([]Account, error) {
	var items []Account
	err := r.db.WithContext(ctx).
		Where("verification_status = ?", VerificationPending).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

// SetVerification moves a pending account to approved or rejected. The
// predicate includes the expected current state; zero matched rows means the
// account was not pending and the review is a conflict.
func (r *gormRepository) SetVerification(ctx context.Context, id uuid.UUID, status VerificationStatus, reason string) error {
	result := r.db.WithContext(ctx).Model(&Account{}).
		Where("id = ? AND verification_status = ?", id, VerificationPending).
		Updates(map[string]interface{}{
			"verification_status": status,
			"rejection_reason":    reason,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.Conflict("account", "account is not awaiting verification")
	}
	return nil
}

func (r *gormRepository) SetDocumentSubmitted(ctx context.Context, id uuid.UUID, docURL string) error {
	result := r.db.WithContext(ctx).Model(&Account{}).
		Where("id = ? AND verification_status IN ?", id, []VerificationStatus{VerificationUnsubmitted, VerificationPending}).
		Updates(map[string]interface{}{
			"verification_doc_url": docURL,
			"verification_status":  VerificationPending,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.Conflict("account", "verification is already decided")
	}
	return nil
}

func (r *gormRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	result := r.db.WithContext(ctx).Model(&Account{}).
		Where("id = ?", id).
		Update("password_hash", hash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("account")
	}
	return nil
}

func (r *gormRepository) InvalidateChallenges(ctx context.Context, accountID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&PasswordResetChallenge{}).
		Where("account_id = ? AND used = ?", accountID, false).
		Update("used", true).Error
}

func (r *gormRepository) CreateChallenge(ctx context.Context, ch *PasswordResetChallenge) error {
	return r.db.WithContext(ctx).Create(ch).Error
}

// ConsumeChallenge marks the matching unused, unexpired challenge as used.
// The state guard lives in the predicate so a concurrent confirm cannot
// spend the same code twice.
func (r *gormRepository) ConsumeChallenge(ctx context.Context, accountID uuid.UUID, code string, now time.Time) error {
	result := r.db.WithContext(ctx).Model(&PasswordResetChallenge{}).
		Where("account_id = ? AND code = ? AND used = ? AND expires_at > ?", accountID, code, false, now).
		Update("used", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.Conflict("password_reset", "code is invalid, expired, or already used")
	}
	return nil
}

func (r *gormRepository) PurgeDeadChallenges(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("used = ? OR expires_at <= ?", true, now).
		Delete(&PasswordResetChallenge{})
	return result.RowsAffected, result.Error
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "duplicate key")
}
