package notifications

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"straypaws/rescue-portal/rescue-portal-backend/pkg/apperrors"
)

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a gorm-backed notification repository.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, n *Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *gormRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]Notification, error) {
	var items []Notification
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	return items, err
}

func (r *gormRepository) MarkRead(ctx context.Context, id, accountID uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&Notification{}).
		Where("id = ? AND account_id = ?", id, accountID).
		Update("read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("notification")
	}
	return nil
}
