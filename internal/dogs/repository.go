package dogs

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"straypaws/rescue-portal/rescue-portal-backend/pkg/apperrors"
)

type Repository interface {
	Create(ctx context.Context, dog *Dog) error
	GetByID(ctx context.Context, id uuid.UUID) (*Dog, error)
	List(ctx context.Context, filter Filter) ([]Dog, error)
	// Update applies fields only while the dog is not adopted; zero matched
	// rows on an existing dog is a conflict.
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a gorm-backed dog repository.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, dog *Dog) error {
	return r.db.WithContext(ctx).Create(dog).Error
}

func (r *gormRepository) GetByID(ctx context.Context, id uuid.UUID) (*Dog, error) {
	var dog Dog
	err := r.db.WithContext(ctx).First(&dog, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("dog")
	}
	if err != nil {
		return nil, err
	}
	return &dog, nil
}

func (r *gormRepository) List(ctx context.Context, filter Filter) ([]Dog, error) {
	query := r.db.WithContext(ctx).Model(&Dog{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.CreatedBy != nil {
		query = query.Where("created_by = ?", *filter.CreatedBy)
	}
	if filter.AssignedVet != nil {
		query = query.Where("assigned_vet = ?", *filter.AssignedVet)
	}
	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var items []Dog
	err := query.Order("created_at DESC").Limit(limit).Offset(filter.Offset).Find(&items).Error
	return items, err
}

func (r *gormRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&Dog{}).
		Where("id = ? AND status <> ?", id, StatusAdopted).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.zeroRowsError(ctx, id)
	}
	return nil
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND status <> ?", id, StatusAdopted).
		Delete(&Dog{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.zeroRowsError(ctx, id)
	}
	return nil
}

// zeroRowsError distinguishes "no such dog" from "dog is adopted" after a
// guarded write matched nothing.
func (r *gormRepository) zeroRowsError(ctx context.Context, id uuid.UUID) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return apperrors.Conflict("dog", "dog record is final after adoption")
}
