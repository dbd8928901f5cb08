package adoptions

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"straypaws/rescue-portal/rescue-portal-backend/internal/dogs"
	"straypaws/rescue-portal/rescue-portal-backend/pkg/apperrors"
)

type Repository interface {
	// Create inserts the application only while the dog is adoptable and the
	// applicant has no other active application for it.
	Create(ctx context.Context, app *AdoptionApplication) error
	GetByID(ctx context.Context, id uuid.UUID) (*AdoptionApplication, error)
	List(ctx context.Context, filter Filter) ([]AdoptionApplication, error)
	// StartReview moves pending to under_review.
	StartReview(ctx context.Context, id uuid.UUID, reviewer uuid.UUID, at time.Time) error
	// Approve finalizes the application and adopts the dog in one
	// transaction; either both rows change or neither does.
	Approve(ctx context.Context, id uuid.UUID, reviewer uuid.UUID, notes string, at time.Time) error
	// Reject finalizes the application without touching the dog.
	Reject(ctx context.Context, id uuid.UUID, reviewer uuid.UUID, notes string, at time.Time) error
	SetCertificateURL(ctx context.Context, id uuid.UUID, url string) error
}

var activeStatuses = []Status{StatusPending, StatusUnderReview}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a gorm-backed application repository.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, app *AdoptionApplication) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var available int64
		if err := tx.Model(&dogs.Dog{}).
			Where("id = ? AND status = ?", app.DogID, dogs.StatusAdoptable).
			Count(&available).Error; err != nil {
			return err
		}
		if available == 0 {
			return apperrors.Conflict("adoption application", "dog is not currently available for adoption")
		}

		var duplicates int64
		if err := tx.Model(&AdoptionApplication{}).
			Where("dog_id = ? AND applicant_id = ? AND status IN ?", app.DogID, app.ApplicantID, activeStatuses).
			Count(&duplicates).Error; err != nil {
			return err
		}
		if duplicates > 0 {
			return apperrors.Conflict("adoption application", "an active application for this dog already exists")
		}

		return tx.Create(app).Error
	})
}

func (r *gormRepository) GetByID(ctx context.Context, id uuid.UUID) (*AdoptionApplication, error) {
	var app AdoptionApplication
	err := r.db.WithContext(ctx).First(&app, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("adoption application")
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *gormRepository) List(ctx context.Context, filter Filter) ([]AdoptionApplication, error) {
	query := r.db.WithContext(ctx).Model(&AdoptionApplication{})
	if filter.DogID != nil {
		query = query.Where("dog_id = ?", *filter.DogID)
	}
	if filter.ApplicantID != nil {
		query = query.Where("applicant_id = ?", *filter.ApplicantID)
	}
	if filter.NGOID != nil {
		query = query.Where("ngo_id = ?", *filter.NGOID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var items []AdoptionApplication
	err := query.Order("submitted_at DESC").Limit(limit).Offset(filter.Offset).Find(&items).Error
	return items, err
}

func (r *gormRepository) StartReview(ctx context.Context, id uuid.UUID, reviewer uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&AdoptionApplication{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(map[string]interface{}{
			"status":      StatusUnderReview,
			"reviewed_by": reviewer,
			"reviewed_at": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.zeroRowsError(ctx, id)
	}
	return nil
}

func (r *gormRepository) Approve(ctx context.Context, id uuid.UUID, reviewer uuid.UUID, notes string, at time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var app AdoptionApplication
		if err := tx.First(&app, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("adoption application")
			}
			return err
		}

		appResult := tx.Model(&AdoptionApplication{}).
			Where("id = ? AND status IN ?", id, activeStatuses).
			Updates(map[string]interface{}{
				"status":      StatusApproved,
				"reviewed_by": reviewer,
				"reviewed_at": at,
				"notes":       notes,
			})
		if appResult.Error != nil {
			return appResult.Error
		}
		if appResult.RowsAffected == 0 {
			return apperrors.Conflict("adoption application", "application has already been decided")
		}

		dogResult := tx.Model(&dogs.Dog{}).
			Where("id = ? AND status = ?", app.DogID, dogs.StatusAdoptable).
			Updates(map[string]interface{}{
				"status":     dogs.StatusAdopted,
				"adopter_id": app.ApplicantID,
				"adopted_at": at,
			})
		if dogResult.Error != nil {
			return dogResult.Error
		}
		if dogResult.RowsAffected == 0 {
			// Rolls back the application update too.
			return apperrors.Conflict("adoption application", "dog is not currently available for adoption")
		}
		return nil
	})
}

func (r *gormRepository) Reject(ctx context.Context, id uuid.UUID, reviewer uuid.UUID, notes string, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&AdoptionApplication{}).
		Where("id = ? AND status IN ?", id, activeStatuses).
		Updates(map[string]interface{}{
			"status":      StatusRejected,
			"reviewed_by": reviewer,
			"reviewed_at": at,
			"notes":       notes,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.zeroRowsError(ctx, id)
	}
	return nil
}

func (r *gormRepository) SetCertificateURL(ctx context.Context, id uuid.UUID, url string) error {
	return r.db.WithContext(ctx).Model(&AdoptionApplication{}).
		Where("id = ?", id).
		Update("certificate_url", url).Error
}

// zeroRowsError distinguishes a missing application from one already decided.
func (r *gormRepository) zeroRowsError(ctx context.Context, id uuid.UUID) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return apperrors.Conflict("adoption application", "application has already been decided")
}
