package rescue

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"straypaws/rescue-portal/rescue-portal-backend/internal/dogs"
	"straypaws/rescue-portal/rescue-portal-backend/pkg/apperrors"
)

type Repository interface {
	Create(ctx context.Context, report *RescueReport) error
	GetByID(ctx context.Context, id uuid.UUID) (*RescueReport, error)
	// List orders by urgency (critical first), then newest.
	List(ctx context.Context, filter Filter) ([]RescueReport, error)
	// SetStatus moves the report from exactly the given state; zero matched
	// rows on an existing report is a conflict.
	SetStatus(ctx context.Context, id uuid.UUID, from, to Status) error
	// SetAssignee refuses closed reports; a report that completed or was
	// cancelled between read and write surfaces as a conflict.
	SetAssignee(ctx context.Context, id uuid.UUID, assignee *uuid.UUID) error
	// Promote creates the dog and stamps dog_id on the report in one
	// transaction; a report already carrying a dog_id makes it fail with a
	// conflict and no dog row.
	Promote(ctx context.Context, reportID uuid.UUID, dog *dogs.Dog) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a gorm-backed report repository.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, report *RescueReport) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *gormRepository) GetByID(ctx context.Context, id uuid.UUID) (*RescueReport, error) {
	var report RescueReport
	err := r.db.WithContext(ctx).First(&report, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("rescue report")
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *gormRepository) List(ctx context.Context, filter Filter) ([]RescueReport, error) {
	query := r.db.WithContext(ctx).Model(&RescueReport{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Urgency != nil {
		query = query.Where("urgency = ?", *filter.Urgency)
	}
	if filter.AssignedTo != nil {
		query = query.Where("assigned_to = ?", *filter.AssignedTo)
	}
	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var items []RescueReport
	err := query.
		Order("CASE urgency WHEN 'critical' THEN 0 WHEN 'high' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END").
		Order("created_at DESC").
		Limit(limit).Offset(filter.Offset).
		Find(&items).Error
	return items, err
}

func (r *gormRepository) SetStatus(ctx context.Context, id uuid.UUID, from, to Status) error {
	result := r.db.WithContext(ctx).Model(&RescueReport{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return apperrors.Conflict("rescue report", "report status changed concurrently")
	}
	return nil
}

func (r *gormRepository) SetAssignee(ctx context.Context, id uuid.UUID, assignee *uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&RescueReport{}).
		Where("id = ? AND status NOT IN ?", id, []Status{StatusCompleted, StatusCancelled}).
		Update("assigned_to", assignee)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return apperrors.Conflict("rescue report", "report is closed")
	}
	return nil
}

func (r *gormRepository) Promote(ctx context.Context, reportID uuid.UUID, dog *dogs.Dog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(dog).Error; err != nil {
			return err
		}
		result := tx.Model(&RescueReport{}).
			Where("id = ? AND dog_id IS NULL", reportID).
			Update("dog_id", dog.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperrors.Conflict("rescue report", "report was already promoted")
		}
		return nil
	})
}
