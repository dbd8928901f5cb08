package dogs

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"straypaws/rescue-portal/rescue-portal-backend/internal/authz"
	"straypaws/rescue-portal/rescue-portal-backend/internal/notifications"
	"straypaws/rescue-portal/rescue-portal-backend/pkg/apperrors"
)

// Notifier drains post-commit notification events.
type Notifier interface {
	Dispatch(ctx context.Context, events ...notifications.Event)
}

// Service provides dog lifecycle business logic.
type Service struct {
	repo     Repository
	notifier Notifier
	logger   *zap.Logger
}

// NewService creates a new dog service.
func NewService(repo Repository, notifier Notifier, logger *zap.Logger) *Service {
	return &Service{repo: repo, notifier: notifier, logger: logger}
}

// Create registers a new rescue case in the reported state.
func (s *Service) Create(ctx context.Context, actor authz.Actor, req CreateDogRequest) (*Dog, error) {
	if err := authz.Authorize(actor, authz.ActionManageDogs, nil); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.Validation("dog", "name is required")
	}

	dog := &Dog{
		ID:              uuid.New(),
		Name:            strings.TrimSpace(req.Name),
		Breed:           strings.TrimSpace(req.Breed),
		AgeMonths:       req.AgeMonths,
		Gender:          parseGender(req.Gender),
		Size:            Size(req.Size),
		Status:          StatusReported,
		Location:        strings.TrimSpace(req.Location),
		PhotoURL:        req.PhotoURL,
		MedicalNotes:    req.MedicalNotes,
		TreatmentStatus: TreatmentPending,
	}
	if actor.Role == authz.RoleOrganizationAdmin {
		id := actor.ID
		dog.CreatedBy = &id
	}

	if err := s.repo.Create(ctx, dog); err != nil {
		return nil, err
	}
	return dog, nil
}

// Get returns one dog.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Dog, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns dogs matching the filter.
func (s *Service) List(ctx context.Context, filter Filter) ([]Dog, error) {
	return s.repo.List(ctx, filter)
}

// Update applies a partial edit. Adopted dogs are final; a status patch may
// move the case between working states but never into or out of adopted.
func (s *Service) Update(ctx context.Context, actor authz.Actor, id uuid.UUID, req UpdateDogRequest) (*Dog, error) {
	if err := authz.Authorize(actor, authz.ActionManageDogs, nil); err != nil {
		return nil, err
	}

	dog, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if dog.Status == StatusAdopted {
		return nil, apperrors.Conflict("dog", "dog record is final after adoption")
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, apperrors.Validation("dog", "name cannot be empty")
		}
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Breed != nil {
		fields["breed"] = strings.TrimSpace(*req.Breed)
	}
	if req.AgeMonths != nil {
		fields["age_months"] = *req.AgeMonths
	}
	if req.Gender != nil {
		fields["gender"] = parseGender(*req.Gender)
	}
	if req.Size != nil {
		fields["size"] = Size(*req.Size)
	}
	if req.Location != nil {
		fields["location"] = strings.TrimSpace(*req.Location)
	}
	if req.PhotoURL != nil {
		fields["photo_url"] = *req.PhotoURL
	}
	if req.MedicalNotes != nil {
		fields["medical_notes"] = *req.MedicalNotes
	}
	if req.Status != nil {
		target := Status(*req.Status)
		if target != dog.Status {
			if !statusMachine.IsKnown(target) || target == StatusAdopted {
				return nil, apperrors.Validationf("dog", "status %q cannot be set directly", *req.Status)
			}
			if !statusMachine.CanTransition(dog.Status, target) {
				return nil, apperrors.Conflict("dog", "illegal status transition")
			}
			fields["status"] = target
		}
	}
	if len(fields) == 0 {
		return dog, nil
	}

	if err := s.repo.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Delete removes a non-adopted dog.
func (s *Service) Delete(ctx context.Context, actor authz.Actor, id uuid.UUID) error {
	if err := authz.Authorize(actor, authz.ActionManageDogs, nil); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// AssignVet sets or clears the assigned veterinarian. A newly assigned vet
// starts with treatment pending; unassigning leaves treatment state alone.
func (s *Service) AssignVet(ctx context.Context, actor authz.Actor, id uuid.UUID, vetID *uuid.UUID) (*Dog, error) {
	if err := authz.Authorize(actor, authz.ActionManageDogs, nil); err != nil {
		return nil, err
	}

	dog, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if dog.Status == StatusAdopted {
		return nil, apperrors.Conflict("dog", "dog record is final after adoption")
	}

	fields := map[string]interface{}{"assigned_vet": vetID}
	newVet := vetID != nil && (dog.AssignedVet == nil || *dog.AssignedVet != *vetID)
	if newVet {
		fields["treatment_status"] = TreatmentPending
	}

	if err := s.repo.Update(ctx, id, fields); err != nil {
		return nil, err
	}

	if newVet {
		s.notifier.Dispatch(ctx, notifications.Event{
			AccountID: *vetID,
			Type:      notifications.TypeReport,
			Title:     "New case assigned",
			Message:   "You were assigned as the treating veterinarian for " + dog.Name + ".",
			Link:      "/dogs/" + dog.ID.String(),
		})
	}

	return s.repo.GetByID(ctx, id)
}

// UpdateTreatment records treatment progress; only the assigned vet (or a
// superadmin) may call it. Corrections go in any direction, so the three
// treatment states are not a one-way chain.
func (s *Service) UpdateTreatment(ctx context.Context, actor authz.Actor, id uuid.UUID, req TreatmentUpdateRequest) (*Dog, error) {
	dog, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := authz.Authorize(actor, authz.ActionSetTreatment, authz.DogTarget{
		CreatedBy:   dog.CreatedBy,
		AssignedVet: dog.AssignedVet,
	}); err != nil {
		return nil, err
	}

	status := TreatmentStatus(req.Status)
	if !treatmentStatuses[status] {
		return nil, apperrors.Validationf("dog", "unknown treatment status %q", req.Status)
	}

	fields := map[string]interface{}{"treatment_status": status}
	if req.Vaccinated != nil {
		fields["vaccinated"] = *req.Vaccinated
	}
	if req.Sterilized != nil {
		fields["sterilized"] = *req.Sterilized
	}
	if req.Notes != nil {
		fields["medical_notes"] = *req.Notes
	}

	if err := s.repo.Update(ctx, id, fields); err != nil {
		return nil, err
	}

	if status == TreatmentCompleted && dog.CreatedBy != nil {
		s.notifier.Dispatch(ctx, notifications.Event{
			AccountID: *dog.CreatedBy,
			Type:      notifications.TypeReport,
			Title:     "Treatment completed",
			Message:   dog.Name + " has completed treatment.",
			Link:      "/dogs/" + dog.ID.String(),
		})
	}

	return s.repo.GetByID(ctx, id)
}

func parseGender(s string) Gender {
	switch Gender(strings.ToLower(strings.TrimSpace(s))) {
	case GenderMale:
		return GenderMale
	case GenderFemale:
		return GenderFemale
	default:
		return GenderUnknown
	}
}
