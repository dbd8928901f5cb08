package rescue

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"straypaws/rescue-portal/rescue-portal-backend/internal/authz"
	"straypaws/rescue-portal/rescue-portal-backend/internal/dogs"
	"straypaws/rescue-portal/rescue-portal-backend/internal/notifications"
	"straypaws/rescue-portal/rescue-portal-backend/pkg/apperrors"
)

// Notifier drains post-commit notification events.
type Notifier interface {
	Dispatch(ctx context.Context, events ...notifications.Event)
}

// Service handles street report intake and triage.
type Service struct {
	repo     Repository
	dogRepo  dogs.Repository
	notifier Notifier
	logger   *zap.Logger
}

// NewService creates a new rescue report service.
func NewService(repo Repository, dogRepo dogs.Repository, notifier Notifier, logger *zap.Logger) *Service {
	return &Service{repo: repo, dogRepo: dogRepo, notifier: notifier, logger: logger}
}

// Submit files a report. No account is required; anyone on the street with
// the public form can call this.
func (s *Service) Submit(ctx context.Context, req SubmitReportRequest) (*RescueReport, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, apperrors.Validation("rescue report", "description is required")
	}
	if strings.TrimSpace(req.Location) == "" {
		return nil, apperrors.Validation("rescue report", "location is required")
	}
	urgency := Urgency(req.Urgency)
	if req.Urgency == "" {
		urgency = UrgencyMedium
	} else if !urgencies[urgency] {
		return nil, apperrors.Validationf("rescue report", "unknown urgency %q", req.Urgency)
	}

	report := &RescueReport{
		ID:              uuid.New(),
		Description:     strings.TrimSpace(req.Description),
		Location:        strings.TrimSpace(req.Location),
		Urgency:         urgency,
		Status:          StatusPending,
		ReporterName:    strings.TrimSpace(req.ReporterName),
		ReporterContact: strings.TrimSpace(req.ReporterContact),
		PhotoURL:        req.PhotoURL,
	}
	if err := s.repo.Create(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// Get returns one report.
func (s *Service) Get(ctx context.Context, actor authz.Actor, id uuid.UUID) (*RescueReport, error) {
	report, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeReportAccess(actor, report); err != nil {
		return nil, err
	}
	return report, nil
}

// authorizeReportAccess allows managers outright and volunteers only for
// reports assigned to them.
func authorizeReportAccess(actor authz.Actor, report *RescueReport) error {
	if err := authz.Authorize(actor, authz.ActionManageReports, nil); err == nil {
		return nil
	}
	return authz.Authorize(actor, authz.ActionViewAssignedReport, authz.ReportTarget{
		AssignedTo: report.AssignedTo,
	})
}

// List returns reports ordered by urgency, then recency. Volunteers only see
// reports assigned to them.
func (s *Service) List(ctx context.Context, actor authz.Actor, filter Filter) ([]RescueReport, error) {
	if actor.Role == authz.RoleVolunteer {
		id := actor.ID
		filter.AssignedTo = &id
	} else if err := authz.Authorize(actor, authz.ActionManageReports, nil); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, filter)
}

// SetStatus moves the report through triage; volunteers may advance their own
// assigned reports.
func (s *Service) SetStatus(ctx context.Context, actor authz.Actor, id uuid.UUID, target Status) (*RescueReport, error) {
	report, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeReportAccess(actor, report); err != nil {
		return nil, err
	}

	if !statusMachine.IsKnown(target) {
		return nil, apperrors.Validationf("rescue report", "unknown status %q", string(target))
	}
	if target == report.Status {
		return report, nil
	}
	if !statusMachine.CanTransition(report.Status, target) {
		return nil, apperrors.Conflict("rescue report", "illegal status transition")
	}

	if err := s.repo.SetStatus(ctx, id, report.Status, target); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Assign hands the report to a volunteer. A pending report becomes assigned;
// other working states keep their status.
func (s *Service) Assign(ctx context.Context, actor authz.Actor, id uuid.UUID, assignee *uuid.UUID) (*RescueReport, error) {
	if err := authz.Authorize(actor, authz.ActionManageReports, nil); err != nil {
		return nil, err
	}

	report, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if statusMachine.IsTerminal(report.Status) {
		return nil, apperrors.Conflict("rescue report", "report is closed")
	}

	if err := s.repo.SetAssignee(ctx, id, assignee); err != nil {
		return nil, err
	}
	if assignee != nil && report.Status == StatusPending {
		if err := s.repo.SetStatus(ctx, id, StatusPending, StatusAssigned); err != nil {
			return nil, err
		}
	}

	if assignee != nil {
		s.notifier.Dispatch(ctx, notifications.Event{
			AccountID: *assignee,
			Type:      notifications.TypeReport,
			Title:     "Rescue report assigned",
			Message:   "A " + string(report.Urgency) + " urgency report at " + report.Location + " was assigned to you.",
			Link:      "/reports/" + report.ID.String(),
		})
	}

	return s.repo.GetByID(ctx, id)
}

// Promote opens a dog case from the report. Promotion happens once; calling
// it again returns the dog created the first time.
func (s *Service) Promote(ctx context.Context, actor authz.Actor, id uuid.UUID, req PromoteRequest) (*dogs.Dog, error) {
	if err := authz.Authorize(actor, authz.ActionManageReports, nil); err != nil {
		return nil, err
	}

	report, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if report.DogID != nil {
		return s.dogRepo.GetByID(ctx, *report.DogID)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "Unnamed"
	}
	dog := &dogs.Dog{
		ID:              uuid.New(),
		Name:            name,
		Breed:           strings.TrimSpace(req.Breed),
		AgeMonths:       req.AgeMonths,
		Gender:          dogs.Gender(req.Gender),
		Size:            dogs.Size(req.Size),
		Status:          dogs.StatusReported,
		Location:        report.Location,
		PhotoURL:        report.PhotoURL,
		MedicalNotes:    report.Description,
		TreatmentStatus: dogs.TreatmentPending,
	}
	if dog.Gender == "" {
		dog.Gender = dogs.GenderUnknown
	}
	if actor.Role == authz.RoleOrganizationAdmin {
		adminID := actor.ID
		dog.CreatedBy = &adminID
	}

	if err := s.repo.Promote(ctx, id, dog); err != nil {
		// Lost a race with another promotion; surface the winner's dog.
		if apperrors.IsConflict(err) {
			if fresh, getErr := s.repo.GetByID(ctx, id); getErr == nil && fresh.DogID != nil {
				return s.dogRepo.GetByID(ctx, *fresh.DogID)
			}
		}
		return nil, err
	}
	return dog, nil
}
