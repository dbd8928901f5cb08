package adoptions

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"straypaws/rescue-portal/rescue-portal-backend/internal/accounts"
	"straypaws/rescue-portal/rescue-portal-backend/internal/authz"
	"straypaws/rescue-portal/rescue-portal-backend/internal/dogs"
	"straypaws/rescue-portal/rescue-portal-backend/internal/notifications"
	"straypaws/rescue-portal/rescue-portal-backend/pkg/apperrors"
	"straypaws/rescue-portal/rescue-portal-backend/pkg/pdf"
	"straypaws/rescue-portal/rescue-portal-backend/pkg/storage"
)

// Notifier drains post-commit notification events.
type Notifier interface {
	Dispatch(ctx context.Context, events ...notifications.Event)
}

// AccountDirectory resolves account details for certificates and emails.
type AccountDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*accounts.Account, error)
}

// Service handles adoption applications and decisions.
type Service struct {
	repo        Repository
	dogRepo     dogs.Repository
	accountRepo AccountDirectory
	certificate pdf.Generator
	store       storage.ObjectStore
	notifier    Notifier
	logger      *zap.Logger
	now         func() time.Time
}

// NewService creates a new adoption service.
func NewService(
	repo Repository,
	dogRepo dogs.Repository,
	accountRepo AccountDirectory,
	certificate pdf.Generator,
	store storage.ObjectStore,
	notifier Notifier,
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:        repo,
		dogRepo:     dogRepo,
		accountRepo: accountRepo,
		certificate: certificate,
		store:       store,
		notifier:    notifier,
		logger:      logger,
		now:         time.Now,
	}
}

// Submit files an application for an adoptable dog. The owning organization
// is captured on the application at this moment.
func (s *Service) Submit(ctx context.Context, actor authz.Actor, req SubmitApplicationRequest) (*AdoptionApplication, error) {
	if err := authz.Authorize(actor, authz.ActionSubmitApplication, nil); err != nil {
		return nil, err
	}
	if req.DogID == uuid.Nil {
		return nil, apperrors.Validation("adoption application", "dog_id is required")
	}
	if strings.TrimSpace(req.Motivation) == "" {
		return nil, apperrors.Validation("adoption application", "motivation is required")
	}

	dog, err := s.dogRepo.GetByID(ctx, req.DogID)
	if err != nil {
		return nil, err
	}
	if dog.Status != dogs.StatusAdoptable {
		return nil, apperrors.Conflict("adoption application", "dog is not currently available for adoption")
	}

	app := &AdoptionApplication{
		ID:          uuid.New(),
		DogID:       dog.ID,
		ApplicantID: actor.ID,
		NGOID:       dog.CreatedBy,
		Status:      StatusPending,
		Phone:       strings.TrimSpace(req.Phone),
		HomeType:    strings.TrimSpace(req.HomeType),
		HasYard:     req.HasYard,
		OtherPets:   strings.TrimSpace(req.OtherPets),
		Experience:  strings.TrimSpace(req.Experience),
		Motivation:  strings.TrimSpace(req.Motivation),
		SubmittedAt: s.now(),
	}
	if err := s.repo.Create(ctx, app); err != nil {
		return nil, err
	}

	events := []notifications.Event{{
		AccountID: actor.ID,
		Type:      notifications.TypeApplication,
		Title:     "Application received",
		Message:   "Your application to adopt " + dog.Name + " was received and is pending review.",
		Link:      "/applications/" + app.ID.String(),
	}}
	if app.NGOID != nil {
		events = append(events, notifications.Event{
			AccountID: *app.NGOID,
			Type:      notifications.TypeApplication,
			Title:     "New adoption application",
			Message:   "A new application for " + dog.Name + " is awaiting review.",
			Link:      "/applications/" + app.ID.String(),
		})
	}
	s.notifier.Dispatch(ctx, events...)

	return app, nil
}

// Get returns one application to its applicant, its owning organization, or a
// superadmin.
func (s *Service) Get(ctx context.Context, actor authz.Actor, id uuid.UUID) (*AdoptionApplication, error) {
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(actor, app) {
		return nil, apperrors.Authorization("application belongs to someone else")
	}
	return app, nil
}

// List scopes results to what the actor is allowed to see.
func (s *Service) List(ctx context.Context, actor authz.Actor, filter Filter) ([]AdoptionApplication, error) {
	switch actor.Role {
	case authz.RoleSuperadmin:
	case authz.RoleOrganizationAdmin:
		id := actor.ID
		filter.NGOID = &id
	default:
		id := actor.ID
		filter.ApplicantID = &id
	}
	return s.repo.List(ctx, filter)
}

// StartReview marks a pending application as being reviewed.
func (s *Service) StartReview(ctx context.Context, actor authz.Actor, id uuid.UUID) (*AdoptionApplication, error) {
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.ActionDecideApplication, authz.ApplicationTarget{
		NGOID:       app.NGOID,
		ApplicantID: app.ApplicantID,
	}); err != nil {
		return nil, err
	}
	if !statusMachine.CanTransition(app.Status, StatusUnderReview) {
		return nil, apperrors.Conflict("adoption application", "application has already been decided")
	}

	if err := s.repo.StartReview(ctx, id, actor.ID, s.now()); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Approve finalizes the application, adopts the dog, and issues a
// certificate. Certificate generation is best effort; the adoption stands
// even if rendering or upload fails.
func (s *Service) Approve(ctx context.Context, actor authz.Actor, id uuid.UUID, notes string) (*AdoptionApplication, error) {
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.ActionDecideApplication, authz.ApplicationTarget{
		NGOID:       app.NGOID,
		ApplicantID: app.ApplicantID,
	}); err != nil {
		return nil, err
	}
	if !statusMachine.CanTransition(app.Status, StatusApproved) {
		return nil, apperrors.Conflict("adoption application", "application has already been decided")
	}

	decidedAt := s.now()
	if err := s.repo.Approve(ctx, id, actor.ID, notes, decidedAt); err != nil {
		return nil, err
	}

	dog, err := s.dogRepo.GetByID(ctx, app.DogID)
	if err != nil {
		return nil, err
	}

	certificateURL := s.issueCertificate(ctx, app, dog, decidedAt)

	s.notifier.Dispatch(ctx, notifications.Event{
		AccountID: app.ApplicantID,
		Type:      notifications.TypeDecision,
		Title:     "Adoption approved",
		Message:   "Congratulations, your application to adopt " + dog.Name + " was approved.",
		Link:      certificateOrAppLink(certificateURL, app.ID),
		EmailTo:   s.applicantEmail(ctx, app.ApplicantID),
	})

	return s.repo.GetByID(ctx, id)
}

// Reject finalizes the application without touching the dog, so sibling
// applications stay decidable.
func (s *Service) Reject(ctx context.Context, actor authz.Actor, id uuid.UUID, notes string) (*AdoptionApplication, error) {
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.ActionDecideApplication, authz.ApplicationTarget{
		NGOID:       app.NGOID,
		ApplicantID: app.ApplicantID,
	}); err != nil {
		return nil, err
	}
	if !statusMachine.CanTransition(app.Status, StatusRejected) {
		return nil, apperrors.Conflict("adoption application", "application has already been decided")
	}

	if err := s.repo.Reject(ctx, id, actor.ID, notes, s.now()); err != nil {
		return nil, err
	}

	s.notifier.Dispatch(ctx, notifications.Event{
		AccountID: app.ApplicantID,
		Type:      notifications.TypeDecision,
		Title:     "Adoption application update",
		Message:   "Your adoption application was not approved this time.",
		Link:      "/applications/" + app.ID.String(),
		EmailTo:   s.applicantEmail(ctx, app.ApplicantID),
	})

	return s.repo.GetByID(ctx, id)
}

func (s *Service) issueCertificate(ctx context.Context, app *AdoptionApplication, dog *dogs.Dog, adoptedAt time.Time) string {
	data := pdf.CertificateData{
		DogName:   dog.Name,
		AdoptedAt: adoptedAt,
	}
	if adopter, err := s.accountRepo.GetByID(ctx, app.ApplicantID); err == nil {
		data.AdopterName = adopter.FullName
	}
	if app.NGOID != nil {
		if org, err := s.accountRepo.GetByID(ctx, *app.NGOID); err == nil {
			data.Organization = org.FullName
		}
	}

	rendered, err := s.certificate.AdoptionCertificate(data)
	if err != nil {
		s.logger.Error("failed to render adoption certificate",
			zap.String("application_id", app.ID.String()), zap.Error(err))
		return ""
	}

	key := fmt.Sprintf("certificates/%s.pdf", app.ID)
	url, err := s.store.Upload(ctx, key, "application/pdf", bytes.NewReader(rendered))
	if err != nil {
		s.logger.Error("failed to upload adoption certificate",
			zap.String("application_id", app.ID.String()), zap.Error(err))
		return ""
	}

	if err := s.repo.SetCertificateURL(ctx, app.ID, url); err != nil {
		s.logger.Error("failed to record certificate url",
			zap.String("application_id", app.ID.String()), zap.Error(err))
	}
	return url
}

func (s *Service) applicantEmail(ctx context.Context, applicantID uuid.UUID) string {
	account, err := s.accountRepo.GetByID(ctx, applicantID)
	if err != nil {
		return ""
	}
	return account.Email
}

func canView(actor authz.Actor, app *AdoptionApplication) bool {
	if actor.Role == authz.RoleSuperadmin {
		return true
	}
	if app.ApplicantID == actor.ID {
		return true
	}
	return actor.Role == authz.RoleOrganizationAdmin && app.NGOID != nil && *app.NGOID == actor.ID
}

func certificateOrAppLink(certificateURL string, appID uuid.UUID) string {
	if certificateURL != "" {
		return certificateURL
	}
	return "/applications/" + appID.String()
}
