package accounts

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"straypaws/rescue-portal/rescue-portal-backend/internal/authz"
	"straypaws/rescue-portal/rescue-portal-backend/internal/notifications"
	"straypaws/rescue-portal/rescue-portal-backend/pkg/apperrors"
	"straypaws/rescue-portal/rescue-portal-backend/pkg/security"
	"straypaws/rescue-portal/rescue-portal-backend/pkg/storage"
)

// Notifier drains post-commit notification events.
type Notifier interface {
	Dispatch(ctx context.Context, events ...notifications.Event)
}

// Service provides account, verification and password-reset business logic.
type Service struct {
	repo     Repository
	hasher   security.PasswordHasher
	tokens   security.TokenIssuer
	store    storage.ObjectStore
	notifier Notifier
	logger   *zap.Logger

	resetTTL time.Duration
	now      func() time.Time
}

// NewService creates a new account service.
func NewService(repo Repository, hasher security.PasswordHasher, tokens security.TokenIssuer,
	store storage.ObjectStore, notifier Notifier, resetTTL time.Duration, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		hasher:   hasher,
		tokens:   tokens,
		store:    store,
		notifier: notifier,
		logger:   logger,
		resetTTL: resetTTL,
		now:      time.Now,
	}
}

var registerableRoles = map[authz.Role]bool{
	authz.RoleVolunteer:         true,
	authz.RoleOrganizationAdmin: true,
	authz.RoleVeterinarian:      true,
	authz.RoleAdopter:           true,
}

// Register creates an account. Gated roles start unverified: pending when a
// verification document came with the registration, unsubmitted otherwise.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Account, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.Validation("account", "a valid email is required")
	}
	if len(req.Password) < 8 {
		return nil, apperrors.Validation("account", "password must be at least 8 characters")
	}
	if strings.TrimSpace(req.FullName) == "" {
		return nil, apperrors.Validation("account", "full name is required")
	}
	role := authz.Role(req.Role)
	if !registerableRoles[role] {
		return nil, apperrors.Validationf("account", "role %q cannot be registered", req.Role)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &Account{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(req.FullName),
		Phone:        strings.TrimSpace(req.Phone),
		Role:         role,
	}

	if authz.IsGated(role) {
		status := VerificationUnsubmitted
		if strings.TrimSpace(req.DocumentURL) != "" {
			status = VerificationPending
			account.VerificationDocURL = strings.TrimSpace(req.DocumentURL)
		}
		account.VerificationStatus = &status
	}

	if err := s.repo.Create(ctx, account); err != nil {
		return nil, err
	}

	s.notifier.Dispatch(ctx, notifications.Event{
		AccountID: account.ID,
		Type:      notifications.TypeAccount,
		Title:     "Welcome to StrayPaws",
		Message:   welcomeMessage(account),
		EmailTo:   account.Email,
	})

	return account, nil
}

func welcomeMessage(a *Account) string {
	if a.VerificationStatus != nil && *a.VerificationStatus != VerificationApproved {
		return "Your registration was received. Your account will be reviewed before you can sign in."
	}
	return "Your account is ready."
}

// Login verifies credentials and the verification gate, then issues a
// session token. Each unverified state gets its own refusal so the caller
// knows what to fix.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.Authorization("invalid email or password")
		}
		return nil, err
	}

	if !s.hasher.Verify(account.PasswordHash, req.Password) {
		return nil, apperrors.Authorization("invalid email or password")
	}

	if err := s.checkVerificationGate(account); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(account.ID.String(), string(account.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &LoginResponse{Token: token, Account: account}, nil
}

// checkVerificationGate refuses sessions for gated roles that are not
// approved. A nil status is a record from before gating existed and is
// let through.
func (s *Service) checkVerificationGate(account *Account) error {
	if !authz.IsGated(account.Role) || account.VerificationStatus == nil {
		return nil
	}
	switch *account.VerificationStatus {
	case VerificationApproved:
		return nil
	case VerificationPending:
		return apperrors.Authorization("account verification is pending review")
	case VerificationRejected:
		msg := "account verification was rejected"
		if account.RejectionReason != "" {
			msg = msg + ": " + account.RejectionReason
		}
		return apperrors.Authorization(msg)
	case VerificationUnsubmitted:
		return apperrors.Authorization("verification documents have not been submitted")
	default:
		return apperrors.Authorization("account is not verified")
	}
}

// SubmitVerificationDocument uploads the document and moves the account to
// pending review.
func (s *Service) SubmitVerificationDocument(ctx context.Context, accountID uuid.UUID, filename, contentType string, content io.Reader) (string, error) {
	account, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		return "", err
	}
	if !authz.IsGated(account.Role) {
		return "", apperrors.Conflict("account", "this role does not require verification")
	}

	key := fmt.Sprintf("verification/%s/%d-%s", accountID, s.now().Unix(), filename)
	url, err := s.store.Upload(ctx, key, contentType, content)
	if err != nil {
		return "", apperrors.Collaborator("object-store", err)
	}

	if err := s.repo.SetDocumentSubmitted(ctx, accountID, url); err != nil {
		return "", err
	}
	return url, nil
}

// ListPendingVerification returns gated accounts awaiting review.
func (s *Service) ListPendingVerification(ctx context.Context, actor authz.Actor) ([]Account, error) {
	if err := authz.Authorize(actor, authz.ActionReviewAccounts, nil); err != nil {
		return nil, err
	}
	return s.repo.ListPendingVerification(ctx)
}

// Approve moves a pending account to approved and notifies it by email.
func (s *Service) Approve(ctx context.Context, actor authz.Actor, accountID uuid.UUID) (*Account, error) {
	return s.review(ctx, actor, accountID, VerificationApproved, "")
}

// Reject moves a pending account to rejected, recording the reason.
func (s *Service) Reject(ctx context.Context, actor authz.Actor, accountID uuid.UUID, reason string) (*Account, error) {
	return s.review(ctx, actor, accountID, VerificationRejected, reason)
}

func (s *Service) review(ctx context.Context, actor authz.Actor, accountID uuid.UUID, status VerificationStatus, reason string) (*Account, error) {
	if err := authz.Authorize(actor, authz.ActionReviewAccounts, nil); err != nil {
		return nil, err
	}

	account, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetVerification(ctx, accountID, status, reason); err != nil {
		return nil, err
	}
	account.VerificationStatus = &status
	account.RejectionReason = reason

	title := "Your account was approved"
	message := "Your organization account has been approved. You can now sign in."
	if status == VerificationRejected {
		title = "Your account was not approved"
		message = "Your registration was reviewed and not approved."
		if reason != "" {
			message = message + " Reason: " + reason
		}
	}
	s.notifier.Dispatch(ctx, notifications.Event{
		AccountID: account.ID,
		Type:      notifications.TypeAccount,
		Title:     title,
		Message:   message,
		EmailTo:   account.Email,
	})

	return account, nil
}

// RequestPasswordReset creates a fresh challenge and attempts delivery. The
// caller gets the same opaque success whether or not the account exists, so
// the endpoint cannot be used to enumerate emails. Superadmins are excluded
// from self-service reset.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil
		}
		return err
	}
	if account.Role == authz.RoleSuperadmin {
		return nil
	}

	if err := s.repo.InvalidateChallenges(ctx, account.ID); err != nil {
		return err
	}

	code, err := security.GenerateResetCode()
	if err != nil {
		return fmt.Errorf("failed to generate reset code: %w", err)
	}

	ch := &PasswordResetChallenge{
		ID:        uuid.New(),
		AccountID: account.ID,
		Email:     account.Email,
		Code:      code,
		ExpiresAt: s.now().Add(s.resetTTL),
	}
	if err := s.repo.CreateChallenge(ctx, ch); err != nil {
		return err
	}

	s.notifier.Dispatch(ctx, notifications.Event{
		AccountID: account.ID,
		Type:      notifications.TypeAccount,
		Title:     "Password reset code",
		Message:   fmt.Sprintf("Your password reset code is %s. It expires in %d minutes.", code, int(s.resetTTL.Minutes())),
		EmailTo:   account.Email,
	})

	return nil
}

// ConfirmPasswordReset spends the challenge and updates the credential hash.
func (s *Service) ConfirmPasswordReset(ctx context.Context, req ConfirmResetRequest) error {
	if len(req.NewPassword) < 8 {
		return apperrors.Validation("account", "password must be at least 8 characters")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			// Same error as a bad code; the caller learns nothing about
			// which emails exist.
			return apperrors.Conflict("password_reset", "code is invalid, expired, or already used")
		}
		return err
	}
	if account.Role == authz.RoleSuperadmin {
		return apperrors.Conflict("password_reset", "code is invalid, expired, or already used")
	}

	if err := s.repo.ConsumeChallenge(ctx, account.ID, strings.TrimSpace(req.Code), s.now()); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.repo.UpdatePassword(ctx, account.ID, hash)
}

// GetAccount returns one account by id.
func (s *Service) GetAccount(ctx context.Context, id uuid.UUID) (*Account, error) {
	return s.repo.GetByID(ctx, id)
}
