package settings

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// GetPreferences returns the account's preferences, defaulting to email on.
func (s *Service) GetPreferences(ctx context.Context, accountID uuid.UUID) (*NotificationPreferences, error) {
	prefs, err := s.repo.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if prefs == nil {
		return &NotificationPreferences{AccountID: accountID, EmailEnabled: true}, nil
	}
	return prefs, nil
}

// UpdatePreferences applies the patch and persists the result.
func (s *Service) UpdatePreferences(ctx context.Context, accountID uuid.UUID, req UpdatePreferencesRequest) (*NotificationPreferences, error) {
	prefs, err := s.GetPreferences(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if req.EmailEnabled != nil {
		prefs.EmailEnabled = *req.EmailEnabled
	}
	if err := s.repo.Upsert(ctx, prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

// EmailEnabled implements the dispatcher's Preferences port. A lookup failure
// defaults to sending; missing a preference row must never block delivery.
func (s *Service) EmailEnabled(ctx context.Context, accountID uuid.UUID) bool {
	prefs, err := s.repo.Get(ctx, accountID)
	if err != nil {
		s.logger.Debug("preference lookup failed, defaulting to email on", zap.Error(err))
		return true
	}
	if prefs == nil {
		return true
	}
	return prefs.EmailEnabled
}
