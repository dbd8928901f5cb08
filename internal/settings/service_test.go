package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryRepository struct {
	prefs  map[uuid.UUID]*NotificationPreferences
	getErr error
}

func (r *memoryRepository) Get(_ context.Context, accountID uuid.UUID) (*NotificationPreferences, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.prefs[accountID], nil
}

func (r *memoryRepository) Upsert(_ context.Context, prefs *NotificationPreferences) error {
	copied := *prefs
	r.prefs[prefs.AccountID] = &copied
	return nil
}

func TestPreferencesDefaultToEmailOn(t *testing.T) {
	repo := &memoryRepository{prefs: map[uuid.UUID]*NotificationPreferences{}}
	svc := NewService(repo, zap.NewNop())
	accountID := uuid.New()

	prefs, err := svc.GetPreferences(context.Background(), accountID)
	require.NoError(t, err)
	assert.True(t, prefs.EmailEnabled)
	assert.True(t, svc.EmailEnabled(context.Background(), accountID))
}

func TestUpdatePreferences(t *testing.T) {
	repo := &memoryRepository{prefs: map[uuid.UUID]*NotificationPreferences{}}
	svc := NewService(repo, zap.NewNop())
	accountID := uuid.New()

	off := false
	prefs, err := svc.UpdatePreferences(context.Background(), accountID, UpdatePreferencesRequest{
		EmailEnabled: &off,
	})
	require.NoError(t, err)
	assert.False(t, prefs.EmailEnabled)
	assert.False(t, svc.EmailEnabled(context.Background(), accountID))
}

func TestEmailEnabledDefaultsOnLookupFailure(t *testing.T) {
	repo := &memoryRepository{
		prefs:  map[uuid.UUID]*NotificationPreferences{},
		getErr: errors.New("db down"),
	}
	svc := NewService(repo, zap.NewNop())

	assert.True(t, svc.EmailEnabled(context.Background(), uuid.New()))
}
