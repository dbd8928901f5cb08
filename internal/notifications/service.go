package notifications

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"straypaws/rescue-portal/rescue-portal-backend/pkg/apperrors"
)

// Repository persists in-app notifications.
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]Notification, error)
	MarkRead(ctx context.Context, id, accountID uuid.UUID) error
}

// Pusher delivers a notification to live websocket connections.
type Pusher interface {
	SendToAccount(accountID string, n Notification) error
}

// EmailSender delivers an outbound email, fire-and-forget.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Preferences answers whether an account wants email delivery.
type Preferences interface {
	EmailEnabled(ctx context.Context, accountID uuid.UUID) bool
}

// Dispatcher drains post-commit event lists. Delivery is best-effort: every
// failure is logged and swallowed, never propagated to the caller.
type Dispatcher struct {
	repo   Repository
	pusher Pusher
	email  EmailSender
	prefs  Preferences
	logger *zap.Logger
}

// NewDispatcher creates a notification dispatcher.
func NewDispatcher(repo Repository, pusher Pusher, email EmailSender, prefs Preferences, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		repo:   repo,
		pusher: pusher,
		email:  email,
		prefs:  prefs,
		logger: logger,
	}
}

// Dispatch delivers each event to its account. Called only after the primary
// transition has committed.
func (d *Dispatcher) Dispatch(ctx context.Context, events ...Event) {
	for _, ev := range events {
		d.dispatchOne(ctx, ev)
	}
}

func (d *Dispatcher) dispatchOne(ctx context.Context, ev Event) {
	n := Notification{
		ID:        uuid.New(),
		AccountID: ev.AccountID,
		Type:      ev.Type,
		Title:     ev.Title,
		Message:   ev.Message,
		Link:      ev.Link,
	}
	if len(ev.Metadata) > 0 {
		if data, err := json.Marshal(ev.Metadata); err == nil {
			n.Metadata = data
		}
	}

	if err := d.repo.Create(ctx, &n); err != nil {
		d.logger.Warn("failed to store in-app notification",
			zap.String("account_id", ev.AccountID.String()),
			zap.Error(apperrors.Collaborator("notification-store", err)))
	}

	if d.pusher != nil {
		if err := d.pusher.SendToAccount(ev.AccountID.String(), n); err != nil {
			d.logger.Debug("websocket push skipped",
				zap.String("account_id", ev.AccountID.String()),
				zap.Error(err))
		}
	}

	if ev.EmailTo == "" || d.email == nil {
		return
	}
	if d.prefs != nil && !d.prefs.EmailEnabled(ctx, ev.AccountID) {
		return
	}
	if err := d.email.Send(ctx, ev.EmailTo, ev.Title, ev.Message); err != nil {
		d.logger.Warn("failed to send notification email",
			zap.String("to", ev.EmailTo),
			zap.Error(apperrors.Collaborator("email", err)))
	}
}

// ListForAccount returns an account's in-app notifications, newest first.
func (d *Dispatcher) ListForAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return d.repo.ListByAccount(ctx, accountID, limit, offset)
}

// MarkRead marks one of the account's notifications as read.
func (d *Dispatcher) MarkRead(ctx context.Context, id, accountID uuid.UUID) error {
	return d.repo.MarkRead(ctx, id, accountID)
}
