package service

import (
	"context"

	"taskboard/internal/apperr"
	"taskboard/internal/events"
	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type NotificationService struct {
	notifications repository.NotificationRepositoryInterface
	bus           *events.Bus
	log           *logrus.Logger
}

var _ Notifier = (*NotificationService)(nil)

func NewNotificationService(
	notifications repository.NotificationRepositoryInterface,
	bus *events.Bus,
	log *logrus.Logger,
) *NotificationService {
	return &NotificationService{notifications: notifications, bus: bus, log: log}
}

// Notify stores the notification and publishes it on the recipient's
// private channel. Failures are logged and swallowed; the triggering
// mutation has already succeeded and must not be affected.
func (s *NotificationService) Notify(ctx context.Context, n *model.Notification) {
	if err := s.notifications.Create(ctx, n); err != nil {
		s.log.WithFields(logrus.Fields{"recipient_id": n.RecipientID, "type": n.Type}).
			WithError(err).Warn("notification write failed")
		return
	}
	s.bus.Publish(events.TopicNotification, events.Scope(n.RecipientID), n)
}

func (s *NotificationService) List(ctx context.Context, caller *model.User) ([]model.Notification, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	return s.notifications.ListByRecipient(ctx, caller.ID)
}

func (s *NotificationService) UnreadCount(ctx context.Context, caller *model.User) (int64, error) {
	if err := requireCaller(caller); err != nil {
		return 0, err
	}
	return s.notifications.CountUnread(ctx, caller.ID)
}

func (s *NotificationService) MarkRead(ctx context.Context, caller *model.User, id uuid.UUID) (*model.Notification, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	n, err := s.notifications.GetByID(ctx, id, caller.ID)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, apperr.NotFound("Notification")
	}
	if err := s.notifications.MarkRead(ctx, id); err != nil {
		return nil, err
	}
	return s.notifications.GetByID(ctx, id, caller.ID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, caller *model.User) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	return s.notifications.MarkAllRead(ctx, caller.ID)
}

func (s *NotificationService) Delete(ctx context.Context, caller *model.User, id uuid.UUID) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	n, err := s.notifications.GetByID(ctx, id, caller.ID)
	if err != nil {
		return err
	}
	if n == nil {
		return apperr.NotFound("Notification")
	}
	return s.notifications.SoftDelete(ctx, id)
}
