package service

import (
	"context"

	"plume/internal/models"
	"plume/internal/repository"
)

// NotificationService reads and clears the notification ledger.
// Notifications are written by EngagementService during fan-out.
type NotificationService struct {
	notifRepo repository.NotificationRepository
}

// NewNotificationService returns a new NotificationService.
func NewNotificationService(notifRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notifRepo: notifRepo}
}

// List returns all notifications addressed to the user, newest first, and
// marks every currently-unread one read within the same call. The returned
// items carry their pre-read state so clients can highlight what was new.
func (s *NotificationService) List(ctx context.Context, userID uint) ([]models.Notification, error) {
	notifications, err := s.notifRepo.ListByRecipient(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.notifRepo.MarkAllRead(ctx, userID); err != nil {
		return nil, err
	}

	return notifications, nil
}

// Clear deletes every notification addressed to the user.
func (s *NotificationService) Clear(ctx context.Context, userID uint) error {
	return s.notifRepo.ClearByRecipient(ctx, userID)
}
