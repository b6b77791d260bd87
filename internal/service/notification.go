package service

import (
	"context"

	"himpunan-backend/internal/domain"
	"himpunan-backend/internal/logger"
	"himpunan-backend/internal/repository"
)

// notifier records in-app notifications. Delivery failures never fail the
// operation that triggered them, so callers invoke it after their transaction.
type notifier struct {
	noteRepo repository.NotificationRepository
}

func (n notifier) send(ctx context.Context, note *domain.Notification) {
	if n.noteRepo == nil {
		return
	}
	if err := n.noteRepo.Create(ctx, note); err != nil {
		logger.Warn("Failed to create notification", "userID", note.UserID, "type", note.Type, "error", err)
	}
}

type notificationService struct {
	noteRepo repository.NotificationRepository
}

func NewNotificationService(noteRepo repository.NotificationRepository) NotificationService {
	return &notificationService{noteRepo: noteRepo}
}

func (s *notificationService) GetNotifications(ctx context.Context, actor domain.Actor, page, pageSize int32) ([]domain.Notification, int32, error) {
	page, pageSize = domain.NormalizePage(page, pageSize)
	return s.noteRepo.List(ctx, actor.UserID, pageSize, domain.Offset(page, pageSize))
}

func (s *notificationService) CountUnread(ctx context.Context, actor domain.Actor) (int32, error) {
	return s.noteRepo.CountUnread(ctx, actor.UserID)
}

func (s *notificationService) MarkAsRead(ctx context.Context, actor domain.Actor, notificationID int32) error {
	return s.noteRepo.MarkAsRead(ctx, notificationID, actor.UserID)
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, actor domain.Actor) (int64, error) {
	return s.noteRepo.MarkAllAsRead(ctx, actor.UserID)
}

func (s *notificationService) DeleteNotification(ctx context.Context, actor domain.Actor, notificationID int32) error {
	return s.noteRepo.Delete(ctx, notificationID, actor.UserID)
}
