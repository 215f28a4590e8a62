package services

import (
	"context"

	"gasflow/internal/models"
	"gasflow/internal/repository"
)

type NotificationService interface {
	List(ctx context.Context, userID string) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, userID, id string) error
	Delete(ctx context.Context, userID, id string) error
}

type notificationService struct {
	repos *repository.Repositories
}

func NewNotificationService(repos *repository.Repositories) NotificationService {
	return &notificationService{repos: repos}
}

func (s *notificationService) List(ctx context.Context, userID string) ([]models.Notification, error) {
	return s.repos.Notifications.GetByUserID(ctx, userID)
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, id string) error {
	if err := s.repos.Notifications.MarkAsRead(ctx, id, userID); err != nil {
		return wrapLookup(err, "notification")
	}
	return nil
}

func (s *notificationService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repos.Notifications.Delete(ctx, id, userID); err != nil {
		return wrapLookup(err, "notification")
	}
	return nil
}
