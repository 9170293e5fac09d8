package service

import (
	"context"

	"clinic-management-server/internal/domain/entity"
	"clinic-management-server/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// NotificationService records user-visible messages. Like the activity
// recorder it is fire-and-forget: delivery is just a row insert and a failed
// insert never surfaces to the caller.
type NotificationService struct {
	log              *logrus.Logger
	notificationRepo repository.NotificationRepository
}

func NewNotificationService(log *logrus.Logger, notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{
		log:              log,
		notificationRepo: notificationRepo,
	}
}

// Notify inserts one notification row for the user.
func (s *NotificationService) Notify(ctx context.Context, userID uuid.UUID, title, message string, notifType entity.NotificationType) {
	notification := &entity.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    notifType,
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		s.log.Warnf("Failed to notify user %s (%s): %+v", userID, title, err)
	}
}
