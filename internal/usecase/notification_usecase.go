package usecase

import (
	"context"
	"errors"

	"clinic-management-server/internal/converter"
	"clinic-management-server/internal/delivery/dto"
	"clinic-management-server/internal/domain/entity"
	"clinic-management-server/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationUsecase interface {
	ListNotifications(ctx context.Context, actor entity.Actor) (*dto.NotificationListResponse, error)
	MarkRead(ctx context.Context, actor entity.Actor, notificationID int64) error
	MarkAllRead(ctx context.Context, actor entity.Actor) error
}

type notificationUsecase struct {
	log              *logrus.Logger
	notificationRepo repository.NotificationRepository
}

func NewNotificationUsecase(log *logrus.Logger, notificationRepo repository.NotificationRepository) NotificationUsecase {
	return &notificationUsecase{
		log:              log,
		notificationRepo: notificationRepo,
	}
}

func (u *notificationUsecase) ListNotifications(ctx context.Context, actor entity.Actor) (*dto.NotificationListResponse, error) {
	notifications, err := u.notificationRepo.FindByUserID(ctx, actor.UserID)
	if err != nil {
		u.log.Warnf("Failed to list notifications: %+v", err)
		return nil, err
	}

	unread := 0
	for _, n := range notifications {
		if !n.IsRead {
			unread++
		}
	}

	return &dto.NotificationListResponse{
		Notifications: converter.NotificationsToResponses(notifications),
		Unread:        unread,
		Total:         len(notifications),
	}, nil
}

// MarkRead flips one notification. The update is scoped to the actor's own
// rows, so a zero row count means not found or not theirs.
func (u *notificationUsecase) MarkRead(ctx context.Context, actor entity.Actor, notificationID int64) error {
	rows, err := u.notificationRepo.MarkRead(ctx, notificationID, actor.UserID)
	if err != nil {
		u.log.Warnf("Failed to mark notification read: %+v", err)
		return err
	}
	if rows == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (u *notificationUsecase) MarkAllRead(ctx context.Context, actor entity.Actor) error {
	if err := u.notificationRepo.MarkAllRead(ctx, actor.UserID); err != nil {
		u.log.Warnf("Failed to mark all notifications read: %+v", err)
		return err
	}
	return nil
}
