package service

import (
	"context"
	"errors"
	"testing"

	"clinic-management-server/internal/domain/entity"

	"github.com/google/uuid"
)

type recordingNotificationRepo struct {
	notifications []entity.Notification
	err           error
}

func (r *recordingNotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	if r.err != nil {
		return r.err
	}
	r.notifications = append(r.notifications, *n)
	return nil
}

func (r *recordingNotificationRepo) FindByUserID(ctx context.Context, userID uuid.UUID) ([]entity.Notification, error) {
	return r.notifications, nil
}

func (r *recordingNotificationRepo) MarkRead(ctx context.Context, id int64, userID uuid.UUID) (int64, error) {
	return 0, nil
}

func (r *recordingNotificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return nil
}

func TestNotificationServiceNotify(t *testing.T) {
	repo := &recordingNotificationRepo{}
	svc := NewNotificationService(newTestLogger(), repo)
	userID := uuid.New()

	svc.Notify(context.Background(), userID, "Appointment booked", "See you Monday", entity.NotificationTypeAppointment)

	if len(repo.notifications) != 1 {
		t.Fatalf("notifications = %d, want 1", len(repo.notifications))
	}
	n := repo.notifications[0]
	if n.UserID != userID {
		t.Errorf("UserID = %v, want %v", n.UserID, userID)
	}
	if n.Type != entity.NotificationTypeAppointment {
		t.Errorf("Type = %q, want %q", n.Type, entity.NotificationTypeAppointment)
	}
	if n.IsRead {
		t.Error("IsRead = true, want false for a fresh notification")
	}
}

func TestNotificationServiceSwallowsFailures(t *testing.T) {
	repo := &recordingNotificationRepo{err: errors.New("insert failed")}
	svc := NewNotificationService(newTestLogger(), repo)

	svc.Notify(context.Background(), uuid.New(), "Title", "Message", entity.NotificationTypeInfo)

	if len(repo.notifications) != 0 {
		t.Errorf("notifications = %d, want 0", len(repo.notifications))
	}
}
