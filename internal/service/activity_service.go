package service

import (
	"context"

	"clinic-management-server/internal/domain/entity"
	"clinic-management-server/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ActivityService appends audit trail entries. Recording is best-effort: a
// failed insert is logged and swallowed so it can never fail the operation
// that triggered it.
type ActivityService struct {
	log          *logrus.Logger
	activityRepo repository.ActivityLogRepository
}

func NewActivityService(log *logrus.Logger, activityRepo repository.ActivityLogRepository) *ActivityService {
	return &ActivityService{
		log:          log,
		activityRepo: activityRepo,
	}
}

// Record appends one activity entry for the given actor.
func (s *ActivityService) Record(ctx context.Context, actorID uuid.UUID, action string, metadata entity.JSON) {
	entry := &entity.ActivityLog{
		UserID:   &actorID,
		Action:   action,
		Metadata: metadata,
	}

	if err := s.activityRepo.Create(ctx, entry); err != nil {
		s.log.Warnf("Failed to record activity %q for user %s: %+v", action, actorID, err)
	}
}
