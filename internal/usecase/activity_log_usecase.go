package usecase

import (
	"context"

	"clinic-management-server/internal/converter"
	"clinic-management-server/internal/delivery/dto"
	"clinic-management-server/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

type ActivityLogUsecase interface {
	ListActivityLogs(ctx context.Context, page, limit int) (*dto.ActivityLogListResponse, int64, error)
}

type activityLogUsecase struct {
	log          *logrus.Logger
	activityRepo repository.ActivityLogRepository
}

func NewActivityLogUsecase(log *logrus.Logger, activityRepo repository.ActivityLogRepository) ActivityLogUsecase {
	return &activityLogUsecase{
		log:          log,
		activityRepo: activityRepo,
	}
}

func (u *activityLogUsecase) ListActivityLogs(ctx context.Context, page, limit int) (*dto.ActivityLogListResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	logs, total, err := u.activityRepo.FindAll(ctx, limit, offset)
	if err != nil {
		u.log.Warnf("Failed to list activity logs: %+v", err)
		return nil, 0, err
	}

	return &dto.ActivityLogListResponse{
		Logs:  converter.ActivityLogsToResponses(logs),
		Total: total,
	}, total, nil
}
