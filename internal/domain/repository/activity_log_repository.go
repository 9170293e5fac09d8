package repository

import (
	"context"

	"clinic-management-server/internal/domain/entity"
)

type ActivityLogRepository interface {
	Create(ctx context.Context, log *entity.ActivityLog) error
	FindAll(ctx context.Context, limit, offset int) ([]entity.ActivityLog, int64, error)
}
