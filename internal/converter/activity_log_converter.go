package converter

import (
	"clinic-management-server/internal/delivery/dto"
	"clinic-management-server/internal/domain/entity"
)

// ActivityLogsToResponses converts a slice of ActivityLog entities to slice of ActivityLogResponse DTOs
func ActivityLogsToResponses(logs []entity.ActivityLog) []dto.ActivityLogResponse {
	responses := make([]dto.ActivityLogResponse, len(logs))
	for i, log := range logs {
		response := dto.ActivityLogResponse{
			ID:        log.ID,
			Action:    log.Action,
			Metadata:  log.Metadata,
			CreatedAt: log.CreatedAt,
		}
		if log.User != nil {
			response.UserName = log.User.FullName
			response.UserRole = log.User.Role.RoleName
		}
		responses[i] = response
	}
	return responses
}
