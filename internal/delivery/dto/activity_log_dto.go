package dto

import (
	"time"

	"clinic-management-server/internal/domain/entity"
)

// Response DTOs

type ActivityLogResponse struct {
	ID        int64       `json:"id"`
	UserName  string      `json:"user_name,omitempty"`
	UserRole  string      `json:"user_role,omitempty"`
	Action    string      `json:"action"`
	Metadata  entity.JSON `json:"metadata,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

type ActivityLogListResponse struct {
	Logs  []ActivityLogResponse `json:"logs"`
	Total int64                 `json:"total"`
}
