package entity

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType categorizes a notification for client-side display
type NotificationType string

const (
	NotificationTypeInfo        NotificationType = "info"
	NotificationTypeAppointment NotificationType = "appointment"
	NotificationTypeOrder       NotificationType = "order"
)

// Notification is a user-visible message row. Delivery is just the insert;
// clients poll their own list.
type Notification struct {
	ID        int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	Title     string           `gorm:"type:varchar(255);not null" json:"title"`
	Message   string           `gorm:"type:text;not null" json:"message"`
	Type      NotificationType `gorm:"type:varchar(30);not null;default:'info'" json:"type"`
	IsRead    bool             `gorm:"not null;default:false;index" json:"is_read"`
	CreatedAt time.Time        `gorm:"autoCreateTime;index" json:"created_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}
