package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MedicineOrderStatus represents the status of a medicine order
type MedicineOrderStatus string

const (
	MedicineOrderStatusPending   MedicineOrderStatus = "pending"
	MedicineOrderStatusDispensed MedicineOrderStatus = "dispensed"
	MedicineOrderStatusCancelled MedicineOrderStatus = "cancelled"
)

// MedicineOrder represents a patient's request for medicine. Stock is
// consumed at dispense time, not at order time.
type MedicineOrder struct {
	ID         uuid.UUID           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID  uuid.UUID           `gorm:"type:uuid;not null;index" json:"patient_id"`
	MedicineID uuid.UUID           `gorm:"type:uuid;not null;index" json:"medicine_id"`
	Quantity   int                 `gorm:"not null" json:"quantity"`
	TotalPrice decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"total_price"`
	Status     MedicineOrderStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt  time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time           `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient  PatientProfile `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Medicine Medicine       `gorm:"foreignKey:MedicineID" json:"medicine,omitempty"`
}

func (MedicineOrder) TableName() string {
	return "medicine_orders"
}

// IsPending checks if the order is still open
func (o *MedicineOrder) IsPending() bool {
	return o.Status == MedicineOrderStatusPending
}
