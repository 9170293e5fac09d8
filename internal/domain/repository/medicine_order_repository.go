package repository

import (
	"context"

	"clinic-management-server/internal/domain/entity"

	"github.com/google/uuid"
)

type MedicineOrderRepository interface {
	Create(ctx context.Context, order *entity.MedicineOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.MedicineOrder, error)
	FindByPatientID(ctx context.Context, patientID uuid.UUID) ([]entity.MedicineOrder, error)
	FindAll(ctx context.Context) ([]entity.MedicineOrder, error)

	// UpdateStatus moves the order out of pending; conditional on the order
	// still being pending, returns affected rows.
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.MedicineOrderStatus) (int64, error)
}
