package repository

import (
	"context"
	"errors"

	"clinic-management-server/internal/domain/entity"
	domainRepo "clinic-management-server/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type medicineOrderRepository struct {
	db *gorm.DB
}

func NewMedicineOrderRepository(db *gorm.DB) domainRepo.MedicineOrderRepository {
	return &medicineOrderRepository{db: db}
}

func (r *medicineOrderRepository) Create(ctx context.Context, order *entity.MedicineOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *medicineOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.MedicineOrder, error) {
	var order entity.MedicineOrder
	err := r.db.WithContext(ctx).
		Preload("Medicine").
		Preload("Patient.User").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *medicineOrderRepository) FindByPatientID(ctx context.Context, patientID uuid.UUID) ([]entity.MedicineOrder, error) {
	var orders []entity.MedicineOrder
	err := r.db.WithContext(ctx).
		Preload("Medicine").
		Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *medicineOrderRepository) FindAll(ctx context.Context) ([]entity.MedicineOrder, error) {
	var orders []entity.MedicineOrder
	err := r.db.WithContext(ctx).
		Preload("Medicine").
		Preload("Patient.User").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus only moves orders that are still pending (prevents
// double-dispense and cancel-after-dispense races).
func (r *medicineOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.MedicineOrderStatus) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entity.MedicineOrder{}).
		Where("id = ? AND status = ?", id, entity.MedicineOrderStatusPending).
		Update("status", status)
	return result.RowsAffected, result.Error
}
