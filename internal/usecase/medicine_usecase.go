package usecase

import (
	"context"
	"errors"

	"clinic-management-server/internal/converter"
	"clinic-management-server/internal/delivery/dto"
	"clinic-management-server/internal/domain/entity"
	"clinic-management-server/internal/domain/repository"
	"clinic-management-server/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrMedicineNotFound = errors.New("medicine not found")
	ErrMedicineInUse    = errors.New("medicine is referenced by existing orders")
)

type MedicineUsecase interface {
	CreateMedicine(ctx context.Context, actor entity.Actor, req *dto.CreateMedicineRequest) (*dto.MedicineResponse, error)
	UpdateMedicine(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.UpdateMedicineRequest) (*dto.MedicineResponse, error)
	DeleteMedicine(ctx context.Context, actor entity.Actor, id uuid.UUID) error
	GetMedicine(ctx context.Context, id uuid.UUID) (*dto.MedicineResponse, error)
	ListMedicines(ctx context.Context, page, limit int) (*dto.MedicineListResponse, int64, error)
}

type medicineUsecase struct {
	log             *logrus.Logger
	medicineRepo    repository.MedicineRepository
	activityService *service.ActivityService
}

func NewMedicineUsecase(
	log *logrus.Logger,
	medicineRepo repository.MedicineRepository,
	activityService *service.ActivityService,
) MedicineUsecase {
	return &medicineUsecase{
		log:             log,
		medicineRepo:    medicineRepo,
		activityService: activityService,
	}
}

func (u *medicineUsecase) CreateMedicine(ctx context.Context, actor entity.Actor, req *dto.CreateMedicineRequest) (*dto.MedicineResponse, error) {
	medicine := &entity.Medicine{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	}

	if err := u.medicineRepo.Create(ctx, medicine); err != nil {
		u.log.Warnf("Failed to create medicine: %+v", err)
		return nil, err
	}

	u.activityService.Record(ctx, actor.UserID, entity.ActivityActionMedicineCreate, entity.JSON{
		"medicine_id": medicine.ID.String(),
		"name":        medicine.Name,
	})

	return converter.MedicineToResponse(medicine), nil
}

func (u *medicineUsecase) UpdateMedicine(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.UpdateMedicineRequest) (*dto.MedicineResponse, error) {
	medicine, err := u.medicineRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find medicine: %+v", err)
		return nil, err
	}
	if medicine == nil {
		return nil, ErrMedicineNotFound
	}

	medicine.Name = req.Name
	medicine.Description = req.Description
	medicine.Price = req.Price
	medicine.Stock = req.Stock

	if err := u.medicineRepo.Update(ctx, medicine); err != nil {
		u.log.Warnf("Failed to update medicine: %+v", err)
		return nil, err
	}

	u.activityService.Record(ctx, actor.UserID, entity.ActivityActionMedicineUpdate, entity.JSON{
		"medicine_id": medicine.ID.String(),
	})

	return converter.MedicineToResponse(medicine), nil
}

func (u *medicineUsecase) DeleteMedicine(ctx context.Context, actor entity.Actor, id uuid.UUID) error {
	medicine, err := u.medicineRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find medicine: %+v", err)
		return err
	}
	if medicine == nil {
		return ErrMedicineNotFound
	}

	if err := u.medicineRepo.Delete(ctx, id); err != nil {
		if isForeignKeyError(err, "medicine_id") {
			return ErrMedicineInUse
		}
		u.log.Warnf("Failed to delete medicine: %+v", err)
		return err
	}

	u.activityService.Record(ctx, actor.UserID, entity.ActivityActionMedicineDelete, entity.JSON{
		"medicine_id": id.String(),
		"name":        medicine.Name,
	})

	return nil
}

func (u *medicineUsecase) GetMedicine(ctx context.Context, id uuid.UUID) (*dto.MedicineResponse, error) {
	medicine, err := u.medicineRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find medicine: %+v", err)
		return nil, err
	}
	if medicine == nil {
		return nil, ErrMedicineNotFound
	}

	return converter.MedicineToResponse(medicine), nil
}

func (u *medicineUsecase) ListMedicines(ctx context.Context, page, limit int) (*dto.MedicineListResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	medicines, total, err := u.medicineRepo.FindAll(ctx, limit, offset)
	if err != nil {
		u.log.Warnf("Failed to list medicines: %+v", err)
		return nil, 0, err
	}

	return &dto.MedicineListResponse{
		Medicines: converter.MedicinesToResponses(medicines),
		Total:     total,
	}, total, nil
}
