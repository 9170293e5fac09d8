package usecase

import (
	"context"
	"errors"
	"fmt"

	"clinic-management-server/internal/converter"
	"clinic-management-server/internal/delivery/dto"
	"clinic-management-server/internal/domain/entity"
	"clinic-management-server/internal/domain/repository"
	"clinic-management-server/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	ErrOrderNotFound     = errors.New("medicine order not found")
	ErrOrderNotPending   = errors.New("medicine order is no longer pending")
	ErrOrderNotOwned     = errors.New("medicine order belongs to another patient")
	ErrInsufficientStock = errors.New("insufficient medicine stock")
)

type MedicineOrderUsecase interface {
	CreateOrder(ctx context.Context, actor entity.Actor, req *dto.CreateMedicineOrderRequest) (*dto.MedicineOrderResponse, error)
	DispenseOrder(ctx context.Context, actor entity.Actor, orderID uuid.UUID) (*dto.MedicineOrderResponse, error)
	CancelOrder(ctx context.Context, actor entity.Actor, orderID uuid.UUID) (*dto.MedicineOrderResponse, error)
	GetOrder(ctx context.Context, actor entity.Actor, orderID uuid.UUID) (*dto.MedicineOrderResponse, error)
	ListOrders(ctx context.Context, actor entity.Actor) (*dto.MedicineOrderListResponse, error)
}

type medicineOrderUsecase struct {
	log                 *logrus.Logger
	orderRepo           repository.MedicineOrderRepository
	medicineRepo        repository.MedicineRepository
	activityService     *service.ActivityService
	notificationService *service.NotificationService
}

func NewMedicineOrderUsecase(
	log *logrus.Logger,
	orderRepo repository.MedicineOrderRepository,
	medicineRepo repository.MedicineRepository,
	activityService *service.ActivityService,
	notificationService *service.NotificationService,
) MedicineOrderUsecase {
	return &medicineOrderUsecase{
		log:                 log,
		orderRepo:           orderRepo,
		medicineRepo:        medicineRepo,
		activityService:     activityService,
		notificationService: notificationService,
	}
}

// CreateOrder opens a pending order. Stock is not reserved here; it is
// checked and consumed when staff dispense.
func (u *medicineOrderUsecase) CreateOrder(ctx context.Context, actor entity.Actor, req *dto.CreateMedicineOrderRequest) (*dto.MedicineOrderResponse, error) {
	medicine, err := u.medicineRepo.FindByID(ctx, req.MedicineID)
	if err != nil {
		u.log.Warnf("Failed to find medicine: %+v", err)
		return nil, err
	}
	if medicine == nil {
		return nil, ErrMedicineNotFound
	}

	order := &entity.MedicineOrder{
		PatientID:  actor.UserID,
		MedicineID: medicine.ID,
		Quantity:   req.Quantity,
		TotalPrice: medicine.Price.Mul(decimal.NewFromInt(int64(req.Quantity))),
		Status:     entity.MedicineOrderStatusPending,
	}

	if err := u.orderRepo.Create(ctx, order); err != nil {
		if isForeignKeyError(err, "patient_id") {
			return nil, ErrPatientNotFound
		}
		u.log.Warnf("Failed to create medicine order: %+v", err)
		return nil, err
	}

	u.activityService.Record(ctx, actor.UserID, entity.ActivityActionOrderCreate, entity.JSON{
		"order_id":    order.ID.String(),
		"medicine_id": medicine.ID.String(),
		"quantity":    order.Quantity,
	})

	order.Medicine = *medicine
	return converter.MedicineOrderToResponse(order), nil
}

// DispenseOrder consumes stock and closes the order. The stock decrement is
// conditional on availability, and the status change is conditional on the
// order still being pending, so concurrent dispense attempts cannot
// double-consume.
func (u *medicineOrderUsecase) DispenseOrder(ctx context.Context, actor entity.Actor, orderID uuid.UUID) (*dto.MedicineOrderResponse, error) {
	order, err := u.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		u.log.Warnf("Failed to find medicine order: %+v", err)
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !order.IsPending() {
		return nil, ErrOrderNotPending
	}

	rows, err := u.orderRepo.UpdateStatus(ctx, order.ID, entity.MedicineOrderStatusDispensed)
	if err != nil {
		u.log.Warnf("Failed to update order status: %+v", err)
		return nil, err
	}
	if rows == 0 {
		return nil, ErrOrderNotPending
	}

	rows, err = u.medicineRepo.DecrementStock(ctx, order.MedicineID, order.Quantity)
	if err != nil {
		u.log.Warnf("Failed to decrement stock: %+v", err)
		return nil, err
	}
	if rows == 0 {
		// Roll the order back to pending so it can be retried once restocked.
		if _, revertErr := u.orderRepo.UpdateStatus(ctx, order.ID, entity.MedicineOrderStatusPending); revertErr != nil {
			u.log.Warnf("Failed to revert order status after stock shortage: %+v", revertErr)
		}
		return nil, ErrInsufficientStock
	}

	order.Status = entity.MedicineOrderStatusDispensed

	u.activityService.Record(ctx, actor.UserID, entity.ActivityActionOrderDispense, entity.JSON{
		"order_id": order.ID.String(),
	})
	u.notificationService.Notify(ctx, order.PatientID,
		"Medicine order ready",
		fmt.Sprintf("Your order for %s (x%d) has been dispensed.", order.Medicine.Name, order.Quantity),
		entity.NotificationTypeOrder)

	return converter.MedicineOrderToResponse(order), nil
}

func (u *medicineOrderUsecase) CancelOrder(ctx context.Context, actor entity.Actor, orderID uuid.UUID) (*dto.MedicineOrderResponse, error) {
	order, err := u.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		u.log.Warnf("Failed to find medicine order: %+v", err)
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if actor.IsPatient() && order.PatientID != actor.UserID {
		return nil, ErrOrderNotOwned
	}
	if !order.IsPending() {
		return nil, ErrOrderNotPending
	}

	rows, err := u.orderRepo.UpdateStatus(ctx, order.ID, entity.MedicineOrderStatusCancelled)
	if err != nil {
		u.log.Warnf("Failed to update order status: %+v", err)
		return nil, err
	}
	if rows == 0 {
		return nil, ErrOrderNotPending
	}

	order.Status = entity.MedicineOrderStatusCancelled

	u.activityService.Record(ctx, actor.UserID, entity.ActivityActionOrderCancel, entity.JSON{
		"order_id": order.ID.String(),
	})
	if !actor.IsPatient() {
		u.notificationService.Notify(ctx, order.PatientID,
			"Medicine order cancelled",
			fmt.Sprintf("Your order for %s has been cancelled by clinic staff.", order.Medicine.Name),
			entity.NotificationTypeOrder)
	}

	return converter.MedicineOrderToResponse(order), nil
}

func (u *medicineOrderUsecase) GetOrder(ctx context.Context, actor entity.Actor, orderID uuid.UUID) (*dto.MedicineOrderResponse, error) {
	order, err := u.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		u.log.Warnf("Failed to find medicine order: %+v", err)
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if actor.IsPatient() && order.PatientID != actor.UserID {
		return nil, ErrOrderNotOwned
	}

	return converter.MedicineOrderToResponse(order), nil
}

func (u *medicineOrderUsecase) ListOrders(ctx context.Context, actor entity.Actor) (*dto.MedicineOrderListResponse, error) {
	var (
		orders []entity.MedicineOrder
		err    error
	)

	if actor.IsPatient() {
		orders, err = u.orderRepo.FindByPatientID(ctx, actor.UserID)
	} else {
		orders, err = u.orderRepo.FindAll(ctx)
	}
	if err != nil {
		u.log.Warnf("Failed to list medicine orders: %+v", err)
		return nil, err
	}

	return &dto.MedicineOrderListResponse{
		Orders: converter.MedicineOrdersToResponses(orders),
		Total:  len(orders),
	}, nil
}
