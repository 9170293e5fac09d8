package usecase

import (
	"context"
	"errors"
	"testing"

	"clinic-management-server/internal/delivery/dto"
	"clinic-management-server/internal/domain/entity"
	"clinic-management-server/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type fakeMedicineRepo struct {
	medicines map[uuid.UUID]*entity.Medicine
}

func newFakeMedicineRepo() *fakeMedicineRepo {
	return &fakeMedicineRepo{medicines: make(map[uuid.UUID]*entity.Medicine)}
}

func (r *fakeMedicineRepo) Create(ctx context.Context, m *entity.Medicine) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	cp := *m
	r.medicines[m.ID] = &cp
	return nil
}

func (r *fakeMedicineRepo) FindAll(ctx context.Context, limit, offset int) ([]entity.Medicine, int64, error) {
	var out []entity.Medicine
	for _, m := range r.medicines {
		out = append(out, *m)
	}
	return out, int64(len(out)), nil
}

func (r *fakeMedicineRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Medicine, error) {
	m, ok := r.medicines[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMedicineRepo) Update(ctx context.Context, m *entity.Medicine) error {
	cp := *m
	r.medicines[m.ID] = &cp
	return nil
}

func (r *fakeMedicineRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.medicines, id)
	return nil
}

func (r *fakeMedicineRepo) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) (int64, error) {
	m, ok := r.medicines[id]
	if !ok || m.Stock < quantity {
		return 0, nil
	}
	m.Stock -= quantity
	return 1, nil
}

type fakeMedicineOrderRepo struct {
	orders map[uuid.UUID]*entity.MedicineOrder
}

func newFakeMedicineOrderRepo() *fakeMedicineOrderRepo {
	return &fakeMedicineOrderRepo{orders: make(map[uuid.UUID]*entity.MedicineOrder)}
}

func (r *fakeMedicineOrderRepo) Create(ctx context.Context, o *entity.MedicineOrder) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *fakeMedicineOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.MedicineOrder, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *fakeMedicineOrderRepo) FindByPatientID(ctx context.Context, patientID uuid.UUID) ([]entity.MedicineOrder, error) {
	var out []entity.MedicineOrder
	for _, o := range r.orders {
		if o.PatientID == patientID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeMedicineOrderRepo) FindAll(ctx context.Context) ([]entity.MedicineOrder, error) {
	var out []entity.MedicineOrder
	for _, o := range r.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (r *fakeMedicineOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.MedicineOrderStatus) (int64, error) {
	o, ok := r.orders[id]
	if !ok {
		return 0, nil
	}
	// Reverting to pending is the stock-shortage rollback path; everything
	// else is conditional on the order still being pending.
	if status != entity.MedicineOrderStatusPending && o.Status != entity.MedicineOrderStatusPending {
		return 0, nil
	}
	o.Status = status
	return 1, nil
}

type orderFixture struct {
	uc           MedicineOrderUsecase
	medicineRepo *fakeMedicineRepo
	orderRepo    *fakeMedicineOrderRepo
	notifRepo    *fakeNotificationRepo
	activityRepo *fakeActivityLogRepo
	medicineID   uuid.UUID
	patient      entity.Actor
	receptionist entity.Actor
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	log := quietLogger()

	medicineRepo := newFakeMedicineRepo()
	orderRepo := newFakeMedicineOrderRepo()
	notifRepo := &fakeNotificationRepo{}
	activityRepo := &fakeActivityLogRepo{}

	medicine := &entity.Medicine{
		Name:  "Amoxicillin 500mg",
		Price: decimal.NewFromFloat(3.50),
		Stock: 10,
	}
	if err := medicineRepo.Create(context.Background(), medicine); err != nil {
		t.Fatalf("seeding medicine failed: %v", err)
	}

	uc := NewMedicineOrderUsecase(
		log,
		orderRepo,
		medicineRepo,
		service.NewActivityService(log, activityRepo),
		service.NewNotificationService(log, notifRepo),
	)

	return &orderFixture{
		uc:           uc,
		medicineRepo: medicineRepo,
		orderRepo:    orderRepo,
		notifRepo:    notifRepo,
		activityRepo: activityRepo,
		medicineID:   medicine.ID,
		patient:      entity.Actor{UserID: uuid.New(), RoleID: entity.RoleIDPatient},
		receptionist: entity.Actor{UserID: uuid.New(), RoleID: entity.RoleIDReceptionist},
	}
}

func (f *orderFixture) mustOrder(t *testing.T, quantity int) uuid.UUID {
	t.Helper()
	resp, err := f.uc.CreateOrder(context.Background(), f.patient, &dto.CreateMedicineOrderRequest{
		MedicineID: f.medicineID,
		Quantity:   quantity,
	})
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}
	return resp.ID
}

func TestCreateOrderComputesTotal(t *testing.T) {
	f := newOrderFixture(t)

	resp, err := f.uc.CreateOrder(context.Background(), f.patient, &dto.CreateMedicineOrderRequest{
		MedicineID: f.medicineID,
		Quantity:   4,
	})
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}
	if resp.Status != string(entity.MedicineOrderStatusPending) {
		t.Errorf("Status = %q, want pending", resp.Status)
	}
	if want := decimal.NewFromFloat(14.00); !resp.TotalPrice.Equal(want) {
		t.Errorf("TotalPrice = %s, want %s", resp.TotalPrice, want)
	}

	// Stock is untouched until dispense
	m, _ := f.medicineRepo.FindByID(context.Background(), f.medicineID)
	if m.Stock != 10 {
		t.Errorf("Stock = %d, want 10", m.Stock)
	}
}

func TestCreateOrderUnknownMedicine(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.uc.CreateOrder(context.Background(), f.patient, &dto.CreateMedicineOrderRequest{
		MedicineID: uuid.New(),
		Quantity:   1,
	})
	if !errors.Is(err, ErrMedicineNotFound) {
		t.Fatalf("CreateOrder() error = %v, want ErrMedicineNotFound", err)
	}
}

func TestDispenseOrderConsumesStock(t *testing.T) {
	f := newOrderFixture(t)
	id := f.mustOrder(t, 4)

	resp, err := f.uc.DispenseOrder(context.Background(), f.receptionist, id)
	if err != nil {
		t.Fatalf("DispenseOrder() error = %v", err)
	}
	if resp.Status != string(entity.MedicineOrderStatusDispensed) {
		t.Errorf("Status = %q, want dispensed", resp.Status)
	}

	m, _ := f.medicineRepo.FindByID(context.Background(), f.medicineID)
	if m.Stock != 6 {
		t.Errorf("Stock = %d, want 6", m.Stock)
	}

	// Patient is told their order is ready
	notifs, _ := f.notifRepo.FindByUserID(context.Background(), f.patient.UserID)
	if len(notifs) != 1 {
		t.Errorf("patient notifications = %d, want 1", len(notifs))
	}
}

func TestDispenseOrderInsufficientStock(t *testing.T) {
	f := newOrderFixture(t)
	id := f.mustOrder(t, 25)

	_, err := f.uc.DispenseOrder(context.Background(), f.receptionist, id)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("DispenseOrder() error = %v, want ErrInsufficientStock", err)
	}

	// The order rolls back to pending so it can be retried after restock
	o, _ := f.orderRepo.FindByID(context.Background(), id)
	if !o.IsPending() {
		t.Errorf("order status = %q, want pending after rollback", o.Status)
	}
	m, _ := f.medicineRepo.FindByID(context.Background(), f.medicineID)
	if m.Stock != 10 {
		t.Errorf("Stock = %d, want 10 untouched", m.Stock)
	}
}

func TestDispenseOrderTwice(t *testing.T) {
	f := newOrderFixture(t)
	id := f.mustOrder(t, 2)

	if _, err := f.uc.DispenseOrder(context.Background(), f.receptionist, id); err != nil {
		t.Fatalf("first dispense failed: %v", err)
	}
	if _, err := f.uc.DispenseOrder(context.Background(), f.receptionist, id); !errors.Is(err, ErrOrderNotPending) {
		t.Fatalf("second dispense error = %v, want ErrOrderNotPending", err)
	}

	m, _ := f.medicineRepo.FindByID(context.Background(), f.medicineID)
	if m.Stock != 8 {
		t.Errorf("Stock = %d, want 8 after a single dispense", m.Stock)
	}
}

func TestCancelOrderOwnership(t *testing.T) {
	f := newOrderFixture(t)
	id := f.mustOrder(t, 1)

	other := entity.Actor{UserID: uuid.New(), RoleID: entity.RoleIDPatient}
	if _, err := f.uc.CancelOrder(context.Background(), other, id); !errors.Is(err, ErrOrderNotOwned) {
		t.Fatalf("CancelOrder() by other patient error = %v, want ErrOrderNotOwned", err)
	}

	resp, err := f.uc.CancelOrder(context.Background(), f.patient, id)
	if err != nil {
		t.Fatalf("CancelOrder() error = %v", err)
	}
	if resp.Status != string(entity.MedicineOrderStatusCancelled) {
		t.Errorf("Status = %q, want cancelled", resp.Status)
	}

	if _, err := f.uc.CancelOrder(context.Background(), f.patient, id); !errors.Is(err, ErrOrderNotPending) {
		t.Fatalf("second cancel error = %v, want ErrOrderNotPending", err)
	}
}

func TestListOrdersScoping(t *testing.T) {
	f := newOrderFixture(t)
	f.mustOrder(t, 1)

	other := entity.Actor{UserID: uuid.New(), RoleID: entity.RoleIDPatient}
	if _, err := f.uc.CreateOrder(context.Background(), other, &dto.CreateMedicineOrderRequest{
		MedicineID: f.medicineID,
		Quantity:   2,
	}); err != nil {
		t.Fatalf("second order failed: %v", err)
	}

	own, err := f.uc.ListOrders(context.Background(), f.patient)
	if err != nil {
		t.Fatalf("ListOrders(patient) error = %v", err)
	}
	if own.Total != 1 {
		t.Errorf("patient sees %d orders, want 1", own.Total)
	}

	all, err := f.uc.ListOrders(context.Background(), f.receptionist)
	if err != nil {
		t.Fatalf("ListOrders(receptionist) error = %v", err)
	}
	if all.Total != 2 {
		t.Errorf("receptionist sees %d orders, want 2", all.Total)
	}
}
