package usecase

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"clinic-management-server/internal/delivery/dto"
	"clinic-management-server/internal/domain/entity"
	"clinic-management-server/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// In-memory repository fakes. They mirror the live-status semantics of the
// SQL layer: only non-terminal appointments occupy slots.

type fakeAppointmentRepo struct {
	appointments map[uuid.UUID]*entity.Appointment
	createErr    error
	updateRows   *int64
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*entity.Appointment)}
}

func (r *fakeAppointmentRepo) Create(ctx context.Context, a *entity.Appointment) error {
	if r.createErr != nil {
		return r.createErr
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CreatedAt = time.Now()
	cp := *a
	r.appointments[a.ID] = &cp
	return nil
}

func (r *fakeAppointmentRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	a, ok := r.appointments[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAppointmentRepo) FindConflicting(ctx context.Context, doctorID uuid.UUID, date time.Time, timeOfDay string) (*entity.Appointment, error) {
	for _, a := range r.appointments {
		if a.DoctorID == doctorID && a.AppointmentDate.Equal(date) && a.AppointmentTime == timeOfDay && !a.Status.IsTerminal() {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeAppointmentRepo) FindPatientOnDate(ctx context.Context, patientID uuid.UUID, date time.Time) (*entity.Appointment, error) {
	for _, a := range r.appointments {
		if a.PatientID == patientID && a.AppointmentDate.Equal(date) && !a.Status.IsTerminal() {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeAppointmentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error) {
	if r.updateRows != nil {
		return *r.updateRows, nil
	}
	a, ok := r.appointments[id]
	if !ok || a.Status != from {
		return 0, nil
	}
	a.Status = to
	return 1, nil
}

func (r *fakeAppointmentRepo) List(ctx context.Context, filter entity.AppointmentFilter) ([]entity.Appointment, error) {
	var out []entity.Appointment
	for _, a := range r.appointments {
		if filter.PatientID != nil && a.PatientID != *filter.PatientID {
			continue
		}
		if filter.DoctorID != nil && a.DoctorID != *filter.DoctorID {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

type fakeDoctorProfileRepo struct {
	active map[uuid.UUID]*entity.DoctorProfile
}

func (r *fakeDoctorProfileRepo) Create(ctx context.Context, tx *gorm.DB, p *entity.DoctorProfile) error {
	return nil
}

func (r *fakeDoctorProfileRepo) FindActiveByUserID(ctx context.Context, userID uuid.UUID) (*entity.DoctorProfile, error) {
	return r.active[userID], nil
}

func (r *fakeDoctorProfileRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.DoctorProfile, error) {
	return r.active[userID], nil
}

func (r *fakeDoctorProfileRepo) FindAll(ctx context.Context) ([]entity.DoctorProfile, error) {
	return nil, nil
}

func (r *fakeDoctorProfileRepo) FindAllActive(ctx context.Context) ([]entity.DoctorProfile, error) {
	return nil, nil
}

func (r *fakeDoctorProfileRepo) Update(ctx context.Context, p *entity.DoctorProfile) error {
	return nil
}

type fakeActivityLogRepo struct {
	entries []entity.ActivityLog
	err     error
}

func (r *fakeActivityLogRepo) Create(ctx context.Context, l *entity.ActivityLog) error {
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, *l)
	return nil
}

func (r *fakeActivityLogRepo) FindAll(ctx context.Context, limit, offset int) ([]entity.ActivityLog, int64, error) {
	return r.entries, int64(len(r.entries)), nil
}

type fakeNotificationRepo struct {
	notifications []entity.Notification
	err           error
}

func (r *fakeNotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	if r.err != nil {
		return r.err
	}
	r.notifications = append(r.notifications, *n)
	return nil
}

func (r *fakeNotificationRepo) FindByUserID(ctx context.Context, userID uuid.UUID) ([]entity.Notification, error) {
	var out []entity.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, id int64, userID uuid.UUID) (int64, error) {
	for i := range r.notifications {
		if r.notifications[i].ID == id && r.notifications[i].UserID == userID {
			r.notifications[i].IsRead = true
			return 1, nil
		}
	}
	return 0, nil
}

func (r *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	for i := range r.notifications {
		if r.notifications[i].UserID == userID {
			r.notifications[i].IsRead = true
		}
	}
	return nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type fixture struct {
	uc              *appointmentUsecase
	appointmentRepo *fakeAppointmentRepo
	doctorRepo      *fakeDoctorProfileRepo
	activityRepo    *fakeActivityLogRepo
	notifRepo       *fakeNotificationRepo
	doctorID        uuid.UUID
	patient         entity.Actor
	doctor          entity.Actor
	receptionist    entity.Actor
	admin           entity.Actor
	now             time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := quietLogger()

	doctorID := uuid.New()
	appointmentRepo := newFakeAppointmentRepo()
	doctorRepo := &fakeDoctorProfileRepo{active: map[uuid.UUID]*entity.DoctorProfile{
		doctorID: {UserID: doctorID, Specialization: "Cardiology"},
	}}
	activityRepo := &fakeActivityLogRepo{}
	notifRepo := &fakeNotificationRepo{}

	uc := NewAppointmentUsecase(
		log,
		appointmentRepo,
		doctorRepo,
		service.NewActivityService(log, activityRepo),
		service.NewNotificationService(log, notifRepo),
	).(*appointmentUsecase)

	now := time.Date(2026, time.June, 10, 9, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return now }

	return &fixture{
		uc:              uc,
		appointmentRepo: appointmentRepo,
		doctorRepo:      doctorRepo,
		activityRepo:    activityRepo,
		notifRepo:       notifRepo,
		doctorID:        doctorID,
		patient:         entity.Actor{UserID: uuid.New(), RoleID: entity.RoleIDPatient},
		doctor:          entity.Actor{UserID: doctorID, RoleID: entity.RoleIDDoctor},
		receptionist:    entity.Actor{UserID: uuid.New(), RoleID: entity.RoleIDReceptionist},
		admin:           entity.Actor{UserID: uuid.New(), RoleID: entity.RoleIDAdmin},
		now:             now,
	}
}

func (f *fixture) bookRequest() *dto.BookAppointmentRequest {
	return &dto.BookAppointmentRequest{
		DoctorID: f.doctorID,
		Date:     "2026-06-15",
		Time:     "10:00",
		Reason:   "Annual checkup",
	}
}

func TestBookAppointmentSuccess(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.BookAppointment(context.Background(), f.patient, f.bookRequest())
	if err != nil {
		t.Fatalf("BookAppointment() error = %v, want nil", err)
	}
	if resp.Status != string(entity.AppointmentStatusScheduled) {
		t.Errorf("Status = %q, want %q", resp.Status, entity.AppointmentStatusScheduled)
	}
	if resp.PatientID != f.patient.UserID {
		t.Errorf("PatientID = %v, want %v", resp.PatientID, f.patient.UserID)
	}
	if len(f.appointmentRepo.appointments) != 1 {
		t.Fatalf("stored appointments = %d, want 1", len(f.appointmentRepo.appointments))
	}

	// Both patient and doctor are notified
	if got := len(f.notifRepo.notifications); got != 2 {
		t.Errorf("notifications = %d, want 2", got)
	}
	if got := len(f.activityRepo.entries); got != 1 {
		t.Fatalf("activity entries = %d, want 1", got)
	}
	if f.activityRepo.entries[0].Action != entity.ActivityActionAppointmentBook {
		t.Errorf("activity action = %q, want %q", f.activityRepo.entries[0].Action, entity.ActivityActionAppointmentBook)
	}
}

func TestBookAppointmentPastDate(t *testing.T) {
	f := newFixture(t)
	req := f.bookRequest()
	req.Date = "2026-06-09"

	_, err := f.uc.BookAppointment(context.Background(), f.patient, req)
	if !errors.Is(err, ErrPastDate) {
		t.Fatalf("BookAppointment() error = %v, want ErrPastDate", err)
	}
	if len(f.appointmentRepo.appointments) != 0 {
		t.Error("appointment was stored despite past date")
	}
	if len(f.notifRepo.notifications) != 0 {
		t.Error("notifications were sent despite rejection")
	}
}

func TestBookAppointmentSameDayIsNotPast(t *testing.T) {
	f := newFixture(t)
	req := f.bookRequest()
	req.Date = "2026-06-10"

	_, err := f.uc.BookAppointment(context.Background(), f.patient, req)
	if errors.Is(err, ErrPastDate) {
		t.Fatalf("BookAppointment() on same day error = %v, want no ErrPastDate", err)
	}
}

func TestBookAppointmentUnknownDoctor(t *testing.T) {
	f := newFixture(t)
	req := f.bookRequest()
	req.DoctorID = uuid.New()

	_, err := f.uc.BookAppointment(context.Background(), f.patient, req)
	if !errors.Is(err, ErrDoctorUnavailable) {
		t.Fatalf("BookAppointment() error = %v, want ErrDoctorUnavailable", err)
	}
}

func TestBookAppointmentSlotConflict(t *testing.T) {
	f := newFixture(t)

	if _, err := f.uc.BookAppointment(context.Background(), f.patient, f.bookRequest()); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	other := entity.Actor{UserID: uuid.New(), RoleID: entity.RoleIDPatient}
	_, err := f.uc.BookAppointment(context.Background(), other, f.bookRequest())
	if !errors.Is(err, ErrSlotConflict) {
		t.Fatalf("BookAppointment() error = %v, want ErrSlotConflict", err)
	}
}

func TestBookAppointmentSlotFreedByCancellation(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.BookAppointment(context.Background(), f.patient, f.bookRequest())
	if err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	if _, err := f.uc.TransitionAppointment(context.Background(), f.receptionist, resp.ID, entity.AppointmentStatusCancelled); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	other := entity.Actor{UserID: uuid.New(), RoleID: entity.RoleIDPatient}
	if _, err := f.uc.BookAppointment(context.Background(), other, f.bookRequest()); err != nil {
		t.Fatalf("rebooking a cancelled slot failed: %v", err)
	}
}

func TestBookAppointmentDuplicateSameDay(t *testing.T) {
	f := newFixture(t)

	if _, err := f.uc.BookAppointment(context.Background(), f.patient, f.bookRequest()); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	req := f.bookRequest()
	req.Time = "11:00"
	_, err := f.uc.BookAppointment(context.Background(), f.patient, req)
	if !errors.Is(err, ErrDuplicateBooking) {
		t.Fatalf("BookAppointment() error = %v, want ErrDuplicateBooking", err)
	}
}

func TestBookAppointmentCollectsAllViolations(t *testing.T) {
	f := newFixture(t)
	req := f.bookRequest()
	req.Date = "2026-06-01"
	req.DoctorID = uuid.New()

	_, err := f.uc.BookAppointment(context.Background(), f.patient, req)
	if err == nil {
		t.Fatal("BookAppointment() error = nil, want violations")
	}

	var bookingErr *BookingValidationError
	if !errors.As(err, &bookingErr) {
		t.Fatalf("error type = %T, want *BookingValidationError", err)
	}
	if len(bookingErr.Violations) != 2 {
		t.Fatalf("violations = %d, want 2: %v", len(bookingErr.Violations), bookingErr.Violations)
	}
	if !errors.Is(err, ErrPastDate) {
		t.Error("errors.Is(err, ErrPastDate) = false, want true")
	}
	if !errors.Is(err, ErrDoctorUnavailable) {
		t.Error("errors.Is(err, ErrDoctorUnavailable) = false, want true")
	}
	if len(f.appointmentRepo.appointments) != 0 {
		t.Error("appointment was stored despite violations")
	}
}

func TestBookAppointmentBadFormats(t *testing.T) {
	f := newFixture(t)

	req := f.bookRequest()
	req.Date = "15-06-2026"
	if _, err := f.uc.BookAppointment(context.Background(), f.patient, req); !errors.Is(err, ErrInvalidDateFormat) {
		t.Errorf("bad date error = %v, want ErrInvalidDateFormat", err)
	}

	req = f.bookRequest()
	req.Time = "10am"
	if _, err := f.uc.BookAppointment(context.Background(), f.patient, req); !errors.Is(err, ErrInvalidTimeFormat) {
		t.Errorf("bad time error = %v, want ErrInvalidTimeFormat", err)
	}
}

func (f *fixture) mustBook(t *testing.T) uuid.UUID {
	t.Helper()
	resp, err := f.uc.BookAppointment(context.Background(), f.patient, f.bookRequest())
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}
	return resp.ID
}

func TestTransitionAppointmentFullLifecycle(t *testing.T) {
	f := newFixture(t)
	id := f.mustBook(t)

	steps := []struct {
		actor  entity.Actor
		target entity.AppointmentStatus
	}{
		{f.receptionist, entity.AppointmentStatusConfirmed},
		{f.doctor, entity.AppointmentStatusInProgress},
		{f.doctor, entity.AppointmentStatusCompleted},
	}

	for _, step := range steps {
		resp, err := f.uc.TransitionAppointment(context.Background(), step.actor, id, step.target)
		if err != nil {
			t.Fatalf("transition to %q failed: %v", step.target, err)
		}
		if resp.Status != string(step.target) {
			t.Errorf("Status = %q, want %q", resp.Status, step.target)
		}
	}
}

func TestTransitionAppointmentNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.TransitionAppointment(context.Background(), f.doctor, uuid.New(), entity.AppointmentStatusConfirmed)
	if !errors.Is(err, ErrAppointmentNotFound) {
		t.Fatalf("TransitionAppointment() error = %v, want ErrAppointmentNotFound", err)
	}
}

func TestTransitionAppointmentInvalidEdge(t *testing.T) {
	f := newFixture(t)
	id := f.mustBook(t)

	// scheduled -> completed is not a permitted edge, and the edge check runs
	// before the role check even for a doctor
	_, err := f.uc.TransitionAppointment(context.Background(), f.doctor, id, entity.AppointmentStatusCompleted)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("TransitionAppointment() error = %v, want ErrInvalidTransition", err)
	}

	_, err = f.uc.TransitionAppointment(context.Background(), f.doctor, id, "unknown")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("TransitionAppointment() to unknown status error = %v, want ErrInvalidTransition", err)
	}
}

func TestTransitionAppointmentForbiddenRole(t *testing.T) {
	f := newFixture(t)
	id := f.mustBook(t)

	tests := []struct {
		name   string
		actor  entity.Actor
		target entity.AppointmentStatus
	}{
		{"patient confirms", f.patient, entity.AppointmentStatusConfirmed},
		{"admin confirms", f.admin, entity.AppointmentStatusConfirmed},
		{"receptionist starts visit", f.receptionist, entity.AppointmentStatusInProgress},
		{"patient cancels", f.patient, entity.AppointmentStatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.TransitionAppointment(context.Background(), tt.actor, id, tt.target)
			if !errors.Is(err, ErrTransitionForbidden) {
				t.Fatalf("error = %v, want ErrTransitionForbidden", err)
			}
		})
	}
}

func TestTransitionAppointmentTerminalIsFrozen(t *testing.T) {
	f := newFixture(t)
	id := f.mustBook(t)

	if _, err := f.uc.TransitionAppointment(context.Background(), f.receptionist, id, entity.AppointmentStatusCancelled); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	for _, target := range []entity.AppointmentStatus{
		entity.AppointmentStatusScheduled,
		entity.AppointmentStatusConfirmed,
		entity.AppointmentStatusInProgress,
		entity.AppointmentStatusCompleted,
	} {
		if _, err := f.uc.TransitionAppointment(context.Background(), f.doctor, id, target); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("transition from cancelled to %q error = %v, want ErrInvalidTransition", target, err)
		}
	}
}

func TestTransitionAppointmentLostRace(t *testing.T) {
	f := newFixture(t)
	id := f.mustBook(t)

	// A concurrent writer moved the row between the read and the update
	var zero int64
	f.appointmentRepo.updateRows = &zero

	_, err := f.uc.TransitionAppointment(context.Background(), f.receptionist, id, entity.AppointmentStatusConfirmed)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("TransitionAppointment() error = %v, want ErrInvalidTransition", err)
	}
}

func TestTransitionAppointmentNotifiesPatient(t *testing.T) {
	f := newFixture(t)
	id := f.mustBook(t)
	booked := len(f.notifRepo.notifications)

	if _, err := f.uc.TransitionAppointment(context.Background(), f.receptionist, id, entity.AppointmentStatusConfirmed); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	if got := len(f.notifRepo.notifications); got != booked+1 {
		t.Fatalf("notifications = %d, want %d", got, booked+1)
	}
	last := f.notifRepo.notifications[len(f.notifRepo.notifications)-1]
	if last.UserID != f.patient.UserID {
		t.Errorf("notification recipient = %v, want patient %v", last.UserID, f.patient.UserID)
	}
}

func TestGetAppointmentOwnership(t *testing.T) {
	f := newFixture(t)
	id := f.mustBook(t)

	tests := []struct {
		name    string
		actor   entity.Actor
		wantErr error
	}{
		{"own patient", f.patient, nil},
		{"own doctor", f.doctor, nil},
		{"receptionist", f.receptionist, nil},
		{"admin", f.admin, nil},
		{"other patient", entity.Actor{UserID: uuid.New(), RoleID: entity.RoleIDPatient}, ErrAppointmentNotOwned},
		{"other doctor", entity.Actor{UserID: uuid.New(), RoleID: entity.RoleIDDoctor}, ErrAppointmentNotOwned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.GetAppointment(context.Background(), tt.actor, id)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("GetAppointment() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestListAppointmentsScoping(t *testing.T) {
	f := newFixture(t)
	f.mustBook(t)

	otherPatient := entity.Actor{UserID: uuid.New(), RoleID: entity.RoleIDPatient}
	req := f.bookRequest()
	req.Time = "12:00"
	req.Date = "2026-06-16"
	if _, err := f.uc.BookAppointment(context.Background(), otherPatient, req); err != nil {
		t.Fatalf("second booking failed: %v", err)
	}

	own, err := f.uc.ListAppointments(context.Background(), f.patient, "")
	if err != nil {
		t.Fatalf("ListAppointments(patient) error = %v", err)
	}
	if own.Total != 1 {
		t.Errorf("patient sees %d appointments, want 1", own.Total)
	}

	all, err := f.uc.ListAppointments(context.Background(), f.receptionist, "")
	if err != nil {
		t.Fatalf("ListAppointments(receptionist) error = %v", err)
	}
	if all.Total != 2 {
		t.Errorf("receptionist sees %d appointments, want 2", all.Total)
	}

	byDoctor, err := f.uc.ListAppointments(context.Background(), f.doctor, "")
	if err != nil {
		t.Fatalf("ListAppointments(doctor) error = %v", err)
	}
	if byDoctor.Total != 2 {
		t.Errorf("doctor sees %d appointments, want 2", byDoctor.Total)
	}
}

func TestListAppointmentsStatusFilter(t *testing.T) {
	f := newFixture(t)
	id := f.mustBook(t)
	if _, err := f.uc.TransitionAppointment(context.Background(), f.receptionist, id, entity.AppointmentStatusConfirmed); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	confirmed, err := f.uc.ListAppointments(context.Background(), f.receptionist, "confirmed")
	if err != nil {
		t.Fatalf("ListAppointments() error = %v", err)
	}
	if confirmed.Total != 1 {
		t.Errorf("confirmed filter returned %d, want 1", confirmed.Total)
	}

	scheduled, err := f.uc.ListAppointments(context.Background(), f.receptionist, "scheduled")
	if err != nil {
		t.Fatalf("ListAppointments() error = %v", err)
	}
	if scheduled.Total != 0 {
		t.Errorf("scheduled filter returned %d, want 0", scheduled.Total)
	}

	if _, err := f.uc.ListAppointments(context.Background(), f.receptionist, "bogus"); !errors.Is(err, ErrInvalidStatusFilter) {
		t.Errorf("bogus filter error = %v, want ErrInvalidStatusFilter", err)
	}
}

func TestBookAppointmentActivityFailureDoesNotFailBooking(t *testing.T) {
	f := newFixture(t)
	f.activityRepo.err = errors.New("audit store down")
	f.notifRepo.err = errors.New("notification store down")

	if _, err := f.uc.BookAppointment(context.Background(), f.patient, f.bookRequest()); err != nil {
		t.Fatalf("BookAppointment() error = %v, want nil despite sink failures", err)
	}
	if len(f.appointmentRepo.appointments) != 1 {
		t.Error("appointment was not stored")
	}
}
