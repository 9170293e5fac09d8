package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"clinic-management-server/internal/converter"
	"clinic-management-server/internal/delivery/dto"
	"clinic-management-server/internal/domain/entity"
	"clinic-management-server/internal/domain/repository"
	"clinic-management-server/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	// Booking-time errors; all applicable ones are collected into a
	// BookingValidationError so the caller can present the full list.
	ErrPastDate          = errors.New("appointment date is in the past")
	ErrDoctorUnavailable = errors.New("doctor is not available")
	ErrSlotConflict      = errors.New("doctor already has an appointment at this slot")
	ErrDuplicateBooking  = errors.New("patient already has an appointment on this date")

	// Transition-time errors; each terminates the operation immediately.
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrInvalidTransition   = errors.New("status transition is not permitted")
	ErrTransitionForbidden = errors.New("role is not allowed to perform this transition")
	ErrAppointmentNotOwned = errors.New("appointment does not belong to you")
	ErrInvalidDateFormat   = errors.New("invalid date format, use YYYY-MM-DD")
	ErrInvalidTimeFormat   = errors.New("invalid time format, use HH:MM")
	ErrInvalidStatusFilter = errors.New("unknown appointment status")
)

// BookingValidationError carries every booking rule the request violated.
type BookingValidationError struct {
	Violations []error
}

func (e *BookingValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Error()
	}
	return "booking rejected: " + strings.Join(msgs, "; ")
}

// Unwrap allows errors.Is to match individual violations.
func (e *BookingValidationError) Unwrap() []error {
	return e.Violations
}

type AppointmentUsecase interface {
	BookAppointment(ctx context.Context, actor entity.Actor, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error)
	TransitionAppointment(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID, target entity.AppointmentStatus) (*dto.AppointmentResponse, error)
	GetAppointment(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	ListAppointments(ctx context.Context, actor entity.Actor, statusFilter string) (*dto.AppointmentListResponse, error)
}

type appointmentUsecase struct {
	log                 *logrus.Logger
	appointmentRepo     repository.AppointmentRepository
	doctorProfileRepo   repository.DoctorProfileRepository
	activityService     *service.ActivityService
	notificationService *service.NotificationService

	// now is injectable for tests; defaults to time.Now.
	now func() time.Time
}

func NewAppointmentUsecase(
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	activityService *service.ActivityService,
	notificationService *service.NotificationService,
) AppointmentUsecase {
	return &appointmentUsecase{
		log:                 log,
		appointmentRepo:     appointmentRepo,
		doctorProfileRepo:   doctorProfileRepo,
		activityService:     activityService,
		notificationService: notificationService,
		now:                 time.Now,
	}
}

// BookAppointment validates a patient's booking request, inserts the
// appointment and emits the booked notifications.
//
// All rule violations are collected and returned together; the insert
// re-checks the conflict rules through the partial unique indexes, so a
// concurrent booking that slips past the read checks still comes back as a
// conflict instead of a double-booking.
func (u *appointmentUsecase) BookAppointment(ctx context.Context, actor entity.Actor, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	if _, err := time.Parse("15:04", req.Time); err != nil {
		return nil, ErrInvalidTimeFormat
	}

	var violations []error

	today := u.now().UTC().Truncate(24 * time.Hour)
	if date.Before(today) {
		violations = append(violations, ErrPastDate)
	}

	doctor, err := u.doctorProfileRepo.FindActiveByUserID(ctx, req.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", req.DoctorID, err)
		return nil, err
	}
	if doctor == nil {
		violations = append(violations, ErrDoctorUnavailable)
	}

	conflict, err := u.appointmentRepo.FindConflicting(ctx, req.DoctorID, date, req.Time)
	if err != nil {
		u.log.Warnf("Failed to check slot conflict: %+v", err)
		return nil, err
	}
	if conflict != nil {
		violations = append(violations, ErrSlotConflict)
	}

	existing, err := u.appointmentRepo.FindPatientOnDate(ctx, actor.UserID, date)
	if err != nil {
		u.log.Warnf("Failed to check patient bookings on %s: %+v", req.Date, err)
		return nil, err
	}
	if existing != nil {
		violations = append(violations, ErrDuplicateBooking)
	}

	if len(violations) > 0 {
		return nil, &BookingValidationError{Violations: violations}
	}

	appointment := &entity.Appointment{
		PatientID:       actor.UserID,
		DoctorID:        req.DoctorID,
		AppointmentDate: date,
		AppointmentTime: req.Time,
		Reason:          req.Reason,
		Status:          entity.AppointmentStatusScheduled,
		CreatedBy:       actor.UserID,
	}

	if err := u.appointmentRepo.Create(ctx, appointment); err != nil {
		// The partial unique indexes re-check the conflict rules at insert
		// time; translate their violations back to booking errors.
		if isDuplicateKeyError(err, "active_slot") {
			return nil, &BookingValidationError{Violations: []error{ErrSlotConflict}}
		}
		if isDuplicateKeyError(err, "patient_daily") {
			return nil, &BookingValidationError{Violations: []error{ErrDuplicateBooking}}
		}
		u.log.Warnf("Failed to insert appointment: %+v", err)
		return nil, err
	}

	u.activityService.Record(ctx, actor.UserID, entity.ActivityActionAppointmentBook, entity.JSON{
		"appointment_id": appointment.ID.String(),
		"doctor_id":      req.DoctorID.String(),
		"date":           req.Date,
		"time":           req.Time,
	})

	slot := appointment.SlotLabel()
	u.notificationService.Notify(ctx, actor.UserID,
		"Appointment booked",
		fmt.Sprintf("Your appointment on %s has been booked.", slot),
		entity.NotificationTypeAppointment)
	u.notificationService.Notify(ctx, req.DoctorID,
		"New appointment",
		fmt.Sprintf("A new appointment has been booked for %s.", slot),
		entity.NotificationTypeAppointment)

	u.log.Infof("Appointment booked: id=%s, doctor=%s, slot=%s %s",
		appointment.ID, req.DoctorID, req.Date, req.Time)

	full, err := u.appointmentRepo.FindByID(ctx, appointment.ID)
	if err != nil || full == nil {
		// Return the basic response if the reload fails
		return converter.AppointmentToResponse(appointment), nil
	}
	return converter.AppointmentToResponse(full), nil
}

// TransitionAppointment drives the appointment status state machine.
//
// Checks run in order: existence, permitted edge, role authorization. The
// status update is conditional on the observed current status; the activity
// entry and patient notification afterwards are best-effort.
func (u *appointmentUsecase) TransitionAppointment(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID, target entity.AppointmentStatus) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(ctx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	if !target.IsValid() || !appointment.CanTransitionTo(target) {
		return nil, ErrInvalidTransition
	}
	if !entity.TransitionAllowedForRole(appointment.Status, target, actor.RoleID) {
		return nil, ErrTransitionForbidden
	}

	from := appointment.Status
	affected, err := u.appointmentRepo.UpdateStatus(ctx, appointmentID, from, target)
	if err != nil {
		u.log.Warnf("Failed to update appointment %s status: %+v", appointmentID, err)
		return nil, err
	}
	if affected == 0 {
		// Someone else moved the appointment first; the observed edge no
		// longer applies.
		return nil, ErrInvalidTransition
	}
	appointment.Status = target

	u.activityService.Record(ctx, actor.UserID, entity.ActivityActionAppointmentStatus, entity.JSON{
		"appointment_id": appointmentID.String(),
		"old_status":     string(from),
		"new_status":     string(target),
	})

	if target == entity.AppointmentStatusConfirmed ||
		target == entity.AppointmentStatusCancelled ||
		target == entity.AppointmentStatusCompleted {
		u.notificationService.Notify(ctx, appointment.PatientID,
			"Appointment "+string(target),
			fmt.Sprintf("Your appointment on %s is now %s.", appointment.SlotLabel(), target),
			entity.NotificationTypeAppointment)
	}

	u.log.Infof("Appointment %s: %s -> %s by role %d", appointmentID, from, target, actor.RoleID)
	return converter.AppointmentToResponse(appointment), nil
}

// GetAppointment returns a single appointment, restricted to its own patient
// and doctor plus clinic staff.
func (u *appointmentUsecase) GetAppointment(ctx context.Context, actor entity.Actor, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(ctx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	switch {
	case actor.IsStaff():
	case actor.IsPatient() && appointment.PatientID == actor.UserID:
	case actor.IsDoctor() && appointment.DoctorID == actor.UserID:
	default:
		return nil, ErrAppointmentNotOwned
	}

	return converter.AppointmentToResponse(appointment), nil
}

// ListAppointments returns the actor-scoped appointment list: patients and
// doctors see their own, receptionists and admins see all.
func (u *appointmentUsecase) ListAppointments(ctx context.Context, actor entity.Actor, statusFilter string) (*dto.AppointmentListResponse, error) {
	filter := entity.AppointmentFilter{}

	switch {
	case actor.IsPatient():
		id := actor.UserID
		filter.PatientID = &id
	case actor.IsDoctor():
		id := actor.UserID
		filter.DoctorID = &id
	}

	if statusFilter != "" {
		status := entity.AppointmentStatus(statusFilter)
		if !status.IsValid() {
			return nil, ErrInvalidStatusFilter
		}
		filter.Status = &status
	}

	appointments, err := u.appointmentRepo.List(ctx, filter)
	if err != nil {
		u.log.Warnf("Failed to list appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}
