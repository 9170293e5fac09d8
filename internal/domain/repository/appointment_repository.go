package repository

import (
	"context"
	"time"

	"clinic-management-server/internal/domain/entity"

	"github.com/google/uuid"
)

// A live appointment is one in a non-terminal status; only live rows occupy
// a slot for conflict purposes.
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *entity.Appointment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)

	// FindConflicting returns a live appointment occupying the (doctor, date,
	// time) slot, or nil.
	FindConflicting(ctx context.Context, doctorID uuid.UUID, date time.Time, timeOfDay string) (*entity.Appointment, error)

	// FindPatientOnDate returns a live appointment the patient holds on the
	// given date, or nil.
	FindPatientOnDate(ctx context.Context, patientID uuid.UUID, date time.Time) (*entity.Appointment, error)

	// UpdateStatus moves the appointment from one status to another. The
	// update is conditional on the current status; it returns the number of
	// affected rows so callers can detect a lost race.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error)

	// List returns appointments matching the filter, newest-created first,
	// with patient and doctor display data loaded.
	List(ctx context.Context, filter entity.AppointmentFilter) ([]entity.Appointment, error)
}
