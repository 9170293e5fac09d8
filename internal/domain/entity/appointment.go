package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the status of an appointment.
//
// State transitions:
//
//	scheduled → confirmed → in_progress → completed
//	scheduled → in_progress (doctor starts an unconfirmed visit)
//	scheduled/confirmed/in_progress → cancelled
type AppointmentStatus string

const (
	AppointmentStatusScheduled  AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed  AppointmentStatus = "confirmed"
	AppointmentStatusInProgress AppointmentStatus = "in_progress"
	AppointmentStatusCompleted  AppointmentStatus = "completed"
	AppointmentStatusCancelled  AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusConfirmed, AppointmentStatusInProgress,
		AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are permitted.
func (s AppointmentStatus) IsTerminal() bool {
	return s == AppointmentStatusCompleted || s == AppointmentStatusCancelled
}

// appointmentTransitions is the closed set of permitted status edges.
var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusScheduled:  {AppointmentStatusConfirmed, AppointmentStatusInProgress, AppointmentStatusCancelled},
	AppointmentStatusConfirmed:  {AppointmentStatusInProgress, AppointmentStatusCancelled},
	AppointmentStatusInProgress: {AppointmentStatusCompleted, AppointmentStatusCancelled},
	AppointmentStatusCompleted:  {},
	AppointmentStatusCancelled:  {},
}

type transitionEdge struct {
	from, to AppointmentStatus
}

// transitionRoles maps each permitted edge to the roles allowed to trigger it.
var transitionRoles = map[transitionEdge][]int{
	{AppointmentStatusScheduled, AppointmentStatusConfirmed}:  {RoleIDReceptionist, RoleIDDoctor},
	{AppointmentStatusScheduled, AppointmentStatusInProgress}: {RoleIDDoctor},
	{AppointmentStatusConfirmed, AppointmentStatusInProgress}: {RoleIDDoctor},
	{AppointmentStatusInProgress, AppointmentStatusCompleted}: {RoleIDDoctor},
	{AppointmentStatusScheduled, AppointmentStatusCancelled}:  {RoleIDReceptionist, RoleIDDoctor},
	{AppointmentStatusConfirmed, AppointmentStatusCancelled}:  {RoleIDReceptionist, RoleIDDoctor},
	{AppointmentStatusInProgress, AppointmentStatusCancelled}: {RoleIDReceptionist, RoleIDDoctor},
}

// TransitionPermitted reports whether (from, to) is a permitted status edge.
func TransitionPermitted(from, to AppointmentStatus) bool {
	for _, s := range appointmentTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// TransitionAllowedForRole reports whether roleID may trigger the (from, to)
// edge. Always false for edges that are not permitted at all.
func TransitionAllowedForRole(from, to AppointmentStatus, roleID int) bool {
	for _, id := range transitionRoles[transitionEdge{from, to}] {
		if id == roleID {
			return true
		}
	}
	return false
}

// Appointment represents one booked slot of a doctor's day.
// Rows are never deleted; terminal statuses are retained for audit.
type Appointment struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"doctor_id"`
	AppointmentDate time.Time         `gorm:"type:date;not null;index" json:"appointment_date"`
	AppointmentTime string            `gorm:"type:time;not null" json:"appointment_time"`
	Reason          string            `gorm:"type:text" json:"reason,omitempty"`
	Status          AppointmentStatus `gorm:"type:varchar(20);not null;default:'scheduled';index" json:"status"`
	CreatedBy       uuid.UUID         `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt       time.Time         `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient PatientProfile `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  DoctorProfile  `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// CanTransitionTo reports whether the appointment may move to newStatus.
func (a *Appointment) CanTransitionTo(newStatus AppointmentStatus) bool {
	return TransitionPermitted(a.Status, newStatus)
}

// SlotLabel formats the scheduled slot for user-facing messages.
func (a *Appointment) SlotLabel() string {
	return a.AppointmentDate.Format("Jan 2, 2006") + " at " + a.AppointmentTime
}
