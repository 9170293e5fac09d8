package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestAppointmentStatusIsValid(t *testing.T) {
	valid := []AppointmentStatus{
		AppointmentStatusScheduled,
		AppointmentStatusConfirmed,
		AppointmentStatusInProgress,
		AppointmentStatusCompleted,
		AppointmentStatusCancelled,
	}
	for _, s := range valid {
		if !s.IsValid() {
			t.Errorf("IsValid(%q) = false, want true", s)
		}
	}

	for _, s := range []AppointmentStatus{"", "pending", "done", "SCHEDULED"} {
		if s.IsValid() {
			t.Errorf("IsValid(%q) = true, want false", s)
		}
	}
}

func TestAppointmentStatusIsTerminal(t *testing.T) {
	tests := []struct {
		status AppointmentStatus
		want   bool
	}{
		{AppointmentStatusScheduled, false},
		{AppointmentStatusConfirmed, false},
		{AppointmentStatusInProgress, false},
		{AppointmentStatusCompleted, true},
		{AppointmentStatusCancelled, true},
	}
	for _, tt := range tests {
		if got := tt.status.IsTerminal(); got != tt.want {
			t.Errorf("IsTerminal(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestTransitionPermitted(t *testing.T) {
	all := []AppointmentStatus{
		AppointmentStatusScheduled,
		AppointmentStatusConfirmed,
		AppointmentStatusInProgress,
		AppointmentStatusCompleted,
		AppointmentStatusCancelled,
	}

	allowed := map[[2]AppointmentStatus]bool{
		{AppointmentStatusScheduled, AppointmentStatusConfirmed}:  true,
		{AppointmentStatusScheduled, AppointmentStatusInProgress}: true,
		{AppointmentStatusScheduled, AppointmentStatusCancelled}:  true,
		{AppointmentStatusConfirmed, AppointmentStatusInProgress}: true,
		{AppointmentStatusConfirmed, AppointmentStatusCancelled}:  true,
		{AppointmentStatusInProgress, AppointmentStatusCompleted}: true,
		{AppointmentStatusInProgress, AppointmentStatusCancelled}: true,
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]AppointmentStatus{from, to}]
			if got := TransitionPermitted(from, to); got != want {
				t.Errorf("TransitionPermitted(%q, %q) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestTerminalStatusesHaveNoOutgoingEdges(t *testing.T) {
	all := []AppointmentStatus{
		AppointmentStatusScheduled,
		AppointmentStatusConfirmed,
		AppointmentStatusInProgress,
		AppointmentStatusCompleted,
		AppointmentStatusCancelled,
	}
	for _, from := range []AppointmentStatus{AppointmentStatusCompleted, AppointmentStatusCancelled} {
		for _, to := range all {
			if TransitionPermitted(from, to) {
				t.Errorf("TransitionPermitted(%q, %q) = true, want false for terminal status", from, to)
			}
		}
	}
}

func TestTransitionAllowedForRole(t *testing.T) {
	tests := []struct {
		name   string
		from   AppointmentStatus
		to     AppointmentStatus
		roleID int
		want   bool
	}{
		{"receptionist confirms", AppointmentStatusScheduled, AppointmentStatusConfirmed, RoleIDReceptionist, true},
		{"doctor confirms", AppointmentStatusScheduled, AppointmentStatusConfirmed, RoleIDDoctor, true},
		{"patient cannot confirm", AppointmentStatusScheduled, AppointmentStatusConfirmed, RoleIDPatient, false},
		{"admin cannot confirm", AppointmentStatusScheduled, AppointmentStatusConfirmed, RoleIDAdmin, false},
		{"doctor starts visit", AppointmentStatusConfirmed, AppointmentStatusInProgress, RoleIDDoctor, true},
		{"receptionist cannot start visit", AppointmentStatusConfirmed, AppointmentStatusInProgress, RoleIDReceptionist, false},
		{"doctor starts unconfirmed visit", AppointmentStatusScheduled, AppointmentStatusInProgress, RoleIDDoctor, true},
		{"doctor completes", AppointmentStatusInProgress, AppointmentStatusCompleted, RoleIDDoctor, true},
		{"receptionist cannot complete", AppointmentStatusInProgress, AppointmentStatusCompleted, RoleIDReceptionist, false},
		{"receptionist cancels scheduled", AppointmentStatusScheduled, AppointmentStatusCancelled, RoleIDReceptionist, true},
		{"doctor cancels in progress", AppointmentStatusInProgress, AppointmentStatusCancelled, RoleIDDoctor, true},
		{"patient cannot cancel", AppointmentStatusScheduled, AppointmentStatusCancelled, RoleIDPatient, false},
		{"no role on impossible edge", AppointmentStatusCompleted, AppointmentStatusCancelled, RoleIDDoctor, false},
		{"no role on reverse edge", AppointmentStatusConfirmed, AppointmentStatusScheduled, RoleIDDoctor, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TransitionAllowedForRole(tt.from, tt.to, tt.roleID); got != tt.want {
				t.Errorf("TransitionAllowedForRole(%q, %q, %d) = %v, want %v", tt.from, tt.to, tt.roleID, got, tt.want)
			}
		})
	}
}

func TestAppointmentCanTransitionTo(t *testing.T) {
	a := &Appointment{Status: AppointmentStatusScheduled}
	if !a.CanTransitionTo(AppointmentStatusConfirmed) {
		t.Error("CanTransitionTo(confirmed) from scheduled = false, want true")
	}
	if a.CanTransitionTo(AppointmentStatusCompleted) {
		t.Error("CanTransitionTo(completed) from scheduled = true, want false")
	}
}

func TestAppointmentSlotLabel(t *testing.T) {
	a := &Appointment{
		ID:              uuid.New(),
		AppointmentDate: time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC),
		AppointmentTime: "14:30",
	}
	if got, want := a.SlotLabel(), "Mar 5, 2026 at 14:30"; got != want {
		t.Errorf("SlotLabel() = %q, want %q", got, want)
	}
}
