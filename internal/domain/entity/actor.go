package entity

import "github.com/google/uuid"

// Actor is the authenticated user performing an operation.
// Every usecase operation that mutates or scopes data receives an Actor
// explicitly; nothing reads identity from ambient state.
type Actor struct {
	UserID uuid.UUID
	RoleID int
}

func (a Actor) IsAdmin() bool {
	return a.RoleID == RoleIDAdmin
}

func (a Actor) IsDoctor() bool {
	return a.RoleID == RoleIDDoctor
}

func (a Actor) IsPatient() bool {
	return a.RoleID == RoleIDPatient
}

func (a Actor) IsReceptionist() bool {
	return a.RoleID == RoleIDReceptionist
}

// IsStaff reports whether the actor may see clinic-wide data.
func (a Actor) IsStaff() bool {
	return a.RoleID == RoleIDAdmin || a.RoleID == RoleIDReceptionist
}
