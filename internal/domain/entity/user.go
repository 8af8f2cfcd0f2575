package entity

import "time"

// User is an account in the operations organization.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Phone        string    `json:"phone,omitempty"`
	DepartmentID *string   `json:"department_id,omitempty"`
	JobTitle     string    `json:"job_title,omitempty"`
	IsAdmin      bool      `json:"is_admin"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Actor is the authenticated identity attached to every workflow operation.
// IsApprover and IsTechnician are computed from the presence of an active
// approver/technician record, never stored on the user row.
type Actor struct {
	ID           string
	IsAdmin      bool
	IsApprover   bool
	IsTechnician bool
	DepartmentID *string
	IsActive     bool
}

// ActorFromUser builds an actor with the given computed capability flags.
func ActorFromUser(u *User, isApprover, isTechnician bool) *Actor {
	return &Actor{
		ID:           u.ID,
		IsAdmin:      u.IsAdmin,
		IsApprover:   isApprover,
		IsTechnician: isTechnician,
		DepartmentID: u.DepartmentID,
		IsActive:     u.IsActive,
	}
}
