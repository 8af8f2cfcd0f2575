package entity

import "time"

// Approver authorizes a user to approve or reject pending orders and repairs.
// A user has at most one approver record. An approver with no department
// associations is global: eligible for every request.
type Approver struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	IsActive      bool      `json:"is_active"`
	DepartmentIDs []string  `json:"department_ids"`
	CreatedByID   *string   `json:"created_by_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	User *User `json:"user,omitempty"`
}

// IsGlobal reports whether the approver has no department associations
// and therefore approves for all departments.
func (a *Approver) IsGlobal() bool {
	return len(a.DepartmentIDs) == 0
}

// CanApproveForDepartment reports whether this approver may act on requests
// from the given department. A nil department only matches global approvers.
func (a *Approver) CanApproveForDepartment(departmentID *string) bool {
	if a.IsGlobal() {
		return true
	}
	if departmentID == nil {
		return false
	}
	for _, id := range a.DepartmentIDs {
		if id == *departmentID {
			return true
		}
	}
	return false
}

// Technician authorizes a user to complete approved repairs. No department
// scoping: any active technician may complete any approved repair.
type Technician struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	IsActive    bool      `json:"is_active"`
	CreatedByID *string   `json:"created_by_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	User *User `json:"user,omitempty"`
}
