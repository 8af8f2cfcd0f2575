package entity

import "time"

// RepairsDepartmentID is the fixed department used as the eligibility scope
// for all repair approvals, independent of the requester's home department.
// The migrator seeds this row.
const RepairsDepartmentID = "00000000-0000-0000-0000-000000000001"

// Department scopes approver eligibility.
type Department struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
