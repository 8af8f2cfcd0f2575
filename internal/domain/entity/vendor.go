package entity

import "time"

// Vendor is a supplier orders are placed with.
type Vendor struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ContactInfo string    `json:"contact_info,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UnitType classifies a unit.
type UnitType string

const (
	UnitTypeVehicle   UnitType = "vehicle"
	UnitTypeTrailer   UnitType = "trailer"
	UnitTypeEquipment UnitType = "equipment"
	UnitTypeLocation  UnitType = "location"
	UnitTypeOther     UnitType = "other"
)

// UnitTypes lists all valid unit types.
func UnitTypes() []UnitType {
	return []UnitType{UnitTypeVehicle, UnitTypeTrailer, UnitTypeEquipment, UnitTypeLocation, UnitTypeOther}
}

// IsValid reports whether t is a known unit type.
func (t UnitType) IsValid() bool {
	for _, v := range UnitTypes() {
		if t == v {
			return true
		}
	}
	return false
}

// Unit is a piece of equipment, vehicle or location orders and repairs
// reference.
type Unit struct {
	ID           string    `json:"id"`
	UnitNumber   string    `json:"unit_number"`
	Description  string    `json:"description,omitempty"`
	UnitType     UnitType  `json:"unit_type"`
	DepartmentID *string   `json:"department_id,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedByID  *string   `json:"created_by_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
