package port

import (
	"context"
	"time"

	"github.com/fieldops/po-tracker/internal/domain/entity"
)

// UserRepository defines persistence operations for User
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	List(ctx context.Context) ([]*entity.User, error)
	ListAdmins(ctx context.Context) ([]*entity.User, error)
}

// DepartmentRepository defines persistence operations for Department
type DepartmentRepository interface {
	Create(ctx context.Context, dept *entity.Department) error
	GetByID(ctx context.Context, id string) (*entity.Department, error)
	GetByName(ctx context.Context, name string) (*entity.Department, error)
	Update(ctx context.Context, dept *entity.Department) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entity.Department, error)
}

// VendorRepository defines persistence operations for Vendor
type VendorRepository interface {
	Create(ctx context.Context, vendor *entity.Vendor) error
	GetByID(ctx context.Context, id string) (*entity.Vendor, error)
	Update(ctx context.Context, vendor *entity.Vendor) error
	List(ctx context.Context) ([]*entity.Vendor, error)
}

// UnitRepository defines persistence operations for Unit
type UnitRepository interface {
	Create(ctx context.Context, unit *entity.Unit) error
	GetByID(ctx context.Context, id string) (*entity.Unit, error)
	GetByUnitNumber(ctx context.Context, unitNumber string) (*entity.Unit, error)
	Update(ctx context.Context, unit *entity.Unit) error
	List(ctx context.Context) ([]*entity.Unit, error)
}

// ApproverRepository defines persistence operations for Approver and its
// department associations. The association set is replaced wholesale on
// update, never diffed.
type ApproverRepository interface {
	Create(ctx context.Context, approver *entity.Approver) error
	GetByID(ctx context.Context, id string) (*entity.Approver, error)
	GetByUserID(ctx context.Context, userID string) (*entity.Approver, error)
	Update(ctx context.Context, approver *entity.Approver) error
	ReplaceDepartments(ctx context.Context, approverID string, departmentIDs []string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entity.Approver, error)
	ListActive(ctx context.Context) ([]*entity.Approver, error)
}

// TechnicianRepository defines persistence operations for Technician
type TechnicianRepository interface {
	Create(ctx context.Context, tech *entity.Technician) error
	GetByID(ctx context.Context, id string) (*entity.Technician, error)
	GetByUserID(ctx context.Context, userID string) (*entity.Technician, error)
	Update(ctx context.Context, tech *entity.Technician) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entity.Technician, error)
	ListActive(ctx context.Context) ([]*entity.Technician, error)
}

// OrderFilter narrows order list queries.
type OrderFilter struct {
	Status        string
	OrderedByID   string
	VendorID      string
	POGroupID     string
	DepartmentIDs []string // filter by requester department, via join
}

// OrderRepository defines persistence operations for Order and its items
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	Update(ctx context.Context, order *entity.Order) error
	Delete(ctx context.Context, id string) error
	ReplaceItems(ctx context.Context, orderID string, items []entity.OrderItem) error
	SetStatus(ctx context.Context, order *entity.Order) error
	SetPOGroup(ctx context.Context, orderID string, poGroupID *string) error
	List(ctx context.Context, filter OrderFilter) ([]*entity.Order, error)
	ListByOwner(ctx context.Context, userID string) ([]*entity.Order, error)
	ListPending(ctx context.Context) ([]*entity.Order, error)
	ListAvailableForGrouping(ctx context.Context) ([]*entity.Order, error)
	CountByGroup(ctx context.Context, poGroupID string) (int, error)
	NextNumber(ctx context.Context, prefix string, at time.Time) (string, error)
}

// RepairFilter narrows repair list queries.
type RepairFilter struct {
	Status        string
	RequestedByID string
	UnitID        string
}

// RepairRepository defines persistence operations for Repair and its items
type RepairRepository interface {
	Create(ctx context.Context, repair *entity.Repair) error
	GetByID(ctx context.Context, id string) (*entity.Repair, error)
	Update(ctx context.Context, repair *entity.Repair) error
	Delete(ctx context.Context, id string) error
	ReplaceItems(ctx context.Context, repairID string, items []entity.RepairItem) error
	SetStatus(ctx context.Context, repair *entity.Repair) error
	List(ctx context.Context, filter RepairFilter) ([]*entity.Repair, error)
	ListByOwner(ctx context.Context, userID string) ([]*entity.Repair, error)
	ListByStatus(ctx context.Context, status string) ([]*entity.Repair, error)
	NextNumber(ctx context.Context, prefix string, at time.Time) (string, error)
}

// POGroupRepository defines persistence operations for POGroup
type POGroupRepository interface {
	Create(ctx context.Context, group *entity.POGroup) error
	GetByID(ctx context.Context, id string) (*entity.POGroup, error)
	GetByPONumber(ctx context.Context, poNumber string) (*entity.POGroup, error)
	Update(ctx context.Context, group *entity.POGroup) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entity.POGroup, error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
