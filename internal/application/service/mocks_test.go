package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fieldops/po-tracker/internal/application/port"
	"github.com/fieldops/po-tracker/internal/domain/entity"
)

// Mock repositories. Each method delegates to an optional function field so
// tests only stub what they care about.

type mockUserRepo struct {
	createFunc     func(ctx context.Context, user *entity.User) error
	getByIDFunc    func(ctx context.Context, id string) (*entity.User, error)
	getByEmailFunc func(ctx context.Context, email string) (*entity.User, error)
	updateFunc     func(ctx context.Context, user *entity.User) error
	listFunc       func(ctx context.Context) ([]*entity.User, error)
	listAdminsFunc func(ctx context.Context) ([]*entity.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *entity.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &entity.User{ID: id, IsActive: true}, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *entity.User) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) List(ctx context.Context) ([]*entity.User, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return []*entity.User{}, nil
}

func (m *mockUserRepo) ListAdmins(ctx context.Context) ([]*entity.User, error) {
	if m.listAdminsFunc != nil {
		return m.listAdminsFunc(ctx)
	}
	return []*entity.User{}, nil
}

type mockVendorRepo struct {
	getByIDFunc func(ctx context.Context, id string) (*entity.Vendor, error)
}

func (m *mockVendorRepo) Create(ctx context.Context, vendor *entity.Vendor) error { return nil }

func (m *mockVendorRepo) GetByID(ctx context.Context, id string) (*entity.Vendor, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &entity.Vendor{ID: id, Name: "Acme Supply", IsActive: true}, nil
}

func (m *mockVendorRepo) Update(ctx context.Context, vendor *entity.Vendor) error { return nil }

func (m *mockVendorRepo) List(ctx context.Context) ([]*entity.Vendor, error) {
	return []*entity.Vendor{}, nil
}

type mockUnitRepo struct {
	getByIDFunc func(ctx context.Context, id string) (*entity.Unit, error)
}

func (m *mockUnitRepo) Create(ctx context.Context, unit *entity.Unit) error { return nil }

func (m *mockUnitRepo) GetByID(ctx context.Context, id string) (*entity.Unit, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &entity.Unit{ID: id, UnitNumber: "T-100"}, nil
}

func (m *mockUnitRepo) GetByUnitNumber(ctx context.Context, unitNumber string) (*entity.Unit, error) {
	return nil, nil
}

func (m *mockUnitRepo) Update(ctx context.Context, unit *entity.Unit) error { return nil }

func (m *mockUnitRepo) List(ctx context.Context) ([]*entity.Unit, error) {
	return []*entity.Unit{}, nil
}

type mockApproverRepo struct {
	createFunc             func(ctx context.Context, approver *entity.Approver) error
	getByIDFunc            func(ctx context.Context, id string) (*entity.Approver, error)
	getByUserIDFunc        func(ctx context.Context, userID string) (*entity.Approver, error)
	updateFunc             func(ctx context.Context, approver *entity.Approver) error
	replaceDepartmentsFunc func(ctx context.Context, approverID string, departmentIDs []string) error
	deleteFunc             func(ctx context.Context, id string) error
	listFunc               func(ctx context.Context) ([]*entity.Approver, error)
	listActiveFunc         func(ctx context.Context) ([]*entity.Approver, error)
}

func (m *mockApproverRepo) Create(ctx context.Context, approver *entity.Approver) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, approver)
	}
	return nil
}

func (m *mockApproverRepo) GetByID(ctx context.Context, id string) (*entity.Approver, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockApproverRepo) GetByUserID(ctx context.Context, userID string) (*entity.Approver, error) {
	if m.getByUserIDFunc != nil {
		return m.getByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockApproverRepo) Update(ctx context.Context, approver *entity.Approver) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, approver)
	}
	return nil
}

func (m *mockApproverRepo) ReplaceDepartments(ctx context.Context, approverID string, departmentIDs []string) error {
	if m.replaceDepartmentsFunc != nil {
		return m.replaceDepartmentsFunc(ctx, approverID, departmentIDs)
	}
	return nil
}

func (m *mockApproverRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockApproverRepo) List(ctx context.Context) ([]*entity.Approver, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return []*entity.Approver{}, nil
}

func (m *mockApproverRepo) ListActive(ctx context.Context) ([]*entity.Approver, error) {
	if m.listActiveFunc != nil {
		return m.listActiveFunc(ctx)
	}
	return []*entity.Approver{}, nil
}

type mockTechnicianRepo struct {
	createFunc      func(ctx context.Context, tech *entity.Technician) error
	getByIDFunc     func(ctx context.Context, id string) (*entity.Technician, error)
	getByUserIDFunc func(ctx context.Context, userID string) (*entity.Technician, error)
	listActiveFunc  func(ctx context.Context) ([]*entity.Technician, error)
}

func (m *mockTechnicianRepo) Create(ctx context.Context, tech *entity.Technician) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, tech)
	}
	return nil
}

func (m *mockTechnicianRepo) GetByID(ctx context.Context, id string) (*entity.Technician, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockTechnicianRepo) GetByUserID(ctx context.Context, userID string) (*entity.Technician, error) {
	if m.getByUserIDFunc != nil {
		return m.getByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockTechnicianRepo) Update(ctx context.Context, tech *entity.Technician) error { return nil }

func (m *mockTechnicianRepo) Delete(ctx context.Context, id string) error { return nil }

func (m *mockTechnicianRepo) List(ctx context.Context) ([]*entity.Technician, error) {
	return []*entity.Technician{}, nil
}

func (m *mockTechnicianRepo) ListActive(ctx context.Context) ([]*entity.Technician, error) {
	if m.listActiveFunc != nil {
		return m.listActiveFunc(ctx)
	}
	return []*entity.Technician{}, nil
}

type mockOrderRepo struct {
	createFunc        func(ctx context.Context, order *entity.Order) error
	getByIDFunc       func(ctx context.Context, id string) (*entity.Order, error)
	updateFunc        func(ctx context.Context, order *entity.Order) error
	deleteFunc        func(ctx context.Context, id string) error
	replaceItemsFunc  func(ctx context.Context, orderID string, items []entity.OrderItem) error
	setStatusFunc     func(ctx context.Context, order *entity.Order) error
	setPOGroupFunc    func(ctx context.Context, orderID string, poGroupID *string) error
	listFunc          func(ctx context.Context, filter port.OrderFilter) ([]*entity.Order, error)
	listByOwnerFunc   func(ctx context.Context, userID string) ([]*entity.Order, error)
	listPendingFunc   func(ctx context.Context) ([]*entity.Order, error)
	listAvailableFunc func(ctx context.Context) ([]*entity.Order, error)
	countByGroupFunc  func(ctx context.Context, poGroupID string) (int, error)
	nextNumberFunc    func(ctx context.Context, prefix string, at time.Time) (string, error)
}

func (m *mockOrderRepo) Create(ctx context.Context, order *entity.Order) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, order)
	}
	return nil
}

func (m *mockOrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockOrderRepo) Update(ctx context.Context, order *entity.Order) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, order)
	}
	return nil
}

func (m *mockOrderRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockOrderRepo) ReplaceItems(ctx context.Context, orderID string, items []entity.OrderItem) error {
	if m.replaceItemsFunc != nil {
		return m.replaceItemsFunc(ctx, orderID, items)
	}
	return nil
}

func (m *mockOrderRepo) SetStatus(ctx context.Context, order *entity.Order) error {
	if m.setStatusFunc != nil {
		return m.setStatusFunc(ctx, order)
	}
	return nil
}

func (m *mockOrderRepo) SetPOGroup(ctx context.Context, orderID string, poGroupID *string) error {
	if m.setPOGroupFunc != nil {
		return m.setPOGroupFunc(ctx, orderID, poGroupID)
	}
	return nil
}

func (m *mockOrderRepo) List(ctx context.Context, filter port.OrderFilter) ([]*entity.Order, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter)
	}
	return []*entity.Order{}, nil
}

func (m *mockOrderRepo) ListByOwner(ctx context.Context, userID string) ([]*entity.Order, error) {
	if m.listByOwnerFunc != nil {
		return m.listByOwnerFunc(ctx, userID)
	}
	return []*entity.Order{}, nil
}

func (m *mockOrderRepo) ListPending(ctx context.Context) ([]*entity.Order, error) {
	if m.listPendingFunc != nil {
		return m.listPendingFunc(ctx)
	}
	return []*entity.Order{}, nil
}

func (m *mockOrderRepo) ListAvailableForGrouping(ctx context.Context) ([]*entity.Order, error) {
	if m.listAvailableFunc != nil {
		return m.listAvailableFunc(ctx)
	}
	return []*entity.Order{}, nil
}

func (m *mockOrderRepo) CountByGroup(ctx context.Context, poGroupID string) (int, error) {
	if m.countByGroupFunc != nil {
		return m.countByGroupFunc(ctx, poGroupID)
	}
	return 0, nil
}

func (m *mockOrderRepo) NextNumber(ctx context.Context, prefix string, at time.Time) (string, error) {
	if m.nextNumberFunc != nil {
		return m.nextNumberFunc(ctx, prefix, at)
	}
	return fmt.Sprintf("%s-%s-0001", prefix, at.Format("20060102")), nil
}

type mockRepairRepo struct {
	createFunc       func(ctx context.Context, repair *entity.Repair) error
	getByIDFunc      func(ctx context.Context, id string) (*entity.Repair, error)
	updateFunc       func(ctx context.Context, repair *entity.Repair) error
	deleteFunc       func(ctx context.Context, id string) error
	replaceItemsFunc func(ctx context.Context, repairID string, items []entity.RepairItem) error
	setStatusFunc    func(ctx context.Context, repair *entity.Repair) error
	listFunc         func(ctx context.Context, filter port.RepairFilter) ([]*entity.Repair, error)
	listByOwnerFunc  func(ctx context.Context, userID string) ([]*entity.Repair, error)
	listByStatusFunc func(ctx context.Context, status string) ([]*entity.Repair, error)
	nextNumberFunc   func(ctx context.Context, prefix string, at time.Time) (string, error)
}

func (m *mockRepairRepo) Create(ctx context.Context, repair *entity.Repair) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, repair)
	}
	return nil
}

func (m *mockRepairRepo) GetByID(ctx context.Context, id string) (*entity.Repair, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockRepairRepo) Update(ctx context.Context, repair *entity.Repair) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, repair)
	}
	return nil
}

func (m *mockRepairRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockRepairRepo) ReplaceItems(ctx context.Context, repairID string, items []entity.RepairItem) error {
	if m.replaceItemsFunc != nil {
		return m.replaceItemsFunc(ctx, repairID, items)
	}
	return nil
}

func (m *mockRepairRepo) SetStatus(ctx context.Context, repair *entity.Repair) error {
	if m.setStatusFunc != nil {
		return m.setStatusFunc(ctx, repair)
	}
	return nil
}

func (m *mockRepairRepo) List(ctx context.Context, filter port.RepairFilter) ([]*entity.Repair, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter)
	}
	return []*entity.Repair{}, nil
}

func (m *mockRepairRepo) ListByOwner(ctx context.Context, userID string) ([]*entity.Repair, error) {
	if m.listByOwnerFunc != nil {
		return m.listByOwnerFunc(ctx, userID)
	}
	return []*entity.Repair{}, nil
}

func (m *mockRepairRepo) ListByStatus(ctx context.Context, status string) ([]*entity.Repair, error) {
	if m.listByStatusFunc != nil {
		return m.listByStatusFunc(ctx, status)
	}
	return []*entity.Repair{}, nil
}

func (m *mockRepairRepo) NextNumber(ctx context.Context, prefix string, at time.Time) (string, error) {
	if m.nextNumberFunc != nil {
		return m.nextNumberFunc(ctx, prefix, at)
	}
	return fmt.Sprintf("%s-%s-0001", prefix, at.Format("20060102")), nil
}

type mockPOGroupRepo struct {
	createFunc        func(ctx context.Context, group *entity.POGroup) error
	getByIDFunc       func(ctx context.Context, id string) (*entity.POGroup, error)
	getByPONumberFunc func(ctx context.Context, poNumber string) (*entity.POGroup, error)
	updateFunc        func(ctx context.Context, group *entity.POGroup) error
	deleteFunc        func(ctx context.Context, id string) error
	listFunc          func(ctx context.Context) ([]*entity.POGroup, error)
}

func (m *mockPOGroupRepo) Create(ctx context.Context, group *entity.POGroup) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, group)
	}
	return nil
}

func (m *mockPOGroupRepo) GetByID(ctx context.Context, id string) (*entity.POGroup, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &entity.POGroup{ID: id, PONumber: "PO-1001"}, nil
}

func (m *mockPOGroupRepo) GetByPONumber(ctx context.Context, poNumber string) (*entity.POGroup, error) {
	if m.getByPONumberFunc != nil {
		return m.getByPONumberFunc(ctx, poNumber)
	}
	return nil, nil
}

func (m *mockPOGroupRepo) Update(ctx context.Context, group *entity.POGroup) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, group)
	}
	return nil
}

func (m *mockPOGroupRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockPOGroupRepo) List(ctx context.Context) ([]*entity.POGroup, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return []*entity.POGroup{}, nil
}

type mockDepartmentRepo struct {
	createFunc    func(ctx context.Context, dept *entity.Department) error
	getByIDFunc   func(ctx context.Context, id string) (*entity.Department, error)
	getByNameFunc func(ctx context.Context, name string) (*entity.Department, error)
	updateFunc    func(ctx context.Context, dept *entity.Department) error
	deleteFunc    func(ctx context.Context, id string) error
	listFunc      func(ctx context.Context) ([]*entity.Department, error)
}

func (m *mockDepartmentRepo) Create(ctx context.Context, dept *entity.Department) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, dept)
	}
	return nil
}

func (m *mockDepartmentRepo) GetByID(ctx context.Context, id string) (*entity.Department, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &entity.Department{ID: id, Name: "Operations"}, nil
}

func (m *mockDepartmentRepo) GetByName(ctx context.Context, name string) (*entity.Department, error) {
	if m.getByNameFunc != nil {
		return m.getByNameFunc(ctx, name)
	}
	return nil, nil
}

func (m *mockDepartmentRepo) Update(ctx context.Context, dept *entity.Department) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, dept)
	}
	return nil
}

func (m *mockDepartmentRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockDepartmentRepo) List(ctx context.Context) ([]*entity.Department, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return []*entity.Department{}, nil
}

type mockTxManager struct {
	withTransactionFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.withTransactionFunc != nil {
		return m.withTransactionFunc(ctx, fn)
	}
	return fn(ctx)
}

type mockNotifier struct {
	sendFunc     func(ctx context.Context, to, message string) bool
	sendBulkFunc func(ctx context.Context, recipients []port.SMSRecipient) port.BulkSendResult

	sent     []string
	bulkSent [][]port.SMSRecipient
}

func (m *mockNotifier) Send(ctx context.Context, to, message string) bool {
	m.sent = append(m.sent, to)
	if m.sendFunc != nil {
		return m.sendFunc(ctx, to, message)
	}
	return true
}

func (m *mockNotifier) SendBulk(ctx context.Context, recipients []port.SMSRecipient) port.BulkSendResult {
	m.bulkSent = append(m.bulkSent, recipients)
	if m.sendBulkFunc != nil {
		return m.sendBulkFunc(ctx, recipients)
	}
	return port.BulkSendResult{SuccessCount: len(recipients)}
}

type mockLogger struct{}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}

func floatPtr(v float64) *float64 { return &v }

func strPtr(v string) *string { return &v }
