package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fieldops/po-tracker/internal/application/port"
	"github.com/fieldops/po-tracker/internal/domain/entity"
	"github.com/fieldops/po-tracker/pkg/utils"
)

// CreateUserInput carries the fields for a new user account.
type CreateUserInput struct {
	Email        string  `json:"email"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Phone        string  `json:"phone"`
	DepartmentID *string `json:"department_id"`
	JobTitle     string  `json:"job_title"`
	IsAdmin      bool    `json:"is_admin"`
}

// UpdateUserInput carries a partial user edit. Nil fields are left
// untouched; an empty DepartmentID clears the assignment.
type UpdateUserInput struct {
	FirstName    *string `json:"first_name"`
	LastName     *string `json:"last_name"`
	Phone        *string `json:"phone"`
	DepartmentID *string `json:"department_id"`
	JobTitle     *string `json:"job_title"`
	IsAdmin      *bool   `json:"is_admin"`
	IsActive     *bool   `json:"is_active"`
}

// CreateUnitInput carries the fields for a new unit.
type CreateUnitInput struct {
	UnitNumber  string `json:"unit_number"`
	UnitType    string `json:"unit_type"`
	Description string `json:"description"`
}

// UpdateUnitInput carries a partial unit edit.
type UpdateUnitInput struct {
	UnitNumber  *string `json:"unit_number"`
	UnitType    *string `json:"unit_type"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

// UpdateApproverInput carries a partial approver edit. A non-nil
// DepartmentIDs replaces the association set wholesale; an empty slice
// makes the approver global.
type UpdateApproverInput struct {
	IsActive      *bool     `json:"is_active"`
	DepartmentIDs *[]string `json:"department_ids"`
}

// AdminService manages the reference data the workflow runs against:
// departments, vendors, units, user accounts, and the approver and
// technician role rosters. Every operation is admin-only.
type AdminService interface {
	CreateDepartment(ctx context.Context, actor *entity.Actor, name string) (*entity.Department, error)
	UpdateDepartment(ctx context.Context, actor *entity.Actor, id, name string) (*entity.Department, error)
	DeleteDepartment(ctx context.Context, actor *entity.Actor, id string) error
	ListDepartments(ctx context.Context, actor *entity.Actor) ([]*entity.Department, error)

	CreateVendor(ctx context.Context, actor *entity.Actor, name string) (*entity.Vendor, error)
	UpdateVendor(ctx context.Context, actor *entity.Actor, id string, name *string, isActive *bool) (*entity.Vendor, error)
	ListVendors(ctx context.Context, actor *entity.Actor) ([]*entity.Vendor, error)

	CreateUnit(ctx context.Context, actor *entity.Actor, in CreateUnitInput) (*entity.Unit, error)
	UpdateUnit(ctx context.Context, actor *entity.Actor, id string, in UpdateUnitInput) (*entity.Unit, error)
	ListUnits(ctx context.Context, actor *entity.Actor) ([]*entity.Unit, error)

	CreateUser(ctx context.Context, actor *entity.Actor, in CreateUserInput) (*entity.User, error)
	UpdateUser(ctx context.Context, actor *entity.Actor, id string, in UpdateUserInput) (*entity.User, error)
	ListUsers(ctx context.Context, actor *entity.Actor) ([]*entity.User, error)

	CreateApprover(ctx context.Context, actor *entity.Actor, userID string, departmentIDs []string) (*entity.Approver, error)
	UpdateApprover(ctx context.Context, actor *entity.Actor, id string, in UpdateApproverInput) (*entity.Approver, error)
	DeleteApprover(ctx context.Context, actor *entity.Actor, id string) error
	ListApprovers(ctx context.Context, actor *entity.Actor) ([]*entity.Approver, error)

	CreateTechnician(ctx context.Context, actor *entity.Actor, userID string) (*entity.Technician, error)
	UpdateTechnician(ctx context.Context, actor *entity.Actor, id string, isActive *bool) (*entity.Technician, error)
	DeleteTechnician(ctx context.Context, actor *entity.Actor, id string) error
	ListTechnicians(ctx context.Context, actor *entity.Actor) ([]*entity.Technician, error)
}

type adminServiceImpl struct {
	userRepo     port.UserRepository
	deptRepo     port.DepartmentRepository
	vendorRepo   port.VendorRepository
	unitRepo     port.UnitRepository
	approverRepo port.ApproverRepository
	techRepo     port.TechnicianRepository
	txManager    port.TransactionManager
	logger       Logger
}

// NewAdminService creates a new AdminService
func NewAdminService(
	userRepo port.UserRepository,
	deptRepo port.DepartmentRepository,
	vendorRepo port.VendorRepository,
	unitRepo port.UnitRepository,
	approverRepo port.ApproverRepository,
	techRepo port.TechnicianRepository,
	txManager port.TransactionManager,
	logger Logger,
) AdminService {
	return &adminServiceImpl{
		userRepo:     userRepo,
		deptRepo:     deptRepo,
		vendorRepo:   vendorRepo,
		unitRepo:     unitRepo,
		approverRepo: approverRepo,
		techRepo:     techRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

func (s *adminServiceImpl) requireAdmin(actor *entity.Actor) error {
	if !actor.IsAdmin {
		return fmt.Errorf("%w: admin access required", entity.ErrForbidden)
	}
	return nil
}

func (s *adminServiceImpl) CreateDepartment(ctx context.Context, actor *entity.Actor, name string) (*entity.Department, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", entity.ErrValidation)
	}

	existing, err := s.deptRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: department %s already exists", entity.ErrConflict, name)
	}

	dept := &entity.Department{ID: uuid.NewString(), Name: name}
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.deptRepo.Create(txCtx, dept)
	})
	if err != nil {
		s.logger.Error("Failed to create department", "error", err, "name", name)
		return nil, err
	}
	return dept, nil
}

func (s *adminServiceImpl) UpdateDepartment(ctx context.Context, actor *entity.Actor, id, name string) (*entity.Department, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", entity.ErrValidation)
	}

	dept, err := s.deptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if dept == nil {
		return nil, fmt.Errorf("%w: department", entity.ErrNotFound)
	}

	if name != dept.Name {
		existing, err := s.deptRepo.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, fmt.Errorf("%w: department %s already exists", entity.ErrConflict, name)
		}
	}

	dept.Name = name
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.deptRepo.Update(txCtx, dept)
	})
	if err != nil {
		return nil, err
	}
	return dept, nil
}

// DeleteDepartment refuses to delete the fixed Repairs department: the
// repair workflow scopes all of its eligibility checks to it.
func (s *adminServiceImpl) DeleteDepartment(ctx context.Context, actor *entity.Actor, id string) error {
	if err := s.requireAdmin(actor); err != nil {
		return err
	}
	if id == entity.RepairsDepartmentID {
		return fmt.Errorf("%w: the Repairs department cannot be deleted", entity.ErrValidation)
	}

	dept, err := s.deptRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if dept == nil {
		return fmt.Errorf("%w: department", entity.ErrNotFound)
	}

	return s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.deptRepo.Delete(txCtx, id)
	})
}

func (s *adminServiceImpl) ListDepartments(ctx context.Context, actor *entity.Actor) ([]*entity.Department, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.deptRepo.List(ctx)
}

func (s *adminServiceImpl) CreateVendor(ctx context.Context, actor *entity.Actor, name string) (*entity.Vendor, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", entity.ErrValidation)
	}

	vendor := &entity.Vendor{ID: uuid.NewString(), Name: name, IsActive: true}
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.vendorRepo.Create(txCtx, vendor)
	})
	if err != nil {
		s.logger.Error("Failed to create vendor", "error", err, "name", name)
		return nil, err
	}
	return vendor, nil
}

func (s *adminServiceImpl) UpdateVendor(ctx context.Context, actor *entity.Actor, id string, name *string, isActive *bool) (*entity.Vendor, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}

	vendor, err := s.vendorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, fmt.Errorf("%w: vendor", entity.ErrNotFound)
	}

	if name != nil {
		if *name == "" {
			return nil, fmt.Errorf("%w: name is required", entity.ErrValidation)
		}
		vendor.Name = *name
	}
	if isActive != nil {
		vendor.IsActive = *isActive
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.vendorRepo.Update(txCtx, vendor)
	})
	if err != nil {
		return nil, err
	}
	return vendor, nil
}

func (s *adminServiceImpl) ListVendors(ctx context.Context, actor *entity.Actor) ([]*entity.Vendor, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.vendorRepo.List(ctx)
}

func (s *adminServiceImpl) CreateUnit(ctx context.Context, actor *entity.Actor, in CreateUnitInput) (*entity.Unit, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	if in.UnitNumber == "" {
		return nil, fmt.Errorf("%w: unit_number is required", entity.ErrValidation)
	}
	if !entity.UnitType(in.UnitType).IsValid() {
		return nil, fmt.Errorf("%w: invalid unit_type %q", entity.ErrValidation, in.UnitType)
	}

	existing, err := s.unitRepo.GetByUnitNumber(ctx, in.UnitNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: unit %s already exists", entity.ErrConflict, in.UnitNumber)
	}

	unit := &entity.Unit{
		ID:          uuid.NewString(),
		UnitNumber:  in.UnitNumber,
		UnitType:    entity.UnitType(in.UnitType),
		Description: in.Description,
		IsActive:    true,
	}
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.unitRepo.Create(txCtx, unit)
	})
	if err != nil {
		s.logger.Error("Failed to create unit", "error", err, "unit_number", in.UnitNumber)
		return nil, err
	}
	return unit, nil
}

func (s *adminServiceImpl) UpdateUnit(ctx context.Context, actor *entity.Actor, id string, in UpdateUnitInput) (*entity.Unit, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}

	unit, err := s.unitRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, fmt.Errorf("%w: unit", entity.ErrNotFound)
	}

	if in.UnitNumber != nil && *in.UnitNumber != unit.UnitNumber {
		if *in.UnitNumber == "" {
			return nil, fmt.Errorf("%w: unit_number is required", entity.ErrValidation)
		}
		existing, err := s.unitRepo.GetByUnitNumber(ctx, *in.UnitNumber)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, fmt.Errorf("%w: unit %s already exists", entity.ErrConflict, *in.UnitNumber)
		}
		unit.UnitNumber = *in.UnitNumber
	}
	if in.UnitType != nil {
		if !entity.UnitType(*in.UnitType).IsValid() {
			return nil, fmt.Errorf("%w: invalid unit_type %q", entity.ErrValidation, *in.UnitType)
		}
		unit.UnitType = entity.UnitType(*in.UnitType)
	}
	if in.Description != nil {
		unit.Description = *in.Description
	}
	if in.IsActive != nil {
		unit.IsActive = *in.IsActive
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.unitRepo.Update(txCtx, unit)
	})
	if err != nil {
		return nil, err
	}
	return unit, nil
}

func (s *adminServiceImpl) ListUnits(ctx context.Context, actor *entity.Actor) ([]*entity.Unit, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.unitRepo.List(ctx)
}

func (s *adminServiceImpl) CreateUser(ctx context.Context, actor *entity.Actor, in CreateUserInput) (*entity.User, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	if in.Email == "" {
		return nil, fmt.Errorf("%w: email is required", entity.ErrValidation)
	}

	existing, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: user %s already exists", entity.ErrConflict, in.Email)
	}

	if in.DepartmentID != nil && *in.DepartmentID != "" {
		dept, err := s.deptRepo.GetByID(ctx, *in.DepartmentID)
		if err != nil {
			return nil, err
		}
		if dept == nil {
			return nil, fmt.Errorf("%w: department not found", entity.ErrValidation)
		}
	} else {
		in.DepartmentID = nil
	}

	phone, err := utils.NormalizePhone(in.Phone)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrValidation, err)
	}

	user := &entity.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        phone,
		DepartmentID: in.DepartmentID,
		JobTitle:     in.JobTitle,
		IsAdmin:      in.IsAdmin,
		IsActive:     true,
	}
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.userRepo.Create(txCtx, user)
	})
	if err != nil {
		s.logger.Error("Failed to create user", "error", err, "email", in.Email)
		return nil, err
	}

	s.logger.Info("User created", "email", in.Email)
	return user, nil
}

func (s *adminServiceImpl) UpdateUser(ctx context.Context, actor *entity.Actor, id string, in UpdateUserInput) (*entity.User, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user", entity.ErrNotFound)
	}

	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Phone != nil {
		phone, err := utils.NormalizePhone(*in.Phone)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", entity.ErrValidation, err)
		}
		user.Phone = phone
	}
	if in.DepartmentID != nil {
		if *in.DepartmentID == "" {
			user.DepartmentID = nil
		} else {
			dept, err := s.deptRepo.GetByID(ctx, *in.DepartmentID)
			if err != nil {
				return nil, err
			}
			if dept == nil {
				return nil, fmt.Errorf("%w: department not found", entity.ErrValidation)
			}
			user.DepartmentID = in.DepartmentID
		}
	}
	if in.JobTitle != nil {
		user.JobTitle = *in.JobTitle
	}
	if in.IsAdmin != nil {
		user.IsAdmin = *in.IsAdmin
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.userRepo.Update(txCtx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *adminServiceImpl) ListUsers(ctx context.Context, actor *entity.Actor) ([]*entity.User, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.userRepo.List(ctx)
}

func (s *adminServiceImpl) CreateApprover(ctx context.Context, actor *entity.Actor, userID string, departmentIDs []string) (*entity.Approver, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user not found", entity.ErrValidation)
	}

	existing, err := s.approverRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: user is already an approver", entity.ErrConflict)
	}

	for _, deptID := range departmentIDs {
		dept, err := s.deptRepo.GetByID(ctx, deptID)
		if err != nil {
			return nil, err
		}
		if dept == nil {
			return nil, fmt.Errorf("%w: department %s not found", entity.ErrValidation, deptID)
		}
	}

	approver := &entity.Approver{
		ID:            uuid.NewString(),
		UserID:        userID,
		IsActive:      true,
		DepartmentIDs: departmentIDs,
		CreatedByID:   &actor.ID,
	}
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.approverRepo.Create(txCtx, approver); err != nil {
			return err
		}
		return s.approverRepo.ReplaceDepartments(txCtx, approver.ID, departmentIDs)
	})
	if err != nil {
		s.logger.Error("Failed to create approver", "error", err, "user_id", userID)
		return nil, err
	}

	s.logger.Info("Approver created", "user_id", userID, "departments", len(departmentIDs))
	return s.approverRepo.GetByID(ctx, approver.ID)
}

func (s *adminServiceImpl) UpdateApprover(ctx context.Context, actor *entity.Actor, id string, in UpdateApproverInput) (*entity.Approver, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}

	approver, err := s.approverRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if approver == nil {
		return nil, fmt.Errorf("%w: approver", entity.ErrNotFound)
	}

	if in.IsActive != nil {
		approver.IsActive = *in.IsActive
	}
	if in.DepartmentIDs != nil {
		for _, deptID := range *in.DepartmentIDs {
			dept, err := s.deptRepo.GetByID(ctx, deptID)
			if err != nil {
				return nil, err
			}
			if dept == nil {
				return nil, fmt.Errorf("%w: department %s not found", entity.ErrValidation, deptID)
			}
		}
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.approverRepo.Update(txCtx, approver); err != nil {
			return err
		}
		if in.DepartmentIDs != nil {
			return s.approverRepo.ReplaceDepartments(txCtx, id, *in.DepartmentIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.approverRepo.GetByID(ctx, id)
}

func (s *adminServiceImpl) DeleteApprover(ctx context.Context, actor *entity.Actor, id string) error {
	if err := s.requireAdmin(actor); err != nil {
		return err
	}

	approver, err := s.approverRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if approver == nil {
		return fmt.Errorf("%w: approver", entity.ErrNotFound)
	}

	return s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.approverRepo.Delete(txCtx, id)
	})
}

func (s *adminServiceImpl) ListApprovers(ctx context.Context, actor *entity.Actor) ([]*entity.Approver, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.approverRepo.List(ctx)
}

func (s *adminServiceImpl) CreateTechnician(ctx context.Context, actor *entity.Actor, userID string) (*entity.Technician, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user not found", entity.ErrValidation)
	}

	existing, err := s.techRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: user is already a technician", entity.ErrConflict)
	}

	tech := &entity.Technician{
		ID:          uuid.NewString(),
		UserID:      userID,
		IsActive:    true,
		CreatedByID: &actor.ID,
	}
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.techRepo.Create(txCtx, tech)
	})
	if err != nil {
		s.logger.Error("Failed to create technician", "error", err, "user_id", userID)
		return nil, err
	}

	s.logger.Info("Technician created", "user_id", userID)
	return s.techRepo.GetByID(ctx, tech.ID)
}

func (s *adminServiceImpl) UpdateTechnician(ctx context.Context, actor *entity.Actor, id string, isActive *bool) (*entity.Technician, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}

	tech, err := s.techRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tech == nil {
		return nil, fmt.Errorf("%w: technician", entity.ErrNotFound)
	}

	if isActive != nil {
		tech.IsActive = *isActive
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.techRepo.Update(txCtx, tech)
	})
	if err != nil {
		return nil, err
	}
	return tech, nil
}

func (s *adminServiceImpl) DeleteTechnician(ctx context.Context, actor *entity.Actor, id string) error {
	if err := s.requireAdmin(actor); err != nil {
		return err
	}

	tech, err := s.techRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if tech == nil {
		return fmt.Errorf("%w: technician", entity.ErrNotFound)
	}

	return s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.techRepo.Delete(txCtx, id)
	})
}

func (s *adminServiceImpl) ListTechnicians(ctx context.Context, actor *entity.Actor) ([]*entity.Technician, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.techRepo.List(ctx)
}
