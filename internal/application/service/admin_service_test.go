package service

import (
	"context"
	"errors"
	"testing"

	"github.com/fieldops/po-tracker/internal/domain/entity"
)

func newAdminService(userRepo *mockUserRepo, deptRepo *mockDepartmentRepo, approverRepo *mockApproverRepo, techRepo *mockTechnicianRepo) AdminService {
	return NewAdminService(userRepo, deptRepo, &mockVendorRepo{}, &mockUnitRepo{},
		approverRepo, techRepo, &mockTxManager{}, &mockLogger{})
}

func TestAdminService_RequiresAdmin(t *testing.T) {
	svc := newAdminService(&mockUserRepo{}, &mockDepartmentRepo{}, &mockApproverRepo{}, &mockTechnicianRepo{})
	actor := &entity.Actor{ID: "user-1", IsApprover: true}

	if _, err := svc.CreateDepartment(context.Background(), actor, "Yard"); !errors.Is(err, entity.ErrForbidden) {
		t.Errorf("CreateDepartment() error = %v, want ErrForbidden", err)
	}
	if _, err := svc.ListUsers(context.Background(), actor); !errors.Is(err, entity.ErrForbidden) {
		t.Errorf("ListUsers() error = %v, want ErrForbidden", err)
	}
	if _, err := svc.CreateApprover(context.Background(), actor, "user-2", nil); !errors.Is(err, entity.ErrForbidden) {
		t.Errorf("CreateApprover() error = %v, want ErrForbidden", err)
	}
}

func TestAdminService_CreateDepartment_DuplicateName(t *testing.T) {
	deptRepo := &mockDepartmentRepo{
		getByNameFunc: func(ctx context.Context, name string) (*entity.Department, error) {
			return &entity.Department{ID: "d1", Name: name}, nil
		},
	}
	svc := newAdminService(&mockUserRepo{}, deptRepo, &mockApproverRepo{}, &mockTechnicianRepo{})

	_, err := svc.CreateDepartment(context.Background(), admin, "Operations")
	if !errors.Is(err, entity.ErrConflict) {
		t.Errorf("CreateDepartment() error = %v, want ErrConflict", err)
	}
}

func TestAdminService_DeleteDepartment_ProtectsRepairs(t *testing.T) {
	svc := newAdminService(&mockUserRepo{}, &mockDepartmentRepo{}, &mockApproverRepo{}, &mockTechnicianRepo{})

	err := svc.DeleteDepartment(context.Background(), admin, entity.RepairsDepartmentID)
	if !errors.Is(err, entity.ErrValidation) {
		t.Errorf("DeleteDepartment() error = %v, want ErrValidation", err)
	}
}

func TestAdminService_CreateUser(t *testing.T) {
	t.Run("normalizes phone", func(t *testing.T) {
		var created *entity.User
		userRepo := &mockUserRepo{
			createFunc: func(ctx context.Context, user *entity.User) error {
				created = user
				return nil
			},
		}
		svc := newAdminService(userRepo, &mockDepartmentRepo{}, &mockApproverRepo{}, &mockTechnicianRepo{})

		user, err := svc.CreateUser(context.Background(), admin, CreateUserInput{
			Email:     "jordan@fieldops.example",
			FirstName: "Jordan",
			LastName:  "Reyes",
			Phone:     "(555) 123-4567",
		})
		if err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
		if user.Phone != "+15551234567" {
			t.Errorf("CreateUser() phone = %q, want +15551234567", user.Phone)
		}
		if !created.IsActive {
			t.Error("CreateUser() should create active users")
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		userRepo := &mockUserRepo{
			getByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) {
				return &entity.User{ID: "u1", Email: email}, nil
			},
		}
		svc := newAdminService(userRepo, &mockDepartmentRepo{}, &mockApproverRepo{}, &mockTechnicianRepo{})

		_, err := svc.CreateUser(context.Background(), admin, CreateUserInput{Email: "jordan@fieldops.example"})
		if !errors.Is(err, entity.ErrConflict) {
			t.Errorf("CreateUser() error = %v, want ErrConflict", err)
		}
	})

	t.Run("unknown department", func(t *testing.T) {
		deptRepo := &mockDepartmentRepo{
			getByIDFunc: func(ctx context.Context, id string) (*entity.Department, error) {
				return nil, nil
			},
		}
		svc := newAdminService(&mockUserRepo{}, deptRepo, &mockApproverRepo{}, &mockTechnicianRepo{})

		_, err := svc.CreateUser(context.Background(), admin, CreateUserInput{
			Email:        "jordan@fieldops.example",
			DepartmentID: strPtr("dept-missing"),
		})
		if !errors.Is(err, entity.ErrValidation) {
			t.Errorf("CreateUser() error = %v, want ErrValidation", err)
		}
	})
}

func TestAdminService_UpdateUser_ClearsDepartment(t *testing.T) {
	deptOps := "dept-ops"
	user := &entity.User{ID: "u1", Email: "jordan@fieldops.example", DepartmentID: &deptOps, IsActive: true}
	userRepo := &mockUserRepo{
		getByIDFunc: func(ctx context.Context, id string) (*entity.User, error) {
			return user, nil
		},
	}
	svc := newAdminService(userRepo, &mockDepartmentRepo{}, &mockApproverRepo{}, &mockTechnicianRepo{})

	got, err := svc.UpdateUser(context.Background(), admin, "u1", UpdateUserInput{DepartmentID: strPtr("")})
	if err != nil {
		t.Fatalf("UpdateUser() failed: %v", err)
	}
	if got.DepartmentID != nil {
		t.Errorf("UpdateUser() department = %v, want nil", *got.DepartmentID)
	}
}

func TestAdminService_CreateApprover(t *testing.T) {
	t.Run("valid departments", func(t *testing.T) {
		var created *entity.Approver
		var replacedWith []string
		approverRepo := &mockApproverRepo{
			createFunc: func(ctx context.Context, approver *entity.Approver) error {
				created = approver
				return nil
			},
			replaceDepartmentsFunc: func(ctx context.Context, approverID string, departmentIDs []string) error {
				replacedWith = departmentIDs
				return nil
			},
			getByIDFunc: func(ctx context.Context, id string) (*entity.Approver, error) {
				return created, nil
			},
		}
		svc := newAdminService(&mockUserRepo{}, &mockDepartmentRepo{}, approverRepo, &mockTechnicianRepo{})

		approver, err := svc.CreateApprover(context.Background(), admin, "user-2", []string{"dept-ops"})
		if err != nil {
			t.Fatalf("CreateApprover() failed: %v", err)
		}
		if !approver.IsActive {
			t.Error("CreateApprover() should create active approvers")
		}
		if len(replacedWith) != 1 || replacedWith[0] != "dept-ops" {
			t.Errorf("CreateApprover() associations = %v, want [dept-ops]", replacedWith)
		}
	})

	t.Run("already an approver", func(t *testing.T) {
		approverRepo := &mockApproverRepo{
			getByUserIDFunc: func(ctx context.Context, userID string) (*entity.Approver, error) {
				return &entity.Approver{ID: "a1", UserID: userID}, nil
			},
		}
		svc := newAdminService(&mockUserRepo{}, &mockDepartmentRepo{}, approverRepo, &mockTechnicianRepo{})

		_, err := svc.CreateApprover(context.Background(), admin, "user-2", nil)
		if !errors.Is(err, entity.ErrConflict) {
			t.Errorf("CreateApprover() error = %v, want ErrConflict", err)
		}
	})

	t.Run("unknown department", func(t *testing.T) {
		deptRepo := &mockDepartmentRepo{
			getByIDFunc: func(ctx context.Context, id string) (*entity.Department, error) {
				return nil, nil
			},
		}
		svc := newAdminService(&mockUserRepo{}, deptRepo, &mockApproverRepo{}, &mockTechnicianRepo{})

		_, err := svc.CreateApprover(context.Background(), admin, "user-2", []string{"dept-missing"})
		if !errors.Is(err, entity.ErrValidation) {
			t.Errorf("CreateApprover() error = %v, want ErrValidation", err)
		}
	})
}

func TestAdminService_UpdateApprover_ReplacesDepartments(t *testing.T) {
	var replacedWith []string
	approverRepo := &mockApproverRepo{
		getByIDFunc: func(ctx context.Context, id string) (*entity.Approver, error) {
			return &entity.Approver{ID: id, UserID: "user-2", IsActive: true, DepartmentIDs: []string{"dept-ops"}}, nil
		},
		replaceDepartmentsFunc: func(ctx context.Context, approverID string, departmentIDs []string) error {
			replacedWith = departmentIDs
			return nil
		},
	}
	svc := newAdminService(&mockUserRepo{}, &mockDepartmentRepo{}, approverRepo, &mockTechnicianRepo{})

	// An explicit empty set makes the approver global.
	empty := []string{}
	_, err := svc.UpdateApprover(context.Background(), admin, "a1", UpdateApproverInput{DepartmentIDs: &empty})
	if err != nil {
		t.Fatalf("UpdateApprover() failed: %v", err)
	}
	if replacedWith == nil || len(replacedWith) != 0 {
		t.Errorf("UpdateApprover() associations = %v, want empty set", replacedWith)
	}
}

func TestAdminService_CreateUnit_InvalidType(t *testing.T) {
	svc := newAdminService(&mockUserRepo{}, &mockDepartmentRepo{}, &mockApproverRepo{}, &mockTechnicianRepo{})

	_, err := svc.CreateUnit(context.Background(), admin, CreateUnitInput{
		UnitNumber: "T-100",
		UnitType:   "submarine",
	})
	if !errors.Is(err, entity.ErrValidation) {
		t.Errorf("CreateUnit() error = %v, want ErrValidation", err)
	}
}

func TestAdminService_CreateTechnician_Duplicate(t *testing.T) {
	techRepo := &mockTechnicianRepo{
		getByUserIDFunc: func(ctx context.Context, userID string) (*entity.Technician, error) {
			return &entity.Technician{ID: "t1", UserID: userID}, nil
		},
	}
	svc := newAdminService(&mockUserRepo{}, &mockDepartmentRepo{}, &mockApproverRepo{}, techRepo)

	_, err := svc.CreateTechnician(context.Background(), admin, "user-2")
	if !errors.Is(err, entity.ErrConflict) {
		t.Errorf("CreateTechnician() error = %v, want ErrConflict", err)
	}
}
