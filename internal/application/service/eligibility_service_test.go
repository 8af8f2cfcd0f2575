package service

import (
	"context"
	"errors"
	"testing"

	"github.com/fieldops/po-tracker/internal/domain/entity"
)

func TestEligibilityService_EligibleApprovers(t *testing.T) {
	deptOps := "dept-ops"
	deptShop := "dept-shop"

	global := &entity.Approver{ID: "a-global", UserID: "u1", IsActive: true}
	opsOnly := &entity.Approver{ID: "a-ops", UserID: "u2", IsActive: true, DepartmentIDs: []string{deptOps}}
	shopAndOps := &entity.Approver{ID: "a-both", UserID: "u3", IsActive: true, DepartmentIDs: []string{deptShop, deptOps}}

	approverRepo := &mockApproverRepo{
		listActiveFunc: func(ctx context.Context) ([]*entity.Approver, error) {
			return []*entity.Approver{global, opsOnly, shopAndOps}, nil
		},
	}
	svc := NewEligibilityService(approverRepo, &mockLogger{})

	tests := []struct {
		name       string
		department *string
		wantIDs    []string
	}{
		{"ops department", &deptOps, []string{"a-global", "a-ops", "a-both"}},
		{"shop department", &deptShop, []string{"a-global", "a-both"}},
		{"unknown department", strPtr("dept-yard"), []string{"a-global"}},
		{"no department only matches global", nil, []string{"a-global"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.EligibleApprovers(context.Background(), tt.department)
			if err != nil {
				t.Fatalf("EligibleApprovers() failed: %v", err)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("EligibleApprovers() returned %d approvers, want %d", len(got), len(tt.wantIDs))
			}
			for i, want := range tt.wantIDs {
				if got[i].ID != want {
					t.Errorf("approver %d = %s, want %s", i, got[i].ID, want)
				}
			}
		})
	}
}

func TestEligibilityService_EligibleApprovers_RepoError(t *testing.T) {
	repoErr := errors.New("db down")
	approverRepo := &mockApproverRepo{
		listActiveFunc: func(ctx context.Context) ([]*entity.Approver, error) {
			return nil, repoErr
		},
	}
	svc := NewEligibilityService(approverRepo, &mockLogger{})

	_, err := svc.EligibleApprovers(context.Background(), nil)
	if !errors.Is(err, repoErr) {
		t.Errorf("EligibleApprovers() error = %v, want %v", err, repoErr)
	}
}

func TestEligibilityService_ApproverFor(t *testing.T) {
	tests := []struct {
		name     string
		approver *entity.Approver
		wantNil  bool
	}{
		{"active approver", &entity.Approver{ID: "a1", UserID: "u1", IsActive: true}, false},
		{"inactive approver", &entity.Approver{ID: "a1", UserID: "u1", IsActive: false}, true},
		{"no approver record", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			approverRepo := &mockApproverRepo{
				getByUserIDFunc: func(ctx context.Context, userID string) (*entity.Approver, error) {
					return tt.approver, nil
				},
			}
			svc := NewEligibilityService(approverRepo, &mockLogger{})

			got, err := svc.ApproverFor(context.Background(), "u1")
			if err != nil {
				t.Fatalf("ApproverFor() failed: %v", err)
			}
			if (got == nil) != tt.wantNil {
				t.Errorf("ApproverFor() = %v, want nil=%v", got, tt.wantNil)
			}
		})
	}
}

func TestEligibilityService_CanAct(t *testing.T) {
	deptOps := "dept-ops"
	svc := NewEligibilityService(&mockApproverRepo{}, &mockLogger{})

	tests := []struct {
		name       string
		approver   *entity.Approver
		department *string
		expected   bool
	}{
		{"nil approver", nil, &deptOps, false},
		{"inactive approver", &entity.Approver{IsActive: false}, &deptOps, false},
		{"global approver", &entity.Approver{IsActive: true}, &deptOps, true},
		{"global approver, nil department", &entity.Approver{IsActive: true}, nil, true},
		{"scoped approver, matching", &entity.Approver{IsActive: true, DepartmentIDs: []string{deptOps}}, &deptOps, true},
		{"scoped approver, nil department", &entity.Approver{IsActive: true, DepartmentIDs: []string{deptOps}}, nil, false},
		{"scoped approver, other department", &entity.Approver{IsActive: true, DepartmentIDs: []string{"dept-shop"}}, &deptOps, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := svc.CanAct(tt.approver, tt.department); got != tt.expected {
				t.Errorf("CanAct() = %v, want %v", got, tt.expected)
			}
		})
	}
}
