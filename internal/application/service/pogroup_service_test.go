package service

import (
	"context"
	"errors"
	"testing"

	"github.com/fieldops/po-tracker/internal/domain/entity"
)

func newPOGroupService(groupRepo *mockPOGroupRepo, orderRepo *mockOrderRepo) POGroupService {
	return NewPOGroupService(groupRepo, orderRepo, &mockTxManager{}, &mockLogger{})
}

var admin = &entity.Actor{ID: "admin-1", IsAdmin: true}

func TestPOGroupService_AdminOnly(t *testing.T) {
	svc := newPOGroupService(&mockPOGroupRepo{}, &mockOrderRepo{})
	actor := &entity.Actor{ID: "user-1", IsApprover: true, IsTechnician: true}
	ctx := context.Background()

	checks := map[string]error{}
	_, err := svc.Create(ctx, actor, "PO-1001")
	checks["Create"] = err
	_, err = svc.Get(ctx, actor, "group-1")
	checks["Get"] = err
	_, err = svc.List(ctx, actor)
	checks["List"] = err
	_, err = svc.Update(ctx, actor, "group-1", "PO-1002")
	checks["Update"] = err
	checks["Delete"] = svc.Delete(ctx, actor, "group-1")
	_, err = svc.AddOrders(ctx, actor, "group-1", []string{"order-1"})
	checks["AddOrders"] = err
	checks["RemoveOrder"] = svc.RemoveOrder(ctx, actor, "group-1", "order-1")
	_, err = svc.ListAvailableOrders(ctx, actor)
	checks["ListAvailableOrders"] = err

	for op, err := range checks {
		if !errors.Is(err, entity.ErrForbidden) {
			t.Errorf("%s error = %v, want ErrForbidden", op, err)
		}
	}
}

func TestPOGroupService_Create(t *testing.T) {
	t.Run("new PO number", func(t *testing.T) {
		var created *entity.POGroup
		groupRepo := &mockPOGroupRepo{
			createFunc: func(ctx context.Context, group *entity.POGroup) error {
				created = group
				return nil
			},
			getByIDFunc: func(ctx context.Context, id string) (*entity.POGroup, error) {
				return created, nil
			},
		}
		svc := newPOGroupService(groupRepo, &mockOrderRepo{})

		group, err := svc.Create(context.Background(), admin, "PO-1001")
		if err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
		if group.PONumber != "PO-1001" {
			t.Errorf("Create() po_number = %q, want PO-1001", group.PONumber)
		}
		if group.CreatedByID == nil || *group.CreatedByID != admin.ID {
			t.Errorf("Create() created_by = %v, want %s", group.CreatedByID, admin.ID)
		}
	})

	t.Run("duplicate PO number", func(t *testing.T) {
		groupRepo := &mockPOGroupRepo{
			getByPONumberFunc: func(ctx context.Context, poNumber string) (*entity.POGroup, error) {
				return &entity.POGroup{ID: "existing", PONumber: poNumber}, nil
			},
		}
		svc := newPOGroupService(groupRepo, &mockOrderRepo{})

		_, err := svc.Create(context.Background(), admin, "PO-1001")
		if !errors.Is(err, entity.ErrConflict) {
			t.Errorf("Create() error = %v, want ErrConflict", err)
		}
	})

	t.Run("empty PO number", func(t *testing.T) {
		svc := newPOGroupService(&mockPOGroupRepo{}, &mockOrderRepo{})

		_, err := svc.Create(context.Background(), admin, "")
		if !errors.Is(err, entity.ErrValidation) {
			t.Errorf("Create() error = %v, want ErrValidation", err)
		}
	})
}

func TestPOGroupService_AddOrders_PerOrderResults(t *testing.T) {
	groupID := "group-1"
	otherGroup := "group-2"

	orders := map[string]*entity.Order{
		"order-approved":  {ID: "order-approved", Status: "approved"},
		"order-paid":      {ID: "order-paid", Status: "paid"},
		"order-pending":   {ID: "order-pending", Status: "pending"},
		"order-draft":     {ID: "order-draft", Status: "draft"},
		"order-elsewhere": {ID: "order-elsewhere", Status: "approved", POGroupID: &otherGroup},
		"order-member":    {ID: "order-member", Status: "approved", POGroupID: &groupID},
	}

	var grouped []string
	orderRepo := &mockOrderRepo{
		getByIDFunc: func(ctx context.Context, id string) (*entity.Order, error) {
			return orders[id], nil
		},
		setPOGroupFunc: func(ctx context.Context, orderID string, poGroupID *string) error {
			grouped = append(grouped, orderID)
			return nil
		},
	}
	svc := newPOGroupService(&mockPOGroupRepo{}, orderRepo)

	result, err := svc.AddOrders(context.Background(), admin, groupID, []string{
		"order-approved", "order-paid", "order-pending", "order-draft",
		"order-elsewhere", "order-member", "order-missing",
	})
	if err != nil {
		t.Fatalf("AddOrders() failed: %v", err)
	}

	if len(result.Added) != 2 {
		t.Errorf("AddOrders() added %d orders, want 2", len(result.Added))
	}
	if len(result.Errors) != 5 {
		t.Errorf("AddOrders() reported %d errors, want 5", len(result.Errors))
	}
	if len(grouped) != 2 {
		t.Errorf("AddOrders() persisted %d memberships, want 2", len(grouped))
	}
	if result.Group == nil || result.Group.PONumber != "PO-1001" {
		t.Errorf("AddOrders() group = %+v, want the refreshed group", result.Group)
	}

	reasons := make(map[string]string, len(result.Errors))
	for _, e := range result.Errors {
		reasons[e.OrderID] = e.Reason
	}
	if reasons["order-missing"] != "order not found" {
		t.Errorf("order-missing reason = %q", reasons["order-missing"])
	}
	if reasons["order-pending"] != "only approved or paid orders can be grouped" {
		t.Errorf("order-pending reason = %q", reasons["order-pending"])
	}
	if reasons["order-elsewhere"] != "order already belongs to another PO group" {
		t.Errorf("order-elsewhere reason = %q", reasons["order-elsewhere"])
	}
	if reasons["order-member"] != "order already in this PO group" {
		t.Errorf("order-member reason = %q", reasons["order-member"])
	}
}

func TestPOGroupService_Delete(t *testing.T) {
	t.Run("group with member orders", func(t *testing.T) {
		deleted := false
		groupRepo := &mockPOGroupRepo{
			deleteFunc: func(ctx context.Context, id string) error {
				deleted = true
				return nil
			},
		}
		orderRepo := &mockOrderRepo{
			countByGroupFunc: func(ctx context.Context, poGroupID string) (int, error) {
				return 2, nil
			},
		}
		svc := newPOGroupService(groupRepo, orderRepo)

		err := svc.Delete(context.Background(), admin, "group-1")
		if !errors.Is(err, entity.ErrValidation) {
			t.Errorf("Delete() error = %v, want ErrValidation", err)
		}
		if deleted {
			t.Error("Delete() must not delete a group that still has orders")
		}
	})

	t.Run("empty group", func(t *testing.T) {
		deleted := false
		groupRepo := &mockPOGroupRepo{
			deleteFunc: func(ctx context.Context, id string) error {
				deleted = true
				return nil
			},
		}
		svc := newPOGroupService(groupRepo, &mockOrderRepo{})

		if err := svc.Delete(context.Background(), admin, "group-1"); err != nil {
			t.Fatalf("Delete() failed: %v", err)
		}
		if !deleted {
			t.Error("Delete() did not delete the group")
		}
	})
}

func TestPOGroupService_RemoveOrder(t *testing.T) {
	groupID := "group-1"
	otherGroup := "group-2"

	tests := []struct {
		name    string
		order   *entity.Order
		wantErr error
	}{
		{"member order", &entity.Order{ID: "order-1", Status: "approved", POGroupID: &groupID}, nil},
		{"ungrouped order", &entity.Order{ID: "order-1", Status: "approved"}, entity.ErrValidation},
		{"order in another group", &entity.Order{ID: "order-1", Status: "approved", POGroupID: &otherGroup}, entity.ErrValidation},
		{"missing order", nil, entity.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orderRepo := &mockOrderRepo{
				getByIDFunc: func(ctx context.Context, id string) (*entity.Order, error) {
					return tt.order, nil
				},
			}
			svc := newPOGroupService(&mockPOGroupRepo{}, orderRepo)

			err := svc.RemoveOrder(context.Background(), admin, groupID, "order-1")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("RemoveOrder() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Errorf("RemoveOrder() failed: %v", err)
			}
		})
	}
}

func TestPOGroupService_Update_RenameConflict(t *testing.T) {
	groupRepo := &mockPOGroupRepo{
		getByIDFunc: func(ctx context.Context, id string) (*entity.POGroup, error) {
			return &entity.POGroup{ID: id, PONumber: "PO-1001"}, nil
		},
		getByPONumberFunc: func(ctx context.Context, poNumber string) (*entity.POGroup, error) {
			if poNumber == "PO-2000" {
				return &entity.POGroup{ID: "other", PONumber: poNumber}, nil
			}
			return nil, nil
		},
	}
	svc := newPOGroupService(groupRepo, &mockOrderRepo{})

	if _, err := svc.Update(context.Background(), admin, "group-1", "PO-2000"); !errors.Is(err, entity.ErrConflict) {
		t.Errorf("Update() error = %v, want ErrConflict", err)
	}

	// Renaming to its own current number is a no-op, not a conflict.
	if _, err := svc.Update(context.Background(), admin, "group-1", "PO-1001"); err != nil {
		t.Errorf("Update() to same number failed: %v", err)
	}
}
