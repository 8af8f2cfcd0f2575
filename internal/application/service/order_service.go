package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fieldops/po-tracker/internal/application/port"
	"github.com/fieldops/po-tracker/internal/domain/entity"
	"github.com/fieldops/po-tracker/internal/domain/workflow"
)

// OrderItemInput is a submitted line item. Lines with an empty description
// are silently dropped; the rest are renumbered 1..N in submitted order.
type OrderItemInput struct {
	Description string   `json:"description"`
	Quantity    *float64 `json:"quantity"`
	UnitCost    *float64 `json:"unit_cost"`
}

// CreateOrderInput carries the fields for a new order.
type CreateOrderInput struct {
	VendorID    string           `json:"vendor_id"`
	UnitID      *string          `json:"unit_id"`
	Description string           `json:"description"`
	Notes       string           `json:"notes"`
	Items       []OrderItemInput `json:"items"`
}

// UpdateOrderInput carries a partial order edit. Nil fields are left
// untouched; an empty UnitID clears the unit reference.
type UpdateOrderInput struct {
	VendorID    *string           `json:"vendor_id"`
	UnitID      *string           `json:"unit_id"`
	Description *string           `json:"description"`
	Notes       *string           `json:"notes"`
	Items       *[]OrderItemInput `json:"items"`
}

// OrderService runs the purchase-order approval workflow. Every transition
// validates actor authorization, checks the current status against the
// transition table, mutates state in one transaction, and then fires a
// best-effort notification.
type OrderService interface {
	Create(ctx context.Context, actor *entity.Actor, in CreateOrderInput) (*entity.Order, error)
	Get(ctx context.Context, actor *entity.Actor, id string) (*entity.Order, error)
	ListMine(ctx context.Context, actor *entity.Actor) ([]*entity.Order, error)
	ListAll(ctx context.Context, actor *entity.Actor, filter port.OrderFilter) ([]*entity.Order, error)
	Update(ctx context.Context, actor *entity.Actor, id string, in UpdateOrderInput) (*entity.Order, error)
	Delete(ctx context.Context, actor *entity.Actor, id string) error
	Submit(ctx context.Context, actor *entity.Actor, id string) (*entity.Order, []*entity.Approver, error)
	Approve(ctx context.Context, actor *entity.Actor, id string) (*entity.Order, error)
	Reject(ctx context.Context, actor *entity.Actor, id string, comment string) (*entity.Order, error)
	MarkPaid(ctx context.Context, actor *entity.Actor, id string) (*entity.Order, error)
	AdminUpdateItems(ctx context.Context, actor *entity.Actor, id string, items []OrderItemInput) (*entity.Order, error)
	EligibleApprovers(ctx context.Context, actor *entity.Actor, id string) ([]*entity.Approver, error)
}

type orderServiceImpl struct {
	orderRepo   port.OrderRepository
	userRepo    port.UserRepository
	vendorRepo  port.VendorRepository
	unitRepo    port.UnitRepository
	eligibility EligibilityService
	notifier    NotificationService
	txManager   port.TransactionManager
	logger      Logger
	now         func() time.Time
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo port.OrderRepository,
	userRepo port.UserRepository,
	vendorRepo port.VendorRepository,
	unitRepo port.UnitRepository,
	eligibility EligibilityService,
	notifier NotificationService,
	txManager port.TransactionManager,
	logger Logger,
) OrderService {
	return &orderServiceImpl{
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		vendorRepo:  vendorRepo,
		unitRepo:    unitRepo,
		eligibility: eligibility,
		notifier:    notifier,
		txManager:   txManager,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *orderServiceImpl) Create(ctx context.Context, actor *entity.Actor, in CreateOrderInput) (*entity.Order, error) {
	if in.VendorID == "" {
		return nil, fmt.Errorf("%w: vendor is required", entity.ErrValidation)
	}
	if in.Description == "" {
		return nil, fmt.Errorf("%w: description is required", entity.ErrValidation)
	}

	vendor, err := s.vendorRepo.GetByID(ctx, in.VendorID)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, fmt.Errorf("%w: vendor not found", entity.ErrValidation)
	}

	if in.UnitID != nil && *in.UnitID != "" {
		unit, err := s.unitRepo.GetByID(ctx, *in.UnitID)
		if err != nil {
			return nil, err
		}
		if unit == nil {
			return nil, fmt.Errorf("%w: unit not found", entity.ErrValidation)
		}
	} else {
		in.UnitID = nil
	}

	order := &entity.Order{
		ID:          uuid.NewString(),
		VendorID:    in.VendorID,
		UnitID:      in.UnitID,
		Description: in.Description,
		Status:      workflow.StateDraft.String(),
		OrderedByID: actor.ID,
		Notes:       in.Notes,
	}
	order.Items = normalizeOrderItems(order.ID, in.Items)

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		number, err := s.orderRepo.NextNumber(txCtx, "ORD", s.now())
		if err != nil {
			return fmt.Errorf("generate order number: %w", err)
		}
		order.OrderNumber = number
		return s.orderRepo.Create(txCtx, order)
	})
	if err != nil {
		s.logger.Error("Failed to create order", "error", err)
		return nil, err
	}

	s.logger.Info("Order created", "order_number", order.OrderNumber, "ordered_by", actor.ID)
	return s.orderRepo.GetByID(ctx, order.ID)
}

func (s *orderServiceImpl) Get(ctx context.Context, actor *entity.Actor, id string) (*entity.Order, error) {
	order, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkReadAccess(ctx, actor, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderServiceImpl) ListMine(ctx context.Context, actor *entity.Actor) ([]*entity.Order, error) {
	orders, err := s.orderRepo.ListByOwner(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	if !actor.IsApprover {
		return orders, nil
	}

	approver, err := s.eligibility.ApproverFor(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if approver == nil {
		return orders, nil
	}

	seen := make(map[string]bool, len(orders))
	for _, o := range orders {
		seen[o.ID] = true
	}

	pending, err := s.orderRepo.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	for _, o := range pending {
		if seen[o.ID] {
			continue
		}
		dept, _, err := s.requesterDepartment(ctx, o.OrderedByID)
		if err != nil {
			return nil, err
		}
		if s.eligibility.CanAct(approver, dept) {
			orders = append(orders, o)
			seen[o.ID] = true
		}
	}

	return orders, nil
}

func (s *orderServiceImpl) ListAll(ctx context.Context, actor *entity.Actor, filter port.OrderFilter) ([]*entity.Order, error) {
	if actor.IsAdmin {
		return s.orderRepo.List(ctx, filter)
	}

	if actor.IsApprover {
		approver, err := s.eligibility.ApproverFor(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		if approver != nil {
			if approver.IsGlobal() {
				return s.orderRepo.List(ctx, filter)
			}
			if len(approver.DepartmentIDs) > 0 {
				filter.DepartmentIDs = approver.DepartmentIDs
				return s.orderRepo.List(ctx, filter)
			}
		}
	}

	return nil, fmt.Errorf("%w: access denied", entity.ErrForbidden)
}

func (s *orderServiceImpl) Update(ctx context.Context, actor *entity.Actor, id string, in UpdateOrderInput) (*entity.Order, error) {
	order, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.OrderedByID != actor.ID {
		return nil, fmt.Errorf("%w: only the creator can edit this order", entity.ErrForbidden)
	}
	if order.Status != workflow.StateDraft.String() && order.Status != workflow.StateRejected.String() {
		return nil, fmt.Errorf("%w: only draft or rejected orders can be edited", workflow.ErrInvalidTransition)
	}

	if in.VendorID != nil {
		vendor, err := s.vendorRepo.GetByID(ctx, *in.VendorID)
		if err != nil {
			return nil, err
		}
		if vendor == nil {
			return nil, fmt.Errorf("%w: vendor not found", entity.ErrValidation)
		}
		order.VendorID = *in.VendorID
	}
	if in.UnitID != nil {
		if *in.UnitID == "" {
			order.UnitID = nil
		} else {
			unit, err := s.unitRepo.GetByID(ctx, *in.UnitID)
			if err != nil {
				return nil, err
			}
			if unit == nil {
				return nil, fmt.Errorf("%w: unit not found", entity.ErrValidation)
			}
			order.UnitID = in.UnitID
		}
	}
	if in.Description != nil {
		order.Description = *in.Description
	}
	if in.Notes != nil {
		order.Notes = *in.Notes
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.orderRepo.Update(txCtx, order); err != nil {
			return err
		}
		if in.Items != nil {
			return s.orderRepo.ReplaceItems(txCtx, order.ID, normalizeOrderItems(order.ID, *in.Items))
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to update order", "error", err, "order_id", id)
		return nil, err
	}

	return s.orderRepo.GetByID(ctx, id)
}

func (s *orderServiceImpl) Delete(ctx context.Context, actor *entity.Actor, id string) error {
	order, err := s.getOrder(ctx, id)
	if err != nil {
		return err
	}

	if order.OrderedByID != actor.ID && !actor.IsAdmin {
		return fmt.Errorf("%w: only the creator or admin can delete this order", entity.ErrForbidden)
	}
	if order.Status != workflow.StateDraft.String() {
		return fmt.Errorf("%w: only draft orders can be deleted", workflow.ErrInvalidTransition)
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.orderRepo.Delete(txCtx, id)
	})
	if err != nil {
		s.logger.Error("Failed to delete order", "error", err, "order_id", id)
		return err
	}

	s.logger.Info("Order deleted", "order_number", order.OrderNumber)
	return nil
}

func (s *orderServiceImpl) Submit(ctx context.Context, actor *entity.Actor, id string) (*entity.Order, []*entity.Approver, error) {
	order, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if order.OrderedByID != actor.ID {
		return nil, nil, fmt.Errorf("%w: only the creator can submit this order", entity.ErrForbidden)
	}

	machine := workflow.NewOrderMachine(workflow.State(order.Status))
	if err := machine.Fire(ctx, workflow.TriggerSubmit); err != nil {
		return nil, nil, err
	}

	if len(order.Items) == 0 {
		return nil, nil, fmt.Errorf("%w: order must have at least one item", entity.ErrValidation)
	}

	dept, requester, err := s.requesterDepartment(ctx, order.OrderedByID)
	if err != nil {
		return nil, nil, err
	}

	approvers, err := s.eligibility.EligibleApprovers(ctx, dept)
	if err != nil {
		return nil, nil, err
	}
	if len(approvers) == 0 {
		return nil, nil, fmt.Errorf("%w: no approvers configured for your department", entity.ErrValidation)
	}

	order.Status = machine.State().String()
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.orderRepo.SetStatus(txCtx, order)
	})
	if err != nil {
		s.logger.Error("Failed to submit order", "error", err, "order_id", id)
		return nil, nil, err
	}

	s.logger.Info("Order submitted", "order_number", order.OrderNumber)
	s.notifier.OrderPending(ctx, order, approvers, requester.FullName())

	order, err = s.orderRepo.GetByID(ctx, id)
	return order, approvers, err
}

func (s *orderServiceImpl) Approve(ctx context.Context, actor *entity.Actor, id string) (*entity.Order, error) {
	order, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	machine := workflow.NewOrderMachine(workflow.State(order.Status))
	if err := machine.Fire(ctx, workflow.TriggerApprove); err != nil {
		return nil, err
	}

	if err := s.checkApproverAuthority(ctx, actor, order); err != nil {
		return nil, err
	}

	now := s.now()
	order.Status = machine.State().String()
	order.ApprovedByID = &actor.ID
	order.ApprovedAt = &now

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.orderRepo.SetStatus(txCtx, order)
	})
	if err != nil {
		s.logger.Error("Failed to approve order", "error", err, "order_id", id)
		return nil, err
	}

	s.logger.Info("Order approved", "order_number", order.OrderNumber, "approved_by", actor.ID)

	admins, err := s.userRepo.ListAdmins(ctx)
	if err != nil {
		s.logger.Error("Failed to list admins for notification", "error", err)
	} else {
		s.notifier.OrderApproved(ctx, order, admins)
	}

	return s.orderRepo.GetByID(ctx, id)
}

func (s *orderServiceImpl) Reject(ctx context.Context, actor *entity.Actor, id string, comment string) (*entity.Order, error) {
	order, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	machine := workflow.NewOrderMachine(workflow.State(order.Status))
	if err := machine.Fire(ctx, workflow.TriggerReject); err != nil {
		return nil, err
	}

	if err := s.checkApproverAuthority(ctx, actor, order); err != nil {
		return nil, err
	}

	now := s.now()
	order.Status = machine.State().String()
	order.RejectedByID = &actor.ID
	order.RejectedAt = &now
	order.RejectionComment = comment

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.orderRepo.SetStatus(txCtx, order)
	})
	if err != nil {
		s.logger.Error("Failed to reject order", "error", err, "order_id", id)
		return nil, err
	}

	s.logger.Info("Order rejected", "order_number", order.OrderNumber, "rejected_by", actor.ID)
	return s.orderRepo.GetByID(ctx, id)
}

func (s *orderServiceImpl) MarkPaid(ctx context.Context, actor *entity.Actor, id string) (*entity.Order, error) {
	if !actor.IsAdmin {
		return nil, fmt.Errorf("%w: only admins can mark orders as paid", entity.ErrForbidden)
	}

	order, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	machine := workflow.NewOrderMachine(workflow.State(order.Status))
	if err := machine.Fire(ctx, workflow.TriggerMarkPaid); err != nil {
		return nil, err
	}

	order.Status = machine.State().String()
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.orderRepo.SetStatus(txCtx, order)
	})
	if err != nil {
		s.logger.Error("Failed to mark order paid", "error", err, "order_id", id)
		return nil, err
	}

	s.logger.Info("Order marked paid", "order_number", order.OrderNumber)

	full, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	requester, err := s.userRepo.GetByID(ctx, full.OrderedByID)
	if err == nil && requester != nil {
		var vendorName, poNumber string
		if full.Vendor != nil {
			vendorName = full.Vendor.Name
		}
		if full.POGroup != nil {
			poNumber = full.POGroup.PONumber
		}
		s.notifier.OrderPaid(ctx, full, requester, vendorName, poNumber)
	}

	return full, nil
}

func (s *orderServiceImpl) AdminUpdateItems(ctx context.Context, actor *entity.Actor, id string, items []OrderItemInput) (*entity.Order, error) {
	if !actor.IsAdmin {
		return nil, fmt.Errorf("%w: only admins can update approved order items", entity.ErrForbidden)
	}

	order, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.Status != workflow.StateApproved.String() && order.Status != workflow.StatePaid.String() {
		return nil, fmt.Errorf("%w: only approved or paid orders can have items updated by admin", workflow.ErrInvalidTransition)
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.orderRepo.ReplaceItems(txCtx, order.ID, normalizeOrderItems(order.ID, items))
	})
	if err != nil {
		s.logger.Error("Failed to update order items", "error", err, "order_id", id)
		return nil, err
	}

	return s.orderRepo.GetByID(ctx, id)
}

func (s *orderServiceImpl) EligibleApprovers(ctx context.Context, actor *entity.Actor, id string) ([]*entity.Approver, error) {
	order, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	dept, _, err := s.requesterDepartment(ctx, order.OrderedByID)
	if err != nil {
		return nil, err
	}
	return s.eligibility.EligibleApprovers(ctx, dept)
}

func (s *orderServiceImpl) getOrder(ctx context.Context, id string) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: order", entity.ErrNotFound)
	}
	return order, nil
}

// requesterDepartment resolves the department the eligibility check is
// scoped by for a given requester.
func (s *orderServiceImpl) requesterDepartment(ctx context.Context, userID string) (*string, *entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, fmt.Errorf("%w: requester", entity.ErrNotFound)
	}
	return user.DepartmentID, user, nil
}

func (s *orderServiceImpl) checkApproverAuthority(ctx context.Context, actor *entity.Actor, order *entity.Order) error {
	if !actor.IsApprover {
		return fmt.Errorf("%w: you are not an approver", entity.ErrForbidden)
	}
	approver, err := s.eligibility.ApproverFor(ctx, actor.ID)
	if err != nil {
		return err
	}
	dept, _, err := s.requesterDepartment(ctx, order.OrderedByID)
	if err != nil {
		return err
	}
	if !s.eligibility.CanAct(approver, dept) {
		return fmt.Errorf("%w: you cannot act on orders from this department", entity.ErrForbidden)
	}
	return nil
}

func (s *orderServiceImpl) checkReadAccess(ctx context.Context, actor *entity.Actor, order *entity.Order) error {
	if order.OrderedByID == actor.ID || actor.IsAdmin {
		return nil
	}
	if actor.IsApprover {
		approver, err := s.eligibility.ApproverFor(ctx, actor.ID)
		if err != nil {
			return err
		}
		dept, _, err := s.requesterDepartment(ctx, order.OrderedByID)
		if err != nil {
			return err
		}
		if s.eligibility.CanAct(approver, dept) {
			return nil
		}
	}
	return fmt.Errorf("%w: access denied", entity.ErrForbidden)
}

// normalizeOrderItems drops lines with empty descriptions and renumbers the
// remainder from 1 in submitted order.
func normalizeOrderItems(orderID string, inputs []OrderItemInput) []entity.OrderItem {
	items := make([]entity.OrderItem, 0, len(inputs))
	line := 0
	for _, in := range inputs {
		if in.Description == "" {
			continue
		}
		line++
		items = append(items, entity.OrderItem{
			ID:          uuid.NewString(),
			OrderID:     orderID,
			LineNumber:  line,
			Description: in.Description,
			Quantity:    in.Quantity,
			UnitCost:    in.UnitCost,
		})
	}
	return items
}
