package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fieldops/po-tracker/internal/application/port"
	"github.com/fieldops/po-tracker/internal/domain/entity"
	"github.com/fieldops/po-tracker/internal/domain/workflow"
)

// AddOrderError reports why one order could not be added to a group.
type AddOrderError struct {
	OrderID string `json:"order_id"`
	Reason  string `json:"reason"`
}

// AddOrdersResult is the per-item outcome of a bulk add. A batch never
// fails wholesale: each order is added or skipped independently. Group
// carries the refreshed aggregates after the batch.
type AddOrdersResult struct {
	Added  []string        `json:"added"`
	Errors []AddOrderError `json:"errors"`
	Group  *entity.POGroup `json:"po_group"`
}

// POGroupService manages purchase-order groups. All operations are
// admin-only; the handler layer enforces that before calling in, and the
// service re-checks it.
type POGroupService interface {
	Create(ctx context.Context, actor *entity.Actor, poNumber string) (*entity.POGroup, error)
	Get(ctx context.Context, actor *entity.Actor, id string) (*entity.POGroup, error)
	List(ctx context.Context, actor *entity.Actor) ([]*entity.POGroup, error)
	Update(ctx context.Context, actor *entity.Actor, id string, poNumber string) (*entity.POGroup, error)
	Delete(ctx context.Context, actor *entity.Actor, id string) error
	AddOrders(ctx context.Context, actor *entity.Actor, id string, orderIDs []string) (*AddOrdersResult, error)
	RemoveOrder(ctx context.Context, actor *entity.Actor, id string, orderID string) error
	ListAvailableOrders(ctx context.Context, actor *entity.Actor) ([]*entity.Order, error)
}

type poGroupServiceImpl struct {
	groupRepo port.POGroupRepository
	orderRepo port.OrderRepository
	txManager port.TransactionManager
	logger    Logger
}

// NewPOGroupService creates a new POGroupService
func NewPOGroupService(
	groupRepo port.POGroupRepository,
	orderRepo port.OrderRepository,
	txManager port.TransactionManager,
	logger Logger,
) POGroupService {
	return &poGroupServiceImpl{
		groupRepo: groupRepo,
		orderRepo: orderRepo,
		txManager: txManager,
		logger:    logger,
	}
}

func (s *poGroupServiceImpl) requireAdmin(actor *entity.Actor) error {
	if !actor.IsAdmin {
		return fmt.Errorf("%w: admin access required", entity.ErrForbidden)
	}
	return nil
}

func (s *poGroupServiceImpl) Create(ctx context.Context, actor *entity.Actor, poNumber string) (*entity.POGroup, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	if poNumber == "" {
		return nil, fmt.Errorf("%w: po_number is required", entity.ErrValidation)
	}

	existing, err := s.groupRepo.GetByPONumber(ctx, poNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: PO number %s already exists", entity.ErrConflict, poNumber)
	}

	group := &entity.POGroup{
		ID:          uuid.NewString(),
		PONumber:    poNumber,
		CreatedByID: &actor.ID,
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.groupRepo.Create(txCtx, group)
	})
	if err != nil {
		s.logger.Error("Failed to create PO group", "error", err, "po_number", poNumber)
		return nil, err
	}

	s.logger.Info("PO group created", "po_number", poNumber)
	return s.groupRepo.GetByID(ctx, group.ID)
}

func (s *poGroupServiceImpl) Get(ctx context.Context, actor *entity.Actor, id string) (*entity.POGroup, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.getGroup(ctx, id)
}

func (s *poGroupServiceImpl) List(ctx context.Context, actor *entity.Actor) ([]*entity.POGroup, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.groupRepo.List(ctx)
}

func (s *poGroupServiceImpl) Update(ctx context.Context, actor *entity.Actor, id string, poNumber string) (*entity.POGroup, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	if poNumber == "" {
		return nil, fmt.Errorf("%w: po_number is required", entity.ErrValidation)
	}

	group, err := s.getGroup(ctx, id)
	if err != nil {
		return nil, err
	}

	if poNumber != group.PONumber {
		existing, err := s.groupRepo.GetByPONumber(ctx, poNumber)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, fmt.Errorf("%w: PO number %s already exists", entity.ErrConflict, poNumber)
		}
	}

	group.PONumber = poNumber
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.groupRepo.Update(txCtx, group)
	})
	if err != nil {
		s.logger.Error("Failed to update PO group", "error", err, "po_group_id", id)
		return nil, err
	}

	return s.groupRepo.GetByID(ctx, id)
}

// Delete removes an empty group. Member orders must be removed first.
func (s *poGroupServiceImpl) Delete(ctx context.Context, actor *entity.Actor, id string) error {
	if err := s.requireAdmin(actor); err != nil {
		return err
	}

	group, err := s.getGroup(ctx, id)
	if err != nil {
		return err
	}

	count, err := s.orderRepo.CountByGroup(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: PO group still has %d orders, remove them first", entity.ErrValidation, count)
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.groupRepo.Delete(txCtx, id)
	})
	if err != nil {
		s.logger.Error("Failed to delete PO group", "error", err, "po_group_id", id)
		return err
	}

	s.logger.Info("PO group deleted", "po_number", group.PONumber)
	return nil
}

func (s *poGroupServiceImpl) AddOrders(ctx context.Context, actor *entity.Actor, id string, orderIDs []string) (*AddOrdersResult, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	if len(orderIDs) == 0 {
		return nil, fmt.Errorf("%w: order_ids is required", entity.ErrValidation)
	}

	group, err := s.getGroup(ctx, id)
	if err != nil {
		return nil, err
	}

	result := &AddOrdersResult{}
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		for _, orderID := range orderIDs {
			order, err := s.orderRepo.GetByID(txCtx, orderID)
			if err != nil {
				return err
			}
			switch {
			case order == nil:
				result.Errors = append(result.Errors, AddOrderError{OrderID: orderID, Reason: "order not found"})
			case order.Status != workflow.StateApproved.String() && order.Status != workflow.StatePaid.String():
				result.Errors = append(result.Errors, AddOrderError{OrderID: orderID, Reason: "only approved or paid orders can be grouped"})
			case order.POGroupID != nil && *order.POGroupID != id:
				result.Errors = append(result.Errors, AddOrderError{OrderID: orderID, Reason: "order already belongs to another PO group"})
			case order.POGroupID != nil:
				result.Errors = append(result.Errors, AddOrderError{OrderID: orderID, Reason: "order already in this PO group"})
			default:
				if err := s.orderRepo.SetPOGroup(txCtx, orderID, &id); err != nil {
					return err
				}
				result.Added = append(result.Added, orderID)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to add orders to PO group", "error", err, "po_group_id", id)
		return nil, err
	}

	result.Group, err = s.groupRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Orders added to PO group",
		"po_number", group.PONumber, "added", len(result.Added), "skipped", len(result.Errors))
	return result, nil
}

func (s *poGroupServiceImpl) RemoveOrder(ctx context.Context, actor *entity.Actor, id string, orderID string) error {
	if err := s.requireAdmin(actor); err != nil {
		return err
	}

	if _, err := s.getGroup(ctx, id); err != nil {
		return err
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return fmt.Errorf("%w: order", entity.ErrNotFound)
	}
	if order.POGroupID == nil || *order.POGroupID != id {
		return fmt.Errorf("%w: order is not in this PO group", entity.ErrValidation)
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.orderRepo.SetPOGroup(txCtx, orderID, nil)
	})
	if err != nil {
		s.logger.Error("Failed to remove order from PO group", "error", err, "po_group_id", id)
		return err
	}

	return nil
}

func (s *poGroupServiceImpl) ListAvailableOrders(ctx context.Context, actor *entity.Actor) ([]*entity.Order, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.orderRepo.ListAvailableForGrouping(ctx)
}

func (s *poGroupServiceImpl) getGroup(ctx context.Context, id string) (*entity.POGroup, error) {
	group, err := s.groupRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, fmt.Errorf("%w: PO group", entity.ErrNotFound)
	}
	return group, nil
}
