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

// RepairItemInput is a submitted repair line. Same normalization as order
// items: empty descriptions are dropped and the rest renumbered.
type RepairItemInput struct {
	Description string `json:"description"`
}

// CreateRepairInput carries the fields for a new repair request.
type CreateRepairInput struct {
	UnitID      string            `json:"unit_id"`
	Description string            `json:"description"`
	Notes       string            `json:"notes"`
	Items       []RepairItemInput `json:"items"`
}

// UpdateRepairInput carries a partial repair edit.
type UpdateRepairInput struct {
	UnitID      *string            `json:"unit_id"`
	Description *string            `json:"description"`
	Notes       *string            `json:"notes"`
	Items       *[]RepairItemInput `json:"items"`
}

// RepairService runs the equipment-repair approval workflow. Approval
// eligibility is scoped to the fixed Repairs department rather than the
// requester's own department, and approved repairs are closed out by
// technicians instead of being paid.
type RepairService interface {
	Create(ctx context.Context, actor *entity.Actor, in CreateRepairInput) (*entity.Repair, error)
	Get(ctx context.Context, actor *entity.Actor, id string) (*entity.Repair, error)
	ListMine(ctx context.Context, actor *entity.Actor) ([]*entity.Repair, error)
	ListAll(ctx context.Context, actor *entity.Actor, filter port.RepairFilter) ([]*entity.Repair, error)
	Update(ctx context.Context, actor *entity.Actor, id string, in UpdateRepairInput) (*entity.Repair, error)
	Delete(ctx context.Context, actor *entity.Actor, id string) error
	Submit(ctx context.Context, actor *entity.Actor, id string) (*entity.Repair, []*entity.Approver, error)
	Approve(ctx context.Context, actor *entity.Actor, id string) (*entity.Repair, error)
	Reject(ctx context.Context, actor *entity.Actor, id string, comment string) (*entity.Repair, error)
	Complete(ctx context.Context, actor *entity.Actor, id string) (*entity.Repair, error)
	EligibleApprovers(ctx context.Context, actor *entity.Actor, id string) ([]*entity.Approver, error)
}

type repairServiceImpl struct {
	repairRepo  port.RepairRepository
	userRepo    port.UserRepository
	unitRepo    port.UnitRepository
	techRepo    port.TechnicianRepository
	eligibility EligibilityService
	notifier    NotificationService
	txManager   port.TransactionManager
	logger      Logger
	now         func() time.Time
}

// NewRepairService creates a new RepairService
func NewRepairService(
	repairRepo port.RepairRepository,
	userRepo port.UserRepository,
	unitRepo port.UnitRepository,
	techRepo port.TechnicianRepository,
	eligibility EligibilityService,
	notifier NotificationService,
	txManager port.TransactionManager,
	logger Logger,
) RepairService {
	return &repairServiceImpl{
		repairRepo:  repairRepo,
		userRepo:    userRepo,
		unitRepo:    unitRepo,
		techRepo:    techRepo,
		eligibility: eligibility,
		notifier:    notifier,
		txManager:   txManager,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// repairsDepartmentID returns the eligibility scope shared by every repair.
func repairsDepartmentID() *string {
	id := entity.RepairsDepartmentID
	return &id
}

func (s *repairServiceImpl) Create(ctx context.Context, actor *entity.Actor, in CreateRepairInput) (*entity.Repair, error) {
	if in.UnitID == "" {
		return nil, fmt.Errorf("%w: unit is required", entity.ErrValidation)
	}
	if in.Description == "" {
		return nil, fmt.Errorf("%w: description is required", entity.ErrValidation)
	}

	unit, err := s.unitRepo.GetByID(ctx, in.UnitID)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, fmt.Errorf("%w: unit not found", entity.ErrValidation)
	}

	repair := &entity.Repair{
		ID:            uuid.NewString(),
		UnitID:        in.UnitID,
		Description:   in.Description,
		Status:        workflow.StateDraft.String(),
		RequestedByID: actor.ID,
		Notes:         in.Notes,
	}
	repair.Items = normalizeRepairItems(repair.ID, in.Items)

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		number, err := s.repairRepo.NextNumber(txCtx, "REP", s.now())
		if err != nil {
			return fmt.Errorf("generate repair number: %w", err)
		}
		repair.RepairNumber = number
		return s.repairRepo.Create(txCtx, repair)
	})
	if err != nil {
		s.logger.Error("Failed to create repair", "error", err)
		return nil, err
	}

	s.logger.Info("Repair created", "repair_number", repair.RepairNumber, "requested_by", actor.ID)
	return s.repairRepo.GetByID(ctx, repair.ID)
}

func (s *repairServiceImpl) Get(ctx context.Context, actor *entity.Actor, id string) (*entity.Repair, error) {
	repair, err := s.getRepair(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkReadAccess(ctx, actor, repair); err != nil {
		return nil, err
	}
	return repair, nil
}

func (s *repairServiceImpl) ListMine(ctx context.Context, actor *entity.Actor) ([]*entity.Repair, error) {
	repairs, err := s.repairRepo.ListByOwner(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(repairs))
	for _, r := range repairs {
		seen[r.ID] = true
	}

	if actor.IsApprover {
		approver, err := s.eligibility.ApproverFor(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		if s.eligibility.CanAct(approver, repairsDepartmentID()) {
			pending, err := s.repairRepo.ListByStatus(ctx, workflow.StatePending.String())
			if err != nil {
				return nil, err
			}
			for _, r := range pending {
				if !seen[r.ID] {
					repairs = append(repairs, r)
					seen[r.ID] = true
				}
			}
		}
	}

	if actor.IsTechnician {
		approved, err := s.repairRepo.ListByStatus(ctx, workflow.StateApproved.String())
		if err != nil {
			return nil, err
		}
		for _, r := range approved {
			if !seen[r.ID] {
				repairs = append(repairs, r)
				seen[r.ID] = true
			}
		}
	}

	return repairs, nil
}

func (s *repairServiceImpl) ListAll(ctx context.Context, actor *entity.Actor, filter port.RepairFilter) ([]*entity.Repair, error) {
	if actor.IsAdmin || actor.IsTechnician {
		return s.repairRepo.List(ctx, filter)
	}

	if actor.IsApprover {
		approver, err := s.eligibility.ApproverFor(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		if s.eligibility.CanAct(approver, repairsDepartmentID()) {
			return s.repairRepo.List(ctx, filter)
		}
	}

	return nil, fmt.Errorf("%w: access denied", entity.ErrForbidden)
}

func (s *repairServiceImpl) Update(ctx context.Context, actor *entity.Actor, id string, in UpdateRepairInput) (*entity.Repair, error) {
	repair, err := s.getRepair(ctx, id)
	if err != nil {
		return nil, err
	}

	if repair.RequestedByID != actor.ID {
		return nil, fmt.Errorf("%w: only the creator can edit this repair", entity.ErrForbidden)
	}
	if repair.Status != workflow.StateDraft.String() && repair.Status != workflow.StateRejected.String() {
		return nil, fmt.Errorf("%w: only draft or rejected repairs can be edited", workflow.ErrInvalidTransition)
	}

	if in.UnitID != nil && *in.UnitID != "" {
		unit, err := s.unitRepo.GetByID(ctx, *in.UnitID)
		if err != nil {
			return nil, err
		}
		if unit == nil {
			return nil, fmt.Errorf("%w: unit not found", entity.ErrValidation)
		}
		repair.UnitID = *in.UnitID
	}
	if in.Description != nil {
		repair.Description = *in.Description
	}
	if in.Notes != nil {
		repair.Notes = *in.Notes
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.repairRepo.Update(txCtx, repair); err != nil {
			return err
		}
		if in.Items != nil {
			return s.repairRepo.ReplaceItems(txCtx, repair.ID, normalizeRepairItems(repair.ID, *in.Items))
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to update repair", "error", err, "repair_id", id)
		return nil, err
	}

	return s.repairRepo.GetByID(ctx, id)
}

func (s *repairServiceImpl) Delete(ctx context.Context, actor *entity.Actor, id string) error {
	repair, err := s.getRepair(ctx, id)
	if err != nil {
		return err
	}

	if repair.RequestedByID != actor.ID && !actor.IsAdmin {
		return fmt.Errorf("%w: only the creator or admin can delete this repair", entity.ErrForbidden)
	}
	if repair.Status != workflow.StateDraft.String() {
		return fmt.Errorf("%w: only draft repairs can be deleted", workflow.ErrInvalidTransition)
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.repairRepo.Delete(txCtx, id)
	})
	if err != nil {
		s.logger.Error("Failed to delete repair", "error", err, "repair_id", id)
		return err
	}

	s.logger.Info("Repair deleted", "repair_number", repair.RepairNumber)
	return nil
}

func (s *repairServiceImpl) Submit(ctx context.Context, actor *entity.Actor, id string) (*entity.Repair, []*entity.Approver, error) {
	repair, err := s.getRepair(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if repair.RequestedByID != actor.ID {
		return nil, nil, fmt.Errorf("%w: only the creator can submit this repair", entity.ErrForbidden)
	}

	machine := workflow.NewRepairMachine(workflow.State(repair.Status))
	if err := machine.Fire(ctx, workflow.TriggerSubmit); err != nil {
		return nil, nil, err
	}

	if len(repair.Items) == 0 {
		return nil, nil, fmt.Errorf("%w: repair must have at least one item", entity.ErrValidation)
	}

	approvers, err := s.eligibility.EligibleApprovers(ctx, repairsDepartmentID())
	if err != nil {
		return nil, nil, err
	}
	if len(approvers) == 0 {
		return nil, nil, fmt.Errorf("%w: no approvers configured for repairs", entity.ErrValidation)
	}

	requester, err := s.userRepo.GetByID(ctx, repair.RequestedByID)
	if err != nil {
		return nil, nil, err
	}
	if requester == nil {
		return nil, nil, fmt.Errorf("%w: requester", entity.ErrNotFound)
	}

	repair.Status = machine.State().String()
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.repairRepo.SetStatus(txCtx, repair)
	})
	if err != nil {
		s.logger.Error("Failed to submit repair", "error", err, "repair_id", id)
		return nil, nil, err
	}

	s.logger.Info("Repair submitted", "repair_number", repair.RepairNumber)
	s.notifier.RepairPending(ctx, repair, approvers, requester.FullName())

	repair, err = s.repairRepo.GetByID(ctx, id)
	return repair, approvers, err
}

func (s *repairServiceImpl) Approve(ctx context.Context, actor *entity.Actor, id string) (*entity.Repair, error) {
	repair, err := s.getRepair(ctx, id)
	if err != nil {
		return nil, err
	}

	machine := workflow.NewRepairMachine(workflow.State(repair.Status))
	if err := machine.Fire(ctx, workflow.TriggerApprove); err != nil {
		return nil, err
	}

	if err := s.checkApproverAuthority(ctx, actor); err != nil {
		return nil, err
	}

	now := s.now()
	repair.Status = machine.State().String()
	repair.ApprovedByID = &actor.ID
	repair.ApprovedAt = &now

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.repairRepo.SetStatus(txCtx, repair)
	})
	if err != nil {
		s.logger.Error("Failed to approve repair", "error", err, "repair_id", id)
		return nil, err
	}

	s.logger.Info("Repair approved", "repair_number", repair.RepairNumber, "approved_by", actor.ID)

	technicians, err := s.techRepo.ListActive(ctx)
	if err != nil {
		s.logger.Error("Failed to list technicians for notification", "error", err)
	} else {
		s.notifier.RepairApproved(ctx, repair, technicians)
	}

	return s.repairRepo.GetByID(ctx, id)
}

func (s *repairServiceImpl) Reject(ctx context.Context, actor *entity.Actor, id string, comment string) (*entity.Repair, error) {
	repair, err := s.getRepair(ctx, id)
	if err != nil {
		return nil, err
	}

	machine := workflow.NewRepairMachine(workflow.State(repair.Status))
	if err := machine.Fire(ctx, workflow.TriggerReject); err != nil {
		return nil, err
	}

	if err := s.checkApproverAuthority(ctx, actor); err != nil {
		return nil, err
	}

	now := s.now()
	repair.Status = machine.State().String()
	repair.RejectedByID = &actor.ID
	repair.RejectedAt = &now
	repair.RejectionComment = comment

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.repairRepo.SetStatus(txCtx, repair)
	})
	if err != nil {
		s.logger.Error("Failed to reject repair", "error", err, "repair_id", id)
		return nil, err
	}

	s.logger.Info("Repair rejected", "repair_number", repair.RepairNumber, "rejected_by", actor.ID)
	return s.repairRepo.GetByID(ctx, id)
}

func (s *repairServiceImpl) Complete(ctx context.Context, actor *entity.Actor, id string) (*entity.Repair, error) {
	if !actor.IsTechnician {
		return nil, fmt.Errorf("%w: only technicians can complete repairs", entity.ErrForbidden)
	}

	repair, err := s.getRepair(ctx, id)
	if err != nil {
		return nil, err
	}

	machine := workflow.NewRepairMachine(workflow.State(repair.Status))
	if err := machine.Fire(ctx, workflow.TriggerComplete); err != nil {
		return nil, err
	}

	now := s.now()
	repair.Status = machine.State().String()
	repair.CompletedByID = &actor.ID
	repair.CompletedAt = &now

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.repairRepo.SetStatus(txCtx, repair)
	})
	if err != nil {
		s.logger.Error("Failed to complete repair", "error", err, "repair_id", id)
		return nil, err
	}

	s.logger.Info("Repair completed", "repair_number", repair.RepairNumber, "completed_by", actor.ID)

	requester, err := s.userRepo.GetByID(ctx, repair.RequestedByID)
	if err == nil && requester != nil {
		s.notifier.RepairCompleted(ctx, repair, requester)
	}

	return s.repairRepo.GetByID(ctx, id)
}

func (s *repairServiceImpl) EligibleApprovers(ctx context.Context, actor *entity.Actor, id string) ([]*entity.Approver, error) {
	if _, err := s.getRepair(ctx, id); err != nil {
		return nil, err
	}
	return s.eligibility.EligibleApprovers(ctx, repairsDepartmentID())
}

func (s *repairServiceImpl) getRepair(ctx context.Context, id string) (*entity.Repair, error) {
	repair, err := s.repairRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if repair == nil {
		return nil, fmt.Errorf("%w: repair", entity.ErrNotFound)
	}
	return repair, nil
}

func (s *repairServiceImpl) checkApproverAuthority(ctx context.Context, actor *entity.Actor) error {
	if !actor.IsApprover {
		return fmt.Errorf("%w: you are not an approver", entity.ErrForbidden)
	}
	approver, err := s.eligibility.ApproverFor(ctx, actor.ID)
	if err != nil {
		return err
	}
	if !s.eligibility.CanAct(approver, repairsDepartmentID()) {
		return fmt.Errorf("%w: you cannot act on repair requests", entity.ErrForbidden)
	}
	return nil
}

func (s *repairServiceImpl) checkReadAccess(ctx context.Context, actor *entity.Actor, repair *entity.Repair) error {
	if repair.RequestedByID == actor.ID || actor.IsAdmin || actor.IsTechnician {
		return nil
	}
	if actor.IsApprover {
		approver, err := s.eligibility.ApproverFor(ctx, actor.ID)
		if err != nil {
			return err
		}
		if s.eligibility.CanAct(approver, repairsDepartmentID()) {
			return nil
		}
	}
	return fmt.Errorf("%w: access denied", entity.ErrForbidden)
}

func normalizeRepairItems(repairID string, inputs []RepairItemInput) []entity.RepairItem {
	items := make([]entity.RepairItem, 0, len(inputs))
	line := 0
	for _, in := range inputs {
		if in.Description == "" {
			continue
		}
		line++
		items = append(items, entity.RepairItem{
			ID:          uuid.NewString(),
			RepairID:    repairID,
			LineNumber:  line,
			Description: in.Description,
		})
	}
	return items
}
