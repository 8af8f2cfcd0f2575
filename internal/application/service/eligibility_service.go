package service

import (
	"context"
	"fmt"

	"github.com/fieldops/po-tracker/internal/application/port"
	"github.com/fieldops/po-tracker/internal/domain/entity"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// EligibilityService resolves which approvers may act on a request. The set
// is recomputed on every call: approver configuration can change between
// submissions, so results are never cached.
type EligibilityService interface {
	// EligibleApprovers returns all active approvers that are global or
	// associated with the requester's department.
	EligibleApprovers(ctx context.Context, departmentID *string) ([]*entity.Approver, error)

	// ApproverFor returns the active approver record for a user, or nil if
	// the user is not an active approver.
	ApproverFor(ctx context.Context, userID string) (*entity.Approver, error)

	// CanAct reports whether the approver may approve or reject requests
	// scoped to the given department.
	CanAct(approver *entity.Approver, departmentID *string) bool
}

type eligibilityServiceImpl struct {
	approverRepo port.ApproverRepository
	logger       Logger
}

// NewEligibilityService creates a new EligibilityService
func NewEligibilityService(approverRepo port.ApproverRepository, logger Logger) EligibilityService {
	return &eligibilityServiceImpl{
		approverRepo: approverRepo,
		logger:       logger,
	}
}

func (s *eligibilityServiceImpl) EligibleApprovers(ctx context.Context, departmentID *string) ([]*entity.Approver, error) {
	active, err := s.approverRepo.ListActive(ctx)
	if err != nil {
		s.logger.Error("Failed to list active approvers", "error", err)
		return nil, fmt.Errorf("list active approvers: %w", err)
	}

	var eligible []*entity.Approver
	for _, approver := range active {
		if approver.CanApproveForDepartment(departmentID) {
			eligible = append(eligible, approver)
		}
	}

	return eligible, nil
}

func (s *eligibilityServiceImpl) ApproverFor(ctx context.Context, userID string) (*entity.Approver, error) {
	approver, err := s.approverRepo.GetByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to get approver by user", "error", err, "user_id", userID)
		return nil, fmt.Errorf("get approver for user: %w", err)
	}
	if approver == nil || !approver.IsActive {
		return nil, nil
	}
	return approver, nil
}

func (s *eligibilityServiceImpl) CanAct(approver *entity.Approver, departmentID *string) bool {
	if approver == nil || !approver.IsActive {
		return false
	}
	return approver.CanApproveForDepartment(departmentID)
}
