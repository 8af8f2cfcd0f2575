package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/fieldops/po-tracker/internal/application/port"
	"github.com/fieldops/po-tracker/internal/domain/entity"
	"github.com/fieldops/po-tracker/internal/infrastructure/persistence/sqlite"
)

// ApproverRepository implements port.ApproverRepository. Approvers are
// loaded with their user row and department association set, because every
// caller needs both for eligibility decisions and notifications.
type ApproverRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewApproverRepository creates a new approver repository
func NewApproverRepository(db *sql.DB, logger *zap.Logger) port.ApproverRepository {
	return &ApproverRepository{db: db, logger: logger}
}

const approverSelect = `
	SELECT a.id, a.user_id, a.is_active, a.created_by_id, a.created_at, a.updated_at,
	       u.id, u.email, u.first_name, u.last_name, u.phone, u.department_id,
	       u.job_title, u.is_admin, u.is_active, u.created_at, u.updated_at
	FROM approvers a
	JOIN users u ON u.id = a.user_id
`

// Create creates a new approver
func (r *ApproverRepository) Create(ctx context.Context, approver *entity.Approver) error {
	query := `INSERT INTO approvers (id, user_id, is_active, created_by_id) VALUES (?, ?, ?, ?)`
	_, err := sqlite.GetExecutor(ctx, r.db).ExecContext(ctx, query,
		approver.ID, approver.UserID, approver.IsActive, nullString(approver.CreatedByID))
	if err != nil {
		r.logger.Error("Failed to create approver", zap.String("user_id", approver.UserID), zap.Error(err))
		return fmt.Errorf("failed to create approver: %w", err)
	}
	return nil
}

// GetByID retrieves an approver by ID, nil when not found
func (r *ApproverRepository) GetByID(ctx context.Context, id string) (*entity.Approver, error) {
	return r.getOne(ctx, approverSelect+` WHERE a.id = ?`, id)
}

// GetByUserID retrieves an approver by its user, nil when not found
func (r *ApproverRepository) GetByUserID(ctx context.Context, userID string) (*entity.Approver, error) {
	return r.getOne(ctx, approverSelect+` WHERE a.user_id = ?`, userID)
}

// Update updates an approver
func (r *ApproverRepository) Update(ctx context.Context, approver *entity.Approver) error {
	query := `UPDATE approvers SET is_active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	_, err := sqlite.GetExecutor(ctx, r.db).ExecContext(ctx, query, approver.IsActive, approver.ID)
	if err != nil {
		r.logger.Error("Failed to update approver", zap.String("id", approver.ID), zap.Error(err))
		return fmt.Errorf("failed to update approver: %w", err)
	}
	return nil
}

// ReplaceDepartments replaces the approver's department association set
func (r *ApproverRepository) ReplaceDepartments(ctx context.Context, approverID string, departmentIDs []string) error {
	exec := sqlite.GetExecutor(ctx, r.db)

	if _, err := exec.ExecContext(ctx, `DELETE FROM approver_departments WHERE approver_id = ?`, approverID); err != nil {
		return fmt.Errorf("failed to clear approver departments: %w", err)
	}
	for _, deptID := range departmentIDs {
		_, err := exec.ExecContext(ctx,
			`INSERT INTO approver_departments (approver_id, department_id) VALUES (?, ?)`,
			approverID, deptID)
		if err != nil {
			return fmt.Errorf("failed to add approver department: %w", err)
		}
	}
	return nil
}

// Delete deletes an approver and its department associations
func (r *ApproverRepository) Delete(ctx context.Context, id string) error {
	exec := sqlite.GetExecutor(ctx, r.db)
	if _, err := exec.ExecContext(ctx, `DELETE FROM approver_departments WHERE approver_id = ?`, id); err != nil {
		return fmt.Errorf("failed to clear approver departments: %w", err)
	}
	if _, err := exec.ExecContext(ctx, `DELETE FROM approvers WHERE id = ?`, id); err != nil {
		r.logger.Error("Failed to delete approver", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete approver: %w", err)
	}
	return nil
}

// List retrieves all approvers
func (r *ApproverRepository) List(ctx context.Context) ([]*entity.Approver, error) {
	return r.getMany(ctx, approverSelect+` ORDER BY u.last_name, u.first_name`)
}

// ListActive retrieves approvers whose approver record and user are active
func (r *ApproverRepository) ListActive(ctx context.Context) ([]*entity.Approver, error) {
	return r.getMany(ctx, approverSelect+` WHERE a.is_active = 1 AND u.is_active = 1 ORDER BY u.last_name, u.first_name`)
}

func (r *ApproverRepository) getOne(ctx context.Context, query string, arg interface{}) (*entity.Approver, error) {
	approver, err := scanApprover(sqlite.GetExecutor(ctx, r.db).QueryRowContext(ctx, query, arg))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get approver: %w", err)
	}
	if err := r.loadDepartments(ctx, []*entity.Approver{approver}); err != nil {
		return nil, err
	}
	return approver, nil
}

func (r *ApproverRepository) getMany(ctx context.Context, query string) ([]*entity.Approver, error) {
	rows, err := sqlite.GetExecutor(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list approvers: %w", err)
	}
	defer rows.Close()

	var approvers []*entity.Approver
	for rows.Next() {
		approver, err := scanApprover(rows)
		if err != nil {
			return nil, err
		}
		approvers = append(approvers, approver)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadDepartments(ctx, approvers); err != nil {
		return nil, err
	}
	return approvers, nil
}

func (r *ApproverRepository) loadDepartments(ctx context.Context, approvers []*entity.Approver) error {
	if len(approvers) == 0 {
		return nil
	}

	byID := make(map[string]*entity.Approver, len(approvers))
	args := make([]interface{}, 0, len(approvers))
	for _, a := range approvers {
		byID[a.ID] = a
		args = append(args, a.ID)
	}

	query := `SELECT approver_id, department_id FROM approver_departments WHERE approver_id IN (` + placeholders(len(args)) + `)`
	rows, err := sqlite.GetExecutor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to load approver departments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var approverID, deptID string
		if err := rows.Scan(&approverID, &deptID); err != nil {
			return err
		}
		if a, ok := byID[approverID]; ok {
			a.DepartmentIDs = append(a.DepartmentIDs, deptID)
		}
	}
	return rows.Err()
}

func scanApprover(row rowScanner) (*entity.Approver, error) {
	var approver entity.Approver
	var user entity.User
	var createdByID, userDeptID sql.NullString
	err := row.Scan(
		&approver.ID, &approver.UserID, &approver.IsActive, &createdByID,
		&approver.CreatedAt, &approver.UpdatedAt,
		&user.ID, &user.Email, &user.FirstName, &user.LastName, &user.Phone,
		&userDeptID, &user.JobTitle, &user.IsAdmin, &user.IsActive,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	approver.CreatedByID = nullStringValue(createdByID)
	user.DepartmentID = nullStringValue(userDeptID)
	approver.User = &user
	return &approver, nil
}

// Verify interface compliance
var _ port.ApproverRepository = (*ApproverRepository)(nil)
