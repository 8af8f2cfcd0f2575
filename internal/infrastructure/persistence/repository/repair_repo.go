package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fieldops/po-tracker/internal/application/port"
	"github.com/fieldops/po-tracker/internal/domain/entity"
	"github.com/fieldops/po-tracker/internal/infrastructure/persistence/sqlite"
)

// RepairRepository implements port.RepairRepository
type RepairRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRepairRepository creates a new repair repository
func NewRepairRepository(db *sql.DB, logger *zap.Logger) port.RepairRepository {
	return &RepairRepository{db: db, logger: logger}
}

const repairSelect = `
	SELECT r.id, r.repair_number, r.unit_id, r.description, r.status, r.requested_by_id,
	       r.approved_by_id, r.approved_at, r.rejected_by_id, r.rejected_at,
	       r.rejection_comment, r.completed_by_id, r.completed_at,
	       r.notes, r.created_at, r.updated_at,
	       u.unit_number, u.unit_type,
	       rb.first_name, rb.last_name, rb.department_id
	FROM repairs r
	JOIN units u ON u.id = r.unit_id
	JOIN users rb ON rb.id = r.requested_by_id
`

// Create creates a new repair with its items
func (r *RepairRepository) Create(ctx context.Context, repair *entity.Repair) error {
	query := `
		INSERT INTO repairs (id, repair_number, unit_id, description, status, requested_by_id, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := sqlite.GetExecutor(ctx, r.db).ExecContext(ctx, query,
		repair.ID, repair.RepairNumber, repair.UnitID, repair.Description,
		repair.Status, repair.RequestedByID, repair.Notes)
	if err != nil {
		r.logger.Error("Failed to create repair", zap.String("repair_number", repair.RepairNumber), zap.Error(err))
		return fmt.Errorf("failed to create repair: %w", err)
	}

	return r.insertItems(ctx, repair.ID, repair.Items)
}

// GetByID retrieves a repair with items and relations, nil when not found
func (r *RepairRepository) GetByID(ctx context.Context, id string) (*entity.Repair, error) {
	repair, err := scanRepair(sqlite.GetExecutor(ctx, r.db).QueryRowContext(ctx, repairSelect+` WHERE r.id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get repair: %w", err)
	}
	if err := r.loadItems(ctx, []*entity.Repair{repair}); err != nil {
		return nil, err
	}
	return repair, nil
}

// Update updates a repair's editable fields
func (r *RepairRepository) Update(ctx context.Context, repair *entity.Repair) error {
	query := `
		UPDATE repairs
		SET unit_id = ?, description = ?, notes = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	_, err := sqlite.GetExecutor(ctx, r.db).ExecContext(ctx, query,
		repair.UnitID, repair.Description, repair.Notes, repair.ID)
	if err != nil {
		r.logger.Error("Failed to update repair", zap.String("id", repair.ID), zap.Error(err))
		return fmt.Errorf("failed to update repair: %w", err)
	}
	return nil
}

// Delete deletes a repair. Items go with it via FK cascade.
func (r *RepairRepository) Delete(ctx context.Context, id string) error {
	_, err := sqlite.GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM repairs WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("Failed to delete repair", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete repair: %w", err)
	}
	return nil
}

// ReplaceItems replaces the repair's item set wholesale
func (r *RepairRepository) ReplaceItems(ctx context.Context, repairID string, items []entity.RepairItem) error {
	exec := sqlite.GetExecutor(ctx, r.db)
	if _, err := exec.ExecContext(ctx, `DELETE FROM repair_items WHERE repair_id = ?`, repairID); err != nil {
		return fmt.Errorf("failed to clear repair items: %w", err)
	}
	return r.insertItems(ctx, repairID, items)
}

// SetStatus persists a workflow transition and its decision stamps
func (r *RepairRepository) SetStatus(ctx context.Context, repair *entity.Repair) error {
	query := `
		UPDATE repairs
		SET status = ?, approved_by_id = ?, approved_at = ?,
		    rejected_by_id = ?, rejected_at = ?, rejection_comment = ?,
		    completed_by_id = ?, completed_at = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	_, err := sqlite.GetExecutor(ctx, r.db).ExecContext(ctx, query,
		repair.Status,
		nullString(repair.ApprovedByID), nullTime(repair.ApprovedAt),
		nullString(repair.RejectedByID), nullTime(repair.RejectedAt),
		repair.RejectionComment,
		nullString(repair.CompletedByID), nullTime(repair.CompletedAt),
		repair.ID)
	if err != nil {
		r.logger.Error("Failed to set repair status",
			zap.String("id", repair.ID), zap.String("status", repair.Status), zap.Error(err))
		return fmt.Errorf("failed to set repair status: %w", err)
	}
	return nil
}

// List retrieves repairs matching the filter, newest first
func (r *RepairRepository) List(ctx context.Context, filter port.RepairFilter) ([]*entity.Repair, error) {
	query := repairSelect + ` WHERE 1 = 1`
	var args []interface{}

	if filter.Status != "" {
		query += ` AND r.status = ?`
		args = append(args, filter.Status)
	}
	if filter.RequestedByID != "" {
		query += ` AND r.requested_by_id = ?`
		args = append(args, filter.RequestedByID)
	}
	if filter.UnitID != "" {
		query += ` AND r.unit_id = ?`
		args = append(args, filter.UnitID)
	}

	query += ` ORDER BY r.created_at DESC`
	return r.getMany(ctx, query, args...)
}

// ListByOwner retrieves all repairs created by a user, newest first
func (r *RepairRepository) ListByOwner(ctx context.Context, userID string) ([]*entity.Repair, error) {
	return r.getMany(ctx, repairSelect+` WHERE r.requested_by_id = ? ORDER BY r.created_at DESC`, userID)
}

// ListByStatus retrieves all repairs in a status, oldest first
func (r *RepairRepository) ListByStatus(ctx context.Context, status string) ([]*entity.Repair, error) {
	return r.getMany(ctx, repairSelect+` WHERE r.status = ? ORDER BY r.created_at`, status)
}

// NextNumber allocates the next repair number for the given day
func (r *RepairRepository) NextNumber(ctx context.Context, prefix string, at time.Time) (string, error) {
	return nextNumber(ctx, r.db, prefix, at)
}

func (r *RepairRepository) getMany(ctx context.Context, query string, args ...interface{}) ([]*entity.Repair, error) {
	rows, err := sqlite.GetExecutor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list repairs: %w", err)
	}
	defer rows.Close()

	var repairs []*entity.Repair
	for rows.Next() {
		repair, err := scanRepair(rows)
		if err != nil {
			return nil, err
		}
		repairs = append(repairs, repair)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, repairs); err != nil {
		return nil, err
	}
	return repairs, nil
}

func (r *RepairRepository) insertItems(ctx context.Context, repairID string, items []entity.RepairItem) error {
	exec := sqlite.GetExecutor(ctx, r.db)
	for i := range items {
		item := &items[i]
		_, err := exec.ExecContext(ctx, `
			INSERT INTO repair_items (id, repair_id, line_number, description)
			VALUES (?, ?, ?, ?)
		`, item.ID, repairID, item.LineNumber, item.Description)
		if err != nil {
			return fmt.Errorf("failed to insert repair item: %w", err)
		}
	}
	return nil
}

func (r *RepairRepository) loadItems(ctx context.Context, repairs []*entity.Repair) error {
	if len(repairs) == 0 {
		return nil
	}

	byID := make(map[string]*entity.Repair, len(repairs))
	args := make([]interface{}, 0, len(repairs))
	for _, rep := range repairs {
		rep.Items = []entity.RepairItem{}
		byID[rep.ID] = rep
		args = append(args, rep.ID)
	}

	query := `
		SELECT id, repair_id, line_number, description
		FROM repair_items
		WHERE repair_id IN (` + placeholders(len(args)) + `)
		ORDER BY repair_id, line_number
	`
	rows, err := sqlite.GetExecutor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to load repair items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item entity.RepairItem
		if err := rows.Scan(&item.ID, &item.RepairID, &item.LineNumber, &item.Description); err != nil {
			return err
		}
		if rep, ok := byID[item.RepairID]; ok {
			rep.Items = append(rep.Items, item)
		}
	}
	return rows.Err()
}

func scanRepair(row rowScanner) (*entity.Repair, error) {
	var repair entity.Repair
	var approvedByID, rejectedByID, completedByID sql.NullString
	var approvedAt, rejectedAt, completedAt sql.NullTime
	var unitNumber, unitType string
	var rbFirst, rbLast string
	var rbDeptID sql.NullString

	err := row.Scan(
		&repair.ID, &repair.RepairNumber, &repair.UnitID, &repair.Description,
		&repair.Status, &repair.RequestedByID,
		&approvedByID, &approvedAt, &rejectedByID, &rejectedAt,
		&repair.RejectionComment, &completedByID, &completedAt,
		&repair.Notes, &repair.CreatedAt, &repair.UpdatedAt,
		&unitNumber, &unitType,
		&rbFirst, &rbLast, &rbDeptID,
	)
	if err != nil {
		return nil, err
	}

	repair.ApprovedByID = nullStringValue(approvedByID)
	repair.ApprovedAt = nullTimeValue(approvedAt)
	repair.RejectedByID = nullStringValue(rejectedByID)
	repair.RejectedAt = nullTimeValue(rejectedAt)
	repair.CompletedByID = nullStringValue(completedByID)
	repair.CompletedAt = nullTimeValue(completedAt)

	repair.Unit = &entity.Unit{
		ID:         repair.UnitID,
		UnitNumber: unitNumber,
		UnitType:   entity.UnitType(unitType),
	}
	repair.RequestedBy = &entity.User{
		ID:           repair.RequestedByID,
		FirstName:    rbFirst,
		LastName:     rbLast,
		DepartmentID: nullStringValue(rbDeptID),
	}

	return &repair, nil
}

// Verify interface compliance
var _ port.RepairRepository = (*RepairRepository)(nil)
