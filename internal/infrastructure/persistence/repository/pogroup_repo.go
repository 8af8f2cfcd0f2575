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

// POGroupRepository implements port.POGroupRepository. Groups carry their
// order count and total, computed from priced line items at read time.
type POGroupRepository struct {
	db        *sql.DB
	orderRepo port.OrderRepository
	logger    *zap.Logger
}

// NewPOGroupRepository creates a new PO group repository
func NewPOGroupRepository(db *sql.DB, orderRepo port.OrderRepository, logger *zap.Logger) port.POGroupRepository {
	return &POGroupRepository{db: db, orderRepo: orderRepo, logger: logger}
}

const poGroupSelect = `
	SELECT g.id, g.po_number, g.created_by_id, g.created_at, g.updated_at
	FROM po_groups g
`

// Create creates a new PO group
func (r *POGroupRepository) Create(ctx context.Context, group *entity.POGroup) error {
	query := `INSERT INTO po_groups (id, po_number, created_by_id) VALUES (?, ?, ?)`
	_, err := sqlite.GetExecutor(ctx, r.db).ExecContext(ctx, query,
		group.ID, group.PONumber, nullString(group.CreatedByID))
	if err != nil {
		r.logger.Error("Failed to create PO group", zap.String("po_number", group.PONumber), zap.Error(err))
		return fmt.Errorf("failed to create PO group: %w", err)
	}
	return nil
}

// GetByID retrieves a PO group with aggregates, nil when not found
func (r *POGroupRepository) GetByID(ctx context.Context, id string) (*entity.POGroup, error) {
	return r.getOne(ctx, poGroupSelect+` WHERE g.id = ?`, id)
}

// GetByPONumber retrieves a PO group by number, nil when not found
func (r *POGroupRepository) GetByPONumber(ctx context.Context, poNumber string) (*entity.POGroup, error) {
	return r.getOne(ctx, poGroupSelect+` WHERE g.po_number = ?`, poNumber)
}

// Update updates a PO group
func (r *POGroupRepository) Update(ctx context.Context, group *entity.POGroup) error {
	query := `UPDATE po_groups SET po_number = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	_, err := sqlite.GetExecutor(ctx, r.db).ExecContext(ctx, query, group.PONumber, group.ID)
	if err != nil {
		r.logger.Error("Failed to update PO group", zap.String("id", group.ID), zap.Error(err))
		return fmt.Errorf("failed to update PO group: %w", err)
	}
	return nil
}

// Delete deletes a PO group. The service refuses to delete non-empty groups.
func (r *POGroupRepository) Delete(ctx context.Context, id string) error {
	_, err := sqlite.GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM po_groups WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("Failed to delete PO group", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete PO group: %w", err)
	}
	return nil
}

// List retrieves all PO groups with aggregates, newest first
func (r *POGroupRepository) List(ctx context.Context) ([]*entity.POGroup, error) {
	rows, err := sqlite.GetExecutor(ctx, r.db).QueryContext(ctx, poGroupSelect+` ORDER BY g.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list PO groups: %w", err)
	}
	defer rows.Close()

	var groups []*entity.POGroup
	for rows.Next() {
		group, err := scanPOGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, group := range groups {
		if err := r.loadAggregates(ctx, group); err != nil {
			return nil, err
		}
	}
	return groups, nil
}

func (r *POGroupRepository) getOne(ctx context.Context, query string, arg interface{}) (*entity.POGroup, error) {
	group, err := scanPOGroup(sqlite.GetExecutor(ctx, r.db).QueryRowContext(ctx, query, arg))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get PO group: %w", err)
	}

	orders, err := r.orderRepo.List(ctx, port.OrderFilter{POGroupID: group.ID})
	if err != nil {
		return nil, err
	}
	group.OrderCount = len(orders)
	for _, o := range orders {
		group.Orders = append(group.Orders, *o)
		group.Total += o.Total()
	}
	return group, nil
}

// loadAggregates fills in the order count and total without hydrating the
// full member order list.
func (r *POGroupRepository) loadAggregates(ctx context.Context, group *entity.POGroup) error {
	exec := sqlite.GetExecutor(ctx, r.db)

	err := exec.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE po_group_id = ?`, group.ID).Scan(&group.OrderCount)
	if err != nil {
		return fmt.Errorf("failed to count group orders: %w", err)
	}

	err = exec.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(i.quantity * i.unit_cost), 0)
		FROM order_items i
		JOIN orders o ON o.id = i.order_id
		WHERE o.po_group_id = ? AND i.quantity IS NOT NULL AND i.unit_cost IS NOT NULL
	`, group.ID).Scan(&group.Total)
	if err != nil {
		return fmt.Errorf("failed to total group orders: %w", err)
	}
	return nil
}

func scanPOGroup(row rowScanner) (*entity.POGroup, error) {
	var group entity.POGroup
	var createdByID sql.NullString
	err := row.Scan(&group.ID, &group.PONumber, &createdByID, &group.CreatedAt, &group.UpdatedAt)
	if err != nil {
		return nil, err
	}
	group.CreatedByID = nullStringValue(createdByID)
	return &group, nil
}

// Verify interface compliance
var _ port.POGroupRepository = (*POGroupRepository)(nil)
