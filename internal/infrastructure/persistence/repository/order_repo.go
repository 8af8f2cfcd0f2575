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

// OrderRepository implements port.OrderRepository. Orders are loaded with
// their line items and the display fields of their related rows, because
// list views and notifications need them on every read.
type OrderRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *sql.DB, logger *zap.Logger) port.OrderRepository {
	return &OrderRepository{db: db, logger: logger}
}

const orderSelect = `
	SELECT o.id, o.order_number, o.vendor_id, o.unit_id, o.po_group_id,
	       o.description, o.status, o.ordered_by_id,
	       o.approved_by_id, o.approved_at, o.rejected_by_id, o.rejected_at,
	       o.rejection_comment, o.notes, o.created_at, o.updated_at,
	       v.name,
	       u.unit_number, u.unit_type,
	       g.po_number,
	       ob.first_name, ob.last_name, ob.department_id
	FROM orders o
	JOIN vendors v ON v.id = o.vendor_id
	LEFT JOIN units u ON u.id = o.unit_id
	LEFT JOIN po_groups g ON g.id = o.po_group_id
	JOIN users ob ON ob.id = o.ordered_by_id
`

// Create creates a new order with its items
func (r *OrderRepository) Create(ctx context.Context, order *entity.Order) error {
	query := `
		INSERT INTO orders (id, order_number, vendor_id, unit_id, description, status, ordered_by_id, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	exec := sqlite.GetExecutor(ctx, r.db)
	_, err := exec.ExecContext(ctx, query,
		order.ID, order.OrderNumber, order.VendorID, nullString(order.UnitID),
		order.Description, order.Status, order.OrderedByID, order.Notes)
	if err != nil {
		r.logger.Error("Failed to create order", zap.String("order_number", order.OrderNumber), zap.Error(err))
		return fmt.Errorf("failed to create order: %w", err)
	}

	return r.insertItems(ctx, order.ID, order.Items)
}

// GetByID retrieves an order with items and relations, nil when not found
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	order, err := scanOrder(sqlite.GetExecutor(ctx, r.db).QueryRowContext(ctx, orderSelect+` WHERE o.id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if err := r.loadItems(ctx, []*entity.Order{order}); err != nil {
		return nil, err
	}
	return order, nil
}

// Update updates an order's editable fields
func (r *OrderRepository) Update(ctx context.Context, order *entity.Order) error {
	query := `
		UPDATE orders
		SET vendor_id = ?, unit_id = ?, description = ?, notes = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	_, err := sqlite.GetExecutor(ctx, r.db).ExecContext(ctx, query,
		order.VendorID, nullString(order.UnitID), order.Description, order.Notes, order.ID)
	if err != nil {
		r.logger.Error("Failed to update order", zap.String("id", order.ID), zap.Error(err))
		return fmt.Errorf("failed to update order: %w", err)
	}
	return nil
}

// Delete deletes an order. Items go with it via FK cascade.
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	_, err := sqlite.GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("Failed to delete order", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return nil
}

// ReplaceItems replaces the order's item set wholesale
func (r *OrderRepository) ReplaceItems(ctx context.Context, orderID string, items []entity.OrderItem) error {
	exec := sqlite.GetExecutor(ctx, r.db)
	if _, err := exec.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = ?`, orderID); err != nil {
		return fmt.Errorf("failed to clear order items: %w", err)
	}
	return r.insertItems(ctx, orderID, items)
}

// SetStatus persists a workflow transition and its decision stamps
func (r *OrderRepository) SetStatus(ctx context.Context, order *entity.Order) error {
	query := `
		UPDATE orders
		SET status = ?, approved_by_id = ?, approved_at = ?,
		    rejected_by_id = ?, rejected_at = ?, rejection_comment = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	_, err := sqlite.GetExecutor(ctx, r.db).ExecContext(ctx, query,
		order.Status,
		nullString(order.ApprovedByID), nullTime(order.ApprovedAt),
		nullString(order.RejectedByID), nullTime(order.RejectedAt),
		order.RejectionComment, order.ID)
	if err != nil {
		r.logger.Error("Failed to set order status",
			zap.String("id", order.ID), zap.String("status", order.Status), zap.Error(err))
		return fmt.Errorf("failed to set order status: %w", err)
	}
	return nil
}

// SetPOGroup assigns or clears the order's PO group membership
func (r *OrderRepository) SetPOGroup(ctx context.Context, orderID string, poGroupID *string) error {
	query := `UPDATE orders SET po_group_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	_, err := sqlite.GetExecutor(ctx, r.db).ExecContext(ctx, query, nullString(poGroupID), orderID)
	if err != nil {
		r.logger.Error("Failed to set order PO group", zap.String("id", orderID), zap.Error(err))
		return fmt.Errorf("failed to set order PO group: %w", err)
	}
	return nil
}

// List retrieves orders matching the filter, newest first
func (r *OrderRepository) List(ctx context.Context, filter port.OrderFilter) ([]*entity.Order, error) {
	query := orderSelect + ` WHERE 1 = 1`
	var args []interface{}

	if filter.Status != "" {
		query += ` AND o.status = ?`
		args = append(args, filter.Status)
	}
	if filter.OrderedByID != "" {
		query += ` AND o.ordered_by_id = ?`
		args = append(args, filter.OrderedByID)
	}
	if filter.VendorID != "" {
		query += ` AND o.vendor_id = ?`
		args = append(args, filter.VendorID)
	}
	if filter.POGroupID != "" {
		query += ` AND o.po_group_id = ?`
		args = append(args, filter.POGroupID)
	}
	if len(filter.DepartmentIDs) > 0 {
		query += ` AND ob.department_id IN (` + placeholders(len(filter.DepartmentIDs)) + `)`
		for _, id := range filter.DepartmentIDs {
			args = append(args, id)
		}
	}

	query += ` ORDER BY o.created_at DESC`
	return r.getMany(ctx, query, args...)
}

// ListByOwner retrieves all orders created by a user, newest first
func (r *OrderRepository) ListByOwner(ctx context.Context, userID string) ([]*entity.Order, error) {
	return r.getMany(ctx, orderSelect+` WHERE o.ordered_by_id = ? ORDER BY o.created_at DESC`, userID)
}

// ListPending retrieves all pending orders, oldest first
func (r *OrderRepository) ListPending(ctx context.Context) ([]*entity.Order, error) {
	return r.getMany(ctx, orderSelect+` WHERE o.status = 'pending' ORDER BY o.created_at`)
}

// ListAvailableForGrouping retrieves approved or paid orders with no group,
// most recently approved first
func (r *OrderRepository) ListAvailableForGrouping(ctx context.Context) ([]*entity.Order, error) {
	return r.getMany(ctx, orderSelect+
		` WHERE o.status IN ('approved', 'paid') AND o.po_group_id IS NULL ORDER BY o.approved_at DESC`)
}

// CountByGroup counts orders in a PO group
func (r *OrderRepository) CountByGroup(ctx context.Context, poGroupID string) (int, error) {
	var count int
	err := sqlite.GetExecutor(ctx, r.db).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE po_group_id = ?`, poGroupID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count orders in group: %w", err)
	}
	return count, nil
}

// NextNumber allocates the next order number for the given day
func (r *OrderRepository) NextNumber(ctx context.Context, prefix string, at time.Time) (string, error) {
	return nextNumber(ctx, r.db, prefix, at)
}

func (r *OrderRepository) getMany(ctx context.Context, query string, args ...interface{}) ([]*entity.Order, error) {
	rows, err := sqlite.GetExecutor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []*entity.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepository) insertItems(ctx context.Context, orderID string, items []entity.OrderItem) error {
	exec := sqlite.GetExecutor(ctx, r.db)
	for i := range items {
		item := &items[i]
		_, err := exec.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, line_number, description, quantity, unit_cost)
			VALUES (?, ?, ?, ?, ?, ?)
		`, item.ID, orderID, item.LineNumber, item.Description,
			nullFloat(item.Quantity), nullFloat(item.UnitCost))
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}
	return nil
}

func (r *OrderRepository) loadItems(ctx context.Context, orders []*entity.Order) error {
	if len(orders) == 0 {
		return nil
	}

	byID := make(map[string]*entity.Order, len(orders))
	args := make([]interface{}, 0, len(orders))
	for _, o := range orders {
		o.Items = []entity.OrderItem{}
		byID[o.ID] = o
		args = append(args, o.ID)
	}

	query := `
		SELECT id, order_id, line_number, description, quantity, unit_cost
		FROM order_items
		WHERE order_id IN (` + placeholders(len(args)) + `)
		ORDER BY order_id, line_number
	`
	rows, err := sqlite.GetExecutor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item entity.OrderItem
		var quantity, unitCost sql.NullFloat64
		if err := rows.Scan(&item.ID, &item.OrderID, &item.LineNumber, &item.Description, &quantity, &unitCost); err != nil {
			return err
		}
		item.Quantity = nullFloatValue(quantity)
		item.UnitCost = nullFloatValue(unitCost)
		if o, ok := byID[item.OrderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	return rows.Err()
}

func scanOrder(row rowScanner) (*entity.Order, error) {
	var order entity.Order
	var unitID, poGroupID sql.NullString
	var approvedByID, rejectedByID sql.NullString
	var approvedAt, rejectedAt sql.NullTime
	var vendorName string
	var unitNumber, unitType, poNumber sql.NullString
	var obFirst, obLast string
	var obDeptID sql.NullString

	err := row.Scan(
		&order.ID, &order.OrderNumber, &order.VendorID, &unitID, &poGroupID,
		&order.Description, &order.Status, &order.OrderedByID,
		&approvedByID, &approvedAt, &rejectedByID, &rejectedAt,
		&order.RejectionComment, &order.Notes, &order.CreatedAt, &order.UpdatedAt,
		&vendorName, &unitNumber, &unitType, &poNumber,
		&obFirst, &obLast, &obDeptID,
	)
	if err != nil {
		return nil, err
	}

	order.UnitID = nullStringValue(unitID)
	order.POGroupID = nullStringValue(poGroupID)
	order.ApprovedByID = nullStringValue(approvedByID)
	order.ApprovedAt = nullTimeValue(approvedAt)
	order.RejectedByID = nullStringValue(rejectedByID)
	order.RejectedAt = nullTimeValue(rejectedAt)

	order.Vendor = &entity.Vendor{ID: order.VendorID, Name: vendorName}
	if order.UnitID != nil && unitNumber.Valid {
		order.Unit = &entity.Unit{
			ID:         *order.UnitID,
			UnitNumber: unitNumber.String,
			UnitType:   entity.UnitType(unitType.String),
		}
	}
	if order.POGroupID != nil && poNumber.Valid {
		order.POGroup = &entity.POGroup{ID: *order.POGroupID, PONumber: poNumber.String}
	}
	order.OrderedBy = &entity.User{
		ID:           order.OrderedByID,
		FirstName:    obFirst,
		LastName:     obLast,
		DepartmentID: nullStringValue(obDeptID),
	}

	return &order, nil
}

// Verify interface compliance
var _ port.OrderRepository = (*OrderRepository)(nil)
