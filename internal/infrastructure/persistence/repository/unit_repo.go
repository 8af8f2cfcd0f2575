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

// UnitRepository implements port.UnitRepository
type UnitRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUnitRepository creates a new unit repository
func NewUnitRepository(db *sql.DB, logger *zap.Logger) port.UnitRepository {
	return &UnitRepository{db: db, logger: logger}
}

const unitColumns = `id, unit_number, description, unit_type, department_id, is_active, created_by_id, created_at, updated_at`

// Create creates a new unit
func (r *UnitRepository) Create(ctx context.Context, unit *entity.Unit) error {
	query := `
		INSERT INTO units (id, unit_number, description, unit_type, department_id, is_active, created_by_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := sqlite.GetExecutor(ctx, r.db).ExecContext(ctx, query,
		unit.ID, unit.UnitNumber, unit.Description, string(unit.UnitType),
		nullString(unit.DepartmentID), unit.IsActive, nullString(unit.CreatedByID))
	if err != nil {
		r.logger.Error("Failed to create unit", zap.String("unit_number", unit.UnitNumber), zap.Error(err))
		return fmt.Errorf("failed to create unit: %w", err)
	}
	return nil
}

// GetByID retrieves a unit by ID, nil when not found
func (r *UnitRepository) GetByID(ctx context.Context, id string) (*entity.Unit, error) {
	query := `SELECT ` + unitColumns + ` FROM units WHERE id = ?`
	return r.scanOne(sqlite.GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
}

// GetByUnitNumber retrieves a unit by its unit number, nil when not found
func (r *UnitRepository) GetByUnitNumber(ctx context.Context, unitNumber string) (*entity.Unit, error) {
	query := `SELECT ` + unitColumns + ` FROM units WHERE unit_number = ?`
	return r.scanOne(sqlite.GetExecutor(ctx, r.db).QueryRowContext(ctx, query, unitNumber))
}

// Update updates a unit
func (r *UnitRepository) Update(ctx context.Context, unit *entity.Unit) error {
	query := `
		UPDATE units
		SET unit_number = ?, description = ?, unit_type = ?, department_id = ?,
		    is_active = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	_, err := sqlite.GetExecutor(ctx, r.db).ExecContext(ctx, query,
		unit.UnitNumber, unit.Description, string(unit.UnitType),
		nullString(unit.DepartmentID), unit.IsActive, unit.ID)
	if err != nil {
		r.logger.Error("Failed to update unit", zap.String("id", unit.ID), zap.Error(err))
		return fmt.Errorf("failed to update unit: %w", err)
	}
	return nil
}

// List retrieves all units ordered by unit number
func (r *UnitRepository) List(ctx context.Context) ([]*entity.Unit, error) {
	query := `SELECT ` + unitColumns + ` FROM units ORDER BY unit_number`
	rows, err := sqlite.GetExecutor(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	defer rows.Close()

	var units []*entity.Unit
	for rows.Next() {
		unit, err := scanUnit(rows)
		if err != nil {
			return nil, err
		}
		units = append(units, unit)
	}
	return units, rows.Err()
}

func (r *UnitRepository) scanOne(row *sql.Row) (*entity.Unit, error) {
	unit, err := scanUnit(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get unit: %w", err)
	}
	return unit, nil
}

func scanUnit(row rowScanner) (*entity.Unit, error) {
	var unit entity.Unit
	var unitType string
	var deptID, createdByID sql.NullString
	err := row.Scan(
		&unit.ID, &unit.UnitNumber, &unit.Description, &unitType,
		&deptID, &unit.IsActive, &createdByID, &unit.CreatedAt, &unit.UpdatedAt)
	if err != nil {
		return nil, err
	}
	unit.UnitType = entity.UnitType(unitType)
	unit.DepartmentID = nullStringValue(deptID)
	unit.CreatedByID = nullStringValue(createdByID)
	return &unit, nil
}

// Verify interface compliance
var _ port.UnitRepository = (*UnitRepository)(nil)
