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

// DepartmentRepository implements port.DepartmentRepository
type DepartmentRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(db *sql.DB, logger *zap.Logger) port.DepartmentRepository {
	return &DepartmentRepository{db: db, logger: logger}
}

// Create creates a new department
func (r *DepartmentRepository) Create(ctx context.Context, dept *entity.Department) error {
	query := `INSERT INTO departments (id, name, description, is_active) VALUES (?, ?, ?, 1)`
	_, err := sqlite.GetExecutor(ctx, r.db).ExecContext(ctx, query, dept.ID, dept.Name, dept.Description)
	if err != nil {
		r.logger.Error("Failed to create department", zap.String("name", dept.Name), zap.Error(err))
		return fmt.Errorf("failed to create department: %w", err)
	}
	return nil
}

// GetByID retrieves a department by ID, nil when not found
func (r *DepartmentRepository) GetByID(ctx context.Context, id string) (*entity.Department, error) {
	query := `SELECT id, name, description, is_active, created_at, updated_at FROM departments WHERE id = ?`
	return r.scanOne(sqlite.GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
}

// GetByName retrieves a department by name, nil when not found
func (r *DepartmentRepository) GetByName(ctx context.Context, name string) (*entity.Department, error) {
	query := `SELECT id, name, description, is_active, created_at, updated_at FROM departments WHERE name = ?`
	return r.scanOne(sqlite.GetExecutor(ctx, r.db).QueryRowContext(ctx, query, name))
}

// Update updates a department
func (r *DepartmentRepository) Update(ctx context.Context, dept *entity.Department) error {
	query := `UPDATE departments SET name = ?, description = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	_, err := sqlite.GetExecutor(ctx, r.db).ExecContext(ctx, query, dept.Name, dept.Description, dept.ID)
	if err != nil {
		r.logger.Error("Failed to update department", zap.String("id", dept.ID), zap.Error(err))
		return fmt.Errorf("failed to update department: %w", err)
	}
	return nil
}

// Delete deletes a department
func (r *DepartmentRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM departments WHERE id = ?`
	_, err := sqlite.GetExecutor(ctx, r.db).ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete department", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete department: %w", err)
	}
	return nil
}

// List retrieves all departments ordered by name
func (r *DepartmentRepository) List(ctx context.Context) ([]*entity.Department, error) {
	query := `SELECT id, name, description, is_active, created_at, updated_at FROM departments ORDER BY name`
	rows, err := sqlite.GetExecutor(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	defer rows.Close()

	var depts []*entity.Department
	for rows.Next() {
		var dept entity.Department
		if err := rows.Scan(&dept.ID, &dept.Name, &dept.Description, &dept.IsActive, &dept.CreatedAt, &dept.UpdatedAt); err != nil {
			return nil, err
		}
		depts = append(depts, &dept)
	}
	return depts, rows.Err()
}

func (r *DepartmentRepository) scanOne(row *sql.Row) (*entity.Department, error) {
	var dept entity.Department
	err := row.Scan(&dept.ID, &dept.Name, &dept.Description, &dept.IsActive, &dept.CreatedAt, &dept.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get department: %w", err)
	}
	return &dept, nil
}

// Verify interface compliance
var _ port.DepartmentRepository = (*DepartmentRepository)(nil)
