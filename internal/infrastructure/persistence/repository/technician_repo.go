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

// TechnicianRepository implements port.TechnicianRepository
type TechnicianRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewTechnicianRepository creates a new technician repository
func NewTechnicianRepository(db *sql.DB, logger *zap.Logger) port.TechnicianRepository {
	return &TechnicianRepository{db: db, logger: logger}
}

const technicianSelect = `
	SELECT t.id, t.user_id, t.is_active, t.created_by_id, t.created_at, t.updated_at,
	       u.id, u.email, u.first_name, u.last_name, u.phone, u.department_id,
	       u.job_title, u.is_admin, u.is_active, u.created_at, u.updated_at
	FROM technicians t
	JOIN users u ON u.id = t.user_id
`

// Create creates a new technician
func (r *TechnicianRepository) Create(ctx context.Context, tech *entity.Technician) error {
	query := `INSERT INTO technicians (id, user_id, is_active, created_by_id) VALUES (?, ?, ?, ?)`
	_, err := sqlite.GetExecutor(ctx, r.db).ExecContext(ctx, query,
		tech.ID, tech.UserID, tech.IsActive, nullString(tech.CreatedByID))
	if err != nil {
		r.logger.Error("Failed to create technician", zap.String("user_id", tech.UserID), zap.Error(err))
		return fmt.Errorf("failed to create technician: %w", err)
	}
	return nil
}

// GetByID retrieves a technician by ID, nil when not found
func (r *TechnicianRepository) GetByID(ctx context.Context, id string) (*entity.Technician, error) {
	return r.getOne(ctx, technicianSelect+` WHERE t.id = ?`, id)
}

// GetByUserID retrieves a technician by its user, nil when not found
func (r *TechnicianRepository) GetByUserID(ctx context.Context, userID string) (*entity.Technician, error) {
	return r.getOne(ctx, technicianSelect+` WHERE t.user_id = ?`, userID)
}

// Update updates a technician
func (r *TechnicianRepository) Update(ctx context.Context, tech *entity.Technician) error {
	query := `UPDATE technicians SET is_active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	_, err := sqlite.GetExecutor(ctx, r.db).ExecContext(ctx, query, tech.IsActive, tech.ID)
	if err != nil {
		r.logger.Error("Failed to update technician", zap.String("id", tech.ID), zap.Error(err))
		return fmt.Errorf("failed to update technician: %w", err)
	}
	return nil
}

// Delete deletes a technician
func (r *TechnicianRepository) Delete(ctx context.Context, id string) error {
	_, err := sqlite.GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM technicians WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("Failed to delete technician", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete technician: %w", err)
	}
	return nil
}

// List retrieves all technicians
func (r *TechnicianRepository) List(ctx context.Context) ([]*entity.Technician, error) {
	return r.getMany(ctx, technicianSelect+` ORDER BY u.last_name, u.first_name`)
}

// ListActive retrieves technicians whose record and user are active
func (r *TechnicianRepository) ListActive(ctx context.Context) ([]*entity.Technician, error) {
	return r.getMany(ctx, technicianSelect+` WHERE t.is_active = 1 AND u.is_active = 1 ORDER BY u.last_name, u.first_name`)
}

func (r *TechnicianRepository) getOne(ctx context.Context, query string, arg interface{}) (*entity.Technician, error) {
	tech, err := scanTechnician(sqlite.GetExecutor(ctx, r.db).QueryRowContext(ctx, query, arg))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get technician: %w", err)
	}
	return tech, nil
}

func (r *TechnicianRepository) getMany(ctx context.Context, query string) ([]*entity.Technician, error) {
	rows, err := sqlite.GetExecutor(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list technicians: %w", err)
	}
	defer rows.Close()

	var techs []*entity.Technician
	for rows.Next() {
		tech, err := scanTechnician(rows)
		if err != nil {
			return nil, err
		}
		techs = append(techs, tech)
	}
	return techs, rows.Err()
}

func scanTechnician(row rowScanner) (*entity.Technician, error) {
	var tech entity.Technician
	var user entity.User
	var createdByID, userDeptID sql.NullString
	err := row.Scan(
		&tech.ID, &tech.UserID, &tech.IsActive, &createdByID,
		&tech.CreatedAt, &tech.UpdatedAt,
		&user.ID, &user.Email, &user.FirstName, &user.LastName, &user.Phone,
		&userDeptID, &user.JobTitle, &user.IsAdmin, &user.IsActive,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	tech.CreatedByID = nullStringValue(createdByID)
	user.DepartmentID = nullStringValue(userDeptID)
	tech.User = &user
	return &tech, nil
}

// Verify interface compliance
var _ port.TechnicianRepository = (*TechnicianRepository)(nil)
