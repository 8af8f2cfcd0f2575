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

// UserRepository implements port.UserRepository
type UserRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, logger *zap.Logger) port.UserRepository {
	return &UserRepository{db: db, logger: logger}
}

const userColumns = `id, email, first_name, last_name, phone, department_id, job_title, is_admin, is_active, created_at, updated_at`

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, email, first_name, last_name, phone, department_id, job_title, is_admin, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := sqlite.GetExecutor(ctx, r.db).ExecContext(ctx, query,
		user.ID, user.Email, user.FirstName, user.LastName, user.Phone,
		nullString(user.DepartmentID), user.JobTitle, user.IsAdmin, user.IsActive,
	)
	if err != nil {
		r.logger.Error("Failed to create user", zap.String("email", user.Email), zap.Error(err))
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID, nil when not found
func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return r.scanOne(sqlite.GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves a user by email, nil when not found
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return r.scanOne(sqlite.GetExecutor(ctx, r.db).QueryRowContext(ctx, query, email))
}

// Update updates a user
func (r *UserRepository) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users
		SET first_name = ?, last_name = ?, phone = ?, department_id = ?,
		    job_title = ?, is_admin = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	_, err := sqlite.GetExecutor(ctx, r.db).ExecContext(ctx, query,
		user.FirstName, user.LastName, user.Phone, nullString(user.DepartmentID),
		user.JobTitle, user.IsAdmin, user.IsActive, user.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update user", zap.String("id", user.ID), zap.Error(err))
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// List retrieves all users ordered by name
func (r *UserRepository) List(ctx context.Context) ([]*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY last_name, first_name`
	return r.scanMany(ctx, query)
}

// ListAdmins retrieves all active admin users
func (r *UserRepository) ListAdmins(ctx context.Context) ([]*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE is_admin = 1 AND is_active = 1`
	return r.scanMany(ctx, query)
}

func (r *UserRepository) scanMany(ctx context.Context, query string, args ...interface{}) ([]*entity.User, error) {
	rows, err := sqlite.GetExecutor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *UserRepository) scanOne(row *sql.Row) (*entity.User, error) {
	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*entity.User, error) {
	var user entity.User
	var deptID sql.NullString
	err := row.Scan(
		&user.ID, &user.Email, &user.FirstName, &user.LastName, &user.Phone,
		&deptID, &user.JobTitle, &user.IsAdmin, &user.IsActive,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.DepartmentID = nullStringValue(deptID)
	return &user, nil
}

// Verify interface compliance
var _ port.UserRepository = (*UserRepository)(nil)
