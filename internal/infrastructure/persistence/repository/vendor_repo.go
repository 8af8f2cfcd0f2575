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

// VendorRepository implements port.VendorRepository
type VendorRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewVendorRepository creates a new vendor repository
func NewVendorRepository(db *sql.DB, logger *zap.Logger) port.VendorRepository {
	return &VendorRepository{db: db, logger: logger}
}

// Create creates a new vendor
func (r *VendorRepository) Create(ctx context.Context, vendor *entity.Vendor) error {
	query := `INSERT INTO vendors (id, name, contact_info, is_active) VALUES (?, ?, ?, ?)`
	_, err := sqlite.GetExecutor(ctx, r.db).ExecContext(ctx, query,
		vendor.ID, vendor.Name, vendor.ContactInfo, vendor.IsActive)
	if err != nil {
		r.logger.Error("Failed to create vendor", zap.String("name", vendor.Name), zap.Error(err))
		return fmt.Errorf("failed to create vendor: %w", err)
	}
	return nil
}

// GetByID retrieves a vendor by ID, nil when not found
func (r *VendorRepository) GetByID(ctx context.Context, id string) (*entity.Vendor, error) {
	query := `SELECT id, name, contact_info, is_active, created_at, updated_at FROM vendors WHERE id = ?`
	var vendor entity.Vendor
	err := sqlite.GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&vendor.ID, &vendor.Name, &vendor.ContactInfo, &vendor.IsActive, &vendor.CreatedAt, &vendor.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vendor: %w", err)
	}
	return &vendor, nil
}

// Update updates a vendor
func (r *VendorRepository) Update(ctx context.Context, vendor *entity.Vendor) error {
	query := `UPDATE vendors SET name = ?, contact_info = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	_, err := sqlite.GetExecutor(ctx, r.db).ExecContext(ctx, query,
		vendor.Name, vendor.ContactInfo, vendor.IsActive, vendor.ID)
	if err != nil {
		r.logger.Error("Failed to update vendor", zap.String("id", vendor.ID), zap.Error(err))
		return fmt.Errorf("failed to update vendor: %w", err)
	}
	return nil
}

// List retrieves all vendors ordered by name
func (r *VendorRepository) List(ctx context.Context) ([]*entity.Vendor, error) {
	query := `SELECT id, name, contact_info, is_active, created_at, updated_at FROM vendors ORDER BY name`
	rows, err := sqlite.GetExecutor(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list vendors: %w", err)
	}
	defer rows.Close()

	var vendors []*entity.Vendor
	for rows.Next() {
		var vendor entity.Vendor
		if err := rows.Scan(&vendor.ID, &vendor.Name, &vendor.ContactInfo, &vendor.IsActive, &vendor.CreatedAt, &vendor.UpdatedAt); err != nil {
			return nil, err
		}
		vendors = append(vendors, &vendor)
	}
	return vendors, rows.Err()
}

// Verify interface compliance
var _ port.VendorRepository = (*VendorRepository)(nil)
