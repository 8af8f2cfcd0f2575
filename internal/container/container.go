// Package container wires the application together: database, repositories,
// external clients, services, and the HTTP server, with ordered
// initialization and reverse-order teardown.
package container

import (
	"context"

	"go.uber.org/zap"

	"github.com/fieldops/po-tracker/internal/application/port"
	"github.com/fieldops/po-tracker/internal/application/service"
	"github.com/fieldops/po-tracker/internal/config"
	"github.com/fieldops/po-tracker/internal/infrastructure/external/clicksend"
	"github.com/fieldops/po-tracker/internal/infrastructure/persistence/repository"
	"github.com/fieldops/po-tracker/internal/infrastructure/persistence/sqlite"
	apphttp "github.com/fieldops/po-tracker/internal/interfaces/http"
	"github.com/fieldops/po-tracker/pkg/database"
)

// Repositories groups all repositories for convenient access
type Repositories struct {
	Users       port.UserRepository
	Departments port.DepartmentRepository
	Vendors     port.VendorRepository
	Units       port.UnitRepository
	Approvers   port.ApproverRepository
	Technicians port.TechnicianRepository
	Orders      port.OrderRepository
	Repairs     port.RepairRepository
	POGroups    port.POGroupRepository
}

// Container holds all application dependencies
type Container struct {
	cfg    *config.Config
	logger *zap.Logger

	db           *database.DB
	txManager    *sqlite.DB
	repositories Repositories
	notifier     port.Notifier

	Server *apphttp.Server
}

// New builds the full dependency graph. The returned container owns the
// database handle; call Close when done.
func New(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, err
	}

	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		db.Close()
		return nil, err
	}

	txManager := sqlite.NewDB(db.DB, logger)

	orderRepo := repository.NewOrderRepository(db.DB, logger)
	repos := Repositories{
		Users:       repository.NewUserRepository(db.DB, logger),
		Departments: repository.NewDepartmentRepository(db.DB, logger),
		Vendors:     repository.NewVendorRepository(db.DB, logger),
		Units:       repository.NewUnitRepository(db.DB, logger),
		Approvers:   repository.NewApproverRepository(db.DB, logger),
		Technicians: repository.NewTechnicianRepository(db.DB, logger),
		Orders:      orderRepo,
		Repairs:     repository.NewRepairRepository(db.DB, logger),
		POGroups:    repository.NewPOGroupRepository(db.DB, orderRepo, logger),
	}

	var notifier port.Notifier
	if cfg.SMS.Enabled {
		notifier = clicksend.NewClient(clicksend.Config{
			Username: cfg.SMS.Username,
			APIKey:   cfg.SMS.APIKey,
			Suffix:   cfg.App.CompanyName,
		}, logger)
	} else {
		notifier = &logNotifier{logger: logger}
	}

	svcLogger := &zapLoggerAdapter{logger: logger}

	eligibility := service.NewEligibilityService(repos.Approvers, svcLogger)
	notifications := service.NewNotificationService(notifier, cfg.App.ClientURL, svcLogger)

	services := apphttp.Services{
		Orders: service.NewOrderService(
			repos.Orders, repos.Users, repos.Vendors, repos.Units,
			eligibility, notifications, txManager, svcLogger),
		Repairs: service.NewRepairService(
			repos.Repairs, repos.Users, repos.Units, repos.Technicians,
			eligibility, notifications, txManager, svcLogger),
		POGroups: service.NewPOGroupService(
			repos.POGroups, repos.Orders, txManager, svcLogger),
		Admin: service.NewAdminService(
			repos.Users, repos.Departments, repos.Vendors, repos.Units,
			repos.Approvers, repos.Technicians, txManager, svcLogger),
	}

	auth := apphttp.NewAuthMiddleware(repos.Users, repos.Approvers, repos.Technicians, svcLogger)

	server := apphttp.NewServer(apphttp.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, services, auth, svcLogger)

	return &Container{
		cfg:          cfg,
		logger:       logger,
		db:           db,
		txManager:    txManager,
		repositories: repos,
		notifier:     notifier,
		Server:       server,
	}, nil
}

// Repositories returns the repository bundle (for seeding and tests)
func (c *Container) Repositories() Repositories {
	return c.repositories
}

// Close releases held resources
func (c *Container) Close() error {
	return c.db.Close()
}

// logNotifier is the Notifier used when SMS is disabled: it logs what would
// have been sent and reports success so workflows behave identically.
type logNotifier struct {
	logger *zap.Logger
}

func (n *logNotifier) Send(ctx context.Context, to, message string) bool {
	n.logger.Info("SMS disabled, skipping send", zap.String("to", to), zap.String("message", message))
	return true
}

func (n *logNotifier) SendBulk(ctx context.Context, recipients []port.SMSRecipient) port.BulkSendResult {
	for _, rec := range recipients {
		n.logger.Info("SMS disabled, skipping send", zap.String("to", rec.To), zap.String("message", rec.Message))
	}
	return port.BulkSendResult{SuccessCount: len(recipients)}
}

// zapLoggerAdapter adapts zap.Logger to the keysAndValues logger interfaces
// used by the service and http packages.
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (a *zapLoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Info(msg, convertToZapFields(keysAndValues...)...)
}

func (a *zapLoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.logger.Error(msg, convertToZapFields(keysAndValues...)...)
}

func convertToZapFields(keysAndValues ...interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, zap.Any(key, keysAndValues[i+1]))
	}
	return fields
}
