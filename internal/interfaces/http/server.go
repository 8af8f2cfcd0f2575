// Package http provides the HTTP adapter for the application layer. It is a
// thin translation layer: requests become service calls, service errors
// become status codes.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fieldops/po-tracker/internal/application/service"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Services bundles the application services the server exposes
type Services struct {
	Orders   service.OrderService
	Repairs  service.RepairService
	POGroups service.POGroupService
	Admin    service.AdminService
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	services   Services
	auth       *AuthMiddleware
	logger     Logger
}

// NewServer creates a new HTTP server with the given services
func NewServer(config ServerConfig, services Services, auth *AuthMiddleware, logger Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	server := &Server{
		config:   config,
		router:   gin.New(),
		services: services,
		auth:     auth,
		logger:   logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
	s.router.Use(corsMiddleware())
}

// loggingMiddleware creates a logging middleware
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", status,
			"latency", latency.String(),
			"client_ip", c.ClientIP(),
		)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	handlers := NewHandlers(s.services, s.logger)

	s.router.GET("/health", handlers.HealthCheck)

	api := s.router.Group("/api")
	api.Use(s.auth.RequireUser())
	{
		api.GET("/me", handlers.CurrentUser)

		orders := api.Group("/orders")
		{
			orders.POST("", handlers.CreateOrder)
			orders.GET("", handlers.ListMyOrders)
			orders.GET("/all", handlers.ListAllOrders)
			orders.GET("/:id", handlers.GetOrder)
			orders.PUT("/:id", handlers.UpdateOrder)
			orders.DELETE("/:id", handlers.DeleteOrder)
			orders.POST("/:id/submit", handlers.SubmitOrder)
			orders.POST("/:id/approve", handlers.ApproveOrder)
			orders.POST("/:id/reject", handlers.RejectOrder)
			orders.POST("/:id/paid", handlers.MarkOrderPaid)
			orders.PUT("/:id/items", handlers.AdminUpdateOrderItems)
			orders.GET("/:id/approvers", handlers.ListOrderApprovers)
		}

		repairs := api.Group("/repairs")
		{
			repairs.POST("", handlers.CreateRepair)
			repairs.GET("", handlers.ListMyRepairs)
			repairs.GET("/all", handlers.ListAllRepairs)
			repairs.GET("/:id", handlers.GetRepair)
			repairs.PUT("/:id", handlers.UpdateRepair)
			repairs.DELETE("/:id", handlers.DeleteRepair)
			repairs.POST("/:id/submit", handlers.SubmitRepair)
			repairs.POST("/:id/approve", handlers.ApproveRepair)
			repairs.POST("/:id/reject", handlers.RejectRepair)
			repairs.POST("/:id/complete", handlers.CompleteRepair)
			repairs.GET("/:id/approvers", handlers.ListRepairApprovers)
		}

		groups := api.Group("/po-groups")
		{
			groups.POST("", handlers.CreatePOGroup)
			groups.GET("", handlers.ListPOGroups)
			groups.GET("/available-orders", handlers.ListAvailableOrders)
			groups.GET("/:id", handlers.GetPOGroup)
			groups.PUT("/:id", handlers.UpdatePOGroup)
			groups.DELETE("/:id", handlers.DeletePOGroup)
			groups.POST("/:id/orders", handlers.AddOrdersToPOGroup)
			groups.DELETE("/:id/orders/:orderID", handlers.RemoveOrderFromPOGroup)
			groups.GET("/:id/export", handlers.ExportPOGroup)
		}

		admin := api.Group("/admin")
		{
			admin.GET("/departments", handlers.ListDepartments)
			admin.POST("/departments", handlers.CreateDepartment)
			admin.PUT("/departments/:id", handlers.UpdateDepartment)
			admin.DELETE("/departments/:id", handlers.DeleteDepartment)

			admin.GET("/vendors", handlers.ListVendors)
			admin.POST("/vendors", handlers.CreateVendor)
			admin.PUT("/vendors/:id", handlers.UpdateVendor)

			admin.GET("/units", handlers.ListUnits)
			admin.POST("/units", handlers.CreateUnit)
			admin.PUT("/units/:id", handlers.UpdateUnit)

			admin.GET("/users", handlers.ListUsers)
			admin.POST("/users", handlers.CreateUser)
			admin.PUT("/users/:id", handlers.UpdateUser)

			admin.GET("/approvers", handlers.ListApprovers)
			admin.POST("/approvers", handlers.CreateApprover)
			admin.PUT("/approvers/:id", handlers.UpdateApprover)
			admin.DELETE("/approvers/:id", handlers.DeleteApprover)

			admin.GET("/technicians", handlers.ListTechnicians)
			admin.POST("/technicians", handlers.CreateTechnician)
			admin.PUT("/technicians/:id", handlers.UpdateTechnician)
			admin.DELETE("/technicians/:id", handlers.DeleteTechnician)
		}
	}
}

// Start starts the HTTP server and blocks until the context is cancelled
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}
