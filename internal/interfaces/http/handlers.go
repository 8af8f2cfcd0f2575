package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fieldops/po-tracker/internal/domain/entity"
	"github.com/fieldops/po-tracker/internal/domain/workflow"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	services Services
	logger   Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(services Services, logger Logger) *Handlers {
	return &Handlers{services: services, logger: logger}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   "1.0.0",
		},
	})
}

// CurrentUserResponse describes the authenticated caller and its computed
// capability flags.
type CurrentUserResponse struct {
	ID           string  `json:"id"`
	IsAdmin      bool    `json:"is_admin"`
	IsApprover   bool    `json:"is_approver"`
	IsTechnician bool    `json:"is_technician"`
	DepartmentID *string `json:"department_id,omitempty"`
}

// CurrentUser handles GET /api/me
func (h *Handlers) CurrentUser(c *gin.Context) {
	actor := actorFrom(c)
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: CurrentUserResponse{
			ID:           actor.ID,
			IsAdmin:      actor.IsAdmin,
			IsApprover:   actor.IsApprover,
			IsTechnician: actor.IsTechnician,
			DepartmentID: actor.DepartmentID,
		},
	})
}

// respondError maps service errors to HTTP status codes
func (h *Handlers) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, entity.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, entity.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, entity.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, entity.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, workflow.ErrInvalidTransition):
		status = http.StatusConflict
	default:
		h.logger.Error("Unhandled service error", "error", err, "path", c.Request.URL.Path)
		c.JSON(status, Response{Success: false, Error: "internal error"})
		return
	}
	c.JSON(status, Response{Success: false, Error: err.Error()})
}

func (h *Handlers) ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func (h *Handlers) created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

func (h *Handlers) badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Success: false, Error: msg})
}
