package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fieldops/po-tracker/internal/application/port"
	"github.com/fieldops/po-tracker/internal/domain/entity"
)

const actorContextKey = "actor"

// AuthMiddleware resolves the authenticated user into an Actor. Identity
// arrives as a verified email in the X-User-Email header, set by the
// authenticating reverse proxy in front of this service. The approver and
// technician flags are computed per request from the role tables so a role
// change takes effect immediately.
type AuthMiddleware struct {
	userRepo     port.UserRepository
	approverRepo port.ApproverRepository
	techRepo     port.TechnicianRepository
	logger       Logger
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(
	userRepo port.UserRepository,
	approverRepo port.ApproverRepository,
	techRepo port.TechnicianRepository,
	logger Logger,
) *AuthMiddleware {
	return &AuthMiddleware{
		userRepo:     userRepo,
		approverRepo: approverRepo,
		techRepo:     techRepo,
		logger:       logger,
	}
}

// RequireUser aborts with 401 when no known active user is identified
func (m *AuthMiddleware) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetHeader("X-User-Email")
		if email == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "authentication required",
			})
			return
		}

		ctx := c.Request.Context()
		user, err := m.userRepo.GetByEmail(ctx, email)
		if err != nil {
			m.logger.Error("Failed to resolve user", "error", err, "email", email)
			c.AbortWithStatusJSON(http.StatusInternalServerError, Response{
				Success: false,
				Error:   "internal error",
			})
			return
		}
		if user == nil || !user.IsActive {
			c.AbortWithStatusJSON(http.StatusForbidden, Response{
				Success: false,
				Error:   "account is not active",
			})
			return
		}

		isApprover := false
		if approver, err := m.approverRepo.GetByUserID(ctx, user.ID); err != nil {
			m.logger.Error("Failed to resolve approver role", "error", err, "user_id", user.ID)
		} else if approver != nil && approver.IsActive {
			isApprover = true
		}

		isTechnician := false
		if tech, err := m.techRepo.GetByUserID(ctx, user.ID); err != nil {
			m.logger.Error("Failed to resolve technician role", "error", err, "user_id", user.ID)
		} else if tech != nil && tech.IsActive {
			isTechnician = true
		}

		c.Set(actorContextKey, entity.ActorFromUser(user, isApprover, isTechnician))
		c.Next()
	}
}

// actorFrom returns the actor resolved by RequireUser
func actorFrom(c *gin.Context) *entity.Actor {
	v, _ := c.Get(actorContextKey)
	actor, _ := v.(*entity.Actor)
	return actor
}
