package http

import (
	"github.com/gin-gonic/gin"

	"github.com/fieldops/po-tracker/internal/application/service"
)

// NameRequest carries a single name field, used by departments and vendors
type NameRequest struct {
	Name string `json:"name"`
}

// ListDepartments handles GET /api/admin/departments
func (h *Handlers) ListDepartments(c *gin.Context) {
	depts, err := h.services.Admin.ListDepartments(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, depts)
}

// CreateDepartment handles POST /api/admin/departments
func (h *Handlers) CreateDepartment(c *gin.Context) {
	var req NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	dept, err := h.services.Admin.CreateDepartment(c.Request.Context(), actorFrom(c), req.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.created(c, dept)
}

// UpdateDepartment handles PUT /api/admin/departments/:id
func (h *Handlers) UpdateDepartment(c *gin.Context) {
	var req NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	dept, err := h.services.Admin.UpdateDepartment(c.Request.Context(), actorFrom(c), c.Param("id"), req.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, dept)
}

// DeleteDepartment handles DELETE /api/admin/departments/:id
func (h *Handlers) DeleteDepartment(c *gin.Context) {
	if err := h.services.Admin.DeleteDepartment(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, gin.H{"deleted": true})
}

// ListVendors handles GET /api/admin/vendors
func (h *Handlers) ListVendors(c *gin.Context) {
	vendors, err := h.services.Admin.ListVendors(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, vendors)
}

// CreateVendor handles POST /api/admin/vendors
func (h *Handlers) CreateVendor(c *gin.Context) {
	var req NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	vendor, err := h.services.Admin.CreateVendor(c.Request.Context(), actorFrom(c), req.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.created(c, vendor)
}

// UpdateVendorRequest carries a partial vendor edit
type UpdateVendorRequest struct {
	Name     *string `json:"name"`
	IsActive *bool   `json:"is_active"`
}

// UpdateVendor handles PUT /api/admin/vendors/:id
func (h *Handlers) UpdateVendor(c *gin.Context) {
	var req UpdateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	vendor, err := h.services.Admin.UpdateVendor(c.Request.Context(), actorFrom(c), c.Param("id"), req.Name, req.IsActive)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, vendor)
}

// ListUnits handles GET /api/admin/units
func (h *Handlers) ListUnits(c *gin.Context) {
	units, err := h.services.Admin.ListUnits(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, units)
}

// CreateUnit handles POST /api/admin/units
func (h *Handlers) CreateUnit(c *gin.Context) {
	var in service.CreateUnitInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	unit, err := h.services.Admin.CreateUnit(c.Request.Context(), actorFrom(c), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.created(c, unit)
}

// UpdateUnit handles PUT /api/admin/units/:id
func (h *Handlers) UpdateUnit(c *gin.Context) {
	var in service.UpdateUnitInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	unit, err := h.services.Admin.UpdateUnit(c.Request.Context(), actorFrom(c), c.Param("id"), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, unit)
}

// ListUsers handles GET /api/admin/users
func (h *Handlers) ListUsers(c *gin.Context) {
	users, err := h.services.Admin.ListUsers(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, users)
}

// CreateUser handles POST /api/admin/users
func (h *Handlers) CreateUser(c *gin.Context) {
	var in service.CreateUserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	user, err := h.services.Admin.CreateUser(c.Request.Context(), actorFrom(c), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.created(c, user)
}

// UpdateUser handles PUT /api/admin/users/:id
func (h *Handlers) UpdateUser(c *gin.Context) {
	var in service.UpdateUserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	user, err := h.services.Admin.UpdateUser(c.Request.Context(), actorFrom(c), c.Param("id"), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, user)
}

// ListApprovers handles GET /api/admin/approvers
func (h *Handlers) ListApprovers(c *gin.Context) {
	approvers, err := h.services.Admin.ListApprovers(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, approvers)
}

// CreateApproverRequest carries the user and department scope for a new
// approver. An empty department list creates a global approver.
type CreateApproverRequest struct {
	UserID        string   `json:"user_id"`
	DepartmentIDs []string `json:"department_ids"`
}

// CreateApprover handles POST /api/admin/approvers
func (h *Handlers) CreateApprover(c *gin.Context) {
	var req CreateApproverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	approver, err := h.services.Admin.CreateApprover(c.Request.Context(), actorFrom(c), req.UserID, req.DepartmentIDs)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.created(c, approver)
}

// UpdateApprover handles PUT /api/admin/approvers/:id
func (h *Handlers) UpdateApprover(c *gin.Context) {
	var in service.UpdateApproverInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	approver, err := h.services.Admin.UpdateApprover(c.Request.Context(), actorFrom(c), c.Param("id"), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, approver)
}

// DeleteApprover handles DELETE /api/admin/approvers/:id
func (h *Handlers) DeleteApprover(c *gin.Context) {
	if err := h.services.Admin.DeleteApprover(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, gin.H{"deleted": true})
}

// ListTechnicians handles GET /api/admin/technicians
func (h *Handlers) ListTechnicians(c *gin.Context) {
	techs, err := h.services.Admin.ListTechnicians(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, techs)
}

// CreateTechnicianRequest carries the user to grant the technician role
type CreateTechnicianRequest struct {
	UserID string `json:"user_id"`
}

// CreateTechnician handles POST /api/admin/technicians
func (h *Handlers) CreateTechnician(c *gin.Context) {
	var req CreateTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	tech, err := h.services.Admin.CreateTechnician(c.Request.Context(), actorFrom(c), req.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.created(c, tech)
}

// UpdateTechnicianRequest carries a partial technician edit
type UpdateTechnicianRequest struct {
	IsActive *bool `json:"is_active"`
}

// UpdateTechnician handles PUT /api/admin/technicians/:id
func (h *Handlers) UpdateTechnician(c *gin.Context) {
	var req UpdateTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	tech, err := h.services.Admin.UpdateTechnician(c.Request.Context(), actorFrom(c), c.Param("id"), req.IsActive)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, tech)
}

// DeleteTechnician handles DELETE /api/admin/technicians/:id
func (h *Handlers) DeleteTechnician(c *gin.Context) {
	if err := h.services.Admin.DeleteTechnician(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, gin.H{"deleted": true})
}
