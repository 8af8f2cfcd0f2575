package http

import (
	"github.com/gin-gonic/gin"

	"github.com/fieldops/po-tracker/internal/application/port"
	"github.com/fieldops/po-tracker/internal/application/service"
)

// CreateRepair handles POST /api/repairs
func (h *Handlers) CreateRepair(c *gin.Context) {
	var in service.CreateRepairInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	repair, err := h.services.Repairs.Create(c.Request.Context(), actorFrom(c), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.created(c, repair)
}

// ListMyRepairs handles GET /api/repairs
func (h *Handlers) ListMyRepairs(c *gin.Context) {
	repairs, err := h.services.Repairs.ListMine(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, repairs)
}

// ListAllRepairs handles GET /api/repairs/all
func (h *Handlers) ListAllRepairs(c *gin.Context) {
	filter := port.RepairFilter{
		Status:        c.Query("status"),
		RequestedByID: c.Query("requested_by"),
		UnitID:        c.Query("unit"),
	}

	repairs, err := h.services.Repairs.ListAll(c.Request.Context(), actorFrom(c), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, repairs)
}

// GetRepair handles GET /api/repairs/:id
func (h *Handlers) GetRepair(c *gin.Context) {
	repair, err := h.services.Repairs.Get(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, repair)
}

// UpdateRepair handles PUT /api/repairs/:id
func (h *Handlers) UpdateRepair(c *gin.Context) {
	var in service.UpdateRepairInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	repair, err := h.services.Repairs.Update(c.Request.Context(), actorFrom(c), c.Param("id"), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, repair)
}

// DeleteRepair handles DELETE /api/repairs/:id
func (h *Handlers) DeleteRepair(c *gin.Context) {
	if err := h.services.Repairs.Delete(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, gin.H{"deleted": true})
}

// SubmitRepairResponse carries the submitted repair and its eligible approvers
type SubmitRepairResponse struct {
	Repair    interface{} `json:"repair"`
	Approvers interface{} `json:"approvers"`
}

// SubmitRepair handles POST /api/repairs/:id/submit
func (h *Handlers) SubmitRepair(c *gin.Context) {
	repair, approvers, err := h.services.Repairs.Submit(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, SubmitRepairResponse{Repair: repair, Approvers: approvers})
}

// ApproveRepair handles POST /api/repairs/:id/approve
func (h *Handlers) ApproveRepair(c *gin.Context) {
	repair, err := h.services.Repairs.Approve(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, repair)
}

// RejectRepair handles POST /api/repairs/:id/reject
func (h *Handlers) RejectRepair(c *gin.Context) {
	var req RejectRequest
	_ = c.ShouldBindJSON(&req)

	repair, err := h.services.Repairs.Reject(c.Request.Context(), actorFrom(c), c.Param("id"), req.Comment)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, repair)
}

// CompleteRepair handles POST /api/repairs/:id/complete
func (h *Handlers) CompleteRepair(c *gin.Context) {
	repair, err := h.services.Repairs.Complete(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, repair)
}

// ListRepairApprovers handles GET /api/repairs/:id/approvers
func (h *Handlers) ListRepairApprovers(c *gin.Context) {
	approvers, err := h.services.Repairs.EligibleApprovers(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, approvers)
}
