package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fieldops/po-tracker/internal/export"
)

// POGroupRequest carries the PO number for create and rename
type POGroupRequest struct {
	PONumber string `json:"po_number"`
}

// CreatePOGroup handles POST /api/po-groups
func (h *Handlers) CreatePOGroup(c *gin.Context) {
	var req POGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	group, err := h.services.POGroups.Create(c.Request.Context(), actorFrom(c), req.PONumber)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.created(c, group)
}

// ListPOGroups handles GET /api/po-groups
func (h *Handlers) ListPOGroups(c *gin.Context) {
	groups, err := h.services.POGroups.List(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, groups)
}

// ListAvailableOrders handles GET /api/po-groups/available-orders
func (h *Handlers) ListAvailableOrders(c *gin.Context) {
	orders, err := h.services.POGroups.ListAvailableOrders(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, orders)
}

// GetPOGroup handles GET /api/po-groups/:id
func (h *Handlers) GetPOGroup(c *gin.Context) {
	group, err := h.services.POGroups.Get(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, group)
}

// UpdatePOGroup handles PUT /api/po-groups/:id
func (h *Handlers) UpdatePOGroup(c *gin.Context) {
	var req POGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	group, err := h.services.POGroups.Update(c.Request.Context(), actorFrom(c), c.Param("id"), req.PONumber)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, group)
}

// DeletePOGroup handles DELETE /api/po-groups/:id
func (h *Handlers) DeletePOGroup(c *gin.Context) {
	if err := h.services.POGroups.Delete(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, gin.H{"deleted": true})
}

// AddOrdersRequest carries the orders to add to a group
type AddOrdersRequest struct {
	OrderIDs []string `json:"order_ids"`
}

// AddOrdersToPOGroup handles POST /api/po-groups/:id/orders
func (h *Handlers) AddOrdersToPOGroup(c *gin.Context) {
	var req AddOrdersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	result, err := h.services.POGroups.AddOrders(c.Request.Context(), actorFrom(c), c.Param("id"), req.OrderIDs)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, result)
}

// RemoveOrderFromPOGroup handles DELETE /api/po-groups/:id/orders/:orderID
func (h *Handlers) RemoveOrderFromPOGroup(c *gin.Context) {
	err := h.services.POGroups.RemoveOrder(c.Request.Context(), actorFrom(c), c.Param("id"), c.Param("orderID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, gin.H{"removed": true})
}

// ExportPOGroup handles GET /api/po-groups/:id/export and streams the group
// as an xlsx workbook.
func (h *Handlers) ExportPOGroup(c *gin.Context) {
	group, err := h.services.POGroups.Get(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	workbook, err := export.BuildPOGroupWorkbook(group)
	if err != nil {
		h.logger.Error("Failed to build PO group workbook", "error", err, "po_group_id", group.ID)
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "export failed"})
		return
	}
	defer workbook.Close()

	filename := fmt.Sprintf("po-%s.xlsx", group.PONumber)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := workbook.Write(c.Writer); err != nil {
		h.logger.Error("Failed to stream PO group workbook", "error", err, "po_group_id", group.ID)
	}
}
