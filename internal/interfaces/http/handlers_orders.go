package http

import (
	"github.com/gin-gonic/gin"

	"github.com/fieldops/po-tracker/internal/application/port"
	"github.com/fieldops/po-tracker/internal/application/service"
)

// CreateOrder handles POST /api/orders
func (h *Handlers) CreateOrder(c *gin.Context) {
	var in service.CreateOrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	order, err := h.services.Orders.Create(c.Request.Context(), actorFrom(c), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.created(c, order)
}

// ListMyOrders handles GET /api/orders
func (h *Handlers) ListMyOrders(c *gin.Context) {
	orders, err := h.services.Orders.ListMine(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, orders)
}

// ListAllOrders handles GET /api/orders/all
func (h *Handlers) ListAllOrders(c *gin.Context) {
	filter := port.OrderFilter{
		Status:      c.Query("status"),
		OrderedByID: c.Query("ordered_by"),
		VendorID:    c.Query("vendor"),
	}

	orders, err := h.services.Orders.ListAll(c.Request.Context(), actorFrom(c), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, orders)
}

// GetOrder handles GET /api/orders/:id
func (h *Handlers) GetOrder(c *gin.Context) {
	order, err := h.services.Orders.Get(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, order)
}

// UpdateOrder handles PUT /api/orders/:id
func (h *Handlers) UpdateOrder(c *gin.Context) {
	var in service.UpdateOrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	order, err := h.services.Orders.Update(c.Request.Context(), actorFrom(c), c.Param("id"), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, order)
}

// DeleteOrder handles DELETE /api/orders/:id
func (h *Handlers) DeleteOrder(c *gin.Context) {
	if err := h.services.Orders.Delete(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, gin.H{"deleted": true})
}

// SubmitOrderResponse carries the submitted order and its eligible approvers
type SubmitOrderResponse struct {
	Order     interface{} `json:"order"`
	Approvers interface{} `json:"approvers"`
}

// SubmitOrder handles POST /api/orders/:id/submit
func (h *Handlers) SubmitOrder(c *gin.Context) {
	order, approvers, err := h.services.Orders.Submit(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, SubmitOrderResponse{Order: order, Approvers: approvers})
}

// ApproveOrder handles POST /api/orders/:id/approve
func (h *Handlers) ApproveOrder(c *gin.Context) {
	order, err := h.services.Orders.Approve(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, order)
}

// RejectRequest carries the optional rejection comment
type RejectRequest struct {
	Comment string `json:"comment"`
}

// RejectOrder handles POST /api/orders/:id/reject
func (h *Handlers) RejectOrder(c *gin.Context) {
	var req RejectRequest
	_ = c.ShouldBindJSON(&req)

	order, err := h.services.Orders.Reject(c.Request.Context(), actorFrom(c), c.Param("id"), req.Comment)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, order)
}

// MarkOrderPaid handles POST /api/orders/:id/paid
func (h *Handlers) MarkOrderPaid(c *gin.Context) {
	order, err := h.services.Orders.MarkPaid(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, order)
}

// UpdateItemsRequest carries a replacement item set
type UpdateItemsRequest struct {
	Items []service.OrderItemInput `json:"items"`
}

// AdminUpdateOrderItems handles PUT /api/orders/:id/items
func (h *Handlers) AdminUpdateOrderItems(c *gin.Context) {
	var req UpdateItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	order, err := h.services.Orders.AdminUpdateItems(c.Request.Context(), actorFrom(c), c.Param("id"), req.Items)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, order)
}

// ListOrderApprovers handles GET /api/orders/:id/approvers
func (h *Handlers) ListOrderApprovers(c *gin.Context) {
	approvers, err := h.services.Orders.EligibleApprovers(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.ok(c, approvers)
}
