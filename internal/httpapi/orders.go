package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vladislavdragonenkov/foodorder/internal/service/order"
)

const (
	msgOrderCreated = "Order created successfully"
	msgOrderDeleted = "Order deleted successfully"
)

func (h *Handler) listOrders(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	views, err := h.orders.ListAll(c.Request.Context(), principal)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "", toOrderViewResponses(views))
}

func (h *Handler) listUserOrders(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	orders, err := h.orders.ListForUser(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "", toOrderResponses(orders))
}

func (h *Handler) getOrder(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	found, err := h.orders.Get(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "", toOrderResponse(found))
}

func (h *Handler) createOrder(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	var req createOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	created, err := h.orders.Create(c.Request.Context(), principal, order.CreateInput{
		ItemIDs: req.items(),
		Address: req.Address,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusCreated, msgOrderCreated, toOrderResponse(created))
}

func (h *Handler) updateOrderStatus(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	var req updateStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	updated, err := h.orders.UpdateStatus(c.Request.Context(), principal, c.Param("id"), req.OrderStatus)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, fmt.Sprintf("Status has been updated to %s", updated.Status), toOrderResponse(updated))
}

func (h *Handler) deleteOrder(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	removed, err := h.orders.Delete(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, msgOrderDeleted, toOrderResponse(removed))
}

func (h *Handler) orderTimeline(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	events, err := h.orders.Timeline(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "", toTimelineResponses(events))
}
