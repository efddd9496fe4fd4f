package handlers

import (
	"net/http"

	"marketplace/internal/auth"
	"marketplace/internal/orders"
	"marketplace/pkg/ctxmanage"

	"github.com/gin-gonic/gin"
)

// ListRetailOrders returns retail orders for the caller: purchases for a
// customer, incoming orders for a retailer.
func (h *Handler) ListRetailOrders(c *gin.Context) {
	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	var (
		list []orders.Order
		err  error
	)
	if claims.HasRole(auth.RoleRetailer) {
		list, err = h.o.ListForSeller(c.Request.Context(), claims.Subject, orders.TypeRetail)
	} else {
		list, err = h.o.ListForBuyer(c.Request.Context(), claims.Subject, orders.TypeRetail)
	}
	if err != nil {
		abortWithDomainError(c, err, "Failed to fetch orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": list})
}

// AdvanceRetailOrder moves a retail order one step forward along
// placed, processed, out_for_delivery, delivered.
func (h *Handler) AdvanceRetailOrder(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	order, err := h.o.AdvanceRetail(c.Request.Context(), c.Param("id"), claims.Subject)
	if err != nil {
		abortWithDomainError(c, err, "Failed to update order")
		return
	}

	h.notifyRetailStatus(c.Request.Context(), order, traceId)

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// CancelRetailOrder cancels a placed retail order. Either party may cancel
// while the order has not started processing.
func (h *Handler) CancelRetailOrder(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	order, err := h.o.CancelRetail(c.Request.Context(), c.Param("id"), claims.Subject)
	if err != nil {
		abortWithDomainError(c, err, "Failed to cancel order")
		return
	}

	h.notifyRetailStatus(c.Request.Context(), order, traceId)

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// ClearCompletedRetail deletes the caller's delivered and cancelled retail
// orders and reports how many rows went away.
func (h *Handler) ClearCompletedRetail(c *gin.Context) {
	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	cleared, err := h.o.ClearCompletedRetail(c.Request.Context(), claims.Subject)
	if err != nil {
		abortWithDomainError(c, err, "Failed to clear orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{"cleared": cleared})
}
