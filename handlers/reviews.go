package handlers

import (
	"log/slog"
	"net/http"

	"marketplace/internal/reviews"
	"marketplace/pkg/ctxmanage"
	"marketplace/pkg/logkey"

	"github.com/gin-gonic/gin"
)

// CreateReview lets a customer review a product from a delivered retail order.
func (h *Handler) CreateReview(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	var req reviews.NewReview
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "order_id and a rating from 1 to 5 are required"})
		return
	}

	review, err := h.r.Create(c.Request.Context(), claims.Subject, req)
	if err != nil {
		abortWithDomainError(c, err, "Failed to create review")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"review": review})
}

// ListProductReviews returns all reviews for a product, newest first.
func (h *Handler) ListProductReviews(c *gin.Context) {
	list, err := h.r.ListForProduct(c.Request.Context(), c.Param("productID"))
	if err != nil {
		abortWithDomainError(c, err, "Failed to fetch reviews")
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": list})
}
