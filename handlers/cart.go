package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type addToCartRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// AddToCart puts a product into the customer's active cart.
func (h *Handler) AddToCart(c *gin.Context) {
	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "product_id and a positive quantity are required"})
		return
	}

	if err := h.c.AddToCart(c.Request.Context(), claims.Subject, req.ProductID, req.Quantity); err != nil {
		abortWithDomainError(c, err, "Failed to add product to cart")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product added to cart"})
}

// GetCartItems lists the customer's active cart.
func (h *Handler) GetCartItems(c *gin.Context) {
	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	resp, err := h.c.GetActiveCartItems(c.Request.Context(), claims.Subject)
	if err != nil {
		abortWithDomainError(c, err, "Failed to fetch cart items")
		return
	}
	c.JSON(http.StatusOK, resp)
}
