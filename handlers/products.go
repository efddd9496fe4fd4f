package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"marketplace/internal/auth"
	"marketplace/internal/products"
	"marketplace/pkg/ctxmanage"
	"marketplace/pkg/logkey"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// CreateProduct adds a listing to the authenticated seller's inventory.
// Customers cannot sell.
func (h *Handler) CreateProduct(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	claims, ok := requestClaims(c)
	if !ok {
		return
	}
	if !claims.HasRole(auth.RoleRetailer) && !claims.HasRole(auth.RoleWholesaler) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Only sellers can create products"})
		return
	}

	if c.Request.ContentLength > 5*1024 {
		slog.Error("request body limit breached", slog.String(logkey.TraceID, traceId), slog.Int64("Size Received", c.Request.ContentLength))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Request body too large."})
		return
	}

	var newProduct products.NewProduct
	if err := c.ShouldBindJSON(&newProduct); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}

	if err := h.validate.Struct(newProduct); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) && len(vErrs) > 0 {
			vErr := vErrs[0]
			switch vErr.Tag() {
			case "required":
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": vErr.Field() + " value missing"})
			case "min", "gt":
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": vErr.Field() + " value is less than " + vErr.Param()})
			default:
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
			}
			slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
			return
		}
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}

	insertedProduct, err := h.p.InsertProduct(c.Request.Context(), claims.Subject, newProduct)
	if err != nil {
		abortWithDomainError(c, err, "Product Creation Failed")
		return
	}
	h.pushListing(c.Request.Context(), insertedProduct, traceId)

	c.JSON(http.StatusOK, insertedProduct)
}

// GetProduct serves one listing through the redis read-through cache.
func (h *Handler) GetProduct(c *gin.Context) {
	productID := c.Param("id")

	product, err := h.pc.GetProductByID(c.Request.Context(), productID)
	if err != nil {
		abortWithDomainError(c, err, "Failed to fetch product")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	claims, ok := requestClaims(c)
	if !ok {
		return
	}
	productID := c.Param("id")
	if productID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Product ID is required"})
		return
	}

	var up products.UpdateProduct
	if err := c.ShouldBindJSON(&up); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload"})
		return
	}
	if err := h.validate.Struct(up); err != nil {
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Validation failed"})
		return
	}

	product, err := h.p.UpdateProductInDB(c.Request.Context(), productID, claims.Subject, up)
	if err != nil {
		abortWithDomainError(c, err, "Product update failed")
		return
	}
	h.pc.Invalidate(c.Request.Context(), productID)
	h.pushListing(c.Request.Context(), product, traceId)

	slog.Info("product updated successfully", slog.String(logkey.TraceID, traceId), slog.String("ProductID", productID))
	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully", "product": product})
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	claims, ok := requestClaims(c)
	if !ok {
		return
	}
	productID := c.Param("id")

	if err := h.p.DeleteProductFromDB(c.Request.Context(), productID, claims.Subject); err != nil {
		abortWithDomainError(c, err, "Product deletion failed")
		return
	}
	h.pc.Invalidate(c.Request.Context(), productID)
	h.lc.remove(productID)

	c.JSON(http.StatusOK, gin.H{"message": "Product successfully deleted"})
}

// ListProducts lists the authenticated seller's own inventory.
func (h *Handler) ListProducts(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	nameFilter := c.Query("name")
	categoryFilter := c.Query("category")
	limit := c.DefaultQuery("limit", "10")
	offset := c.DefaultQuery("offset", "0")

	limitInt, err := strconv.Atoi(limit)
	if err != nil || limitInt <= 0 {
		slog.Error("invalid limit parameter", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
		return
	}
	offsetInt, err := strconv.Atoi(offset)
	if err != nil || offsetInt < 0 {
		slog.Error("invalid offset parameter", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid offset parameter"})
		return
	}

	list, err := h.p.ListProductsFromDB(c.Request.Context(), claims.Subject, nameFilter, categoryFilter, limitInt, offsetInt)
	if err != nil {
		abortWithDomainError(c, err, "Failed to fetch products")
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": list})
}

// ProductStockAndPrice returns the live stock and price for one product.
func (h *Handler) ProductStockAndPrice(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	productID := c.Param("productID")
	if productID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Product ID is required"})
		return
	}

	stock, price, err := h.p.GetProductStockAndPrice(c.Request.Context(), productID)
	if err != nil {
		abortWithDomainError(c, err, "Failed to retrieve product stock and price")
		return
	}

	slog.Info("successfully retrieved product stock and price", slog.String(logkey.TraceID, traceId),
		slog.String("ProductID", productID), slog.Int("Stock", stock))
	c.JSON(http.StatusOK, gin.H{"product_id": productID, "stock": stock, "price": price})
}
