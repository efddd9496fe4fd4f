package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"marketplace/internal/auth"
	"marketplace/internal/catalog"

	"github.com/gin-gonic/gin"
)

var errInvalidPriceFilter = errors.New("invalid price filter")

// Catalog returns grouped products for the authenticated buyer. Customers
// browse retailer listings, retailers browse wholesaler listings. Distances
// rank sellers when the buyer has set a location; without one every distance
// is unknown and insertion order is kept.
func (h *Handler) Catalog(c *gin.Context) {
	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	sellerRole := auth.RoleRetailer
	if claims.HasRole(auth.RoleRetailer) {
		sellerRole = auth.RoleWholesaler
	}

	listings, err := h.catalogListings(c.Request.Context(), sellerRole)
	if err != nil {
		abortWithDomainError(c, err, "Failed to load catalog")
		return
	}

	var buyerLocation *catalog.Location
	if profile, err := h.pr.GetProfile(c.Request.Context(), claims.Subject); err == nil {
		buyerLocation = profile.Location
	}

	grouped := catalog.Group(listings, buyerLocation)

	filters, err := parseCatalogFilters(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	filtered := filters.Apply(grouped)

	c.JSON(http.StatusOK, gin.H{
		"products":   filtered,
		"categories": catalog.Categories(grouped),
	})
}

// CatalogCategories returns the display ordering of categories for the
// buyer's catalog.
func (h *Handler) CatalogCategories(c *gin.Context) {
	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	sellerRole := auth.RoleRetailer
	if claims.HasRole(auth.RoleRetailer) {
		sellerRole = auth.RoleWholesaler
	}

	listings, err := h.catalogListings(c.Request.Context(), sellerRole)
	if err != nil {
		abortWithDomainError(c, err, "Failed to load catalog")
		return
	}

	grouped := catalog.Group(listings, nil)
	c.JSON(http.StatusOK, gin.H{"categories": catalog.Categories(grouped)})
}

func parseCatalogFilters(c *gin.Context) (catalog.Filters, error) {
	filters := catalog.Filters{
		Search:      c.Query("search"),
		Category:    c.Query("category"),
		InStockOnly: c.DefaultQuery("in_stock", "true") == "true",
	}
	if raw := c.Query("min_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return catalog.Filters{}, errInvalidPriceFilter
		}
		filters.MinPrice = &v
	}
	if raw := c.Query("max_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return catalog.Filters{}, errInvalidPriceFilter
		}
		filters.MaxPrice = &v
	}
	return filters, nil
}
