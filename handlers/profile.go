package handlers

import (
	"net/http"

	"marketplace/internal/catalog"

	"github.com/gin-gonic/gin"
)

type updateLocationRequest struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lng float64 `json:"lng" validate:"min=-180,max=180"`
}

// UpdateProfileLocation stores the caller's coordinates. Buyers use them for
// distance sorting in the catalog; sellers to be found by it.
func (h *Handler) UpdateProfileLocation(c *gin.Context) {
	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	var req updateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "lat must be within [-90, 90] and lng within [-180, 180]"})
		return
	}

	loc := catalog.Location{Lat: req.Lat, Lng: req.Lng}
	if err := h.pr.UpdateLocation(c.Request.Context(), claims.Subject, loc); err != nil {
		abortWithDomainError(c, err, "Failed to update location")
		return
	}

	c.JSON(http.StatusOK, gin.H{"location": loc})
}
