package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"marketplace/internal/auth"
	"marketplace/internal/cart"
	"marketplace/internal/notifications"
	"marketplace/internal/orders"
	"marketplace/internal/products"
	"marketplace/internal/profiles"
	"marketplace/internal/reviews"
	"marketplace/pkg/ctxmanage"
	"marketplace/pkg/logkey"

	"github.com/gin-gonic/gin"
)

// requestClaims pulls the verified claims off the request or aborts with 401.
func requestClaims(c *gin.Context) (auth.Claims, bool) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := c.Request.Context().Value(auth.ClaimsKey).(auth.Claims)
	if !ok {
		slog.Error("claims not found", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": http.StatusText(http.StatusUnauthorized)})
		return auth.Claims{}, false
	}
	return claims, true
}

// abortWithDomainError maps domain sentinels onto HTTP statuses with a short
// human-readable message. Mutating operations never fail silently.
func abortWithDomainError(c *gin.Context, err error, fallback string) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	slog.Error(fallback, slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))

	switch {
	case errors.Is(err, orders.ErrNotFound),
		errors.Is(err, products.ErrNotFound),
		errors.Is(err, profiles.ErrNotFound),
		errors.Is(err, reviews.ErrNotFound),
		errors.Is(err, notifications.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, orders.ErrInvalidTransition):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, orders.ErrNotPermitted), errors.Is(err, reviews.ErrNotEligible):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, orders.ErrPaymentDeclined):
		c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
	case errors.Is(err, orders.ErrInvalidInput),
		errors.Is(err, orders.ErrInsufficientStock),
		errors.Is(err, products.ErrInvalidInput),
		errors.Is(err, reviews.ErrInvalidInput),
		errors.Is(err, cart.ErrInsufficientStock),
		errors.Is(err, cart.ErrNoActiveCart):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
