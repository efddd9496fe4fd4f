package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"marketplace/internal/orders"
	"marketplace/pkg/logkey"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v81"
)

// Webhook receives Stripe events. A succeeded PaymentIntent carrying a stock
// order id finishes that order's payment confirmation; a failed one is logged
// and the order stays approved so the retailer can retry.
func (h *Handler) Webhook(c *gin.Context) {
	traceId := uuid.NewString()
	const maxBodyBytes = int64(65536)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	var event stripe.Event
	if err := c.ShouldBindJSON(&event); err != nil {
		slog.Error("failed to bind Stripe event", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch event.Type {
	case "payment_intent.succeeded":
		var paymentIntent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &paymentIntent); err != nil {
			slog.Error("failed to unmarshal payment intent", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		orderID := paymentIntent.Metadata["order_id"]
		orderType := paymentIntent.Metadata["order_type"]
		userID := paymentIntent.Metadata["user_id"]
		slog.Info("payment intent succeeded", slog.String(logkey.TraceID, traceId),
			slog.String("payment_intent_id", paymentIntent.ID),
			slog.String("order_id", orderID), slog.String("user_id", userID))

		if orderID == "" || orderType != string(orders.TypeStock) {
			// Retail intents are confirmed client side before checkout; there
			// is no order row to update yet.
			c.Status(http.StatusOK)
			return
		}

		order, err := h.o.ConfirmPayment(c.Request.Context(), orderID, userID, orders.PaymentOnline, paymentIntent.ID)
		if err != nil {
			slog.Error("failed to confirm paid order", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm order"})
			return
		}

		h.notifyStockStatus(c.Request.Context(), order, traceId)
		c.Status(http.StatusOK)

	case "payment_intent.payment_failed":
		var paymentIntent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &paymentIntent); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		slog.Error("payment intent failed", slog.String(logkey.TraceID, traceId),
			slog.String("payment_intent_id", paymentIntent.ID),
			slog.String("order_id", paymentIntent.Metadata["order_id"]))
		c.Status(http.StatusOK)

	default:
		slog.Info("unhandled Stripe event type", slog.String(logkey.TraceID, traceId), slog.String("event_type", string(event.Type)))
		c.JSON(http.StatusOK, gin.H{"message": "Event type not handled", "event": event.Type})
	}
}
