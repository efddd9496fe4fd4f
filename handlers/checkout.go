package handlers

import (
	"log/slog"
	"math"
	"net/http"
	"os"
	"time"

	"marketplace/internal/orders"
	"marketplace/pkg/ctxmanage"
	"marketplace/pkg/logkey"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/paymentintent"
)

type checkoutRequest struct {
	PaymentMethod     string     `json:"payment_method" validate:"required,oneof=online cod pay_at_store"`
	PaymentID         string     `json:"payment_id"`
	DeliveryAddress   string     `json:"delivery_address"`
	DeliveryLat       *float64   `json:"delivery_lat"`
	DeliveryLng       *float64   `json:"delivery_lng"`
	ScheduledDelivery *time.Time `json:"scheduled_delivery"`
}

// Checkout turns the customer's active cart into placed retail orders, one
// per cart line, in a single transaction. Online payment must already be
// confirmed by the gateway (payment_id present); COD and pay-at-store place
// the orders unpaid.
func (h *Handler) Checkout(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "payment_method must be online, cod or pay_at_store"})
		return
	}

	cartItems, err := h.c.GetDetailedCartItems(c.Request.Context(), claims.Subject)
	if err != nil {
		abortWithDomainError(c, err, "Failed to fetch cart items")
		return
	}
	if len(cartItems) == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		return
	}

	checkout := orders.Checkout{
		PaymentMethod:     req.PaymentMethod,
		PaymentID:         req.PaymentID,
		DeliveryAddress:   req.DeliveryAddress,
		DeliveryLat:       req.DeliveryLat,
		DeliveryLng:       req.DeliveryLng,
		ScheduledDelivery: req.ScheduledDelivery,
	}
	for _, item := range cartItems {
		checkout.Items = append(checkout.Items, orders.NewRetailOrder{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	result, err := h.o.CheckoutRetail(c.Request.Context(), claims.Subject, checkout)
	if err != nil {
		abortWithDomainError(c, err, "Checkout failed")
		return
	}

	if err := h.c.CloseActiveCart(c.Request.Context(), claims.Subject); err != nil {
		slog.Error("failed to close cart after checkout", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
	}

	for _, order := range result.Orders {
		h.notifyRetailStatus(c.Request.Context(), order, traceId)
	}
	for _, depleted := range result.Depleted {
		h.lc.remove(depleted.ProductID)
		h.notifyStockAlert(c.Request.Context(), depleted.ProductID, depleted.SellerID, depleted.Name, traceId)
	}

	c.JSON(http.StatusOK, gin.H{"orders": result.Orders})
}

type paymentIntentRequest struct {
	OrderID     string  `json:"order_id"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

// CreatePaymentIntent asks Stripe for a PaymentIntent and returns its client
// secret. With an order_id the amount comes from the stock order awaiting
// payment; otherwise the caller supplies the cart total. Rupees everywhere,
// paise at the gateway boundary.
func (h *Handler) CreatePaymentIntent(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	var req paymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}

	amount := req.Amount
	orderType := string(orders.TypeRetail)
	if req.OrderID != "" {
		order, err := h.o.GetOrderByID(c.Request.Context(), req.OrderID)
		if err != nil {
			abortWithDomainError(c, err, "Failed to fetch order")
			return
		}
		if order.BuyerID != claims.Subject {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Not your order"})
			return
		}
		amount = order.TotalPrice
		orderType = string(order.Type)
	}
	if amount <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Amount must be positive"})
		return
	}

	sKey := os.Getenv("STRIPE_TEST_KEY")
	if sKey == "" {
		slog.Error("Stripe secret key not found", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Stripe secret key not found"})
		return
	}
	stripe.Key = sKey

	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(int64(math.Round(amount * 100))),
		Currency:    stripe.String(string(stripe.CurrencyINR)),
		Description: stripe.String(req.Description),
	}
	params.AddMetadata("order_id", req.OrderID)
	params.AddMetadata("order_type", orderType)
	params.AddMetadata("user_id", claims.Subject)
	pi, err := paymentintent.New(params)
	if err != nil {
		slog.Error("error creating Stripe payment intent", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "Failed to create payment intent"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"client_secret":     pi.ClientSecret,
		"payment_intent_id": pi.ID,
	})
}
