package handlers

import (
	"log/slog"
	"math"
	"net/http"
	"os"

	"marketplace/internal/auth"
	"marketplace/internal/orders"
	"marketplace/pkg/ctxmanage"
	"marketplace/pkg/logkey"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/checkout/session"
)

// CreateStockOrder records a retailer's pending request for wholesale stock.
// Nothing is reserved until the wholesaler approves.
func (h *Handler) CreateStockOrder(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	var req orders.NewStockOrder
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "seller_id, product_id and a positive quantity are required"})
		return
	}

	order, err := h.o.CreateStockOrder(c.Request.Context(), claims.Subject, req)
	if err != nil {
		abortWithDomainError(c, err, "Failed to create stock order")
		return
	}

	h.produceStatusEvent(order, traceId)

	c.JSON(http.StatusCreated, gin.H{"order": order})
}

// ListStockOrders returns stock orders for the caller: requests placed for a
// retailer, incoming requests for a wholesaler.
func (h *Handler) ListStockOrders(c *gin.Context) {
	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	var (
		list []orders.Order
		err  error
	)
	if claims.HasRole(auth.RoleWholesaler) {
		list, err = h.o.ListForSeller(c.Request.Context(), claims.Subject, orders.TypeStock)
	} else {
		list, err = h.o.ListForBuyer(c.Request.Context(), claims.Subject, orders.TypeStock)
	}
	if err != nil {
		abortWithDomainError(c, err, "Failed to fetch stock orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": list})
}

// ApproveStockOrder decides a pending request in one shot: approve and
// atomically reserve stock when enough is on hand, otherwise reject.
func (h *Handler) ApproveStockOrder(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	result, err := h.o.Approve(c.Request.Context(), c.Param("id"), claims.Subject)
	if err != nil {
		abortWithDomainError(c, err, "Failed to approve stock order")
		return
	}

	h.notifyStockStatus(c.Request.Context(), result.Order, traceId)
	if result.StockDepleted {
		h.lc.remove(result.Order.ProductID)
		h.notifyStockAlert(c.Request.Context(), result.Order.ProductID, result.Order.SellerID, result.Order.ProductName, traceId)
	}

	c.JSON(http.StatusOK, gin.H{"order": result.Order, "stock_remaining": result.StockRemaining})
}

// CancelStockOrder cancels a pending stock order. Either party may cancel
// while the request sits undecided.
func (h *Handler) CancelStockOrder(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	order, err := h.o.CancelStock(c.Request.Context(), c.Param("id"), claims.Subject)
	if err != nil {
		abortWithDomainError(c, err, "Failed to cancel stock order")
		return
	}

	h.notifyStockStatus(c.Request.Context(), order, traceId)

	c.JSON(http.StatusOK, gin.H{"order": order})
}

type confirmPaymentRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required,oneof=online cod pay_at_store"`
	PaymentID     string `json:"payment_id"`
}

// ConfirmStockPayment moves an approved stock order to order_confirmed. COD
// and pay-at-store confirm immediately; online returns a Stripe Checkout URL
// and the confirmation lands through the webhook once the charge succeeds.
func (h *Handler) ConfirmStockPayment(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	var req confirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "payment_method must be online, cod or pay_at_store"})
		return
	}

	orderID := c.Param("id")

	if req.PaymentMethod == orders.PaymentOnline && req.PaymentID == "" {
		url, err := h.stockCheckoutSession(c, orderID, claims.Subject, traceId)
		if err != nil {
			return
		}
		c.JSON(http.StatusOK, gin.H{"checkout_url": url})
		return
	}

	order, err := h.o.ConfirmPayment(c.Request.Context(), orderID, claims.Subject, req.PaymentMethod, req.PaymentID)
	if err != nil {
		abortWithDomainError(c, err, "Failed to confirm payment")
		return
	}

	h.notifyStockStatus(c.Request.Context(), order, traceId)

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// stockCheckoutSession creates the Stripe Checkout session for an approved
// stock order. The order id rides in the PaymentIntent metadata so the
// webhook can finish the confirmation.
func (h *Handler) stockCheckoutSession(c *gin.Context, orderID, buyerID, traceId string) (string, error) {
	order, err := h.o.GetOrderByID(c.Request.Context(), orderID)
	if err != nil {
		abortWithDomainError(c, err, "Failed to fetch order")
		return "", err
	}
	if order.BuyerID != buyerID {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Not your order"})
		return "", orders.ErrNotPermitted
	}
	if orders.StockStatus(order.Status) != orders.StockApproved {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Order is not awaiting payment"})
		return "", orders.ErrInvalidTransition
	}

	sKey := os.Getenv("STRIPE_TEST_KEY")
	if sKey == "" {
		slog.Error("Stripe secret key not found", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Stripe secret key not found"})
		return "", orders.ErrPaymentDeclined
	}
	stripe.Key = sKey

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyINR)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(order.ProductName),
					},
					UnitAmount: stripe.Int64(int64(math.Round(order.UnitPrice() * 100))),
				},
				Quantity: stripe.Int64(int64(order.Quantity)),
			},
		},
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: map[string]string{
				"order_id":   order.ID,
				"order_type": string(order.Type),
				"user_id":    buyerID,
			},
		},
		SuccessURL: stripe.String(os.Getenv("STRIPE_SUCCESS_URL")),
		CancelURL:  stripe.String(os.Getenv("STRIPE_CANCEL_URL")),
	}
	s, err := session.New(params)
	if err != nil {
		slog.Error("error creating Stripe checkout session", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "Failed to create checkout session"})
		return "", err
	}
	return s.URL, nil
}

// ShipStockOrder marks a confirmed stock order as shipped.
func (h *Handler) ShipStockOrder(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	order, err := h.o.MarkShipped(c.Request.Context(), c.Param("id"), claims.Subject)
	if err != nil {
		abortWithDomainError(c, err, "Failed to mark order shipped")
		return
	}

	h.notifyStockStatus(c.Request.Context(), order, traceId)

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// DeliverStockOrder marks a shipped stock order as delivered.
func (h *Handler) DeliverStockOrder(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	order, err := h.o.MarkDelivered(c.Request.Context(), c.Param("id"), claims.Subject)
	if err != nil {
		abortWithDomainError(c, err, "Failed to mark order delivered")
		return
	}

	h.notifyStockStatus(c.Request.Context(), order, traceId)

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// ReceiveStockOrder folds a delivered stock order into the retailer's own
// inventory, creating the product with the retail markup when it is new.
func (h *Handler) ReceiveStockOrder(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	order, err := h.o.ReceiveIntoInventory(c.Request.Context(), c.Param("id"), claims.Subject)
	if err != nil {
		abortWithDomainError(c, err, "Failed to receive order into inventory")
		return
	}

	h.produceStatusEvent(order, traceId)

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// ClearCompletedStock deletes the wholesaler's delivered, cancelled and
// rejected stock orders.
func (h *Handler) ClearCompletedStock(c *gin.Context) {
	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	cleared, err := h.o.ClearCompletedStock(c.Request.Context(), claims.Subject)
	if err != nil {
		abortWithDomainError(c, err, "Failed to clear orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{"cleared": cleared})
}
