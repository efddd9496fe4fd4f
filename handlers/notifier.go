package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"marketplace/internal/notifications"
	"marketplace/internal/orders"
	"marketplace/internal/stores/kafka"
	"marketplace/pkg/logkey"
)

// notifyRetailStatus appends the buyer's notification for a retail status
// change and produces the matching Kafka event. Emission failures are logged,
// never surfaced to the user whose action already committed.
func (h *Handler) notifyRetailStatus(ctx context.Context, order orders.Order, traceId string) {
	status := orders.RetailStatus(order.Status)
	_, err := h.n.Append(ctx, notifications.Notification{
		UserID:  order.BuyerID,
		Type:    notifications.TypeOrderStatus,
		Title:   fmt.Sprintf("Order #%s Update", shortID(order.ID)),
		Message: status.BuyerMessage(),
		OrderID: order.ID,
	})
	if err != nil {
		slog.Error("failed to append order notification", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
	}
	h.produceStatusEvent(order, traceId)
}

// notifyStockStatus tells the retailer who placed a stock order about a
// status change, and publishes the matching event.
func (h *Handler) notifyStockStatus(ctx context.Context, order orders.Order, traceId string) {
	_, err := h.n.Append(ctx, notifications.Notification{
		UserID:  order.BuyerID,
		Type:    notifications.TypeOrderStatus,
		Title:   fmt.Sprintf("Stock Order #%s Update", shortID(order.ID)),
		Message: fmt.Sprintf("Your stock order for %s is now %s.", order.ProductName, order.Status),
		OrderID: order.ID,
	})
	if err != nil {
		slog.Error("failed to append stock order notification", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
	}
	h.produceStatusEvent(order, traceId)
}

// notifyStockAlert alerts a seller whose product just ran out.
func (h *Handler) notifyStockAlert(ctx context.Context, productID, sellerID, name, traceId string) {
	_, err := h.n.Append(ctx, notifications.Notification{
		UserID:  sellerID,
		Type:    notifications.TypeStockAlert,
		Title:   "Product Out of Stock",
		Message: fmt.Sprintf("%s is now out of stock. Please restock soon.", name),
	})
	if err != nil {
		slog.Error("failed to append stock alert", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
	}

	go func() {
		jsonData, err := json.Marshal(kafka.StockDepletedEvent{
			ProductId: productID,
			SellerId:  sellerID,
			Name:      name,
			CreatedAt: time.Now().UTC(),
		})
		if err != nil {
			slog.Error("failed to marshal StockDepletedEvent", slog.String(logkey.ERROR, err.Error()))
			return
		}
		if err := h.k.ProduceMessage(kafka.TopicStockDepleted, []byte(productID), jsonData); err != nil {
			slog.Error("failed to produce stock event", slog.String(logkey.ERROR, err.Error()))
		}
	}()
}

// produceStatusEvent publishes a status-change event for any order class.
func (h *Handler) produceStatusEvent(order orders.Order, traceId string) {
	go func() {
		jsonData, err := json.Marshal(kafka.OrderStatusChangedEvent{
			OrderId:   order.ID,
			OrderType: string(order.Type),
			BuyerId:   order.BuyerID,
			SellerId:  order.SellerID,
			Status:    order.Status,
			CreatedAt: time.Now().UTC(),
		})
		if err != nil {
			slog.Error("failed to marshal OrderStatusChangedEvent", slog.String(logkey.ERROR, err.Error()))
			return
		}
		if err := h.k.ProduceMessage(kafka.TopicOrderStatusChanged, []byte(order.ID), jsonData); err != nil {
			slog.Error("failed to produce order event", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		}
	}()
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[len(id)-8:]
}
