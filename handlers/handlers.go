package handlers

import (
	"os"

	"marketplace/internal/auth"
	"marketplace/internal/cart"
	"marketplace/internal/notifications"
	"marketplace/internal/orders"
	"marketplace/internal/products"
	"marketplace/internal/profiles"
	"marketplace/internal/reviews"
	"marketplace/internal/stores/cache"
	"marketplace/internal/stores/kafka"
	"marketplace/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	p        products.Conf
	pc       *cache.ProductCache
	o        *orders.Conf
	c        cart.Conf
	n        notifications.Conf
	pr       profiles.Conf
	r        reviews.Conf
	k        *kafka.Conf
	lc       *listingCache
	validate *validator.Validate
}

type Deps struct {
	Products      products.Conf
	ProductCache  *cache.ProductCache
	Orders        *orders.Conf
	Cart          cart.Conf
	Notifications notifications.Conf
	Profiles      profiles.Conf
	Reviews       reviews.Conf
	Kafka         *kafka.Conf
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		p:        d.Products,
		pc:       d.ProductCache,
		o:        d.Orders,
		c:        d.Cart,
		n:        d.Notifications,
		pr:       d.Profiles,
		r:        d.Reviews,
		k:        d.Kafka,
		lc:       newListingCache(),
		validate: validator.New(),
	}
}

func API(endpointPrefix string, keys *auth.Keys, d Deps) *gin.Engine {
	r := gin.New()
	mode := os.Getenv("GIN_MODE")
	if mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	m, err := middleware.NewMid(keys)
	if err != nil {
		panic(err)
	}

	h := NewHandler(d)
	r.Use(middleware.Logger(), gin.Recovery())

	r.GET("/ping", HealthCheck)

	v1 := r.Group(endpointPrefix)
	{
		v1.POST("/webhook", h.Webhook)

		v1.Use(m.Authentication())

		v1.GET("/catalog", h.Catalog)
		v1.GET("/catalog/categories", h.CatalogCategories)

		v1.GET("/products/view/:id", h.GetProduct)
		v1.GET("/products/stock/:productID", h.ProductStockAndPrice)
		v1.GET("/products/list", h.ListProducts)
		v1.POST("/products/create", h.CreateProduct)
		v1.PUT("/products/update/:id", h.UpdateProduct)
		v1.DELETE("/products/delete/:id", h.DeleteProduct)

		v1.POST("/cart/items", m.Authorize(h.AddToCart, auth.RoleCustomer))
		v1.GET("/cart/items", m.Authorize(h.GetCartItems, auth.RoleCustomer))
		v1.POST("/checkout", m.Authorize(h.Checkout, auth.RoleCustomer))
		v1.POST("/payments/intent", h.CreatePaymentIntent)

		v1.GET("/orders/retail", h.ListRetailOrders)
		v1.POST("/orders/retail/:id/advance", m.Authorize(h.AdvanceRetailOrder, auth.RoleRetailer))
		v1.POST("/orders/retail/:id/cancel", h.CancelRetailOrder)
		v1.DELETE("/orders/retail/completed", m.Authorize(h.ClearCompletedRetail, auth.RoleRetailer))

		v1.POST("/orders/stock", m.Authorize(h.CreateStockOrder, auth.RoleRetailer))
		v1.GET("/orders/stock", h.ListStockOrders)
		v1.POST("/orders/stock/:id/approve", m.Authorize(h.ApproveStockOrder, auth.RoleWholesaler))
		v1.POST("/orders/stock/:id/cancel", h.CancelStockOrder)
		v1.POST("/orders/stock/:id/confirm-payment", m.Authorize(h.ConfirmStockPayment, auth.RoleRetailer))
		v1.POST("/orders/stock/:id/ship", m.Authorize(h.ShipStockOrder, auth.RoleWholesaler))
		v1.POST("/orders/stock/:id/deliver", m.Authorize(h.DeliverStockOrder, auth.RoleWholesaler))
		v1.POST("/orders/stock/:id/receive", m.Authorize(h.ReceiveStockOrder, auth.RoleRetailer))
		v1.DELETE("/orders/stock/completed", m.Authorize(h.ClearCompletedStock, auth.RoleWholesaler))

		v1.GET("/notifications", h.ListNotifications)
		v1.GET("/notifications/unread-count", h.UnreadNotificationCount)
		v1.POST("/notifications/:id/read", h.MarkNotificationRead)

		v1.POST("/reviews", m.Authorize(h.CreateReview, auth.RoleCustomer))
		v1.GET("/reviews/product/:productID", h.ListProductReviews)

		v1.PUT("/profile/location", h.UpdateProfileLocation)
	}

	return r
}

func HealthCheck(c *gin.Context) {
	c.JSON(200, gin.H{
		"message": "pong",
	})
}
