package httpserver

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Deps carries the services the router hands out to handlers. Tests
// stub individual fields and leave the rest nil.
type Deps struct {
	Auth         authService
	Products     productService
	Categories   categoryService
	Cart         cartService
	Promo        promoService
	Delivery     deliveryService
	Orders       orderService
	CustomOrders customOrderService
	Reviews      reviewService
	Loyalty      loyaltyService
	Content      contentService
	Analytics    analyticsService
}

func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, allowedOrigins []string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	v1 := router.Group("/api/v1")

	v1.POST("/auth/register", registerHandler(deps.Auth))
	v1.POST("/auth/login", loginHandler(deps.Auth))
	v1.POST("/auth/refresh", refreshHandler(deps.Auth))

	v1.GET("/categories", categoryTreeHandler(deps.Categories))
	v1.GET("/products", listProductsHandler(deps.Products))
	v1.GET("/search/suggestions", suggestionsHandler(deps.Products))
	v1.GET("/products/:slug", productBySlugHandler(deps.Products))
	v1.GET("/products/:slug/reviews", productReviewsHandler(deps.Products, deps.Reviews))
	v1.GET("/content/:key", contentBlockHandler(deps.Content))

	v1.POST("/promo/validate", validatePromoHandler(deps.Promo))
	v1.POST("/delivery/calculate", calculateDeliveryHandler(deps.Delivery))

	v1.GET("/orders/:number", trackOrderHandler(deps.Orders))

	guest := v1.Group("", optionalAuth(deps.Auth))
	guest.POST("/orders", createOrderHandler(deps.Orders))
	guest.POST("/custom-orders", submitCustomOrderHandler(deps.CustomOrders))

	authed := v1.Group("", requireAuth(deps.Auth))
	authed.POST("/auth/logout", logoutHandler(deps.Auth))
	authed.GET("/profile", profileHandler(deps.Auth))
	authed.PATCH("/profile", updateProfileHandler(deps.Auth))
	authed.GET("/profile/orders", ownOrdersHandler(deps.Orders))
	authed.GET("/profile/bonuses", bonusesHandler(deps.Auth))
	authed.GET("/profile/referral", referralHandler(deps.Auth))
	authed.GET("/profile/reviews", ownReviewsHandler(deps.Reviews))

	authed.GET("/cart", getCartHandler(deps.Cart))
	authed.POST("/cart/items", addCartItemHandler(deps.Cart))
	authed.PATCH("/cart/items/:id", updateCartItemHandler(deps.Cart))
	authed.DELETE("/cart/items/:id", removeCartItemHandler(deps.Cart))
	authed.DELETE("/cart", clearCartHandler(deps.Cart))

	authed.POST("/reviews", createReviewHandler(deps.Reviews))

	admin := v1.Group("/admin", requireAuth(deps.Auth), requireAdmin())
	admin.GET("/dashboard", dashboardHandler(deps.Analytics))

	admin.GET("/categories", adminListCategoriesHandler(deps.Categories))
	admin.POST("/categories", createCategoryHandler(deps.Categories))
	admin.PATCH("/categories/:id", updateCategoryHandler(deps.Categories))
	admin.PUT("/categories/:id/position", reorderCategoryHandler(deps.Categories))
	admin.DELETE("/categories/:id", deleteCategoryHandler(deps.Categories))

	admin.GET("/products", adminListProductsHandler(deps.Products))
	admin.POST("/products", createProductHandler(deps.Products))
	admin.PATCH("/products/:id", updateProductHandler(deps.Products))
	admin.DELETE("/products/:id", deleteProductHandler(deps.Products))
	admin.POST("/products/:id/images", addProductImageHandler(deps.Products))
	admin.DELETE("/products/:id/images/:imageID", deleteProductImageHandler(deps.Products))

	admin.GET("/orders", adminListOrdersHandler(deps.Orders))
	admin.GET("/orders/:id", adminGetOrderHandler(deps.Orders))
	admin.GET("/orders/:id/transitions", orderTransitionsHandler(deps.Orders))
	admin.POST("/orders/:id/status", orderStatusHandler(deps.Orders))
	admin.POST("/orders/:id/tracking", orderTrackingHandler(deps.Orders))
	admin.POST("/orders/:id/paid", orderPaidHandler(deps.Orders))
	admin.POST("/orders/:id/confirm", confirmCustomOrderHandler(deps.CustomOrders))
	admin.PATCH("/orders/:id/notes", customOrderNotesHandler(deps.CustomOrders))
	admin.POST("/orders/:id/files", customOrderFilesHandler(deps.CustomOrders))

	admin.GET("/promo-codes", listPromosHandler(deps.Promo))
	admin.POST("/promo-codes", createPromoHandler(deps.Promo))
	admin.PATCH("/promo-codes/:id", updatePromoHandler(deps.Promo))
	admin.DELETE("/promo-codes/:id", deletePromoHandler(deps.Promo))

	admin.GET("/delivery/zones", listZonesHandler(deps.Delivery))
	admin.POST("/delivery/zones", createZoneHandler(deps.Delivery))
	admin.PUT("/delivery/zones/:id", updateZoneHandler(deps.Delivery))
	admin.DELETE("/delivery/zones/:id", deleteZoneHandler(deps.Delivery))
	admin.GET("/delivery/points", listPointsHandler(deps.Delivery))
	admin.POST("/delivery/points", createPointHandler(deps.Delivery))
	admin.PUT("/delivery/points/:id", updatePointHandler(deps.Delivery))
	admin.DELETE("/delivery/points/:id", deletePointHandler(deps.Delivery))

	admin.GET("/reviews", moderationReviewsHandler(deps.Reviews))
	admin.POST("/reviews/:id/approve", approveReviewHandler(deps.Reviews))
	admin.DELETE("/reviews/:id", deleteReviewHandler(deps.Reviews))

	admin.GET("/content", adminListContentHandler(deps.Content))
	admin.POST("/content", createContentHandler(deps.Content))
	admin.PATCH("/content/:id", updateContentHandler(deps.Content))
	admin.DELETE("/content/:id", deleteContentHandler(deps.Content))

	admin.GET("/loyalty", loyaltySettingsHandler(deps.Loyalty))
	admin.PUT("/loyalty", updateLoyaltyHandler(deps.Loyalty))

	return router
}
