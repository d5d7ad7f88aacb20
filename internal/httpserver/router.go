package httpserver

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Deps bundles the services the handlers depend on.
type Deps struct {
	AuthSvc     authService
	CartSvc     cartService
	OrderSvc    orderService
	ProductSvc  productService
	CategorySvc categoryService

	// WhatsAppNumber is the destination for the manual order
	// confirmation hand-off; empty disables the deep link.
	WhatsAppNumber string
	CORSOrigins    []string
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(deps.CORSOrigins) == 1 && deps.CORSOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = deps.CORSOrigins
	}
	corsCfg.AllowCredentials = !corsCfg.AllowAllOrigins
	corsCfg.AddAllowHeaders("Authorization")
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &handlers{deps: deps, logger: logger}

	router.POST("/register", h.register)
	router.POST("/login", h.login)
	router.POST("/logout", h.logout)
	router.GET("/auth/me", h.me)

	router.GET("/products", h.listProducts)
	router.GET("/products/:id", h.getProduct)
	router.GET("/categories", h.listCategories)
	router.GET("/categories/:id/products", h.listCategoryProducts)

	router.GET("/cart", h.getCart)
	router.POST("/cart", h.createCart)
	router.DELETE("/cart", h.clearCart)
	router.POST("/cart/items", h.applyItemDelta)
	router.PUT("/cart/items", h.setItemQuantity)
	router.DELETE("/cart/items", h.removeItem)
	router.POST("/cart/associate", h.associateCart)
	router.POST("/cart/disassociate", h.disassociateCart)

	router.POST("/orders", h.createOrder)
	router.GET("/orders/:id", h.getOrder)
	router.GET("/orders/:id/status", h.getOrderStatus)
	router.POST("/orders/cancel/:id", h.cancelOrder)

	return router
}
