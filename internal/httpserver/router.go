package httpserver

import (
	"context"
	"errors"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ataka-storefront/internal/delivery"
	"ataka-storefront/internal/domain"
	"ataka-storefront/internal/logging"
	"ataka-storefront/internal/service/session"
	"ataka-storefront/internal/storage"
)

type CatalogService interface {
	List(ctx context.Context, category string) ([]domain.Book, error)
	Get(ctx context.Context, id string) (*domain.Book, error)
	Ref(ctx context.Context, id string) (domain.BookRef, error)
}

type SessionService interface {
	Create(ctx context.Context) (*session.Session, error)
	Open(ctx context.Context, id string) (*session.Session, error)
	Acquire(ctx context.Context, id string) (*session.Session, func(), error)
}

type DeliveryService interface {
	Check(ctx context.Context, kv storage.KV, pincode string) delivery.CheckResult
	CheckCurrentLocation(ctx context.Context, kv storage.KV) delivery.CheckResult
	GetAddressFromPincode(ctx context.Context, pincode string) (domain.Address, error)
	ReverseGeocode(ctx context.Context, coords domain.Coordinates) (domain.Address, error)
	Quote(est domain.DeliveryEstimate, subtotal decimal.Decimal) domain.DeliveryEstimate
	LastPincode(ctx context.Context, kv storage.KV) (string, bool)
}

type CartSyncService interface {
	Save(ctx context.Context, userID string, items []domain.SyncItem) (*domain.CartSnapshot, error)
	Sync(ctx context.Context, userID string, items []domain.SyncItem) (*domain.CartSnapshot, error)
	Get(ctx context.Context, userID string) (*domain.CartSnapshot, error)
}

// Deps are the services behind the routes. CartSync may be nil, in which
// case the /api/cart routes are not mounted. Storage is the session storage
// backend probed by /readyz and StorageName labels it.
type Deps struct {
	Catalog     CatalogService
	Sessions    SessionService
	Delivery    DeliveryService
	CartSync    CartSyncService
	Storage     storage.KV
	StorageName string
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, deps Deps, corsOrigins []string) (*gin.Engine, error) {
	if deps.Catalog == nil || deps.Sessions == nil || deps.Delivery == nil {
		return nil, errors.New("httpserver: catalog, sessions and delivery are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(logging.GinMiddleware(logger), gin.Recovery(), cors.New(corsConfig(corsOrigins)))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Storage, deps.StorageName))

	router.GET("/books", listBooksHandler(deps.Catalog))
	router.GET("/books/:id", getBookHandler(deps.Catalog))

	router.POST("/sessions", createSessionHandler(deps.Sessions, deps.Delivery))

	sessions := router.Group("/sessions/:sid", sessionMiddleware(deps.Sessions))
	sessions.GET("", getSessionHandler(deps.Delivery))
	sessions.POST("/cart", addToCartHandler(deps.Catalog))
	sessions.PATCH("/cart/:bookId", updateQuantityHandler())
	sessions.DELETE("/cart/:bookId", removeFromCartHandler())
	sessions.DELETE("/cart", clearCartHandler())
	sessions.POST("/wishlist", addToWishlistHandler(deps.Catalog))
	sessions.DELETE("/wishlist/:bookId", removeFromWishlistHandler())
	sessions.POST("/toggle/cart", toggleCartHandler())
	sessions.POST("/toggle/wishlist", toggleWishlistHandler())
	sessions.PUT("/user", setUserHandler())
	sessions.DELETE("/user", clearUserHandler())
	sessions.GET("/sync-failures", syncFailuresHandler())
	sessions.GET("/delivery/:pincode", sessionDeliveryHandler(deps.Delivery))
	sessions.POST("/delivery/locate", locateHandler(deps.Delivery))

	router.GET("/delivery/pincode/:pincode", deliveryEstimateHandler(deps.Delivery))
	router.GET("/delivery/pincode/:pincode/address", pincodeAddressHandler(deps.Delivery))
	router.GET("/delivery/reverse", reverseGeocodeHandler(deps.Delivery))

	if deps.CartSync != nil {
		api := router.Group("/api/cart", userMiddleware())
		api.POST("/save", saveCartHandler(deps.CartSync))
		api.POST("/sync", syncCartHandler(deps.CartSync))
		api.GET("", getCartHandler(deps.CartSync))
	}

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", userHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	allowAll := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
	}
	if allowAll {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
