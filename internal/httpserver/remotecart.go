package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ataka-storefront/internal/domain"
	"ataka-storefront/internal/remotecart"
)

const (
	userHeader   = remotecart.UserHeader
	userIDCtxKey  = "userID"
)

type cartItemsRequest struct {
	Items []domain.SyncItem `json:"items"`
}

func userMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(userHeader))
		if userID == "" {
			writeError(c, domain.ErrUserRequired)
			c.Abort()
			return
		}
		c.Set(userIDCtxKey, userID)
		c.Next()
	}
}

func saveCartHandler(svc CartSyncService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cartItemsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid body")
			return
		}
		snap, err := svc.Save(c.Request.Context(), c.GetString(userIDCtxKey), req.Items)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}

func syncCartHandler(svc CartSyncService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cartItemsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid body")
			return
		}
		snap, err := svc.Sync(c.Request.Context(), c.GetString(userIDCtxKey), req.Items)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}

func getCartHandler(svc CartSyncService) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, err := svc.Get(c.Request.Context(), c.GetString(userIDCtxKey))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}
