package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ataka-storefront/internal/delivery"
	"ataka-storefront/internal/domain"
	"ataka-storefront/internal/service/cartsync"
	"ataka-storefront/internal/service/session"
)

// writeError maps service errors onto status codes. Anything unrecognised is
// a 500 and is attached to the gin context for the request log.
func writeError(c *gin.Context, err error) {
	var verr *cartsync.ValidationError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrInvalidPincode):
		c.JSON(http.StatusBadRequest, gin.H{"error": delivery.Reason(err)})
	case errors.Is(err, domain.ErrUserRequired), errors.Is(err, session.ErrInvalidSession), errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, delivery.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "location unavailable", "reason": delivery.Reason(err)})
	case errors.Is(err, domain.ErrPincodeNotFound),
		errors.Is(err, domain.ErrAddressNotFound),
		errors.Is(err, delivery.ErrPositionUnavailable),
		errors.Is(err, delivery.ErrTimeout),
		errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusBadGateway, gin.H{"error": "service unavailable", "reason": delivery.Reason(err)})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
