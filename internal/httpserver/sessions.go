package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"ataka-storefront/internal/domain"
	"ataka-storefront/internal/service/session"
	"ataka-storefront/internal/store"
)

const sessionCtxKey = "session"

type createSessionRequest struct {
	SessionID string `json:"sessionId"`
}

type bookIDRequest struct {
	BookID string `json:"bookId" binding:"required"`
}

type quantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type userRequest struct {
	ID    string `json:"id" binding:"required"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type stateResponse struct {
	SessionID   string          `json:"sessionId"`
	State       domain.AppState `json:"state"`
	CartTotal   decimal.Decimal `json:"cartTotal"`
	ItemCount   int             `json:"itemCount"`
	LastPincode string          `json:"lastPincode,omitempty"`
}

func toStateResponse(id string, s domain.AppState) stateResponse {
	if s.Cart == nil {
		s.Cart = []domain.CartItem{}
	}
	if s.Wishlist == nil {
		s.Wishlist = []domain.WishlistItem{}
	}
	return stateResponse{
		SessionID: id,
		State:     s,
		CartTotal: store.CartTotal(s.Cart),
		ItemCount: store.ItemCount(s.Cart),
	}
}

// sessionMiddleware resolves :sid to a live session, restoring it from
// storage when it is not in memory. A malformed id is a 404.
func sessionMiddleware(svc SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := strings.TrimSpace(c.Param("sid"))
		if sid == "" {
			badRequest(c, "session id required")
			c.Abort()
			return
		}
		sess, release, err := svc.Acquire(c.Request.Context(), sid)
		if errors.Is(err, session.ErrInvalidSession) {
			err = domain.ErrNotFound
		}
		if err != nil {
			writeError(c, err)
			c.Abort()
			return
		}
		defer release()
		c.Set(sessionCtxKey, sess)
		c.Next()
	}
}

func currentSession(c *gin.Context) *session.Session {
	return c.MustGet(sessionCtxKey).(*session.Session)
}

func respondState(c *gin.Context, status int, sess *session.Session, s domain.AppState) {
	c.JSON(status, toStateResponse(sess.ID, s))
}

func createSessionHandler(svc SessionService, dlv DeliveryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createSessionRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				badRequest(c, "invalid body")
				return
			}
		}
		var (
			sess *session.Session
			err  error
		)
		status := http.StatusCreated
		if req.SessionID != "" {
			sess, err = svc.Open(c.Request.Context(), req.SessionID)
			status = http.StatusOK
		} else {
			sess, err = svc.Create(c.Request.Context())
		}
		if err != nil {
			writeError(c, err)
			return
		}
		resp := toStateResponse(sess.ID, sess.Store.State())
		resp.LastPincode, _ = dlv.LastPincode(c.Request.Context(), sess.KV)
		c.JSON(status, resp)
	}
}

func getSessionHandler(dlv DeliveryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := currentSession(c)
		resp := toStateResponse(sess.ID, sess.Store.State())
		resp.LastPincode, _ = dlv.LastPincode(c.Request.Context(), sess.KV)
		c.JSON(http.StatusOK, resp)
	}
}

func addToCartHandler(catalog CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req bookIDRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "bookId required")
			return
		}
		ref, err := catalog.Ref(c.Request.Context(), req.BookID)
		if err != nil {
			writeError(c, err)
			return
		}
		sess := currentSession(c)
		respondState(c, http.StatusOK, sess, sess.Store.AddToCart(c.Request.Context(), ref))
	}
}

// updateQuantityHandler sets an absolute quantity; zero or less removes the entry.
func updateQuantityHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req quantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "quantity required")
			return
		}
		sess := currentSession(c)
		respondState(c, http.StatusOK, sess, sess.Store.UpdateQuantity(c.Request.Context(), c.Param("bookId"), *req.Quantity))
	}
}

func removeFromCartHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := currentSession(c)
		respondState(c, http.StatusOK, sess, sess.Store.RemoveFromCart(c.Request.Context(), c.Param("bookId")))
	}
}

func clearCartHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := currentSession(c)
		respondState(c, http.StatusOK, sess, sess.Store.ClearCart(c.Request.Context()))
	}
}

func addToWishlistHandler(catalog CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req bookIDRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "bookId required")
			return
		}
		ref, err := catalog.Ref(c.Request.Context(), req.BookID)
		if err != nil {
			writeError(c, err)
			return
		}
		sess := currentSession(c)
		respondState(c, http.StatusOK, sess, sess.Store.AddToWishlist(c.Request.Context(), ref))
	}
}

func removeFromWishlistHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := currentSession(c)
		respondState(c, http.StatusOK, sess, sess.Store.RemoveFromWishlist(c.Request.Context(), c.Param("bookId")))
	}
}

func toggleCartHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := currentSession(c)
		respondState(c, http.StatusOK, sess, sess.Store.ToggleCart(c.Request.Context()))
	}
}

func toggleWishlistHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := currentSession(c)
		respondState(c, http.StatusOK, sess, sess.Store.ToggleWishlist(c.Request.Context()))
	}
}

func setUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req userRequest
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ID) == "" {
			badRequest(c, "user id required")
			return
		}
		sess := currentSession(c)
		user := domain.UserRef{ID: strings.TrimSpace(req.ID), Name: req.Name, Email: req.Email}
		respondState(c, http.StatusOK, sess, sess.Store.SetUser(c.Request.Context(), user))
	}
}

func clearUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := currentSession(c)
		respondState(c, http.StatusOK, sess, sess.Store.ClearUser(c.Request.Context()))
	}
}

func syncFailuresHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		failures := currentSession(c).Store.SyncFailures()
		if failures == nil {
			failures = []store.SyncFailure{}
		}
		c.JSON(http.StatusOK, gin.H{"count": len(failures), "results": failures})
	}
}
