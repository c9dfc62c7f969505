package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"ataka-storefront/internal/delivery"
	"ataka-storefront/internal/domain"
	"ataka-storefront/internal/store"
)

type checkResponse struct {
	State    delivery.CheckState      `json:"state"`
	Trace    []delivery.CheckState    `json:"trace"`
	Estimate *domain.DeliveryEstimate `json:"estimate,omitempty"`
	Address  *domain.Address          `json:"address,omitempty"`
	Degraded bool                     `json:"degraded"`
}

// writeCheck answers with the estimate, optionally waiving charges for
// subtotal. Invalid and failed checks go through writeError.
func writeCheck(c *gin.Context, dlv DeliveryService, res delivery.CheckResult, subtotal *decimal.Decimal) {
	if res.Err != nil {
		writeError(c, res.Err)
		return
	}
	if res.Estimate != nil && subtotal != nil {
		est := dlv.Quote(*res.Estimate, *subtotal)
		res.Estimate = &est
	}
	c.JSON(http.StatusOK, checkResponse{
		State:    res.State,
		Trace:    res.Trace,
		Estimate: res.Estimate,
		Address:  res.Address,
		Degraded: res.Degraded,
	})
}

func parseSubtotal(c *gin.Context) (*decimal.Decimal, bool) {
	raw := c.Query("subtotal")
	if raw == "" {
		return nil, true
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		badRequest(c, "invalid subtotal")
		return nil, false
	}
	return &d, true
}

func deliveryEstimateHandler(dlv DeliveryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		subtotal, ok := parseSubtotal(c)
		if !ok {
			return
		}
		writeCheck(c, dlv, dlv.Check(c.Request.Context(), nil, c.Param("pincode")), subtotal)
	}
}

// sessionDeliveryHandler checks a pincode for a session, remembers it and
// waives charges against the session's cart total.
func sessionDeliveryHandler(dlv DeliveryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := currentSession(c)
		total := store.CartTotal(sess.Store.State().Cart)
		writeCheck(c, dlv, dlv.Check(c.Request.Context(), sess.KV, c.Param("pincode")), &total)
	}
}

func locateHandler(dlv DeliveryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := currentSession(c)
		total := store.CartTotal(sess.Store.State().Cart)
		writeCheck(c, dlv, dlv.CheckCurrentLocation(c.Request.Context(), sess.KV), &total)
	}
}

func pincodeAddressHandler(dlv DeliveryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		addr, err := dlv.GetAddressFromPincode(c.Request.Context(), c.Param("pincode"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, addr)
	}
}

func reverseGeocodeHandler(dlv DeliveryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
		lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
		if errLat != nil || errLon != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			badRequest(c, "lat and lon required")
			return
		}
		addr, err := dlv.ReverseGeocode(c.Request.Context(), domain.Coordinates{Latitude: lat, Longitude: lon})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, addr)
	}
}
