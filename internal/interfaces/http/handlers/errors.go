// internal/interfaces/http/handlers/errors.go
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/food-ordering-backend/internal/domain/cart"
	"github.com/your-org/food-ordering-backend/internal/domain/coupon"
	"github.com/your-org/food-ordering-backend/internal/domain/order"
	"github.com/your-org/food-ordering-backend/internal/domain/product"
	"github.com/your-org/food-ordering-backend/internal/domain/profile"
	"github.com/your-org/food-ordering-backend/internal/interfaces/http/middleware"
	"github.com/your-org/food-ordering-backend/internal/pkg/validate"
)

// respondError maps domain errors onto HTTP responses. Anything unrecognised
// is logged and reported as an internal error without leaking details.
func respondError(c *gin.Context, log logrus.FieldLogger, err error) {
	switch {
	case errors.Is(err, cart.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "code": "not_authenticated"})

	case errors.Is(err, cart.ErrGatewayUnavailable):
		log.WithError(err).WithField("request_id", middleware.GetRequestID(c)).Warn("Data gateway unavailable")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":     "Service temporarily unavailable, please try again",
			"code":      "gateway_unavailable",
			"retryable": true,
		})

	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "Request timeout", "retryable": true})

	case validate.IsRecordError(err):
		log.WithError(err).WithField("request_id", middleware.GetRequestID(c)).Error("Malformed record from data gateway")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Received a malformed record", "code": "malformed_record"})

	case errors.Is(err, product.ErrNotFound),
		errors.Is(err, cart.ErrRowNotFound),
		errors.Is(err, order.ErrNotFound),
		errors.Is(err, profile.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, cart.ErrInvalidIdentity),
		errors.Is(err, cart.ErrInvalidProduct),
		errors.Is(err, cart.ErrInvalidRow),
		errors.Is(err, cart.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, order.ErrCartChanged),
		errors.Is(err, order.ErrNotCancellable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.Is(err, order.ErrEmptyCart),
		errors.Is(err, order.ErrUnavailableItems),
		errors.Is(err, coupon.ErrNotFound),
		errors.Is(err, coupon.ErrNotRedeemable):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})

	default:
		log.WithError(err).WithFields(logrus.Fields{
			"request_id": middleware.GetRequestID(c),
			"route":      c.FullPath(),
		}).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// requireIdentity returns the authenticated caller or writes a 401
func requireIdentity(c *gin.Context, log logrus.FieldLogger) (string, bool) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		respondError(c, log, cart.ErrNotAuthenticated)
	}
	return identity, ok
}

// parseID reads a positive numeric path parameter or writes a 400
func parseID(c *gin.Context, param, label string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid " + label + " ID",
		})
		return 0, false
	}
	return uint(id), true
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request data",
		"details": err.Error(),
	})
}
