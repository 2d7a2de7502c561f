// internal/interfaces/http/handlers/profile.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/food-ordering-backend/internal/domain/coupon"
	"github.com/your-org/food-ordering-backend/internal/domain/profile"
)

// ProfileHandler handles profile and coupon endpoints
type ProfileHandler struct {
	profileService *profile.Service
	couponService  *coupon.Service
	log            logrus.FieldLogger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService *profile.Service, couponService *coupon.Service, log logrus.FieldLogger) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		couponService:  couponService,
		log:            log.WithField("handler", "profile"),
	}
}

// GetProfile handles GET /profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	identity, ok := requireIdentity(c, h.log)
	if !ok {
		return
	}

	p, err := h.profileService.Get(c.Request.Context(), identity)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile retrieved successfully",
		"data":    p,
	})
}

// UpdateProfile handles PUT /profile. The first call creates the profile.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	identity, ok := requireIdentity(c, h.log)
	if !ok {
		return
	}

	var req profile.UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	p, created, err := h.profileService.Upsert(c.Request.Context(), identity, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	if created {
		c.JSON(http.StatusCreated, gin.H{
			"message": "Profile created successfully",
			"data":    p,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"data":    p,
	})
}

// GetCoupons handles GET /coupons
func (h *ProfileHandler) GetCoupons(c *gin.Context) {
	identity, ok := requireIdentity(c, h.log)
	if !ok {
		return
	}

	coupons, err := h.couponService.List(c.Request.Context(), identity)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Coupons retrieved successfully",
		"data":    coupons,
	})
}
