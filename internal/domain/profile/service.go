// internal/domain/profile/service.go
package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/your-org/food-ordering-backend/internal/domain/coupon"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("profile not found")

// Service handles profile reads and writes
type Service struct {
	db      *gorm.DB
	coupons *coupon.Service
	log     logrus.FieldLogger
}

// NewService creates a new profile service
func NewService(db *gorm.DB, coupons *coupon.Service, log logrus.FieldLogger) *Service {
	return &Service{
		db:      db,
		coupons: coupons,
		log:     log.WithField("service", "profile"),
	}
}

// UpsertRequest represents profile update data
type UpsertRequest struct {
	Name          string `json:"name" binding:"required,max=100"`
	RewardsMember *bool  `json:"rewards_member"`
}

// Get returns the profile of identity
func (s *Service) Get(ctx context.Context, identity string) (*Profile, error) {
	var profile Profile
	if err := s.db.WithContext(ctx).Where("id = ?", identity).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

// Upsert creates or updates the profile of identity. Creating a profile issues
// the welcome coupon in the same transaction. created reports which happened.
func (s *Service) Upsert(ctx context.Context, identity string, req *UpsertRequest) (profile *Profile, created bool, err error) {
	profile = &Profile{}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", identity).Limit(1).Find(profile)
		if result.Error != nil {
			return fmt.Errorf("failed to load profile: %w", result.Error)
		}

		if result.RowsAffected == 0 {
			created = true
			*profile = Profile{ID: identity}
		}

		profile.Name = strings.TrimSpace(req.Name)
		if req.RewardsMember != nil {
			profile.RewardsMember = *req.RewardsMember
		}

		if !created {
			if err := tx.Save(profile).Error; err != nil {
				return fmt.Errorf("failed to update profile: %w", err)
			}
			return nil
		}

		if err := tx.Create(profile).Error; err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}
		return s.coupons.IssueWelcome(tx, identity)
	})
	if err != nil {
		return nil, false, err
	}

	s.log.WithFields(logrus.Fields{
		"identity": identity,
		"created":  created,
	}).Info("Profile saved")
	return profile, created, nil
}
