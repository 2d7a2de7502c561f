// internal/domain/cart/service.go
package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
	"github.com/your-org/food-ordering-backend/internal/config"
	"github.com/your-org/food-ordering-backend/internal/domain/product"
	"github.com/your-org/food-ordering-backend/internal/pkg/metrics"
)

// Service is the entry point to the cart core. It wraps the Aggregator and
// Mutator with logging, metrics and retries of transient gateway reads.
// Writes are never retried.
type Service struct {
	gateway    Gateway
	aggregator *Aggregator
	mutator    *Mutator
	retry      config.GatewayConfig
	log        logrus.FieldLogger
}

// NewService creates a new cart service
func NewService(gateway Gateway, cfg *config.Config, log logrus.FieldLogger) *Service {
	return &Service{
		gateway:    gateway,
		aggregator: NewAggregator(gateway),
		mutator:    NewMutator(gateway),
		retry:      cfg.Gateway,
		log:        log.WithField("service", "cart"),
	}
}

// GetCart aggregates the current cart of identity
func (s *Service) GetCart(ctx context.Context, identity string) (*CartView, error) {
	start := time.Now()
	var view *CartView
	err := s.withRetry(ctx, "aggregate", func() error {
		var err error
		view, err = s.aggregator.Aggregate(ctx, identity)
		return err
	})
	metrics.CartAggregateDuration.Observe(time.Since(start).Seconds())
	metrics.ObserveCartOperation("aggregate", err)
	if err != nil {
		s.log.WithError(err).WithField("identity", identity).Error("Failed to aggregate cart")
		return nil, err
	}

	if view.UnresolvedCount > 0 {
		metrics.CartUnresolvedLinesTotal.Add(float64(view.UnresolvedCount))
		s.log.WithFields(logrus.Fields{
			"identity":   identity,
			"unresolved": view.UnresolvedCount,
		}).Warn("Cart references products that no longer exist")
	}
	if duplicates := view.DuplicateRows(); duplicates > 0 {
		metrics.CartDuplicateRowsTotal.Add(float64(duplicates))
		s.log.WithFields(logrus.Fields{
			"identity":   identity,
			"duplicates": duplicates,
		}).Warn("Cart holds duplicate rows for a product")
	}

	return view, nil
}

// Summary reports whether identity has anything in the cart, without pricing it
func (s *Service) Summary(ctx context.Context, identity string) (*Summary, error) {
	if identity == "" {
		return nil, ErrInvalidIdentity
	}

	var rows []CartRow
	err := s.withRetry(ctx, "summary", func() error {
		var err error
		rows, err = s.gateway.ListCartRows(ctx, identity)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list cart rows: %w", err)
	}

	summary := &Summary{HasItems: len(rows) > 0, ItemCount: len(rows)}
	for _, row := range rows {
		summary.TotalQuantity += row.Quantity
	}
	return summary, nil
}

// AddToCart adds one unit of productID after checking the product exists
func (s *Service) AddToCart(ctx context.Context, identity string, productID uint) (*CartRow, error) {
	row, err := s.addToCart(ctx, identity, productID)
	metrics.ObserveCartOperation("add", err)
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"identity":   identity,
			"product_id": productID,
		}).Warn("Failed to add product to cart")
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"identity":   identity,
		"product_id": productID,
		"row_id":     row.ID,
		"quantity":   row.Quantity,
	}).Info("Product added to cart")
	return row, nil
}

func (s *Service) addToCart(ctx context.Context, identity string, productID uint) (*CartRow, error) {
	if identity == "" {
		return nil, ErrInvalidIdentity
	}
	if productID == 0 {
		return nil, ErrInvalidProduct
	}

	var products []product.Product
	err := s.withRetry(ctx, "lookup_product", func() error {
		var err error
		products, err = s.gateway.ListProducts(ctx, []uint{productID})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to look up product: %w", err)
	}
	if len(products) == 0 {
		return nil, product.ErrNotFound
	}

	return s.mutator.AddOrIncrement(ctx, identity, productID)
}

// RemoveFromCart deletes one row of identity's cart
func (s *Service) RemoveFromCart(ctx context.Context, identity string, rowID uint) error {
	err := s.mutator.Remove(ctx, identity, rowID)
	metrics.ObserveCartOperation("remove", err)
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"identity": identity,
			"row_id":   rowID,
		}).Warn("Failed to remove cart row")
		return err
	}

	s.log.WithFields(logrus.Fields{
		"identity": identity,
		"row_id":   rowID,
	}).Info("Cart row removed")
	return nil
}

// ClearCart deletes every row of identity's cart
func (s *Service) ClearCart(ctx context.Context, identity string) error {
	err := s.mutator.Clear(ctx, identity)
	metrics.ObserveCartOperation("clear", err)
	if err != nil {
		s.log.WithError(err).WithField("identity", identity).Warn("Failed to clear cart")
		return err
	}

	s.log.WithField("identity", identity).Info("Cart cleared")
	return nil
}

// withRetry runs a read, retrying only on ErrGatewayUnavailable
func (s *Service) withRetry(ctx context.Context, op string, fn func() error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = s.retry.InitialBackoff
	policy.MaxInterval = s.retry.MaxBackoff
	policy.MaxElapsedTime = 0

	b := backoff.WithContext(backoff.WithMaxRetries(policy, s.retry.MaxRetries), ctx)

	return backoff.RetryNotify(func() error {
		err := fn()
		if err != nil && !errors.Is(err, ErrGatewayUnavailable) {
			return backoff.Permanent(err)
		}
		return err
	}, b, func(err error, wait time.Duration) {
		metrics.GatewayRetriesTotal.Inc()
		s.log.WithError(err).WithFields(logrus.Fields{
			"operation": op,
			"wait":      wait.String(),
		}).Warn("Gateway read failed, retrying")
	})
}
