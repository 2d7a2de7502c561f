package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/your-org/food-ordering-backend/internal/domain/cart"
	"github.com/your-org/food-ordering-backend/internal/domain/product"
	"github.com/your-org/food-ordering-backend/internal/pkg/testdb"
	"github.com/your-org/food-ordering-backend/internal/pkg/validate"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const identity = "0f9e7a52-9a3c-4d1f-8f57-2c1c3c0c6d11"

type CartGatewaySuite struct {
	suite.Suite
	db      *gorm.DB
	gateway *CartGateway
	ctx     context.Context

	burger product.Product
	fries  product.Product
}

func TestCartGatewaySuite(t *testing.T) {
	suite.Run(t, new(CartGatewaySuite))
}

func (s *CartGatewaySuite) SetupTest() {
	s.db = testdb.Open(s.T(), Models()...)
	s.gateway = NewCartGateway(s.db)
	s.ctx = context.Background()

	s.burger = product.Product{Name: "Classic Burger", Price: decimal.RequireFromString("35.00"), Category: "Burgers", Type: product.TypePrepared}
	s.fries = product.Product{Name: "Loaded Fries", Price: decimal.RequireFromString("20.50"), Category: "Extras", Type: product.TypePrepared}
	s.Require().NoError(s.db.Create(&s.burger).Error)
	s.Require().NoError(s.db.Create(&s.fries).Error)
}

func (s *CartGatewaySuite) TestInsertAndList() {
	first, err := s.gateway.InsertCartRow(s.ctx, identity, s.fries.ID, 1)
	s.Require().NoError(err)
	s.NotZero(first.ID)

	second, err := s.gateway.InsertCartRow(s.ctx, identity, s.burger.ID, 2)
	s.Require().NoError(err)

	_, err = s.gateway.InsertCartRow(s.ctx, "someone-else", s.burger.ID, 1)
	s.Require().NoError(err)

	rows, err := s.gateway.ListCartRows(s.ctx, identity)
	s.Require().NoError(err)
	s.Require().Len(rows, 2)
	s.Equal(first.ID, rows[0].ID)
	s.Equal(second.ID, rows[1].ID)
	s.Equal(2, rows[1].Quantity)
}

func (s *CartGatewaySuite) TestInsertDuplicateIsReported() {
	_, err := s.gateway.InsertCartRow(s.ctx, identity, s.burger.ID, 1)
	s.Require().NoError(err)

	_, err = s.gateway.InsertCartRow(s.ctx, identity, s.burger.ID, 1)
	s.Require().ErrorIs(err, cart.ErrDuplicateRow)
}

func (s *CartGatewaySuite) TestInsertRejectsNonPositiveQuantity() {
	_, err := s.gateway.InsertCartRow(s.ctx, identity, s.burger.ID, 0)
	s.Require().ErrorIs(err, cart.ErrInvalidQuantity)
}

func (s *CartGatewaySuite) TestListProducts() {
	products, err := s.gateway.ListProducts(s.ctx, []uint{s.burger.ID, 9999})
	s.Require().NoError(err)
	s.Require().Len(products, 1)
	s.Equal("Classic Burger", products[0].Name)

	products, err = s.gateway.ListProducts(s.ctx, nil)
	s.Require().NoError(err)
	s.Empty(products)
}

func (s *CartGatewaySuite) TestUpdateQuantity() {
	row, err := s.gateway.InsertCartRow(s.ctx, identity, s.burger.ID, 1)
	s.Require().NoError(err)

	s.Require().NoError(s.gateway.UpdateCartRowQuantity(s.ctx, row.ID, 4))
	s.Require().ErrorIs(s.gateway.UpdateCartRowQuantity(s.ctx, 9999, 4), cart.ErrRowNotFound)
	s.Require().ErrorIs(s.gateway.UpdateCartRowQuantity(s.ctx, row.ID, 0), cart.ErrInvalidQuantity)

	rows, err := s.gateway.ListCartRows(s.ctx, identity)
	s.Require().NoError(err)
	s.Equal(4, rows[0].Quantity)
}

func (s *CartGatewaySuite) TestDeleteIsScopedToIdentity() {
	row, err := s.gateway.InsertCartRow(s.ctx, identity, s.burger.ID, 1)
	s.Require().NoError(err)

	s.Require().ErrorIs(s.gateway.DeleteCartRow(s.ctx, "intruder", row.ID), cart.ErrRowNotFound)
	s.Require().NoError(s.gateway.DeleteCartRow(s.ctx, identity, row.ID))
	s.Require().ErrorIs(s.gateway.DeleteCartRow(s.ctx, identity, row.ID), cart.ErrRowNotFound)
}

func (s *CartGatewaySuite) TestDeleteCartRows() {
	a, err := s.gateway.InsertCartRow(s.ctx, identity, s.burger.ID, 1)
	s.Require().NoError(err)
	b, err := s.gateway.InsertCartRow(s.ctx, identity, s.fries.ID, 1)
	s.Require().NoError(err)
	other, err := s.gateway.InsertCartRow(s.ctx, "other", s.fries.ID, 1)
	s.Require().NoError(err)

	s.Require().NoError(s.gateway.DeleteCartRows(s.ctx, identity, a.ID, b.ID, other.ID))
	s.Require().NoError(s.gateway.DeleteCartRows(s.ctx, identity))

	rows, err := s.gateway.ListCartRows(s.ctx, identity)
	s.Require().NoError(err)
	s.Empty(rows)

	rows, err = s.gateway.ListCartRows(s.ctx, "other")
	s.Require().NoError(err)
	s.Len(rows, 1, "rows of other identities survive")
}

func (s *CartGatewaySuite) TestIncrementCreatesThenIncrements() {
	row, err := s.gateway.IncrementCartRow(s.ctx, identity, s.burger.ID, 1)
	s.Require().NoError(err)
	s.Equal(1, row.Quantity)

	again, err := s.gateway.IncrementCartRow(s.ctx, identity, s.burger.ID, 1)
	s.Require().NoError(err)
	s.Equal(row.ID, again.ID)
	s.Equal(2, again.Quantity)

	rows, err := s.gateway.ListCartRows(s.ctx, identity)
	s.Require().NoError(err)
	s.Len(rows, 1)
}

func (s *CartGatewaySuite) TestConcurrentAddsYieldOneRow() {
	const adds = 20
	mutator := cart.NewMutator(s.gateway)

	var g errgroup.Group
	for i := 0; i < adds; i++ {
		g.Go(func() error {
			_, err := mutator.AddOrIncrement(s.ctx, identity, s.burger.ID)
			return err
		})
	}
	s.Require().NoError(g.Wait())

	rows, err := s.gateway.ListCartRows(s.ctx, identity)
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	s.Equal(adds, rows[0].Quantity)
}

func (s *CartGatewaySuite) TestAggregateScenario() {
	_, err := s.gateway.InsertCartRow(s.ctx, identity, s.burger.ID, 2)
	s.Require().NoError(err)
	_, err = s.gateway.InsertCartRow(s.ctx, identity, s.fries.ID, 1)
	s.Require().NoError(err)

	view, err := cart.NewAggregator(s.gateway).Aggregate(s.ctx, identity)
	s.Require().NoError(err)
	s.True(view.GrandTotal.Equal(decimal.RequireFromString("90.50")), view.GrandTotal.String())
}

func (s *CartGatewaySuite) TestAggregateToleratesDeletedProduct() {
	_, err := s.gateway.InsertCartRow(s.ctx, identity, s.burger.ID, 1)
	s.Require().NoError(err)
	ghost, err := s.gateway.InsertCartRow(s.ctx, identity, s.fries.ID, 3)
	s.Require().NoError(err)
	s.Require().NoError(s.db.Delete(&product.Product{}, s.fries.ID).Error)

	view, err := cart.NewAggregator(s.gateway).Aggregate(s.ctx, identity)
	s.Require().NoError(err)
	line, ok := view.Line(ghost.ID)
	s.Require().True(ok)
	s.Nil(line.Product)
	s.True(line.LineTotal.IsZero())
	s.True(view.GrandTotal.Equal(decimal.RequireFromString("35.00")))
}

func (s *CartGatewaySuite) TestMalformedRecordsFailValidation() {
	s.Run("cart row", func() {
		s.Require().NoError(s.db.Exec(
			"INSERT INTO carts (user_id, product_id, quantity, created_at, updated_at) VALUES (?, ?, 0, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)",
			identity, s.burger.ID).Error)

		_, err := s.gateway.ListCartRows(s.ctx, identity)
		var recErr *validate.RecordError
		s.Require().True(errors.As(err, &recErr), "got %v", err)
		s.Equal("cart row", recErr.Record)
		s.Equal("quantity", recErr.Fields[0].Field)
	})

	s.Run("product", func() {
		s.Require().NoError(s.db.Exec("UPDATE products SET price = -1 WHERE id = ?", s.fries.ID).Error)

		_, err := s.gateway.ListProducts(s.ctx, []uint{s.fries.ID})
		s.Require().True(validate.IsRecordError(err), "got %v", err)
		s.False(errors.Is(err, cart.ErrGatewayUnavailable))
	})
}

func (s *CartGatewaySuite) TestDriverFailuresAreUnavailable() {
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	s.Require().NoError(sqlDB.Close())

	_, err = s.gateway.ListCartRows(s.ctx, identity)
	s.Require().ErrorIs(err, cart.ErrGatewayUnavailable)

	_, err = s.gateway.IncrementCartRow(s.ctx, identity, s.burger.ID, 1)
	s.Require().ErrorIs(err, cart.ErrGatewayUnavailable)
}

func TestIsUniqueViolation(t *testing.T) {
	testCases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{gorm.ErrDuplicatedKey, true},
		{errors.New("UNIQUE constraint failed: carts.user_id, carts.product_id"), true},
		{fmt.Errorf("insert: %w", errors.New(`ERROR: duplicate key value violates unique constraint "idx_carts_user_product" (SQLSTATE 23505)`)), true},
		{errors.New("connection refused"), false},
	}

	for _, tc := range testCases {
		if got := isUniqueViolation(tc.err); got != tc.want {
			t.Errorf("isUniqueViolation(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}
