package validate

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type priced struct {
	ID    uint            `json:"id" validate:"gt=0"`
	Name  string          `json:"name" validate:"required"`
	Price decimal.Decimal `json:"price" validate:"gte=0"`
}

func TestRecordAcceptsValidShape(t *testing.T) {
	err := Record("product", priced{ID: 1, Name: "Burger", Price: decimal.RequireFromString("35.00")})
	assert.NoError(t, err)
}

func TestRecordRejectsNegativePrice(t *testing.T) {
	err := Record("product", priced{ID: 1, Name: "Burger", Price: decimal.RequireFromString("-0.01")})
	require.Error(t, err)

	var re *RecordError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "product", re.Record)
	require.Len(t, re.Fields, 1)
	assert.Equal(t, "price", re.Fields[0].Field)
	assert.Equal(t, "gte", re.Fields[0].Rule)
}

func TestRecordCollectsEveryField(t *testing.T) {
	err := Record("product", priced{})
	require.Error(t, err)

	var re *RecordError
	require.ErrorAs(t, err, &re)
	assert.Len(t, re.Fields, 2)
	assert.Contains(t, err.Error(), "id failed gt=0")
	assert.Contains(t, err.Error(), "name failed required")
}

func TestIsRecordErrorThroughWrapping(t *testing.T) {
	err := fmt.Errorf("list products: %w", Record("product", priced{}))
	assert.True(t, IsRecordError(err))
	assert.False(t, IsRecordError(fmt.Errorf("plain")))
}
