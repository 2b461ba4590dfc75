package products

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/odyssey-admin/internal/grid"
)

func TestDecodeProduct(t *testing.T) {
	in, err := decode(grid.Values{
		"sku":         " BLT-10 ",
		"name":        "Bolt",
		"unit_id":     "u1",
		"price":       "1,250.50",
		"cost":        "900",
		"tax_percent": "11",
		"active":      "true",
	})
	require.NoError(t, err)
	assert.Equal(t, "BLT-10", in.SKU)
	assert.True(t, in.Price.Equal(decimal.RequireFromString("1250.50")))
	assert.True(t, in.Active)
}

func TestDecodeProductProblems(t *testing.T) {
	_, err := decode(grid.Values{"price": "abc", "cost": "-1", "tax_percent": "101"})
	var problems grid.Problems
	require.True(t, errors.As(err, &problems))
	assert.Equal(t, "must be a number", problems["price"])
	assert.Equal(t, "must not be negative", problems["cost"])
	assert.Contains(t, problems, "tax_percent")
}

func TestProductValidationUsesJSONNames(t *testing.T) {
	problems := grid.Problems{}
	grid.Check(grid.NewValidator(), ProductInput{Name: "Bolt"}, problems)
	assert.Equal(t, "is required", problems["sku"])
	assert.Equal(t, "is required", problems["unit_id"])
	assert.NotContains(t, problems, "name")
}

func TestEncodeRoundTripsThroughDecode(t *testing.T) {
	p := Product{SKU: "S", Name: "N", UnitID: "u", Price: decimal.NewFromInt(5), Active: true}
	in, err := decode(encode(p))
	require.NoError(t, err)
	assert.True(t, in.Price.Equal(p.Price))
	assert.True(t, in.Active)
}
