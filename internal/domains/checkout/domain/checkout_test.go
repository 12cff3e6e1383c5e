package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogdomain "github.com/crafty-aquatics/storefront/internal/domains/catalog/domain"
	ordersdomain "github.com/crafty-aquatics/storefront/internal/domains/orders/domain"
)

func validForm() ShippingForm {
	return ShippingForm{
		FullName: "Asha Rao",
		Email:    "asha@example.com",
		Address:  "12 Reef Road",
		City:     "Kochi",
		State:    "Kerala",
		ZipCode:  "682001",
	}
}

func TestShippingForm_Validate(t *testing.T) {
	require.NoError(t, validForm().Validate())

	cases := map[string]func(*ShippingForm){
		"short name":    func(f *ShippingForm) { f.FullName = "Al" },
		"short address": func(f *ShippingForm) { f.Address = "1 Rd" },
		"short city":    func(f *ShippingForm) { f.City = "K" },
		"short state":   func(f *ShippingForm) { f.State = " " },
		"short zip":     func(f *ShippingForm) { f.ZipCode = "6820" },
		"bad email":     func(f *ShippingForm) { f.Email = "not-an-email" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			form := validForm()
			mutate(&form)
			require.ErrorIs(t, form.Validate(), ErrInvalidShipping)
		})
	}
}

func TestShippingForm_FormatAddress(t *testing.T) {
	assert.Equal(t, "12 Reef Road, Kochi, Kerala 682001", validForm().FormatAddress())
}

func TestPlan_LinesFromProducts(t *testing.T) {
	plan := Plan{Lines: []ordersdomain.Line{
		{Product: catalogdomain.Product{ID: "a", Price: decimal.NewFromInt(10)}, Quantity: 2},
		{Product: catalogdomain.Product{ID: "b", Price: decimal.NewFromInt(20)}, Quantity: 1},
	}}
	lines := plan.LinesFromProducts([]*catalogdomain.Product{{ID: "a", Price: decimal.NewFromInt(12), Stock: 3}})

	require.Len(t, lines, 2)
	assert.True(t, decimal.NewFromInt(12).Equal(lines[0].Product.Price))
	assert.Equal(t, 2, lines[0].Quantity)
	assert.True(t, decimal.NewFromInt(20).Equal(lines[1].Product.Price))
	assert.True(t, decimal.NewFromInt(10).Equal(plan.Lines[0].Product.Price))
}
