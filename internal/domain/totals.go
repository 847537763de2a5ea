package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

var (
	DiscountRate          = decimal.New(1, -1)
	TaxRate               = decimal.New(1, -1)
	ShippingFee           = decimal.NewFromInt(15)
	FreeShippingThreshold = decimal.NewFromInt(100)
)

type Totals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
	Currency currency.Unit
}

func (t Totals) FreeShipping() bool {
	return t.Shipping.IsZero()
}

// Totals prices the cart: a flat discount on the subtotal, shipping that is
// waived strictly above the threshold, and tax on the discounted subtotal.
func (c Cart) Totals() Totals {
	subtotal := decimal.Zero
	for _, item := range c.Items {
		subtotal = subtotal.Add(item.Subtotal().Amount)
	}

	shipping := ShippingFee
	if subtotal.GreaterThan(FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	discount := subtotal.Mul(DiscountRate)
	tax := subtotal.Sub(discount).Mul(TaxRate)

	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Sub(discount).Add(shipping).Add(tax),
		Currency: currency.USD,
	}
}
