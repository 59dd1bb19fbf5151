// Package pricing computes display totals for a cart snapshot. The remote
// API recomputes pricing authoritatively at order placement; this calculator
// only derives shipping, discount, tax and total for presentation and never
// performs I/O.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/hunglai117/handcraft-interface/internal/promotion"
)

var oneHundred = decimal.NewFromInt(100)

// Calculator holds the shipping and tax policy constants.
type Calculator struct {
	FreeShippingThreshold decimal.Decimal
	FlatShippingFee       decimal.Decimal
	TaxRate               decimal.Decimal
}

func NewCalculator(freeShippingThreshold, flatShippingFee, taxRate float64) Calculator {
	return Calculator{
		FreeShippingThreshold: decimal.NewFromFloat(freeShippingThreshold),
		FlatShippingFee:       decimal.NewFromFloat(flatShippingFee),
		TaxRate:               decimal.NewFromFloat(taxRate),
	}
}

// Quote is a priced breakdown of a cart.
type Quote struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// QuoteSubtotal prices a cart subtotal with an optional applied promotion.
// Subtotals at or above the free-shipping threshold ship free, below it the
// flat fee applies. The total is clamped at zero; a discount can never turn
// it negative.
func (c Calculator) QuoteSubtotal(subtotal decimal.Decimal, promo *promotion.Promotion) Quote {
	shipping := c.FlatShippingFee
	if subtotal.GreaterThanOrEqual(c.FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	discount := decimal.Zero
	if promo != nil {
		value := decimal.NewFromFloat(promo.DiscountValue)
		switch promo.Type {
		case promotion.TypePercentageDiscount:
			discount = subtotal.Mul(value).Div(oneHundred)
		case promotion.TypeFixedAmountDiscount:
			discount = value
		case promotion.TypeFreeShipping:
			shipping = decimal.Zero
		}
	}

	tax := subtotal.Mul(c.TaxRate)

	total := subtotal.Add(shipping).Add(tax).Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Quote{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Discount: discount,
		Total:    total,
	}
}

// QuoteFloat is QuoteSubtotal for a float64 subtotal as carried on the cart
// payload.
func (c Calculator) QuoteFloat(subtotal float64, promo *promotion.Promotion) Quote {
	return c.QuoteSubtotal(decimal.NewFromFloat(subtotal), promo)
}
