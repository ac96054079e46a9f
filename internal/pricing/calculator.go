// Package pricing derives order charges from line items and the selected
// shipping method. All arithmetic is decimal; results are rounded half-up to
// two places at this boundary and nowhere else.
package pricing

import (
	"github.com/shopspring/decimal"

	domainErrors "github.com/IbrahimUniJos/Kasuwa-sub002/internal/domain/errors"
	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/domain/model"
)

// DefaultTaxRate is applied to the subtotal only; shipping is not taxed.
var DefaultTaxRate = decimal.RequireFromString("0.10")

type tier struct {
	base    decimal.Decimal
	perUnit decimal.Decimal
}

// Shipping tiers: base fee plus a per-unit rate over the total item quantity,
// which stands in for weight.
var shippingTiers = map[model.ShippingMethod]tier{
	model.ShippingStandard:  {base: decimal.RequireFromString("5.00"), perUnit: decimal.RequireFromString("0.50")},
	model.ShippingExpress:   {base: decimal.RequireFromString("12.00"), perUnit: decimal.RequireFromString("0.75")},
	model.ShippingOvernight: {base: decimal.RequireFromString("25.00"), perUnit: decimal.RequireFromString("1.50")},
}

// Quote is the full charge breakdown for one order.
type Quote struct {
	Subtotal       decimal.Decimal
	ShippingCost   decimal.Decimal
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	TotalAmount    decimal.Decimal
}

// Calculator computes order totals with a configurable tax rate.
type Calculator struct {
	taxRate decimal.Decimal
}

// NewCalculator builds a calculator; a non-positive rate falls back to the
// default 10%.
func NewCalculator(taxRate decimal.Decimal) *Calculator {
	if taxRate.LessThanOrEqual(decimal.Zero) {
		taxRate = DefaultTaxRate
	}
	return &Calculator{taxRate: taxRate}
}

// UnitPrice is the effective price of one unit: product price plus the
// variant adjustment when a variant is chosen.
func (c *Calculator) UnitPrice(product *model.Product, variant *model.Variant) decimal.Decimal {
	price := product.Price
	if variant != nil {
		price = price.Add(variant.PriceAdjustment)
	}
	return price.Round(2)
}

// LineTotal is unit price times quantity.
func (c *Calculator) LineTotal(unitPrice decimal.Decimal, quantity int32) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt32(quantity)).Round(2)
}

// Quote aggregates the charges for the given priced line items. Discount is
// always zero at creation time.
func (c *Calculator) Quote(items []model.OrderItem, method model.ShippingMethod) (Quote, error) {
	t, ok := shippingTiers[method]
	if !ok {
		return Quote{}, domainErrors.ErrInvalidShipping
	}

	subtotal := decimal.Zero
	units := int64(0)
	for _, item := range items {
		subtotal = subtotal.Add(item.TotalPrice)
		units += int64(item.Quantity)
	}

	shipping := t.base.Add(t.perUnit.Mul(decimal.NewFromInt(units))).Round(2)
	tax := subtotal.Mul(c.taxRate).Round(2)
	discount := decimal.Zero
	total := subtotal.Add(shipping).Add(tax).Sub(discount)

	return Quote{
		Subtotal:       subtotal,
		ShippingCost:   shipping,
		TaxAmount:      tax,
		DiscountAmount: discount,
		TotalAmount:    total,
	}, nil
}
