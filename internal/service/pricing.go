package service

import (
	"go-shop-backend/internal/model"

	"github.com/shopspring/decimal"
)

// ResolveUnitPrice selects the effective unit price for a sale.
//
// Precedence: a positive negotiated price wins unconditionally, then the
// channel's tier (wholesale price for wholesale sales, retail price
// otherwise), then the product's fallback price. Never fails; a product
// with no price fields set resolves to zero and the caller decides how
// loudly to complain.
func ResolveUnitPrice(product *model.Product, channel model.SaleChannel, negotiated *decimal.Decimal) decimal.Decimal {
	if negotiated != nil && negotiated.IsPositive() {
		return *negotiated
	}
	if channel == model.ChannelWholesale && defined(product.WholesalePrice) {
		return *product.WholesalePrice
	}
	if defined(product.RetailPrice) {
		return *product.RetailPrice
	}
	return product.Price
}

func defined(price *decimal.Decimal) bool {
	return price != nil && price.IsPositive()
}
