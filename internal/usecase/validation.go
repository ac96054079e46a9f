package usecase

import (
	domainErrors "github.com/IbrahimUniJos/Kasuwa-sub002/internal/domain/errors"
)

func validateCreateInput(input CreateOrderInput) error {
	if len(input.Items) == 0 {
		return domainErrors.ErrEmptyOrder
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return domainErrors.ErrInvalidQuantity
		}
	}
	if !input.ShippingMethod.Valid() {
		return domainErrors.ErrInvalidShipping
	}
	return nil
}
