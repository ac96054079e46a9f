package usecase

import (
	"github.com/shopspring/decimal"
	"go.uber.org/fx"

	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/config"
	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/pricing"
)

// Module provides core business use cases to the fx container.
var Module = fx.Options(
	fx.Provide(newCalculator),
	fx.Provide(
		NewAuthUseCase,
		NewOrderUseCase,
	),
)

func newCalculator(cfg *config.Config) (*pricing.Calculator, error) {
	rate, err := decimal.NewFromString(cfg.TaxRate)
	if err != nil {
		return nil, err
	}
	return pricing.NewCalculator(rate), nil
}
