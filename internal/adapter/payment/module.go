package payment

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/config"
)

// Module exposes the payment provider implementation to the fx graph.
var Module = fx.Provide(newProvider)

type providerParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newProvider(p providerParams) (Provider, error) {
	return NewHTTPClient(p.Config.PaymentSystemAddress, p.Logger)
}
