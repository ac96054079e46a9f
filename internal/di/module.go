package di

import (
	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/adapter/payment"
	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/adapter/statscache"
	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/app"
	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/config"
	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/logger"
	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/pkg/auth"
	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/server/http/handlers"
	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/server/http/router"
	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/storage/postgres"
	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/usecase"
	"go.uber.org/fx"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		payment.Module,
		statscache.Module,
		usecase.Module,
		fx.Provide(func(p payment.Provider) app.PaymentProvider { return p }),
		fx.Provide(func(f *app.MarketplaceFacade) handlers.MarketplaceFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
