// Package app contains the application setup for the storefront service.
package app

import (
	"log/slog"
	"net/http"

	"github.com/aurelia-labs/jewelstore/internal/catalog"
	"github.com/aurelia-labs/jewelstore/internal/checkout"
	"github.com/aurelia-labs/jewelstore/internal/commerce"
	"github.com/aurelia-labs/jewelstore/internal/config"
	orderstore "github.com/aurelia-labs/jewelstore/internal/order/store"
	"github.com/aurelia-labs/jewelstore/internal/transport/rest"
	"github.com/aurelia-labs/jewelstore/pkg/messaging"
	"github.com/aurelia-labs/jewelstore/pkg/server"
	"github.com/go-chi/chi/v5"
)

type Dependencies struct {
	Catalog  *catalog.Catalog
	Sessions *commerce.Sessions
	Orders   orderstore.OrderStore
	Checkout *checkout.Service
	Logger   *slog.Logger
}

func SetupDependencies(c *catalog.Catalog, orders orderstore.OrderStore, publisher messaging.Publisher, cfg *config.Config, logger *slog.Logger) *Dependencies {
	pricing := checkout.Pricing{
		ShippingFeeCents: cfg.Pricing.ShippingFeeCents,
		TaxRateBps:       cfg.Pricing.TaxRateBps,
		Currency:         cfg.Pricing.Currency,
	}
	return &Dependencies{
		Catalog:  c,
		Sessions: commerce.NewSessions(),
		Orders:   orders,
		Checkout: checkout.NewService(orders, publisher, pricing, logger),
		Logger:   logger,
	}
}

// SetupHttpHandler initializes the router and routes for the storefront application.
// Used by tests to set up the HTTP handler with the necessary middleware.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return mux
}

// wireRoutes sets up the HTTP routes for the storefront application.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	handler := rest.NewHandler(deps.Catalog, deps.Sessions, deps.Checkout, deps.Orders, deps.Logger)
	handler.RegisterRoutes(mux)
}

// SetupHttpServer creates and configures an HTTP server for the storefront application.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}
	return server.NewHTTPServer(httpCfg, mux)
}
