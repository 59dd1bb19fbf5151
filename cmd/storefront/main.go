package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/hunglai117/handcraft-interface/internal/cart"
	"github.com/hunglai117/handcraft-interface/internal/commerce"
	"github.com/hunglai117/handcraft-interface/internal/config"
	"github.com/hunglai117/handcraft-interface/internal/httpapi"
	"github.com/hunglai117/handcraft-interface/internal/order"
	"github.com/hunglai117/handcraft-interface/internal/pricing"
	"github.com/hunglai117/handcraft-interface/internal/promotion"
	"github.com/hunglai117/handcraft-interface/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("load config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Str("service", "storefront").Logger()

	api := commerce.New(cfg.CommerceAPIURL, cfg.RequestTimeout, cfg.BreakerEnabled, logger)

	store := session.NewStore()
	carts := cart.NewManager(api, logger)
	promos := promotion.NewValidator(api, carts, logger)
	orders := order.NewOrchestrator(api, carts, promos, logger)
	store.Register(carts)
	store.Register(promos)

	calc := pricing.NewCalculator(cfg.FreeShippingThreshold, cfg.FlatShippingFee, cfg.TaxRate)
	checkout := httpapi.NewCheckoutHandler(carts, promos, calc, store)

	handler := httpapi.NewRouter(carts, orders, checkout, store, logger)

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.ListenAddr).Msg("storefront listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
