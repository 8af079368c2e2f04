package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NischalAcharya060/GearZone-sub001/internal/api"
	"github.com/NischalAcharya060/GearZone-sub001/internal/bootstrap"
	"github.com/NischalAcharya060/GearZone-sub001/internal/catalog"
	"github.com/NischalAcharya060/GearZone-sub001/internal/config"
	"github.com/NischalAcharya060/GearZone-sub001/internal/discovery"
	"github.com/NischalAcharya060/GearZone-sub001/internal/identity"
	"github.com/NischalAcharya060/GearZone-sub001/internal/notification"
	"github.com/NischalAcharya060/GearZone-sub001/internal/payment"
	"github.com/NischalAcharya060/GearZone-sub001/internal/rating"
	categoryRepository "github.com/NischalAcharya060/GearZone-sub001/internal/repository/category"
	notificationRepository "github.com/NischalAcharya060/GearZone-sub001/internal/repository/notification"
	productRepository "github.com/NischalAcharya060/GearZone-sub001/internal/repository/product"
	reviewRepository "github.com/NischalAcharya060/GearZone-sub001/internal/repository/review"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {

	cnf := config.LoadConfigOrPanic()
	bootstrap.SetupLogger(cnf.Log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	defer close(sigs)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	backend := bootstrap.OpenOrPanic(ctx, cnf)
	defer backend.Store.Close()

	productRepo := productRepository.New(backend.Store)
	categoryRepo := categoryRepository.New(backend.Store)
	reviewRepo := reviewRepository.New(backend.Store)
	notificationRepo := notificationRepository.New(backend.Store)

	session := discovery.New(
		catalog.New(productRepo, categoryRepo),
		rating.New(reviewRepo, cnf.Ratings.Concurrency),
		cnf.Catalog.PageLimit,
	)

	holder := identity.NewHolder()
	defer holder.Close()
	watcher := notification.New(notificationRepo)

	deps := api.Dependencies{
		Session:       session,
		Identity:      holder,
		Verifier:      backend.Verifier,
		Watcher:       watcher,
		Notifications: notificationRepo,
	}
	if cnf.PaymentsEnabled() {
		deps.Payment = payment.NewHandler(payment.NewStripeProvider(cnf.Stripe.SecretKey, cnf.Stripe.PublishableKey, cnf.Stripe.ApiVersion))
	} else {
		log.Warn().Msg("STRIPE_SECRET_KEY is not set, /payment-sheet is disabled")
	}

	if cnf.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	server := &http.Server{
		Addr:              cnf.Server.Address,
		Handler:           api.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return keepCatalogFresh(gctx, session, cnf.Catalog.RefreshInterval)
	})
	group.Go(func() error {
		return watcher.Run(gctx, holder)
	})
	group.Go(func() error {
		log.Info().Str("address", cnf.Server.Address).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cnf.Server.ShutdownTimeout)
		defer cancelShutdown()
		return server.Shutdown(shutdownCtx)
	})

	select {
	case <-sigs:
		// Received a termination signal, continue to shutdown
	case <-gctx.Done():
		// errgroup encountered an error, continue to shutdown
	}

	cancel() // cancel the root context to signal all the consumers

	done := make(chan error, 1)
	go func() {
		done <- group.Wait()
	}()

	select {
	case err := <-done:
		if err != nil {
			log.Error().Err(err).Msg("shutdown with error")
			os.Exit(1)
		}
		log.Info().Msg("shutdown complete")
	case <-time.After(cnf.Server.ShutdownTimeout + time.Second):
		log.Error().Msg("shutdown timed out")
		os.Exit(1)
	case <-sigs:
		// Forcefully terminate the app with a signal
		os.Exit(1)
	}
}

// keepCatalogFresh loads the catalog once and, with a positive interval,
// again on every tick. A failed load is logged; the previous catalog stays.
func keepCatalogFresh(ctx context.Context, session *discovery.Session, interval time.Duration) error {
	if err := session.Refresh(ctx); err != nil {
		log.Error().Err(err).Msg("initial catalog load failed")
	}
	if interval <= 0 {
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := session.Refresh(ctx); err != nil {
				log.Error().Err(err).Msg("catalog refresh failed")
			}
		}
	}
}
