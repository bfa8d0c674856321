package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/alugacar/alugacar-web/internal/config"
	"github.com/alugacar/alugacar-web/internal/domain/availability"
	"github.com/alugacar/alugacar-web/internal/domain/booking"
	"github.com/alugacar/alugacar-web/internal/domain/payment"
	"github.com/alugacar/alugacar-web/internal/middleware"
	"github.com/alugacar/alugacar-web/internal/pkg/database"
	"github.com/alugacar/alugacar-web/internal/pkg/jwt"
	"github.com/alugacar/alugacar-web/internal/pkg/logger"
	"github.com/alugacar/alugacar-web/internal/pkg/marketplace"
	paymethod "github.com/alugacar/alugacar-web/internal/pkg/payment"
	pkgresponse "github.com/alugacar/alugacar-web/internal/pkg/response"
)

const sweepInterval = time.Minute

func main() {
	cfg := config.Load()
	if err := logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Env,
		LogFile:     cfg.LogFile,
		Service:     "alugacar-web",
	}); err != nil {
		log.Fatal().Err(err).Msg("Failed to init logger")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Timezone).Msg("Failed to load time zone")
	}

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Str("marketplace", cfg.MarketplaceBaseURL).
		Msg("Starting AlugaCar booking API")

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL)
	client := marketplace.NewClient(cfg.MarketplaceBaseURL, cfg.MarketplaceTimeout(), cfg.MarketplaceUserAgent)

	// ---------- Services ----------
	availabilityService := availability.NewService(client, availability.NewSnapshotCache(redis, cfg.BlockedDatesCacheTTL), loc)
	bookingService := booking.NewService(client, availabilityService, booking.Config{
		Location:  loc,
		IntentTTL: cfg.CheckoutSessionTTL,
	})
	checkoutService := payment.NewService(bookingService, client, paymethod.DefaultMethods(), payment.Config{
		SessionTTL:           cfg.CheckoutSessionTTL,
		SuccessRedirectDelay: cfg.SuccessRedirectDelay,
	})
	reconciler := payment.NewReconciler(client, cfg.ReconcileMaxAttempts, cfg.ReconcileBackoff)

	// ---------- Handlers ----------
	bookingHandler := booking.NewHandler(bookingService)
	paymentHandler := payment.NewHandler(checkoutService, reconciler, cfg.AllowedOrigins)

	// ---------- Background sweepers ----------
	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()
	go bookingService.Run(bgCtx, sweepInterval)
	go checkoutService.Run(bgCtx, sweepInterval)

	r := newRouter(cfg, middleware.Auth(jwtService), bookingHandler, paymentHandler)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	stopBackground()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

func newRouter(cfg *config.Config, authMiddleware func(http.Handler) http.Handler, bookingHandler *booking.Handler, paymentHandler *payment.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
			pkgresponse.OK(w, map[string]string{"message": "pong"})
		})

		r.Mount("/vehicles", bookingHandler.Routes(authMiddleware))
		r.Mount("/checkout", paymentHandler.Routes(authMiddleware))
		r.Mount("/bookings", paymentHandler.BookingRoutes(authMiddleware))
	})

	return r
}
