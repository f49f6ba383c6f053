package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"smartparking/internal/api"
	"smartparking/internal/auth"
	"smartparking/internal/config"
	"smartparking/internal/logger"
	"smartparking/internal/repository"
	"smartparking/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Init(cfg.Server.LogLevel, cfg.Server.Env)

	db, err := sql.Open("postgres", cfg.DB.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open DB")
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to DB")
	}

	bookingRepo := repository.NewBookingRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	jobRepo := repository.NewJobRepository(db)
	adminAuthRepo := repository.NewAdminAuthRepository(db)

	loc := cfg.Location()
	stripeService := service.NewStripeService(cfg)
	notifier := service.NewNotifyService(service.NewSendGridSender(cfg), service.NewTwilioSender(cfg), loc)
	bookingService := service.NewBookingService(bookingRepo, locationRepo, stripeService, notifier, cfg)
	locationService := service.NewLocationService(locationRepo)
	adminService := service.NewAdminService(bookingRepo, locationRepo)
	adminAuthService := service.NewAdminAuthService(adminAuthRepo, cfg.JWT.Secret, time.Duration(cfg.JWT.ExpireMin)*time.Minute)
	jobService := service.NewJobService(jobRepo, locationRepo, loc, cfg.PendingTTL(), cfg.CheckoutTTL())

	c := cron.New(cron.WithLocation(loc))
	if err := jobService.Schedule(c, cfg.Booking.CronSpec); err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule jobs")
	}
	c.Start()
	defer c.Stop()

	router := api.NewRouter(api.Handlers{
		Locations:       api.NewLocationHandler(locationService),
		Bookings:        api.NewUserBookingHandler(bookingService),
		Stripe:          api.NewStripeWebhookHandler(cfg.Stripe.WebhookSecret, bookingService),
		Admin:           api.NewAdminHandler(adminService),
		AdminAuth:       api.NewAdminAuthHandler(adminAuthService),
		AdminMiddleware: auth.AdminAuthMiddleware(cfg.JWT.Secret),
	})

	cors := handlers.CORS(
		handlers.AllowedOrigins(cfg.Server.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handlers.RecoveryHandler(handlers.PrintRecoveryStack(!cfg.IsProduction()))(cors(router)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Str("env", cfg.Server.Env).Msg("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info().Msg("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}
