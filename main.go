// api/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/jessevdk/go-flags"

	"portfolio/api/config"
	"portfolio/api/handlers"
	"portfolio/api/logging"
	"portfolio/api/mailer"
	"portfolio/api/middleware"
	"portfolio/api/report"
	"portfolio/api/server"
	"portfolio/api/store"
)

type options struct {
	Config   string `long:"config" short:"c" description:"Path to a YAML config file"`
	EnvFile  string `long:"env-file" default:".env" description:"Path to a .env file loaded before the environment"`
	Addr     string `long:"addr" description:"Listen address, overrides PORT (e.g. :8080)"`
	LogLevel string `long:"log-level" description:"Log level, overrides LOG_LEVEL"`
}

func main() {
	var opts options
	if _, err := flags.NewParser(&opts, flags.Default).Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}

	cfg, err := config.Load(opts.Config, opts.EnvFile)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	level := cfg.Logging.Level
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	logging.Init(logging.Config{Level: level, Format: cfg.Logging.Format})

	if cfg.Server.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	loc, err := cfg.Location()
	if err != nil {
		logging.Fatal().Err(err).Msg("invalid analytics timezone")
	}

	// --- Stores ---
	analyticsStore := store.NewAnalyticsStore(cfg.Analytics.VisitCapacity, cfg.Analytics.ContactCapacity)
	adminStore, err := store.NewAdminStore(cfg.Admin.Password, cfg.Admin.PasswordHash)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to initialize admin credentials")
	}
	if !adminStore.Enabled() {
		logging.Warn().Msg("no admin password configured; report endpoints are open")
	}

	// --- Handlers ---
	var contactMailer handlers.ContactMailer
	if cfg.Email.Enabled() {
		contactMailer = mailer.New(cfg.Email)
	} else {
		logging.Warn().Msg("RESEND_API_KEY not set; /api/send-email will return 503")
	}

	jwtSecret := []byte(cfg.Admin.JWTSecret)
	secureCookie := cfg.Server.GinMode == gin.ReleaseMode

	router, err := server.NewRouter(server.Deps{
		AnalyticsStore: analyticsStore,
		AdminStore:     adminStore,
		Analytics:      handlers.NewAnalyticsHandlers(analyticsStore, report.OptionsFrom(cfg.Analytics, loc)),
		Auth:           handlers.NewAuthHandlers(adminStore, jwtSecret, cfg.Admin.SessionTTL, secureCookie),
		Email:          handlers.NewEmailHandlers(contactMailer, cfg.Email.Timeout),
		RateLimiter:    middleware.NewIPRateLimiter(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst, cfg.RateLimit.IdleTTL),
		CORSOrigins:    cfg.Server.CORSOrigins,
		JWTSecret:      jwtSecret,
		AdminAPIKey:    cfg.Admin.APIKey,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to build router")
	}

	addr := ":" + cfg.Server.Port
	if opts.Addr != "" {
		addr = opts.Addr
	}
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sup := server.NewSupervisor(cfg.Server.ShutdownTimeout)
	sup.Add(server.NewHTTPService(srv, cfg.Server.ShutdownTimeout))

	if err := sup.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("supervisor exited")
		stop()
		os.Exit(1)
	}
	logging.Info().Msg("Server exiting.")
}
