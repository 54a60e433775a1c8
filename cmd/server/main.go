package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/martin0965432/SmartView/internal/auth"
	"github.com/martin0965432/SmartView/internal/config"
	"github.com/martin0965432/SmartView/internal/events"
	"github.com/martin0965432/SmartView/internal/handlers"
	"github.com/martin0965432/SmartView/internal/middleware"
	"github.com/martin0965432/SmartView/internal/payment"
	"github.com/martin0965432/SmartView/internal/receipt"
	"github.com/martin0965432/SmartView/internal/repository"
	"github.com/martin0965432/SmartView/internal/service"
	"github.com/martin0965432/SmartView/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting viewsmart api server",
		"version", version,
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
	)

	ctx := context.Background()

	// Accounts: postgres when configured, process memory otherwise
	var users repository.UserRepository
	if cfg.Database.URL != "" {
		db, err := repository.ConnectPostgres(ctx, cfg.Database.URL)
		if err != nil {
			log.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := repository.RunMigrations(db, cfg.Database.MigrationsDir); err != nil {
			log.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		users = repository.NewPostgresUserRepository(db)
		log.Info("using postgres user repository")
	} else {
		users = repository.NewInMemoryUserRepository()
		log.Warn("DATABASE_URL not set, accounts are kept in memory")
	}

	// Profile preferences: redis when configured
	var prefs repository.PreferenceStore
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Error("failed to connect to redis", "addr", cfg.Redis.Addr, "error", err)
			os.Exit(1)
		}
		prefs = repository.NewRedisPreferenceStore(redisClient)
		log.Info("using redis preference store", "addr", cfg.Redis.Addr)
	} else {
		prefs = repository.NewInMemoryPreferenceStore()
	}

	// Checkout events
	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		log.Info("publishing checkout events", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error("failed to close event publisher", "error", err)
		}
	}()

	// Receipt email
	receiptLocation, err := time.LoadLocation(cfg.Receipt.TimeZone)
	if err != nil {
		log.Error("invalid receipt time zone", "tz", cfg.Receipt.TimeZone, "error", err)
		os.Exit(1)
	}
	receipts := receipt.NewService(receipt.Config{
		Endpoint:   cfg.Receipt.Endpoint,
		ServiceID:  cfg.Receipt.ServiceID,
		TemplateID: cfg.Receipt.TemplateID,
		PublicKey:  cfg.Receipt.PublicKey,
		PrivateKey: cfg.Receipt.PrivateKey,
		Timeout:    cfg.Receipt.Timeout,
		Location:   receiptLocation,
	}, nil, log)
	if !cfg.ReceiptConfigured() {
		log.Warn("EmailJS credentials not set, receipts will not be sent")
	}

	// Initialize repositories
	catalog := repository.NewCatalog()
	tickets := repository.NewInMemoryTicketRepository()

	// Initialize services
	jwtService := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenExpiry, cfg.Auth.RefreshTokenExpiry)
	productService := service.NewProductService(catalog)
	checkoutService := service.NewCheckoutService(
		catalog,
		service.NewTicketBuilder(),
		payment.NewMockAuthorizer(cfg.Payment.SimulatedDelay, log),
		tickets,
		receipts,
		publisher,
		log,
	)
	authService := service.NewAuthService(users, jwtService)
	profileService := service.NewProfileService(users, prefs)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(log, version)
	productHandler := handlers.NewProductHandler(productService, log)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, log)
	authHandler := handlers.NewAuthHandler(authService, cfg.Auth.SecureCookies, log)
	profileHandler := handlers.NewProfileHandler(profileService, log)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Register health check endpoint
	r.Get("/health", healthHandler.ServeHTTP)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Catalog
		r.Get("/product", productHandler.ListProducts)
		r.Get("/product/{productId}", productHandler.GetProduct)
		r.Get("/pack", productHandler.ListPacks)
		r.Get("/pack/{packId}", productHandler.GetPack)

		// Checkout
		r.Post("/checkout", checkoutHandler.Checkout)
		r.Get("/order/{orderId}", checkoutHandler.GetOrder)
		r.Post("/order/{orderId}/receipt", checkoutHandler.ResendReceipt)

		// Accounts
		r.Post("/auth/signup", authHandler.SignUp)
		r.Post("/auth/signin", authHandler.SignIn)
		r.Post("/auth/signout", authHandler.SignOut)
		r.Post("/auth/refresh", authHandler.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(jwtService))

			r.Get("/auth/me", authHandler.Me)
			r.Get("/profile", profileHandler.GetProfile)
			r.Put("/profile", profileHandler.UpdateProfile)
			r.Put("/profile/photo", profileHandler.SetPhoto)
			r.Delete("/profile/photo", profileHandler.ClearPhoto)
		})
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	serverErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serverErr:
		log.Error("server failed to start", "error", err)
		return
	}

	log.Info("shutting down server...")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		return
	}

	log.Info("server stopped gracefully")
}
