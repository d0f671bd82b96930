package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"name-swiper/internal/config"
	"name-swiper/internal/handlers"
	"name-swiper/internal/middleware"
	"name-swiper/internal/repository"
	"name-swiper/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogger(cfg.Log.Level)

	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	if err := repository.InitSchema(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize schema")
	}

	// Initialize repositories
	nameRepo := repository.NewNameRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	tagRepo := repository.NewTagRepository(db)

	// Initialize services
	sessionService := services.NewSessionService(profileRepo, cfg.Users, cfg.JWT.Secret)
	catalogService := services.NewCatalogService(nameRepo, tagRepo)
	voteService := services.NewVoteService(nameRepo, profileRepo, cfg.Users)
	tagService := services.NewTagService(tagRepo)
	analyticsService := services.NewAnalyticsService(nameRepo)
	pushService, err := services.NewPushService(cfg.APNS)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create push service")
	}
	var backupService *services.BackupService
	if cfg.AWS.S3Bucket != "" {
		backupService, err = services.NewBackupService(nameRepo, cfg.AWS)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create backup service")
		}
	}
	wsHub := services.NewWSHub()

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(sessionService, voteService, cfg.Deck)
	nameHandler := handlers.NewNameHandler(catalogService, voteService, wsHub, pushService)
	tagHandler := handlers.NewTagHandler(tagService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, backupService)
	wsHandler := handlers.NewWebSocketHandler(wsHub, sessionService)

	// Setup router
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/session", sessionHandler.Select)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(sessionService))
			r.Get("/names", nameHandler.ListNames)
			r.Post("/names", nameHandler.CreateName)
			r.Put("/names/{name_id}/vote", nameHandler.CastVote)
			r.Delete("/names/{name_id}/vote", nameHandler.ClearVote)
			r.Get("/profile", sessionHandler.GetProfile)
			r.Put("/profile/push-token", sessionHandler.SetPushToken)
			r.Get("/tags", tagHandler.ListTags)
			r.Post("/tags", tagHandler.CreateTag)
			r.Get("/analytics", analyticsHandler.GetAnalytics)
			r.Post("/backup", analyticsHandler.Backup)
		})
	})

	// WebSocket route
	r.Get("/ws", wsHandler.HandleWebSocket)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Str("user_a", cfg.Users.A).
			Str("user_b", cfg.Users.B).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
