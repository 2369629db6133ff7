// main.go - Entry point for the blog backend server

package main // Declares the package name

import ( // Import required packages
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-blog-backend/auth"       // Registration, login and tokens
	"go-blog-backend/config"     // Project config management
	"go-blog-backend/database"   // Database connection and setup
	"go-blog-backend/events"     // Content events, MQTT and websocket
	"go-blog-backend/handlers"   // HTTP handlers for API endpoints
	"go-blog-backend/jobs"       // Scheduled purge
	"go-blog-backend/logging"    // Logger setup
	"go-blog-backend/repository" // Users, posts and comments
	"go-blog-backend/validation" // Payload rules

	"github.com/gin-gonic/gin"  // Gin web framework
	"github.com/robfig/cron/v3" // Purge scheduler
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() { // Main function, program entry point
	// STEP 1: Load configuration and establish connections
	cfg := config.Load() // Load configuration (DB, JWT secret, MQTT broker)
	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg, log) // Connect to the database and migrate
	if err != nil {
		log.WithError(err).Fatal("DB connection error") // If error, log and exit
	}
	store := repository.NewStore(db)
	validator := validation.New()
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.JWTTTL, cfg.JWTIssuer, store.Users)
	authService := auth.NewService(store.Users, auth.BcryptHasher{}, tokens, validator, log)
	bus := events.NewBus(log)
	purger := jobs.NewPurger(store, cfg.PurgeRetention, log)

	if cfg.JWTSecret == "supersecret" {
		log.Warn("JWT_SECRET is the built-in default, set it before exposing the server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	// STEP 2: Optional event sinks and background jobs
	if cfg.MQTTBroker != "" {
		sink, err := events.NewMQTTSink(cfg.MQTTBroker, cfg.MQTTClientID, cfg.MQTTTopicPrefix, log)
		if err != nil {
			log.WithError(err).Fatal("MQTT connection error")
		}
		defer sink.Close()
		ch, unsubscribe := bus.Subscribe(256)
		g.Go(func() error {
			defer unsubscribe()
			sink.Run(ctx, ch)
			return nil
		})
		log.WithField("broker", cfg.MQTTBroker).Info("forwarding events to MQTT")
	}

	if cfg.PurgeSchedule != "" {
		scheduler := cron.New()
		if _, err := purger.Schedule(scheduler, cfg.PurgeSchedule); err != nil {
			log.WithError(err).Fatal("invalid PURGE_SCHEDULE")
		}
		scheduler.Start()
		g.Go(func() error {
			<-ctx.Done()
			<-scheduler.Stop().Done() // Wait for a running purge to finish
			return nil
		})
		log.WithField("schedule", cfg.PurgeSchedule).Info("purge job scheduled")
	}

	// STEP 3: Create Gin router and configure routes
	router := handlers.NewRouter(handlers.Deps{
		Config:    cfg,
		Log:       log,
		Store:     store,
		Auth:      authService,
		Tokens:    tokens,
		Validator: validator,
		Bus:       bus,
		Purger:    purger,
	})
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// STEP 4: Start the web server and wait for a shutdown signal
	g.Go(func() error {
		log.WithField("addr", srv.Addr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		bus.Close() // Ends websocket streams and the MQTT forwarder
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("server stopped with error")
		os.Exit(1)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("server stopped")
}
