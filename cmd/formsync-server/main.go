package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/openclinic/formsync/internal/config"
	"github.com/openclinic/formsync/internal/domain/form"
	"github.com/openclinic/formsync/internal/domain/patient"
	"github.com/openclinic/formsync/internal/platform/auth"
	"github.com/openclinic/formsync/internal/platform/db"
	"github.com/openclinic/formsync/internal/platform/middleware"
	"github.com/openclinic/formsync/internal/platform/schema"
	"github.com/openclinic/formsync/internal/platform/serial"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "formsync-server",
		Short: "Clinical form-schema and patient-batch sync server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(serializersCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the form sync API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func serializersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serializers",
		Short: "List registered patient batch serializers",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range serial.Names() {
				fmt.Println(name)
			}
			return nil
		},
	}
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Batch serializer, picked by name from the registry
	serializer, err := serial.New(cfg.Serializer, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create batch serializer")
	}

	// Schema fragment builder
	builder := schema.NewBuilder(func(f *schema.Form) string {
		return fmt.Sprintf("%s/formentry/forms/schema/%d-%s",
			cfg.SchemaNamespaceBase, f.ID, f.Version)
	})

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Auth middleware
	if cfg.IsDev() {
		e.Use(auth.DevAuthMiddleware())
	} else {
		e.Use(auth.JWTMiddleware(auth.JWTConfig{
			SigningKey: []byte(cfg.AuthSigningKey),
		}))
	}

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	// API group
	apiV1 := e.Group("/api/v1")

	// Form schema domain
	formSvc := form.NewService(form.NewRepoPG(pool), builder, cfg.DefaultLocale)
	form.NewHandler(formSvc).RegisterRoutes(apiV1)

	// Patient batch domain
	patientSvc := patient.NewService(patient.NewRepoPG(pool), serializer)
	patient.NewHandler(patientSvc).RegisterRoutes(apiV1)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("serializer", cfg.Serializer).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
