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

	"github.com/hhm/maternity/internal/config"
	"github.com/hhm/maternity/internal/domain/alert"
	"github.com/hhm/maternity/internal/domain/audit"
	"github.com/hhm/maternity/internal/domain/birth"
	"github.com/hhm/maternity/internal/domain/newborn"
	"github.com/hhm/maternity/internal/domain/patient"
	"github.com/hhm/maternity/internal/domain/prenatal"
	"github.com/hhm/maternity/internal/platform/auth"
	"github.com/hhm/maternity/internal/platform/db"
	"github.com/hhm/maternity/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "maternity-server",
		Short: "Obstetrics and neonatology records API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.MigrationsDir
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "", "Path to migrations directory (defaults to MIGRATIONS_DIR)")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.MigrationsDir
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "", "Path to migrations directory (defaults to MIGRATIONS_DIR)")
	cmd.AddCommand(statusCmd)

	return cmd
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
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.BodyLimit(cfg.MaxBodySize))
	e.Use(middleware.RequestTimeout(time.Duration(cfg.RequestTimeout) * time.Second))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Auth middleware
	if cfg.IsDev() {
		e.Use(auth.DevAuthMiddleware())
	} else {
		e.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.AuthIssuer,
			Audience:   cfg.AuthAudience,
			SigningKey: []byte(cfg.JWTSigningKey),
		}))
	}

	// Repositories and services
	runTx := func(ctx context.Context, fn func(ctx context.Context) error) error {
		return db.WithTx(ctx, pool, fn)
	}

	patientRepo := patient.NewRepoPG(pool)
	patientSvc := patient.NewService(patientRepo)
	patientHandler := patient.NewHandler(patientSvc)

	controlRepo := prenatal.NewControlRepoPG(pool)
	examRepo := prenatal.NewExamRepoPG(pool)
	prenatalSvc := prenatal.NewService(controlRepo, examRepo)
	prenatalHandler := prenatal.NewHandler(prenatalSvc)

	birthRepo := birth.NewEventRepoPG(pool)
	maternalCompRepo := birth.NewComplicationRepoPG(pool)
	birthSvc := birth.NewService(birthRepo, maternalCompRepo)
	birthHandler := birth.NewHandler(birthSvc)

	alertRepo := alert.NewRepoPG(pool)
	alertSvc := alert.NewService(alertRepo)
	alertHandler := alert.NewHandler(alertSvc)

	newbornRepo := newborn.NewRepoPG(pool)
	apgarRepo := newborn.NewAPGARDetailRepoPG(pool)
	neonatalCompRepo := newborn.NewComplicationRepoPG(pool)
	newbornSvc := newborn.NewService(newbornRepo, apgarRepo, neonatalCompRepo, birthSvc, alertSvc, runTx)
	newbornHandler := newborn.NewHandler(newbornSvc)

	auditRepo := audit.NewRepoPG(pool)
	auditSvc := audit.NewService(auditRepo)
	auditHandler := audit.NewHandler(auditSvc)

	// Audit middleware, wired to the persistent log.
	e.Use(middleware.Audit(logger, audit.Recorder(auditSvc)))

	// Routes
	apiV1 := e.Group("/api/v1")
	patientHandler.RegisterRoutes(apiV1)
	prenatalHandler.RegisterRoutes(apiV1)
	birthHandler.RegisterRoutes(apiV1)
	newbornHandler.RegisterRoutes(apiV1)
	alertHandler.RegisterRoutes(apiV1)
	auditHandler.RegisterRoutes(apiV1)

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	// Start server
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown
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
