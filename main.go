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
	_ "time/tzdata"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v3"
	"gorm.io/gorm"

	"github.com/thyagolima23/cozinha-backend/auth"
	"github.com/thyagolima23/cozinha-backend/config"
	"github.com/thyagolima23/cozinha-backend/controller"
	"github.com/thyagolima23/cozinha-backend/database"
	"github.com/thyagolima23/cozinha-backend/dish"
	"github.com/thyagolima23/cozinha-backend/logging"
	"github.com/thyagolima23/cozinha-backend/route"
	"github.com/thyagolima23/cozinha-backend/utils"
	"github.com/thyagolima23/cozinha-backend/voting"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().Run(ctx, os.Args); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func rootCmd() *cli.Command {
	return &cli.Command{
		Name:  "cozinha",
		Usage: "Kitchen menu and daily dish voting API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "dotenv file loaded before reading the environment",
				Value: ".env",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level (debug, info, warn, error); overrides LOG_LEVEL",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			return ctx, config.LoadEnvFile(cmd.String("env-file"))
		},
		Commands: []*cli.Command{
			serveCmd(),
			migrateCmd(),
			seedCmd(),
		},
	}
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Apply migrations and serve the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "port",
				Usage: "listen port; overrides PORT",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := newApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if err := database.Migrate(ctx, a.db); err != nil {
				return err
			}
			return a.serve(ctx)
		},
	}
}

func migrateCmd() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create or update the database tables",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := newApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if err := database.Migrate(ctx, a.db); err != nil {
				return err
			}
			a.log.Info("migrations applied")
			return nil
		},
	}
}

func seedCmd() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Insert a demo cook and a week of dishes",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := newApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if err := database.Migrate(ctx, a.db); err != nil {
				return err
			}
			s := &seeder{cooks: a.store, auth: a.auth, dishes: a.dishes, log: a.log}
			return s.run(ctx, a.voting.Today())
		},
	}
}

type app struct {
	cfg    *config.Config
	log    *slog.Logger
	db     *gorm.DB
	store  *database.Store
	auth   *auth.Service
	dishes *dish.Service
	voting *voting.Service
}

func newApp(ctx context.Context, cmd *cli.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cmd.IsSet("log-level") {
		cfg.LogLevel = cmd.String("log-level")
	}
	if cmd.IsSet("port") {
		cfg.Port = cmd.String("port")
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
	}

	log := logging.SetDefault(cfg.LogLevel)
	log.Info("configuration loaded", "config", cfg)
	if cfg.DevSecret {
		log.Warn("JWT_SECRET not set, using the development secret")
	}

	db, err := database.Open(ctx, database.Config{DSN: cfg.DatabaseDSN, LogLevel: cfg.DBLogLevel, Logger: log})
	if err != nil {
		return nil, err
	}

	store := database.NewStore(db)
	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	return &app{
		cfg:    cfg,
		log:    log,
		db:     db,
		store:  store,
		auth:   auth.NewService(store, tokens),
		dishes: dish.NewService(store),
		voting: voting.NewService(store, voting.WithLocation(cfg.Location)),
	}, nil
}

func (a *app) close() {
	if err := database.Close(a.db); err != nil {
		a.log.Warn("failed to close database", "error", err)
	}
}

func (a *app) router() (*gin.Engine, error) {
	gin.SetMode(a.cfg.GinMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		utils.RequestID(),
		utils.RequestLogger(a.log),
		utils.Metrics(),
		cors.New(cors.Config{
			AllowOrigins:     a.cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", utils.HeaderRequestID},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition", utils.HeaderRequestID},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
	)
	if err := router.SetTrustedProxies(a.cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
	}

	route.Register(router, route.Controllers{
		Auth:   controller.NewAuthController(a.auth, a.log),
		Dishes: controller.NewDishController(a.dishes, a.log),
		Votes:  controller.NewVoteController(a.voting, a.log),
		Health: controller.NewHealthController(func(ctx context.Context) error {
			return database.Ping(ctx, a.db)
		}, a.log),
	}, a.auth)
	return router, nil
}

func (a *app) serve(ctx context.Context) error {
	router, err := a.router()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("starting server", "port", a.cfg.Port, "today", a.voting.Today().String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
