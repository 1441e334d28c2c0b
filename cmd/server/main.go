package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/JonMunkholm/newsroom/internal/config"
	"github.com/JonMunkholm/newsroom/internal/core"
	_ "github.com/JonMunkholm/newsroom/internal/core/tables" // Register all tables
	"github.com/JonMunkholm/newsroom/internal/database"
	"github.com/JonMunkholm/newsroom/internal/logging"
	"github.com/JonMunkholm/newsroom/internal/lookup"
	"github.com/JonMunkholm/newsroom/internal/web"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"db_driver", cfg.Database.Driver,
		"db_max_conns", cfg.Database.MaxConns,
		"query_time_zone", cfg.Query.TimeZone,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	ctx := context.Background()
	db, err := database.Open(ctx, database.Config{
		Driver:          cfg.Database.Driver,
		URL:             cfg.Database.URL,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if u, err := url.Parse(cfg.Database.URL); err == nil && u.Path != "" {
		slog.Info("connected to database", "driver", cfg.Database.Driver, "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database", "driver", cfg.Database.Driver)
	}

	if cfg.Database.Migrate {
		version, err := database.Migrate(db)
		if err != nil {
			slog.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
		slog.Info("database migrated", "version", version)
	}

	press, err := lookup.LoadPressDirectory(cfg.Press.File)
	if err != nil {
		slog.Error("failed to load press directory", "file", cfg.Press.File, "error", err)
		os.Exit(1)
	}

	service := core.NewService(db)
	slog.Info("tables registered", "count", core.TableCount(), "presses", press.Len())

	server := web.NewServer(service, press, web.Options{
		Server:   cfg.Server,
		Query:    cfg.Query,
		Rate:     cfg.Rate,
		Security: cfg.Security,
	})

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(cfg.Server.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		db.Close()
		os.Exit(1)
	}
	<-done
}
