package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vdh-servicedesk/backend/internal/config"
	"github.com/vdh-servicedesk/backend/internal/db"
	"github.com/vdh-servicedesk/backend/internal/gateway"
	httpapi "github.com/vdh-servicedesk/backend/internal/http"
	"github.com/vdh-servicedesk/backend/internal/report"
	"github.com/vdh-servicedesk/backend/internal/workflow"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.Level(level).With().Str("service", "servicedesk-backend").Logger()

	ctx := context.Background()

	// The backend is fixed once at startup. Mock mode must be asked for
	// explicitly; an incomplete database configuration is fatal, never a
	// silent fallback.
	var gw gateway.Gateway
	if cfg.MockData {
		gw = gateway.NewMock()
		logger.Info().Msg("using mock data gateway, no database connection")
	} else {
		databaseURL := cfg.DatabaseURL()
		if databaseURL == "" {
			logger.Fatal().Msg("incomplete database configuration and MOCK_DATA not set")
		}
		sqlGW, err := gateway.NewSQL(ctx, databaseURL, cfg.DBTimeout)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect db")
		}
		defer sqlGW.Close()
		gw = sqlGW
	}

	store := db.New(gw)
	engine := workflow.NewEngine(gw, cfg.ServiceIntervalMiles, logger)

	// Ad-hoc reporting is only permitted when the admin surface is
	// actually password-protected.
	reports := report.NewRunner(gw, cfg.AdminPassword != "", logger)

	router := httpapi.Router(cfg, store, engine, reports, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}
