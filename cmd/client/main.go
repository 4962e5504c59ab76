package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/ashvale/go-craft-market/internal/adapter"
	"github.com/ashvale/go-craft-market/internal/client"
	"github.com/ashvale/go-craft-market/internal/config"
	"github.com/ashvale/go-craft-market/internal/ledger"
	"github.com/ashvale/go-craft-market/internal/logger"
	"github.com/ashvale/go-craft-market/internal/notify"
	"github.com/ashvale/go-craft-market/internal/realtime"
	"github.com/ashvale/go-craft-market/internal/session"
	"github.com/ashvale/go-craft-market/internal/store"
	"github.com/ashvale/go-craft-market/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewFileLogger("craft-market-client")
	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	serverAdapter, err := adapter.NewHTTPServerAdapter(cfg.Adapter, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create server adapter")
	}

	localStorage, err := store.NewClientStorages(cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create local storage")
	}

	sessions := session.NewManager(serverAdapter, localStorage.Credentials, log)
	serverAdapter.SetTokenSource(sessions)

	jobLedger := ledger.NewLedger(serverAdapter, sessions, log)
	center := notify.NewCenter(serverAdapter, localStorage.Notifications, func(n models.Notification) {
		log.Info().Int64("id", n.ID).Str("type", string(n.Type)).Msg(n.Content)
	}, log)
	channel := realtime.NewChannel(cfg.Realtime, log)

	app := client.NewApp(sessions, jobLedger, center, channel, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err = app.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("client run error")
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
