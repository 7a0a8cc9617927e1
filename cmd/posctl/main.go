package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/catcoin/pos-backend/internal/app"
	"github.com/catcoin/pos-backend/internal/cli"
	"github.com/catcoin/pos-backend/pkg/config"
	"github.com/catcoin/pos-backend/pkg/db"
	"github.com/catcoin/pos-backend/pkg/logger"
	"github.com/catcoin/pos-backend/pkg/migrate"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(openStore)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "posctl:", err)
		stop()
		os.Exit(1)
	}
}

// openStore connects to the database named by CATCOIN_DB_* and prepares the schema.
func openStore(ctx context.Context) (*app.Services, func() error, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	// stdout carries command output; logs go to stderr.
	logg := logger.New(logger.Options{
		ServiceName: "posctl",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Output:      os.Stderr,
	})

	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	if err := migrate.MaybeRun(ctx, cfg, logg, client); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("prepare schema: %w", err)
	}
	svcs, err := app.Build(client, cfg.Sales, logg, nil)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return svcs, client.Close, nil
}
