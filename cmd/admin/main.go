package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Lelo88/request-admin/internal/apiclient"
	"github.com/Lelo88/request-admin/internal/config"
	"github.com/Lelo88/request-admin/internal/logger"
	"github.com/Lelo88/request-admin/internal/requestapi"
	"github.com/Lelo88/request-admin/internal/tui"
)

type adminDeps struct {
	loadConfig func() (config.AdminConfig, error)
	newLogger  func(cfg config.LogConfig) (*zap.Logger, error)
	runUI      func(ctx context.Context, service tui.RequestService, pageSize int, log *zap.Logger) error
}

var fatalf = log.Fatal

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, adminDeps{
		loadConfig: config.LoadAdmin,
		newLogger:  logger.New,
		runUI: func(ctx context.Context, service tui.RequestService, pageSize int, log *zap.Logger) error {
			return tui.New(ctx, service, pageSize, log).Run()
		},
	}); err != nil {
		fatalf(err)
	}
}

func run(ctx context.Context, deps adminDeps) error {
	cfg, err := deps.loadConfig()
	if err != nil {
		return err
	}

	logg, err := deps.newLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logg.Sync() }()

	client := apiclient.New(cfg.APIBaseURL, cfg.APITimeout, apiclient.WithLogger(logg.Named("api")))
	service := requestapi.New(client)

	logg.Info("admin started", zap.String("api", cfg.APIBaseURL), zap.Int("page_size", cfg.PageSize))
	return deps.runUI(ctx, service, cfg.PageSize, logg)
}
