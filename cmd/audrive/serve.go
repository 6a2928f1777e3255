package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/audrivebot/audrive/internal/bot"
	"github.com/audrivebot/audrive/internal/config"
	"github.com/audrivebot/audrive/internal/drive"
	"github.com/audrivebot/audrive/internal/handlers"
	"github.com/audrivebot/audrive/internal/janitor"
	"github.com/audrivebot/audrive/internal/logger"
	"github.com/audrivebot/audrive/internal/server"
	"github.com/audrivebot/audrive/internal/youtube"
)

const staleDownloadAge = 24 * time.Hour

func runServe(configPath string) {
	fx.New(
		fx.Provide(
			func() (config.Config, error) {
				cfg, err := config.Load(configPath)
				if err != nil {
					return cfg, err
				}
				return cfg, cfg.Validate()
			},
			provideLogger,
			provideDownloader,
			provideTokenManager,
			provideDriveService,
			provideBotService,
			handlers.NewPingHandler,
			provideServer,
			provideJanitor,
		),
		fx.WithLogger(func(log *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: log}
		}),
		fx.Invoke(registerHooks),
	).Run()
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideDownloader(log *slog.Logger) *youtube.Downloader {
	return youtube.NewDownloader(log)
}

func provideTokenManager(log *slog.Logger, cfg config.Config) *drive.TokenManager {
	return drive.NewTokenManager(log, cfg.Drive.CredentialsPath, cfg.Drive.TokenCachePath)
}

func provideDriveService(log *slog.Logger, cfg config.Config, tokens *drive.TokenManager) *drive.Service {
	return drive.NewService(log, tokens, cfg.Drive.FolderID)
}

func provideBotService(log *slog.Logger, cfg config.Config, dl *youtube.Downloader, up *drive.Service) (*bot.Service, error) {
	return bot.NewService(log, cfg.Telegram.BotToken, dl, up, cfg.Download.Dir)
}

func provideServer(cfg config.Config, ping *handlers.PingHandler) *server.Server {
	return server.NewServer(cfg.Server.Addr, ping)
}

func provideJanitor(log *slog.Logger, cfg config.Config) *janitor.Janitor {
	return janitor.New(log, cfg.Download.Dir, staleDownloadAge)
}

func registerHooks(lc fx.Lifecycle, log *slog.Logger, srv *server.Server, botSvc *bot.Service, jan *janitor.Janitor) {
	botCtx, stopBot := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", slog.Any("error", err))
				}
			}()
			if err := jan.Start(); err != nil {
				return err
			}
			go func() {
				if err := botSvc.Run(botCtx); err != nil && !errors.Is(err, context.Canceled) {
					log.Error("bot stopped", slog.Any("error", err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			stopBot()
			jan.Stop()
			return srv.Shutdown(ctx)
		},
	})
}
