package main

import (
	"context"
	"fmt"

	"github.com/audrivebot/audrive/internal/config"
	"github.com/audrivebot/audrive/internal/drive"
	"github.com/audrivebot/audrive/internal/logger"
)

// runAuthorize runs the one-time interactive Drive authorization so the
// token cache exists before the first upload.
func runAuthorize(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)

	tokens := drive.NewTokenManager(logger.L, cfg.Drive.CredentialsPath, cfg.Drive.TokenCachePath)
	if _, _, err := tokens.Token(ctx); err != nil {
		return err
	}
	fmt.Println("Authorization successful, token saved to", cfg.Drive.TokenCachePath)
	return nil
}
