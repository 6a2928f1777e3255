package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

const (
	DefaultConfigPath      = "config.toml"
	DefaultHTTPAddr        = ":8000"
	DefaultDownloadDir     = "downloads"
	DefaultCredentialsPath = "oauth_credentials.json"
	DefaultTokenCachePath  = "token.json"
)

type Config struct {
	Log      LogConfig      `toml:"log"`
	Server   ServerConfig   `toml:"server"`
	Telegram TelegramConfig `toml:"telegram"`
	Drive    DriveConfig    `toml:"drive"`
	Download DownloadConfig `toml:"download"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type TelegramConfig struct {
	BotToken string `toml:"bot_token" validate:"required"`
}

type DriveConfig struct {
	// FolderID gates cloud upload entirely: when empty, uploads are reported
	// as not configured instead of attempted.
	FolderID        string `toml:"folder_id"`
	CredentialsPath string `toml:"credentials_path"`
	TokenCachePath  string `toml:"token_cache_path"`
}

type DownloadConfig struct {
	Dir string `toml:"dir"`
}

// Configured reports whether a destination folder is set.
func (c DriveConfig) Configured() bool {
	return c.FolderID != ""
}

// Validate checks the fields the bot itself cannot run without. The
// authorize command loads config without validating, a Drive-only setup
// does not need the bot token.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration (is TELEGRAM_BOT_TOKEN set?): %w", err)
	}
	return nil
}

// Load reads the TOML config at path (a missing file is fine, defaults
// apply) and layers environment overrides on top.
func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: DefaultHTTPAddr,
		},
		Drive: DriveConfig{
			CredentialsPath: DefaultCredentialsPath,
			TokenCachePath:  DefaultTokenCachePath,
		},
		Download: DownloadConfig{
			Dir: DefaultDownloadDir,
		},
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return cfg, err
		}
	} else if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("GOOGLE_DRIVE_FOLDER_ID"); v != "" {
		cfg.Drive.FolderID = v
	}
	if v := os.Getenv("GOOGLE_CREDENTIALS_PATH"); v != "" {
		cfg.Drive.CredentialsPath = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Addr = ":" + v
	}
}
