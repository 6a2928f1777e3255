package drive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	driveapi "google.golang.org/api/drive/v3"
)

// ErrNotConfigured means the Drive side is missing configuration (no folder,
// no client secret, unreadable token cache) and no upload was attempted.
var ErrNotConfigured = errors.New("drive is not configured")

type refreshFunc func(ctx context.Context, conf *oauth2.Config, tok *oauth2.Token) (*oauth2.Token, error)
type authorizeFunc func(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error)

// TokenManager owns the single persisted credential. Loads it from the cache
// file, refreshes it in place when expired, or runs the one-time interactive
// authorization flow, and writes the result back after every cycle. All
// transitions are serialized behind one mutex so two concurrent requests can
// never double-trigger the interactive flow.
type TokenManager struct {
	logger          *slog.Logger
	credentialsPath string
	cachePath       string

	mu        sync.Mutex
	refresh   refreshFunc
	authorize authorizeFunc
}

// NewTokenManager creates a TokenManager reading the OAuth client secret from
// credentialsPath and persisting tokens at cachePath.
func NewTokenManager(log *slog.Logger, credentialsPath, cachePath string) *TokenManager {
	if log == nil {
		log = slog.Default()
	}
	return &TokenManager{
		logger:          log.With(slog.String("service", "drive-token")),
		credentialsPath: credentialsPath,
		cachePath:       cachePath,
		refresh:         refreshToken,
		authorize:       interactiveAuthorize,
	}
}

// Token returns a valid credential plus the OAuth config it belongs to,
// running at most one refresh or one interactive authorization, and persists
// any change to the cache file.
func (m *TokenManager) Token(ctx context.Context) (*oauth2.Token, *oauth2.Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	conf, err := m.loadConfig()
	if err != nil {
		return nil, nil, err
	}

	tok, err := m.loadCache()
	if err != nil {
		return nil, nil, err
	}

	if tok != nil && tok.Valid() {
		return tok, conf, nil
	}

	if tok != nil && tok.RefreshToken != "" {
		fresh, err := m.refresh(ctx, conf, tok)
		if err != nil {
			return nil, nil, fmt.Errorf("refresh credential: %w", err)
		}
		if err := m.saveCache(fresh); err != nil {
			return nil, nil, err
		}
		return fresh, conf, nil
	}

	m.logger.Info("no usable credential cached, starting authorization flow")
	fresh, err := m.authorize(ctx, conf)
	if err != nil {
		return nil, nil, fmt.Errorf("authorize: %w", err)
	}
	if err := m.saveCache(fresh); err != nil {
		return nil, nil, err
	}
	return fresh, conf, nil
}

func (m *TokenManager) loadConfig() (*oauth2.Config, error) {
	raw, err := os.ReadFile(m.credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("%w: read client secret %s: %v", ErrNotConfigured, m.credentialsPath, err)
	}
	conf, err := google.ConfigFromJSON(raw, driveapi.DriveFileScope)
	if err != nil {
		return nil, fmt.Errorf("%w: parse client secret: %v", ErrNotConfigured, err)
	}
	return conf, nil
}

func (m *TokenManager) loadCache() (*oauth2.Token, error) {
	raw, err := os.ReadFile(m.cachePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: read token cache: %v", ErrNotConfigured, err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(raw, &tok); err != nil {
		return nil, fmt.Errorf("%w: decode token cache: %v", ErrNotConfigured, err)
	}
	return &tok, nil
}

func (m *TokenManager) saveCache(tok *oauth2.Token) error {
	raw, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("encode token cache: %w", err)
	}
	if err := os.WriteFile(m.cachePath, raw, 0o600); err != nil {
		return fmt.Errorf("%w: write token cache: %v", ErrNotConfigured, err)
	}
	return nil
}

func refreshToken(ctx context.Context, conf *oauth2.Config, tok *oauth2.Token) (*oauth2.Token, error) {
	return conf.TokenSource(ctx, tok).Token()
}

// interactiveAuthorize runs the installed-app flow once: the operator opens
// the printed URL and pastes the authorization code back on stdin.
func interactiveAuthorize(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error) {
	authURL := conf.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Open the following link in your browser, then paste the authorization code:\n%s\n> ", authURL)

	var code string
	if _, err := fmt.Scan(&code); err != nil {
		return nil, fmt.Errorf("read authorization code: %w", err)
	}
	return conf.Exchange(ctx, code)
}
