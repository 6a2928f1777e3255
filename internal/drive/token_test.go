package drive

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

const testClientSecret = `{
  "installed": {
    "client_id": "client-id",
    "client_secret": "client-secret",
    "auth_uri": "https://accounts.google.com/o/oauth2/auth",
    "token_uri": "https://oauth2.googleapis.com/token",
    "redirect_uris": ["http://localhost"]
  }
}`

func newTestManager(t *testing.T) *TokenManager {
	t.Helper()
	dir := t.TempDir()
	credentials := filepath.Join(dir, "oauth_credentials.json")
	require.NoError(t, os.WriteFile(credentials, []byte(testClientSecret), 0o644))
	return NewTokenManager(nil, credentials, filepath.Join(dir, "token.json"))
}

func writeCache(t *testing.T, m *TokenManager, tok *oauth2.Token) {
	t.Helper()
	raw, err := json.Marshal(tok)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(m.cachePath, raw, 0o600))
}

func readCache(t *testing.T, m *TokenManager) *oauth2.Token {
	t.Helper()
	raw, err := os.ReadFile(m.cachePath)
	require.NoError(t, err)
	var tok oauth2.Token
	require.NoError(t, json.Unmarshal(raw, &tok))
	return &tok
}

func TestTokenRefreshesExpiredCredential(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	writeCache(t, m, &oauth2.Token{
		AccessToken:  "stale",
		RefreshToken: "refresh-1",
		Expiry:       time.Now().Add(-time.Hour),
	})

	refreshCalls := 0
	m.refresh = func(ctx context.Context, conf *oauth2.Config, tok *oauth2.Token) (*oauth2.Token, error) {
		refreshCalls++
		return &oauth2.Token{
			AccessToken:  "fresh",
			RefreshToken: tok.RefreshToken,
			Expiry:       time.Now().Add(time.Hour),
		}, nil
	}
	m.authorize = func(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error) {
		t.Fatal("interactive authorization must not run when a refresh token is present")
		return nil, nil
	}

	tok, _, err := m.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh", tok.AccessToken)
	assert.Equal(t, 1, refreshCalls)
	assert.Equal(t, "fresh", readCache(t, m).AccessToken, "refreshed credential must be re-persisted")
}

func TestTokenAuthorizesWithoutRefreshToken(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	writeCache(t, m, &oauth2.Token{
		AccessToken: "stale",
		Expiry:      time.Now().Add(-time.Hour),
	})

	authorizeCalls := 0
	m.refresh = func(ctx context.Context, conf *oauth2.Config, tok *oauth2.Token) (*oauth2.Token, error) {
		t.Fatal("refresh must not run without a refresh token")
		return nil, nil
	}
	m.authorize = func(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error) {
		authorizeCalls++
		return &oauth2.Token{
			AccessToken: "authorized",
			Expiry:      time.Now().Add(time.Hour),
		}, nil
	}

	tok, _, err := m.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "authorized", tok.AccessToken)
	assert.Equal(t, 1, authorizeCalls)
	assert.Equal(t, "authorized", readCache(t, m).AccessToken)
}

func TestTokenAuthorizesWhenNoCredentialCached(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	m.authorize = func(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error) {
		return &oauth2.Token{AccessToken: "first", Expiry: time.Now().Add(time.Hour)}, nil
	}

	tok, _, err := m.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "first", tok.AccessToken)
	assert.FileExists(t, m.cachePath)
}

func TestTokenValidCredentialUntouched(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	writeCache(t, m, &oauth2.Token{
		AccessToken: "good",
		Expiry:      time.Now().Add(time.Hour),
	})
	m.refresh = func(ctx context.Context, conf *oauth2.Config, tok *oauth2.Token) (*oauth2.Token, error) {
		t.Fatal("refresh must not run for a valid credential")
		return nil, nil
	}
	m.authorize = func(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error) {
		t.Fatal("authorize must not run for a valid credential")
		return nil, nil
	}

	tok, conf, err := m.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "good", tok.AccessToken)
	assert.Equal(t, "client-id", conf.ClientID)
}

func TestTokenMissingClientSecretIsNotConfigured(t *testing.T) {
	t.Parallel()

	m := NewTokenManager(nil, filepath.Join(t.TempDir(), "missing.json"), filepath.Join(t.TempDir(), "token.json"))
	_, _, err := m.Token(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotConfigured))
}

func TestUploadNotConfiguredWithoutFolder(t *testing.T) {
	t.Parallel()

	svc := NewService(nil, newTestManager(t), "")
	assert.False(t, svc.Configured())

	_, err := svc.Upload(context.Background(), "whatever.mp3")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestViewLink(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://drive.google.com/file/d/abc123/view", ViewLink("abc123"))
}
