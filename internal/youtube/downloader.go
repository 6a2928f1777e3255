package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultBinary          = "yt-dlp"
	defaultProbeTimeout    = 1 * time.Minute
	defaultDownloadTimeout = 15 * time.Minute
)

// Result is a successful acquisition. Title is display-only and must never
// be assumed filesystem-safe.
type Result struct {
	Path  string
	Title string
}

// Downloader drives the external yt-dlp binary to produce an MP3 for a
// video URL.
type Downloader struct {
	logger          *slog.Logger
	binary          string
	probeTimeout    time.Duration
	downloadTimeout time.Duration
}

// NewDownloader creates a Downloader using the yt-dlp binary on PATH.
func NewDownloader(log *slog.Logger) *Downloader {
	if log == nil {
		log = slog.Default()
	}
	return &Downloader{
		logger:          log.With(slog.String("service", "youtube")),
		binary:          defaultBinary,
		probeTimeout:    defaultProbeTimeout,
		downloadTimeout: defaultDownloadTimeout,
	}
}

// Acquire downloads the best audio stream of url, transcodes it to MP3 at
// 192 kbps into outputDir and resolves the file the tool actually wrote.
// Tool failures are returned verbatim, with no retry.
func (d *Downloader) Acquire(ctx context.Context, url, outputDir string) (Result, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create output dir: %w", err)
	}

	title, err := d.probeTitle(ctx, url)
	if err != nil {
		return Result{}, err
	}

	started := time.Now()
	if err := d.download(ctx, url, outputDir); err != nil {
		return Result{}, err
	}

	path, err := resolveOutput(outputDir, title, started)
	if err != nil {
		return Result{}, err
	}

	d.logger.Info("audio acquired",
		slog.String("title", title),
		slog.String("path", path))
	return Result{Path: path, Title: title}, nil
}

func (d *Downloader) probeTitle(ctx context.Context, url string) (string, error) {
	probeCtx, cancel := context.WithTimeout(ctx, d.probeTimeout)
	defer cancel()

	cmd := exec.CommandContext(probeCtx, d.binary, "-J", "--no-warnings", "--skip-download", url)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", toolError(err, stderr.String())
	}

	var info struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &info); err != nil {
		return "", fmt.Errorf("parse video metadata: %w", err)
	}
	if strings.TrimSpace(info.Title) == "" {
		return "audio", nil
	}
	return info.Title, nil
}

func (d *Downloader) download(ctx context.Context, url, outputDir string) error {
	dlCtx, cancel := context.WithTimeout(ctx, d.downloadTimeout)
	defer cancel()

	cmd := exec.CommandContext(dlCtx, d.binary,
		"-x",
		"--audio-format", "mp3",
		"--audio-quality", "192K",
		"--no-playlist",
		"--no-warnings",
		"-o", filepath.Join(outputDir, "%(title)s.%(ext)s"),
		url,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return toolError(err, stderr.String())
	}
	return nil
}

// toolError surfaces the tool's own error text when it produced any, so the
// user sees the extraction failure reason rather than an exit code.
func toolError(err error, stderr string) error {
	if msg := strings.TrimSpace(stderr); msg != "" {
		return errors.New(msg)
	}
	return err
}
