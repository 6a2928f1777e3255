package drive

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"time"

	driveapi "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	uploadChunkSize      = 1 << 20 // resumable upload chunk
	defaultUploadTimeout = 30 * time.Minute
)

// Service uploads local files into a fixed Drive folder.
type Service struct {
	logger        *slog.Logger
	tokens        *TokenManager
	folderID      string
	uploadTimeout time.Duration
}

// NewService creates a Drive upload service. An empty folderID leaves the
// service in the not-configured state: Upload fails fast and no credential
// is ever touched.
func NewService(log *slog.Logger, tokens *TokenManager, folderID string) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		logger:        log.With(slog.String("service", "drive")),
		tokens:        tokens,
		folderID:      folderID,
		uploadTimeout: defaultUploadTimeout,
	}
}

// Configured reports whether a destination folder is set.
func (s *Service) Configured() bool {
	return s != nil && s.folderID != ""
}

// Upload performs a chunked resumable upload of localPath into the configured
// folder and returns the created object id. The local file is left in place
// for the caller to clean up.
func (s *Service) Upload(ctx context.Context, localPath string) (string, error) {
	if !s.Configured() {
		return "", ErrNotConfigured
	}

	tok, conf, err := s.tokens.Token(ctx)
	if err != nil {
		return "", err
	}

	uploadCtx, cancel := context.WithTimeout(ctx, s.uploadTimeout)
	defer cancel()

	svc, err := driveapi.NewService(uploadCtx, option.WithHTTPClient(conf.Client(uploadCtx, tok)))
	if err != nil {
		return "", fmt.Errorf("create drive client: %w", err)
	}

	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", localPath, err)
	}
	defer f.Close()

	name := filepath.Base(localPath)
	mimeType := mime.TypeByExtension(filepath.Ext(name))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	created, err := svc.Files.Create(&driveapi.File{
		Name:    name,
		Parents: []string{s.folderID},
	}).
		Media(f, googleapi.ChunkSize(uploadChunkSize), googleapi.ContentType(mimeType)).
		Fields("id").
		Context(uploadCtx).
		Do()
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}

	s.logger.Info("file uploaded",
		slog.String("name", name),
		slog.String("file_id", created.Id))
	return created.Id, nil
}

// ViewLink builds the shareable viewer URL for an uploaded file.
func ViewLink(fileID string) string {
	return "https://drive.google.com/file/d/" + fileID + "/view"
}
