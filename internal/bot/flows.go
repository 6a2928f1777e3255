package bot

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/audrivebot/audrive/internal/drive"
)

// handleLink runs the audio flow: acquire, pick delivery paths, deliver,
// report, clean up. Direct-delivery failure never aborts the flow; the cloud
// attempt still runs when planned.
func (s *Service) handleLink(ctx context.Context, msg *tgbotapi.Message) {
	prog, err := newProgress(s.transport, s.logger, msg.Chat.ID, downloadingText)
	if err != nil {
		s.logger.Warn("could not create progress message",
			slog.Int64("chat_id", msg.Chat.ID),
			slog.Any("error", err))
		return
	}

	defer s.finishOnPanic(prog)

	res, err := s.acquirer.Acquire(ctx, strings.TrimSpace(msg.Text), s.downloadDir)
	if err != nil {
		prog.finish(fmt.Sprintf("❌ Download failed: %s", err), "")
		return
	}
	defer s.cleanup(res.Path)

	info, err := os.Stat(res.Path)
	if err != nil {
		prog.finish(fmt.Sprintf("❌ Something went wrong: %s", err), "")
		return
	}

	plan := Decide(info.Size(), s.uploader.Configured())

	directOK := false
	if plan.AttemptDirect {
		prog.update(sendingText)
		if err := s.transport.SendAudio(msg.Chat.ID, res.Path, res.Title, "🎵 "+res.Title); err != nil {
			s.logger.Warn("direct delivery failed",
				slog.Int64("chat_id", msg.Chat.ID),
				slog.Any("error", err))
		} else {
			directOK = true
		}
	}

	cloudOK := false
	var link string
	if plan.AttemptCloud {
		prog.update(uploadingText)
		fileID, err := s.uploader.Upload(ctx, res.Path)
		if err != nil {
			s.logger.Warn("drive upload failed",
				slog.Int64("chat_id", msg.Chat.ID),
				slog.Any("error", err))
		} else {
			cloudOK = true
			link = drive.ViewLink(fileID)
		}
	}

	prog.finish(audioFinalStatus(plan, directOK, cloudOK, info.Size(), link))
}

// handleDocument fetches an uploaded document from the transport and
// re-uploads it unchanged to the cloud folder.
func (s *Service) handleDocument(ctx context.Context, msg *tgbotapi.Message) {
	doc := msg.Document
	name := filepath.Base(doc.FileName)
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "document"
	}

	prog, err := newProgress(s.transport, s.logger, msg.Chat.ID,
		fmt.Sprintf("📥 Fetching %s (%.1f MB)...", name, sizeMB(int64(doc.FileSize))))
	if err != nil {
		s.logger.Warn("could not create progress message",
			slog.Int64("chat_id", msg.Chat.ID),
			slog.Any("error", err))
		return
	}

	defer s.finishOnPanic(prog)

	if err := os.MkdirAll(s.downloadDir, 0o755); err != nil {
		prog.finish(fmt.Sprintf("❌ Something went wrong: %s", err), "")
		return
	}
	localPath := filepath.Join(s.downloadDir, uuid.NewString()+"_"+name)

	if err := s.transport.FetchDocument(doc.FileID, localPath); err != nil {
		prog.finish(fmt.Sprintf("❌ Could not fetch the document: %s", err), "")
		return
	}
	defer s.cleanup(localPath)

	if !s.uploader.Configured() {
		prog.finish("⚠️ Drive is not configured. Set a Drive folder id to enable uploads.", "")
		return
	}

	prog.update(uploadingText)
	fileID, err := s.uploader.Upload(ctx, localPath)
	if err != nil {
		prog.finish("❌ Drive upload failed, check the Drive configuration.", "")
		return
	}

	prog.finish(fmt.Sprintf("✅ File uploaded!\n📚 %s\n🔗 [Drive link](%s)", name, drive.ViewLink(fileID)), tgbotapi.ModeMarkdown)
}

// finishOnPanic turns an unexpected panic inside a flow into one terminal
// status edit instead of a silently stuck progress message.
func (s *Service) finishOnPanic(prog *progress) {
	if r := recover(); r != nil {
		s.logger.Error("flow panicked", slog.Any("panic", r))
		prog.finish(fmt.Sprintf("❌ Something went wrong: %v", r), "")
	}
}

// cleanup removes a request's local file. Advisory: failures are logged,
// never surfaced, and always run after the terminal status edit.
func (s *Service) cleanup(path string) {
	if err := os.Remove(path); err != nil {
		s.logger.Warn("failed to remove temp file",
			slog.String("path", path),
			slog.Any("error", err))
	}
}
