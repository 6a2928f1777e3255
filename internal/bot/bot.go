package bot

import (
	"context"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/audrivebot/audrive/internal/youtube"
)

// Acquirer produces a local MP3 plus display title for a video URL.
type Acquirer interface {
	Acquire(ctx context.Context, url, outputDir string) (youtube.Result, error)
}

// Uploader transfers a local file into the configured cloud folder.
type Uploader interface {
	Configured() bool
	Upload(ctx context.Context, localPath string) (string, error)
}

// Service is the conversation handler: it routes each inbound message by
// shape and drives the acquisition and upload adapters.
type Service struct {
	logger      *slog.Logger
	bot         *tgbotapi.BotAPI
	transport   transport
	acquirer    Acquirer
	uploader    Uploader
	downloadDir string
}

// NewService connects to the Telegram Bot API with the given token.
func NewService(log *slog.Logger, token string, acquirer Acquirer, uploader Uploader, downloadDir string) (*Service, error) {
	if log == nil {
		log = slog.Default()
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	log = log.With(slog.String("service", "bot"))
	log.Info("authorized", slog.String("username", api.Self.UserName))
	return &Service{
		logger:      log,
		bot:         api,
		transport:   &telegramTransport{bot: api},
		acquirer:    acquirer,
		uploader:    uploader,
		downloadDir: downloadDir,
	}, nil
}

// Run long-polls for updates until ctx is cancelled. Each update is handled
// on its own goroutine so a long download never blocks dispatch.
func (s *Service) Run(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := s.bot.GetUpdatesChan(updateConfig)

	for {
		select {
		case <-ctx.Done():
			s.bot.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				s.logger.Info("updates channel closed")
				return nil
			}
			if update.Message == nil {
				continue
			}
			go s.handleMessage(ctx, update.Message)
		}
	}
}

func (s *Service) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("message handler panicked",
				slog.Int64("chat_id", msg.Chat.ID),
				slog.Any("panic", r))
		}
	}()

	text := strings.TrimSpace(msg.Text)
	switch {
	case msg.IsCommand():
		s.handleCommand(msg)
	case msg.Document != nil:
		s.handleDocument(ctx, msg)
	case text != "" && youtube.IsSupportedLink(text):
		s.handleLink(ctx, msg)
	case strings.Contains(text, "http://") || strings.Contains(text, "https://"):
		// Unsupported links are ignored without a reply.
	case text != "":
		s.reply(msg.Chat.ID, unknownText, "")
	}
}

func (s *Service) handleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		s.reply(msg.Chat.ID, welcomeText, tgbotapi.ModeMarkdown)
	case "help":
		s.reply(msg.Chat.ID, helpText, tgbotapi.ModeMarkdown)
	default:
		s.logger.Debug("ignoring unknown command", slog.String("command", msg.Command()))
	}
}

func (s *Service) reply(chatID int64, text, parseMode string) {
	if _, err := s.transport.SendText(chatID, text, parseMode); err != nil {
		s.logger.Warn("reply failed",
			slog.Int64("chat_id", chatID),
			slog.Any("error", err))
	}
}
