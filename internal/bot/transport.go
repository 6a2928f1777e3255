package bot

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// transport is the narrow chat-platform surface the flows need. Kept small
// so tests can drive the flows with a fake.
type transport interface {
	SendText(chatID int64, text, parseMode string) (messageID int, err error)
	EditText(chatID int64, messageID int, text, parseMode string) error
	SendAudio(chatID int64, path, title, caption string) error
	FetchDocument(fileID, destPath string) error
}

type telegramTransport struct {
	bot *tgbotapi.BotAPI
}

func (t *telegramTransport) SendText(chatID int64, text, parseMode string) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = parseMode
	sent, err := t.bot.Send(msg)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

// EditText edits a message in place. A "message is not modified" response is
// treated as success, the content is already what we wanted.
func (t *telegramTransport) EditText(chatID int64, messageID int, text, parseMode string) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = parseMode
	_, err := t.bot.Send(edit)
	if err != nil && strings.Contains(err.Error(), "message is not modified") {
		return nil
	}
	return err
}

func (t *telegramTransport) SendAudio(chatID int64, path, title, caption string) error {
	audio := tgbotapi.NewAudio(chatID, tgbotapi.FilePath(path))
	audio.Title = title
	audio.Caption = caption
	_, err := t.bot.Send(audio)
	return err
}

func (t *telegramTransport) FetchDocument(fileID, destPath string) error {
	url, err := t.bot.GetFileDirectURL(fileID)
	if err != nil {
		return fmt.Errorf("resolve file url: %w", err)
	}

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("fetch document: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch document: unexpected status %s", resp.Status)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", destPath, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("write %s: %w", destPath, err)
	}
	return nil
}
