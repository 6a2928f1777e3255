package bot

import "log/slog"

// progress is the single status message owned by one request. It is created
// once and then edited in place through every stage, so the user sees one
// live line instead of a stream of messages. Update failures are logged and
// swallowed: a missed status edit must never abort the flow itself.
type progress struct {
	transport transport
	logger    *slog.Logger
	chatID    int64
	messageID int
}

func newProgress(t transport, log *slog.Logger, chatID int64, text string) (*progress, error) {
	id, err := t.SendText(chatID, text, "")
	if err != nil {
		return nil, err
	}
	return &progress{transport: t, logger: log, chatID: chatID, messageID: id}, nil
}

func (p *progress) update(text string) {
	p.edit(text, "")
}

// finish writes the terminal status. Every flow ends in exactly one finish.
func (p *progress) finish(text, parseMode string) {
	p.edit(text, parseMode)
}

func (p *progress) edit(text, parseMode string) {
	if err := p.transport.EditText(p.chatID, p.messageID, text, parseMode); err != nil {
		p.logger.Warn("progress edit failed",
			slog.Int64("chat_id", p.chatID),
			slog.Int("message_id", p.messageID),
			slog.Any("error", err))
	}
}
