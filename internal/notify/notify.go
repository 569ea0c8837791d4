// Package notify alerts moderators about new reports through a Telegram chat.
package notify

import (
	"context"
	"fmt"
	"strings"

	"childguard/backend/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const queueSize = 64

// Notifier is told about every stored report.
type Notifier interface {
	NotifyReport(notice models.ReportNotice)
}

// Nop discards notices.
type Nop struct{}

func (Nop) NotifyReport(models.ReportNotice) {}

// Sender is the part of *tgbotapi.BotAPI the notifier needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier queues notices and sends them to one moderator chat from
// its own goroutine so request handlers never wait on Telegram.
type TelegramNotifier struct {
	bot    Sender
	chatID int64
	queue  chan models.ReportNotice
	logger *zap.Logger
}

// NewTelegramNotifier authorizes the bot token against the Telegram API.
func NewTelegramNotifier(token string, chatID int64, logger *zap.Logger) (*TelegramNotifier, *tgbotapi.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, nil, fmt.Errorf("telegram authorization: %w", err)
	}
	bot.Debug = false
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("telegram bot authorized", zap.String("account", bot.Self.UserName))
	return NewWithSender(bot, chatID, logger), bot, nil
}

func NewWithSender(sender Sender, chatID int64, logger *zap.Logger) *TelegramNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TelegramNotifier{
		bot:    sender,
		chatID: chatID,
		queue:  make(chan models.ReportNotice, queueSize),
		logger: logger,
	}
}

// NotifyReport enqueues the notice. A full queue drops it with a warning.
func (n *TelegramNotifier) NotifyReport(notice models.ReportNotice) {
	select {
	case n.queue <- notice:
	default:
		n.logger.Warn("notification queue full, dropping notice", zap.String("report_id", notice.ID))
	}
}

// Run sends queued notices until ctx is done.
func (n *TelegramNotifier) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case notice := <-n.queue:
			msg := tgbotapi.NewMessage(n.chatID, FormatNotice(notice))
			if _, err := n.bot.Send(msg); err != nil {
				n.logger.Error("failed to send telegram notice",
					zap.String("report_id", notice.ID), zap.Error(err))
			}
		}
	}
}

// FormatNotice renders a notice as plain text. Report contents are user input,
// so no parse mode is used.
func FormatNotice(notice models.ReportNotice) string {
	var b strings.Builder
	b.WriteString("New child abuse report\n")
	fmt.Fprintf(&b, "ID: %s\n", notice.ID)
	fmt.Fprintf(&b, "Category: %s\n", notice.NatureOfAbuse)
	if notice.Location != "" {
		fmt.Fprintf(&b, "Location: %s\n", notice.Location)
	}
	fmt.Fprintf(&b, "Evidence files: %d", notice.EvidenceCount)
	if !notice.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "\nReceived: %s", notice.CreatedAt.UTC().Format("2006-01-02 15:04 MST"))
	}
	return b.String()
}
