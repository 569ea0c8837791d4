package notify

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"childguard/backend/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// ReportStats is the storage the moderator commands read from.
type ReportStats interface {
	CountReportsByCategory() (map[string]int64, error)
	ListReports(limit, offset int) ([]models.Report, error)
}

const latestCount = 5

// HandleCommand answers /stats and /latest in the moderator chat. Messages
// from any other chat are ignored.
func HandleCommand(update *tgbotapi.Update, moderatorChat int64, s ReportStats, bot Sender, logger *zap.Logger) {
	if update.Message == nil || update.Message.Chat.ID != moderatorChat {
		return
	}

	var responseText string
	switch update.Message.Command() {
	case "stats":
		counts, err := s.CountReportsByCategory()
		if err != nil {
			logger.Error("failed to count reports", zap.Error(err))
			responseText = "Could not load report statistics."
		} else {
			responseText = formatStats(counts)
		}
	case "latest":
		reports, err := s.ListReports(latestCount, 0)
		if err != nil {
			logger.Error("failed to list reports", zap.Error(err))
			responseText = "Could not load the latest reports."
		} else {
			responseText = formatLatest(reports)
		}
	default:
		return
	}

	msg := tgbotapi.NewMessage(update.Message.Chat.ID, responseText)
	if _, err := bot.Send(msg); err != nil {
		logger.Error("failed to send command reply", zap.Error(err))
	}
}

// ListenCommands polls bot updates until ctx is done.
func ListenCommands(ctx context.Context, bot *tgbotapi.BotAPI, moderatorChat int64, s ReportStats, logger *zap.Logger) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := bot.GetUpdatesChan(u)
	defer bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			HandleCommand(&update, moderatorChat, s, bot, logger)
		}
	}
}

func formatStats(counts map[string]int64) string {
	if len(counts) == 0 {
		return "No reports yet."
	}
	categories := make([]string, 0, len(counts))
	var total int64
	for category, n := range counts {
		categories = append(categories, category)
		total += n
	}
	sort.Strings(categories)

	var b strings.Builder
	fmt.Fprintf(&b, "Reports: %d", total)
	for _, category := range categories {
		fmt.Fprintf(&b, "\n%s: %d", category, counts[category])
	}
	return b.String()
}

func formatLatest(reports []models.Report) string {
	if len(reports) == 0 {
		return "No reports yet."
	}
	lines := make([]string, 0, len(reports))
	for _, r := range reports {
		lines = append(lines, fmt.Sprintf("%s  %s  %s", r.CreatedAt.UTC().Format("2006-01-02 15:04"), r.NatureOfAbuse, r.ID))
	}
	return strings.Join(lines, "\n")
}
