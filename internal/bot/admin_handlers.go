package bot

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"leadbot/internal/flow"
	"leadbot/internal/storage"
)

// AdminHandler serves /stats and /export for the ids in ADMIN_IDS.
type AdminHandler struct {
	api     TelegramAPI
	journal Journal
	isAdmin func(userID int64) bool
	logger  *zap.Logger
	now     func() time.Time
}

func NewAdminHandler(api TelegramAPI, journal Journal, isAdmin func(int64) bool, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		api:     api,
		journal: journal,
		isAdmin: isAdmin,
		logger:  logger,
		now:     time.Now,
	}
}

// Handle reports whether the command was an admin command and was consumed.
// Non-admins fall through to the regular flow, which ignores the command.
func (h *AdminHandler) Handle(ctx context.Context, cmd flow.Command) bool {
	if h == nil || h.journal == nil || !h.isAdmin(cmd.UserID) {
		return false
	}

	switch cmd.Name {
	case "stats":
		h.handleStats(ctx, cmd.ChatID)
	case "export":
		h.handleExport(ctx, cmd.ChatID)
	default:
		return false
	}
	return true
}

func (h *AdminHandler) handleStats(ctx context.Context, chatID int64) {
	stats, err := h.journal.ConversionStats(ctx)
	if err != nil {
		h.logger.Error("Failed to get conversion stats", zap.Error(err))
		h.send(tgbotapi.NewMessage(chatID, "❌ Ошибка при получении статистики"))
		return
	}

	h.send(tgbotapi.NewMessage(chatID, formatStats(stats)))
}

func (h *AdminHandler) handleExport(ctx context.Context, chatID int64) {
	conversions, err := h.journal.ListConversions(ctx)
	if err != nil {
		h.logger.Error("Failed to list conversions", zap.Error(err))
		h.send(tgbotapi.NewMessage(chatID, "❌ Ошибка при выгрузке"))
		return
	}

	var buf bytes.Buffer
	if err := storage.WriteConversionsXLSX(&buf, conversions); err != nil {
		h.logger.Error("Failed to build export", zap.Error(err))
		h.send(tgbotapi.NewMessage(chatID, "❌ Ошибка при выгрузке"))
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("conversions_%s.xlsx", h.now().Format("20060102_150405")),
		Bytes: buf.Bytes(),
	})
	doc.Caption = fmt.Sprintf("📦 Выгрузка: %d записей", len(conversions))
	h.send(doc)
}

func (h *AdminHandler) send(c tgbotapi.Chattable) {
	if _, err := h.api.Send(c); err != nil {
		h.logger.Error("Failed to send admin reply", zap.Error(err))
	}
}

func formatStats(stats []storage.KeywordStat) string {
	if len(stats) == 0 {
		return "📊 Пока нет ни одной выдачи бонуса."
	}

	var (
		sb    strings.Builder
		total int64
	)
	sb.WriteString("📊 Выдачи бонусов по ключевым словам:\n\n")
	for _, s := range stats {
		total += s.Conversions
		fmt.Fprintf(&sb, "• %s — %d (уникальных: %d), последняя %s\n",
			s.Keyword, s.Conversions, s.Users, s.LastAt.Format("02.01.2006 15:04"))
	}
	fmt.Fprintf(&sb, "\nВсего: %d", total)
	return sb.String()
}
