package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"leadbot/internal/flow"
	"leadbot/internal/storage"
)

// TelegramAPI is the part of *tgbotapi.BotAPI used to talk back to users.
type TelegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// ChatMemberGetter is the part of *tgbotapi.BotAPI used for subscription checks.
type ChatMemberGetter interface {
	GetChatMember(config tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error)
}

// MembershipChecker reports a user's status in the configured channel.
type MembershipChecker interface {
	Status(ctx context.Context, userID int64) (flow.MemberStatus, error)
}

// Journal records released lead magnets. A nil Journal disables recording.
type Journal interface {
	RecordConversion(ctx context.Context, c storage.Conversion) (int64, error)
	ConversionStats(ctx context.Context) ([]storage.KeywordStat, error)
	ListConversions(ctx context.Context) ([]storage.Conversion, error)
}

var (
	_ TelegramAPI      = (*tgbotapi.BotAPI)(nil)
	_ ChatMemberGetter = (*tgbotapi.BotAPI)(nil)
	_ Journal          = (*storage.PostgresStorage)(nil)
)
