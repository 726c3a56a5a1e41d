package bot

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"leadbot/internal/flow"
)

// Inbound is a normalised update plus the sender details kept for logging
// and the conversion journal.
type Inbound struct {
	Event    flow.Event
	Username string
}

// NormalizeUpdate converts a raw update into a flow event. Updates the bot
// does not react to (channel posts, stickers, edits) are reported as !ok.
func NormalizeUpdate(update tgbotapi.Update) (Inbound, bool) {
	switch {
	case update.Message != nil:
		return normalizeMessage(update.Message)
	case update.CallbackQuery != nil:
		return normalizeCallback(update.CallbackQuery), true
	default:
		return Inbound{}, false
	}
}

func normalizeMessage(msg *tgbotapi.Message) (Inbound, bool) {
	if msg.From == nil || msg.Chat == nil {
		return Inbound{}, false
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return Inbound{}, false
	}

	in := Inbound{Username: msg.From.UserName}
	if name, ok := commandName(msg, text); ok {
		in.Event = flow.Command{UserID: msg.From.ID, ChatID: msg.Chat.ID, Name: name}
		return in, true
	}

	in.Event = flow.Text{UserID: msg.From.ID, ChatID: msg.Chat.ID, Body: text}
	return in, true
}

// commandName prefers the bot_command entity and falls back to a leading
// slash, so "/start" typed without entities still counts.
func commandName(msg *tgbotapi.Message, text string) (string, bool) {
	if msg.IsCommand() {
		return msg.Command(), true
	}
	if !strings.HasPrefix(text, "/") {
		return "", false
	}

	name := strings.TrimPrefix(strings.Fields(text)[0], "/")
	name, _, _ = strings.Cut(name, "@")
	return name, true
}

func normalizeCallback(q *tgbotapi.CallbackQuery) Inbound {
	act := flow.Action{ID: q.ID, Payload: q.Data}
	in := Inbound{}

	if q.From != nil {
		act.UserID = q.From.ID
		in.Username = q.From.UserName
	}
	if q.Message != nil && q.Message.Chat != nil {
		act.ChatID = q.Message.Chat.ID
	}

	in.Event = act
	return in
}

// updateKind is used in logs only.
func updateKind(update tgbotapi.Update) string {
	switch {
	case update.Message != nil:
		return "message"
	case update.CallbackQuery != nil:
		return "callback_query"
	default:
		return "other"
	}
}
