package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"leadbot/internal/flow"
)

// BOT KEYBOARDS

func createConfirmKeyboard(btn flow.Button) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btn.Label, btn.Payload),
		),
	)
}

func renderText(r flow.SendText) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(r.ChatID, r.Text)
	msg.DisableWebPagePreview = r.DisablePreview
	if r.Button != nil {
		msg.ReplyMarkup = createConfirmKeyboard(*r.Button)
	}
	return msg
}

func renderAnswer(r flow.AnswerAction) tgbotapi.CallbackConfig {
	return tgbotapi.NewCallback(r.ActionID, r.Text)
}
