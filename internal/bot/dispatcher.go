package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"leadbot/internal/flow"
	"leadbot/internal/session"
	"leadbot/internal/storage"
)

const internalErrorText = "Ошибка при обработке запроса. Попробуй ещё раз чуть позже."

// Dispatcher runs flow events against the session store and performs the
// resulting Telegram calls. It never returns errors: every failure is logged
// and, where the user is waiting for an answer, reported in chat.
type Dispatcher struct {
	flow       *flow.Flow
	store      session.Store
	api        TelegramAPI
	membership MembershipChecker
	journal    Journal
	logger     *zap.Logger
}

func NewDispatcher(
	f *flow.Flow,
	store session.Store,
	api TelegramAPI,
	membership MembershipChecker,
	journal Journal,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		flow:       f,
		store:      store,
		api:        api,
		membership: membership,
		journal:    journal,
		logger:     logger,
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, in Inbound) {
	userID, chatID := eventIDs(in.Event)

	sess, found, err := d.store.Get(ctx, userID)
	if err != nil {
		d.logger.Error("Failed to get user session",
			zap.Int64("user_id", userID),
			zap.Error(err))
		if act, ok := in.Event.(flow.Action); ok {
			d.answer(flow.AnswerAction{ActionID: act.ID})
		}
		d.sendError(chatID)
		return
	}

	d.logger.Debug("Processing event",
		zap.Int64("user_id", userID),
		zap.Int64("chat_id", chatID),
		zap.String("stage", string(sess.Stage())),
		zap.Bool("found", found))

	out := d.flow.Handle(sess, found, in.Event)
	if !d.apply(ctx, userID, chatID, out) || out.Check == nil {
		return
	}

	check := *out.Check
	status, err := d.membership.Status(ctx, userID)
	if err != nil {
		d.logger.Error("Failed to check channel membership",
			zap.Int64("user_id", userID),
			zap.String("keyword", check.Keyword),
			zap.Error(err))
		d.apply(ctx, userID, chatID, d.flow.VerifyFailed(check))
		return
	}

	d.logger.Info("Channel membership checked",
		zap.Int64("user_id", userID),
		zap.String("keyword", check.Keyword),
		zap.String("status", string(status)))

	result := d.flow.Verified(sess, check, status)
	if d.apply(ctx, userID, chatID, result) && result.Reward != nil {
		d.record(ctx, in, check, *result.Reward)
	}
}

// apply saves the session (when asked to) and then sends the replies. It
// reports false when the save failed and nothing was sent.
func (d *Dispatcher) apply(ctx context.Context, userID, chatID int64, out flow.Outcome) bool {
	if out.Save {
		if err := d.store.Save(ctx, userID, out.Session); err != nil {
			d.logger.Error("Failed to save user session",
				zap.Int64("user_id", userID),
				zap.Error(err))
			// acknowledgements still go out so the client stops spinning
			for _, r := range out.Replies {
				if a, ok := r.(flow.AnswerAction); ok {
					d.answer(a)
				}
			}
			d.sendError(chatID)
			return false
		}
	}

	for _, r := range out.Replies {
		switch r := r.(type) {
		case flow.SendText:
			d.sendMessage(renderText(r))
		case flow.AnswerAction:
			d.answer(r)
		}
	}
	return true
}

func (d *Dispatcher) record(ctx context.Context, in Inbound, check flow.MembershipCheck, reward flow.Reward) {
	if d.journal == nil {
		return
	}

	id, err := d.journal.RecordConversion(ctx, storage.Conversion{
		UserID:   check.UserID,
		ChatID:   check.ChatID,
		Username: in.Username,
		Keyword:  reward.Keyword,
		URL:      reward.URL,
	})
	if err != nil {
		d.logger.Error("Failed to record conversion",
			zap.Int64("user_id", check.UserID),
			zap.String("keyword", reward.Keyword),
			zap.Error(err))
		return
	}

	d.logger.Info("Conversion recorded",
		zap.Int64("conversion_id", id),
		zap.Int64("user_id", check.UserID),
		zap.String("keyword", reward.Keyword))
}

func (d *Dispatcher) sendMessage(msg tgbotapi.MessageConfig) {
	if _, err := d.api.Send(msg); err != nil {
		d.logger.Error("Failed to send message",
			zap.Int64("chat_id", msg.ChatID),
			zap.String("text", msg.Text),
			zap.Error(err))
	}
}

func (d *Dispatcher) answer(a flow.AnswerAction) {
	if _, err := d.api.Request(renderAnswer(a)); err != nil {
		d.logger.Error("Failed to answer callback",
			zap.String("callback_id", a.ActionID),
			zap.Error(err))
	}
}

func (d *Dispatcher) sendError(chatID int64) {
	if chatID == 0 {
		return
	}
	d.sendMessage(tgbotapi.NewMessage(chatID, "❌ "+internalErrorText))
}

func eventIDs(ev flow.Event) (userID, chatID int64) {
	switch e := ev.(type) {
	case flow.Command:
		return e.UserID, e.ChatID
	case flow.Text:
		return e.UserID, e.ChatID
	case flow.Action:
		return e.UserID, e.ChatID
	default:
		return 0, 0
	}
}
