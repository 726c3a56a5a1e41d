package bot

import (
	"context"
	"encoding/json"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// WebhookHandler receives updates pushed by Telegram. Updates are processed
// before the response is written, so Telegram redelivers on a crash. Bodies
// that do not decode are still answered with 200 so they are not redelivered.
type WebhookHandler struct {
	handle func(context.Context, tgbotapi.Update)
	logger *zap.Logger
}

func NewWebhookHandler(handle func(context.Context, tgbotapi.Update), logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		handle: handle,
		logger: logger,
	}
}

func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
		return
	}

	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.logger.Warn("Failed to decode webhook update", zap.Error(err))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
		return
	}

	h.logger.Debug("Incoming update",
		zap.Int("update_id", update.UpdateID),
		zap.String("kind", updateKind(update)))

	h.handle(context.WithoutCancel(r.Context()), update)

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
