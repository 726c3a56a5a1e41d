package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"leadbot/internal/config"
	"leadbot/internal/flow"
	"leadbot/internal/session"
)

type Bot struct {
	bot        *tgbotapi.BotAPI
	logger     *zap.Logger
	cfg        *config.Config
	dispatcher *Dispatcher
	admin      *AdminHandler
	mu         sync.Mutex
}

// New authorises against the Bot API and wires the flow. journal may be nil.
func New(
	cfg *config.Config,
	store session.Store,
	journal Journal,
	logger *zap.Logger,
) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPIWithClient(
		cfg.BotToken,
		tgbotapi.APIEndpoint,
		&http.Client{Timeout: cfg.HTTPTimeout},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	botAPI.Debug = cfg.Debug

	logger.Info("Bot authorized",
		zap.String("username", botAPI.Self.UserName),
		zap.Int64("id", botAPI.Self.ID))

	membership, err := NewTelegramMembership(botAPI, cfg.ChannelID, cfg.MembershipRetries, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to configure membership check: %w", err)
	}

	b := &Bot{
		bot:    botAPI,
		logger: logger,
		cfg:    cfg,
		dispatcher: NewDispatcher(
			flow.New(flow.LeadMagnets(cfg.Magnets), cfg.ChannelLink),
			store,
			botAPI,
			membership,
			journal,
			logger,
		),
	}
	if journal != nil {
		b.admin = NewAdminHandler(botAPI, journal, cfg.IsAdmin, logger)
	}
	return b, nil
}

func (b *Bot) Start(ctx context.Context) error {
	if b.cfg.Mode == config.ModeWebhook {
		return b.startWebhook(ctx)
	}
	return b.startPolling(ctx)
}

func (b *Bot) startPolling(ctx context.Context) error {
	b.logger.Info("Starting bot", zap.String("mode", config.ModePolling))

	// getUpdates is refused while a webhook is registered
	if _, err := b.bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	u.AllowedUpdates = []string{"message", "callback_query"}
	updates := b.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Shutting down bot")
			b.bot.StopReceivingUpdates()
			return nil

		case update, ok := <-updates:
			if !ok {
				return errors.New("updates channel closed")
			}
			b.HandleUpdate(ctx, update)
		}
	}
}

func (b *Bot) startWebhook(ctx context.Context) error {
	b.logger.Info("Starting bot",
		zap.String("mode", config.ModeWebhook),
		zap.String("listen", b.cfg.WebhookListen),
		zap.String("path", b.cfg.WebhookPath()))

	wh, err := tgbotapi.NewWebhook(b.cfg.WebhookURL)
	if err != nil {
		return fmt.Errorf("failed to build webhook config: %w", err)
	}
	wh.AllowedUpdates = []string{"message", "callback_query"}
	if _, err := b.bot.Request(wh); err != nil {
		return fmt.Errorf("failed to register webhook: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle(b.cfg.WebhookPath(), NewWebhookHandler(b.HandleUpdate, b.logger))

	srv := &http.Server{
		Addr:              b.cfg.WebhookListen,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		b.logger.Info("Shutting down bot")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("webhook server: %w", err)
	}
}

// HandleUpdate processes one update. Updates are handled one at a time.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	in, ok := NormalizeUpdate(update)
	if !ok {
		b.logger.Debug("Skipping update",
			zap.Int("update_id", update.UpdateID),
			zap.String("kind", updateKind(update)))
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if cmd, ok := in.Event.(flow.Command); ok && b.admin.Handle(ctx, cmd) {
		return
	}
	b.dispatcher.Dispatch(ctx, in)
}
