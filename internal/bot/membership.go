package bot

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"leadbot/internal/flow"
)

// TelegramMembership checks channel membership through getChatMember. The
// bot has to be an administrator of the channel for this to work.
type TelegramMembership struct {
	api     ChatMemberGetter
	channel tgbotapi.ChatConfigWithUser
	retries uint64
	logger  *zap.Logger

	newBackOff func() backoff.BackOff
}

func NewTelegramMembership(api ChatMemberGetter, channelID string, retries int, logger *zap.Logger) (*TelegramMembership, error) {
	channel, err := parseChannelID(channelID)
	if err != nil {
		return nil, err
	}
	if retries < 0 {
		retries = 0
	}

	return &TelegramMembership{
		api:     api,
		channel: channel,
		retries: uint64(retries),
		logger:  logger,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 300 * time.Millisecond
			b.MaxInterval = 2 * time.Second
			return b
		},
	}, nil
}

// parseChannelID accepts a numeric id (-100xxxxxxxxxx) or a public @username.
func parseChannelID(channelID string) (tgbotapi.ChatConfigWithUser, error) {
	channelID = strings.TrimSpace(channelID)
	if id, err := strconv.ParseInt(channelID, 10, 64); err == nil {
		return tgbotapi.ChatConfigWithUser{ChatID: id}, nil
	}
	if strings.HasPrefix(channelID, "@") && len(channelID) > 1 {
		return tgbotapi.ChatConfigWithUser{SuperGroupUsername: channelID}, nil
	}
	return tgbotapi.ChatConfigWithUser{}, fmt.Errorf("invalid channel id %q", channelID)
}

func (m *TelegramMembership) Status(ctx context.Context, userID int64) (flow.MemberStatus, error) {
	req := tgbotapi.GetChatMemberConfig{ChatConfigWithUser: m.channel}
	req.UserID = userID

	var member tgbotapi.ChatMember
	operation := func() error {
		var err error
		member, err = m.api.GetChatMember(req)
		if err == nil {
			return nil
		}
		if !shouldRetry(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(m.newBackOff(), m.retries), ctx)
	err := backoff.RetryNotify(operation, policy, func(err error, next time.Duration) {
		m.logger.Warn("getChatMember failed, retrying...",
			zap.Int64("user_id", userID),
			zap.Error(err),
			zap.Duration("next_attempt_in", next))
	})
	if err != nil {
		return "", fmt.Errorf("get chat member: %w", err)
	}

	return flow.ParseMemberStatus(member.Status), nil
}

// shouldRetry reports whether a getChatMember error is transient: network
// timeouts, failed dials and Telegram flood-control responses.
func shouldRetry(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.RetryAfter > 0 || apiErr.Code >= 500
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return true
	}

	return false
}
