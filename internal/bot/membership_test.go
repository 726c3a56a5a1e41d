package bot

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"leadbot/internal/flow"
)

type fakeMemberGetter struct {
	statuses []string
	errs     []error
	requests []tgbotapi.GetChatMemberConfig
}

func (f *fakeMemberGetter) GetChatMember(cfg tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error) {
	i := len(f.requests)
	f.requests = append(f.requests, cfg)

	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	if err != nil {
		return tgbotapi.ChatMember{}, err
	}
	return tgbotapi.ChatMember{Status: f.statuses[i]}, nil
}

func newTestMembership(t *testing.T, api ChatMemberGetter, channel string, retries int) *TelegramMembership {
	t.Helper()
	m, err := NewTelegramMembership(api, channel, retries, zap.NewNop())
	require.NoError(t, err)
	m.newBackOff = func() backoff.BackOff { return backoff.NewConstantBackOff(time.Millisecond) }
	return m
}

func TestParseChannelID(t *testing.T) {
	cfg, err := parseChannelID("-1001234567890")
	require.NoError(t, err)
	require.Equal(t, int64(-1001234567890), cfg.ChatID)

	cfg, err = parseChannelID("@mindgate")
	require.NoError(t, err)
	require.Equal(t, "@mindgate", cfg.SuperGroupUsername)

	for _, bad := range []string{"", "@", "mindgate", "https://t.me/mindgate"} {
		_, err := parseChannelID(bad)
		require.Error(t, err, bad)
	}
}

func TestMembershipStatus(t *testing.T) {
	api := &fakeMemberGetter{statuses: []string{"administrator"}}
	m := newTestMembership(t, api, "-1001234567890", 2)

	status, err := m.Status(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, flow.StatusAdministrator, status)

	require.Len(t, api.requests, 1)
	require.Equal(t, int64(-1001234567890), api.requests[0].ChatID)
	require.Equal(t, int64(42), api.requests[0].UserID)
}

func TestMembershipRetriesTransientErrors(t *testing.T) {
	timeout := &net.OpError{Op: "dial", Net: "tcp", Err: &net.DNSError{IsTimeout: true}}
	api := &fakeMemberGetter{
		statuses: []string{"", "", "member"},
		errs:     []error{timeout, &tgbotapi.Error{Code: 429, ResponseParameters: tgbotapi.ResponseParameters{RetryAfter: 1}}},
	}
	m := newTestMembership(t, api, "@mindgate", 2)

	status, err := m.Status(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, flow.StatusMember, status)
	require.Len(t, api.requests, 3)
}

func TestMembershipPermanentError(t *testing.T) {
	apiErr := &tgbotapi.Error{Code: 400, Message: "Bad Request: member list is inaccessible"}
	api := &fakeMemberGetter{errs: []error{apiErr}}
	m := newTestMembership(t, api, "@mindgate", 3)

	_, err := m.Status(context.Background(), 42)
	require.Error(t, err)
	require.ErrorIs(t, err, apiErr)
	require.Len(t, api.requests, 1)
}

func TestMembershipGivesUpAfterRetries(t *testing.T) {
	apiErr := &tgbotapi.Error{Code: 502, Message: "Bad Gateway"}
	api := &fakeMemberGetter{errs: []error{apiErr, apiErr, apiErr, apiErr}}
	m := newTestMembership(t, api, "@mindgate", 1)

	_, err := m.Status(context.Background(), 42)
	require.Error(t, err)
	require.Len(t, api.requests, 2)
}

func TestShouldRetry(t *testing.T) {
	require.False(t, shouldRetry(nil))
	require.False(t, shouldRetry(errBoom))
	require.False(t, shouldRetry(&tgbotapi.Error{Code: 403}))
	require.True(t, shouldRetry(&tgbotapi.Error{Code: 500}))
	require.True(t, shouldRetry(&net.OpError{Op: "dial", Err: errBoom}))
}
