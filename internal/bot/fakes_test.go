package bot

import (
	"context"
	"errors"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"leadbot/internal/flow"
	"leadbot/internal/storage"
)

type fakeAPI struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	sendErr  error
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, f.sendErr
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) messages() []tgbotapi.MessageConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []tgbotapi.MessageConfig
	for _, c := range f.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeAPI) callbacks() []tgbotapi.CallbackConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []tgbotapi.CallbackConfig
	for _, c := range f.requests {
		if cb, ok := c.(tgbotapi.CallbackConfig); ok {
			out = append(out, cb)
		}
	}
	return out
}

func (f *fakeAPI) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = nil
	f.requests = nil
}

type fakeMembership struct {
	status flow.MemberStatus
	err    error
	calls  int
}

func (f *fakeMembership) Status(_ context.Context, _ int64) (flow.MemberStatus, error) {
	f.calls++
	return f.status, f.err
}

type fakeJournal struct {
	recorded    []storage.Conversion
	stats       []storage.KeywordStat
	conversions []storage.Conversion
	err         error
}

func (f *fakeJournal) RecordConversion(_ context.Context, c storage.Conversion) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.recorded = append(f.recorded, c)
	return int64(len(f.recorded)), nil
}

func (f *fakeJournal) ConversionStats(context.Context) ([]storage.KeywordStat, error) {
	return f.stats, f.err
}

func (f *fakeJournal) ListConversions(context.Context) ([]storage.Conversion, error) {
	return f.conversions, f.err
}

// failingStore fails every call with err.
type failingStore struct {
	getErr  error
	saveErr error
	sess    flow.Session
	found   bool
}

func (s *failingStore) Get(context.Context, int64) (flow.Session, bool, error) {
	return s.sess, s.found, s.getErr
}

func (s *failingStore) Save(context.Context, int64, flow.Session) error {
	return s.saveErr
}

var errBoom = errors.New("boom")
