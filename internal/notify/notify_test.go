package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	name  string
	calls int
	err   error
}

func (f *fakeSender) Send(ctx context.Context, title, message string) error {
	f.calls++
	return f.err
}

func (f *fakeSender) Name() string { return f.name }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNotifierEventFilter(t *testing.T) {
	s := &fakeSender{name: "fake"}
	n := NewNotifier([]Sender{s}, []string{"refresh.complete"}, testLogger())

	require.NoError(t, n.Notify(context.Background(), "venue.error", "t", "m"))
	assert.Equal(t, 0, s.calls, "filtered event should not reach senders")

	require.NoError(t, n.Notify(context.Background(), "refresh.complete", "t", "m"))
	assert.Equal(t, 1, s.calls)

	// NotifyAll ignores the filter.
	require.NoError(t, n.NotifyAll(context.Background(), "t", "m"))
	assert.Equal(t, 2, s.calls)
}

func TestNotifierEmptyFilterAllowsAll(t *testing.T) {
	s := &fakeSender{name: "fake"}
	n := NewNotifier([]Sender{s}, nil, testLogger())

	require.NoError(t, n.Notify(context.Background(), "anything", "t", "m"))
	assert.Equal(t, 1, s.calls)
}

func TestNotifierPartialFailure(t *testing.T) {
	bad := &fakeSender{name: "bad", err: errors.New("boom")}
	good := &fakeSender{name: "good"}
	n := NewNotifier([]Sender{bad, good}, nil, testLogger())

	err := n.NotifyAll(context.Background(), "t", "m")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad: boom")
	assert.Equal(t, 1, good.calls, "failure of one sender must not skip the rest")
}

func TestTelegramSenderSend(t *testing.T) {
	var gotPath string
	var gotPayload map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewTelegramSender("tok123", "chat42")
	s.apiBase = srv.URL

	require.NoError(t, s.Send(context.Background(), "Refresh complete", "3 venues"))
	assert.Equal(t, "/bottok123/sendMessage", gotPath)
	assert.Equal(t, "chat42", gotPayload["chat_id"])
	assert.Equal(t, "*Refresh complete*\n3 venues", gotPayload["text"])
}

func TestTelegramSenderErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"ok":false}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	s := NewTelegramSender("bad", "chat")
	s.apiBase = srv.URL

	err := s.Send(context.Background(), "t", "m")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 401")
}

func TestDiscordSenderSend(t *testing.T) {
	var gotPayload map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	s := NewDiscordSender(srv.URL)

	require.NoError(t, s.Send(context.Background(), "Venue error", "bybit unreachable"))
	assert.Equal(t, "**Venue error**\nbybit unreachable", gotPayload["content"])
}
