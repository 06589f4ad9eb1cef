package notification

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTelegramNotifier(t *testing.T) {
	var gotPath, gotChat, gotText string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseForm())
		gotChat = r.PostForm.Get("chat_id")
		gotText = r.PostForm.Get("text")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := NewTelegramNotifier("bot-token", "42", zap.NewNop())
	n.apiURL = server.URL

	require.NoError(t, n.SendNotification(context.Background(), "hello"))
	assert.Equal(t, "/botbot-token/sendMessage", gotPath)
	assert.Equal(t, "42", gotChat)
	assert.Equal(t, "hello", gotText)
}

func TestTelegramNotifierNonOK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	n := NewTelegramNotifier("bad", "42", zap.NewNop())
	n.apiURL = server.URL

	assert.Error(t, n.SendNotification(context.Background(), "hello"))
}

func TestNewNotifier(t *testing.T) {
	assert.IsType(t, NoopNotifier{}, NewNotifier("", "42", zap.NewNop()))
	assert.IsType(t, NoopNotifier{}, NewNotifier("token", "", zap.NewNop()))
	assert.IsType(t, &TelegramNotifier{}, NewNotifier("token", "42", zap.NewNop()))
}
