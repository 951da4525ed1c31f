package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasSuffix(r.URL.Path, "/getChat"))
		require.Equal(t, "-100", r.URL.Query().Get("chat_id"))
		w.Write([]byte(`{"ok":true,"result":{"id":-100,"type":"channel","title":"News","username":"news"}}`))
	}))
	defer srv.Close()

	client := NewClientWithURL("test-token", srv.URL)
	chat, err := client.GetChat(context.Background(), -100)
	require.NoError(t, err)
	require.Equal(t, int64(-100), chat.ID)
	require.Equal(t, "News", chat.Title)
	require.Equal(t, "channel", chat.Type)
}

func TestGetChatAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"description":"Bad Request: chat not found"}`))
	}))
	defer srv.Close()

	client := NewClientWithURL("test-token", srv.URL)
	_, err := client.GetChat(context.Background(), -42)
	require.ErrorContains(t, err, "chat not found")
}
