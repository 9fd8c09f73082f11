package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTelegramNotifier_Send(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottoken/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, `{"ok": true}`)
	}))
	defer srv.Close()

	tn := &TelegramNotifier{BaseURL: srv.URL, BotToken: "token", ChatID: "42", Client: srv.Client()}
	require.NoError(t, tn.Send(context.Background(), "<b>hi</b>"))
	assert.Equal(t, map[string]string{"chat_id": "42", "text": "<b>hi</b>", "parse_mode": "HTML"}, got)
}

func TestTelegramNotifier_SendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"ok": false}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	tn := &TelegramNotifier{BaseURL: srv.URL, BotToken: "token", ChatID: "42", Client: srv.Client()}
	assert.ErrorContains(t, tn.Send(context.Background(), "x"), "status 400")
}

func TestSendWithRetry(t *testing.T) {
	calls := 0
	flaky := func(context.Context, string) error {
		calls++
		if calls < 3 {
			return errors.New("flaky")
		}
		return nil
	}
	require.NoError(t, sendWithRetry(context.Background(), flaky, "x", 3, time.Millisecond))
	assert.Equal(t, 3, calls)

	calls = 0
	broken := func(context.Context, string) error { calls++; return errors.New("down") }
	err := sendWithRetry(context.Background(), broken, "x", 2, time.Millisecond)
	assert.ErrorContains(t, err, "all 3 retries exhausted")
	assert.Equal(t, 3, calls)
}

func TestSendWithRetry_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := sendWithRetry(ctx, func(context.Context, string) error { return errors.New("down") }, "x", 3, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPollOnce(t *testing.T) {
	var sent []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bottoken/getUpdates":
			assert.Equal(t, "7", r.URL.Query().Get("offset"))
			fmt.Fprint(w, `{"ok": true, "result": [
				{"update_id": 7, "message": {"text": " /fx "}},
				{"update_id": 8},
				{"update_id": 9, "message": {"text": "/silent"}}
			]}`)
		case "/bottoken/sendMessage":
			var payload map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			sent = append(sent, payload["text"])
			fmt.Fprint(w, `{"ok": true}`)
		}
	}))
	defer srv.Close()

	tn := &TelegramNotifier{BaseURL: srv.URL, BotToken: "token", ChatID: "42", Client: srv.Client()}
	var commands []string
	next, err := tn.pollOnce(context.Background(), srv.Client(), 7, func(cmd string) string {
		commands = append(commands, cmd)
		if cmd == "/fx" {
			return "rates"
		}
		return ""
	})
	require.NoError(t, err)
	assert.Equal(t, 10, next)
	assert.Equal(t, []string{"/fx", "/silent"}, commands)
	assert.Equal(t, []string{"rates"}, sent)
}
